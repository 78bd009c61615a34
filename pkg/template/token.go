package template

// TokenKind discriminates the token variants produced by Tokenize.
type TokenKind int

const (
	// TokenLiteral is raw template text reproduced verbatim in the output.
	TokenLiteral TokenKind = iota
	// TokenTag is a {% name ... %} substitution.
	TokenTag
	// TokenForStart opens a {% for ... %} block.
	TokenForStart
	// TokenForEnd is the {% endfor %} closing a block.
	TokenForEnd
)

// Token is one element of a tokenized template. Exactly one of Text, Tag,
// or Loop is meaningful, selected by Kind.
type Token struct {
	Kind TokenKind
	Text string      // TokenLiteral
	Tag  *TagContent // TokenTag
	Loop *ForLoop    // TokenForStart
}

// TagContent is the parsed inside of a non-control tag.
type TagContent struct {
	Name   string
	Params map[string]string
	Pipe   string // empty when the tag has no pipe
}

// ForLoop is the parsed header of a for-block.
type ForLoop struct {
	Var      string
	Iterable Iterable
	Params   map[string]string // loop-level params, e.g. limit:3
}

// IterableKind discriminates the two for-loop sources.
type IterableKind int

const (
	IterableRange IterableKind = iota
	IterableCollection
)

// Iterable describes what a for-loop walks: an inclusive integer range or a
// named collection from the render context.
type Iterable struct {
	Kind IterableKind

	Start, End int64 // IterableRange

	Name string // IterableCollection
}

func literalToken(text string) Token {
	return Token{Kind: TokenLiteral, Text: text}
}

func tagToken(tag *TagContent) Token {
	return Token{Kind: TokenTag, Tag: tag}
}

func forStartToken(loop *ForLoop) Token {
	return Token{Kind: TokenForStart, Loop: loop}
}

func forEndToken() Token {
	return Token{Kind: TokenForEnd}
}
