package template

import "strings"

const (
	openDelim  = "{%"
	closeDelim = "%}"
)

// Tokenize splits a template into literal, tag, for-start, and for-end
// tokens. Literal text is preserved exactly; tag bodies are trimmed before
// parsing. Tokenization is complete before any evaluation starts, so every
// syntax error surfaces up front.
func Tokenize(input string) ([]Token, error) {
	var tokens []Token
	rest := input

	for rest != "" {
		start := strings.Index(rest, openDelim)
		if start < 0 {
			tokens = append(tokens, literalToken(rest))
			break
		}

		if start > 0 {
			tokens = append(tokens, literalToken(rest[:start]))
		}

		afterOpen := rest[start+len(openDelim):]
		end := strings.Index(afterOpen, closeDelim)
		if end < 0 {
			return nil, ErrUnclosedTag
		}

		token, err := parseTagBody(strings.TrimSpace(afterOpen[:end]))
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)

		rest = afterOpen[end+len(closeDelim):]
	}

	return tokens, nil
}

// parseTagBody dispatches the trimmed text between {% and %}: endfor,
// for-loop header, or a regular tag.
func parseTagBody(body string) (Token, error) {
	if body == "endfor" {
		return forEndToken(), nil
	}

	if rest, ok := strings.CutPrefix(body, "for "); ok {
		return parseForLoop(strings.TrimSpace(rest))
	}

	beforePipe, pipe := splitPipe(body)
	parts := splitTagParts(beforePipe)
	if len(parts) == 0 {
		return Token{}, ErrEmptyTag
	}

	params := make(map[string]string)
	for _, part := range parts[1:] {
		k, v, err := parseParam(part)
		if err != nil {
			return Token{}, err
		}
		params[k] = v
	}

	return tagToken(&TagContent{Name: parts[0], Params: params, Pipe: pipe}), nil
}
