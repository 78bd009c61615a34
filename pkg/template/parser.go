package template

import (
	"fmt"
	"strconv"
	"strings"
)

// parseForLoop parses a for-loop header after the "for " keyword:
// `i in (1..3)` or `m in memories limit:3`.
func parseForLoop(body string) (Token, error) {
	parts := strings.SplitN(body, " ", 3)
	if len(parts) < 3 || parts[1] != "in" {
		return Token{}, fmt.Errorf("%w: 'for %s'", ErrInvalidForLoopSyntax, body)
	}

	loopVar := parts[0]
	rest := strings.TrimSpace(parts[2])

	if strings.HasPrefix(rest, "(") {
		iterable, err := parseRange(rest)
		if err != nil {
			return Token{}, err
		}
		return forStartToken(&ForLoop{
			Var:      loopVar,
			Iterable: iterable,
			Params:   map[string]string{},
		}), nil
	}

	collectionParts := splitTagParts(rest)
	if len(collectionParts) == 0 {
		return Token{}, fmt.Errorf("%w: missing collection name in 'for %s'", ErrInvalidForLoopSyntax, body)
	}

	params := make(map[string]string)
	for _, part := range collectionParts[1:] {
		k, v, err := parseParam(part)
		if err != nil {
			return Token{}, err
		}
		params[k] = v
	}

	return forStartToken(&ForLoop{
		Var:      loopVar,
		Iterable: Iterable{Kind: IterableCollection, Name: collectionParts[0]},
		Params:   params,
	}), nil
}

// parseRange parses `(start..end)` with signed integer bounds.
func parseRange(text string) (Iterable, error) {
	closing := strings.Index(text, ")")
	if closing < 0 {
		return Iterable{}, ErrUnclosedRangeParen
	}

	interior := text[1:closing]
	bounds := strings.Split(interior, "..")
	if len(bounds) != 2 {
		return Iterable{}, fmt.Errorf("%w: invalid range syntax %q", ErrInvalidRangeBound, interior)
	}

	start, err := strconv.ParseInt(strings.TrimSpace(bounds[0]), 10, 64)
	if err != nil {
		return Iterable{}, fmt.Errorf("%w: invalid range start %q", ErrInvalidRangeBound, bounds[0])
	}
	end, err := strconv.ParseInt(strings.TrimSpace(bounds[1]), 10, 64)
	if err != nil {
		return Iterable{}, fmt.Errorf("%w: invalid range end %q", ErrInvalidRangeBound, bounds[1])
	}

	return Iterable{Kind: IterableRange, Start: start, End: end}, nil
}

// splitTagParts splits tag-body text on whitespace, treating double-quoted
// runs as single parts. The quote characters themselves are kept.
func splitTagParts(input string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range input {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
			current.WriteRune(ch)
		case (ch == ' ' || ch == '\t') && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// splitPipe splits a tag body at the first '|' into the body proper and the
// pipe name. A '|' with nothing after it means no pipe.
func splitPipe(body string) (string, string) {
	pos := strings.Index(body, "|")
	if pos < 0 {
		return body, ""
	}
	return strings.TrimSpace(body[:pos]), strings.TrimSpace(body[pos+1:])
}

// parseParam parses `key=value` or `key:value`. '=' wins over ':' even when
// a ':' appears first, so "key=val:ue" keeps the colon in the value.
func parseParam(param string) (string, string, error) {
	pos := strings.Index(param, "=")
	if pos < 0 {
		pos = strings.Index(param, ":")
	}
	if pos < 0 {
		return "", "", fmt.Errorf("%w (missing '=' or ':'): %q", ErrInvalidParam, param)
	}
	if pos == 0 {
		return "", "", fmt.Errorf("%w: empty key in %q", ErrInvalidParam, param)
	}
	return param[:pos], param[pos+1:], nil
}
