// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package template

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Render tokenizes the template and evaluates it against rc. Any error
// discards accumulated output; there is no partial-success mode. The
// context.Context reaches only the pipe boundary, the one place a render
// may block on I/O.
func Render(ctx context.Context, tmpl string, rc *Context) (string, error) {
	tokens, err := Tokenize(tmpl)
	if err != nil {
		return "", err
	}
	return renderTokens(ctx, tokens, rc)
}

func renderTokens(ctx context.Context, tokens []Token, rc *Context) (string, error) {
	var out strings.Builder
	i := 0

	for i < len(tokens) {
		switch tok := tokens[i]; tok.Kind {
		case TokenLiteral:
			out.WriteString(tok.Text)
			i++

		case TokenTag:
			value, err := resolveTag(tok.Tag, rc)
			if err != nil {
				return "", err
			}
			if tok.Tag.Pipe != "" {
				value, err = rc.pipes().Apply(ctx, tok.Tag.Pipe, value)
				if err != nil {
					return "", err
				}
			}
			out.WriteString(value)
			i++

		case TokenForStart:
			body, endIdx, err := collectForBody(tokens[i+1:])
			if err != nil {
				return "", err
			}
			rendered, err := executeForLoop(ctx, tok.Loop, body, rc)
			if err != nil {
				return "", err
			}
			out.WriteString(rendered)
			// skip past the matched endfor
			i += 1 + endIdx + 1

		case TokenForEnd:
			return "", ErrUnexpectedEndFor
		}
	}

	return out.String(), nil
}

// collectForBody returns the tokens between a for-start and its matching
// endfor, tracking depth so nested blocks stay inside the body, plus the
// index of the matching endfor within the given slice.
func collectForBody(tokens []Token) ([]Token, int, error) {
	depth := 0
	var body []Token

	for idx, tok := range tokens {
		switch tok.Kind {
		case TokenForEnd:
			if depth == 0 {
				return body, idx, nil
			}
			depth--
			body = append(body, tok)
		case TokenForStart:
			depth++
			body = append(body, tok)
		default:
			body = append(body, tok)
		}
	}

	return nil, 0, ErrUnterminatedForLoop
}

// executeForLoop clones the context once per block and re-renders the body
// with the loop variable rebound for each iteration.
func executeForLoop(ctx context.Context, loop *ForLoop, body []Token, rc *Context) (string, error) {
	var out strings.Builder
	iterCtx := rc.clone()

	switch loop.Iterable.Kind {
	case IterableRange:
		for val := loop.Iterable.Start; val <= loop.Iterable.End; val++ {
			iterCtx.LoopVars[loop.Var] = IndexValue(val)
			rendered, err := renderTokens(ctx, body, iterCtx)
			if err != nil {
				return "", err
			}
			out.WriteString(rendered)
		}

	case IterableCollection:
		items, err := collection(loop.Iterable.Name, rc)
		if err != nil {
			return "", err
		}
		for _, item := range items[:limitItems(loop.Params, len(items))] {
			iterCtx.LoopVars[loop.Var] = item
			rendered, err := renderTokens(ctx, body, iterCtx)
			if err != nil {
				return "", err
			}
			out.WriteString(rendered)
		}
	}

	return out.String(), nil
}

// limitItems applies an optional limit param: take at most limit items from
// the front. A missing or non-numeric limit takes everything.
func limitItems(params map[string]string, available int) int {
	raw, ok := params["limit"]
	if !ok {
		return available
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return available
	}
	return min(available, limit)
}

// collection resolves a named collection to loop values, preserving the
// context's order (memories are newest first).
func collection(name string, rc *Context) ([]LoopValue, error) {
	switch name {
	case "memories":
		items := make([]LoopValue, len(rc.Memories))
		for i, m := range rc.Memories {
			items[i] = MemoryValue(m)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
}
