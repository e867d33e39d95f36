// Package schemalang implements a deliberately small s-expression textual
// form over pkg/ast, used to make schema_create_from_* genuinely runnable
// end-to-end.  It is a stand-in for the full curly-brace schema grammar
// described only informally elsewhere, which remains an out-of-scope
// collaborator; this package only guarantees the contract "text in,
// *ast.Schema out, or a structured error".
package schemalang

import (
	"fmt"

	"github.com/leanderhang/bitpunch/pkg/util/source"
)

type tokenKind int

const (
	tokenOpen tokenKind = iota
	tokenClose
	tokenSymbol
	tokenString
)

type token struct {
	kind  tokenKind
	text  string
	value string // unescaped text, for tokenString
	span  source.Span
}

// lex tokenizes source text into a flat token stream.  It recognises
// parentheses, whitespace-delimited symbols, and double-quoted strings with
// `\n`, `\t`, `\\`, `\"` and `\xHH` escapes.
func lex(srcfile *source.File) ([]token, error) {
	runes := srcfile.Contents()

	var tokens []token

	i := 0
	for i < len(runes) {
		r := runes[i]

		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokenOpen, span: source.NewSpan(i, i+1)})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenClose, span: source.NewSpan(i, i+1)})
			i++
		case r == '"':
			start := i
			value, n, err := lexString(runes[i:])

			if err != nil {
				return nil, srcfile.SyntaxError(source.NewSpan(start, start+n), err.Error())
			}

			tokens = append(tokens, token{kind: tokenString, text: string(runes[start : start+n]), value: value, span: source.NewSpan(start, start+n)})
			i += n
		default:
			start := i
			for i < len(runes) && !isDelimiter(runes[i]) {
				i++
			}

			tokens = append(tokens, token{kind: tokenSymbol, text: string(runes[start:i]), span: source.NewSpan(start, i)})
		}
	}

	return tokens, nil
}

func isDelimiter(r rune) bool {
	return r == '(' || r == ')' || r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '"'
}

func lexString(runes []rune) (string, int, error) {
	var out []rune

	i := 1
	for i < len(runes) {
		switch runes[i] {
		case '"':
			return string(out), i + 1, nil
		case '\\':
			if i+1 >= len(runes) {
				return "", i, fmt.Errorf("unterminated escape in string literal")
			}

			switch runes[i+1] {
			case 'n':
				out = append(out, '\n')
				i += 2
			case 't':
				out = append(out, '\t')
				i += 2
			case '\\':
				out = append(out, '\\')
				i += 2
			case '"':
				out = append(out, '"')
				i += 2
			case '0':
				out = append(out, 0)
				i += 2
			case 'x':
				if i+3 >= len(runes) {
					return "", i, fmt.Errorf("incomplete \\x escape in string literal")
				}

				var b int

				if _, err := fmt.Sscanf(string(runes[i+2:i+4]), "%02x", &b); err != nil {
					return "", i, fmt.Errorf("invalid \\x escape in string literal: %w", err)
				}

				out = append(out, rune(b))
				i += 4
			default:
				return "", i, fmt.Errorf("unknown escape sequence \\%c", runes[i+1])
			}
		default:
			out = append(out, runes[i])
			i++
		}
	}

	return "", i, fmt.Errorf("unterminated string literal")
}
