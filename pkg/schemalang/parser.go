package schemalang

import (
	"github.com/leanderhang/bitpunch/pkg/util/source"
	"github.com/leanderhang/bitpunch/pkg/util/source/sexp"
)

// stringSymbol wraps a string literal so it round-trips through the sexp
// tree as a distinct symbol kind; the translator distinguishes it from a
// bareword symbol by way of the leading/trailing quote this String()
// produces.
type stringSymbol struct {
	sexp.Symbol
}

type parser struct {
	srcfile *source.File
	tokens  []token
	pos     int
}

func newParser(srcfile *source.File, tokens []token) *parser {
	return &parser{srcfile: srcfile, tokens: tokens}
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	t := p.tokens[p.pos]
	p.pos++

	return t
}

// parseAll reads zero or more top-level s-expressions.
func (p *parser) parseAll() ([]sexp.SExp, error) {
	var forms []sexp.SExp

	for !p.atEnd() {
		form, err := p.parseOne()
		if err != nil {
			return nil, err
		}

		forms = append(forms, form)
	}

	return forms, nil
}

func (p *parser) parseOne() (sexp.SExp, error) {
	if p.atEnd() {
		return nil, p.srcfile.SyntaxError(source.NewSpan(0, 0), "unexpected end of input")
	}

	t := p.advance()

	switch t.kind {
	case tokenOpen:
		var elements []sexp.SExp

		for {
			if p.atEnd() {
				return nil, p.srcfile.SyntaxError(t.span, "unterminated list")
			}

			if p.peek().kind == tokenClose {
				p.advance()
				return sexp.NewList(elements), nil
			}

			elem, err := p.parseOne()
			if err != nil {
				return nil, err
			}

			elements = append(elements, elem)
		}
	case tokenClose:
		return nil, p.srcfile.SyntaxError(t.span, "unexpected ')'")
	case tokenString:
		return &stringSymbol{*sexp.NewSymbol(t.value)}, nil
	default:
		return sexp.NewSymbol(t.text), nil
	}
}
