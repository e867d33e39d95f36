package schemalang

import (
	"strconv"
	"strings"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/util/source"
	"github.com/leanderhang/bitpunch/pkg/util/source/sexp"
)

var binaryOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"+": true, "-": true, "*": true, "/": true, "&&": true, "||": true,
}

func translateExpr(srcfile *source.File, form sexp.SExp) (ast.Expr, error) {
	if str, ok := asStringLiteral(form); ok {
		return ast.StringLit{Value: str}, nil
	}

	if sym := form.AsSymbol(); sym != nil {
		return translateSymbolExpr(sym.Value), nil
	}

	list := form.AsList()
	if list == nil || list.Len() == 0 {
		return nil, syntaxErrorAt(srcfile, form, "expected an expression")
	}

	head, ok := headSymbol(list)
	if !ok {
		return nil, syntaxErrorAt(srcfile, form, "expected expression keyword")
	}

	switch {
	case binaryOps[head]:
		if list.Len() != 3 {
			return nil, syntaxErrorAt(srcfile, list, "binary operator requires exactly two operands")
		}

		l, err := translateExpr(srcfile, list.Get(1))
		if err != nil {
			return nil, err
		}

		r, err := translateExpr(srcfile, list.Get(2))
		if err != nil {
			return nil, err
		}

		return ast.Binary{Op: head, L: l, R: r}, nil
	case head == ".":
		if list.Len() != 3 {
			return nil, syntaxErrorAt(srcfile, list, "(. base name) requires exactly two arguments")
		}

		base, err := translateExpr(srcfile, list.Get(1))
		if err != nil {
			return nil, err
		}

		name, ok := symbolAt(list, 2)
		if !ok {
			return nil, syntaxErrorAt(srcfile, list, "field name must be a symbol")
		}

		return ast.FieldAccess{Base: base, Name: name}, nil
	case head == "index":
		if list.Len() != 3 {
			return nil, syntaxErrorAt(srcfile, list, "(index base idx) requires exactly two arguments")
		}

		base, err := translateExpr(srcfile, list.Get(1))
		if err != nil {
			return nil, err
		}

		idx, err := translateExpr(srcfile, list.Get(2))
		if err != nil {
			return nil, err
		}

		return ast.Index{Base: base, Index: idx}, nil
	case head == "keyed-index":
		if list.Len() < 3 || list.Len() > 4 {
			return nil, syntaxErrorAt(srcfile, list, "(keyed-index base key [twin]) requires two or three arguments")
		}

		base, err := translateExpr(srcfile, list.Get(1))
		if err != nil {
			return nil, err
		}

		key, err := translateExpr(srcfile, list.Get(2))
		if err != nil {
			return nil, err
		}

		ki := ast.KeyedIndex{Base: base, Key: key}

		if list.Len() == 4 {
			twin, err := translateExpr(srcfile, list.Get(3))
			if err != nil {
				return nil, err
			}

			ki.Twin = twin
		}

		return ki, nil
	case head == "sizeof":
		if list.Len() != 2 {
			return nil, syntaxErrorAt(srcfile, list, "(sizeof target) requires exactly one argument")
		}

		target, err := translateExpr(srcfile, list.Get(1))
		if err != nil {
			return nil, err
		}

		return ast.Sizeof{Target: target}, nil
	case head == "abspath":
		var segments []string

		for i := 1; i < list.Len(); i++ {
			seg, ok := symbolAt(list, i)
			if !ok {
				return nil, syntaxErrorAt(srcfile, list, "abspath segments must be symbols")
			}

			segments = append(segments, seg)
		}

		return ast.AbsPath{Segments: segments}, nil
	default:
		return nil, syntaxErrorAt(srcfile, list, "unknown expression keyword "+head)
	}
}

func translateSymbolExpr(name string) ast.Expr {
	if strings.HasPrefix(name, "@") {
		return ast.AttrIdent{Name: strings.TrimPrefix(name, "@")}
	}

	if v, err := strconv.ParseInt(name, 0, 64); err == nil {
		return ast.IntLit{Value: v}
	}

	if strings.Contains(name, ".") {
		parts := strings.Split(name, ".")

		var expr ast.Expr = ast.Ident{Name: parts[0]}
		for _, p := range parts[1:] {
			expr = ast.FieldAccess{Base: expr, Name: p}
		}

		return expr
	}

	return ast.Ident{Name: name}
}
