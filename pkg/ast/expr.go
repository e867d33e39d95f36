package ast

import (
	"fmt"

	"github.com/leanderhang/bitpunch/pkg/util/source/sexp"
)

// Ident is an unqualified identifier, resolved against the enclosing scope
// (and, transparently, anonymous ancestor scopes).
type Ident struct {
	Name string
}

// ExprKind implements Expr.
func (e Ident) ExprKind() string { return "ident" }

// Lisp implements Expr.
func (e Ident) Lisp() sexp.SExp { return sexp.NewSymbol(e.Name) }

// AttrIdent is an `@`-prefixed identifier.  Unlike Ident, resolution never
// crosses an anonymous field boundary (§4.5).
type AttrIdent struct {
	Name string
}

// ExprKind implements Expr.
func (e AttrIdent) ExprKind() string { return "attr-ident" }

// Lisp implements Expr.
func (e AttrIdent) Lisp() sexp.SExp { return sexp.NewSymbol("@" + e.Name) }

// IntLit is an integer literal.
type IntLit struct {
	Value int64
}

// ExprKind implements Expr.
func (e IntLit) ExprKind() string { return "int-lit" }

// Lisp implements Expr.
func (e IntLit) Lisp() sexp.SExp { return sexp.NewSymbol(fmt.Sprintf("%d", e.Value)) }

// StringLit is a string literal.
type StringLit struct {
	Value string
}

// ExprKind implements Expr.
func (e StringLit) ExprKind() string { return "string-lit" }

// Lisp implements Expr.
func (e StringLit) Lisp() sexp.SExp { return sexp.NewSymbol(fmt.Sprintf("%q", e.Value)) }

// Binary is a two-operand operator expression, e.g. `flag == 1`.
type Binary struct {
	Op string
	L  Expr
	R  Expr
}

// ExprKind implements Expr.
func (e Binary) ExprKind() string { return "binary" }

// Lisp implements Expr.
func (e Binary) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol(e.Op), e.L.Lisp(), e.R.Lisp()})
}

// FieldAccess is a `base.name` projection.
type FieldAccess struct {
	Base Expr
	Name string
}

// ExprKind implements Expr.
func (e FieldAccess) ExprKind() string { return "field-access" }

// Lisp implements Expr.
func (e FieldAccess) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("."), e.Base.Lisp(), sexp.NewSymbol(e.Name)})
}

// Index is a `base[index]` array subscript.
type Index struct {
	Base  Expr
	Index Expr
}

// ExprKind implements Expr.
func (e Index) ExprKind() string { return "index" }

// Lisp implements Expr.
func (e Index) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("index"), e.Base.Lisp(), e.Index.Lisp()})
}

// KeyedIndex is a `base[key{twin}]` keyed array lookup (§8 scenario 4).  Twin
// selects which occurrence of a repeated key to return, counting from zero;
// a nil Twin means the first occurrence.
type KeyedIndex struct {
	Base Expr
	Key  Expr
	Twin Expr
}

// ExprKind implements Expr.
func (e KeyedIndex) ExprKind() string { return "keyed-index" }

// Lisp implements Expr.
func (e KeyedIndex) Lisp() sexp.SExp {
	elems := []sexp.SExp{sexp.NewSymbol("keyed-index"), e.Base.Lisp(), e.Key.Lisp()}
	if e.Twin != nil {
		elems = append(elems, e.Twin.Lisp())
	}

	return sexp.NewList(elems)
}

// Sizeof is the `sizeof(target)` builtin.
type Sizeof struct {
	Target Expr
}

// ExprKind implements Expr.
func (e Sizeof) ExprKind() string { return "sizeof" }

// Lisp implements Expr.
func (e Sizeof) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("sizeof"), e.Target.Lisp()})
}

// AbsPath is a `/a/b/c`-style absolute path, rooted at the board's root box.
type AbsPath struct {
	Segments []string
}

// ExprKind implements Expr.
func (e AbsPath) ExprKind() string { return "abs-path" }

// Lisp implements Expr.
func (e AbsPath) Lisp() sexp.SExp {
	elems := make([]sexp.SExp, 0, len(e.Segments)+1)
	elems = append(elems, sexp.NewSymbol("abspath"))

	for _, s := range e.Segments {
		elems = append(elems, sexp.NewSymbol(s))
	}

	return sexp.NewList(elems)
}
