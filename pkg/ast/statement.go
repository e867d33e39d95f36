package ast

import "github.com/leanderhang/bitpunch/pkg/util/source/sexp"

// Statement is one of the three kinds of named declaration a struct scope
// iterates: Field, NamedExpr, Attribute (§4.5).
type Statement interface {
	Node
	// StatementName returns this statement's identifier, or "" for an
	// anonymous field.
	StatementName() string
	// Condition returns this statement's guarding expression, or nil if it
	// is unconditional.
	Condition() Expr
}

// NamedExpr binds a name to a pre-compiled expression, consulted before
// fields during scope lookup (§4.5 priority order).
type NamedExpr struct {
	Name string
	Expr Expr
}

// StatementName implements Statement.
func (n *NamedExpr) StatementName() string { return n.Name }

// Condition implements Statement.  Named expressions are unconditional.
func (n *NamedExpr) Condition() Expr { return nil }

// Lisp implements Node.
func (n *NamedExpr) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("let"), sexp.NewSymbol(n.Name), n.Expr.Lisp()})
}

// Attribute binds a name to an `@`-prefixed expression.  Attribute lookup
// never crosses an anonymous field boundary (§4.5).
type Attribute struct {
	Name string
	Expr Expr
}

// StatementName implements Statement.
func (a *Attribute) StatementName() string { return a.Name }

// Condition implements Statement.  Attributes are unconditional.
func (a *Attribute) Condition() Expr { return nil }

// Lisp implements Node.
func (a *Attribute) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("attr"), sexp.NewSymbol(a.Name), a.Expr.Lisp()})
}

// NOTE: implements Statement.
var (
	_ Statement = (*Field)(nil)
	_ Statement = (*NamedExpr)(nil)
	_ Statement = (*Attribute)(nil)
)
