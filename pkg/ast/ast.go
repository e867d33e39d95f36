// Package ast defines the compiled schema AST: filter nodes (the "type" of a
// region) and expression nodes, plus the small set of statement kinds a
// struct filter's scope iterates.  The full textual grammar lives in
// pkg/schemalang; this package defines only the shape that a compiler must
// target.
package ast

import "github.com/leanderhang/bitpunch/pkg/util/source/sexp"

// Filter is a schema AST node describing how to interpret a region of bytes.
// Boxes and trackers look up a Filter's behaviour in the filter-class
// registry by ClassName.
type Filter interface {
	// ClassName identifies which registered filter class implements this
	// node's runtime behaviour.
	ClassName() string
	// Lisp converts this node into an S-Expression, for debug dumps.
	Lisp() sexp.SExp
}

// Expr is a schema expression AST node.
type Expr interface {
	// ExprKind identifies this node's concrete kind, for diagnostics.
	ExprKind() string
	// Lisp converts this node into an S-Expression, for debug dumps.
	Lisp() sexp.SExp
}

// Node is the union of things an error's context frame or Box.Filter may
// refer to: any Filter or any Expr.
type Node interface {
	Lisp() sexp.SExp
}

// Schema is the top-level compiled schema handle: a single root filter.
type Schema struct {
	Root Filter
}

// Lisp renders the whole schema as an S-expression, rooted at its Root
// filter.
func (s *Schema) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("schema"), s.Root.Lisp()})
}
