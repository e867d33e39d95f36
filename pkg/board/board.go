// Package board implements the Board environment: the insertion-order
// preserving map of user-added named items and pre-compiled expressions that
// sits alongside a root schema (§3 "Board"), following the same
// map-plus-order-slice pattern ModuleScope uses.
package board

import (
	"fmt"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/schemalang"
)

// Board binds user-added named filters and expressions onto a root schema.
type Board struct {
	Root  ast.Filter
	items map[string]ast.Filter
	exprs map[string]ast.Expr
	order []string
}

// New constructs a Board rooted at the given filter.
func New(root ast.Filter) *Board {
	return &Board{
		Root:  root,
		items: make(map[string]ast.Filter),
		exprs: make(map[string]ast.Expr),
	}
}

// AddItem binds name to a filter node.  Names must be unique across both
// items and expressions.
func (b *Board) AddItem(name string, node ast.Filter) error {
	if b.has(name) {
		return fmt.Errorf("board: name %q already bound", name)
	}

	b.items[name] = node
	b.order = append(b.order, name)

	return nil
}

// AddExpr compiles text as a standalone expression and binds name to it.
func (b *Board) AddExpr(name string, text string) (ast.Expr, error) {
	if b.has(name) {
		return nil, fmt.Errorf("board: name %q already bound", name)
	}

	expr, err := schemalang.CompileExpr(name, []byte(text))
	if err != nil {
		return nil, err
	}

	b.exprs[name] = expr
	b.order = append(b.order, name)

	return expr, nil
}

// CompileExpr compiles text as a standalone expression without binding it to
// a name.
func (b *Board) CompileExpr(text string) (ast.Expr, error) {
	return schemalang.CompileExpr("<expr>", []byte(text))
}

// LookupItem returns the filter bound to name, if any.
func (b *Board) LookupItem(name string) (ast.Filter, bool) {
	f, ok := b.items[name]
	return f, ok
}

// LookupExpr returns the expression bound to name, if any.
func (b *Board) LookupExpr(name string) (ast.Expr, bool) {
	e, ok := b.exprs[name]
	return e, ok
}

// Names returns all bound names, in insertion order.
func (b *Board) Names() []string {
	return b.order
}

func (b *Board) has(name string) bool {
	if _, ok := b.items[name]; ok {
		return true
	}

	_, ok := b.exprs[name]

	return ok
}
