package scope

import (
	"testing"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/board"
	"github.com/leanderhang/bitpunch/pkg/box"
	"github.com/leanderhang/bitpunch/pkg/datasource"
	"github.com/leanderhang/bitpunch/pkg/filter"
	"github.com/leanderhang/bitpunch/pkg/util/assert"
	"github.com/leanderhang/bitpunch/pkg/value"
)

func setup(t *testing.T) {
	t.Helper()
	filter.Cleanup()
	filter.Init()
	t.Cleanup(filter.Cleanup)
}

func ignoreEval(b *box.Box, e ast.Expr) (value.Value, error) { return value.Value{}, nil }

func TestIterStatementsInDeclarationOrder(t *testing.T) {
	setup(t)

	s := ast.Struct{Fields: []*ast.Field{
		{Name: "a", Filter: ast.Integer{Width: 8}},
		{Name: "b", Filter: ast.Boolean{}},
	}}

	ds := datasource.NewMemory([]byte{7, 1}, false)
	brd := board.New(s)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	entries, end, err := IterStatements(root, MaskAll, ignoreEval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, 2, len(entries))
	assert.Equal(t, "a", entries[0].Field.Name)
	assert.Equal(t, "b", entries[1].Field.Name)
	assert.Equal(t, int64(2), end)
}

func TestIterStatementsSkipsFalseCondition(t *testing.T) {
	setup(t)

	cond := ast.IntLit{Value: 0} // any non-nil Expr works; eval below ignores its content

	s := ast.Struct{Fields: []*ast.Field{
		{Name: "present", Filter: ast.Integer{Width: 8}},
		{Name: "absent", Filter: ast.Integer{Width: 8}, Cond: cond},
	}}

	ds := datasource.NewMemory([]byte{9, 9}, false)
	brd := board.New(s)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	entries, _, err := IterStatements(root, MaskAll, func(b *box.Box, e ast.Expr) (value.Value, error) {
		return value.NewBoolean(false), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, 2, len(entries))
	assert.False(t, entries[0].Skipped)
	assert.True(t, entries[1].Skipped)
	if entries[1].Child != nil {
		t.Fatalf("expected a skipped field to have no materialised child box")
	}
}

func TestLookupStatementDirectMatch(t *testing.T) {
	setup(t)

	s := ast.Struct{Fields: []*ast.Field{
		{Name: "flag", Filter: ast.Boolean{}},
	}}

	ds := datasource.NewMemory([]byte{1}, false)
	brd := board.New(s)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	child, err := LookupStatement(root, "flag", MaskAll, ignoreEval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := child.ReadValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.True(t, v.AsBoolean())
}

func TestLookupStatementAnonymousPassthrough(t *testing.T) {
	setup(t)

	inner := ast.Struct{Fields: []*ast.Field{
		{Name: "version", Filter: ast.Integer{Width: 8}},
	}}

	outer := ast.Struct{Fields: []*ast.Field{
		{Name: "_", Anonymous: true, Filter: inner},
	}}

	ds := datasource.NewMemory([]byte{5}, false)
	brd := board.New(outer)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	child, err := LookupStatement(root, "version", MaskAll, ignoreEval)
	if err != nil {
		t.Fatalf("unexpected error finding a field through an anonymous pass-through: %v", err)
	}

	v, err := child.ReadValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, int64(5), v.AsInteger())
}

func TestLookupStatementUnknownNameErrors(t *testing.T) {
	setup(t)

	s := ast.Struct{}
	ds := datasource.NewMemory(nil, false)
	brd := board.New(s)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	if _, err := LookupStatement(root, "nope", MaskAll, ignoreEval); err == nil {
		t.Fatalf("expected an error looking up an undeclared field")
	}
}

func TestLookupStatementRejectsAttributeNames(t *testing.T) {
	setup(t)

	s := ast.Struct{}
	ds := datasource.NewMemory(nil, false)
	brd := board.New(s)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	if _, err := LookupStatement(root, "@offset", MaskAll, ignoreEval); err == nil {
		t.Fatalf("expected an error resolving an attribute reference as a field name")
	}
}

func TestResolveSizeArrayWithLiteralCount(t *testing.T) {
	setup(t)

	arr := ast.Array{Item: ast.Integer{Width: 8}, Count: ast.IntLit{Value: 3}}

	ds := datasource.NewMemory([]byte{1, 2, 3}, false)
	brd := board.New(arr)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	size, err := ResolveSize(root, func(b *box.Box, e ast.Expr) (value.Value, error) {
		return value.NewInteger(3), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, int64(3), size)
}

func TestResolveSizeArrayWithoutCountStopsAtMaxEnd(t *testing.T) {
	setup(t)

	arr := ast.Array{Item: ast.Integer{Width: 8}}

	ds := datasource.NewMemory([]byte{1, 2, 3, 4}, false)
	brd := board.New(arr)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	size, err := ResolveSize(root, ignoreEval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, int64(4), size)
}
