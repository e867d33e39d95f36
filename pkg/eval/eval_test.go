package eval

import (
	"testing"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/board"
	"github.com/leanderhang/bitpunch/pkg/box"
	"github.com/leanderhang/bitpunch/pkg/datasource"
	"github.com/leanderhang/bitpunch/pkg/filter"
	"github.com/leanderhang/bitpunch/pkg/util/assert"
)

func setup(t *testing.T) {
	t.Helper()
	filter.Cleanup()
	filter.Init()
	t.Cleanup(filter.Cleanup)
}

func TestEvaluateValueLiterals(t *testing.T) {
	setup(t)

	ds := datasource.NewMemory(nil, false)
	brd := board.New(ast.Struct{})
	root := box.NewRoot(brd.Root, brd, ds, nil)

	v, err := EvaluateValue(root, ast.IntLit{Value: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, int64(42), v.AsInteger())

	v, err = EvaluateValue(root, ast.StringLit{Value: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, "hi", string(v.AsString()))
}

func TestEvaluateValueFieldAccess(t *testing.T) {
	setup(t)

	s := ast.Struct{Fields: []*ast.Field{
		{Name: "count", Filter: ast.Integer{Width: 8}},
	}}

	ds := datasource.NewMemory([]byte{9}, false)
	brd := board.New(s)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	v, err := EvaluateValue(root, ast.Ident{Name: "count"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, int64(9), v.AsInteger())
}

func TestEvaluateValueSizeof(t *testing.T) {
	setup(t)

	s := ast.Struct{Fields: []*ast.Field{
		{Name: "payload", Filter: ast.Integer{Width: 32}},
	}}

	ds := datasource.NewMemory([]byte{0, 0, 0, 1}, false)
	brd := board.New(s)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	v, err := EvaluateValue(root, ast.Sizeof{Target: ast.Ident{Name: "payload"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, int64(4), v.AsInteger())
}

func TestEvaluateValueAttrOffsetAndSizeof(t *testing.T) {
	setup(t)

	s := ast.Struct{Fields: []*ast.Field{
		{Name: "a", Filter: ast.Integer{Width: 8}},
		{Name: "b", Filter: ast.Integer{Width: 8}},
	}}

	ds := datasource.NewMemory([]byte{1, 2}, false)
	brd := board.New(s)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	bBox, err := EvaluateDpath(root, ast.Ident{Name: "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	off, err := EvaluateValue(bBox, ast.AttrIdent{Name: "offset"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, int64(1), off.AsInteger())
}

func TestEvaluateValueBinaryArithmeticAndComparison(t *testing.T) {
	setup(t)

	ds := datasource.NewMemory(nil, false)
	brd := board.New(ast.Struct{})
	root := box.NewRoot(brd.Root, brd, ds, nil)

	sum, err := EvaluateValue(root, ast.Binary{Op: "+", L: ast.IntLit{Value: 2}, R: ast.IntLit{Value: 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, int64(5), sum.AsInteger())

	lt, err := EvaluateValue(root, ast.Binary{Op: "<", L: ast.IntLit{Value: 2}, R: ast.IntLit{Value: 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.True(t, lt.AsBoolean())

	eq, err := EvaluateValue(root, ast.Binary{Op: "==", L: ast.StringLit{Value: "a"}, R: ast.StringLit{Value: "a"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.True(t, eq.AsBoolean())
}

func TestEvaluateValueDivisionByZeroErrors(t *testing.T) {
	setup(t)

	ds := datasource.NewMemory(nil, false)
	brd := board.New(ast.Struct{})
	root := box.NewRoot(brd.Root, brd, ds, nil)

	if _, err := EvaluateValue(root, ast.Binary{Op: "/", L: ast.IntLit{Value: 1}, R: ast.IntLit{Value: 0}}); err == nil {
		t.Fatalf("expected an error dividing by zero")
	}
}

func TestEvaluateDpathIndexIntoArrayField(t *testing.T) {
	setup(t)

	s := ast.Struct{Fields: []*ast.Field{
		{Name: "items", Filter: ast.Array{Item: ast.Integer{Width: 8}, Count: ast.IntLit{Value: 3}}},
	}}

	ds := datasource.NewMemory([]byte{10, 20, 30}, false)
	brd := board.New(s)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	v, err := EvaluateValue(root, ast.Index{Base: ast.Ident{Name: "items"}, Index: ast.IntLit{Value: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, int64(30), v.AsInteger())
}

func TestEvaluateAbsPath(t *testing.T) {
	setup(t)

	leaf := ast.Struct{Fields: []*ast.Field{
		{Name: "version", Filter: ast.Integer{Width: 8}},
	}}

	root := ast.Struct{Fields: []*ast.Field{
		{Name: "header", Filter: leaf},
	}}

	ds := datasource.NewMemory([]byte{7}, false)
	brd := board.New(root)
	rootBox := box.NewRoot(brd.Root, brd, ds, nil)

	headerBox, err := EvaluateDpath(rootBox, ast.Ident{Name: "header"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	versionBox, err := EvaluateDpath(headerBox, ast.AbsPath{Segments: []string{"header", "version"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := versionBox.ReadValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, int64(7), v.AsInteger())
}

func TestEvaluateFilterTypeResolvesReference(t *testing.T) {
	setup(t)

	brd := board.New(ast.Reference{Name: "header"})
	if err := brd.AddItem("header", ast.Boolean{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ds := datasource.NewMemory([]byte{1}, false)
	root := box.NewRoot(ast.Reference{Name: "header"}, brd, ds, nil)

	resolved, err := EvaluateFilterType(root, root.Filter())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resolved.ClassName() != "boolean" {
		t.Fatalf("expected the reference to resolve to boolean, got %q", resolved.ClassName())
	}
}

func TestEvaluateFilterTypeWithoutBoardErrors(t *testing.T) {
	setup(t)

	ds := datasource.NewMemory([]byte{1}, false)
	root := box.NewRoot(ast.Reference{Name: "header"}, nil, ds, nil)

	if _, err := EvaluateFilterType(root, root.Filter()); err == nil {
		t.Fatalf("expected an error resolving a reference without a board")
	}
}
