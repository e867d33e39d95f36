package scope

import (
	"testing"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/board"
	"github.com/leanderhang/bitpunch/pkg/box"
	"github.com/leanderhang/bitpunch/pkg/datasource"
	"github.com/leanderhang/bitpunch/pkg/value"
)

func itemStruct() ast.Struct {
	return ast.Struct{Fields: []*ast.Field{
		{Name: "name", Filter: ast.Integer{Width: 8}},
		{Name: "value", Filter: ast.Integer{Width: 8}},
	}}
}

func TestArrayItemByIndex(t *testing.T) {
	setup(t)

	arr := ast.Array{Item: itemStruct(), Count: ast.IntLit{Value: 2}}

	ds := datasource.NewMemory([]byte{1, 10, 2, 20}, false)
	brd := board.New(arr)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	eval := func(b *box.Box, e ast.Expr) (value.Value, error) {
		return value.NewInteger(2), nil
	}

	item, err := ArrayItem(root, 1, eval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	valueField, err := LookupStatement(item, "value", MaskAll, eval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := valueField.ReadValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.AsInteger() != 20 {
		t.Fatalf("expected item 1's value field to be 20, got %d", v.AsInteger())
	}
}

func TestArrayItemByKeyWithTwins(t *testing.T) {
	setup(t)

	arr := ast.Array{Item: itemStruct(), Count: ast.IntLit{Value: 3}}

	// three items, two sharing name=7: (7,10), (9,99), (7,30)
	ds := datasource.NewMemory([]byte{7, 10, 9, 99, 7, 30}, false)
	brd := board.New(arr)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	eval := func(b *box.Box, e ast.Expr) (value.Value, error) {
		return value.NewInteger(3), nil
	}

	first, err := ArrayItemByKey(root, value.NewInteger(7), 0, eval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	valueField, err := LookupStatement(first, "value", MaskAll, eval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := valueField.ReadValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.AsInteger() != 10 {
		t.Fatalf("expected the first name=7 twin's value to be 10, got %d", v.AsInteger())
	}

	second, err := ArrayItemByKey(root, value.NewInteger(7), 1, eval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	valueField2, err := LookupStatement(second, "value", MaskAll, eval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v2, err := valueField2.ReadValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v2.AsInteger() != 30 {
		t.Fatalf("expected the second name=7 twin's value to be 30, got %d", v2.AsInteger())
	}
}

func TestArrayItemByKeyNoMatchErrors(t *testing.T) {
	setup(t)

	arr := ast.Array{Item: itemStruct(), Count: ast.IntLit{Value: 1}}

	ds := datasource.NewMemory([]byte{1, 10}, false)
	brd := board.New(arr)
	root := box.NewRoot(brd.Root, brd, ds, nil)

	eval := func(b *box.Box, e ast.Expr) (value.Value, error) {
		return value.NewInteger(1), nil
	}

	if _, err := ArrayItemByKey(root, value.NewInteger(99), 0, eval); err == nil {
		t.Fatalf("expected an error when no array item matches the key")
	}
}
