package ast

import (
	"testing"

	"github.com/leanderhang/bitpunch/pkg/util/assert"
)

func TestFilterClassNames(t *testing.T) {
	assert.Equal(t, "integer", Integer{Width: 4}.ClassName())
	assert.Equal(t, "boolean", Boolean{}.ClassName())
	assert.Equal(t, "string", StringFilter{}.ClassName())
	assert.Equal(t, "bytes", BytesFilter{}.ClassName())
	assert.Equal(t, "struct", Struct{}.ClassName())
	assert.Equal(t, "array", Array{}.ClassName())
	assert.Equal(t, "chain", Chain{}.ClassName())
	assert.Equal(t, "base64", Base64{}.ClassName())
	assert.Equal(t, "reference", Reference{Name: "x"}.ClassName())
}

func TestFieldIsAStatement(t *testing.T) {
	f := &Field{Name: "flag", Filter: Boolean{}, Cond: Ident{Name: "present"}}

	assert.Equal(t, "flag", f.StatementName())
	assert.Equal(t, Ident{Name: "present"}, f.Condition())
}

func TestAnonymousFieldLispUsesUnderscore(t *testing.T) {
	f := &Field{Anonymous: true, Filter: Boolean{}}

	got := f.Lisp().String(false)
	if got == "" {
		t.Fatalf("expected a non-empty lisp rendering")
	}
}

func TestSchemaLisp(t *testing.T) {
	schema := &Schema{Root: Struct{Fields: []*Field{
		{Name: "a", Filter: Integer{Width: 4}},
	}}}

	got := schema.Lisp().String(false)
	if got == "" {
		t.Fatalf("expected a non-empty lisp rendering")
	}
}

func TestNamedExprAndAttributeAreUnconditional(t *testing.T) {
	ne := &NamedExpr{Name: "n", Expr: IntLit{Value: 1}}
	attr := &Attribute{Name: "a", Expr: IntLit{Value: 2}}

	if ne.Condition() != nil {
		t.Fatalf("named expressions should be unconditional")
	}

	if attr.Condition() != nil {
		t.Fatalf("attributes should be unconditional")
	}

	assert.Equal(t, "n", ne.StatementName())
	assert.Equal(t, "a", attr.StatementName())
}
