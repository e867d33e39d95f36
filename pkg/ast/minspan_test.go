package ast

import (
	"testing"

	"github.com/leanderhang/bitpunch/pkg/util/assert"
)

func TestMinSpanSizeScalars(t *testing.T) {
	assert.Equal(t, int64(4), MinSpanSize(Integer{Width: 32}))
	assert.Equal(t, int64(1), MinSpanSize(Boolean{}))
	assert.Equal(t, int64(0), MinSpanSize(StringFilter{Boundary: []byte{0}}))
	assert.Equal(t, int64(0), MinSpanSize(BytesFilter{}))
}

func TestMinSpanSizeStructSumsUnconditionalFields(t *testing.T) {
	s := Struct{Fields: []*Field{
		{Name: "a", Filter: Integer{Width: 32}},
		{Name: "b", Filter: Integer{Width: 16}},
		{Name: "c", Filter: Boolean{}, Cond: Ident{Name: "present"}},
	}}

	// c is conditional, so it contributes nothing to the static minimum.
	assert.Equal(t, int64(6), MinSpanSize(s))
}

func TestMinSpanSizeFieldWithExplicitLiteralSize(t *testing.T) {
	s := Struct{Fields: []*Field{
		{Name: "a", Filter: BytesFilter{}, Size: IntLit{Value: 16}},
	}}

	assert.Equal(t, int64(16), MinSpanSize(s))
}

func TestMinSpanSizeArrayWithLiteralCount(t *testing.T) {
	a := Array{Item: Integer{Width: 32}, Count: IntLit{Value: 3}}

	assert.Equal(t, int64(12), MinSpanSize(a))
}

func TestMinSpanSizeArrayWithDynamicCountIsZero(t *testing.T) {
	a := Array{Item: Integer{Width: 32}, Count: Ident{Name: "n"}}

	assert.Equal(t, int64(0), MinSpanSize(a))
}

func TestMinSpanSizeChainUsesFirstStage(t *testing.T) {
	c := Chain{Stages: []Filter{BytesFilter{}, Base64{}, StringFilter{}}}

	assert.Equal(t, int64(0), MinSpanSize(c))
}

func TestMinSpanSizeEmptyChainIsZero(t *testing.T) {
	assert.Equal(t, int64(0), MinSpanSize(Chain{}))
}
