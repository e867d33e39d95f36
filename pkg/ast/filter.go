package ast

import (
	"fmt"

	"github.com/leanderhang/bitpunch/pkg/util/source/sexp"
)

// Integer is a fixed-width integer filter.
type Integer struct {
	Width     int
	Signed    bool
	BigEndian bool
}

// ClassName implements Filter.
func (f Integer) ClassName() string { return "integer" }

// Lisp implements Filter.
func (f Integer) Lisp() sexp.SExp {
	sign := "unsigned"
	if f.Signed {
		sign = "signed"
	}

	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("integer"),
		sexp.NewSymbol(fmt.Sprintf("%d", f.Width)),
		sexp.NewSymbol(sign),
	})
}

// Boolean is a single-byte boolean filter (0 = false, non-zero = true).
type Boolean struct{}

// ClassName implements Filter.
func (f Boolean) ClassName() string { return "boolean" }

// Lisp implements Filter.
func (f Boolean) Lisp() sexp.SExp { return sexp.NewSymbol("boolean") }

// StringFilter is a boundary-terminated string filter (§8 scenario 1).
type StringFilter struct {
	Boundary []byte
}

// ClassName implements Filter.
func (f StringFilter) ClassName() string { return "string" }

// Lisp implements Filter.
func (f StringFilter) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("string"),
		sexp.NewList([]sexp.SExp{sexp.NewSymbol("boundary"), sexp.NewSymbol(fmt.Sprintf("%q", string(f.Boundary)))}),
	})
}

// BytesFilter is the identity byte-range filter: it reads its span verbatim
// as a Bytes value.
type BytesFilter struct{}

// ClassName implements Filter.
func (f BytesFilter) ClassName() string { return "bytes" }

// Lisp implements Filter.
func (f BytesFilter) Lisp() sexp.SExp { return sexp.NewSymbol("bytes") }

// Field is one declared member of a Struct filter.
type Field struct {
	Name      string
	Anonymous bool
	Hidden    bool
	Filter    Filter
	Size      Expr
	Cond      Expr
	Header    bool
	Trailer   bool
}

// StatementName implements Statement.
func (f *Field) StatementName() string { return f.Name }

// Condition implements Statement.
func (f *Field) Condition() Expr { return f.Cond }

// Lisp implements Node, for use in error context frames.
func (f *Field) Lisp() sexp.SExp {
	name := f.Name
	if f.Anonymous {
		name = "_"
	}

	elems := []sexp.SExp{sexp.NewSymbol("field"), sexp.NewSymbol(name), f.Filter.Lisp()}

	if f.Size != nil {
		elems = append(elems, sexp.NewList([]sexp.SExp{sexp.NewSymbol("size"), f.Size.Lisp()}))
	}

	if f.Cond != nil {
		elems = append(elems, sexp.NewList([]sexp.SExp{sexp.NewSymbol("if"), f.Cond.Lisp()}))
	}

	return sexp.NewList(elems)
}

// Struct is a sequence of fields, iterated via pkg/scope.
type Struct struct {
	Fields []*Field
}

// ClassName implements Filter.
func (f Struct) ClassName() string { return "struct" }

// Lisp implements Filter.
func (f Struct) Lisp() sexp.SExp {
	elems := make([]sexp.SExp, 0, len(f.Fields)+1)
	elems = append(elems, sexp.NewSymbol("struct"))

	for _, field := range f.Fields {
		elems = append(elems, field.Lisp())
	}

	return sexp.NewList(elems)
}

// Array is a fixed- or expression-driven-count repetition of an item filter.
type Array struct {
	Item  Filter
	Count Expr
}

// ClassName implements Filter.
func (f Array) ClassName() string { return "array" }

// Lisp implements Filter.
func (f Array) Lisp() sexp.SExp {
	elems := []sexp.SExp{sexp.NewSymbol("array"), f.Item.Lisp()}
	if f.Count != nil {
		elems = append(elems, f.Count.Lisp())
	}

	return sexp.NewList(elems)
}

// Chain applies a sequence of filters, each one's output data source
// becoming the next one's input (§8 scenario 6).
type Chain struct {
	Stages []Filter
}

// ClassName implements Filter.
func (f Chain) ClassName() string { return "chain" }

// Lisp implements Filter.
func (f Chain) Lisp() sexp.SExp {
	elems := make([]sexp.SExp, 0, len(f.Stages)+1)
	elems = append(elems, sexp.NewSymbol("chain"))

	for _, stage := range f.Stages {
		elems = append(elems, stage.Lisp())
	}

	return sexp.NewList(elems)
}

// Base64 is a data-producing filter decoding its input as base64.
type Base64 struct{}

// ClassName implements Filter.
func (f Base64) ClassName() string { return "base64" }

// Lisp implements Filter.
func (f Base64) Lisp() sexp.SExp { return sexp.NewSymbol("base64") }

// Reference is an unresolved filter reference by name, resolved against a
// board's named items during scope lookup (models evaluate_filter_type,
// §4.6).
type Reference struct {
	Name string
}

// ClassName implements Filter.
func (f Reference) ClassName() string { return "reference" }

// Lisp implements Filter.
func (f Reference) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("ref"), sexp.NewSymbol(f.Name)})
}
