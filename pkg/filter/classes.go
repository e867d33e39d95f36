package filter

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/datasource"
	"github.com/leanderhang/bitpunch/pkg/value"
)

// builtinClasses returns the leaf (non-container) filter classes Init
// declares into the global registry.  Container filters (struct, array)
// are structural and are handled directly by pkg/scope and pkg/box, which
// type-switch on the ast.Filter node rather than going through a vtable:
// their behaviour is the engine's own navigation logic, not a pluggable
// per-class operation.  Chain has no class here and no structural handler,
// so a box whose filter is an ast.Chain cannot be sized or read.
func builtinClasses() []Class {
	return []Class{
		integerClass{},
		booleanClass{},
		stringClass{},
		bytesClass{},
		base64Class{},
	}
}

func boxFilterData(box BoxHandle) []byte {
	ds := box.DataSourceIn()
	start, end := box.SpanBounds()

	return ds.Bytes()[start:end]
}

// integerClass implements the "integer" filter (§8 is silent on a named
// scenario, but every struct example relies on it).
type integerClass struct{}

func (integerClass) Name() string { return "integer" }

func (integerClass) ReadValue(box BoxHandle) (value.Value, error) {
	f, ok := box.Filter().(ast.Integer)
	if !ok {
		return value.Value{}, fmt.Errorf("integer class applied to non-integer filter")
	}

	data := boxFilterData(box)
	width := f.Width / 8

	if len(data) < width {
		return value.Value{}, fmt.Errorf("integer: need %d bytes, have %d", width, len(data))
	}

	var u uint64

	if f.BigEndian {
		for i := 0; i < width; i++ {
			u = u<<8 | uint64(data[i])
		}
	} else {
		for i := width - 1; i >= 0; i-- {
			u = u<<8 | uint64(data[i])
		}
	}

	if !f.Signed || width >= 8 {
		return value.NewInteger(int64(u)), nil
	}

	shift := uint(64 - width*8)

	return value.NewInteger(int64(u<<shift) >> shift), nil
}

func (integerClass) ComputeMinSpanSize(box BoxHandle) (int64, error) { return integerSize(box) }
func (integerClass) ComputeSpanSize(box BoxHandle) (int64, error)    { return integerSize(box) }
func (integerClass) ComputeMaxSpanSize(box BoxHandle) (int64, error) { return integerSize(box) }
func (integerClass) ComputeUsedSize(box BoxHandle) (int64, error)    { return integerSize(box) }

func integerSize(box BoxHandle) (int64, error) {
	f, ok := box.Filter().(ast.Integer)
	if !ok {
		return 0, fmt.Errorf("integer class applied to non-integer filter")
	}

	return int64(f.Width / 8), nil
}

// booleanClass implements the "boolean" filter: a single byte, zero is
// false, anything else is true.
type booleanClass struct{}

func (booleanClass) Name() string { return "boolean" }

func (booleanClass) ReadValue(box BoxHandle) (value.Value, error) {
	data := boxFilterData(box)
	if len(data) < 1 {
		return value.Value{}, fmt.Errorf("boolean: need 1 byte, have 0")
	}

	return value.NewBoolean(data[0] != 0), nil
}

func (booleanClass) ComputeMinSpanSize(BoxHandle) (int64, error) { return 1, nil }
func (booleanClass) ComputeSpanSize(BoxHandle) (int64, error)    { return 1, nil }
func (booleanClass) ComputeMaxSpanSize(BoxHandle) (int64, error) { return 1, nil }
func (booleanClass) ComputeUsedSize(BoxHandle) (int64, error)    { return 1, nil }

// stringClass implements the boundary-terminated "string" filter (§8
// scenario 1): the value runs from the box's start up to (not including) the
// first occurrence of Boundary, and the span includes the boundary itself.
type stringClass struct{}

func (stringClass) Name() string { return "string" }

func (stringClass) ReadValue(box BoxHandle) (value.Value, error) {
	f, ok := box.Filter().(ast.StringFilter)
	if !ok {
		return value.Value{}, fmt.Errorf("string class applied to non-string filter")
	}

	data := boxMaxSpanData(box)

	idx := bytes.Index(data, f.Boundary)
	if idx < 0 {
		return value.Value{}, fmt.Errorf("string: boundary %q not found", f.Boundary)
	}

	return value.NewString(data[:idx]), nil
}

func (stringClass) ComputeSpanSize(box BoxHandle) (int64, error) {
	f, ok := box.Filter().(ast.StringFilter)
	if !ok {
		return 0, fmt.Errorf("string class applied to non-string filter")
	}

	data := boxMaxSpanData(box)

	idx := bytes.Index(data, f.Boundary)
	if idx < 0 {
		return 0, fmt.Errorf("string: boundary %q not found within available span", f.Boundary)
	}

	return int64(idx + len(f.Boundary)), nil
}

func (c stringClass) ComputeMinSpanSize(box BoxHandle) (int64, error) { return c.ComputeSpanSize(box) }
func (c stringClass) ComputeMaxSpanSize(box BoxHandle) (int64, error) { return c.ComputeSpanSize(box) }
func (c stringClass) ComputeUsedSize(box BoxHandle) (int64, error)   { return c.ComputeSpanSize(box) }

// boxMaxSpanData returns the bytes from the box's start to the end of its
// maximum possible span, the window a size-discovering filter (string's
// boundary search) is allowed to search within.
func boxMaxSpanData(box BoxHandle) []byte {
	ds := box.DataSourceIn()
	start, _ := box.SpanBounds()
	_, maxEnd := box.MaxSpanBounds()
	all := ds.Bytes()

	if maxEnd > int64(len(all)) {
		maxEnd = int64(len(all))
	}

	return all[start:maxEnd]
}

// bytesClass implements the identity "bytes" filter: it claims the box's
// entire available span and reads it back verbatim.
type bytesClass struct{}

func (bytesClass) Name() string { return "bytes" }

func (bytesClass) ReadValue(box BoxHandle) (value.Value, error) {
	return value.NewBytes(boxFilterData(box)), nil
}

func (bytesClass) ComputeSpanSize(box BoxHandle) (int64, error) {
	start, _ := box.SpanBounds()
	_, maxEnd := box.MaxSpanBounds()

	return maxEnd - start, nil
}

func (c bytesClass) ComputeMinSpanSize(box BoxHandle) (int64, error) { return 0, nil }
func (c bytesClass) ComputeMaxSpanSize(box BoxHandle) (int64, error) { return c.ComputeSpanSize(box) }
func (c bytesClass) ComputeUsedSize(box BoxHandle) (int64, error)    { return c.ComputeSpanSize(box) }

// base64Class implements the data-producing "base64" filter (§8 scenario 6,
// as the first stage of a chain): it decodes its input span as standard
// base64 text into a fresh, owned in-memory DataSource.
type base64Class struct{}

func (base64Class) Name() string { return "base64" }

func (base64Class) GetDataSource(box BoxHandle) (*datasource.DataSource, error) {
	text := bytes.TrimSpace(boxMaxSpanData(box))

	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(text)))

	n, err := base64.StdEncoding.Decode(decoded, text)
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}

	return datasource.NewMemory(decoded[:n], true), nil
}

func (base64Class) ComputeSpanSize(box BoxHandle) (int64, error) {
	start, _ := box.SpanBounds()
	_, maxEnd := box.MaxSpanBounds()

	return maxEnd - start, nil
}

func (c base64Class) ComputeMinSpanSize(box BoxHandle) (int64, error) { return 0, nil }
func (c base64Class) ComputeMaxSpanSize(box BoxHandle) (int64, error) { return c.ComputeSpanSize(box) }
func (c base64Class) ComputeUsedSize(box BoxHandle) (int64, error)    { return c.ComputeSpanSize(box) }
