// Package value defines the tagged Value, Dpath and TrackPath types threaded
// through expression evaluation and navigation.
package value

import (
	"fmt"

	"github.com/leanderhang/bitpunch/pkg/datasource"
)

// Kind identifies which variant of Value is populated.
type Kind int

// The Value variants, matching the data model exactly.
const (
	Unset Kind = iota
	Integer
	Boolean
	String
	Bytes
	Data
	DataRange
)

// Value is a tagged union over the handful of scalar and data-backed kinds a
// filter can produce.  A Value may carry an Owner back-reference (typically a
// *box.Box) to keep the underlying DataSource alive for as long as the value
// is observed; Owner is untyped here to avoid an import cycle between value
// and box, and is type-asserted by callers that need it.
type Value struct {
	kind       Kind
	integer    int64
	boolean    bool
	str        []byte
	bytes      []byte
	ds         *datasource.DataSource
	rangeStart int64
	rangeEnd   int64
	Owner      any
}

// NewUnset constructs the Unset value.
func NewUnset() Value { return Value{kind: Unset} }

// NewInteger constructs an Integer value.
func NewInteger(v int64) Value { return Value{kind: Integer, integer: v} }

// NewBoolean constructs a Boolean value.
func NewBoolean(v bool) Value { return Value{kind: Boolean, boolean: v} }

// NewString constructs a String value.
func NewString(v []byte) Value { return Value{kind: String, str: v} }

// NewBytes constructs a Bytes value.
func NewBytes(v []byte) Value { return Value{kind: Bytes, bytes: v} }

// NewData constructs a Data value wrapping an entire data source.
func NewData(ds *datasource.DataSource) Value { return Value{kind: Data, ds: ds} }

// NewDataRange constructs a DataRange value over [start,end) of ds.
func NewDataRange(ds *datasource.DataSource, start, end int64) Value {
	return Value{kind: DataRange, ds: ds, rangeStart: start, rangeEnd: end}
}

// Kind returns this value's variant tag.
func (v Value) Kind() Kind { return v.kind }

// AsInteger returns the integer payload, or panics if this is not an Integer.
func (v Value) AsInteger() int64 {
	if v.kind != Integer {
		panic("value is not an integer")
	}

	return v.integer
}

// AsBoolean returns the boolean payload, or panics if this is not a Boolean.
func (v Value) AsBoolean() bool {
	if v.kind != Boolean {
		panic("value is not a boolean")
	}

	return v.boolean
}

// AsString returns the string payload, or panics if this is not a String.
func (v Value) AsString() []byte {
	if v.kind != String {
		panic("value is not a string")
	}

	return v.str
}

// AsBytes returns the bytes payload, or panics if this is not Bytes.
func (v Value) AsBytes() []byte {
	if v.kind != Bytes {
		panic("value is not bytes")
	}

	return v.bytes
}

// AsDataSource returns the data source payload of a Data or DataRange value,
// and the [start,end) window it refers to (the whole source, for Data).
func (v Value) AsDataSource() (*datasource.DataSource, int64, int64) {
	switch v.kind {
	case Data:
		return v.ds, 0, v.ds.Len()
	case DataRange:
		return v.ds, v.rangeStart, v.rangeEnd
	default:
		panic("value does not carry a data source")
	}
}

// String renders a human-readable form of this value, used by CLI dump
// commands and test failure messages.
func (v Value) String() string {
	switch v.kind {
	case Unset:
		return "<unset>"
	case Integer:
		return fmt.Sprintf("%d", v.integer)
	case Boolean:
		return fmt.Sprintf("%t", v.boolean)
	case String:
		return fmt.Sprintf("%q", string(v.str))
	case Bytes:
		return fmt.Sprintf("bytes[%d]", len(v.bytes))
	case Data:
		return fmt.Sprintf("data[%d]", v.ds.Len())
	case DataRange:
		return fmt.Sprintf("data[%d:%d]", v.rangeStart, v.rangeEnd)
	default:
		return "<invalid>"
	}
}
