package value

import (
	"testing"

	"github.com/leanderhang/bitpunch/pkg/datasource"
	"github.com/leanderhang/bitpunch/pkg/util/assert"
)

func TestValueScalars(t *testing.T) {
	assert.Equal(t, int64(42), NewInteger(42).AsInteger())
	assert.True(t, NewBoolean(true).AsBoolean())
	assert.Equal(t, "hi", string(NewString([]byte("hi")).AsString()))
	assert.Equal(t, []byte{1, 2, 3}, NewBytes([]byte{1, 2, 3}).AsBytes())
	assert.Equal(t, Unset, NewUnset().Kind())
}

func TestValueAsIntegerPanicsOnWrongKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic reading an integer out of a boolean value")
		}
	}()

	NewBoolean(true).AsInteger()
}

func TestValueDataRange(t *testing.T) {
	ds := datasource.NewMemory([]byte("hello world"), false)
	v := NewDataRange(ds, 2, 5)

	got, start, end := v.AsDataSource()
	assert.Equal(t, ds, got)
	assert.Equal(t, int64(2), start)
	assert.Equal(t, int64(5), end)
}

func TestValueDataWholeSource(t *testing.T) {
	ds := datasource.NewMemory([]byte("hello"), false)
	v := NewData(ds)

	got, start, end := v.AsDataSource()
	assert.Equal(t, ds, got)
	assert.Equal(t, int64(0), start)
	assert.Equal(t, int64(5), end)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, `"hi"`, NewString([]byte("hi")).String())
	assert.Equal(t, "42", NewInteger(42).String())
	assert.Equal(t, "true", NewBoolean(true).String())
	assert.Equal(t, "<unset>", NewUnset().String())
}
