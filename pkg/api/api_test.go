package api

import (
	"bytes"
	"testing"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/browse"
	"github.com/leanderhang/bitpunch/pkg/util/assert"
)

func TestEndToEndNullTerminatedString(t *testing.T) {
	Init()
	defer Cleanup()

	schema, err := SchemaCreateFromString("greeting", `
(struct
  (field greeting (string (boundary "\x00")))
  (field answer (integer 8 unsigned)))
`)
	if err != nil {
		t.Fatalf("unexpected error compiling schema: %v", err)
	}

	bd := BoardNew(schema)
	ds := DataSourceCreateFromMemory([]byte("hi\x00*"), false)
	root := BoxNewRoot(bd, ds)

	greeting, err := EvalExpr(root, "greeting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, "hi", string(greeting.AsString()))

	answer, err := EvalExpr(root, "answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, int64('*'), answer.AsInteger())
}

func TestEndToEndArrayTracking(t *testing.T) {
	Init()
	defer Cleanup()

	schema, err := SchemaCreateFromString("list", `(array (integer 8 unsigned) 3)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bd := BoardNew(schema)
	ds := DataSourceCreateFromMemory([]byte{10, 20, 30}, false)
	root := BoxNewRoot(bd, ds)

	tr, err := TrackBoxContents(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := TrackerGotoFirstItem(tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := TrackerReadItemValue(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, int64(10), v.AsInteger())

	if err := TrackerGotoNthItem(tr, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err = TrackerReadItemValue(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, int64(30), v.AsInteger())

	if err := TrackerGotoEndPath(tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := TrackerReadItemValue(tr); err == nil {
		t.Fatalf("expected an error reading an item's value once the tracker is past the end")
	}
}

func TestBoxApplyFilterResolvesReference(t *testing.T) {
	Init()
	defer Cleanup()

	schema, err := SchemaCreateFromString("ref", `(ref header)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bd := BoardNew(schema)
	if err := bd.AddItem("header", ast.Boolean{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ds := DataSourceCreateFromMemory([]byte{1}, false)
	root := BoxNewRoot(bd, ds)

	resolved, err := BoxApplyFilter(root, root.Filter())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, "boolean", resolved.ClassName())
}

func TestPushExpectedErrorSuppressesRealFailure(t *testing.T) {
	Init()
	defer Cleanup()

	schema, err := SchemaCreateFromString("one-field", `(struct (field count (integer 8 unsigned)))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bd := BoardNew(schema)
	ds := DataSourceCreateFromMemory([]byte{7}, false)
	root := BoxNewRoot(bd, ds)

	tr, err := TrackBoxContents(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	PushExpectedError(root, browse.NoItem)

	if err := TrackerGotoNamedItem(tr, "missing"); err != nil {
		t.Fatalf("expected NoItem to be suppressed while expected, got %v", err)
	}

	PopExpectedError(root)

	err = TrackerGotoNamedItem(tr, "missing")
	if err == nil {
		t.Fatalf("expected an error once the NoItem expectation was popped")
	}

	bErr, ok := err.(*browse.Error)
	if !ok {
		t.Fatalf("expected a *browse.Error, got %T", err)
	}

	assert.Equal(t, browse.NoItem, bErr.Status)
}

func TestErrorDumpFullAndStatusPretty(t *testing.T) {
	err := browse.NewError(browse.OutOfBounds, "past end", nil)

	var buf bytes.Buffer
	ErrorDumpFull(err, &buf)

	if buf.Len() == 0 {
		t.Fatalf("expected ErrorDumpFull to write something")
	}

	assert.Equal(t, "out of bounds", StatusPretty(browse.OutOfBounds))
}
