package browse

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/util/assert"
)

func TestErrorImplementsError(t *testing.T) {
	err := NewError(OutOfBounds, "offset past end of buffer", nil)

	assert.Equal(t, "out of bounds: offset past end of buffer", err.Error())
}

func TestAddContextCapsAtNContext(t *testing.T) {
	err := NewError(Error, "boom", nil)

	for i := 0; i < NContext+5; i++ {
		err.AddContext(nil, nil, "frame")
	}

	assert.Equal(t, NContext, len(err.Context))
}

func TestDumpFullDedupsRepeatedSubjectWithMarker(t *testing.T) {
	err := NewError(Error, "boom", nil)

	subject := "tracker-snapshot"
	node := ast.Boolean{}

	err.AddContext(subject, node, "first")
	err.AddContext(subject, node, "second")

	var buf bytes.Buffer
	err.DumpFull(&buf)

	out := buf.String()
	if !strings.Contains(out, "^^^ second") {
		t.Fatalf("expected a ^^^ dedup marker for the repeated frame, got:\n%s", out)
	}
}

func TestDumpFullRendersOutOfBoundsInfo(t *testing.T) {
	err := NewError(OutOfBounds, "span exceeds parent", nil).
		WithInfo(&OutOfBoundsInfo{
			RegisteredType: "parent.end", RegisteredValue: 10,
			RequestedType: "child.end", RequestedValue: 20,
		})

	var buf bytes.Buffer
	err.DumpFull(&buf)

	out := buf.String()
	if !strings.Contains(out, "child.end=20 exceeds parent.end=10") {
		t.Fatalf("expected out-of-bounds info line, got:\n%s", out)
	}
}
