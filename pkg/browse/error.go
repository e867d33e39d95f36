package browse

import (
	"fmt"
	"io"

	"github.com/leanderhang/bitpunch/pkg/ast"
)

// NContext bounds the number of context frames retained on an Error (§4.7).
const NContext = 8

// OutOfBoundsInfo is the kind-specific payload of an OutOfBounds error
// (§4.7), carrying both sides of the offending containment check.
type OutOfBoundsInfo struct {
	RegisteredType  string
	RequestedType   string
	RegisteredValue int64
	RequestedValue  int64
}

// Frame is one layer of context attached to an Error as it unwinds (§4.7).
// Subject is a snapshot of the tracker or box active when the frame was
// added, stored untyped to avoid an import cycle; it is used only for
// identity comparison when rendering (the `^^^` dedup marker).
type Frame struct {
	Subject any
	Node    ast.Node
	Message string
}

// Error is the structured error object threaded through a BrowseState
// (§4.7).
type Error struct {
	Status  Status
	Message string
	// Snapshot is a duplicated tracker or box captured at the point the
	// error was raised (untyped to avoid an import cycle).
	Snapshot any
	Node     ast.Node
	Info     any
	Context  []Frame
}

// NewError constructs an Error with the given status, message and AST node.
func NewError(status Status, message string, node ast.Node) *Error {
	return &Error{Status: status, Message: message, Node: node}
}

// Wrap returns err as an *Error: unchanged if it already is one (status and
// context survive a pass through a layer that didn't originate it), or
// freshly constructed with status and node otherwise. Returns nil for a nil
// err so callers can use it unconditionally on a possibly-nil error.
func Wrap(err error, status Status, node ast.Node) *Error {
	if err == nil {
		return nil
	}

	if be, ok := err.(*Error); ok {
		return be
	}

	return NewError(status, err.Error(), node)
}

// WithSnapshot attaches a tracker/box snapshot to this error, for use by
// error_dump_full consumers that want to re-render the subject.
func (e *Error) WithSnapshot(snapshot any) *Error {
	e.Snapshot = snapshot
	return e
}

// WithInfo attaches a kind-specific info payload (typically
// *OutOfBoundsInfo).
func (e *Error) WithInfo(info any) *Error {
	e.Info = info
	return e
}

// AddContext appends one context frame as the error unwinds, most-specific
// first, capped at NContext frames (once NContext frames are held, further
// frames are dropped and the earliest ones are kept).
func (e *Error) AddContext(subject any, node ast.Node, message string) {
	if len(e.Context) >= NContext {
		return
	}

	e.Context = append(e.Context, Frame{Subject: subject, Node: node, Message: message})
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", Pretty(e.Status), e.Message)
}

// DumpFull implements the `error_dump_full` façade operation (§6): it prints
// the error message, then each context frame from most-specific to least,
// collapsing consecutive frames that share the same subject+node behind a
// `^^^` marker (§4.7).
func (e *Error) DumpFull(w io.Writer) {
	fmt.Fprintf(w, "%s: %s\n", Pretty(e.Status), e.Message)

	if info, ok := e.Info.(*OutOfBoundsInfo); ok {
		fmt.Fprintf(w, "  %s=%d exceeds %s=%d\n",
			info.RequestedType, info.RequestedValue, info.RegisteredType, info.RegisteredValue)
	}

	var prevSubject any

	var prevNode ast.Node

	havePrev := false

	for _, frame := range e.Context {
		if havePrev && frame.Subject == prevSubject && frame.Node == prevNode {
			fmt.Fprintf(w, "  ^^^ %s\n", frame.Message)
			continue
		}

		if frame.Node != nil {
			fmt.Fprintf(w, "  %s: %s\n", frame.Node.Lisp().String(false), frame.Message)
		} else {
			fmt.Fprintf(w, "  %s\n", frame.Message)
		}

		prevSubject, prevNode, havePrev = frame.Subject, frame.Node, true
	}
}
