package browse

import (
	"github.com/leanderhang/bitpunch/pkg/util/collection/stack"
)

// BrowseState is threaded through every operation that may allocate, read
// data, or report an error (§4.1).  Scope and Board are stored untyped to
// avoid an import cycle with pkg/box and pkg/board respectively; typed
// accessors are provided for callers that already import those packages.
type BrowseState struct {
	lastError      *Error
	expectedErrors *stack.Stack[Status]
	scope          any
	board          any
}

// NewBrowseState constructs an empty BrowseState bound to a board.  board is
// stored untyped (see type docs); pass a *board.Board.
func NewBrowseState(board any) *BrowseState {
	return &BrowseState{expectedErrors: stack.NewStack[Status](), board: board}
}

// LastError returns the pending error, or nil if none is set.
func (bs *BrowseState) LastError() *Error {
	return bs.lastError
}

// Board returns the bound board, untyped; callers type-assert to
// *board.Board.
func (bs *BrowseState) Board() any {
	return bs.board
}

// Scope returns the current lexical scope, untyped; callers type-assert to
// *box.Box.
func (bs *BrowseState) Scope() any {
	return bs.scope
}

// PushScope replaces the current scope, returning the previous one so the
// caller can restore it (scope push/pop must be strictly paired, §4.1).
func (bs *BrowseState) PushScope(scope any) any {
	prev := bs.scope
	bs.scope = scope

	return prev
}

// PopScope restores a previously-pushed scope.
func (bs *BrowseState) PopScope(prev any) {
	bs.scope = prev
}

// PushExpected pushes a status kind onto the expected-error stack: a caller
// that plans to silently recover this kind of error (typically OutOfBounds
// while probing) calls this before the probing operation (§4.1, §4.7).
func (bs *BrowseState) PushExpected(status Status) {
	bs.expectedErrors.Push(status)
}

// PopExpected pops the most recently pushed expected status.  Push/pop must
// be strictly paired (§5 "Ordering").
func (bs *BrowseState) PopExpected() {
	bs.expectedErrors.Pop()
}

// isExpected reports whether status is currently on the expected-error
// stack.
func (bs *BrowseState) isExpected(status Status) bool {
	for i := uint(0); i < bs.expectedErrors.Len(); i++ {
		if bs.expectedErrors.Peek(i) == status {
			return true
		}
	}

	return false
}

// SetError replaces LastError with err, unless err's status is on the
// expected-error stack, in which case it is silently dropped (§4.1, §4.7).
func (bs *BrowseState) SetError(err *Error) {
	if err == nil || bs.isExpected(err.Status) {
		return
	}

	bs.lastError = err
}

// ClearError drops any pending error, e.g. after a caller has consumed it.
func (bs *BrowseState) ClearError() {
	bs.lastError = nil
}

// TransmitError implements the public-API `transmit_error` pattern (§4.1):
// it moves any pending error into errOut and clears the state.
func (bs *BrowseState) TransmitError(errOut *error) {
	if bs.lastError != nil {
		*errOut = bs.lastError
		bs.lastError = nil
	}
}

// Fail routes err through bs, the uniform entry point every layer (box,
// scope, tracker, eval, api) uses to raise a structured error rather than
// setting bs directly: a status currently on the expected-error stack is
// suppressed, in which case Fail returns nil so the caller's probing
// continues. A nil bs returns err unconditionally, for callers operating
// without an attached BrowseState (package-level tests in particular).
func Fail(bs *BrowseState, err *Error) error {
	if bs == nil {
		return err
	}

	// Clear any stale pending error first so a leftover from an earlier,
	// already-handled operation cannot be mistaken for this one.
	bs.ClearError()
	bs.SetError(err)

	if bs.LastError() == nil {
		return nil
	}

	return bs.LastError()
}
