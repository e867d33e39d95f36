// Package api is the public façade over the engine (§6 "External
// interfaces"): one function per operation, matching the C API's operation
// names (box_new_root, tracker_goto_next_item, error_dump_full, ...) even
// though Go idiom returns errors directly rather than through an
// out-parameter.
//
// BoxNewRoot binds a fresh browse.BrowseState to the box tree it
// constructs; every box and tracker descending from that root shares it.
// Every façade function that can fail routes the engine's returned error
// through that BrowseState via transmit before returning it, so a status
// pushed onto the expected-error stack with PushExpectedError is honored
// uniformly at this boundary even for call chains that did not originate
// the error as a *browse.Error themselves.
package api

import (
	"io"
	"os"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/board"
	"github.com/leanderhang/bitpunch/pkg/box"
	"github.com/leanderhang/bitpunch/pkg/browse"
	"github.com/leanderhang/bitpunch/pkg/datasource"
	"github.com/leanderhang/bitpunch/pkg/eval"
	"github.com/leanderhang/bitpunch/pkg/filter"
	"github.com/leanderhang/bitpunch/pkg/schemalang"
	"github.com/leanderhang/bitpunch/pkg/tracker"
	"github.com/leanderhang/bitpunch/pkg/value"
)

// Init declares the built-in filter classes into the process-wide registry.
// Must be called once before any schema is compiled or box created.
func Init() { filter.Init() }

// Cleanup discards the process-wide filter-class registry.
func Cleanup() { filter.Cleanup() }

// SchemaCreateFromPath compiles the schema text stored at path.
func SchemaCreateFromPath(path string) (*ast.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return schemalang.Compile(path, data)
}

// SchemaCreateFromBuffer compiles schema text already held in memory.
func SchemaCreateFromBuffer(name string, text []byte) (*ast.Schema, error) {
	return schemalang.Compile(name, text)
}

// SchemaCreateFromString compiles a schema given as a Go string.
func SchemaCreateFromString(name, text string) (*ast.Schema, error) {
	return schemalang.Compile(name, []byte(text))
}

// DataSourceCreateFromFilePath memory-maps path read-only.
func DataSourceCreateFromFilePath(path string) (*datasource.DataSource, error) {
	return datasource.NewFile(path)
}

// DataSourceCreateFromFd memory-maps an already-open, sized file
// descriptor read-only (§6 "FEATURES RECOVERED", `data_source_create_from_fd`).
func DataSourceCreateFromFd(fd int, sizeBytes int) (*datasource.DataSource, error) {
	return datasource.NewFd(fd, sizeBytes)
}

// DataSourceCreateFromMemory wraps an in-memory buffer as a DataSource.
func DataSourceCreateFromMemory(data []byte, owned bool) *datasource.DataSource {
	return datasource.NewMemory(data, owned)
}

// BoardNew constructs a Board rooted at schema's root filter.
func BoardNew(schema *ast.Schema) *board.Board {
	return board.New(schema.Root)
}

// BoardFree is a no-op placeholder matching the C API's explicit free call;
// Go's garbage collector reclaims a Board once it is unreferenced.
func BoardFree(*board.Board) {}

// BoxNewRoot constructs the root box of b's schema over ds, binding a fresh
// browse.BrowseState that it and every box or tracker derived from it share.
func BoxNewRoot(b *board.Board, ds *datasource.DataSource) *box.Box {
	return box.NewRoot(b.Root, b, ds, browse.NewBrowseState(b))
}

// BoxBrowseState returns the BrowseState b's tree shares, for callers that
// need PushExpectedError/PopExpectedError or want to inspect a suppressed
// error directly.
func BoxBrowseState(b *box.Box) *browse.BrowseState { return b.BrowseState() }

// PushExpectedError declares that the caller is about to perform an
// operation it expects might fail with status, and plans to recover from
// that failure silently (§4.1, §4.7): until the matching
// PopExpectedError, every façade function below suppresses an error of
// that status instead of returning it.
func PushExpectedError(b *box.Box, status browse.Status) {
	b.BrowseState().PushExpected(status)
}

// PopExpectedError ends the most recently started PushExpectedError probe.
// Push/pop must be strictly paired.
func PopExpectedError(b *box.Box) {
	b.BrowseState().PopExpected()
}

// transmit routes err through bs (see browse.Fail), the uniform point every
// façade function funnels its engine error through so expected-error
// suppression applies even to call chains that return a plain error rather
// than a *browse.Error.
func transmit(bs *browse.BrowseState, err error) error {
	if err == nil {
		return nil
	}

	return browse.Fail(bs, browse.Wrap(err, browse.Error, nil))
}

// EvalExpr compiles and evaluates a standalone expression against scope.
func EvalExpr(scopeBox *box.Box, exprText string) (value.Value, error) {
	expr, err := schemalang.CompileExpr("<expr>", []byte(exprText))
	if err != nil {
		return value.Value{}, err
	}

	v, err := eval.EvaluateValue(scopeBox, expr)

	return v, transmit(scopeBox.BrowseState(), err)
}

// BoxGetNItems reports how many children b's filter declares.
func BoxGetNItems(b *box.Box) (int64, error) {
	n, err := b.NItems()
	return n, transmit(b.BrowseState(), err)
}

// BoxReadValue resolves and reads b's value through its filter class.
func BoxReadValue(b *box.Box) (value.Value, error) {
	v, err := b.ReadValue()
	return v, transmit(b.BrowseState(), err)
}

// BoxApplyFilter resolves a Reference filter node against b's board, following
// chained references until a concrete filter is reached (§4.6
// evaluate_filter_type).
func BoxApplyFilter(b *box.Box, f ast.Filter) (ast.Filter, error) {
	resolved, err := eval.EvaluateFilterType(b, f)
	return resolved, transmit(b.BrowseState(), err)
}

// TrackBoxContents constructs a tracker over container's children.
func TrackBoxContents(container *box.Box) (*tracker.Tracker, error) {
	t, err := tracker.New(container)
	return t, transmit(container.BrowseState(), err)
}

// TrackerGotoFirstItem positions t on its container's first child.
func TrackerGotoFirstItem(t *tracker.Tracker) error {
	return transmit(t.BrowseState(), t.GotoFirstItem())
}

// TrackerGotoNextItem advances t to its container's next child.
func TrackerGotoNextItem(t *tracker.Tracker) error {
	return transmit(t.BrowseState(), t.GotoNextItem())
}

// TrackerGotoNthItem positions t on its container's n'th child.
func TrackerGotoNthItem(t *tracker.Tracker, n int64) error {
	return transmit(t.BrowseState(), t.GotoNthItem(n))
}

// TrackerGotoNamedItem positions t on the struct field named name.
func TrackerGotoNamedItem(t *tracker.Tracker, name string) error {
	return transmit(t.BrowseState(), t.GotoNamedItem(name))
}

// TrackerGotoNthItemWithKey positions t on the array item keyed by key.
func TrackerGotoNthItemWithKey(t *tracker.Tracker, key value.Value, nthTwin int64) error {
	return transmit(t.BrowseState(), t.GotoNthItemWithKey(key, nthTwin))
}

// TrackerGotoEndPath positions t past its container's last child.
func TrackerGotoEndPath(t *tracker.Tracker) error {
	return transmit(t.BrowseState(), t.GotoEndPath())
}

// TrackerGetItemKey returns the current array item's key value.
func TrackerGetItemKey(t *tracker.Tracker) (value.Value, error) {
	v, err := t.GetItemKey()
	return v, transmit(t.BrowseState(), err)
}

// TrackerReadItemValue reads the value of the child the tracker is
// currently positioned on.
func TrackerReadItemValue(t *tracker.Tracker) (value.Value, error) {
	b := t.ItemBox()
	if b == nil {
		bErr := browse.NewError(browse.InvalidState, "tracker is not positioned on an item", nil)
		return value.Value{}, transmit(t.BrowseState(), bErr)
	}

	v, err := b.ReadValue()

	return v, transmit(t.BrowseState(), err)
}

// ErrorDumpFull renders err's message and full context-frame chain to w.
func ErrorDumpFull(err *browse.Error, w io.Writer) {
	err.DumpFull(w)
}

// ErrorDestroy is a no-op placeholder matching the C API's explicit destroy
// call; Go's garbage collector reclaims a browse.Error once unreferenced.
func ErrorDestroy(*browse.Error) {}

// StatusPretty renders a browse.Status as its short human-readable name.
func StatusPretty(s browse.Status) string { return browse.Pretty(s) }
