// Package box implements Box, the per-region runtime handle that anchors a
// schema filter onto a concrete byte range of a DataSource (§3 "Box", §4.2
// "Offset resolution").  Box owns the offset-pair state machine and
// dispatches to the leaf filter vtable (pkg/filter) for scalar value
// reading and sizing; it deliberately knows nothing about struct/array
// traversal, scope lookup, or expression evaluation, which are the
// responsibility of pkg/tracker, pkg/scope and pkg/eval layered above it.
// Keeping those concerns out of pkg/box is what lets this package sit below
// pkg/filter in the import graph without a cycle, even though box and the
// filter vtable are conceptually mutually referential (§4.2).
package box

import (
	"fmt"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/board"
	"github.com/leanderhang/bitpunch/pkg/browse"
	"github.com/leanderhang/bitpunch/pkg/datasource"
	"github.com/leanderhang/bitpunch/pkg/filter"
	"github.com/leanderhang/bitpunch/pkg/value"
)

// Box anchors one schema filter onto a concrete, lazily-resolved byte range.
// Only a single (start, end) span is tracked, together with the upper bound
// (maxEnd) the span is permitted to grow into before resolution — a
// deliberate narrowing of the six concentric offset pairs the offset model
// describes (§4.2) to the two that this engine's filter set actually needs
// to distinguish (see DESIGN.md, "Box offset model").
type Box struct {
	filterNode ast.Filter
	parent     *Box
	board      *board.Board
	bs         *browse.BrowseState

	dsIn  *datasource.DataSource
	dsOut *datasource.DataSource

	start     int64
	end       int64
	haveEnd   bool
	maxEnd    int64
	resolving bool

	filterState any
	useCount    int32
}

// NewRoot constructs the root box of a schema: the whole of ds, interpreted
// by root. bs is the BrowseState this box and every box descending from it
// report errors through and honor the expected-error stack of; it may be
// nil, in which case errors are returned without suppression or
// accumulation (used by tests that exercise a package in isolation).
func NewRoot(root ast.Filter, b *board.Board, ds *datasource.DataSource, bs *browse.BrowseState) *Box {
	return &Box{
		filterNode: root,
		board:      b,
		bs:         bs,
		dsIn:       ds.Acquire(),
		start:      0,
		maxEnd:     ds.Len(),
		useCount:   1,
	}
}

// NewChild constructs a child box of parent, interpreting f starting at
// start and bounded above by maxEnd (both relative to the child's input data
// source, which is parent's output data source if parent produced one, or
// parent's input otherwise).  Called by pkg/scope as it lays out a
// container's children.
func NewChild(parent *Box, f ast.Filter, start, maxEnd int64) *Box {
	ds := parent.dsIn
	if parent.dsOut != nil {
		ds = parent.dsOut
	}

	return &Box{
		filterNode: f,
		parent:     parent,
		board:      parent.board,
		bs:         parent.bs,
		dsIn:       ds.Acquire(),
		start:      start,
		maxEnd:     maxEnd,
		useCount:   1,
	}
}

// BrowseState returns the BrowseState this box reports errors through, or
// nil if none is attached.
func (b *Box) BrowseState() *browse.BrowseState { return b.bs }

// fail converts err into this box's pending BrowseState error, if one is
// attached: a status currently on the expected-error stack is suppressed,
// in which case fail itself returns nil so the caller's probing continues.
// With no BrowseState attached, err is returned unconditionally.
func (b *Box) fail(err *browse.Error) error {
	return browse.Fail(b.bs, err)
}

// Filter returns the schema node this box interprets.
func (b *Box) Filter() ast.Filter { return b.filterNode }

// Self implements filter.BoxHandle.
func (b *Box) Self() any { return b }

// Parent implements filter.BoxHandle.  Returns nil (as a typed nil
// filter.BoxHandle, guarded below) for the root box.
func (b *Box) Parent() filter.BoxHandle {
	if b.parent == nil {
		return nil
	}

	return b.parent
}

// ParentBox returns the concrete parent box, or nil for the root.
func (b *Box) ParentBox() *Box { return b.parent }

// Board returns the board this box (and its descendants) resolve named
// references and compiled expressions against.
func (b *Box) Board() *board.Board { return b.board }

// DataSourceIn implements filter.BoxHandle.
func (b *Box) DataSourceIn() *datasource.DataSource { return b.dsIn }

// DataSourceOut returns the data source this box's children read from: its
// own produced output if it has one (a data-producing filter such as
// base64), or else its input.
func (b *Box) DataSourceOut() *datasource.DataSource {
	if b.dsOut != nil {
		return b.dsOut
	}

	return b.dsIn
}

// SetDataSourceOut implements filter.BoxHandle.  overlay is accepted for
// interface symmetry with the overlay/replace distinction data-producing
// filters can make but is not yet distinguished by any built-in filter
// class.
func (b *Box) SetDataSourceOut(ds *datasource.DataSource, overlay bool) {
	_ = overlay
	b.dsOut = ds
}

// Start returns the box's resolved start offset within its input data
// source.
func (b *Box) Start() int64 { return b.start }

// SpanBounds implements filter.BoxHandle.  If the end has not yet been
// resolved, it is computed now via EnsureSize.  filter.BoxHandle has no
// error return here, so a resolution failure degenerates to the
// zero-length span (start, start) rather than panicking or propagating;
// EnsureSize has already recorded the real error on this box's BrowseState
// (if one is attached, via fail), so callers that care can still retrieve
// it from there instead of from this return value.
func (b *Box) SpanBounds() (int64, int64) {
	if !b.haveEnd {
		if err := b.EnsureSize(); err != nil {
			return b.start, b.start
		}
	}

	return b.start, b.end
}

// MaxSpanBounds implements filter.BoxHandle: the range the box's span is
// permitted to grow into before resolution picks a concrete end.
func (b *Box) MaxSpanBounds() (int64, int64) { return b.start, b.maxEnd }

// SetMinSpanBounds implements filter.BoxHandle by treating the minimum span
// as authoritative: pkg/tracker and the built-in filter classes only ever
// report a single resolved size, so min span and span coincide here.
func (b *Box) SetMinSpanBounds(start, end int64) error {
	return b.SetEnd(end)
}

// SetUsedBounds implements filter.BoxHandle, used by pkg/scope once it has
// finished laying out a container's children to record the offset one past
// the container's last child.
func (b *Box) SetUsedBounds(start, end int64) error {
	return b.SetEnd(end)
}

// SetEnd fixes this box's resolved end offset, failing if it would violate
// the box's maximum span or if the box's end was already resolved to a
// different value (the two sources of truth — a filter's own size
// computation and a container's accumulated child layout — must agree).
func (b *Box) SetEnd(end int64) error {
	if end < b.start || end > b.maxEnd {
		// A child box overflows the slack its container rationed it; the
		// root box overflows the data source itself, which this model
		// treats as its own "parent" bound (see DESIGN.md, "Box offset
		// model").
		registeredType := "parent"
		if b.parent != nil {
			registeredType = "slack"
		}

		bErr := browse.NewError(browse.OutOfBounds,
			fmt.Sprintf("end offset %d outside [%d,%d]", end, b.start, b.maxEnd), b.filterNode).
			WithSnapshot(b).
			WithInfo(&browse.OutOfBoundsInfo{
				RegisteredType:  registeredType,
				RegisteredValue: b.maxEnd,
				RequestedType:   "end",
				RequestedValue:  end,
			})
		bErr.AddContext(b, b.filterNode, "when computing item size")

		return b.fail(bErr)
	}

	if b.haveEnd && b.end != end {
		bErr := browse.NewError(browse.InvalidState,
			fmt.Sprintf("conflicting end offsets %d and %d", b.end, end), b.filterNode).
			WithSnapshot(b)

		return b.fail(bErr)
	}

	b.end = end
	b.haveEnd = true

	return nil
}

// IsRightAligned implements filter.BoxHandle.  No built-in filter class
// currently produces a right-aligned box (trailer fields are sized
// explicitly rather than grown from the end), so this always reports
// false; the method exists so filter.BoxHandle's shape matches §4.2's
// offset model for classes added later.
func (b *Box) IsRightAligned() bool { return false }

// FilterState implements filter.BoxHandle.
func (b *Box) FilterState() any { return b.filterState }

// SetFilterState implements filter.BoxHandle.
func (b *Box) SetFilterState(state any) { b.filterState = state }

// EnsureSize resolves this box's end offset by dispatching to the
// registered leaf filter class for filterNode, guarding against the
// reentrant resolution a cyclic schema could otherwise trigger (§4.2
// "fixed point... reentrancy guards").  Container filters (struct,
// array) are not resolved here: their end offset is set by pkg/scope
// as it finishes laying out their children.
func (b *Box) EnsureSize() error {
	if b.haveEnd {
		return nil
	}

	if b.resolving {
		bErr := browse.NewError(browse.InvalidState,
			fmt.Sprintf("cyclic size resolution detected for %s", b.filterNode.ClassName()), b.filterNode)

		return b.fail(bErr)
	}

	b.resolving = true
	defer func() { b.resolving = false }()

	class, err := filter.Global().LookupClass(b.filterNode.ClassName())
	if err != nil {
		return b.fail(browse.Wrap(err, browse.Error, b.filterNode))
	}

	sizer, ok := class.(filter.SizeComputer)
	if !ok {
		bErr := browse.NewError(browse.NotImplemented,
			fmt.Sprintf("filter class %q cannot self-size", b.filterNode.ClassName()), b.filterNode)

		return b.fail(bErr)
	}

	size, err := sizer.ComputeSpanSize(b)
	if err != nil {
		return b.fail(browse.Wrap(err, browse.DataError, b.filterNode))
	}

	return b.SetEnd(b.start + size)
}

// ReadValue resolves this box's size if needed and reads its value through
// the registered leaf filter class.
func (b *Box) ReadValue() (value.Value, error) {
	class, err := filter.Global().LookupClass(b.filterNode.ClassName())
	if err != nil {
		return value.Value{}, b.fail(browse.Wrap(err, browse.Error, b.filterNode))
	}

	reader, ok := class.(filter.ValueReader)
	if !ok {
		bErr := browse.NewError(browse.NotImplemented,
			fmt.Sprintf("filter class %q does not produce a value", b.filterNode.ClassName()), b.filterNode)

		return value.Value{}, b.fail(bErr)
	}

	if _, _, err := b.ensureData(); err != nil {
		return value.Value{}, err
	}

	v, err := reader.ReadValue(b)
	if err != nil {
		return value.Value{}, b.fail(browse.Wrap(err, browse.DataError, b.filterNode))
	}

	v.Owner = b

	return v, nil
}

// ensureData resolves the box's span and, for data-producing filter
// classes, its produced output data source.
func (b *Box) ensureData() (int64, int64, error) {
	class, err := filter.Global().LookupClass(b.filterNode.ClassName())
	if err != nil {
		return 0, 0, b.fail(browse.Wrap(err, browse.Error, b.filterNode))
	}

	if producer, ok := class.(filter.DataProducer); ok && b.dsOut == nil {
		ds, err := producer.GetDataSource(b)
		if err != nil {
			return 0, 0, b.fail(browse.Wrap(err, browse.DataError, b.filterNode))
		}

		b.SetDataSourceOut(ds, false)
	}

	if err := b.EnsureSize(); err != nil {
		return 0, 0, err
	}

	return b.start, b.end, nil
}

// NItems reports the number of children this box's filter declares, for
// container filters that can answer without a tracker walk (array with a
// static count, struct by field count).
func (b *Box) NItems() (int64, error) {
	if f, ok := b.filterNode.(ast.Struct); ok {
		return int64(len(f.Fields)), nil
	}

	if f, ok := b.filterNode.(ast.Array); ok {
		if lit, ok := f.Count.(ast.IntLit); ok {
			return lit.Value, nil
		}
	}

	class, err := filter.Global().LookupClass(b.filterNode.ClassName())
	if err != nil {
		return 0, b.fail(browse.Wrap(err, browse.Error, b.filterNode))
	}

	counter, ok := class.(filter.ItemCounter)
	if !ok {
		bErr := browse.NewError(browse.NotImplemented,
			fmt.Sprintf("filter class %q does not count items", b.filterNode.ClassName()), b.filterNode)

		return 0, b.fail(bErr)
	}

	n, err := counter.GetNItems(b)
	if err != nil {
		return 0, b.fail(browse.Wrap(err, browse.DataError, b.filterNode))
	}

	return n, nil
}

// Acquire increments this box's use count, mirroring the reference counting
// the public API exposes over box handles (§6 "box_acquire"/"box_release").
func (b *Box) Acquire() *Box {
	b.useCount++
	return b
}

// Release decrements this box's use count, releasing its input data source
// reference once it reaches zero.
func (b *Box) Release() error {
	b.useCount--
	if b.useCount > 0 {
		return nil
	}

	if b.dsOut != nil {
		if err := b.dsOut.Release(); err != nil {
			return err
		}
	}

	return b.dsIn.Release()
}
