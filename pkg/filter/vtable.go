// Package filter implements the per-filter-class vtable (§6 "Filter-class
// interface"), the process-wide class registry (§9 "Global state"), and the
// small set of built-in filter classes needed to exercise the engine
// end-to-end (§8's concrete scenarios).
//
// The vtable operates on BoxHandle/TrackerHandle, narrow interfaces rather
// than the concrete *box.Box/*tracker.Tracker types: pkg/box needs to invoke
// a filter class's operations on itself, and a filter class's operations
// need to inspect the box/tracker that is invoking them, which would make
// pkg/box and pkg/filter import each other directly. Expressing the contract
// as interfaces that pkg/box and pkg/tracker's concrete types satisfy
// structurally breaks that cycle without losing the vtable shape.
package filter

import (
	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/datasource"
	"github.com/leanderhang/bitpunch/pkg/value"
)

// Side identifies the start/end side of an offset pair a slack allocation
// request concerns.
type Side int

// The two sides a box's offsets are resolved on.
const (
	SideStart Side = iota
	SideEnd
)

// BoxHandle is the view of a Box a filter class operates on.
type BoxHandle interface {
	// Self returns the handle's identity, for use as an error snapshot or a
	// Value owner back-reference.
	Self() any
	Filter() ast.Filter
	Parent() BoxHandle
	DataSourceIn() *datasource.DataSource
	SetDataSourceOut(ds *datasource.DataSource, overlay bool)
	SpanBounds() (start, end int64)
	MaxSpanBounds() (start, end int64)
	SetMinSpanBounds(start, end int64) error
	SetUsedBounds(start, end int64) error
	IsRightAligned() bool
	FilterState() any
	SetFilterState(state any)
}

// TrackerHandle is the view of a Tracker a filter class operates on.
type TrackerHandle interface {
	Self() any
	Box() BoxHandle
	Current() value.TrackPath
	SetCurrent(p value.TrackPath)
	ItemOffset() int64
	SetItemOffset(off int64)
	Reversed() bool
	SetAtEnd(v bool)
}

// Class is the per-filter-class vtable (§6).  Concrete classes implement the
// methods of whichever optional sub-interfaces below they support;
// operations not implemented by a class yield NotImplemented when invoked
// (enforced by the callers in pkg/box via type assertion).
type Class interface {
	// Name is the registered name this class was declared under.
	Name() string
}

// DataProducer is implemented by filter classes that produce a new data
// source for their contents (e.g. base64).
type DataProducer interface {
	GetDataSource(box BoxHandle) (*datasource.DataSource, error)
}

// ValueReader is implemented by filter classes that read a typed Value
// directly from their input data (e.g. integer, boolean, string, bytes).
type ValueReader interface {
	ReadValue(box BoxHandle) (value.Value, error)
}

// SizeComputer is implemented by filter classes able to compute one or more
// of the box's offset-resolution sizes (§4.2).
type SizeComputer interface {
	ComputeMinSpanSize(box BoxHandle) (int64, error)
	ComputeSpanSize(box BoxHandle) (int64, error)
	ComputeMaxSpanSize(box BoxHandle) (int64, error)
	ComputeUsedSize(box BoxHandle) (int64, error)
}

// ItemCounter is implemented by container filter classes that can report
// how many children they have without a full tracker walk.
type ItemCounter interface {
	GetNItems(box BoxHandle) (int64, error)
}

// SlackAllocator is implemented by container filter classes that arbitrate
// slack space among their children (§4.2 "Slack allocation").
type SlackAllocator interface {
	GetSlackChildAllocation(box BoxHandle, side Side) (int64, bool)
}

// TrackerOps is implemented by filter classes with filter-defined item
// iteration: positional and keyed navigation over a fixed or computed item
// count.  No built-in class implements it; arrays are walked by pkg/scope.
type TrackerOps interface {
	GotoFirstItem(t TrackerHandle) error
	GotoNextItem(t TrackerHandle) error
	GotoNthItem(t TrackerHandle, n int64) error
	GotoNthItemWithKey(t TrackerHandle, key value.Value, nthTwin int64) error
	GetItemKey(t TrackerHandle) (value.Value, error)
}

// ItemSizer is implemented by filter classes able to compute the size of one
// item without constructing its box (§4.4 "Item-size computation" steps
// 3-4).
type ItemSizer interface {
	ComputeItemSizeFromBuffer(data []byte, maxSize int64) (int64, bool, error)
}
