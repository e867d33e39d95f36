// Package tracker implements Tracker, the stateful cursor that walks a
// container box's children (§4.4 "Tracker state machine"). It drives
// pkg/scope to lay out struct fields and array items and constructs each
// child's pkg/box on demand; it implements filter.TrackerHandle so a filter
// class with bespoke iteration (none of the built-ins need one — see
// DESIGN.md) can still participate in the same vtable dispatch pkg/box uses
// for scalar filters.
package tracker

import (
	"fmt"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/box"
	"github.com/leanderhang/bitpunch/pkg/browse"
	"github.com/leanderhang/bitpunch/pkg/eval"
	"github.com/leanderhang/bitpunch/pkg/filter"
	"github.com/leanderhang/bitpunch/pkg/scope"
	"github.com/leanderhang/bitpunch/pkg/value"
)

// State is a tracker's position within its container, matching the state
// names §4.4 gives the tracker state machine.
type State int

// The tracker states.
const (
	Dangling State = iota // constructed, not yet positioned on an item
	Item                  // positioned on a valid child
	AtEnd                 // walked past the last child
)

// Tracker walks the children of a struct or array box, one item at a time.
// Reverse iteration is not implemented (§ Non-goals — see DESIGN.md): items
// are always discovered by replaying the layout from the container's start,
// which the fixed-point offset model (§4.2) requires for any container
// whose item sizes are data-dependent.
type Tracker struct {
	container *box.Box
	state     State
	index     int64
	current   *box.Box
	path      value.TrackPath
}

// New constructs a tracker positioned before the first child of container,
// which must be a struct or array box.
func New(container *box.Box) (*Tracker, error) {
	switch container.Filter().(type) {
	case ast.Struct, ast.Array:
	default:
		bErr := browse.NewError(browse.NotContainer,
			fmt.Sprintf("box filter %q is not a container", container.Filter().ClassName()), container.Filter())

		return nil, browse.Fail(container.BrowseState(), bErr)
	}

	return &Tracker{container: container, state: Dangling, index: -1}, nil
}

// State returns the tracker's current state.
func (t *Tracker) State() State { return t.state }

// BrowseState returns the BrowseState the tracker's container box reports
// errors through, or nil if none is attached.
func (t *Tracker) BrowseState() *browse.BrowseState { return t.container.BrowseState() }

// ItemBox returns the box of the child the tracker is currently positioned
// on, or nil if the tracker is Dangling or AtEnd.
func (t *Tracker) ItemBox() *box.Box { return t.current }

// Box implements filter.TrackerHandle, returning the current child as an
// abstract handle.
func (t *Tracker) Box() filter.BoxHandle {
	if t.current == nil {
		return nil
	}

	return t.current
}

// Path returns the TrackPath describing how the current child was reached.
func (t *Tracker) Path() value.TrackPath { return t.path }

// Self implements filter.TrackerHandle.
func (t *Tracker) Self() any { return t }

// ItemOffset implements filter.TrackerHandle: the index of the current
// child within its container.
func (t *Tracker) ItemOffset() int64 { return t.index }

// SetItemOffset implements filter.TrackerHandle.
func (t *Tracker) SetItemOffset(off int64) { t.index = off }

// Current implements filter.TrackerHandle.
func (t *Tracker) Current() value.TrackPath { return t.path }

// SetCurrent implements filter.TrackerHandle.
func (t *Tracker) SetCurrent(p value.TrackPath) { t.path = p }

// Reversed implements filter.TrackerHandle: this engine's tracker never
// walks backwards.
func (t *Tracker) Reversed() bool { return false }

// SetAtEnd implements filter.TrackerHandle.
func (t *Tracker) SetAtEnd(v bool) {
	if v {
		t.state = AtEnd
	}
}

// GotoFirstItem positions the tracker on its container's first child
// (§4.4's goto_first_item/goto_first_field, unified here since this
// engine's only container kinds, struct and array, share one walk).
func (t *Tracker) GotoFirstItem() error {
	return t.gotoIndex(0)
}

// GotoNextItem advances the tracker to the next child, or to AtEnd if the
// current child was the last one.
func (t *Tracker) GotoNextItem() error {
	if t.state != Item {
		bErr := browse.NewError(browse.InvalidState, "goto_next_item requires a positioned tracker", t.container.Filter())
		return browse.Fail(t.BrowseState(), bErr)
	}

	return t.gotoIndex(t.index + 1)
}

// GotoNthItem positions the tracker directly on its n'th child.
func (t *Tracker) GotoNthItem(n int64) error {
	return t.gotoIndex(n)
}

// GotoNamedItem positions the tracker on the field named name (struct
// containers only; §4.4's goto_named_item).
func (t *Tracker) GotoNamedItem(name string) error {
	if _, ok := t.container.Filter().(ast.Struct); !ok {
		bErr := browse.NewError(browse.NotContainer, "goto_named_item requires a struct container", t.container.Filter())
		return browse.Fail(t.BrowseState(), bErr)
	}

	entries, _, err := scope.IterStatements(t.container, scope.MaskAll, eval.EvaluateValue)
	if err != nil {
		return err
	}

	for i, e := range entries {
		if e.Skipped || e.Field.Name != name {
			continue
		}

		t.index = int64(i)
		t.current = e.Child
		t.state = Item
		t.path = value.NewFieldPath(name, e.Field.Header, e.Field.Trailer)

		return nil
	}

	bErr := browse.NewError(browse.NoItem, fmt.Sprintf("no item named %q", name), t.container.Filter())
	bErr.AddContext(t, t.container.Filter(), "when navigating to a named item")

	return browse.Fail(t.BrowseState(), bErr)
}

// GotoNthItemWithKey positions the tracker on the array item whose "name"
// field matches key, per ArrayItemByKey's keyed-lookup convention (§8
// scenario 4).
func (t *Tracker) GotoNthItemWithKey(key value.Value, nthTwin int64) error {
	if _, ok := t.container.Filter().(ast.Array); !ok {
		bErr := browse.NewError(browse.NotContainer, "goto_nth_item_with_key requires an array container", t.container.Filter())
		return browse.Fail(t.BrowseState(), bErr)
	}

	child, err := scope.ArrayItemByKey(t.container, key, nthTwin, eval.EvaluateValue)
	if err != nil {
		return err
	}

	t.current = child
	t.state = Item
	t.path = value.NewArrayPath(-1)

	return nil
}

// GotoEndPath positions the tracker at AtEnd directly, without visiting
// every intervening item.
func (t *Tracker) GotoEndPath() error {
	n, err := t.container.NItems()
	if err != nil {
		return t.gotoIndexUnbounded()
	}

	t.index = n
	t.current = nil
	t.state = AtEnd
	t.path = value.NewNonePath()

	return nil
}

// GetItemKey returns the value of the current array item's "name" field
// (the convention GotoNthItemWithKey looks items up by).
func (t *Tracker) GetItemKey() (value.Value, error) {
	if t.state != Item {
		bErr := browse.NewError(browse.InvalidState, "get_item_key requires a positioned tracker", t.container.Filter())
		return value.Value{}, browse.Fail(t.BrowseState(), bErr)
	}

	keyBox, err := scope.LookupStatement(t.current, "name", scope.MaskAll, eval.EvaluateValue)
	if err != nil {
		return value.Value{}, err
	}

	return keyBox.ReadValue()
}

func (t *Tracker) gotoIndex(n int64) error {
	if n < 0 {
		bErr := browse.NewError(browse.InvalidParam, fmt.Sprintf("negative item index %d", n), t.container.Filter())
		return browse.Fail(t.BrowseState(), bErr)
	}

	switch t.container.Filter().(type) {
	case ast.Struct:
		entries, _, err := scope.IterStatements(t.container, scope.MaskAll, eval.EvaluateValue)
		if err != nil {
			return err
		}

		var visible []scope.Entry

		for _, e := range entries {
			if !e.Skipped {
				visible = append(visible, e)
			}
		}

		if n >= int64(len(visible)) {
			t.state = AtEnd
			t.current = nil
			t.index = n

			return nil
		}

		e := visible[n]
		t.index = n
		t.current = e.Child
		t.state = Item
		t.path = value.NewFieldPath(e.Field.Name, e.Field.Header, e.Field.Trailer)

		return nil
	case ast.Array:
		child, err := scope.ArrayItem(t.container, n, eval.EvaluateValue)
		if err != nil {
			t.state = AtEnd
			t.current = nil
			t.index = n

			return nil
		}

		t.index = n
		t.current = child
		t.state = Item
		t.path = value.NewArrayPath(int(n))

		return nil
	default:
		bErr := browse.NewError(browse.NotContainer,
			fmt.Sprintf("box filter %q is not a container", t.container.Filter().ClassName()), t.container.Filter())

		return browse.Fail(t.BrowseState(), bErr)
	}
}

func (t *Tracker) gotoIndexUnbounded() error {
	var n int64

	for {
		if err := t.gotoIndex(n); err != nil {
			return err
		}

		if t.state == AtEnd {
			return nil
		}

		n++
	}
}
