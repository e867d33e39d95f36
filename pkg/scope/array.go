package scope

import (
	"fmt"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/box"
	"github.com/leanderhang/bitpunch/pkg/browse"
	"github.com/leanderhang/bitpunch/pkg/value"
)

// ArrayItem lays out an array box's items up to and including index n,
// returning the n'th item's box.  Items are resolved sequentially since
// each one's start offset depends on every predecessor's resolved size.
func ArrayItem(parent *box.Box, n int64, eval EvalFunc) (*box.Box, error) {
	if n < 0 {
		bErr := browse.NewError(browse.InvalidParam, fmt.Sprintf("negative array index %d", n), parent.Filter())
		return nil, browse.Fail(parent.BrowseState(), bErr)
	}

	return walkArray(parent, eval, func(i int64, item *box.Box) (*box.Box, bool) {
		return item, i == n
	})
}

// ArrayItemByKey scans an array box's items in order for one whose "name"
// field (the convention this engine's array filter uses as an implicit key,
// in place of a declared key attribute) equals key, returning the
// (nthTwin+1)'th such match (§8 scenario 4, "keyed lookup with twins").
func ArrayItemByKey(parent *box.Box, key value.Value, nthTwin int64, eval EvalFunc) (*box.Box, error) {
	var seen int64

	return walkArray(parent, eval, func(_ int64, item *box.Box) (*box.Box, bool) {
		keyBox, err := LookupStatement(item, "name", MaskAll, eval)
		if err != nil {
			return nil, false
		}

		v, err := keyBox.ReadValue()
		if err != nil || !valuesEqual(v, key) {
			return nil, false
		}

		if seen == nthTwin {
			return item, true
		}

		seen++

		return nil, false
	})
}

func valuesEqual(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch a.Kind() {
	case value.Integer:
		return a.AsInteger() == b.AsInteger()
	case value.Boolean:
		return a.AsBoolean() == b.AsBoolean()
	case value.String:
		return string(a.AsString()) == string(b.AsString())
	default:
		return false
	}
}

// walkArray lays out parent's items one at a time, stopping as soon as
// match returns true or the array's bound (declared count or available
// span) is exhausted.
func walkArray(parent *box.Box, eval EvalFunc, match func(i int64, item *box.Box) (*box.Box, bool)) (*box.Box, error) {
	array, ok := parent.Filter().(ast.Array)
	if !ok {
		bErr := browse.NewError(browse.NotContainer,
			fmt.Sprintf("box filter %q is not an array", parent.Filter().ClassName()), parent.Filter())

		return nil, browse.Fail(parent.BrowseState(), bErr)
	}

	var n int64 = -1

	if array.Count != nil {
		v, err := eval(parent, array.Count)
		if err != nil {
			return nil, err
		}

		n = v.AsInteger()
	}

	_, maxEnd := parent.MaxSpanBounds()
	cursor := parent.Start()

	var i int64

	for n < 0 || i < n {
		if cursor >= maxEnd {
			break
		}

		item := box.NewChild(parent, array.Item, cursor, maxEnd)

		size, err := ResolveSize(item, eval)
		if err != nil {
			return nil, err
		}

		if size <= 0 {
			break
		}

		if found, ok := match(i, item); ok {
			return found, nil
		}

		cursor += size
		i++
	}

	bErr := browse.NewError(browse.NoItem, "no matching array item found", parent.Filter())
	bErr.AddContext(parent, parent.Filter(), "when looking up an array item")

	return nil, browse.Fail(parent.BrowseState(), bErr)
}
