// Package scope implements the lexical-scope statement walk over a struct
// box's declared fields (§4.5 "Scope and statement lookup"): iteration in
// declaration order, anonymous-field pass-through, and name resolution that
// recurses into anonymous members before failing.
//
// Evaluating a field's `if` condition or an array's item count requires the
// expression evaluator in pkg/eval, but pkg/eval in turn needs to resolve
// identifiers by walking scope — a genuine mutual dependency in the
// underlying design. Rather than have the two packages import each other,
// every function here that needs to evaluate an expression accepts it as a
// caller-supplied EvalFunc; pkg/eval is the only caller that ever
// constructs one; pkg/scope never imports pkg/eval.
package scope

import (
	"fmt"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/box"
	"github.com/leanderhang/bitpunch/pkg/browse"
	"github.com/leanderhang/bitpunch/pkg/value"
)

// EvalFunc evaluates expr in the context of b, the box currently being laid
// out (used to resolve field conditions and array item counts).
type EvalFunc func(b *box.Box, expr ast.Expr) (value.Value, error)

// StatementMask selects which declared fields IterStatements/LookupStatement
// visit.
type StatementMask uint8

// The StatementMask bits.
const (
	MaskVisible StatementMask = 1 << iota
	MaskHidden
	MaskAll = MaskVisible | MaskHidden
)

func (m StatementMask) includes(hidden bool) bool {
	if hidden {
		return m&MaskHidden != 0
	}

	return m&MaskVisible != 0
}

// Entry is one resolved field of a struct box: its declaration, its
// materialised child box (nil if its `if` condition evaluated false), and
// whether it was skipped.
type Entry struct {
	Field   *ast.Field
	Child   *box.Box
	Skipped bool
}

// IterStatements lays out every field of a struct box in declaration order,
// evaluating each field's `if` condition via eval and constructing its child
// box, and returns the resulting entries together with the offset one past
// the last field (the struct's used size).  It does not itself record that
// offset back onto parent; ResolveSize does so via parent.SetUsedBounds.
func IterStatements(parent *box.Box, mask StatementMask, eval EvalFunc) ([]Entry, int64, error) {
	s, ok := parent.Filter().(ast.Struct)
	if !ok {
		bErr := browse.NewError(browse.NotContainer,
			fmt.Sprintf("box filter %q is not a struct", parent.Filter().ClassName()), parent.Filter())

		return nil, 0, browse.Fail(parent.BrowseState(), bErr)
	}

	var entries []Entry

	cursor := parent.Start()

	_, maxEnd := parent.MaxSpanBounds()

	for _, field := range s.Fields {
		if !mask.includes(field.Hidden) {
			continue
		}

		if field.Cond != nil {
			v, err := eval(parent, field.Cond)
			if err != nil {
				return nil, 0, err
			}

			if !v.AsBoolean() {
				entries = append(entries, Entry{Field: field, Skipped: true})
				continue
			}
		}

		child := box.NewChild(parent, field.Filter, cursor, maxEnd)

		size, err := ResolveSize(child, eval)
		if err != nil {
			if bErr, ok := err.(*browse.Error); ok {
				if bErr.Status == browse.OutOfBounds {
					bErr.AddContext(parent, parent.Filter(),
						fmt.Sprintf("box parent space is [%d..%d]", parent.Start(), maxEnd))
				} else {
					bErr.AddContext(parent, field.Filter, fmt.Sprintf("field %q", field.Name))
				}
			}

			return nil, 0, err
		}

		entries = append(entries, Entry{Field: field, Child: child})
		cursor += size
	}

	return entries, cursor, nil
}

// LookupStatement resolves name against parent's fields: a direct match
// wins; failing that, every anonymous field is searched in declaration
// order (§4.5's "anonymous pass-through"), recursing into nested anonymous
// structs.  Names beginning with `@` never match a field and are rejected
// outright (they are attribute references, resolved entirely within
// pkg/eval).
func LookupStatement(parent *box.Box, name string, mask StatementMask, eval EvalFunc) (*box.Box, error) {
	if len(name) > 0 && name[0] == '@' {
		bErr := browse.NewError(browse.InvalidParam,
			fmt.Sprintf("%q is an attribute reference, not a field", name), parent.Filter())

		return nil, browse.Fail(parent.BrowseState(), bErr)
	}

	entries, _, err := IterStatements(parent, mask, eval)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.Skipped || e.Field.Anonymous {
			continue
		}

		if e.Field.Name == name {
			return e.Child, nil
		}
	}

	for _, e := range entries {
		if e.Skipped || !e.Field.Anonymous {
			continue
		}

		if _, ok := e.Child.Filter().(ast.Struct); !ok {
			continue
		}

		if found, err := LookupStatement(e.Child, name, mask, eval); err == nil {
			return found, nil
		}
	}

	bErr := browse.NewError(browse.NoItem, fmt.Sprintf("no field named %q", name), parent.Filter())
	bErr.AddContext(parent, parent.Filter(), "when looking up a field")

	return nil, browse.Fail(parent.BrowseState(), bErr)
}

// ResolveSize resolves child's span, recursing into nested containers via
// IterStatements/array item layout and delegating to the child's own
// EnsureSize for leaf filters (registered in pkg/filter).  It is exported so
// pkg/tracker can reuse it when constructing a single item's box on demand
// without re-walking the whole parent.
func ResolveSize(b *box.Box, eval EvalFunc) (int64, error) {
	switch f := b.Filter().(type) {
	case ast.Struct:
		_, end, err := IterStatements(b, MaskAll, eval)
		if err != nil {
			return 0, err
		}

		if err := b.SetUsedBounds(b.Start(), end); err != nil {
			return 0, err
		}

		return end - b.Start(), nil
	case ast.Array:
		return resolveArraySize(b, f, eval)
	default:
		if err := b.EnsureSize(); err != nil {
			return 0, err
		}

		start, end := b.SpanBounds()

		return end - start, nil
	}
}

func resolveArraySize(b *box.Box, f ast.Array, eval EvalFunc) (int64, error) {
	var n int64 = -1

	if f.Count != nil {
		v, err := eval(b, f.Count)
		if err != nil {
			return 0, err
		}

		n = v.AsInteger()
	}

	_, maxEnd := b.MaxSpanBounds()

	cursor := b.Start()

	var i int64

	for n < 0 || i < n {
		if cursor >= maxEnd {
			break
		}

		item := box.NewChild(b, f.Item, cursor, maxEnd)

		size, err := ResolveSize(item, eval)
		if err != nil {
			if n < 0 {
				break
			}

			if bErr, ok := err.(*browse.Error); ok {
				bErr.AddContext(b, f.Item, fmt.Sprintf("array item %d", i))
			}

			return 0, err
		}

		if size <= 0 {
			break
		}

		cursor += size
		i++
	}

	if err := b.SetUsedBounds(b.Start(), cursor); err != nil {
		return 0, err
	}

	return cursor - b.Start(), nil
}
