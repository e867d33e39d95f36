// Package eval implements expression evaluation over a box's scope (§4.6
// "Expression evaluation"): identifier and path lookup, field access,
// array indexing (positional and keyed), sizeof, and the small set of
// arithmetic/comparison/logical operators the schema language exposes.
//
// pkg/scope needs to evaluate a field's `if` condition and an array's item
// count while it lays out a struct or array box — but that evaluation is
// exactly what this package does, and it does so by calling back into
// pkg/scope to resolve identifiers. To avoid the two packages importing
// each other, pkg/scope accepts evaluation as an injected function value
// (scope.EvalFunc) rather than importing pkg/eval directly; this package is
// the only place that constructs one, from EvaluateValue itself.
package eval

import (
	"fmt"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/box"
	"github.com/leanderhang/bitpunch/pkg/browse"
	"github.com/leanderhang/bitpunch/pkg/scope"
	"github.com/leanderhang/bitpunch/pkg/util"
	"github.com/leanderhang/bitpunch/pkg/value"
)

// EvaluateValue evaluates expr relative to b, the box whose scope
// identifiers are resolved against (§4.6, `evaluate_value`).
func EvaluateValue(b *box.Box, expr ast.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case ast.IntLit:
		return value.NewInteger(e.Value), nil
	case ast.StringLit:
		return value.NewString([]byte(e.Value)), nil
	case ast.AttrIdent:
		return evalAttr(b, e.Name)
	case ast.Ident, ast.FieldAccess, ast.Index, ast.KeyedIndex:
		target, err := EvaluateDpath(b, expr)
		if err != nil {
			return value.Value{}, err
		}

		return target.ReadValue()
	case ast.Sizeof:
		target, err := EvaluateDpath(b, e.Target)
		if err != nil {
			return value.Value{}, err
		}

		start, end := target.SpanBounds()

		return value.NewInteger(end - start), nil
	case ast.Binary:
		return evalBinary(b, e)
	case ast.AbsPath:
		target, err := EvaluateDpath(b, e)
		if err != nil {
			return value.Value{}, err
		}

		return target.ReadValue()
	default:
		bErr := browse.NewError(browse.InvalidParam, fmt.Sprintf("unsupported expression kind %q", expr.ExprKind()), expr)
		return value.Value{}, browse.Fail(b.BrowseState(), bErr)
	}
}

// EvaluateDpath resolves expr to the box it designates, without reading a
// value from it (§4.6, `evaluate_dpath`): the box behind an identifier, a
// `.field` access, or an `[index]`/keyed-index into an array.
func EvaluateDpath(b *box.Box, expr ast.Expr) (*box.Box, error) {
	switch e := expr.(type) {
	case ast.Ident:
		return scope.LookupStatement(b, e.Name, scope.MaskAll, EvaluateValue)
	case ast.FieldAccess:
		base, err := EvaluateDpath(b, e.Base)
		if err != nil {
			return nil, err
		}

		return scope.LookupStatement(base, e.Name, scope.MaskAll, EvaluateValue)
	case ast.Index:
		base, err := EvaluateDpath(b, e.Base)
		if err != nil {
			return nil, err
		}

		idx, err := EvaluateValue(b, e.Index)
		if err != nil {
			return nil, err
		}

		return scope.ArrayItem(base, idx.AsInteger(), EvaluateValue)
	case ast.KeyedIndex:
		base, err := EvaluateDpath(b, e.Base)
		if err != nil {
			return nil, err
		}

		key, err := EvaluateValue(b, e.Key)
		if err != nil {
			return nil, err
		}

		var twin int64

		if e.Twin != nil {
			tv, err := EvaluateValue(b, e.Twin)
			if err != nil {
				return nil, err
			}

			twin = tv.AsInteger()
		}

		return scope.ArrayItemByKey(base, key, twin, EvaluateValue)
	case ast.AbsPath:
		return evalAbsPath(b, e)
	default:
		bErr := browse.NewError(browse.InvalidParam,
			fmt.Sprintf("expression kind %q does not designate a box", expr.ExprKind()), expr)

		return nil, browse.Fail(b.BrowseState(), bErr)
	}
}

// evalAbsPath resolves a `/a/b/c`-style path by walking up to the board's
// root box (via Box.ParentBox) and then re-descending one field lookup per
// segment, using util.Path to hold and consume the segment list.
func evalAbsPath(b *box.Box, e ast.AbsPath) (*box.Box, error) {
	root := b
	for root.ParentBox() != nil {
		root = root.ParentBox()
	}

	path := util.NewAbsolutePath(e.Segments...)
	cur := root

	for i := uint(0); i < path.Depth(); i++ {
		next, err := scope.LookupStatement(cur, path.Get(i), scope.MaskAll, EvaluateValue)
		if err != nil {
			bErr := browse.Wrap(err, browse.NoItem, e)
			bErr.AddContext(cur, e, fmt.Sprintf("absolute path %s", path.String()))

			return nil, bErr
		}

		cur = next
	}

	return cur, nil
}

// TransformDpath re-resolves a dpath expression starting from a new root
// box, used when the same compiled path must be walked against a different
// instance of a schema (e.g. comparing two array elements' sub-fields).
func TransformDpath(root *box.Box, expr ast.Expr) (*box.Box, error) {
	return EvaluateDpath(root, expr)
}

// EvaluateFilterType resolves a Reference filter node against the board
// bound to b's scope, implementing the `ref` filter kind's indirection
// (§4.6, `evaluate_filter_type`).
func EvaluateFilterType(b *box.Box, f ast.Filter) (ast.Filter, error) {
	ref, ok := f.(ast.Reference)
	if !ok {
		return f, nil
	}

	bd := b.Board()
	if bd == nil {
		bErr := browse.NewError(browse.InvalidState,
			fmt.Sprintf("reference %q cannot be resolved without a board", ref.Name), f)

		return nil, browse.Fail(b.BrowseState(), bErr)
	}

	resolved, ok := bd.LookupItem(ref.Name)
	if !ok {
		bErr := browse.NewError(browse.NoItem, fmt.Sprintf("no board item named %q", ref.Name), f)
		return nil, browse.Fail(b.BrowseState(), bErr)
	}

	return EvaluateFilterType(b, resolved)
}

func evalAttr(b *box.Box, name string) (value.Value, error) {
	switch name {
	case "offset":
		return value.NewInteger(b.Start()), nil
	case "sizeof", "size":
		start, end := b.SpanBounds()
		return value.NewInteger(end - start), nil
	default:
		bErr := browse.NewError(browse.InvalidParam, fmt.Sprintf("unknown attribute @%s", name), b.Filter())
		return value.Value{}, browse.Fail(b.BrowseState(), bErr)
	}
}

func evalBinary(b *box.Box, e ast.Binary) (value.Value, error) {
	l, err := EvaluateValue(b, e.L)
	if err != nil {
		return value.Value{}, err
	}

	r, err := EvaluateValue(b, e.R)
	if err != nil {
		return value.Value{}, err
	}

	switch e.Op {
	case "&&":
		return value.NewBoolean(l.AsBoolean() && r.AsBoolean()), nil
	case "||":
		return value.NewBoolean(l.AsBoolean() || r.AsBoolean()), nil
	}

	li, lok := asInt(l)
	ri, rok := asInt(r)

	switch e.Op {
	case "==":
		return value.NewBoolean(equalValues(l, r)), nil
	case "!=":
		return value.NewBoolean(!equalValues(l, r)), nil
	}

	if !lok || !rok {
		bErr := browse.NewError(browse.InvalidParam, fmt.Sprintf("operator %q requires integer operands", e.Op), e)
		return value.Value{}, browse.Fail(b.BrowseState(), bErr)
	}

	switch e.Op {
	case "<":
		return value.NewBoolean(li < ri), nil
	case "<=":
		return value.NewBoolean(li <= ri), nil
	case ">":
		return value.NewBoolean(li > ri), nil
	case ">=":
		return value.NewBoolean(li >= ri), nil
	case "+":
		return value.NewInteger(li + ri), nil
	case "-":
		return value.NewInteger(li - ri), nil
	case "*":
		return value.NewInteger(li * ri), nil
	case "/":
		if ri == 0 {
			bErr := browse.NewError(browse.DataError, "division by zero", e)
			return value.Value{}, browse.Fail(b.BrowseState(), bErr)
		}

		return value.NewInteger(li / ri), nil
	default:
		bErr := browse.NewError(browse.InvalidParam, fmt.Sprintf("unsupported operator %q", e.Op), e)
		return value.Value{}, browse.Fail(b.BrowseState(), bErr)
	}
}

func asInt(v value.Value) (int64, bool) {
	if v.Kind() != value.Integer {
		return 0, false
	}

	return v.AsInteger(), true
}

func equalValues(a, b value.Value) bool {
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
	case value.Bytes:
		return string(a.AsBytes()) == string(b.AsBytes())
	default:
		return false
	}
}
