package ast

// MinSpanSize returns the statically known minimum span, in bytes, that a
// filter's region can occupy (§3 invariant 3, `ast_min_span_size`).  This is
// a static lower bound derived purely from the AST; it does not look at
// data, so it returns 0 wherever the true minimum depends on runtime content
// (e.g. a boundary-terminated string, whose boundary could appear at
// offset 0).
func MinSpanSize(f Filter) int64 {
	switch n := f.(type) {
	case Integer:
		return int64(n.Width / 8)
	case Boolean:
		return 1
	case StringFilter:
		return 0
	case BytesFilter:
		return 0
	case Struct:
		var total int64
		for _, field := range n.Fields {
			total += fieldMinSpanSize(field)
		}

		return total
	case Array:
		if lit, ok := n.Count.(IntLit); ok {
			return lit.Value * MinSpanSize(n.Item)
		}

		return 0
	case Chain:
		if len(n.Stages) == 0 {
			return 0
		}

		return MinSpanSize(n.Stages[0])
	case Base64:
		return 0
	case Reference:
		return 0
	default:
		return 0
	}
}

func fieldMinSpanSize(field *Field) int64 {
	if field.Cond != nil {
		// A conditionally-present field contributes nothing to the
		// statically known minimum, since it may be absent entirely.
		return 0
	}

	if lit, ok := field.Size.(IntLit); ok {
		return lit.Value
	}

	return MinSpanSize(field.Filter)
}
