package value

import "fmt"

// TrackPathKind identifies which variant of TrackPath is populated.
type TrackPathKind int

// The TrackPath variants, matching the data model exactly.
const (
	PathNone TrackPathKind = iota
	PathField
	PathArray
	PathArraySlice
)

// TrackPath identifies how a tracker reached its current child within a
// container: by field reference, by array index, by array slice, or not at
// all (None).  Equality is structural.
type TrackPath struct {
	Kind    TrackPathKind
	Ref     string
	Header  bool
	Trailer bool
	Index   int
	Start   int
	End     int
}

// NewNonePath constructs the None track path.
func NewNonePath() TrackPath { return TrackPath{Kind: PathNone} }

// NewFieldPath constructs a Field track path.
func NewFieldPath(ref string, header, trailer bool) TrackPath {
	return TrackPath{Kind: PathField, Ref: ref, Header: header, Trailer: trailer}
}

// NewArrayPath constructs an Array track path.
func NewArrayPath(index int) TrackPath {
	return TrackPath{Kind: PathArray, Index: index}
}

// NewArraySlicePath constructs an ArraySlice track path.
func NewArraySlicePath(start, end int) TrackPath {
	return TrackPath{Kind: PathArraySlice, Start: start, End: end}
}

// Equal reports whether two track paths are structurally identical.
func (p TrackPath) Equal(other TrackPath) bool {
	return p == other
}

// String renders a human-readable form of this track path.
func (p TrackPath) String() string {
	switch p.Kind {
	case PathNone:
		return "<none>"
	case PathField:
		switch {
		case p.Header:
			return fmt.Sprintf("%s(header)", p.Ref)
		case p.Trailer:
			return fmt.Sprintf("%s(trailer)", p.Ref)
		default:
			return p.Ref
		}
	case PathArray:
		return fmt.Sprintf("[%d]", p.Index)
	case PathArraySlice:
		return fmt.Sprintf("[%d:%d]", p.Start, p.End)
	default:
		return "<invalid>"
	}
}
