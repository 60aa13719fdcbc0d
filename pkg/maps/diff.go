package maps

// Change reports which parts of a marker declaration changed between builds.
type Change struct {
	PositionChanged bool
	ContentChanged  bool
}

// Any reports whether anything changed.
func (c Change) Any() bool {
	return c.PositionChanged || c.ContentChanged
}

// Diff compares two declarations.
//
// Positions are equal only when both coordinates are numerically identical.
// Content is compared by pointer identity: two distinct trees that render
// the same markup still count as changed. A Bitmap change with unchanged
// Content does not count; see [WithBitmapDiff] to opt in.
func Diff(prev, next Marker) Change {
	return Change{
		PositionChanged: prev.Position.Lat != next.Position.Lat || prev.Position.Lng != next.Position.Lng,
		ContentChanged:  prev.Content != next.Content,
	}
}
