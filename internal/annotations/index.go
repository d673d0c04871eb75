package annotations

import "sort"

// Index is the finalized, read-only view of a provider's annotations. The
// backing slice is ordered by frame with ties kept in insertion order, so all
// annotations of one frame are contiguous.
type Index struct {
	annotations []Annotation
	byFrame     map[int64]int
	byEvent     map[int64]int
}

func buildIndex(pending []Annotation) *Index {
	sorted := make([]Annotation, len(pending))
	copy(sorted, pending)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FrameIndex < sorted[j].FrameIndex
	})

	idx := &Index{
		annotations: sorted,
		byFrame:     make(map[int64]int),
		byEvent:     make(map[int64]int, len(sorted)),
	}
	for pos, a := range sorted {
		if _, ok := idx.byFrame[a.FrameIndex]; !ok {
			idx.byFrame[a.FrameIndex] = pos
		}
		if _, ok := idx.byEvent[a.EventIndex]; !ok {
			idx.byEvent[a.EventIndex] = pos
		}
	}
	return idx
}

// Len returns the number of indexed annotations.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.annotations)
}

// All returns a copy of the annotations in index order.
func (x *Index) All() []Annotation {
	if x == nil {
		return nil
	}
	out := make([]Annotation, len(x.annotations))
	copy(out, x.annotations)
	return out
}

// End returns the not-found sentinel.
func (x *Index) End() Cursor {
	return Cursor{index: x, pos: x.Len()}
}

// FirstForFrame returns a cursor at the first annotation on frame, or End.
func (x *Index) FirstForFrame(frame int64) Cursor {
	if x == nil {
		return x.End()
	}
	pos, ok := x.byFrame[frame]
	if !ok {
		return x.End()
	}
	return Cursor{index: x, pos: pos}
}

// ForEvent returns a cursor at the annotation for eventIndex, or End.
func (x *Index) ForEvent(eventIndex int64) Cursor {
	if x == nil {
		return x.End()
	}
	pos, ok := x.byEvent[eventIndex]
	if !ok {
		return x.End()
	}
	return Cursor{index: x, pos: pos}
}

// AtFrame returns every annotation on frame in insertion order.
func (x *Index) AtFrame(frame int64) []Annotation {
	var out []Annotation
	for c := x.FirstForFrame(frame); c.Valid() && c.Annotation().FrameIndex == frame; c = c.Next() {
		out = append(out, c.Annotation())
	}
	return out
}

// HasFrame reports whether any annotation sits on frame.
func (x *Index) HasFrame(frame int64) bool {
	return x.FirstForFrame(frame).Valid()
}

// Cursor is a position in an Index. Cursors are comparable; a cursor equals
// End() once it has walked past the last annotation.
type Cursor struct {
	index *Index
	pos   int
}

// Valid reports whether the cursor points at an annotation.
func (c Cursor) Valid() bool {
	return c.index != nil && c.pos >= 0 && c.pos < len(c.index.annotations)
}

// Annotation returns the annotation under the cursor. It returns the zero
// value when the cursor is not valid.
func (c Cursor) Annotation() Annotation {
	if !c.Valid() {
		return Annotation{}
	}
	return c.index.annotations[c.pos]
}

// Next advances the cursor, stopping at End.
func (c Cursor) Next() Cursor {
	if !c.Valid() {
		return c
	}
	c.pos++
	return c
}

// Position returns the cursor's offset within the index.
func (c Cursor) Position() int { return c.pos }
