// Package aggregator models the per-channel data sources of a timeline and
// the rectangles they contribute to a frame column.
//
// Each source yields one DataPoint per frame. Points whose rectangles overlap
// are merged into a single block that remembers every contributing source;
// the renderer then picks a style from how many of those sources are active.
package aggregator

import "driller/internal/palette"

// Aggregator is a per-channel data source. Frames without data report 0.
type Aggregator interface {
	ValueAtFrame(frame int64) float64
	Color() palette.Color
	IsActive() bool
}

// SourceID identifies an aggregator within one view.
type SourceID int

// Resolver answers per-source questions for styling merged points.
type Resolver interface {
	SourceActive(id SourceID) bool
	SourceColor(id SourceID) palette.Color
}
