// Package channelview caches the merged data points of every frame in the
// visible timeline window.
//
// The cache covers a contiguous frame range. When the window slides, only
// frames that just became visible are queried from the aggregators; frames
// that scrolled out are evicted by walking the old bounds toward the new
// ones, so a repaint costs time proportional to the scroll distance rather
// than the window size.
package channelview

import (
	"log/slog"

	"driller/internal/aggregator"
	"driller/internal/logging"
	"driller/internal/palette"
)

// State is the cache state.
type State int

const (
	StateEmpty State = iota
	StatePopulated
)

func (s State) String() string {
	if s == StatePopulated {
		return "populated"
	}
	return "empty"
}

// Viewport is what the capture window reports on every pass.
type Viewport struct {
	Begin        int64 // first frame of the capture
	End          int64 // one past the last frame; 0 when nothing is loaded
	Rightmost    int64 // rightmost visible frame
	FramesInView int64
}

// Window returns the clamped visible range [first, last].
func (vp Viewport) Window() (first, last int64) {
	last = vp.Rightmost
	if last >= vp.End {
		last = vp.End - 1
	}
	if last < vp.Begin {
		last = vp.Begin
	}
	span := vp.FramesInView
	if span < 1 {
		span = 1
	}
	first = last - span + 1
	if first < vp.Begin {
		first = vp.Begin
	}
	return first, last
}

// FrameEntry is the cached state of one frame column.
type FrameEntry struct {
	Frame  int64
	Values []float64
	Points []*aggregator.DataPoint
}

// Stats reports the work done by one Recalculate pass.
type Stats struct {
	Computed  int
	Reused    int
	Evicted   int
	Rederived int
}

// View is the incremental per-frame cache. It borrows its aggregators and
// is not safe for concurrent use.
type View struct {
	logger      *slog.Logger
	aggregators []aggregator.Aggregator
	geometry    Geometry

	entries   map[int64]*FrameEntry
	minCached int64
	maxCached int64
	state     State
	dirty     bool
}

// New constructs an empty view over aggs. A nil logger discards output.
func New(logger *slog.Logger, geometry Geometry, aggs ...aggregator.Aggregator) *View {
	return &View{
		logger:      logging.NewComponentLogger(logger, "channelview"),
		aggregators: aggs,
		geometry:    geometry.normalized(),
		entries:     make(map[int64]*FrameEntry),
	}
}

// State reports whether the cache holds a window.
func (v *View) State() State { return v.state }

// Geometry returns the current layout parameters.
func (v *View) Geometry() Geometry { return v.geometry }

// SetGeometry changes the layout. A change marks the view dirty so the next
// pass re-derives bounds from cached values.
func (v *View) SetGeometry(g Geometry) {
	g = g.normalized()
	if g == v.geometry {
		return
	}
	v.geometry = g
	v.DirtyGraphData()
}

// SetAggregators replaces the data sources and drops the cache.
func (v *View) SetAggregators(aggs ...aggregator.Aggregator) {
	v.aggregators = aggs
	v.RefreshGraphData()
}

// Aggregators returns the borrowed data sources indexed by SourceID.
func (v *View) Aggregators() []aggregator.Aggregator { return v.aggregators }

// DirtyGraphData requests that the next pass re-derive geometry while
// keeping cached values.
func (v *View) DirtyGraphData() { v.dirty = true }

// Dirty reports whether a re-derivation is pending.
func (v *View) Dirty() bool { return v.dirty }

// RefreshGraphData discards every cached frame; use it when the underlying
// data changed.
func (v *View) RefreshGraphData() {
	v.clear()
	v.dirty = true
}

func (v *View) clear() {
	v.entries = make(map[int64]*FrameEntry)
	v.minCached, v.maxCached = 0, 0
	v.state = StateEmpty
}

// CachedRange returns the cached window bounds.
func (v *View) CachedRange() (first, last int64, ok bool) {
	if v.state != StatePopulated {
		return 0, 0, false
	}
	return v.minCached, v.maxCached, true
}

// Len returns the number of cached frames.
func (v *View) Len() int { return len(v.entries) }

// Entry returns the cached column for frame.
func (v *View) Entry(frame int64) (*FrameEntry, bool) {
	entry, ok := v.entries[frame]
	return entry, ok
}

// Points returns the merged points cached for frame.
func (v *View) Points(frame int64) []*aggregator.DataPoint {
	if entry, ok := v.entries[frame]; ok {
		return entry.Points
	}
	return nil
}

// Recalculate brings the cache in line with vp and returns what it did.
func (v *View) Recalculate(vp Viewport) Stats {
	var stats Stats
	if vp.End == 0 {
		if v.state == StatePopulated {
			stats.Evicted = len(v.entries)
			v.clear()
			v.logger.Debug("cache cleared", logging.Int("evicted", stats.Evicted))
		}
		v.dirty = false
		return stats
	}

	newMin, newMax := vp.Window()

	if v.dirty {
		for _, entry := range v.entries {
			entry.Points = v.derivePoints(entry.Values)
			stats.Rederived++
		}
		v.dirty = false
	}

	for frame := newMax; frame >= newMin; frame-- {
		if _, ok := v.entries[frame]; ok {
			stats.Reused++
			continue
		}
		v.entries[frame] = v.computeFrame(frame)
		stats.Computed++
	}

	if v.state == StatePopulated {
		for frame := v.minCached; frame < newMin && frame <= v.maxCached; frame++ {
			if _, ok := v.entries[frame]; ok {
				delete(v.entries, frame)
				stats.Evicted++
			}
		}
		for frame := v.maxCached; frame > newMax && frame >= v.minCached; frame-- {
			if _, ok := v.entries[frame]; ok {
				delete(v.entries, frame)
				stats.Evicted++
			}
		}
	}

	v.minCached, v.maxCached = newMin, newMax
	v.state = StatePopulated

	if stats.Computed > 0 || stats.Evicted > 0 {
		v.logger.Debug("cache window updated",
			logging.Int64("first", newMin),
			logging.Int64("last", newMax),
			logging.Int("computed", stats.Computed),
			logging.Int("evicted", stats.Evicted),
			logging.Int("rederived", stats.Rederived),
		)
	}
	return stats
}

func (v *View) computeFrame(frame int64) *FrameEntry {
	values := make([]float64, len(v.aggregators))
	for i, agg := range v.aggregators {
		values[i] = agg.ValueAtFrame(frame)
	}
	return &FrameEntry{
		Frame:  frame,
		Values: values,
		Points: v.derivePoints(values),
	}
}

// derivePoints builds one point per aggregator from cached values and merges
// overlapping ones. A zero value contributes an inactive point.
func (v *View) derivePoints(values []float64) []*aggregator.DataPoint {
	points := make([]*aggregator.DataPoint, 0, len(values))
	for i, value := range values {
		active := value != 0 && v.aggregators[i].IsActive()
		points = append(points, aggregator.NewDataPoint(
			aggregator.SourceID(i),
			v.geometry.Bounds(value),
			value,
			active,
		))
	}
	return aggregator.Coalesce(points)
}

// HighlightAt marks the point of frame under vertical position y as
// highlighted and clears every other highlight. It returns the hit point.
func (v *View) HighlightAt(frame int64, y float64) *aggregator.DataPoint {
	var hit *aggregator.DataPoint
	for _, entry := range v.entries {
		for _, p := range entry.Points {
			p.Highlighted = false
			if hit == nil && entry.Frame == frame && p.ContainsPoint(aggregator.Point{Y: y}) {
				hit = p
			}
		}
	}
	if hit != nil {
		hit.Highlighted = true
	}
	return hit
}

// SourceActive implements aggregator.Resolver.
func (v *View) SourceActive(id aggregator.SourceID) bool {
	if int(id) < 0 || int(id) >= len(v.aggregators) {
		return false
	}
	return v.aggregators[id].IsActive()
}

// SourceColor implements aggregator.Resolver.
func (v *View) SourceColor(id aggregator.SourceID) palette.Color {
	if int(id) < 0 || int(id) >= len(v.aggregators) {
		return palette.Neutral
	}
	return v.aggregators[id].Color()
}
