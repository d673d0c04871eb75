package aggregator

import (
	"sort"

	"driller/internal/palette"
)

// Style is how the renderer should draw a point.
type Style int

const (
	// StyleSuppressed points have no active contributor and are not drawn.
	StyleSuppressed Style = iota
	// StyleSolid points are drawn in their single active source's color.
	StyleSolid
	// StyleStacked points combine several active sources.
	StyleStacked
	// StyleEmphasized is a stacked point under the pointer; it gets an outline.
	StyleEmphasized
)

func (s Style) String() string {
	switch s {
	case StyleSolid:
		return "solid"
	case StyleStacked:
		return "stacked"
	case StyleEmphasized:
		return "emphasized"
	default:
		return "suppressed"
	}
}

// DataPoint is one block in a frame column together with the sources that
// produced it.
type DataPoint struct {
	Bounds      Rect
	Value       float64
	Active      bool
	Highlighted bool
	sources     map[SourceID]struct{}
}

// NewDataPoint creates a point contributed by a single source.
func NewDataPoint(source SourceID, bounds Rect, value float64, active bool) *DataPoint {
	return &DataPoint{
		Bounds:  bounds,
		Value:   value,
		Active:  active,
		sources: map[SourceID]struct{}{source: {}},
	}
}

// Sources returns the contributing sources in ascending order.
func (p *DataPoint) Sources() []SourceID {
	out := make([]SourceID, 0, len(p.sources))
	for id := range p.sources {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasSource reports whether id contributed to p.
func (p *DataPoint) HasSource(id SourceID) bool {
	_, ok := p.sources[id]
	return ok
}

// ContainsPoint is a vertical-only hit test; the column owner handles the
// horizontal extent. Inactive points never match.
func (p *DataPoint) ContainsPoint(pt Point) bool {
	if !p.Active {
		return false
	}
	return pt.Y >= p.Bounds.Top() && pt.Y < p.Bounds.Bottom()
}

// IntersectsDataPoint reports whether the bounds of p and other overlap.
func (p *DataPoint) IntersectsDataPoint(other *DataPoint) bool {
	return p.Bounds.Intersects(other.Bounds)
}

// AddAggregatorDataPoint merges other into p: the bounds grow to cover both
// and the contributor sets are unioned. The larger value is kept.
func (p *DataPoint) AddAggregatorDataPoint(other *DataPoint) {
	p.Bounds = p.Bounds.Union(other.Bounds)
	if p.sources == nil {
		p.sources = make(map[SourceID]struct{}, len(other.sources))
	}
	for id := range other.sources {
		p.sources[id] = struct{}{}
	}
	if other.Value > p.Value {
		p.Value = other.Value
	}
	p.Active = p.Active || other.Active
	p.Highlighted = p.Highlighted || other.Highlighted
}

// Style resolves the rendering state of p. The returned color is meaningful
// for every style except StyleSuppressed.
func (p *DataPoint) Style(r Resolver) (Style, palette.Color) {
	if !p.Active {
		return StyleSuppressed, palette.Color{}
	}
	var (
		active int
		only   SourceID
	)
	for _, id := range p.Sources() {
		if r.SourceActive(id) {
			active++
			if active == 1 {
				only = id
			}
		}
	}
	switch {
	case active == 0:
		return StyleSuppressed, palette.Color{}
	case active == 1:
		return StyleSolid, r.SourceColor(only)
	case p.Highlighted:
		return StyleEmphasized, palette.Emphasis
	default:
		return StyleStacked, palette.Neutral
	}
}
