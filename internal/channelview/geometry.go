package channelview

import "driller/internal/aggregator"

const (
	defaultBarWidth    = 8
	defaultHeight      = 100
	defaultPointHeight = 6
	defaultMaxValue    = 1
)

// Geometry holds the layout parameters that turn a value into a rectangle
// inside a frame column. Horizontal placement of the column belongs to the
// caller; point bounds start at x = 0.
type Geometry struct {
	BarWidth    float64
	Height      float64
	PointHeight float64
	MaxValue    float64
}

func (g Geometry) normalized() Geometry {
	if g.BarWidth <= 0 {
		g.BarWidth = defaultBarWidth
	}
	if g.Height <= 0 {
		g.Height = defaultHeight
	}
	if g.PointHeight <= 0 {
		g.PointHeight = defaultPointHeight
	}
	if g.PointHeight > g.Height {
		g.PointHeight = g.Height
	}
	if g.MaxValue <= 0 {
		g.MaxValue = defaultMaxValue
	}
	return g
}

// Bounds places a value in the column: MaxValue maps to the top edge, zero
// to the bottom. Values outside [0, MaxValue] are clamped.
func (g Geometry) Bounds(value float64) aggregator.Rect {
	ratio := value / g.MaxValue
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	travel := g.Height - g.PointHeight
	return aggregator.Rect{
		X: 0,
		Y: (1 - ratio) * travel,
		W: g.BarWidth,
		H: g.PointHeight,
	}
}

// ValueAt inverts Bounds for a vertical position, returning the value whose
// point would be centered at y.
func (g Geometry) ValueAt(y float64) float64 {
	travel := g.Height - g.PointHeight
	if travel <= 0 {
		return 0
	}
	ratio := 1 - (y-g.PointHeight/2)/travel
	return ratio * g.MaxValue
}
