package testsupport

import (
	"driller/internal/aggregator"
	"driller/internal/palette"
)

// Series is an in-memory aggregator that counts ValueAtFrame calls.
type Series struct {
	Values  map[int64]float64
	Colour  palette.Color
	Enabled bool
	Calls   map[int64]int
}

var _ aggregator.Aggregator = (*Series)(nil)

// NewSeries returns an enabled series with the given frame values.
func NewSeries(color palette.Color, values map[int64]float64) *Series {
	if values == nil {
		values = map[int64]float64{}
	}
	return &Series{Values: values, Colour: color, Enabled: true, Calls: map[int64]int{}}
}

// Ramp returns a series whose value at frame f is f modulo period, scaled.
func Ramp(color palette.Color, first, last, period int64, scale float64) *Series {
	values := make(map[int64]float64, last-first+1)
	for f := first; f <= last; f++ {
		values[f] = float64(f%period) * scale
	}
	return NewSeries(color, values)
}

func (s *Series) ValueAtFrame(frame int64) float64 {
	s.Calls[frame]++
	return s.Values[frame]
}

func (s *Series) Color() palette.Color { return s.Colour }

func (s *Series) IsActive() bool { return s.Enabled }

// TotalCalls sums ValueAtFrame invocations over every frame.
func (s *Series) TotalCalls() int {
	total := 0
	for _, n := range s.Calls {
		total += n
	}
	return total
}
