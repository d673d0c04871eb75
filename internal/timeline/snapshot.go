package timeline

import (
	"driller/internal/annotations"
	"driller/internal/channelview"
)

// PointSnapshot is one merged point in JSON form.
type PointSnapshot struct {
	Channels []string `json:"channels"`
	Value    float64  `json:"value"`
	Style    string   `json:"style"`
	Color    string   `json:"color,omitempty"`
	Top      float64  `json:"top"`
	Bottom   float64  `json:"bottom"`
}

// FrameSnapshot is one cached frame in JSON form.
type FrameSnapshot struct {
	Frame       int64           `json:"frame"`
	Points      []PointSnapshot `json:"points"`
	Annotations []string        `json:"annotations,omitempty"`
}

// Snapshot lists the active points and annotations of every cached frame.
// names maps aggregator positions to channel names.
func Snapshot(view *channelview.View, index *annotations.Index, names []string) []FrameSnapshot {
	first, last, ok := view.CachedRange()
	if !ok {
		return nil
	}
	frames := make([]FrameSnapshot, 0, last-first+1)
	for f := first; f <= last; f++ {
		frame := FrameSnapshot{Frame: f, Points: []PointSnapshot{}}
		for _, p := range view.Points(f) {
			if !p.Active {
				continue
			}
			style, color := p.Style(view)
			snap := PointSnapshot{
				Value:  p.Value,
				Style:  style.String(),
				Top:    p.Bounds.Top(),
				Bottom: p.Bounds.Bottom(),
			}
			if !color.IsZero() {
				snap.Color = color.Hex()
			}
			for _, id := range p.Sources() {
				if int(id) < len(names) {
					snap.Channels = append(snap.Channels, names[id])
				}
			}
			frame.Points = append(frame.Points, snap)
		}
		for _, a := range index.AtFrame(f) {
			frame.Annotations = append(frame.Annotations, a.Text)
		}
		frames = append(frames, frame)
	}
	return frames
}
