package timeline_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"driller/internal/annotations"
	"driller/internal/channelview"
	"driller/internal/palette"
	"driller/internal/testsupport"
	"driller/internal/timeline"
)

func fixture() (*channelview.View, *annotations.Index) {
	a := testsupport.NewSeries(palette.RGB(255, 0, 0), map[int64]float64{0: 10, 2: 5, 3: 5})
	b := testsupport.NewSeries(palette.RGB(0, 0, 255), map[int64]float64{2: 5, 4: 1})
	view := channelview.New(nil, channelview.Geometry{BarWidth: 4, Height: 100, PointHeight: 10, MaxValue: 10}, a, b)
	view.Recalculate(channelview.Viewport{Begin: 0, End: 5, Rightmost: 4, FramesInView: 5})

	provider := annotations.NewProvider(nil)
	provider.AddAnnotation(annotations.NewAnnotation(1, 2, "hitch", "A"))
	return view, provider.Finalize()
}

func TestRenderGrid(t *testing.T) {
	view, index := fixture()
	out := timeline.Render(view, index, timeline.Options{Rows: 10})

	want := []string{
		"█    ",
		"     ",
		"     ",
		"     ",
		"  ▓█ ",
		"  ▓█ ",
		"     ",
		"     ",
		"    █",
		"    █",
		"  ▲  ",
		"0",
	}
	got := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderHighlightEmphasizesStack(t *testing.T) {
	view, index := fixture()
	if hit := view.HighlightAt(2, 50); hit == nil {
		t.Fatal("expected a point under frame 2")
	}
	out := timeline.Render(view, index, timeline.Options{Rows: 10, ShowCursor: true, Cursor: 3})
	lines := strings.Split(out, "\n")
	if lines[4] != "  ◆█ " {
		t.Fatalf("expected emphasized stack, got %q", lines[4])
	}
	if lines[10] != "  ▲│ " {
		t.Fatalf("expected cursor beside the annotation marker, got %q", lines[10])
	}
}

func TestRenderSkipsSuppressedPoints(t *testing.T) {
	a := testsupport.NewSeries(palette.RGB(255, 0, 0), map[int64]float64{0: 10, 2: 5, 3: 5})
	b := testsupport.NewSeries(palette.RGB(0, 0, 255), map[int64]float64{2: 5, 4: 1})
	b.Enabled = false
	view := channelview.New(nil, channelview.Geometry{BarWidth: 4, Height: 100, PointHeight: 10, MaxValue: 10}, a, b)
	view.Recalculate(channelview.Viewport{Begin: 0, End: 5, Rightmost: 4, FramesInView: 5})

	lines := strings.Split(timeline.Render(view, nil, timeline.Options{Rows: 10}), "\n")
	// The frame 2 stack keeps only a's color; b's lone point on frame 4 is hidden.
	if lines[4] != "  ██ " || lines[5] != "  ██ " {
		t.Fatalf("expected solid blocks on frames 2-3, got %q %q", lines[4], lines[5])
	}
	if lines[8] != "     " || lines[9] != "     " {
		t.Fatalf("suppressed point was drawn: %q %q", lines[8], lines[9])
	}
}

func TestRenderLegendAndEmptyView(t *testing.T) {
	view, index := fixture()
	out := timeline.Render(view, index, timeline.Options{
		Rows: 4,
		Legend: []timeline.LegendEntry{
			{Name: "A", Color: palette.RGB(255, 0, 0), Enabled: true},
			{Name: "B", Color: palette.RGB(0, 0, 255)},
		},
	})
	if first := strings.SplitN(out, "\n", 2)[0]; first != "█ A  █ B (off)" {
		t.Fatalf("unexpected legend %q", first)
	}

	empty := channelview.New(nil, channelview.Geometry{})
	if got := timeline.Render(empty, nil, timeline.Options{}); got != "(no frames in view)\n" {
		t.Fatalf("unexpected empty render %q", got)
	}
}

func TestSnapshot(t *testing.T) {
	view, index := fixture()
	frames := timeline.Snapshot(view, index, []string{"A", "B"})
	if len(frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(frames))
	}
	if len(frames[1].Points) != 0 {
		t.Fatalf("frame 1 has no data, got %+v", frames[1].Points)
	}
	want := timeline.FrameSnapshot{
		Frame: 2,
		Points: []timeline.PointSnapshot{{
			Channels: []string{"A", "B"},
			Value:    5,
			Style:    "stacked",
			Color:    palette.Neutral.Hex(),
			Top:      45,
			Bottom:   55,
		}},
		Annotations: []string{"hitch"},
	}
	if diff := cmp.Diff(want, frames[2]); diff != "" {
		t.Fatalf("frame 2 mismatch (-want +got):\n%s", diff)
	}
	if frames[0].Points[0].Color != "#ff0000" || frames[0].Points[0].Style != "solid" {
		t.Fatalf("unexpected frame 0 point %+v", frames[0].Points[0])
	}
}

func TestDescribe(t *testing.T) {
	view, _ := fixture()
	hit := view.HighlightAt(2, 50)
	if got := timeline.Describe(hit, []string{"A", "B"}); got != "A+B = 5" {
		t.Fatalf("Describe = %q", got)
	}
	if timeline.Describe(nil, nil) != "" {
		t.Fatal("expected empty description for no hit")
	}
}
