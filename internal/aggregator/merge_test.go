package aggregator_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"driller/internal/aggregator"
	"driller/internal/palette"
)

func rect(x, y, w, h float64) aggregator.Rect {
	return aggregator.Rect{X: x, Y: y, W: w, H: h}
}

func TestMergeOverlappingPair(t *testing.T) {
	a := aggregator.NewDataPoint(1, rect(0, 0, 10, 5), 1, true)
	b := aggregator.NewDataPoint(2, rect(5, 0, 10, 5), 1, true)

	if !a.IntersectsDataPoint(b) {
		t.Fatal("expected points to intersect")
	}
	got := aggregator.Coalesce([]*aggregator.DataPoint{a, b})
	if len(got) != 1 {
		t.Fatalf("expected one merged point, got %d", len(got))
	}
	if diff := cmp.Diff(rect(0, 0, 15, 5), got[0].Bounds); diff != "" {
		t.Fatalf("bounds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]aggregator.SourceID{1, 2}, got[0].Sources()); diff != "" {
		t.Fatalf("sources mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeIsCommutative(t *testing.T) {
	build := func() (*aggregator.DataPoint, *aggregator.DataPoint) {
		return aggregator.NewDataPoint(1, rect(0, 0, 10, 5), 1, true),
			aggregator.NewDataPoint(2, rect(5, 2, 10, 5), 1, true)
	}

	a1, b1 := build()
	a1.AddAggregatorDataPoint(b1)
	a2, b2 := build()
	b2.AddAggregatorDataPoint(a2)

	if a1.Bounds != b2.Bounds {
		t.Fatalf("merge order changed bounds: %v vs %v", a1.Bounds, b2.Bounds)
	}
	if diff := cmp.Diff(a1.Sources(), b2.Sources()); diff != "" {
		t.Fatalf("merge order changed sources:\n%s", diff)
	}

	a1.AddAggregatorDataPoint(b1)
	if a1.Bounds != b2.Bounds || len(a1.Sources()) != 2 {
		t.Fatal("merging the same point twice should not change the result")
	}
}

func TestMergeIsAssociative(t *testing.T) {
	build := func() (a, b, c *aggregator.DataPoint) {
		return aggregator.NewDataPoint(1, rect(0, 0, 6, 4), 1, true),
			aggregator.NewDataPoint(2, rect(4, 3, 6, 4), 2, true),
			aggregator.NewDataPoint(3, rect(9, -2, 3, 6), 3, true)
	}

	// (a+b)+c
	left, b1, c1 := build()
	left.AddAggregatorDataPoint(b1)
	left.AddAggregatorDataPoint(c1)

	// a+(b+c)
	a2, right, c2 := build()
	right.AddAggregatorDataPoint(c2)
	a2.AddAggregatorDataPoint(right)

	if diff := cmp.Diff(rect(0, -2, 12, 9), left.Bounds); diff != "" {
		t.Fatalf("(a+b)+c bounds (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(left.Bounds, a2.Bounds); diff != "" {
		t.Fatalf("grouping changed bounds (-left +right):\n%s", diff)
	}
	if diff := cmp.Diff([]aggregator.SourceID{1, 2, 3}, left.Sources()); diff != "" {
		t.Fatalf("(a+b)+c sources (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(left.Sources(), a2.Sources()); diff != "" {
		t.Fatalf("grouping changed sources (-left +right):\n%s", diff)
	}
}

func TestCoalesceLeavesDisjointPointsUnchanged(t *testing.T) {
	points := []*aggregator.DataPoint{
		aggregator.NewDataPoint(0, rect(0, 0, 4, 2), 1, true),
		aggregator.NewDataPoint(1, rect(0, 2, 4, 2), 1, true), // touches, no overlap
		aggregator.NewDataPoint(2, rect(0, 10, 4, 2), 1, true),
	}
	before := make([]aggregator.Rect, len(points))
	for i, p := range points {
		before[i] = p.Bounds
	}

	got := aggregator.Coalesce(points)
	if len(got) != len(points) {
		t.Fatalf("expected %d points, got %d", len(points), len(got))
	}
	for i, p := range got {
		if p != points[i] {
			t.Fatalf("point %d replaced", i)
		}
		if p.Bounds != before[i] {
			t.Fatalf("point %d bounds changed: %v -> %v", i, before[i], p.Bounds)
		}
	}
}

func TestCoalesceReachesFixedPoint(t *testing.T) {
	// a and b overlap; their union reaches c although neither does alone.
	a := aggregator.NewDataPoint(0, rect(0, 0, 4, 3), 1, true)
	b := aggregator.NewDataPoint(1, rect(3, 2, 4, 3), 1, true)
	c := aggregator.NewDataPoint(2, rect(0, 4, 2, 2), 1, true)
	if a.IntersectsDataPoint(c) || b.IntersectsDataPoint(c) {
		t.Fatal("fixture: c must not touch a or b directly")
	}

	got := aggregator.Coalesce([]*aggregator.DataPoint{c, a, b})
	if len(got) != 1 {
		t.Fatalf("expected everything to merge, got %d points", len(got))
	}
	if diff := cmp.Diff(rect(0, 0, 7, 6), got[0].Bounds); diff != "" {
		t.Fatalf("bounds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]aggregator.SourceID{0, 1, 2}, got[0].Sources()); diff != "" {
		t.Fatalf("sources mismatch (-want +got):\n%s", diff)
	}
}

func TestCoalesceKeepsInactivePointsApart(t *testing.T) {
	active := aggregator.NewDataPoint(0, rect(0, 0, 4, 4), 2, true)
	inactive := aggregator.NewDataPoint(1, rect(0, 0, 4, 4), 0, false)

	got := aggregator.Coalesce([]*aggregator.DataPoint{inactive, active})
	if len(got) != 2 || got[0] != active || got[1] != inactive {
		t.Fatalf("expected active then inactive untouched, got %v", got)
	}
	if active.HasSource(1) {
		t.Fatal("inactive point must not contribute")
	}
}

func TestContainsPointIsVertical(t *testing.T) {
	p := aggregator.NewDataPoint(0, rect(0, 10, 4, 5), 1, true)
	if !p.ContainsPoint(aggregator.Point{X: 999, Y: 12}) {
		t.Fatal("expected hit regardless of x")
	}
	if p.ContainsPoint(aggregator.Point{X: 1, Y: 15}) {
		t.Fatal("bottom edge is exclusive")
	}
	p.Active = false
	if p.ContainsPoint(aggregator.Point{X: 1, Y: 12}) {
		t.Fatal("inactive points never contain anything")
	}
}

type fakeResolver map[aggregator.SourceID]bool

func (f fakeResolver) SourceActive(id aggregator.SourceID) bool { return f[id] }

func (f fakeResolver) SourceColor(id aggregator.SourceID) palette.Color {
	return palette.Default(int(id))
}

func TestStylePolicy(t *testing.T) {
	stack := func() *aggregator.DataPoint {
		p := aggregator.NewDataPoint(0, rect(0, 0, 4, 4), 1, true)
		p.AddAggregatorDataPoint(aggregator.NewDataPoint(1, rect(0, 2, 4, 4), 1, true))
		return p
	}

	tests := []struct {
		name        string
		resolver    fakeResolver
		highlighted bool
		want        aggregator.Style
		wantColor   palette.Color
	}{
		{name: "none active", resolver: fakeResolver{}, want: aggregator.StyleSuppressed},
		{name: "one active", resolver: fakeResolver{1: true}, want: aggregator.StyleSolid, wantColor: palette.Default(1)},
		{name: "both active", resolver: fakeResolver{0: true, 1: true}, want: aggregator.StyleStacked, wantColor: palette.Neutral},
		{name: "both active hovered", resolver: fakeResolver{0: true, 1: true}, highlighted: true, want: aggregator.StyleEmphasized, wantColor: palette.Emphasis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := stack()
			p.Highlighted = tt.highlighted
			style, color := p.Style(tt.resolver)
			if style != tt.want {
				t.Fatalf("style: got %s want %s", style, tt.want)
			}
			if color != tt.wantColor {
				t.Fatalf("color: got %v want %v", color, tt.wantColor)
			}
		})
	}
}
