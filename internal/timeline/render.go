package timeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"driller/internal/aggregator"
	"driller/internal/annotations"
	"driller/internal/channelview"
	"driller/internal/palette"
)

const (
	defaultRows   = 12
	rulerInterval = 10
)

// Glyphs per render style.
const (
	GlyphSolid      = '█'
	GlyphStacked    = '▓'
	GlyphEmphasized = '◆'
	GlyphAnnotation = '▲'
	GlyphCursor     = '│'
)

// LegendEntry describes one channel in the legend line.
type LegendEntry struct {
	Name    string
	Color   palette.Color
	Enabled bool
}

// Options controls rendering.
type Options struct {
	// Rows is the height of the plot in text rows.
	Rows int
	// Color applies channel colors with lipgloss.
	Color bool
	// ShowCursor marks the Cursor frame column in the marker row.
	ShowCursor bool
	Cursor     int64
	// Legend, when set, is printed above the plot.
	Legend []LegendEntry
}

type cell struct {
	glyph rune
	color palette.Color
	style aggregator.Style
}

// Render draws the view's cached window. An empty view renders as a single
// explanatory line.
func Render(view *channelview.View, index *annotations.Index, opts Options) string {
	first, last, ok := view.CachedRange()
	if !ok {
		return "(no frames in view)\n"
	}
	rows := opts.Rows
	if rows <= 0 {
		rows = defaultRows
	}
	width := int(last - first + 1)
	height := view.Geometry().Height

	grid := make([][]cell, rows)
	for r := range grid {
		grid[r] = make([]cell, width)
		for c := range grid[r] {
			grid[r][c] = cell{glyph: ' '}
		}
	}

	for col := 0; col < width; col++ {
		for _, p := range view.Points(first + int64(col)) {
			if !p.Active {
				continue
			}
			style, color := p.Style(view)
			if style == aggregator.StyleSuppressed {
				continue
			}
			top, bottom := rowSpan(p.Bounds, height, rows)
			for r := top; r <= bottom; r++ {
				current := grid[r][col]
				if current.glyph != ' ' && current.style >= style {
					continue
				}
				grid[r][col] = cell{glyph: glyphFor(style), color: color, style: style}
			}
		}
	}

	var b strings.Builder
	if len(opts.Legend) > 0 {
		b.WriteString(renderLegend(opts.Legend, opts.Color))
		b.WriteByte('\n')
	}
	for _, row := range grid {
		for _, c := range row {
			b.WriteString(paint(c, opts.Color))
		}
		b.WriteByte('\n')
	}
	b.WriteString(markerRow(first, last, index, opts.ShowCursor, opts.Cursor))
	b.WriteByte('\n')
	b.WriteString(ruler(first, last))
	b.WriteByte('\n')
	return b.String()
}

// rowSpan maps vertical bounds inside a column of the given height onto
// text rows, top row first.
func rowSpan(bounds aggregator.Rect, height float64, rows int) (top, bottom int) {
	if height <= 0 {
		return rows - 1, rows - 1
	}
	scale := float64(rows) / height
	top = int(bounds.Top() * scale)
	bottom = int(bounds.Bottom()*scale - 1e-9)
	top = clamp(top, 0, rows-1)
	bottom = clamp(bottom, top, rows-1)
	return top, bottom
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func glyphFor(style aggregator.Style) rune {
	switch style {
	case aggregator.StyleStacked:
		return GlyphStacked
	case aggregator.StyleEmphasized:
		return GlyphEmphasized
	default:
		return GlyphSolid
	}
}

func paint(c cell, color bool) string {
	if !color || c.glyph == ' ' {
		return string(c.glyph)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.color.Hex())).Render(string(c.glyph))
}

func renderLegend(entries []LegendEntry, color bool) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		swatch := string(GlyphSolid)
		if color {
			swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color.Hex())).Render(swatch)
		}
		label := e.Name
		if !e.Enabled {
			label += " (off)"
		}
		parts = append(parts, swatch+" "+label)
	}
	return strings.Join(parts, "  ")
}

func markerRow(first, last int64, index *annotations.Index, showCursor bool, cursor int64) string {
	var b strings.Builder
	for f := first; f <= last; f++ {
		switch {
		case index.HasFrame(f):
			b.WriteRune(GlyphAnnotation)
		case showCursor && f == cursor:
			b.WriteRune(GlyphCursor)
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// ruler labels every tenth frame at its column; labels that would overlap
// the previous one are dropped.
func ruler(first, last int64) string {
	width := int(last - first + 1)
	line := []rune(strings.Repeat(" ", width))
	next := 0
	for f := first; f <= last; f++ {
		if f%rulerInterval != 0 && f != first {
			continue
		}
		col := int(f - first)
		label := strconv.FormatInt(f, 10)
		if col < next || col+len(label) > width {
			continue
		}
		copy(line[col:], []rune(label))
		next = col + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}

// Describe summarizes the hit point of a hover for status lines.
func Describe(p *aggregator.DataPoint, names []string) string {
	if p == nil {
		return ""
	}
	sources := p.Sources()
	labels := make([]string, 0, len(sources))
	for _, id := range sources {
		if int(id) < len(names) {
			labels = append(labels, names[id])
		} else {
			labels = append(labels, fmt.Sprintf("#%d", id))
		}
	}
	return fmt.Sprintf("%s = %g", strings.Join(labels, "+"), p.Value)
}
