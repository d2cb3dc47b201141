/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package display

import (
	"math"

	"github.com/friendsincode/schedviz/internal/chart"
)

// CellKind is what occupies one terminal cell of the timeline.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellBand
	CellIdle
	CellTask
	CellArrival
	CellDeadline
)

// Rune returns the glyph drawn for the cell kind.
func (k CellKind) Rune() rune {
	switch k {
	case CellBand:
		return '▒'
	case CellIdle:
		return '/'
	case CellTask:
		return '█'
	case CellArrival:
		return 'v'
	case CellDeadline:
		return '^'
	default:
		return ' '
	}
}

// Grid is a character raster of a layout. Line 0 is the scheduler band row;
// the task rows follow top to bottom, so the last line is task row 0.
type Grid struct {
	Width  int
	Lines  []string // label of each line; "" for the band line
	Cells  [][]CellKind
	Ticks  []GridTick
	scale  float64
	layout *chart.Layout
}

// GridTick is an x-axis tick mapped to a column.
type GridTick struct {
	Column int
	Label  string
}

// Rasterize maps l onto a grid width columns wide. Markers win over bars,
// bars over idle hatching, idle over bands.
func Rasterize(l *chart.Layout, width int) *Grid {
	if width < 1 {
		width = 1
	}
	n := l.Rows()
	g := &Grid{
		Width:  width,
		Lines:  make([]string, n+1),
		Cells:  make([][]CellKind, n+1),
		scale:  float64(width) / (l.XMax - l.XMin),
		layout: l,
	}
	for i := range g.Cells {
		g.Cells[i] = make([]CellKind, width)
	}
	for row, label := range l.Labels {
		g.Lines[g.line(row)] = label
	}

	for _, b := range l.Bands {
		g.fillSpan(0, b.X, b.W, CellBand)
	}
	for _, idle := range l.Idle {
		for row := 0; row < n; row++ {
			g.fillSpan(g.line(row), idle.X, idle.W, CellIdle)
		}
	}
	for _, bar := range l.Bars {
		g.fillSpan(g.line(bar.Row), bar.X, bar.W, CellTask)
	}
	for _, m := range l.Arrivals {
		g.mark(m, CellArrival)
	}
	for _, m := range l.Deadlines {
		g.mark(m, CellDeadline)
	}

	last := -1
	for _, t := range l.XTicks {
		col := g.column(t.Value)
		if col <= last {
			continue
		}
		g.Ticks = append(g.Ticks, GridTick{Column: col, Label: t.Label})
		last = col + len(t.Label)
	}
	return g
}

// line returns the grid line of a task row.
func (g *Grid) line(row int) int {
	return len(g.Cells) - 1 - row
}

func (g *Grid) column(x float64) int {
	c := int(math.Floor((x - g.layout.XMin) * g.scale))
	if c >= g.Width {
		c = g.Width - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

// mark places a marker glyph. Markers outside the time axis are not drawn.
func (g *Grid) mark(m chart.Marker, kind CellKind) {
	if m.X < g.layout.XMin || m.X > g.layout.XMax {
		return
	}
	g.set(g.line(m.Row), g.column(m.X), kind)
}

func (g *Grid) fillSpan(line int, x, w float64, kind CellKind) {
	if w <= 0 || x >= g.layout.XMax {
		return
	}
	c0 := int(math.Floor((x - g.layout.XMin) * g.scale))
	c1 := int(math.Ceil((x + w - g.layout.XMin) * g.scale))
	if c1 <= c0 {
		c1 = c0 + 1
	}
	for c := max(c0, 0); c < c1 && c < g.Width; c++ {
		g.set(line, c, kind)
	}
}

func (g *Grid) set(line, col int, kind CellKind) {
	if cur := g.Cells[line][col]; kind > cur {
		g.Cells[line][col] = kind
	}
}

// Row returns the glyphs of one grid line.
func (g *Grid) Row(line int) string {
	out := make([]rune, g.Width)
	for i, k := range g.Cells[line] {
		out[i] = k.Rune()
	}
	return string(out)
}
