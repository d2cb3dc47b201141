/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package chart

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Style holds the colors used by the chart.
type Style struct {
	Task      color.Color
	Scheduler color.Color
	Arrival   color.Color
	Deadline  color.Color
	Idle      color.Color
	Hatch     color.Color

	MarkerWidth  vg.Length
	ArrowSize    vg.Length
	HatchSpacing vg.Length
}

// DefaultStyle mirrors the classic palette: blue tasks, green scheduler
// bands, red arrivals, violet deadlines and a faint black idle overlay.
func DefaultStyle() Style {
	return Style{
		Task:         color.NRGBA{R: 0, G: 0, B: 255, A: 179},
		Scheduler:    color.NRGBA{R: 0, G: 128, B: 0, A: 179},
		Arrival:      color.NRGBA{R: 255, G: 0, B: 0, A: 255},
		Deadline:     color.NRGBA{R: 238, G: 130, B: 238, A: 255},
		Idle:         color.NRGBA{R: 0, G: 0, B: 0, A: 26},
		Hatch:        color.NRGBA{R: 0, G: 0, B: 0, A: 90},
		MarkerWidth:  vg.Points(1.5),
		ArrowSize:    vg.Points(5),
		HatchSpacing: vg.Points(6),
	}
}

// rectangles fills a set of data-space rectangles, optionally hatched.
type rectangles struct {
	rects   []Rect
	fill    color.Color
	hatch   *draw.LineStyle
	spacing vg.Length
}

func (r *rectangles) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, rc := range r.rects {
		if rc.W <= 0 || rc.H <= 0 {
			continue
		}
		lo := vg.Point{X: trX(rc.X), Y: trY(rc.Y)}
		hi := vg.Point{X: trX(rc.X + rc.W), Y: trY(rc.Y + rc.H)}
		c.FillPolygon(r.fill, c.ClipPolygonXY(corners(lo, hi)))
		if r.hatch != nil {
			lines := hatchLines(lo, hi, r.spacing)
			c.StrokeLines(*r.hatch, c.ClipLinesXY(lines...)...)
		}
	}
}

func (r *rectangles) Thumbnail(c *draw.Canvas) {
	c.FillPolygon(r.fill, corners(c.Min, c.Max))
	if r.hatch != nil {
		c.StrokeLines(*r.hatch, hatchLines(c.Min, c.Max, r.spacing/2)...)
	}
}

// arrows draws vertical markers with an open (arrival) or filled (deadline) head.
type arrows struct {
	markers []Marker
	line    draw.LineStyle
	size    vg.Length
	filled  bool
}

func (a *arrows) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, m := range a.markers {
		tail := vg.Point{X: trX(m.X), Y: trY(m.Tail)}
		head := vg.Point{X: trX(m.X), Y: trY(m.Head)}
		if !c.Contains(head) && !c.Contains(tail) {
			continue
		}
		a.draw(&c, tail, head)
	}
}

func (a *arrows) Thumbnail(c *draw.Canvas) {
	x := (c.Min.X + c.Max.X) / 2
	tail := vg.Point{X: x, Y: c.Max.Y}
	head := vg.Point{X: x, Y: c.Min.Y}
	if a.filled {
		tail, head = head, tail
	}
	a.draw(c, tail, head)
}

func (a *arrows) draw(c *draw.Canvas, tail, head vg.Point) {
	c.StrokeLines(a.line, []vg.Point{tail, head})
	left, right := arrowHead(tail, head, a.size)
	if a.filled {
		c.FillPolygon(a.line.Color, []vg.Point{left, head, right})
		return
	}
	c.StrokeLines(a.line, []vg.Point{left, head, right})
}

func corners(lo, hi vg.Point) []vg.Point {
	return []vg.Point{
		{X: lo.X, Y: lo.Y},
		{X: hi.X, Y: lo.Y},
		{X: hi.X, Y: hi.Y},
		{X: lo.X, Y: hi.Y},
	}
}

// arrowHead returns the two wing points of an arrowhead at head for a
// vertical shaft coming from tail.
func arrowHead(tail, head vg.Point, size vg.Length) (left, right vg.Point) {
	back := size
	if tail.Y < head.Y {
		back = -size
	}
	half := size / 2
	return vg.Point{X: head.X - half, Y: head.Y + back}, vg.Point{X: head.X + half, Y: head.Y + back}
}

// hatchLines returns "//" hatch segments at 45 degrees covering the rectangle
// spanned by lo and hi, clipped to its left and right edges.
func hatchLines(lo, hi vg.Point, spacing vg.Length) [][]vg.Point {
	if spacing <= 0 || hi.X <= lo.X || hi.Y <= lo.Y {
		return nil
	}
	h := hi.Y - lo.Y
	var lines [][]vg.Point
	for d := -h; d < hi.X-lo.X; d += spacing {
		// Segment x = lo.X + d + (y - lo.Y) for y in [lo.Y, hi.Y].
		x0 := lo.X + d
		xs := maxLength(lo.X, x0)
		xe := minLength(hi.X, x0+h)
		if xe <= xs {
			continue
		}
		lines = append(lines, []vg.Point{
			{X: xs, Y: lo.Y + (xs - x0)},
			{X: xe, Y: lo.Y + (xe - x0)},
		})
	}
	return lines
}

func maxLength(a, b vg.Length) vg.Length {
	if a > b {
		return a
	}
	return b
}

func minLength(a, b vg.Length) vg.Length {
	if a < b {
		return a
	}
	return b
}
