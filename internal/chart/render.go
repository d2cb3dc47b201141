/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package chart lays out and draws schedule timelines.
package chart

import (
	"image/color"

	"github.com/rs/zerolog"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"

	"github.com/friendsincode/schedviz/internal/model"
)

// XAxisLabel is the label of the time axis.
const XAxisLabel = "Time [ms]"

// Renderer draws schedules onto figures.
type Renderer struct {
	style  Style
	logger zerolog.Logger
}

// NewRenderer creates a renderer with the default style.
func NewRenderer(logger zerolog.Logger) *Renderer {
	return &Renderer{
		style:  DefaultStyle(),
		logger: logger.With().Str("component", "chart").Logger(),
	}
}

// WithStyle returns a copy of the renderer using style.
func (r *Renderer) WithStyle(style Style) *Renderer {
	cp := *r
	cp.style = style
	return &cp
}

// Render draws s onto fig and returns it. A nil fig gets a new default
// figure. Validation errors are returned before anything is drawn and leave
// fig untouched.
func (r *Renderer) Render(fig *Figure, s *model.Schedule) (*Figure, error) {
	layout, err := NewLayout(s)
	if err != nil {
		return fig, err
	}
	if fig == nil {
		fig = NewFigure()
	}

	fig.plot = r.build(layout)
	fig.layout = layout
	fig.schedule = s

	r.logger.Debug().
		Str("figure_id", fig.ID).
		Str("schedule", s.Name).
		Int("rows", layout.Rows()).
		Int("bars", len(layout.Bars)).
		Int("bands", len(layout.Bands)).
		Int("arrivals", len(layout.Arrivals)).
		Int("deadlines", len(layout.Deadlines)).
		Int("idle", len(layout.Idle)).
		Float64("horizon", layout.Horizon).
		Msg("schedule rendered")

	return fig, nil
}

func (r *Renderer) build(l *Layout) *plot.Plot {
	p := plot.New()
	p.Title.Text = l.Title
	p.X.Label.Text = XAxisLabel

	p.X.Min, p.X.Max = l.XMin, l.XMax
	p.Y.Min, p.Y.Max = l.YMin, l.YMax

	p.X.Tick.Marker = constantTicks(l.XTicks)
	p.Y.Tick.Marker = constantTicks(l.YTicks)
	p.Y.Tick.LineStyle.Width = 0

	p.Legend.Top = true
	p.Legend.Left = true

	bands := &rectangles{rects: l.Bands, fill: r.style.Scheduler}
	bars := &rectangles{rects: barRects(l.Bars), fill: r.style.Task}
	p.Add(bands, bars)
	p.Legend.Add("Scheduler", bands)
	p.Legend.Add("Execution", bars)

	if len(l.Arrivals) > 0 {
		a := &arrows{markers: l.Arrivals, line: r.lineStyle(r.style.Arrival), size: r.style.ArrowSize}
		p.Add(a)
		p.Legend.Add("Arrival", a)
	}
	if len(l.Deadlines) > 0 {
		d := &arrows{markers: l.Deadlines, line: r.lineStyle(r.style.Deadline), size: r.style.ArrowSize, filled: true}
		p.Add(d)
		p.Legend.Add("Deadline", d)
	}
	if len(l.Idle) > 0 {
		hatch := r.lineStyle(r.style.Hatch)
		hatch.Width = r.style.MarkerWidth / 2
		idle := &rectangles{rects: l.Idle, fill: r.style.Idle, hatch: &hatch, spacing: r.style.HatchSpacing}
		p.Add(idle)
		p.Legend.Add("Idle", idle)
	}

	return p
}

func (r *Renderer) lineStyle(c color.Color) draw.LineStyle {
	return draw.LineStyle{Color: c, Width: r.style.MarkerWidth}
}

func barRects(bars []Bar) []Rect {
	rects := make([]Rect, len(bars))
	for i, b := range bars {
		rects[i] = b.Rect
	}
	return rects
}

func constantTicks(ticks []Tick) plot.ConstantTicks {
	out := make(plot.ConstantTicks, len(ticks))
	for i, t := range ticks {
		out[i] = plot.Tick{Value: t.Value, Label: t.Label}
	}
	return out
}
