/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package chart

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/friendsincode/schedviz/internal/model"
)

// ErrHorizonRequired is returned when a schedule reaches the renderer without
// a positive time horizon.
var ErrHorizonRequired = errors.New("time horizon is required")

// Geometry constants in data units.
const (
	RowHeight        = 1.0
	BandHeight       = 0.5
	MarkerHeight     = 0.5
	TopMargin        = 0.5
	tickEpsilonRatio = 1e-9
)

// MaxPeriods bounds how many scheduler periods fit in one chart. Each period
// adds a tick and a band.
const MaxPeriods = 10000

// Direction is the way a marker's arrowhead points.
type Direction int

const (
	Down Direction = iota
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Rect is an axis aligned rectangle in data units. (X, Y) is the lower left corner.
type Rect struct {
	X, Y, W, H float64
}

// Bar is one execution interval placed on its task row.
type Bar struct {
	Task string
	Row  int
	Rect
}

// Marker is a vertical arrow at time X from Tail to Head.
type Marker struct {
	Task string
	Row  int
	X    float64
	Tail float64
	Head float64
	Dir  Direction
}

// Tick is an axis tick position and its label.
type Tick struct {
	Value float64
	Label string
}

// Layout is the resolved geometry of a schedule chart. Everything the
// backends draw is derived from it.
type Layout struct {
	Title     string
	Labels    []string
	Horizon   float64
	Period    float64
	XMin      float64
	XMax      float64
	YMin      float64
	YMax      float64
	XTicks    []Tick
	YTicks    []Tick
	Bands     []Rect
	Bars      []Bar
	Arrivals  []Marker
	Deadlines []Marker
	Idle      []Rect
}

// Rows returns the number of task rows.
func (l *Layout) Rows() int { return len(l.Labels) }

// BandRow returns the row reserved for the scheduler band.
func (l *Layout) BandRow() int { return len(l.Labels) }

// NewLayout validates s and computes its chart geometry. No geometry is
// produced when the schedule is inconsistent.
func NewLayout(s *model.Schedule) (*Layout, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !(s.Horizon > 0) {
		return nil, fmt.Errorf("%w: schedule %q has horizon %v", ErrHorizonRequired, s.Name, s.Horizon)
	}
	if math.IsInf(s.Horizon, 1) {
		return nil, &model.FieldError{Field: "horizon", Index: -1, Message: "horizon must be finite"}
	}
	if periods := s.Horizon / s.Scheduler.Period; periods > MaxPeriods {
		return nil, &model.FieldError{
			Field:   "horizon",
			Index:   -1,
			Message: fmt.Sprintf("horizon %v spans %.0f scheduler periods, at most %d are drawn", s.Horizon, math.Ceil(periods), MaxPeriods),
		}
	}

	rows, err := model.NewRows(s)
	if err != nil {
		return nil, err
	}
	n := rows.Len()

	l := &Layout{
		Title:   s.Name,
		Labels:  rows.Labels(),
		Horizon: s.Horizon,
		Period:  s.Scheduler.Period,
		XMin:    0,
		XMax:    s.Horizon,
		YMin:    0,
		YMax:    float64(n) + TopMargin,
	}

	for i, label := range l.Labels {
		l.YTicks = append(l.YTicks, Tick{Value: float64(i) + RowHeight/2, Label: label})
	}
	l.XTicks = periodTicks(s.Scheduler.Period, s.Horizon)
	l.Bands = schedulerBands(s.Scheduler, s.Horizon, float64(n))

	for _, e := range s.Executions {
		row, err := rows.Index(e.Task, "execution")
		if err != nil {
			return nil, err
		}
		l.Bars = append(l.Bars, Bar{
			Task: e.Task,
			Row:  row,
			Rect: Rect{X: e.Start, Y: float64(row), W: e.Duration, H: RowHeight},
		})
	}

	for _, a := range s.Arrivals {
		row, err := rows.Index(a.Task, "arrival")
		if err != nil {
			return nil, err
		}
		y := float64(row)
		l.Arrivals = append(l.Arrivals, Marker{Task: a.Task, Row: row, X: a.Time, Tail: y + MarkerHeight, Head: y, Dir: Down})
	}

	for _, d := range s.Deadlines {
		row, err := rows.Index(d.Task, "deadline")
		if err != nil {
			return nil, err
		}
		y := float64(row)
		l.Deadlines = append(l.Deadlines, Marker{Task: d.Task, Row: row, X: d.Time, Tail: y, Head: y + MarkerHeight, Dir: Up})
	}

	for _, idle := range s.Idle {
		l.Idle = append(l.Idle, Rect{X: idle.Start, Y: 0, W: idle.Duration, H: float64(n)})
	}

	return l, nil
}

// periodTicks places a tick at every multiple of period in [0, horizon].
// Ticks are computed as k*period so long horizons do not accumulate drift.
func periodTicks(period, horizon float64) []Tick {
	eps := horizon * tickEpsilonRatio
	var ticks []Tick
	for k := 0; ; k++ {
		v := float64(k) * period
		if v > horizon+eps {
			break
		}
		ticks = append(ticks, Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}
	return ticks
}

// schedulerBands repeats a band of width C every T starting at 0 until the
// band start reaches the horizon.
func schedulerBands(sch model.SchedulerActivity, horizon, y float64) []Rect {
	var bands []Rect
	for k := 0; ; k++ {
		start := float64(k) * sch.Period
		if start >= horizon {
			break
		}
		bands = append(bands, Rect{X: start, Y: y, W: sch.Execution, H: BandHeight})
	}
	return bands
}
