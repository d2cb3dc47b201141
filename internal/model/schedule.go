/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package model defines the schedule description shared by the chart renderer
// and the workbook store.
package model

import (
	"fmt"
	"math"
	"sort"
)

// ExecutionInterval is a contiguous run of one task on the processor.
type ExecutionInterval struct {
	Task     string  `yaml:"task"`
	Start    float64 `yaml:"start"`
	Duration float64 `yaml:"duration"`
}

// End returns the time the interval stops running.
func (e ExecutionInterval) End() float64 {
	return e.Start + e.Duration
}

// Event marks a point in time for one task (arrival or deadline).
type Event struct {
	Task string  `yaml:"task"`
	Time float64 `yaml:"time"`
}

// SchedulerActivity describes scheduler overhead of Execution time units
// recurring every Period time units, starting at time 0.
type SchedulerActivity struct {
	Period    float64 `yaml:"period"`
	Execution float64 `yaml:"execution"`
}

// IdleInterval is a span where the processor runs no task.
type IdleInterval struct {
	Start    float64 `yaml:"start"`
	Duration float64 `yaml:"duration"`
}

// End returns the time the processor leaves the idle state.
func (i IdleInterval) End() float64 {
	return i.Start + i.Duration
}

// Schedule is the unit of exchange between the renderer and the store.
// Neither component mutates it.
type Schedule struct {
	Name       string              `yaml:"name"`
	Executions []ExecutionInterval `yaml:"executions"`
	Arrivals   []Event             `yaml:"arrivals"`
	Deadlines  []Event             `yaml:"deadlines"`
	Scheduler  SchedulerActivity   `yaml:"scheduler"`
	Idle       []IdleInterval      `yaml:"idle"`
	Horizon    float64             `yaml:"horizon"`
}

// Labels returns the distinct task labels of the execution intervals in
// lexicographic order. The position of a label is its chart row.
func (s *Schedule) Labels() []string {
	seen := make(map[string]struct{}, len(s.Executions))
	labels := make([]string, 0, len(s.Executions))
	for _, e := range s.Executions {
		if _, ok := seen[e.Task]; ok {
			continue
		}
		seen[e.Task] = struct{}{}
		labels = append(labels, e.Task)
	}
	sort.Strings(labels)
	return labels
}

// RowIndex returns the chart row of label.
func (s *Schedule) RowIndex(label string) (int, error) {
	return rowIndex(s.Labels(), label, "lookup")
}

func rowIndex(labels []string, label, kind string) (int, error) {
	i := sort.SearchStrings(labels, label)
	if i < len(labels) && labels[i] == label {
		return i, nil
	}
	return -1, &ConsistencyError{Kind: kind, Label: label}
}

// Rows maps every label to its row index.
type Rows struct {
	labels []string
}

// NewRows builds the row index for s. It fails when s has no execution
// intervals, since the label set would be undefined.
func NewRows(s *Schedule) (*Rows, error) {
	if len(s.Executions) == 0 {
		return nil, &ConsistencyError{Kind: "execution"}
	}
	return &Rows{labels: s.Labels()}, nil
}

// Len returns the number of task rows.
func (r *Rows) Len() int { return len(r.labels) }

// Labels returns the sorted labels.
func (r *Rows) Labels() []string { return r.labels }

// Index returns the row of label, or a consistency error tagged with kind
// ("arrival", "deadline", "execution") when the label is unknown.
func (r *Rows) Index(label, kind string) (int, error) {
	return rowIndex(r.labels, label, kind)
}

// Validate checks label consistency and numeric invariants. Horizon is not
// checked here; callers that need one enforce it.
func (s *Schedule) Validate() error {
	rows, err := NewRows(s)
	if err != nil {
		return err
	}

	for i, e := range s.Executions {
		if e.Duration <= 0 || math.IsNaN(e.Duration) {
			return &FieldError{Field: "executions", Index: i, Message: fmt.Sprintf("duration must be > 0, got %v", e.Duration)}
		}
		if e.Start < 0 || math.IsNaN(e.Start) {
			return &FieldError{Field: "executions", Index: i, Message: fmt.Sprintf("start must be >= 0, got %v", e.Start)}
		}
	}
	for i, a := range s.Arrivals {
		if _, err := rows.Index(a.Task, "arrival"); err != nil {
			return err
		}
		if !(a.Time >= 0) {
			return &FieldError{Field: "arrivals", Index: i, Message: fmt.Sprintf("time must be >= 0, got %v", a.Time)}
		}
	}
	for i, d := range s.Deadlines {
		if _, err := rows.Index(d.Task, "deadline"); err != nil {
			return err
		}
		if !(d.Time >= 0) {
			return &FieldError{Field: "deadlines", Index: i, Message: fmt.Sprintf("time must be >= 0, got %v", d.Time)}
		}
	}
	for i, idle := range s.Idle {
		if !(idle.Duration > 0) || !(idle.Start >= 0) {
			return &FieldError{Field: "idle", Index: i, Message: fmt.Sprintf("invalid idle span start=%v duration=%v", idle.Start, idle.Duration)}
		}
	}

	sch := s.Scheduler
	if !(sch.Period > 0) || math.IsInf(sch.Period, 1) {
		return &FieldError{Field: "scheduler.period", Index: -1, Message: fmt.Sprintf("period must be finite and > 0, got %v", sch.Period)}
	}
	if !(sch.Execution >= 0) || sch.Execution > sch.Period {
		return &FieldError{Field: "scheduler.execution", Index: -1, Message: fmt.Sprintf("execution must be within [0, %v], got %v", sch.Period, sch.Execution)}
	}
	return nil
}

// DeriveHorizon returns the latest end time found in the schedule rounded up
// to the next multiple of the scheduler period. Nothing calls it implicitly;
// callers that load a workbook without a horizon may opt in.
func (s *Schedule) DeriveHorizon() float64 {
	end := 0.0
	for _, e := range s.Executions {
		end = math.Max(end, e.End())
	}
	for _, a := range s.Arrivals {
		end = math.Max(end, a.Time)
	}
	for _, d := range s.Deadlines {
		end = math.Max(end, d.Time)
	}
	for _, i := range s.Idle {
		end = math.Max(end, i.End())
	}
	if p := s.Scheduler.Period; p > 0 {
		end = math.Ceil(end/p) * p
		if end == 0 {
			end = p
		}
	}
	return end
}
