/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package workbook stores schedule descriptions as five-sheet spreadsheet
// workbooks and reads them back.
package workbook

import (
	"fmt"
	"strings"
)

// Kind is the type of a column's cells.
type Kind int

const (
	Text Kind = iota
	Number
)

func (k Kind) String() string {
	if k == Number {
		return "number"
	}
	return "text"
}

// Column is one column of a section: its header text and cell kind.
type Column struct {
	Header string
	Kind   Kind
}

// Section is one named sheet of the workbook.
type Section struct {
	Name    string
	Aliases []string
	Columns []Column
	MinRows int
	MaxRows int // 0 means unbounded
}

// Headers returns the column headers in order.
func (s Section) Headers() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Header
	}
	return out
}

// matches reports whether sheet names this section.
func (s Section) matches(sheet string) bool {
	if sheet == s.Name {
		return true
	}
	for _, a := range s.Aliases {
		if strings.EqualFold(sheet, a) {
			return true
		}
	}
	return false
}

// The workbook sections. Sheet names and headers are the file format and
// must not change.
var (
	ExecutedParts = Section{
		Name:    "Executed Parts",
		Aliases: []string{"Execution Intervals"},
		Columns: []Column{{"Task Name", Text}, {"Start Time", Number}, {"Duration", Number}},
	}
	TasksArrivals = Section{
		Name:    "Tasks Arrivals",
		Aliases: []string{"Arrivals"},
		Columns: []Column{{"Task Name", Text}, {"Arrival Time", Number}},
	}
	DisplayedDeadlines = Section{
		Name:    "Displayed Deadlines",
		Aliases: []string{"Deadlines"},
		Columns: []Column{{"Task Name", Text}, {"Deadline", Number}},
	}
	Scheduler = Section{
		Name:    "Scheduler",
		Columns: []Column{{"Period (T)", Number}, {"Execution Time (C)", Number}},
		MinRows: 1,
		MaxRows: 1,
	}
	Idling = Section{
		Name:    "Idling",
		Columns: []Column{{"Idle Start", Number}, {"Idle Duration", Number}},
	}
)

// Schema lists the sections in the order they are written.
var Schema = []Section{ExecutedParts, TasksArrivals, DisplayedDeadlines, Scheduler, Idling}

// SchemaError describes a workbook that does not follow the schema. It
// unwraps to model.ErrNotFound or model.ErrMalformedData.
type SchemaError struct {
	Sheet  string
	Row    int // 1-based sheet row, 0 when not row specific
	Column string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: sheet %q", e.Err, e.Sheet)
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
