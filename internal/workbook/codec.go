/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package workbook

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/friendsincode/schedviz/internal/model"
)

// defaultSheet is the sheet excelize creates in every new file.
const defaultSheet = "Sheet1"

// Encode writes s as a workbook to w. All five sections are written; the
// write fails as a whole if any of them fails.
func Encode(w io.Writer, s *model.Schedule) error {
	f := excelize.NewFile()
	defer f.Close()

	tables := tablesOf(s)
	for i, sec := range Schema {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sec.Name); err != nil {
				return fmt.Errorf("%w: name sheet %q: %v", model.ErrIO, sec.Name, err)
			}
		} else if _, err := f.NewSheet(sec.Name); err != nil {
			return fmt.Errorf("%w: create sheet %q: %v", model.ErrIO, sec.Name, err)
		}
		if err := writeSection(f, sec, tables[i]); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: write workbook: %v", model.ErrIO, err)
	}
	return nil
}

func writeSection(f *excelize.File, sec Section, rows [][]any) error {
	header := make([]any, len(sec.Columns))
	for i, h := range sec.Headers() {
		header[i] = h
	}
	if err := f.SetSheetRow(sec.Name, "A1", &header); err != nil {
		return fmt.Errorf("%w: write %q header: %v", model.ErrIO, sec.Name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: %q row %d: %v", model.ErrIO, sec.Name, i+2, err)
		}
		row := row
		if err := f.SetSheetRow(sec.Name, cell, &row); err != nil {
			return fmt.Errorf("%w: write %q row %d: %v", model.ErrIO, sec.Name, i+2, err)
		}
	}
	return nil
}

// tablesOf returns the data rows of s in Schema order.
func tablesOf(s *model.Schedule) [][][]any {
	execs := make([][]any, len(s.Executions))
	for i, e := range s.Executions {
		execs[i] = []any{e.Task, e.Start, e.Duration}
	}
	arrivals := make([][]any, len(s.Arrivals))
	for i, a := range s.Arrivals {
		arrivals[i] = []any{a.Task, a.Time}
	}
	deadlines := make([][]any, len(s.Deadlines))
	for i, d := range s.Deadlines {
		deadlines[i] = []any{d.Task, d.Time}
	}
	scheduler := [][]any{{s.Scheduler.Period, s.Scheduler.Execution}}
	idle := make([][]any, len(s.Idle))
	for i, it := range s.Idle {
		idle[i] = []any{it.Start, it.Duration}
	}
	return [][][]any{execs, arrivals, deadlines, scheduler, idle}
}

// Decode reads a workbook written by Encode (or by any tool following the
// same sheet layout). name becomes the schedule name; the horizon is left
// unset because the workbook does not carry one.
func Decode(r io.Reader, name string) (*model.Schedule, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable workbook: %v", model.ErrMalformedData, err)
	}
	defer f.Close()

	tables := make([][]record, len(Schema))
	sheets := f.GetSheetList()
	for i, sec := range Schema {
		sheet, ok := findSheet(sheets, sec)
		if !ok {
			return nil, &SchemaError{Sheet: sec.Name, Reason: "sheet is missing", Err: model.ErrNotFound}
		}
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, &SchemaError{Sheet: sheet, Reason: err.Error(), Err: model.ErrMalformedData}
		}
		recs, err := parseSection(sec, sheet, rows)
		if err != nil {
			return nil, err
		}
		tables[i] = recs
	}

	s := &model.Schedule{Name: name}
	for _, rec := range tables[0] {
		s.Executions = append(s.Executions, model.ExecutionInterval{Task: rec.text(0), Start: rec.num(1), Duration: rec.num(2)})
	}
	for _, rec := range tables[1] {
		s.Arrivals = append(s.Arrivals, model.Event{Task: rec.text(0), Time: rec.num(1)})
	}
	for _, rec := range tables[2] {
		s.Deadlines = append(s.Deadlines, model.Event{Task: rec.text(0), Time: rec.num(1)})
	}
	s.Scheduler = model.SchedulerActivity{Period: tables[3][0].num(0), Execution: tables[3][0].num(1)}
	for _, rec := range tables[4] {
		s.Idle = append(s.Idle, model.IdleInterval{Start: rec.num(0), Duration: rec.num(1)})
	}
	return s, nil
}

func findSheet(sheets []string, sec Section) (string, bool) {
	for _, sh := range sheets {
		if sh == sec.Name {
			return sh, true
		}
	}
	for _, sh := range sheets {
		if sec.matches(sh) {
			return sh, true
		}
	}
	return "", false
}

// record is one parsed data row; text cells keep their string, number cells
// their value.
type record struct {
	texts []string
	nums  []float64
}

func (r record) text(i int) string { return r.texts[i] }
func (r record) num(i int) float64 { return r.nums[i] }

// parseSection checks the header width, then parses each data row. Only the
// first len(sec.Columns) columns are read; extra columns are ignored. Blank
// rows are skipped.
func parseSection(sec Section, sheet string, rows [][]string) ([]record, error) {
	if len(rows) == 0 || len(rows[0]) < len(sec.Columns) {
		got := 0
		if len(rows) > 0 {
			got = len(rows[0])
		}
		return nil, &SchemaError{
			Sheet:  sheet,
			Row:    1,
			Reason: fmt.Sprintf("expected %d columns %v, found %d", len(sec.Columns), sec.Headers(), got),
			Err:    model.ErrMalformedData,
		}
	}

	var recs []record
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blank(row) {
			continue
		}
		if len(row) < len(sec.Columns) {
			return nil, &SchemaError{
				Sheet:  sheet,
				Row:    rowNum,
				Column: sec.Columns[len(row)].Header,
				Reason: fmt.Sprintf("row has %d of %d cells", len(row), len(sec.Columns)),
				Err:    model.ErrMalformedData,
			}
		}

		rec := record{texts: make([]string, len(sec.Columns)), nums: make([]float64, len(sec.Columns))}
		for c, col := range sec.Columns {
			rec.texts[c] = row[c]
			if col.Kind != Number {
				continue
			}
			cell := strings.TrimSpace(row[c])
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &SchemaError{
					Sheet:  sheet,
					Row:    rowNum,
					Column: col.Header,
					Reason: fmt.Sprintf("%q is not a number", cell),
					Err:    model.ErrMalformedData,
				}
			}
			rec.nums[c] = v
		}
		recs = append(recs, rec)
	}

	if len(recs) < sec.MinRows || (sec.MaxRows > 0 && len(recs) > sec.MaxRows) {
		return nil, &SchemaError{
			Sheet:  sheet,
			Reason: fmt.Sprintf("expected %s data rows, found %d", rowBounds(sec), len(recs)),
			Err:    model.ErrMalformedData,
		}
	}
	return recs, nil
}

func rowBounds(sec Section) string {
	switch {
	case sec.MaxRows == 0:
		return fmt.Sprintf("at least %d", sec.MinRows)
	case sec.MinRows == sec.MaxRows:
		return strconv.Itoa(sec.MinRows)
	default:
		return fmt.Sprintf("%d to %d", sec.MinRows, sec.MaxRows)
	}
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
