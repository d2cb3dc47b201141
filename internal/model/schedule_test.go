package model

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func exampleSchedule() *Schedule {
	return &Schedule{
		Name: "example",
		Executions: []ExecutionInterval{
			{Task: "TaskB", Start: 4, Duration: 2},
			{Task: "TaskA", Start: 0, Duration: 4},
			{Task: "TaskA", Start: 7, Duration: 1},
		},
		Arrivals:  []Event{{Task: "TaskA", Time: 0}},
		Deadlines: []Event{{Task: "TaskA", Time: 6}},
		Scheduler: SchedulerActivity{Period: 5, Execution: 1},
		Horizon:   10,
	}
}

func TestLabelsSortedAndDeduplicated(t *testing.T) {
	s := exampleSchedule()
	got := s.Labels()
	want := []string{"TaskA", "TaskB"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Labels() = %v, want %v", got, want)
	}
}

func TestRowIndexIsLexicographicRank(t *testing.T) {
	s := &Schedule{Executions: []ExecutionInterval{
		{Task: "zeta", Start: 0, Duration: 1},
		{Task: "alpha", Start: 1, Duration: 1},
		{Task: "mu", Start: 2, Duration: 1},
	}}

	tests := []struct {
		label string
		want  int
	}{
		{"alpha", 0},
		{"mu", 1},
		{"zeta", 2},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := s.RowIndex(tt.label)
			if err != nil {
				t.Fatalf("RowIndex(%q): %v", tt.label, err)
			}
			if got != tt.want {
				t.Errorf("RowIndex(%q) = %d, want %d", tt.label, got, tt.want)
			}
		})
	}

	if _, err := s.RowIndex("omega"); !errors.Is(err, ErrDataConsistency) {
		t.Fatalf("RowIndex(unknown) error = %v, want ErrDataConsistency", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Schedule)
		wantErr error
	}{
		{name: "valid", mutate: func(s *Schedule) {}},
		{
			name:    "empty executions",
			mutate:  func(s *Schedule) { s.Executions = nil },
			wantErr: ErrDataConsistency,
		},
		{
			name:    "arrival for unknown task",
			mutate:  func(s *Schedule) { s.Arrivals = append(s.Arrivals, Event{Task: "Ghost", Time: 1}) },
			wantErr: ErrDataConsistency,
		},
		{
			name:    "deadline for unknown task",
			mutate:  func(s *Schedule) { s.Deadlines = []Event{{Task: "Ghost", Time: 9}} },
			wantErr: ErrDataConsistency,
		},
		{
			name:    "zero duration",
			mutate:  func(s *Schedule) { s.Executions[0].Duration = 0 },
			wantErr: ErrInvalidSchedule,
		},
		{
			name:    "negative start",
			mutate:  func(s *Schedule) { s.Executions[1].Start = -1 },
			wantErr: ErrInvalidSchedule,
		},
		{
			name:    "zero period",
			mutate:  func(s *Schedule) { s.Scheduler.Period = 0 },
			wantErr: ErrInvalidSchedule,
		},
		{
			name:    "execution exceeds period",
			mutate:  func(s *Schedule) { s.Scheduler.Execution = 6 },
			wantErr: ErrInvalidSchedule,
		},
		{
			name:    "infinite period",
			mutate:  func(s *Schedule) { s.Scheduler.Period = math.Inf(1) },
			wantErr: ErrInvalidSchedule,
		},
		{
			name:    "NaN scheduler execution",
			mutate:  func(s *Schedule) { s.Scheduler.Execution = math.NaN() },
			wantErr: ErrInvalidSchedule,
		},
		{
			name:    "negative arrival time",
			mutate:  func(s *Schedule) { s.Arrivals = []Event{{Task: "TaskA", Time: -3}} },
			wantErr: ErrInvalidSchedule,
		},
		{
			name:    "NaN deadline time",
			mutate:  func(s *Schedule) { s.Deadlines = []Event{{Task: "TaskA", Time: math.NaN()}} },
			wantErr: ErrInvalidSchedule,
		},
		{
			name:    "NaN idle start",
			mutate:  func(s *Schedule) { s.Idle = []IdleInterval{{Start: math.NaN(), Duration: 1}} },
			wantErr: ErrInvalidSchedule,
		},
		{
			name:    "NaN idle duration",
			mutate:  func(s *Schedule) { s.Idle = []IdleInterval{{Start: 1, Duration: math.NaN()}} },
			wantErr: ErrInvalidSchedule,
		},
		{
			name:   "empty optional tables",
			mutate: func(s *Schedule) { s.Arrivals, s.Deadlines, s.Idle = nil, nil, nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := exampleSchedule()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConsistencyErrorNamesLabel(t *testing.T) {
	s := exampleSchedule()
	s.Deadlines = []Event{{Task: "Ghost", Time: 2}}

	err := s.Validate()
	var ce *ConsistencyError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConsistencyError, got %T", err)
	}
	if ce.Kind != "deadline" || ce.Label != "Ghost" {
		t.Fatalf("unexpected error detail: %+v", ce)
	}
	if !strings.Contains(err.Error(), "Ghost") {
		t.Fatalf("error message %q does not name the label", err.Error())
	}
}

func TestDeriveHorizon(t *testing.T) {
	s := exampleSchedule()
	s.Idle = []IdleInterval{{Start: 8, Duration: 3}}
	if got := s.DeriveHorizon(); got != 15 {
		t.Fatalf("DeriveHorizon() = %v, want 15", got)
	}
}

func TestYAMLDocumentRoundTrip(t *testing.T) {
	s := exampleSchedule()
	s.Idle = []IdleInterval{{Start: 6, Duration: 1}}

	var buf bytes.Buffer
	if err := EncodeYAML(&buf, s); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeYAML(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, s)
	}
}

func TestDecodeYAMLRejectsUnknownKeys(t *testing.T) {
	doc := "name: x\nexecutions: []\nhorizn: 10\n"
	if _, err := DecodeYAML(strings.NewReader(doc)); !errors.Is(err, ErrMalformedData) {
		t.Fatalf("DecodeYAML() error = %v, want ErrMalformedData", err)
	}
}
