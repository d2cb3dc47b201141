/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package model

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by schedviz packages wraps one of these.
var (
	ErrDataConsistency = errors.New("data consistency")
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrNotFound        = errors.New("not found")
	ErrMalformedData   = errors.New("malformed data")
	ErrIO              = errors.New("i/o failure")
)

// ConsistencyError reports a label that is absent from the label set derived
// from the execution intervals, or an empty execution set.
type ConsistencyError struct {
	Kind  string // "arrival", "deadline", "execution", "lookup"
	Label string
}

func (e *ConsistencyError) Error() string {
	if e.Label == "" {
		return "schedule has no execution intervals; task rows are undefined"
	}
	return fmt.Sprintf("%s references unknown task %q", e.Kind, e.Label)
}

func (e *ConsistencyError) Unwrap() error {
	return ErrDataConsistency
}

// FieldError describes a numeric invariant violation.
type FieldError struct {
	Field   string
	Index   int // -1 for scalar fields
	Message string
}

func (e *FieldError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s[%d]: %s", e.Field, e.Index, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidSchedule
}
