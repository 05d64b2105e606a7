package schedule

import (
	"errors"
	"fmt"
)

// ErrSkipRow marks a row that represents a non-scheduled component (no
// meeting days). Skipped rows are excluded from processing, not reported as
// errors.
var ErrSkipRow = errors.New("row has no scheduled meeting")

type RowErrorKind string

const (
	InvalidDayPattern RowErrorKind = "invalid_day_pattern"
	InvalidTime       RowErrorKind = "invalid_time"
	InvalidDateRange  RowErrorKind = "invalid_date_range"
)

// RowError is a row-level validation failure. Row errors are collected and
// the row dropped; they never abort the whole conversion on their own.
type RowError struct {
	Row    int
	Kind   RowErrorKind
	Detail string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Kind, e.Detail)
}

// MissingColumnError is a table-level structural failure: a required header
// is absent from the sheet entirely. No rows are processed.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found", e.Column)
}

// NoEventsFoundError means zero meeting records survived row processing.
type NoEventsFoundError struct {
	Skipped int
	Invalid int
}

func (e *NoEventsFoundError) Error() string {
	return fmt.Sprintf("no course meetings found (%d rows skipped, %d rows invalid)", e.Skipped, e.Invalid)
}
