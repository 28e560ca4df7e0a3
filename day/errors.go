/*
errors.go - Centralized error types for the day ledger

ERROR CATEGORIES:
  1. Input errors - Bad dates, hours or quick-action spans (caller side)
  2. Data errors  - Malformed persisted records (logged, treated as absent)
  3. Store errors - Failures of the key-value collaborator

Referential misses (unknown activity id) are NOT errors: the ledger
commands treat them as no-ops.
*/
package day

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date is not a valid YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid date: expected YYYY-MM-DD")

	// ErrFutureDate is returned when a date lies after the current ledger day.
	ErrFutureDate = errors.New("date is after the current ledger day")

	// ErrInvalidHour is returned for an hour outside [0, 24).
	ErrInvalidHour = errors.New("hour must be between 0 and 23")

	// ErrEmptyName is returned when an activity name is blank after trimming.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrInvalidSleep is returned when a sleep span is not in (0, 24] hours.
	ErrInvalidSleep = errors.New("invalid sleep duration")

	// ErrInvalidWorkSpan is returned when a work session ends at or before it starts.
	ErrInvalidWorkSpan = errors.New("end time must be after start time")

	// ErrWorkTooLong is returned when a work session exceeds MaxWorkHours.
	ErrWorkTooLong = errors.New("work session cannot exceed 12 hours")

	// ErrCorruptRecord marks persisted data that could not be decoded.
	ErrCorruptRecord = errors.New("corrupt persisted record")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// StoreError wraps a failure of the key-value collaborator.
type StoreError struct {
	Op  string // "get", "set", "remove"
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrFutureDate) ||
		errors.Is(err, ErrInvalidHour) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrInvalidSleep) ||
		errors.Is(err, ErrInvalidWorkSpan) ||
		errors.Is(err, ErrWorkTooLong)
}
