package day

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// LEDGER DAY - A day starts at 05:00, not midnight
// =============================================================================

// LedgerDate returns the ledger day that contains now. Between midnight
// and DayStartHour the previous calendar date is still being logged.
func LedgerDate(now time.Time) string {
	if now.Hour() < DayStartHour {
		return FormatISODate(now.AddDate(0, 0, -1))
	}
	return FormatISODate(now)
}

// LedgerToday is LedgerDate for the local wall clock.
func LedgerToday() string {
	return LedgerDate(time.Now())
}

// =============================================================================
// ISO DATES - Built from explicit components, never from a UTC timestamp
// =============================================================================

// ParseISODate parses YYYY-MM-DD into local midnight of that date.
func ParseISODate(s string) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	dom, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	t := time.Date(year, time.Month(month), dom, 0, 0, 0, 0, time.Local)
	// Only the canonical spelling is a date key. time.Date normalizes
	// Feb 30 into March and Atoi accepts signs like "+1".
	if FormatISODate(t) != s {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatISODate formats the local calendar date of t as YYYY-MM-DD.
func FormatISODate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ValidDate reports whether s is a well-formed calendar date.
func ValidDate(s string) bool {
	_, err := ParseISODate(s)
	return err == nil
}

// =============================================================================
// NAVIGATION
// =============================================================================

// AddDays moves a date string by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseISODate(date)
	if err != nil {
		return "", err
	}
	return FormatISODate(t.AddDate(0, 0, n)), nil
}

func PreviousDate(date string) (string, error) { return AddDays(date, -1) }
func NextDate(date string) (string, error)     { return AddDays(date, 1) }

// CanNavigateTo reports whether date is not after today. ISO dates
// compare correctly as strings.
func CanNavigateTo(date, today string) bool {
	return date <= today
}

// FormatHour renders an hour of day as "12:00 am", "1:00 pm", ...
func FormatHour(hour int) string {
	hour = ((hour % HoursPerDay) + HoursPerDay) % HoursPerDay
	period := "am"
	if hour >= 12 {
		period = "pm"
	}
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour > 12:
		display = hour - 12
	}
	return fmt.Sprintf("%d:00 %s", display, period)
}
