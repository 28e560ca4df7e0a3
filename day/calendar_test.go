package day_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/window/dayledger/day"
)

func TestLedgerDate_DayStartsAtFive(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"midnight belongs to yesterday", at(2025, time.March, 10, 0), "2025-03-09"},
		{"2am belongs to yesterday", at(2025, time.March, 10, 2), "2025-03-09"},
		{"4:59 belongs to yesterday", time.Date(2025, time.March, 10, 4, 59, 59, 0, time.Local), "2025-03-09"},
		{"5am starts today", at(2025, time.March, 10, 5), "2025-03-10"},
		{"late evening is today", at(2025, time.March, 10, 23), "2025-03-10"},
		{"new year early hours", at(2026, time.January, 1, 3), "2025-12-31"},
		{"leap day early hours", at(2024, time.March, 1, 1), "2024-02-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, day.LedgerDate(tt.now))
		})
	}
}

func TestParseISODate_LocalMidnight(t *testing.T) {
	got, err := day.ParseISODate("2025-03-10")
	require.NoError(t, err)

	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 10, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, time.Local, got.Location())
}

func TestParseISODate_Invalid(t *testing.T) {
	for _, s := range []string{"", "2025-3-10", "2025/03/10", "2025-02-30", "2025-13-01", "abcd-ef-gh", "2025-03-10T00:00",
		"2024-+1-05", "2024-01-+5", "+024-01-05", "2024--1-05", " 2024-01-05"} {
		_, err := day.ParseISODate(s)
		assert.ErrorIs(t, err, day.ErrInvalidDate, s)
	}
}

func TestISODate_RoundTrip(t *testing.T) {
	d := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 800; i++ {
		s := day.FormatISODate(d)
		parsed, err := day.ParseISODate(s)
		require.NoError(t, err)
		require.True(t, parsed.Equal(d), "%s: got %v want %v", s, parsed, d)
		require.Equal(t, s, day.FormatISODate(parsed))
		d = d.AddDate(0, 0, 1)
	}
}

func TestAddDays(t *testing.T) {
	prev, err := day.PreviousDate("2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", prev)

	next, err := day.NextDate("2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", next)

	_, err = day.AddDays("bogus", 1)
	assert.ErrorIs(t, err, day.ErrInvalidDate)
}

func TestCanNavigateTo(t *testing.T) {
	assert.True(t, day.CanNavigateTo("2025-03-09", "2025-03-10"))
	assert.True(t, day.CanNavigateTo("2025-03-10", "2025-03-10"))
	assert.False(t, day.CanNavigateTo("2025-03-11", "2025-03-10"))
}

func TestFormatHour(t *testing.T) {
	tests := map[int]string{
		0:  "12:00 am",
		1:  "1:00 am",
		11: "11:00 am",
		12: "12:00 pm",
		13: "1:00 pm",
		23: "11:00 pm",
		26: "2:00 am",
	}
	for hour, want := range tests {
		assert.Equal(t, want, day.FormatHour(hour))
	}
}
