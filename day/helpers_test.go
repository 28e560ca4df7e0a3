package day_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/window/dayledger/day"
	"github.com/window/dayledger/day/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sequentialIDs returns a deterministic id generator: gen-1, gen-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func at(year int, month time.Month, dom, hour int) time.Time {
	return time.Date(year, month, dom, hour, 0, 0, 0, time.Local)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// newTestLedger returns a ledger on 2025-03-10 backed by an in-memory KV.
func newTestLedger(t *testing.T) (*day.LedgerStore, *day.DayRepository, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	repo := day.NewDayRepository(kv, quietLogger())
	ledger, err := day.NewLedgerStore(context.Background(), repo,
		day.WithClock(fixedClock(at(2025, time.March, 10, 12))),
		day.WithIDGenerator(sequentialIDs()),
		day.WithLogger(quietLogger()),
	)
	require.NoError(t, err)
	return ledger, repo, kv
}

func general(id string, start, end int) day.Activity {
	return day.Activity{
		ID:            id,
		Name:          "task " + id,
		StartTime:     start,
		EndTime:       end,
		ExertionLevel: day.ExertionModerate,
		Type:          day.TypeExerting,
		Category:      day.CategoryGeneral,
		Date:          "2025-03-10",
	}
}

func sleep(id string, start, end int) day.Activity {
	return day.Activity{
		ID:            id,
		Name:          "Sleep",
		StartTime:     start,
		EndTime:       end,
		ExertionLevel: day.ExertionVeryLow,
		Type:          day.TypeRestorative,
		Category:      day.CategorySleep,
		Date:          "2025-03-10",
	}
}

func food(id string, hour int, ft day.FoodType) day.Activity {
	return day.Activity{
		ID:            id,
		Name:          "food " + id,
		StartTime:     hour,
		EndTime:       hour + 1,
		ExertionLevel: day.ExertionVeryLow,
		Type:          day.TypeRestorative,
		Category:      day.CategoryFood,
		FoodType:      ft,
		Date:          "2025-03-10",
	}
}

func span(a day.Activity) [2]int { return [2]int{a.StartTime, a.EndTime} }

func byID(t *testing.T, activities []day.Activity, id string) day.Activity {
	t.Helper()
	for _, a := range activities {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("activity %s not found in %+v", id, activities)
	return day.Activity{}
}

// coveredHours returns the hours of day covered by any activity.
func coveredHours(activities []day.Activity) map[int]bool {
	hours := make(map[int]bool)
	for h := 0; h < day.HoursPerDay; h++ {
		for _, a := range activities {
			if a.Covers(h) {
				hours[h] = true
			}
		}
	}
	return hours
}
