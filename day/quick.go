package day

import (
	"fmt"
	"strings"
)

// =============================================================================
// QUICK ACTIONS - Caller-side builders for the common activity kinds
// =============================================================================
// The ledger does not validate activity contents. These builders are the
// validation point for callers logging sleep, food and work.

// SleepHours returns the length of a sleep from bedtime to wake time,
// wrapping past midnight when wake <= bedtime.
func SleepHours(bedtime, wake int) int {
	if wake <= bedtime {
		return HoursPerDay - bedtime + wake
	}
	return wake - bedtime
}

// NewSleep builds a sleep activity. Overnight sleep is stored unwrapped
// (22 -> 6 becomes 22 -> 30).
func NewSleep(date string, bedtime, wake int) (Activity, error) {
	if err := checkHour(bedtime); err != nil {
		return Activity{}, err
	}
	if err := checkHour(wake); err != nil {
		return Activity{}, err
	}
	hours := SleepHours(bedtime, wake)
	if hours <= 0 || hours > HoursPerDay {
		return Activity{}, fmt.Errorf("%w: %d hours", ErrInvalidSleep, hours)
	}
	return Activity{
		Name:          "Sleep",
		StartTime:     bedtime,
		EndTime:       bedtime + hours,
		ExertionLevel: ExertionVeryLow,
		Type:          TypeRestorative,
		Category:      CategorySleep,
		Date:          date,
	}, nil
}

func NewMeal(date, name string, hour int) (Activity, error) {
	return NewFood(date, name, hour, FoodMeal)
}

func NewSnack(date, name string, hour int) (Activity, error) {
	return NewFood(date, name, hour, FoodSnack)
}

// NewFood builds a one-hour meal or snack.
func NewFood(date, name string, hour int, food FoodType) (Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Activity{}, ErrEmptyName
	}
	if err := checkHour(hour); err != nil {
		return Activity{}, err
	}
	return Activity{
		Name:          name,
		StartTime:     hour,
		EndTime:       hour + 1,
		ExertionLevel: ExertionVeryLow,
		Type:          TypeRestorative,
		Category:      CategoryFood,
		FoodType:      food,
		Date:          date,
	}, nil
}

// NewWork builds a moderate exerting work session. A blank name
// defaults to "Work".
func NewWork(date, name string, start, end int) (Activity, error) {
	if err := checkHour(start); err != nil {
		return Activity{}, err
	}
	if end <= start {
		return Activity{}, ErrInvalidWorkSpan
	}
	if end > HoursPerDay {
		return Activity{}, fmt.Errorf("%w: end %d", ErrInvalidHour, end)
	}
	if end-start > MaxWorkHours {
		return Activity{}, ErrWorkTooLong
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Work"
	}
	return Activity{
		Name:          name,
		StartTime:     start,
		EndTime:       end,
		ExertionLevel: ExertionModerate,
		Type:          TypeExerting,
		Category:      CategoryGeneral,
		Date:          date,
	}, nil
}

func checkHour(h int) error {
	if h < 0 || h >= HoursPerDay {
		return fmt.Errorf("%w: %d", ErrInvalidHour, h)
	}
	return nil
}
