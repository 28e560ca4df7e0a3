package day_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/window/dayledger/day"
)

func TestNewSleep(t *testing.T) {
	tests := []struct {
		name       string
		bed, wake  int
		wantStart  int
		wantEnd    int
		wantEnergy float64
	}{
		{"overnight", 22, 6, 22, 30, 100},
		{"same day nap", 13, 15, 13, 15, 25},
		{"after midnight", 1, 9, 1, 9, 100},
		{"equal hours wrap to full day", 7, 7, 7, 31, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := day.NewSleep("2025-03-10", tt.bed, tt.wake)
			require.NoError(t, err)

			assert.Equal(t, day.CategorySleep, a.Category)
			assert.Equal(t, [2]int{tt.wantStart, tt.wantEnd}, span(a))
			assert.Equal(t, tt.wantEnergy, day.DeriveStats([]day.Activity{a}, day.MoodNeutral).Energy)
		})
	}
}

func TestNewSleep_InvalidHour(t *testing.T) {
	_, err := day.NewSleep("2025-03-10", 24, 6)
	assert.ErrorIs(t, err, day.ErrInvalidHour)
}

func TestNewFood(t *testing.T) {
	meal, err := day.NewMeal("2025-03-10", "  breakfast ", 8)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", meal.Name)
	assert.Equal(t, day.FoodMeal, meal.FoodType)
	assert.Equal(t, [2]int{8, 9}, span(meal))

	snack, err := day.NewSnack("2025-03-10", "apple", 15)
	require.NoError(t, err)
	assert.Equal(t, day.FoodSnack, snack.FoodType)

	_, err = day.NewMeal("2025-03-10", "   ", 8)
	assert.ErrorIs(t, err, day.ErrEmptyName)

	_, err = day.NewSnack("2025-03-10", "apple", -1)
	assert.ErrorIs(t, err, day.ErrInvalidHour)
}

func TestNewWork(t *testing.T) {
	w, err := day.NewWork("2025-03-10", "", 9, 17)
	require.NoError(t, err)
	assert.Equal(t, "Work", w.Name)
	assert.Equal(t, day.ExertionModerate, w.ExertionLevel)
	assert.Equal(t, day.TypeExerting, w.Type)

	_, err = day.NewWork("2025-03-10", "coding", 9, 9)
	assert.ErrorIs(t, err, day.ErrInvalidWorkSpan)

	_, err = day.NewWork("2025-03-10", "coding", 6, 19)
	assert.ErrorIs(t, err, day.ErrWorkTooLong)

	_, err = day.NewWork("2025-03-10", "coding", 20, 25)
	assert.ErrorIs(t, err, day.ErrInvalidHour)
	assert.True(t, day.IsClientError(err))
}

func TestTimeBlocks_WrapsOvernight(t *testing.T) {
	activities := []day.Activity{sleep("s", 22, 30), general("w", 9, 11)}

	blocks := day.TimeBlocks(activities)

	for h := 0; h < day.HoursPerDay; h++ {
		assert.Equal(t, h, blocks[h].Hour)
	}
	for _, h := range []int{22, 23, 0, 5} {
		require.NotNil(t, blocks[h].Activity, h)
		assert.Equal(t, "s", blocks[h].Activity.ID)
	}
	assert.Nil(t, blocks[6].Activity)
	assert.Equal(t, "w", blocks[10].Activity.ID)
	assert.Nil(t, blocks[11].Activity, "end is exclusive")
}

func TestActivitiesForHour(t *testing.T) {
	activities := []day.Activity{sleep("s", 22, 30), general("w", 9, 11)}

	assert.Len(t, day.ActivitiesForHour(activities, 3), 1)
	assert.Len(t, day.ActivitiesForHour(activities, 10), 1)
	assert.Empty(t, day.ActivitiesForHour(activities, 11))
	assert.Empty(t, day.ActivitiesForHour(activities, 6))
}
