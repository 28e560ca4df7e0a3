package goals_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/window/dayledger/day"
	"github.com/window/dayledger/goals"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		stats day.UserStats
		want  goals.Progress
	}{
		{
			name:  "empty day",
			stats: day.DefaultStats(),
			want:  goals.Progress{MealGoal: 3, SnackGoal: 1, LowEnergy: true},
		},
		{
			name:  "all goals met",
			stats: day.UserStats{Energy: 62.5, Meals: 3, Snacks: 2, Mood: day.MoodHappy},
			want: goals.Progress{
				Meals: 3, MealGoal: 3, MealsMet: true,
				Snacks: 2, SnackGoal: 1, SnacksMet: true,
				Energy: 63,
			},
		},
		{
			name:  "energy exactly at floor is not low",
			stats: day.UserStats{Energy: 20, Meals: 1},
			want:  goals.Progress{Meals: 1, MealGoal: 3, SnackGoal: 1, Energy: 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, goals.Default().Evaluate(tt.stats))
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, goals.Default().Validate())
	assert.Error(t, goals.Goals{Meals: -1}.Validate())
	assert.Error(t, goals.Goals{EnergyFloor: 101}.Validate())
}
