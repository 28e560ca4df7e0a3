// Package goals tracks daily targets against a day's derived stats.
package goals

import (
	"errors"

	"github.com/window/dayledger/day"
)

// Goals are the daily targets shown next to the stats.
type Goals struct {
	Meals       int     `yaml:"meals" json:"meals"`
	Snacks      int     `yaml:"snacks" json:"snacks"`
	EnergyFloor float64 `yaml:"energy_floor" json:"energyFloor"`
}

// Default returns three meals, one snack and an energy warning below 20.
func Default() Goals {
	return Goals{Meals: 3, Snacks: 1, EnergyFloor: 20}
}

func (g Goals) Validate() error {
	if g.Meals < 0 || g.Snacks < 0 {
		return errors.New("goals: meal and snack goals must not be negative")
	}
	if g.EnergyFloor < day.MinEnergy || g.EnergyFloor > day.MaxEnergy {
		return errors.New("goals: energy floor must be within [0, 100]")
	}
	return nil
}

// Progress compares one day's stats with the goals.
type Progress struct {
	Meals     int  `json:"meals"`
	MealGoal  int  `json:"mealGoal"`
	MealsMet  bool `json:"mealsMet"`
	Snacks    int  `json:"snacks"`
	SnackGoal int  `json:"snackGoal"`
	SnacksMet bool `json:"snacksMet"`
	Energy    int  `json:"energy"`
	LowEnergy bool `json:"lowEnergy"`
}

func (g Goals) Evaluate(stats day.UserStats) Progress {
	return Progress{
		Meals:     stats.Meals,
		MealGoal:  g.Meals,
		MealsMet:  stats.Meals >= g.Meals,
		Snacks:    stats.Snacks,
		SnackGoal: g.Snacks,
		SnacksMet: stats.Snacks >= g.Snacks,
		Energy:    stats.RoundedEnergy(),
		LowEnergy: day.IsEnergyBelow(stats, g.EnergyFloor),
	}
}
