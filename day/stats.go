/*
stats.go - Derives a day's stats from its activities

PURPOSE:
  DeriveStats is a full recompute, never a delta. The ledger calls it
  after every mutation and on every load, so stats can never drift from
  the activity set, including after bulk edits, deletes or migration.

RULES:
  Energy starts at 0 (the day is earned, mostly through sleep).
  - sleep:   +12.5 per hour
  - food:    no energy; counts a meal or a snack
  - general: ±impact(exertion) per hour, negative when exerting
  The total is clamped to [0, 100]. Mood passes through unchanged.

PRECISION:
  Energy is summed with decimal.Decimal. The only fractional rate is
  sleep's 12.5/h, so subtotals are exact before clamping.
*/
package day

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	sleepRate = decimal.NewFromFloat(SleepEnergyPerHour)
	maxEnergy = decimal.NewFromInt(MaxEnergy)
	minEnergy = decimal.NewFromInt(MinEnergy)
)

// DeriveStats computes UserStats from the full activity set.
// The result does not depend on the order of activities.
func DeriveStats(activities []Activity, mood Mood) UserStats {
	energy := decimal.Zero
	meals, snacks := 0, 0

	for _, a := range activities {
		switch {
		case a.IsSleep():
			energy = energy.Add(sleepEnergy(a))
		case a.IsFood():
			if a.FoodType == FoodMeal {
				meals++
			} else {
				snacks++
			}
		default:
			energy = energy.Add(EnergyImpact(a))
		}
	}

	return UserStats{
		Energy: toEnergy(ClampEnergy(energy)),
		Meals:  meals,
		Snacks: snacks,
		Mood:   mood,
	}
}

func sleepEnergy(a Activity) decimal.Decimal {
	return sleepRate.Mul(decimal.NewFromInt(int64(a.Hours())))
}

// EnergyImpact returns the signed energy change of a general activity.
// An unknown exertion level contributes nothing.
func EnergyImpact(a Activity) decimal.Decimal {
	magnitude, ok := a.ExertionLevel.Impact()
	if !ok {
		return decimal.Zero
	}
	if a.Type == TypeExerting {
		magnitude = -magnitude
	}
	return decimal.NewFromInt(magnitude * int64(a.Hours()))
}

// ClampEnergy bounds energy to [MinEnergy, MaxEnergy].
func ClampEnergy(energy decimal.Decimal) decimal.Decimal {
	return decimal.Max(minEnergy, decimal.Min(maxEnergy, energy))
}

func toEnergy(d decimal.Decimal) float64 {
	f := d.InexactFloat64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return MinEnergy
	}
	return f
}

// IsEnergyBelow reports whether energy is under the given threshold.
func IsEnergyBelow(stats UserStats, threshold float64) bool {
	return stats.Energy < threshold
}
