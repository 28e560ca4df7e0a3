/*
Package day provides the daily activity ledger.

PURPOSE:
  A day is tracked as a set of non-overlapping, hour-aligned activities
  (sleep, food, work, rest). Aggregate stats (energy, meals, snacks) are
  never edited directly: they are re-derived from the full activity set
  after every mutation, so they cannot drift from what was logged.

KEY CONCEPTS IN THIS FILE (types.go):
  - Activity:    An hour interval with an energy rule
  - UserStats:   Derived aggregates for one day (plus the user's mood)
  - DailyData:   The unit of persistence, one per ledger day
  - LedgerState: The in-memory working set for the current day

HOUR CONVENTION:
  StartTime is an hour of day in [0, 24). EndTime is exclusive and is
  stored unwrapped for overnight spans: sleeping 22:00 -> 06:00 is
  stored as 22 -> 30. The same convention is used by the resolver,
  derivation and hour lookups.

SEE ALSO:
  - resolver.go: Overlap resolution between activities
  - stats.go:    Stats derivation
  - ledger.go:   LedgerStore command processing
*/
package day

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	MaxEnergy          = 100
	MinEnergy          = 0
	SleepEnergyPerHour = 12.5 // 8 hours of sleep = 100 energy
	WorkEnergyPerHour  = 10   // moderate exertion

	HoursPerDay  = 24
	DayStartHour = 5 // hours 0-4 belong to the previous ledger day

	// MaxWorkHours bounds a single quick-logged work session.
	MaxWorkHours = 12
)

// =============================================================================
// ENUMERATIONS
// =============================================================================

type ExertionLevel string

const (
	ExertionVeryLow  ExertionLevel = "very-low"
	ExertionLow      ExertionLevel = "low"
	ExertionModerate ExertionLevel = "moderate"
	ExertionHigh     ExertionLevel = "high"
	ExertionVeryHigh ExertionLevel = "very-high"
)

// exertionImpact maps each level to its energy magnitude per hour.
var exertionImpact = map[ExertionLevel]int64{
	ExertionVeryLow:  1,
	ExertionLow:      5,
	ExertionModerate: 10,
	ExertionHigh:     15,
	ExertionVeryHigh: 20,
}

// Impact returns the per-hour energy magnitude of the level and whether
// the level is known.
func (l ExertionLevel) Impact() (int64, bool) {
	v, ok := exertionImpact[l]
	return v, ok
}

func (l ExertionLevel) Valid() bool { _, ok := exertionImpact[l]; return ok }

type ActivityType string

const (
	TypeExerting    ActivityType = "exerting"
	TypeRestorative ActivityType = "restorative"
)

func (t ActivityType) Valid() bool { return t == TypeExerting || t == TypeRestorative }

// Category selects a special rule that overrides the exertion-based one.
// The zero value behaves like CategoryGeneral.
type Category string

const (
	CategoryGeneral Category = "general"
	CategorySleep   Category = "sleep"
	CategoryFood    Category = "food"
)

type FoodType string

const (
	FoodMeal  FoodType = "meal"
	FoodSnack FoodType = "snack"
)

type Mood string

const (
	MoodSad       Mood = "sad"
	MoodMad       Mood = "mad"
	MoodNeutral   Mood = "neutral"
	MoodHappy     Mood = "happy"
	MoodVeryHappy Mood = "very-happy"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodSad, MoodMad, MoodNeutral, MoodHappy, MoodVeryHappy:
		return true
	}
	return false
}

// =============================================================================
// ACTIVITY
// =============================================================================

type Activity struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	StartTime     int           `json:"startTime"`
	EndTime       int           `json:"endTime"`
	ExertionLevel ExertionLevel `json:"exertionLevel"`
	Type          ActivityType  `json:"type"`
	Category      Category      `json:"category,omitempty"`
	FoodType      FoodType      `json:"foodType,omitempty"`
	Date          string        `json:"date"`
}

func (a Activity) IsSleep() bool { return a.Category == CategorySleep }
func (a Activity) IsFood() bool  { return a.Category == CategoryFood }

// Hours returns the length of the activity in whole hours.
func (a Activity) Hours() int { return a.EndTime - a.StartTime }

// Covers reports whether the activity occupies the given hour of day.
// Overnight activities (EndTime > 24) also cover the early hours of the
// following morning.
func (a Activity) Covers(hour int) bool {
	if a.StartTime <= hour && hour < a.EndTime {
		return true
	}
	h := hour + HoursPerDay
	return a.StartTime <= h && h < a.EndTime
}

// normalize shifts an interval that starts at or past midnight back into
// [0, 24).
func (a Activity) normalize() Activity {
	for a.StartTime >= HoursPerDay {
		a.StartTime -= HoursPerDay
		a.EndTime -= HoursPerDay
	}
	return a
}

// =============================================================================
// STATS & DAILY DATA
// =============================================================================

// UserStats are derived from activities. Only Mood is set by hand.
type UserStats struct {
	Energy float64 `json:"energy"`
	Meals  int     `json:"meals"`
	Snacks int     `json:"snacks"`
	Mood   Mood    `json:"mood"`
}

// RoundedEnergy is the energy value as displayed.
func (s UserStats) RoundedEnergy() int {
	return int(s.Energy + 0.5)
}

// DefaultStats is the stats value of an empty day.
func DefaultStats() UserStats {
	return UserStats{Energy: MinEnergy, Mood: MoodNeutral}
}

// DailyData is persisted once per ledger day, keyed by Date.
type DailyData struct {
	Date       string     `json:"date"`
	Stats      UserStats  `json:"stats"`
	Activities []Activity `json:"activities"`
}

// LedgerState is the working set for exactly one day. Switching days
// replaces it wholesale.
type LedgerState struct {
	CurrentDate string
	Stats       UserStats
	Activities  []Activity
}

// TimeBlock is one hour of the day grid.
type TimeBlock struct {
	Hour     int       `json:"hour"`
	Activity *Activity `json:"activity"`
}

func cloneActivities(in []Activity) []Activity {
	out := make([]Activity, len(in))
	copy(out, in)
	return out
}
