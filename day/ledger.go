/*
ledger.go - LedgerStore, the state machine for the current ledger day

PURPOSE:
  LedgerStore owns the LedgerState for exactly one date and applies
  ledger commands to it. Every command runs to completion in order:

    resolve (add only) -> replace activities -> derive stats -> persist

COMMANDS:
  AddActivity         Resolve overlaps, append, derive
  UpdateActivity      Replace by id in place (no resolve), derive
  DeleteActivity      Remove by id, derive
  DeleteActivityHour  Remove one hour from an activity, derive
  SetMood             Set the one hand-edited stat
  Load / LoadDay      Replace the whole state, derive from activities
  ResetDay            Empty activities, zeroed stats

  Commands naming an unknown activity id are no-ops. Every command
  writes the resulting DailyData through to the repository.

CONCURRENCY:
  Not safe for concurrent use. The store assumes one caller issuing one
  command at a time (see api.Handler for a serialized wrapper).

SEE ALSO:
  - resolver.go:   Overlap resolution
  - stats.go:      DeriveStats
  - repository.go: Persistence
*/
package day

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Command names reported to observers and logs.
const (
	CmdAdd        = "add"
	CmdUpdate     = "update"
	CmdDelete     = "delete"
	CmdDeleteHour = "delete_hour"
	CmdSetMood    = "set_mood"
	CmdLoad       = "load"
	CmdReset      = "reset"
)

// Observer is notified after each command has been applied and persisted.
type Observer interface {
	CommandApplied(command string, data DailyData)
}

type LedgerStore struct {
	days     *DayRepository
	now      func() time.Time
	newID    func() string
	logger   *slog.Logger
	observer Observer

	state LedgerState
}

type Option func(*LedgerStore)

// WithClock overrides the wall clock used for the ledger day.
func WithClock(now func() time.Time) Option { return func(s *LedgerStore) { s.now = now } }

// WithIDGenerator overrides how new activity ids are generated.
func WithIDGenerator(gen func() string) Option { return func(s *LedgerStore) { s.newID = gen } }

func WithLogger(logger *slog.Logger) Option { return func(s *LedgerStore) { s.logger = logger } }

func WithObserver(o Observer) Option { return func(s *LedgerStore) { s.observer = o } }

// NewLedgerStore creates a store positioned on the current ledger day,
// loading whatever is persisted for it.
func NewLedgerStore(ctx context.Context, days *DayRepository, opts ...Option) (*LedgerStore, error) {
	s := &LedgerStore{
		days:   days,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.LoadDay(ctx, s.Today()); err != nil {
		return nil, fmt.Errorf("load current day: %w", err)
	}
	return s, nil
}

// =============================================================================
// READ ACCESSORS
// =============================================================================

func (s *LedgerStore) CurrentDate() string     { return s.state.CurrentDate }
func (s *LedgerStore) CurrentStats() UserStats { return s.state.Stats }

// Activities returns a copy of the current day's activities.
func (s *LedgerStore) Activities() []Activity { return cloneActivities(s.state.Activities) }

func (s *LedgerStore) ActivitiesForHour(hour int) []Activity {
	return ActivitiesForHour(s.state.Activities, hour)
}

func (s *LedgerStore) TimeBlocks() [HoursPerDay]TimeBlock {
	return TimeBlocks(s.state.Activities)
}

// Activity looks up an activity of the current day by id.
func (s *LedgerStore) Activity(id string) (Activity, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.state.Activities[i], true
	}
	return Activity{}, false
}

// Snapshot returns the current day as it is persisted.
func (s *LedgerStore) Snapshot() DailyData {
	return DailyData{
		Date:       s.state.CurrentDate,
		Stats:      s.state.Stats,
		Activities: s.Activities(),
	}
}

// Today is the current ledger day according to the store's clock.
func (s *LedgerStore) Today() string { return LedgerDate(s.now()) }

func (s *LedgerStore) IsToday() bool { return s.state.CurrentDate == s.Today() }

// NewID returns a fresh activity id.
func (s *LedgerStore) NewID() string { return s.newID() }

// =============================================================================
// ACTIVITY COMMANDS
// =============================================================================

// AddActivity logs a new activity on the current day. Existing activities
// lose any hours they share with it. An empty id is assigned.
func (s *LedgerStore) AddActivity(ctx context.Context, a Activity) error {
	if a.ID == "" {
		a.ID = s.newID()
	}
	a.Date = s.state.CurrentDate

	activities := Resolve(a, s.state.Activities, s.newID)
	activities = append(activities, a)
	return s.apply(ctx, CmdAdd, activities)
}

// UpdateActivity replaces the activity with the same id in place.
func (s *LedgerStore) UpdateActivity(ctx context.Context, a Activity) error {
	i := s.indexOf(a.ID)
	if i < 0 {
		s.logger.Debug("update of unknown activity ignored", "id", a.ID)
		return nil
	}
	a.Date = s.state.CurrentDate

	activities := cloneActivities(s.state.Activities)
	activities[i] = a
	return s.apply(ctx, CmdUpdate, activities)
}

// DeleteActivity removes the activity with the given id.
func (s *LedgerStore) DeleteActivity(ctx context.Context, id string) error {
	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug("delete of unknown activity ignored", "id", id)
		return nil
	}

	activities := make([]Activity, 0, len(s.state.Activities)-1)
	activities = append(activities, s.state.Activities[:i]...)
	activities = append(activities, s.state.Activities[i+1:]...)
	return s.apply(ctx, CmdDelete, activities)
}

// DeleteActivityHour removes a single hour of day from an activity:
// a one-hour activity is deleted, the first or last hour is trimmed,
// and an interior hour splits the activity in two.
func (s *LedgerStore) DeleteActivityHour(ctx context.Context, id string, hour int) error {
	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug("hour delete of unknown activity ignored", "id", id, "hour", hour)
		return nil
	}
	a := s.state.Activities[i]
	if !a.Covers(hour) {
		s.logger.Debug("hour delete outside activity ignored", "id", id, "hour", hour)
		return nil
	}
	if a.Hours() <= 1 {
		return s.DeleteActivity(ctx, id)
	}

	// Map the hour of day onto the activity's unwrapped axis.
	h := hour
	if h < a.StartTime {
		h += HoursPerDay
	}

	var replacement []Activity
	switch h {
	case a.StartTime:
		a.StartTime++
		replacement = []Activity{a.normalize()}
	case a.EndTime - 1:
		a.EndTime--
		replacement = []Activity{a}
	default:
		before := a
		before.EndTime = h
		after := a
		after.ID = s.newID()
		after.StartTime = h + 1
		replacement = []Activity{before, after.normalize()}
	}

	activities := make([]Activity, 0, len(s.state.Activities)+1)
	activities = append(activities, s.state.Activities[:i]...)
	activities = append(activities, replacement...)
	activities = append(activities, s.state.Activities[i+1:]...)
	return s.apply(ctx, CmdDeleteHour, activities)
}

// SetMood sets the mood. Activities and derived stats are unchanged.
func (s *LedgerStore) SetMood(ctx context.Context, mood Mood) error {
	s.state.Stats.Mood = mood
	return s.apply(ctx, CmdSetMood, s.state.Activities)
}

// =============================================================================
// DAY COMMANDS
// =============================================================================

// Load replaces the whole state with data. Persisted stats are not
// trusted: they are re-derived from the loaded activities, keeping only
// the mood.
func (s *LedgerStore) Load(ctx context.Context, data DailyData) error {
	mood := data.Stats.Mood
	if !mood.Valid() {
		mood = MoodNeutral
	}
	s.state = LedgerState{
		CurrentDate: data.Date,
		Stats:       UserStats{Mood: mood},
	}
	return s.apply(ctx, CmdLoad, cloneActivities(data.Activities))
}

// LoadDay switches to date, loading its persisted record or starting an
// empty day when there is none.
func (s *LedgerStore) LoadDay(ctx context.Context, date string) error {
	if _, err := ParseISODate(date); err != nil {
		return err
	}
	data, ok, err := s.days.Get(ctx, date)
	if err != nil {
		return err
	}
	if !ok {
		data = DailyData{Date: date, Stats: DefaultStats()}
	}
	data.Date = date
	return s.Load(ctx, data)
}

// ResetDay replaces the state with an empty day for date.
func (s *LedgerStore) ResetDay(ctx context.Context, date string) error {
	if _, err := ParseISODate(date); err != nil {
		return err
	}
	s.state = LedgerState{CurrentDate: date, Stats: DefaultStats()}
	return s.apply(ctx, CmdReset, nil)
}

// =============================================================================
// NAVIGATION
// =============================================================================

func (s *LedgerStore) GoToToday(ctx context.Context) error {
	return s.LoadDay(ctx, s.Today())
}

// PreviousDay moves back one day. It is never restricted.
func (s *LedgerStore) PreviousDay(ctx context.Context) error {
	prev, err := PreviousDate(s.state.CurrentDate)
	if err != nil {
		return err
	}
	return s.LoadDay(ctx, prev)
}

// NextDay moves forward one day unless that would pass the current
// ledger day. It reports whether the move happened.
func (s *LedgerStore) NextDay(ctx context.Context) (bool, error) {
	next, err := NextDate(s.state.CurrentDate)
	if err != nil {
		return false, err
	}
	return s.GoToDate(ctx, next)
}

// GoToDate loads date unless it is after the current ledger day.
func (s *LedgerStore) GoToDate(ctx context.Context, date string) (bool, error) {
	if _, err := ParseISODate(date); err != nil {
		return false, err
	}
	if !CanNavigateTo(date, s.Today()) {
		s.logger.Debug("navigation past today rejected", "date", date)
		return false, nil
	}
	return true, s.LoadDay(ctx, date)
}

// =============================================================================
// INTERNALS
// =============================================================================

func (s *LedgerStore) indexOf(id string) int {
	for i, a := range s.state.Activities {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// apply installs a new activity set, re-derives stats and persists.
func (s *LedgerStore) apply(ctx context.Context, command string, activities []Activity) error {
	if activities == nil {
		activities = []Activity{}
	}
	s.state.Activities = activities
	s.state.Stats = DeriveStats(activities, s.state.Stats.Mood)

	data := s.Snapshot()
	if err := s.days.Save(ctx, data); err != nil {
		return fmt.Errorf("persist %s for %s: %w", command, data.Date, err)
	}

	s.logger.Debug("ledger command applied",
		"command", command,
		"date", data.Date,
		"activities", len(data.Activities),
		"energy", data.Stats.Energy)
	if s.observer != nil {
		s.observer.CommandApplied(command, data)
	}
	return nil
}
