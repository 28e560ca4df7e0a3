/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Activities are
  returned in their persisted shape (day.Activity); stats and time
  blocks get response types with display fields added.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Request types carry go-playground/validator tags. The ledger itself
  does not validate activity contents, so this is the caller-side
  validation point for the HTTP surface. Integer fields that may
  legitimately be 0 are pointers so "missing" can be told from "0".

SEE ALSO:
  - handlers.go: Uses these types
  - day/quick.go: Builders behind the quick-action requests
*/
package api

import (
	"strings"

	"github.com/window/dayledger/day"
	"github.com/window/dayledger/goals"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ActivityRequest creates or replaces an activity. EndTime may exceed 24
// for overnight activities (22 -> 30).
type ActivityRequest struct {
	Name          string `json:"name" validate:"required,notblank"`
	StartTime     *int   `json:"startTime" validate:"required,min=0,max=23"`
	EndTime       *int   `json:"endTime" validate:"required,max=47"`
	ExertionLevel string `json:"exertionLevel" validate:"required,oneof=very-low low moderate high very-high"`
	Type          string `json:"type" validate:"required,oneof=exerting restorative"`
	Category      string `json:"category" validate:"omitempty,oneof=general sleep food"`
	FoodType      string `json:"foodType" validate:"required_if=Category food,omitempty,oneof=meal snack"`
}

// SleepRequest logs sleep from bedtime to wake time; wake <= bedtime
// wraps past midnight.
type SleepRequest struct {
	Bedtime *int `json:"bedtime" validate:"required,min=0,max=23"`
	Wake    *int `json:"wake" validate:"required,min=0,max=23"`
}

type FoodRequest struct {
	Name     string `json:"name" validate:"required,notblank"`
	Hour     *int   `json:"hour" validate:"required,min=0,max=23"`
	FoodType string `json:"foodType" validate:"required,oneof=meal snack"`
}

type WorkRequest struct {
	Name  string `json:"name"`
	Start *int   `json:"start" validate:"required,min=0,max=23"`
	End   *int   `json:"end" validate:"required,min=1,max=24"`
}

type MoodRequest struct {
	Mood string `json:"mood" validate:"required,oneof=sad mad neutral happy very-happy"`
}

type NavigateRequest struct {
	Direction string `json:"direction" validate:"required,oneof=previous next today"`
}

type LoadDayRequest struct {
	Date string `json:"date" validate:"required,isodate"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// StatsDTO is UserStats plus the rounded energy shown to users.
type StatsDTO struct {
	Energy        float64  `json:"energy"`
	EnergyDisplay int      `json:"energyDisplay"`
	Meals         int      `json:"meals"`
	Snacks        int      `json:"snacks"`
	Mood          day.Mood `json:"mood"`
}

// DayDTO is the current ledger day.
type DayDTO struct {
	Date       string         `json:"date"`
	IsToday    bool           `json:"isToday"`
	Stats      StatsDTO       `json:"stats"`
	Goals      goals.Progress `json:"goals"`
	Activities []day.Activity `json:"activities"`
}

// TimeBlockDTO is one hour of the 24-hour grid.
type TimeBlockDTO struct {
	Hour     int           `json:"hour"`
	Label    string        `json:"label"`
	Activity *day.Activity `json:"activity"`
}

type NavigateResponse struct {
	Moved bool   `json:"moved"`
	Day   DayDTO `json:"day"`
}

type DaysResponse struct {
	Today string   `json:"today"`
	Dates []string `json:"dates"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toStatsDTO(s day.UserStats) StatsDTO {
	return StatsDTO{
		Energy:        s.Energy,
		EnergyDisplay: s.RoundedEnergy(),
		Meals:         s.Meals,
		Snacks:        s.Snacks,
		Mood:          s.Mood,
	}
}

func toTimeBlockDTOs(blocks [day.HoursPerDay]day.TimeBlock) []TimeBlockDTO {
	dtos := make([]TimeBlockDTO, len(blocks))
	for i, b := range blocks {
		dtos[i] = TimeBlockDTO{Hour: b.Hour, Label: day.FormatHour(b.Hour), Activity: b.Activity}
	}
	return dtos
}

func (r ActivityRequest) toActivity(id string) day.Activity {
	a := day.Activity{
		ID:            id,
		Name:          strings.TrimSpace(r.Name),
		StartTime:     *r.StartTime,
		EndTime:       *r.EndTime,
		ExertionLevel: day.ExertionLevel(r.ExertionLevel),
		Type:          day.ActivityType(r.Type),
		Category:      day.Category(r.Category),
	}
	if a.Category == day.CategoryFood {
		a.FoodType = day.FoodType(r.FoodType)
	}
	return a
}
