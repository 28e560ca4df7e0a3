/*
handlers.go - HTTP API handlers for the daily activity ledger

PURPOSE:
  Exposes one Ledger Store via REST API. Handles HTTP request/response,
  JSON serialization and validation, and delegates to the day package.

ENDPOINTS:
  Day:
    GET    /api/day                              Current day, stats and goal progress
    GET    /api/day/blocks                       24-hour grid
    GET    /api/day/hours/{hour}                 Activities covering an hour

  Activities:
    POST   /api/day/activities                   Add (overlaps are resolved)
    PUT    /api/day/activities/{id}              Replace in place
    DELETE /api/day/activities/{id}              Delete
    DELETE /api/day/activities/{id}/hours/{hour} Delete one hour

  Quick actions:
    POST   /api/day/quick/sleep                  Log sleep (wraps past midnight)
    POST   /api/day/quick/food                   Log a meal or snack
    POST   /api/day/quick/work                   Log a work session

  Day commands:
    PUT    /api/day/mood                         Set mood
    POST   /api/day/reset                        Clear the current day
    POST   /api/day/navigate                     previous | next | today
    POST   /api/day/load                         Jump to a date
    POST   /api/day/rollover                     Move to the new ledger day
    GET    /api/days                             Persisted dates

CONCURRENCY:
  The Ledger Store is a single-writer state machine. Every handler holds
  the Handler mutex for the whole command, including the persistence
  write, so commands from concurrent requests never interleave.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown activity id
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Automatic day rollover
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/window/dayledger/day"
	"github.com/window/dayledger/goals"
)

// =============================================================================
// SHARED VALIDATOR INSTANCE
// =============================================================================

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(fmt.Sprintf("register notblank validator: %v", err))
	}
	if err := validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return day.ValidDate(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register isodate validator: %v", err))
	}
}

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	mu     sync.Mutex
	ledger *day.LedgerStore
	days   *day.DayRepository
	goals  goals.Goals
	logger *slog.Logger
}

// NewHandler creates a handler serving the given ledger.
func NewHandler(ledger *day.LedgerStore, days *day.DayRepository, g goals.Goals, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{ledger: ledger, days: days, goals: g, logger: logger}
}

// dayDTO must be called with h.mu held.
func (h *Handler) dayDTO() DayDTO {
	stats := h.ledger.CurrentStats()
	return DayDTO{
		Date:       h.ledger.CurrentDate(),
		IsToday:    h.ledger.IsToday(),
		Stats:      toStatsDTO(stats),
		Goals:      h.goals.Evaluate(stats),
		Activities: h.ledger.Activities(),
	}
}

// =============================================================================
// DAY HANDLERS
// =============================================================================

// GetDay returns the current day.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, h.dayDTO())
}

// GetBlocks returns the 24-hour grid for the current day.
func (h *Handler) GetBlocks(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, toTimeBlockDTOs(h.ledger.TimeBlocks()))
}

// GetHour returns the activities covering one hour of day.
func (h *Handler) GetHour(w http.ResponseWriter, r *http.Request) {
	hour, err := hourParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hour", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	activities := h.ledger.ActivitiesForHour(hour)
	if activities == nil {
		activities = []day.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

// ListDays returns every persisted date.
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	dates, err := h.days.Dates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list days", err)
		return
	}
	writeJSON(w, http.StatusOK, DaysResponse{Today: h.ledger.Today(), Dates: dates})
}

// =============================================================================
// ACTIVITY HANDLERS
// =============================================================================

// AddActivity logs a new activity on the current day.
func (h *Handler) AddActivity(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := checkSpan(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid activity", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	a := req.toActivity("")
	if err := h.ledger.AddActivity(r.Context(), a); err != nil {
		writeLedgerError(w, "Failed to add activity", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.dayDTO())
}

// UpdateActivity replaces an existing activity.
func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req ActivityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := checkSpan(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid activity", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.ledger.Activity(id); !ok {
		writeError(w, http.StatusNotFound, "Activity not found", nil)
		return
	}
	if err := h.ledger.UpdateActivity(r.Context(), req.toActivity(id)); err != nil {
		writeLedgerError(w, "Failed to update activity", err)
		return
	}
	writeJSON(w, http.StatusOK, h.dayDTO())
}

// DeleteActivity removes an activity.
func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.ledger.Activity(id); !ok {
		writeError(w, http.StatusNotFound, "Activity not found", nil)
		return
	}
	if err := h.ledger.DeleteActivity(r.Context(), id); err != nil {
		writeLedgerError(w, "Failed to delete activity", err)
		return
	}
	writeJSON(w, http.StatusOK, h.dayDTO())
}

// DeleteActivityHour removes one hour from an activity.
func (h *Handler) DeleteActivityHour(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	hour, err := hourParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hour", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.ledger.Activity(id); !ok {
		writeError(w, http.StatusNotFound, "Activity not found", nil)
		return
	}
	if err := h.ledger.DeleteActivityHour(r.Context(), id, hour); err != nil {
		writeLedgerError(w, "Failed to delete hour", err)
		return
	}
	writeJSON(w, http.StatusOK, h.dayDTO())
}

// =============================================================================
// QUICK ACTION HANDLERS
// =============================================================================

// LogSleep adds a sleep activity.
func (h *Handler) LogSleep(w http.ResponseWriter, r *http.Request) {
	var req SleepRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.addBuilt(w, r, func(date string) (day.Activity, error) {
		return day.NewSleep(date, *req.Bedtime, *req.Wake)
	})
}

// LogFood adds a meal or snack.
func (h *Handler) LogFood(w http.ResponseWriter, r *http.Request) {
	var req FoodRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.addBuilt(w, r, func(date string) (day.Activity, error) {
		return day.NewFood(date, req.Name, *req.Hour, day.FoodType(req.FoodType))
	})
}

// LogWork adds a work session.
func (h *Handler) LogWork(w http.ResponseWriter, r *http.Request) {
	var req WorkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.addBuilt(w, r, func(date string) (day.Activity, error) {
		return day.NewWork(date, req.Name, *req.Start, *req.End)
	})
}

func (h *Handler) addBuilt(w http.ResponseWriter, r *http.Request, build func(date string) (day.Activity, error)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	a, err := build(h.ledger.CurrentDate())
	if err != nil {
		writeLedgerError(w, "Invalid quick action", err)
		return
	}
	if err := h.ledger.AddActivity(r.Context(), a); err != nil {
		writeLedgerError(w, "Failed to add activity", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.dayDTO())
}

// =============================================================================
// DAY COMMAND HANDLERS
// =============================================================================

// SetMood sets the mood of the current day.
func (h *Handler) SetMood(w http.ResponseWriter, r *http.Request) {
	var req MoodRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ledger.SetMood(r.Context(), day.Mood(req.Mood)); err != nil {
		writeLedgerError(w, "Failed to set mood", err)
		return
	}
	writeJSON(w, http.StatusOK, h.dayDTO())
}

// ResetDay clears the current day.
func (h *Handler) ResetDay(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ledger.ResetDay(r.Context(), h.ledger.CurrentDate()); err != nil {
		writeLedgerError(w, "Failed to reset day", err)
		return
	}
	writeJSON(w, http.StatusOK, h.dayDTO())
}

// Navigate moves to the previous, next or current ledger day. Moving
// past today is refused with moved=false.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	moved := true
	var err error
	switch req.Direction {
	case "previous":
		err = h.ledger.PreviousDay(ctx)
	case "next":
		moved, err = h.ledger.NextDay(ctx)
	case "today":
		err = h.ledger.GoToToday(ctx)
	}
	if err != nil {
		writeLedgerError(w, "Failed to navigate", err)
		return
	}
	writeJSON(w, http.StatusOK, NavigateResponse{Moved: moved, Day: h.dayDTO()})
}

// LoadDay jumps to a specific date, which must not be after today.
func (h *Handler) LoadDay(w http.ResponseWriter, r *http.Request) {
	var req LoadDayRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	moved, err := h.ledger.GoToDate(r.Context(), req.Date)
	if err != nil {
		writeLedgerError(w, "Failed to load day", err)
		return
	}
	if !moved {
		writeError(w, http.StatusBadRequest, "Cannot load a future day", day.ErrFutureDate)
		return
	}
	writeJSON(w, http.StatusOK, h.dayDTO())
}

// TriggerRollover runs the day rollover immediately.
func (h *Handler) TriggerRollover(w http.ResponseWriter, r *http.Request) {
	moved, err := h.Rollover(r.Context())
	if err != nil {
		writeLedgerError(w, "Rollover failed", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, NavigateResponse{Moved: moved, Day: h.dayDTO()})
}

// Rollover moves the ledger to the new ledger day when it is still
// showing the day that just ended. A ledger parked on an older day is
// left alone.
func (h *Handler) Rollover(ctx context.Context) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	today := h.ledger.Today()
	prev, err := day.PreviousDate(today)
	if err != nil {
		return false, err
	}
	if h.ledger.CurrentDate() != prev {
		return false, nil
	}
	if err := h.ledger.GoToToday(ctx); err != nil {
		return false, err
	}
	h.logger.Info("ledger rolled over", "from", prev, "to", today)
	return true, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func hourParam(r *http.Request) (int, error) {
	hour, err := strconv.Atoi(chi.URLParam(r, "hour"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", day.ErrInvalidHour, chi.URLParam(r, "hour"))
	}
	if hour < 0 || hour >= day.HoursPerDay {
		return 0, fmt.Errorf("%w: %d", day.ErrInvalidHour, hour)
	}
	return hour, nil
}

// checkSpan enforces a positive length of at most one day.
func checkSpan(req ActivityRequest) error {
	length := *req.EndTime - *req.StartTime
	if length <= 0 {
		return errors.New("endTime must be after startTime")
	}
	if length > day.HoursPerDay {
		return errors.New("an activity cannot be longer than 24 hours")
	}
	return nil
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: details})
			return false
		}
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func writeLedgerError(w http.ResponseWriter, message string, err error) {
	if day.IsClientError(err) {
		writeError(w, http.StatusBadRequest, message, err)
		return
	}
	writeError(w, http.StatusInternalServerError, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
