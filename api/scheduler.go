/*
scheduler.go - Automatic ledger-day rollover

PURPOSE:
  A ledger day runs from 05:00 to 04:59 the next morning. A long-running
  server that was showing "today" keeps showing it after the boundary
  until something moves it. The scheduler fires at the boundary and
  rolls the ledger over to the new day.

DESIGN:
  - robfig/cron runs the job on a cron schedule (default "0 5 * * *")
  - The job only moves a ledger that is on the day that just ended, so a
    user browsing an older day is not yanked away
  - Running once on start catches a boundary crossed while stopped

USAGE:
  scheduler, err := NewRolloverScheduler(handler, "0 5 * * *", logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: Rollover and the manual trigger endpoint
  - day/calendar.go: LedgerDate and the 05:00 cutoff
*/
package api

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RolloverScheduler moves the ledger to the new day at the day boundary.
type RolloverScheduler struct {
	Handler  *Handler
	Schedule string

	cron    *cron.Cron
	logger  *slog.Logger
	mu      sync.Mutex
	started bool
}

// NewRolloverScheduler creates a scheduler. The schedule is validated
// here so a bad configuration fails at startup.
func NewRolloverScheduler(h *Handler, schedule string, logger *slog.Logger) (*RolloverScheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := cron.New()
	rs := &RolloverScheduler{Handler: h, Schedule: schedule, cron: c, logger: logger}
	if _, err := c.AddFunc(schedule, rs.runOnce); err != nil {
		return nil, fmt.Errorf("invalid rollover schedule %q: %w", schedule, err)
	}
	return rs, nil
}

// Start begins the scheduler.
func (rs *RolloverScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.started {
		return
	}
	rs.started = true
	rs.runOnce()
	rs.cron.Start()
	rs.logger.Info("rollover scheduler started", "schedule", rs.Schedule)
}

// Stop stops the scheduler and waits for a running job to finish.
func (rs *RolloverScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.started {
		return
	}
	<-rs.cron.Stop().Done()
	rs.started = false
	rs.logger.Info("rollover scheduler stopped")
}

func (rs *RolloverScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	moved, err := rs.Handler.Rollover(ctx)
	if err != nil {
		rs.logger.Error("rollover failed", "error", err)
		return
	}
	if !moved {
		rs.logger.Debug("rollover not needed")
	}
}
