package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/timeclock"
)

// TimeclockJobs owns the background maintenance of clock sessions.
type TimeclockJobs struct {
	timeclockSvc timeclock.TimeclockService
	interval     time.Duration
}

func NewTimeclockJobs(timeclockSvc timeclock.TimeclockService, interval time.Duration) *TimeclockJobs {
	return &TimeclockJobs{
		timeclockSvc: timeclockSvc,
		interval:     interval,
	}
}

func (j *TimeclockJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_sessions", j.interval, j.AutoCloseStaleSessions)
}

// AutoCloseStaleSessions closes sessions left open past the configured
// threshold so historical payroll stays deterministic.
func (j *TimeclockJobs) AutoCloseStaleSessions(ctx context.Context) error {
	closed, err := j.timeclockSvc.AutoCloseStale(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	if closed > 0 {
		slog.Info("Cron: auto-closed stale clock sessions", "count", closed)
	}
	return nil
}
