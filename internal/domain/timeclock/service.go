package timeclock

import (
	"context"
	"time"
)

// TimeclockService owns the clock session lifecycle and break tracking.
type TimeclockService interface {
	ClockIn(ctx context.Context, req ClockInRequest) (SessionResponse, error)
	ClockOut(ctx context.Context, req ClockOutRequest) (SessionResponse, error)
	StartBreak(ctx context.Context, req StartBreakRequest) (BreakResponse, error)
	EndBreak(ctx context.Context, breakID string) (BreakResponse, error)

	// GetOpenSession returns the employee's open session with its breaks, or
	// nil when the employee is clocked out. Lets a client restore its state.
	GetOpenSession(ctx context.Context, employeeID string) (*SessionResponse, error)

	// AutoCloseStale closes sessions left open past the configured threshold,
	// setting the auto-clock-out flag. Returns the number closed.
	AutoCloseStale(ctx context.Context, asOf time.Time) (int, error)
}
