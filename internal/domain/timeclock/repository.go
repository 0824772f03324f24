package timeclock

import (
	"context"
	"time"
)

// ClockSessionRepository persists clock sessions and their breaks.
//
// The open-session and open-break invariants are enforced here as single
// atomic check-then-mutate statements, not as separate read-then-write calls:
// two concurrent clock-ins for one employee must not both succeed.
type ClockSessionRepository interface {
	// CreateSession creates an open session. Returns
	// ErrConcurrentSessionConflict when the employee already has one.
	CreateSession(ctx context.Context, session ClockSession) (ClockSession, error)

	// GetSession retrieves a session with its breaks.
	GetSession(ctx context.Context, id string) (ClockSession, error)

	// GetOpenSession returns the employee's open session, or nil.
	GetOpenSession(ctx context.Context, employeeID string) (*ClockSession, error)

	// CloseSession sets the clock-out fields on an open session and
	// force-closes any open break at the clock-out timestamp, atomically.
	// Returns ErrNoActiveSession when the session is already closed.
	CloseSession(ctx context.Context, session ClockSession) (ClockSession, error)

	// ListSessions retrieves all sessions (with breaks) for an employee whose
	// clock-in falls in [from, to), ordered by clock-in ascending.
	ListSessions(ctx context.Context, employeeID string, from, to time.Time) ([]ClockSession, error)

	// ListStaleOpenSessions returns open sessions clocked in before the cutoff.
	ListStaleOpenSessions(ctx context.Context, clockedInBefore time.Time) ([]ClockSession, error)

	// StartBreak creates an open break on an open session. Returns
	// ErrSessionNotOpen or ErrBreakAlreadyOpen on invariant violation.
	StartBreak(ctx context.Context, brk BreakInterval) (BreakInterval, error)

	// EndBreak closes an open break at the given timestamp. Returns
	// ErrBreakNotOpen when already closed.
	EndBreak(ctx context.Context, breakID string, at time.Time) (BreakInterval, error)
}
