package timeclock

import "errors"

// Session-state violations are caller-visible and block the mutation: they
// indicate a client synchronization bug and are never silently retried.
var (
	ErrConcurrentSessionConflict = errors.New("an open clock session already exists for this employee")
	ErrNoActiveSession           = errors.New("clock session is already closed")
	ErrSessionNotOpen            = errors.New("clock session is not open")
	ErrBreakAlreadyOpen          = errors.New("another break is already open on this session")
	ErrBreakNotOpen              = errors.New("break is already closed")

	ErrSessionNotFound = errors.New("clock session not found")
	ErrBreakNotFound   = errors.New("break interval not found")
)
