package timeclock

import "time"

// ClockSession is one continuous clocked-in interval for an employee, from
// clock-in to clock-out. Sessions are never deleted, only closed.
// Invariant: at most one open session (nil ClockOutAt) per employee.
type ClockSession struct {
	ID                string
	EmployeeID        string
	BranchID          string
	ClockInAt         time.Time
	ClockOutAt        *time.Time
	ClockInLatitude   *float64
	ClockInLongitude  *float64
	ClockOutLatitude  *float64
	ClockOutLongitude *float64
	Note              *string

	// LocationException marks a session whose clock-in or clock-out position
	// was outside the branch geofence, or missing under an explicit override.
	LocationException bool

	// DistanceMeters is the clock-in distance from the branch, when known.
	DistanceMeters *int

	// AutoClockOut marks a session closed administratively after being left
	// open past the stale threshold.
	AutoClockOut bool

	Breaks []BreakInterval

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen reports whether the session has not been clocked out yet.
func (s ClockSession) IsOpen() bool {
	return s.ClockOutAt == nil
}

// OpenBreak returns the session's open break, or nil.
func (s ClockSession) OpenBreak() *BreakInterval {
	for i := range s.Breaks {
		if s.Breaks[i].EndAt == nil {
			return &s.Breaks[i]
		}
	}
	return nil
}

// BreakInterval is a sub-interval of a session during which the employee is
// not working. Invariant: at most one open break (nil EndAt) per session, and
// the interval lies within the owning session's interval.
type BreakInterval struct {
	ID        string
	SessionID string
	StartAt   time.Time
	EndAt     *time.Time
	Type      string
	Note      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationMinutes returns the closed break's length in minutes. An open break
// contributes zero to any total: it is excluded, not estimated.
func (b BreakInterval) DurationMinutes() float64 {
	if b.EndAt == nil {
		return 0
	}
	return b.EndAt.Sub(b.StartAt).Minutes()
}

// Break type tags accepted by the break tracker.
const (
	BreakTypeLunch    = "lunch"
	BreakTypeRest     = "rest"
	BreakTypePersonal = "personal"
)

var BreakTypeValues = []string{BreakTypeLunch, BreakTypeRest, BreakTypePersonal}
