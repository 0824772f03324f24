package timeclock

import (
	"time"

	"github.com/pharmtrack/pharmtrack-backend-go/internal/pkg/geo"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/pkg/validator"
)

// ========================================
// TIMECLOCK DTOs
// ========================================

type ClockInRequest struct {
	EmployeeID string `json:"employee_id"`

	// BranchID clocks the employee in at a branch other than their home
	// branch (covering a shift). Empty means the home branch.
	BranchID string        `json:"branch_id,omitempty"`
	Position *geo.Position `json:"position,omitempty"`
	Note     *string       `json:"note,omitempty"`

	// OverrideLocation lets a supervisor proceed when no position is
	// available. The session is still marked with a location exception.
	OverrideLocation bool `json:"override_location,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	errs = append(errs, validatePosition(r.Position)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	SessionID string        `json:"session_id"`
	Position  *geo.Position `json:"position,omitempty"`
	Note      *string       `json:"note,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id is required",
		})
	}

	// A missing position never blocks clock-out.
	errs = append(errs, validatePosition(r.Position)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StartBreakRequest struct {
	SessionID string  `json:"session_id"`
	Type      string  `json:"type"`
	Note      *string `json:"note,omitempty"`
}

func (r *StartBreakRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id is required",
		})
	}

	if !validator.IsInSlice(r.Type, BreakTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: lunch, rest, personal",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePosition(pos *geo.Position) validator.ValidationErrors {
	if pos == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if pos.Latitude < -90 || pos.Latitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "position.latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if pos.Longitude < -180 || pos.Longitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "position.longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	return errs
}

type SessionResponse struct {
	ID                string        `json:"id"`
	EmployeeID        string        `json:"employee_id"`
	BranchID          string        `json:"branch_id"`
	ClockInAt         string        `json:"clock_in_at"`
	ClockOutAt        *string       `json:"clock_out_at,omitempty"`
	Note              *string       `json:"note,omitempty"`
	LocationException bool          `json:"location_exception"`
	DistanceMeters    *int          `json:"distance_meters,omitempty"`
	AutoClockOut      bool          `json:"auto_clock_out"`
	Breaks            []BreakResponse `json:"breaks,omitempty"`
}

type BreakResponse struct {
	ID              string  `json:"id"`
	SessionID       string  `json:"session_id"`
	StartAt         string  `json:"start_at"`
	EndAt           *string `json:"end_at,omitempty"`
	Type            string  `json:"type"`
	Note            *string `json:"note,omitempty"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// timePtrToString safely converts a *time.Time to an RFC3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

// MapSessionToResponse converts a ClockSession entity to SessionResponse.
func MapSessionToResponse(s ClockSession) SessionResponse {
	breaks := make([]BreakResponse, 0, len(s.Breaks))
	for _, b := range s.Breaks {
		breaks = append(breaks, MapBreakToResponse(b))
	}

	return SessionResponse{
		ID:                s.ID,
		EmployeeID:        s.EmployeeID,
		BranchID:          s.BranchID,
		ClockInAt:         s.ClockInAt.UTC().Format(time.RFC3339),
		ClockOutAt:        timePtrToString(s.ClockOutAt),
		Note:              s.Note,
		LocationException: s.LocationException,
		DistanceMeters:    s.DistanceMeters,
		AutoClockOut:      s.AutoClockOut,
		Breaks:            breaks,
	}
}

// MapBreakToResponse converts a BreakInterval entity to BreakResponse.
func MapBreakToResponse(b BreakInterval) BreakResponse {
	return BreakResponse{
		ID:              b.ID,
		SessionID:       b.SessionID,
		StartAt:         b.StartAt.UTC().Format(time.RFC3339),
		EndAt:           timePtrToString(b.EndAt),
		Type:            b.Type,
		Note:            b.Note,
		DurationMinutes: b.DurationMinutes(),
	}
}
