package response

import (
	"errors"
	"net/http"

	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/branch"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/employee"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/payroll"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/schedule"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/timeclock"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/pkg/geo"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Timeclock session-state violations: client synchronization bugs,
	// surfaced as conflicts and never auto-corrected.
	case errors.Is(err, timeclock.ErrConcurrentSessionConflict):
		Conflict(w, "An open clock session already exists for this employee")
	case errors.Is(err, timeclock.ErrNoActiveSession):
		Conflict(w, "Clock session is already closed")
	case errors.Is(err, timeclock.ErrSessionNotOpen):
		Conflict(w, "Clock session is not open")
	case errors.Is(err, timeclock.ErrBreakAlreadyOpen):
		Conflict(w, "Another break is already open on this session")
	case errors.Is(err, timeclock.ErrBreakNotOpen):
		Conflict(w, "Break is already closed")

	// Advisory: the caller may retry or resubmit with the override flag.
	case errors.Is(err, geo.ErrLocationUnavailable):
		UnprocessableEntity(w, "LOCATION_UNAVAILABLE", "Position unavailable; retry or resubmit with override_location")

	// Not found
	case errors.Is(err, timeclock.ErrSessionNotFound):
		NotFound(w, "Clock session not found")
	case errors.Is(err, timeclock.ErrBreakNotFound):
		NotFound(w, "Break interval not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, branch.ErrBranchNotFound):
		NotFound(w, "Branch not found")
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")

	// Boundary rejections
	case errors.Is(err, employee.ErrInvalidPayRate):
		BadRequest(w, "Pay rate must be a non-negative number", nil)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Start date must not be after end date", nil)
	case errors.Is(err, schedule.ErrInvalidWindow):
		BadRequest(w, "Schedule window start must be before end", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
