package timeclock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/branch"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/employee"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/timeclock"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/pkg/geo"
)

type TimeclockServiceImpl struct {
	sessionRepo  timeclock.ClockSessionRepository
	employeeRepo employee.EmployeeRepository
	branchRepo   branch.BranchRepository

	defaultRadiusMeters int
	staleAfter          time.Duration

	now func() time.Time
}

func NewTimeclockService(
	sessionRepo timeclock.ClockSessionRepository,
	employeeRepo employee.EmployeeRepository,
	branchRepo branch.BranchRepository,
	defaultRadiusMeters int,
	staleAfter time.Duration,
) *TimeclockServiceImpl {
	return &TimeclockServiceImpl{
		sessionRepo:         sessionRepo,
		employeeRepo:        employeeRepo,
		branchRepo:          branchRepo,
		defaultRadiusMeters: defaultRadiusMeters,
		staleAfter:          staleAfter,
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

// ClockIn implements timeclock.TimeclockService.
//
// Being outside the branch geofence never hard-blocks a clock-in: GPS noise
// must not lock staff out of pay. The session is marked with a location
// exception instead. A missing position does block, unless the caller sets
// the explicit override flag.
func (t *TimeclockServiceImpl) ClockIn(ctx context.Context, req timeclock.ClockInRequest) (timeclock.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.SessionResponse{}, err
	}

	emp, err := t.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return timeclock.SessionResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	branchID := emp.BranchID
	if req.BranchID != "" {
		branchID = req.BranchID
	}
	br, err := t.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return timeclock.SessionResponse{}, fmt.Errorf("failed to get branch: %w", err)
	}

	locationException := false
	var distanceMeters *int

	check, err := geo.Verify(req.Position, br.Latitude, br.Longitude, t.radiusFor(br))
	switch {
	case errors.Is(err, geo.ErrLocationUnavailable):
		if !req.OverrideLocation {
			return timeclock.SessionResponse{}, geo.ErrLocationUnavailable
		}
		locationException = true
	case err != nil:
		return timeclock.SessionResponse{}, fmt.Errorf("failed to verify position: %w", err)
	default:
		distanceMeters = &check.DistanceMeters
		locationException = !check.WithinRadius
	}

	session := timeclock.ClockSession{
		ID:                uuid.NewString(),
		EmployeeID:        emp.ID,
		BranchID:          br.ID,
		ClockInAt:         t.now(),
		Note:              req.Note,
		LocationException: locationException,
		DistanceMeters:    distanceMeters,
	}
	if req.Position != nil {
		session.ClockInLatitude = &req.Position.Latitude
		session.ClockInLongitude = &req.Position.Longitude
	}

	created, err := t.sessionRepo.CreateSession(ctx, session)
	if err != nil {
		if errors.Is(err, timeclock.ErrConcurrentSessionConflict) {
			return timeclock.SessionResponse{}, timeclock.ErrConcurrentSessionConflict
		}
		return timeclock.SessionResponse{}, fmt.Errorf("failed to create clock session: %w", err)
	}

	if locationException {
		slog.Warn("Clock-in with location exception",
			"session_id", created.ID,
			"employee_id", emp.ID,
			"distance_meters", distanceMeters)
	}

	return timeclock.MapSessionToResponse(created), nil
}

// ClockOut implements timeclock.TimeclockService.
//
// The geofence check at clock-out is best-effort: a missing position is
// tolerated and never blocks ending a shift. Any break still open on the
// session is force-closed at the clock-out timestamp.
func (t *TimeclockServiceImpl) ClockOut(ctx context.Context, req timeclock.ClockOutRequest) (timeclock.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.SessionResponse{}, err
	}

	session, err := t.sessionRepo.GetSession(ctx, req.SessionID)
	if err != nil {
		return timeclock.SessionResponse{}, err
	}

	if !session.IsOpen() {
		return timeclock.SessionResponse{}, timeclock.ErrNoActiveSession
	}

	if req.Position != nil {
		br, err := t.branchRepo.GetByID(ctx, session.BranchID)
		if err == nil {
			if check, verr := geo.Verify(req.Position, br.Latitude, br.Longitude, t.radiusFor(br)); verr == nil && !check.WithinRadius {
				session.LocationException = true
			}
		}
		session.ClockOutLatitude = &req.Position.Latitude
		session.ClockOutLongitude = &req.Position.Longitude
	}

	clockOutAt := t.now()
	session.ClockOutAt = &clockOutAt
	if req.Note != nil {
		session.Note = req.Note
	}

	closed, err := t.sessionRepo.CloseSession(ctx, session)
	if err != nil {
		if errors.Is(err, timeclock.ErrNoActiveSession) {
			return timeclock.SessionResponse{}, timeclock.ErrNoActiveSession
		}
		return timeclock.SessionResponse{}, fmt.Errorf("failed to close clock session: %w", err)
	}

	return timeclock.MapSessionToResponse(closed), nil
}

// StartBreak implements timeclock.TimeclockService.
func (t *TimeclockServiceImpl) StartBreak(ctx context.Context, req timeclock.StartBreakRequest) (timeclock.BreakResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.BreakResponse{}, err
	}

	brk := timeclock.BreakInterval{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		StartAt:   t.now(),
		Type:      req.Type,
		Note:      req.Note,
	}

	created, err := t.sessionRepo.StartBreak(ctx, brk)
	if err != nil {
		return timeclock.BreakResponse{}, err
	}

	return timeclock.MapBreakToResponse(created), nil
}

// EndBreak implements timeclock.TimeclockService.
func (t *TimeclockServiceImpl) EndBreak(ctx context.Context, breakID string) (timeclock.BreakResponse, error) {
	ended, err := t.sessionRepo.EndBreak(ctx, breakID, t.now())
	if err != nil {
		return timeclock.BreakResponse{}, err
	}

	return timeclock.MapBreakToResponse(ended), nil
}

// GetOpenSession implements timeclock.TimeclockService.
func (t *TimeclockServiceImpl) GetOpenSession(ctx context.Context, employeeID string) (*timeclock.SessionResponse, error) {
	if _, err := t.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	session, err := t.sessionRepo.GetOpenSession(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	resp := timeclock.MapSessionToResponse(*session)
	return &resp, nil
}

// AutoCloseStale implements timeclock.TimeclockService.
//
// A stale session is closed at the end of its clock-in calendar day in the
// branch zone, or at asOf when that is earlier, so that historical payroll
// sees a deterministic end instead of "still open". One session's failure
// does not abort the sweep.
func (t *TimeclockServiceImpl) AutoCloseStale(ctx context.Context, asOf time.Time) (int, error) {
	cutoff := asOf.Add(-t.staleAfter)

	stale, err := t.sessionRepo.ListStaleOpenSessions(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale sessions: %w", err)
	}

	closedCount := 0
	for _, session := range stale {
		loc := time.UTC
		if br, err := t.branchRepo.GetByID(ctx, session.BranchID); err == nil {
			loc = br.Location()
		}

		closeAt := endOfLocalDay(session.ClockInAt, loc)
		if asOf.Before(closeAt) {
			closeAt = asOf
		}

		session.ClockOutAt = &closeAt
		session.AutoClockOut = true

		if _, err := t.sessionRepo.CloseSession(ctx, session); err != nil {
			slog.Error("Failed to auto-close stale session",
				"session_id", session.ID,
				"employee_id", session.EmployeeID,
				"error", err)
			continue
		}
		closedCount++
	}

	return closedCount, nil
}

func (t *TimeclockServiceImpl) radiusFor(br branch.Branch) int {
	if br.RadiusMeters > 0 {
		return br.RadiusMeters
	}
	return t.defaultRadiusMeters
}

// endOfLocalDay returns the first instant of the next calendar day of ts in
// the given zone.
func endOfLocalDay(ts time.Time, loc *time.Location) time.Time {
	local := ts.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
}
