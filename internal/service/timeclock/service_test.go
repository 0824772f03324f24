package timeclock

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/branch"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/employee"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/timeclock"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/pkg/geo"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/pkg/validator"
)

// fakeSessionRepo is an in-memory ClockSessionRepository that honors the same
// atomicity contract as the SQL implementation: the open-session and
// open-break checks happen under one lock with the mutation.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*timeclock.ClockSession
	breaks   map[string]*timeclock.BreakInterval
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: make(map[string]*timeclock.ClockSession),
		breaks:   make(map[string]*timeclock.BreakInterval),
	}
}

func (r *fakeSessionRepo) CreateSession(ctx context.Context, session timeclock.ClockSession) (timeclock.ClockSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if s.EmployeeID == session.EmployeeID && s.ClockOutAt == nil {
			return timeclock.ClockSession{}, timeclock.ErrConcurrentSessionConflict
		}
	}

	stored := session
	r.sessions[session.ID] = &stored
	return stored, nil
}

func (r *fakeSessionRepo) GetSession(ctx context.Context, id string) (timeclock.ClockSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return timeclock.ClockSession{}, timeclock.ErrSessionNotFound
	}
	return r.withBreaks(*s), nil
}

func (r *fakeSessionRepo) GetOpenSession(ctx context.Context, employeeID string) (*timeclock.ClockSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if s.EmployeeID == employeeID && s.ClockOutAt == nil {
			found := r.withBreaks(*s)
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) CloseSession(ctx context.Context, session timeclock.ClockSession) (timeclock.ClockSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[session.ID]
	if !ok {
		return timeclock.ClockSession{}, timeclock.ErrSessionNotFound
	}
	if stored.ClockOutAt == nil {
		for _, b := range r.breaks {
			if b.SessionID == session.ID && b.EndAt == nil {
				end := *session.ClockOutAt
				if end.Before(b.StartAt) {
					end = b.StartAt
				}
				b.EndAt = &end
			}
		}
	} else {
		return timeclock.ClockSession{}, timeclock.ErrNoActiveSession
	}

	stored.ClockOutAt = session.ClockOutAt
	stored.ClockOutLatitude = session.ClockOutLatitude
	stored.ClockOutLongitude = session.ClockOutLongitude
	stored.Note = session.Note
	stored.LocationException = session.LocationException
	stored.AutoClockOut = session.AutoClockOut
	return r.withBreaks(*stored), nil
}

func (r *fakeSessionRepo) ListSessions(ctx context.Context, employeeID string, from, to time.Time) ([]timeclock.ClockSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []timeclock.ClockSession
	for _, s := range r.sessions {
		if s.EmployeeID == employeeID && !s.ClockInAt.Before(from) && s.ClockInAt.Before(to) {
			result = append(result, r.withBreaks(*s))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ClockInAt.Before(result[j].ClockInAt) })
	return result, nil
}

func (r *fakeSessionRepo) ListStaleOpenSessions(ctx context.Context, clockedInBefore time.Time) ([]timeclock.ClockSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []timeclock.ClockSession
	for _, s := range r.sessions {
		if s.ClockOutAt == nil && s.ClockInAt.Before(clockedInBefore) {
			result = append(result, r.withBreaks(*s))
		}
	}
	return result, nil
}

func (r *fakeSessionRepo) StartBreak(ctx context.Context, brk timeclock.BreakInterval) (timeclock.BreakInterval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[brk.SessionID]
	if !ok {
		return timeclock.BreakInterval{}, timeclock.ErrSessionNotFound
	}
	if session.ClockOutAt != nil {
		return timeclock.BreakInterval{}, timeclock.ErrSessionNotOpen
	}
	for _, b := range r.breaks {
		if b.SessionID == brk.SessionID && b.EndAt == nil {
			return timeclock.BreakInterval{}, timeclock.ErrBreakAlreadyOpen
		}
	}

	stored := brk
	r.breaks[brk.ID] = &stored
	return stored, nil
}

func (r *fakeSessionRepo) EndBreak(ctx context.Context, breakID string, at time.Time) (timeclock.BreakInterval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.breaks[breakID]
	if !ok {
		return timeclock.BreakInterval{}, timeclock.ErrBreakNotFound
	}
	if b.EndAt != nil {
		return timeclock.BreakInterval{}, timeclock.ErrBreakNotOpen
	}
	b.EndAt = &at
	return *b, nil
}

func (r *fakeSessionRepo) withBreaks(s timeclock.ClockSession) timeclock.ClockSession {
	s.Breaks = nil
	for _, b := range r.breaks {
		if b.SessionID == s.ID {
			s.Breaks = append(s.Breaks, *b)
		}
	}
	sort.Slice(s.Breaks, func(i, j int) bool { return s.Breaks[i].StartAt.Before(s.Breaks[j].StartAt) })
	return s
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *fakeEmployeeRepo) ListByBranch(ctx context.Context, branchID string) ([]employee.Employee, error) {
	var result []employee.Employee
	for _, emp := range r.employees {
		if emp.BranchID == branchID {
			result = append(result, emp)
		}
	}
	return result, nil
}

type fakeBranchRepo struct {
	branches map[string]branch.Branch
}

func (r *fakeBranchRepo) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	br, ok := r.branches[id]
	if !ok {
		return branch.Branch{}, branch.ErrBranchNotFound
	}
	return br, nil
}

func newTestService(t *testing.T) (*TimeclockServiceImpl, *fakeSessionRepo) {
	t.Helper()

	sessionRepo := newFakeSessionRepo()
	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", BranchID: "branch-1", FullName: "Ana Ionescu", PayRate: decimal.NewFromFloat(12.50)},
	}}
	branchRepo := &fakeBranchRepo{branches: map[string]branch.Branch{
		"branch-1": {ID: "branch-1", Name: "Central", Latitude: 0, Longitude: 0, RadiusMeters: 50, Timezone: "Asia/Jakarta"},
	}}

	svc := NewTimeclockService(sessionRepo, employeeRepo, branchRepo, geo.DefaultRadiusMeters, 16*time.Hour)
	return svc, sessionRepo
}

func TestClockInWithinGeofence(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.ClockIn(context.Background(), timeclock.ClockInRequest{
		EmployeeID: "emp-1",
		Position:   &geo.Position{Latitude: 0.0001, Longitude: 0},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Equal(t, "branch-1", resp.BranchID)
	assert.False(t, resp.LocationException)
	require.NotNil(t, resp.DistanceMeters)
	assert.LessOrEqual(t, *resp.DistanceMeters, 50)
}

func TestClockInOutsideGeofenceIsFlaggedNotBlocked(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.ClockIn(context.Background(), timeclock.ClockInRequest{
		EmployeeID: "emp-1",
		Position:   &geo.Position{Latitude: 0.01, Longitude: 0},
	})
	require.NoError(t, err)

	assert.True(t, resp.LocationException)
	require.NotNil(t, resp.DistanceMeters)
	assert.Greater(t, *resp.DistanceMeters, 50)
}

func TestClockInWithoutPosition(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ClockIn(context.Background(), timeclock.ClockInRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, geo.ErrLocationUnavailable)
}

func TestClockInWithoutPositionOverride(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.ClockIn(context.Background(), timeclock.ClockInRequest{
		EmployeeID:       "emp-1",
		OverrideLocation: true,
	})
	require.NoError(t, err)

	assert.True(t, resp.LocationException)
	assert.Nil(t, resp.DistanceMeters)
}

func TestClockInAtCoveringBranch(t *testing.T) {
	svc, _ := newTestService(t)
	svc.branchRepo.(*fakeBranchRepo).branches["branch-2"] = branch.Branch{
		ID: "branch-2", Name: "North", Latitude: 1, Longitude: 1, RadiusMeters: 50, Timezone: "Asia/Jakarta",
	}

	resp, err := svc.ClockIn(context.Background(), timeclock.ClockInRequest{
		EmployeeID: "emp-1",
		BranchID:   "branch-2",
		Position:   &geo.Position{Latitude: 1.0001, Longitude: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "branch-2", resp.BranchID)
	assert.False(t, resp.LocationException, "geofence must be checked against the covering branch")
}

func TestClockInRejectsSecondOpenSession(t *testing.T) {
	svc, _ := newTestService(t)
	req := timeclock.ClockInRequest{
		EmployeeID: "emp-1",
		Position:   &geo.Position{Latitude: 0, Longitude: 0},
	}

	_, err := svc.ClockIn(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.ClockIn(context.Background(), req)
	assert.ErrorIs(t, err, timeclock.ErrConcurrentSessionConflict)
}

func TestClockInUnknownEmployee(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ClockIn(context.Background(), timeclock.ClockInRequest{
		EmployeeID: "emp-unknown",
		Position:   &geo.Position{Latitude: 0, Longitude: 0},
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestClockInValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ClockIn(context.Background(), timeclock.ClockInRequest{
		Position: &geo.Position{Latitude: 91, Longitude: 181},
	})

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)
}

func TestConcurrentClockInsExactlyOneSucceeds(t *testing.T) {
	svc, _ := newTestService(t)
	req := timeclock.ClockInRequest{
		EmployeeID: "emp-1",
		Position:   &geo.Position{Latitude: 0, Longitude: 0},
	}

	const attempts = 8
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ClockIn(context.Background(), req)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, timeclock.ErrConcurrentSessionConflict):
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestClockOutClosesSessionAndOpenBreak(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	in, err := svc.ClockIn(ctx, timeclock.ClockInRequest{
		EmployeeID: "emp-1",
		Position:   &geo.Position{Latitude: 0, Longitude: 0},
	})
	require.NoError(t, err)

	brk, err := svc.StartBreak(ctx, timeclock.StartBreakRequest{
		SessionID: in.ID,
		Type:      timeclock.BreakTypeLunch,
	})
	require.NoError(t, err)

	out, err := svc.ClockOut(ctx, timeclock.ClockOutRequest{SessionID: in.ID})
	require.NoError(t, err)

	require.NotNil(t, out.ClockOutAt)
	require.Len(t, out.Breaks, 1)
	assert.Equal(t, brk.ID, out.Breaks[0].ID)
	assert.NotNil(t, out.Breaks[0].EndAt, "open break must be force-closed at clock-out")

	stored, err := repo.GetSession(ctx, in.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsOpen())
}

func TestClockOutAlreadyClosed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in, err := svc.ClockIn(ctx, timeclock.ClockInRequest{
		EmployeeID: "emp-1",
		Position:   &geo.Position{Latitude: 0, Longitude: 0},
	})
	require.NoError(t, err)

	_, err = svc.ClockOut(ctx, timeclock.ClockOutRequest{SessionID: in.ID})
	require.NoError(t, err)

	_, err = svc.ClockOut(ctx, timeclock.ClockOutRequest{SessionID: in.ID})
	assert.ErrorIs(t, err, timeclock.ErrNoActiveSession)
}

func TestClockOutUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ClockOut(context.Background(), timeclock.ClockOutRequest{SessionID: "session-unknown"})
	assert.ErrorIs(t, err, timeclock.ErrSessionNotFound)
}

func TestClockOutOutsideGeofenceFlagsSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in, err := svc.ClockIn(ctx, timeclock.ClockInRequest{
		EmployeeID: "emp-1",
		Position:   &geo.Position{Latitude: 0, Longitude: 0},
	})
	require.NoError(t, err)

	out, err := svc.ClockOut(ctx, timeclock.ClockOutRequest{
		SessionID: in.ID,
		Position:  &geo.Position{Latitude: 0.01, Longitude: 0},
	})
	require.NoError(t, err)
	assert.True(t, out.LocationException)
}

func TestBreakLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in, err := svc.ClockIn(ctx, timeclock.ClockInRequest{
		EmployeeID: "emp-1",
		Position:   &geo.Position{Latitude: 0, Longitude: 0},
	})
	require.NoError(t, err)

	brk, err := svc.StartBreak(ctx, timeclock.StartBreakRequest{
		SessionID: in.ID,
		Type:      timeclock.BreakTypeRest,
	})
	require.NoError(t, err)
	assert.Nil(t, brk.EndAt)

	// Only one break may be open at a time.
	_, err = svc.StartBreak(ctx, timeclock.StartBreakRequest{
		SessionID: in.ID,
		Type:      timeclock.BreakTypePersonal,
	})
	assert.ErrorIs(t, err, timeclock.ErrBreakAlreadyOpen)

	ended, err := svc.EndBreak(ctx, brk.ID)
	require.NoError(t, err)
	assert.NotNil(t, ended.EndAt)

	_, err = svc.EndBreak(ctx, brk.ID)
	assert.ErrorIs(t, err, timeclock.ErrBreakNotOpen)

	// A second break may open once the first is closed.
	_, err = svc.StartBreak(ctx, timeclock.StartBreakRequest{
		SessionID: in.ID,
		Type:      timeclock.BreakTypePersonal,
	})
	assert.NoError(t, err)
}

func TestStartBreakOnClosedSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in, err := svc.ClockIn(ctx, timeclock.ClockInRequest{
		EmployeeID: "emp-1",
		Position:   &geo.Position{Latitude: 0, Longitude: 0},
	})
	require.NoError(t, err)

	_, err = svc.ClockOut(ctx, timeclock.ClockOutRequest{SessionID: in.ID})
	require.NoError(t, err)

	_, err = svc.StartBreak(ctx, timeclock.StartBreakRequest{
		SessionID: in.ID,
		Type:      timeclock.BreakTypeLunch,
	})
	assert.ErrorIs(t, err, timeclock.ErrSessionNotOpen)
}

func TestStartBreakRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.StartBreak(context.Background(), timeclock.StartBreakRequest{
		SessionID: "session-1",
		Type:      "siesta",
	})

	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)
}

func TestEndBreakUnknown(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.EndBreak(context.Background(), "break-unknown")
	assert.ErrorIs(t, err, timeclock.ErrBreakNotFound)
}

func TestGetOpenSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	open, err := svc.GetOpenSession(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, open, "clocked-out employee has no open session")

	in, err := svc.ClockIn(ctx, timeclock.ClockInRequest{
		EmployeeID: "emp-1",
		Position:   &geo.Position{Latitude: 0, Longitude: 0},
	})
	require.NoError(t, err)

	_, err = svc.StartBreak(ctx, timeclock.StartBreakRequest{
		SessionID: in.ID,
		Type:      timeclock.BreakTypeLunch,
	})
	require.NoError(t, err)

	open, err = svc.GetOpenSession(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, in.ID, open.ID)
	assert.Len(t, open.Breaks, 1)

	_, err = svc.ClockOut(ctx, timeclock.ClockOutRequest{SessionID: in.ID})
	require.NoError(t, err)

	open, err = svc.GetOpenSession(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestAutoCloseStale(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// Forgotten two days ago: closed at the end of its local calendar day.
	staleClockIn := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)
	_, err = repo.CreateSession(ctx, timeclock.ClockSession{
		ID:         "session-stale",
		EmployeeID: "emp-1",
		BranchID:   "branch-1",
		ClockInAt:  staleClockIn,
	})
	require.NoError(t, err)

	// A fresh open session for another employee stays untouched.
	asOf := time.Date(2025, 3, 12, 8, 0, 0, 0, loc)
	_, err = repo.CreateSession(ctx, timeclock.ClockSession{
		ID:         "session-fresh",
		EmployeeID: "emp-2",
		BranchID:   "branch-1",
		ClockInAt:  asOf.Add(-1 * time.Hour),
	})
	require.NoError(t, err)

	closed, err := svc.AutoCloseStale(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	stale, err := repo.GetSession(ctx, "session-stale")
	require.NoError(t, err)
	require.NotNil(t, stale.ClockOutAt)
	assert.True(t, stale.AutoClockOut)
	assert.True(t, stale.ClockOutAt.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, loc)))

	fresh, err := repo.GetSession(ctx, "session-fresh")
	require.NoError(t, err)
	assert.True(t, fresh.IsOpen())
}
