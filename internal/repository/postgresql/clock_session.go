package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/timeclock"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/pkg/database"
)

type clockSessionRepository struct {
	db *database.DB
}

func NewClockSessionRepository(db *database.DB) timeclock.ClockSessionRepository {
	return &clockSessionRepository{db: db}
}

const sessionColumns = `
	id, employee_id, branch_id, clock_in_at, clock_out_at,
	clock_in_latitude, clock_in_longitude, clock_out_latitude, clock_out_longitude,
	note, location_exception, distance_meters, auto_clock_out,
	created_at, updated_at
`

// CreateSession implements timeclock.ClockSessionRepository.
//
// The open-session check and the insert are one statement, so two concurrent
// clock-ins for the same employee cannot both observe "no open session". A
// partial unique index on (employee_id) WHERE clock_out_at IS NULL backstops
// this at the schema level.
func (r *clockSessionRepository) CreateSession(ctx context.Context, session timeclock.ClockSession) (timeclock.ClockSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO clock_sessions (
			id, employee_id, branch_id, clock_in_at,
			clock_in_latitude, clock_in_longitude,
			note, location_exception, distance_meters
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
		WHERE NOT EXISTS (
			SELECT 1 FROM clock_sessions
			WHERE employee_id = $2 AND clock_out_at IS NULL
		)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		session.ID,
		session.EmployeeID,
		session.BranchID,
		session.ClockInAt,
		session.ClockInLatitude,
		session.ClockInLongitude,
		session.Note,
		session.LocationException,
		session.DistanceMeters,
	).Scan(&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeclock.ClockSession{}, timeclock.ErrConcurrentSessionConflict
		}
		return timeclock.ClockSession{}, fmt.Errorf("failed to create clock session: %w", err)
	}

	return session, nil
}

// GetSession implements timeclock.ClockSessionRepository.
func (r *clockSessionRepository) GetSession(ctx context.Context, id string) (timeclock.ClockSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM clock_sessions WHERE id = $1`

	session, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeclock.ClockSession{}, timeclock.ErrSessionNotFound
		}
		return timeclock.ClockSession{}, fmt.Errorf("failed to get clock session: %w", err)
	}

	if err := r.attachBreaks(ctx, []*timeclock.ClockSession{&session}); err != nil {
		return timeclock.ClockSession{}, err
	}

	return session, nil
}

// GetOpenSession implements timeclock.ClockSessionRepository.
func (r *clockSessionRepository) GetOpenSession(ctx context.Context, employeeID string) (*timeclock.ClockSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM clock_sessions
		WHERE employee_id = $1 AND clock_out_at IS NULL
		ORDER BY clock_in_at DESC
		LIMIT 1
	`

	session, err := scanSession(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}

	if err := r.attachBreaks(ctx, []*timeclock.ClockSession{&session}); err != nil {
		return nil, err
	}

	return &session, nil
}

// CloseSession implements timeclock.ClockSessionRepository.
//
// Closing the open break and the session happens in one transaction: no
// session may close with an open break left behind.
func (r *clockSessionRepository) CloseSession(ctx context.Context, session timeclock.ClockSession) (timeclock.ClockSession, error) {
	err := WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		// Force-close any open break at the clock-out timestamp. A break
		// started after the close instant keeps a zero-length interval.
		_, err := tx.Exec(txCtx, `
			UPDATE break_intervals
			SET end_at = GREATEST(start_at, $2), updated_at = NOW()
			WHERE session_id = $1 AND end_at IS NULL
		`, session.ID, session.ClockOutAt)
		if err != nil {
			return fmt.Errorf("failed to force-close open breaks: %w", err)
		}

		err = tx.QueryRow(txCtx, `
			UPDATE clock_sessions
			SET clock_out_at = $2,
			    clock_out_latitude = $3,
			    clock_out_longitude = $4,
			    note = $5,
			    location_exception = $6,
			    auto_clock_out = $7,
			    updated_at = NOW()
			WHERE id = $1 AND clock_out_at IS NULL
			RETURNING updated_at
		`,
			session.ID,
			session.ClockOutAt,
			session.ClockOutLatitude,
			session.ClockOutLongitude,
			session.Note,
			session.LocationException,
			session.AutoClockOut,
		).Scan(&session.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return timeclock.ErrNoActiveSession
			}
			return fmt.Errorf("failed to close clock session: %w", err)
		}

		return nil
	})
	if err != nil {
		return timeclock.ClockSession{}, err
	}

	return r.GetSession(ctx, session.ID)
}

// ListSessions implements timeclock.ClockSessionRepository.
func (r *clockSessionRepository) ListSessions(ctx context.Context, employeeID string, from, to time.Time) ([]timeclock.ClockSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM clock_sessions
		WHERE employee_id = $1 AND clock_in_at >= $2 AND clock_in_at < $3
		ORDER BY clock_in_at
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list clock sessions: %w", err)
	}
	defer rows.Close()

	var sessions []timeclock.ClockSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clock session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clock sessions: %w", err)
	}

	refs := make([]*timeclock.ClockSession, len(sessions))
	for i := range sessions {
		refs[i] = &sessions[i]
	}
	if err := r.attachBreaks(ctx, refs); err != nil {
		return nil, err
	}

	return sessions, nil
}

// ListStaleOpenSessions implements timeclock.ClockSessionRepository.
func (r *clockSessionRepository) ListStaleOpenSessions(ctx context.Context, clockedInBefore time.Time) ([]timeclock.ClockSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM clock_sessions
		WHERE clock_out_at IS NULL AND clock_in_at < $1
		ORDER BY clock_in_at
	`

	rows, err := q.Query(ctx, query, clockedInBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale sessions: %w", err)
	}
	defer rows.Close()

	var sessions []timeclock.ClockSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stale session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stale sessions: %w", err)
	}

	return sessions, nil
}

// StartBreak implements timeclock.ClockSessionRepository.
//
// The session row is locked for the duration of the check-then-insert so two
// concurrent break starts on one session cannot both succeed.
func (r *clockSessionRepository) StartBreak(ctx context.Context, brk timeclock.BreakInterval) (timeclock.BreakInterval, error) {
	err := WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		var clockOutAt *time.Time
		err := tx.QueryRow(txCtx, `
			SELECT clock_out_at FROM clock_sessions WHERE id = $1 FOR UPDATE
		`, brk.SessionID).Scan(&clockOutAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return timeclock.ErrSessionNotFound
			}
			return fmt.Errorf("failed to lock clock session: %w", err)
		}
		if clockOutAt != nil {
			return timeclock.ErrSessionNotOpen
		}

		var hasOpenBreak bool
		err = tx.QueryRow(txCtx, `
			SELECT EXISTS (
				SELECT 1 FROM break_intervals WHERE session_id = $1 AND end_at IS NULL
			)
		`, brk.SessionID).Scan(&hasOpenBreak)
		if err != nil {
			return fmt.Errorf("failed to check open breaks: %w", err)
		}
		if hasOpenBreak {
			return timeclock.ErrBreakAlreadyOpen
		}

		err = tx.QueryRow(txCtx, `
			INSERT INTO break_intervals (id, session_id, start_at, type, note)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at, updated_at
		`, brk.ID, brk.SessionID, brk.StartAt, brk.Type, brk.Note).Scan(&brk.CreatedAt, &brk.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create break interval: %w", err)
		}

		return nil
	})
	if err != nil {
		return timeclock.BreakInterval{}, err
	}

	return brk, nil
}

// EndBreak implements timeclock.ClockSessionRepository.
func (r *clockSessionRepository) EndBreak(ctx context.Context, breakID string, at time.Time) (timeclock.BreakInterval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE break_intervals
		SET end_at = $2, updated_at = NOW()
		WHERE id = $1 AND end_at IS NULL
		RETURNING id, session_id, start_at, end_at, type, note, created_at, updated_at
	`

	var brk timeclock.BreakInterval
	err := q.QueryRow(ctx, query, breakID, at).Scan(
		&brk.ID, &brk.SessionID, &brk.StartAt, &brk.EndAt, &brk.Type, &brk.Note,
		&brk.CreatedAt, &brk.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish "never existed" from "already closed".
			var exists bool
			if checkErr := q.QueryRow(ctx, `
				SELECT EXISTS (SELECT 1 FROM break_intervals WHERE id = $1)
			`, breakID).Scan(&exists); checkErr == nil && !exists {
				return timeclock.BreakInterval{}, timeclock.ErrBreakNotFound
			}
			return timeclock.BreakInterval{}, timeclock.ErrBreakNotOpen
		}
		return timeclock.BreakInterval{}, fmt.Errorf("failed to end break: %w", err)
	}

	return brk, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (timeclock.ClockSession, error) {
	var s timeclock.ClockSession
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.BranchID, &s.ClockInAt, &s.ClockOutAt,
		&s.ClockInLatitude, &s.ClockInLongitude, &s.ClockOutLatitude, &s.ClockOutLongitude,
		&s.Note, &s.LocationException, &s.DistanceMeters, &s.AutoClockOut,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *clockSessionRepository) attachBreaks(ctx context.Context, sessions []*timeclock.ClockSession) error {
	if len(sessions) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	ids := make([]string, len(sessions))
	index := make(map[string]*timeclock.ClockSession, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
		index[s.ID] = s
	}

	rows, err := q.Query(ctx, `
		SELECT id, session_id, start_at, end_at, type, note, created_at, updated_at
		FROM break_intervals
		WHERE session_id = ANY($1)
		ORDER BY start_at
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query break intervals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var brk timeclock.BreakInterval
		if err := rows.Scan(
			&brk.ID, &brk.SessionID, &brk.StartAt, &brk.EndAt, &brk.Type, &brk.Note,
			&brk.CreatedAt, &brk.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan break interval: %w", err)
		}
		if session, ok := index[brk.SessionID]; ok {
			session.Breaks = append(session.Breaks, brk)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate break intervals: %w", err)
	}

	return nil
}
