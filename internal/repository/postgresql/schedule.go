package postgresql

import (
	"context"
	"fmt"

	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/schedule"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/pkg/database"
)

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}

// GetWeekly implements schedule.ScheduleRepository.
// Weekday slots with no row are days off; an employee with no rows at all
// gets an empty schedule, which downstream treats as the no-schedule
// fallback, not an error.
func (r *scheduleRepository) GetWeekly(ctx context.Context, employeeID string) (schedule.Weekly, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT weekday, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM employee_schedule_windows
		WHERE employee_id = $1
		ORDER BY weekday
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return schedule.Weekly{}, fmt.Errorf("failed to query schedule windows: %w", err)
	}
	defer rows.Close()

	var weekly schedule.Weekly
	for rows.Next() {
		var weekday int
		var startStr, endStr string
		if err := rows.Scan(&weekday, &startStr, &endStr); err != nil {
			return schedule.Weekly{}, fmt.Errorf("failed to scan schedule window: %w", err)
		}

		if weekday < 0 || weekday > 6 {
			return schedule.Weekly{}, fmt.Errorf("schedule window has invalid weekday %d", weekday)
		}

		start, err := schedule.ParseTimeOfDay(startStr)
		if err != nil {
			return schedule.Weekly{}, err
		}
		end, err := schedule.ParseTimeOfDay(endStr)
		if err != nil {
			return schedule.Weekly{}, err
		}

		if start.MinuteOfDay() >= end.MinuteOfDay() {
			return schedule.Weekly{}, schedule.ErrInvalidWindow
		}

		weekly[weekday] = &schedule.Window{Start: start, End: end}
	}
	if err := rows.Err(); err != nil {
		return schedule.Weekly{}, fmt.Errorf("failed to iterate schedule windows: %w", err)
	}

	return weekly, nil
}
