package schedule

import "context"

// ScheduleRepository reads weekly schedules from the scheduling collaborator.
// A missing schedule is not an error to the payroll pipeline: it returns an
// empty Weekly (all days off) so the caller can apply the no-schedule
// fallback policy.
type ScheduleRepository interface {
	GetWeekly(ctx context.Context, employeeID string) (Weekly, error)
}
