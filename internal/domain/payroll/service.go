package payroll

import (
	"context"
	"time"
)

// PayrollService recomputes attendance aggregates and pay on demand over the
// stored clock sessions. All methods are read-only and re-entrant: computing
// the same range twice yields identical results.
type PayrollService interface {
	// GetDailyAggregate returns the merged attendance block for one date, or
	// nil when the employee has no sessions that day.
	GetDailyAggregate(ctx context.Context, employeeID string, date time.Time) (*DailyAggregateResponse, error)

	GetPayableDay(ctx context.Context, employeeID string, date time.Time) (PayableDayResponse, error)

	GetPayrollSummary(ctx context.Context, employeeID string, startDate, endDate time.Time) (PayrollSummaryResponse, error)

	// GetBranchSummaries computes summaries for every employee of a branch.
	// One employee's failure is reported in its entry; the batch continues.
	GetBranchSummaries(ctx context.Context, branchID string, startDate, endDate time.Time) (BranchSummaryResponse, error)
}
