package payroll

import (
	"time"

	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/timeclock"
	"github.com/shopspring/decimal"
)

// DailyAggregate merges all of one employee's clock sessions on one local
// calendar date into a single attendance block: earliest start, latest end,
// total closed-break minutes. It is recomputed on demand, never persisted.
type DailyAggregate struct {
	Date       time.Time // midnight in the branch zone
	EmployeeID string
	Sessions   []timeclock.ClockSession

	CombinedStart time.Time
	// CombinedEnd is nil while any session in the group is still open: an
	// in-progress day has no combined end.
	CombinedEnd       *time.Time
	TotalBreakMinutes float64

	// HasOpenSession marks an in-progress day, excluded from completed-period
	// payroll until closed.
	HasOpenSession bool

	// DayBoundaryClamped marks a historical session that was still open and
	// was treated as closed at its calendar day's end for aggregation.
	DayBoundaryClamped bool
}

// PayableDayResult is the schedule-bounded outcome for one date.
type PayableDayResult struct {
	Date           time.Time
	ScheduledHours float64
	// ActualHours is worked minus breaks within the schedule-bounded window
	// (or unbounded when no schedule exists for the date).
	ActualHours  float64
	PayableHours float64
	// OvertimeHours is informational only and never paid: unbounded actual
	// time beyond the scheduled hours.
	OvertimeHours float64
	BreakMinutes  float64
	// WithinSchedule is true only if a schedule window existed for the date.
	WithinSchedule bool
	// OpenSession marks a date excluded because a session is still open.
	OpenSession bool
}

// PayrollSummary totals payable hours and pay over an inclusive date range.
type PayrollSummary struct {
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time

	TotalScheduledHours float64
	TotalActualHours    float64
	TotalBreakHours     float64
	TotalPayableHours   float64
	OvertimeHours       float64

	// OpenSessionDays counts dates excluded from the totals because a
	// session was still open. Exclusions are reported, never silent.
	OpenSessionDays int

	PayRate  decimal.Decimal
	TotalPay decimal.Decimal

	Days []PayableDayResult
}
