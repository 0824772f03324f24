package payroll

import (
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/timeclock"
	"github.com/shopspring/decimal"
)

// ========================================
// PAYROLL DTOs
// ========================================

type DailyAggregateResponse struct {
	Date              string                      `json:"date"`
	EmployeeID        string                      `json:"employee_id"`
	CombinedStart     string                      `json:"combined_start"`
	CombinedEnd       *string                     `json:"combined_end,omitempty"`
	TotalBreakMinutes float64                     `json:"total_break_minutes"`
	HasOpenSession    bool                        `json:"has_open_session"`
	Sessions          []timeclock.SessionResponse `json:"sessions"`
}

type PayableDayResponse struct {
	Date           string  `json:"date"`
	ScheduledHours float64 `json:"scheduled_hours"`
	ActualHours    float64 `json:"actual_hours"`
	PayableHours   float64 `json:"payable_hours"`
	OvertimeHours  float64 `json:"overtime_hours"`
	BreakMinutes   float64 `json:"break_minutes"`
	WithinSchedule bool    `json:"within_schedule"`
	OpenSession    bool    `json:"open_session,omitempty"`
}

type PayrollSummaryResponse struct {
	EmployeeID          string               `json:"employee_id"`
	StartDate           string               `json:"start_date"`
	EndDate             string               `json:"end_date"`
	TotalScheduledHours float64              `json:"total_scheduled_hours"`
	TotalActualHours    float64              `json:"total_actual_hours"`
	TotalBreakHours     float64              `json:"total_break_hours"`
	TotalPayableHours   float64              `json:"total_payable_hours"`
	OvertimeHours       float64              `json:"overtime_hours"`
	OpenSessionDays     int                  `json:"open_session_days"`
	PayRate             decimal.Decimal      `json:"pay_rate"`
	TotalPay            decimal.Decimal      `json:"total_pay"`
	Days                []PayableDayResponse `json:"days"`
}

// BranchSummaryEntry carries one employee's summary inside a branch batch.
// A failed employee is reported in place so the batch can continue.
type BranchSummaryEntry struct {
	EmployeeID   string                  `json:"employee_id"`
	EmployeeName string                  `json:"employee_name"`
	Summary      *PayrollSummaryResponse `json:"summary,omitempty"`
	Error        *string                 `json:"error,omitempty"`
}

type BranchSummaryResponse struct {
	BranchID  string               `json:"branch_id"`
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Employees []BranchSummaryEntry `json:"employees"`
}

const dateLayout = "2006-01-02"

// MapPayableDayToResponse converts a PayableDayResult to its response form.
func MapPayableDayToResponse(d PayableDayResult) PayableDayResponse {
	return PayableDayResponse{
		Date:           d.Date.Format(dateLayout),
		ScheduledHours: d.ScheduledHours,
		ActualHours:    d.ActualHours,
		PayableHours:   d.PayableHours,
		OvertimeHours:  d.OvertimeHours,
		BreakMinutes:   d.BreakMinutes,
		WithinSchedule: d.WithinSchedule,
		OpenSession:    d.OpenSession,
	}
}

// MapSummaryToResponse converts a PayrollSummary to its response form.
func MapSummaryToResponse(s PayrollSummary) PayrollSummaryResponse {
	days := make([]PayableDayResponse, 0, len(s.Days))
	for _, d := range s.Days {
		days = append(days, MapPayableDayToResponse(d))
	}

	return PayrollSummaryResponse{
		EmployeeID:          s.EmployeeID,
		StartDate:           s.StartDate.Format(dateLayout),
		EndDate:             s.EndDate.Format(dateLayout),
		TotalScheduledHours: s.TotalScheduledHours,
		TotalActualHours:    s.TotalActualHours,
		TotalBreakHours:     s.TotalBreakHours,
		TotalPayableHours:   s.TotalPayableHours,
		OvertimeHours:       s.OvertimeHours,
		OpenSessionDays:     s.OpenSessionDays,
		PayRate:             s.PayRate,
		TotalPay:            s.TotalPay,
		Days:                days,
	}
}
