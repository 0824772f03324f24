package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/branch"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/employee"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/payroll"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/schedule"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/timeclock"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	sessionRepo  timeclock.ClockSessionRepository
	employeeRepo employee.EmployeeRepository
	branchRepo   branch.BranchRepository
	scheduleRepo schedule.ScheduleRepository

	now func() time.Time
}

func NewPayrollService(
	sessionRepo timeclock.ClockSessionRepository,
	employeeRepo employee.EmployeeRepository,
	branchRepo branch.BranchRepository,
	scheduleRepo schedule.ScheduleRepository,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		sessionRepo:  sessionRepo,
		employeeRepo: employeeRepo,
		branchRepo:   branchRepo,
		scheduleRepo: scheduleRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// GetDailyAggregate implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetDailyAggregate(ctx context.Context, employeeID string, date time.Time) (*payroll.DailyAggregateResponse, error) {
	_, loc, err := s.resolveEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	agg, err := s.aggregateForDate(ctx, employeeID, date, loc)
	if err != nil {
		return nil, err
	}
	if agg == nil {
		return nil, nil
	}

	return mapAggregateToResponse(*agg), nil
}

// GetPayableDay implements payroll.PayrollService.
//
// A date with no sessions reports zero worked hours against the scheduled
// hours for that weekday. A date with an open session is flagged, not
// silently zeroed.
func (s *PayrollServiceImpl) GetPayableDay(ctx context.Context, employeeID string, date time.Time) (payroll.PayableDayResponse, error) {
	_, loc, err := s.resolveEmployee(ctx, employeeID)
	if err != nil {
		return payroll.PayableDayResponse{}, err
	}

	weekly, err := s.scheduleRepo.GetWeekly(ctx, employeeID)
	if err != nil {
		return payroll.PayableDayResponse{}, fmt.Errorf("failed to get weekly schedule: %w", err)
	}

	agg, err := s.aggregateForDate(ctx, employeeID, date, loc)
	if err != nil {
		return payroll.PayableDayResponse{}, err
	}

	day := localMidnight(date, loc)
	window := weekly.WindowFor(day)

	if agg == nil {
		result := payroll.PayableDayResult{Date: day}
		if window != nil {
			result.WithinSchedule = true
			result.ScheduledHours = round2(window.ScheduledHours())
		}
		return payroll.MapPayableDayToResponse(result), nil
	}

	return payroll.MapPayableDayToResponse(ComputePayableDay(*agg, window, loc)), nil
}

// GetPayrollSummary implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayrollSummary(ctx context.Context, employeeID string, startDate, endDate time.Time) (payroll.PayrollSummaryResponse, error) {
	summary, err := s.computeSummary(ctx, employeeID, startDate, endDate)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}
	return payroll.MapSummaryToResponse(summary), nil
}

// GetBranchSummaries implements payroll.PayrollService.
//
// One employee's failure must not abort the batch: it is reported in that
// employee's entry and the remaining employees are still computed.
func (s *PayrollServiceImpl) GetBranchSummaries(ctx context.Context, branchID string, startDate, endDate time.Time) (payroll.BranchSummaryResponse, error) {
	if _, err := s.branchRepo.GetByID(ctx, branchID); err != nil {
		return payroll.BranchSummaryResponse{}, err
	}

	employees, err := s.employeeRepo.ListByBranch(ctx, branchID)
	if err != nil {
		return payroll.BranchSummaryResponse{}, fmt.Errorf("failed to list branch employees: %w", err)
	}

	response := payroll.BranchSummaryResponse{
		BranchID:  branchID,
		StartDate: startDate.Format("2006-01-02"),
		EndDate:   endDate.Format("2006-01-02"),
		Employees: make([]payroll.BranchSummaryEntry, 0, len(employees)),
	}

	for _, emp := range employees {
		entry := payroll.BranchSummaryEntry{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
		}

		summary, err := s.computeSummary(ctx, emp.ID, startDate, endDate)
		if err != nil {
			msg := err.Error()
			entry.Error = &msg
		} else {
			mapped := payroll.MapSummaryToResponse(summary)
			entry.Summary = &mapped
		}

		response.Employees = append(response.Employees, entry)
	}

	return response, nil
}

func (s *PayrollServiceImpl) computeSummary(ctx context.Context, employeeID string, startDate, endDate time.Time) (payroll.PayrollSummary, error) {
	if endDate.Before(startDate) {
		return payroll.PayrollSummary{}, payroll.ErrInvalidPeriod
	}

	emp, loc, err := s.resolveEmployee(ctx, employeeID)
	if err != nil {
		return payroll.PayrollSummary{}, err
	}

	if emp.PayRate.IsNegative() {
		return payroll.PayrollSummary{}, employee.ErrInvalidPayRate
	}

	weekly, err := s.scheduleRepo.GetWeekly(ctx, employeeID)
	if err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("failed to get weekly schedule: %w", err)
	}

	from := localMidnight(startDate, loc)
	to := localMidnight(endDate, loc).AddDate(0, 0, 1)

	sessions, err := s.sessionRepo.ListSessions(ctx, employeeID, from, to)
	if err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("failed to list clock sessions: %w", err)
	}

	summary := payroll.PayrollSummary{
		EmployeeID: employeeID,
		StartDate:  from,
		EndDate:    localMidnight(endDate, loc),
		PayRate:    emp.PayRate,
	}

	// Days with no sessions are skipped entirely; days with an open session
	// are excluded from the totals but counted and reported.
	for _, agg := range BuildDailyAggregates(employeeID, sessions, loc, s.now()) {
		day := ComputePayableDay(agg, weekly.WindowFor(agg.Date), loc)
		summary.Days = append(summary.Days, day)

		if day.OpenSession {
			summary.OpenSessionDays++
			continue
		}

		summary.TotalScheduledHours += day.ScheduledHours
		summary.TotalActualHours += day.ActualHours
		summary.TotalBreakHours += day.BreakMinutes / 60.0
		summary.TotalPayableHours += day.PayableHours
	}

	summary.TotalScheduledHours = round2(summary.TotalScheduledHours)
	summary.TotalActualHours = round2(summary.TotalActualHours)
	summary.TotalBreakHours = round2(summary.TotalBreakHours)
	summary.TotalPayableHours = round2(summary.TotalPayableHours)

	if summary.TotalScheduledHours > 0 && summary.TotalActualHours > summary.TotalScheduledHours {
		summary.OvertimeHours = round2(summary.TotalActualHours - summary.TotalScheduledHours)
	}

	summary.TotalPay = decimal.NewFromFloat(summary.TotalPayableHours).Mul(emp.PayRate).Round(2)

	return summary, nil
}

func (s *PayrollServiceImpl) aggregateForDate(ctx context.Context, employeeID string, date time.Time, loc *time.Location) (*payroll.DailyAggregate, error) {
	day := localMidnight(date, loc)

	sessions, err := s.sessionRepo.ListSessions(ctx, employeeID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list clock sessions: %w", err)
	}

	for _, agg := range BuildDailyAggregates(employeeID, sessions, loc, s.now()) {
		if agg.Date.Equal(day) {
			a := agg
			return &a, nil
		}
	}
	return nil, nil
}

func (s *PayrollServiceImpl) resolveEmployee(ctx context.Context, employeeID string) (employee.Employee, *time.Location, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, nil, fmt.Errorf("failed to get employee: %w", err)
	}

	br, err := s.branchRepo.GetByID(ctx, emp.BranchID)
	if err != nil {
		return employee.Employee{}, nil, fmt.Errorf("failed to get branch: %w", err)
	}

	return emp, br.Location(), nil
}

// localMidnight reinterprets the calendar day of date in the branch zone.
func localMidnight(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

func mapAggregateToResponse(agg payroll.DailyAggregate) *payroll.DailyAggregateResponse {
	sessions := make([]timeclock.SessionResponse, 0, len(agg.Sessions))
	for _, session := range agg.Sessions {
		sessions = append(sessions, timeclock.MapSessionToResponse(session))
	}

	resp := &payroll.DailyAggregateResponse{
		Date:              agg.Date.Format("2006-01-02"),
		EmployeeID:        agg.EmployeeID,
		CombinedStart:     agg.CombinedStart.UTC().Format(time.RFC3339),
		TotalBreakMinutes: round2(agg.TotalBreakMinutes),
		HasOpenSession:    agg.HasOpenSession,
		Sessions:          sessions,
	}
	if agg.CombinedEnd != nil {
		end := agg.CombinedEnd.UTC().Format(time.RFC3339)
		resp.CombinedEnd = &end
	}
	return resp
}
