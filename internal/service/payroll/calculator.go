package payroll

import (
	"math"
	"time"

	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/payroll"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/schedule"
)

// ComputePayableDay intersects a daily aggregate's worked window with the
// employee's schedule window for that date and produces payable, actual and
// informational overtime hours.
//
// Without a schedule the fallback policy applies: actual hours are unbounded
// and fully payable. With a schedule, payable time is clipped to the
// scheduled window and capped at the scheduled hours. Overtime is computed
// over the unbounded worked time and is never paid.
//
// Hour values are rounded to 2 decimal places at the point of output only;
// minute-level arithmetic stays unrounded.
func ComputePayableDay(agg payroll.DailyAggregate, window *schedule.Window, loc *time.Location) payroll.PayableDayResult {
	result := payroll.PayableDayResult{Date: agg.Date}

	if agg.HasOpenSession || agg.CombinedEnd == nil {
		result.OpenSession = true
		return result
	}

	breakMinutes := agg.TotalBreakMinutes
	result.BreakMinutes = round2(breakMinutes)

	unboundedMinutes := agg.CombinedEnd.Sub(agg.CombinedStart).Minutes() - breakMinutes
	if unboundedMinutes < 0 {
		unboundedMinutes = 0
	}
	unboundedHours := unboundedMinutes / 60.0

	if window == nil {
		result.ActualHours = round2(unboundedHours)
		result.PayableHours = result.ActualHours
		return result
	}

	result.WithinSchedule = true

	scheduledHours := window.ScheduledHours()
	result.ScheduledHours = round2(scheduledHours)
	result.OvertimeHours = round2(math.Max(0, unboundedHours-scheduledHours))

	scheduleStart := window.Start.At(agg.Date, loc)
	scheduleEnd := window.End.At(agg.Date, loc)

	workStart := agg.CombinedStart
	if scheduleStart.After(workStart) {
		workStart = scheduleStart
	}
	workEnd := *agg.CombinedEnd
	if scheduleEnd.Before(workEnd) {
		workEnd = scheduleEnd
	}

	if !workEnd.After(workStart) {
		return result
	}

	payableMinutes := workEnd.Sub(workStart).Minutes() - breakMinutes
	if payableMinutes < 0 {
		payableMinutes = 0
	}

	actualHours := payableMinutes / 60.0
	result.ActualHours = round2(actualHours)
	result.PayableHours = round2(math.Min(actualHours, scheduledHours))

	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
