package payroll

import (
	"sort"
	"time"

	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/payroll"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/timeclock"
)

// BuildDailyAggregates merges clock sessions into one aggregate per local
// calendar date. A session belongs to the date its clock-in falls on in the
// branch zone, regardless of when it was clocked out.
//
// Multiple same-day sessions are treated as one continuous attendance block
// bounded by first-in/last-out; gaps between sessions are not subtracted.
//
// A session still open whose calendar day ended before asOf is treated as
// closed at that day's boundary, so historical payroll stays deterministic.
// A session still open on its own day leaves the aggregate without a
// combined end, which excludes the day from completed-period payroll.
func BuildDailyAggregates(employeeID string, sessions []timeclock.ClockSession, loc *time.Location, asOf time.Time) []payroll.DailyAggregate {
	sorted := make([]timeclock.ClockSession, len(sessions))
	copy(sorted, sessions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ClockInAt.Before(sorted[j].ClockInAt)
	})

	byDate := make(map[time.Time]*payroll.DailyAggregate)
	var order []time.Time

	for _, session := range sorted {
		local := session.ClockInAt.In(loc)
		date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

		agg, ok := byDate[date]
		if !ok {
			agg = &payroll.DailyAggregate{
				Date:          date,
				EmployeeID:    employeeID,
				CombinedStart: session.ClockInAt,
			}
			byDate[date] = agg
			order = append(order, date)
		}

		agg.Sessions = append(agg.Sessions, session)

		end, clamped, open := effectiveEnd(session, date, asOf)
		switch {
		case open:
			agg.HasOpenSession = true
		case agg.CombinedEnd == nil || end.After(*agg.CombinedEnd):
			e := end
			agg.CombinedEnd = &e
		}
		if clamped {
			agg.DayBoundaryClamped = true
		}

		for _, brk := range session.Breaks {
			agg.TotalBreakMinutes += brk.DurationMinutes()
		}
	}

	results := make([]payroll.DailyAggregate, 0, len(order))
	for _, date := range order {
		agg := byDate[date]
		// An in-progress day has no combined end.
		if agg.HasOpenSession {
			agg.CombinedEnd = nil
		}
		results = append(results, *agg)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Date.Before(results[j].Date)
	})
	return results
}

// effectiveEnd resolves a session's end for aggregation: its clock-out when
// closed, the day boundary when it was left open on a past day, or "open".
func effectiveEnd(session timeclock.ClockSession, date time.Time, asOf time.Time) (end time.Time, clamped, open bool) {
	if session.ClockOutAt != nil {
		return *session.ClockOutAt, false, false
	}

	dayEnd := date.AddDate(0, 0, 1)
	if !dayEnd.After(asOf) {
		return dayEnd, true, false
	}

	return time.Time{}, false, true
}
