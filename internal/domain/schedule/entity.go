package schedule

import (
	"fmt"
	"time"
)

// TimeOfDay is a clock time without a date, minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" (24-hour clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// At anchors the time of day on a calendar date in the given zone.
func (t TimeOfDay) At(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, loc)
}

// MinuteOfDay returns minutes since midnight.
func (t TimeOfDay) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Window is a scheduled working interval on one weekday.
// Invariant: Start < End.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// ScheduledMinutes returns the length of the window in minutes.
func (w Window) ScheduledMinutes() int {
	return w.End.MinuteOfDay() - w.Start.MinuteOfDay()
}

// ScheduledHours returns the length of the window in hours.
func (w Window) ScheduledHours() float64 {
	return float64(w.ScheduledMinutes()) / 60.0
}

// Weekly is an employee's work schedule, one optional window per weekday.
// Indexed by time.Weekday (Sunday = 0). A nil slot is a day off.
type Weekly [7]*Window

// WindowFor returns the window for the weekday of the given date, or nil when
// the employee is off that day.
func (w Weekly) WindowFor(date time.Time) *Window {
	return w[date.Weekday()]
}
