package schedule

import "errors"

var (
	ErrScheduleNotFound = errors.New("no schedule found for employee")
	ErrInvalidWindow    = errors.New("schedule window start must be before end")
)
