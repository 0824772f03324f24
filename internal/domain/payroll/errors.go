package payroll

import "errors"

var (
	ErrInvalidPeriod = errors.New("start date must not be after end date")
)
