package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidPayRate   = errors.New("pay rate must be a non-negative number")
)
