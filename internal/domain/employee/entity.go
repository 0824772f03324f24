package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the slice of the employee registry this service consumes:
// branch assignment and the hourly pay rate. The rate is currency-agnostic.
type Employee struct {
	ID        string
	BranchID  string
	FullName  string
	PayRate   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
