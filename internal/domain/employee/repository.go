package employee

import "context"

// EmployeeRepository reads employee records from the employee registry.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListByBranch retrieves every employee assigned to a branch. Used by
	// batch payroll computation.
	ListByBranch(ctx context.Context, branchID string) ([]Employee, error)
}
