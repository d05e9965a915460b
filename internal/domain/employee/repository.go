package employee

import "context"

type Repository interface {
	// GetByID reads the flattened payroll view for one employee.
	GetByID(ctx context.Context, employeeID string) (Employee, error)
}
