package employee

import (
	"context"
)

// EmployeeRepository defines data access for the employee directory.
type EmployeeRepository interface {
	// Create registers a new employee. Returns ErrEmployeeExists when the
	// employee id is already taken.
	Create(ctx context.Context, emp Employee) (Employee, error)

	// GetByID retrieves an employee by its scan identifier.
	GetByID(ctx context.Context, employeeID string) (Employee, error)

	// List returns all employees, active first, then by name.
	List(ctx context.Context) ([]Employee, error)

	// Deactivate marks an employee inactive. The directory keeps the row so
	// historical attendance records stay resolvable.
	Deactivate(ctx context.Context, employeeID string) error
}
