package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/employee"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	emp.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO employees (employee_id, name, department, active, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.store.db.ExecContext(ctx, query,
		emp.EmployeeID, emp.Name, emp.Department, emp.Active, emp.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return employee.Employee{}, employee.ErrEmployeeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, employeeID string) (employee.Employee, error) {
	query := `
		SELECT employee_id, name, department, active, created_at
		FROM employees
		WHERE employee_id = ?
	`

	var emp employee.Employee
	err := r.store.db.QueryRowContext(ctx, query, employeeID).Scan(
		&emp.EmployeeID, &emp.Name, &emp.Department, &emp.Active, &emp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	query := `
		SELECT employee_id, name, department, active, created_at
		FROM employees
		ORDER BY active DESC, name ASC
	`

	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(&emp.EmployeeID, &emp.Name, &emp.Department, &emp.Active, &emp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, nil
}

// Deactivate implements employee.EmployeeRepository.
func (r *employeeRepository) Deactivate(ctx context.Context, employeeID string) error {
	query := `UPDATE employees SET active = 0 WHERE employee_id = ?`

	result, err := r.store.db.ExecContext(ctx, query, employeeID)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if affected == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}
