package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/employee"
)

// EmployeeRepository is an in-memory employee directory for development and
// tests.
type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		employees: make(map[string]employee.Employee),
	}
}

// Create implements employee.EmployeeRepository.
func (r *EmployeeRepository) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[emp.EmployeeID]; ok {
		return employee.Employee{}, employee.ErrEmployeeExists
	}

	emp.CreatedAt = time.Now().UTC()
	r.employees[emp.EmployeeID] = emp

	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *EmployeeRepository) GetByID(_ context.Context, employeeID string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.employees[employeeID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	return emp, nil
}

// List implements employee.EmployeeRepository.
func (r *EmployeeRepository) List(_ context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employees := make([]employee.Employee, 0, len(r.employees))
	for _, emp := range r.employees {
		employees = append(employees, emp)
	}

	sort.Slice(employees, func(i, j int) bool {
		if employees[i].Active != employees[j].Active {
			return employees[i].Active
		}
		return employees[i].Name < employees[j].Name
	})

	return employees, nil
}

// Deactivate implements employee.EmployeeRepository.
func (r *EmployeeRepository) Deactivate(_ context.Context, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	emp, ok := r.employees[employeeID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}

	emp.Active = false
	r.employees[employeeID] = emp

	return nil
}
