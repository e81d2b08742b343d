package employee

import (
	"context"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employees employee.EmployeeRepository
}

func NewEmployeeService(employees employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{employees: employees}
}

// Register implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Register(ctx context.Context, req employee.RegisterEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employees.Create(ctx, employee.Employee{
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		Department: req.Department,
		Active:     true,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(emp), nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, employeeID string) (employee.EmployeeResponse, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.NewEmployeeResponse(emp))
	}

	return responses, nil
}

// Deactivate implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, employeeID string) error {
	return s.employees.Deactivate(ctx, employeeID)
}
