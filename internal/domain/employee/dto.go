package employee

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/validator"
)

type EmployeeService interface {
	Register(ctx context.Context, req RegisterEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, employeeID string) (EmployeeResponse, error)
	List(ctx context.Context) ([]EmployeeResponse, error)
	Deactivate(ctx context.Context, employeeID string) error
}

type RegisterEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
}

func (r *RegisterEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidEmployeeID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be 3-32 characters: letters, digits, dash",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"created_at"`
}

func NewEmployeeResponse(emp Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID: emp.EmployeeID,
		Name:       emp.Name,
		Department: emp.Department,
		Active:     emp.Active,
		CreatedAt:  emp.CreatedAt.Format(time.RFC3339),
	}
}
