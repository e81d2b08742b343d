package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core-go/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// An early clock-out carries the threshold so kiosks can show when the
	// employee may try again.
	var earlyErr *attendance.EarlyCheckoutError
	if errors.As(err, &earlyErr) {
		ConflictWithDetails(w, earlyErr.Error(), map[string]string{
			"shift_type":       string(earlyErr.Shift),
			"earliest_allowed": earlyErr.Threshold.String(),
		})
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrLedgerConflict):
		ServiceUnavailable(w, "Attendance ledger is busy, please retry")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeExists):
		Conflict(w, "Employee id already registered")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is deactivated")

	// Location domain errors
	case errors.Is(err, location.ErrFavoriteNotFound):
		NotFound(w, "Favorite location not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
