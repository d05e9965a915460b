package response

import (
	"errors"
	"net/http"

	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	"github.com/nominaplus/payroll-engine/internal/domain/employee"
	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
	"github.com/nominaplus/payroll-engine/internal/domain/refdata"
	"github.com/nominaplus/payroll-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, payroll.ErrInvalidJob):
		BadRequest(w, "Invalid calculation job", nil)
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, concept.ErrConceptNotFound):
		NotFound(w, "Payroll concept not found")
	case errors.Is(err, refdata.ErrCodeNotFound):
		NotFound(w, "Company code configuration not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
