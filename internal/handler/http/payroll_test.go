package http

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nominaplus/payroll-engine/internal/pkg/validator"
)

func TestCalculationRequestValidate(t *testing.T) {
	valid := CalculationRequest{
		CompanyID:   "c1",
		PeriodID:    "p1",
		Year:        2025,
		Month:       6,
		EmployeeIDs: []string{"e1"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*CalculationRequest)
		field  string
	}{
		{"missing company", func(r *CalculationRequest) { r.CompanyID = "" }, "companyId"},
		{"missing period", func(r *CalculationRequest) { r.PeriodID = "   " }, "periodId"},
		{"no employees", func(r *CalculationRequest) { r.EmployeeIDs = nil }, "employeeIds"},
		{"year too small", func(r *CalculationRequest) { r.Year = 1999 }, "year"},
		{"month zero", func(r *CalculationRequest) { r.Month = 0 }, "month"},
		{"month too large", func(r *CalculationRequest) { r.Month = 13 }, "month"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			require.Error(t, err)

			var errs validator.ValidationErrors
			require.True(t, errors.As(err, &errs))
			fields := make([]string, 0, len(errs))
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}
