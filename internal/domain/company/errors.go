package company

import "errors"

var (
	ErrPayrollSettingsNotFound = errors.New("company payroll settings not found")
)
