package company

import "context"

type Repository interface {
	GetPayrollSettings(ctx context.Context, companyID string) (PayrollSettings, error)
}
