package payroll

import "context"

type PeriodRepository interface {
	GetByID(ctx context.Context, id string) (*Period, error)
	// GetByNumber finds a period of the company by year and ordinal, used to
	// look back at the previous liquidation window.
	GetByNumber(ctx context.Context, companyID string, year, number int) (*Period, error)
}
