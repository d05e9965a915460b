package refdata

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	ListCodes(ctx context.Context, companyID string) ([]Code, error)
	ListConstants(ctx context.Context, companyID string) ([]Constant, error)
	// FindSolidarityBracket matches salary expressed in minimum wages
	// against the bracket bounds.
	FindSolidarityBracket(ctx context.Context, salaryInWages decimal.Decimal, isPensionary bool) (*SolidarityBracket, error)
}
