package provisions

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
	"github.com/nominaplus/payroll-engine/internal/pkg/dates"
	"github.com/nominaplus/payroll-engine/internal/service/ledger"
	"github.com/nominaplus/payroll-engine/internal/service/refdata"
)

var thirty = decimal.NewFromInt(30)

// Service accrues the forward-looking provisions: severance and its
// interest, the legal service bonus, and vacations. Each posts an itemized
// sequence of movements ending in the period's incremental provision.
type Service struct {
	ledger   *ledger.Service
	resolver *refdata.Resolver
}

func NewService(ledger *ledger.Service, resolver *refdata.Resolver) *Service {
	return &Service{ledger: ledger, resolver: resolver}
}

// provisionWindowDays counts the days between the accrual window start and
// the normalized period end, optionally discounting absence days that break
// antiquity.
func (s *Service) provisionWindowDays(ctx context.Context, cc *payroll.CalcContext, windowStart time.Time, discountAntiquity bool) (decimal.Decimal, error) {
	start := windowStart
	if cc.Contract.InitialContractDate.After(start) {
		start = cc.Contract.InitialContractDate
	}

	days := decimal.NewFromInt(int64(dates.DaysBetween(start, cc.Period.EndDate)))

	if discountAntiquity {
		affecting, err := s.ledger.SumAffectingAntiquity(ctx, cc.Period.Month, cc.Period.Year, cc.EmployeeID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("antiquity-affecting days: %w", err)
		}
		days = days.Sub(affecting.Quantity)
	}

	return days, nil
}

// previousPeriodBalance reads the balance concept posted in the previous
// period. The first period of a year has no predecessor and starts from
// zero.
func (s *Service) previousPeriodBalance(ctx context.Context, cc *payroll.CalcContext, code string) (decimal.Decimal, decimal.Decimal, error) {
	if cc.Period.PreviousPeriodNumber <= 0 {
		return decimal.Zero, decimal.Zero, nil
	}
	qv, err := s.ledger.ByConceptPeriodNumber(ctx, cc.EmployeeID, cc.Period.PreviousPeriodYear, cc.Period.PreviousPeriodNumber, code)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("previous period balance for %s: %w", code, err)
	}
	return qv.Quantity, qv.Value, nil
}
