package socialsecurity

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	"github.com/nominaplus/payroll-engine/internal/domain/movement"
	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
	"github.com/nominaplus/payroll-engine/internal/service/ledger"
)

// CalculateRisk posts the labor risk base and the employer aporte at the
// workplace risk percentage. Apprentices are excluded, integral salaries
// contribute on the scaled base, and the base is capped at TMRI minimum
// wages after netting the base already posted this month.
func (s *Service) CalculateRisk(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) ([]movement.Movement, error) {
	codes, err := s.resolver.RiskCodes(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve risk codes: %w", err)
	}

	if cc.Contract.RegimeCode == codes.ApprenticeRegime &&
		cc.Contract.ContributorTypeCode != codes.ApprenticeType {
		return nil, nil
	}

	rates, err := s.resolver.RiskRates(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve risk rates: %w", err)
	}

	month := cc.Period.Month
	totalBase, err := s.ledger.SumValues(ctx, cc.EmployeeID, cc.Period.Year, &month, nil, movement.ConceptFilter{RiskBase: boolPtr(true)})
	if err != nil {
		return nil, fmt.Errorf("sum risk base: %w", err)
	}
	posted, err := s.ledger.ByConceptMonth(ctx, cc.EmployeeID, cc.Period.Year, cc.Period.Month, codes.RiskBase)
	if err != nil {
		return nil, fmt.Errorf("posted risk base: %w", err)
	}

	var base decimal.Decimal
	if cc.Contract.RegimeCode == codes.IntegralRegime {
		base = totalBase.Mul(rates.TSSI.Div(hundred)).Sub(posted.Value)
	} else {
		base = totalBase.Sub(posted.Value)
	}

	maxBase := rates.TMRI.Mul(rates.SMLV)
	if base.GreaterThan(maxBase) {
		base = maxBase
	}
	if base.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}

	aporte := base.Mul(cc.Contract.RiskPercentage.Div(hundred))

	rows := []ledger.Row{
		{Code: codes.RiskBase, Quantity: decimal.Zero, Value: base},
		{Code: codes.RiskAport, Quantity: decimal.Zero, Value: aporte},
	}
	return s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
}
