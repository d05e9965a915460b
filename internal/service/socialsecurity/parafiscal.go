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

// CalculateParafiscal posts the caja, ICBF and SENA aportes on the
// parafiscal base. ICBF and SENA only apply above the CREE threshold unless
// the employee is on integral salary, where they always apply on the scaled
// base.
func (s *Service) CalculateParafiscal(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) ([]movement.Movement, error) {
	codes, err := s.resolver.ParafiscalCodes(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve parafiscal codes: %w", err)
	}
	rates, err := s.resolver.ParafiscalRates(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve parafiscal rates: %w", err)
	}

	month := cc.Period.Month
	totalBase, err := s.ledger.SumValues(ctx, cc.EmployeeID, cc.Period.Year, &month, nil, movement.ConceptFilter{ParafiscalBase: boolPtr(true)})
	if err != nil {
		return nil, fmt.Errorf("sum parafiscal base: %w", err)
	}
	posted, err := s.ledger.ByConceptMonth(ctx, cc.EmployeeID, cc.Period.Year, cc.Period.Month, codes.Subsistence)
	if err != nil {
		return nil, fmt.Errorf("posted parafiscal base: %w", err)
	}

	isIntegral := cc.Contract.RegimeCode == codes.IntegralRegime
	base := totalBase
	if isIntegral {
		base = totalBase.Mul(rates.TSSI.Div(hundred))
	}
	base = base.Sub(posted.Value)

	if base.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}

	caja := base.Mul(rates.CajaRate.Div(hundred))

	var icbf, sena decimal.Decimal
	if isIntegral {
		icbf = base.Mul(rates.IcbfRate.Div(hundred))
		sena = base.Mul(rates.SenaRate.Div(hundred))
	} else {
		creeBase, err := s.ledger.SumMonthlyValueByConcept(ctx, cc.EmployeeID, cc.Period.Year, cc.Period.Month, codes.BaseCree)
		if err != nil {
			return nil, fmt.Errorf("sum cree base: %w", err)
		}
		if creeBase.GreaterThan(rates.Cree.Mul(rates.SMLV)) {
			icbf = base.Mul(rates.IcbfRate.Div(hundred))
			sena = base.Mul(rates.SenaRate.Div(hundred))
		}
	}

	rows := []ledger.Row{
		{Code: codes.SenaAport, Quantity: decimal.Zero, Value: sena},
		{Code: codes.IcbfAport, Quantity: decimal.Zero, Value: icbf},
		{Code: codes.CajaAport, Quantity: decimal.Zero, Value: caja},
		{Code: codes.Subsistence, Quantity: decimal.Zero, Value: base},
	}
	return s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
}
