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

// CalculatePension posts the employer and employee pension shares. Only the
// contributing regimes (ley 50, pre-1993 and integral salary) generate
// aportes; everyone else gets zero rows, which the ledger drops on save.
func (s *Service) CalculatePension(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) ([]movement.Movement, error) {
	codes, err := s.resolver.PensionCodes(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve pension codes: %w", err)
	}
	rates, err := s.resolver.PensionRates(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve pension rates: %w", err)
	}

	var employerAport, employeeAport decimal.Decimal

	switch cc.Contract.RegimeCode {
	case codes.IntegralRegime, codes.Ley50, codes.PreviousRegime:
		employerAport = cc.IBC.Mul(rates.EmployerRate.Div(hundred))
		employeeAport = cc.IBC.Mul(rates.EmployeeRate.Div(hundred))
	}

	rows := []ledger.Row{
		{Code: codes.EmployerAport, Quantity: decimal.Zero, Value: employerAport},
		{Code: codes.EmployeeAport, Quantity: decimal.Zero, Value: employeeAport},
	}
	return s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
}
