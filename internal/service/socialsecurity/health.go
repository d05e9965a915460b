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

var hundred = decimal.NewFromInt(100)

// CalculateHealth splits the health contribution between employee and
// employer by regime. Apprentices only generate the employer share,
// retirees pay a tiered employee rate, ordinary employees trigger the
// employer share only above ten minimum wages of total earnings (CREE
// exoneration applies below it).
func (s *Service) CalculateHealth(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) ([]movement.Movement, error) {
	codes, err := s.resolver.HealthCodes(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve health codes: %w", err)
	}
	rates, err := s.resolver.HealthRates(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve health rates: %w", err)
	}

	employeeRate := rates.EmployeeRate.Div(hundred)
	employerRate := rates.EmployerRate.Div(hundred)

	var employeeAport, employerAport decimal.Decimal

	switch cc.Contract.RegimeCode {
	case codes.ApprenticeRegime:
		employerAport = cc.IBC.Mul(employerRate)

	case codes.RetireeRegime:
		retireeRate, err := s.resolver.RetireeHealthRate(ctx, cc.CompanyID, cc.Salary.Salary, rates.MinWage)
		if err != nil {
			return nil, fmt.Errorf("resolve retiree rate: %w", err)
		}
		employeeAport = cc.IBC.Mul(retireeRate.Div(hundred))

	case codes.IntegralRegime:
		employeeAport = cc.IBC.Mul(employeeRate)
		employerAport = cc.IBC.Mul(employerRate)

	default:
		employeeAport = cc.IBC.Mul(employeeRate)
		if cc.TotalBaseCree.GreaterThan(rates.MinWage.Mul(decimal.NewFromInt(10))) {
			employerAport = cc.IBC.Mul(employerRate)
		}
	}

	rows := []ledger.Row{
		{Code: codes.EmployerAport, Quantity: decimal.Zero, Value: employerAport},
		{Code: codes.EmployeeAport, Quantity: decimal.Zero, Value: employeeAport},
	}
	return s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
}
