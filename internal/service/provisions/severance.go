package provisions

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	"github.com/nominaplus/payroll-engine/internal/domain/movement"
	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
	"github.com/nominaplus/payroll-engine/internal/pkg/dates"
	"github.com/nominaplus/payroll-engine/internal/service/ledger"
)

// CalculateSeverance accrues the cesantías provision. The accrual window
// opens at the contract start, or at the start of the fiscal year for the
// ley 50 regime, and days convert to provision days at 30/360. The returned
// value is the unpaid balance, which feeds the interest accrual.
func (s *Service) CalculateSeverance(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) ([]movement.Movement, decimal.Decimal, error) {
	codes, err := s.resolver.SeveranceCodes(ctx, cc.CompanyID)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("resolve severance codes: %w", err)
	}

	windowStart := cc.Contract.InitialContractDate
	ley50, err := s.resolver.CodeByID(ctx, cc.CompanyID, "0060")
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("resolve ley 50 code: %w", err)
	}
	if cc.Contract.RegimeCode == ley50 {
		windowStart = dates.StartOfYear(cc.Period.EndDate)
	}

	workedDays, err := s.provisionWindowDays(ctx, cc, windowStart, true)
	if err != nil {
		return nil, decimal.Zero, err
	}

	month := cc.Period.Month
	variableBase, err := s.ledger.SumValues(ctx, cc.EmployeeID, cc.Period.Year, &month, nil, movement.ConceptFilter{SeveranceBase: boolPtr(true)})
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("sum severance base: %w", err)
	}

	paidSoFar, err := s.ledger.SumValues(ctx, cc.EmployeeID, cc.Period.Year, nil, nil, movement.ConceptFilter{Code: &codes.Paid})
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("sum paid severance: %w", err)
	}

	prevDays, prevValue, err := s.previousPeriodBalance(ctx, cc, codes.NewValue)
	if err != nil {
		return nil, decimal.Zero, err
	}

	paid, err := s.ledger.ByConceptPeriodNumber(ctx, cc.EmployeeID, cc.Period.Year, cc.Period.Number, codes.Paid)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("paid severance this period: %w", err)
	}

	base := variableBase.Add(cc.Salary.Salary)
	unpaidDays := workedDays.Mul(thirty).Div(decimal.NewFromInt(360)).Sub(paidSoFar)
	unpaidValue := unpaidDays.Mul(base.Div(thirty))

	provisionDays := unpaidDays.Sub(prevDays).Sub(paid.Quantity)
	provisionValue := unpaidValue.Add(paid.Value).Sub(prevValue)

	rows := []ledger.Row{
		{Code: codes.WorkedDays, Quantity: workedDays, Value: decimal.Zero},
		{Code: codes.VariablePart, Quantity: decimal.Zero, Value: variableBase},
		{Code: codes.StaticPart, Quantity: decimal.Zero, Value: cc.Salary.Salary},
		{Code: codes.Base, Quantity: decimal.Zero, Value: base},
		{Code: codes.NewValue, Quantity: unpaidDays, Value: unpaidValue},
		{Code: codes.PreviousValue, Quantity: prevDays, Value: prevValue},
		{Code: codes.Provision, Quantity: provisionDays, Value: provisionValue},
	}
	movements, err := s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return movements, unpaidValue, nil
}

// CalculateSeveranceInterest accrues the 12% yearly interest on the
// severance balance. Its window always opens at the start of the fiscal
// year and does not discount antiquity-affecting absences.
func (s *Service) CalculateSeveranceInterest(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts, interestBase decimal.Decimal) ([]movement.Movement, error) {
	codes, err := s.resolver.SeveranceCodes(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve severance codes: %w", err)
	}

	workedDays, err := s.provisionWindowDays(ctx, cc, dates.StartOfYear(cc.Period.EndDate), false)
	if err != nil {
		return nil, err
	}

	paidSoFar, err := s.ledger.SumValues(ctx, cc.EmployeeID, cc.Period.Year, nil, nil, movement.ConceptFilter{Code: &codes.InterestPaid})
	if err != nil {
		return nil, fmt.Errorf("sum paid interest: %w", err)
	}

	prevDays, prevValue, err := s.previousPeriodBalance(ctx, cc, codes.InterestNew)
	if err != nil {
		return nil, err
	}

	paid, err := s.ledger.ByConceptPeriodNumber(ctx, cc.EmployeeID, cc.Period.Year, cc.Period.Number, codes.InterestPaid)
	if err != nil {
		return nil, fmt.Errorf("paid interest this period: %w", err)
	}

	factor, err := s.resolver.ConstantByCode(ctx, cc.CompanyID, codes.InterestFactor)
	if err != nil {
		return nil, fmt.Errorf("interest factor: %w", err)
	}

	interestDays := workedDays.Mul(factor).Div(decimal.NewFromInt(360)).Sub(paidSoFar)
	interestValue := interestDays.Mul(interestBase.Div(thirty))

	provisionDays := interestDays.Add(paid.Quantity).Sub(prevDays)
	provisionValue := interestValue.Add(paid.Value).Sub(prevValue)

	rows := []ledger.Row{
		{Code: codes.InterestDays, Quantity: interestDays, Value: decimal.Zero},
		{Code: codes.InterestBase, Quantity: decimal.Zero, Value: interestBase},
		{Code: codes.InterestNew, Quantity: interestDays, Value: interestValue},
		{Code: codes.InterestBefore, Quantity: prevDays, Value: prevValue},
		{Code: codes.InterestProv, Quantity: provisionDays, Value: provisionValue},
	}
	return s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
}

func boolPtr(b bool) *bool { return &b }
