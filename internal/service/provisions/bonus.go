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

// CalculateBonus accrues the legal service bonus (prima). Its window opens
// at the start of the current semester, and the company's affectAbsenteeLB
// flag decides whether antiquity-breaking absences shrink it.
func (s *Service) CalculateBonus(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) ([]movement.Movement, error) {
	codes, err := s.resolver.BonusCodes(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve bonus codes: %w", err)
	}

	daysFactor, err := s.resolver.ConstantByCode(ctx, cc.CompanyID, codes.DaysFactor)
	if err != nil {
		return nil, fmt.Errorf("bonus days factor: %w", err)
	}

	windowStart := dates.StartOfYear(cc.Period.EndDate)
	if cc.Period.Month >= 7 {
		windowStart = dates.MidYear(cc.Period.EndDate)
	}

	workedDays, err := s.provisionWindowDays(ctx, cc, windowStart, cc.Settings.AffectAbsenteeLB)
	if err != nil {
		return nil, err
	}

	month := cc.Period.Month
	variableBase, err := s.ledger.SumValues(ctx, cc.EmployeeID, cc.Period.Year, &month, nil, movement.ConceptFilter{PrimaLegalBase: boolPtr(true)})
	if err != nil {
		return nil, fmt.Errorf("sum bonus base: %w", err)
	}

	alreadyPaid, err := s.ledger.ByConceptMonth(ctx, cc.EmployeeID, cc.Period.Year, cc.Period.Month, codes.PaidBonus)
	if err != nil {
		return nil, fmt.Errorf("paid bonus this month: %w", err)
	}

	prevDays, prevValue, err := s.previousPeriodBalance(ctx, cc, codes.ProvisionValue)
	if err != nil {
		return nil, err
	}

	paid, err := s.ledger.ByConceptPeriodNumber(ctx, cc.EmployeeID, cc.Period.Year, cc.Period.Number, codes.PaidBonus)
	if err != nil {
		return nil, fmt.Errorf("paid bonus this period: %w", err)
	}

	base := variableBase.Add(cc.Salary.Salary)
	provisionDays := workedDays.Mul(daysFactor).Div(decimal.NewFromInt(180)).Sub(alreadyPaid.Quantity)
	provisionValue := provisionDays.Mul(base.Div(thirty))

	totalDays := provisionDays.Add(paid.Quantity).Sub(prevDays)
	totalValue := provisionValue.Add(paid.Value).Sub(prevValue)

	rows := []ledger.Row{
		{Code: codes.WorkedDays, Quantity: workedDays, Value: decimal.Zero},
		{Code: codes.VariableBase, Quantity: decimal.Zero, Value: variableBase},
		{Code: codes.StaticSalary, Quantity: decimal.Zero, Value: cc.Salary.Salary},
		{Code: codes.ProvisionBase, Quantity: decimal.Zero, Value: base},
		{Code: codes.ProvisionValue, Quantity: provisionDays, Value: provisionValue},
		{Code: codes.PreviousBonus, Quantity: prevDays, Value: prevValue},
		{Code: codes.TotalProvision, Quantity: totalDays, Value: totalValue},
	}
	return s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
}
