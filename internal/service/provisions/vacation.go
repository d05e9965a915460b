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

// CalculateVacation accrues vacation days at 15 per 360 worked days. Once
// the employee passes a full year of service, the variable-part average
// narrows to the last twelve months.
func (s *Service) CalculateVacation(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) ([]movement.Movement, error) {
	codes, err := s.resolver.VacationCodes(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve vacation codes: %w", err)
	}
	variablePartCode, err := s.resolver.CodeByID(ctx, cc.CompanyID, "0148")
	if err != nil {
		return nil, fmt.Errorf("resolve variable part code: %w", err)
	}

	affecting, err := s.ledger.SumAffectingAntiquity(ctx, cc.Period.Month, cc.Period.Year, cc.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("antiquity-affecting days: %w", err)
	}

	workedDays := decimal.NewFromInt(int64(dates.DaysBetween(cc.Contract.InitialContractDate, cc.Period.EndDate) + 1)).
		Add(affecting.Quantity)

	averageStart := cc.Contract.InitialContractDate
	if workedDays.GreaterThanOrEqual(decimal.NewFromInt(360)) {
		averageStart = dates.SubYears(cc.Period.EndDate, 1)
	}

	variablePartSum, err := s.ledger.SumValuesBetweenDates(ctx, cc.EmployeeID, averageStart, cc.Period.EndDate, movement.ConceptFilter{Code: &variablePartCode})
	if err != nil {
		return nil, fmt.Errorf("sum variable part: %w", err)
	}
	enjoyedDays, err := s.ledger.SumQuantitiesBetweenDates(ctx, cc.EmployeeID, cc.Contract.InitialContractDate, cc.Period.EndDate, movement.ConceptFilter{Code: &codes.Enjoyed})
	if err != nil {
		return nil, fmt.Errorf("sum enjoyed vacations: %w", err)
	}
	compensatedDays, err := s.ledger.SumQuantitiesBetweenDates(ctx, cc.EmployeeID, cc.Contract.InitialContractDate, cc.Period.EndDate, movement.ConceptFilter{Code: &codes.Compensated})
	if err != nil {
		return nil, fmt.Errorf("sum compensated vacations: %w", err)
	}

	prevDays, prevValue, err := s.previousPeriodBalance(ctx, cc, codes.NewBalance)
	if err != nil {
		return nil, err
	}

	enjoyedNow, err := s.ledger.ByConceptPeriodNumber(ctx, cc.EmployeeID, cc.Period.Year, cc.Period.Number, codes.Enjoyed)
	if err != nil {
		return nil, fmt.Errorf("enjoyed vacations this period: %w", err)
	}
	compensatedNow, err := s.ledger.ByConceptPeriodNumber(ctx, cc.EmployeeID, cc.Period.Year, cc.Period.Number, codes.Compensated)
	if err != nil {
		return nil, fmt.Errorf("compensated vacations this period: %w", err)
	}

	variableBase := variablePartSum.Div(decimal.NewFromInt(360)).Mul(thirty)
	dailyBase := variableBase.Add(cc.Salary.Salary).Div(thirty)

	paidDays := enjoyedDays.Add(compensatedDays).Add(cc.VacationHistory)
	newBalanceDays := workedDays.Mul(decimal.NewFromInt(15)).Div(decimal.NewFromInt(360)).Sub(paidDays)
	newBalanceValue := newBalanceDays.Mul(dailyBase)

	paidNowDays := enjoyedNow.Quantity.Add(compensatedNow.Quantity)
	provisionDays := newBalanceDays.Sub(paidNowDays).Sub(prevDays)
	provisionValue := provisionDays.Mul(dailyBase)

	rows := []ledger.Row{
		{Code: codes.WorkedDays, Quantity: workedDays, Value: decimal.Zero},
		{Code: codes.VariableBase, Quantity: decimal.Zero, Value: variableBase},
		{Code: codes.StaticBase, Quantity: decimal.Zero, Value: cc.Salary.Salary},
		{Code: codes.ProvisionBase, Quantity: decimal.Zero, Value: variableBase.Add(cc.Salary.Salary)},
		{Code: codes.NewBalance, Quantity: newBalanceDays, Value: newBalanceValue},
		{Code: codes.PreviousBalance, Quantity: prevDays, Value: prevValue},
		{Code: codes.Provision, Quantity: provisionDays, Value: provisionValue},
	}
	return s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
}
