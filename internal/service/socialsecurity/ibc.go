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

var thirty = decimal.NewFromInt(30)

// CalculateIBC computes the social security contribution base for the
// period. The base sums every security-base movement of the month, adds
// absence sub-bases priced at the previous month's base (or the current
// salary), adds the 1393 excess, clamps to [SMLV, TMSA*SMLV] and nets out
// any base already posted this month. The result is stored on the context
// for the contribution calculators.
func (s *Service) CalculateIBC(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) ([]movement.Movement, error) {
	codes, err := s.resolver.IBCCodes(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve ibc codes: %w", err)
	}
	rates, err := s.resolver.IBCRates(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve ibc rates: %w", err)
	}

	month := cc.Period.Month
	totalSecurityBase, err := s.ledger.SumValues(ctx, cc.EmployeeID, cc.Period.Year, &month, nil, movement.ConceptFilter{SecurityBase: boolPtr(true)})
	if err != nil {
		return nil, fmt.Errorf("sum security base: %w", err)
	}
	prevMonthBase, err := s.ledger.SumMonthlyValueByConcept(ctx, cc.EmployeeID, cc.Period.Year, cc.Period.Month-1, codes.HealthBase)
	if err != nil {
		return nil, fmt.Errorf("previous month health base: %w", err)
	}

	vacBase, err := s.absenceSubBase(ctx, cc, "0030", prevMonthBase)
	if err != nil {
		return nil, err
	}
	paidLeaveBase, err := s.absenceSubBase(ctx, cc, "0031", prevMonthBase)
	if err != nil {
		return nil, err
	}
	unpaidLeaveBase, err := s.absenceSubBase(ctx, cc, "0032", prevMonthBase)
	if err != nil {
		return nil, err
	}

	rows := []ledger.Row{
		{Code: codes.HealthBasePrevMonth, Quantity: decimal.Zero, Value: prevMonthBase},
		{Code: codes.VacationsBase, Quantity: vacBase.days, Value: vacBase.value},
		{Code: codes.PaidLeave, Quantity: paidLeaveBase.days, Value: paidLeaveBase.value},
		{Code: codes.NoPaidLeave, Quantity: unpaidLeaveBase.days, Value: unpaidLeaveBase.value},
	}

	securityBase := totalSecurityBase
	if cc.Contract.RegimeCode == codes.IntegralRegime {
		securityBase = totalSecurityBase.Mul(rates.TSSI.Div(decimal.NewFromInt(100)))
	}

	ibc := securityBase.
		Add(vacBase.value).
		Add(paidLeaveBase.value).
		Add(unpaidLeaveBase.value).
		Add(cc.Excess1393)

	// Half-month periods clamp against half the minimum wage.
	smlv := rates.SMLV
	if cc.Period.EndDate.Day() == 15 {
		smlv = smlv.Div(decimal.NewFromInt(2))
	}

	posted, err := s.ledger.ByConceptMonth(ctx, cc.EmployeeID, cc.Period.Year, cc.Period.Month, codes.HealthBase)
	if err != nil {
		return nil, fmt.Errorf("posted health base: %w", err)
	}

	maxIBC := rates.TMSA.Mul(smlv)
	switch {
	case ibc.GreaterThan(maxIBC):
		ibc = maxIBC.Sub(posted.Value)
	case ibc.LessThan(smlv):
		ibc = smlv.Sub(posted.Value)
	default:
		ibc = ibc.Sub(posted.Value)
	}

	rows = append(rows, ledger.Row{Code: codes.HealthBase, Quantity: decimal.Zero, Value: ibc})

	movements, err := s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
	if err != nil {
		return nil, err
	}

	cc.IBC = ibc
	return movements, nil
}

type subBase struct {
	days  decimal.Decimal
	value decimal.Decimal
}

// absenceSubBase prices the period's absences of one type at the previous
// month's base, falling back to the current salary.
func (s *Service) absenceSubBase(ctx context.Context, cc *payroll.CalcContext, catalogID string, prevMonthBase decimal.Decimal) (subBase, error) {
	typeCode, err := s.resolver.CodeByID(ctx, cc.CompanyID, catalogID)
	if err != nil {
		return subBase{}, fmt.Errorf("resolve absence type %s: %w", catalogID, err)
	}

	days, err := s.absences.TotalAbsentDays(ctx, cc.EmployeeID, cc.Period.InitialDate, cc.Period.EndDate, typeCode)
	if err != nil {
		return subBase{}, fmt.Errorf("absent days for %s: %w", typeCode, err)
	}
	if days <= 0 {
		return subBase{days: decimal.Zero, value: decimal.Zero}, nil
	}

	base := cc.Salary.Salary
	if prevMonthBase.GreaterThan(decimal.Zero) {
		base = prevMonthBase
	}
	value := base.Div(thirty).Mul(decimal.NewFromInt(int64(days)))
	return subBase{days: decimal.NewFromInt(int64(days)), value: value}, nil
}

func boolPtr(b bool) *bool { return &b }
