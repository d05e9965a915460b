package payroll

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	"github.com/nominaplus/payroll-engine/internal/domain/movement"
	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
	"github.com/nominaplus/payroll-engine/internal/service/ledger"
)

// runTransport grants the legal transport assistance. Eligibility compares
// the monthly salary against the threshold in minimum wages; variable
// salaries are measured by their previous month's transport base instead,
// falling back to the contract salary when there is no history yet.
func (s *Service) runTransport(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) error {
	if !cc.Contract.TransportAssistance {
		return nil
	}

	codes, err := s.resolver.TransportCodes(ctx, cc.CompanyID)
	if err != nil {
		return fmt.Errorf("resolve transport codes: %w", err)
	}
	rates, err := s.resolver.TransportRates(ctx, cc.CompanyID)
	if err != nil {
		return fmt.Errorf("resolve transport rates: %w", err)
	}

	var rows []ledger.Row

	// Variable salaries accumulate this period's transport-base earnings
	// so next month's eligibility check has something to measure.
	if cc.Contract.VariableSalary {
		base, err := s.ledger.SumValues(ctx, cc.EmployeeID, cc.Period.Year, nil, &cc.Period.ID, movement.ConceptFilter{TransportBase: boolPtr(true)})
		if err != nil {
			return fmt.Errorf("sum transport base: %w", err)
		}
		if !base.IsZero() {
			rows = append(rows, ledger.Row{Code: codes.TransportBase, Quantity: decimal.Zero, Value: base})
		}
	}

	threshold := rates.TTLE.Mul(rates.SMLV)
	earnings := cc.Salary.Salary
	if cc.Contract.VariableSalary {
		prevMonth, err := s.ledger.SumMonthlyValueByConcept(ctx, cc.EmployeeID, cc.Period.Year, cc.Period.Month-1, codes.TransportBase)
		if err != nil {
			return fmt.Errorf("previous month transport base: %w", err)
		}
		if prevMonth.IsPositive() {
			earnings = prevMonth
		}
	}

	if earnings.LessThanOrEqual(threshold) {
		worked, err := s.ledger.ByConceptPeriodNumber(ctx, cc.EmployeeID, cc.Period.Year, cc.Period.Number, codes.WorkedDaysPeriod)
		if err != nil {
			return fmt.Errorf("worked days movement: %w", err)
		}
		value := rates.AUTL.Div(thirty).Mul(worked.Quantity).Round(0)
		rows = append(rows, ledger.Row{Code: codes.LegalAssistance, Quantity: worked.Quantity, Value: value})
	}

	if len(rows) == 0 {
		return nil
	}
	movements, err := s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
	if err != nil {
		return err
	}
	return s.ledger.SaveAll(ctx, movements)
}
