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

var hundred = decimal.NewFromInt(100)

// runSocialSecurity settles the contribution base and the five
// contributions. The law 1393 excess and the IBC run first because every
// contribution prices off the base they fix on the context. The stage runs
// inside the liquidation transaction, so the contributions stay sequential:
// the transaction connection does not take concurrent queries.
func (s *Service) runSocialSecurity(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) error {
	var buf payroll.MovementBuffer

	if err := s.calculateExcess1393(ctx, cc, concepts, &buf); err != nil {
		return err
	}

	ibc, err := s.social.CalculateIBC(ctx, cc, concepts)
	if err != nil {
		return err
	}
	buf.Add(ibc...)

	contributions := []func(context.Context, *payroll.CalcContext, concept.CompanyConcepts) ([]movement.Movement, error){
		s.social.CalculateHealth,
		s.social.CalculatePension,
		s.social.CalculateSolidarity,
		s.social.CalculateParafiscal,
		s.social.CalculateRisk,
	}
	for _, calculate := range contributions {
		movements, err := calculate(ctx, cc, concepts)
		if err != nil {
			return err
		}
		buf.Add(movements...)
	}

	return s.ledger.SaveAll(ctx, buf.Drain())
}

// calculateExcess1393 splits the month's earnings into salary and
// non-salary totals and computes how much of the non-salary part exceeds
// the law 1393 exempt share. The excess joins the contribution base. A
// salary-only month carries no excess and posts only the informational
// totals. When a previous run of the month already posted an excess, only
// the delta is carried, with a one-peso fallback so the posting never nets
// to zero and gets lost on the next regeneration.
func (s *Service) calculateExcess1393(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts, buf *payroll.MovementBuffer) error {
	codes, err := s.resolver.Excess1393Codes(ctx, cc.CompanyID)
	if err != nil {
		return fmt.Errorf("resolve law 1393 codes: %w", err)
	}

	month := cc.Period.Month
	totalSalary, err := s.ledger.SumValues(ctx, cc.EmployeeID, cc.Period.Year, &month, nil, movement.ConceptFilter{SalaryBase: boolPtr(true)})
	if err != nil {
		return fmt.Errorf("sum salary earnings: %w", err)
	}
	totalNoSalary, err := s.ledger.SumValues(ctx, cc.EmployeeID, cc.Period.Year, &month, nil, movement.ConceptFilter{SalaryBase: boolPtr(false)})
	if err != nil {
		return fmt.Errorf("sum non-salary earnings: %w", err)
	}

	totalBaseCree := totalSalary.Add(totalNoSalary)
	cc.TotalBaseCree = totalBaseCree

	rows := []ledger.Row{
		{Code: codes.SalariesPay, Quantity: decimal.Zero, Value: totalSalary},
		{Code: codes.SalariesNoPay, Quantity: decimal.Zero, Value: totalNoSalary},
		{Code: codes.TotalBaseCree, Quantity: decimal.Zero, Value: totalBaseCree},
	}

	excess := decimal.Zero
	if totalNoSalary.IsPositive() && cc.Settings.Law1393 {
		top, err := s.resolver.ConstantByCode(ctx, cc.CompanyID, codes.TopLaw1393)
		if err != nil {
			return fmt.Errorf("law 1393 top: %w", err)
		}
		exemptBase := totalBaseCree.Mul(top).Div(hundred)
		rows = append(rows, ledger.Row{Code: codes.ExemptBase, Quantity: decimal.Zero, Value: exemptBase})

		excess = decimal.Max(decimal.Zero, totalNoSalary.Sub(exemptBase))

		prior, found, err := s.ledger.FindByConceptMonth(ctx, cc.EmployeeID, cc.Period.Year, month, codes.Excess)
		if err != nil {
			return fmt.Errorf("prior excess posting: %w", err)
		}
		if found {
			adjusted := decimal.Max(decimal.Zero, excess.Sub(prior.Value))
			if adjusted.IsZero() {
				adjusted = prior.Value.Sub(decimal.NewFromInt(1))
			}
			excess = adjusted
		}
		rows = append(rows, ledger.Row{Code: codes.Excess, Quantity: decimal.Zero, Value: decimal.Max(decimal.Zero, excess)})
	}
	cc.Excess1393 = excess

	movements, err := s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
	if err != nil {
		return err
	}
	buf.Add(movements...)
	return nil
}

func boolPtr(b bool) *bool { return &b }
