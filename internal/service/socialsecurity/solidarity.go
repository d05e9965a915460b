package socialsecurity

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	"github.com/nominaplus/payroll-engine/internal/domain/movement"
	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
	"github.com/nominaplus/payroll-engine/internal/domain/refdata"
	"github.com/nominaplus/payroll-engine/internal/service/ledger"
)

// CalculateSolidarity applies the pension solidarity fund bracket matching
// the salary. Apprentices and retirees are excluded. A salary below every
// bracket simply contributes nothing.
func (s *Service) CalculateSolidarity(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) ([]movement.Movement, error) {
	codes, err := s.resolver.SolidarityCodes(ctx, cc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve solidarity codes: %w", err)
	}

	if cc.Contract.RegimeCode == codes.ApprenticeRegime || cc.Contract.RegimeCode == codes.RetireeRegime {
		return nil, nil
	}

	smlv, err := s.resolver.ConstantByID(ctx, cc.CompanyID, "0035")
	if err != nil {
		return nil, fmt.Errorf("minimum wage: %w", err)
	}

	// Bracket bounds are expressed in minimum wages.
	bracket, err := s.resolver.SolidarityBracket(ctx, cc.Salary.Salary.Div(smlv), true)
	if err != nil && !errors.Is(err, refdata.ErrBracketNotFound) {
		return nil, fmt.Errorf("solidarity bracket: %w", err)
	}

	var percentage, perSolidarity, perSubsistence decimal.Decimal
	if bracket != nil {
		percentage = bracket.Percentage
		perSolidarity = bracket.PerSolidarity
		perSubsistence = bracket.PerSubsistence
	}

	total := cc.IBC.Mul(percentage.Div(hundred))
	solidarityFund := total.Mul(perSolidarity.Div(hundred))
	subsistenceFund := total.Mul(perSubsistence.Div(hundred))

	rows := []ledger.Row{
		{Code: codes.TotalAport, Quantity: decimal.Zero, Value: total},
		{Code: codes.SolidarityFund, Quantity: decimal.Zero, Value: solidarityFund},
		{Code: codes.SubsistenceFund, Quantity: decimal.Zero, Value: subsistenceFund},
	}
	return s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
}
