package refdata

import (
	"context"

	"github.com/shopspring/decimal"
)

// Constant groups resolved per calculator. Each field is loaded by catalog
// id through the company snapshot; a missing constant fails the whole group.

type constantLookup struct {
	r         *Resolver
	ctx       context.Context
	companyID string
	err       error
}

func (l *constantLookup) value(id string) decimal.Decimal {
	if l.err != nil {
		return decimal.Zero
	}
	v, err := l.r.ConstantByID(l.ctx, l.companyID, id)
	if err != nil {
		l.err = err
		return decimal.Zero
	}
	return v
}

// SickLeaveRates hold the disability payment percentages by tier plus the
// employer grace days (Dige) and the extra assistance rate (Auxe).
type SickLeaveRates struct {
	SMLV decimal.Decimal
	Dige decimal.Decimal
	Pem2 decimal.Decimal
	Pep3 decimal.Decimal
	Pep5 decimal.Decimal
	Pep8 decimal.Decimal
	Pep9 decimal.Decimal
	Auxe decimal.Decimal
}

func (r *Resolver) SickLeaveRates(ctx context.Context, companyID string) (SickLeaveRates, error) {
	l := &constantLookup{r: r, ctx: ctx, companyID: companyID}
	rates := SickLeaveRates{
		SMLV: l.value("0035"),
		Dige: l.value("0085"),
		Pem2: l.value("0086"),
		Pep3: l.value("0087"),
		Pep5: l.value("0090"),
		Pep8: l.value("0089"),
		Pep9: l.value("0088"),
		Auxe: l.value("0112"),
	}
	return rates, l.err
}

// IBCRates bound the contribution base: TSSI scales integral salaries, TMSA
// caps the base in minimum wages, SMLV floors it.
type IBCRates struct {
	TSSI decimal.Decimal
	TMSA decimal.Decimal
	SMLV decimal.Decimal
}

func (r *Resolver) IBCRates(ctx context.Context, companyID string) (IBCRates, error) {
	l := &constantLookup{r: r, ctx: ctx, companyID: companyID}
	rates := IBCRates{
		TSSI: l.value("0033"),
		TMSA: l.value("0034"),
		SMLV: l.value("0035"),
	}
	return rates, l.err
}

type HealthRates struct {
	EmployeeRate decimal.Decimal
	EmployerRate decimal.Decimal
	MinWage      decimal.Decimal
}

func (r *Resolver) HealthRates(ctx context.Context, companyID string) (HealthRates, error) {
	l := &constantLookup{r: r, ctx: ctx, companyID: companyID}
	rates := HealthRates{
		EmployeeRate: l.value("0037"),
		EmployerRate: l.value("0040"),
		MinWage:      l.value("0035"),
	}
	return rates, l.err
}

// RetireeHealthRate picks the retiree contribution tier by salary: at or
// below one minimum wage, up to two, or above.
func (r *Resolver) RetireeHealthRate(ctx context.Context, companyID string, salary, minWage decimal.Decimal) (decimal.Decimal, error) {
	id := "0043"
	if salary.LessThanOrEqual(minWage) {
		id = "0041"
	} else if salary.LessThanOrEqual(minWage.Mul(decimal.NewFromInt(2))) {
		id = "0042"
	}
	return r.ConstantByID(ctx, companyID, id)
}

type PensionRates struct {
	EmployeeRate decimal.Decimal
	EmployerRate decimal.Decimal
}

func (r *Resolver) PensionRates(ctx context.Context, companyID string) (PensionRates, error) {
	l := &constantLookup{r: r, ctx: ctx, companyID: companyID}
	rates := PensionRates{
		EmployeeRate: l.value("0039"),
		EmployerRate: l.value("0038"),
	}
	return rates, l.err
}

type ParafiscalRates struct {
	IcbfRate decimal.Decimal
	SenaRate decimal.Decimal
	CajaRate decimal.Decimal
	TSSI     decimal.Decimal
	Cree     decimal.Decimal
	SMLV     decimal.Decimal
}

func (r *Resolver) ParafiscalRates(ctx context.Context, companyID string) (ParafiscalRates, error) {
	l := &constantLookup{r: r, ctx: ctx, companyID: companyID}
	rates := ParafiscalRates{
		IcbfRate: l.value("0071"),
		SenaRate: l.value("0073"),
		CajaRate: l.value("0074"),
		TSSI:     l.value("0033"),
		Cree:     l.value("0072"),
		SMLV:     l.value("0035"),
	}
	return rates, l.err
}

type RiskRates struct {
	TMRI decimal.Decimal
	SMLV decimal.Decimal
	TSSI decimal.Decimal
}

func (r *Resolver) RiskRates(ctx context.Context, companyID string) (RiskRates, error) {
	l := &constantLookup{r: r, ctx: ctx, companyID: companyID}
	rates := RiskRates{
		TMRI: l.value("0069"),
		SMLV: l.value("0035"),
		TSSI: l.value("0033"),
	}
	return rates, l.err
}

// TransportRates hold the eligibility threshold in minimum wages (TTLE) and
// the monthly transport allowance (AUTL).
type TransportRates struct {
	TTLE decimal.Decimal
	AUTL decimal.Decimal
	SMLV decimal.Decimal
}

func (r *Resolver) TransportRates(ctx context.Context, companyID string) (TransportRates, error) {
	l := &constantLookup{r: r, ctx: ctx, companyID: companyID}
	rates := TransportRates{
		TTLE: l.value("0082"),
		AUTL: l.value("0083"),
		SMLV: l.value("0035"),
	}
	return rates, l.err
}
