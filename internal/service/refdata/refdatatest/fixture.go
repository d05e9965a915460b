// Package refdatatest provides an in-memory code catalog for calculator
// tests, so they can exercise the real Resolver without Postgres or Redis.
package refdatatest

import (
	"context"

	"github.com/shopspring/decimal"

	domain "github.com/nominaplus/payroll-engine/internal/domain/refdata"
	"github.com/nominaplus/payroll-engine/internal/service/refdata"
)

// Repo is an in-memory refdata.Repository.
type Repo struct {
	Codes     []domain.Code
	Constants []domain.Constant
	Brackets  []domain.SolidarityBracket
}

func (r *Repo) ListCodes(ctx context.Context, companyID string) ([]domain.Code, error) {
	return r.Codes, nil
}

func (r *Repo) ListConstants(ctx context.Context, companyID string) ([]domain.Constant, error) {
	return r.Constants, nil
}

func (r *Repo) FindSolidarityBracket(ctx context.Context, salaryInWages decimal.Decimal, isPensionary bool) (*domain.SolidarityBracket, error) {
	for i, b := range r.Brackets {
		if b.IsPensionary == isPensionary &&
			salaryInWages.GreaterThanOrEqual(b.SalaryMin) &&
			salaryInWages.LessThanOrEqual(b.SalaryMax) {
			return &r.Brackets[i], nil
		}
	}
	return nil, domain.ErrBracketNotFound
}

// Fixture accumulates catalog rows and builds a Resolver over them.
type Fixture struct {
	CompanyID string
	repo      *Repo
}

func NewFixture(companyID string) *Fixture {
	return &Fixture{CompanyID: companyID, repo: &Repo{}}
}

// WithCode registers a catalog id resolving to the given code value. Each
// company maps catalog ids to its own code values; tests usually map the id
// to itself prefixed with "C" to keep assertions readable.
func (f *Fixture) WithCode(catalogID, code string) *Fixture {
	f.repo.Codes = append(f.repo.Codes, domain.Code{
		ID:        catalogID,
		CompanyID: f.CompanyID,
		Code:      code,
		IsActive:  true,
	})
	return f
}

// WithCategoryCode registers a code under a catalog category, as absence
// type codes are.
func (f *Fixture) WithCategoryCode(catalogID, code, category string) *Fixture {
	f.repo.Codes = append(f.repo.Codes, domain.Code{
		ID:        catalogID,
		CompanyID: f.CompanyID,
		Code:      code,
		Category:  category,
		IsActive:  true,
	})
	return f
}

// WithConstant attaches a numeric value to an already registered catalog id.
func (f *Fixture) WithConstant(catalogID, value string) *Fixture {
	code := ""
	for _, c := range f.repo.Codes {
		if c.ID == catalogID {
			code = c.Code
			break
		}
	}
	if code == "" {
		code = "C" + catalogID
		f.WithCode(catalogID, code)
	}
	f.repo.Constants = append(f.repo.Constants, domain.Constant{
		CodeID: catalogID,
		Code:   code,
		Value:  decimal.RequireFromString(value),
	})
	return f
}

func (f *Fixture) WithBracket(b domain.SolidarityBracket) *Fixture {
	f.repo.Brackets = append(f.repo.Brackets, b)
	return f
}

// Resolver builds the real resolver over the fixture, without Redis.
func (f *Fixture) Resolver() *refdata.Resolver {
	return refdata.NewResolver(f.repo, nil)
}
