// Package ledgertest provides an in-memory movement repository so the
// calculators can be tested against the real ledger service.
package ledgertest

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	"github.com/nominaplus/payroll-engine/internal/domain/movement"
	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
)

// Repo holds movements in memory and answers the aggregate queries the
// calculators run. Concepts and periods must be registered so the filter
// flags and period windows can be resolved, the same joins the SQL
// implementation performs.
type Repo struct {
	Movements []movement.Movement

	concepts map[string]concept.Concept
	periods  map[string]payroll.Period

	// AntiquitySum is returned verbatim by SumAffectingAntiquity.
	AntiquitySum movement.QuantityValue
}

func NewRepo() *Repo {
	return &Repo{
		concepts: make(map[string]concept.Concept),
		periods:  make(map[string]payroll.Period),
	}
}

func (r *Repo) RegisterConcept(c concept.Concept) {
	r.concepts[c.ID] = c
}

func (r *Repo) RegisterPeriod(p payroll.Period) {
	r.periods[p.ID] = p
}

// Seed adds a movement without going through BulkSave.
func (r *Repo) Seed(m movement.Movement) {
	r.Movements = append(r.Movements, m)
}

func (r *Repo) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *Repo) BulkSave(ctx context.Context, movements []movement.Movement) error {
	r.Movements = append(r.Movements, movements...)
	return nil
}

func (r *Repo) DeleteByConcepts(ctx context.Context, employeeID, companyID, periodID string, conceptIDs []string) error {
	drop := make(map[string]bool, len(conceptIDs))
	for _, id := range conceptIDs {
		drop[id] = true
	}
	kept := r.Movements[:0]
	for _, m := range r.Movements {
		if m.EmployeeID == employeeID && m.PeriodID == periodID && drop[m.ConceptID] {
			continue
		}
		kept = append(kept, m)
	}
	r.Movements = kept
	return nil
}

func (r *Repo) matchesFilter(m movement.Movement, f movement.ConceptFilter) bool {
	c, ok := r.concepts[m.ConceptID]
	if !ok {
		return false
	}
	checks := []struct {
		want *bool
		got  bool
	}{
		{f.SalaryBase, c.SalaryBase},
		{f.SecurityBase, c.SecurityBase},
		{f.RiskBase, c.RiskBase},
		{f.ParafiscalBase, c.ParafiscalBase},
		{f.TransportBase, c.TransportBase},
		{f.PrimaLegalBase, c.PrimaLegalBase},
		{f.SeveranceBase, c.SeveranceBase},
		{f.RetentionBase, c.RetentionBase},
	}
	for _, ch := range checks {
		if ch.want != nil && *ch.want != ch.got {
			return false
		}
	}
	if f.Code != nil && *f.Code != c.Code {
		return false
	}
	return true
}

func (r *Repo) SumValues(ctx context.Context, employeeID string, year int, month *int, periodID *string, filter movement.ConceptFilter) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.Movements {
		if m.EmployeeID != employeeID || m.Year != year {
			continue
		}
		if month != nil && m.Month != *month {
			continue
		}
		if periodID != nil && m.PeriodID != *periodID {
			continue
		}
		if !r.matchesFilter(m, filter) {
			continue
		}
		sum = sum.Add(m.Value)
	}
	return sum, nil
}

func (r *Repo) sumBetween(employeeID string, from, to time.Time, filter movement.ConceptFilter, quantities bool) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.Movements {
		if m.EmployeeID != employeeID {
			continue
		}
		p, ok := r.periods[m.PeriodID]
		if !ok || p.InitialDate.Before(from) || p.EndDate.After(to) {
			continue
		}
		if !r.matchesFilter(m, filter) {
			continue
		}
		if quantities {
			sum = sum.Add(m.Quantity)
		} else {
			sum = sum.Add(m.Value)
		}
	}
	return sum, nil
}

func (r *Repo) SumValuesBetweenDates(ctx context.Context, employeeID string, from, to time.Time, filter movement.ConceptFilter) (decimal.Decimal, error) {
	return r.sumBetween(employeeID, from, to, filter, false)
}

func (r *Repo) SumQuantitiesBetweenDates(ctx context.Context, employeeID string, from, to time.Time, filter movement.ConceptFilter) (decimal.Decimal, error) {
	return r.sumBetween(employeeID, from, to, filter, true)
}

func (r *Repo) GetByConceptMonth(ctx context.Context, employeeID string, year, month int, code string) (movement.QuantityValue, error) {
	for i := len(r.Movements) - 1; i >= 0; i-- {
		m := r.Movements[i]
		c, ok := r.concepts[m.ConceptID]
		if ok && m.EmployeeID == employeeID && m.Year == year && m.Month == month && c.Code == code {
			return movement.QuantityValue{Quantity: m.Quantity, Value: m.Value}, nil
		}
	}
	return movement.QuantityValue{}, movement.ErrMovementNotFound
}

func (r *Repo) GetByConceptAndPeriodNumber(ctx context.Context, employeeID string, year, periodNumber int, code string) (movement.QuantityValue, error) {
	for i := len(r.Movements) - 1; i >= 0; i-- {
		m := r.Movements[i]
		c, ok := r.concepts[m.ConceptID]
		if !ok || m.EmployeeID != employeeID || m.Year != year || c.Code != code {
			continue
		}
		if p, ok := r.periods[m.PeriodID]; ok && p.Number == periodNumber {
			return movement.QuantityValue{Quantity: m.Quantity, Value: m.Value}, nil
		}
	}
	return movement.QuantityValue{}, movement.ErrMovementNotFound
}

func (r *Repo) SumMonthlyValueByConcept(ctx context.Context, employeeID string, year, month int, code string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.Movements {
		c, ok := r.concepts[m.ConceptID]
		if ok && m.EmployeeID == employeeID && m.Year == year && m.Month == month && c.Code == code {
			sum = sum.Add(m.Value)
		}
	}
	return sum, nil
}

func (r *Repo) SumAffectingAntiquity(ctx context.Context, month, year int, employeeID string) (movement.QuantityValue, error) {
	return r.AntiquitySum, nil
}

func (r *Repo) NoveltiesInPeriod(ctx context.Context, employeeID, companyID, periodID string) ([]movement.Movement, error) {
	var out []movement.Movement
	for _, m := range r.Movements {
		c, ok := r.concepts[m.ConceptID]
		if ok && c.IsNovelty && m.EmployeeID == employeeID && m.PeriodID == periodID {
			m.ConceptCode = c.Code
			out = append(out, m)
		}
	}
	return out, nil
}
