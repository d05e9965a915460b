package movement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository defines the movement ledger data access methods. Aggregate
// queries default missing results to zero, never an error; single-row
// lookups return ErrMovementNotFound.
type Repository interface {
	// InTransaction runs fn with every repository call on its context joined
	// into one transaction, rolled back when fn errors.
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// BulkSave appends the given rows to the ledger.
	BulkSave(ctx context.Context, movements []Movement) error

	// DeleteByConcepts removes every row of the (employee, period) pair whose
	// concept is in conceptIDs.
	DeleteByConcepts(ctx context.Context, employeeID, companyID, periodID string, conceptIDs []string) error

	// SumValues sums movement values for the employee and year, optionally
	// narrowed to a month and/or period, filtered by concept flags.
	SumValues(ctx context.Context, employeeID string, year int, month *int, periodID *string, filter ConceptFilter) (decimal.Decimal, error)

	// SumValuesBetweenDates sums movement values for movements whose period
	// window falls inside [from, to].
	SumValuesBetweenDates(ctx context.Context, employeeID string, from, to time.Time, filter ConceptFilter) (decimal.Decimal, error)

	// SumQuantitiesBetweenDates is SumValuesBetweenDates over quantities.
	SumQuantitiesBetweenDates(ctx context.Context, employeeID string, from, to time.Time, filter ConceptFilter) (decimal.Decimal, error)

	// GetByConceptMonth returns the single row posted for the concept code in
	// the given month.
	GetByConceptMonth(ctx context.Context, employeeID string, year, month int, code string) (QuantityValue, error)

	// GetByConceptAndPeriodNumber returns the single row posted for the
	// concept code in the given period number of the year.
	GetByConceptAndPeriodNumber(ctx context.Context, employeeID string, year, periodNumber int, code string) (QuantityValue, error)

	// SumMonthlyValueByConcept sums values for one concept code in a month.
	SumMonthlyValueByConcept(ctx context.Context, employeeID string, year, month int, code string) (decimal.Decimal, error)

	// SumAffectingAntiquity totals quantity/value of the month's movements
	// whose concept is linked to an absence type with affectsAntiquity set.
	SumAffectingAntiquity(ctx context.Context, month, year int, employeeID string) (QuantityValue, error)

	// NoveltiesInPeriod lists the period's movements whose concept is marked
	// as a novelty concept.
	NoveltiesInPeriod(ctx context.Context, employeeID, companyID, periodID string) ([]Movement, error)
}
