package novelty

import (
	"context"
	"time"
)

type AbsenteeRepository interface {
	// ListOverlapping returns active absences of the given type codes whose
	// date range intersects [from, to].
	ListOverlapping(ctx context.Context, employeeID string, from, to time.Time, typeCodes []string) ([]AbsenteeHistory, error)
	// InitialDays returns the quantity of the first spell in a disability
	// chain, walking ReferenceInability links back to the root.
	InitialDays(ctx context.Context, id string) (int, error)
	// DaysByReference sums the days of every spell in the chain rooted at
	// reference that started strictly before the given date.
	DaysByReference(ctx context.Context, reference string, before time.Time) (int, error)
}

type RecurrentRepository interface {
	ListActive(ctx context.Context, employeeID string) ([]RecurrentPayment, error)
}
