package movement

import (
	"github.com/shopspring/decimal"
)

// Movement is one posted ledger row: a quantity (days or units) and a
// monetary value tied to a payroll concept for one employee and period.
// Rows are immutable once posted; recalculation deletes and regenerates them.
type Movement struct {
	ID         string
	EmployeeID string
	CompanyID  string
	PeriodID   string
	ConceptID  string
	Quantity   decimal.Decimal
	Value      decimal.Decimal
	Year       int
	Month      int

	// Joined fields
	ConceptCode string
}

// QuantityValue is the (quantity, value) pair of a single ledger row, or
// zeros when the row does not exist.
type QuantityValue struct {
	Quantity decimal.Decimal
	Value    decimal.Decimal
}

// IsZero reports whether both quantity and value are exactly zero. Such
// movements are never persisted.
func (m Movement) IsZero() bool {
	return m.Quantity.IsZero() && m.Value.IsZero()
}

// ConceptFilter narrows aggregate queries to movements whose concept has the
// given base flags / code. Nil fields are not applied; set fields combine
// with AND.
type ConceptFilter struct {
	Code           *string
	SalaryBase     *bool
	SecurityBase   *bool
	RiskBase       *bool
	ParafiscalBase *bool
	TransportBase  *bool
	PrimaLegalBase *bool
	SeveranceBase  *bool
	RetentionBase  *bool
}
