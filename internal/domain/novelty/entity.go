package novelty

import (
	"time"

	"github.com/shopspring/decimal"
)

// AbsenteeHistory is one absence spell. Base is the salary snapshot taken
// when the absence was reported; ReferenceInability links extension spells
// to the disability they continue.
type AbsenteeHistory struct {
	ID                 string
	EmployeeID         string
	AbsenteeTypeID     string
	TypeCode           string
	InitialDate        time.Time
	EndDate            time.Time
	Base               decimal.Decimal
	ReferenceInability string
	Quantity           int
	IsActive           bool
}

// RecurrentPayment is a standing instruction that posts a fixed-value
// movement every period unless a novelty movement for the same concept
// supersedes it.
type RecurrentPayment struct {
	ID         string
	EmployeeID string
	ConceptID  string
	Value      decimal.Decimal
	IsActive   bool
}
