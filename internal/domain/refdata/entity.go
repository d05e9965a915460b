package refdata

import "github.com/shopspring/decimal"

// Code is a tenant-scoped catalog row. Concepts, absence types, constants
// and salary types all resolve through codes first.
type Code struct {
	ID          string
	CompanyID   string
	Code        string
	Description string
	Category    string
	IsActive    bool
}

// Constant is a numeric parameter attached to a code, for example the
// minimum legal wage or a contribution percentage.
type Constant struct {
	ID     string
	CodeID string
	Code   string
	Value  decimal.Decimal
}

// SolidarityBracket is one row of the pension solidarity fund table. Salary
// bounds are expressed in minimum wages.
type SolidarityBracket struct {
	ID             string
	SalaryMin      decimal.Decimal
	SalaryMax      decimal.Decimal
	Percentage     decimal.Decimal
	PerSolidarity  decimal.Decimal
	PerSubsistence decimal.Decimal
	IsPensionary   bool
}
