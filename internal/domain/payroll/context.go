package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/company"
	"github.com/nominaplus/payroll-engine/internal/domain/movement"
)

// SalaryData is the salary slice of the calculation context.
type SalaryData struct {
	Salary         decimal.Decimal
	SalaryTypeCode string
	VariableSalary bool
}

// ContractData is the contract slice of the calculation context.
type ContractData struct {
	RegimeCode          string
	ContributorTypeCode string
	RiskPercentage      decimal.Decimal
	TransportAssistance bool
	VariableSalary      bool
	InitialContractDate time.Time
	EndContractDate     time.Time
}

// CalcContext carries everything one liquidation run knows. It is built once
// per job and mutated only by the pipeline stages that produce the running
// aggregates (absent days, raw salary, 1393 excess, IBC).
type CalcContext struct {
	EmployeeID string
	CompanyID  string
	Period     *Period

	Salary   SalaryData
	Contract ContractData
	Settings company.PayrollSettings

	// VacationHistory is the vacation-day carry-in from before the ledger.
	VacationHistory decimal.Decimal

	// Running aggregates, filled as stages complete.
	TotalAbsentDays int
	RawSalary       decimal.Decimal
	Excess1393      decimal.Decimal
	TotalBaseCree   decimal.Decimal
	IBC             decimal.Decimal
}

// Valid reports whether the context has the fields every stage relies on.
func (c *CalcContext) Valid() bool {
	return c.EmployeeID != "" && c.CompanyID != "" && c.Period != nil
}

// MovementBuffer collects the movements of one pipeline stage before they
// are persisted in a batch.
type MovementBuffer struct {
	movements []movement.Movement
}

func (b *MovementBuffer) Add(movements ...movement.Movement) {
	b.movements = append(b.movements, movements...)
}

func (b *MovementBuffer) Drain() []movement.Movement {
	out := b.movements
	b.movements = nil
	return out
}

func (b *MovementBuffer) Len() int { return len(b.movements) }
