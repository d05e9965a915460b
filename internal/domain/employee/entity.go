package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the flattened, pre-joined payroll view of an employee: the
// active salary and contract facts a calculation run needs. Read-only input
// to a job; the engine never mutates it.
type Employee struct {
	ID             string
	CompanyID      string
	Identification string
	FirstName      string
	Surname        string

	Salary            decimal.Decimal
	SalaryTypeCode    string
	VariableSalary    bool
	InitialSalaryDate time.Time
	EndSalaryDate     time.Time

	CodeContractRegime      string
	CodeContributorType     string
	PercentageWorkPlaceRisk decimal.Decimal
	TransportAssistance     bool
	InitialContractDate     time.Time
	EndContractDate         time.Time

	// VacationHistory is the vacation-day carry-in recorded outside the
	// movement ledger (days already enjoyed before this system took over).
	VacationHistory decimal.Decimal
}
