package payroll

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
	"github.com/nominaplus/payroll-engine/internal/pkg/dates"
	"github.com/nominaplus/payroll-engine/internal/service/ledger"
)

var thirty = decimal.NewFromInt(30)

// calculateSalary posts the period salary on the concept matching the
// employee's salary type, discounting the absent days already counted, plus
// the worked days counter every later stage reads back.
func (s *Service) calculateSalary(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts, buf *payroll.MovementBuffer) error {
	codes, err := s.resolver.SalaryCodes(ctx, cc.CompanyID)
	if err != nil {
		return fmt.Errorf("resolve salary codes: %w", err)
	}

	var salaryCode string
	switch cc.Salary.SalaryTypeCode {
	case codes.OrdinaryType:
		salaryCode = codes.Ordinary
	case codes.IntegralType:
		salaryCode = codes.Integral
	case codes.SustenanceType:
		salaryCode = codes.Sustenance
	case codes.PensionAllowType:
		salaryCode = codes.PensionAllow
	default:
		return fmt.Errorf("unknown salary type code %q for employee %s", cc.Salary.SalaryTypeCode, cc.EmployeeID)
	}

	numDaysPeriod := dates.NumberDays(cc.Period.InitialDate, cc.Period.EndDate)
	workedDays := dates.WorkedDays(cc.Contract.InitialContractDate, cc.Contract.EndContractDate, cc.Period.InitialDate, cc.Period.EndDate, numDaysPeriod)

	daysSalary := workedDays - cc.TotalAbsentDays
	if daysSalary < 0 {
		daysSalary = 0
	}
	value := cc.Salary.Salary.Div(thirty).Mul(decimal.NewFromInt(int64(daysSalary))).Round(0)

	rows := []ledger.Row{
		{Code: codes.WorkedDaysPeriod, Quantity: decimal.NewFromInt(int64(workedDays)), Value: decimal.Zero},
		{Code: salaryCode, Quantity: decimal.NewFromInt(int64(daysSalary)), Value: value},
	}
	movements, err := s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
	if err != nil {
		return err
	}
	buf.Add(movements...)
	cc.RawSalary = value
	return nil
}
