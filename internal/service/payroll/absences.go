package payroll

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
	"github.com/nominaplus/payroll-engine/internal/service/ledger"
)

// postAbsences classifies the period's sick leaves and licenses and posts
// one movement per bucket, plus the total absent days counter the salary
// calculator discounts.
func (s *Service) postAbsences(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts, buf *payroll.MovementBuffer) error {
	codes, err := s.resolver.AbsencePostingCodes(ctx, cc.CompanyID)
	if err != nil {
		return fmt.Errorf("resolve absence posting codes: %w", err)
	}

	sick, err := s.absences.ProcessSickLeave(ctx, cc.CompanyID, cc.EmployeeID, cc.Period.InitialDate, cc.Period.EndDate, cc.Settings.AssistanceType)
	if err != nil {
		return err
	}
	licenses, err := s.absences.ProcessLicenses(ctx, cc.CompanyID, cc.EmployeeID, cc.Period.InitialDate, cc.Period.EndDate)
	if err != nil {
		return err
	}
	totalDays, err := s.absences.TotalAbsentDays(ctx, cc.EmployeeID, cc.Period.InitialDate, cc.Period.EndDate, "")
	if err != nil {
		return err
	}

	rows := []ledger.Row{
		{Code: codes.EmployerDisability, Quantity: sick.EmpDays, Value: sick.EmpVal},
		{Code: codes.EPSDisability, Quantity: sick.EpsDays, Value: sick.EpsVal},
		{Code: codes.EPSDisabilityExt, Quantity: sick.EpsExtDays, Value: sick.EpsExtVal},
		{Code: codes.EPSHospital, Quantity: sick.EpsHosDays, Value: sick.EpsHosVal},
		{Code: codes.EPSHospitalExt, Quantity: sick.EpsHosExtDays, Value: sick.EpsHosExtVal},
		{Code: codes.EmployerAccident, Quantity: sick.EmpActDays, Value: sick.EmpActVal},
		{Code: codes.EPSAccident, Quantity: sick.EpsActDays, Value: sick.EpsActVal},
		{Code: codes.EPSAccidentExt, Quantity: sick.EpsActExtDays, Value: sick.EpsActExtVal},
		{Code: codes.EPSOccupational, Quantity: sick.EpsEnlDays, Value: sick.EpsEnlVal},
		{Code: codes.EPSOccupationalExt, Quantity: sick.EpsEnlExtDays, Value: sick.EpsEnlExtVal},
		{Code: codes.EmployerAssistance, Quantity: sick.EmpAdiDays, Value: sick.EmpAdiVal},
		{Code: codes.LicensePaid, Quantity: licenses.PaidDays, Value: licenses.PaidValue},
		{Code: codes.LicenseUnpaid, Quantity: licenses.UnpaidDays, Value: decimal.Zero},
		{Code: codes.Suspension, Quantity: licenses.SuspensionDays, Value: decimal.Zero},
		{Code: codes.Paternity, Quantity: licenses.PaternityDays, Value: licenses.PaternityValue},
		{Code: codes.Maternity, Quantity: licenses.MaternityDays, Value: licenses.MaternityValue},
	}
	if totalDays > 0 {
		rows = append(rows, ledger.Row{Code: codes.TotalAbsentDays, Quantity: decimal.NewFromInt(int64(totalDays)), Value: decimal.Zero})
	}

	movements, err := s.ledger.BuildAll(cc.EmployeeID, cc.CompanyID, cc.Period, concepts, rows)
	if err != nil {
		return err
	}
	buf.Add(movements...)
	cc.TotalAbsentDays = totalDays
	return nil
}
