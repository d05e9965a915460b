package absenteeism

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/novelty"
	"github.com/nominaplus/payroll-engine/internal/pkg/dates"
	"github.com/nominaplus/payroll-engine/internal/service/refdata"
)

const (
	categoryDisease = "DISEASE_ABSENTEE"
	categoryLicense = "LICENSE_ABSENTEE"
)

// Disability day tiers. Payment percentages change at each boundary.
const (
	tierFirst  = 90
	tierSecond = 180
	tierThird  = 540
)

// Service classifies absence spells that overlap a liquidation window and
// splits their days and money between the employer and the social security
// system (EPS).
type Service struct {
	absences novelty.AbsenteeRepository
	resolver *refdata.Resolver
}

func NewService(absences novelty.AbsenteeRepository, resolver *refdata.Resolver) *Service {
	return &Service{absences: absences, resolver: resolver}
}

// SickLeaveResult accumulates day counts and values per disability bucket.
// EMP buckets are employer-paid, EPS buckets fall on social security; HOS is
// hospitalization, EXT marks extension spells, ACT job accidents and ENL
// occupational disease.
type SickLeaveResult struct {
	EmpDays decimal.Decimal
	EmpVal  decimal.Decimal

	EpsDays decimal.Decimal
	EpsVal  decimal.Decimal

	EpsHosDays decimal.Decimal
	EpsHosVal  decimal.Decimal

	EpsExtDays decimal.Decimal
	EpsExtVal  decimal.Decimal

	EpsHosExtDays decimal.Decimal
	EpsHosExtVal  decimal.Decimal

	EmpActDays decimal.Decimal
	EmpActVal  decimal.Decimal

	EpsActDays decimal.Decimal
	EpsActVal  decimal.Decimal

	EpsActExtDays decimal.Decimal
	EpsActExtVal  decimal.Decimal

	EpsEnlDays decimal.Decimal
	EpsEnlVal  decimal.Decimal

	EpsEnlExtDays decimal.Decimal
	EpsEnlExtVal  decimal.Decimal

	EmpAdiDays decimal.Decimal
	EmpAdiVal  decimal.Decimal
}

// LicenseResult accumulates license days per class. Only paid classes carry
// values.
type LicenseResult struct {
	UnpaidDays     decimal.Decimal
	PaidDays       decimal.Decimal
	PaidValue      decimal.Decimal
	SuspensionDays decimal.Decimal
	PaternityDays  decimal.Decimal
	PaternityValue decimal.Decimal
	MaternityDays  decimal.Decimal
	MaternityValue decimal.Decimal
}

// SplitSpellDays clamps an absence spell to the liquidation window. days is
// the in-window portion, daysBefore the part of the spell consumed before
// the window opened.
func SplitSpellDays(iniDate, endDate, iniPeriod, endPeriod time.Time) (days, daysBefore int) {
	if iniDate.Before(iniPeriod) {
		if dates.IsSameOrBefore(endDate, endPeriod) {
			days = dates.NumberDays(iniPeriod, endDate)
		} else {
			days = dates.NumberDays(iniPeriod, endPeriod)
		}
		daysBefore = dates.NumberDays(iniDate, iniPeriod) - 1
		return days, daysBefore
	}
	if dates.IsSameOrBefore(endDate, endPeriod) {
		return dates.NumberDays(iniDate, endDate), 0
	}
	return dates.NumberDays(iniDate, endPeriod), 0
}

// valueOfDays prices days of absence at base/30 scaled by a percentage,
// floored at the minimum wage for the same number of days.
func valueOfDays(base decimal.Decimal, days int, percentage, smlv decimal.Decimal) decimal.Decimal {
	d := decimal.NewFromInt(int64(days))
	calculated := base.Div(decimal.NewFromInt(30)).Mul(d).Mul(percentage.Div(decimal.NewFromInt(100)))
	floor := smlv.Div(decimal.NewFromInt(30)).Mul(d)
	if calculated.GreaterThanOrEqual(floor) {
		return calculated
	}
	return floor
}

// ProcessSickLeave classifies every disease absence overlapping the window
// and returns the per-bucket totals. assistanceType selects which bucket the
// employer's additional assistance follows; empty means none.
func (s *Service) ProcessSickLeave(ctx context.Context, companyID, employeeID string, iniPeriod, endPeriod time.Time, assistanceType string) (SickLeaveResult, error) {
	var result SickLeaveResult

	validCodes, err := s.resolver.CodesByCategory(ctx, companyID, categoryDisease)
	if err != nil {
		return result, fmt.Errorf("resolve disease codes: %w", err)
	}
	if len(validCodes) == 0 {
		return result, nil
	}
	sickCodes, err := s.resolver.SickLeaveCodes(ctx, companyID)
	if err != nil {
		return result, fmt.Errorf("resolve sick leave codes: %w", err)
	}
	rates, err := s.resolver.SickLeaveRates(ctx, companyID)
	if err != nil {
		return result, fmt.Errorf("resolve sick leave rates: %w", err)
	}

	spells, err := s.absences.ListOverlapping(ctx, employeeID, iniPeriod, endPeriod, validCodes)
	if err != nil {
		return result, fmt.Errorf("list disease absences: %w", err)
	}

	var lastBase decimal.Decimal
	dige := int(rates.Dige.IntPart())

	for _, spell := range spells {
		days, daysBefore := SplitSpellDays(spell.InitialDate, spell.EndDate, iniPeriod, endPeriod)
		lastBase = spell.Base

		switch spell.TypeCode {
		case sickCodes.GeneralDisability, sickCodes.HospitalGeneralDisability:
			empDays, epsDays := splitByGraceDays(days, daysBefore, dige)
			empVal := valueOfDays(spell.Base, empDays, rates.Pem2, rates.SMLV)
			epsVal := valueOfDays(spell.Base, epsDays, rates.Pep3, rates.SMLV)

			result.EmpDays = result.EmpDays.Add(decimal.NewFromInt(int64(empDays)))
			result.EmpVal = result.EmpVal.Add(empVal)
			if spell.TypeCode == sickCodes.GeneralDisability {
				result.EpsDays = result.EpsDays.Add(decimal.NewFromInt(int64(epsDays)))
				result.EpsVal = result.EpsVal.Add(epsVal)
			} else {
				result.EpsHosDays = result.EpsHosDays.Add(decimal.NewFromInt(int64(epsDays)))
				result.EpsHosVal = result.EpsHosVal.Add(epsVal)
			}

		case sickCodes.ExtGeneralDisability, sickCodes.ExtHospitalGeneralDisability:
			ext, err := s.extendDisability(ctx, spell, days, daysBefore, dige, rates)
			if err != nil {
				return result, err
			}
			result.EmpDays = result.EmpDays.Add(decimal.NewFromInt(int64(ext.empDays)))
			result.EmpVal = result.EmpVal.Add(ext.empVal)
			if spell.TypeCode == sickCodes.ExtGeneralDisability {
				result.EpsExtDays = result.EpsExtDays.Add(decimal.NewFromInt(int64(ext.epsDays)))
				result.EpsExtVal = result.EpsExtVal.Add(ext.epsVal)
			} else {
				result.EpsHosExtDays = result.EpsHosExtDays.Add(decimal.NewFromInt(int64(ext.epsDays)))
				result.EpsHosExtVal = result.EpsHosExtVal.Add(ext.epsVal)
			}

		case sickCodes.JobAccident, sickCodes.ExtJobAccident:
			// Employer pays the first day of a work accident, the insurer
			// covers the rest at full base.
			empDays := 1
			epsDays := days - 1
			if epsDays < 0 {
				epsDays = 0
			}
			baseFactor := spell.Base.Div(decimal.NewFromInt(30))
			result.EmpActDays = result.EmpActDays.Add(decimal.NewFromInt(int64(empDays)))
			result.EmpActVal = result.EmpActVal.Add(baseFactor.Mul(decimal.NewFromInt(int64(empDays))))
			epsVal := baseFactor.Mul(decimal.NewFromInt(int64(epsDays)))
			if spell.TypeCode == sickCodes.JobAccident {
				result.EpsActDays = result.EpsActDays.Add(decimal.NewFromInt(int64(epsDays)))
				result.EpsActVal = result.EpsActVal.Add(epsVal)
			} else {
				result.EpsActExtDays = result.EpsActExtDays.Add(decimal.NewFromInt(int64(epsDays)))
				result.EpsActExtVal = result.EpsActExtVal.Add(epsVal)
			}

		case sickCodes.OccupationalDisease:
			val := spell.Base.Div(decimal.NewFromInt(30)).Mul(decimal.NewFromInt(int64(days)))
			result.EpsEnlDays = result.EpsEnlDays.Add(decimal.NewFromInt(int64(days)))
			result.EpsEnlVal = result.EpsEnlVal.Add(val)

		default:
			val := spell.Base.Div(decimal.NewFromInt(30)).Mul(decimal.NewFromInt(int64(days)))
			result.EpsEnlExtDays = result.EpsEnlExtDays.Add(decimal.NewFromInt(int64(days)))
			result.EpsEnlExtVal = result.EpsEnlExtVal.Add(val)
		}
	}

	if len(spells) > 0 {
		if err := s.applyAssistance(ctx, companyID, &result, lastBase, assistanceType, rates); err != nil {
			return result, err
		}
	}

	return result, nil
}

// splitByGraceDays assigns up to dige in-window days to the employer when
// the spell entered the window still inside the grace period.
func splitByGraceDays(days, daysBefore, dige int) (empDays, epsDays int) {
	if daysBefore < dige {
		if days > dige {
			return dige, days - dige
		}
		return days, 0
	}
	return 0, days
}

type extensionSplit struct {
	empDays int
	empVal  decimal.Decimal
	epsDays int
	epsVal  decimal.Decimal
}

// extendDisability splits an extension spell. Days already consumed by the
// chain decide whether the employer still owes grace days, and the EPS value
// crosses payment tiers at 90, 180 and 540 accumulated days.
func (s *Service) extendDisability(ctx context.Context, spell novelty.AbsenteeHistory, days, daysBefore, dige int, rates refdata.SickLeaveRates) (extensionSplit, error) {
	var split extensionSplit

	initial, err := s.absences.InitialDays(ctx, spell.ReferenceInability)
	if err != nil {
		return split, fmt.Errorf("initial disability days: %w", err)
	}
	chained, err := s.absences.DaysByReference(ctx, spell.ReferenceInability, spell.InitialDate)
	if err != nil {
		return split, fmt.Errorf("chained disability days: %w", err)
	}
	totalDays := initial + chained

	if totalDays >= dige {
		split.epsDays = days
	} else {
		split.empDays = days
		if split.empDays > dige {
			split.empDays = dige
		}
	}

	split.empVal = valueOfDays(spell.Base, split.empDays, rates.Pem2, rates.SMLV)
	split.epsVal = s.extensionValue(spell.Base, split.epsDays, totalDays, daysBefore, rates)
	return split, nil
}

func (s *Service) extensionValue(base decimal.Decimal, epsDays, totalDays, daysBefore int, rates refdata.SickLeaveRates) decimal.Decimal {
	totalWithExt := totalDays + daysBefore + epsDays
	switch {
	case totalWithExt <= tierFirst:
		return valueOfDays(base, epsDays, rates.Pep3, rates.SMLV)
	case totalWithExt <= tierSecond:
		return straddleTier(base, totalDays, daysBefore, epsDays, tierFirst, rates.Pep3, rates.Pep9, rates.SMLV)
	case totalWithExt <= tierThird:
		return straddleTier(base, totalDays, daysBefore, epsDays, tierSecond, rates.Pep9, rates.Pep8, rates.SMLV)
	default:
		return straddleTier(base, totalDays, daysBefore, epsDays, tierThird, rates.Pep8, rates.Pep5, rates.SMLV)
	}
}

// straddleTier prices the days below the boundary at the lower percentage
// and the remainder at the higher one.
func straddleTier(base decimal.Decimal, totalDays, daysBefore, epsDays, boundary int, lowerPct, upperPct, smlv decimal.Decimal) decimal.Decimal {
	remaining := boundary - (totalDays + daysBefore)
	daysLower := remaining
	if daysLower < 0 {
		daysLower = 0
	}
	daysUpper := epsDays
	if daysLower > 0 {
		daysUpper = epsDays - daysLower
	}

	total := valueOfDays(base, daysUpper, upperPct, smlv)
	if daysLower > 0 {
		total = total.Add(valueOfDays(base, daysLower, lowerPct, smlv))
	}
	return total
}

// applyAssistance adds the employer's optional extra assistance on top of
// the buckets the company selected.
func (s *Service) applyAssistance(ctx context.Context, companyID string, result *SickLeaveResult, base decimal.Decimal, assistanceType string, rates refdata.SickLeaveRates) error {
	if assistanceType == "" {
		return nil
	}
	codes, err := s.resolver.AssistanceCodes(ctx, companyID)
	if err != nil {
		return fmt.Errorf("resolve assistance codes: %w", err)
	}

	var adiDays decimal.Decimal
	switch assistanceType {
	case codes.EmployerDays:
		adiDays = result.EmpDays
	case codes.EPSDays:
		adiDays = result.EpsDays
	case codes.AllDays:
		adiDays = result.EmpDays.Add(result.EpsDays)
	default:
		return nil
	}

	result.EmpAdiDays = adiDays
	if adiDays.GreaterThan(decimal.Zero) {
		result.EmpAdiVal = valueOfDays(base, int(adiDays.IntPart()), rates.Auxe, rates.SMLV)
	}
	return nil
}

// ProcessLicenses classifies license absences overlapping the window.
func (s *Service) ProcessLicenses(ctx context.Context, companyID, employeeID string, iniPeriod, endPeriod time.Time) (LicenseResult, error) {
	var result LicenseResult

	validCodes, err := s.resolver.CodesByCategory(ctx, companyID, categoryLicense)
	if err != nil {
		return result, fmt.Errorf("resolve license codes: %w", err)
	}
	if len(validCodes) == 0 {
		return result, nil
	}
	licenseCodes, err := s.resolver.LicenseCodes(ctx, companyID)
	if err != nil {
		return result, fmt.Errorf("resolve license catalog: %w", err)
	}

	spells, err := s.absences.ListOverlapping(ctx, employeeID, iniPeriod, endPeriod, validCodes)
	if err != nil {
		return result, fmt.Errorf("list license absences: %w", err)
	}

	for _, spell := range spells {
		days, _ := SplitSpellDays(spell.InitialDate, spell.EndDate, iniPeriod, endPeriod)
		d := decimal.NewFromInt(int64(days))
		value := spell.Base.Div(decimal.NewFromInt(30)).Mul(d)

		switch spell.TypeCode {
		case licenseCodes.Unpaid:
			result.UnpaidDays = result.UnpaidDays.Add(d)
		case licenseCodes.Paid:
			result.PaidDays = result.PaidDays.Add(d)
			result.PaidValue = result.PaidValue.Add(value)
		case licenseCodes.Suspension:
			result.SuspensionDays = result.SuspensionDays.Add(d)
		case licenseCodes.Paternity:
			result.PaternityDays = result.PaternityDays.Add(d)
			result.PaternityValue = result.PaternityValue.Add(value)
		case licenseCodes.Maternity:
			result.MaternityDays = result.MaternityDays.Add(d)
			result.MaternityValue = result.MaternityValue.Add(value)
		}
	}

	return result, nil
}

// TotalAbsentDays sums in-window days over every absence, or over absences
// of a single type code when one is given.
func (s *Service) TotalAbsentDays(ctx context.Context, employeeID string, iniPeriod, endPeriod time.Time, typeCode string) (int, error) {
	var codes []string
	if typeCode != "" {
		codes = []string{typeCode}
	}
	spells, err := s.absences.ListOverlapping(ctx, employeeID, iniPeriod, endPeriod, codes)
	if err != nil {
		return 0, fmt.Errorf("list absences: %w", err)
	}

	total := 0
	for _, spell := range spells {
		days, _ := SplitSpellDays(spell.InitialDate, spell.EndDate, iniPeriod, endPeriod)
		total += days
	}
	return total, nil
}
