package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nominaplus/payroll-engine/internal/domain/company"
	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	"github.com/nominaplus/payroll-engine/internal/domain/employee"
	"github.com/nominaplus/payroll-engine/internal/domain/novelty"
	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
	"github.com/nominaplus/payroll-engine/internal/pkg/dates"
	"github.com/nominaplus/payroll-engine/internal/service/absenteeism"
	"github.com/nominaplus/payroll-engine/internal/service/ledger"
	"github.com/nominaplus/payroll-engine/internal/service/provisions"
	"github.com/nominaplus/payroll-engine/internal/service/refdata"
	"github.com/nominaplus/payroll-engine/internal/service/socialsecurity"
)

// Service orchestrates one liquidation: it builds the calculation context
// for an (employee, period) pair, wipes the previously calculated movements
// and runs the five pipeline stages in order, persisting each stage's
// movements before the next one starts. Later stages read earlier stages'
// postings through the ledger, so the per-stage flush is load-bearing.
type Service struct {
	employees  employee.Repository
	companies  company.Repository
	concepts   concept.Repository
	periods    payroll.PeriodRepository
	recurrents novelty.RecurrentRepository
	ledger     *ledger.Service
	resolver   *refdata.Resolver
	absences   *absenteeism.Service
	social     *socialsecurity.Service
	provisions *provisions.Service
}

func NewService(
	employees employee.Repository,
	companies company.Repository,
	concepts concept.Repository,
	periods payroll.PeriodRepository,
	recurrents novelty.RecurrentRepository,
	ledgerSvc *ledger.Service,
	resolver *refdata.Resolver,
	absences *absenteeism.Service,
	social *socialsecurity.Service,
	provisionsSvc *provisions.Service,
) *Service {
	return &Service{
		employees:  employees,
		companies:  companies,
		concepts:   concepts,
		periods:    periods,
		recurrents: recurrents,
		ledger:     ledgerSvc,
		resolver:   resolver,
		absences:   absences,
		social:     social,
		provisions: provisionsSvc,
	}
}

type stage struct {
	name string
	run  func(context.Context, *payroll.CalcContext, concept.CompanyConcepts) error
}

// Calculate liquidates one employee for one period. The run is idempotent:
// every concept flagged as calculated is deleted for the period before the
// pipeline regenerates it.
func (s *Service) Calculate(ctx context.Context, job payroll.Job) error {
	if job.EmployeeID == "" || job.CompanyID == "" || job.PeriodID == "" {
		return payroll.ErrInvalidJob
	}

	start := time.Now()

	cc, concepts, err := s.buildContext(ctx, job)
	if err != nil {
		return err
	}

	// Clean and recalculate under one transaction: a failed stage must not
	// leave the previous liquidation half-replaced.
	err = s.ledger.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.ledger.DeleteByConcepts(ctx, cc.EmployeeID, cc.CompanyID, cc.Period.ID, concepts.CalculatedIDs()); err != nil {
			return fmt.Errorf("failed to clean calculated movements: %w", err)
		}

		stages := []stage{
			{"core", s.runCore},
			{"social_security", s.runSocialSecurity},
			{"transport", s.runTransport},
			{"provisions", s.runProvisions},
			{"vacation", s.runVacation},
		}
		for _, st := range stages {
			if err := st.run(ctx, cc, concepts); err != nil {
				return &payroll.StageError{Stage: st.name, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("payroll calculated",
		"employee_id", cc.EmployeeID,
		"period_id", cc.Period.ID,
		"duration", time.Since(start).String(),
	)
	return nil
}

// buildContext loads the read-only inputs of a run. The period end date is
// normalized to the 30-day month convention here, once, so every stage sees
// the same window.
func (s *Service) buildContext(ctx context.Context, job payroll.Job) (*payroll.CalcContext, concept.CompanyConcepts, error) {
	period, err := s.periods.GetByID(ctx, job.PeriodID)
	if err != nil {
		return nil, concept.CompanyConcepts{}, fmt.Errorf("failed to get period %s: %w", job.PeriodID, err)
	}
	period.EndDate = dates.RealPeriodEnd(period.EndDate)

	emp, err := s.employees.GetByID(ctx, job.EmployeeID)
	if err != nil {
		return nil, concept.CompanyConcepts{}, fmt.Errorf("failed to get employee %s: %w", job.EmployeeID, err)
	}

	settings, err := s.companies.GetPayrollSettings(ctx, job.CompanyID)
	if err != nil && !errors.Is(err, company.ErrPayrollSettingsNotFound) {
		return nil, concept.CompanyConcepts{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}

	concepts, err := s.concepts.GetByCompany(ctx, job.CompanyID)
	if err != nil {
		return nil, concept.CompanyConcepts{}, fmt.Errorf("failed to get concepts: %w", err)
	}

	cc := &payroll.CalcContext{
		EmployeeID: emp.ID,
		CompanyID:  job.CompanyID,
		Period:     period,
		Salary: payroll.SalaryData{
			Salary:         emp.Salary,
			SalaryTypeCode: emp.SalaryTypeCode,
			VariableSalary: emp.VariableSalary,
		},
		Contract: payroll.ContractData{
			RegimeCode:          emp.CodeContractRegime,
			ContributorTypeCode: emp.CodeContributorType,
			RiskPercentage:      emp.PercentageWorkPlaceRisk,
			TransportAssistance: emp.TransportAssistance,
			VariableSalary:      emp.VariableSalary,
			InitialContractDate: emp.InitialContractDate,
			EndContractDate:     emp.EndContractDate,
		},
		Settings:        settings,
		VacationHistory: emp.VacationHistory,
	}
	if !cc.Valid() {
		return nil, concept.CompanyConcepts{}, payroll.ErrInvalidJob
	}
	return cc, concepts, nil
}

// runCore posts absences, refreshed recurrent payments and the salary. The
// salary goes last because it discounts the absent days counted here.
func (s *Service) runCore(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) error {
	var buf payroll.MovementBuffer

	if err := s.postAbsences(ctx, cc, concepts, &buf); err != nil {
		return err
	}
	if err := s.refreshRecurrents(ctx, cc, &buf); err != nil {
		return err
	}
	if err := s.calculateSalary(ctx, cc, concepts, &buf); err != nil {
		return err
	}
	return s.ledger.SaveAll(ctx, buf.Drain())
}

// runProvisions accrues severance, severance interest and the legal bonus.
// Apprentices accrue none of these and integral salaries have them priced
// into the salary itself.
func (s *Service) runProvisions(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) error {
	regimes, err := s.resolver.RegimeCodes(ctx, cc.CompanyID)
	if err != nil {
		return fmt.Errorf("resolve regime codes: %w", err)
	}
	if cc.Contract.RegimeCode == regimes.Apprentice || cc.Contract.RegimeCode == regimes.Integral {
		return nil
	}

	var buf payroll.MovementBuffer

	severance, unpaidValue, err := s.provisions.CalculateSeverance(ctx, cc, concepts)
	if err != nil {
		return err
	}
	buf.Add(severance...)

	interest, err := s.provisions.CalculateSeveranceInterest(ctx, cc, concepts, unpaidValue)
	if err != nil {
		return err
	}
	buf.Add(interest...)

	bonus, err := s.provisions.CalculateBonus(ctx, cc, concepts)
	if err != nil {
		return err
	}
	buf.Add(bonus...)

	return s.ledger.SaveAll(ctx, buf.Drain())
}

func (s *Service) runVacation(ctx context.Context, cc *payroll.CalcContext, concepts concept.CompanyConcepts) error {
	regimes, err := s.resolver.RegimeCodes(ctx, cc.CompanyID)
	if err != nil {
		return fmt.Errorf("resolve regime codes: %w", err)
	}
	if cc.Contract.RegimeCode == regimes.Apprentice {
		return nil
	}

	movements, err := s.provisions.CalculateVacation(ctx, cc, concepts)
	if err != nil {
		return err
	}
	return s.ledger.SaveAll(ctx, movements)
}
