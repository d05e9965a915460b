package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	"github.com/nominaplus/payroll-engine/internal/domain/movement"
	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
)

// Service is the write and read surface every calculator uses against the
// movement ledger. Lookups that miss resolve to zero values, matching how
// aggregate sums behave; only the repository-level errors propagate.
type Service struct {
	repo movement.Repository
}

func NewService(repo movement.Repository) *Service {
	return &Service{repo: repo}
}

// InTransaction runs fn with every ledger call on its context joined into
// one transaction. A calculation that fails midway leaves the previously
// posted liquidation untouched.
func (s *Service) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.repo.InTransaction(ctx, fn)
}

// Build assembles an unpersisted movement row for the given period.
func (s *Service) Build(employeeID, companyID string, period *payroll.Period, conceptID string, quantity, value decimal.Decimal) movement.Movement {
	return movement.Movement{
		ID:         uuid.New().String(),
		EmployeeID: employeeID,
		CompanyID:  companyID,
		PeriodID:   period.ID,
		ConceptID:  conceptID,
		Quantity:   quantity,
		Value:      value,
		Year:       period.Year,
		Month:      period.Month,
	}
}

// Row is one calculator result addressed by concept code.
type Row struct {
	Code     string
	Quantity decimal.Decimal
	Value    decimal.Decimal
}

// BuildAll turns calculator rows into movements, translating each concept
// code through the company catalog.
func (s *Service) BuildAll(employeeID, companyID string, period *payroll.Period, concepts concept.CompanyConcepts, rows []Row) ([]movement.Movement, error) {
	movements := make([]movement.Movement, 0, len(rows))
	for _, row := range rows {
		conceptID, ok := concepts.ByCode[row.Code]
		if !ok {
			return nil, fmt.Errorf("code %s: %w", row.Code, concept.ErrConceptNotFound)
		}
		movements = append(movements, s.Build(employeeID, companyID, period, conceptID, row.Quantity, row.Value))
	}
	return movements, nil
}

// SaveAll persists the buffer, dropping rows where both quantity and value
// are zero. Rows with an empty concept id mean a catalog mismatch and fail
// the batch.
func (s *Service) SaveAll(ctx context.Context, movements []movement.Movement) error {
	filtered := make([]movement.Movement, 0, len(movements))
	for _, m := range movements {
		if m.ConceptID == "" {
			return fmt.Errorf("movement without concept for employee %s", m.EmployeeID)
		}
		if m.IsZero() {
			continue
		}
		filtered = append(filtered, m)
	}
	return s.repo.BulkSave(ctx, filtered)
}

func (s *Service) DeleteByConcepts(ctx context.Context, employeeID, companyID, periodID string, conceptIDs []string) error {
	return s.repo.DeleteByConcepts(ctx, employeeID, companyID, periodID, conceptIDs)
}

func (s *Service) SumValues(ctx context.Context, employeeID string, year int, month *int, periodID *string, filter movement.ConceptFilter) (decimal.Decimal, error) {
	return s.repo.SumValues(ctx, employeeID, year, month, periodID, filter)
}

func (s *Service) SumValuesBetweenDates(ctx context.Context, employeeID string, from, to time.Time, filter movement.ConceptFilter) (decimal.Decimal, error) {
	return s.repo.SumValuesBetweenDates(ctx, employeeID, from, to, filter)
}

func (s *Service) SumQuantitiesBetweenDates(ctx context.Context, employeeID string, from, to time.Time, filter movement.ConceptFilter) (decimal.Decimal, error) {
	return s.repo.SumQuantitiesBetweenDates(ctx, employeeID, from, to, filter)
}

// ByConceptMonth returns the movement posted for the code in the month, or
// zeros when none exists.
func (s *Service) ByConceptMonth(ctx context.Context, employeeID string, year, month int, code string) (movement.QuantityValue, error) {
	qv, err := s.repo.GetByConceptMonth(ctx, employeeID, year, month, code)
	if err != nil {
		if errors.Is(err, movement.ErrMovementNotFound) {
			return movement.QuantityValue{Quantity: decimal.Zero, Value: decimal.Zero}, nil
		}
		return movement.QuantityValue{}, err
	}
	return qv, nil
}

// FindByConceptMonth is ByConceptMonth with an explicit found flag, for
// callers that treat a missing posting differently from a zero one.
func (s *Service) FindByConceptMonth(ctx context.Context, employeeID string, year, month int, code string) (movement.QuantityValue, bool, error) {
	qv, err := s.repo.GetByConceptMonth(ctx, employeeID, year, month, code)
	if err != nil {
		if errors.Is(err, movement.ErrMovementNotFound) {
			return movement.QuantityValue{Quantity: decimal.Zero, Value: decimal.Zero}, false, nil
		}
		return movement.QuantityValue{}, false, err
	}
	return qv, true, nil
}

// ByConceptPeriodNumber returns the movement posted for the code in the
// given period number of the year, or zeros when none exists.
func (s *Service) ByConceptPeriodNumber(ctx context.Context, employeeID string, year, periodNumber int, code string) (movement.QuantityValue, error) {
	qv, err := s.repo.GetByConceptAndPeriodNumber(ctx, employeeID, year, periodNumber, code)
	if err != nil {
		if errors.Is(err, movement.ErrMovementNotFound) {
			return movement.QuantityValue{Quantity: decimal.Zero, Value: decimal.Zero}, nil
		}
		return movement.QuantityValue{}, err
	}
	return qv, nil
}

func (s *Service) SumMonthlyValueByConcept(ctx context.Context, employeeID string, year, month int, code string) (decimal.Decimal, error) {
	return s.repo.SumMonthlyValueByConcept(ctx, employeeID, year, month, code)
}

func (s *Service) SumAffectingAntiquity(ctx context.Context, month, year int, employeeID string) (movement.QuantityValue, error) {
	return s.repo.SumAffectingAntiquity(ctx, month, year, employeeID)
}

func (s *Service) NoveltiesInPeriod(ctx context.Context, employeeID, companyID, periodID string) ([]movement.Movement, error) {
	return s.repo.NoveltiesInPeriod(ctx, employeeID, companyID, periodID)
}
