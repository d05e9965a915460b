package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/movement"
	"github.com/nominaplus/payroll-engine/internal/pkg/database"
)

type movementRepository struct {
	db *database.DB
}

func NewMovementRepository(db *database.DB) movement.Repository {
	return &movementRepository{db: db}
}

// InTransaction runs fn with every repository call on its context joined
// into a single database transaction.
func (r *movementRepository) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, r.db, fn)
}

func (r *movementRepository) BulkSave(ctx context.Context, movements []movement.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO movements (id, employee_id, company_id, period_id, concept_id, quantity, value, year, month)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, m := range movements {
		_, err := q.Exec(ctx, query,
			m.ID, m.EmployeeID, m.CompanyID, m.PeriodID, m.ConceptID,
			m.Quantity, m.Value, m.Year, m.Month,
		)
		if err != nil {
			return fmt.Errorf("failed to save movement for concept %s: %w", m.ConceptID, err)
		}
	}

	return nil
}

func (r *movementRepository) DeleteByConcepts(ctx context.Context, employeeID, companyID, periodID string, conceptIDs []string) error {
	if len(conceptIDs) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM movements
		WHERE employee_id = $1 AND company_id = $2 AND period_id = $3 AND concept_id = ANY($4)
	`

	_, err := q.Exec(ctx, query, employeeID, companyID, periodID, conceptIDs)
	if err != nil {
		return fmt.Errorf("failed to delete movements: %w", err)
	}

	return nil
}

// buildFilter appends the concept-flag conditions of f to conditions,
// returning the updated slice, args and arg index.
func buildFilter(f movement.ConceptFilter, conditions []string, args []any, argIdx int) ([]string, []any, int) {
	type flagCond struct {
		column string
		value  *bool
	}

	if f.Code != nil {
		conditions = append(conditions, fmt.Sprintf("c.code = $%d", argIdx))
		args = append(args, *f.Code)
		argIdx++
	}

	for _, fc := range []flagCond{
		{"c.salary_base", f.SalaryBase},
		{"c.security_base", f.SecurityBase},
		{"c.risk_base", f.RiskBase},
		{"c.parafiscal_base", f.ParafiscalBase},
		{"c.transport_base", f.TransportBase},
		{"c.prima_legal_base", f.PrimaLegalBase},
		{"c.severance_base", f.SeveranceBase},
		{"c.retention_base", f.RetentionBase},
	} {
		if fc.value != nil {
			conditions = append(conditions, fmt.Sprintf("%s = $%d", fc.column, argIdx))
			args = append(args, *fc.value)
			argIdx++
		}
	}

	return conditions, args, argIdx
}

func (r *movementRepository) SumValues(ctx context.Context, employeeID string, year int, month *int, periodID *string, filter movement.ConceptFilter) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"m.employee_id = $1", "m.year = $2"}
	args := []any{employeeID, year}
	argIdx := 3

	if month != nil {
		conditions = append(conditions, fmt.Sprintf("m.month = $%d", argIdx))
		args = append(args, *month)
		argIdx++
	}
	if periodID != nil {
		conditions = append(conditions, fmt.Sprintf("m.period_id = $%d", argIdx))
		args = append(args, *periodID)
		argIdx++
	}
	conditions, args, _ = buildFilter(filter, conditions, args, argIdx)

	query := `
		SELECT COALESCE(SUM(m.value), 0)
		FROM movements m
		JOIN concepts c ON c.id = m.concept_id
		WHERE ` + strings.Join(conditions, " AND ")

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum movement values: %w", err)
	}

	return total, nil
}

func (r *movementRepository) SumValuesBetweenDates(ctx context.Context, employeeID string, from, to time.Time, filter movement.ConceptFilter) (decimal.Decimal, error) {
	return r.sumBetweenDates(ctx, "m.value", employeeID, from, to, filter)
}

func (r *movementRepository) SumQuantitiesBetweenDates(ctx context.Context, employeeID string, from, to time.Time, filter movement.ConceptFilter) (decimal.Decimal, error) {
	return r.sumBetweenDates(ctx, "m.quantity", employeeID, from, to, filter)
}

func (r *movementRepository) sumBetweenDates(ctx context.Context, column, employeeID string, from, to time.Time, filter movement.ConceptFilter) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"m.employee_id = $1", "p.initial_date >= $2", "p.end_date <= $3"}
	args := []any{employeeID, from, to}
	conditions, args, _ = buildFilter(filter, conditions, args, 4)

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(%s), 0)
		FROM movements m
		JOIN concepts c ON c.id = m.concept_id
		JOIN payroll_periods p ON p.id = m.period_id
		WHERE `, column) + strings.Join(conditions, " AND ")

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum movements between dates: %w", err)
	}

	return total, nil
}

func (r *movementRepository) GetByConceptMonth(ctx context.Context, employeeID string, year, month int, code string) (movement.QuantityValue, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT m.quantity, m.value
		FROM movements m
		JOIN concepts c ON c.id = m.concept_id
		WHERE m.employee_id = $1 AND m.year = $2 AND m.month = $3 AND c.code = $4
		ORDER BY m.created_at DESC
		LIMIT 1
	`

	var qv movement.QuantityValue
	err := q.QueryRow(ctx, query, employeeID, year, month, code).Scan(&qv.Quantity, &qv.Value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return movement.QuantityValue{}, movement.ErrMovementNotFound
		}
		return movement.QuantityValue{}, fmt.Errorf("failed to get movement by concept month: %w", err)
	}

	return qv, nil
}

func (r *movementRepository) GetByConceptAndPeriodNumber(ctx context.Context, employeeID string, year, periodNumber int, code string) (movement.QuantityValue, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT m.quantity, m.value
		FROM movements m
		JOIN concepts c ON c.id = m.concept_id
		JOIN payroll_periods p ON p.id = m.period_id
		WHERE m.employee_id = $1 AND m.year = $2 AND p.number = $3 AND c.code = $4
		ORDER BY m.created_at DESC
		LIMIT 1
	`

	var qv movement.QuantityValue
	err := q.QueryRow(ctx, query, employeeID, year, periodNumber, code).Scan(&qv.Quantity, &qv.Value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return movement.QuantityValue{}, movement.ErrMovementNotFound
		}
		return movement.QuantityValue{}, fmt.Errorf("failed to get movement by concept and period number: %w", err)
	}

	return qv, nil
}

func (r *movementRepository) SumMonthlyValueByConcept(ctx context.Context, employeeID string, year, month int, code string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(m.value), 0)
		FROM movements m
		JOIN concepts c ON c.id = m.concept_id
		WHERE m.employee_id = $1 AND m.year = $2 AND m.month = $3 AND c.code = $4
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, year, month, code).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum monthly values by concept: %w", err)
	}

	return total, nil
}

func (r *movementRepository) SumAffectingAntiquity(ctx context.Context, month, year int, employeeID string) (movement.QuantityValue, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(m.quantity), 0), COALESCE(SUM(m.value), 0)
		FROM movements m
		JOIN concepts c ON c.id = m.concept_id
		JOIN absentee_types at ON at.id = c.absentee_type_id
		WHERE m.employee_id = $1 AND m.year = $2 AND m.month = $3 AND at.affects_antiquity = TRUE
	`

	var qv movement.QuantityValue
	if err := q.QueryRow(ctx, query, employeeID, year, month).Scan(&qv.Quantity, &qv.Value); err != nil {
		return movement.QuantityValue{}, fmt.Errorf("failed to sum antiquity-affecting movements: %w", err)
	}

	return qv, nil
}

func (r *movementRepository) NoveltiesInPeriod(ctx context.Context, employeeID, companyID, periodID string) ([]movement.Movement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT m.id, m.employee_id, m.company_id, m.period_id, m.concept_id,
			   m.quantity, m.value, m.year, m.month, c.code
		FROM movements m
		JOIN concepts c ON c.id = m.concept_id
		WHERE m.employee_id = $1 AND m.company_id = $2 AND m.period_id = $3 AND c.is_novelty = TRUE
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list novelty movements: %w", err)
	}
	defer rows.Close()

	var movements []movement.Movement
	for rows.Next() {
		var m movement.Movement
		err := rows.Scan(
			&m.ID, &m.EmployeeID, &m.CompanyID, &m.PeriodID, &m.ConceptID,
			&m.Quantity, &m.Value, &m.Year, &m.Month, &m.ConceptCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan novelty movement: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate novelty movements: %w", err)
	}

	return movements, nil
}
