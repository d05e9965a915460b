package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nominaplus/payroll-engine/internal/domain/novelty"
	"github.com/nominaplus/payroll-engine/internal/pkg/database"
)

type absenteeRepository struct {
	db *database.DB
}

func NewAbsenteeRepository(db *database.DB) novelty.AbsenteeRepository {
	return &absenteeRepository{db: db}
}

func (r *absenteeRepository) ListOverlapping(ctx context.Context, employeeID string, from, to time.Time, typeCodes []string) ([]novelty.AbsenteeHistory, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ah.id, ah.employee_id, ah.absentee_type_id, at.code,
			   ah.initial_date, ah.end_date, ah.base,
			   COALESCE(ah.reference_inability, ''), ah.quantity, ah.is_active
		FROM absentee_history ah
		JOIN absentee_types at ON at.id = ah.absentee_type_id
		WHERE ah.employee_id = $1
		  AND ah.is_active = TRUE
		  AND ah.initial_date <= $3
		  AND ah.end_date >= $2
	`
	args := []any{employeeID, from, to}

	// An empty code list means every absence type.
	if len(typeCodes) > 0 {
		query += " AND at.code = ANY($4)"
		args = append(args, typeCodes)
	}
	query += " ORDER BY ah.initial_date"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping absences: %w", err)
	}
	defer rows.Close()

	var absences []novelty.AbsenteeHistory
	for rows.Next() {
		var a novelty.AbsenteeHistory
		err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.AbsenteeTypeID, &a.TypeCode,
			&a.InitialDate, &a.EndDate, &a.Base,
			&a.ReferenceInability, &a.Quantity, &a.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		absences = append(absences, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate absences: %w", err)
	}

	return absences, nil
}

// InitialDays walks the extension chain back to the first spell and returns
// its quantity. A missing link ends the walk at the last spell found.
func (r *absenteeRepository) InitialDays(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT quantity, COALESCE(reference_inability, '')
		FROM absentee_history
		WHERE id = $1
	`

	current := id
	for {
		var quantity int
		var reference string
		err := q.QueryRow(ctx, query, current).Scan(&quantity, &reference)
		if err != nil {
			if err == pgx.ErrNoRows {
				return 0, novelty.ErrAbsenteeNotFound
			}
			return 0, fmt.Errorf("failed to walk disability chain: %w", err)
		}
		if reference == "" || reference == current {
			return quantity, nil
		}
		current = reference
	}
}

func (r *absenteeRepository) DaysByReference(ctx context.Context, reference string, before time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH RECURSIVE chain AS (
			SELECT id, quantity, initial_date, reference_inability
			FROM absentee_history
			WHERE id = $1
			UNION ALL
			SELECT ah.id, ah.quantity, ah.initial_date, ah.reference_inability
			FROM absentee_history ah
			JOIN chain ON ah.reference_inability = chain.id
		)
		SELECT COALESCE(SUM(quantity), 0)
		FROM chain
		WHERE initial_date < $2
	`

	var days int
	if err := q.QueryRow(ctx, query, reference, before).Scan(&days); err != nil {
		return 0, fmt.Errorf("failed to sum chained disability days: %w", err)
	}

	return days, nil
}
