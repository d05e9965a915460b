package postgresql

import (
	"context"
	"fmt"

	"github.com/nominaplus/payroll-engine/internal/domain/novelty"
	"github.com/nominaplus/payroll-engine/internal/pkg/database"
)

type recurrentRepository struct {
	db *database.DB
}

func NewRecurrentRepository(db *database.DB) novelty.RecurrentRepository {
	return &recurrentRepository{db: db}
}

func (r *recurrentRepository) ListActive(ctx context.Context, employeeID string) ([]novelty.RecurrentPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, concept_id, value, is_active
		FROM recurrent_payments
		WHERE employee_id = $1 AND is_active = TRUE
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurrent payments: %w", err)
	}
	defer rows.Close()

	var payments []novelty.RecurrentPayment
	for rows.Next() {
		var p novelty.RecurrentPayment
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.ConceptID, &p.Value, &p.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan recurrent payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recurrent payments: %w", err)
	}

	return payments, nil
}
