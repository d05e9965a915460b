package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
	"github.com/nominaplus/payroll-engine/internal/pkg/database"
)

type periodRepository struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) payroll.PeriodRepository {
	return &periodRepository{db: db}
}

const periodColumns = `
	id, company_id, year, month, number, initial_date, end_date,
	COALESCE(previous_period_year, 0), COALESCE(previous_period_number, 0), is_active
`

func (r *periodRepository) GetByID(ctx context.Context, id string) (*payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE id = $1`

	var p payroll.Period
	err := q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CompanyID, &p.Year, &p.Month, &p.Number, &p.InitialDate, &p.EndDate,
		&p.PreviousPeriodYear, &p.PreviousPeriodNumber, &p.IsActive,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, payroll.ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to get period: %w", err)
	}

	return &p, nil
}

func (r *periodRepository) GetByNumber(ctx context.Context, companyID string, year, number int) (*payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE company_id = $1 AND year = $2 AND number = $3`

	var p payroll.Period
	err := q.QueryRow(ctx, query, companyID, year, number).Scan(
		&p.ID, &p.CompanyID, &p.Year, &p.Month, &p.Number, &p.InitialDate, &p.EndDate,
		&p.PreviousPeriodYear, &p.PreviousPeriodNumber, &p.IsActive,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, payroll.ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to get period by number: %w", err)
	}

	return &p, nil
}
