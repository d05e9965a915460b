package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/refdata"
	"github.com/nominaplus/payroll-engine/internal/pkg/database"
)

type refdataRepository struct {
	db *database.DB
}

func NewRefdataRepository(db *database.DB) refdata.Repository {
	return &refdataRepository{db: db}
}

func (r *refdataRepository) ListCodes(ctx context.Context, companyID string) ([]refdata.Code, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, code, description, category, is_active
		FROM codes
		WHERE company_id = $1 AND is_active = TRUE
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}
	defer rows.Close()

	var codes []refdata.Code
	for rows.Next() {
		var c refdata.Code
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Code, &c.Description, &c.Category, &c.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan code: %w", err)
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate codes: %w", err)
	}

	return codes, nil
}

func (r *refdataRepository) ListConstants(ctx context.Context, companyID string) ([]refdata.Constant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ct.id, ct.code_id, c.code, ct.value
		FROM constants ct
		JOIN codes c ON c.id = ct.code_id
		WHERE c.company_id = $1 AND c.is_active = TRUE
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list constants: %w", err)
	}
	defer rows.Close()

	var constants []refdata.Constant
	for rows.Next() {
		var c refdata.Constant
		if err := rows.Scan(&c.ID, &c.CodeID, &c.Code, &c.Value); err != nil {
			return nil, fmt.Errorf("failed to scan constant: %w", err)
		}
		constants = append(constants, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate constants: %w", err)
	}

	return constants, nil
}

func (r *refdataRepository) FindSolidarityBracket(ctx context.Context, salaryInWages decimal.Decimal, isPensionary bool) (*refdata.SolidarityBracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, salary_min, salary_max, percentage, per_solidarity, per_subsistence, is_pensionary
		FROM solidarity_brackets
		WHERE salary_min <= $1 AND salary_max >= $1 AND is_pensionary = $2
		LIMIT 1
	`

	var b refdata.SolidarityBracket
	err := q.QueryRow(ctx, query, salaryInWages, isPensionary).Scan(
		&b.ID, &b.SalaryMin, &b.SalaryMax, &b.Percentage, &b.PerSolidarity, &b.PerSubsistence, &b.IsPensionary,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, refdata.ErrBracketNotFound
		}
		return nil, fmt.Errorf("failed to find solidarity bracket: %w", err)
	}

	return &b, nil
}
