package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nominaplus/payroll-engine/internal/domain/company"
	"github.com/nominaplus/payroll-engine/internal/pkg/database"
)

type companyRepository struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.Repository {
	return &companyRepository{db: db}
}

func (r *companyRepository) GetPayrollSettings(ctx context.Context, companyID string) (company.PayrollSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, affect_absentee_lb, exonerated_cree, law_1393,
			   payday_31_vacation, COALESCE(assistance_type, '')
		FROM company_payroll_settings
		WHERE company_id = $1
	`

	var s company.PayrollSettings
	err := q.QueryRow(ctx, query, companyID).Scan(
		&s.ID, &s.CompanyID, &s.AffectAbsenteeLB, &s.ExoneratedCREE, &s.Law1393,
		&s.Payday31Vacation, &s.AssistanceType,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.PayrollSettings{}, company.ErrPayrollSettingsNotFound
		}
		return company.PayrollSettings{}, fmt.Errorf("failed to get company payroll settings: %w", err)
	}

	return s, nil
}
