package postgresql

import (
	"context"
	"fmt"

	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	"github.com/nominaplus/payroll-engine/internal/pkg/database"
)

type conceptRepository struct {
	db *database.DB
}

func NewConceptRepository(db *database.DB) concept.Repository {
	return &conceptRepository{db: db}
}

func (r *conceptRepository) GetByCompany(ctx context.Context, companyID string) (concept.CompanyConcepts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, code, description, concept_group,
			   salary_base, security_base, risk_base, parafiscal_base,
			   transport_base, prima_legal_base, severance_base, retention_base,
			   is_calculated, is_novelty, absentee_type_id
		FROM concepts
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY code
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return concept.CompanyConcepts{}, fmt.Errorf("failed to list company concepts: %w", err)
	}
	defer rows.Close()

	catalog := concept.CompanyConcepts{ByCode: make(map[string]string)}
	for rows.Next() {
		var c concept.Concept
		err := rows.Scan(
			&c.ID, &c.CompanyID, &c.Code, &c.Description, &c.ConceptGroup,
			&c.SalaryBase, &c.SecurityBase, &c.RiskBase, &c.ParafiscalBase,
			&c.TransportBase, &c.PrimaLegalBase, &c.SeveranceBase, &c.RetentionBase,
			&c.IsCalculated, &c.IsNovelty, &c.AbsenteeTypeID,
		)
		if err != nil {
			return concept.CompanyConcepts{}, fmt.Errorf("failed to scan concept: %w", err)
		}
		catalog.Concepts = append(catalog.Concepts, c)
		catalog.ByCode[c.Code] = c.ID
	}
	if err := rows.Err(); err != nil {
		return concept.CompanyConcepts{}, fmt.Errorf("failed to iterate concepts: %w", err)
	}

	return catalog, nil
}
