package concept

import "context"

type Repository interface {
	// GetByCompany returns the company's concept catalog.
	GetByCompany(ctx context.Context, companyID string) (CompanyConcepts, error)
}
