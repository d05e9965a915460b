package payroll

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
)

// refreshRecurrents regenerates the employee's recurrent payments for the
// period. A novelty reported on the same concept supersedes the recurrent
// value, so superseded concepts are skipped and any stale recurrent posting
// on a non-superseded concept is deleted before reposting.
func (s *Service) refreshRecurrents(ctx context.Context, cc *payroll.CalcContext, buf *payroll.MovementBuffer) error {
	recurrents, err := s.recurrents.ListActive(ctx, cc.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to list recurrent payments: %w", err)
	}
	if len(recurrents) == 0 {
		return nil
	}

	novelties, err := s.ledger.NoveltiesInPeriod(ctx, cc.EmployeeID, cc.CompanyID, cc.Period.ID)
	if err != nil {
		return fmt.Errorf("failed to list novelties: %w", err)
	}
	superseded := make(map[string]bool, len(novelties))
	for _, n := range novelties {
		superseded[n.ConceptID] = true
	}

	var staleConcepts []string
	for _, r := range recurrents {
		if !superseded[r.ConceptID] {
			staleConcepts = append(staleConcepts, r.ConceptID)
		}
	}
	if len(staleConcepts) == 0 {
		return nil
	}
	if err := s.ledger.DeleteByConcepts(ctx, cc.EmployeeID, cc.CompanyID, cc.Period.ID, staleConcepts); err != nil {
		return fmt.Errorf("failed to delete stale recurrent movements: %w", err)
	}

	for _, r := range recurrents {
		if superseded[r.ConceptID] {
			continue
		}
		buf.Add(s.ledger.Build(cc.EmployeeID, cc.CompanyID, cc.Period, r.ConceptID, decimal.Zero, r.Value))
	}
	return nil
}
