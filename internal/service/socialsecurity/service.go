package socialsecurity

import (
	"github.com/nominaplus/payroll-engine/internal/service/absenteeism"
	"github.com/nominaplus/payroll-engine/internal/service/ledger"
	"github.com/nominaplus/payroll-engine/internal/service/refdata"
)

// Service computes the contribution base (IBC) and the five contributions
// that hang off it: health, pension, solidarity fund, parafiscal aportes and
// labor risk.
type Service struct {
	ledger   *ledger.Service
	resolver *refdata.Resolver
	absences *absenteeism.Service
}

func NewService(ledger *ledger.Service, resolver *refdata.Resolver, absences *absenteeism.Service) *Service {
	return &Service{ledger: ledger, resolver: resolver, absences: absences}
}
