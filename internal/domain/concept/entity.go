package concept

// Concept is a company-scoped ledger category. The base flags decide which
// aggregate sums the concept's movements participate in; IsCalculated marks
// concepts that are fully regenerated on every payroll run, IsNovelty marks
// concepts fed by employee-reported events.
type Concept struct {
	ID             string
	CompanyID      string
	Code           string
	Description    string
	ConceptGroup   string
	SalaryBase     bool
	SecurityBase   bool
	RiskBase       bool
	ParafiscalBase bool
	TransportBase  bool
	PrimaLegalBase bool
	SeveranceBase  bool
	RetentionBase  bool
	IsCalculated   bool
	IsNovelty      bool
	AbsenteeTypeID *string
}

// CompanyConcepts is the per-company concept catalog plus the code -> id
// index every calculator uses to translate resolved codes into concept ids.
type CompanyConcepts struct {
	Concepts []Concept
	ByCode   map[string]string
}

// CalculatedIDs returns the ids of every concept regenerated each run.
func (c CompanyConcepts) CalculatedIDs() []string {
	var ids []string
	for _, cp := range c.Concepts {
		if cp.IsCalculated {
			ids = append(ids, cp.ID)
		}
	}
	return ids
}
