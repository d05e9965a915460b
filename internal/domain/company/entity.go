package company

// PayrollSettings are the company-level switches that change calculator
// behavior: whether antiquity-affecting absences reduce provision windows,
// CREE exoneration, law-1393 handling, and which disability-day count feeds
// the additional employer assistance.
type PayrollSettings struct {
	ID               string
	CompanyID        string
	AffectAbsenteeLB bool
	ExoneratedCREE   bool
	Law1393          bool
	Payday31Vacation bool
	AssistanceType   string
}
