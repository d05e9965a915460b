package refdata

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/nominaplus/payroll-engine/internal/domain/refdata"
)

// Calculators never hard-code company code values. They address catalog
// entries by stable catalog ids and resolve them to the company's codes
// through the types below.

type aliasLookup struct {
	snap    *Snapshot
	missing []string
}

func (l *aliasLookup) code(id string) string {
	c, ok := l.snap.byID[id]
	if !ok {
		l.missing = append(l.missing, id)
		return ""
	}
	return c.Code
}

func (l *aliasLookup) err() error {
	if len(l.missing) == 0 {
		return nil
	}
	return fmt.Errorf("catalog ids %s: %w", strings.Join(l.missing, ", "), domain.ErrCodeNotFound)
}

func (r *Resolver) lookup(ctx context.Context, companyID string) (*aliasLookup, error) {
	snap, err := r.snapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return &aliasLookup{snap: snap}, nil
}

// SalaryCodes are the concepts the salary calculator posts to. The *Type
// fields are salary type codes, each paired with the concept the salary
// value lands on.
type SalaryCodes struct {
	OrdinaryType     string
	Ordinary         string
	IntegralType     string
	Integral         string
	SustenanceType   string
	Sustenance       string
	PensionAllowType string
	PensionAllow     string
	WorkedDaysPeriod string
}

func (r *Resolver) SalaryCodes(ctx context.Context, companyID string) (SalaryCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return SalaryCodes{}, err
	}
	c := SalaryCodes{
		OrdinaryType:     l.code("0028"),
		Ordinary:         l.code("0001"),
		IntegralType:     l.code("0029"),
		Integral:         l.code("0002"),
		SustenanceType:   l.code("0026"),
		Sustenance:       l.code("0003"),
		PensionAllowType: l.code("0027"),
		PensionAllow:     l.code("0004"),
		WorkedDaysPeriod: l.code("0006"),
	}
	return c, l.err()
}

// RegimeCodes identify the contract regimes that switch calculator behavior.
type RegimeCodes struct {
	Apprentice string
	Integral   string
	Ley50      string
	Previous   string
	Retiree    string
}

func (r *Resolver) RegimeCodes(ctx context.Context, companyID string) (RegimeCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return RegimeCodes{}, err
	}
	c := RegimeCodes{
		Apprentice: l.code("0062"),
		Integral:   l.code("0063"),
		Ley50:      l.code("0060"),
		Previous:   l.code("0061"),
		Retiree:    l.code("0064"),
	}
	return c, l.err()
}

// SickLeaveCodes are the absence type codes the sick-leave classifier
// recognizes.
type SickLeaveCodes struct {
	GeneralDisability            string
	ExtGeneralDisability         string
	HospitalGeneralDisability    string
	ExtHospitalGeneralDisability string
	JobAccident                  string
	ExtJobAccident               string
	OccupationalDisease          string
}

func (r *Resolver) SickLeaveCodes(ctx context.Context, companyID string) (SickLeaveCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return SickLeaveCodes{}, err
	}
	c := SickLeaveCodes{
		GeneralDisability:            l.code("0101"),
		ExtGeneralDisability:         l.code("0102"),
		HospitalGeneralDisability:    l.code("0103"),
		ExtHospitalGeneralDisability: l.code("0104"),
		JobAccident:                  l.code("0113"),
		ExtJobAccident:               l.code("0114"),
		OccupationalDisease:          l.code("0115"),
	}
	return c, l.err()
}

// AssistanceCodes select which disability day count feeds the employer's
// additional assistance.
type AssistanceCodes struct {
	EmployerDays string
	EPSDays      string
	AllDays      string
}

func (r *Resolver) AssistanceCodes(ctx context.Context, companyID string) (AssistanceCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return AssistanceCodes{}, err
	}
	c := AssistanceCodes{
		EmployerDays: l.code("0108"),
		EPSDays:      l.code("0109"),
		AllDays:      l.code("0110"),
	}
	return c, l.err()
}

// IBCCodes are the concepts the IBC calculator reads and posts.
type IBCCodes struct {
	HealthBasePrevMonth string
	VacationsBase       string
	PaidLeave           string
	NoPaidLeave         string
	IntegralRegime      string
	HealthBase          string
}

func (r *Resolver) IBCCodes(ctx context.Context, companyID string) (IBCCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return IBCCodes{}, err
	}
	c := IBCCodes{
		HealthBasePrevMonth: l.code("0019"),
		VacationsBase:       l.code("0016"),
		PaidLeave:           l.code("0017"),
		NoPaidLeave:         l.code("0018"),
		IntegralRegime:      l.code("0063"),
		HealthBase:          l.code("0015"),
	}
	return c, l.err()
}

// HealthCodes are the health contribution posting concepts and the regimes
// that change its formula.
type HealthCodes struct {
	ApprenticeRegime string
	RetireeRegime    string
	IntegralRegime   string
	EmployeeAport    string
	EmployerAport    string
}

func (r *Resolver) HealthCodes(ctx context.Context, companyID string) (HealthCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return HealthCodes{}, err
	}
	c := HealthCodes{
		ApprenticeRegime: l.code("0062"),
		RetireeRegime:    l.code("0064"),
		IntegralRegime:   l.code("0063"),
		EmployeeAport:    l.code("0008"),
		EmployerAport:    l.code("0009"),
	}
	return c, l.err()
}

// PensionCodes are the pension contribution concepts and contributing
// regimes.
type PensionCodes struct {
	IntegralRegime string
	Ley50          string
	PreviousRegime string
	EmployerAport  string
	EmployeeAport  string
}

func (r *Resolver) PensionCodes(ctx context.Context, companyID string) (PensionCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return PensionCodes{}, err
	}
	c := PensionCodes{
		IntegralRegime: l.code("0063"),
		Ley50:          l.code("0060"),
		PreviousRegime: l.code("0061"),
		EmployerAport:  l.code("0021"),
		EmployeeAport:  l.code("0020"),
	}
	return c, l.err()
}

// SolidarityCodes are the pension solidarity fund posting concepts.
type SolidarityCodes struct {
	ApprenticeRegime string
	RetireeRegime    string
	TotalAport       string
	SolidarityFund   string
	SubsistenceFund  string
}

func (r *Resolver) SolidarityCodes(ctx context.Context, companyID string) (SolidarityCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return SolidarityCodes{}, err
	}
	c := SolidarityCodes{
		ApprenticeRegime: l.code("0062"),
		RetireeRegime:    l.code("0064"),
		TotalAport:       l.code("0065"),
		SolidarityFund:   l.code("0066"),
		SubsistenceFund:  l.code("0067"),
	}
	return c, l.err()
}

// ParafiscalCodes are the parafiscal contribution concepts.
type ParafiscalCodes struct {
	Subsistence    string
	IntegralRegime string
	BaseCree       string
	SenaAport      string
	IcbfAport      string
	CajaAport      string
}

func (r *Resolver) ParafiscalCodes(ctx context.Context, companyID string) (ParafiscalCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return ParafiscalCodes{}, err
	}
	c := ParafiscalCodes{
		Subsistence:    l.code("0070"),
		IntegralRegime: l.code("0063"),
		BaseCree:       l.code("0012"),
		SenaAport:      l.code("0024"),
		IcbfAport:      l.code("0025"),
		CajaAport:      l.code("0023"),
	}
	return c, l.err()
}

// RiskCodes are the labor risk contribution concepts.
type RiskCodes struct {
	IntegralRegime   string
	ApprenticeRegime string
	ApprenticeType   string
	RiskBase         string
	RiskAport        string
}

func (r *Resolver) RiskCodes(ctx context.Context, companyID string) (RiskCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return RiskCodes{}, err
	}
	c := RiskCodes{
		IntegralRegime:   l.code("0063"),
		ApprenticeRegime: l.code("0062"),
		ApprenticeType:   l.code("0080"),
		RiskBase:         l.code("0068"),
		RiskAport:        l.code("0022"),
	}
	return c, l.err()
}

// Excess1393Codes are the law 1393 informational and excess concepts.
type Excess1393Codes struct {
	SalariesPay   string
	SalariesNoPay string
	TotalBaseCree string
	TopLaw1393    string
	ExemptBase    string
	Excess        string
}

func (r *Resolver) Excess1393Codes(ctx context.Context, companyID string) (Excess1393Codes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return Excess1393Codes{}, err
	}
	c := Excess1393Codes{
		SalariesPay:   l.code("0010"),
		SalariesNoPay: l.code("0011"),
		TotalBaseCree: l.code("0012"),
		TopLaw1393:    l.code("0036"),
		ExemptBase:    l.code("0013"),
		Excess:        l.code("0014"),
	}
	return c, l.err()
}

// TransportCodes are the transport assistance concepts.
type TransportCodes struct {
	WorkedDaysPeriod string
	TransportBase    string
	LegalAssistance  string
}

func (r *Resolver) TransportCodes(ctx context.Context, companyID string) (TransportCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return TransportCodes{}, err
	}
	c := TransportCodes{
		WorkedDaysPeriod: l.code("0006"),
		TransportBase:    l.code("0081"),
		LegalAssistance:  l.code("0005"),
	}
	return c, l.err()
}

// SeveranceCodes are the severance provision itemization concepts plus the
// interest sub-provision.
type SeveranceCodes struct {
	WorkedDays     string
	VariablePart   string
	StaticPart     string
	Base           string
	NewValue       string
	PreviousValue  string
	Provision      string
	InterestBase   string
	InterestNew    string
	InterestBefore string
	InterestProv   string
	InterestDays   string
	InterestFactor string
	Paid           string
	InterestPaid   string
}

func (r *Resolver) SeveranceCodes(ctx context.Context, companyID string) (SeveranceCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return SeveranceCodes{}, err
	}
	c := SeveranceCodes{
		WorkedDays:     l.code("0132"),
		VariablePart:   l.code("0133"),
		StaticPart:     l.code("0134"),
		Base:           l.code("0135"),
		NewValue:       l.code("0136"),
		PreviousValue:  l.code("0137"),
		Provision:      l.code("0138"),
		InterestBase:   l.code("0139"),
		InterestNew:    l.code("0140"),
		InterestBefore: l.code("0141"),
		InterestProv:   l.code("0142"),
		InterestDays:   l.code("0143"),
		InterestFactor: l.code("0144"),
		Paid:           l.code("0157"),
		InterestPaid:   l.code("0158"),
	}
	return c, l.err()
}

// BonusCodes are the legal bonus provision itemization concepts.
type BonusCodes struct {
	WorkedDays     string
	VariableBase   string
	StaticSalary   string
	ProvisionBase  string
	ProvisionValue string
	PreviousBonus  string
	TotalProvision string
	PaidBonus      string
	DaysFactor     string
}

func (r *Resolver) BonusCodes(ctx context.Context, companyID string) (BonusCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return BonusCodes{}, err
	}
	c := BonusCodes{
		WorkedDays:     l.code("0145"),
		VariableBase:   l.code("0146"),
		StaticSalary:   l.code("0147"),
		ProvisionBase:  l.code("0148"),
		ProvisionValue: l.code("0149"),
		PreviousBonus:  l.code("0150"),
		TotalProvision: l.code("0151"),
		PaidBonus:      l.code("0156"),
		DaysFactor:     l.code("0155"),
	}
	return c, l.err()
}

// LicenseCodes are the license absence type codes keyed by catalog id. The
// classifier matches each absence's catalog entry against these.
type LicenseCodes struct {
	Unpaid     string
	Paid       string
	Suspension string
	Paternity  string
	Maternity  string
}

func (r *Resolver) LicenseCodes(ctx context.Context, companyID string) (LicenseCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return LicenseCodes{}, err
	}
	c := LicenseCodes{
		Unpaid:     l.code("0122"),
		Paid:       l.code("0123"),
		Suspension: l.code("0126"),
		Paternity:  l.code("0127"),
		Maternity:  l.code("0128"),
	}
	return c, l.err()
}

// AbsencePostingCodes are the concepts the absence stage posts its totals
// to: one per disease bucket, one per license bucket, plus the total absent
// days counter and the social security sub-bases.
type AbsencePostingCodes struct {
	EmployerDisability     string
	EPSDisability          string
	EmployerAssistance     string
	EPSDisabilityExt       string
	EPSHospital            string
	EPSHospitalExt         string
	EmployerAccident       string
	EPSAccident            string
	EPSAccidentExt         string
	EPSOccupational        string
	EPSOccupationalExt     string
	LicensePaid            string
	LicenseUnpaid          string
	Suspension             string
	Paternity              string
	Maternity              string
	TotalAbsentDays        string
	VacationAbsenceBase    string
	PaidLeaveAbsenceBase   string
	UnpaidLeaveAbsenceBase string
}

func (r *Resolver) AbsencePostingCodes(ctx context.Context, companyID string) (AbsencePostingCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return AbsencePostingCodes{}, err
	}
	c := AbsencePostingCodes{
		EmployerDisability:     l.code("0095"),
		EPSDisability:          l.code("0096"),
		EmployerAssistance:     l.code("0097"),
		EPSDisabilityExt:       l.code("0098"),
		EPSHospital:            l.code("0099"),
		EPSHospitalExt:         l.code("0111"),
		EmployerAccident:       l.code("0117"),
		EPSAccident:            l.code("0118"),
		EPSAccidentExt:         l.code("0119"),
		EPSOccupational:        l.code("0120"),
		EPSOccupationalExt:     l.code("0121"),
		LicensePaid:            l.code("0124"),
		LicenseUnpaid:          l.code("0125"),
		Suspension:             l.code("0129"),
		Paternity:              l.code("0130"),
		Maternity:              l.code("0131"),
		TotalAbsentDays:        l.code("0007"),
		VacationAbsenceBase:    l.code("0030"),
		PaidLeaveAbsenceBase:   l.code("0031"),
		UnpaidLeaveAbsenceBase: l.code("0032"),
	}
	return c, l.err()
}

// VacationCodes are the vacation provision itemization concepts.
type VacationCodes struct {
	WorkedDays      string
	VariableBase    string
	StaticBase      string
	ProvisionBase   string
	NewBalance      string
	PreviousBalance string
	Provision       string
	Enjoyed         string
	Compensated     string
}

func (r *Resolver) VacationCodes(ctx context.Context, companyID string) (VacationCodes, error) {
	l, err := r.lookup(ctx, companyID)
	if err != nil {
		return VacationCodes{}, err
	}
	c := VacationCodes{
		WorkedDays:      l.code("0152"),
		VariableBase:    l.code("0153"),
		StaticBase:      l.code("0154"),
		ProvisionBase:   l.code("0159"),
		NewBalance:      l.code("0160"),
		PreviousBalance: l.code("0161"),
		Provision:       l.code("0162"),
		Enjoyed:         l.code("0163"),
		Compensated:     l.code("0164"),
	}
	return c, l.err()
}
