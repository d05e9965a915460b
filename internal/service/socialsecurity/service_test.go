package socialsecurity_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	"github.com/nominaplus/payroll-engine/internal/domain/movement"
	"github.com/nominaplus/payroll-engine/internal/domain/novelty"
	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
	domainRefdata "github.com/nominaplus/payroll-engine/internal/domain/refdata"
	"github.com/nominaplus/payroll-engine/internal/service/absenteeism"
	"github.com/nominaplus/payroll-engine/internal/service/ledger"
	"github.com/nominaplus/payroll-engine/internal/service/ledger/ledgertest"
	"github.com/nominaplus/payroll-engine/internal/service/refdata/refdatatest"
	"github.com/nominaplus/payroll-engine/internal/service/socialsecurity"
)

type noAbsences struct{}

func (noAbsences) ListOverlapping(ctx context.Context, employeeID string, from, to time.Time, typeCodes []string) ([]novelty.AbsenteeHistory, error) {
	return nil, nil
}
func (noAbsences) InitialDays(ctx context.Context, id string) (int, error) { return 0, nil }
func (noAbsences) DaysByReference(ctx context.Context, reference string, before time.Time) (int, error) {
	return 0, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixture registers the contribution codes and rates: SMLV 1,300,000, base
// cap at five minimum wages, health 4% employee and 8.5% employer, pension
// 4% employee and 12% employer.
func fixture() *refdatatest.Fixture {
	return refdatatest.NewFixture("c1").
		WithCode("0019", "IBC_PREV").
		WithCode("0016", "IBC_VAC").
		WithCode("0017", "IBC_LP").
		WithCode("0018", "IBC_LNP").
		WithCode("0015", "IBC_HEALTH").
		WithCode("0063", "INTEGRAL").
		WithCode("0062", "APPRENTICE").
		WithCode("0064", "RETIREE").
		WithCode("0060", "LEY50").
		WithCode("0061", "PREVIOUS").
		WithCode("0030", "AB_VAC").
		WithCode("0031", "AB_LP").
		WithCode("0032", "AB_LNP").
		WithCode("0008", "HEALTH_EMP").
		WithCode("0009", "HEALTH_COM").
		WithCode("0020", "PENSION_EMP").
		WithCode("0021", "PENSION_COM").
		WithCode("0065", "SOL_TOTAL").
		WithCode("0066", "SOL_FUND").
		WithCode("0067", "SUB_FUND").
		WithConstant("0033", "70").
		WithConstant("0034", "5").
		WithConstant("0035", "1300000").
		WithConstant("0037", "4").
		WithConstant("0040", "8.5").
		WithConstant("0039", "4").
		WithConstant("0038", "12")
}

type env struct {
	repo *ledgertest.Repo
	svc  *socialsecurity.Service
}

func newEnv(f *refdatatest.Fixture) *env {
	repo := ledgertest.NewRepo()
	ledgerSvc := ledger.NewService(repo)
	resolver := f.Resolver()
	absences := absenteeism.NewService(noAbsences{}, resolver)
	return &env{
		repo: repo,
		svc:  socialsecurity.NewService(ledgerSvc, resolver, absences),
	}
}

// registerConcepts creates one concept per code, both in the fake ledger and
// in the catalog handed to the calculators.
func registerConcepts(repo *ledgertest.Repo, concepts []concept.Concept) concept.CompanyConcepts {
	byCode := make(map[string]string, len(concepts))
	for _, c := range concepts {
		repo.RegisterConcept(c)
		byCode[c.Code] = c.ID
	}
	return concept.CompanyConcepts{Concepts: concepts, ByCode: byCode}
}

func ibcConcepts(repo *ledgertest.Repo) concept.CompanyConcepts {
	return registerConcepts(repo, []concept.Concept{
		{ID: "cn-sal", Code: "SAL", SecurityBase: true},
		{ID: "cn-prev", Code: "IBC_PREV"},
		{ID: "cn-vac", Code: "IBC_VAC"},
		{ID: "cn-lp", Code: "IBC_LP"},
		{ID: "cn-lnp", Code: "IBC_LNP"},
		{ID: "cn-health", Code: "IBC_HEALTH"},
		{ID: "cn-hemp", Code: "HEALTH_EMP"},
		{ID: "cn-hcom", Code: "HEALTH_COM"},
		{ID: "cn-pemp", Code: "PENSION_EMP"},
		{ID: "cn-pcom", Code: "PENSION_COM"},
		{ID: "cn-stot", Code: "SOL_TOTAL"},
		{ID: "cn-sfund", Code: "SOL_FUND"},
		{ID: "cn-subf", Code: "SUB_FUND"},
	})
}

func calcContext(endDay int) *payroll.CalcContext {
	return &payroll.CalcContext{
		EmployeeID: "e1",
		CompanyID:  "c1",
		Period: &payroll.Period{
			ID:          "p1",
			CompanyID:   "c1",
			Year:        2025,
			Month:       3,
			Number:      3,
			InitialDate: date(2025, time.March, 1),
			EndDate:     date(2025, time.March, endDay),
		},
		Salary: payroll.SalaryData{
			Salary:         decimal.NewFromInt(3000000),
			SalaryTypeCode: "TS_ORD",
		},
		Contract: payroll.ContractData{RegimeCode: "LEY50"},
	}
}

func seedEarning(repo *ledgertest.Repo, value int64) {
	repo.Seed(movement.Movement{
		ID:         "m-sal",
		EmployeeID: "e1",
		CompanyID:  "c1",
		PeriodID:   "p1",
		ConceptID:  "cn-sal",
		Value:      decimal.NewFromInt(value),
		Year:       2025,
		Month:      3,
	})
}

func TestCalculateIBCClampsToMaximum(t *testing.T) {
	e := newEnv(fixture())
	concepts := ibcConcepts(e.repo)
	seedEarning(e.repo, 9500000)

	cc := calcContext(30)
	_, err := e.svc.CalculateIBC(context.Background(), cc, concepts)
	require.NoError(t, err)

	// Cap is five minimum wages: 6,500,000.
	assert.True(t, cc.IBC.Equal(decimal.NewFromInt(6500000)), "ibc: %s", cc.IBC)
}

func TestCalculateIBCAddsLawExcess(t *testing.T) {
	e := newEnv(fixture())
	concepts := ibcConcepts(e.repo)
	seedEarning(e.repo, 3000000)

	cc := calcContext(30)
	cc.Excess1393 = decimal.NewFromInt(1200000)
	_, err := e.svc.CalculateIBC(context.Background(), cc, concepts)
	require.NoError(t, err)

	// The law 1393 excess joins the contribution base on top of the
	// security-base earnings.
	assert.True(t, cc.IBC.Equal(decimal.NewFromInt(4200000)), "ibc: %s", cc.IBC)
}

func TestCalculateIBCFloorsAtMinimumWage(t *testing.T) {
	e := newEnv(fixture())
	concepts := ibcConcepts(e.repo)
	seedEarning(e.repo, 500000)

	cc := calcContext(30)
	_, err := e.svc.CalculateIBC(context.Background(), cc, concepts)
	require.NoError(t, err)

	assert.True(t, cc.IBC.Equal(decimal.NewFromInt(1300000)), "ibc: %s", cc.IBC)
}

func TestCalculateIBCHalfMonthHalvesTheFloor(t *testing.T) {
	e := newEnv(fixture())
	concepts := ibcConcepts(e.repo)
	seedEarning(e.repo, 500000)

	cc := calcContext(15)
	_, err := e.svc.CalculateIBC(context.Background(), cc, concepts)
	require.NoError(t, err)

	assert.True(t, cc.IBC.Equal(decimal.NewFromInt(650000)), "ibc: %s", cc.IBC)
}

func TestCalculateIBCNetsOutPostedBase(t *testing.T) {
	e := newEnv(fixture())
	concepts := ibcConcepts(e.repo)
	seedEarning(e.repo, 3000000)
	// A previous run of the same month already posted part of the base.
	e.repo.Seed(movement.Movement{
		ID:         "m-posted",
		EmployeeID: "e1",
		CompanyID:  "c1",
		PeriodID:   "p0",
		ConceptID:  "cn-health",
		Value:      decimal.NewFromInt(1000000),
		Year:       2025,
		Month:      3,
	})

	cc := calcContext(30)
	_, err := e.svc.CalculateIBC(context.Background(), cc, concepts)
	require.NoError(t, err)

	assert.True(t, cc.IBC.Equal(decimal.NewFromInt(2000000)), "ibc: %s", cc.IBC)
}

func TestCalculateHealthDefaultRegime(t *testing.T) {
	e := newEnv(fixture())
	concepts := ibcConcepts(e.repo)

	cc := calcContext(30)
	cc.IBC = decimal.NewFromInt(2000000)
	cc.TotalBaseCree = decimal.NewFromInt(5000000)

	movements, err := e.svc.CalculateHealth(context.Background(), cc, concepts)
	require.NoError(t, err)

	got := valuesByConcept(movements)
	// Below ten minimum wages the employer share is exonerated.
	assert.True(t, got["cn-hemp"].Equal(decimal.NewFromInt(80000)), "employee: %s", got["cn-hemp"])
	assert.True(t, got["cn-hcom"].IsZero(), "employer: %s", got["cn-hcom"])
}

func TestCalculateHealthAboveCreeThreshold(t *testing.T) {
	e := newEnv(fixture())
	concepts := ibcConcepts(e.repo)

	cc := calcContext(30)
	cc.IBC = decimal.NewFromInt(2000000)
	cc.TotalBaseCree = decimal.NewFromInt(20000000)

	movements, err := e.svc.CalculateHealth(context.Background(), cc, concepts)
	require.NoError(t, err)

	got := valuesByConcept(movements)
	assert.True(t, got["cn-hcom"].Equal(decimal.NewFromInt(170000)), "employer: %s", got["cn-hcom"])
}

func TestCalculatePensionSkipsNonContributingRegime(t *testing.T) {
	e := newEnv(fixture())
	concepts := ibcConcepts(e.repo)

	cc := calcContext(30)
	cc.IBC = decimal.NewFromInt(2000000)
	cc.Contract.RegimeCode = "APPRENTICE"

	movements, err := e.svc.CalculatePension(context.Background(), cc, concepts)
	require.NoError(t, err)

	for _, m := range movements {
		assert.True(t, m.IsZero(), "apprentice should not contribute, got %s on %s", m.Value, m.ConceptID)
	}
}

func TestCalculatePensionContributingRegime(t *testing.T) {
	e := newEnv(fixture())
	concepts := ibcConcepts(e.repo)

	cc := calcContext(30)
	cc.IBC = decimal.NewFromInt(2000000)

	movements, err := e.svc.CalculatePension(context.Background(), cc, concepts)
	require.NoError(t, err)

	got := valuesByConcept(movements)
	assert.True(t, got["cn-pemp"].Equal(decimal.NewFromInt(80000)), "employee: %s", got["cn-pemp"])
	assert.True(t, got["cn-pcom"].Equal(decimal.NewFromInt(240000)), "employer: %s", got["cn-pcom"])
}

func TestCalculateSolidarity(t *testing.T) {
	f := fixture().WithBracket(domainRefdata.SolidarityBracket{
		SalaryMin:      decimal.NewFromInt(4),
		SalaryMax:      decimal.NewFromInt(16),
		Percentage:     decimal.NewFromInt(1),
		PerSolidarity:  decimal.NewFromInt(50),
		PerSubsistence: decimal.NewFromInt(50),
		IsPensionary:   true,
	})
	e := newEnv(f)
	concepts := ibcConcepts(e.repo)

	cc := calcContext(30)
	// 6,500,000 is five minimum wages, inside the 4-16 bracket.
	cc.Salary.Salary = decimal.NewFromInt(6500000)
	cc.IBC = decimal.NewFromInt(6500000)

	movements, err := e.svc.CalculateSolidarity(context.Background(), cc, concepts)
	require.NoError(t, err)

	got := valuesByConcept(movements)
	assert.True(t, got["cn-stot"].Equal(decimal.NewFromInt(65000)), "total: %s", got["cn-stot"])
	assert.True(t, got["cn-sfund"].Equal(decimal.NewFromInt(32500)), "solidarity: %s", got["cn-sfund"])
	assert.True(t, got["cn-subf"].Equal(decimal.NewFromInt(32500)), "subsistence: %s", got["cn-subf"])
}

func TestCalculateSolidaritySkipsRetiree(t *testing.T) {
	e := newEnv(fixture())
	concepts := ibcConcepts(e.repo)

	cc := calcContext(30)
	cc.Contract.RegimeCode = "RETIREE"

	movements, err := e.svc.CalculateSolidarity(context.Background(), cc, concepts)
	require.NoError(t, err)
	assert.Nil(t, movements)
}

func riskFixture() *refdatatest.Fixture {
	return fixture().
		WithCode("0080", "APPR_PROD").
		WithCode("0068", "ARL_BASE").
		WithCode("0022", "ARL_APORTE").
		WithConstant("0069", "25")
}

func riskConcepts(repo *ledgertest.Repo) concept.CompanyConcepts {
	return registerConcepts(repo, []concept.Concept{
		{ID: "cn-rsal", Code: "RSAL", RiskBase: true},
		{ID: "cn-arlbase", Code: "ARL_BASE"},
		{ID: "cn-arlap", Code: "ARL_APORTE"},
	})
}

func seedRiskEarning(repo *ledgertest.Repo, value int64) {
	repo.Seed(movement.Movement{
		ID:         "m-rsal",
		EmployeeID: "e1",
		CompanyID:  "c1",
		PeriodID:   "p1",
		ConceptID:  "cn-rsal",
		Value:      decimal.NewFromInt(value),
		Year:       2025,
		Month:      3,
	})
}

func TestCalculateRiskSkipsLectiveApprentice(t *testing.T) {
	e := newEnv(riskFixture())
	concepts := riskConcepts(e.repo)
	seedRiskEarning(e.repo, 2000000)

	cc := calcContext(30)
	cc.Contract.RegimeCode = "APPRENTICE"

	movements, err := e.svc.CalculateRisk(context.Background(), cc, concepts)
	require.NoError(t, err)
	assert.Nil(t, movements)
}

func TestCalculateRiskProductiveApprenticeContributes(t *testing.T) {
	e := newEnv(riskFixture())
	concepts := riskConcepts(e.repo)
	seedRiskEarning(e.repo, 2000000)

	cc := calcContext(30)
	// An apprentice in the productive stage carries a labor risk affiliation
	// and contributes at the workplace rate.
	cc.Contract.RegimeCode = "APPRENTICE"
	cc.Contract.ContributorTypeCode = "APPR_PROD"
	cc.Contract.RiskPercentage = decimal.NewFromFloat(0.522)

	movements, err := e.svc.CalculateRisk(context.Background(), cc, concepts)
	require.NoError(t, err)

	got := valuesByConcept(movements)
	assert.True(t, got["cn-arlbase"].Equal(decimal.NewFromInt(2000000)), "base: %s", got["cn-arlbase"])
	assert.True(t, got["cn-arlap"].Equal(decimal.NewFromInt(10440)), "aporte: %s", got["cn-arlap"])
}

func valuesByConcept(movements []movement.Movement) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(movements))
	for _, m := range movements {
		out[m.ConceptID] = m.Value
	}
	return out
}
