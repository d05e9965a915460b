package provisions_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	"github.com/nominaplus/payroll-engine/internal/domain/movement"
	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
	"github.com/nominaplus/payroll-engine/internal/service/ledger"
	"github.com/nominaplus/payroll-engine/internal/service/ledger/ledgertest"
	"github.com/nominaplus/payroll-engine/internal/service/provisions"
	"github.com/nominaplus/payroll-engine/internal/service/refdata/refdatatest"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixture() *refdatatest.Fixture {
	f := refdatatest.NewFixture("c1").
		WithCode("0060", "LEY50").
		WithCode("0148", "PRIMA_BASE")
	severance := map[string]string{
		"0132": "CES_DAYS", "0133": "CES_VAR", "0134": "CES_STATIC",
		"0135": "CES_BASE", "0136": "CES_NEW", "0137": "CES_PREV",
		"0138": "CES_PROV", "0139": "INT_BASE", "0140": "INT_NEW",
		"0141": "INT_PREV", "0142": "INT_PROV", "0143": "INT_DAYS",
		"0157": "CES_PAID", "0158": "INT_PAID",
	}
	for id, code := range severance {
		f.WithCode(id, code)
	}
	bonus := map[string]string{
		"0145": "PRIMA_DAYS", "0146": "PRIMA_VAR", "0147": "PRIMA_STATIC",
		"0149": "PRIMA_NEW", "0150": "PRIMA_PREV", "0151": "PRIMA_TOTAL",
		"0156": "PRIMA_PAID",
	}
	for id, code := range bonus {
		f.WithCode(id, code)
	}
	vacation := map[string]string{
		"0152": "VAC_DAYS", "0153": "VAC_VAR", "0154": "VAC_STATIC",
		"0159": "VAC_BASE", "0160": "VAC_NEW", "0161": "VAC_PREV",
		"0162": "VAC_PROV", "0163": "VAC_ENJOYED", "0164": "VAC_COMP",
	}
	for id, code := range vacation {
		f.WithCode(id, code)
	}
	f.WithConstant("0144", "12")
	f.WithConstant("0155", "30")
	return f
}

func provisionConcepts(repo *ledgertest.Repo) concept.CompanyConcepts {
	codes := []string{
		"CES_DAYS", "CES_VAR", "CES_STATIC", "CES_BASE", "CES_NEW", "CES_PREV", "CES_PROV",
		"INT_BASE", "INT_NEW", "INT_PREV", "INT_PROV", "INT_DAYS", "CES_PAID", "INT_PAID",
		"PRIMA_DAYS", "PRIMA_VAR", "PRIMA_STATIC", "PRIMA_BASE", "PRIMA_NEW", "PRIMA_PREV", "PRIMA_TOTAL", "PRIMA_PAID",
		"VAC_DAYS", "VAC_VAR", "VAC_STATIC", "VAC_BASE", "VAC_NEW", "VAC_PREV", "VAC_PROV", "VAC_ENJOYED", "VAC_COMP",
	}
	concepts := make([]concept.Concept, 0, len(codes))
	byCode := make(map[string]string, len(codes))
	for _, code := range codes {
		c := concept.Concept{ID: "cn-" + code, Code: code}
		concepts = append(concepts, c)
		byCode[code] = c.ID
		repo.RegisterConcept(c)
	}
	return concept.CompanyConcepts{Concepts: concepts, ByCode: byCode}
}

// calcContext covers the first half of 2025: the employee was hired on
// January 1st and the June period closes a 180-day window.
func calcContext() *payroll.CalcContext {
	return &payroll.CalcContext{
		EmployeeID: "e1",
		CompanyID:  "c1",
		Period: &payroll.Period{
			ID:                   "p6",
			CompanyID:            "c1",
			Year:                 2025,
			Month:                6,
			Number:               6,
			InitialDate:          date(2025, time.June, 1),
			EndDate:              date(2025, time.June, 30),
			PreviousPeriodYear:   2025,
			PreviousPeriodNumber: 5,
		},
		Salary: payroll.SalaryData{Salary: decimal.NewFromInt(3000000)},
		Contract: payroll.ContractData{
			RegimeCode:          "LEY50",
			InitialContractDate: date(2025, time.January, 1),
		},
	}
}

func quantitiesByConcept(movements []movement.Movement) map[string]movement.QuantityValue {
	out := make(map[string]movement.QuantityValue, len(movements))
	for _, m := range movements {
		out[m.ConceptID] = movement.QuantityValue{Quantity: m.Quantity, Value: m.Value}
	}
	return out
}

func TestCalculateSeverance(t *testing.T) {
	repo := ledgertest.NewRepo()
	concepts := provisionConcepts(repo)
	svc := provisions.NewService(ledger.NewService(repo), fixture().Resolver())

	cc := calcContext()
	movements, unpaid, err := svc.CalculateSeverance(context.Background(), cc, concepts)
	require.NoError(t, err)

	got := quantitiesByConcept(movements)

	// 180 worked days accrue 15 severance days: 180 * 30 / 360.
	assert.True(t, got["cn-CES_DAYS"].Quantity.Equal(decimal.NewFromInt(180)), "worked days: %s", got["cn-CES_DAYS"].Quantity)
	assert.True(t, got["cn-CES_NEW"].Quantity.Equal(decimal.NewFromInt(15)), "unpaid days: %s", got["cn-CES_NEW"].Quantity)
	assert.True(t, got["cn-CES_NEW"].Value.Equal(decimal.NewFromInt(1500000)), "unpaid value: %s", got["cn-CES_NEW"].Value)
	assert.True(t, got["cn-CES_PROV"].Value.Equal(decimal.NewFromInt(1500000)), "provision: %s", got["cn-CES_PROV"].Value)
	assert.True(t, unpaid.Equal(decimal.NewFromInt(1500000)))
}

func TestCalculateSeveranceDiscountsPaid(t *testing.T) {
	repo := ledgertest.NewRepo()
	concepts := provisionConcepts(repo)
	repo.RegisterPeriod(payroll.Period{ID: "p3", Number: 3})
	// Five severance days were already paid out in March.
	repo.Seed(movement.Movement{
		ID:         "m-paid",
		EmployeeID: "e1",
		CompanyID:  "c1",
		PeriodID:   "p3",
		ConceptID:  "cn-CES_PAID",
		Quantity:   decimal.NewFromInt(5),
		Value:      decimal.NewFromInt(5),
		Year:       2025,
		Month:      3,
	})
	svc := provisions.NewService(ledger.NewService(repo), fixture().Resolver())

	cc := calcContext()
	movements, unpaid, err := svc.CalculateSeverance(context.Background(), cc, concepts)
	require.NoError(t, err)

	got := quantitiesByConcept(movements)
	assert.True(t, got["cn-CES_NEW"].Quantity.Equal(decimal.NewFromInt(10)), "unpaid days: %s", got["cn-CES_NEW"].Quantity)
	assert.True(t, unpaid.Equal(decimal.NewFromInt(1000000)), "unpaid value: %s", unpaid)
}

func TestCalculateSeveranceInterest(t *testing.T) {
	repo := ledgertest.NewRepo()
	concepts := provisionConcepts(repo)
	svc := provisions.NewService(ledger.NewService(repo), fixture().Resolver())

	cc := calcContext()
	interestBase := decimal.NewFromInt(1500000)
	movements, err := svc.CalculateSeveranceInterest(context.Background(), cc, concepts, interestBase)
	require.NoError(t, err)

	got := quantitiesByConcept(movements)

	// 180 days at the 12% factor: 180 * 12 / 360 = 6 interest days, each
	// worth a thirtieth of the severance balance.
	assert.True(t, got["cn-INT_NEW"].Quantity.Equal(decimal.NewFromInt(6)), "interest days: %s", got["cn-INT_NEW"].Quantity)
	assert.True(t, got["cn-INT_NEW"].Value.Equal(decimal.NewFromInt(300000)), "interest value: %s", got["cn-INT_NEW"].Value)
}

func TestCalculateBonus(t *testing.T) {
	repo := ledgertest.NewRepo()
	concepts := provisionConcepts(repo)
	svc := provisions.NewService(ledger.NewService(repo), fixture().Resolver())

	cc := calcContext()
	movements, err := svc.CalculateBonus(context.Background(), cc, concepts)
	require.NoError(t, err)

	got := quantitiesByConcept(movements)

	// 180 worked days earn the full semester bonus: 180 * 30 / 180 = 30
	// days at base/30.
	assert.True(t, got["cn-PRIMA_NEW"].Quantity.Equal(decimal.NewFromInt(30)), "bonus days: %s", got["cn-PRIMA_NEW"].Quantity)
	assert.True(t, got["cn-PRIMA_NEW"].Value.Equal(decimal.NewFromInt(3000000)), "bonus value: %s", got["cn-PRIMA_NEW"].Value)
	assert.True(t, got["cn-PRIMA_TOTAL"].Value.Equal(decimal.NewFromInt(3000000)), "total: %s", got["cn-PRIMA_TOTAL"].Value)
}

func TestCalculateBonusSecondSemesterWindow(t *testing.T) {
	repo := ledgertest.NewRepo()
	concepts := provisionConcepts(repo)
	svc := provisions.NewService(ledger.NewService(repo), fixture().Resolver())

	cc := calcContext()
	cc.Period.Month = 8
	cc.Period.Number = 8
	cc.Period.InitialDate = date(2025, time.August, 1)
	cc.Period.EndDate = date(2025, time.August, 30)
	cc.Period.PreviousPeriodNumber = 7

	movements, err := svc.CalculateBonus(context.Background(), cc, concepts)
	require.NoError(t, err)

	got := quantitiesByConcept(movements)
	// The window restarts on July 1st: 60 days into the second semester.
	assert.True(t, got["cn-PRIMA_DAYS"].Quantity.Equal(decimal.NewFromInt(60)), "worked days: %s", got["cn-PRIMA_DAYS"].Quantity)
}

func TestCalculateVacation(t *testing.T) {
	repo := ledgertest.NewRepo()
	concepts := provisionConcepts(repo)
	svc := provisions.NewService(ledger.NewService(repo), fixture().Resolver())

	cc := calcContext()
	cc.Contract.InitialContractDate = date(2025, time.January, 2)

	movements, err := svc.CalculateVacation(context.Background(), cc, concepts)
	require.NoError(t, err)

	got := quantitiesByConcept(movements)

	// 180 days of service accrue 7.5 vacation days: 180 * 15 / 360.
	assert.True(t, got["cn-VAC_DAYS"].Quantity.Equal(decimal.NewFromInt(180)), "worked days: %s", got["cn-VAC_DAYS"].Quantity)
	assert.True(t, got["cn-VAC_NEW"].Quantity.Equal(decimal.NewFromFloat(7.5)), "balance days: %s", got["cn-VAC_NEW"].Quantity)
	assert.True(t, got["cn-VAC_NEW"].Value.Equal(decimal.NewFromInt(750000)), "balance value: %s", got["cn-VAC_NEW"].Value)
}

func TestCalculateVacationDiscountsHistory(t *testing.T) {
	repo := ledgertest.NewRepo()
	concepts := provisionConcepts(repo)
	svc := provisions.NewService(ledger.NewService(repo), fixture().Resolver())

	cc := calcContext()
	cc.Contract.InitialContractDate = date(2025, time.January, 2)
	// Two vacation days were already enjoyed before the ledger existed.
	cc.VacationHistory = decimal.NewFromInt(2)

	movements, err := svc.CalculateVacation(context.Background(), cc, concepts)
	require.NoError(t, err)

	got := quantitiesByConcept(movements)
	assert.True(t, got["cn-VAC_NEW"].Quantity.Equal(decimal.NewFromFloat(5.5)), "balance days: %s", got["cn-VAC_NEW"].Quantity)
}
