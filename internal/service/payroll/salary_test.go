package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nominaplus/payroll-engine/internal/domain/concept"
	domain "github.com/nominaplus/payroll-engine/internal/domain/payroll"
	"github.com/nominaplus/payroll-engine/internal/service/ledger"
	"github.com/nominaplus/payroll-engine/internal/service/ledger/ledgertest"
	"github.com/nominaplus/payroll-engine/internal/service/refdata/refdatatest"
)

func salaryFixture() *refdatatest.Fixture {
	return refdatatest.NewFixture("c1").
		WithCode("0028", "TS_ORD").
		WithCode("0001", "SALARIO").
		WithCode("0029", "TS_INT").
		WithCode("0002", "SAL_INTEGRAL").
		WithCode("0026", "TS_SOS").
		WithCode("0003", "AP_SOS").
		WithCode("0027", "TS_PEN").
		WithCode("0004", "AP_PEN").
		WithCode("0006", "DIAS_LAB")
}

func salaryConcepts(repo *ledgertest.Repo) concept.CompanyConcepts {
	byCode := map[string]string{}
	var all []concept.Concept
	for _, code := range []string{"SALARIO", "SAL_INTEGRAL", "AP_SOS", "AP_PEN", "DIAS_LAB"} {
		c := concept.Concept{ID: "cn-" + code, Code: code}
		repo.RegisterConcept(c)
		byCode[code] = c.ID
		all = append(all, c)
	}
	return concept.CompanyConcepts{Concepts: all, ByCode: byCode}
}

func salaryCalcContext() *domain.CalcContext {
	return &domain.CalcContext{
		EmployeeID: "e1",
		CompanyID:  "c1",
		Period: &domain.Period{
			ID:          "p1",
			Year:        2025,
			Month:       3,
			Number:      3,
			InitialDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC),
		},
		Salary: domain.SalaryData{
			Salary:         decimal.NewFromInt(3000000),
			SalaryTypeCode: "TS_ORD",
		},
		Contract: domain.ContractData{
			InitialContractDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestCalculateSalaryFullPeriod(t *testing.T) {
	repo := ledgertest.NewRepo()
	concepts := salaryConcepts(repo)
	s := &Service{ledger: ledger.NewService(repo), resolver: salaryFixture().Resolver()}

	cc := salaryCalcContext()
	var buf domain.MovementBuffer
	require.NoError(t, s.calculateSalary(context.Background(), cc, concepts, &buf))

	movements := buf.Drain()
	require.Len(t, movements, 2)

	byConcept := map[string]int{}
	for i, m := range movements {
		byConcept[m.ConceptID] = i
	}
	worked := movements[byConcept["cn-DIAS_LAB"]]
	salary := movements[byConcept["cn-SALARIO"]]

	assert.True(t, worked.Quantity.Equal(decimal.NewFromInt(30)), "worked days: %s", worked.Quantity)
	assert.True(t, salary.Value.Equal(decimal.NewFromInt(3000000)), "salary: %s", salary.Value)
	assert.True(t, cc.RawSalary.Equal(decimal.NewFromInt(3000000)))
}

func TestCalculateSalaryDiscountsAbsentDays(t *testing.T) {
	repo := ledgertest.NewRepo()
	concepts := salaryConcepts(repo)
	s := &Service{ledger: ledger.NewService(repo), resolver: salaryFixture().Resolver()}

	cc := salaryCalcContext()
	cc.TotalAbsentDays = 5
	var buf domain.MovementBuffer
	require.NoError(t, s.calculateSalary(context.Background(), cc, concepts, &buf))

	movements := buf.Drain()
	require.Len(t, movements, 2)
	for _, m := range movements {
		if m.ConceptID == "cn-SALARIO" {
			assert.True(t, m.Quantity.Equal(decimal.NewFromInt(25)), "paid days: %s", m.Quantity)
			assert.True(t, m.Value.Equal(decimal.NewFromInt(2500000)), "salary: %s", m.Value)
		}
	}
}

func TestCalculateSalaryAbsencesExceedWorkedDays(t *testing.T) {
	repo := ledgertest.NewRepo()
	concepts := salaryConcepts(repo)
	s := &Service{ledger: ledger.NewService(repo), resolver: salaryFixture().Resolver()}

	cc := salaryCalcContext()
	cc.TotalAbsentDays = 40
	var buf domain.MovementBuffer
	require.NoError(t, s.calculateSalary(context.Background(), cc, concepts, &buf))

	for _, m := range buf.Drain() {
		if m.ConceptID == "cn-SALARIO" {
			assert.True(t, m.Value.IsZero(), "salary should clamp at zero: %s", m.Value)
		}
	}
}

func TestCalculateSalaryUnknownType(t *testing.T) {
	repo := ledgertest.NewRepo()
	concepts := salaryConcepts(repo)
	s := &Service{ledger: ledger.NewService(repo), resolver: salaryFixture().Resolver()}

	cc := salaryCalcContext()
	cc.Salary.SalaryTypeCode = "TS_NOPE"
	var buf domain.MovementBuffer
	err := s.calculateSalary(context.Background(), cc, concepts, &buf)
	assert.Error(t, err)
}
