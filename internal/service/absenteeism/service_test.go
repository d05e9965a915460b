package absenteeism_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nominaplus/payroll-engine/internal/domain/novelty"
	"github.com/nominaplus/payroll-engine/internal/service/absenteeism"
	"github.com/nominaplus/payroll-engine/internal/service/refdata/refdatatest"
)

type fakeAbsenteeRepo struct {
	spells      []novelty.AbsenteeHistory
	initialDays map[string]int
	chainedDays map[string]int
}

func (f *fakeAbsenteeRepo) ListOverlapping(ctx context.Context, employeeID string, from, to time.Time, typeCodes []string) ([]novelty.AbsenteeHistory, error) {
	if len(typeCodes) == 0 {
		return f.spells, nil
	}
	allowed := make(map[string]bool, len(typeCodes))
	for _, c := range typeCodes {
		allowed[c] = true
	}
	var out []novelty.AbsenteeHistory
	for _, s := range f.spells {
		if allowed[s.TypeCode] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeAbsenteeRepo) InitialDays(ctx context.Context, id string) (int, error) {
	return f.initialDays[id], nil
}

func (f *fakeAbsenteeRepo) DaysByReference(ctx context.Context, reference string, before time.Time) (int, error) {
	return f.chainedDays[reference], nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sickLeaveFixture registers the disease absence types and the disability
// rates: two employer grace days, 100% employer rate, 50% EPS rate.
func sickLeaveFixture() *refdatatest.Fixture {
	return refdatatest.NewFixture("c1").
		WithCategoryCode("0101", "DI_GEN", "DISEASE_ABSENTEE").
		WithCategoryCode("0102", "DI_GEN_EXT", "DISEASE_ABSENTEE").
		WithCategoryCode("0103", "DI_HOS", "DISEASE_ABSENTEE").
		WithCategoryCode("0104", "DI_HOS_EXT", "DISEASE_ABSENTEE").
		WithCategoryCode("0113", "DI_ACT", "DISEASE_ABSENTEE").
		WithCategoryCode("0114", "DI_ACT_EXT", "DISEASE_ABSENTEE").
		WithCategoryCode("0115", "DI_ENL", "DISEASE_ABSENTEE").
		WithConstant("0035", "1300000").
		WithConstant("0085", "2").
		WithConstant("0086", "100").
		WithConstant("0087", "50").
		WithConstant("0088", "50").
		WithConstant("0089", "50").
		WithConstant("0090", "50").
		WithConstant("0112", "33.33")
}

func TestProcessSickLeaveGeneralDisability(t *testing.T) {
	repo := &fakeAbsenteeRepo{
		spells: []novelty.AbsenteeHistory{{
			ID:          "a1",
			EmployeeID:  "e1",
			TypeCode:    "DI_GEN",
			InitialDate: date(2025, time.March, 10),
			EndDate:     date(2025, time.March, 14),
			Base:        decimal.NewFromInt(3000000),
			Quantity:    5,
		}},
	}
	svc := absenteeism.NewService(repo, sickLeaveFixture().Resolver())

	result, err := svc.ProcessSickLeave(context.Background(), "c1", "e1", date(2025, time.March, 1), date(2025, time.March, 30), "")
	require.NoError(t, err)

	// Five days: two grace days on the employer, three on the EPS.
	assert.True(t, result.EmpDays.Equal(decimal.NewFromInt(2)), "employer days: %s", result.EmpDays)
	assert.True(t, result.EpsDays.Equal(decimal.NewFromInt(3)), "eps days: %s", result.EpsDays)

	// Employer pays 100% of base/30, EPS 50%.
	assert.True(t, result.EmpVal.Equal(decimal.NewFromInt(200000)), "employer value: %s", result.EmpVal)
	assert.True(t, result.EpsVal.Equal(decimal.NewFromInt(150000)), "eps value: %s", result.EpsVal)
}

func TestProcessSickLeaveMinimumWageFloor(t *testing.T) {
	smlv := decimal.NewFromInt(1300000)
	repo := &fakeAbsenteeRepo{
		spells: []novelty.AbsenteeHistory{{
			ID:          "a1",
			EmployeeID:  "e1",
			TypeCode:    "DI_GEN",
			InitialDate: date(2025, time.March, 3),
			EndDate:     date(2025, time.March, 4),
			Base:        decimal.NewFromInt(600000),
			Quantity:    2,
		}},
	}
	svc := absenteeism.NewService(repo, sickLeaveFixture().Resolver())

	result, err := svc.ProcessSickLeave(context.Background(), "c1", "e1", date(2025, time.March, 1), date(2025, time.March, 30), "")
	require.NoError(t, err)

	wantFloor := smlv.Div(decimal.NewFromInt(30)).Mul(decimal.NewFromInt(2))
	assert.True(t, result.EmpVal.Equal(wantFloor), "employer value %s, want floor %s", result.EmpVal, wantFloor)
}

func TestProcessSickLeaveSpellStraddlingWindowStart(t *testing.T) {
	// Four days consumed before the window exhaust the grace period, so the
	// in-window days all land on the EPS.
	repo := &fakeAbsenteeRepo{
		spells: []novelty.AbsenteeHistory{{
			ID:          "a1",
			EmployeeID:  "e1",
			TypeCode:    "DI_GEN",
			InitialDate: date(2025, time.February, 25),
			EndDate:     date(2025, time.March, 3),
			Base:        decimal.NewFromInt(3000000),
		}},
	}
	svc := absenteeism.NewService(repo, sickLeaveFixture().Resolver())

	result, err := svc.ProcessSickLeave(context.Background(), "c1", "e1", date(2025, time.March, 1), date(2025, time.March, 30), "")
	require.NoError(t, err)

	assert.True(t, result.EmpDays.IsZero(), "employer days: %s", result.EmpDays)
	assert.True(t, result.EpsDays.Equal(decimal.NewFromInt(3)), "eps days: %s", result.EpsDays)
}

func TestProcessSickLeaveJobAccident(t *testing.T) {
	repo := &fakeAbsenteeRepo{
		spells: []novelty.AbsenteeHistory{{
			ID:          "a1",
			EmployeeID:  "e1",
			TypeCode:    "DI_ACT",
			InitialDate: date(2025, time.March, 5),
			EndDate:     date(2025, time.March, 8),
			Base:        decimal.NewFromInt(3000000),
		}},
	}
	svc := absenteeism.NewService(repo, sickLeaveFixture().Resolver())

	result, err := svc.ProcessSickLeave(context.Background(), "c1", "e1", date(2025, time.March, 1), date(2025, time.March, 30), "")
	require.NoError(t, err)

	// The employer covers the first day at full base, the insurer the rest.
	assert.True(t, result.EmpActDays.Equal(decimal.NewFromInt(1)))
	assert.True(t, result.EmpActVal.Equal(decimal.NewFromInt(100000)), "employer accident value: %s", result.EmpActVal)
	assert.True(t, result.EpsActDays.Equal(decimal.NewFromInt(3)))
	assert.True(t, result.EpsActVal.Equal(decimal.NewFromInt(300000)), "insurer accident value: %s", result.EpsActVal)
}

func TestProcessSickLeaveEmployerAssistance(t *testing.T) {
	fixture := sickLeaveFixture().
		WithCode("0108", "AST_EMP").
		WithCode("0109", "AST_EPS").
		WithCode("0110", "AST_ALL")
	repo := &fakeAbsenteeRepo{
		spells: []novelty.AbsenteeHistory{{
			ID:          "a1",
			EmployeeID:  "e1",
			TypeCode:    "DI_GEN",
			InitialDate: date(2025, time.March, 10),
			EndDate:     date(2025, time.March, 14),
			Base:        decimal.NewFromInt(3000000),
		}},
	}
	svc := absenteeism.NewService(repo, fixture.Resolver())

	result, err := svc.ProcessSickLeave(context.Background(), "c1", "e1", date(2025, time.March, 1), date(2025, time.March, 30), "AST_EPS")
	require.NoError(t, err)

	// Assistance follows the EPS days bucket.
	assert.True(t, result.EmpAdiDays.Equal(decimal.NewFromInt(3)), "assistance days: %s", result.EmpAdiDays)
	assert.False(t, result.EmpAdiVal.IsZero())
}

func TestSplitSpellDays(t *testing.T) {
	iniPeriod := date(2025, time.March, 1)
	endPeriod := date(2025, time.March, 30)

	cases := []struct {
		name           string
		ini, end       time.Time
		wantDays       int
		wantDaysBefore int
	}{
		{"inside window", date(2025, time.March, 10), date(2025, time.March, 14), 5, 0},
		{"starts before window", date(2025, time.February, 25), date(2025, time.March, 3), 3, 4},
		{"ends after window", date(2025, time.March, 28), date(2025, time.April, 2), 3, 0},
		{"covers whole window", date(2025, time.February, 1), date(2025, time.April, 15), 30, 28},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			days, before := absenteeism.SplitSpellDays(c.ini, c.end, iniPeriod, endPeriod)
			assert.Equal(t, c.wantDays, days)
			assert.Equal(t, c.wantDaysBefore, before)
		})
	}
}

func TestTotalAbsentDays(t *testing.T) {
	repo := &fakeAbsenteeRepo{
		spells: []novelty.AbsenteeHistory{
			{TypeCode: "DI_GEN", InitialDate: date(2025, time.March, 5), EndDate: date(2025, time.March, 7)},
			{TypeCode: "LI_NR", InitialDate: date(2025, time.March, 20), EndDate: date(2025, time.March, 21)},
		},
	}
	svc := absenteeism.NewService(repo, sickLeaveFixture().Resolver())

	total, err := svc.TotalAbsentDays(context.Background(), "e1", date(2025, time.March, 1), date(2025, time.March, 30), "")
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	only, err := svc.TotalAbsentDays(context.Background(), "e1", date(2025, time.March, 1), date(2025, time.March, 30), "LI_NR")
	require.NoError(t, err)
	assert.Equal(t, 2, only)
}
