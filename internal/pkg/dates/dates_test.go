package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRealPeriodEnd(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"mid-month kept", date(2025, time.March, 15), date(2025, time.March, 15)},
		{"31 snaps to 30", date(2025, time.January, 31), date(2025, time.January, 30)},
		{"28 snaps to 30", date(2025, time.February, 28), date(2025, time.March, 2)},
		{"leap february", date(2024, time.February, 29), date(2024, time.March, 1)},
		{"30 stays", date(2025, time.April, 30), date(2025, time.April, 30)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, RealPeriodEnd(c.in))
		})
	}
}

func TestWorkedDays(t *testing.T) {
	periodStart := date(2025, time.March, 1)
	periodEnd := date(2025, time.March, 30)

	cases := []struct {
		name          string
		contractStart time.Time
		contractEnd   time.Time
		numDaysPeriod int
		want          int
	}{
		{"full period", date(2024, time.June, 1), time.Time{}, 30, 30},
		{"hired mid period", date(2025, time.March, 16), time.Time{}, 30, 15},
		{"terminated mid period", date(2024, time.June, 1), date(2025, time.March, 10), 30, 10},
		{"single day", date(2025, time.March, 30), date(2025, time.March, 30), 30, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := WorkedDays(c.contractStart, c.contractEnd, periodStart, periodEnd, c.numDaysPeriod)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestWorkedDaysNormalizesToThirty(t *testing.T) {
	// February: 28 worked days count as a full month.
	got := WorkedDays(date(2024, time.June, 1), time.Time{}, date(2025, time.February, 1), date(2025, time.February, 28), 28)
	assert.Equal(t, 30, got)

	// A 31-day window also counts as a full month.
	got = WorkedDays(date(2024, time.June, 1), time.Time{}, date(2025, time.January, 1), date(2025, time.January, 31), 31)
	assert.Equal(t, 30, got)
}

func TestNumberDays(t *testing.T) {
	assert.Equal(t, 1, NumberDays(date(2025, time.May, 10), date(2025, time.May, 10)))
	assert.Equal(t, 30, NumberDays(date(2025, time.April, 1), date(2025, time.April, 30)))
}

func TestSubYears(t *testing.T) {
	assert.Equal(t, date(2024, time.March, 30), SubYears(date(2025, time.March, 30), 1))
}
