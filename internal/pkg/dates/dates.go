// Package dates holds the calendar arithmetic the payroll calculators share.
// All payroll math works on a 30-day commercial month; the helpers here take
// care of clamping spells to period windows and normalizing real calendar
// lengths back to that convention.
package dates

import "time"

// DaysBetween returns the whole calendar days from a to b, ignoring the
// time-of-day component. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	a = truncate(a)
	b = truncate(b)
	return int(b.Sub(a).Hours() / 24)
}

// NumberDays returns the inclusive day count of the span [start, end].
func NumberDays(start, end time.Time) int {
	return DaysBetween(start, end) + 1
}

func IsSameOrBefore(a, b time.Time) bool {
	a = truncate(a)
	b = truncate(b)
	return a.Before(b) || a.Equal(b)
}

// RealPeriodEnd normalizes a period end date: the 15th (first half of a
// bi-monthly payroll) is kept, any other day snaps to day 30 of that month.
// Day 30 of February deliberately overflows into March, matching the
// behavior every downstream day-count formula was calibrated against.
func RealPeriodEnd(end time.Time) time.Time {
	if end.Day() == 15 {
		return truncate(end)
	}
	return time.Date(end.Year(), end.Month(), 30, 0, 0, 0, 0, end.Location())
}

// WorkedDays clamps the contract span to the period window and returns the
// day count normalized to the 30-day month convention: February's 28/29
// becomes 30, and a full 31-day period also counts as 30. A zero contract
// end date means the contract is open-ended.
func WorkedDays(contractStart, contractEnd, periodStart, periodEnd time.Time, numDaysPeriod int) int {
	start := contractStart
	end := contractEnd

	if IsSameOrBefore(contractStart, periodStart) {
		start = periodStart
	}
	if contractEnd.IsZero() || IsSameOrBefore(periodEnd, contractEnd) {
		end = periodEnd
	}

	workedDays := NumberDays(start, end)

	if workedDays == 28 || workedDays == 29 {
		workedDays = 30
	}
	if numDaysPeriod == 31 && workedDays == 31 {
		workedDays = 30
	}

	return workedDays
}

// StartOfYear returns January 1st of the given date's year.
func StartOfYear(d time.Time) time.Time {
	return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, d.Location())
}

// MidYear returns July 1st of the given date's year.
func MidYear(d time.Time) time.Time {
	return time.Date(d.Year(), time.July, 1, 0, 0, 0, 0, d.Location())
}

// SubYears returns the date one or more years earlier, same month and day.
func SubYears(d time.Time, years int) time.Time {
	return d.AddDate(-years, 0, 0)
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
