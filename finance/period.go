package finance

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - The accrual key
// =============================================================================

// Period is one calendar month. Accrual happens at most once per Period per
// payee account. The caller always supplies the date the Period is derived
// from; nothing in this package reads the wall clock to decide it.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the calendar month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses the "YYYY-MM" form produced by String.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

// Start is the first day of the month.
func (p Period) Start() time.Time {
	return Date(p.Year, p.Month, 1)
}

// End is the last day of the month.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

// Next is the following calendar month.
func (p Period) Next() Period {
	return PeriodOf(p.Start().AddDate(0, 1, 0))
}

// Contains reports whether t falls inside the month.
func (p Period) Contains(t time.Time) bool {
	return PeriodOf(t) == p
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// DaysBetween counts whole calendar days from from to to (negative if to is earlier).
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}
