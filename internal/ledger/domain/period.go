package ledger

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned when a period string is not six digits.
var ErrInvalidPeriod = errors.New("ledger: period must be YYYYMM")

// Period is an accounting period in YYYYMM form.
type Period struct {
	year  int
	month time.Month
}

// ParsePeriod parses a YYYYMM period string.
func ParsePeriod(value string) (Period, error) {
	if len(value) != 6 {
		return Period{}, ErrInvalidPeriod
	}
	t, err := time.Parse("200601", value)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return Period{year: t.Year(), month: t.Month()}, nil
}

// MonthStart returns the first instant of the period's calendar month in UTC.
func (p Period) MonthStart() time.Time {
	return time.Date(p.year, p.month, 1, 0, 0, 0, 0, time.UTC)
}

// NextMonthStart returns the first instant of the following month in UTC.
func (p Period) NextMonthStart() time.Time {
	return p.MonthStart().AddDate(0, 1, 0)
}

// Contains reports whether t falls inside the period's calendar month.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.MonthStart()) && t.Before(p.NextMonthStart())
}

// String returns the YYYYMM form.
func (p Period) String() string {
	return fmt.Sprintf("%04d%02d", p.year, int(p.month))
}

// YearMonthSlash returns the YYYY/MM form used by the billing upload.
func (p Period) YearMonthSlash() string {
	return fmt.Sprintf("%04d/%02d", p.year, int(p.month))
}
