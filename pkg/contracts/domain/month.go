package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Month identifies a calendar month as a serial month count (year*12 + month-1).
// Integer arithmetic on Month moves by exact calendar months, which keeps
// lag alignment free of date edge cases.
type Month int

// MonthOf builds a Month from a year and a month of that year.
func MonthOf(year int, month time.Month) Month {
	return Month(year*12 + int(month) - 1)
}

// MonthOfTime builds a Month from the calendar month containing t.
func MonthOfTime(t time.Time) Month {
	return MonthOf(t.Year(), t.Month())
}

// Year returns the calendar year of the month.
func (m Month) Year() int {
	return int(m) / 12
}

// MonthOfYear returns the month-of-year component (January..December).
func (m Month) MonthOfYear() time.Month {
	return time.Month(int(m)%12 + 1)
}

// Add returns the month n calendar months later (negative n moves back).
func (m Month) Add(n int) Month {
	return m + Month(n)
}

// YYYYMM formats the month in the compact form used by predictor output files.
func (m Month) YYYYMM() string {
	return fmt.Sprintf("%04d%02d", m.Year(), int(m.MonthOfYear()))
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year(), int(m.MonthOfYear()))
}

// monthLayouts lists the date layouts accepted for month cells, tried in order.
// Timestamp forms are truncated to their calendar month.
var monthLayouts = []string{
	"2006-01",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseMonth parses a month cell. Accepted forms: "2006-01", "200601",
// "2006-01-02", "2006-01-02 15:04:05", and RFC3339 timestamps.
func ParseMonth(s string) (Month, error) {
	if len(s) == 6 {
		if v, err := strconv.Atoi(s); err == nil {
			year := v / 100
			mon := v % 100
			if mon < 1 || mon > 12 {
				return 0, fmt.Errorf("invalid month value %q: month-of-year out of range", s)
			}
			return MonthOf(year, time.Month(mon)), nil
		}
	}

	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return MonthOfTime(t), nil
		}
	}

	return 0, fmt.Errorf("invalid month value %q", s)
}
