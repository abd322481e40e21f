// Package datetime provides month-granularity date helpers.
package datetime

import (
	"fmt"
	"time"

	"github.com/hatchend/feasibility/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the output
	// date format.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// MonthStart returns midnight UTC on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseMonth parses a "2006-01" month. An empty string resolves to the month
// containing fallback.
func ParseMonth(month string, fallback time.Time) (time.Time, error) {
	if month == "" {
		return MonthStart(fallback), nil
	}
	t, err := time.Parse(DateTimeLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", month, err)
	}
	return t, nil
}

// FormatOffset returns the month the given number of months after origin.
func FormatOffset(origin time.Time, months int) string {
	return MonthStart(origin).AddDate(0, months, 0).Format(DateTimeLayout)
}
