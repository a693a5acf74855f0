// Package period resolves calendar boundaries for aggregation queries.
// All functions are pure: the reference instant is always passed in, never
// read from an ambient clock, so query results are reproducible in tests.
package period

import (
	"fmt"
	"time"

	"github.com/julianstephens/streaks/internal/constants"
)

// Info holds every calendar boundary derived from a single reference instant.
// All date fields use the YYYY-MM-DD layout and share the instant's location;
// boundaries are never computed in a different zone than the instant itself.
type Info struct {
	// Date is the calendar day of the instant.
	Date string
	// Weekday is ISO numbering: 1 = Monday .. 7 = Sunday.
	Weekday int
	// Timestamp is the instant in RFC3339 with its zone offset.
	Timestamp string
	// WeekStart is the Monday of the instant's week, WeekEnd the Sunday.
	WeekStart string
	WeekEnd   string
	// MonthStart is the first day of the instant's month, MonthEnd the last.
	MonthStart string
	MonthEnd   string
	// YearStart is January 1 of the instant's year, YearEnd December 31.
	YearStart string
	YearEnd   string
}

// Resolve derives all period boundaries from now.
func Resolve(now time.Time) Info {
	year, month, day := now.Date()
	loc := now.Location()

	today := time.Date(year, month, day, 0, 0, 0, 0, loc)
	weekStart := today.AddDate(0, 0, -dayIndex(today))
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, -1)
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, loc)

	return Info{
		Date:       FormatDay(today),
		Weekday:    dayIndex(today) + 1,
		Timestamp:  now.Format(time.RFC3339),
		WeekStart:  FormatDay(weekStart),
		WeekEnd:    FormatDay(weekStart.AddDate(0, 0, 6)),
		MonthStart: FormatDay(monthStart),
		MonthEnd:   FormatDay(monthEnd),
		YearStart:  FormatDay(yearStart),
		YearEnd:    FormatDay(yearEnd),
	}
}

// dayIndex returns 0 for Monday through 6 for Sunday.
func dayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// FormatDay renders t's calendar day as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDay parses a YYYY-MM-DD string. The layout is strict; anything else
// is rejected so malformed dates never reach storage.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// WeekStartOf returns the Monday of the week containing day.
func WeekStartOf(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(t.AddDate(0, 0, -dayIndex(t))), nil
}

// WeekEndOf returns the Sunday of the week containing day.
func WeekEndOf(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(t.AddDate(0, 0, 6-dayIndex(t))), nil
}

// DayIndex returns the 0-based Monday-start weekday index of day.
func DayIndex(day string) (int, error) {
	t, err := ParseDay(day)
	if err != nil {
		return 0, err
	}
	return dayIndex(t), nil
}

// AddDays returns the day n days after (or before, for negative n) day.
func AddDays(day string, n int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(t.AddDate(0, 0, n)), nil
}

// NextWeek returns the Monday one week after weekStart.
func NextWeek(weekStart string) (string, error) {
	return AddDays(weekStart, constants.DaysPerWeek)
}

// DaysIn enumerates every day from start through end inclusive, in order.
// An end before start yields an empty slice.
func DaysIn(start, end string) ([]string, error) {
	s, err := ParseDay(start)
	if err != nil {
		return nil, err
	}
	e, err := ParseDay(end)
	if err != nil {
		return nil, err
	}
	var days []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, FormatDay(d))
	}
	return days, nil
}

// Before reports whether day a is strictly earlier than day b. Both must be
// canonical YYYY-MM-DD, which makes lexicographic order calendar order.
func Before(a, b string) bool {
	return a < b
}

// After reports whether day a is strictly later than day b.
func After(a, b string) bool {
	return a > b
}

// MaxDay returns the later of two canonical days.
func MaxDay(a, b string) string {
	if a > b {
		return a
	}
	return b
}
