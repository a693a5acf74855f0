package period

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("failed to parse time %q: %v", value, err)
	}
	return parsed
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		now  string
		want Info
	}{
		{
			name: "midweek",
			now:  "2025-11-12T14:30:00Z",
			want: Info{
				Date:       "2025-11-12",
				Weekday:    3,
				WeekStart:  "2025-11-10",
				WeekEnd:    "2025-11-16",
				MonthStart: "2025-11-01",
				MonthEnd:   "2025-11-30",
				YearStart:  "2025-01-01",
				YearEnd:    "2025-12-31",
			},
		},
		{
			name: "monday is its own week start",
			now:  "2025-11-10T00:00:00Z",
			want: Info{
				Date:       "2025-11-10",
				Weekday:    1,
				WeekStart:  "2025-11-10",
				WeekEnd:    "2025-11-16",
				MonthStart: "2025-11-01",
				MonthEnd:   "2025-11-30",
				YearStart:  "2025-01-01",
				YearEnd:    "2025-12-31",
			},
		},
		{
			name: "sunday belongs to the preceding monday",
			now:  "2025-11-16T23:59:59Z",
			want: Info{
				Date:       "2025-11-16",
				Weekday:    7,
				WeekStart:  "2025-11-10",
				WeekEnd:    "2025-11-16",
				MonthStart: "2025-11-01",
				MonthEnd:   "2025-11-30",
				YearStart:  "2025-01-01",
				YearEnd:    "2025-12-31",
			},
		},
		{
			name: "year boundary week spans two years",
			now:  "2026-01-01T08:00:00Z",
			want: Info{
				Date:       "2026-01-01",
				Weekday:    4,
				WeekStart:  "2025-12-29",
				WeekEnd:    "2026-01-04",
				MonthStart: "2026-01-01",
				MonthEnd:   "2026-01-31",
				YearStart:  "2026-01-01",
				YearEnd:    "2026-12-31",
			},
		},
		{
			name: "leap february",
			now:  "2024-02-15T12:00:00Z",
			want: Info{
				Date:       "2024-02-15",
				Weekday:    4,
				WeekStart:  "2024-02-12",
				WeekEnd:    "2024-02-18",
				MonthStart: "2024-02-01",
				MonthEnd:   "2024-02-29",
				YearStart:  "2024-01-01",
				YearEnd:    "2024-12-31",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(mustTime(t, tt.now))
			tt.want.Timestamp = got.Timestamp
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveUsesInstantLocation(t *testing.T) {
	loc := time.FixedZone("UTC+13", 13*3600)
	// 23:30 on Nov 12 in UTC is already Nov 13 in UTC+13.
	now := time.Date(2025, time.November, 12, 23, 30, 0, 0, time.UTC).In(loc)

	got := Resolve(now)
	if got.Date != "2025-11-13" {
		t.Errorf("Date = %s, want 2025-11-13", got.Date)
	}
	if got.WeekStart != "2025-11-10" {
		t.Errorf("WeekStart = %s, want 2025-11-10", got.WeekStart)
	}
}

func TestWeekStartOf(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2025-11-10", "2025-11-10"},
		{"2025-11-13", "2025-11-10"},
		{"2025-11-16", "2025-11-10"},
		{"2025-11-01", "2025-10-27"},
	}
	for _, tt := range tests {
		got, err := WeekStartOf(tt.day)
		if err != nil {
			t.Fatalf("WeekStartOf(%s) returned error: %v", tt.day, err)
		}
		if got != tt.want {
			t.Errorf("WeekStartOf(%s) = %s, want %s", tt.day, got, tt.want)
		}
	}
}

func TestWeekEndOf(t *testing.T) {
	got, err := WeekEndOf("2025-11-12")
	if err != nil {
		t.Fatalf("WeekEndOf returned error: %v", err)
	}
	if got != "2025-11-16" {
		t.Errorf("WeekEndOf = %s, want 2025-11-16", got)
	}
}

func TestParseDayRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "2025-13-01", "2025-11-31", "11/12/2025", "2025-11-12T00:00:00Z", "2025-1-2"} {
		if _, err := ParseDay(bad); err == nil {
			t.Errorf("ParseDay(%q) accepted malformed input", bad)
		}
	}
}

func TestDaysIn(t *testing.T) {
	days, err := DaysIn("2025-11-01", "2025-11-30")
	if err != nil {
		t.Fatalf("DaysIn returned error: %v", err)
	}
	if len(days) != 30 {
		t.Fatalf("DaysIn returned %d days, want 30", len(days))
	}
	if days[0] != "2025-11-01" || days[29] != "2025-11-30" {
		t.Errorf("DaysIn endpoints = %s..%s, want 2025-11-01..2025-11-30", days[0], days[29])
	}

	empty, err := DaysIn("2025-11-30", "2025-11-01")
	if err != nil {
		t.Fatalf("DaysIn returned error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("DaysIn with inverted range returned %d days, want 0", len(empty))
	}
}

func TestDayIndex(t *testing.T) {
	tests := []struct {
		day  string
		want int
	}{
		{"2025-11-10", 0},
		{"2025-11-12", 2},
		{"2025-11-16", 6},
	}
	for _, tt := range tests {
		got, err := DayIndex(tt.day)
		if err != nil {
			t.Fatalf("DayIndex(%s) returned error: %v", tt.day, err)
		}
		if got != tt.want {
			t.Errorf("DayIndex(%s) = %d, want %d", tt.day, got, tt.want)
		}
	}
}

func TestAddDaysAndNextWeek(t *testing.T) {
	got, err := AddDays("2025-11-30", 1)
	if err != nil {
		t.Fatalf("AddDays returned error: %v", err)
	}
	if got != "2025-12-01" {
		t.Errorf("AddDays across month = %s, want 2025-12-01", got)
	}

	next, err := NextWeek("2025-12-29")
	if err != nil {
		t.Fatalf("NextWeek returned error: %v", err)
	}
	if next != "2026-01-05" {
		t.Errorf("NextWeek across year = %s, want 2026-01-05", next)
	}
}
