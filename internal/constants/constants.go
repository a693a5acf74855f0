package constants

const (
	// DateFormat is the canonical calendar-day layout used everywhere a day
	// is stored or compared. Days never carry a time component.
	DateFormat = "2006-01-02"

	// DaysPerWeek is the length of a heatmap week row. Index 0 is Monday.
	DaysPerWeek = 7

	// DefaultTimezone resolves to the system timezone.
	DefaultTimezone = "Local"

	// DefaultHabitFrequency is used when a habit is added without an
	// explicit frequency tag.
	DefaultHabitFrequency = "daily"
)

// HabitFrequencies are the accepted values for a habit's frequency tag.
// The tag is informational only; the engine never enforces it.
var HabitFrequencies = []string{"daily", "weekly", "monthly", "custom"}

// IsValidFrequency reports whether f is an accepted frequency tag.
func IsValidFrequency(f string) bool {
	for _, v := range HabitFrequencies {
		if v == f {
			return true
		}
	}
	return false
}
