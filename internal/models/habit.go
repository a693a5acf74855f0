package models

import "time"

// Habit represents a recurring practice to track
type Habit struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Frequency   string    `json:"frequency"`
	Target      int       `json:"target,omitempty"`
	Active      bool      `json:"active"`
	Order       int       `json:"order"`
}

// HabitEntry represents a single day's completion record of a habit.
// At most one entry exists per (habit, day); a day with no entry is Unset.
type HabitEntry struct {
	ID        int64     `json:"id"`
	HabitID   int64     `json:"habit_id"`
	Date      string    `json:"date"` // YYYY-MM-DD format
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HeatmapWeek is a denormalized cache row holding one habit's 7-slot
// completion bitmap for the week starting at WeekStart (a Monday). It is
// derived state: always reconstructible from the habit's entries, never the
// source of truth.
type HeatmapWeek struct {
	HabitID   int64        `json:"habit_id"`
	WeekStart string       `json:"week_start"` // YYYY-MM-DD, Monday
	Statuses  WeekStatuses `json:"statuses"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// DayStatus pairs a calendar day with its entry status. Used by range reads
// that gap-fill missing days with Unset.
type DayStatus struct {
	Date   string `json:"date"`
	Status Status `json:"status"`
}
