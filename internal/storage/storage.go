// Package storage persists habits, their per-day completion entries, and the
// weekly heatmap cache in a local SQLite database.
package storage

import (
	"database/sql"
	"time"

	"github.com/julianstephens/streaks/internal/models"
)

// Provider is the storage interface the engine is written against.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	GetConfigPath() string
	GetDB() *sql.DB

	// Habits
	AddHabit(habit models.Habit) (int64, error)
	GetHabit(id int64) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived bool) ([]models.Habit, error)
	UpdateHabit(habit models.Habit) error
	SetHabitOrder(id int64, order int) error
	ArchiveHabit(id int64) error
	UnarchiveHabit(id int64) error
	DeleteHabit(id int64) error

	// Entries
	EnsureDayEntries(habitIDs []int64, date string, now time.Time) error
	GetEntry(habitID int64, date string) (models.HabitEntry, bool, error)
	GetEntryStatus(habitID int64, date string) (models.Status, error)
	SetEntryStatus(habitID int64, date string, status models.Status, now time.Time) error
	ListEntries(habitID int64, start, end string) ([]models.DayStatus, error)
	CountEntries(habitID int64) (int, error)

	// Heatmap cache
	GetHeatmapWeek(habitID int64, weekStart string) (models.HeatmapWeek, bool, error)
	GetHeatmapWeeks(habitID int64, fromWeek, toWeek string) ([]models.HeatmapWeek, error)
	LatestHeatmapWeekStart(habitID int64) (string, bool, error)
	RecomputeHeatmapWeek(habitID int64, weekStart string, now time.Time) (models.WeekStatuses, error)
	ToggleEntryWrite(habitID int64, date string, status models.Status, now time.Time) error

	// Settings
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
}
