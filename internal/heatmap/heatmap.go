// Package heatmap maintains the denormalized weekly completion cache. The
// cache is pure derived state: every row can be rebuilt from the entry
// store, and whole-week recomputation is the only way a row ever changes.
package heatmap

import (
	"time"

	"github.com/julianstephens/streaks/internal/errors"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/period"
	"github.com/julianstephens/streaks/internal/storage"
)

type Cache struct {
	store storage.Provider
}

func New(store storage.Provider) *Cache {
	return &Cache{store: store}
}

// RecomputeWeek rebuilds one cached week from the entry rows.
func (c *Cache) RecomputeWeek(habitID int64, weekStart string, now time.Time) (models.WeekStatuses, error) {
	return c.store.RecomputeHeatmapWeek(habitID, weekStart, now)
}

// GetWeek reads one cached week. A missing row means no day of that week was
// ever toggled, so the all-Unset week it decodes to is correct as-is and is
// returned without being persisted.
func (c *Cache) GetWeek(habitID int64, weekStart string) (models.WeekStatuses, error) {
	week, ok, err := c.store.GetHeatmapWeek(habitID, weekStart)
	if err != nil {
		return models.EmptyWeek(), err
	}
	if !ok {
		return models.EmptyWeek(), nil
	}
	return week.Statuses, nil
}

// RebuildRangeForHabit recomputes every week from fromWeek through toWeek
// inclusive and returns how many weeks were written. Both bounds must be
// Mondays; an inverted range rebuilds nothing.
func (c *Cache) RebuildRangeForHabit(habitID int64, fromWeek, toWeek string, now time.Time) (int, error) {
	if _, err := period.ParseDay(fromWeek); err != nil {
		return 0, errors.Validationf("%v", err)
	}

	rebuilt := 0
	for week := fromWeek; week <= toWeek; {
		if _, err := c.store.RecomputeHeatmapWeek(habitID, week, now); err != nil {
			return rebuilt, err
		}
		rebuilt++

		next, err := period.NextWeek(week)
		if err != nil {
			return rebuilt, err
		}
		week = next
	}
	return rebuilt, nil
}

// RebuildForHabit refreshes a habit's cache from its most recent cached week
// (or its creation week when nothing is cached yet) through the current
// week. Re-deriving the newest cached week as well makes the rebuild safe
// after a torn toggle that wrote the entry but not the cache.
func (c *Cache) RebuildForHabit(habit models.Habit, now time.Time) (int, error) {
	startWeek, ok, err := c.store.LatestHeatmapWeekStart(habit.ID)
	if err != nil {
		return 0, err
	}
	if !ok {
		startWeek, err = period.WeekStartOf(period.FormatDay(habit.CreatedAt))
		if err != nil {
			return 0, err
		}
	}

	currentWeek := period.Resolve(now).WeekStart
	if startWeek > currentWeek {
		startWeek = currentWeek
	}

	return c.RebuildRangeForHabit(habit.ID, startWeek, currentWeek, now)
}

// RebuildAll refreshes the cache for every active habit. Run at startup and
// by doctor to heal any divergence between entries and cached weeks.
func (c *Cache) RebuildAll(now time.Time) (int, error) {
	habits, err := c.store.GetAllHabits(false)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, habit := range habits {
		n, err := c.RebuildForHabit(habit, now)
		if err != nil {
			return total, err
		}
		total += n
	}

	if total > 0 {
		logger.Debug("rebuilt heatmap cache", "weeks", total, "habits", len(habits))
	}
	return total, nil
}

// VerifyWeek checks a cached week against the entry rows it was derived
// from. A missing row verifies trivially when no entries exist for the week.
// On divergence it returns a ConsistencyError; the caller decides whether to
// repair via RecomputeWeek.
func (c *Cache) VerifyWeek(habitID int64, weekStart string) error {
	weekEnd, err := period.WeekEndOf(weekStart)
	if err != nil {
		return errors.Validationf("%v", err)
	}

	entries, err := c.store.ListEntries(habitID, weekStart, weekEnd)
	if err != nil {
		return err
	}

	want := models.EmptyWeek()
	for i, e := range entries {
		want[i] = e.Status
	}

	week, ok, err := c.store.GetHeatmapWeek(habitID, weekStart)
	if err != nil {
		return err
	}
	got := models.EmptyWeek()
	if ok {
		got = week.Statuses
	}

	if got != want {
		return errors.Consistencyf("heatmap week %s for habit %d diverged from entries (cached %v, derived %v)",
			weekStart, habitID, got, want)
	}
	return nil
}
