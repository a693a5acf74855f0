// Package query assembles the read models behind the today, weekly, monthly,
// and overall views. All reads resolve periods from an injected clock and
// never mutate entry statuses beyond materializing the current day.
package query

import (
	"time"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/heatmap"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/period"
	"github.com/julianstephens/streaks/internal/storage"
)

type Service struct {
	store storage.Provider
	cache *heatmap.Cache
}

func New(store storage.Provider, cache *heatmap.Cache) *Service {
	return &Service{store: store, cache: cache}
}

// Cell is one calendar day of one habit in a period view. Future
// distinguishes not-yet-reached days from days the user left incomplete.
type Cell struct {
	Date   string
	Status models.Status
	Future bool
}

// HabitDay is one habit's row in the today view.
type HabitDay struct {
	Habit  models.Habit
	Status models.Status
}

// HabitCells is one habit's row in the weekly or monthly view.
type HabitCells struct {
	Habit models.Habit
	Cells []Cell
}

// HabitWeeks is one habit's row in the overall view: its cached weeks in
// chronological order.
type HabitWeeks struct {
	Habit models.Habit
	Weeks []models.HeatmapWeek
}

// Today returns every active habit with its status for the current day,
// in display order. Opening the view materializes the day's entries, so a
// fresh day starts every habit at Incomplete.
func (s *Service) Today(now time.Time) ([]HabitDay, error) {
	info := period.Resolve(now)

	habits, err := s.ensureToday(info, now)
	if err != nil {
		return nil, err
	}

	result := make([]HabitDay, 0, len(habits))
	for _, habit := range habits {
		status, err := s.store.GetEntryStatus(habit.ID, info.Date)
		if err != nil {
			return nil, err
		}
		result = append(result, HabitDay{Habit: habit, Status: status})
	}
	return result, nil
}

// Weekly returns, for every active habit, the 7 cells of the current
// Monday-start week, read through the heatmap cache.
func (s *Service) Weekly(now time.Time) ([]HabitCells, error) {
	info := period.Resolve(now)

	habits, err := s.ensureToday(info, now)
	if err != nil {
		return nil, err
	}

	result := make([]HabitCells, 0, len(habits))
	for _, habit := range habits {
		// Bring the cache up to date before reading it, so today's
		// materialized entries are visible in the week row.
		if _, err := s.cache.RebuildForHabit(habit, now); err != nil {
			return nil, err
		}

		statuses, err := s.cache.GetWeek(habit.ID, info.WeekStart)
		if err != nil {
			return nil, err
		}

		cells, err := weekCells(info.WeekStart, statuses, info.Date, "", "")
		if err != nil {
			return nil, err
		}
		result = append(result, HabitCells{Habit: habit, Cells: cells})
	}
	return result, nil
}

// Monthly returns, for every active habit, exactly one cell per day of the
// current month. Rows are assembled from the heatmap weeks spanning the
// month and cropped to its boundaries, so adjacent-month days never leak in.
func (s *Service) Monthly(now time.Time) ([]HabitCells, error) {
	info := period.Resolve(now)

	habits, err := s.ensureToday(info, now)
	if err != nil {
		return nil, err
	}

	firstWeek, err := period.WeekStartOf(info.MonthStart)
	if err != nil {
		return nil, err
	}
	lastWeek, err := period.WeekStartOf(info.MonthEnd)
	if err != nil {
		return nil, err
	}

	result := make([]HabitCells, 0, len(habits))
	for _, habit := range habits {
		if _, err := s.cache.RebuildForHabit(habit, now); err != nil {
			return nil, err
		}

		creationWeek, err := period.WeekStartOf(period.FormatDay(habit.CreatedAt))
		if err != nil {
			return nil, err
		}

		var cells []Cell
		for week := firstWeek; week <= lastWeek; {
			statuses, err := s.weekThroughCache(habit.ID, week, creationWeek, now)
			if err != nil {
				return nil, err
			}

			cropped, err := weekCells(week, statuses, info.Date, info.MonthStart, info.MonthEnd)
			if err != nil {
				return nil, err
			}
			cells = append(cells, cropped...)

			week, err = period.NextWeek(week)
			if err != nil {
				return nil, err
			}
		}
		result = append(result, HabitCells{Habit: habit, Cells: cells})
	}
	return result, nil
}

// Overall returns, for every active habit, its heatmap weeks from the later
// of the year-start week and its creation week through the current week.
func (s *Service) Overall(now time.Time) ([]HabitWeeks, error) {
	info := period.Resolve(now)

	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return nil, err
	}

	yearStartWeek, err := period.WeekStartOf(info.YearStart)
	if err != nil {
		return nil, err
	}

	result := make([]HabitWeeks, 0, len(habits))
	for _, habit := range habits {
		if _, err := s.cache.RebuildForHabit(habit, now); err != nil {
			return nil, err
		}

		creationWeek, err := period.WeekStartOf(period.FormatDay(habit.CreatedAt))
		if err != nil {
			return nil, err
		}
		fromWeek := period.MaxDay(yearStartWeek, creationWeek)

		var weeks []models.HeatmapWeek
		for week := fromWeek; week <= info.WeekStart; {
			statuses, err := s.weekThroughCache(habit.ID, week, creationWeek, now)
			if err != nil {
				return nil, err
			}
			weeks = append(weeks, models.HeatmapWeek{
				HabitID:   habit.ID,
				WeekStart: week,
				Statuses:  statuses,
			})

			week, err = period.NextWeek(week)
			if err != nil {
				return nil, err
			}
		}
		result = append(result, HabitWeeks{Habit: habit, Weeks: weeks})
	}
	return result, nil
}

// ensureToday lists the active habits and materializes their entries for the
// current day. An empty habit list is a valid result, not an error.
func (s *Service) ensureToday(info period.Info, now time.Time) ([]models.Habit, error) {
	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return nil, err
	}
	if len(habits) == 0 {
		return habits, nil
	}

	ids := make([]int64, 0, len(habits))
	for _, h := range habits {
		ids = append(ids, h.ID)
	}
	if err := s.store.EnsureDayEntries(ids, info.Date, now); err != nil {
		return nil, err
	}
	return habits, nil
}

// weekThroughCache reads one week's statuses, recomputing the cache row on a
// miss. Weeks entirely before the habit existed stay all-Unset and are never
// persisted, so old months don't pad the cache with empty rows.
func (s *Service) weekThroughCache(habitID int64, weekStart, creationWeek string, now time.Time) (models.WeekStatuses, error) {
	if weekStart < creationWeek {
		return models.EmptyWeek(), nil
	}

	week, ok, err := s.store.GetHeatmapWeek(habitID, weekStart)
	if err != nil {
		return models.EmptyWeek(), err
	}
	if ok {
		return week.Statuses, nil
	}
	return s.cache.RecomputeWeek(habitID, weekStart, now)
}

// weekCells expands a week bitmap into dated cells. When cropStart/cropEnd
// are set, days outside [cropStart, cropEnd] are dropped.
func weekCells(weekStart string, statuses models.WeekStatuses, today, cropStart, cropEnd string) ([]Cell, error) {
	cells := make([]Cell, 0, constants.DaysPerWeek)
	for i := 0; i < constants.DaysPerWeek; i++ {
		date, err := period.AddDays(weekStart, i)
		if err != nil {
			return nil, err
		}
		if cropStart != "" && date < cropStart {
			continue
		}
		if cropEnd != "" && date > cropEnd {
			continue
		}
		cells = append(cells, Cell{
			Date:   date,
			Status: statuses[i],
			Future: date > today,
		})
	}
	return cells, nil
}
