package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/errors"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/period"
)

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// GetHeatmapWeek reads one cached week row. The second return value reports
// whether the row exists; a miss is not an error.
func (s *SQLiteStore) GetHeatmapWeek(habitID int64, weekStart string) (models.HeatmapWeek, bool, error) {
	row := s.db.QueryRow(`
		SELECT habit_id, week_start, statuses, updated_at
		FROM habit_heatmap WHERE habit_id = ? AND week_start = ?`,
		habitID, weekStart)

	w, err := scanHeatmapWeek(row.Scan)
	if err != nil {
		if isNoRows(err) {
			return models.HeatmapWeek{}, false, nil
		}
		return models.HeatmapWeek{}, false, errors.StorageIO("get heatmap week", err)
	}
	return w, true, nil
}

// GetHeatmapWeeks reads all cached week rows for a habit with week_start in
// [fromWeek, toWeek], in chronological order. Weeks with no row are simply
// absent from the result.
func (s *SQLiteStore) GetHeatmapWeeks(habitID int64, fromWeek, toWeek string) ([]models.HeatmapWeek, error) {
	rows, err := s.db.Query(`
		SELECT habit_id, week_start, statuses, updated_at
		FROM habit_heatmap
		WHERE habit_id = ? AND week_start >= ? AND week_start <= ?
		ORDER BY week_start ASC`, habitID, fromWeek, toWeek)
	if err != nil {
		return nil, errors.StorageIO("get heatmap weeks", err)
	}
	defer rows.Close()

	var weeks []models.HeatmapWeek
	for rows.Next() {
		w, err := scanHeatmapWeek(rows.Scan)
		if err != nil {
			return nil, errors.StorageIO("get heatmap weeks", err)
		}
		weeks = append(weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageIO("get heatmap weeks", err)
	}
	return weeks, nil
}

// LatestHeatmapWeekStart returns the most recent cached week for a habit.
// The second return value is false when the habit has no cached weeks.
func (s *SQLiteStore) LatestHeatmapWeekStart(habitID int64) (string, bool, error) {
	var weekStart string
	err := s.db.QueryRow(`
		SELECT week_start FROM habit_heatmap
		WHERE habit_id = ? ORDER BY week_start DESC LIMIT 1`, habitID).Scan(&weekStart)
	if err != nil {
		if isNoRows(err) {
			return "", false, nil
		}
		return "", false, errors.StorageIO("latest heatmap week", err)
	}
	return weekStart, true, nil
}

// RecomputeHeatmapWeek rebuilds one cached week from the entry rows and
// upserts it, all in one transaction. This is the only write path for
// habit_heatmap; nothing ever edits a cached row in place.
func (s *SQLiteStore) RecomputeHeatmapWeek(habitID int64, weekStart string, now time.Time) (models.WeekStatuses, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.EmptyWeek(), errors.StorageIO("recompute heatmap week", err)
	}
	defer tx.Rollback()

	statuses, err := recomputeWeekTx(tx, habitID, weekStart, now)
	if err != nil {
		return models.EmptyWeek(), err
	}

	if err := tx.Commit(); err != nil {
		return models.EmptyWeek(), errors.StorageIO("recompute heatmap week", err)
	}
	return statuses, nil
}

// ToggleEntryWrite performs the entry upsert and the week recompute for a
// toggle as a single transaction, so a crash can never leave the entry
// written but the cache row stale.
func (s *SQLiteStore) ToggleEntryWrite(habitID int64, date string, status models.Status, now time.Time) error {
	weekStart, err := period.WeekStartOf(date)
	if err != nil {
		return errors.Validationf("%v", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.StorageIO("toggle entry", err)
	}
	defer tx.Rollback()

	if err := setEntryStatusTx(tx, habitID, date, status, now); err != nil {
		return err
	}
	if _, err := recomputeWeekTx(tx, habitID, weekStart, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.StorageIO("toggle entry", err)
	}
	return nil
}

// recomputeWeekTx derives the 7-slot bitmap for one week from the entry rows
// and upserts the cache row inside the caller's transaction. Slots without
// an entry row stay Unset.
func recomputeWeekTx(tx *sql.Tx, habitID int64, weekStart string, now time.Time) (models.WeekStatuses, error) {
	canonical, err := period.WeekStartOf(weekStart)
	if err != nil {
		return models.EmptyWeek(), errors.Validationf("%v", err)
	}
	if canonical != weekStart {
		return models.EmptyWeek(), errors.Validationf("week start %s is not a Monday", weekStart)
	}

	weekEnd, err := period.AddDays(weekStart, constants.DaysPerWeek-1)
	if err != nil {
		return models.EmptyWeek(), errors.Validationf("%v", err)
	}

	rows, err := tx.Query(`
		SELECT date, status FROM habits_entry
		WHERE habit_id = ? AND date >= ? AND date <= ?`,
		habitID, weekStart, weekEnd)
	if err != nil {
		return models.EmptyWeek(), errors.StorageIO("recompute heatmap week", err)
	}
	defer rows.Close()

	statuses := models.EmptyWeek()
	for rows.Next() {
		var date string
		var status models.Status
		if err := rows.Scan(&date, &status); err != nil {
			return models.EmptyWeek(), errors.StorageIO("recompute heatmap week", err)
		}
		idx, err := period.DayIndex(date)
		if err != nil {
			return models.EmptyWeek(), fmt.Errorf("corrupt entry date %q: %w", date, err)
		}
		statuses[idx] = status
	}
	if err := rows.Err(); err != nil {
		return models.EmptyWeek(), errors.StorageIO("recompute heatmap week", err)
	}

	encoded, err := statuses.Encode()
	if err != nil {
		return models.EmptyWeek(), fmt.Errorf("failed to encode week statuses: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO habit_heatmap (habit_id, week_start, statuses, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(habit_id, week_start) DO UPDATE SET
			statuses = excluded.statuses,
			updated_at = excluded.updated_at`,
		habitID, weekStart, encoded, now.Format(time.RFC3339))
	if err != nil {
		return models.EmptyWeek(), errors.StorageIO("recompute heatmap week", err)
	}

	return statuses, nil
}

func scanHeatmapWeek(scan func(dest ...interface{}) error) (models.HeatmapWeek, error) {
	var w models.HeatmapWeek
	var statuses, updatedAt string

	if err := scan(&w.HabitID, &w.WeekStart, &statuses, &updatedAt); err != nil {
		return models.HeatmapWeek{}, err
	}

	decoded, err := models.DecodeWeek(statuses)
	if err != nil {
		return models.HeatmapWeek{}, errors.Consistencyf("corrupt heatmap row for habit %d week %s: %v", w.HabitID, w.WeekStart, err)
	}
	w.Statuses = decoded

	w.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.HeatmapWeek{}, fmt.Errorf("failed to parse updated_at for heatmap week %s: %w", w.WeekStart, err)
	}
	return w, nil
}
