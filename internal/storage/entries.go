package storage

import (
	"fmt"
	"time"

	"github.com/julianstephens/streaks/internal/errors"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/period"
)

// EnsureDayEntries materializes one Incomplete entry per habit for the given
// day. Existing entries are left untouched, whatever their status, so the
// call is idempotent and safe to repeat every time a day view is opened.
func (s *SQLiteStore) EnsureDayEntries(habitIDs []int64, date string, now time.Time) error {
	if len(habitIDs) == 0 {
		return nil
	}
	if _, err := period.ParseDay(date); err != nil {
		return errors.Validationf("%v", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.StorageIO("ensure day entries", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO habits_entry (habit_id, date, status, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)
		ON CONFLICT(habit_id, date) DO NOTHING`)
	if err != nil {
		return errors.StorageIO("ensure day entries", err)
	}
	defer stmt.Close()

	ts := now.Format(time.RFC3339)
	for _, id := range habitIDs {
		if _, err := stmt.Exec(id, date, ts, ts); err != nil {
			return errors.StorageIO("ensure day entries", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.StorageIO("ensure day entries", err)
	}
	return nil
}

// GetEntry returns the entry for (habit, day) and whether one exists.
func (s *SQLiteStore) GetEntry(habitID int64, date string) (models.HabitEntry, bool, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, date, status, created_at, updated_at
		FROM habits_entry WHERE habit_id = ? AND date = ?`, habitID, date)

	var e models.HabitEntry
	var createdAt, updatedAt string
	err := row.Scan(&e.ID, &e.HabitID, &e.Date, &e.Status, &createdAt, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return models.HabitEntry{}, false, nil
		}
		return models.HabitEntry{}, false, errors.StorageIO("get entry", err)
	}

	e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.HabitEntry{}, false, fmt.Errorf("failed to parse created_at for entry %d: %w", e.ID, err)
	}
	e.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.HabitEntry{}, false, fmt.Errorf("failed to parse updated_at for entry %d: %w", e.ID, err)
	}

	return e, true, nil
}

// GetEntryStatus returns the status for (habit, day), Unset when no entry
// row exists. Absence is data, not an error.
func (s *SQLiteStore) GetEntryStatus(habitID int64, date string) (models.Status, error) {
	var status models.Status
	err := s.db.QueryRow(`
		SELECT status FROM habits_entry WHERE habit_id = ? AND date = ?`,
		habitID, date).Scan(&status)
	if err != nil {
		if isNoRows(err) {
			return models.StatusUnset, nil
		}
		return models.StatusUnset, errors.StorageIO("get entry status", err)
	}
	return status, nil
}

// SetEntryStatus writes a concrete status for (habit, day), creating the
// entry row if needed. This is the sole mutation primitive for entries.
func (s *SQLiteStore) SetEntryStatus(habitID int64, date string, status models.Status, now time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.StorageIO("set entry status", err)
	}
	defer tx.Rollback()

	if err := setEntryStatusTx(tx, habitID, date, status, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.StorageIO("set entry status", err)
	}
	return nil
}

// setEntryStatusTx is the upsert shared by SetEntryStatus and
// ToggleEntryWrite. Only concrete statuses can be stored; Unset is
// represented by row absence, never persisted.
func setEntryStatusTx(tx execer, habitID int64, date string, status models.Status, now time.Time) error {
	if status != models.StatusIncomplete && status != models.StatusComplete {
		return errors.Validationf("cannot store status %s for habit %d on %s", status, habitID, date)
	}
	if _, err := period.ParseDay(date); err != nil {
		return errors.Validationf("%v", err)
	}

	ts := now.Format(time.RFC3339)
	_, err := tx.Exec(`
		INSERT INTO habits_entry (habit_id, date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, date) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at`,
		habitID, date, int(status), ts, ts)
	if err != nil {
		return errors.StorageIO("set entry status", err)
	}
	return nil
}

// ListEntries returns exactly one element per day of the inclusive range, in
// chronological order. Days without an entry row are filled in as Unset.
func (s *SQLiteStore) ListEntries(habitID int64, start, end string) ([]models.DayStatus, error) {
	days, err := period.DaysIn(start, end)
	if err != nil {
		return nil, errors.Validationf("%v", err)
	}

	rows, err := s.db.Query(`
		SELECT date, status FROM habits_entry
		WHERE habit_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`, habitID, start, end)
	if err != nil {
		return nil, errors.StorageIO("list entries", err)
	}
	defer rows.Close()

	byDay := make(map[string]models.Status, len(days))
	for rows.Next() {
		var date string
		var status models.Status
		if err := rows.Scan(&date, &status); err != nil {
			return nil, errors.StorageIO("list entries", err)
		}
		byDay[date] = status
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageIO("list entries", err)
	}

	result := make([]models.DayStatus, 0, len(days))
	for _, day := range days {
		status, ok := byDay[day]
		if !ok {
			status = models.StatusUnset
		}
		result = append(result, models.DayStatus{Date: day, Status: status})
	}
	return result, nil
}

// CountEntries reports how many entry rows exist for a habit, for doctor.
func (s *SQLiteStore) CountEntries(habitID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT count(*) FROM habits_entry WHERE habit_id = ?`, habitID).Scan(&count)
	if err != nil {
		return 0, errors.StorageIO("count entries", err)
	}
	return count, nil
}
