package storage

import (
	"fmt"
	"time"

	"github.com/julianstephens/streaks/internal/errors"
	"github.com/julianstephens/streaks/internal/models"
)

const habitColumns = `id, name, description, icon, color, created_at, frequency, target, active, "order"`

func scanHabit(scan func(dest ...interface{}) error) (models.Habit, error) {
	var h models.Habit
	var createdAt string
	var active int

	err := scan(&h.ID, &h.Name, &h.Description, &h.Icon, &h.Color, &createdAt,
		&h.Frequency, &h.Target, &active, &h.Order)
	if err != nil {
		return models.Habit{}, err
	}

	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %d: %w", h.ID, err)
	}
	h.Active = active != 0

	return h, nil
}

// AddHabit inserts a new habit and returns its assigned id.
func (s *SQLiteStore) AddHabit(habit models.Habit) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO habits (name, description, icon, color, created_at, frequency, target, active, "order")
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.Name, habit.Description, habit.Icon, habit.Color,
		habit.CreatedAt.Format(time.RFC3339), habit.Frequency, habit.Target,
		boolToInt(habit.Active), habit.Order)
	if err != nil {
		return 0, errors.StorageIO("add habit", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.StorageIO("add habit", err)
	}
	return id, nil
}

func (s *SQLiteStore) GetHabit(id int64) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)

	h, err := scanHabit(row.Scan)
	if err != nil {
		if isNoRows(err) {
			return models.Habit{}, errors.Validationf("habit %d not found", id)
		}
		return models.Habit{}, errors.StorageIO("get habit", err)
	}
	return h, nil
}

func (s *SQLiteStore) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE name = ?`, name)

	h, err := scanHabit(row.Scan)
	if err != nil {
		if isNoRows(err) {
			return models.Habit{}, errors.Validationf("habit %q not found", name)
		}
		return models.Habit{}, errors.StorageIO("get habit by name", err)
	}
	return h, nil
}

// GetAllHabits returns habits in display order: the user-assigned order key
// ascending, newest first within the same key.
func (s *SQLiteStore) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits`
	if !includeArchived {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY "order" ASC, id DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, errors.StorageIO("list habits", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows.Scan)
		if err != nil {
			return nil, errors.StorageIO("list habits", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageIO("list habits", err)
	}

	return habits, nil
}

// UpdateHabit overwrites the mutable fields of an existing habit. Creation
// time and the active flag are managed by their own operations.
func (s *SQLiteStore) UpdateHabit(habit models.Habit) error {
	result, err := s.db.Exec(`
		UPDATE habits SET name = ?, description = ?, icon = ?, color = ?, frequency = ?, target = ?
		WHERE id = ?`,
		habit.Name, habit.Description, habit.Icon, habit.Color,
		habit.Frequency, habit.Target, habit.ID)
	if err != nil {
		return errors.StorageIO("update habit", err)
	}
	return requireRow(result, fmt.Sprintf("habit %d not found", habit.ID))
}

func (s *SQLiteStore) SetHabitOrder(id int64, order int) error {
	result, err := s.db.Exec(`UPDATE habits SET "order" = ? WHERE id = ?`, order, id)
	if err != nil {
		return errors.StorageIO("reorder habit", err)
	}
	return requireRow(result, fmt.Sprintf("habit %d not found", id))
}

// ArchiveHabit soft-archives a habit. Its entries and heatmap rows are kept.
func (s *SQLiteStore) ArchiveHabit(id int64) error {
	result, err := s.db.Exec(`UPDATE habits SET active = 0 WHERE id = ? AND active = 1`, id)
	if err != nil {
		return errors.StorageIO("archive habit", err)
	}
	return requireRow(result, fmt.Sprintf("habit %d not found or already archived", id))
}

func (s *SQLiteStore) UnarchiveHabit(id int64) error {
	result, err := s.db.Exec(`UPDATE habits SET active = 1 WHERE id = ? AND active = 0`, id)
	if err != nil {
		return errors.StorageIO("unarchive habit", err)
	}
	return requireRow(result, fmt.Sprintf("habit %d not found or not archived", id))
}

// DeleteHabit permanently removes a habit. Entry and heatmap rows cascade.
func (s *SQLiteStore) DeleteHabit(id int64) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return errors.StorageIO("delete habit", err)
	}
	return requireRow(result, fmt.Sprintf("habit %d not found", id))
}
