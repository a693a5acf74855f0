package query

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/streaks/internal/heatmap"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/storage"
)

func setupTestService(t *testing.T) (*Service, *storage.SQLiteStore, func()) {
	t.Helper()

	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "streaks.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	cache := heatmap.New(store)

	return New(store, cache), store, func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
}

func testNow(t *testing.T) time.Time {
	t.Helper()
	now, err := time.Parse(time.RFC3339, "2025-11-12T10:00:00Z")
	if err != nil {
		t.Fatalf("failed to parse test time: %v", err)
	}
	return now
}

func addHabitCreatedAt(t *testing.T, store *storage.SQLiteStore, name string, createdAt time.Time) int64 {
	t.Helper()

	id, err := store.AddHabit(models.Habit{
		Name:      name,
		Frequency: "daily",
		Active:    true,
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("failed to add habit %s: %v", name, err)
	}
	return id
}

func TestTodayMaterializesAndOrders(t *testing.T) {
	svc, store, cleanup := setupTestService(t)
	defer cleanup()
	now := testNow(t)

	first := addHabitCreatedAt(t, store, "Read", now)
	second := addHabitCreatedAt(t, store, "Run", now)
	if err := store.SetHabitOrder(first, 1); err != nil {
		t.Fatalf("SetHabitOrder failed: %v", err)
	}

	rows, err := svc.Today(now)
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Today returned %d rows, want 2", len(rows))
	}
	if rows[0].Habit.ID != second || rows[1].Habit.ID != first {
		t.Errorf("row order = %d, %d, want %d, %d", rows[0].Habit.ID, rows[1].Habit.ID, second, first)
	}

	// Opening the day view starts every habit at incomplete, not unset.
	for _, row := range rows {
		if row.Status != models.StatusIncomplete {
			t.Errorf("habit %d status = %s, want incomplete", row.Habit.ID, row.Status)
		}
	}
}

func TestTodayNoHabits(t *testing.T) {
	svc, _, cleanup := setupTestService(t)
	defer cleanup()

	rows, err := svc.Today(testNow(t))
	if err != nil {
		t.Fatalf("Today with no habits failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Today returned %d rows, want 0", len(rows))
	}
}

func TestWeeklyCells(t *testing.T) {
	svc, store, cleanup := setupTestService(t)
	defer cleanup()
	now := testNow(t)

	id := addHabitCreatedAt(t, store, "Read", now.AddDate(0, 0, -7))
	if err := store.ToggleEntryWrite(id, "2025-11-11", models.StatusComplete, now); err != nil {
		t.Fatalf("ToggleEntryWrite failed: %v", err)
	}

	rows, err := svc.Weekly(now)
	if err != nil {
		t.Fatalf("Weekly failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Weekly returned %d rows, want 1", len(rows))
	}

	cells := rows[0].Cells
	if len(cells) != 7 {
		t.Fatalf("Weekly returned %d cells, want 7", len(cells))
	}
	if cells[0].Date != "2025-11-10" || cells[6].Date != "2025-11-16" {
		t.Errorf("week spans %s..%s, want 2025-11-10..2025-11-16", cells[0].Date, cells[6].Date)
	}
	if cells[1].Status != models.StatusComplete {
		t.Errorf("tuesday = %s, want complete", cells[1].Status)
	}
	// Today was materialized by the read itself.
	if cells[2].Status != models.StatusIncomplete || cells[2].Future {
		t.Errorf("wednesday = (%s, future=%v), want (incomplete, false)", cells[2].Status, cells[2].Future)
	}
	// Days past today are future, not incomplete.
	for _, c := range cells[3:] {
		if !c.Future {
			t.Errorf("day %s not flagged future", c.Date)
		}
		if c.Status != models.StatusUnset {
			t.Errorf("future day %s status = %s, want unset", c.Date, c.Status)
		}
	}
}

func TestMonthlyCropsToExactMonth(t *testing.T) {
	svc, store, cleanup := setupTestService(t)
	defer cleanup()
	now := testNow(t)

	// Created mid-month: the first nine days of November predate the habit.
	created := now.AddDate(0, 0, -2) // 2025-11-10
	id := addHabitCreatedAt(t, store, "Read", created)
	if err := store.ToggleEntryWrite(id, "2025-11-11", models.StatusComplete, now); err != nil {
		t.Fatalf("ToggleEntryWrite failed: %v", err)
	}

	rows, err := svc.Monthly(now)
	if err != nil {
		t.Fatalf("Monthly failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Monthly returned %d rows, want 1", len(rows))
	}

	cells := rows[0].Cells
	if len(cells) != 30 {
		t.Fatalf("November has %d cells, want 30", len(cells))
	}
	if cells[0].Date != "2025-11-01" || cells[29].Date != "2025-11-30" {
		t.Errorf("month spans %s..%s, want 2025-11-01..2025-11-30", cells[0].Date, cells[29].Date)
	}

	// Days before the habit existed read as unset, not incomplete.
	for _, c := range cells[:9] {
		if c.Status != models.StatusUnset {
			t.Errorf("pre-creation day %s = %s, want unset", c.Date, c.Status)
		}
		if c.Future {
			t.Errorf("past day %s flagged future", c.Date)
		}
	}

	if cells[10].Status != models.StatusComplete {
		t.Errorf("2025-11-11 = %s, want complete", cells[10].Status)
	}
	if cells[11].Status != models.StatusIncomplete {
		t.Errorf("2025-11-12 = %s, want incomplete", cells[11].Status)
	}
	for _, c := range cells[12:] {
		if !c.Future {
			t.Errorf("day %s not flagged future", c.Date)
		}
	}
}

func TestOverallWeekRange(t *testing.T) {
	svc, store, cleanup := setupTestService(t)
	defer cleanup()
	now := testNow(t)

	// Created Thursday Oct 30: overall starts at that week's Monday, not at
	// the start of the year.
	created := now.AddDate(0, 0, -13)
	id := addHabitCreatedAt(t, store, "Read", created)

	rows, err := svc.Overall(now)
	if err != nil {
		t.Fatalf("Overall failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Overall returned %d rows, want 1", len(rows))
	}

	weeks := rows[0].Weeks
	if len(weeks) != 3 {
		t.Fatalf("Overall returned %d weeks, want 3", len(weeks))
	}
	wantStarts := []string{"2025-10-27", "2025-11-03", "2025-11-10"}
	for i, w := range weeks {
		if w.WeekStart != wantStarts[i] {
			t.Errorf("week %d start = %s, want %s", i, w.WeekStart, wantStarts[i])
		}
		if w.HabitID != id {
			t.Errorf("week %d habit = %d, want %d", i, w.HabitID, id)
		}
	}
}

func TestArchivedHabitsExcludedFromViews(t *testing.T) {
	svc, store, cleanup := setupTestService(t)
	defer cleanup()
	now := testNow(t)

	id := addHabitCreatedAt(t, store, "Read", now)
	if err := store.ArchiveHabit(id); err != nil {
		t.Fatalf("ArchiveHabit failed: %v", err)
	}

	rows, err := svc.Today(now)
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("archived habit appeared in today view")
	}
}
