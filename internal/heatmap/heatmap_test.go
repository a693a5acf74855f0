package heatmap

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/streaks/internal/errors"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/storage"
)

func setupTestCache(t *testing.T) (*Cache, *storage.SQLiteStore, func()) {
	t.Helper()

	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "streaks.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	return New(store), store, func() {
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

func addTestHabit(t *testing.T, store *storage.SQLiteStore, createdAt time.Time) int64 {
	t.Helper()

	id, err := store.AddHabit(models.Habit{
		Name:      "Read",
		Frequency: "daily",
		Active:    true,
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	return id
}

func TestGetWeekMissReturnsEmptyWeek(t *testing.T) {
	cache, store, cleanup := setupTestCache(t)
	defer cleanup()

	id := addTestHabit(t, store, testNow(t))
	statuses, err := cache.GetWeek(id, "2025-11-10")
	if err != nil {
		t.Fatalf("GetWeek failed: %v", err)
	}
	if statuses != models.EmptyWeek() {
		t.Errorf("cache miss returned %v, want all unset", statuses)
	}

	// The miss must not have materialized a row.
	_, ok, err := store.GetHeatmapWeek(id, "2025-11-10")
	if err != nil {
		t.Fatalf("GetHeatmapWeek failed: %v", err)
	}
	if ok {
		t.Error("GetWeek persisted a row on a cache miss")
	}
}

func TestRebuildRangeForHabit(t *testing.T) {
	cache, store, cleanup := setupTestCache(t)
	defer cleanup()
	now := testNow(t)

	id := addTestHabit(t, store, now)
	if err := store.SetEntryStatus(id, "2025-10-29", models.StatusComplete, now); err != nil {
		t.Fatalf("SetEntryStatus failed: %v", err)
	}
	if err := store.SetEntryStatus(id, "2025-11-12", models.StatusComplete, now); err != nil {
		t.Fatalf("SetEntryStatus failed: %v", err)
	}

	rebuilt, err := cache.RebuildRangeForHabit(id, "2025-10-27", "2025-11-10", now)
	if err != nil {
		t.Fatalf("RebuildRangeForHabit failed: %v", err)
	}
	if rebuilt != 3 {
		t.Errorf("rebuilt %d weeks, want 3", rebuilt)
	}

	first, err := cache.GetWeek(id, "2025-10-27")
	if err != nil {
		t.Fatalf("GetWeek failed: %v", err)
	}
	if first[2] != models.StatusComplete {
		t.Errorf("wednesday of first week = %s, want complete", first[2])
	}

	last, err := cache.GetWeek(id, "2025-11-10")
	if err != nil {
		t.Fatalf("GetWeek failed: %v", err)
	}
	if last[2] != models.StatusComplete {
		t.Errorf("wednesday of last week = %s, want complete", last[2])
	}
}

func TestRebuildForHabitStartsAtCreationWeek(t *testing.T) {
	cache, store, cleanup := setupTestCache(t)
	defer cleanup()
	now := testNow(t)

	created := now.AddDate(0, 0, -16) // 2025-10-27, a Monday
	id := addTestHabit(t, store, created)

	rebuilt, err := cache.RebuildForHabit(models.Habit{ID: id, CreatedAt: created}, now)
	if err != nil {
		t.Fatalf("RebuildForHabit failed: %v", err)
	}
	// Creation week through the current week: Oct 27, Nov 3, Nov 10.
	if rebuilt != 3 {
		t.Errorf("rebuilt %d weeks, want 3", rebuilt)
	}
}

func TestRebuildForHabitResumesFromLatestCachedWeek(t *testing.T) {
	cache, store, cleanup := setupTestCache(t)
	defer cleanup()
	now := testNow(t)

	created := now.AddDate(0, 0, -30)
	id := addTestHabit(t, store, created)
	if _, err := cache.RecomputeWeek(id, "2025-11-03", now); err != nil {
		t.Fatalf("RecomputeWeek failed: %v", err)
	}

	rebuilt, err := cache.RebuildForHabit(models.Habit{ID: id, CreatedAt: created}, now)
	if err != nil {
		t.Fatalf("RebuildForHabit failed: %v", err)
	}
	// Resumes at the cached Nov 3 week, not the creation week in mid-October.
	if rebuilt != 2 {
		t.Errorf("rebuilt %d weeks, want 2", rebuilt)
	}
}

func TestRebuildAllHealsTornToggle(t *testing.T) {
	cache, store, cleanup := setupTestCache(t)
	defer cleanup()
	now := testNow(t)

	id := addTestHabit(t, store, now)
	// Simulate a toggle that wrote the entry but never reached the cache.
	if err := store.SetEntryStatus(id, "2025-11-12", models.StatusComplete, now); err != nil {
		t.Fatalf("SetEntryStatus failed: %v", err)
	}

	if err := cache.VerifyWeek(id, "2025-11-10"); !errors.IsConsistency(err) {
		t.Fatalf("VerifyWeek before rebuild = %v, want ConsistencyError", err)
	}

	if _, err := cache.RebuildAll(now); err != nil {
		t.Fatalf("RebuildAll failed: %v", err)
	}

	if err := cache.VerifyWeek(id, "2025-11-10"); err != nil {
		t.Errorf("VerifyWeek after rebuild = %v, want nil", err)
	}

	statuses, err := cache.GetWeek(id, "2025-11-10")
	if err != nil {
		t.Fatalf("GetWeek failed: %v", err)
	}
	if statuses[2] != models.StatusComplete {
		t.Errorf("wednesday slot = %s, want complete", statuses[2])
	}
}

func TestVerifyWeekPassesOnEmptyWeek(t *testing.T) {
	cache, store, cleanup := setupTestCache(t)
	defer cleanup()

	id := addTestHabit(t, store, testNow(t))
	if err := cache.VerifyWeek(id, "2025-11-10"); err != nil {
		t.Errorf("VerifyWeek on untouched week = %v, want nil", err)
	}
}
