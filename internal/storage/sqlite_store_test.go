package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/streaks/internal/models"
)

func setupTestStore(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()

	store := NewSQLiteStore(filepath.Join(t.TempDir(), "streaks.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	return store, func() {
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

func addTestHabit(t *testing.T, store *SQLiteStore, name string) int64 {
	t.Helper()

	id, err := store.AddHabit(models.Habit{
		Name:      name,
		Frequency: "daily",
		Active:    true,
		CreatedAt: testNow(t),
	})
	if err != nil {
		t.Fatalf("failed to add habit %s: %v", name, err)
	}
	return id
}

func TestInitIsIdempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	// Re-running migrations against an up-to-date database is a no-op.
	second := NewSQLiteStore(store.GetConfigPath())
	if err := second.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	defer second.Close()

	version, err := second.SchemaVersion()
	if err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != 1 {
		t.Errorf("schema version = %d, want 1", version)
	}
}

func TestLoadRequiresExistingDatabase(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Fatal("Load succeeded on a nonexistent database")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if _, ok, err := store.GetSetting("timezone"); err != nil || ok {
		t.Fatalf("GetSetting on empty table = (ok=%v, err=%v), want (false, nil)", ok, err)
	}

	if err := store.SetSetting("timezone", "America/New_York"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := store.SetSetting("timezone", "Europe/Berlin"); err != nil {
		t.Fatalf("SetSetting overwrite failed: %v", err)
	}

	value, ok, err := store.GetSetting("timezone")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if !ok || value != "Europe/Berlin" {
		t.Errorf("GetSetting = (%q, %v), want (Europe/Berlin, true)", value, ok)
	}
}
