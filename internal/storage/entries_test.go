package storage

import (
	"testing"

	"github.com/julianstephens/streaks/internal/errors"
	"github.com/julianstephens/streaks/internal/models"
)

func TestEnsureDayEntriesMaterializesIncomplete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	now := testNow(t)

	a := addTestHabit(t, store, "Read")
	b := addTestHabit(t, store, "Run")

	if err := store.EnsureDayEntries([]int64{a, b}, "2025-11-12", now); err != nil {
		t.Fatalf("EnsureDayEntries failed: %v", err)
	}

	for _, id := range []int64{a, b} {
		status, err := store.GetEntryStatus(id, "2025-11-12")
		if err != nil {
			t.Fatalf("GetEntryStatus failed: %v", err)
		}
		if status != models.StatusIncomplete {
			t.Errorf("habit %d materialized as %s, want incomplete", id, status)
		}
	}
}

func TestEnsureDayEntriesIsIdempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	now := testNow(t)

	id := addTestHabit(t, store, "Read")
	if err := store.EnsureDayEntries([]int64{id}, "2025-11-12", now); err != nil {
		t.Fatalf("EnsureDayEntries failed: %v", err)
	}
	if err := store.SetEntryStatus(id, "2025-11-12", models.StatusComplete, now); err != nil {
		t.Fatalf("SetEntryStatus failed: %v", err)
	}

	// A repeated ensure must not reset the completed entry.
	if err := store.EnsureDayEntries([]int64{id}, "2025-11-12", now); err != nil {
		t.Fatalf("second EnsureDayEntries failed: %v", err)
	}

	status, err := store.GetEntryStatus(id, "2025-11-12")
	if err != nil {
		t.Fatalf("GetEntryStatus failed: %v", err)
	}
	if status != models.StatusComplete {
		t.Errorf("ensure reset entry to %s, want complete", status)
	}

	count, err := store.CountEntries(id)
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if count != 1 {
		t.Errorf("habit has %d entry rows for one day, want 1", count)
	}
}

func TestEnsureDayEntriesRejectsMalformedDate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	id := addTestHabit(t, store, "Read")
	err := store.EnsureDayEntries([]int64{id}, "11/12/2025", testNow(t))
	if !errors.IsValidation(err) {
		t.Errorf("EnsureDayEntries with malformed date = %v, want ValidationError", err)
	}
}

func TestGetEntryStatusUnsetForMissingRow(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	id := addTestHabit(t, store, "Read")
	status, err := store.GetEntryStatus(id, "2025-11-12")
	if err != nil {
		t.Fatalf("GetEntryStatus failed: %v", err)
	}
	if status != models.StatusUnset {
		t.Errorf("missing entry read as %s, want unset", status)
	}

	_, ok, err := store.GetEntry(id, "2025-11-12")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if ok {
		t.Error("GetEntry reported a row that does not exist")
	}
}

func TestSetEntryStatusUpsertsSingleRow(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	now := testNow(t)

	id := addTestHabit(t, store, "Read")
	transitions := []models.Status{
		models.StatusComplete,
		models.StatusIncomplete,
		models.StatusComplete,
	}
	for _, want := range transitions {
		if err := store.SetEntryStatus(id, "2025-11-12", want, now); err != nil {
			t.Fatalf("SetEntryStatus(%s) failed: %v", want, err)
		}
		got, err := store.GetEntryStatus(id, "2025-11-12")
		if err != nil {
			t.Fatalf("GetEntryStatus failed: %v", err)
		}
		if got != want {
			t.Errorf("status after write = %s, want %s", got, want)
		}
	}

	count, err := store.CountEntries(id)
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if count != 1 {
		t.Errorf("repeated writes produced %d rows, want 1", count)
	}
}

func TestSetEntryStatusRejectsUnset(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	id := addTestHabit(t, store, "Read")
	err := store.SetEntryStatus(id, "2025-11-12", models.StatusUnset, testNow(t))
	if !errors.IsValidation(err) {
		t.Errorf("SetEntryStatus(unset) = %v, want ValidationError", err)
	}
}

func TestListEntriesGapFills(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	now := testNow(t)

	id := addTestHabit(t, store, "Read")
	if err := store.SetEntryStatus(id, "2025-11-11", models.StatusComplete, now); err != nil {
		t.Fatalf("SetEntryStatus failed: %v", err)
	}
	if err := store.SetEntryStatus(id, "2025-11-14", models.StatusIncomplete, now); err != nil {
		t.Fatalf("SetEntryStatus failed: %v", err)
	}

	entries, err := store.ListEntries(id, "2025-11-10", "2025-11-16")
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 7 {
		t.Fatalf("ListEntries returned %d days, want 7", len(entries))
	}

	want := map[string]models.Status{
		"2025-11-11": models.StatusComplete,
		"2025-11-14": models.StatusIncomplete,
	}
	for i, e := range entries {
		expected, ok := want[e.Date]
		if !ok {
			expected = models.StatusUnset
		}
		if e.Status != expected {
			t.Errorf("day %s status = %s, want %s", e.Date, e.Status, expected)
		}
		if i > 0 && entries[i-1].Date >= e.Date {
			t.Errorf("entries out of order at index %d: %s then %s", i, entries[i-1].Date, e.Date)
		}
	}
}
