package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveRunRoundTrip(t *testing.T) {
	store := openTestStore(t)

	want := Run{
		Distance:       123,
		Cause:          "contact",
		Duration:       12500 * time.Millisecond,
		ObstacleOffset: 17,
		DeniedJumps:    2,
		Seed:           42,
		Difficulty:     "hard",
	}
	id, err := store.SaveRun(want)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	runs, err := store.RecentRuns(1)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != id {
		t.Errorf("ID = %d, want %d", got.ID, id)
	}
	got.ID, got.CreatedAt = 0, time.Time{}
	if got != want {
		t.Errorf("run = %+v, want %+v", got, want)
	}
}

func TestTopRunsOrdering(t *testing.T) {
	store := openTestStore(t)

	for _, d := range []int{100, 50, 200, 100} {
		if _, err := store.SaveRun(Run{Distance: d, Cause: "fall"}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.TopRuns(3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}
	if runs[0].Distance != 200 || runs[1].Distance != 100 || runs[2].Distance != 100 {
		t.Errorf("unexpected order: %d %d %d", runs[0].Distance, runs[1].Distance, runs[2].Distance)
	}
	if runs[1].ID > runs[2].ID {
		t.Error("ties should list the earlier run first")
	}

	recent, err := store.RecentRuns(0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 4 || recent[0].Distance != 100 || recent[3].Distance != 100 {
		t.Errorf("recent runs out of order: %+v", recent)
	}
}

func TestBestDistance(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestDistance()
	if err != nil {
		t.Fatalf("BestDistance() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("Expected 0 for empty store, got %d", best)
	}

	store.SaveRun(Run{Distance: 100, Cause: "fall"})
	store.SaveRun(Run{Distance: 300, Cause: "contact"})

	best, err = store.BestDistance()
	if err != nil {
		t.Fatalf("BestDistance() failed: %v", err)
	}
	if best != 300 {
		t.Errorf("Expected 300, got %d", best)
	}
}

func TestStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty store stats = %+v", stats)
	}

	store.SaveRun(Run{Distance: 10, Cause: "fall"})
	store.SaveRun(Run{Distance: 30, Cause: "contact"})
	store.SaveRun(Run{Distance: 20, Cause: "contact"})

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 3 || stats.BestDistance != 30 || stats.TotalDistance != 60 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgDistance != 20 {
		t.Errorf("AvgDistance = %v, want 20", stats.AvgDistance)
	}
	if stats.Falls != 1 || stats.Contacts != 2 {
		t.Errorf("causes = %d falls / %d contacts", stats.Falls, stats.Contacts)
	}
}

func TestClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{Distance: 100, Cause: "fall"})
	if err := store.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	runs, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Expected no runs after clear, got %d", len(runs))
	}
}
