package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/loop"
	"github.com/vovakirdan/frameloop/internal/sim"
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

func sampleSummary(scene string, frames int) sim.Summary {
	return sim.Summary{
		Scene:            scene,
		Profile:          config.ProfileStall,
		Seed:             42,
		FixedDelta:       10 * time.Millisecond,
		MaximumDelta:     loop.Unbounded,
		Frames:           frames,
		FixedSteps:       frames - 1,
		MaxStepsPerFrame: 5,
		CappedFrames:     2,
		Dropped:          700 * time.Millisecond,
		Elapsed:          3 * time.Second,
		Leftover:         4 * time.Millisecond,
		SimTime:          2296 * time.Millisecond,
		MeanAlpha:        0.25,
		FinalFPS:         60,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	want := sampleSummary("bounce", 100)
	id, err := store.SaveRun(want)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	got, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("RunByID() returned nil for a saved run")
	}
	if got.Summary != want {
		t.Errorf("stored summary =\n%+v\nexpected\n%+v", got.Summary, want)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}

	missing, err := store.RunByID(id + 100)
	if err != nil || missing != nil {
		t.Errorf("RunByID(missing) = %v, %v; expected nil, nil", missing, err)
	}
}

func TestStoreRecentRunsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 1; i <= 15; i++ {
		scene := "bounce"
		if i%3 == 0 {
			scene = "orbit"
		}
		if _, err := store.SaveRun(sampleSummary(scene, i*10)); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.RecentRuns(0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 10 {
		t.Fatalf("RecentRuns(0) returned %d runs, expected default of 10", len(runs))
	}
	if runs[0].Frames != 150 {
		t.Errorf("newest run has %d frames, expected 150", runs[0].Frames)
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].ID > runs[i-1].ID {
			t.Errorf("runs not newest first at %d", i)
		}
	}

	orbit, err := store.RunsForScene("orbit", 100)
	if err != nil {
		t.Fatalf("RunsForScene() failed: %v", err)
	}
	if len(orbit) != 5 {
		t.Errorf("RunsForScene(orbit) returned %d runs, expected 5", len(orbit))
	}
	for _, r := range orbit {
		if r.Scene != "orbit" {
			t.Errorf("RunsForScene(orbit) returned a %s run", r.Scene)
		}
	}
}

func TestStoreSceneStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetSceneStats("bounce")
	if err != nil {
		t.Fatalf("GetSceneStats() failed: %v", err)
	}
	if empty.Runs != 0 || !empty.LastRun.IsZero() {
		t.Errorf("stats for empty scene = %+v", empty)
	}

	store.SaveRun(sampleSummary("bounce", 100))
	store.SaveRun(sampleSummary("bounce", 300))
	store.SaveRun(sampleSummary("orbit", 1000))

	stats, err := store.GetSceneStats("bounce")
	if err != nil {
		t.Fatalf("GetSceneStats() failed: %v", err)
	}
	if stats.Runs != 2 {
		t.Errorf("Runs = %d, expected 2", stats.Runs)
	}
	if stats.TotalFrames != 400 {
		t.Errorf("TotalFrames = %d, expected 400", stats.TotalFrames)
	}
	if stats.TotalSteps != 398 {
		t.Errorf("TotalSteps = %d, expected 398", stats.TotalSteps)
	}
	if stats.CappedFrames != 4 {
		t.Errorf("CappedFrames = %d, expected 4", stats.CappedFrames)
	}
	if stats.MeanAlpha != 0.25 {
		t.Errorf("MeanAlpha = %v, expected 0.25", stats.MeanAlpha)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(sampleSummary("bounce", 10))
	store.SaveRun(sampleSummary("orbit", 10))

	if err := store.ClearRuns("bounce"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	bounce, _ := store.RunsForScene("bounce", 10)
	if len(bounce) != 0 {
		t.Errorf("bounce runs remain after clear: %d", len(bounce))
	}
	orbit, _ := store.RunsForScene("orbit", 10)
	if len(orbit) != 1 {
		t.Errorf("ClearRuns(bounce) touched orbit runs: %d left", len(orbit))
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
