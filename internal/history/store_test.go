package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"animopt/internal/history"
)

func openStore(t *testing.T, maxRuns int) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), maxRuns)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := openStore(t, 100)
	ctx := context.Background()

	run, err := store.Record(ctx, history.Run{
		Animation:            "walk",
		JointCount:           32,
		DurationSeconds:      1.5,
		TranslationTolerance: 1e-3,
		RotationTolerance:    0.0017,
		ScaleTolerance:       1e-3,
		KeysBefore:           4000,
		KeysAfter:            600,
		MaxPositionError:     0.0008,
		MeanPositionError:    0.0002,
		ArchivePath:          "/tmp/walk.json",
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected assigned run ID")
	}
	if run.CreatedAt.IsZero() {
		t.Fatal("expected assigned timestamp")
	}

	got, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got == nil {
		t.Fatal("expected run, got nil")
	}
	if got.Animation != "walk" || got.KeysBefore != 4000 || got.KeysAfter != 600 {
		t.Fatalf("run did not round-trip: %+v", got)
	}
	if got.ArchivePath != "/tmp/walk.json" {
		t.Fatalf("archive path did not round-trip: %q", got.ArchivePath)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Fatalf("timestamp did not round-trip: %v vs %v", got.CreatedAt, run.CreatedAt)
	}
	if c := got.Compression(); c != 0.15 {
		t.Fatalf("unexpected compression: %v", c)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := openStore(t, 100)
	got, err := store.Get(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing run, got %+v", got)
	}
}

func TestListNewestFirstAndPrunes(t *testing.T) {
	store := openStore(t, 3)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.Record(ctx, history.Run{
			Animation:  "run",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			KeysBefore: 100,
			KeysAfter:  100 - i,
		})
		if err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs after pruning, got %d", len(runs))
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].CreatedAt.After(runs[i-1].CreatedAt) {
			t.Fatal("runs not sorted newest first")
		}
	}
	if runs[0].KeysAfter != 96 || runs[2].KeysAfter != 98 {
		t.Fatalf("pruning kept the wrong runs: %+v", runs)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(limited) != 1 || limited[0].KeysAfter != 96 {
		t.Fatalf("limited list wrong: %+v", limited)
	}
}

func TestClear(t *testing.T) {
	store := openStore(t, 100)
	ctx := context.Background()

	if _, err := store.Record(ctx, history.Run{Animation: "idle"}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty history, got %d runs", len(runs))
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	store, err := history.Open(path, 100)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	recorded, err := store.Record(context.Background(), history.Run{Animation: "jump"})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := history.Open(path, 100)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), recorded.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got == nil || got.Animation != "jump" {
		t.Fatalf("run lost across reopen: %+v", got)
	}
}
