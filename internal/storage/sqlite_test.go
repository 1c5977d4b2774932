//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"phonotaxis/internal/model"
)

func TestSQLiteStoreCorpusAndWalkRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "phonotaxis.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	records := []model.CorpusRecord{
		{Syllable: "ka", Features: []bool{false, false, true}, Frequency: 10},
		{Syllable: "pa", Features: []bool{true, false, true}, Frequency: 3},
	}
	if err := store.SaveCorpus(ctx, "north", records); err != nil {
		t.Fatalf("save corpus: %v", err)
	}

	loaded, ok, err := store.GetCorpus(ctx, "north")
	if err != nil {
		t.Fatalf("get corpus: %v", err)
	}
	if !ok || len(loaded) != 2 || loaded[0].Syllable != "ka" {
		t.Fatalf("unexpected corpus: ok=%v records=%+v", ok, loaded)
	}

	names, err := store.ListCorpora(ctx)
	if err != nil {
		t.Fatalf("list corpora: %v", err)
	}
	if len(names) != 1 || names[0] != "north" {
		t.Fatalf("unexpected corpora: %v", names)
	}

	run := model.WalkRun{
		ID:             "walk-1",
		CorpusName:     "north",
		Start:          "ka",
		Temperature:    1.0,
		Seed:           42,
		RequestedSteps: 1,
		ActualSteps:    1,
		TerminalState:  "completed",
		Steps:          []model.StepRecord{{From: "ka", To: "pa", Distance: 1, Probability: 1}},
		CreatedAtUTC:   "2026-01-02T03:04:05Z",
	}
	if err := store.SaveWalkRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	later := run
	later.ID = "walk-2"
	later.CreatedAtUTC = "2026-01-03T00:00:00Z"
	if err := store.SaveWalkRun(ctx, later); err != nil {
		t.Fatalf("save later run: %v", err)
	}

	loadedRun, ok, err := store.GetWalkRun(ctx, "walk-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok || loadedRun.ID != "walk-1" || len(loadedRun.Steps) != 1 {
		t.Fatalf("unexpected run: ok=%v run=%+v", ok, loadedRun)
	}

	runs, err := store.ListWalkRuns(ctx, 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "walk-2" {
		t.Fatalf("expected newest-first listing, got %+v", runs)
	}

	limited, err := store.ListWalkRuns(ctx, 1)
	if err != nil {
		t.Fatalf("list limited runs: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "walk-2" {
		t.Fatalf("unexpected limited listing: %+v", limited)
	}

	if _, ok, _ := store.GetWalkRun(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown run")
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "phonotaxis.db"))
	if _, _, err := store.GetCorpus(context.Background(), "north"); err == nil {
		t.Fatal("expected error before Init")
	}
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	store := NewSQLiteStore("")
	if err := store.Init(context.Background()); err == nil {
		t.Fatal("expected error for empty path")
	}
}
