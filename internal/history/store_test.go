package history

import (
	"testing"
	"time"

	"fixbench/internal/runner"
	"fixbench/internal/testutil"
	"fixbench/internal/verdict"
)

func sampleResults(runID string, started time.Time) runner.Results {
	return runner.Results{
		RunID:        runID,
		FixturesRoot: "/work/fixtures",
		Toolchain:    runner.ToolchainInfo{Version: "cargo 1.80.0"},
		StartedAt:    started,
		FinishedAt:   started.Add(time.Minute),
		Fixtures: []runner.FixtureResult{
			{Fixture: "success_project", Matched: true, DurationSeconds: 1.5},
			{Fixture: "rust_eval_test", Matched: false, Mismatches: []verdict.Mismatch{
				{Kind: verdict.KindMissing, Detail: "test test_fibonacci not run"},
			}},
		},
		Summary: runner.RunSummary{FixturesTotal: 2, Matched: 1, Mismatched: 1, MatchRate: 0.5},
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	store, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx := testutil.Context(t, 0)
	results := sampleResults("20260314T090000Z-aaa", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	if err := store.Ingest(ctx, results); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if err := store.Ingest(ctx, results); err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run after duplicate ingest, got %d", len(runs))
	}
	if runs[0].Mismatched != 1 || runs[0].FixturesTotal != 2 {
		t.Fatalf("unexpected run record: %+v", runs[0])
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	store, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx := testutil.Context(t, 0)
	older := sampleResults("20260314T090000Z-aaa", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	newer := sampleResults("20260315T090000Z-bbb", time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))
	if err := store.Ingest(ctx, older); err != nil {
		t.Fatalf("ingest older: %v", err)
	}
	if err := store.Ingest(ctx, newer); err != nil {
		t.Fatalf("ingest newer: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 1)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "20260315T090000Z-bbb" {
		t.Fatalf("expected newest run first, got %+v", runs)
	}
}

func TestFixtureHistory(t *testing.T) {
	store, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx := testutil.Context(t, 0)
	first := sampleResults("20260314T090000Z-aaa", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	second := sampleResults("20260315T090000Z-bbb", time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))
	second.Fixtures[1].Matched = true
	second.Fixtures[1].Mismatches = nil
	if err := store.Ingest(ctx, first); err != nil {
		t.Fatalf("ingest first: %v", err)
	}
	if err := store.Ingest(ctx, second); err != nil {
		t.Fatalf("ingest second: %v", err)
	}

	records, err := store.FixtureHistory(ctx, "rust_eval_test", 10)
	if err != nil {
		t.Fatalf("fixture history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].Matched || records[1].Matched {
		t.Fatalf("expected newest-first flake history, got %+v", records)
	}
}

func TestCanonicalJSONIsDeterministic(t *testing.T) {
	first, err := CanonicalJSON(map[string]interface{}{"b": 1, "a": []string{"x", "y"}})
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	second, err := CanonicalJSON(map[string]interface{}{"a": []string{"x", "y"}, "b": 1})
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("canonical JSON differs: %s vs %s", first, second)
	}
}
