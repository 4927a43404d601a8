package report

import (
	"strings"
	"testing"
	"time"

	"fixbench/internal/runner"
	"fixbench/internal/verdict"
)

// TestResolveRunLatestAndByID verifies run resolution by ref.
func TestResolveRunLatestAndByID(t *testing.T) {
	root := t.TempDir()
	first := runner.Results{RunID: "20260314T090000Z-aaa"}
	if _, err := runner.WriteRunOutputs(first, root); err != nil {
		t.Fatalf("write outputs: %v", err)
	}
	second := runner.Results{RunID: "20260314T100000Z-bbb"}
	if _, err := runner.WriteRunOutputs(second, root); err != nil {
		t.Fatalf("write outputs: %v", err)
	}

	resolved, _, err := ResolveRun(root, "latest")
	if err != nil {
		t.Fatalf("resolve latest: %v", err)
	}
	if resolved.RunID != "20260314T100000Z-bbb" {
		t.Fatalf("unexpected latest run: %s", resolved.RunID)
	}

	resolved, _, err = ResolveRun(root, "20260314T090000Z-aaa")
	if err != nil {
		t.Fatalf("resolve by ID: %v", err)
	}
	if resolved.RunID != "20260314T090000Z-aaa" {
		t.Fatalf("unexpected run: %s", resolved.RunID)
	}

	if _, _, err := ResolveRun(root, "nope"); err == nil {
		t.Fatalf("expected error for unknown run")
	}
}

// TestRenderHTML verifies the report includes run and mismatch detail.
func TestRenderHTML(t *testing.T) {
	results := runner.Results{
		RunID:        "20260314T090000Z-aaa",
		FixturesRoot: "/work/fixtures",
		Toolchain:    runner.ToolchainInfo{Version: "cargo 1.80.0"},
		StartedAt:    time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		FinishedAt:   time.Date(2026, 3, 14, 9, 1, 0, 0, time.UTC),
		Fixtures: []runner.FixtureResult{
			{Fixture: "success_project", Matched: true},
			{Fixture: "rust_eval_test", Matched: false, Mismatches: []verdict.Mismatch{
				{Kind: verdict.KindMissing, Detail: "test test_fibonacci not run"},
			}},
		},
		Summary: runner.RunSummary{FixturesTotal: 2, Matched: 1, Mismatched: 1, MatchRate: 0.5},
	}

	html, err := RenderHTML(results)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, token := range []string{"20260314T090000Z-aaa", "success_project", "rust_eval_test", "test test_fibonacci not run", "cargo 1.80.0", "50.00"} {
		if !strings.Contains(html, token) {
			t.Fatalf("expected report to include %q", token)
		}
	}
	if !strings.Contains(html, "<table") {
		t.Fatalf("expected table in report")
	}
}
