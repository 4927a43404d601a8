package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fixbench/internal/config"
	"fixbench/internal/fixture"
	"fixbench/internal/runner"
	"fixbench/internal/spec"
	"fixbench/internal/verdict"
)

// writeRunProject lays out a config plus one loadable fixture.
func writeRunProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	fixtureDir := filepath.Join(root, "fixtures", "success_project")
	if err := os.MkdirAll(fixtureDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(fixtureDir, "main.rs"), []byte("fn main() {}\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if err := os.WriteFile(filepath.Join(fixtureDir, fixture.ManifestFileName), []byte("expectation_kind: compile_ok\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	body := "version: 1\nfixtures_dir: fixtures\noutput_dir: results\n"
	if err := os.WriteFile(config.ConfigPath(root), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return root
}

// stubRunAndWrite swaps the run entry point for the duration of a test.
func stubRunAndWrite(t *testing.T, matched bool) {
	t.Helper()
	original := runAndWrite
	runAndWrite = func(ctx context.Context, cfg spec.Config, params runner.RunParams) (runner.Results, runner.OutputPaths, error) {
		fixtureResult := runner.FixtureResult{Fixture: "success_project", Matched: matched}
		if !matched {
			fixtureResult.Mismatches = []verdict.Mismatch{{Kind: verdict.KindStatus, Detail: "expected clean compile, got exit 101"}}
		}
		results := runner.Results{
			RunID:    "20260314T092653Z-abc123",
			Fixtures: []runner.FixtureResult{fixtureResult},
			Summary:  summaryFor(matched),
		}
		paths, err := runner.WriteRunOutputs(results, filepath.Join(params.Root, cfg.OutputDir))
		return results, paths, err
	}
	t.Cleanup(func() { runAndWrite = original })
}

func summaryFor(matched bool) runner.RunSummary {
	if matched {
		return runner.RunSummary{FixturesTotal: 1, Matched: 1, MatchRate: 1.0}
	}
	return runner.RunSummary{FixturesTotal: 1, Mismatched: 1}
}

func TestRunCommandAllMatched(t *testing.T) {
	root := writeRunProject(t)
	stubRunAndWrite(t, true)

	var out, errBuf bytes.Buffer
	code := Run([]string{"run", "--config", config.ConfigPath(root), "--ui", "plain"}, &out, &errBuf)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr: %s)", ExitOK, code, errBuf.String())
	}
	if !strings.Contains(out.String(), "1/1 fixtures matched") {
		t.Fatalf("unexpected output: %q", out.String())
	}
	reportPath := filepath.Join(root, "results", "20260314T092653Z-abc123", "report.html")
	if _, err := os.Stat(reportPath); err != nil {
		t.Fatalf("report not written: %v", err)
	}
}

func TestRunCommandMismatchExitsNonZero(t *testing.T) {
	root := writeRunProject(t)
	stubRunAndWrite(t, false)

	var out, errBuf bytes.Buffer
	code := Run([]string{"run", "--config", config.ConfigPath(root), "--ui", "plain"}, &out, &errBuf)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(out.String(), "expected clean compile") {
		t.Fatalf("mismatch detail missing from output: %q", out.String())
	}
}

func TestRunCommandBadConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(config.ConfigPath(root), []byte("version: 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out, errBuf bytes.Buffer
	code := Run([]string{"run", "--config", config.ConfigPath(root), "--ui", "plain"}, &out, &errBuf)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(errBuf.String(), "fixtures_dir") {
		t.Fatalf("expected validation detail, got %q", errBuf.String())
	}
}
