package runner

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fixbench/internal/fixture"
	"fixbench/internal/spec"
	"fixbench/internal/testutil"
	"fixbench/internal/toolchain"
)

// fakeInvoker replays canned invocation results keyed by fixture name.
type fakeInvoker struct {
	mu      sync.Mutex
	results map[string]toolchain.InvokeResult
	errs    map[string]error
	delays  map[string]time.Duration
	calls   []string
}

func (f *fakeInvoker) Invoke(ctx context.Context, fx fixture.Fixture) (toolchain.InvokeResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fx.Name)
	delay := f.delays[fx.Name]
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-ctx.Done():
			return toolchain.InvokeResult{}, ctx.Err()
		case <-time.After(delay):
		}
	}
	if err := f.errs[fx.Name]; err != nil {
		return toolchain.InvokeResult{}, err
	}
	return f.results[fx.Name], nil
}

func (f *fakeInvoker) Version(ctx context.Context) string {
	return "cargo 1.80.0"
}

// writeFixtureDir lays out one fixture under root.
func writeFixtureDir(t *testing.T, root, name, manifest string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.rs"), []byte("fn main() {}\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, fixture.ManifestFileName), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

// testConfig builds a normalized config rooted at the given dir.
func testConfig(workers int) spec.Config {
	return spec.Config{
		Version:        1,
		FixturesDir:    "fixtures",
		OutputDir:      "results",
		Workers:        workers,
		TimeoutSeconds: 5,
		MatchPolicy:    "superset",
	}
}

func fixedDeps(invoker Invoker) RunDependencies {
	return RunDependencies{
		InvokerFactory: func(opts toolchain.Options) Invoker { return invoker },
		RunID:          func() (string, error) { return "20260314T092653Z-abc123", nil },
		Now:            func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) },
	}
}

func TestRunEvaluatesFixturesInLoadOrder(t *testing.T) {
	root := t.TempDir()
	fixturesRoot := filepath.Join(root, "fixtures")
	writeFixtureDir(t, fixturesRoot, "alpha", "expectation_kind: compile_ok\n")
	writeFixtureDir(t, fixturesRoot, "beta", "expectation_kind: compile_error\n")
	writeFixtureDir(t, fixturesRoot, "gamma", "expectation_kind: compile_ok\n")

	invoker := &fakeInvoker{
		results: map[string]toolchain.InvokeResult{
			"alpha": {Build: toolchain.RawOutput{ExitCode: 0}},
			"beta":  {Build: toolchain.RawOutput{ExitCode: 101, Stderr: "error[E0425]: cannot find value `x`\n"}},
			"gamma": {Build: toolchain.RawOutput{ExitCode: 0}},
		},
		delays: map[string]time.Duration{
			"alpha": 30 * time.Millisecond,
			"beta":  10 * time.Millisecond,
		},
	}

	results, err := Run(testutil.Context(t, 0), testConfig(3), RunParams{
		Root: root,
		Deps: fixedDeps(invoker),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var names []string
	for _, result := range results.Fixtures {
		names = append(names, result.Fixture)
	}
	want := []string{"alpha", "beta", "gamma"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("results out of load order: %v", names)
		}
	}
	if !results.AllMatched() {
		t.Fatalf("expected all matched, got %+v", results.Summary)
	}
	if results.Summary.FixturesTotal != 3 || results.Summary.MatchRate != 1.0 {
		t.Fatalf("unexpected summary: %+v", results.Summary)
	}
}

func TestRunIncludesLoadFailures(t *testing.T) {
	root := t.TempDir()
	fixturesRoot := filepath.Join(root, "fixtures")
	writeFixtureDir(t, fixturesRoot, "broken", "expectation_kind: bogus\n")
	writeFixtureDir(t, fixturesRoot, "clean", "expectation_kind: compile_ok\n")

	invoker := &fakeInvoker{
		results: map[string]toolchain.InvokeResult{
			"clean": {Build: toolchain.RawOutput{ExitCode: 0}},
		},
	}

	results, err := Run(testutil.Context(t, 0), testConfig(1), RunParams{
		Root: root,
		Deps: fixedDeps(invoker),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results.Fixtures) != 2 {
		t.Fatalf("expected 2 fixtures, got %d", len(results.Fixtures))
	}
	if results.Fixtures[0].Fixture != "broken" || results.Fixtures[0].Matched {
		t.Fatalf("load failure should be a mismatched fixture: %+v", results.Fixtures[0])
	}
	if len(invoker.calls) != 1 || invoker.calls[0] != "clean" {
		t.Fatalf("broken fixture must not reach the invoker: %v", invoker.calls)
	}
	if results.AllMatched() {
		t.Fatalf("run with a load failure cannot be all-matched")
	}
}

func TestRunInvocationFailureDoesNotAbortRun(t *testing.T) {
	root := t.TempDir()
	fixturesRoot := filepath.Join(root, "fixtures")
	writeFixtureDir(t, fixturesRoot, "first", "expectation_kind: compile_ok\n")
	writeFixtureDir(t, fixturesRoot, "second", "expectation_kind: compile_ok\n")

	invoker := &fakeInvoker{
		results: map[string]toolchain.InvokeResult{
			"second": {Build: toolchain.RawOutput{ExitCode: 0}},
		},
		errs: map[string]error{
			"first": &toolchain.InvocationError{Fixture: "first", Command: "cargo"},
		},
	}

	results, err := Run(testutil.Context(t, 0), testConfig(1), RunParams{
		Root: root,
		Deps: fixedDeps(invoker),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if results.Fixtures[0].Matched {
		t.Fatalf("failed invocation should yield mismatch")
	}
	if !results.Fixtures[1].Matched {
		t.Fatalf("second fixture should still be evaluated: %+v", results.Fixtures[1])
	}
}

func TestRunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	fixturesRoot := filepath.Join(root, "fixtures")
	writeFixtureDir(t, fixturesRoot, "alpha", "expectation_kind: compile_ok\n")
	writeFixtureDir(t, fixturesRoot, "beta", "expectation_kind: lint_warnings\nlint_codes: [dead_code]\n")

	invoke := func() Results {
		invoker := &fakeInvoker{
			results: map[string]toolchain.InvokeResult{
				"alpha": {Build: toolchain.RawOutput{ExitCode: 0}},
				"beta":  {Build: toolchain.RawOutput{ExitCode: 0, Stdout: `{"reason":"compiler-message","message":{"level":"warning","code":{"code":"dead_code"},"message":"unused","spans":[]}}` + "\n"}},
			},
		}
		results, err := Run(testutil.Context(t, 0), testConfig(2), RunParams{
			Root: root,
			Deps: fixedDeps(invoker),
		})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return results
	}

	first, _ := json.Marshal(invoke())
	second, _ := json.Marshal(invoke())
	if string(first) != string(second) {
		t.Fatalf("runs differ:\n%s\n%s", first, second)
	}
}

// clockAdvancingInvoker moves a fake clock forward on every invocation
// so recorded durations are deterministic.
type clockAdvancingInvoker struct {
	fakeInvoker
	clock *testutil.FakeClock
	step  time.Duration
}

func (c *clockAdvancingInvoker) Invoke(ctx context.Context, fx fixture.Fixture) (toolchain.InvokeResult, error) {
	c.clock.Advance(c.step)
	return c.fakeInvoker.Invoke(ctx, fx)
}

func TestRunRecordsFixtureDurations(t *testing.T) {
	root := t.TempDir()
	fixturesRoot := filepath.Join(root, "fixtures")
	writeFixtureDir(t, fixturesRoot, "alpha", "expectation_kind: compile_ok\n")

	clock := testutil.NewFakeClock(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))
	invoker := &clockAdvancingInvoker{
		fakeInvoker: fakeInvoker{
			results: map[string]toolchain.InvokeResult{
				"alpha": {Build: toolchain.RawOutput{ExitCode: 0}},
			},
		},
		clock: clock,
		step:  150 * time.Millisecond,
	}
	deps := fixedDeps(invoker)
	deps.Now = clock.Now

	results, err := Run(testutil.Context(t, 0), testConfig(1), RunParams{
		Root: root,
		Deps: deps,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := results.Fixtures[0].DurationSeconds; got != 0.15 {
		t.Fatalf("expected duration 0.15s, got %v", got)
	}
	if !results.FinishedAt.After(results.StartedAt) {
		t.Fatalf("finish time %v not after start %v", results.FinishedAt, results.StartedAt)
	}
}

func TestRunCancelledStillReports(t *testing.T) {
	root := t.TempDir()
	fixturesRoot := filepath.Join(root, "fixtures")
	writeFixtureDir(t, fixturesRoot, "alpha", "expectation_kind: compile_ok\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	invoker := &fakeInvoker{}
	results, err := Run(ctx, testConfig(1), RunParams{
		Root: root,
		Deps: fixedDeps(invoker),
	})
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
	if len(results.Fixtures) != 1 || results.Fixtures[0].Matched {
		t.Fatalf("cancelled run should report failed fixtures: %+v", results.Fixtures)
	}
}

func TestRunAndWriteProducesResultsFile(t *testing.T) {
	root := t.TempDir()
	fixturesRoot := filepath.Join(root, "fixtures")
	writeFixtureDir(t, fixturesRoot, "alpha", "expectation_kind: compile_ok\n")

	invoker := &fakeInvoker{
		results: map[string]toolchain.InvokeResult{
			"alpha": {Build: toolchain.RawOutput{ExitCode: 0}},
		},
	}

	results, paths, err := RunAndWrite(testutil.Context(t, 0), testConfig(1), RunParams{
		Root: root,
		Deps: fixedDeps(invoker),
	})
	if err != nil {
		t.Fatalf("run and write: %v", err)
	}
	payload, err := os.ReadFile(paths.ResultsPath())
	if err != nil {
		t.Fatalf("read results.json: %v", err)
	}
	var decoded Results
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode results.json: %v", err)
	}
	if decoded.RunID != results.RunID || len(decoded.Fixtures) != 1 {
		t.Fatalf("results.json does not round-trip: %+v", decoded)
	}
}
