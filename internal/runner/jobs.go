package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"fixbench/internal/diagnose"
	"fixbench/internal/toolchain"
	"fixbench/internal/verdict"
)

// fixtureJobDeps bundles dependencies for executing a single fixture job.
type fixtureJobDeps struct {
	invoker       Invoker
	policy        verdict.MatchPolicy
	fixtureTotal  int
	verbose       bool
	verboseWriter io.Writer
	noColor       bool
	observer      RunObserver
	now           func() time.Time
}

// fixtureJobResult captures the outcome of one fixture evaluation job.
type fixtureJobResult struct {
	index  int
	result FixtureResult
}

// runFixtureJobsSequential evaluates fixtures one at a time.
func runFixtureJobsSequential(ctx context.Context, units []plannedFixture, deps fixtureJobDeps) []FixtureResult {
	results := make([]FixtureResult, 0, len(units))
	for index, unit := range units {
		jobResult := executeFixtureJob(ctx, deps, index, unit)
		results = append(results, jobResult.result)
	}
	return results
}

// runFixtureJobsConcurrent evaluates fixtures on a bounded worker pool and
// preserves load ordering in the returned slice.
func runFixtureJobsConcurrent(ctx context.Context, units []plannedFixture, workers int, deps fixtureJobDeps) []FixtureResult {
	results := make([]FixtureResult, len(units))
	resultCh := make(chan fixtureJobResult, len(units))
	sem := make(chan struct{}, workers)

	for index, unit := range units {
		idx := index
		item := unit
		go func() {
			sem <- struct{}{}
			defer func() { <-sem }()
			resultCh <- executeFixtureJob(ctx, deps, idx, item)
		}()
	}

	for i := 0; i < len(units); i++ {
		jobResult := <-resultCh
		results[jobResult.index] = jobResult.result
	}
	return results
}

// executeFixtureJob runs a single fixture through invoke, parse, and
// evaluate, and returns its outcome.
func executeFixtureJob(ctx context.Context, deps fixtureJobDeps, index int, unit plannedFixture) fixtureJobResult {
	if unit.loadErr != nil {
		return failedJob(deps, index, unit.name, 0, unit.loadErr)
	}
	if err := ctx.Err(); err != nil {
		return failedJob(deps, index, unit.name, 0, fmt.Errorf("run cancelled: %w", err))
	}

	logVerbose(deps.verbose, deps.verboseWriter, deps.noColor, styleFixture,
		"Fixture %s %d/%d kind=%s", unit.name, index+1, deps.fixtureTotal, unit.fx.Manifest.Kind)
	emitEvent(deps, FixtureEvent{Fixture: unit.name, Index: index, Type: FixtureRunning})

	start := deps.now()
	invokeResult, err := deps.invoker.Invoke(ctx, unit.fx)
	duration := deps.now().Sub(start)
	if err != nil {
		return failedJob(deps, index, unit.name, duration, err)
	}

	diags, stats := parseBuildOutput(invokeResult.Build)
	var outcomes []diagnose.TestOutcome
	if invokeResult.Test != nil {
		testOutcomes, testStats := diagnose.ParseTestOutput(invokeResult.Test.Stdout)
		outcomes = testOutcomes
		stats.UnparsedLines += testStats.UnparsedLines
	}

	v := verdict.Evaluate(verdict.Input{
		Fixture:     unit.fx,
		ExitCode:    invokeResult.Build.ExitCode,
		Diagnostics: diags,
		Tests:       outcomes,
		Unparsed:    stats.UnparsedLines,
		Policy:      deps.policy,
	})

	eventType := FixtureMatched
	style := styleMatched
	if !v.Matched {
		eventType = FixtureMismatched
		style = styleError
	}
	logVerbose(deps.verbose, deps.verboseWriter, deps.noColor, style,
		"Fixture %s matched=%t mismatches=%d duration=%s", unit.name, v.Matched, len(v.Mismatches), duration.Round(time.Millisecond))
	emitEvent(deps, FixtureEvent{
		Fixture:    unit.name,
		Index:      index,
		Type:       eventType,
		Mismatches: len(v.Mismatches),
		Duration:   duration,
	})

	return fixtureJobResult{
		index: index,
		result: FixtureResult{
			Fixture:         unit.name,
			Matched:         v.Matched,
			Mismatches:      v.Mismatches,
			DurationSeconds: duration.Seconds(),
			UnparsedLines:   stats.UnparsedLines,
		},
	}
}

// failedJob builds the result for a fixture whose pipeline failed before a
// verdict could be evaluated. The run keeps going; the failure becomes the
// fixture's verdict.
func failedJob(deps fixtureJobDeps, index int, name string, duration time.Duration, err error) fixtureJobResult {
	logVerbose(deps.verbose, deps.verboseWriter, deps.noColor, styleError,
		"Fixture %s failed: %v", name, err)
	emitEvent(deps, FixtureEvent{
		Fixture:  name,
		Index:    index,
		Type:     FixtureFailed,
		Duration: duration,
		Error:    err.Error(),
	})
	v := verdict.Failure(name, err)
	return fixtureJobResult{
		index: index,
		result: FixtureResult{
			Fixture:         name,
			Matched:         false,
			Mismatches:      v.Mismatches,
			DurationSeconds: duration.Seconds(),
		},
	}
}

// parseBuildOutput extracts diagnostics from a build or lint invocation.
// Machine-readable JSON on stdout is preferred; when it yields nothing the
// human-readable stderr form is tried.
func parseBuildOutput(out toolchain.RawOutput) ([]diagnose.Diagnostic, diagnose.Stats) {
	diags, stats := diagnose.ParseMessages(out.Stdout)
	if len(diags) == 0 && out.Stderr != "" {
		humanDiags, humanStats := diagnose.ParseHuman(out.Stderr)
		if len(humanDiags) > 0 {
			return humanDiags, humanStats
		}
	}
	return diags, stats
}

// emitEvent forwards an event to the observer when one is attached.
func emitEvent(deps fixtureJobDeps, event FixtureEvent) {
	if deps.observer == nil {
		return
	}
	event.EmittedAt = deps.now()
	deps.observer.OnFixtureEvent(event)
}
