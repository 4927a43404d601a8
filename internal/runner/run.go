package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fixbench/internal/config"
	"fixbench/internal/fixture"
	"fixbench/internal/spec"
	"fixbench/internal/toolchain"
	"fixbench/internal/verdict"
)

// Run loads every fixture under the configured root, evaluates them on a
// bounded worker pool, and assembles Results in load order. Per-fixture
// failures become failed verdicts; the run itself completes and reports
// unless the context is cancelled, in which case partial results are
// returned alongside the context error.
func Run(ctx context.Context, cfg spec.Config, params RunParams) (Results, error) {
	fixturesRoot := resolvePath(params.Root, cfg.FixturesDir)

	fixtures, loadFailures, err := fixture.Load(fixturesRoot)
	if err != nil {
		return Results{}, err
	}
	units := planUnits(fixtures, loadFailures)

	runID, err := ensureRunID(params.Deps.RunID)
	if err != nil {
		return Results{}, err
	}
	now := params.Deps.Now
	if now == nil {
		now = time.Now
	}
	startedAt := now()

	workers := params.Workers
	if workers <= 0 {
		workers = cfg.Workers
	}
	if workers <= 0 {
		workers = 1
	}

	workDir := params.WorkDir
	if workDir == "" {
		workDir = resolvePath(params.Root, config.DefaultWorkDir)
	}

	invokerFactory := params.Deps.InvokerFactory
	if invokerFactory == nil {
		invokerFactory = func(opts toolchain.Options) Invoker {
			return toolchain.NewInvoker(opts)
		}
	}
	commands := commandsFrom(cfg.Toolchain)
	invoker := invokerFactory(toolchain.Options{
		Commands:       commands,
		WorkRoot:       workDir,
		RunID:          runID,
		Timeout:        time.Duration(cfg.TimeoutSeconds) * time.Second,
		KeepWorkspaces: cfg.KeepWorkspaces,
	})

	if params.Observer != nil {
		params.Observer.OnRunStart(runID, fixturesRoot, len(units))
	}

	deps := fixtureJobDeps{
		invoker:       invoker,
		policy:        verdict.MatchPolicy(cfg.MatchPolicy),
		fixtureTotal:  len(units),
		verbose:       params.Verbose,
		verboseWriter: wrapVerboseWriter(workers, params.VerboseWriter),
		noColor:       params.NoColor,
		observer:      params.Observer,
		now:           now,
	}

	var fixtureResults []FixtureResult
	if workers <= 1 {
		fixtureResults = runFixtureJobsSequential(ctx, units, deps)
	} else {
		fixtureResults = runFixtureJobsConcurrent(ctx, units, workers, deps)
	}

	finishedAt := now()
	results := Results{
		RunID:        runID,
		FixturesRoot: fixturesRoot,
		Toolchain: ToolchainInfo{
			Version:  invoker.Version(ctx),
			BuildCmd: commands.Build,
			LintCmd:  commands.Lint,
			TestCmd:  commands.Test,
		},
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Fixtures:   fixtureResults,
		Summary:    summarize(fixtureResults),
	}
	if params.Observer != nil {
		params.Observer.OnRunEnd(results)
	}
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("run cancelled: %w", err)
	}
	return results, nil
}

// RunAndWrite executes a run and persists results.json under the output dir.
func RunAndWrite(ctx context.Context, cfg spec.Config, params RunParams) (Results, OutputPaths, error) {
	results, runErr := Run(ctx, cfg, params)
	if runErr != nil && results.RunID == "" {
		return Results{}, OutputPaths{}, runErr
	}
	outputDir := resolvePath(params.Root, cfg.OutputDir)
	paths, err := WriteRunOutputs(results, outputDir)
	if err != nil {
		return results, OutputPaths{}, err
	}
	return results, paths, runErr
}

// planUnits merges loaded fixtures and load failures back into one
// lexically ordered work list. Both inputs arrive sorted by name.
func planUnits(fixtures []fixture.Fixture, failures []*fixture.LoadError) []plannedFixture {
	units := make([]plannedFixture, 0, len(fixtures)+len(failures))
	i, j := 0, 0
	for i < len(fixtures) && j < len(failures) {
		if fixtures[i].Name < failures[j].Fixture {
			units = append(units, plannedFixture{name: fixtures[i].Name, fx: fixtures[i]})
			i++
		} else {
			units = append(units, plannedFixture{name: failures[j].Fixture, loadErr: failures[j]})
			j++
		}
	}
	for ; i < len(fixtures); i++ {
		units = append(units, plannedFixture{name: fixtures[i].Name, fx: fixtures[i]})
	}
	for ; j < len(failures); j++ {
		units = append(units, plannedFixture{name: failures[j].Fixture, loadErr: failures[j]})
	}
	return units
}

// commandsFrom applies config overrides on top of the default toolchain.
func commandsFrom(tc spec.ToolchainConfig) toolchain.Commands {
	commands := toolchain.DefaultCommands()
	if len(tc.BuildCmd) > 0 {
		commands.Build = tc.BuildCmd
	}
	if len(tc.LintCmd) > 0 {
		commands.Lint = tc.LintCmd
	}
	if len(tc.TestCmd) > 0 {
		commands.Test = tc.TestCmd
	}
	return commands
}

// ensureRunID produces a run ID from the injected generator or the default.
func ensureRunID(generate func() (string, error)) (string, error) {
	if generate == nil {
		generate = NewRunID
	}
	runID, err := generate()
	if err != nil {
		return "", fmt.Errorf("generate run ID: %w", err)
	}
	return runID, nil
}

// resolvePath joins a relative path onto the project root.
func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if root == "" {
		return path
	}
	return filepath.Join(root, path)
}
