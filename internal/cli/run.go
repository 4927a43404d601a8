package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"fixbench/internal/config"
	"fixbench/internal/report"
	"fixbench/internal/runner"
	"fixbench/internal/ui/live"
)

var runAndWrite = runner.RunAndWrite

func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file (default: search for .fixbench.yml)")
		fixturesDir := fs.String("fixtures", "", "Fixtures root directory (overrides config)")
		workers := fs.Int("workers", 0, "Concurrent fixture evaluations (overrides config)")
		timeoutSeconds := fs.Int("timeout", 0, "Per-fixture timeout in seconds (overrides config)")
		uiMode := fs.String("ui", "auto", "UI mode: auto, live, or plain")
		verbose := fs.Bool("verbose", false, "Verbose progress output")
		noColor := fs.Bool("no-color", false, "Disable ANSI colors")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		resolvedConfig, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to locate config: %v\n", err)
			return ExitError
		}
		cfg, err := config.Load(resolvedConfig)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		if *fixturesDir != "" {
			cfg.FixturesDir = *fixturesDir
		}
		if *timeoutSeconds > 0 {
			cfg.TimeoutSeconds = *timeoutSeconds
		}

		decision, err := resolveUIMode(*uiMode, *verbose, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		params := runner.RunParams{
			Root:          config.RootFromConfigPath(resolvedConfig),
			Workers:       *workers,
			Verbose:       *verbose,
			VerboseWriter: stderr,
			NoColor:       *noColor,
		}
		var controller *live.Controller
		if decision.useLive {
			controller = live.Start(stdout, live.Options{NoColor: *noColor})
			params.Observer = controller
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		results, paths, runErr := runAndWrite(ctx, cfg, params)
		if controller != nil {
			controller.Close()
			controller.Wait()
		}
		if runErr != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", runErr)
			return ExitError
		}
		if err := report.WriteHTML(paths.ReportPath(), results); err != nil {
			fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
			return ExitError
		}

		fmt.Fprintf(stdout, "Run %s completed: %d/%d fixtures matched\n",
			results.RunID, results.Summary.Matched, results.Summary.FixturesTotal)
		fmt.Fprintf(stdout, "Results: %s\n", paths.ResultsPath())
		fmt.Fprintf(stdout, "Report: %s\n", paths.ReportPath())
		for _, fixtureResult := range results.Fixtures {
			if fixtureResult.Matched {
				continue
			}
			fmt.Fprintf(stdout, "  %s:\n", fixtureResult.Fixture)
			for _, mismatch := range fixtureResult.Mismatches {
				fmt.Fprintf(stdout, "    - %s\n", mismatch.Detail)
			}
		}
		if !results.AllMatched() {
			return ExitError
		}
		return ExitOK
	}
}
