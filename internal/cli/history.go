package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"fixbench/internal/history"
	"fixbench/internal/report"
)

// runHistory builds the handler for the history command: ingest stored
// results into the history database and query recent runs or one
// fixture's verdict history.
func runHistory(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		dbPath := fs.String("db", ".fixbench/history.duckdb", "History database path")
		ingestPath := fs.String("ingest", "", "results.json to ingest")
		last := fs.Int("last", 10, "Number of recent runs to list")
		fixtureName := fs.String("fixture", "", "Show verdict history for one fixture")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		store, err := history.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open history db: %v\n", err)
			return ExitError
		}
		defer store.Close()

		ctx := context.Background()
		if *ingestPath != "" {
			results, err := report.LoadResults(*ingestPath)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to load results: %v\n", err)
				return ExitError
			}
			if err := store.Ingest(ctx, results); err != nil {
				fmt.Fprintf(stderr, "Failed to ingest run: %v\n", err)
				return ExitError
			}
			fmt.Fprintf(stdout, "Ingested run %s\n", results.RunID)
		}

		if *fixtureName != "" {
			records, err := store.FixtureHistory(ctx, *fixtureName, *last)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to query fixture history: %v\n", err)
				return ExitError
			}
			for _, record := range records {
				fmt.Fprintf(stdout, "%s  %s  matched=%t mismatches=%d %.2fs\n",
					record.RunID, record.Fixture, record.Matched, record.MismatchCount, record.DurationSeconds)
			}
			return ExitOK
		}

		runs, err := store.RecentRuns(ctx, *last)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to query runs: %v\n", err)
			return ExitError
		}
		for _, record := range runs {
			fmt.Fprintf(stdout, "%s  %s  %d/%d matched  %s\n",
				record.RunID, record.ToolchainVersion, record.Matched, record.FixturesTotal,
				record.StartedAt.Format("2006-01-02 15:04:05"))
		}
		return ExitOK
	}
}
