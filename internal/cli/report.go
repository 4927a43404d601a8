package cli

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"fixbench/internal/config"
	"fixbench/internal/report"
)

// runReport builds the handler for the report command. It re-renders the
// HTML report from a stored results.json.
func runReport(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file (default: search for .fixbench.yml)")
		runRef := fs.String("run", "latest", "Run ID or \"latest\"")
		htmlPath := fs.String("html", "", "Report destination (default: report.html in the run directory)")
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

		outputDir := cfg.OutputDir
		if !filepath.IsAbs(outputDir) {
			outputDir = filepath.Join(config.RootFromConfigPath(resolvedConfig), outputDir)
		}

		results, runDir, err := report.ResolveRun(outputDir, *runRef)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to resolve run: %v\n", err)
			return ExitError
		}

		destination := *htmlPath
		if destination == "" {
			destination = filepath.Join(runDir, "report.html")
		}
		if err := report.WriteHTML(destination, results); err != nil {
			fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
			return ExitError
		}

		fmt.Fprintf(stdout, "Report for run %s written to %s\n", results.RunID, destination)
		return ExitOK
	}
}
