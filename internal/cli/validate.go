package cli

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fixbench/internal/config"
	"fixbench/internal/fixture"
)

// runValidate builds the handler for the validate command. It checks the
// config and then every fixture manifest under the configured root.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .fixbench.yml)")
		if err := flags.Parse(args); err != nil {
			if err == flag.ErrHelp {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		resolvedConfig, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}

		cfg, err := config.Load(resolvedConfig)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%s\n", err.Error())
			return ExitError
		}

		fixturesRoot := cfg.FixturesDir
		if !filepath.IsAbs(fixturesRoot) {
			fixturesRoot = filepath.Join(config.RootFromConfigPath(resolvedConfig), fixturesRoot)
		}
		fixtures, loadFailures, err := fixture.Load(fixturesRoot)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}
		if len(loadFailures) > 0 {
			fmt.Fprintln(stderr, "Validation failed:")
			for _, failure := range loadFailures {
				fmt.Fprintf(stderr, "  %v\n", failure)
			}
			return ExitError
		}

		fmt.Fprintf(stdout, "Config OK, %d fixtures OK\n", len(fixtures))
		return ExitOK
	}
}
