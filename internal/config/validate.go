package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fixbench/internal/spec"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// issueCollector accumulates validation issues.
type issueCollector struct {
	issues []Issue
}

// add records a new validation issue.
func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

// result returns a ValidationError when issues are present.
func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// Validate checks a config for correctness and referenced directories.
func Validate(cfg *spec.Config, baseDir string) error {
	collector := &issueCollector{}

	if cfg.Version == 0 {
		collector.add("version", "is required")
	} else if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	if baseDir == "" {
		baseDir = "."
	}

	if strings.TrimSpace(cfg.FixturesDir) == "" {
		collector.add("fixtures_dir", "is required")
	} else {
		fixturesPath := cfg.FixturesDir
		if !filepath.IsAbs(fixturesPath) {
			fixturesPath = filepath.Join(baseDir, fixturesPath)
		}
		if info, err := os.Stat(fixturesPath); err != nil {
			collector.add("fixtures_dir", fmt.Sprintf("%s does not exist", cfg.FixturesDir))
		} else if !info.IsDir() {
			collector.add("fixtures_dir", fmt.Sprintf("%s is not a directory", cfg.FixturesDir))
		}
	}

	if cfg.Workers < 0 {
		collector.add("workers", "must not be negative")
	}
	if cfg.TimeoutSeconds < 0 {
		collector.add("timeout_seconds", "must not be negative")
	}
	switch cfg.MatchPolicy {
	case "", "superset", "exact":
	default:
		collector.add("match_policy", fmt.Sprintf("unsupported policy %q", cfg.MatchPolicy))
	}

	validateCommand(cfg.Toolchain.BuildCmd, "toolchain.build_cmd", collector.add)
	validateCommand(cfg.Toolchain.LintCmd, "toolchain.lint_cmd", collector.add)
	validateCommand(cfg.Toolchain.TestCmd, "toolchain.test_cmd", collector.add)

	return collector.result()
}

// validateCommand checks an override argv; an absent override is fine.
func validateCommand(argv []string, field string, add func(field, message string)) {
	if argv == nil {
		return
	}
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		add(field, "must name an executable")
	}
}
