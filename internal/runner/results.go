package runner

import (
	"time"

	"fixbench/internal/verdict"
)

type Results struct {
	RunID        string          `json:"run_id"`
	FixturesRoot string          `json:"fixtures_root"`
	Toolchain    ToolchainInfo   `json:"toolchain"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   time.Time       `json:"finished_at"`
	Fixtures     []FixtureResult `json:"fixtures"`
	Summary      RunSummary      `json:"summary"`
}

type ToolchainInfo struct {
	Version  string   `json:"version"`
	BuildCmd []string `json:"build_cmd"`
	LintCmd  []string `json:"lint_cmd"`
	TestCmd  []string `json:"test_cmd"`
}

type FixtureResult struct {
	Fixture         string             `json:"fixture"`
	Matched         bool               `json:"matched"`
	Mismatches      []verdict.Mismatch `json:"mismatches"`
	DurationSeconds float64            `json:"duration_seconds"`
	UnparsedLines   int                `json:"unparsed_lines"`
}

type RunSummary struct {
	FixturesTotal int     `json:"fixtures_total"`
	Matched       int     `json:"matched"`
	Mismatched    int     `json:"mismatched"`
	MatchRate     float64 `json:"match_rate"`
}

// AllMatched reports whether every fixture in the run matched.
func (r Results) AllMatched() bool {
	return r.Summary.Mismatched == 0
}
