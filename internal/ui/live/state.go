package live

import (
	"time"

	"fixbench/internal/runner"
)

// FixtureRow holds UI state for a single fixture.
type FixtureRow struct {
	Index      int
	Name       string
	Status     runner.FixtureEventType
	Mismatches int
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Error      string
}

// StatusCounts aggregates counts by status bucket.
type StatusCounts struct {
	Queued     int
	Running    int
	Matched    int
	Mismatched int
	Failed     int
	Done       int
}

// State captures the live UI state for a run.
type State struct {
	RunID        string
	FixturesRoot string
	Total        int
	StartedAt    time.Time
	LastEvent    string
	Rows         []FixtureRow
	Counts       StatusCounts
	Finished     bool
	Summary      runner.RunSummary
}
