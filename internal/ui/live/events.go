package live

import "fixbench/internal/runner"

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventRunStart signals the start of a run.
	EventRunStart EventKind = iota
	// EventFixture delivers a fixture status update.
	EventFixture
	// EventRunEnd signals run completion.
	EventRunEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind         EventKind
	RunID        string
	FixturesRoot string
	Total        int
	Fixture      runner.FixtureEvent
	Summary      runner.RunSummary
}
