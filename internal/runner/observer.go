package runner

import "time"

// FixtureEventType identifies a fixture status update for observers.
type FixtureEventType string

const (
	// FixtureQueued marks a fixture known but not yet started.
	FixtureQueued FixtureEventType = "queued"
	// FixtureRunning marks a fixture whose toolchain invocation started.
	FixtureRunning FixtureEventType = "running"
	// FixtureMatched marks a fixture whose verdict matched.
	FixtureMatched FixtureEventType = "matched"
	// FixtureMismatched marks a fixture whose verdict did not match.
	FixtureMismatched FixtureEventType = "mismatched"
	// FixtureFailed marks a fixture whose pipeline failed before evaluation.
	FixtureFailed FixtureEventType = "failed"
)

// FixtureEvent carries a single status update for a fixture.
type FixtureEvent struct {
	Fixture    string
	Index      int
	Type       FixtureEventType
	Mismatches int
	Duration   time.Duration
	Error      string
	EmittedAt  time.Time
}

// RunObserver receives run lifecycle events for UI or logging.
type RunObserver interface {
	// OnRunStart signals the start of a run.
	OnRunStart(runID string, fixturesRoot string, total int)
	// OnFixtureEvent delivers a fixture status update.
	OnFixtureEvent(event FixtureEvent)
	// OnRunEnd signals run completion.
	OnRunEnd(results Results)
}
