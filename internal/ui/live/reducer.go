package live

import (
	"fmt"

	"fixbench/internal/runner"
)

// Reduce applies a fixture event to the UI state.
func Reduce(state State, event runner.FixtureEvent) State {
	state = ensureRow(state, event)
	state = applyFixtureEvent(state, event)
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// ensureRow grows the state rows to include the target index.
func ensureRow(state State, event runner.FixtureEvent) State {
	if event.Index < 0 {
		return state
	}
	if event.Index < len(state.Rows) {
		return state
	}
	rows := make([]FixtureRow, event.Index+1)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = FixtureRow{Index: i, Status: runner.FixtureQueued}
	}
	state.Rows = rows
	return state
}

// applyFixtureEvent updates a row with the given event.
func applyFixtureEvent(state State, event runner.FixtureEvent) State {
	if event.Index < 0 || event.Index >= len(state.Rows) {
		return state
	}
	row := state.Rows[event.Index]
	if row.Name == "" {
		row.Name = event.Fixture
	}
	row.Status = event.Type
	switch event.Type {
	case runner.FixtureRunning:
		if row.StartedAt.IsZero() {
			row.StartedAt = event.EmittedAt
		}
	case runner.FixtureMatched, runner.FixtureMismatched, runner.FixtureFailed:
		if !event.EmittedAt.IsZero() {
			row.FinishedAt = event.EmittedAt
		}
		row.Duration = event.Duration
		row.Mismatches = event.Mismatches
		row.Error = event.Error
	}
	state.Rows[event.Index] = row
	return state
}

// isTerminalStatus reports whether a status is final.
func isTerminalStatus(status runner.FixtureEventType) bool {
	switch status {
	case runner.FixtureMatched, runner.FixtureMismatched, runner.FixtureFailed:
		return true
	default:
		return false
	}
}

// recount recomputes status counts for the current rows.
func recount(rows []FixtureRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case runner.FixtureQueued:
			counts.Queued++
		case runner.FixtureRunning:
			counts.Running++
		case runner.FixtureMatched:
			counts.Done++
			counts.Matched++
		case runner.FixtureMismatched:
			counts.Done++
			counts.Mismatched++
		case runner.FixtureFailed:
			counts.Done++
			counts.Failed++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event runner.FixtureEvent) string {
	switch event.Type {
	case runner.FixtureMismatched:
		return fmt.Sprintf("%s mismatched (%d mismatches)", event.Fixture, event.Mismatches)
	case runner.FixtureFailed:
		return fmt.Sprintf("%s failed: %s", event.Fixture, event.Error)
	case runner.FixtureMatched:
		return fmt.Sprintf("%s matched in %s", event.Fixture, formatDuration(event.Duration))
	}
	return ""
}
