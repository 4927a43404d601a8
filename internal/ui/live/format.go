package live

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"fixbench/internal/runner"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatDuration renders a rounded duration for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	return duration.Round(100 * time.Millisecond).String()
}

// statusLabel maps status codes to display labels.
func statusLabel(status runner.FixtureEventType) string {
	switch status {
	case runner.FixtureQueued:
		return "queued"
	case runner.FixtureRunning:
		return "running"
	case runner.FixtureMatched:
		return "matched"
	case runner.FixtureMismatched:
		return "mismatched"
	case runner.FixtureFailed:
		return "failed"
	default:
		return string(status)
	}
}

// stylizeStatus colors terminal statuses.
func stylizeStatus(text string, status runner.FixtureEventType, noColor bool) string {
	if noColor {
		return text
	}
	var color lipgloss.Color
	switch status {
	case runner.FixtureMatched:
		color = lipgloss.Color("35")
	case runner.FixtureMismatched, runner.FixtureFailed:
		color = lipgloss.Color("160")
	case runner.FixtureRunning:
		color = lipgloss.Color("33")
	default:
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// formatRowDuration renders elapsed or final duration for a row.
func formatRowDuration(row FixtureRow, now time.Time) string {
	if isTerminalStatus(row.Status) {
		return formatDuration(row.Duration)
	}
	if row.Status == runner.FixtureRunning && !row.StartedAt.IsZero() {
		return formatDuration(now.Sub(row.StartedAt))
	}
	return ""
}

// formatMismatches renders the mismatch column for a row.
func formatMismatches(row FixtureRow) string {
	if row.Error != "" {
		return row.Error
	}
	if !isTerminalStatus(row.Status) {
		return ""
	}
	return fmtInt(row.Mismatches)
}
