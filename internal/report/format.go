package report

import "fmt"

// formatMatchRate returns a percentage string for report output.
func formatMatchRate(rate float64) string {
	return fmt.Sprintf("%.2f", rate*100)
}

// formatSeconds renders a duration in seconds for report output.
func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.2fs", seconds)
}
