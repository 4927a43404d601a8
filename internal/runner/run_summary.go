package runner

// summarize aggregates fixture results into a run summary.
func summarize(fixtures []FixtureResult) RunSummary {
	summary := RunSummary{
		FixturesTotal: len(fixtures),
	}
	for _, result := range fixtures {
		if result.Matched {
			summary.Matched++
		} else {
			summary.Mismatched++
		}
	}
	if summary.FixturesTotal > 0 {
		summary.MatchRate = float64(summary.Matched) / float64(summary.FixturesTotal)
	}
	return summary
}
