package config

import "fixbench/internal/spec"

// Defaults applied by Normalize when the config leaves a field unset.
const (
	DefaultWorkers        = 1
	DefaultTimeoutSeconds = 120
	DefaultMatchPolicy    = "superset"
)

func Normalize(cfg *spec.Config) {
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.MatchPolicy == "" {
		cfg.MatchPolicy = DefaultMatchPolicy
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
}
