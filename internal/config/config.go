// Package config defines service configuration structures and loading hooks.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataPath is the player CSV loaded on start.
	DataPath string `koanf:"data_path"`

	// QueueSize bounds the pending recluster jobs.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize sets how many recluster request ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// ProjectionMinPopulation is the smallest population that gets a projection.
	ProjectionMinPopulation int `koanf:"projection_min_population"`

	// ProjectionSeed fixes projection and layout randomness; 0 uses the clock.
	ProjectionSeed int64 `koanf:"projection_seed"`

	// MaxFinderLimit caps GET /players?limit and GET /clusters/{id}/top?limit.
	MaxFinderLimit int `koanf:"max_finder_limit"`

	// ReclusterRPS and ReclusterBurst size the POST /recluster token bucket.
	ReclusterRPS   float64 `koanf:"recluster_rps"`
	ReclusterBurst int     `koanf:"recluster_burst"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":9080",
		DataPath:                "data/players.csv",
		QueueSize:               16,
		DedupeSize:              4096,
		ProjectionMinPopulation: 20,
		MaxFinderLimit:          50,
		ReclusterRPS:            2,
		ReclusterBurst:          4,
	}
}
