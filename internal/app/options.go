package service

import (
	"github.com/okian/scoutmap/internal/domain/cluster"
	"github.com/okian/scoutmap/internal/domain/model"
	"github.com/okian/scoutmap/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataPath sets the CSV file loaded on Start.
func WithDataPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataPath = path
		}
	}
}

// WithPlayers supplies the population directly instead of loading a file.
func WithPlayers(players []*model.Player) Option {
	return func(s *Service) {
		if len(players) > 0 {
			s.players = players
		}
	}
}

// WithQueueSize sets the maximum number of pending recluster jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many recluster request ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithProjectionMinPopulation sets the minimum eligible players for a projection.
func WithProjectionMinPopulation(n int) Option {
	return func(s *Service) {
		if n >= 2 {
			s.minPopulation = n
		}
	}
}

// WithProjectionSeed fixes the projection and layout randomness. Zero keeps
// it seeded from the clock.
func WithProjectionSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithMaxFinderLimit caps the number of players a finder query may return.
func WithMaxFinderLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxFinderLimit = n
		}
	}
}

// WithEngine overrides the clustering engine.
func WithEngine(e *cluster.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
