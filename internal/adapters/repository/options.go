package repository

import "time"

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *SnapshotStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithHistory keeps the last n superseded snapshots for Previous.
func WithHistory(n int) Option {
	return func(s *SnapshotStore) {
		if n >= 0 {
			s.historySize = n
		}
	}
}
