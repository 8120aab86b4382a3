// Package worker runs recluster jobs one at a time.
package worker

import (
	"github.com/okian/scoutmap/internal/adapters/mq/queue"
	"github.com/okian/scoutmap/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithOnDone registers a callback invoked after every job with its outcome.
func WithOnDone(fn func(job queue.Job, err error)) Option {
	return func(w *InMemoryWorker) {
		w.onDone = fn
	}
}
