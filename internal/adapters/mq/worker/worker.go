package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/scoutmap/internal/adapters/mq/queue"
	"github.com/okian/scoutmap/pkg/logger"
	"github.com/okian/scoutmap/pkg/metrics"
)

// Runner executes one recluster job.
type Runner interface {
	RunJob(ctx context.Context, job queue.Job) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs in arrival order.
type Worker interface {
	// Run starts the worker loop until ctx is canceled, the queue closes or
	// Shutdown is called.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight finishes.
	Shutdown(ctx context.Context) error
}

var _ Worker = (*InMemoryWorker)(nil)

// InMemoryWorker implements Worker with a single goroutine, so jobs never
// overlap.
type InMemoryWorker struct {
	queue  Queue
	runner Runner
	name   string
	onDone func(job queue.Job, err error)

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, runner Runner, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		runner:   runner,
		name:     "reclusterer",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			err := w.process(ctx, job)
			if err != nil {
				w.logger.Error(ctx, "recluster job failed",
					logger.String("worker", w.name),
					logger.String("job_id", job.ID),
					logger.Error(err),
				)
			}
			if w.onDone != nil {
				w.onDone(job, err)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out", logger.String("worker", w.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	metrics.UpdateWorkerActive(true)
	defer func() {
		metrics.UpdateWorkerActive(false)
		metrics.RecordWorkerProcessingLatency(time.Since(start))
	}()

	if err := w.runner.RunJob(ctx, job); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "recluster_error")
		return fmt.Errorf("recluster job %s: %w", job.ID, err)
	}
	w.logger.Debug(ctx, "recluster job done",
		logger.String("job_id", job.ID),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}
