// Package service wires loading, clustering, projection and the recluster
// pipeline behind the methods the HTTP API needs.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scoutmap/internal/adapters/ingest"
	"github.com/okian/scoutmap/internal/adapters/mq/queue"
	"github.com/okian/scoutmap/internal/adapters/mq/worker"
	"github.com/okian/scoutmap/internal/adapters/repository"
	"github.com/okian/scoutmap/internal/domain/cluster"
	"github.com/okian/scoutmap/internal/domain/dedupe"
	"github.com/okian/scoutmap/internal/domain/filter"
	"github.com/okian/scoutmap/internal/domain/finder"
	"github.com/okian/scoutmap/internal/domain/model"
	"github.com/okian/scoutmap/internal/domain/projection"
	"github.com/okian/scoutmap/pkg/logger"
	"github.com/okian/scoutmap/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize      = 16
	defaultDedupeSize     = 4096
	defaultMaxFinderLimit = 50
	snapshotHistory       = 1
	shutdownTimeout       = 10 * time.Second
)

// InitialJobID identifies the synchronous clustering run done by Start.
const InitialJobID = "initial"

// ClusterView is the legend and size table of the current snapshot.
type ClusterView struct {
	SnapshotID string             `json:"snapshot_id"`
	CreatedAt  time.Time          `json:"created_at"`
	Criteria   filter.Criteria    `json:"criteria"`
	Population int                `json:"population"`
	Clusters   []ClusterSize      `json:"clusters"`
	Sizes      [cluster.Count]int `json:"-"`
}

// ClusterSize is one legend row with its member count.
type ClusterSize struct {
	cluster.Meta
	Size int `json:"size"`
}

// ProjectionView is a projection with its radial layout.
type ProjectionView struct {
	SnapshotID string                  `json:"snapshot_id"`
	Projection projection.Result       `json:"projection"`
	Layout     projection.RadialLayout `json:"layout"`
}

var _ worker.Runner = (*Service)(nil)

// Service implements the API dependencies for the cluster explorer.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine  *cluster.Engine
	store   *repository.SnapshotStore
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	worker  *worker.InMemoryWorker

	// Population
	dataPath string
	players  []*model.Player

	// Configuration
	queueSize      int
	dedupeSize     int
	minPopulation  int
	seed           int64
	maxFinderLimit int

	// State
	started bool
	cancel  context.CancelFunc

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:         cluster.NewEngine(),
		store:          repository.NewSnapshotStore(repository.WithHistory(snapshotHistory)),
		queueSize:      defaultQueueSize,
		dedupeSize:     defaultDedupeSize,
		minPopulation:  projection.DefaultMinPopulation,
		maxFinderLimit: defaultMaxFinderLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start loads the population, publishes the first snapshot and starts the
// recluster worker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting scoutmap service...")

	if err := s.loadLocked(ctx); err != nil {
		return err
	}

	if _, err := s.publish(ctx, queue.Job{ID: InitialJobID, Projection: true}); err != nil {
		return fmt.Errorf("initial clustering: %w", err)
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.worker = worker.NewInMemoryWorker(s.queue, s,
		worker.WithLogger(s.logger.Named("worker")),
	)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.worker.Run(runCtx)

	s.started = true
	s.logger.Info(ctx, "scoutmap service started",
		logger.Int("players", len(s.players)),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

func (s *Service) loadLocked(ctx context.Context) error {
	if len(s.players) > 0 {
		metrics.UpdatePlayersLoaded(len(s.players))
		return nil
	}
	if s.dataPath == "" {
		return ErrNoPlayers
	}
	players, rep, err := ingest.LoadFile(s.dataPath)
	if err != nil {
		metrics.RecordErrorByComponent("ingest", "load_failed")
		return fmt.Errorf("load players: %w", err)
	}
	if rep.Skipped > 0 {
		s.logger.Warn(ctx, "skipped malformed rows",
			logger.String("path", s.dataPath),
			logger.Int("skipped", rep.Skipped),
		)
	}
	s.players = players
	metrics.UpdatePlayersLoaded(len(players))
	s.logger.Info(ctx, "players loaded", logger.String("path", s.dataPath), logger.Int("count", len(players)))
	return nil
}

// Stop gracefully shuts down the worker and the queue.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping scoutmap service...")

	_ = s.queue.Close()
	sctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.worker.Shutdown(sctx); err != nil {
		s.logger.Warn(ctx, "worker shutdown", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "scoutmap service stopped")
}

// Compute clusters the population selected by criteria without publishing
// it. Players are cloned, so published snapshots are never mutated.
func (s *Service) Compute(ctx context.Context, criteria filter.Criteria, withProjection bool) (*repository.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	selected := filter.Apply(s.population(), criteria)
	players := make([]*model.Player, len(selected))
	for i, p := range selected {
		players[i] = p.Clone()
	}

	res := s.engine.Assign(players)
	metrics.RecordClusteringRun(time.Since(start))

	snap := &repository.Snapshot{
		ID:       uuid.NewString(),
		Criteria: criteria,
		Players:  players,
		Meta:     res.Meta,
		Sizes:    res.Sizes,
	}
	if withProjection {
		p := s.project(players)
		snap.Projection = &p
	}
	return snap, nil
}

func (s *Service) population() []*model.Player {
	return s.players
}

func (s *Service) project(players []*model.Player) projection.Result {
	opts := []projection.Option{projection.WithMinPopulation(s.minPopulation)}
	if s.seed != 0 {
		opts = append(opts, projection.WithSeed(s.seed))
	}
	start := time.Now()
	res := projection.NewProjector(opts...).Project(players)
	if res.Available {
		metrics.RecordProjection(time.Since(start))
	} else {
		metrics.RecordProjectionSkipped()
	}
	return res
}

// publish computes and publishes the snapshot for job.
func (s *Service) publish(ctx context.Context, job queue.Job) (*repository.Snapshot, error) { //nolint:gocritic // hugeParam: Job is a value type
	snap, err := s.Compute(ctx, job.Criteria, job.Projection)
	if err != nil {
		metrics.RecordClusteringError()
		return nil, err
	}
	if len(snap.Players) == 0 {
		s.logger.Warn(ctx, "filter selected no players", logger.String("criteria", job.Criteria.Key()))
	}
	s.store.Publish(ctx, snap)

	metrics.UpdatePopulationSize(len(snap.Players))
	for _, m := range snap.Meta {
		metrics.UpdateClusterSize(m.Index, m.Label, snap.Sizes[m.Index])
	}
	s.logger.Info(ctx, "snapshot published",
		logger.String("job_id", job.ID),
		logger.String("snapshot_id", snap.ID),
		logger.String("criteria", job.Criteria.Key()),
		logger.Int("population", len(snap.Players)),
		logger.Bool("projection", snap.Projection != nil && snap.Projection.Available),
	)
	return snap, nil
}

// RunJob implements worker.Runner.
func (s *Service) RunJob(ctx context.Context, job queue.Job) error { //nolint:gocritic // hugeParam: Job is a value type
	_, err := s.publish(ctx, job)
	return err
}

// Recluster asks for the population selected by criteria to be clustered
// again. requestID makes the call idempotent; an empty id gets a fresh one.
// The returned job id is the request id.
func (s *Service) Recluster(ctx context.Context, criteria filter.Criteria, requestID string, withProjection bool) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return "", ErrNotStarted
	}

	if requestID == "" {
		requestID = uuid.NewString()
	}
	if s.deduper.SeenAndRecord(ctx, requestID) {
		metrics.RecordReclusterDuplicate()
		return requestID, ErrDuplicateRequest
	}

	err := s.queue.Enqueue(ctx, queue.Job{ID: requestID, Criteria: criteria, Projection: withProjection})
	if err != nil {
		s.deduper.Unrecord(ctx, requestID)
		if errors.Is(err, queue.ErrFull) {
			metrics.RecordReclusterRejected("queue_full")
			return requestID, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		metrics.RecordReclusterRejected("enqueue_failed")
		return requestID, err
	}

	metrics.RecordReclusterRequest()
	s.logger.Debug(ctx, "recluster queued",
		logger.String("job_id", requestID),
		logger.String("criteria", criteria.Key()),
	)
	return requestID, nil
}

// Clusters returns the legend and sizes of the current snapshot.
func (s *Service) Clusters(ctx context.Context) (ClusterView, error) {
	snap, err := s.store.Current(ctx)
	if err != nil {
		return ClusterView{}, err
	}
	view := ClusterView{
		SnapshotID: snap.ID,
		CreatedAt:  snap.CreatedAt,
		Criteria:   snap.Criteria,
		Population: len(snap.Players),
		Clusters:   make([]ClusterSize, len(snap.Meta)),
		Sizes:      snap.Sizes,
	}
	for i, m := range snap.Meta {
		view.Clusters[i] = ClusterSize{Meta: m, Size: snap.Sizes[m.Index]}
	}
	return view, nil
}

// Player returns one clustered player of the current snapshot.
func (s *Service) Player(ctx context.Context, id string) (*model.Player, error) {
	return s.store.Player(ctx, id)
}

// TopByOVR returns the best n players of one cluster.
func (s *Service) TopByOVR(ctx context.Context, clusterID, n int) ([]repository.Entry, error) {
	if n > s.maxFinderLimit {
		n = s.maxFinderLimit
	}
	return s.store.TopByOVR(ctx, clusterID, n)
}

// Find runs a finder query over the current snapshot.
func (s *Service) Find(ctx context.Context, q finder.Query) ([]*model.Player, error) {
	snap, err := s.store.Current(ctx)
	if err != nil {
		return nil, err
	}
	if q.Limit > s.maxFinderLimit {
		q.Limit = s.maxFinderLimit
	}
	return finder.Find(snap.Players, q), nil
}

// Summary describes the current snapshot, or one of its clusters.
func (s *Service) Summary(ctx context.Context, clusterID *int) (finder.Summary, error) {
	snap, err := s.store.Current(ctx)
	if err != nil {
		return finder.Summary{}, err
	}
	return finder.Summarize(snap.Players, clusterID), nil
}

// Projection returns the projection of the current snapshot, computing it
// when the snapshot was published without one.
func (s *Service) Projection(ctx context.Context) (ProjectionView, error) {
	snap, err := s.store.Current(ctx)
	if err != nil {
		return ProjectionView{}, err
	}
	var res projection.Result
	if snap.Projection != nil {
		res = *snap.Projection
	} else {
		res = s.project(snap.Players)
	}

	view := ProjectionView{SnapshotID: snap.ID, Projection: res}
	if res.Available {
		view.Layout = projection.Layout(res.Points, cluster.Count, s.jitterSource())
	}
	return view, nil
}

func (s *Service) jitterSource() rand.Source {
	if s.seed != 0 {
		return rand.NewSource(s.seed)
	}
	return rand.NewSource(time.Now().UnixNano())
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"players":       len(s.players),
		"queueSize":     s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"minPopulation": s.minPopulation,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
	}
	if snap, err := s.store.Current(ctx); err == nil {
		stats["snapshotId"] = snap.ID
		stats["snapshotCreatedAt"] = snap.CreatedAt
		stats["population"] = len(snap.Players)
		stats["clusterSizes"] = snap.Sizes
	}
	if prev, ok := s.store.Previous(); ok {
		stats["previousSnapshotId"] = prev.ID
	}
	return stats
}
