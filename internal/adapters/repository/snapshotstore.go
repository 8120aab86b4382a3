package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/scoutmap/internal/domain/cluster"
	"github.com/okian/scoutmap/internal/domain/model"
	"github.com/okian/scoutmap/pkg/metrics"
)

var _ Store = (*SnapshotStore)(nil)

// SnapshotStore publishes snapshots through an atomic pointer so readers never
// take a lock. Writers are expected to be serialized by the caller.
type SnapshotStore struct {
	current atomic.Pointer[Snapshot]
	now     func() time.Time

	mu          sync.Mutex
	history     []*Snapshot
	historySize int
}

// NewSnapshotStore constructs an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		now:         time.Now,
		historySize: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish indexes snap, stamps it when CreatedAt is zero and makes it current.
func (s *SnapshotStore) Publish(_ context.Context, snap *Snapshot) *Snapshot {
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = s.now()
	}
	index(snap)

	prev := s.current.Swap(snap)
	if prev != nil && s.historySize > 0 {
		s.mu.Lock()
		s.history = append(s.history, prev)
		if len(s.history) > s.historySize {
			s.history = s.history[len(s.history)-s.historySize:]
		}
		s.mu.Unlock()
	}

	metrics.RecordSnapshotPublished(snap.CreatedAt)
	return snap
}

// Previous returns the most recently superseded snapshot, if any is kept.
func (s *SnapshotStore) Previous() (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return nil, false
	}
	return s.history[len(s.history)-1], true
}

// Current returns the latest snapshot.
func (s *SnapshotStore) Current(_ context.Context) (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Player looks a player up by id in the current snapshot.
func (s *SnapshotStore) Player(ctx context.Context, id string) (*model.Player, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(time.Since(start)) }()

	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := snap.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrNotFound
	}
	return p, nil
}

// TopByOVR returns up to n ranked entries of one cluster.
func (s *SnapshotStore) TopByOVR(ctx context.Context, clusterID, n int) ([]Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(time.Since(start)) }()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	if clusterID < 0 || clusterID >= cluster.Count {
		metrics.RecordErrorByComponent("repository", "invalid_cluster")
		return nil, ErrInvalidCluster
	}
	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	ranked := snap.ranked[clusterID]
	if n > len(ranked) {
		n = len(ranked)
	}
	return slices.Clone(ranked[:n]), nil
}

// ClusterSizes returns the member count of every cluster.
func (s *SnapshotStore) ClusterSizes(ctx context.Context) ([cluster.Count]int, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return [cluster.Count]int{}, err
	}
	return snap.Sizes, nil
}

// index builds the id lookup and the per-cluster rankings.
func index(snap *Snapshot) {
	snap.byID = make(map[string]*model.Player, len(snap.Players))
	for i := range snap.ranked {
		snap.ranked[i] = nil
	}
	for _, p := range snap.Players {
		snap.byID[p.ID] = p
		if p.ClusterID < 0 || p.ClusterID >= cluster.Count {
			continue
		}
		snap.ranked[p.ClusterID] = append(snap.ranked[p.ClusterID], Entry{
			PlayerID:  p.ID,
			Name:      p.Name,
			Position:  p.Position,
			OVR:       p.OVR(),
			ClusterID: p.ClusterID,
		})
	}
	for i := range snap.ranked {
		sortEntries(snap.ranked[i])
		assignRanksWithTies(snap.ranked[i])
	}
}

// sortEntries orders entries by OVR descending, then name and id ascending.
func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		switch {
		case a.OVR > b.OVR:
			return -1
		case a.OVR < b.OVR:
			return 1
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.PlayerID, b.PlayerID)
	})
}

// assignRanksWithTies gives equal OVRs the same rank. Ranks are dense: the
// rank after a tie is the next integer.
func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].OVR != entries[i-1].OVR {
			rank++
		}
		entries[i].Rank = rank
	}
}
