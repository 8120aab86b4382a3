// Package repository holds the published clustering snapshots.
package repository

import (
	"context"
	"time"

	"github.com/okian/scoutmap/internal/domain/cluster"
	"github.com/okian/scoutmap/internal/domain/filter"
	"github.com/okian/scoutmap/internal/domain/model"
	"github.com/okian/scoutmap/internal/domain/projection"
)

// Entry is one row of a per-cluster OVR ranking.
type Entry struct {
	Rank      int     `json:"rank"`
	PlayerID  string  `json:"player_id"`
	Name      string  `json:"name"`
	Position  string  `json:"position"`
	OVR       float64 `json:"ovr"`
	ClusterID int     `json:"cluster_id"`
}

// Snapshot is the immutable result of one clustering run. Players are
// annotated copies owned by the snapshot.
type Snapshot struct {
	ID         string
	CreatedAt  time.Time
	Criteria   filter.Criteria
	Players    []*model.Player
	Meta       []cluster.Meta
	Sizes      [cluster.Count]int
	Projection *projection.Result

	byID   map[string]*model.Player
	ranked [cluster.Count][]Entry
}

// Store provides read/write access to the published snapshot.
type Store interface {
	// Publish replaces the current snapshot.
	Publish(ctx context.Context, snap *Snapshot) *Snapshot

	// Current returns the latest snapshot or ErrNoSnapshot.
	Current(ctx context.Context) (*Snapshot, error)

	// Player returns a player of the current snapshot or ErrNotFound.
	Player(ctx context.Context, id string) (*model.Player, error)

	// TopByOVR returns the best n players of one cluster, ranked with ties.
	TopByOVR(ctx context.Context, clusterID, n int) ([]Entry, error)

	// ClusterSizes returns the member count of every cluster.
	ClusterSizes(ctx context.Context) ([cluster.Count]int, error)
}
