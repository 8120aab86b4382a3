package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/scoutmap/internal/domain/cluster"
	"github.com/okian/scoutmap/internal/domain/model"
)

func annotated(id, name string, clusterID int, ovr float64) *model.Player {
	p := model.NewPlayer(id)
	p.Name = name
	p.ClusterID = clusterID
	p.Attrs["OVR"] = ovr
	return p
}

func fixture() *Snapshot {
	return &Snapshot{
		ID: "snap-1",
		Players: []*model.Player{
			annotated("a", "Alpha", cluster.TechnicalFinishers, 90),
			annotated("b", "Bravo", cluster.TechnicalFinishers, 85),
			annotated("c", "Charlie", cluster.TechnicalFinishers, 90),
			annotated("d", "Delta", cluster.TechnicalFinishers, 80),
			annotated("g", "Golf", cluster.Goalkeepers, 70),
		},
		Sizes: [cluster.Count]int{1, 4},
	}
}

func TestSnapshotStore_Empty(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()

	if _, err := store.Current(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
	if _, err := store.Player(ctx, "a"); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
	if _, err := store.ClusterSizes(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
	if _, ok := store.Previous(); ok {
		t.Fatal("expected no previous snapshot")
	}
}

func TestSnapshotStore_PublishAndRead(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store := NewSnapshotStore(WithClock(func() time.Time { return fixed }))

	snap := store.Publish(ctx, fixture())
	if !snap.CreatedAt.Equal(fixed) {
		t.Errorf("expected CreatedAt %v, got %v", fixed, snap.CreatedAt)
	}

	cur, err := store.Current(ctx)
	if err != nil || cur.ID != "snap-1" {
		t.Fatalf("unexpected current snapshot %v, %v", cur, err)
	}

	p, err := store.Player(ctx, "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Charlie" {
		t.Errorf("expected Charlie, got %s", p.Name)
	}
	if _, err := store.Player(ctx, "zz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	sizes, err := store.ClusterSizes(ctx)
	if err != nil || sizes[cluster.TechnicalFinishers] != 4 {
		t.Errorf("unexpected sizes %v, %v", sizes, err)
	}
}

func TestSnapshotStore_TopByOVR(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()
	store.Publish(ctx, fixture())

	top, err := store.TopByOVR(ctx, cluster.TechnicalFinishers, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []struct {
		id   string
		rank int
	}{{"a", 1}, {"c", 1}, {"b", 2}, {"d", 3}}
	if len(top) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(top))
	}
	for i, w := range want {
		if top[i].PlayerID != w.id || top[i].Rank != w.rank {
			t.Errorf("entry %d: expected %s rank %d, got %s rank %d", i, w.id, w.rank, top[i].PlayerID, top[i].Rank)
		}
	}

	top, err = store.TopByOVR(ctx, cluster.TechnicalFinishers, 2)
	if err != nil || len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d (%v)", len(top), err)
	}
	top[0].Name = "mutated"
	again, _ := store.TopByOVR(ctx, cluster.TechnicalFinishers, 1)
	if again[0].Name != "Alpha" {
		t.Error("TopByOVR must return a copy")
	}

	empty, err := store.TopByOVR(ctx, cluster.TackleSpecialists, 5)
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty cluster, got %v (%v)", empty, err)
	}

	if _, err := store.TopByOVR(ctx, cluster.Goalkeepers, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := store.TopByOVR(ctx, cluster.Count, 1); !errors.Is(err, ErrInvalidCluster) {
		t.Errorf("expected ErrInvalidCluster, got %v", err)
	}
}

func TestSnapshotStore_History(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore(WithHistory(1))

	first := store.Publish(ctx, &Snapshot{ID: "one"})
	store.Publish(ctx, &Snapshot{ID: "two"})
	store.Publish(ctx, &Snapshot{ID: "three"})

	prev, ok := store.Previous()
	if !ok || prev.ID != "two" {
		t.Fatalf("expected previous snapshot two, got %v", prev)
	}
	if first.ID != "one" {
		t.Error("published snapshots must not change")
	}
}

func TestSnapshotStore_ConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()
	store.Publish(ctx, fixture())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := store.TopByOVR(ctx, cluster.TechnicalFinishers, 3); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		store.Publish(ctx, fixture())
	}
	wg.Wait()
}
