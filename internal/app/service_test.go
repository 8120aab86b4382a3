package service_test

import (
	"context"
	"errors"
	"testing"

	service "github.com/okian/scoutmap/internal/app"
	"github.com/okian/scoutmap/internal/adapters/repository"
	"github.com/okian/scoutmap/internal/domain/cluster"
	"github.com/okian/scoutmap/internal/domain/filter"
	"github.com/okian/scoutmap/internal/domain/finder"
	"github.com/okian/scoutmap/internal/domain/model"
	"github.com/okian/scoutmap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it reports defaults and is not started", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["queueSize"], ShouldEqual, 16)
			So(stats["dedupeSize"], ShouldEqual, 4096)
			So(stats["minPopulation"], ShouldEqual, 20)
		})

		Convey("And reads fail until a snapshot exists", func() {
			_, err := svc.Clusters(context.Background())
			So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)
		})

		Convey("And recluster is rejected", func() {
			_, err := svc.Recluster(context.Background(), filter.Criteria{}, "", false)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})

	Convey("Given custom options", t, func() {
		svc := service.New(
			service.WithQueueSize(4),
			service.WithDedupeSize(8),
			service.WithProjectionMinPopulation(1),
		)

		Convey("Then valid values apply and invalid ones are ignored", func() {
			stats := svc.GetStats()
			So(stats["queueSize"], ShouldEqual, 4)
			So(stats["dedupeSize"], ShouldEqual, 8)
			So(stats["minPopulation"], ShouldEqual, 20)
		})
	})
}

func TestService_StartWithoutPlayers(t *testing.T) {
	Convey("Given a service with neither players nor a data path", t, func() {
		svc := service.New()

		Convey("Then Start fails with ErrNoPlayers", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, service.ErrNoPlayers), ShouldBeTrue)
		})
	})

	Convey("Given a data path that does not exist", t, func() {
		svc := service.New(service.WithDataPath("testdata/missing.csv"))

		Convey("Then Start reports the load error", func() {
			err := svc.Start(context.Background())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "load players")
		})
	})
}

func TestService_Compute(t *testing.T) {
	Convey("Given a service over a synthetic squad", t, func() {
		players := squad(120, 3)
		svc := service.New(service.WithPlayers(players), service.WithProjectionSeed(11))
		ctx := context.Background()

		Convey("When computing the unfiltered population", func() {
			snap, err := svc.Compute(ctx, filter.Criteria{}, true)
			So(err, ShouldBeNil)

			Convey("Then every player is clustered on a copy", func() {
				So(len(snap.Players), ShouldEqual, len(players))
				total := 0
				for _, n := range snap.Sizes {
					total += n
				}
				So(total, ShouldEqual, len(players))
				for _, p := range players {
					So(p.ClusterID, ShouldEqual, model.Unassigned)
				}
				for _, p := range snap.Players {
					So(p.IsGoalkeeper(), ShouldEqual, p.ClusterID == cluster.Goalkeepers)
				}
			})

			Convey("And the projection is available", func() {
				So(snap.Projection, ShouldNotBeNil)
				So(snap.Projection.Available, ShouldBeTrue)
				So(len(snap.Projection.Points), ShouldEqual, len(players))
			})
		})

		Convey("When computing a filtered population", func() {
			snap, err := svc.Compute(ctx, filter.Criteria{Gender: "M", Nation: "cote divoire"}, false)
			So(err, ShouldBeNil)

			Convey("Then only matching players are clustered", func() {
				So(len(snap.Players), ShouldBeGreaterThan, 0)
				for _, p := range snap.Players {
					So(p.Gender, ShouldEqual, "M")
					So(p.Nation, ShouldEqual, "Côte d'Ivoire")
				}
				So(snap.Projection, ShouldBeNil)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Compute(cctx, filter.Criteria{}, false)

			Convey("Then the context error is returned", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestService_Reads(t *testing.T) {
	Convey("Given a started service", t, func() {
		players := squad(120, 5)
		svc := service.New(
			service.WithPlayers(players),
			service.WithProjectionSeed(17),
			service.WithMaxFinderLimit(10),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the cluster view lists seven sized clusters", func() {
			view, err := svc.Clusters(ctx)
			So(err, ShouldBeNil)
			So(view.Population, ShouldEqual, len(players))
			So(len(view.Clusters), ShouldEqual, cluster.Count)
			for i, c := range view.Clusters {
				So(c.Index, ShouldEqual, i)
				So(c.Size, ShouldEqual, view.Sizes[i])
			}
			So(view.Clusters[cluster.Goalkeepers].Size, ShouldEqual, 12)
		})

		Convey("Then players are looked up by id", func() {
			p, err := svc.Player(ctx, "p-000")
			So(err, ShouldBeNil)
			So(p.ClusterID, ShouldEqual, cluster.Goalkeepers)

			_, err = svc.Player(ctx, "nobody")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("Then the per-cluster ranking is capped and ordered", func() {
			entries, err := svc.TopByOVR(ctx, cluster.Goalkeepers, 100)
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 10)
			for i := 1; i < len(entries); i++ {
				So(entries[i-1].OVR, ShouldBeGreaterThanOrEqualTo, entries[i].OVR)
			}
		})

		Convey("Then finder queries respect the limit cap", func() {
			q := finder.Query{MinOVR: finder.LowestOVR, Limit: 50}
			found, err := svc.Find(ctx, q)
			So(err, ShouldBeNil)
			So(len(found), ShouldEqual, 10)
		})

		Convey("Then the summary covers the whole population or one cluster", func() {
			all, err := svc.Summary(ctx, nil)
			So(err, ShouldBeNil)
			So(all.Count, ShouldEqual, len(players))

			gk := cluster.Goalkeepers
			one, err := svc.Summary(ctx, &gk)
			So(err, ShouldBeNil)
			So(one.Count, ShouldEqual, 12)
		})

		Convey("Then the projection comes with a radial layout", func() {
			view, err := svc.Projection(ctx)
			So(err, ShouldBeNil)
			So(view.Projection.Available, ShouldBeTrue)
			So(len(view.Layout.Placements), ShouldEqual, len(players))
			for _, pl := range view.Layout.Placements {
				So(pl.Radius, ShouldBeBetweenOrEqual, 0, 1)
			}
		})

		Convey("Then stats expose the snapshot", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["population"], ShouldEqual, len(players))
			So(stats["snapshotId"], ShouldNotBeEmpty)
			_, hasPrevious := stats["previousSnapshotId"]
			So(hasPrevious, ShouldBeFalse)
		})
	})
}
