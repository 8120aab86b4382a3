package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	service "github.com/okian/scoutmap/internal/app"
	"github.com/okian/scoutmap/internal/domain/filter"
	. "github.com/smartystreets/goconvey/convey"
)

// waitForCriteria polls until the published snapshot was built for want.
func waitForCriteria(ctx context.Context, svc *service.Service, want filter.Criteria) (service.ClusterView, bool) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		view, err := svc.Clusters(ctx)
		if err == nil && view.Criteria.Key() == want.Key() {
			return view, true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return service.ClusterView{}, false
}

func TestServiceIntegration_Recluster(t *testing.T) {
	Convey("Given a started service", t, func() {
		players := squad(200, 9)
		svc := service.New(
			service.WithPlayers(players),
			service.WithProjectionSeed(21),
			service.WithQueueSize(8),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		initial, err := svc.Clusters(ctx)
		So(err, ShouldBeNil)
		So(initial.Population, ShouldEqual, 200)

		Convey("When reclustering a filtered population", func() {
			criteria := filter.Criteria{Gender: "M"}
			jobID, err := svc.Recluster(ctx, criteria, "req-1", false)
			So(err, ShouldBeNil)
			So(jobID, ShouldEqual, "req-1")

			view, ok := waitForCriteria(ctx, svc, criteria)

			Convey("Then a new snapshot replaces the first one", func() {
				So(ok, ShouldBeTrue)
				So(view.SnapshotID, ShouldNotEqual, initial.SnapshotID)
				So(view.Population, ShouldEqual, 100)
			})

			Convey("And stats point back at the superseded snapshot", func() {
				So(ok, ShouldBeTrue)
				So(svc.GetStats()["previousSnapshotId"], ShouldEqual, initial.SnapshotID)
			})

			Convey("And the projection is computed on demand", func() {
				So(ok, ShouldBeTrue)
				proj, err := svc.Projection(ctx)
				So(err, ShouldBeNil)
				So(proj.SnapshotID, ShouldEqual, view.SnapshotID)
				So(proj.Projection.Available, ShouldBeTrue)
				So(proj.Projection.Eligible, ShouldEqual, 100)
			})

			Convey("And repeating the request id is rejected", func() {
				_, err := svc.Recluster(ctx, criteria, "req-1", false)
				So(errors.Is(err, service.ErrDuplicateRequest), ShouldBeTrue)
			})
		})

		Convey("When the request id is empty", func() {
			jobID, err := svc.Recluster(ctx, filter.Criteria{Nation: "France"}, "", false)

			Convey("Then a fresh id is generated", func() {
				So(err, ShouldBeNil)
				So(jobID, ShouldNotBeEmpty)
			})
		})

		Convey("When a filter selects nobody", func() {
			criteria := filter.Criteria{Nation: "Atlantis"}
			_, err := svc.Recluster(ctx, criteria, "req-empty", true)
			So(err, ShouldBeNil)
			view, ok := waitForCriteria(ctx, svc, criteria)

			Convey("Then an empty snapshot is published", func() {
				So(ok, ShouldBeTrue)
				So(view.Population, ShouldEqual, 0)
				proj, err := svc.Projection(ctx)
				So(err, ShouldBeNil)
				So(proj.Projection.Available, ShouldBeFalse)
				So(proj.Layout.Placements, ShouldBeEmpty)
			})
		})

		Convey("When many distinct requests race", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			accepted, unexpected := 0, 0
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, err := svc.Recluster(ctx, filter.Criteria{Gender: "F"}, fmt.Sprintf("race-%d", i), false)
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						accepted++
					case !errors.Is(err, service.ErrBackpressure):
						unexpected++
					}
				}(i)
			}
			wg.Wait()

			Convey("Then every request is either accepted or pushed back", func() {
				So(accepted, ShouldBeGreaterThan, 0)
				So(unexpected, ShouldEqual, 0)
				_, ok := waitForCriteria(ctx, svc, filter.Criteria{Gender: "F"})
				So(ok, ShouldBeTrue)
			})
		})
	})
}

func TestServiceIntegration_Stop(t *testing.T) {
	Convey("Given a started then stopped service", t, func() {
		svc := service.New(service.WithPlayers(squad(40, 1)))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		svc.Stop()

		Convey("Then recluster is rejected but reads still work", func() {
			_, err := svc.Recluster(ctx, filter.Criteria{}, "late", false)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			view, err := svc.Clusters(ctx)
			So(err, ShouldBeNil)
			So(view.Population, ShouldEqual, 40)
		})

		Convey("And stopping twice is harmless", func() {
			So(func() { svc.Stop() }, ShouldNotPanic)
		})

		Convey("And the service can be started again", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
		})
	})
}
