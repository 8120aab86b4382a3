package kmeans_test

import (
	"testing"

	"github.com/okian/scoutmap/internal/domain/features"
	"github.com/okian/scoutmap/internal/domain/kmeans"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeeds(t *testing.T) {
	Convey("Given a group and two score arrays", t, func() {
		members := []int{1, 3, 4, 6}
		scoreA := []float64{9, 5, 0, 7, 1, 0, 2}
		scoreB := []float64{0, 1, 0, 2, 8, 0, 3}

		Convey("When the best members differ", func() {
			a, b := kmeans.Seeds(members, scoreA, scoreB)
			So(a, ShouldEqual, 3)
			So(b, ShouldEqual, 4)
		})

		Convey("When the best members coincide", func() {
			scoreB := []float64{0, 1, 0, 9, 2, 0, 4}
			a, b := kmeans.Seeds(members, scoreA, scoreB)

			Convey("Then the runner-up on the second score is used", func() {
				So(a, ShouldEqual, 3)
				So(b, ShouldEqual, 6)
			})
		})

		Convey("When scores tie", func() {
			flat := make([]float64, 7)
			a, b := kmeans.Seeds(members, flat, flat)

			Convey("Then the first listed members win", func() {
				So(a, ShouldEqual, 1)
				So(b, ShouldEqual, 3)
			})
		})

		Convey("When the group is a singleton", func() {
			a, b := kmeans.Seeds([]int{4}, scoreA, scoreB)
			So(a, ShouldEqual, 4)
			So(b, ShouldEqual, 4)
		})
	})
}

func TestSplit(t *testing.T) {
	splitter := kmeans.NewSplitter()

	Convey("Given degenerate groups", t, func() {
		z := features.Matrix{{1, 2}}

		So(splitter.Split(z, nil, nil, nil), ShouldBeNil)
		So(splitter.Split(z, []int{0}, []float64{1}, []float64{1}), ShouldResemble, []int{0})
	})

	Convey("Given two well-separated subgroups", t, func() {
		z := features.Matrix{
			{5.0, 5.1, 4.9},
			{-5.0, -4.8, -5.2},
			{5.2, 4.9, 5.0},
			{-4.9, -5.1, -5.0},
			{4.8, 5.0, 5.1},
			{-5.1, -5.0, -4.9},
		}
		members := []int{0, 1, 2, 3, 4, 5}
		// Seeds deliberately sit inside the same subgroup.
		scoreA := []float64{10, 0, 0, 0, 0, 0}
		scoreB := []float64{0, 0, 9, 0, 0, 0}

		Convey("When splitting", func() {
			assign := splitter.Split(z, members, scoreA, scoreB)

			Convey("Then the 2-way split is recovered", func() {
				So(len(assign), ShouldEqual, len(members))
				So(assign[0], ShouldEqual, assign[2])
				So(assign[0], ShouldEqual, assign[4])
				So(assign[1], ShouldEqual, assign[3])
				So(assign[1], ShouldEqual, assign[5])
				So(assign[0], ShouldNotEqual, assign[1])
			})

			Convey("And repeated runs are identical", func() {
				for i := 0; i < 5; i++ {
					So(splitter.Split(z, members, scoreA, scoreB), ShouldResemble, assign)
				}
			})
		})
	})

	Convey("Given a custom iteration count", t, func() {
		z := features.Matrix{{0}, {10}, {1}, {9}}
		s := kmeans.NewSplitter(kmeans.WithIterations(1))
		assign := s.Split(z, []int{0, 1, 2, 3}, []float64{1, 0, 0, 0}, []float64{0, 1, 0, 0})
		So(assign, ShouldResemble, []int{0, 1, 0, 1})
	})

	Convey("Given a member equidistant from both seeds", t, func() {
		z := features.Matrix{{0, 0}, {2, 2}, {1, 1}}
		s := kmeans.NewSplitter(kmeans.WithIterations(1))
		assign := s.Split(z, []int{0, 1, 2}, []float64{1, 0, 0}, []float64{0, 1, 0})

		Convey("Then the tie goes to the first centroid", func() {
			So(assign, ShouldResemble, []int{0, 1, 0})
		})
	})
}
