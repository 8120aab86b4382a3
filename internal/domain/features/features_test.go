package features_test

import (
	"testing"

	"github.com/okian/scoutmap/internal/domain/features"
	"github.com/okian/scoutmap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func player(attrs map[string]any) *model.Player {
	p := model.NewPlayer("")
	for k, v := range attrs {
		p.Attrs[k] = v
	}
	return p
}

func TestBuildMatrix(t *testing.T) {
	Convey("Given players with mixed attribute values", t, func() {
		players := []*model.Player{
			player(map[string]any{"A": 1.0, "B": "2"}),
			player(map[string]any{"A": "n/a", "B": nil}),
			player(map[string]any{"A": 3}),
		}

		Convey("When building a matrix", func() {
			x := features.BuildMatrix(players, []string{"A", "B"})

			Convey("Then every row is kept and bad values become zero", func() {
				So(x.Rows(), ShouldEqual, 3)
				So(x.Cols(), ShouldEqual, 2)
				So(x[0], ShouldResemble, []float64{1, 2})
				So(x[1], ShouldResemble, []float64{0, 0})
				So(x[2], ShouldResemble, []float64{3, 0})
			})
		})

		Convey("When the population is empty", func() {
			x := features.BuildMatrix(nil, []string{"A"})

			Convey("Then it returns nothing", func() {
				So(x, ShouldBeNil)
				So(x.Cols(), ShouldEqual, 0)
			})
		})
	})
}

func TestStandardize(t *testing.T) {
	Convey("Given a matrix with a varying and a constant column", t, func() {
		x := features.Matrix{
			{10, 70},
			{20, 70},
			{30, 70},
			{40, 70},
		}

		Convey("When standardizing", func() {
			z, st := features.Standardize(x)

			Convey("Then the varying column has mean 0 and population std 1", func() {
				var sum, sq float64
				for _, row := range z {
					sum += row[0]
				}
				mean := sum / float64(len(z))
				for _, row := range z {
					sq += (row[0] - mean) * (row[0] - mean)
				}
				So(mean, ShouldAlmostEqual, 0, 1e-12)
				So(sq/float64(len(z)), ShouldAlmostEqual, 1, 1e-12)
				So(st.Mean[0], ShouldEqual, 25)
			})

			Convey("And the constant column collapses to zero", func() {
				for _, row := range z {
					So(row[1], ShouldEqual, 0)
				}
				So(st.Std[1], ShouldEqual, 1)
			})

			Convey("And the input is left untouched", func() {
				So(x[0][0], ShouldEqual, 10)
			})
		})
	})

	Convey("Given an empty matrix", t, func() {
		z, st := features.Standardize(nil)
		So(z, ShouldBeNil)
		So(st.Mean, ShouldBeNil)
	})
}

func TestIndex(t *testing.T) {
	Convey("Given an attribute index", t, func() {
		ix := features.NewIndex([]string{"SHO", "DRI", "PAC"})
		row := []float64{1, 2, 3}

		So(ix.Get(row, "DRI"), ShouldEqual, 2)
		So(ix.Get(row, "missing"), ShouldEqual, 0)
		So(ix.Sum(row, "SHO", "PAC", "missing"), ShouldEqual, 4)
	})
}
