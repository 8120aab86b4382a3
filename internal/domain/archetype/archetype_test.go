package archetype_test

import (
	"testing"

	"github.com/okian/scoutmap/internal/domain/archetype"
	"github.com/okian/scoutmap/internal/domain/features"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScore(t *testing.T) {
	Convey("Given a standardized matrix over a subset of attributes", t, func() {
		attrs := []string{"SHO", "Finishing", "PHY", "Strength", "DEF"}
		ix := features.NewIndex(attrs)
		z := features.Matrix{
			{1, 2, 0.5, 0.5, -1},
			{-1, -1, 1, 2, 3},
		}

		Convey("When scoring", func() {
			s := archetype.Score(z, ix)

			Convey("Then each composite sums its present attributes", func() {
				So(s.Of(archetype.Finisher), ShouldResemble, []float64{3, -2})
				So(s.Of(archetype.Physical), ShouldResemble, []float64{1, 3})
				So(s.Of(archetype.Tackler), ShouldResemble, []float64{-1, 3})
			})

			Convey("And composites with no present attributes are zero", func() {
				So(s.Of(archetype.Playmaker), ShouldResemble, []float64{0, 0})
			})
		})
	})

	Convey("Given the composite names", t, func() {
		So(archetype.Finisher.String(), ShouldEqual, "finisher")
		So(archetype.Tackler.String(), ShouldEqual, "tackler")
		So(archetype.Kind(42).String(), ShouldEqual, "unknown")
	})

	Convey("Given the weight sets", t, func() {
		for k := archetype.Finisher; k <= archetype.Tackler; k++ {
			n := len(archetype.Weights[k])
			So(n, ShouldBeBetweenOrEqual, 4, 6)
		}
	})
}
