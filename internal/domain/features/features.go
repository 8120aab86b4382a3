// Package features builds numeric attribute matrices from players and
// standardizes them column by column.
package features

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/scoutmap/internal/domain/model"
)

// ClusteringAttributes is the ordered attribute set used for segmentation.
// Position is a string column; it coerces to zero everywhere and therefore
// standardizes to zero.
var ClusteringAttributes = []string{
	"PAC", "SHO", "PAS", "DRI", "DEF", "PHY",
	"Acceleration", "Sprint Speed", "Positioning", "Finishing", "Shot Power",
	"Long Shots", "Volleys", "Penalties", "Vision", "Crossing",
	"Free Kick Accuracy", "Short Passing", "Long Passing", "Curve", "Dribbling",
	"Agility", "Balance", "Reactions", "Ball Control", "Composure",
	"Interceptions", "Heading Accuracy", "Def Awareness", "Standing Tackle",
	"Sliding Tackle", "Jumping", "Stamina", "Strength", "Aggression", "Position",
}

// Matrix is a dense n×d row-major attribute matrix.
type Matrix [][]float64

// Rows returns n.
func (m Matrix) Rows() int { return len(m) }

// Cols returns d, or 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Index maps an attribute name to its column.
type Index map[string]int

// NewIndex builds a name → column lookup for attrs.
func NewIndex(attrs []string) Index {
	idx := make(Index, len(attrs))
	for i, a := range attrs {
		if _, dup := idx[a]; !dup {
			idx[a] = i
		}
	}
	return idx
}

// Get returns row[attr], or 0 when the attribute is not a column.
func (ix Index) Get(row []float64, attr string) float64 {
	j, ok := ix[attr]
	if !ok || j >= len(row) {
		return 0
	}
	return row[j]
}

// Sum adds up row values for the given attributes with unit weight.
func (ix Index) Sum(row []float64, attrs ...string) float64 {
	var s float64
	for _, a := range attrs {
		s += ix.Get(row, a)
	}
	return s
}

// BuildMatrix extracts attrs from every player. Missing, nil or non-numeric
// values become 0. An empty population or attribute list yields nil.
func BuildMatrix(players []*model.Player, attrs []string) Matrix {
	if len(players) == 0 || len(attrs) == 0 {
		return nil
	}
	x := make(Matrix, len(players))
	for i, p := range players {
		row := make([]float64, len(attrs))
		for j, a := range attrs {
			row[j] = p.Value(a)
		}
		x[i] = row
	}
	return x
}

// Stats holds the per-column parameters of one standardization pass.
type Stats struct {
	Mean []float64
	Std  []float64
}

// Standardize z-scores every column of x using the population standard
// deviation. A zero-variance column is divided by 1 instead, so it collapses
// to 0. The input is not modified.
func Standardize(x Matrix) (Matrix, Stats) {
	n, d := x.Rows(), x.Cols()
	if n == 0 || d == 0 {
		return nil, Stats{}
	}

	st := Stats{Mean: make([]float64, d), Std: make([]float64, d)}
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			col[i] = x[i][j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		st.Mean[j] = mean
		st.Std[j] = std
	}

	z := make(Matrix, n)
	for i := 0; i < n; i++ {
		row := make([]float64, d)
		for j := 0; j < d; j++ {
			row[j] = (x[i][j] - st.Mean[j]) / st.Std[j]
		}
		z[i] = row
	}
	return z, st
}
