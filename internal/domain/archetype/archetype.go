// Package archetype computes the composite scores that seed clustering.
package archetype

import "github.com/okian/scoutmap/internal/domain/features"

// Kind names one composite score.
type Kind int

// The six outfield archetype composites.
const (
	Finisher Kind = iota
	Dribbler
	Playmaker
	Possession
	Physical
	Tackler
	numKinds
)

var kindNames = [numKinds]string{"finisher", "dribbler", "playmaker", "possession", "physical", "tackler"}

// String returns the composite name.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Weights lists the unit-weight attributes behind each composite.
var Weights = [numKinds][]string{
	Finisher:   {"SHO", "Finishing", "Shot Power", "Long Shots", "Volleys", "Penalties"},
	Dribbler:   {"DRI", "Dribbling", "Agility", "Ball Control", "Balance", "Curve"},
	Playmaker:  {"PAS", "Vision", "Short Passing", "Long Passing", "Ball Control", "Composure"},
	Possession: {"PAS", "Composure", "Short Passing", "Ball Control", "Reactions"},
	Physical:   {"PHY", "Strength", "Jumping", "Stamina", "Heading Accuracy"},
	Tackler:    {"DEF", "Standing Tackle", "Sliding Tackle", "Interceptions", "Def Awareness"},
}

// Scores holds one n-length score vector per composite.
type Scores [numKinds][]float64

// Of returns the score vector for k.
func (s *Scores) Of(k Kind) []float64 {
	return s[k]
}

// Score computes all six composites for every row of z. Attributes that are
// not columns of z contribute nothing.
func Score(z features.Matrix, ix features.Index) Scores {
	var s Scores
	for k := range s {
		s[k] = make([]float64, len(z))
	}
	for i, row := range z {
		for k, attrs := range Weights {
			s[k][i] = ix.Sum(row, attrs...)
		}
	}
	return s
}
