// Package kmeans implements the deterministic two-way split used inside each
// role group: seeds come from extremal composite scores, then a fixed number
// of Lloyd iterations run over the full standardized rows.
package kmeans

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/okian/scoutmap/internal/domain/features"
)

// DefaultIterations is the fixed Lloyd iteration count. There is no
// convergence check.
const DefaultIterations = 25

// Option applies a configuration option to a Splitter.
type Option func(*Splitter)

// WithIterations overrides the iteration count.
func WithIterations(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.iterations = n
		}
	}
}

// Splitter runs the seeded binary k-means.
type Splitter struct {
	iterations int
}

// NewSplitter creates a splitter with configuration options.
func NewSplitter(opts ...Option) *Splitter {
	s := &Splitter{iterations: DefaultIterations}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seeds picks the two seed rows for members: the best member on scoreA and
// the best on scoreB. When they coincide the runner-up on scoreB is used,
// then any other member, then the same row again for a singleton group.
// Ties always go to the member listed first.
func Seeds(members []int, scoreA, scoreB []float64) (int, int) {
	a := argmax(members, scoreA, -1)
	b := argmax(members, scoreB, -1)
	if a != b {
		return a, b
	}
	if second := argmax(members, scoreB, a); second >= 0 {
		return a, second
	}
	for _, m := range members {
		if m != a {
			return a, m
		}
	}
	return a, a
}

// Split assigns each member a local id 0 or 1. The result is parallel to
// members. An empty group yields nil; a singleton gets 0 without iterating.
func (s *Splitter) Split(z features.Matrix, members []int, scoreA, scoreB []float64) []int {
	switch len(members) {
	case 0:
		return nil
	case 1:
		return []int{0}
	}

	seedA, seedB := Seeds(members, scoreA, scoreB)
	d := len(z[seedA])
	centroids := [2][]float64{
		append([]float64(nil), z[seedA]...),
		append([]float64(nil), z[seedB]...),
	}
	sums := [2][]float64{make([]float64, d), make([]float64, d)}
	diff := make([]float64, d)
	assign := make([]int, len(members))

	for it := 0; it < s.iterations; it++ {
		var counts [2]int
		for c := range sums {
			for j := range sums[c] {
				sums[c][j] = 0
			}
		}

		for k, idx := range members {
			row := z[idx]
			best := 0
			if squaredDistance(diff, row, centroids[1]) < squaredDistance(diff, row, centroids[0]) {
				best = 1
			}
			assign[k] = best
			counts[best]++
			floats.Add(sums[best], row)
		}

		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			floats.ScaleTo(centroids[c], 1/float64(counts[c]), sums[c])
		}
	}
	return assign
}

// squaredDistance returns the squared Euclidean distance between a and b,
// using diff as scratch space of the same length.
func squaredDistance(diff, a, b []float64) float64 {
	floats.SubTo(diff, a, b)
	return floats.Dot(diff, diff)
}

// argmax returns the member with the highest score, skipping exclude.
// It returns -1 when no member qualifies.
func argmax(members []int, scores []float64, exclude int) int {
	best := -1
	bestVal := math.Inf(-1)
	for _, m := range members {
		if m == exclude {
			continue
		}
		v := math.Inf(-1)
		if m < len(scores) {
			v = scores[m]
		}
		if best < 0 || v > bestVal {
			best = m
			bestVal = v
		}
	}
	return best
}
