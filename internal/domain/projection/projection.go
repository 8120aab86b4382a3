// Package projection places players on a 2D plane from the top two principal
// components of a small attribute subset, and lays them out radially by
// cluster.
//
// The power iteration starts from a random vector, so a component may come
// out with its sign flipped between runs. That mirrors the layout and is
// expected.
package projection

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/scoutmap/internal/domain/model"
)

// Default projection configuration constants.
const (
	DefaultIterations    = 50
	DefaultMinPopulation = 20
)

// Attributes is the attribute subset projected onto the principal components.
var Attributes = []string{"PAC", "SHO", "PAS", "DRI", "DEF", "PHY", "OVR"}

// Point is one projected player.
type Point struct {
	EntityID  string        `json:"entity_id"`
	Entity    *model.Player `json:"-"`
	PC1       float64       `json:"pc1"`
	PC2       float64       `json:"pc2"`
	Magnitude float64       `json:"magnitude"`
	ClusterID int           `json:"cluster_id"`
}

// Result is the outcome of a projection request. When Available is false
// there are no points and Reason says why.
type Result struct {
	Available   bool         `json:"available"`
	Reason      string       `json:"reason,omitempty"`
	Eligible    int          `json:"eligible"`
	Points      []Point      `json:"points,omitempty"`
	Components  [2][]float64 `json:"components"`
	Eigenvalues [2]float64   `json:"eigenvalues"`
}

// ReasonInsufficientData is reported when too few players have complete data.
const ReasonInsufficientData = "insufficient data"

// Option applies a configuration option to the Projector.
type Option func(*Projector)

// WithSource fixes the random source for the power-iteration start vectors.
func WithSource(src rand.Source) Option {
	return func(p *Projector) {
		if src != nil {
			p.rng = rand.New(src) //nolint:gosec // layout randomness, not security
		}
	}
}

// WithSeed is WithSource(rand.NewSource(seed)).
func WithSeed(seed int64) Option {
	return WithSource(rand.NewSource(seed))
}

// WithMinPopulation sets the minimum number of eligible players.
func WithMinPopulation(n int) Option {
	return func(p *Projector) {
		if n >= 2 {
			p.minPopulation = n
		}
	}
}

// WithIterations sets the power-iteration count per component.
func WithIterations(n int) Option {
	return func(p *Projector) {
		if n > 0 {
			p.iterations = n
		}
	}
}

// WithAttributes overrides the projected attribute subset.
func WithAttributes(attrs []string) Option {
	return func(p *Projector) {
		if len(attrs) > 0 {
			p.attrs = append([]string(nil), attrs...)
		}
	}
}

// Projector computes principal-component projections. A Projector owns a
// random source and must not be shared between goroutines.
type Projector struct {
	attrs         []string
	iterations    int
	minPopulation int
	rng           *rand.Rand
}

// NewProjector creates a projector seeded from the clock unless a source is
// supplied.
func NewProjector(opts ...Option) *Projector {
	p := &Projector{
		attrs:         Attributes,
		iterations:    DefaultIterations,
		minPopulation: DefaultMinPopulation,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // layout randomness, not security
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Project projects every player with complete numeric data on the projected
// attributes. Cluster ids are copied onto the points for coloring only.
func (p *Projector) Project(players []*model.Player) Result {
	eligible, x := p.eligible(players)
	n, d := len(eligible), len(p.attrs)
	if n < p.minPopulation {
		return Result{Available: false, Reason: ReasonInsufficientData, Eligible: n}
	}

	centered := mat.NewDense(n, d, x)
	means := make([]float64, d)
	for j := 0; j < d; j++ {
		means[j] = stat.Mean(mat.Col(nil, j, centered), nil)
	}
	for i := 0; i < n; i++ {
		row := centered.RawRowView(i)
		floats.Sub(row, means)
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, centered, nil)

	v1, l1 := p.powerIteration(&cov)

	deflated := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			deflated.SetSym(i, j, cov.At(i, j)-l1*v1[i]*v1[j])
		}
	}
	v2, l2 := p.powerIteration(deflated)

	points := make([]Point, n)
	for i, pl := range eligible {
		row := centered.RawRowView(i)
		pc1 := floats.Dot(row, v1)
		pc2 := floats.Dot(row, v2)
		points[i] = Point{
			EntityID:  pl.ID,
			Entity:    pl,
			PC1:       pc1,
			PC2:       pc2,
			Magnitude: math.Hypot(pc1, pc2),
			ClusterID: pl.ClusterID,
		}
	}

	return Result{
		Available:   true,
		Eligible:    n,
		Points:      points,
		Components:  [2][]float64{v1, v2},
		Eigenvalues: [2]float64{l1, l2},
	}
}

// eligible filters players that have every projected attribute stored as a
// number (numeric strings do not count) and returns them with their row-major values.
func (p *Projector) eligible(players []*model.Player) ([]*model.Player, []float64) {
	out := make([]*model.Player, 0, len(players))
	data := make([]float64, 0, len(players)*len(p.attrs))
	row := make([]float64, len(p.attrs))
next:
	for _, pl := range players {
		for j, a := range p.attrs {
			v, ok := pl.Number(a)
			if !ok {
				continue next
			}
			row[j] = v
		}
		out = append(out, pl)
		data = append(data, row...)
	}
	return out, data
}

// powerIteration estimates the dominant eigenvector of a and its Rayleigh
// quotient.
func (p *Projector) powerIteration(a mat.Symmetric) ([]float64, float64) {
	m := a.SymmetricDim()
	v := make([]float64, m)
	for i := range v {
		v[i] = p.rng.Float64()
	}

	av := mat.NewVecDense(m, nil)
	vec := mat.NewVecDense(m, v)
	for it := 0; it < p.iterations; it++ {
		av.MulVec(a, vec)
		norm := floats.Norm(av.RawVector().Data, 2)
		if norm == 0 {
			norm = 1
		}
		floats.ScaleTo(v, 1/norm, av.RawVector().Data)
	}

	av.MulVec(a, vec)
	lambda := floats.Dot(v, av.RawVector().Data)
	return append([]float64(nil), v...), lambda
}
