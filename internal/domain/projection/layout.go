package projection

import (
	"math"
	"math/rand"
)

// JitterSpan is the full width of the random angular offset, in radians.
const JitterSpan = math.Pi / 20

// zeroSpreadRadius is used when every point sits on the origin.
const zeroSpreadRadius = 0.3

// Placement is one point positioned on the radial chart. Radius is
// normalized to [0,1] against the largest magnitude.
type Placement struct {
	EntityID  string  `json:"entity_id"`
	ClusterID int     `json:"cluster_id"`
	Angle     float64 `json:"angle"`
	Radius    float64 `json:"radius"`
}

// ClusterSpread is the largest magnitude seen in one cluster.
type ClusterSpread struct {
	ClusterID    int     `json:"cluster_id"`
	MaxMagnitude float64 `json:"max_magnitude"`
	Points       int     `json:"points"`
}

// RadialLayout is the output of Layout.
type RadialLayout struct {
	Placements   []Placement     `json:"placements"`
	MaxMagnitude float64         `json:"max_magnitude"`
	Clusters     []ClusterSpread `json:"clusters"`
}

// Layout spreads points over k angular sectors, one per cluster id, and
// scales each radius by magnitude. A nil src disables the jitter. Points with
// a cluster id outside [0,k) are dropped.
func Layout(points []Point, k int, src rand.Source) RadialLayout {
	out := RadialLayout{}
	if k <= 0 {
		return out
	}
	var rng *rand.Rand
	if src != nil {
		rng = rand.New(src) //nolint:gosec // layout randomness, not security
	}

	out.Clusters = make([]ClusterSpread, k)
	for c := range out.Clusters {
		out.Clusters[c].ClusterID = c
	}
	for _, p := range points {
		if p.ClusterID < 0 || p.ClusterID >= k {
			continue
		}
		cs := &out.Clusters[p.ClusterID]
		cs.Points++
		cs.MaxMagnitude = math.Max(cs.MaxMagnitude, p.Magnitude)
		out.MaxMagnitude = math.Max(out.MaxMagnitude, p.Magnitude)
	}

	out.Placements = make([]Placement, 0, len(points))
	for _, p := range points {
		if p.ClusterID < 0 || p.ClusterID >= k {
			continue
		}
		angle := 2 * math.Pi * float64(p.ClusterID) / float64(k)
		if rng != nil {
			angle += (rng.Float64() - 0.5) * JitterSpan
		}
		radius := zeroSpreadRadius
		if out.MaxMagnitude > 0 {
			radius = p.Magnitude / out.MaxMagnitude
		}
		out.Placements = append(out.Placements, Placement{
			EntityID:  p.EntityID,
			ClusterID: p.ClusterID,
			Angle:     angle,
			Radius:    radius,
		})
	}
	return out
}
