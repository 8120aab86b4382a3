// Package finder answers scouting queries over an already clustered
// population.
package finder

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/okian/scoutmap/internal/domain/model"
)

// Default query bounds.
const (
	DefaultLimit  = 5
	DefaultMinOVR = 80
	DefaultMaxOVR = 99
	LowestOVR     = 40
	HighestOVR    = 99
)

// Role narrows a query to a family of positions.
type Role string

// Supported role filters.
const (
	AnyRole     Role = "any"
	AttackRole  Role = "attack"
	MidRole     Role = "midfield"
	DefenceRole Role = "defence"
)

// Position lists used by the role filter. Unlike the clustering role tables,
// LM and RM count only as attackers and SS, LF and RF are not listed.
var (
	AttackPositions  = []string{"ST", "CF", "LW", "RW", "LM", "RM"}
	MidPositions     = []string{"CAM", "CM", "CDM", "LAM", "RAM"}
	DefencePositions = []string{"CB", "LB", "RB", "LWB", "RWB", "SW"}
)

// ParseRole maps user input to a Role. Unknown values mean AnyRole.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "attack", "att":
		return AttackRole
	case "midfield", "mid":
		return MidRole
	case "defence", "defense", "def":
		return DefenceRole
	default:
		return AnyRole
	}
}

func (r Role) positions() []string {
	switch r {
	case AttackRole:
		return AttackPositions
	case MidRole:
		return MidPositions
	case DefenceRole:
		return DefencePositions
	default:
		return nil
	}
}

// Query describes a finder request. A zero MaxOVR means no upper bound and a
// nil ClusterID means any cluster.
type Query struct {
	MinOVR    float64
	MaxOVR    float64
	Role      Role
	ClusterID *int
	Name      string
	Limit     int
}

// DefaultQuery returns the query used when a caller sets nothing.
func DefaultQuery() Query {
	return Query{MinOVR: DefaultMinOVR, MaxOVR: DefaultMaxOVR, Role: AnyRole, Limit: DefaultLimit}
}

// Clamp pins both OVR bounds into [LowestOVR, HighestOVR].
func (q Query) Clamp() Query {
	q.MinOVR = math.Max(LowestOVR, math.Min(HighestOVR, q.MinOVR))
	q.MaxOVR = math.Max(LowestOVR, math.Min(HighestOVR, q.MaxOVR))
	return q
}

// Match reports whether p satisfies every filter in q.
func (q Query) Match(p *model.Player) bool {
	ovr := p.OVR()
	if ovr < q.MinOVR {
		return false
	}
	if q.MaxOVR > 0 && ovr > q.MaxOVR {
		return false
	}
	if pos := q.Role.positions(); pos != nil && !slices.Contains(pos, p.Position) {
		return false
	}
	if q.ClusterID != nil && p.ClusterID != *q.ClusterID {
		return false
	}
	if q.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(strings.TrimSpace(q.Name))) {
		return false
	}
	return true
}

// Find returns the best matches for q, highest OVR first and then by name.
func Find(players []*model.Player, q Query) []*model.Player {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	out := make([]*model.Player, 0, limit)
	for _, p := range players {
		if q.Match(p) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b *model.Player) int {
		if c := cmp.Compare(b.OVR(), a.OVR()); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
