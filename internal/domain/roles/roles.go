// Package roles splits outfield players into attack, midfield and defense
// groups before clustering.
package roles

import (
	"slices"
	"strings"

	"github.com/okian/scoutmap/internal/domain/features"
)

// Role is a positional bucket.
type Role int

// Roles in cluster-id order.
const (
	Attack Role = iota
	Midfield
	Defense
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case Attack:
		return "attack"
	case Midfield:
		return "midfield"
	case Defense:
		return "defense"
	default:
		return "unknown"
	}
}

// Position tables. Attack is consulted before midfield, so LM and RM land in
// attack.
var (
	AttackPositions   = []string{"ST", "CF", "LW", "RW", "LM", "RM", "SS", "LF", "RF"}
	MidfieldPositions = []string{"CAM", "CM", "CDM", "LAM", "RAM", "RM", "LM"}
	DefensePositions  = []string{"CB", "LB", "RB", "LWB", "RWB", "SW"}
)

// Fallback composites for position codes missing from the tables. Each is a
// unit-weight sum of standardized attributes.
var (
	AttackComposite   = []string{"SHO", "DRI", "PAC"}
	MidfieldComposite = []string{"PAS", "DRI"}
	DefenseComposite  = []string{"DEF", "Standing Tackle", "Interceptions"}
)

// Groups holds ascending row indices per role.
type Groups struct {
	Attack   []int
	Midfield []int
	Defense  []int
}

// Of returns the member list for r.
func (g Groups) Of(r Role) []int {
	switch r {
	case Attack:
		return g.Attack
	case Midfield:
		return g.Midfield
	default:
		return g.Defense
	}
}

// Len returns the total number of grouped rows.
func (g Groups) Len() int {
	return len(g.Attack) + len(g.Midfield) + len(g.Defense)
}

// Lookup resolves a position code through the static tables.
func Lookup(position string) (Role, bool) {
	pos := strings.ToUpper(strings.TrimSpace(position))
	switch {
	case slices.Contains(AttackPositions, pos):
		return Attack, true
	case slices.Contains(MidfieldPositions, pos):
		return Midfield, true
	case slices.Contains(DefensePositions, pos):
		return Defense, true
	}
	return Attack, false
}

// Heuristic picks a role from the standardized row when the position code is
// unknown. Ties go attack, then defense, then midfield.
func Heuristic(row []float64, ix features.Index) Role {
	atk := ix.Sum(row, AttackComposite...)
	mid := ix.Sum(row, MidfieldComposite...)
	def := ix.Sum(row, DefenseComposite...)
	switch {
	case atk >= mid && atk >= def:
		return Attack
	case def >= atk && def >= mid:
		return Defense
	default:
		return Midfield
	}
}

// Classify resolves one row: table lookup first, composite heuristic second.
func Classify(position string, row []float64, ix features.Index) Role {
	if r, ok := Lookup(position); ok {
		return r
	}
	return Heuristic(row, ix)
}

// Partition assigns every row of z to exactly one group. positions[i] is the
// position code of row i.
func Partition(z features.Matrix, positions []string, ix features.Index) Groups {
	var g Groups
	for i, row := range z {
		pos := ""
		if i < len(positions) {
			pos = positions[i]
		}
		switch Classify(pos, row, ix) {
		case Attack:
			g.Attack = append(g.Attack, i)
		case Midfield:
			g.Midfield = append(g.Midfield, i)
		case Defense:
			g.Defense = append(g.Defense, i)
		}
	}
	return g
}
