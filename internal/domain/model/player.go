// Package model contains domain models passed between layers.
package model

import (
	"math"
	"strconv"
	"strings"
)

// Unassigned marks a player that has not been through a clustering run yet.
const Unassigned = -1

// GoalkeeperPosition is the only position code that maps to cluster 0.
const GoalkeeperPosition = "GK"

// Player is one row of the population. Attrs holds the raw attribute values
// as delivered by ingestion (float64, int, string or nil).
type Player struct {
	ID       string
	Name     string
	Position string
	Nation   string
	Team     string
	Gender   string
	Attrs    map[string]any

	// Annotations written by the clustering engine.
	ClusterID    int
	ClusterLabel string
}

// NewPlayer returns a player with an empty attribute set and no cluster.
func NewPlayer(id string) *Player {
	return &Player{
		ID:        id,
		Attrs:     make(map[string]any),
		ClusterID: Unassigned,
	}
}

// Clone returns a copy that can be annotated independently. The attribute
// map is shared and must be treated as read-only.
func (p *Player) Clone() *Player {
	c := *p
	return &c
}

// IsGoalkeeper reports whether the player's position code is exactly GK.
// Codes are case-sensitive; ingest already trims cells.
func (p *Player) IsGoalkeeper() bool {
	return p.Position == GoalkeeperPosition
}

// Value returns the attribute coerced to a number; anything missing or
// non-numeric reads as 0.
func (p *Player) Value(attr string) float64 {
	v, _ := p.Numeric(attr)
	return v
}

// Numeric returns the attribute as a number and whether it really was one.
func (p *Player) Numeric(attr string) (float64, bool) {
	if p == nil || p.Attrs == nil {
		return 0, false
	}
	return Coerce(p.Attrs[attr])
}

// Number is Numeric without string parsing: only values already stored as
// numbers count.
func (p *Player) Number(attr string) (float64, bool) {
	if p == nil || p.Attrs == nil {
		return 0, false
	}
	if _, isString := p.Attrs[attr].(string); isString {
		return 0, false
	}
	return Coerce(p.Attrs[attr])
}

// Coerce converts a raw attribute value to float64. The bool is false when
// the value is missing, nil, NaN or not a number; the float is then 0.
func Coerce(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// OVR is a shorthand for the overall rating attribute.
func (p *Player) OVR() float64 {
	return p.Value("OVR")
}
