// Package cluster assigns every player to one of seven archetype clusters.
//
// Goalkeepers always form cluster 0. Outfield players are standardized,
// split into attack, midfield and defense, and each group is divided in two
// by a seeded k-means pass. The engine keeps no state between calls.
package cluster

import (
	"github.com/okian/scoutmap/internal/domain/archetype"
	"github.com/okian/scoutmap/internal/domain/features"
	"github.com/okian/scoutmap/internal/domain/kmeans"
	"github.com/okian/scoutmap/internal/domain/model"
	"github.com/okian/scoutmap/internal/domain/roles"
)

// pairing binds a role group to its seed composites and the first of its two
// global ids.
type pairing struct {
	role   roles.Role
	seedA  archetype.Kind
	seedB  archetype.Kind
	baseID int
}

var pairings = []pairing{
	{role: roles.Attack, seedA: archetype.Finisher, seedB: archetype.Dribbler, baseID: TechnicalFinishers},
	{role: roles.Midfield, seedA: archetype.Playmaker, seedB: archetype.Possession, baseID: CreativePlaymakers},
	{role: roles.Defense, seedA: archetype.Physical, seedB: archetype.Tackler, baseID: PhysicalWalls},
}

// Assignment is the per-player outcome, for callers that prefer joining by
// key over reading the annotated records.
type Assignment struct {
	EntityID     string `json:"entity_id"`
	ClusterID    int    `json:"cluster_id"`
	ClusterLabel string `json:"cluster_label"`
}

// Result is the output of one clustering run.
type Result struct {
	Assignments []Assignment
	Meta        []Meta
	Sizes       [Count]int
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithPalette injects the label/color policy.
func WithPalette(p Palette) Option {
	return func(e *Engine) {
		e.palette = p
	}
}

// WithAttributes overrides the ordered clustering attribute set.
func WithAttributes(attrs []string) Option {
	return func(e *Engine) {
		if len(attrs) > 0 {
			e.attrs = append([]string(nil), attrs...)
		}
	}
}

// WithSplitter overrides the per-group k-means.
func WithSplitter(s *kmeans.Splitter) Option {
	return func(e *Engine) {
		if s != nil {
			e.splitter = s
		}
	}
}

// Engine runs the full clustering pipeline.
type Engine struct {
	palette  Palette
	attrs    []string
	splitter *kmeans.Splitter
}

// NewEngine creates an engine with the default policy and options applied.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		palette:  DefaultPalette(),
		attrs:    features.ClusteringAttributes,
		splitter: kmeans.NewSplitter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Palette returns the engine's label/color policy.
func (e *Engine) Palette() Palette {
	return e.palette
}

// Meta returns a freshly built metadata table.
func (e *Engine) Meta() []Meta {
	return e.palette.Table()
}

// Assign clusters players and writes ClusterID/ClusterLabel onto each of
// them. Callers must not run Assign concurrently on the same players.
func (e *Engine) Assign(players []*model.Player) Result {
	res := Result{
		Assignments: make([]Assignment, len(players)),
		Meta:        e.palette.Table(),
	}

	ids := make([]int, len(players))
	outfield := make([]int, 0, len(players))
	for i, p := range players {
		if p.IsGoalkeeper() {
			ids[i] = Goalkeepers
			continue
		}
		outfield = append(outfield, i)
	}

	if len(outfield) > 0 {
		local := e.assignOutfield(players, outfield)
		for k, i := range outfield {
			ids[i] = local[k]
		}
	}

	for i, p := range players {
		id := ids[i]
		label := e.palette.Label(id)
		p.ClusterID = id
		p.ClusterLabel = label
		res.Assignments[i] = Assignment{EntityID: p.ID, ClusterID: id, ClusterLabel: label}
		res.Sizes[id]++
	}
	return res
}

// assignOutfield returns global ids parallel to outfield.
func (e *Engine) assignOutfield(players []*model.Player, outfield []int) []int {
	sub := make([]*model.Player, len(outfield))
	positions := make([]string, len(outfield))
	for k, i := range outfield {
		sub[k] = players[i]
		positions[k] = players[i].Position
	}

	x := features.BuildMatrix(sub, e.attrs)
	z, _ := features.Standardize(x)
	ix := features.NewIndex(e.attrs)

	groups := roles.Partition(z, positions, ix)
	scores := archetype.Score(z, ix)

	out := make([]int, len(outfield))
	for _, pr := range pairings {
		members := groups.Of(pr.role)
		local := e.splitter.Split(z, members, scores.Of(pr.seedA), scores.Of(pr.seedB))
		for k, row := range members {
			out[row] = pr.baseID + local[k]
		}
	}
	return out
}
