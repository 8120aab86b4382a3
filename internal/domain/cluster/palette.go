package cluster

import "fmt"

// Global cluster ids.
const (
	Goalkeepers = iota
	TechnicalFinishers
	FlashyDribblers
	CreativePlaymakers
	PossessionControllers
	PhysicalWalls
	TackleSpecialists

	// Count is the fixed number of clusters.
	Count
)

// Meta describes one cluster for legends and palettes.
type Meta struct {
	Index int    `json:"index"`
	Color string `json:"color"`
	Label string `json:"label"`
}

// Palette is the static label/color policy, indexed by cluster id.
type Palette struct {
	Labels [Count]string
	Colors [Count]string
}

// DefaultPalette returns the built-in label and color assignments.
func DefaultPalette() Palette {
	return Palette{
		Labels: [Count]string{
			"Goalkeepers",
			"Technical Finishers",
			"Flashy Dribblers",
			"Creative Playmakers",
			"Possession Controllers",
			"Physical Walls",
			"Tackle Specialists",
		},
		Colors: [Count]string{
			"#fbbf24",
			"#5ca3efff",
			"#005ab9ff",
			"#2dd4bf",
			"#009176ff",
			"#e969d2ff",
			"#c4007cff",
		},
	}
}

// Label returns the label for id, falling back to "C<id+1>" when the policy
// leaves it blank.
func (p Palette) Label(id int) string {
	if id >= 0 && id < Count && p.Labels[id] != "" {
		return p.Labels[id]
	}
	return fmt.Sprintf("C%d", id+1)
}

// Color returns the color for id, or "" when out of range.
func (p Palette) Color(id int) string {
	if id < 0 || id >= Count {
		return ""
	}
	return p.Colors[id]
}

// Table materializes the ordered metadata table, ascending by id.
func (p Palette) Table() []Meta {
	out := make([]Meta, Count)
	for i := 0; i < Count; i++ {
		out[i] = Meta{Index: i, Color: p.Color(i), Label: p.Label(i)}
	}
	return out
}
