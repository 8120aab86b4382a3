package finder

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/scoutmap/internal/domain/model"
)

// SummaryAttributes are compared to find a selection's strongest and weakest
// attribute.
var SummaryAttributes = []string{"PAC", "SHO", "PAS", "DRI", "DEF", "PHY"}

// topN is the length of the nation and position leaderboards.
const topN = 3

// AttrMean is the average of one attribute over a selection.
type AttrMean struct {
	Attr  string  `json:"attr"`
	Value float64 `json:"value"`
}

// Count is a value with how often it occurs.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summary describes a selection of players.
type Summary struct {
	Count        int       `json:"count"`
	AvgOVR       float64   `json:"avg_ovr"`
	AvgTechnical float64   `json:"avg_technical"`
	AvgPhysical  float64   `json:"avg_physical"`
	Strongest    *AttrMean `json:"strongest,omitempty"`
	Weakest      *AttrMean `json:"weakest,omitempty"`
	TopNations   []Count   `json:"top_nations"`
	TopPositions []Count   `json:"top_positions"`
}

// Technical is the mean of passing, dribbling and shooting.
func Technical(p *model.Player) float64 {
	return (p.Value("PAS") + p.Value("DRI") + p.Value("SHO")) / 3
}

// Physical is the mean of physicality, strength and aggression.
func Physical(p *model.Player) float64 {
	return (p.Value("PHY") + p.Value("Strength") + p.Value("Aggression")) / 3
}

// Summarize describes players, restricted to one cluster when clusterID is
// set. Attributes that no selected player has are left out of the
// strongest/weakest comparison.
func Summarize(players []*model.Player, clusterID *int) Summary {
	sel := players
	if clusterID != nil {
		sel = make([]*model.Player, 0, len(players))
		for _, p := range players {
			if p.ClusterID == *clusterID {
				sel = append(sel, p)
			}
		}
	}

	s := Summary{Count: len(sel), TopNations: []Count{}, TopPositions: []Count{}}
	if len(sel) == 0 {
		return s
	}

	ovr := make([]float64, 0, len(sel))
	tech := make([]float64, len(sel))
	phys := make([]float64, len(sel))
	for i, p := range sel {
		if v, ok := p.Numeric("OVR"); ok {
			ovr = append(ovr, v)
		}
		tech[i] = Technical(p)
		phys[i] = Physical(p)
	}
	if len(ovr) > 0 {
		s.AvgOVR = stat.Mean(ovr, nil)
	}
	s.AvgTechnical = stat.Mean(tech, nil)
	s.AvgPhysical = stat.Mean(phys, nil)

	for _, a := range SummaryAttributes {
		vals := make([]float64, 0, len(sel))
		for _, p := range sel {
			if v, ok := p.Numeric(a); ok {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			continue
		}
		m := AttrMean{Attr: a, Value: stat.Mean(vals, nil)}
		if s.Strongest == nil || m.Value >= s.Strongest.Value {
			strongest := m
			s.Strongest = &strongest
		}
		if s.Weakest == nil || m.Value <= s.Weakest.Value {
			weakest := m
			s.Weakest = &weakest
		}
	}

	s.TopNations = top(sel, func(p *model.Player) string { return p.Nation })
	s.TopPositions = top(sel, func(p *model.Player) string { return p.Position })
	return s
}

// top counts non-empty keys and returns the most frequent, earliest seen
// first on ties.
func top(players []*model.Player, key func(*model.Player) string) []Count {
	idx := make(map[string]int)
	counts := make([]Count, 0)
	for _, p := range players {
		k := key(p)
		if k == "" {
			continue
		}
		i, ok := idx[k]
		if !ok {
			i = len(counts)
			idx[k] = i
			counts = append(counts, Count{Value: k})
		}
		counts[i].Count++
	}
	slices.SortStableFunc(counts, func(a, b Count) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(counts) > topN {
		counts = counts[:topN]
	}
	return counts
}
