// Package filter narrows a population by gender and nation before it is
// clustered.
package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/okian/scoutmap/internal/domain/model"
)

// AllGenders disables the gender filter.
const AllGenders = "ALL"

// Criteria selects a sub-population. Zero value selects everyone.
type Criteria struct {
	Gender string `json:"gender,omitempty"`
	Nation string `json:"nation,omitempty"`
}

// Key returns a stable string for c, used to identify equivalent requests.
func (c Criteria) Key() string {
	g := strings.ToUpper(strings.TrimSpace(c.Gender))
	if g == "" {
		g = AllGenders
	}
	return "gender=" + g + "|nation=" + NormalizeNation(c.Nation)
}

// IsZero reports whether c selects the whole population.
func (c Criteria) IsZero() bool {
	g := strings.TrimSpace(c.Gender)
	return (g == "" || strings.EqualFold(g, AllGenders)) && strings.TrimSpace(c.Nation) == ""
}

// Apply returns the players matching c. The input slice is not modified and
// the returned slice shares the player pointers.
func Apply(players []*model.Player, c Criteria) []*model.Player {
	base := byGender(players, c.Gender)
	if strings.TrimSpace(c.Nation) == "" {
		return base
	}
	return byNation(base, c.Nation)
}

func byGender(players []*model.Player, gender string) []*model.Player {
	gender = strings.TrimSpace(gender)
	if gender == "" || strings.EqualFold(gender, AllGenders) {
		return players
	}
	out := make([]*model.Player, 0, len(players))
	for _, p := range players {
		if p.Gender == gender {
			out = append(out, p)
		}
	}
	return out
}

// byNation tries an exact normalized match, then a partial one in either
// direction, then falls back to raw equality.
func byNation(players []*model.Player, nation string) []*model.Player {
	want := NormalizeNation(nation)

	exact := make([]*model.Player, 0)
	for _, p := range players {
		if n := NormalizeNation(p.Nation); n != "" && n == want {
			exact = append(exact, p)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	partial := make([]*model.Player, 0)
	if want != "" {
		for _, p := range players {
			n := NormalizeNation(p.Nation)
			if n != "" && (strings.Contains(n, want) || strings.Contains(want, n)) {
				partial = append(partial, p)
			}
		}
	}
	if len(partial) > 0 {
		return partial
	}

	strict := make([]*model.Player, 0)
	for _, p := range players {
		if p.Nation == nation {
			strict = append(strict, p)
		}
	}
	return strict
}

// NormalizeNation folds a country name to lowercase ASCII letters and digits,
// dropping diacritics, punctuation and spaces.
func NormalizeNation(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
