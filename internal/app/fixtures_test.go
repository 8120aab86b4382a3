package service_test

import (
	"fmt"
	"math/rand"

	"github.com/okian/scoutmap/internal/domain/features"
	"github.com/okian/scoutmap/internal/domain/model"
)

var (
	positions = []string{"GK", "ST", "LW", "CM", "CAM", "CDM", "CB", "LB", "RWB", "LM"}
	nations   = []string{"Brazil", "France", "Côte d'Ivoire", "England"}
)

// squad builds a reproducible population with every clustering attribute set.
func squad(n int, seed int64) []*model.Player {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // fixed seed for reproducible fixtures
	out := make([]*model.Player, n)
	for i := 0; i < n; i++ {
		p := model.NewPlayer(fmt.Sprintf("p-%03d", i))
		p.Name = fmt.Sprintf("Player %03d", i)
		p.Position = positions[i%len(positions)]
		p.Nation = nations[i%len(nations)]
		p.Gender = "M"
		if i%2 == 1 {
			p.Gender = "F"
		}
		for _, a := range features.ClusteringAttributes {
			p.Attrs[a] = float64(30 + rng.Intn(65))
		}
		p.Attrs["OVR"] = float64(45 + rng.Intn(50))
		p.Attrs["Position"] = p.Position
		out[i] = p
	}
	return out
}
