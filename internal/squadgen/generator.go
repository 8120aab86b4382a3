// Package squadgen generates reproducible synthetic player populations for
// demos, fixtures and load tests.
package squadgen

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/okian/scoutmap/internal/domain/features"
	"github.com/okian/scoutmap/internal/domain/model"
	"github.com/okian/scoutmap/pkg/logger"
)

// Positions is the position pool, weighted roughly like a real squad.
var Positions = []string{
	"GK", "CB", "CB", "LB", "RB", "LWB", "RWB",
	"CDM", "CM", "CM", "CAM", "LM", "RM",
	"ST", "ST", "CF", "LW", "RW",
}

// Performance tiers for OVR.
const (
	caseAveragePerformer = iota
	caseHighPerformer
	caseLowPerformer
	caseElitePerformer
	tierCount
)

// skew lists attributes boosted for a position family.
var skew = map[string][]string{
	"attack":  {"SHO", "DRI", "PAC", "Finishing", "Positioning", "Shot Power", "Dribbling", "Ball Control", "Acceleration"},
	"mid":     {"PAS", "DRI", "Vision", "Short Passing", "Long Passing", "Ball Control", "Composure", "Stamina"},
	"defence": {"DEF", "PHY", "Interceptions", "Def Awareness", "Standing Tackle", "Sliding Tackle", "Strength", "Heading Accuracy"},
	"keeper":  {"Reactions", "Jumping", "Composure"},
}

func family(pos string) string {
	switch pos {
	case "GK":
		return "keeper"
	case "ST", "CF", "LW", "RW":
		return "attack"
	case "CDM", "CM", "CAM", "LM", "RM":
		return "mid"
	default:
		return "defence"
	}
}

// Generate creates cfg.Players players. Each player is derived from
// cfg.Seed and its index only, so the result does not depend on Workers.
func Generate(ctx context.Context, cfg Config) ([]*model.Player, error) {
	cfg = cfg.withDefaults()
	logger.Get().Debug(ctx, "generating squad", logger.Int("players", cfg.Players), logger.Int("workers", cfg.Workers))

	type result struct {
		index  int
		player *model.Player
		err    error
	}
	resultChan := make(chan result, cfg.Players)

	workerCount := min(cfg.Workers, cfg.Players)
	perWorker := cfg.Players / workerCount
	for w := 0; w < workerCount; w++ {
		start := w * perWorker
		end := start + perWorker
		if w == workerCount-1 {
			end = cfg.Players // Last worker gets the remainder
		}
		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- result{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- result{index: i, player: generatePlayer(cfg, i)}
				}
			}
		}(start, end)
	}

	players := make([]*model.Player, cfg.Players)
	for i := 0; i < cfg.Players; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("squad generation cancelled: %w", ctx.Err())
		case r := <-resultChan:
			if r.err != nil {
				return nil, fmt.Errorf("generate player %d: %w", r.index, r.err)
			}
			players[r.index] = r.player
		}
	}
	return players, nil
}

func generatePlayer(cfg Config, i int) *model.Player {
	rng := rand.New(rand.NewSource(cfg.Seed*1_000_003 + int64(i))) //nolint:gosec // reproducible fixtures
	pos := Positions[rng.Intn(len(Positions))]

	p := model.NewPlayer(fmt.Sprintf("gen-%05d", i))
	p.Name = fmt.Sprintf("Player %05d", i)
	p.Position = pos
	p.Nation = cfg.Nations[i%len(cfg.Nations)]
	p.Team = fmt.Sprintf("Club %02d", rng.Intn(20)+1)
	p.Gender = "M"
	if rng.Intn(2) == 1 {
		p.Gender = "F"
	}

	ovr := variedOVR(rng)
	boosted := make(map[string]bool)
	for _, a := range skew[family(pos)] {
		boosted[a] = true
	}
	for _, a := range features.ClusteringAttributes {
		if a == "Position" {
			continue
		}
		base := ovr - 15 + rng.NormFloat64()*8
		if boosted[a] {
			base += 12 + rng.Float64()*8
		}
		p.Attrs[a] = clamp(math.Round(base))
	}
	p.Attrs["OVR"] = ovr
	p.Attrs["Position"] = pos
	return p
}

// variedOVR draws an overall rating from a tiered distribution.
func variedOVR(rng *rand.Rand) float64 {
	var v float64
	switch rng.Intn(tierCount) {
	case caseHighPerformer:
		v = 78 + rng.Float64()*8
	case caseLowPerformer:
		v = 45 + rng.Float64()*15
	case caseElitePerformer:
		v = 86 + rng.Float64()*8
	default:
		v = 60 + rng.Float64()*18
	}
	return math.Round(v)
}

func clamp(v float64) float64 {
	return math.Max(1, math.Min(99, v))
}

// Columns returns the CSV header written by WriteCSV.
func Columns() []string {
	cols := []string{"ID", "Name", "Position", "Nation", "Team", "GENDER", "OVR"}
	for _, a := range features.ClusteringAttributes {
		if !strings.EqualFold(a, "Position") {
			cols = append(cols, a)
		}
	}
	return cols
}
