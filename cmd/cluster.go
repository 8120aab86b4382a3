package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/scoutmap/internal/adapters/ingest"
	app "github.com/okian/scoutmap/internal/app"
	"github.com/okian/scoutmap/internal/domain/cluster"
	"github.com/okian/scoutmap/internal/domain/filter"
	"github.com/okian/scoutmap/internal/domain/projection"
	"github.com/okian/scoutmap/pkg/logger"
)

// clusterOutput is the JSON document printed by the cluster command.
type clusterOutput struct {
	Population  int                  `json:"population"`
	Skipped     int                  `json:"skipped_rows"`
	Criteria    filter.Criteria      `json:"criteria"`
	Clusters    []app.ClusterSize    `json:"clusters"`
	Assignments []cluster.Assignment `json:"assignments"`
	Projection  *projection.Result   `json:"projection,omitempty"`
}

func newClusterCmd() *cobra.Command {
	var (
		dataPath     string
		gender       string
		nation       string
		withProj     bool
		seed         int64
		minPop       int
		indentOutput bool
	)
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster a player CSV once and print the result as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			players, rep, err := ingest.LoadFile(dataPath)
			if err != nil {
				return err
			}
			errLog, _ := logger.New(cmd.ErrOrStderr(), logger.FormatText)
			svc := app.New(
				app.WithPlayers(players),
				app.WithProjectionSeed(seed),
				app.WithProjectionMinPopulation(minPop),
				app.WithLogger(errLog),
			)
			criteria := filter.Criteria{Gender: gender, Nation: nation}
			snap, err := svc.Compute(ctx, criteria, withProj)
			if err != nil {
				return err
			}

			out := clusterOutput{
				Population:  len(snap.Players),
				Skipped:     rep.Skipped,
				Criteria:    criteria,
				Clusters:    make([]app.ClusterSize, len(snap.Meta)),
				Assignments: make([]cluster.Assignment, len(snap.Players)),
				Projection:  snap.Projection,
			}
			for i, m := range snap.Meta {
				out.Clusters[i] = app.ClusterSize{Meta: m, Size: snap.Sizes[m.Index]}
			}
			for i, p := range snap.Players {
				out.Assignments[i] = cluster.Assignment{EntityID: p.ID, ClusterID: p.ClusterID, ClusterLabel: p.ClusterLabel}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if indentOutput {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "data/players.csv", "player CSV to cluster")
	cmd.Flags().StringVar(&gender, "gender", "", "only cluster players of this gender (ALL or empty for everyone)")
	cmd.Flags().StringVar(&nation, "nation", "", "only cluster players of this nation")
	cmd.Flags().BoolVar(&withProj, "projection", false, "include the 2D principal-component projection")
	cmd.Flags().Int64Var(&seed, "seed", 0, "projection seed (0 uses the clock)")
	cmd.Flags().IntVar(&minPop, "min-population", projection.DefaultMinPopulation, "minimum players for a projection")
	cmd.Flags().BoolVar(&indentOutput, "indent", false, "indent the JSON output")
	return cmd
}
