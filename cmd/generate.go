package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/scoutmap/internal/squadgen"
)

func newGenerateCmd() *cobra.Command {
	var (
		cfg squadgen.Config
		out string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a reproducible synthetic player CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			players, err := squadgen.Generate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return writeOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
				return squadgen.WriteCSV(w, players)
			})
		},
	}
	cmd.Flags().IntVar(&cfg.Players, "players", 500, "number of players")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", 1, "generator seed")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 4, "concurrent generators")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file (- for stdout)")
	return cmd
}

// writeOutput runs write against stdout, or against path when it names a
// file. A failed write or close removes the partial file.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return write(f)
}
