package main

import (
	"github.com/spf13/cobra"
)

var (
	inputFile   string
	engine      string
	preset      string
	presetsFile string
	maxIter     int
	epsilon     float64
	parallelism int
	verbose     bool

	rootCmd = &cobra.Command{
		Use:   "ratingctl",
		Short: "Compute skill ratings and match quality offline",
		Long: `ratingctl runs the same rating engines as the rating API against
JSON match files, without a server or Redis.`,
		SilenceUsage: true,
	}

	rateCmd = &cobra.Command{
		Use:   "rate",
		Short: "Rate one match and print the posterior ratings",
		Args:  cobra.NoArgs,
		RunE:  runRate,
	}

	qualityCmd = &cobra.Command{
		Use:   "quality",
		Short: "Print the draw-likelihood quality of a proposed match",
		Args:  cobra.NoArgs,
		RunE:  runQuality,
	}

	batchCmd = &cobra.Command{
		Use:   "batch",
		Short: `Rate every match of a {"matches": [...]} file independently`,
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}

	presetsCmd = &cobra.Command{
		Use:   "presets",
		Short: "List the available game presets",
		Args:  cobra.NoArgs,
		RunE:  runPresets,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&presetsFile, "presets-file", "", "YAML file with named game presets")
	pf.StringVar(&engine, "engine", "", "engine override (auto, factorgraph, twoteam, elo-fide, elo-gaussian)")
	pf.StringVar(&preset, "preset", "", "preset override for the match")
	pf.IntVar(&maxIter, "max-iterations", 0, "iteration cap for the factor graph loop (0 = default)")
	pf.Float64Var(&epsilon, "epsilon", 0, "convergence threshold for the factor graph loop (0 = default)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log engine decisions to stderr")

	for _, cmd := range []*cobra.Command{rateCmd, qualityCmd, batchCmd} {
		cmd.Flags().StringVarP(&inputFile, "file", "f", "-", "match JSON file, - for stdin")
	}
	batchCmd.Flags().IntVar(&parallelism, "parallelism", 8, "matches rated concurrently")

	rootCmd.AddCommand(rateCmd, qualityCmd, batchCmd, presetsCmd)
}
