package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openmohaa/rating-api/internal/config"
	"github.com/openmohaa/rating-api/internal/logic"
	"github.com/openmohaa/rating-api/internal/models"
	"github.com/openmohaa/rating-api/internal/trueskill"
)

var validate = validator.New()

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newService() (logic.RatingService, error) {
	presets, err := config.LoadPresets(presetsFile, trueskill.DefaultGameInfo())
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	return logic.NewRatingService(logic.RatingServiceConfig{
		Presets:     presets,
		Options:     trueskill.Options{MaxDelta: epsilon, MaxIterations: maxIter},
		Parallelism: parallelism,
		Logger:      logger,
	}), nil
}

func openInput() (io.ReadCloser, error) {
	if inputFile == "" || inputFile == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(inputFile)
}

// readInput decodes the input into v, validates it and applies the
// --engine and --preset overrides to every match it holds.
func readInput(v any, matches ...*models.MatchRequest) error {
	in, err := openInput()
	if err != nil {
		return err
	}
	defer in.Close()

	if err := json.NewDecoder(in).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", inputFile, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	for _, m := range matches {
		applyOverrides(m)
	}
	return nil
}

func applyOverrides(m *models.MatchRequest) {
	if engine != "" {
		m.Engine = engine
	}
	if preset != "" {
		m.Preset = preset
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runRate(cmd *cobra.Command, _ []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	var req models.MatchRequest
	if err := readInput(&req, &req); err != nil {
		return err
	}
	resp, err := svc.Rate(cmd.Context(), &req)
	if err != nil {
		return err
	}
	return printJSON(cmd, resp)
}

func runQuality(cmd *cobra.Command, _ []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	var req models.MatchRequest
	if err := readInput(&req, &req); err != nil {
		return err
	}
	resp, err := svc.Quality(cmd.Context(), &req)
	if err != nil {
		return err
	}
	return printJSON(cmd, resp)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	var req models.BatchRequest
	if err := readInput(&req); err != nil {
		return err
	}
	for i := range req.Matches {
		applyOverrides(&req.Matches[i])
	}

	resp := svc.RateBatch(cmd.Context(), req.Matches)
	if err := printJSON(cmd, resp); err != nil {
		return err
	}
	if resp.Failed > 0 {
		return fmt.Errorf("%d of %d matches failed", resp.Failed, len(req.Matches))
	}
	return nil
}

func runPresets(cmd *cobra.Command, _ []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	return printJSON(cmd, svc.Presets())
}
