// Package trueskill rates players after a match between any number of teams
// of any size, including draws and partial play, by running expectation
// propagation over a factor graph built for that match.
package trueskill

import (
	"fmt"
	"math"

	"github.com/openmohaa/rating-api/internal/numerics"
)

// Default game parameters.
const (
	DefaultInitialMean     = 25.0
	DefaultInitialStdDev   = DefaultInitialMean / 3
	DefaultBeta            = DefaultInitialMean / 6
	DefaultDynamicsFactor  = DefaultInitialMean / 300
	DefaultDrawProbability = 0.10
)

// GameInfo holds the parameters of a game. It is read-only input to every
// computation.
type GameInfo struct {
	InitialMean     float64 `json:"initial_mean" yaml:"initial_mean"`
	InitialStdDev   float64 `json:"initial_std_dev" yaml:"initial_std_dev"`
	Beta            float64 `json:"beta" yaml:"beta"`                       // performance spread
	DynamicsFactor  float64 `json:"dynamics_factor" yaml:"dynamics_factor"` // tau, per-match skill drift
	DrawProbability float64 `json:"draw_probability" yaml:"draw_probability"`
}

// DefaultGameInfo returns the standard TrueSkill parameters.
func DefaultGameInfo() GameInfo {
	return GameInfo{
		InitialMean:     DefaultInitialMean,
		InitialStdDev:   DefaultInitialStdDev,
		Beta:            DefaultBeta,
		DynamicsFactor:  DefaultDynamicsFactor,
		DrawProbability: DefaultDrawProbability,
	}
}

// DefaultRating is the prior given to a player without history.
func (g GameInfo) DefaultRating() Rating {
	return Rating{Mean: g.InitialMean, StdDev: g.InitialStdDev}
}

// DrawMargin is the performance difference below which two teams draw.
func (g GameInfo) DrawMargin() (float64, error) {
	return numerics.DrawMargin(g.DrawProbability, g.Beta)
}

// Validate checks the numeric domain of the parameters.
func (g GameInfo) Validate() error {
	if !(g.Beta > 0) || math.IsInf(g.Beta, 0) {
		return fmt.Errorf("%w: beta %v", numerics.ErrNonPositiveVariance, g.Beta)
	}
	if !(g.DynamicsFactor >= 0) || math.IsInf(g.DynamicsFactor, 0) {
		return fmt.Errorf("%w: dynamics factor %v", numerics.ErrDomain, g.DynamicsFactor)
	}
	if !(g.InitialStdDev > 0) || math.IsInf(g.InitialStdDev, 0) || math.IsNaN(g.InitialMean) || math.IsInf(g.InitialMean, 0) {
		return fmt.Errorf("%w: default prior N(%v, %v²)", numerics.ErrNonPositiveVariance, g.InitialMean, g.InitialStdDev)
	}
	if _, err := g.DrawMargin(); err != nil {
		return err
	}
	return nil
}
