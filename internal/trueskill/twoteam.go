package trueskill

import (
	"fmt"
	"math"

	"github.com/openmohaa/rating-api/internal/numerics"
)

// TwoTeamCalculator rates two teams of full-time players in closed form. It
// gives the same posteriors as the factor graph, since with a single
// comparison the graph needs no iteration.
type TwoTeamCalculator struct{}

var twoTeamShape = shape{teams: exactly(2), playersPerTeam: atLeast(1)}

func (TwoTeamCalculator) Name() string { return "twoteam" }

// teamStats sums the per-player quantities the closed form needs.
type teamStats struct {
	mean     float64
	variance float64 // sum of sigma²+tau²+beta²
}

func statsOf(game GameInfo, t Team) teamStats {
	var s teamStats
	for _, p := range t.Players {
		s.mean += p.Rating.Mean
		s.variance += p.Rating.StdDev*p.Rating.StdDev + game.DynamicsFactor*game.DynamicsFactor + game.Beta*game.Beta
	}
	return s
}

func (c TwoTeamCalculator) CalculateNewRatings(game GameInfo, teams []Team, ranks []int) (*Result, error) {
	if err := game.Validate(); err != nil {
		return nil, err
	}
	if err := twoTeamShape.validate(teams, ranks, true); err != nil {
		return nil, err
	}
	margin, err := game.DrawMargin()
	if err != nil {
		return nil, err
	}
	if err := checkDraws(ranks, margin); err != nil {
		return nil, err
	}

	sorted, sortedRanks := sortByRank(teams, ranks)
	winner, loser := statsOf(game, sorted[0]), statsOf(game, sorted[1])
	draw := sortedRanks[0] == sortedRanks[1]

	cSq := winner.variance + loser.variance
	spread := math.Sqrt(cSq)
	delta := winner.mean - loser.mean

	// variance is 1-w, kept separate so a lopsided upset cannot round it to 0
	var v, variance, outcome float64
	if draw {
		v, variance = numerics.WithinMarginMoments(delta/spread, margin/spread)
		outcome = math.Exp(numerics.LogIntervalMass((-margin-delta)/spread, (margin-delta)/spread))
	} else {
		v, variance = numerics.ExceedsMarginMoments(delta/spread, margin/spread)
		outcome = math.Exp(numerics.LogCDF((delta - margin) / spread))
	}

	ratings := make(map[PlayerID]Rating, sorted[0].Size()+sorted[1].Size())
	tauSq := game.DynamicsFactor * game.DynamicsFactor
	for i, team := range sorted {
		sign := 1.0
		if i == 1 {
			sign = -1
		}
		for _, p := range team.Players {
			varWithDrift := p.Rating.StdDev*p.Rating.StdDev + tauSq
			share := varWithDrift / cSq
			shrink := (1 - share) + share*variance
			if !(shrink > 0) {
				return nil, fmt.Errorf("%w: posterior of %s collapsed", numerics.ErrNonPositiveVariance, p.ID)
			}
			ratings[p.ID] = Rating{
				Mean:   p.Rating.Mean + sign*varWithDrift/spread*v,
				StdDev: math.Sqrt(varWithDrift * shrink),
			}
		}
	}

	return &Result{Ratings: ratings, OutcomeProbability: outcome, Engine: c.Name()}, nil
}

func (c TwoTeamCalculator) CalculateMatchQuality(game GameInfo, teams []Team) (*Quality, error) {
	if err := game.Validate(); err != nil {
		return nil, err
	}
	if err := twoTeamShape.validate(teams, nil, false); err != nil {
		return nil, err
	}
	a, b := statsOf(game, teams[0]), statsOf(game, teams[1])
	return chainQuality([]float64{a.mean, b.mean}, []float64{a.variance, b.variance})
}
