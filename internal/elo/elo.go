// Package elo provides the classic pairwise Elo update for one-versus-one
// matches. It only moves means; the incoming std dev is carried through.
package elo

import (
	"math"

	"github.com/openmohaa/rating-api/internal/numerics"
	"github.com/openmohaa/rating-api/internal/trueskill"
)

// KFactor returns the maximum rating change for a player at the given rating.
type KFactor func(rating float64) float64

// ConstantK always returns k.
func ConstantK(k float64) KFactor {
	return func(float64) float64 { return k }
}

// FIDE K-factors.
const (
	fideProvisionalK = 25
	fideK            = 30
	fideMasterK      = 15
	fideMasterRating = 2400
)

// FIDEKFactor follows the chess federation table. Provisional players (fewer
// than 30 rated games) use a flat 25.
func FIDEKFactor(provisional bool) KFactor {
	if provisional {
		return ConstantK(fideProvisionalK)
	}
	return func(rating float64) float64 {
		if rating < fideMasterRating {
			return fideK
		}
		return fideMasterK
	}
}

// GaussianKFactor scales K by beta. latestGameWeight is how much the newest
// result counts relative to history.
func GaussianKFactor(game trueskill.GameInfo, latestGameWeight float64) KFactor {
	return ConstantK(latestGameWeight * game.Beta * math.Sqrt(math.Pi))
}

// winCurve is the probability that a player beats an opponent.
type winCurve func(game trueskill.GameInfo, player, opponent float64) float64

// logistic is the FIDE curve: a 2β gap is worth a factor of ten in odds.
func logistic(game trueskill.GameInfo, player, opponent float64) float64 {
	return 1 / (1 + math.Pow(10, (opponent-player)/(2*game.Beta)))
}

func gaussian(game trueskill.GameInfo, player, opponent float64) float64 {
	return numerics.CDF((player - opponent) / (math.Sqrt2 * game.Beta))
}

// Calculator is a two-player Elo calculator.
type Calculator struct {
	name  string
	k     KFactor
	curve winCurve
}

// NewFIDE uses the logistic curve and the FIDE K-factor table.
func NewFIDE(provisional bool) *Calculator {
	return &Calculator{name: "elo-fide", k: FIDEKFactor(provisional), curve: logistic}
}

// NewGaussian uses the normal curve with a beta-scaled K.
func NewGaussian(game trueskill.GameInfo, latestGameWeight float64) *Calculator {
	return &Calculator{name: "elo-gaussian", k: GaussianKFactor(game, latestGameWeight), curve: gaussian}
}

func (c *Calculator) Name() string { return c.name }

// WinProbability is the chance that a player rated player beats one rated
// opponent.
func (c *Calculator) WinProbability(game trueskill.GameInfo, player, opponent float64) float64 {
	return c.curve(game, player, opponent)
}

func (c *Calculator) update(game trueskill.GameInfo, self, opponent trueskill.Rating, score float64) trueskill.Rating {
	expected := c.curve(game, self.Mean, opponent.Mean)
	return trueskill.Rating{
		Mean:   self.Mean + c.k(self.Mean)*(score-expected),
		StdDev: self.StdDev,
	}
}

// CalculateNewRatings rates a one-versus-one match. OutcomeProbability is
// the expected score of the better-ranked player.
func (c *Calculator) CalculateNewRatings(game trueskill.GameInfo, teams []trueskill.Team, ranks []int) (*trueskill.Result, error) {
	if err := game.Validate(); err != nil {
		return nil, err
	}
	if err := trueskill.ValidateHeadToHead(teams, ranks, true); err != nil {
		return nil, err
	}

	first, second := teams[0].Players[0], teams[1].Players[0]
	if ranks[1] < ranks[0] {
		first, second = second, first
	}
	firstScore, secondScore := 1.0, 0.0
	if ranks[0] == ranks[1] {
		firstScore, secondScore = 0.5, 0.5
	}

	return &trueskill.Result{
		Ratings: map[trueskill.PlayerID]trueskill.Rating{
			first.ID:  c.update(game, first.Rating, second.Rating, firstScore),
			second.ID: c.update(game, second.Rating, first.Rating, secondScore),
		},
		OutcomeProbability: c.curve(game, first.Rating.Mean, second.Rating.Mean),
		Engine:             c.name,
	}, nil
}

// CalculateMatchQuality is 1 when the win probability is even and falls
// linearly towards 0 as it approaches certainty. It is twice the underdog's
// chance, so it stays positive even when that chance underflows.
func (c *Calculator) CalculateMatchQuality(game trueskill.GameInfo, teams []trueskill.Team) (*trueskill.Quality, error) {
	if err := game.Validate(); err != nil {
		return nil, err
	}
	if err := trueskill.ValidateHeadToHead(teams, nil, false); err != nil {
		return nil, err
	}
	a, b := teams[0].Players[0].Rating.Mean, teams[1].Players[0].Rating.Mean
	q := 2 * math.Min(c.curve(game, a, b), c.curve(game, b, a))
	if q == 0 {
		q = math.SmallestNonzeroFloat64
	}
	return &trueskill.Quality{Quality: q, LogEvidence: math.Log(q)}, nil
}

var _ trueskill.Calculator = (*Calculator)(nil)
