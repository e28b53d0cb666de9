package trueskill

import (
	"fmt"
)

// Default convergence bounds for the difference loop.
const (
	DefaultMaxDelta      = 1e-4
	DefaultMaxIterations = 100
)

// Options bounds the convergence loop. Zero values take the defaults.
type Options struct {
	MaxDelta      float64
	MaxIterations int
}

func (o Options) maxDelta() float64 {
	if o.MaxDelta > 0 {
		return o.MaxDelta
	}
	return DefaultMaxDelta
}

func (o Options) maxIterations() int {
	if o.MaxIterations > 0 {
		return o.MaxIterations
	}
	return DefaultMaxIterations
}

// Result holds the posterior of every player in a rated match.
type Result struct {
	Ratings            map[PlayerID]Rating
	Iterations         int     // convergence loop passes; 0 for closed forms
	OutcomeProbability float64 // prior probability of the observed ranking
	Engine             string
}

// Quality describes how evenly matched a set of teams is.
type Quality struct {
	Quality     float64 // 1 for perfectly even teams, falling towards 0
	LogEvidence float64 // log density of every adjacent pair drawing
}

// Calculator rates matches.
type Calculator interface {
	Name() string
	CalculateNewRatings(game GameInfo, teams []Team, ranks []int) (*Result, error)
	CalculateMatchQuality(game GameInfo, teams []Team) (*Quality, error)
}

// FactorGraphCalculator handles any number of teams of any size, with draws
// and partial play.
type FactorGraphCalculator struct {
	opts Options
}

var factorGraphShape = shape{teams: atLeast(2), playersPerTeam: atLeast(1), partialPlay: true}

// NewFactorGraphCalculator creates a calculator with the given loop bounds.
func NewFactorGraphCalculator(opts Options) *FactorGraphCalculator {
	return &FactorGraphCalculator{opts: opts}
}

func (c *FactorGraphCalculator) Name() string { return "factorgraph" }

// CalculateNewRatings rates a finished match. ranks[i] is the placing of
// teams[i]; lower is better and equal ranks are draws.
func (c *FactorGraphCalculator) CalculateNewRatings(game GameInfo, teams []Team, ranks []int) (*Result, error) {
	if err := game.Validate(); err != nil {
		return nil, err
	}
	if err := factorGraphShape.validate(teams, ranks, true); err != nil {
		return nil, err
	}

	sortedTeams, sortedRanks := sortByRank(teams, ranks)
	g, err := newMatchGraph(game, sortedTeams, sortedRanks, c.opts)
	if err != nil {
		return nil, err
	}
	if err := g.sendPriors(); err != nil {
		return nil, fmt.Errorf("send priors: %w", err)
	}
	if err := g.converge(); err != nil {
		return nil, fmt.Errorf("converge %d teams: %w", len(teams), err)
	}
	if err := g.propagatePosteriors(); err != nil {
		return nil, fmt.Errorf("propagate posteriors: %w", err)
	}
	ratings, err := g.ratings()
	if err != nil {
		return nil, err
	}

	return &Result{
		Ratings:            ratings,
		Iterations:         g.stats.Iterations,
		OutcomeProbability: g.outcomeProbability(),
		Engine:             c.Name(),
	}, nil
}

// CalculateMatchQuality scores how likely the teams are to draw.
func (c *FactorGraphCalculator) CalculateMatchQuality(game GameInfo, teams []Team) (*Quality, error) {
	if err := game.Validate(); err != nil {
		return nil, err
	}
	if err := factorGraphShape.validate(teams, nil, false); err != nil {
		return nil, err
	}
	return matchQuality(game, teams, c.opts)
}

// ValidateHeadToHead checks a one-versus-one match. Pairwise calculators
// outside this package share it.
func ValidateHeadToHead(teams []Team, ranks []int, rated bool) error {
	return shape{teams: exactly(2), playersPerTeam: exactly(1)}.validate(teams, ranks, rated)
}
