package trueskill

import (
	"fmt"
	"math"

	"github.com/openmohaa/rating-api/internal/factorgraph"
	"github.com/openmohaa/rating-api/internal/numerics"
)

// graphState tracks where a matchGraph is in its single pass. States only
// ever move forward.
type graphState int

const (
	stateBuilt graphState = iota
	statePriorsSent
	stateConverged
	statePosteriorPropagated
	stateDone
)

func (s graphState) String() string {
	return [...]string{"built", "priors-sent", "converged", "posterior-propagated", "done"}[s]
}

// matchGraph is the factor graph of a single match. It is built, run once and
// discarded.
type matchGraph struct {
	game  GameInfo
	teams []Team // best first
	ranks []int
	opts  Options

	vars   factorgraph.Variables
	layers []*layer
	state  graphState
	stats  factorgraph.RunStats
}

// newPipeline builds the prior, performance and team-performance layers. That
// is all match quality needs.
func newPipeline(game GameInfo, teams []Team, ranks []int, opts Options) (*matchGraph, error) {
	g := &matchGraph{game: game, teams: teams, ranks: ranks, opts: opts}

	prior, err := buildPriorLayer(&g.vars, game, teams)
	if err != nil {
		return nil, err
	}
	perf, err := buildPerformanceLayer(&g.vars, game, teams, prior.outputs)
	if err != nil {
		return nil, err
	}
	team, err := buildTeamPerformanceLayer(&g.vars, teams, perf.outputs)
	if err != nil {
		return nil, err
	}
	g.layers = []*layer{prior, perf, team}
	return g, nil
}

// newMatchGraph builds all five layers for rating a match.
func newMatchGraph(game GameInfo, teams []Team, ranks []int, opts Options) (*matchGraph, error) {
	margin, err := game.DrawMargin()
	if err != nil {
		return nil, err
	}
	if err := checkDraws(ranks, margin); err != nil {
		return nil, err
	}
	g, err := newPipeline(game, teams, ranks, opts)
	if err != nil {
		return nil, err
	}
	diff, err := buildDifferenceLayer(&g.vars, g.layers[layerTeamPerformance].outputs)
	if err != nil {
		return nil, err
	}
	g.layers = append(g.layers, diff, buildTruncationLayer(diff.outputs[0], ranks, margin))
	return g, nil
}

func (g *matchGraph) expect(s graphState) error {
	if g.state != s {
		return fmt.Errorf("match graph is %s, expected %s", g.state, s)
	}
	return nil
}

func (g *matchGraph) run(s factorgraph.Schedule) error {
	stats, err := factorgraph.Run(&g.vars, s)
	g.stats.Iterations += stats.Iterations
	g.stats.Updates += stats.Updates
	g.stats.Delta = stats.Delta
	return err
}

// sendPriors runs the forward schedule of every layer that has one.
func (g *matchGraph) sendPriors() error {
	if err := g.expect(stateBuilt); err != nil {
		return err
	}
	for _, l := range g.layers {
		if s, ok := l.forward(); ok {
			if err := g.run(s); err != nil {
				return err
			}
		}
	}
	g.state = statePriorsSent
	return nil
}

// differenceLoop alternates between the difference and truncation layers.
// With more than two teams a truncation on one pair shifts the team beliefs
// feeding its neighbours, so the body is repeated until nothing moves.
func (g *matchGraph) differenceLoop() factorgraph.Schedule {
	diffs := g.layers[layerDifference].factors
	truncs := g.layers[layerTruncation].factors
	k := len(diffs)

	var body factorgraph.Schedule
	if k == 1 {
		body = factorgraph.Sequence("single comparison",
			factorgraph.Step(diffs[0].Label, diffs[0], 0),
			factorgraph.Step(truncs[0].Label, truncs[0], 0),
		)
	} else {
		pieces := make([]factorgraph.Schedule, 0, 2*(k-1))
		for i := 0; i < k-1; i++ {
			pieces = append(pieces, factorgraph.Sequence(fmt.Sprintf("forward %d", i),
				factorgraph.Step(diffs[i].Label, diffs[i], 0),
				factorgraph.Step(truncs[i].Label, truncs[i], 0),
				factorgraph.Step(diffs[i].Label, diffs[i], 2),
			))
		}
		for i := k - 1; i > 0; i-- {
			pieces = append(pieces, factorgraph.Sequence(fmt.Sprintf("backward %d", i),
				factorgraph.Step(diffs[i].Label, diffs[i], 0),
				factorgraph.Step(truncs[i].Label, truncs[i], 0),
				factorgraph.Step(diffs[i].Label, diffs[i], 1),
			))
		}
		body = factorgraph.Sequence("forward-backward", pieces...)
	}

	return factorgraph.Sequence("team differences",
		factorgraph.Loop("difference loop", body, g.opts.maxDelta(), g.opts.maxIterations()),
		// the two outermost edges are never sent inside the loop
		factorgraph.Step(diffs[0].Label, diffs[0], 1),
		factorgraph.Step(diffs[k-1].Label, diffs[k-1], 2),
	)
}

// converge runs the difference loop to a fixed point.
func (g *matchGraph) converge() error {
	if err := g.expect(statePriorsSent); err != nil {
		return err
	}
	if err := g.run(g.differenceLoop()); err != nil {
		return err
	}
	g.state = stateConverged
	return nil
}

// propagatePosteriors runs the backward schedules, last layer first.
func (g *matchGraph) propagatePosteriors() error {
	if err := g.expect(stateConverged); err != nil {
		return err
	}
	for i := len(g.layers) - 1; i >= 0; i-- {
		if s, ok := g.layers[i].backward(); ok {
			if err := g.run(s); err != nil {
				return err
			}
		}
	}
	g.state = statePosteriorPropagated
	return nil
}

// ratings reads the posterior skill of every player.
func (g *matchGraph) ratings() (map[PlayerID]Rating, error) {
	if err := g.expect(statePosteriorPropagated); err != nil {
		return nil, err
	}
	out := make(map[PlayerID]Rating)
	for t, group := range g.layers[layerPrior].outputs {
		for i, skill := range group {
			belief := g.vars.Value(skill)
			if !belief.Proper() {
				return nil, fmt.Errorf("%w: posterior %s for %s", numerics.ErrNonPositiveVariance, belief, g.vars.Label(skill))
			}
			out[g.teams[t].Players[i].ID] = Rating{Mean: belief.Mean(), StdDev: belief.StdDev()}
		}
	}
	g.state = stateDone
	return out, nil
}

// outcomeProbability is the model's probability of the observed ranking,
// from the summed log normalisation constants of every factor.
func (g *matchGraph) outcomeProbability() float64 {
	var factors []*factorgraph.Factor
	for _, l := range g.layers {
		factors = append(factors, l.factors...)
	}
	return math.Exp(factorgraph.LogEvidence(&g.vars, factors))
}

// teamPerformances returns the team-performance marginals in team order.
func (g *matchGraph) teamPerformances() []numerics.Gaussian {
	groups := g.layers[layerTeamPerformance].outputs
	out := make([]numerics.Gaussian, len(groups))
	for i, group := range groups {
		out[i] = g.vars.Value(group[0])
	}
	return out
}
