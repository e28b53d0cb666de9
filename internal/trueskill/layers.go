package trueskill

import (
	"fmt"

	"github.com/openmohaa/rating-api/internal/factorgraph"
)

type layerKind int

const (
	layerPrior layerKind = iota
	layerPerformance
	layerTeamPerformance
	layerDifference
	layerTruncation
)

func (k layerKind) String() string {
	return [...]string{"prior", "skill-to-performance", "team-performance", "team-difference", "truncation"}[k]
}

// layer is one stage of the pipeline. Each stage reads the output groups of
// the previous one and produces its own (the truncation stage produces none).
type layer struct {
	kind    layerKind
	factors []*factorgraph.Factor
	outputs [][]factorgraph.VarID
}

// forward is the schedule run once on the way in.
func (l *layer) forward() (factorgraph.Schedule, bool) {
	switch l.kind {
	case layerPrior, layerPerformance, layerTeamPerformance:
		return l.everyFactor("%s forward", 0), true
	default:
		// difference and truncation only run inside the convergence loop
		return factorgraph.Schedule{}, false
	}
}

// backward is the posterior schedule run on the way out.
func (l *layer) backward() (factorgraph.Schedule, bool) {
	switch l.kind {
	case layerPerformance:
		return l.everyFactor("%s posterior", 1), true
	case layerTeamPerformance:
		steps := make([]factorgraph.Schedule, 0)
		for _, f := range l.factors {
			for edge := 1; edge < f.Edges(); edge++ {
				steps = append(steps, factorgraph.Step(f.Label, f, edge))
			}
		}
		return factorgraph.Sequence(fmt.Sprintf("%s posterior", l.kind), steps...), true
	default:
		return factorgraph.Schedule{}, false
	}
}

func (l *layer) everyFactor(name string, edge int) factorgraph.Schedule {
	steps := make([]factorgraph.Schedule, len(l.factors))
	for i, f := range l.factors {
		steps[i] = factorgraph.Step(f.Label, f, edge)
	}
	return factorgraph.Sequence(fmt.Sprintf(name, l.kind), steps...)
}

// buildPriorLayer creates one skill variable per player, anchored to the
// pre-match rating widened by the per-match drift.
func buildPriorLayer(vs *factorgraph.Variables, game GameInfo, teams []Team) (*layer, error) {
	l := &layer{kind: layerPrior}
	tauSq := game.DynamicsFactor * game.DynamicsFactor
	for _, team := range teams {
		group := make([]factorgraph.VarID, 0, team.Size())
		for _, p := range team.Players {
			skill := vs.New("%s's skill", p.ID)
			variance := p.Rating.StdDev*p.Rating.StdDev + tauSq
			f, err := factorgraph.NewPrior(fmt.Sprintf("prior on %s", p.ID), skill, p.Rating.Mean, variance)
			if err != nil {
				return nil, err
			}
			l.factors = append(l.factors, f)
			group = append(group, skill)
		}
		l.outputs = append(l.outputs, group)
	}
	return l, nil
}

// buildPerformanceLayer adds a noisy performance for every skill.
func buildPerformanceLayer(vs *factorgraph.Variables, game GameInfo, teams []Team, skills [][]factorgraph.VarID) (*layer, error) {
	l := &layer{kind: layerPerformance}
	betaSq := game.Beta * game.Beta
	for t, group := range skills {
		perfs := make([]factorgraph.VarID, 0, len(group))
		for i, skill := range group {
			id := teams[t].Players[i].ID
			perf := vs.New("%s's performance", id)
			f, err := factorgraph.NewLikelihood(fmt.Sprintf("performance of %s", id), perf, skill, betaSq)
			if err != nil {
				return nil, err
			}
			l.factors = append(l.factors, f)
			perfs = append(perfs, perf)
		}
		l.outputs = append(l.outputs, perfs)
	}
	return l, nil
}

// buildTeamPerformanceLayer sums each team's performances, weighted by the
// share of the match each player took part in.
func buildTeamPerformanceLayer(vs *factorgraph.Variables, teams []Team, perfs [][]factorgraph.VarID) (*layer, error) {
	l := &layer{kind: layerTeamPerformance}
	for t, group := range perfs {
		weights := make([]float64, len(group))
		for i, p := range teams[t].Players {
			weights[i] = p.Weight
		}
		teamPerf := vs.New("team %d performance", t)
		f, err := factorgraph.NewWeightedSum(fmt.Sprintf("team %d sum", t), teamPerf, group, weights)
		if err != nil {
			return nil, err
		}
		l.factors = append(l.factors, f)
		l.outputs = append(l.outputs, []factorgraph.VarID{teamPerf})
	}
	return l, nil
}

// buildDifferenceLayer compares each pair of teams adjacent in rank order.
// Factor i links team i (stronger) and team i+1 (weaker).
func buildDifferenceLayer(vs *factorgraph.Variables, teamPerfs [][]factorgraph.VarID) (*layer, error) {
	l := &layer{kind: layerDifference}
	diffs := make([]factorgraph.VarID, 0, len(teamPerfs)-1)
	for i := 0; i+1 < len(teamPerfs); i++ {
		diff := vs.New("team %d - team %d", i, i+1)
		f, err := factorgraph.NewDifference(fmt.Sprintf("difference %d", i), diff, teamPerfs[i][0], teamPerfs[i+1][0])
		if err != nil {
			return nil, err
		}
		l.factors = append(l.factors, f)
		diffs = append(diffs, diff)
	}
	l.outputs = [][]factorgraph.VarID{diffs}
	return l, nil
}

// buildTruncationLayer applies the observed outcome of every adjacent pair:
// within the draw margin for equal ranks, above it otherwise.
func buildTruncationLayer(diffs []factorgraph.VarID, ranks []int, margin float64) *layer {
	l := &layer{kind: layerTruncation}
	for i, diff := range diffs {
		var f *factorgraph.Factor
		if ranks[i] == ranks[i+1] {
			f = factorgraph.NewWithin(fmt.Sprintf("draw %d", i), diff, margin)
		} else {
			f = factorgraph.NewGreaterThan(fmt.Sprintf("win %d", i), diff, margin)
		}
		l.factors = append(l.factors, f)
	}
	return l
}
