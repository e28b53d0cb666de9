package trueskill

import (
	"github.com/openmohaa/rating-api/internal/numerics"
)

// matchQuality runs the pipeline up to team performances, in input order,
// and evaluates the chance that every adjacent pair of teams draws.
func matchQuality(game GameInfo, teams []Team, opts Options) (*Quality, error) {
	g, err := newPipeline(game, teams, nil, opts)
	if err != nil {
		return nil, err
	}
	if err := g.sendPriors(); err != nil {
		return nil, err
	}

	perfs := g.teamPerformances()
	means := make([]float64, len(perfs))
	variances := make([]float64, len(perfs))
	for i, p := range perfs {
		means[i] = p.Mean()
		variances[i] = p.Variance()
	}
	return chainQuality(means, variances)
}

func chainQuality(means, variances []float64) (*Quality, error) {
	q, logEvidence, err := numerics.ChainDrawEvidence(means, variances)
	if err != nil {
		return nil, err
	}
	return &Quality{Quality: q, LogEvidence: logEvidence}, nil
}
