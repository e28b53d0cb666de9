package trueskill

// AutoCalculator uses the closed form when a match allows it and the factor
// graph otherwise.
type AutoCalculator struct {
	graph   *FactorGraphCalculator
	twoTeam TwoTeamCalculator
}

func NewAutoCalculator(opts Options) *AutoCalculator {
	return &AutoCalculator{graph: NewFactorGraphCalculator(opts)}
}

func (a *AutoCalculator) Name() string { return "auto" }

func (a *AutoCalculator) pick(teams []Team) Calculator {
	if len(teams) != 2 {
		return a.graph
	}
	for _, t := range teams {
		for _, p := range t.Players {
			if p.Weight != 1 {
				return a.graph
			}
		}
	}
	return a.twoTeam
}

func (a *AutoCalculator) CalculateNewRatings(game GameInfo, teams []Team, ranks []int) (*Result, error) {
	return a.pick(teams).CalculateNewRatings(game, teams, ranks)
}

func (a *AutoCalculator) CalculateMatchQuality(game GameInfo, teams []Team) (*Quality, error) {
	return a.pick(teams).CalculateMatchQuality(game, teams)
}
