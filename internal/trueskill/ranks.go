package trueskill

import "sort"

// sortByRank returns teams and ranks ordered best first. Equal ranks keep
// their input order.
func sortByRank(teams []Team, ranks []int) ([]Team, []int) {
	idx := make([]int, len(teams))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return ranks[idx[a]] < ranks[idx[b]]
	})

	sortedTeams := make([]Team, len(teams))
	sortedRanks := make([]int, len(ranks))
	for i, j := range idx {
		sortedTeams[i] = teams[j]
		sortedRanks[i] = ranks[j]
	}
	return sortedTeams, sortedRanks
}

// checkDraws rejects tied ranks when the game has no draw margin: a draw
// then has probability zero and cannot be conditioned on.
func checkDraws(ranks []int, margin float64) error {
	if margin > 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(ranks))
	for _, r := range ranks {
		if _, tied := seen[r]; tied {
			return invalid("ranks", "rank %d is shared but the draw probability is 0", r)
		}
		seen[r] = struct{}{}
	}
	return nil
}
