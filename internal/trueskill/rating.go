package trueskill

import "fmt"

// conservativeStdDevMultiplier is how many standard deviations are taken off
// the mean for leaderboard-style ordering.
const conservativeStdDevMultiplier = 3

// Rating is a belief about a player's skill.
type Rating struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Conservative is a lower bound on skill the player is very likely above.
func (r Rating) Conservative() float64 {
	return r.Mean - conservativeStdDevMultiplier*r.StdDev
}

func (r Rating) String() string {
	return fmt.Sprintf("μ=%.4f, σ=%.4f", r.Mean, r.StdDev)
}

// PlayerID identifies a player within a match.
type PlayerID string

// Player is one team member with their pre-match rating. Weight is the share
// of the match the player took part in: 1 for a full match, 0 for a player
// who sat it out.
type Player struct {
	ID     PlayerID
	Rating Rating
	Weight float64
}

// Team is an ordered list of players. Order is kept so results are
// reproducible bit for bit.
type Team struct {
	Players []Player
}

// NewTeam starts an empty team.
func NewTeam() *Team {
	return &Team{}
}

// Add appends a player who played the whole match.
func (t *Team) Add(id PlayerID, r Rating) *Team {
	return t.AddPartial(id, r, 1)
}

// AddPartial appends a player who played the given share of the match.
func (t *Team) AddPartial(id PlayerID, r Rating, weight float64) *Team {
	t.Players = append(t.Players, Player{ID: id, Rating: r, Weight: weight})
	return t
}

// Size returns the number of players.
func (t Team) Size() int {
	return len(t.Players)
}

// Teams converts builders into values.
func Teams(ts ...*Team) []Team {
	out := make([]Team, len(ts))
	for i, t := range ts {
		out[i] = *t
	}
	return out
}
