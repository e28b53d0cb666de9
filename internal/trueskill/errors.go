package trueskill

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is wrapped by every ValidationError.
var ErrInvalidInput = errors.New("invalid match input")

// ValidationError describes malformed team or rank input. It is raised before
// any graph is built.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// countRange bounds a count; max 0 means unbounded.
type countRange struct {
	min, max int
}

func exactly(n int) countRange { return countRange{min: n, max: n} }
func atLeast(n int) countRange { return countRange{min: n} }

func (r countRange) contains(n int) bool {
	return n >= r.min && (r.max == 0 || n <= r.max)
}

func (r countRange) String() string {
	switch {
	case r.max == 0:
		return fmt.Sprintf("at least %d", r.min)
	case r.min == r.max:
		return fmt.Sprintf("exactly %d", r.min)
	default:
		return fmt.Sprintf("between %d and %d", r.min, r.max)
	}
}

// shape is the set of match layouts a calculator accepts.
type shape struct {
	teams          countRange
	playersPerTeam countRange
	partialPlay    bool
}

// validate checks teams (and ranks, when rated) against s.
func (s shape) validate(teams []Team, ranks []int, rated bool) error {
	if !s.teams.contains(len(teams)) {
		return invalid("teams", "need %s teams, got %d", s.teams, len(teams))
	}
	if rated && len(ranks) != len(teams) {
		return invalid("ranks", "got %d ranks for %d teams", len(ranks), len(teams))
	}

	seen := make(map[PlayerID]struct{})
	for i, team := range teams {
		if !s.playersPerTeam.contains(team.Size()) {
			return invalid(fmt.Sprintf("teams[%d]", i), "need %s players, got %d", s.playersPerTeam, team.Size())
		}
		active := false
		for j, p := range team.Players {
			field := fmt.Sprintf("teams[%d].players[%d]", i, j)
			if p.ID == "" {
				return invalid(field, "empty player id")
			}
			if _, dup := seen[p.ID]; dup {
				return invalid(field, "player %q appears more than once", p.ID)
			}
			seen[p.ID] = struct{}{}

			if math.IsNaN(p.Rating.Mean) || math.IsInf(p.Rating.Mean, 0) {
				return invalid(field, "mean %v is not finite", p.Rating.Mean)
			}
			if !(p.Rating.StdDev > 0) || math.IsInf(p.Rating.StdDev, 0) {
				return invalid(field, "std dev %v must be positive", p.Rating.StdDev)
			}
			if !(p.Weight >= 0 && p.Weight <= 1) {
				return invalid(field, "weight %v outside [0,1]", p.Weight)
			}
			if p.Weight != 1 && !s.partialPlay {
				return invalid(field, "partial play is not supported by this calculator")
			}
			if p.Weight > 0 {
				active = true
			}
		}
		if !active {
			return invalid(fmt.Sprintf("teams[%d]", i), "every player has weight 0")
		}
	}
	return nil
}
