package factorgraph

import (
	"errors"
	"fmt"
	"math"

	"github.com/openmohaa/rating-api/internal/numerics"
)

// ErrNotConverged is returned when a loop schedule hits its iteration cap
// while beliefs are still moving.
var ErrNotConverged = errors.New("factor graph did not converge")

// ScheduleKind tags the three schedule shapes.
type ScheduleKind int

const (
	ScheduleStep ScheduleKind = iota
	ScheduleSequence
	ScheduleLoop
)

// Schedule is a recursive description of message updates:
//   - a step updates one edge of one factor,
//   - a sequence runs its children in order,
//   - a loop repeats its body until the largest change in one pass drops
//     below MaxDelta, or fails after MaxIterations passes.
type Schedule struct {
	Kind ScheduleKind
	Name string

	Factor *Factor
	Edge   int

	Children []Schedule

	Body          *Schedule
	MaxDelta      float64
	MaxIterations int
}

func Step(name string, f *Factor, edge int) Schedule {
	return Schedule{Kind: ScheduleStep, Name: name, Factor: f, Edge: edge}
}

func Sequence(name string, children ...Schedule) Schedule {
	return Schedule{Kind: ScheduleSequence, Name: name, Children: children}
}

func Loop(name string, body Schedule, maxDelta float64, maxIterations int) Schedule {
	return Schedule{Kind: ScheduleLoop, Name: name, Body: &body, MaxDelta: maxDelta, MaxIterations: maxIterations}
}

// RunStats summarises one schedule execution.
type RunStats struct {
	Delta      float64 // largest marginal change of the last pass
	Iterations int     // loop passes executed, summed over every loop
	Updates    int     // message updates executed
}

// Run executes s against vs.
func Run(vs *Variables, s Schedule) (RunStats, error) {
	var stats RunStats
	delta, err := run(vs, s, &stats)
	stats.Delta = delta
	return stats, err
}

func run(vs *Variables, s Schedule, stats *RunStats) (float64, error) {
	switch s.Kind {
	case ScheduleStep:
		stats.Updates++
		return s.Factor.UpdateMessage(vs, s.Edge)

	case ScheduleSequence:
		var maxDelta float64
		for _, child := range s.Children {
			d, err := run(vs, child, stats)
			if err != nil {
				return 0, err
			}
			maxDelta = math.Max(maxDelta, d)
		}
		return maxDelta, nil

	case ScheduleLoop:
		if s.Body == nil || s.MaxIterations <= 0 || !(s.MaxDelta > 0) {
			return 0, fmt.Errorf("loop %q: invalid body or bounds", s.Name)
		}
		var d float64
		for i := 1; i <= s.MaxIterations; i++ {
			var err error
			d, err = run(vs, *s.Body, stats)
			stats.Iterations++
			if err != nil {
				return 0, err
			}
			if d < s.MaxDelta {
				return d, nil
			}
		}
		return d, fmt.Errorf("%w: %q still moving by %.3g after %d iterations", ErrNotConverged, s.Name, d, s.MaxIterations)

	default:
		return 0, fmt.Errorf("schedule %q: unknown kind %d", s.Name, s.Kind)
	}
}

// LogEvidence returns the log of the normalising constant of the graph formed
// by factors, using the messages they currently hold. Variable marginals are
// rebuilt from those messages along the way.
func LogEvidence(vs *Variables, factors []*Factor) float64 {
	vs.ResetAll()
	var sum float64
	for _, f := range factors {
		for e, id := range f.vars {
			v := vs.vars[id].Value
			sum += numerics.LogProductNormalization(v, f.messages[e])
			vs.vars[id].Value = v.Mul(f.messages[e])
		}
	}
	for _, f := range factors {
		sum += f.logNormalization(vs)
	}
	return sum
}
