package factorgraph

import (
	"fmt"
	"math"

	"github.com/openmohaa/rating-api/internal/numerics"
)

// Kind enumerates the factor types the rating graph uses.
type Kind int

const (
	KindPrior Kind = iota
	KindLikelihood
	KindWeightedSum
	KindGreaterThan
	KindWithin
)

func (k Kind) String() string {
	switch k {
	case KindPrior:
		return "prior"
	case KindLikelihood:
		return "likelihood"
	case KindWeightedSum:
		return "weighted-sum"
	case KindGreaterThan:
		return "greater-than"
	case KindWithin:
		return "within"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Factor is a relation over one or more variables. messages[i] is the last
// message sent along edge i, kept so the next update can divide it out of the
// variable before multiplying the new one in.
type Factor struct {
	Kind  Kind
	Label string

	vars     []VarID
	messages []numerics.Gaussian

	prior     numerics.Gaussian // KindPrior
	precision float64           // KindLikelihood, 1/noise variance
	sum       *weightedSum      // KindWeightedSum
	epsilon   float64           // KindGreaterThan, KindWithin
}

func newFactor(kind Kind, label string, vars ...VarID) *Factor {
	return &Factor{
		Kind:     kind,
		Label:    label,
		vars:     vars,
		messages: make([]numerics.Gaussian, len(vars)),
	}
}

// NewPrior anchors v to a fixed external belief N(mean, variance).
func NewPrior(label string, v VarID, mean, variance float64) (*Factor, error) {
	prior, err := numerics.FromMeanVariance(mean, variance)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	f := newFactor(KindPrior, label, v)
	f.prior = prior
	return f, nil
}

// NewLikelihood links value and mean through Gaussian noise of the given
// variance: value ~ N(mean, variance). Edge 0 is value, edge 1 is mean.
func NewLikelihood(label string, value, mean VarID, variance float64) (*Factor, error) {
	if !(variance > 0) || math.IsInf(variance, 0) {
		return nil, fmt.Errorf("%s: %w: noise variance %v", label, numerics.ErrNonPositiveVariance, variance)
	}
	f := newFactor(KindLikelihood, label, value, mean)
	f.precision = 1 / variance
	return f, nil
}

// NewGreaterThan constrains v to exceed epsilon. Edge 0 is v.
func NewGreaterThan(label string, v VarID, epsilon float64) *Factor {
	f := newFactor(KindGreaterThan, label, v)
	f.epsilon = epsilon
	return f
}

// NewWithin constrains v to lie inside [-epsilon, epsilon]. Edge 0 is v.
func NewWithin(label string, v VarID, epsilon float64) *Factor {
	f := newFactor(KindWithin, label, v)
	f.epsilon = epsilon
	return f
}

// Edges returns how many variables the factor touches.
func (f *Factor) Edges() int {
	return len(f.vars)
}

// Variable returns the variable on the given edge.
func (f *Factor) Variable(edge int) VarID {
	return f.vars[edge]
}

// Message returns the last message sent on the given edge.
func (f *Factor) Message(edge int) numerics.Gaussian {
	return f.messages[edge]
}

// UpdateMessage recomputes the message on one edge, swaps it into the
// variable's marginal and returns how far the marginal moved.
func (f *Factor) UpdateMessage(vs *Variables, edge int) (float64, error) {
	if edge < 0 || edge >= len(f.vars) {
		return 0, fmt.Errorf("factor %q has no edge %d", f.Label, edge)
	}

	switch f.Kind {
	case KindPrior:
		return f.apply(vs, edge, f.prior)
	case KindLikelihood:
		return f.updateLikelihood(vs, edge)
	case KindWeightedSum:
		return f.updateWeightedSum(vs, edge)
	case KindGreaterThan, KindWithin:
		return f.updateTruncation(vs)
	default:
		return 0, fmt.Errorf("factor %q: unknown kind %v", f.Label, f.Kind)
	}
}

// apply replaces the message on edge with msg: the old message is divided out
// of the variable and the new one multiplied in. Every marginal reached this
// way must be proper; the returned delta is measured in mean and std dev.
func (f *Factor) apply(vs *Variables, edge int, msg numerics.Gaussian) (float64, error) {
	id := f.vars[edge]
	old := vs.vars[id].Value
	updated := old.Div(f.messages[edge]).Mul(msg)
	if !updated.Proper() {
		return 0, fmt.Errorf("%w: %s sent %v to %q", numerics.ErrNonPositiveVariance, f.Label, msg, vs.vars[id].Label)
	}
	f.messages[edge] = msg
	vs.vars[id].Value = updated
	return numerics.MomentDiff(old, updated), nil
}

// cavity is the belief of the variable on edge without this factor's message.
func (f *Factor) cavity(vs *Variables, edge int) numerics.Gaussian {
	return vs.vars[f.vars[edge]].Value.Div(f.messages[edge])
}

func (f *Factor) updateLikelihood(vs *Variables, edge int) (float64, error) {
	other := 1 - edge
	from := f.cavity(vs, other)
	a := f.precision / (f.precision + from.Precision)
	msg := numerics.FromPrecisionMean(a*from.PrecisionMean, a*from.Precision)
	return f.apply(vs, edge, msg)
}

func (f *Factor) updateTruncation(vs *Variables) (float64, error) {
	from := f.cavity(vs, 0)
	if !from.Proper() {
		return 0, fmt.Errorf("%w: %s received %v", numerics.ErrDomain, f.Label, from)
	}
	c := from.Precision
	d := from.PrecisionMean
	sqrtC := math.Sqrt(c)
	t := d / sqrtC
	eps := f.epsilon * sqrtC

	var v, variance float64
	if f.Kind == KindWithin {
		v, variance = numerics.WithinMarginMoments(t, eps)
	} else {
		v, variance = numerics.ExceedsMarginMoments(t, eps)
	}
	if !(variance > 0) {
		return 0, fmt.Errorf("%w: %s truncation left variance %v", numerics.ErrNonPositiveVariance, f.Label, variance)
	}

	marginal := numerics.FromPrecisionMean((d+sqrtC*v)/variance, c/variance)
	return f.apply(vs, 0, marginal.Div(from))
}

// logNormalization is this factor's own contribution to the log evidence
// once every message has been sent.
func (f *Factor) logNormalization(vs *Variables) float64 {
	switch f.Kind {
	case KindLikelihood:
		return numerics.LogRatioNormalization(vs.Value(f.vars[0]), f.messages[0])
	case KindWeightedSum:
		var sum float64
		for i := 1; i < len(f.vars); i++ {
			sum += numerics.LogRatioNormalization(vs.Value(f.vars[i]), f.messages[i])
		}
		return sum
	case KindGreaterThan, KindWithin:
		from := f.cavity(vs, 0)
		mean, sd := from.Mean(), from.StdDev()
		var logZ float64
		if f.Kind == KindWithin {
			logZ = numerics.LogIntervalMass((-f.epsilon-mean)/sd, (f.epsilon-mean)/sd)
		} else {
			logZ = numerics.LogCDF((mean - f.epsilon) / sd)
		}
		return -numerics.LogProductNormalization(from, f.messages[0]) + logZ
	default:
		return 0
	}
}
