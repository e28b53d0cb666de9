package factorgraph

import (
	"fmt"
	"math"

	"github.com/openmohaa/rating-api/internal/numerics"
)

// weightedSum holds, for every edge, the linear form that expresses the
// variable on that edge in terms of the others:
//
//	edge 0:  s   = Σ w_j x_j
//	edge i:  x_i = s/w_i - Σ_{j≠i} (w_j/w_i) x_j
type weightedSum struct {
	weights [][]float64
	order   [][]int // order[edge] lists the source edges matching weights[edge]
	zero    []bool  // zero[edge] is true when that edge's own weight is 0
}

// NewWeightedSum creates sum = Σ weights[i]*terms[i]. Edge 0 is sum and edge
// i+1 is terms[i]. A term with weight 0 does not influence the sum and only
// ever receives a uniform message.
func NewWeightedSum(label string, sum VarID, terms []VarID, weights []float64) (*Factor, error) {
	if len(terms) == 0 || len(terms) != len(weights) {
		return nil, fmt.Errorf("%s: need one weight per term, got %d terms and %d weights", label, len(terms), len(weights))
	}
	allZero := true
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%s: %w: weight %v", label, numerics.ErrDomain, w)
		}
		if w != 0 {
			allZero = false
		}
	}
	if allZero {
		return nil, fmt.Errorf("%s: %w: every weight is zero", label, numerics.ErrDomain)
	}

	n := len(terms)
	ws := &weightedSum{
		weights: make([][]float64, n+1),
		order:   make([][]int, n+1),
		zero:    make([]bool, n+1),
	}

	ws.weights[0] = append([]float64(nil), weights...)
	ws.order[0] = make([]int, n)
	for j := range terms {
		ws.order[0][j] = j + 1
	}

	for i := 1; i <= n; i++ {
		own := weights[i-1]
		if own == 0 {
			ws.zero[i] = true
			continue
		}
		cur := make([]float64, 0, n)
		ord := make([]int, 0, n)
		for j, w := range weights {
			if j == i-1 {
				continue
			}
			cur = append(cur, -w/own)
			ord = append(ord, j+1)
		}
		cur = append(cur, 1/own)
		ord = append(ord, 0)
		ws.weights[i] = cur
		ws.order[i] = ord
	}

	vars := append([]VarID{sum}, terms...)
	f := newFactor(KindWeightedSum, label, vars...)
	f.sum = ws
	return f, nil
}

// NewDifference creates diff = stronger - weaker. Edge 0 is diff, edge 1 the
// stronger side and edge 2 the weaker side.
func NewDifference(label string, diff, stronger, weaker VarID) (*Factor, error) {
	return NewWeightedSum(label, diff, []VarID{stronger, weaker}, []float64{1, -1})
}

func (f *Factor) updateWeightedSum(vs *Variables, edge int) (float64, error) {
	if f.sum.zero[edge] {
		return f.apply(vs, edge, numerics.Uniform)
	}

	var inverseVariance, mean float64
	for k, src := range f.sum.order[edge] {
		w := f.sum.weights[edge][k]
		if w == 0 {
			continue
		}
		from := f.cavity(vs, src)
		if !from.Proper() {
			// an uninformed source makes the outgoing message uninformed too
			return f.apply(vs, edge, numerics.Uniform)
		}
		inverseVariance += w * w / from.Precision
		mean += w * from.Mean()
	}
	if inverseVariance == 0 {
		return f.apply(vs, edge, numerics.Uniform)
	}

	precision := 1 / inverseVariance
	return f.apply(vs, edge, numerics.FromPrecisionMean(precision*mean, precision))
}
