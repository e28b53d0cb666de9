package numerics

import (
	"fmt"
	"math"
)

// ChainDrawEvidence evaluates the density of "every adjacent pair drew" for a
// chain of independent Gaussian performances N(means[k], variances[k]).
//
// The adjacent differences d_k = x_k - x_{k+1} are jointly Gaussian with a
// tridiagonal covariance, which is factored as LDL^T in one pass. quality is
// exp(-1/2 Δ^T C^-1 Δ): 1 when all adjacent means coincide and falling towards
// 0 as they separate, though never reaching it. logDensity is log N(0; Δ, C)
// and keeps its precision after quality has bottomed out.
func ChainDrawEvidence(means, variances []float64) (quality, logDensity float64, err error) {
	n := len(means)
	if n < 2 || len(variances) != n {
		return 0, 0, fmt.Errorf("%w: need at least two matching means and variances", ErrDomain)
	}
	for i, v := range variances {
		if !(v > 0) || math.IsInf(v, 0) || !isFinite(means[i]) {
			return 0, 0, fmt.Errorf("%w: performance %d has variance %v", ErrNonPositiveVariance, i, v)
		}
	}

	var quad, logDet float64
	var prevD, prevY float64
	for k := 0; k < n-1; k++ {
		delta := means[k] - means[k+1]
		diag := variances[k] + variances[k+1]
		d, y := diag, delta
		if k > 0 {
			off := -variances[k]
			l := off / prevD
			d = diag - l*off
			y = delta - l*prevY
		}
		if !(d > 0) {
			return 0, 0, fmt.Errorf("%w: covariance not positive definite", ErrDomain)
		}
		quad += y * y / d
		logDet += math.Log(d)
		prevD, prevY = d, y
	}

	k := float64(n - 1)
	logDensity = -0.5 * (k*math.Log(2*math.Pi) + logDet + quad)
	quality = math.Exp(-0.5 * quad)
	if quality == 0 {
		quality = math.SmallestNonzeroFloat64
	}
	return quality, logDensity, nil
}
