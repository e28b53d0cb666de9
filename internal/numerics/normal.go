package numerics

import (
	"fmt"
	"math"
)

var invSqrt2Pi = 1 / math.Sqrt(2*math.Pi)

// CDF is the standard normal cumulative distribution function. It is computed
// through erfc so the lower tail keeps relative precision far below 1e-16.
func CDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// PDF is the standard normal density.
func PDF(x float64) float64 {
	return invSqrt2Pi * math.Exp(-x*x/2)
}

// InvCDF returns x such that CDF(x) = p.
func InvCDF(p float64) (float64, error) {
	if !(p > 0 && p < 1) {
		return 0, fmt.Errorf("%w: probability %v outside (0,1)", ErrDomain, p)
	}
	return -math.Sqrt2 * math.Erfcinv(2*p), nil
}

// LogCDF is log(CDF(x)). It stays finite far past the point where CDF(x)
// underflows.
func LogCDF(x float64) float64 {
	if x < -tailStart {
		k1, _ := millsTail(-x)
		return -x*x/2 - logSqrt2Pi - math.Log(-x+k1)
	}
	return math.Log(CDF(x))
}

// LogIntervalMass is log(CDF(hi) - CDF(lo)) for lo < hi, finite for
// intervals deep in either tail.
func LogIntervalMass(lo, hi float64) float64 {
	if lo > -hi {
		lo, hi = -hi, -lo
	}
	if hi >= -tailStart {
		return math.Log(CDF(hi) - CDF(lo))
	}
	m0, _, _ := sided(-hi)
	if r := math.Exp((hi*hi - lo*lo) / 2); r > 0 {
		r1, _, _ := sided(-lo)
		m0 -= r * r1
	}
	return -hi*hi/2 - logSqrt2Pi + math.Log(m0)
}
