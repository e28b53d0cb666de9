// Package numerics holds the Gaussian arithmetic and normal-distribution helpers
// used by the rating engine. Everything here is pure and allocation free.
package numerics

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDomain is returned when a computation leaves the valid numeric domain
	// (non-finite values, negative precision).
	ErrDomain = errors.New("numeric domain error")

	// ErrNonPositiveVariance is returned when a Gaussian would end up with a
	// variance that is zero, negative or not finite.
	ErrNonPositiveVariance = fmt.Errorf("%w: non-positive variance", ErrDomain)
)

var logSqrt2Pi = math.Log(math.Sqrt(2 * math.Pi))

// Gaussian is a normal distribution stored in precision form. Multiplying two
// Gaussians adds their natural parameters and dividing subtracts them, so
// message updates are exact and do not depend on the order of operations.
type Gaussian struct {
	Precision     float64 // 1/variance
	PrecisionMean float64 // mean/variance
}

// Uniform is the Gaussian with zero precision; it carries no information.
var Uniform = Gaussian{}

// FromMeanVariance builds a Gaussian from its moments.
func FromMeanVariance(mean, variance float64) (Gaussian, error) {
	if !isFinite(mean) {
		return Gaussian{}, fmt.Errorf("%w: mean %v", ErrDomain, mean)
	}
	if !(variance > 0) || math.IsInf(variance, 0) {
		return Gaussian{}, fmt.Errorf("%w: variance %v", ErrNonPositiveVariance, variance)
	}
	precision := 1 / variance
	return Gaussian{Precision: precision, PrecisionMean: mean * precision}, nil
}

// FromMeanStdDev builds a Gaussian from a mean and a standard deviation.
func FromMeanStdDev(mean, stdDev float64) (Gaussian, error) {
	return FromMeanVariance(mean, stdDev*stdDev)
}

// FromPrecisionMean builds a Gaussian directly from natural parameters.
func FromPrecisionMean(precisionMean, precision float64) Gaussian {
	return Gaussian{Precision: precision, PrecisionMean: precisionMean}
}

// Mean returns the distribution mean. A uniform Gaussian has mean 0.
func (g Gaussian) Mean() float64 {
	if g.Precision == 0 {
		return 0
	}
	return g.PrecisionMean / g.Precision
}

// Variance returns 1/precision; +Inf for the uniform Gaussian.
func (g Gaussian) Variance() float64 {
	if g.Precision == 0 {
		return math.Inf(1)
	}
	return 1 / g.Precision
}

func (g Gaussian) StdDev() float64 {
	return math.Sqrt(g.Variance())
}

func (g Gaussian) Mul(other Gaussian) Gaussian {
	return Gaussian{
		Precision:     g.Precision + other.Precision,
		PrecisionMean: g.PrecisionMean + other.PrecisionMean,
	}
}

func (g Gaussian) Div(other Gaussian) Gaussian {
	return Gaussian{
		Precision:     g.Precision - other.Precision,
		PrecisionMean: g.PrecisionMean - other.PrecisionMean,
	}
}

// IsUniform reports whether g carries no information.
func (g Gaussian) IsUniform() bool {
	return g.Precision == 0 && g.PrecisionMean == 0
}

// Proper reports whether g is a normalisable belief: finite natural
// parameters and strictly positive precision.
func (g Gaussian) Proper() bool {
	return g.Precision > 0 && isFinite(g.Precision) && isFinite(g.PrecisionMean)
}

// MomentDiff measures how far apart two Gaussians are in mean and standard
// deviation, the scale ratings are reported on. It is +Inf when exactly one
// of them is uniform.
func MomentDiff(a, b Gaussian) float64 {
	if a.Precision == 0 || b.Precision == 0 {
		if a == b {
			return 0
		}
		return math.Inf(1)
	}
	return math.Max(
		math.Abs(a.Mean()-b.Mean()),
		math.Abs(a.StdDev()-b.StdDev()),
	)
}

// LogProductNormalization is the log of the integral of a*b.
func LogProductNormalization(a, b Gaussian) float64 {
	if a.Precision == 0 || b.Precision == 0 {
		return 0
	}
	varianceSum := a.Variance() + b.Variance()
	meanDiff := a.Mean() - b.Mean()
	return -logSqrt2Pi - math.Log(varianceSum)/2 - meanDiff*meanDiff/(2*varianceSum)
}

// LogRatioNormalization is the log of the integral of numerator/denominator.
func LogRatioNormalization(numerator, denominator Gaussian) float64 {
	if numerator.Precision == 0 || denominator.Precision == 0 {
		return 0
	}
	varianceDiff := denominator.Variance() - numerator.Variance()
	if varianceDiff == 0 {
		// numerator/denominator is flat; the edge contributed nothing
		return 0
	}
	meanDiff := numerator.Mean() - denominator.Mean()
	return math.Log(denominator.Variance()) + logSqrt2Pi -
		math.Log(varianceDiff)/2 + meanDiff*meanDiff/(2*varianceDiff)
}

func (g Gaussian) String() string {
	if g.Precision == 0 {
		return "N(uniform)"
	}
	return fmt.Sprintf("N(μ=%.4f, σ=%.4f)", g.Mean(), g.StdDev())
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
