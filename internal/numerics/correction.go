package numerics

import "math"

// Past this many standard deviations into the lower tail the PDF/CDF ratios
// lose their digits to cancellation, so the corrections switch to the
// continued fraction of the Mills ratio.
const tailStart = 10

// Terms of the Mills continued fraction and of the narrow-window Hermite
// series. Both are exhausted well before double precision runs out.
const (
	millsTerms  = 60
	seriesTerms = 60
)

// millsTail evaluates the continued fraction
//
//	R(u) = 1/(u + k1),  k1 = 1/(u + k2),  k2 = 2/(u + 3/(u + ...))
//
// of the Mills ratio R(u) = (1-CDF(u))/PDF(u) for u >= tailStart.
func millsTail(u float64) (k1, k2 float64) {
	var c float64
	for n := millsTerms; n >= 1; n-- {
		c = float64(n) / (u + c)
		if n == 2 {
			k2 = c
		}
	}
	return c, k2
}

// sided returns the Mills ratio R(u) together with the fraction tails that
// give the first two moments of the unit Gaussian tail beyond u:
// E[s] = k1 and E[s^2] = k1*k2 for s = x-u, x > u.
func sided(u float64) (r, k1, k2 float64) {
	k1, k2 = millsTail(u)
	return 1 / (u + k1), k1, k2
}

// ExceedsMarginMoments truncates a unit Gaussian with mean t to values above
// epsilon and returns the mean shift v and the variance left over, 1-w.
// The variance is computed directly rather than as 1-w so it stays strictly
// positive however lopsided the truncation.
func ExceedsMarginMoments(t, epsilon float64) (v, variance float64) {
	x := t - epsilon
	if x < -tailStart {
		k1, k2 := millsTail(-x)
		return -x + k1, k1 * (k2 - k1)
	}
	v = PDF(x) / CDF(x)
	return v, 1 - v*(v+x)
}

// WithinMarginMoments is ExceedsMarginMoments for a difference known to lie
// inside [-epsilon, epsilon].
func WithinMarginMoments(t, epsilon float64) (v, variance float64) {
	tAbs := math.Abs(t)
	switch {
	case epsilon*(tAbs+1) <= 0.5:
		v, variance = withinNarrow(tAbs, epsilon)
	case epsilon-tAbs < -tailStart:
		v, variance = withinTail(tAbs, epsilon)
	default:
		a, b := -epsilon-tAbs, epsilon-tAbs
		z := CDF(b) - CDF(a)
		v = (PDF(a) - PDF(b)) / z
		variance = 1 - v*v - (b*PDF(b)-a*PDF(a))/z
	}
	if t < 0 {
		v = -v
	}
	return v, variance
}

// withinNarrow expands the window density exp(t*y - y*y/2) over y in
// [-epsilon, epsilon] as a Hermite series, h_n = He_n(t)*epsilon^n/n!,
// and integrates term by term. Only valid while epsilon*(t+1) is small.
func withinNarrow(t, epsilon float64) (v, variance float64) {
	var m [3]float64
	hPrev, h := 0.0, 1.0
	for n := 0; n < seriesTerms; n++ {
		ek := 1.0
		for k := range m {
			if (n+k)%2 == 0 {
				m[k] += h * ek / float64(n+k+1)
			}
			ek *= epsilon
		}
		hPrev, h = h, (t*epsilon*h-epsilon*epsilon*hPrev)/float64(n+1)
	}
	mean := m[1] / m[0]
	return mean - t, m[2]/m[0] - mean*mean
}

// withinTail handles a window far below the mean. Measured from the upper
// edge, the window is [0, 2*epsilon] under exp(-u*s - s*s/2); its moments are
// those of the one-sided tail at u minus the tail beyond the lower edge.
func withinTail(t, epsilon float64) (v, variance float64) {
	u, width := t-epsilon, 2*epsilon

	r0, a1, a2 := sided(u)
	m0, m1, m2 := r0, r0*a1, r0*a1*a2
	if r := math.Exp(-2 * epsilon * t); r > 0 {
		r0, a1, a2 = sided(u + width)
		m0 -= r * r0
		m1 -= r * (width*r0 + r0*a1)
		m2 -= r * (width*width*r0 + 2*width*r0*a1 + r0*a1*a2)
	}
	mean := m1 / m0
	return -u - mean, m2/m0 - mean*mean
}

// VExceedsMargin is the additive mean correction for a difference known to be
// above the draw margin, with t and epsilon already divided by the spread.
func VExceedsMargin(t, epsilon float64) float64 {
	v, _ := ExceedsMarginMoments(t, epsilon)
	return v
}

// WExceedsMargin is the multiplicative variance correction matching
// VExceedsMargin. It stays below 1 for any finite t.
func WExceedsMargin(t, epsilon float64) float64 {
	_, variance := ExceedsMarginMoments(t, epsilon)
	return 1 - variance
}

// VWithinMargin is the mean correction for a difference known to lie inside
// [-epsilon, epsilon].
func VWithinMargin(t, epsilon float64) float64 {
	v, _ := WithinMarginMoments(t, epsilon)
	return v
}

// WWithinMargin is the variance correction matching VWithinMargin.
func WWithinMargin(t, epsilon float64) float64 {
	_, variance := WithinMarginMoments(t, epsilon)
	return 1 - variance
}

// VExceedsMarginScaled evaluates VExceedsMargin at (t/c, epsilon/c).
func VExceedsMarginScaled(t, epsilon, c float64) float64 {
	return VExceedsMargin(t/c, epsilon/c)
}

// WExceedsMarginScaled evaluates WExceedsMargin at (t/c, epsilon/c).
func WExceedsMarginScaled(t, epsilon, c float64) float64 {
	return WExceedsMargin(t/c, epsilon/c)
}

// VWithinMarginScaled evaluates VWithinMargin at (t/c, epsilon/c).
func VWithinMarginScaled(t, epsilon, c float64) float64 {
	return VWithinMargin(t/c, epsilon/c)
}

// WWithinMarginScaled evaluates WWithinMargin at (t/c, epsilon/c).
func WWithinMarginScaled(t, epsilon, c float64) float64 {
	return WWithinMargin(t/c, epsilon/c)
}
