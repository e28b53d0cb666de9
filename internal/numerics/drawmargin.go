package numerics

import (
	"fmt"
	"math"
)

// ErrDrawProbability is returned for a draw probability outside [0,1).
var ErrDrawProbability = fmt.Errorf("%w: draw probability must be in [0,1)", ErrDomain)

// DrawMargin converts a draw probability into the performance difference
// below which a pairwise comparison counts as a draw. The spread of one
// comparison between two single performances is sqrt(2)*beta.
func DrawMargin(drawProbability, beta float64) (float64, error) {
	if !(drawProbability >= 0 && drawProbability < 1) {
		return 0, fmt.Errorf("%w: got %v", ErrDrawProbability, drawProbability)
	}
	if drawProbability == 0 {
		return 0, nil
	}
	x, err := InvCDF((drawProbability + 1) / 2)
	if err != nil {
		return 0, err
	}
	return x * math.Sqrt2 * beta, nil
}
