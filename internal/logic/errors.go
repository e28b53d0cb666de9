package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/openmohaa/rating-api/internal/factorgraph"
	"github.com/openmohaa/rating-api/internal/numerics"
	"github.com/openmohaa/rating-api/internal/trueskill"
)

var (
	ErrUnknownPreset = fmt.Errorf("%w: unknown preset", trueskill.ErrInvalidInput)
	ErrUnknownEngine = fmt.Errorf("%w: unknown engine", trueskill.ErrInvalidInput)
)

// Failure kinds, used as metric labels and mapped to HTTP statuses.
const (
	KindInvalidInput = "invalid_input"
	KindNotConverged = "not_converged"
	KindNumeric      = "numeric"
	KindCanceled     = "canceled"
	KindInternal     = "internal"
)

// ErrorKind classifies an error returned by the service.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, trueskill.ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, factorgraph.ErrNotConverged):
		return KindNotConverged
	case errors.Is(err, numerics.ErrDomain):
		return KindNumeric
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}
