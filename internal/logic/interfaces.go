package logic

import (
	"context"

	"github.com/openmohaa/rating-api/internal/models"
)

// RatingService turns match requests into rating updates.
type RatingService interface {
	Rate(ctx context.Context, req *models.MatchRequest) (*models.RateResponse, error)
	Quality(ctx context.Context, req *models.MatchRequest) (*models.QualityResponse, error)
	RateBatch(ctx context.Context, matches []models.MatchRequest) *models.BatchResponse
	Presets() []models.PresetOutput
}
