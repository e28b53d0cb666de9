package handlers

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/openmohaa/rating-api/internal/models"
)

// Mocks

type MockRatingService struct {
	RateFunc      func(ctx context.Context, req *models.MatchRequest) (*models.RateResponse, error)
	QualityFunc   func(ctx context.Context, req *models.MatchRequest) (*models.QualityResponse, error)
	RateBatchFunc func(ctx context.Context, matches []models.MatchRequest) *models.BatchResponse
	PresetsFunc   func() []models.PresetOutput
}

func (m *MockRatingService) Rate(ctx context.Context, req *models.MatchRequest) (*models.RateResponse, error) {
	return m.RateFunc(ctx, req)
}

func (m *MockRatingService) Quality(ctx context.Context, req *models.MatchRequest) (*models.QualityResponse, error) {
	return m.QualityFunc(ctx, req)
}

func (m *MockRatingService) RateBatch(ctx context.Context, matches []models.MatchRequest) *models.BatchResponse {
	return m.RateBatchFunc(ctx, matches)
}

func (m *MockRatingService) Presets() []models.PresetOutput {
	if m.PresetsFunc != nil {
		return m.PresetsFunc()
	}
	return nil
}

type MockJobQueue struct {
	SubmitFunc func(ctx context.Context, req *models.MatchRequest) (string, error)
	ResultFunc func(ctx context.Context, id string) (*models.JobResult, error)
	Depth      int
}

func (m *MockJobQueue) Submit(ctx context.Context, req *models.MatchRequest) (string, error) {
	return m.SubmitFunc(ctx, req)
}

func (m *MockJobQueue) Result(ctx context.Context, id string) (*models.JobResult, error) {
	return m.ResultFunc(ctx, id)
}

func (m *MockJobQueue) QueueDepth() int { return m.Depth }

type MockPinger struct {
	Err error
}

func (m *MockPinger) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", m.Err)
}
