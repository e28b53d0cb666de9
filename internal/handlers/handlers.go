package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/openmohaa/rating-api/internal/logic"
	"github.com/openmohaa/rating-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// JobQueue defines the interface for the async rating worker pool
type JobQueue interface {
	Submit(ctx context.Context, req *models.MatchRequest) (string, error)
	Result(ctx context.Context, id string) (*models.JobResult, error)
	QueueDepth() int
}

// Pinger is satisfied by *redis.Client.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type Config struct {
	Ratings      logic.RatingService
	Jobs         JobQueue // nil disables the async endpoints
	Redis        Pinger   // nil when no Redis is configured
	MaxBatchSize int
	Logger       *zap.Logger
}

type Handler struct {
	ratings      logic.RatingService
	jobs         JobQueue
	redis        Pinger
	maxBatchSize int
	logger       *zap.SugaredLogger
	validator    *validator.Validate
}

func New(cfg Config) *Handler {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 500
	}
	return &Handler{
		ratings:      cfg.Ratings,
		jobs:         cfg.Jobs,
		redis:        cfg.Redis,
		maxBatchSize: cfg.MaxBatchSize,
		logger:       cfg.Logger.Sugar(),
		validator:    validator.New(),
	}
}
