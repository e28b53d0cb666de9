package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openmohaa/rating-api/internal/models"
)

// ErrJobNotFound is returned for unknown or expired job IDs.
var ErrJobNotFound = errors.New("job not found")

const jobKeyPrefix = "rating:job:"

func jobKey(id string) string {
	return jobKeyPrefix + id
}

// ResultStore keeps async job results.
type ResultStore interface {
	Save(ctx context.Context, result *models.JobResult, ttl time.Duration) error
	Load(ctx context.Context, id string) (*models.JobResult, error)
}

// RedisClient is the subset of *redis.Client the result store needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisResultStore implements ResultStore using Redis
type RedisResultStore struct {
	client RedisClient
}

func NewRedisResultStore(client RedisClient) *RedisResultStore {
	return &RedisResultStore{client: client}
}

func (s *RedisResultStore) Save(ctx context.Context, result *models.JobResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", result.JobID, err)
	}
	return s.client.Set(ctx, jobKey(result.JobID), data, ttl).Err()
}

func (s *RedisResultStore) Load(ctx context.Context, id string) (*models.JobResult, error) {
	data, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	var result models.JobResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &result, nil
}
