package worker

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openmohaa/rating-api/internal/models"
)

// mockRater implements Rater with a swappable function
type mockRater struct {
	rateFn func(ctx context.Context, req *models.MatchRequest) (*models.RateResponse, error)
}

func (m *mockRater) Rate(ctx context.Context, req *models.MatchRequest) (*models.RateResponse, error) {
	return m.rateFn(ctx, req)
}

// memoryStore implements ResultStore in memory
type memoryStore struct {
	mu      sync.Mutex
	results map[string]models.JobResult
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{results: make(map[string]models.JobResult)}
}

func (m *memoryStore) Save(ctx context.Context, result *models.JobResult, ttl time.Duration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[result.JobID] = *result
	return nil
}

func (m *memoryStore) Load(ctx context.Context, id string) (*models.JobResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &r, nil
}

// mockRedis implements RedisClient
type mockRedis struct {
	getFn func(ctx context.Context, key string) *redis.StringCmd
	setFn func(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

func (m *mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	return m.getFn(ctx, key)
}

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return m.setFn(ctx, key, value, expiration)
}
