package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openmohaa/rating-api/internal/models"
)

func TestRedisResultStore_RoundTrip(t *testing.T) {
	var (
		storedKey   string
		storedValue []byte
		storedTTL   time.Duration
	)
	client := &mockRedis{
		setFn: func(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
			storedKey, storedValue, storedTTL = key, value.([]byte), expiration
			return redis.NewStatusResult("OK", nil)
		},
		getFn: func(ctx context.Context, key string) *redis.StringCmd {
			if key != storedKey {
				return redis.NewStringResult("", redis.Nil)
			}
			return redis.NewStringResult(string(storedValue), nil)
		},
	}
	store := NewRedisResultStore(client)

	in := &models.JobResult{
		JobID:       "abc",
		Status:      models.JobDone,
		Result:      &models.RateResponse{Engine: "twoteam", Ratings: map[string]models.RatingOutput{"a": {Mean: 29.4, StdDev: 7.17}}},
		SubmittedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Save(context.Background(), in, 10*time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if storedKey != "rating:job:abc" || storedTTL != 10*time.Minute {
		t.Errorf("stored under %q for %v", storedKey, storedTTL)
	}

	out, err := store.Load(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Status != models.JobDone || out.Result.Ratings["a"].Mean != 29.4 || !out.SubmittedAt.Equal(in.SubmittedAt) {
		t.Errorf("loaded %+v", out)
	}

	if _, err := store.Load(context.Background(), "other"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("err = %v, want ErrJobNotFound", err)
	}
}

func TestRedisResultStore_Errors(t *testing.T) {
	client := &mockRedis{
		setFn: func(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("", errors.New("connection refused"))
		},
		getFn: func(ctx context.Context, key string) *redis.StringCmd {
			return redis.NewStringResult("{not json", nil)
		},
	}
	store := NewRedisResultStore(client)

	if err := store.Save(context.Background(), &models.JobResult{JobID: "x"}, time.Minute); err == nil {
		t.Error("expected save error")
	}
	if _, err := store.Load(context.Background(), "x"); err == nil || errors.Is(err, ErrJobNotFound) {
		t.Errorf("err = %v, want decode error", err)
	}
}
