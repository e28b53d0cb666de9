package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/openmohaa/rating-api/internal/models"
)

func TestPool_ConcurrentSubmit(t *testing.T) {
	var rated atomic.Int64
	rater := &mockRater{rateFn: func(ctx context.Context, req *models.MatchRequest) (*models.RateResponse, error) {
		rated.Add(1)
		return &models.RateResponse{MatchID: req.MatchID, Engine: "test"}, nil
	}}
	store := newMemoryStore()

	p := NewPool(PoolConfig{
		WorkerCount: 4,
		QueueSize:   1000,
		ResultTTL:   time.Minute,
		Rater:       rater,
		Store:       store,
		Logger:      zap.NewNop(),
	})
	p.Start(context.Background())

	submitters := 10
	jobsPerSubmitter := 50

	var wg sync.WaitGroup
	ids := make(chan string, submitters*jobsPerSubmitter)
	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < jobsPerSubmitter; j++ {
				id, err := p.Submit(context.Background(), match(fmt.Sprintf("m-%d-%d", i, j)))
				if err != nil {
					t.Errorf("submit: %v", err)
					return
				}
				ids <- id
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	// Stop drains whatever is still queued.
	p.Stop()

	want := int64(submitters * jobsPerSubmitter)
	if got := rated.Load(); got != want {
		t.Errorf("rated %d jobs, want %d", got, want)
	}
	for id := range ids {
		res, err := store.Load(context.Background(), id)
		if err != nil {
			t.Fatalf("load %s: %v", id, err)
		}
		if res.Status != models.JobDone {
			t.Errorf("job %s status = %s", id, res.Status)
		}
	}
}
