// Package worker implements the buffered worker pool pattern for async match rating.
// This decouples HTTP request handling from rating computation, providing:
// - Backpressure handling via load shedding
// - Results cached in Redis with a TTL for polling
// - Graceful shutdown that drains queued jobs

package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/openmohaa/rating-api/internal/models"
)

// ErrQueueFull is returned when a job is shed because the queue is full or
// the pool is shutting down.
var ErrQueueFull = errors.New("rating queue full")

// Prometheus metrics
var (
	jobsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rating_jobs_submitted_total",
		Help: "Total number of async rating jobs accepted",
	})

	jobsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rating_jobs_processed_total",
		Help: "Total number of async rating jobs completed",
	})

	jobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rating_jobs_failed_total",
		Help: "Total number of async rating jobs that failed",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rating_worker_queue_depth",
		Help: "Current depth of the worker queue",
	})

	jobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rating_job_duration_seconds",
		Help:    "Time from submission to stored result",
		Buckets: prometheus.DefBuckets,
	})

	jobsLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rating_jobs_load_shed_total",
		Help: "Total number of jobs dropped due to load shedding",
	})
)

// storeTimeout bounds a single result write.
const storeTimeout = 5 * time.Second

// Rater computes a match result.
type Rater interface {
	Rate(ctx context.Context, req *models.MatchRequest) (*models.RateResponse, error)
}

// Job represents a unit of work for the worker pool
type Job struct {
	ID          string
	Request     *models.MatchRequest
	SubmittedAt time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount int
	QueueSize   int
	ResultTTL   time.Duration
	Rater       Rater
	Store       ResultStore
	Logger      *zap.Logger
}

// Pool manages a pool of workers for async rating
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = time.Hour
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	// Start queue depth reporter
	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"resultTTL", p.config.ResultTTL,
	)
}

// Stop closes the queue, waits for workers to drain it and then cancels
// the pool context.
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")
	close(p.jobQueue)
	p.wg.Wait()
	p.cancel()
	p.logger.Info("Worker pool stopped")
}

// Submit records a pending result for req and queues it. The job ID is
// returned even when the job is shed, so the failure can be polled.
func (p *Pool) Submit(ctx context.Context, req *models.MatchRequest) (string, error) {
	job := Job{ID: uuid.NewString(), Request: req, SubmittedAt: time.Now().UTC()}

	pending := &models.JobResult{JobID: job.ID, Status: models.JobPending, SubmittedAt: job.SubmittedAt}
	if err := p.config.Store.Save(ctx, pending, p.config.ResultTTL); err != nil {
		return "", err
	}

	if !p.Enqueue(job) {
		p.finish(job, nil, ErrQueueFull)
		return job.ID, ErrQueueFull
	}
	return job.ID, nil
}

// Enqueue adds a job to the queue. Returns false immediately if the queue
// is full (load shedding) or the pool has stopped.
func (p *Pool) Enqueue(job Job) (ok bool) {
	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue job (pool stopped)", "jobId", job.ID, "error", r)
			jobsLoadShed.Inc()
			ok = false
		}
	}()

	select {
	case <-p.ctx.Done():
		p.logger.Warnw("Worker pool context canceled, dropping job", "jobId", job.ID)
		jobsLoadShed.Inc()
		return false
	default:
	}

	select {
	case p.jobQueue <- job:
		jobsSubmitted.Inc()
		return true
	default:
		p.logger.Warnw("Queue full, dropping job", "jobId", job.ID, "queueDepth", len(p.jobQueue))
		jobsLoadShed.Inc()
		return false
	}
}

// Result returns the stored state of a job.
func (p *Pool) Result(ctx context.Context, id string) (*models.JobResult, error) {
	return p.config.Store.Load(ctx, id)
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debugw("Worker started", "worker", id)

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				p.logger.Debugw("Job queue closed", "worker", id)
				return
			}
			p.process(id, job)

		case <-p.ctx.Done():
			p.logger.Debugw("Context done", "worker", id)
			return
		}
	}
}

func (p *Pool) process(worker int, job Job) {
	res, err := p.config.Rater.Rate(p.ctx, job.Request)
	if err != nil {
		p.logger.Warnw("Rating job failed", "worker", worker, "jobId", job.ID, "matchId", job.Request.MatchID, "error", err)
	}
	p.finish(job, res, err)
}

// finish stores the terminal state of a job.
func (p *Pool) finish(job Job, res *models.RateResponse, err error) {
	done := time.Now().UTC()
	result := &models.JobResult{
		JobID:       job.ID,
		Status:      models.JobDone,
		Result:      res,
		SubmittedAt: job.SubmittedAt,
		CompletedAt: &done,
	}
	if err != nil {
		result.Status = models.JobFailed
		result.Error = err.Error()
		result.Result = nil
		jobsFailed.Inc()
	} else {
		jobsProcessed.Inc()
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if serr := p.config.Store.Save(ctx, result, p.config.ResultTTL); serr != nil {
		p.logger.Errorw("Failed to store job result", "jobId", job.ID, "error", serr)
	}
	jobDuration.Observe(done.Sub(job.SubmittedAt).Seconds())
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
