package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/openmohaa/rating-api/internal/config"
	_ "github.com/openmohaa/rating-api/internal/docs"
	"github.com/openmohaa/rating-api/internal/handlers"
	"github.com/openmohaa/rating-api/internal/logic"
	"github.com/openmohaa/rating-api/internal/trueskill"
	"github.com/openmohaa/rating-api/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	presets, err := config.LoadPresets(cfg.PresetsFile, cfg.DefaultGame)
	if err != nil {
		return err
	}

	ratings := logic.NewRatingService(logic.RatingServiceConfig{
		Presets:     presets,
		Engine:      cfg.Engine,
		Options:     trueskill.Options{MaxDelta: cfg.ConvergenceEpsilon, MaxIterations: cfg.MaxIterations},
		Parallelism: cfg.BatchParallelism,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hcfg := handlers.Config{
		Ratings:      ratings,
		MaxBatchSize: cfg.MaxBatchSize,
		Logger:       logger,
	}

	var pool *worker.Pool
	if cfg.AsyncEnabled() {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		pool = worker.NewPool(worker.PoolConfig{
			WorkerCount: cfg.WorkerCount,
			QueueSize:   cfg.QueueSize,
			ResultTTL:   cfg.ResultTTL,
			Rater:       ratings,
			Store:       worker.NewRedisResultStore(rdb),
			Logger:      logger,
		})
		pool.Start(context.Background())
		hcfg.Jobs = pool
		hcfg.Redis = rdb
	} else {
		sugar.Warn("REDIS_URL not set, async rating jobs are disabled")
	}

	h := handlers.New(hcfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", h.Routes())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sugar.Infow("Rating API listening", "port", cfg.Port, "env", cfg.Env, "engine", cfg.Engine, "presets", presets.Names())
	return serve(ctx, srv, sugar, func() {
		if pool != nil {
			pool.Stop()
		}
	})
}

// serve runs srv until ctx is cancelled or the listener fails. Either way the
// server is shut down and drain runs before serve returns.
func serve(ctx context.Context, srv *http.Server, sugar *zap.SugaredLogger, drain func()) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if err != nil {
			sugar.Errorw("HTTP server failed", "error", err)
			serveErr = fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}

	sugar.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("HTTP shutdown failed", "error", err)
	}
	drain()
	return serveErr
}
