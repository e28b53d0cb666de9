package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openmohaa/rating-api/internal/trueskill"
)

// Engines accepted by ENGINE.
const (
	EngineAuto        = "auto"
	EngineFactorGraph = "factorgraph"
	EngineTwoTeam     = "twoteam"
	EngineEloFIDE     = "elo-fide"
	EngineEloGaussian = "elo-gaussian"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Redis backs the async job results. Empty disables the async endpoints.
	RedisURL string

	// Async worker pool
	WorkerCount int
	QueueSize   int
	ResultTTL   time.Duration

	// Synchronous batch endpoint
	BatchParallelism int
	MaxBatchSize     int

	// Engine
	Engine             string
	ConvergenceEpsilon float64
	MaxIterations      int

	// Presets
	PresetsFile string
	DefaultGame trueskill.GameInfo
}

// Load loads configuration from environment variables.
// It returns an error if a value is present but unusable.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		RedisURL: getEnv("REDIS_URL", ""),

		WorkerCount: getEnvInt("WORKER_COUNT", 4),
		QueueSize:   getEnvInt("QUEUE_SIZE", 1000),
		ResultTTL:   getEnvDuration("RESULT_TTL", 1*time.Hour),

		BatchParallelism: getEnvInt("BATCH_PARALLELISM", 8),
		MaxBatchSize:     getEnvInt("MAX_BATCH_SIZE", 500),

		Engine:             strings.ToLower(getEnv("ENGINE", EngineAuto)),
		ConvergenceEpsilon: getEnvFloat("CONVERGENCE_EPSILON", trueskill.DefaultMaxDelta),
		MaxIterations:      getEnvInt("MAX_ITERATIONS", trueskill.DefaultMaxIterations),

		PresetsFile: getEnv("PRESETS_FILE", ""),
		DefaultGame: trueskill.GameInfo{
			InitialMean:     getEnvFloat("DEFAULT_INITIAL_MEAN", trueskill.DefaultInitialMean),
			InitialStdDev:   getEnvFloat("DEFAULT_INITIAL_STD_DEV", trueskill.DefaultInitialStdDev),
			Beta:            getEnvFloat("DEFAULT_BETA", trueskill.DefaultBeta),
			DynamicsFactor:  getEnvFloat("DEFAULT_DYNAMICS_FACTOR", trueskill.DefaultDynamicsFactor),
			DrawProbability: getEnvFloat("DEFAULT_DRAW_PROBABILITY", trueskill.DefaultDrawProbability),
		},
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineAuto, EngineFactorGraph, EngineTwoTeam, EngineEloFIDE, EngineEloGaussian:
	default:
		return fmt.Errorf("unknown ENGINE %q", c.Engine)
	}
	if c.WorkerCount <= 0 || c.QueueSize <= 0 || c.BatchParallelism <= 0 || c.MaxBatchSize <= 0 {
		return fmt.Errorf("worker count, queue size, batch parallelism and batch size must be positive")
	}
	if !(c.ConvergenceEpsilon > 0) || c.MaxIterations <= 0 {
		return fmt.Errorf("invalid convergence bounds: epsilon %v, iterations %d", c.ConvergenceEpsilon, c.MaxIterations)
	}
	if err := c.DefaultGame.Validate(); err != nil {
		return fmt.Errorf("default game: %w", err)
	}
	return nil
}

// AsyncEnabled reports whether a result store is configured.
func (c *Config) AsyncEnabled() bool {
	return c.RedisURL != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
