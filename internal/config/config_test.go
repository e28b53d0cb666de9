package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openmohaa/rating-api/internal/numerics"
	"github.com/openmohaa/rating-api/internal/trueskill"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.Engine != EngineAuto {
		t.Errorf("port %d engine %q", cfg.Port, cfg.Engine)
	}
	if cfg.DefaultGame != trueskill.DefaultGameInfo() {
		t.Errorf("default game = %+v", cfg.DefaultGame)
	}
	if cfg.AsyncEnabled() {
		t.Error("async should be off without REDIS_URL")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("RESULT_TTL", "5m")
	t.Setenv("ENGINE", "FactorGraph")
	t.Setenv("DEFAULT_BETA", "200")
	t.Setenv("MAX_ITERATIONS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("port = %d", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
	if !cfg.AsyncEnabled() || cfg.ResultTTL != 5*time.Minute {
		t.Errorf("async %v ttl %v", cfg.AsyncEnabled(), cfg.ResultTTL)
	}
	if cfg.Engine != EngineFactorGraph {
		t.Errorf("engine = %q", cfg.Engine)
	}
	if cfg.DefaultGame.Beta != 200 {
		t.Errorf("beta = %v", cfg.DefaultGame.Beta)
	}
	if cfg.MaxIterations != trueskill.DefaultMaxIterations {
		t.Errorf("unparsable value should fall back, got %d", cfg.MaxIterations)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"engine", "ENGINE", "glicko"},
		{"workers", "WORKER_COUNT", "0"},
		{"epsilon", "CONVERGENCE_EPSILON", "-1"},
		{"draw probability", "DEFAULT_DRAW_PROBABILITY", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParsePresets(t *testing.T) {
	doc := []byte(`
presets:
  ffa:
    draw_probability: 0
  chess:
    initial_mean: 1200
    initial_std_dev: 400
    beta: 200
`)
	def := trueskill.DefaultGameInfo()
	presets, err := ParsePresets(doc, def)
	if err != nil {
		t.Fatalf("ParsePresets: %v", err)
	}

	names := presets.Names()
	if len(names) != 3 || names[0] != "chess" || names[1] != DefaultPreset || names[2] != "ffa" {
		t.Errorf("names = %v", names)
	}

	ffa, ok := presets.Lookup("ffa")
	if !ok || ffa.DrawProbability != 0 || ffa.Beta != def.Beta {
		t.Errorf("ffa = %+v", ffa)
	}
	chess, _ := presets.Lookup("chess")
	if chess.Beta != 200 || chess.DynamicsFactor != def.DynamicsFactor {
		t.Errorf("chess = %+v", chess)
	}
	if got, ok := presets.Lookup(""); !ok || got != def {
		t.Errorf("empty name should give the default preset")
	}
	if _, ok := presets.Lookup("missing"); ok {
		t.Error("unexpected preset")
	}
}

func TestParsePresets_Invalid(t *testing.T) {
	_, err := ParsePresets([]byte("presets:\n  bad:\n    beta: -1\n"), trueskill.DefaultGameInfo())
	if !errors.Is(err, numerics.ErrNonPositiveVariance) {
		t.Fatalf("err = %v, want ErrNonPositiveVariance", err)
	}
	if _, err := ParsePresets([]byte("presets: [1, 2"), trueskill.DefaultGameInfo()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadPresets_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte("presets:\n  quick:\n    dynamics_factor: 0.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	presets, err := LoadPresets(path, trueskill.DefaultGameInfo())
	if err != nil {
		t.Fatalf("LoadPresets: %v", err)
	}
	if g, ok := presets.Lookup("quick"); !ok || g.DynamicsFactor != 0.5 {
		t.Errorf("quick = %+v", g)
	}

	if _, err := LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"), trueskill.DefaultGameInfo()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
