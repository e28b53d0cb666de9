package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/openmohaa/rating-api/internal/models"
)

const oneVersusOne = `{
  "match_id": "m1",
  "teams": [
    {"rank": 0, "players": [{"id": "alice"}]},
    {"rank": 1, "players": [{"id": "bob"}]}
  ]
}`

func execute(t *testing.T, input string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	engine, preset, presetsFile = "", "", ""
	maxIter, epsilon = 0, 0

	if input != "" {
		path := filepath.Join(t.TempDir(), "match.json")
		if err := os.WriteFile(path, []byte(input), 0o600); err != nil {
			t.Fatal(err)
		}
		args = append(args, "-f", path)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	return &out, rootCmd.Execute()
}

func TestRateCommand(t *testing.T) {
	out, err := execute(t, oneVersusOne, "rate")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}

	var resp models.RateResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if resp.MatchID != "m1" {
		t.Errorf("match id = %q", resp.MatchID)
	}
	if resp.Ratings["alice"].Mean <= 25 || resp.Ratings["bob"].Mean >= 25 {
		t.Errorf("unexpected ratings %+v", resp.Ratings)
	}
}

func TestRateCommandEngineFlag(t *testing.T) {
	out, err := execute(t, oneVersusOne, "rate", "--engine", "elo-fide")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	var resp models.RateResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Engine != "elo-fide" {
		t.Errorf("engine = %q, want elo-fide", resp.Engine)
	}
}

func TestQualityCommand(t *testing.T) {
	out, err := execute(t, oneVersusOne, "quality")
	if err != nil {
		t.Fatalf("quality: %v", err)
	}
	var resp models.QualityResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Quality <= 0 || resp.Quality > 1 {
		t.Errorf("quality = %v", resp.Quality)
	}
}

func TestRateCommandRejectsSingleTeam(t *testing.T) {
	_, err := execute(t, `{"teams":[{"rank":0,"players":[{"id":"solo"}]}]}`, "rate")
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestBatchCommandReportsFailures(t *testing.T) {
	batch := `{"matches": [` + oneVersusOne + `, {"preset": "missing", "teams": [
		{"rank": 0, "players": [{"id": "a"}]},
		{"rank": 1, "players": [{"id": "b"}]}
	]}]}`

	out, err := execute(t, batch, "batch")
	if err == nil {
		t.Fatal("expected an error for the failed match")
	}

	var resp models.BatchResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Failed != 1 || len(resp.Results) != 2 {
		t.Errorf("failed = %d, results = %d", resp.Failed, len(resp.Results))
	}
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "", "presets")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	var presets []models.PresetOutput
	if err := json.Unmarshal(out.Bytes(), &presets); err != nil {
		t.Fatal(err)
	}
	if len(presets) != 1 || presets[0].Name != "default" {
		t.Errorf("presets = %+v", presets)
	}
}
