package models

import (
	"encoding/json"
	"testing"
)

func TestFlexUnmarshal_AllStrings(t *testing.T) {
	input := `{"match_id": "m1", "teams": [
		{"rank": "1", "players": [{"id": "unauth_34", "mean": "28.500", "std_dev": "7.2", "weight": "0.5"}]},
		{"rank": "2.0", "players": [{"id": "unauth_41"}]}
	]}`

	var req MatchRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if len(req.Teams) != 2 {
		t.Fatalf("Expected 2 teams, got %d", len(req.Teams))
	}

	if req.Teams[0].Rank != 1 || req.Teams[1].Rank != 2 {
		t.Errorf("ranks = %d, %d", req.Teams[0].Rank, req.Teams[1].Rank)
	}
	p := req.Teams[0].Players[0]
	if p.ID != "unauth_34" {
		t.Errorf("ID = %q", p.ID)
	}
	if p.Mean == nil || *p.Mean != 28.5 {
		t.Errorf("Mean = %v, want 28.5", p.Mean)
	}
	if p.StdDev == nil || *p.StdDev != 7.2 {
		t.Errorf("StdDev = %v, want 7.2", p.StdDev)
	}
	if p.Weight == nil || *p.Weight != 0.5 {
		t.Errorf("Weight = %v, want 0.5", p.Weight)
	}
	if q := req.Teams[1].Players[0]; q.Mean != nil || q.Weight != nil {
		t.Errorf("omitted fields should stay nil: %+v", q)
	}
}

func TestFlexUnmarshal_NativeTypes(t *testing.T) {
	input := `{"id": "a", "mean": 31.25, "std_dev": 4}`

	var p PlayerInput
	if err := json.Unmarshal([]byte(input), &p); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if *p.Mean != 31.25 || *p.StdDev != 4 {
		t.Errorf("got %+v", p)
	}
}

func TestFlexUnmarshal_GameOverride(t *testing.T) {
	var g GameOverride
	if err := json.Unmarshal([]byte(`{"beta": "200", "draw_probability": 0}`), &g); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if g.Beta == nil || *g.Beta != 200 {
		t.Errorf("Beta = %v", g.Beta)
	}
	if g.DrawProbability == nil || *g.DrawProbability != 0 {
		t.Errorf("DrawProbability = %v", g.DrawProbability)
	}
	if g.InitialMean != nil {
		t.Errorf("InitialMean = %v", *g.InitialMean)
	}
}

func TestFlexUnmarshal_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a number", `{"id": "a", "mean": "strong"}`},
		{"not an object", `["a"]`},
		{"wrong native type", `{"id": "a", "mean": true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PlayerInput
			if err := json.Unmarshal([]byte(tt.input), &p); err == nil {
				t.Fatalf("expected error, got %+v", p)
			}
		})
	}
}
