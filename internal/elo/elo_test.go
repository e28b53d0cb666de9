package elo

import (
	"errors"
	"math"
	"testing"

	"github.com/openmohaa/rating-api/internal/trueskill"
)

// chessGame uses the usual Elo scale: a 400 point gap is 10:1 odds.
func chessGame() trueskill.GameInfo {
	g := trueskill.DefaultGameInfo()
	g.InitialMean = 1200
	g.InitialStdDev = 1200 / 3.0
	g.Beta = 200
	return g
}

func headToHead(a, b float64) []trueskill.Team {
	return trueskill.Teams(
		trueskill.NewTeam().Add("a", trueskill.Rating{Mean: a, StdDev: 100}),
		trueskill.NewTeam().Add("b", trueskill.Rating{Mean: b, StdDev: 100}),
	)
}

func TestFIDE_Update(t *testing.T) {
	tests := []struct {
		name        string
		a, b        float64
		ranks       []int
		wantA       float64
		wantB       float64
		provisional bool
	}{
		{"even win", 1200, 1200, []int{1, 2}, 1215, 1185, false},
		{"even draw", 1200, 1200, []int{1, 1}, 1200, 1200, false},
		{"loser listed first", 1200, 1200, []int{2, 1}, 1185, 1215, false},
		{"provisional", 1200, 1200, []int{1, 2}, 1212.5, 1187.5, true},
		// 400 points up: expected score 10/11
		{"favourite wins", 1600, 1200, []int{1, 2}, 1600 + 30.0/11, 1200 - 30.0/11, false},
		{"master rating", 2500, 2500, []int{1, 2}, 2507.5, 2492.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewFIDE(tt.provisional).CalculateNewRatings(chessGame(), headToHead(tt.a, tt.b), tt.ranks)
			if err != nil {
				t.Fatal(err)
			}
			if got := res.Ratings["a"].Mean; math.Abs(got-tt.wantA) > 1e-9 {
				t.Errorf("a = %v, want %v", got, tt.wantA)
			}
			if got := res.Ratings["b"].Mean; math.Abs(got-tt.wantB) > 1e-9 {
				t.Errorf("b = %v, want %v", got, tt.wantB)
			}
			if res.Ratings["a"].StdDev != 100 {
				t.Errorf("std dev changed to %v", res.Ratings["a"].StdDev)
			}
		})
	}
}

func TestGaussian_Update(t *testing.T) {
	game := trueskill.DefaultGameInfo()
	calc := NewGaussian(game, 0.07)
	res, err := calc.CalculateNewRatings(game, headToHead(25, 25), []int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	k := 0.07 * game.Beta * math.Sqrt(math.Pi)
	if got := res.Ratings["a"].Mean; math.Abs(got-(25+k/2)) > 1e-12 {
		t.Errorf("winner = %v, want %v", got, 25+k/2)
	}
	if math.Abs(res.OutcomeProbability-0.5) > 1e-12 {
		t.Errorf("outcome probability = %v", res.OutcomeProbability)
	}
}

func TestMatchQuality(t *testing.T) {
	calc := NewFIDE(false)
	q, err := calc.CalculateMatchQuality(chessGame(), headToHead(1200, 1200))
	if err != nil {
		t.Fatal(err)
	}
	if q.Quality != 1 {
		t.Errorf("even quality = %v", q.Quality)
	}

	q, err = calc.CalculateMatchQuality(chessGame(), headToHead(1600, 1200))
	if err != nil {
		t.Fatal(err)
	}
	if want := 1 - 2*(10.0/11-0.5); math.Abs(q.Quality-want) > 1e-12 {
		t.Errorf("quality = %v, want %v", q.Quality, want)
	}
}

func TestMatchQualityOfHopelessPairing(t *testing.T) {
	game := trueskill.DefaultGameInfo()
	tests := []struct {
		name string
		calc *Calculator
		a, b float64
	}{
		{"gaussian", NewGaussian(game, 1), 1500, 1800},
		{"fide", NewFIDE(false), 1500, 1800},
		{"fide past overflow", NewFIDE(false), 1500, 9000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := tt.calc.CalculateMatchQuality(game, headToHead(tt.a, tt.b))
			if err != nil {
				t.Fatal(err)
			}
			if !(q.Quality > 0) || q.Quality > 1e-30 {
				t.Errorf("quality = %v", q.Quality)
			}
			if math.IsInf(q.LogEvidence, 0) || math.IsNaN(q.LogEvidence) {
				t.Errorf("log evidence = %v", q.LogEvidence)
			}

			swapped, err := tt.calc.CalculateMatchQuality(game, headToHead(tt.b, tt.a))
			if err != nil {
				t.Fatal(err)
			}
			if swapped.Quality != q.Quality {
				t.Errorf("quality depends on team order: %v vs %v", q.Quality, swapped.Quality)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	r := trueskill.DefaultGameInfo().DefaultRating()
	teams := trueskill.Teams(
		trueskill.NewTeam().Add("a", r).Add("c", r),
		trueskill.NewTeam().Add("b", r),
	)
	_, err := NewFIDE(false).CalculateNewRatings(trueskill.DefaultGameInfo(), teams, []int{1, 2})
	if !errors.Is(err, trueskill.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
