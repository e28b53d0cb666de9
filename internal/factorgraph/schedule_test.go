package factorgraph

import (
	"errors"
	"math"
	"testing"
)

func TestLoopConverges(t *testing.T) {
	var vs Variables
	x := vs.New("x")
	prior := mustPrior(t, x, 3, 2)

	stats, err := Run(&vs, Loop("resend prior", Step("prior", prior, 0), 1e-4, 10))
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if stats.Iterations != 2 {
		t.Errorf("iterations = %d, want 2", stats.Iterations)
	}
	if stats.Delta != 0 {
		t.Errorf("final delta = %v, want 0", stats.Delta)
	}
	if stats.Updates != 2 {
		t.Errorf("updates = %d, want 2", stats.Updates)
	}
}

func TestLoopReportsNonConvergence(t *testing.T) {
	var vs Variables
	x := vs.New("x")
	prior := mustPrior(t, x, 3, 2)

	_, err := Run(&vs, Loop("capped", Step("prior", prior, 0), 1e-4, 1))
	if !errors.Is(err, ErrNotConverged) {
		t.Fatalf("Run error = %v, want ErrNotConverged", err)
	}
}

func TestLoopRejectsBadBounds(t *testing.T) {
	var vs Variables
	x := vs.New("x")
	prior := mustPrior(t, x, 3, 2)

	tests := []struct {
		name string
		s    Schedule
	}{
		{"zero iterations", Loop("l", Step("p", prior, 0), 1e-4, 0)},
		{"zero delta", Loop("l", Step("p", prior, 0), 0, 10)},
		{"nil body", Schedule{Kind: ScheduleLoop, Name: "l", MaxDelta: 1, MaxIterations: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Run(&vs, tt.s); err == nil || errors.Is(err, ErrNotConverged) {
				t.Errorf("Run error = %v, want a bounds error", err)
			}
		})
	}
}

func TestSequenceReturnsLargestDelta(t *testing.T) {
	var vs Variables
	a := vs.New("a")
	b := vs.New("b")
	mustRun(t, &vs, Sequence("priors",
		Step("a", mustPrior(t, a, 0, 1), 0), Step("b", mustPrior(t, b, 0, 1), 0)))

	// a second unit-variance observation halves the variance and meets the
	// first one halfway
	stats := mustRun(t, &vs, Sequence("evidence",
		Step("a", mustPrior(t, a, 2, 1), 0), Step("b", mustPrior(t, b, 20, 1), 0)))
	if !almostEqual(stats.Delta, 10, 1e-12) {
		t.Errorf("delta = %v, want 10", stats.Delta)
	}
}

func TestFirstMessageDeltaIsUnbounded(t *testing.T) {
	var vs Variables
	x := vs.New("x")
	delta, err := mustPrior(t, x, 0, 1).UpdateMessage(&vs, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(delta, 1) {
		t.Errorf("delta from an empty belief = %v, want +Inf", delta)
	}
}

func TestStepOnMissingEdge(t *testing.T) {
	var vs Variables
	x := vs.New("x")
	prior := mustPrior(t, x, 0, 1)
	if _, err := Run(&vs, Step("bad", prior, 3)); err == nil {
		t.Error("expected an error for a missing edge")
	}
}

func TestVariableLabels(t *testing.T) {
	var vs Variables
	id := vs.New("%s's skill", "alice")
	if vs.Label(id) != "alice's skill" {
		t.Errorf("label = %q", vs.Label(id))
	}
	if vs.Len() != 1 {
		t.Errorf("Len = %d, want 1", vs.Len())
	}
}
