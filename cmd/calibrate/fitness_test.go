package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/pong/components"
	"github.com/pthm-cable/pong/config"
	"github.com/pthm-cable/pong/match"
)

func TestComputeFitness(t *testing.T) {
	tests := []struct {
		name    string
		results []match.Result
		target  float64
		want    float64
	}{
		{
			name:    "on target",
			results: []match.Result{{Score: components.Score{Player: 1, AI: 1}, Rallies: 2, RallyHits: 10}},
			target:  0.5,
			want:    0,
		},
		{
			name:    "ai too strong",
			results: []match.Result{{Score: components.Score{Player: 1, AI: 3}, Rallies: 4, RallyHits: 20}},
			target:  0.5,
			want:    0.0625,
		},
		{
			name:    "short rallies",
			results: []match.Result{{Score: components.Score{Player: 1, AI: 1}, Rallies: 2, RallyHits: 2}},
			target:  0.5,
			want:    shortRallyWeight * 2.0 / 3.0,
		},
		{
			name: "averaged over seeds",
			results: []match.Result{
				{Score: components.Score{Player: 0, AI: 2}, Rallies: 2, RallyHits: 10},
				{Score: components.Score{Player: 2, AI: 0}, Rallies: 2, RallyHits: 10},
			},
			target: 0.5,
			want:   0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := computeFitness(tt.results, tt.target)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFitnessEmpty(t *testing.T) {
	if got, _ := computeFitness(nil, 0.5); !math.IsInf(got, 1) {
		t.Errorf("expected +Inf without results, got %v", got)
	}
}

func TestEvaluate(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, []int64{1, 2}, 3, 100_000, 0.5, config.Default())

	fitness := fe.Evaluate(pv.DefaultVector())
	if math.IsInf(fitness, 0) || math.IsNaN(fitness) || fitness < 0 {
		t.Fatalf("expected a finite non-negative fitness, got %v", fitness)
	}

	s := fe.LastSummary()
	if s.AIPointShare < 0 || s.AIPointShare > 1 {
		t.Errorf("AI share out of range: %v", s.AIPointShare)
	}
}
