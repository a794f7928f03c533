package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/pong/config"
	"github.com/pthm-cable/pong/match"
)

// Short rallies make a match feel random even at the right point share.
const (
	minMeanRally     = 3.0  // paddle hits per point below which the penalty applies
	shortRallyWeight = 0.05 // penalty at zero mean rally
)

// EvalSummary describes the matches of one evaluation.
type EvalSummary struct {
	AIPointShare float64
	MeanRally    float64
}

// FitnessEvaluator plays headless matches and scores how close the AI point
// share lands to the target.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	maxPoints  uint
	maxFrames  int
	target     float64
	baseConfig *config.Config

	mu   sync.Mutex
	last EvalSummary
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, maxPoints uint, maxFrames int, target float64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		seeds:      seeds,
		maxPoints:  maxPoints,
		maxFrames:  maxFrames,
		target:     target,
		baseConfig: baseCfg,
	}
}

// LastSummary returns the summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() EvalSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := *fe.baseConfig
	if err := fe.params.ApplyToConfig(&cfg, x); err != nil {
		slog.Warn("rejected parameters", "error", err)
		return math.Inf(1)
	}

	// Run all seeds in parallel
	results := make([]match.Result, len(fe.seeds))
	errs := make([]error, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx], errs[idx] = match.Run(&cfg, match.Options{
				Seed:      s,
				MaxPoints: fe.maxPoints,
				MaxFrames: fe.maxFrames,
			})
		}(i, seed)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			slog.Warn("match failed", "error", err)
			return math.Inf(1)
		}
	}

	fitness, summary := computeFitness(results, fe.target)

	fe.mu.Lock()
	fe.last = summary
	fe.mu.Unlock()

	return fitness
}

// computeFitness averages the squared deviation of the AI point share from
// target over all runs and adds a penalty when rallies are short.
func computeFitness(results []match.Result, target float64) (float64, EvalSummary) {
	if len(results) == 0 {
		return math.Inf(1), EvalSummary{}
	}

	var sqDev, share, rally float64
	for _, r := range results {
		d := r.AIPointShare() - target
		sqDev += d * d
		share += r.AIPointShare()
		rally += r.MeanRally()
	}
	n := float64(len(results))
	summary := EvalSummary{AIPointShare: share / n, MeanRally: rally / n}

	fitness := sqDev / n
	if summary.MeanRally < minMeanRally {
		fitness += shortRallyWeight * (minMeanRally - summary.MeanRally) / minMeanRally
	}
	return fitness, summary
}
