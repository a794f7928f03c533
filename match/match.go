// Package match plays headless matches between the autopilot and the AI
// paddle on a simulated clock.
package match

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/pong/components"
	"github.com/pthm-cable/pong/config"
	"github.com/pthm-cable/pong/sim"
	"github.com/pthm-cable/pong/systems"
	"github.com/pthm-cable/pong/telemetry"
)

// ErrNoLimit is returned when a run has neither a point nor a frame limit.
var ErrNoLimit = errors.New("match needs max points or max frames")

// DefaultMaxPoints is the point limit a run falls back to when no limit
// was given.
const DefaultMaxPoints = 11

// Options configures a headless run.
type Options struct {
	Seed      int64
	MaxPoints uint // stop once this many points were played (0 = no limit)
	MaxFrames int  // stop after this many frames (0 = no limit)

	// Pilot overrides the default autopilot when non-nil.
	Pilot *PilotSettings

	// Telemetry receives every frame when non-nil.
	Telemetry *telemetry.Session
}

// WithDefaultLimit returns opts with MaxPoints set to DefaultMaxPoints when
// neither limit is set.
func (o Options) WithDefaultLimit() Options {
	if o.MaxPoints == 0 && o.MaxFrames <= 0 {
		o.MaxPoints = DefaultMaxPoints
	}
	return o
}

// Result summarizes a finished run.
type Result struct {
	Score      components.Score
	Frames     int
	SimSeconds float64
	Rallies    int
	RallyHits  int // paddle hits in finished rallies
	PeakSpeed  float64
}

// AIPointShare returns the fraction of points won by the AI.
func (r Result) AIPointShare() float64 {
	total := r.Score.Total()
	if total == 0 {
		return 0
	}
	return float64(r.Score.AI) / float64(total)
}

// MeanRally returns the mean paddle hits per finished rally.
func (r Result) MeanRally() float64 {
	if r.Rallies == 0 {
		return 0
	}
	return float64(r.RallyHits) / float64(r.Rallies)
}

// epoch anchors the manual clock; only differences matter.
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Run plays a headless match at the reference frame rate. Reaction timing
// follows a manual clock advanced by the same step as the simulation.
func Run(cfg *config.Config, opts Options) (Result, error) {
	if opts.MaxPoints == 0 && opts.MaxFrames <= 0 {
		return Result{}, ErrNoLimit
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	pilotRng := rand.New(rand.NewSource(opts.Seed ^ 0x5eed))
	clock := systems.NewManualClock(epoch)

	s := sim.NewSimulation(cfg, rng, clock)
	if !s.Resize(cfg.Derived.FieldWidth, cfg.Derived.FieldHeight) {
		return Result{}, fmt.Errorf("field %vx%v: %w", cfg.Derived.FieldWidth, cfg.Derived.FieldHeight, config.ErrInvalidConfig)
	}
	loop := sim.NewLoop(s, nil, cfg.Physics.MaxDeltaMs)

	settings := DefaultPilot(cfg.Paddle.Height, cfg.Paddle.PlayerSpeed)
	if opts.Pilot != nil {
		settings = *opts.Pilot
	}
	pilot := NewAutopilot(settings, pilotRng)

	stepMs := cfg.Derived.ReferenceStepMs
	stepDur := time.Duration(stepMs * float64(time.Millisecond))
	var perf *telemetry.FrameProfiler
	if opts.Telemetry != nil {
		perf = opts.Telemetry.Perf()
	}

	var res Result
	rallyHits := 0
	for {
		if opts.MaxFrames > 0 && res.Frames >= opts.MaxFrames {
			break
		}
		if opts.MaxPoints > 0 && s.Score().Total() >= opts.MaxPoints {
			break
		}

		perf.Begin()
		perf.Phase(telemetry.PhaseSimulation)

		clock.Advance(stepDur)
		st := s.State()
		s.SetPlayerTarget(pilot.Target(clock.Now(), &st, 1))

		frame, ok := loop.Advance(stepMs)
		if !ok {
			return res, fmt.Errorf("step %d did not advance", res.Frames)
		}
		res.Frames++
		res.SimSeconds += stepMs / 1000

		for _, e := range frame.Events {
			switch e.Kind {
			case sim.EventPaddleHit:
				rallyHits++
				if e.Speed > res.PeakSpeed {
					res.PeakSpeed = e.Speed
				}
			case sim.EventPoint:
				res.Rallies++
				res.RallyHits += rallyHits
				rallyHits = 0
			}
		}

		if opts.Telemetry != nil {
			perf.Phase(telemetry.PhaseTelemetry)
			opts.Telemetry.Observe(stepMs, frame)
			opts.Telemetry.MaybeFlush(frame.Score)
		}
		perf.End(true)
	}

	res.Score = s.Score()
	if opts.Telemetry != nil {
		opts.Telemetry.Finish(res.Score)
	}

	slog.Debug("match finished",
		"seed", opts.Seed,
		"player", res.Score.Player,
		"ai", res.Score.AI,
		"frames", res.Frames,
		"rallies", res.Rallies,
	)
	return res, nil
}
