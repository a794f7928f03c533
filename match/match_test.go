package match

import (
	"errors"
	"testing"
	"time"

	"github.com/pthm-cable/pong/components"
	"github.com/pthm-cable/pong/config"
	"github.com/pthm-cable/pong/sim"
	"github.com/pthm-cable/pong/telemetry"
)

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

func TestRunNeedsLimit(t *testing.T) {
	if _, err := Run(config.Default(), Options{Seed: 1}); !errors.Is(err, ErrNoLimit) {
		t.Errorf("expected ErrNoLimit, got %v", err)
	}
}

func TestWithDefaultLimit(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantPoints uint
		wantFrames int
	}{
		{"no limit", Options{Seed: 1}, DefaultMaxPoints, 0},
		{"frame limit kept", Options{MaxFrames: 600}, 0, 600},
		{"point limit kept", Options{MaxPoints: 3}, 3, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.opts.WithDefaultLimit()
			if got.MaxPoints != tc.wantPoints || got.MaxFrames != tc.wantFrames {
				t.Errorf("expected points=%d frames=%d, got points=%d frames=%d",
					tc.wantPoints, tc.wantFrames, got.MaxPoints, got.MaxFrames)
			}
		})
	}
}

func TestRunWithDefaultLimit(t *testing.T) {
	res, err := Run(config.Default(), Options{Seed: 1}.WithDefaultLimit())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Score.Total() != DefaultMaxPoints {
		t.Errorf("expected %d points, got %+v", DefaultMaxPoints, res.Score)
	}
}

func TestRunStopsAtMaxPoints(t *testing.T) {
	res, err := Run(config.Default(), Options{Seed: 3, MaxPoints: 5, MaxFrames: 500_000})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Score.Total() != 5 {
		t.Errorf("expected exactly 5 points, got %+v", res.Score)
	}
	if res.Rallies != 5 {
		t.Errorf("expected 5 finished rallies, got %d", res.Rallies)
	}
	if res.PeakSpeed > config.Default().Physics.MaxSpeed+1e-9 {
		t.Errorf("peak speed %v above cap", res.PeakSpeed)
	}
}

func TestRunStopsAtMaxFrames(t *testing.T) {
	res, err := Run(config.Default(), Options{Seed: 3, MaxFrames: 600})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Frames != 600 {
		t.Errorf("expected 600 frames, got %d", res.Frames)
	}
	if res.SimSeconds < 9.99 || res.SimSeconds > 10.01 {
		t.Errorf("expected ~10s of play at 60fps, got %v", res.SimSeconds)
	}
}

func TestRunDeterministic(t *testing.T) {
	opts := Options{Seed: 42, MaxPoints: 4, MaxFrames: 200_000}
	a, err := Run(config.Default(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(config.Default(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("same seed produced different results:\n%+v\n%+v", a, b)
	}
}

func TestRunPerfectPilotNeverConcedes(t *testing.T) {
	pilot := PilotSettings{ReactionTime: 0, Jitter: 0, Speed: 1000}
	res, err := Run(config.Default(), Options{Seed: 9, MaxPoints: 3, MaxFrames: 100_000, Pilot: &pilot})
	if err != nil {
		t.Fatal(err)
	}
	if res.Score.AI != 0 {
		t.Errorf("a pilot that tracks the ball exactly should not concede, got %+v", res.Score)
	}
}

func TestRunFeedsTelemetry(t *testing.T) {
	cfg := config.Default()
	var windows []telemetry.WindowStats
	session := telemetry.NewSession(telemetry.SessionOptions{
		StatsWindowSec: 5,
		PerfWindow:     60,
		MaxSpeed:       cfg.Physics.MaxSpeed,
		StatsCallback:  func(w telemetry.WindowStats) { windows = append(windows, w) },
	})

	res, err := Run(cfg, Options{Seed: 5, MaxFrames: 60 * 12, Telemetry: session})
	if err != nil {
		t.Fatal(err)
	}

	// Two full 5s windows plus the partial tail
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	frames := 0
	for _, w := range windows {
		frames += w.Frames
	}
	if frames != res.Frames {
		t.Errorf("windows cover %d frames, run played %d", frames, res.Frames)
	}
	last := windows[len(windows)-1]
	if last.PlayerScore != res.Score.Player || last.AIScore != res.Score.AI {
		t.Errorf("final window score %d-%d, result %+v", last.PlayerScore, last.AIScore, res.Score)
	}
}

func TestResultShares(t *testing.T) {
	r := Result{Score: components.Score{Player: 1, AI: 3}, Rallies: 4, RallyHits: 10}
	if r.AIPointShare() != 0.75 {
		t.Errorf("expected AI share 0.75, got %v", r.AIPointShare())
	}
	if r.MeanRally() != 2.5 {
		t.Errorf("expected mean rally 2.5, got %v", r.MeanRally())
	}
	if (Result{}).AIPointShare() != 0 {
		t.Error("expected zero share without points")
	}
}

func TestAutopilotTracksApproachingBall(t *testing.T) {
	st := &sim.SimulationState{
		Field:  components.Playfield{Width: 600, Height: 400},
		Player: components.Paddle{Y: 160, Height: 80},
		Ball:   components.Ball{Y: 300, DX: -4},
	}
	p := NewAutopilot(PilotSettings{ReactionTime: 100 * time.Millisecond, Jitter: 40, Speed: 8}, fixedRand(0.5))
	now := time.Unix(0, 0)

	// Center 200, aim 300, one step of 8
	if got := p.Target(now, st, 1); got != 208 {
		t.Errorf("expected 208, got %v", got)
	}
	if got := p.Target(now, st, 0.5); got != 204 {
		t.Errorf("expected half step to 204, got %v", got)
	}

	// Close enough to land on the aim
	st.Player.Y = 255
	if got := p.Target(now, st, 1); got != 300 {
		t.Errorf("expected to land on 300, got %v", got)
	}
}

func TestAutopilotReturnsToCenter(t *testing.T) {
	st := &sim.SimulationState{
		Field:  components.Playfield{Width: 600, Height: 400},
		Player: components.Paddle{Y: 300, Height: 80},
		Ball:   components.Ball{Y: 50, DX: 4},
	}
	p := NewAutopilot(PilotSettings{ReactionTime: 100 * time.Millisecond, Speed: 8}, fixedRand(0))

	if got := p.Target(time.Unix(0, 0), st, 1); got != 332 {
		t.Errorf("expected a step toward center (340 -> 332), got %v", got)
	}
}

func TestAutopilotHoldsAimBetweenReactions(t *testing.T) {
	st := &sim.SimulationState{
		Field:  components.Playfield{Width: 600, Height: 400},
		Player: components.Paddle{Y: 160, Height: 80},
		Ball:   components.Ball{Y: 210, DX: -4},
	}
	p := NewAutopilot(PilotSettings{ReactionTime: 100 * time.Millisecond, Speed: 100}, fixedRand(0.5))
	start := time.Unix(0, 0)

	p.Target(start, st, 1)
	st.Ball.Y = 350
	if got := p.Target(start.Add(50*time.Millisecond), st, 1); got != 210 {
		t.Errorf("expected aim held at 210 inside the reaction window, got %v", got)
	}
	if got := p.Target(start.Add(150*time.Millisecond), st, 1); got != 300 {
		t.Errorf("expected re-aim toward 350 capped by speed (200+100), got %v", got)
	}
}
