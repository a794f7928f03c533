package sim

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/pthm-cable/pong/components"
	"github.com/pthm-cable/pong/config"
	"github.com/pthm-cable/pong/systems"
)

// scriptRand replays a fixed sequence of draws, repeating the last value.
// With no values it always returns 0.5.
type scriptRand struct {
	vals []float64
	n    int
}

func (r *scriptRand) Float64() float64 {
	if len(r.vals) == 0 {
		return 0.5
	}
	i := r.n
	if i >= len(r.vals) {
		i = len(r.vals) - 1
	}
	r.n++
	return r.vals[i]
}

func (r *scriptRand) script(vals ...float64) {
	r.vals = vals
	r.n = 0
}

var epoch = time.Unix(1_700_000_000, 0)

func newTestSim(t *testing.T) (*Simulation, *scriptRand, *systems.ManualClock) {
	t.Helper()
	rng := &scriptRand{}
	clock := systems.NewManualClock(epoch)
	s := NewSimulation(config.Default(), rng, clock)
	if !s.Resize(600, 400) {
		t.Fatal("resize to 600x400 rejected")
	}
	return s, rng, clock
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func TestUnsizedStepIsNoop(t *testing.T) {
	s := NewSimulation(config.Default(), &scriptRand{}, systems.NewManualClock(epoch))

	if _, ok := s.Step(16); ok {
		t.Error("expected Step to report false before the first resize")
	}
	if s.State().Steps != 0 {
		t.Error("unsized step should not advance the step counter")
	}
}

func TestResizeRejectsInvalid(t *testing.T) {
	s, _, _ := newTestSim(t)
	before := s.State()

	for _, dims := range [][2]float64{{0, 400}, {600, -1}, {math.NaN(), 400}, {600, math.Inf(1)}} {
		if s.Resize(dims[0], dims[1]) {
			t.Errorf("Resize(%v, %v) accepted", dims[0], dims[1])
		}
	}
	if s.State().Field != before.Field {
		t.Errorf("field changed after rejected resizes: %+v", s.State().Field)
	}
}

func TestResizeRecentersPaddles(t *testing.T) {
	s, _, _ := newTestSim(t)
	st := s.State()
	if st.Player.Y != 160 || st.AI.Y != 160 {
		t.Fatalf("expected paddles at 160 on a 400px field, got %v / %v", st.Player.Y, st.AI.Y)
	}

	s.Resize(800, 600)
	st = s.State()

	if st.Player.Y != 260 || st.AI.Y != 260 {
		t.Errorf("expected paddles recentered to 260, got player=%v ai=%v", st.Player.Y, st.AI.Y)
	}
	if st.AI.X != 790 {
		t.Errorf("expected AI paddle at right edge (790), got %v", st.AI.X)
	}
	if st.Ball.X != 400 || st.Ball.Y != 300 {
		t.Errorf("expected ball at new center, got (%v, %v)", st.Ball.X, st.Ball.Y)
	}
}

func TestFirstResizeServes(t *testing.T) {
	s, _, _ := newTestSim(t)
	frame, ok := s.Step(0)
	if !ok {
		t.Fatal("step failed")
	}
	if !hasEvent(frame.Events, EventServe) {
		t.Error("expected the initial serve to be reported with the first frame")
	}

	frame, _ = s.Step(0)
	if hasEvent(frame.Events, EventServe) {
		t.Error("serve event repeated on a later frame")
	}
}

func TestResetBallAtCenterWithRestartSpeed(t *testing.T) {
	draws := [][2]float64{{0, 0}, {1, 1}, {0.25, 0.75}, {0.5, 0.5}, {0.99, 0.01}}
	for _, d := range draws {
		s, rng, _ := newTestSim(t)
		rng.script(d[0], d[1])
		s.state.PassingThrough = true
		s.state.RallyHits = 7

		s.ResetBall()
		b := s.State().Ball

		if b.X != 300 || b.Y != 200 {
			t.Errorf("draws %v: ball at (%v, %v), want center", d, b.X, b.Y)
		}
		if got := math.Hypot(b.DX, b.DY); math.Abs(got-4) > 1e-9 {
			t.Errorf("draws %v: speed %v, want 4", d, got)
		}
		if b.Speed != 4 {
			t.Errorf("draws %v: cached speed %v, want 4", d, b.Speed)
		}
		if s.state.PassingThrough || s.state.RallyHits != 0 {
			t.Errorf("draws %v: rally state not cleared", d)
		}
	}
}

func TestResetBallDirection(t *testing.T) {
	tests := []struct {
		name string
		roll float64
		dir  float64
	}{
		{"low roll serves left", 0.2, -1},
		{"half serves left", 0.5, -1},
		{"high roll serves right", 0.8, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, rng, _ := newTestSim(t)
			rng.script(0.5, tc.roll)
			s.ResetBall()
			if got := math.Copysign(1, s.State().Ball.DX); got != tc.dir {
				t.Errorf("expected dx sign %v, got %v", tc.dir, got)
			}
		})
	}
}

func TestStepZeroKeepsBallInPlace(t *testing.T) {
	s, _, clock := newTestSim(t)
	s.state.Ball.DX, s.state.Ball.DY = 4, 3
	before := s.State().Ball

	clock.Advance(time.Second)
	frame, ok := s.Step(0)
	if !ok {
		t.Fatal("step failed")
	}

	after := s.State().Ball
	if after.X != before.X || after.Y != before.Y {
		t.Errorf("ball moved on zero delta: (%v, %v) -> (%v, %v)", before.X, before.Y, after.X, after.Y)
	}
	// Reaction gating follows the clock, not the delta
	if !hasEvent(frame.Events, EventRetarget) {
		t.Error("expected the AI to retarget on wall-clock time during a zero step")
	}
}

func TestStepRejectsBadDelta(t *testing.T) {
	for _, delta := range []float64{-16, math.NaN(), math.Inf(1)} {
		s, _, _ := newTestSim(t)
		before := s.State().Ball
		s.Step(delta)
		after := s.State().Ball
		if after.X != before.X || after.Y != before.Y {
			t.Errorf("delta %v moved the ball", delta)
		}
	}
}

func TestStepScalesWithDelta(t *testing.T) {
	s, _, _ := newTestSim(t)
	s.state.Ball.DX, s.state.Ball.DY = 4, 2

	s.Step(s.referenceStepMs / 2)

	b := s.State().Ball
	if math.Abs(b.X-302) > 1e-9 || math.Abs(b.Y-201) > 1e-9 {
		t.Errorf("half step should move (2, 1), ball at (%v, %v)", b.X, b.Y)
	}
}

func TestWallBounce(t *testing.T) {
	s, _, _ := newTestSim(t)
	s.state.Ball.X, s.state.Ball.Y = 300, 390
	s.state.Ball.DX, s.state.Ball.DY = 0, 4

	frame, _ := s.Step(s.referenceStepMs)

	b := s.State().Ball
	if b.Y != 393 || b.DY != -4 {
		t.Errorf("expected ball pinned at 393 moving up, got y=%v dy=%v", b.Y, b.DY)
	}
	if !hasEvent(frame.Events, EventWallBounce) {
		t.Error("expected a wall bounce event")
	}
}

func TestPlayerTargetClamped(t *testing.T) {
	tests := []struct {
		target float64
		want   float64
	}{
		{200, 160},
		{10, 0},
		{1000, 320},
	}
	for _, tc := range tests {
		s, _, _ := newTestSim(t)
		if !s.SetPlayerTarget(tc.target) {
			t.Fatalf("target %v rejected", tc.target)
		}
		s.Step(0)
		if got := s.State().Player.Y; got != tc.want {
			t.Errorf("target %v: player y=%v, want %v", tc.target, got, tc.want)
		}
	}

	s, _, _ := newTestSim(t)
	if s.SetPlayerTarget(math.NaN()) {
		t.Error("NaN target accepted")
	}
}

func TestPlayerPaddleReturnsBall(t *testing.T) {
	s, _, _ := newTestSim(t)
	s.state.Ball.X, s.state.Ball.Y = 20, 200
	s.state.Ball.DX, s.state.Ball.DY, s.state.Ball.Speed = -4, 0, 4
	s.state.Player.Y = 160

	frame, _ := s.Step(s.referenceStepMs)

	b := s.State().Ball
	if b.DX <= 0 {
		t.Fatalf("expected ball heading right, dx=%v", b.DX)
	}
	if b.X != 17.5 {
		t.Errorf("expected ball placed clear at 17.5, got %v", b.X)
	}
	if s.State().RallyHits != 1 || frame.RallyHits != 1 {
		t.Errorf("expected one rally hit, got %d", s.State().RallyHits)
	}
	if !hasEvent(frame.Events, EventPaddleHit) {
		t.Error("expected a paddle hit event")
	}
}

func TestAIPassThroughAfterMiss(t *testing.T) {
	s, rng, clock := newTestSim(t)
	now := clock.Now()
	s.state.AI.Y = 160
	s.state.AIMind.TargetY = 200
	s.state.AIMind.LastReaction = now
	s.state.AIMind.LastMiss = now.Add(-100 * time.Millisecond)
	s.state.Ball = components.Ball{X: 590, Y: 200, Radius: 7, DX: 4, DY: 0, Speed: 4}
	rng.script(0.5) // below the 0.8 pass-through chance

	frame, _ := s.Step(s.referenceStepMs)

	b := s.State().Ball
	if b.X != 582.5 {
		t.Errorf("expected ball at ai.x - r - 0.5 = 582.5, got %v", b.X)
	}
	if b.DX != 4 || b.DY != 0 {
		t.Errorf("expected velocity unchanged, got (%v, %v)", b.DX, b.DY)
	}
	if !hasEvent(frame.Events, EventPassThrough) || hasEvent(frame.Events, EventPaddleHit) {
		t.Errorf("expected pass-through without a paddle hit, events=%v", frame.Events)
	}

	for i := 0; i < 10 && s.Score().Player == 0; i++ {
		s.Step(s.referenceStepMs)
	}
	if got := s.Score(); got.Player != 1 || got.AI != 0 {
		t.Errorf("expected player to score once, got %+v", got)
	}
	if s.State().PassingThrough {
		t.Error("pass-through should clear on the next serve")
	}
}

func TestAIBlocksWithoutRecentMiss(t *testing.T) {
	s, rng, clock := newTestSim(t)
	s.state.AI.Y = 160
	s.state.AIMind.TargetY = 200
	s.state.AIMind.LastReaction = clock.Now()
	s.state.Ball = components.Ball{X: 580, Y: 200, Radius: 7, DX: 4, DY: 0, Speed: 4}
	rng.script(0.0)

	s.Step(s.referenceStepMs)

	if b := s.State().Ball; b.DX >= 0 {
		t.Errorf("expected AI to return the ball, dx=%v", b.DX)
	}
}

func TestResizeEndsPassThrough(t *testing.T) {
	s, rng, clock := newTestSim(t)
	s.state.AI.Y = 160
	s.state.AIMind.TargetY = 200
	s.state.AIMind.LastReaction = clock.Now()
	s.state.AIMind.LastMiss = clock.Now().Add(-100 * time.Millisecond)
	s.state.Ball = components.Ball{X: 590, Y: 200, Radius: 7, DX: 4, DY: 0, Speed: 4}
	rng.script(0.5)

	s.Step(s.referenceStepMs)
	if !s.State().PassingThrough {
		t.Fatal("expected the ball to pass through the AI paddle")
	}

	if !s.Resize(600, 400) {
		t.Fatal("resize to 600x400 rejected")
	}
	if s.State().PassingThrough {
		t.Fatal("resize recentered the ball but kept the pass-through")
	}

	// Past the miss window the AI must block the recentered ball again.
	clock.Advance(time.Second)
	s.state.AI.Y = 160
	s.state.AIMind.TargetY = 200
	s.state.AIMind.LastReaction = clock.Now()
	s.state.Ball = components.Ball{X: 580, Y: 200, Radius: 7, DX: 4, DY: 0, Speed: 4}

	frame, _ := s.Step(s.referenceStepMs)

	if b := s.State().Ball; b.DX >= 0 {
		t.Errorf("expected AI to return the ball, dx=%v", b.DX)
	}
	if !hasEvent(frame.Events, EventPaddleHit) {
		t.Error("expected an AI paddle hit")
	}
	if got := s.Score(); got.Player != 0 || got.AI != 0 {
		t.Errorf("expected no point, got %+v", got)
	}
}

func TestLeftExitScoresForAI(t *testing.T) {
	s, _, _ := newTestSim(t)
	s.state.Player.Y = 0
	s.state.Ball = components.Ball{X: 10, Y: 200, Radius: 7, DX: -4, DY: 0, Speed: 4}

	frame, _ := s.Step(s.referenceStepMs)

	if got := s.Score(); got.AI != 1 || got.Player != 0 {
		t.Errorf("expected AI to score exactly once, got %+v", got)
	}
	b := s.State().Ball
	if b.X != 300 || b.Y != 200 {
		t.Errorf("expected reset to center, got (%v, %v)", b.X, b.Y)
	}
	var scorer components.Side = 255
	for _, e := range frame.Events {
		if e.Kind == EventPoint {
			scorer = e.Side
		}
	}
	if scorer != components.SideRight {
		t.Errorf("expected point event for the AI, got %v", scorer)
	}
	if !hasEvent(frame.Events, EventServe) {
		t.Error("expected a serve after the point")
	}
}

func TestRetargetCadenceDuringPlay(t *testing.T) {
	s, _, clock := newTestSim(t)

	var last time.Time
	retargets := 0
	for i := 0; i < 600; i++ {
		clock.Advance(10 * time.Millisecond)
		frame, _ := s.Step(10)
		if !hasEvent(frame.Events, EventRetarget) {
			continue
		}
		now := clock.Now()
		if !last.IsZero() && now.Sub(last) <= 120*time.Millisecond {
			t.Fatalf("retarget %v after the previous one", now.Sub(last))
		}
		last = now
		retargets++
	}
	if retargets == 0 {
		t.Error("expected the AI to retarget during play")
	}
}

func TestLongRunInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	clock := systems.NewManualClock(epoch)
	cfg := config.Default()
	s := NewSimulation(cfg, rng, clock)
	s.Resize(600, 400)

	targets := []float64{-500, 0, 37, 200, 399, 1e6}
	for i := 0; i < 20000; i++ {
		if i%13 == 0 {
			s.SetPlayerTarget(targets[(i/13)%len(targets)])
		}
		delta := 5 + rng.Float64()*30
		clock.Advance(time.Duration(delta * float64(time.Millisecond)))

		prevSpeed := s.State().Ball.Speed
		frame, ok := s.Step(delta)
		if !ok {
			t.Fatal("step failed")
		}

		st := s.State()
		if st.Player.Y < 0 || st.Player.Y > 320 {
			t.Fatalf("step %d: player y=%v out of bounds", i, st.Player.Y)
		}
		if st.AI.Y < 0 || st.AI.Y > 320 {
			t.Fatalf("step %d: ai y=%v out of bounds", i, st.AI.Y)
		}
		for _, e := range frame.Events {
			if e.Kind != EventPaddleHit {
				continue
			}
			if e.Speed > cfg.Physics.MaxSpeed+1e-9 {
				t.Fatalf("step %d: speed %v above cap", i, e.Speed)
			}
			if e.Speed < prevSpeed-1e-9 {
				t.Fatalf("step %d: speed dropped from %v to %v", i, prevSpeed, e.Speed)
			}
		}
	}
	if s.Score().Total() == 0 {
		t.Error("expected points to be scored over a long run")
	}
}

func TestSetAISettings(t *testing.T) {
	s, _, _ := newTestSim(t)
	harder := s.AISettings()
	harder.MissChance = 0

	if !s.SetAISettings(harder) {
		t.Fatal("valid settings rejected")
	}
	if s.AISettings().MissChance != 0 {
		t.Error("settings not applied")
	}

	bad := harder
	bad.MissChance = 2
	if s.SetAISettings(bad) {
		t.Error("miss chance 2 accepted")
	}
	if s.AISettings() != harder {
		t.Error("rejected settings leaked into the controller")
	}
}
