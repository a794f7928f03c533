// Package sim runs the pong simulation: ball integration, paddle collisions,
// the AI paddle, scoring and the frame loop.
package sim

import (
	"math"
	"time"

	"github.com/pthm-cable/pong/components"
	"github.com/pthm-cable/pong/config"
	"github.com/pthm-cable/pong/systems"
)

// SimulationState is everything that changes during a session.
type SimulationState struct {
	Field  components.Playfield
	Player components.Paddle
	AI     components.Paddle
	Ball   components.Ball
	Score  components.Score
	AIMind systems.AIState

	// Pending player request, applied on the next step
	PlayerTarget    float64
	HasPlayerTarget bool

	// PassingThrough is set once the AI lets the ball through; the AI
	// paddle is ignored until the point is scored.
	PassingThrough bool

	RallyHits int
	Steps     uint64
}

// Rect is an axis-aligned rectangle ready for drawing.
type Rect struct {
	X, Y, W, H float64
}

// Circle is a ball ready for drawing.
type Circle struct {
	X, Y, R float64
}

// Frame is the read-only snapshot handed to renderers after a step.
// Events is only valid until the next call to Step.
type Frame struct {
	Field     components.Playfield
	Player    Rect
	AI        Rect
	Ball      Circle
	BallSpeed float64
	Score     components.Score
	RallyHits int
	Events    []Event
}

// Simulation owns a SimulationState and advances it.
type Simulation struct {
	state SimulationState

	ai        *systems.AIController
	collision systems.CollisionParams
	rng       systems.Rand
	clock     systems.Clock

	referenceStepMs float64
	restartSpeed    float64
	launchAngle     float64
	served          bool

	events  []Event
	flushed bool // events were handed out and are cleared before the next emit
}

// NewSimulation creates an unsized simulation. Nothing moves until the
// first valid Resize.
func NewSimulation(cfg *config.Config, rng systems.Rand, clock systems.Clock) *Simulation {
	s := &Simulation{
		ai: systems.NewAIController(
			systems.AISettings{
				ErrorMargin:  cfg.AI.ErrorMargin,
				ReactionTime: cfg.Derived.ReactionTime,
				MissChance:   cfg.AI.MissChance,
				SpeedFactor:  cfg.AI.SpeedFactor,
			},
			systems.AITuning{
				CloseThreshold:    cfg.AI.CloseThreshold,
				MissOffsetFactor:  cfg.AI.MissOffsetFactor,
				MissWindow:        cfg.Derived.MissWindow,
				PassThroughChance: cfg.AI.PassThroughChance,
			},
			rng,
		),
		collision: systems.CollisionParams{
			SpeedGain:   cfg.Physics.SpeedGain,
			MaxSpeed:    cfg.Physics.MaxSpeed,
			AngleFactor: cfg.Physics.AngleFactor,
			Clearance:   cfg.Physics.Clearance,
		},
		rng:             rng,
		clock:           clock,
		referenceStepMs: cfg.Derived.ReferenceStepMs,
		restartSpeed:    cfg.Ball.RestartSpeed,
		launchAngle:     cfg.Ball.LaunchAngle,
		events:          make([]Event, 0, 8),
	}

	s.state.Player = components.Paddle{
		Side:   components.SideLeft,
		Width:  cfg.Paddle.Width,
		Height: cfg.Paddle.Height,
		Speed:  cfg.Paddle.PlayerSpeed,
	}
	s.state.AI = components.Paddle{
		Side:   components.SideRight,
		Width:  cfg.Paddle.Width,
		Height: cfg.Paddle.Height,
		Speed:  cfg.Paddle.AISpeed,
	}
	s.state.Ball = components.Ball{Radius: cfg.Ball.Radius}

	return s
}

// Resize sets the field size and recenters paddles and ball.
// Returns false and changes nothing for non-positive or non-finite sizes.
func (s *Simulation) Resize(width, height float64) bool {
	field := components.Playfield{Width: width, Height: height}
	if !field.Valid() {
		return false
	}
	st := &s.state
	st.Field = field

	st.Player.X = 0
	st.Player.Y = systems.Clamp(height/2-st.Player.Height/2, 0, st.Player.MaxY(height))
	st.AI.X = width - st.AI.Width
	st.AI.Y = systems.Clamp(height/2-st.AI.Height/2, 0, st.AI.MaxY(height))

	st.Ball.X, st.Ball.Y = field.Center()
	st.PassingThrough = false
	st.HasPlayerTarget = false

	half := st.AI.Height / 2
	if st.AIMind.TargetY == 0 {
		st.AIMind.TargetY = height / 2
	}
	st.AIMind.TargetY = systems.Clamp(st.AIMind.TargetY, half, height-half)

	if !s.served {
		s.ResetBall()
		s.served = true
	}
	return true
}

// SetPlayerTarget requests the player paddle center to move to y.
// The request is clamped to the field on the next step.
func (s *Simulation) SetPlayerTarget(y float64) bool {
	if !systems.Finite(y) {
		return false
	}
	s.state.PlayerTarget = y
	s.state.HasPlayerTarget = true
	return true
}

// ResetBall serves a new ball from the field center.
func (s *Simulation) ResetBall() {
	st := &s.state
	b := &st.Ball

	b.X, b.Y = st.Field.Center()
	b.Speed = s.restartSpeed

	angle := s.rng.Float64()*2*s.launchAngle - s.launchAngle
	dir := -1.0
	if s.rng.Float64() > 0.5 {
		dir = 1.0
	}
	b.DX = dir * math.Abs(b.Speed*math.Cos(angle))
	b.DY = b.Speed * math.Sin(angle)

	st.PassingThrough = false
	st.RallyHits = 0
	s.emit(Event{Kind: EventServe, X: b.X, Y: b.Y, Speed: b.Speed})
}

// Step advances the simulation by deltaMs of elapsed time. It returns false
// without changing anything while the field is unsized.
func (s *Simulation) Step(deltaMs float64) (Frame, bool) {
	s.clearEvents()
	if !s.state.Field.Valid() {
		return s.handOut(), false
	}
	if !systems.Finite(deltaMs) || deltaMs < 0 {
		deltaMs = 0
	}
	deltaFactor := deltaMs / s.referenceStepMs
	now := s.clock.Now()

	s.applyPlayerTarget()
	s.moveBall(deltaFactor)
	s.bounceWalls()
	s.updateAI(now, deltaFactor)
	s.collidePlayer()
	s.collideAI(now)
	s.checkScore()

	s.state.Steps++
	return s.handOut(), true
}

// applyPlayerTarget moves the player paddle to the pending target.
func (s *Simulation) applyPlayerTarget() {
	st := &s.state
	if !st.HasPlayerTarget {
		return
	}
	p := &st.Player
	p.Y = systems.Clamp(st.PlayerTarget-p.Height/2, 0, p.MaxY(st.Field.Height))
	st.HasPlayerTarget = false
}

// moveBall integrates the ball position.
func (s *Simulation) moveBall(deltaFactor float64) {
	b := &s.state.Ball
	b.X += b.DX * deltaFactor
	b.Y += b.DY * deltaFactor
}

// bounceWalls reflects the ball off the top and bottom edges.
func (s *Simulation) bounceWalls() {
	b := &s.state.Ball
	h := s.state.Field.Height

	if b.Y+b.Radius > h {
		b.Y = h - b.Radius
		b.DY = -b.DY
		s.emit(Event{Kind: EventWallBounce, X: b.X, Y: h, Speed: b.Speed})
	}
	if b.Y-b.Radius < 0 {
		b.Y = b.Radius
		b.DY = -b.DY
		s.emit(Event{Kind: EventWallBounce, X: b.X, Y: 0, Speed: b.Speed})
	}
}

// updateAI runs the AI controller for the right paddle.
func (s *Simulation) updateAI(now time.Time, deltaFactor float64) {
	st := &s.state
	d := s.ai.Update(now, &st.AIMind, &st.Ball, &st.AI, st.Field, deltaFactor)
	if d.Retargeted {
		s.emit(Event{Kind: EventRetarget, Side: components.SideRight, X: st.AI.X, Y: d.TargetY})
	}
	if d.MissInjected {
		s.emit(Event{Kind: EventMissInjected, Side: components.SideRight, X: st.AI.X, Y: d.TargetY})
	}
}

// collidePlayer bounces the ball off the player paddle.
func (s *Simulation) collidePlayer() {
	st := &s.state
	if !systems.Detect(&st.Ball, &st.Player) {
		return
	}
	s.bounce(&st.Player)
}

// collideAI bounces the ball off the AI paddle unless a recent deliberate
// miss lets it through.
func (s *Simulation) collideAI(now time.Time) {
	st := &s.state
	if st.PassingThrough || !systems.Detect(&st.Ball, &st.AI) {
		return
	}
	if s.ai.ShouldPassThrough(now, &st.AIMind) {
		systems.PlaceClear(&st.Ball, &st.AI, components.SideRight, s.collision.Clearance)
		st.PassingThrough = true
		s.emit(Event{Kind: EventPassThrough, Side: components.SideRight, X: st.Ball.X, Y: st.Ball.Y, Speed: st.Ball.Speed})
		return
	}
	s.bounce(&st.AI)
}

func (s *Simulation) bounce(p *components.Paddle) {
	st := &s.state
	impact := systems.Resolve(&st.Ball, p, p.Side, s.collision)
	systems.PlaceClear(&st.Ball, p, p.Side, s.collision.Clearance)
	st.RallyHits++
	s.emit(Event{Kind: EventPaddleHit, Side: p.Side, X: st.Ball.X, Y: st.Ball.Y, Speed: impact.SpeedAfter})
}

// checkScore awards a point when the ball leaves through a side edge.
func (s *Simulation) checkScore() {
	st := &s.state
	b := &st.Ball

	var scorer components.Side
	switch {
	case b.X-b.Radius < 0:
		scorer = components.SideRight
	case b.X+b.Radius > st.Field.Width:
		scorer = components.SideLeft
	default:
		return
	}

	st.Score.Award(scorer)
	s.emit(Event{Kind: EventPoint, Side: scorer, X: b.X, Y: b.Y, Speed: b.Speed})
	s.ResetBall()
}

func (s *Simulation) emit(e Event) {
	s.clearEvents()
	s.events = append(s.events, e)
}

func (s *Simulation) clearEvents() {
	if s.flushed {
		s.events = s.events[:0]
		s.flushed = false
	}
}

// handOut returns the frame and marks its events as delivered. Events raised
// between steps (the first serve in Resize) ride along with the next frame.
func (s *Simulation) handOut() Frame {
	f := s.Frame()
	s.flushed = true
	return f
}

// Frame returns the current renderable snapshot.
func (s *Simulation) Frame() Frame {
	st := &s.state
	return Frame{
		Field:     st.Field,
		Player:    Rect{X: st.Player.X, Y: st.Player.Y, W: st.Player.Width, H: st.Player.Height},
		AI:        Rect{X: st.AI.X, Y: st.AI.Y, W: st.AI.Width, H: st.AI.Height},
		Ball:      Circle{X: st.Ball.X, Y: st.Ball.Y, R: st.Ball.Radius},
		BallSpeed: st.Ball.Speed,
		Score:     st.Score,
		RallyHits: st.RallyHits,
		Events:    s.events,
	}
}

// AISettings returns the AI difficulty in effect.
func (s *Simulation) AISettings() systems.AISettings {
	return s.ai.Settings
}

// SetAISettings changes the AI difficulty from the next step on. Invalid
// settings are rejected.
func (s *Simulation) SetAISettings(settings systems.AISettings) bool {
	if !settings.Valid() {
		return false
	}
	s.ai.Settings = settings
	return true
}

// Score returns the current score.
func (s *Simulation) Score() components.Score {
	return s.state.Score
}

// State returns a copy of the full simulation state.
func (s *Simulation) State() SimulationState {
	return s.state
}

// Sized reports whether a valid Resize has been applied.
func (s *Simulation) Sized() bool {
	return s.state.Field.Valid()
}
