package systems

import (
	"math"
	"time"

	"github.com/pthm-cable/pong/components"
)

// AISettings are the difficulty knobs.
type AISettings struct {
	ErrorMargin  float64       // px of random aim offset
	ReactionTime time.Duration // minimum wall-clock gap between retargets
	MissChance   float64       // probability of a deliberate miss when the ball is close
	SpeedFactor  float64       // multiplier on the paddle speed
}

// Valid reports whether the settings are usable: finite, non-negative and
// MissChance a probability.
func (s AISettings) Valid() bool {
	for _, v := range []float64{s.ErrorMargin, s.MissChance, s.SpeedFactor} {
		if !Finite(v) || v < 0 {
			return false
		}
	}
	return s.ReactionTime >= 0 && s.MissChance <= 1
}

// AITuning holds the fixed constants of the miss model.
type AITuning struct {
	CloseThreshold    float64       // distance from the AI side that counts as close
	MissOffsetFactor  float64       // miss offset in paddle heights
	MissWindow        time.Duration // how long a deliberate miss stays active
	PassThroughChance float64       // chance to skip the bounce inside the window
}

// AIState is the controller memory. Only AIController mutates it.
type AIState struct {
	LastReaction time.Time
	TargetY      float64 // aim point for the paddle center
	LastMiss     time.Time
}

// AIDecision reports what the controller did during one update.
type AIDecision struct {
	Retargeted   bool
	MissInjected bool
	TargetY      float64
}

// AIController drives the right paddle toward a noisy, delayed target.
type AIController struct {
	Settings AISettings
	Tuning   AITuning
	rng      Rand
}

// NewAIController creates a controller drawing from rng.
func NewAIController(settings AISettings, tuning AITuning, rng Rand) *AIController {
	return &AIController{Settings: settings, Tuning: tuning, rng: rng}
}

// Update retargets on the reaction cadence and moves the paddle toward the
// target. now is wall-clock time; deltaFactor scales movement only.
func (c *AIController) Update(now time.Time, state *AIState, ball *components.Ball, paddle *components.Paddle, field components.Playfield, deltaFactor float64) AIDecision {
	var d AIDecision
	half := paddle.Height / 2
	reacting := now.Sub(state.LastReaction) > c.Settings.ReactionTime

	if ball.DX > 0 {
		if reacting {
			offset := (c.rng.Float64()*2 - 1) * c.Settings.ErrorMargin
			state.TargetY = Clamp(ball.Y+offset, half, field.Height-half)
			state.LastReaction = now
			d.Retargeted = true

			near := ball.X > field.Width-c.Tuning.CloseThreshold
			if near && c.rng.Float64() < c.Settings.MissChance {
				dir := -1.0
				if c.rng.Float64() > 0.5 {
					dir = 1.0
				}
				missOffset := dir * (paddle.Height*c.Tuning.MissOffsetFactor + c.rng.Float64()*c.Settings.ErrorMargin)
				state.TargetY = Clamp(ball.Y+missOffset, half, field.Height-half)
				state.LastMiss = now
				d.MissInjected = true
			}
		}
	} else if reacting {
		// Receding ball: drift back to the middle
		state.TargetY = field.Height / 2
		state.LastReaction = now
		d.Retargeted = true
	}

	c.move(state.TargetY, paddle, field, deltaFactor)
	d.TargetY = state.TargetY
	return d
}

// move steps the paddle center toward targetY without overshooting.
func (c *AIController) move(targetY float64, paddle *components.Paddle, field components.Playfield, deltaFactor float64) {
	diff := targetY - paddle.CenterY()
	maxStep := paddle.Speed * c.Settings.SpeedFactor * deltaFactor
	step := sign(diff) * math.Min(math.Abs(diff), maxStep)
	paddle.Y = Clamp(paddle.Y+step, 0, paddle.MaxY(field.Height))
}

// JustMissed reports whether a deliberate miss is still inside its window.
func (c *AIController) JustMissed(now time.Time, state *AIState) bool {
	if state.LastMiss.IsZero() {
		return false
	}
	return now.Sub(state.LastMiss) < c.Tuning.MissWindow
}

// ShouldPassThrough decides at collision time whether the AI lets the ball
// through. The roll is only drawn inside the miss window.
func (c *AIController) ShouldPassThrough(now time.Time, state *AIState) bool {
	if !c.JustMissed(now, state) {
		return false
	}
	return c.rng.Float64() < c.Tuning.PassThroughChance
}
