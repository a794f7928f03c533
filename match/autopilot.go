package match

import (
	"math"
	"time"

	"github.com/pthm-cable/pong/sim"
	"github.com/pthm-cable/pong/systems"
)

// PilotSettings tunes the scripted left player.
type PilotSettings struct {
	ReactionTime time.Duration // minimum wall-clock gap between re-aims
	Jitter       float64       // max aim error in px
	Speed        float64       // max paddle travel per reference step
}

// DefaultPilot returns a pilot that moves like a keyboard player holding a
// key down and misjudges by up to half a paddle.
func DefaultPilot(paddleHeight, playerSpeed float64) PilotSettings {
	return PilotSettings{
		ReactionTime: 150 * time.Millisecond,
		Jitter:       paddleHeight * 0.55,
		Speed:        playerSpeed,
	}
}

// Autopilot drives the player paddle in headless runs. It re-aims on the
// same wall-clock cadence as the AI and travels at a bounded speed.
type Autopilot struct {
	settings PilotSettings
	rng      systems.Rand

	lastReaction time.Time
	aim          float64
	aimed        bool
}

// NewAutopilot creates a pilot.
func NewAutopilot(settings PilotSettings, rng systems.Rand) *Autopilot {
	return &Autopilot{settings: settings, rng: rng}
}

// Target returns the paddle center the player should request this step.
func (a *Autopilot) Target(now time.Time, st *sim.SimulationState, deltaFactor float64) float64 {
	center := st.Player.CenterY()

	if !a.aimed || now.Sub(a.lastReaction) > a.settings.ReactionTime {
		a.lastReaction = now
		a.aimed = true
		if st.Ball.DX < 0 {
			a.aim = st.Ball.Y + (a.rng.Float64()*2-1)*a.settings.Jitter
		} else {
			a.aim = st.Field.Height / 2
		}
	}

	step := a.settings.Speed * deltaFactor
	diff := a.aim - center
	if math.Abs(diff) > step {
		diff = math.Copysign(step, diff)
	}
	return center + diff
}
