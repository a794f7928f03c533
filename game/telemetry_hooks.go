package game

import (
	"log/slog"

	"github.com/pthm-cable/pong/sim"
	"github.com/pthm-cable/pong/systems"
)

// observe feeds a stepped frame to the telemetry session and flushes the
// stats window once it has elapsed.
func (g *Game) observe(frame sim.Frame) {
	g.session.Observe(g.loop.LastDeltaMs(), frame)
	g.session.MaybeFlush(frame.Score)
}

// applyAISettings hands tuned difficulty to the simulation.
func (g *Game) applyAISettings(settings systems.AISettings) {
	if !g.sim.SetAISettings(settings) {
		slog.Warn("rejected AI settings", "settings", settings)
		return
	}
	slog.Debug("AI settings changed",
		"error_margin", settings.ErrorMargin,
		"reaction_time", settings.ReactionTime,
		"miss_chance", settings.MissChance,
		"speed_factor", settings.SpeedFactor,
	)
}
