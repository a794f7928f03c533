// Package game hosts a pong match in a raylib window.
package game

import (
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pong/components"
	"github.com/pthm-cable/pong/config"
	"github.com/pthm-cable/pong/effects"
	"github.com/pthm-cable/pong/sim"
	"github.com/pthm-cable/pong/systems"
	"github.com/pthm-cable/pong/telemetry"
	"github.com/pthm-cable/pong/ui"
)

// Options configures the game.
type Options struct {
	Seed           int64
	LogStats       bool    // Output stats via slog
	StatsWindowSec float64 // Stats window in simulation seconds (0 = use config)
	OutputDir      string  // Directory for CSV and config output (empty = disabled)
}

// Game owns the simulation, its loop driver and everything drawn around it.
type Game struct {
	cfg *config.Config

	sim     *sim.Simulation
	loop    *sim.Loop
	frame   sim.Frame // last rendered frame
	stepped bool      // whether the last Update advanced the match

	effects *effects.System

	session *telemetry.Session
	perf    *telemetry.FrameProfiler
	output  *telemetry.OutputManager

	hud         *ui.HUD
	perfPanel   *ui.PerfPanel
	statsPanel  *ui.MatchStatsPanel
	tuningPanel *ui.AITuningPanel

	showPanels bool
	showPerf   bool

	screenWidth  int32
	screenHeight int32
}

// NewGame creates a game sized to the current window. The window must be
// open.
func NewGame(opts Options) *Game {
	cfg := config.Cfg()

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:          cfg,
		sim:          sim.NewSimulation(cfg, rand.New(rand.NewSource(opts.Seed)), systems.SystemClock{}),
		effects:      effects.New(cfg.Effects, rand.New(rand.NewSource(opts.Seed+1))),
		hud:          ui.NewHUD(),
		perfPanel:    ui.NewPerfPanel(10, 50),
		statsPanel:   ui.NewMatchStatsPanel(10, 50, 220),
		tuningPanel:  ui.NewAITuningPanel(10, 200, 220),
		screenWidth:  int32(rl.GetScreenWidth()),
		screenHeight: int32(rl.GetScreenHeight()),
	}
	g.loop = sim.NewLoop(g.sim, sim.RendererFunc(g.render), cfg.Physics.MaxDeltaMs)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.output = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	g.session = telemetry.NewSession(telemetry.SessionOptions{
		StatsWindowSec: statsWindow,
		PerfWindow:     cfg.Telemetry.PerfCollectorWindow,
		MaxSpeed:       cfg.Physics.MaxSpeed,
		LogStats:       opts.LogStats,
		Output:         g.output,
	})
	g.perf = g.session.Perf()

	if !g.sim.Resize(float64(g.screenWidth), float64(g.screenHeight)) {
		slog.Warn("window has no usable size yet", "width", g.screenWidth, "height", g.screenHeight)
	}
	g.frame = g.sim.Frame()

	return g
}

// render caches the stepped frame for Draw. Events are dropped since they
// are only valid until the next step.
func (g *Game) render(frame sim.Frame) {
	frame.Events = nil
	g.frame = frame
}

// Update handles input and advances the match by the wall time since the
// previous frame.
func (g *Game) Update() {
	g.perf.Begin()
	g.handleInput()

	g.perf.Phase(telemetry.PhaseSimulation)
	frame, stepped := g.loop.Tick(time.Now())
	g.stepped = stepped

	g.perf.Phase(telemetry.PhaseEffects)
	if stepped {
		g.effects.Spawn(frame.Events)
		g.effects.Update(rl.GetFrameTime())
	}

	g.perf.Phase(telemetry.PhaseTelemetry)
	if stepped {
		g.observe(frame)
	}
}

// TogglePause pauses or resumes the match.
func (g *Game) TogglePause() {
	paused := g.loop.TogglePause()
	slog.Debug("pause toggled", "paused", paused)
}

// Unload flushes telemetry and closes output files.
func (g *Game) Unload() {
	g.session.Finish(g.sim.Score())
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Score returns the current score.
func (g *Game) Score() components.Score {
	return g.sim.Score()
}
