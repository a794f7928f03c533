package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pong/config"
	"github.com/pthm-cable/pong/game"
	"github.com/pthm-cable/pong/match"
	"github.com/pthm-cable/pong/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Play autopilot vs AI without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxPoints := flag.Uint("max-points", 0, "Stop after N points (0 = unlimited, headless defaults to 11 unless -max-frames is set)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Use config stats window if not overridden by CLI
	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	if *headless {
		if err := runHeadless(cfg, rngSeed, *maxPoints, *maxFrames, *logStats, statsWindowSec, *outputDir); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGame(game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: statsWindowSec,
		OutputDir:      *outputDir,
	})
	defer g.Unload()

	slog.Info("starting match", "seed", rngSeed)

	frames := 0
	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
		frames++

		if *maxFrames > 0 && frames >= *maxFrames {
			break
		}
		if *maxPoints > 0 && g.Score().Total() >= *maxPoints {
			slog.Info("max points reached", "player", g.Score().Player, "ai", g.Score().AI)
			break
		}
	}
}

// runHeadless plays the autopilot against the AI until a limit is reached.
func runHeadless(cfg *config.Config, seed int64, maxPoints uint, maxFrames int, logStats bool, statsWindowSec float64, outputDir string) error {
	var output *telemetry.OutputManager
	if outputDir != "" {
		om, err := telemetry.NewOutputManager(outputDir)
		if err != nil {
			return err
		}
		defer om.Close()
		if err := om.WriteConfig(cfg); err != nil {
			return err
		}
		output = om
	}

	session := telemetry.NewSession(telemetry.SessionOptions{
		StatsWindowSec: statsWindowSec,
		PerfWindow:     cfg.Telemetry.PerfCollectorWindow,
		MaxSpeed:       cfg.Physics.MaxSpeed,
		LogStats:       logStats,
		Output:         output,
	})

	opts := match.Options{
		Seed:      seed,
		MaxPoints: maxPoints,
		MaxFrames: maxFrames,
		Telemetry: session,
	}.WithDefaultLimit()

	slog.Info("starting headless match",
		"seed", seed,
		"stats_window", statsWindowSec,
		"max_points", opts.MaxPoints,
		"max_frames", opts.MaxFrames,
	)

	res, err := match.Run(cfg, opts)
	if err != nil {
		return err
	}

	slog.Info("match finished",
		"player", res.Score.Player,
		"ai", res.Score.AI,
		"ai_point_share", res.AIPointShare(),
		"frames", res.Frames,
		"sim_seconds", res.SimSeconds,
		"mean_rally", res.MeanRally(),
		"peak_speed", res.PeakSpeed,
	)
	return nil
}
