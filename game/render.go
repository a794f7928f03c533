package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pong/effects"
	"github.com/pthm-cable/pong/telemetry"
	"github.com/pthm-cable/pong/ui"
)

var (
	fieldColor  = rl.Color{R: 10, G: 14, B: 20, A: 255}
	netColor    = rl.Color{R: 60, G: 70, B: 80, A: 255}
	playerColor = rl.Color{R: 100, G: 200, B: 255, A: 255}
	aiColor     = rl.Color{R: 255, G: 120, B: 100, A: 255}
)

const controlsText = "[Mouse/Touch] or [H/B, Up/Down] move  [Space/P] pause  [Tab] panels  [F3] perf"

// Draw renders the last frame, sparks and UI.
func (g *Game) Draw() {
	g.perf.Phase(telemetry.PhaseRender)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.drawField()
	g.drawSparks()
	g.drawUI()

	rl.EndDrawing()
	g.perf.End(g.stepped)
}

// drawField draws the playfield, net, paddles and ball.
func (g *Game) drawField() {
	f := g.frame
	if !f.Field.Valid() {
		return
	}

	rl.DrawRectangle(0, 0, int32(f.Field.Width), int32(f.Field.Height), fieldColor)

	// Dashed net
	cx := int32(f.Field.Width / 2)
	for y := int32(0); y < int32(f.Field.Height); y += 20 {
		rl.DrawRectangle(cx-1, y, 2, 10, netColor)
	}

	rl.DrawRectangle(int32(f.Player.X), int32(f.Player.Y), int32(f.Player.W), int32(f.Player.H), playerColor)
	rl.DrawRectangle(int32(f.AI.X), int32(f.AI.Y), int32(f.AI.W), int32(f.AI.H), aiColor)
	rl.DrawCircle(int32(f.Ball.X), int32(f.Ball.Y), float32(f.Ball.R), rl.White)
}

// drawSparks draws every live spark, fading with its remaining life.
func (g *Game) drawSparks() {
	g.effects.Each(func(pos effects.Position, spark effects.Spark) {
		fade := spark.Fade()

		var color rl.Color
		switch spark.Kind {
		case effects.SparkHit:
			// Warm white
			color = rl.Color{R: 255, G: 240, B: 200, A: uint8(fade * 230)}
		case effects.SparkWall:
			color = rl.Color{R: 120, G: 160, B: 220, A: uint8(fade * 180)}
		case effects.SparkPoint:
			color = rl.Color{R: 255, G: 210, B: 60, A: uint8(fade * 255)}
		case effects.SparkPassThrough:
			color = rl.Color{R: 200, G: 80, B: 200, A: uint8(fade * 200)}
		}

		size := spark.Size * fade
		if size < 0.5 {
			size = 0.5
		}
		rl.DrawCircle(int32(pos.X), int32(pos.Y), size, color)
	})
}

// drawUI draws the HUD, optional panels and the pause button.
func (g *Game) drawUI() {
	g.hud.Draw(ui.HUDData{
		Score:        g.frame.Score,
		RallyHits:    g.frame.RallyHits,
		BallSpeed:    g.frame.BallSpeed,
		FPS:          rl.GetFPS(),
		Paused:       g.loop.Paused(),
		ScreenWidth:  g.screenWidth,
		ScreenHeight: g.screenHeight,
	})
	g.hud.DrawControls(g.screenHeight, controlsText)

	if g.showPanels {
		g.statsPanel.Draw(g.session.LastWindow())
		b := g.statsPanel.Bounds()
		g.tuningPanel.SetPosition(int32(b.X), int32(b.Y+b.Height)+10)
		if settings, changed := g.tuningPanel.Draw(g.sim.AISettings()); changed {
			g.applyAISettings(settings)
		}
	}

	if g.showPerf {
		g.perfPanel.SetPosition(g.screenWidth-190, 50)
		g.perfPanel.Draw(g.perf.Profile())
	}

	if g.hud.PauseButton(g.screenWidth, g.loop.Paused()) {
		g.TogglePause()
	}
}
