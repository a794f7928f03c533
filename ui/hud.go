package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/pong/components"
	"github.com/pthm-cable/pong/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Score        components.Score
	RallyHits    int
	BallSpeed    float64
	FPS          int32
	Paused       bool
	ScreenWidth  int32
	ScreenHeight int32
}

// ScoreText formats the scoreboard line.
func ScoreText(score components.Score) string {
	return fmt.Sprintf("Player %d - %d AI", score.Player, score.AI)
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the scoreboard and status line.
func (h *HUD) Draw(data HUDData) {
	// Scoreboard, centered
	score := ScoreText(data.Score)
	w := rl.MeasureText(score, 24)
	rl.DrawText(score, data.ScreenWidth/2-w/2, 12, 24, rl.White)

	rl.DrawText(
		fmt.Sprintf("Rally: %d | Speed: %.1f | FPS: %d", data.RallyHits, data.BallSpeed, data.FPS),
		10, data.ScreenHeight-45, 14, rl.LightGray,
	)

	if data.Paused {
		text := "PAUSED"
		pw := rl.MeasureText(text, 32)
		rl.DrawText(text, data.ScreenWidth/2-pw/2, data.ScreenHeight/2-16, 32, rl.Yellow)
	}
}

// PauseButton draws the pause toggle in the top-right corner and reports
// whether it was clicked this frame.
func (h *HUD) PauseButton(screenWidth int32, paused bool) bool {
	label := "Pause"
	if paused {
		label = "Resume"
	}
	return gui.Button(PauseButtonBounds(screenWidth), label)
}

// PauseButtonBounds returns where PauseButton draws.
func PauseButtonBounds(screenWidth int32) rl.Rectangle {
	return rl.Rectangle{X: float32(screenWidth) - 90, Y: 10, Width: 80, Height: 26}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-22, 12, rl.Gray)
}

// PerfPanel renders the frame phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition moves the panel.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(profile telemetry.FrameProfile) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Frame: %dus | Paused: %d/%d", profile.AvgFrame.Microseconds(), profile.Paused, profile.Frames), x, y, 14, rl.Yellow)
	y += 16

	for _, t := range profile.Phases {
		pct := t.Pct

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(fmt.Sprintf("%-12s %5.1f%%", t.Phase, pct), x, y, 12, color)
		y += 14
	}
}
