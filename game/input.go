package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pong/systems"
	"github.com/pthm-cable/pong/ui"
)

// handleInput processes keyboard, mouse and touch input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyP) {
		g.TogglePause()
	}

	// Panel toggles
	if rl.IsKeyPressed(rl.KeyTab) {
		g.showPanels = !g.showPanels
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		g.showPerf = !g.showPerf
	}

	g.handlePointer()

	// H and Up move the paddle up one step, B and Down move it down
	if keyHit(rl.KeyH) || keyHit(rl.KeyUp) {
		g.nudgePlayer(-1)
	}
	if keyHit(rl.KeyB) || keyHit(rl.KeyDown) {
		g.nudgePlayer(1)
	}
}

// keyHit reports a press or an auto-repeat of a held key.
func keyHit(key int32) bool {
	return rl.IsKeyPressed(key) || rl.IsKeyPressedRepeat(key)
}

// handleResize checks for a new window size and resizes the field to it.
func (g *Game) handleResize() {
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	// A minimized window reports zero size; keep the old field until it returns
	if !g.sim.Resize(float64(w), float64(h)) {
		slog.Debug("resize ignored", "width", w, "height", h)
		return
	}
	g.render(g.sim.Frame())
}

// handlePointer aims the player paddle at the mouse or the first touch
// point, unless the pointer is over a control.
func (g *Game) handlePointer() {
	var pos rl.Vector2
	switch {
	case rl.GetTouchPointCount() > 0:
		pos = rl.GetTouchPosition(0)
	case moved(rl.GetMouseDelta()):
		pos = rl.GetMousePosition()
	default:
		return
	}

	if g.overControls(pos) {
		return
	}
	g.sim.SetPlayerTarget(float64(pos.Y))
}

func moved(delta rl.Vector2) bool {
	return delta.X != 0 || delta.Y != 0
}

// overControls reports whether pos lies over the pause button or a visible
// panel.
func (g *Game) overControls(pos rl.Vector2) bool {
	if rl.CheckCollisionPointRec(pos, ui.PauseButtonBounds(g.screenWidth)) {
		return true
	}
	if !g.showPanels {
		return false
	}
	return rl.CheckCollisionPointRec(pos, g.statsPanel.Bounds()) ||
		rl.CheckCollisionPointRec(pos, g.tuningPanel.Bounds())
}

// nudgePlayer moves the player target one paddle step up (-1) or down (+1)
// from the pending target, or from the paddle when nothing is pending.
func (g *Game) nudgePlayer(dir float64) {
	st := g.sim.State()
	center := st.Player.CenterY()
	if st.HasPlayerTarget {
		half := st.Player.Height / 2
		center = systems.Clamp(st.PlayerTarget, half, st.Field.Height-half)
	}
	g.sim.SetPlayerTarget(center + dir*g.cfg.Paddle.PlayerSpeed)
}
