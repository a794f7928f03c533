package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/pong/systems"
	"github.com/pthm-cable/pong/telemetry"
)

// MatchStatsPanel renders the most recent telemetry window.
type MatchStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
}

// NewMatchStatsPanel creates a new match stats panel.
func NewMatchStatsPanel(x, y, width int32) *MatchStatsPanel {
	return &MatchStatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the panel and returns the Y below it.
func (m *MatchStatsPanel) Draw(stats telemetry.WindowStats) int32 {
	r := m.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	m.height = lineHeight*8 + padding*2
	r.DrawPanel(m.x, m.y, m.width, m.height)

	y := m.y + padding
	x := m.x + padding
	y = r.DrawSectionHeader(x, y, "Last Window")

	y = r.DrawLabelValue(x, y, "Points", fmt.Sprintf("%d - %d", stats.PlayerPoints, stats.AIPoints))
	y = r.DrawBar(x, y, "AI share", float32(stats.AIPointShare), m.width-padding*2)
	y = r.DrawLabelValue(x, y, "Rally", fmt.Sprintf("%.1f avg / %.0f p90", stats.RallyMean, stats.RallyP90))
	y = r.DrawLabelValue(x, y, "Peak speed", fmt.Sprintf("%.2f", stats.PeakSpeed))
	y = r.DrawLabelValue(x, y, "AI misses", fmt.Sprintf("%d (%d through)", stats.MissesInjected, stats.PassThroughs))

	return y
}

// Bounds returns the area covered by the last Draw.
func (m *MatchStatsPanel) Bounds() rl.Rectangle {
	return rl.Rectangle{X: float32(m.x), Y: float32(m.y), Width: float32(m.width), Height: float32(m.height)}
}

// AITuningPanel exposes the AI difficulty settings as sliders.
type AITuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
}

// NewAITuningPanel creates a new tuning panel.
func NewAITuningPanel(x, y, width int32) *AITuningPanel {
	return &AITuningPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the sliders and returns the possibly edited settings and
// whether anything changed.
func (a *AITuningPanel) Draw(settings systems.AISettings) (systems.AISettings, bool) {
	r := a.renderer
	padding := r.Theme.Padding
	const rowHeight = 34

	a.height = rowHeight*4 + padding*2 + r.Theme.LineHeight
	r.DrawPanel(a.x, a.y, a.width, a.height)

	x := float32(a.x + padding)
	y := a.y + padding
	y = r.DrawSectionHeader(a.x+padding, y, "AI Difficulty")
	sliderWidth := float32(a.width - padding*2 - 60)

	out := settings
	// slider returns the new and the original value
	slider := func(label, value string, v, lo, hi float32) (float32, float32) {
		rl.DrawText(label, int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
		rl.DrawText(value, int32(x+sliderWidth)+35, y+14, r.Theme.FontSize, r.Theme.ValueColor)
		got := gui.SliderBar(rl.Rectangle{X: x + 30, Y: float32(y + 14), Width: sliderWidth, Height: 14}, "", "", v, lo, hi)
		y += rowHeight
		return got, v
	}

	if got, v := slider("Error margin", fmt.Sprintf("%.0fpx", settings.ErrorMargin), float32(settings.ErrorMargin), 0, 200); got != v {
		out.ErrorMargin = float64(got)
	}
	ms := settings.ReactionTime.Milliseconds()
	if got, v := slider("Reaction time", fmt.Sprintf("%dms", ms), float32(ms), 0, 500); got != v {
		out.ReactionTime = time.Duration(got) * time.Millisecond
	}
	if got, v := slider("Miss chance", fmt.Sprintf("%.2f", settings.MissChance), float32(settings.MissChance), 0, 1); got != v {
		out.MissChance = float64(got)
	}
	if got, v := slider("Speed factor", fmt.Sprintf("%.2f", settings.SpeedFactor), float32(settings.SpeedFactor), 0.2, 2); got != v {
		out.SpeedFactor = float64(got)
	}

	return out, out != settings
}

// Bounds returns the area covered by the last Draw.
func (a *AITuningPanel) Bounds() rl.Rectangle {
	return rl.Rectangle{X: float32(a.x), Y: float32(a.y), Width: float32(a.width), Height: float32(a.height)}
}

// SetPosition moves the panel.
func (a *AITuningPanel) SetPosition(x, y int32) {
	a.x, a.y = x, y
}
