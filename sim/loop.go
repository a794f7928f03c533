package sim

import "time"

// Renderer receives each stepped frame. It only reads.
type Renderer interface {
	Render(Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

// Render calls f.
func (f RendererFunc) Render(frame Frame) {
	f(frame)
}

// Loop drives a Simulation once per host frame. It clamps the frame delta,
// honors pause and hands the result to the renderer.
type Loop struct {
	sim      *Simulation
	renderer Renderer

	maxDeltaMs  float64
	paused      bool
	lastFrame   time.Time
	lastDeltaMs float64
}

// NewLoop creates a loop. renderer may be nil.
func NewLoop(sim *Simulation, renderer Renderer, maxDeltaMs float64) *Loop {
	return &Loop{
		sim:        sim,
		renderer:   renderer,
		maxDeltaMs: maxDeltaMs,
	}
}

// SetRenderer replaces the renderer. nil disables rendering.
func (l *Loop) SetRenderer(r Renderer) {
	l.renderer = r
}

// TogglePause flips the pause flag and returns the new value.
func (l *Loop) TogglePause() bool {
	l.paused = !l.paused
	return l.paused
}

// Paused reports whether the loop is paused.
func (l *Loop) Paused() bool {
	return l.paused
}

// Tick is called once per host frame with the host's frame time. The first
// tick and the first tick after a pause see only the time since the
// previous frame, never the whole paused span.
func (l *Loop) Tick(now time.Time) (Frame, bool) {
	var deltaMs float64
	if !l.lastFrame.IsZero() {
		deltaMs = float64(now.Sub(l.lastFrame)) / float64(time.Millisecond)
	}
	l.lastFrame = now
	return l.Advance(deltaMs)
}

// Advance steps the simulation by deltaMs (clamped) and renders the result.
// Returns false when paused or when the simulation could not step.
func (l *Loop) Advance(deltaMs float64) (Frame, bool) {
	if l.paused {
		return Frame{}, false
	}
	l.lastDeltaMs = l.ClampDelta(deltaMs)
	frame, ok := l.sim.Step(l.lastDeltaMs)
	if !ok {
		return frame, false
	}
	if l.renderer != nil {
		l.renderer.Render(frame)
	}
	return frame, true
}

// LastDeltaMs returns the clamped delta of the most recent step.
func (l *Loop) LastDeltaMs() float64 {
	return l.lastDeltaMs
}

// ClampDelta bounds a frame delta to [0, maxDeltaMs].
func (l *Loop) ClampDelta(deltaMs float64) float64 {
	if !(deltaMs > 0) {
		return 0
	}
	if deltaMs > l.maxDeltaMs {
		return l.maxDeltaMs
	}
	return deltaMs
}

// Simulation returns the driven simulation.
func (l *Loop) Simulation() *Simulation {
	return l.sim
}
