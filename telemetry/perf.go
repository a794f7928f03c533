package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one timed section of a host frame.
type Phase int

const (
	PhaseSimulation Phase = iota
	PhaseEffects
	PhaseTelemetry
	PhaseRender
	numPhases
)

// Phases lists the frame phases in execution order.
var Phases = []Phase{PhaseSimulation, PhaseEffects, PhaseTelemetry, PhaseRender}

var phaseNames = [numPhases]string{"simulation", "effects", "telemetry", "render"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

type frameSample struct {
	total   time.Duration
	phases  [numPhases]time.Duration
	stepped bool
}

// FrameProfiler times host frames phase by phase over a rolling window.
// A frame is bracketed by Begin and End; Phase switches the running phase.
// A nil profiler ignores every call.
type FrameProfiler struct {
	now func() time.Time

	window  []frameSample
	next    int
	filled  int
	current frameSample

	frameStart time.Time
	phaseStart time.Time
	phase      Phase
	inFrame    bool
	inPhase    bool
}

// NewFrameProfiler keeps the last window frames (60 when window < 1).
func NewFrameProfiler(window int) *FrameProfiler {
	if window < 1 {
		window = 60
	}
	return &FrameProfiler{
		now:    time.Now,
		window: make([]frameSample, window),
	}
}

// Begin starts a frame.
func (p *FrameProfiler) Begin() {
	if p == nil {
		return
	}
	p.frameStart = p.now()
	p.current = frameSample{}
	p.inFrame = true
	p.inPhase = false
}

// Phase closes the running phase, if any, and starts ph.
func (p *FrameProfiler) Phase(ph Phase) {
	if p == nil || !p.inFrame || ph < 0 || ph >= numPhases {
		return
	}
	now := p.now()
	p.closePhase(now)
	p.phase = ph
	p.phaseStart = now
	p.inPhase = true
}

// End closes the frame. stepped reports whether the match advanced during
// it; paused frames are counted but left out of the phase breakdown.
func (p *FrameProfiler) End(stepped bool) {
	if p == nil || !p.inFrame {
		return
	}
	now := p.now()
	p.closePhase(now)
	p.current.total = now.Sub(p.frameStart)
	p.current.stepped = stepped

	p.window[p.next] = p.current
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}
	p.inFrame = false
}

func (p *FrameProfiler) closePhase(now time.Time) {
	if p.inPhase {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// PhaseTiming is the average cost of one phase over stepped frames.
type PhaseTiming struct {
	Phase Phase
	Avg   time.Duration
	Pct   float64 // share of the average stepped frame
}

// FrameProfile summarizes the profiler window.
type FrameProfile struct {
	Frames     int
	Paused     int
	AvgFrame   time.Duration // over every frame
	MaxFrame   time.Duration
	AvgStepped time.Duration // over stepped frames only
	Phases     []PhaseTiming // one entry per Phases, in order
}

// Stepped returns the number of frames that advanced the match.
func (f FrameProfile) Stepped() int {
	return f.Frames - f.Paused
}

// Timing returns the entry for ph.
func (f FrameProfile) Timing(ph Phase) PhaseTiming {
	for _, t := range f.Phases {
		if t.Phase == ph {
			return t
		}
	}
	return PhaseTiming{Phase: ph}
}

// Profile summarizes the frames currently in the window.
func (p *FrameProfiler) Profile() FrameProfile {
	prof := FrameProfile{Phases: make([]PhaseTiming, len(Phases))}
	for i, ph := range Phases {
		prof.Phases[i].Phase = ph
	}
	if p == nil || p.filled == 0 {
		return prof
	}

	var total, stepTotal time.Duration
	var phaseTotal [numPhases]time.Duration
	for _, s := range p.window[:p.filled] {
		total += s.total
		if s.total > prof.MaxFrame {
			prof.MaxFrame = s.total
		}
		if !s.stepped {
			prof.Paused++
			continue
		}
		stepTotal += s.total
		for ph, d := range s.phases {
			phaseTotal[ph] += d
		}
	}
	prof.Frames = p.filled
	prof.AvgFrame = total / time.Duration(prof.Frames)

	stepped := prof.Stepped()
	if stepped == 0 {
		return prof
	}
	prof.AvgStepped = stepTotal / time.Duration(stepped)
	for i, ph := range Phases {
		avg := phaseTotal[ph] / time.Duration(stepped)
		prof.Phases[i].Avg = avg
		if prof.AvgStepped > 0 {
			prof.Phases[i].Pct = float64(avg) / float64(prof.AvgStepped) * 100
		}
	}
	return prof
}

// LogStats logs the profile.
func (f FrameProfile) LogStats() {
	attrs := []any{
		"frames", f.Frames,
		"paused", f.Paused,
		"avg_frame_us", f.AvgFrame.Microseconds(),
		"max_frame_us", f.MaxFrame.Microseconds(),
		"avg_stepped_us", f.AvgStepped.Microseconds(),
	}
	for _, t := range f.Phases {
		attrs = append(attrs, t.Phase.String()+"_pct", int(t.Pct*10)/10.0)
	}
	slog.Info("perf", attrs...)
}

// PerfRow is one perf.csv row: a phase, or the whole frame, for one window.
type PerfRow struct {
	WindowEnd float64 `csv:"window_end"`
	Phase     string  `csv:"phase"`
	AvgUS     int64   `csv:"avg_us"`
	Pct       float64 `csv:"pct"`
	Frames    int     `csv:"frames"`
	Paused    int     `csv:"paused"`
}

// frameRow names the whole-frame row in perf.csv.
const frameRow = "frame"

// ToCSV flattens the profile into a whole-frame row followed by one row per
// phase. windowEnd is the simulation time in seconds.
func (f FrameProfile) ToCSV(windowEnd float64) []PerfRow {
	rows := make([]PerfRow, 0, len(f.Phases)+1)
	rows = append(rows, PerfRow{
		WindowEnd: windowEnd,
		Phase:     frameRow,
		AvgUS:     f.AvgFrame.Microseconds(),
		Pct:       100,
		Frames:    f.Frames,
		Paused:    f.Paused,
	})
	for _, t := range f.Phases {
		rows = append(rows, PerfRow{
			WindowEnd: windowEnd,
			Phase:     t.Phase.String(),
			AvgUS:     t.Avg.Microseconds(),
			Pct:       t.Pct,
			Frames:    f.Stepped(),
		})
	}
	return rows
}
