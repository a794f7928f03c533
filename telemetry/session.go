package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/pong/components"
	"github.com/pthm-cable/pong/sim"
)

// SessionOptions configures a telemetry session.
type SessionOptions struct {
	StatsWindowSec float64
	PerfWindow     int
	MaxSpeed       float64 // rebound cap, for speed_cap bookmarks
	LogStats       bool
	Output         *OutputManager // nil disables CSV output

	// StatsCallback, if set, receives every flushed window.
	StatsCallback func(WindowStats)
}

// Session wires a collector, bookmark detector, frame profiler and output
// manager to one running match.
type Session struct {
	collector *Collector
	bookmarks *BookmarkDetector
	perf      *FrameProfiler
	output    *OutputManager

	logStats      bool
	statsCallback func(WindowStats)

	simTime    float64
	lastWindow WindowStats
}

// NewSession creates a session.
func NewSession(opts SessionOptions) *Session {
	return &Session{
		collector:     NewCollector(opts.StatsWindowSec),
		bookmarks:     NewBookmarkDetector(10, opts.MaxSpeed),
		perf:          NewFrameProfiler(opts.PerfWindow),
		output:        opts.Output,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}
}

// Perf returns the session's frame profiler.
func (s *Session) Perf() *FrameProfiler {
	return s.perf
}

// SimTime returns the simulation seconds observed so far.
func (s *Session) SimTime() float64 {
	return s.simTime
}

// LastWindow returns the most recently flushed window.
func (s *Session) LastWindow() WindowStats {
	return s.lastWindow
}

// Observe records one stepped frame that advanced the match by deltaMs.
func (s *Session) Observe(deltaMs float64, frame sim.Frame) {
	s.simTime += deltaMs / 1000
	s.collector.RecordFrame()
	s.collector.RecordEvents(s.simTime, frame.Events)

	if points := s.collector.DrainPoints(); len(points) > 0 {
		if err := s.output.WritePoints(points); err != nil {
			slog.Error("failed to write points", "error", err)
		}
	}
}

// MaybeFlush flushes the stats window once it has elapsed. Returns true if
// a window was flushed.
func (s *Session) MaybeFlush(score components.Score) bool {
	if !s.collector.ShouldFlush(s.simTime) {
		return false
	}
	s.flush(score)
	return true
}

// Finish flushes a partially filled window.
func (s *Session) Finish(score components.Score) {
	if s.simTime > s.lastWindow.WindowEndSec {
		s.flush(score)
	}
}

func (s *Session) flush(score components.Score) {
	stats := s.collector.Flush(s.simTime, score)
	profile := s.perf.Profile()
	s.lastWindow = stats

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		profile.LogStats()
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(profile, stats.WindowEndSec); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}
