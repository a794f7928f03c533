package telemetry

import "github.com/pthm-cable/pong/components"

// PointRecord describes one finished rally.
type PointRecord struct {
	TimeSec     float64 `csv:"time"`
	Winner      string  `csv:"winner"`
	PlayerScore uint    `csv:"player_score"`
	AIScore     uint    `csv:"ai_score"`
	RallyHits   int     `csv:"rally_hits"`
	DurationSec float64 `csv:"duration"`
	PeakSpeed   float64 `csv:"peak_speed"`
	AIMissed    bool    `csv:"ai_missed"`
	PassThrough bool    `csv:"pass_through"`
}

// RallyStats tracks a single rally from serve to point.
type RallyStats struct {
	StartSec    float64
	PlayerHits  int
	AIHits      int
	PeakSpeed   float64
	AIMissed    bool
	PassThrough bool
}

// Hits returns the total paddle contacts in the rally.
func (r *RallyStats) Hits() int {
	return r.PlayerHits + r.AIHits
}

// RallyTracker follows the rally in progress and keeps the running score.
type RallyTracker struct {
	current RallyStats
	active  bool
	score   components.Score
}

// Serve starts a new rally.
func (rt *RallyTracker) Serve(timeSec, speed float64) {
	rt.current = RallyStats{StartSec: timeSec, PeakSpeed: speed}
	rt.active = true
}

// Hit records a paddle contact.
func (rt *RallyTracker) Hit(side components.Side, speed float64) {
	if side == components.SideLeft {
		rt.current.PlayerHits++
	} else {
		rt.current.AIHits++
	}
	if speed > rt.current.PeakSpeed {
		rt.current.PeakSpeed = speed
	}
}

// MissInjected marks that the AI decided to miss during this rally.
func (rt *RallyTracker) MissInjected() {
	rt.current.AIMissed = true
}

// PassThrough marks that the ball passed through the AI paddle.
func (rt *RallyTracker) PassThrough() {
	rt.current.PassThrough = true
}

// Point closes the rally and returns its record. A point without a preceding
// serve is timed from zero.
func (rt *RallyTracker) Point(timeSec float64, winner components.Side) PointRecord {
	rt.score.Award(winner)
	r := rt.current
	rec := PointRecord{
		TimeSec:     timeSec,
		Winner:      winner.String(),
		PlayerScore: rt.score.Player,
		AIScore:     rt.score.AI,
		RallyHits:   r.Hits(),
		DurationSec: timeSec - r.StartSec,
		PeakSpeed:   r.PeakSpeed,
		AIMissed:    r.AIMissed,
		PassThrough: r.PassThrough,
	}
	rt.current = RallyStats{}
	rt.active = false
	return rec
}

// Current returns the rally in progress and whether one is active.
func (rt *RallyTracker) Current() (RallyStats, bool) {
	return rt.current, rt.active
}
