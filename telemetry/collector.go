// Package telemetry aggregates match events into windowed statistics,
// per-point records, bookmarks and performance timings.
package telemetry

import (
	"github.com/pthm-cable/pong/components"
	"github.com/pthm-cable/pong/sim"
)

// Collector accumulates events within windows of simulation time and
// produces WindowStats.
type Collector struct {
	windowDurationSec float64
	windowStartSec    float64

	// Event counters for current window
	frames         int
	playerHits     int
	aiHits         int
	wallBounces    int
	retargets      int
	missesInjected int
	passThroughs   int
	playerPoints   int
	aiPoints       int

	rallyLengths []float64
	hitSpeeds    []float64
	peakSpeed    float64

	rally  RallyTracker
	points []PointRecord
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{
		windowDurationSec: windowDurationSec,
	}
}

// RecordFrame counts one stepped frame.
func (c *Collector) RecordFrame() {
	c.frames++
}

// Record consumes one simulation event raised at simTime.
func (c *Collector) Record(simTime float64, e sim.Event) {
	switch e.Kind {
	case sim.EventServe:
		c.rally.Serve(simTime, e.Speed)
	case sim.EventPaddleHit:
		if e.Side == components.SideLeft {
			c.playerHits++
		} else {
			c.aiHits++
		}
		c.hitSpeeds = append(c.hitSpeeds, e.Speed)
		if e.Speed > c.peakSpeed {
			c.peakSpeed = e.Speed
		}
		c.rally.Hit(e.Side, e.Speed)
	case sim.EventWallBounce:
		c.wallBounces++
	case sim.EventRetarget:
		c.retargets++
	case sim.EventMissInjected:
		c.missesInjected++
		c.rally.MissInjected()
	case sim.EventPassThrough:
		c.passThroughs++
		c.rally.PassThrough()
	case sim.EventPoint:
		if e.Side == components.SideLeft {
			c.playerPoints++
		} else {
			c.aiPoints++
		}
		rec := c.rally.Point(simTime, e.Side)
		c.rallyLengths = append(c.rallyLengths, float64(rec.RallyHits))
		c.points = append(c.points, rec)
	}
}

// RecordEvents consumes every event of a frame.
func (c *Collector) RecordEvents(simTime float64, events []sim.Event) {
	for _, e := range events {
		c.Record(simTime, e)
	}
}

// DrainPoints returns the point records gathered since the last call.
func (c *Collector) DrainPoints() []PointRecord {
	if len(c.points) == 0 {
		return nil
	}
	out := c.points
	c.points = nil
	return out
}

// ShouldFlush returns true once the current window has elapsed.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStartSec >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(simTime float64, score components.Score) WindowStats {
	var share float64
	if total := c.playerPoints + c.aiPoints; total > 0 {
		share = float64(c.aiPoints) / float64(total)
	}

	rallyMean, rallyStd, rallyP50, rallyP90 := Distribution(c.rallyLengths)
	speedMean, _, _, _ := Distribution(c.hitSpeeds)

	stats := WindowStats{
		WindowStartSec: c.windowStartSec,
		WindowEndSec:   simTime,
		Frames:         c.frames,

		PlayerScore: score.Player,
		AIScore:     score.AI,

		PlayerPoints: c.playerPoints,
		AIPoints:     c.aiPoints,
		AIPointShare: share,

		PlayerHits:  c.playerHits,
		AIHits:      c.aiHits,
		WallBounces: c.wallBounces,

		Retargets:      c.retargets,
		MissesInjected: c.missesInjected,
		PassThroughs:   c.passThroughs,

		Rallies:   len(c.rallyLengths),
		RallyMean: rallyMean,
		RallyStd:  rallyStd,
		RallyP50:  rallyP50,
		RallyP90:  rallyP90,

		HitSpeedMean: speedMean,
		PeakSpeed:    c.peakSpeed,
	}

	// Reset for next window
	c.windowStartSec = simTime
	c.frames = 0
	c.playerHits = 0
	c.aiHits = 0
	c.wallBounces = 0
	c.retargets = 0
	c.missesInjected = 0
	c.passThroughs = 0
	c.playerPoints = 0
	c.aiPoints = 0
	c.rallyLengths = c.rallyLengths[:0]
	c.hitSpeeds = c.hitSpeeds[:0]
	c.peakSpeed = 0

	return stats
}

// WindowDurationSec returns the window length in simulation seconds.
func (c *Collector) WindowDurationSec() float64 {
	return c.windowDurationSec
}
