package systems

import "time"

// Clock supplies the wall-clock reading used for AI reaction pacing.
type Clock interface {
	Now() time.Time
}

// Rand is the random source consumed by the AI and ball reset.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// SystemClock reads the real time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is advanced explicitly. Headless runs use it to fast-forward
// reaction timing together with simulated frames.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a clock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Set jumps the clock to t.
func (c *ManualClock) Set(t time.Time) {
	c.now = t
}
