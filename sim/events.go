package sim

import "github.com/pthm-cable/pong/components"

// EventKind identifies something that happened during a step.
type EventKind uint8

const (
	EventPaddleHit EventKind = iota
	EventWallBounce
	EventRetarget
	EventMissInjected
	EventPassThrough
	EventPoint
	EventServe
)

var eventNames = [...]string{
	EventPaddleHit:    "paddle_hit",
	EventWallBounce:   "wall_bounce",
	EventRetarget:     "retarget",
	EventMissInjected: "miss_injected",
	EventPassThrough:  "pass_through",
	EventPoint:        "point",
	EventServe:        "serve",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is emitted by Step for telemetry and effects.
// Side is the paddle involved, or the scorer for EventPoint.
type Event struct {
	Kind  EventKind
	Side  components.Side
	X, Y  float64
	Speed float64
}
