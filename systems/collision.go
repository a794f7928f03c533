package systems

import (
	"math"

	"github.com/pthm-cable/pong/components"
)

// CollisionParams controls the paddle bounce response.
type CollisionParams struct {
	SpeedGain   float64 // multiplier per bounce
	MaxSpeed    float64 // speed cap
	AngleFactor float64 // arcade scaling of the impact offset
	Clearance   float64 // gap left between ball and paddle after a hit
}

// Impact describes one resolved paddle bounce.
type Impact struct {
	RelativeY   float64 // -1 (top edge) .. 1 (bottom edge)
	SpeedBefore float64
	SpeedAfter  float64
}

// Detect reports whether the ball's bounding square overlaps the paddle.
// The square is a deliberate approximation of the circle.
func Detect(b *components.Ball, p *components.Paddle) bool {
	return b.X-b.Radius < p.X+p.Width &&
		b.X+b.Radius > p.X &&
		b.Y-b.Radius < p.Y+p.Height &&
		b.Y+b.Radius > p.Y
}

// Resolve bounces the ball off a paddle. The horizontal direction always
// points away from the struck side; the vertical component follows the
// impact point.
func Resolve(b *components.Ball, p *components.Paddle, side components.Side, params CollisionParams) Impact {
	half := p.Height / 2
	relativeY := 0.0
	if half > 0 {
		relativeY = Clamp((b.Y-p.CenterY())/half, -1, 1)
	}

	speedBefore := Hypot(b.DX, b.DY)
	speed := math.Min(params.MaxSpeed, speedBefore*params.SpeedGain)

	dir := 1.0
	if side == components.SideRight {
		dir = -1.0
	}

	// (dir*speed, relativeY*speed*AngleFactor) sets the rebound direction;
	// the vector is rescaled so its magnitude stays equal to Speed.
	dx := dir * math.Abs(speed)
	dy := relativeY * speed * params.AngleFactor
	if mag := Hypot(dx, dy); mag > 0 {
		dx *= speed / mag
		dy *= speed / mag
	}

	b.Speed = speed
	b.DX = dx
	b.DY = dy

	return Impact{RelativeY: relativeY, SpeedBefore: speedBefore, SpeedAfter: speed}
}

// PlaceClear moves the ball just outside the paddle face on the field side
// so the same contact is not detected on the next step.
func PlaceClear(b *components.Ball, p *components.Paddle, side components.Side, clearance float64) {
	if side == components.SideLeft {
		b.X = p.X + p.Width + b.Radius + clearance
		return
	}
	b.X = p.X - b.Radius - clearance
}
