// Package effects manages short-lived spark particles for visual feedback
// on paddle hits, wall bounces and points.
package effects

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"github.com/pthm-cable/pong/components"
	"github.com/pthm-cable/pong/config"
	"github.com/pthm-cable/pong/sim"
	"github.com/pthm-cable/pong/systems"
)

// SparkKind identifies what spawned a spark.
type SparkKind uint8

const (
	SparkHit SparkKind = iota
	SparkWall
	SparkPoint
	SparkPassThrough
)

// Position is a spark's location in field coordinates.
type Position struct {
	X, Y float32
}

// Velocity is a spark's velocity in units per second.
type Velocity struct {
	X, Y float32
}

// Spark holds the remaining lifetime and look of a particle.
type Spark struct {
	Life    float32
	MaxLife float32
	Size    float32
	Kind    SparkKind
}

// Fade returns the remaining life fraction in [0, 1].
func (s *Spark) Fade() float32 {
	if s.MaxLife <= 0 {
		return 0
	}
	return s.Life / s.MaxLife
}

const (
	sparkDrag    = 3.0   // velocity decay per second
	pointGravity = 240.0 // downward pull on point sparks
)

// System owns the spark world.
type System struct {
	world  *ecs.World
	mapper *ecs.Map3[Position, Velocity, Spark]
	filter *ecs.Filter3[Position, Velocity, Spark]

	rng   systems.Rand
	cfg   config.EffectsConfig
	count int

	expired []ecs.Entity
}

// New creates an effects system. rng drives spark spread.
func New(cfg config.EffectsConfig, rng systems.Rand) *System {
	world := ecs.NewWorld()
	return &System{
		world:  world,
		mapper: ecs.NewMap3[Position, Velocity, Spark](world),
		filter: ecs.NewFilter3[Position, Velocity, Spark](world),
		rng:    rng,
		cfg:    cfg,
	}
}

// Enabled reports whether sparks are spawned.
func (s *System) Enabled() bool {
	return s.cfg.Enabled && s.cfg.MaxSparks > 0
}

// Burst spawns up to n sparks of kind at (x, y), spreading in a cone
// around heading (radians). Returns the number spawned.
func (s *System) Burst(kind SparkKind, x, y float32, n int, heading, spread float64) int {
	if !s.Enabled() {
		return 0
	}
	if room := s.cfg.MaxSparks - s.count; n > room {
		n = room
	}
	if n <= 0 {
		return 0
	}
	life := float32(s.cfg.SparkLife)
	for i := 0; i < n; i++ {
		angle := heading + (s.rng.Float64()*2-1)*spread
		speed := s.cfg.SparkSpeed * (0.4 + 0.6*s.rng.Float64())
		l := life * float32(0.6+0.4*s.rng.Float64())

		pos := Position{X: x, Y: y}
		vel := Velocity{X: float32(math.Cos(angle) * speed), Y: float32(math.Sin(angle) * speed)}
		spark := Spark{Life: l, MaxLife: l, Size: sparkSize(kind), Kind: kind}
		s.mapper.NewEntity(&pos, &vel, &spark)
	}
	s.count += n
	return n
}

func sparkSize(kind SparkKind) float32 {
	switch kind {
	case SparkPoint:
		return 3
	case SparkWall:
		return 1.5
	default:
		return 2
	}
}

// Spawn turns simulation events into bursts.
func (s *System) Spawn(events []sim.Event) {
	if !s.Enabled() {
		return
	}
	per := s.cfg.SparksPerHit
	for _, e := range events {
		x, y := float32(e.X), float32(e.Y)
		switch e.Kind {
		case sim.EventPaddleHit:
			// Spray along the rebound
			heading := 0.0
			if e.Side == components.SideRight {
				heading = math.Pi
			}
			s.Burst(SparkHit, x, y, per, heading, math.Pi/3)
		case sim.EventWallBounce:
			heading := math.Pi / 2
			if e.Y > 0 {
				heading = -math.Pi / 2
			}
			s.Burst(SparkWall, x, y, per/2, heading, math.Pi/4)
		case sim.EventPassThrough:
			s.Burst(SparkPassThrough, x, y, per/2, 0, math.Pi/6)
		case sim.EventPoint:
			s.Burst(SparkPoint, x, y, per*2, -math.Pi/2, math.Pi)
		}
	}
}

// Update ages and moves sparks by dt seconds and removes expired ones.
func (s *System) Update(dt float32) {
	if s.count == 0 || dt <= 0 {
		return
	}
	drag := 1 - sparkDrag*dt
	if drag < 0 {
		drag = 0
	}

	// First pass: integrate and collect expired (world is locked during queries)
	s.expired = s.expired[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, vel, spark := query.Get()

		spark.Life -= dt
		if spark.Life <= 0 {
			s.expired = append(s.expired, query.Entity())
			continue
		}

		if spark.Kind == SparkPoint {
			vel.Y += pointGravity * dt
		}
		vel.X *= drag
		vel.Y *= drag
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
	}

	// Second pass: remove
	for _, e := range s.expired {
		s.world.RemoveEntity(e)
	}
	s.count -= len(s.expired)
}

// Each calls fn for every live spark.
func (s *System) Each(fn func(pos Position, spark Spark)) {
	if s.count == 0 {
		return
	}
	query := s.filter.Query()
	for query.Next() {
		pos, _, spark := query.Get()
		fn(*pos, *spark)
	}
}

// Count returns the number of live sparks.
func (s *System) Count() int {
	return s.count
}

// Clear removes every spark.
func (s *System) Clear() {
	if s.count == 0 {
		return
	}
	s.expired = s.expired[:0]
	query := s.filter.Query()
	for query.Next() {
		s.expired = append(s.expired, query.Entity())
	}
	for _, e := range s.expired {
		s.world.RemoveEntity(e)
	}
	s.count = 0
}
