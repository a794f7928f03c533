// Package components defines the entity records owned by the simulation.
package components

import "math"

// Side identifies which edge of the field a paddle guards.
type Side uint8

const (
	SideLeft  Side = iota // human player
	SideRight             // AI
)

// String returns the owner name used in logs and telemetry.
func (s Side) String() string {
	if s == SideLeft {
		return "player"
	}
	return "ai"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Playfield is the rectangle the game is played in.
type Playfield struct {
	Width, Height float64
}

// Valid reports whether the field has been sized with finite positive dimensions.
func (f Playfield) Valid() bool {
	return f.Width > 0 && f.Height > 0 && !math.IsInf(f.Width, 0) && !math.IsInf(f.Height, 0)
}

// Center returns the field center.
func (f Playfield) Center() (x, y float64) {
	return f.Width / 2, f.Height / 2
}

// Paddle is a rectangle pinned to one vertical edge of the field.
// X is fixed per side; Y is the top edge.
type Paddle struct {
	Side          Side
	X, Y          float64
	Width, Height float64
	Speed         float64 // max displacement per reference step
}

// CenterY returns the vertical center of the paddle.
func (p *Paddle) CenterY() float64 {
	return p.Y + p.Height/2
}

// Right returns the x-coordinate of the right edge.
func (p *Paddle) Right() float64 {
	return p.X + p.Width
}

// Bottom returns the y-coordinate of the bottom edge.
func (p *Paddle) Bottom() float64 {
	return p.Y + p.Height
}

// MaxY returns the largest legal Y inside a field of the given height.
func (p *Paddle) MaxY(fieldHeight float64) float64 {
	return fieldHeight - p.Height
}

// Ball is the moving circle. Speed caches hypot(DX, DY).
type Ball struct {
	X, Y   float64
	Radius float64
	DX, DY float64
	Speed  float64
}

// Score holds the points for each side.
type Score struct {
	Player uint
	AI     uint
}

// Award adds one point to the given side.
func (s *Score) Award(side Side) {
	if side == SideLeft {
		s.Player++
	} else {
		s.AI++
	}
}

// Total returns the number of points played.
func (s Score) Total() uint {
	return s.Player + s.AI
}
