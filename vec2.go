package vgc

import (
	"fmt"
	"math"
)

// Vec2 is an offset on the canvas or the screen, such as the distance a
// pointer moved or a handle's direction away from its anchor.
type Vec2 struct {
	X, Y float64
}

func Vec(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) String() string { return fmt.Sprintf("⟨%g, %g⟩", v.X, v.Y) }

func (v Vec2) Add(o Vec2) Vec2    { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2    { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Div(f float64) Vec2 { return Vec2{v.X / f, v.Y / f} }
func (v Vec2) Negate() Vec2       { return Vec2{-v.X, -v.Y} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the three-dimensional cross product. It
// is positive if o points clockwise of v on a y-down screen.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

// Hypot returns the length of v.
func (v Vec2) Hypot() float64 { return math.Hypot(v.X, v.Y) }

// Hypot2 returns the squared length of v, avoiding the square root.
func (v Vec2) Hypot2() float64 { return v.Dot(v) }

// Normalize scales v to unit length. The zero vector becomes NaN.
func (v Vec2) Normalize() Vec2 { return v.Div(v.Hypot()) }

// IsZero reports whether v is no longer than [Epsilon].
func (v Vec2) IsZero() bool { return v.Hypot() <= Epsilon }

func (v Vec2) IsNaN() bool { return math.IsNaN(v.X) || math.IsNaN(v.Y) }
