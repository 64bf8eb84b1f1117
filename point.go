package vgc

import (
	"fmt"
	"math"
)

// Point is a position on the canvas or the screen. Which space a point
// belongs to is up to the caller; [Affine] converts between them.
type Point struct {
	X, Y float64
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (pt Point) String() string { return fmt.Sprintf("(%g, %g)", pt.X, pt.Y) }

// Translate moves pt by v.
func (pt Point) Translate(v Vec2) Point { return Point{pt.X + v.X, pt.Y + v.Y} }

// Sub returns the offset from o to pt.
func (pt Point) Sub(o Point) Vec2 { return Vec2{pt.X - o.X, pt.Y - o.Y} }

// Transform maps pt through aff.
func (pt Point) Transform(aff Affine) Point {
	return Point{
		X: aff.N0*pt.X + aff.N2*pt.Y + aff.N4,
		Y: aff.N1*pt.X + aff.N3*pt.Y + aff.N5,
	}
}

// Lerp returns the point a fraction t of the way from pt to o.
func (pt Point) Lerp(o Point, t float64) Point {
	return pt.Translate(o.Sub(pt).Mul(t))
}

func (pt Point) Midpoint(o Point) Point { return pt.Lerp(o, 0.5) }

func (pt Point) Distance(o Point) float64 { return pt.Sub(o).Hypot() }

// DistanceSquared is the square of [Point.Distance], for comparing distances
// without taking square roots.
func (pt Point) DistanceSquared(o Point) float64 { return pt.Sub(o).Hypot2() }

// ApproxEqual reports whether pt and o lie within [Epsilon] of each other on
// both axes.
func (pt Point) ApproxEqual(o Point) bool {
	return ApproxEqual(pt.X, o.X) && ApproxEqual(pt.Y, o.Y)
}

func (pt Point) IsNaN() bool { return math.IsNaN(pt.X) || math.IsNaN(pt.Y) }

// PointInRadius reports whether pt lies strictly inside the axis-aligned
// ellipse around center with the given radii. Pick and insert distances are
// ellipses because the camera may scale the axes differently. The radii must
// be positive.
func PointInRadius(pt, center Point, radius Vec2) bool {
	d := pt.Sub(center)
	return Vec(d.X/radius.X, d.Y/radius.Y).Hypot2() < 1
}
