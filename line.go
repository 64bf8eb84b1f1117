package vgc

import "math"

// Line represents a line segment.
type Line struct {
	// The line's start point.
	P0 Point
	// The line's end point.
	P1 Point
}

// Length returns the length of the line.
func (l Line) Length() float64 {
	return l.P1.Sub(l.P0).Hypot()
}

func (l Line) Eval(t float64) Point {
	return l.P0.Lerp(l.P1, t)
}

// Nearest returns the squared distance from pt to the closest point of the
// line and the parameter of that point.
func (l Line) Nearest(pt Point) (distSq, t float64) {
	d := l.P1.Sub(l.P0)
	dotp := d.Dot(pt.Sub(l.P0))
	dSquared := d.Dot(d)
	if dotp <= 0.0 {
		return pt.Sub(l.P0).Hypot2(), 0.0
	} else if dotp >= dSquared {
		return pt.Sub(l.P1).Hypot2(), 1.0
	} else {
		t := dotp / dSquared
		dist := pt.Sub(l.Eval(t)).Hypot2()
		return dist, t
	}
}

func (l Line) Transform(aff Affine) Line {
	return Line{
		P0: l.P0.Transform(aff),
		P1: l.P1.Transform(aff),
	}
}

func (l Line) BoundingBox() Rect {
	return NewRectFromPoints(l.P0, l.P1)
}

// Cubic returns the line as a cubic Bézier with both handles retracted onto
// their endpoints.
func (l Line) Cubic() CubicBez {
	return CubicBez{P0: l.P0, P1: l.P0, P2: l.P1, P3: l.P1}
}

// CrossingsRight is like [CubicBez.CrossingsRight] for a line. It returns 0
// or 1.
func (l Line) CrossingsRight(pt Point) int {
	y0, y1 := l.P0.Y, l.P1.Y
	if y0 == y1 || pt.Y < min(y0, y1) || pt.Y >= max(y0, y1) {
		return 0
	}
	t := (pt.Y - y0) / (y1 - y0)
	if l.Eval(t).X > pt.X {
		return 1
	}
	return 0
}

// Intersect returns the parameters at which l and o cross, t on l and u on
// o. It reports false for parallel lines and for crossings outside either
// segment.
func (l Line) Intersect(o Line) (t, u float64, ok bool) {
	// slack on the parameters lets neighboring pieces of a subdivided curve
	// both report a crossing at their shared endpoint
	const slack = 1e-9
	d, e := l.P1.Sub(l.P0), o.P1.Sub(o.P0)
	det := d.Cross(e)
	if math.Abs(det) <= 1e-12*d.Hypot()*e.Hypot() {
		return 0, 0, false
	}
	w := o.P0.Sub(l.P0)
	t = w.Cross(e) / det
	u = w.Cross(d) / det
	if t < -slack || t > 1+slack || u < -slack || u > 1+slack {
		return 0, 0, false
	}
	return min(max(t, 0), 1), min(max(u, 0), 1), true
}
