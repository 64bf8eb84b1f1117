package vgc

import (
	"math"
	"sort"
)

// MaxExtrema is the maximum number of interior extrema of a cubic Bézier,
// two per axis.
const MaxExtrema = 4

// nearestSamples is the number of uniform samples taken by
// [CubicBez.Nearest] before refining.
const nearestSamples = 16

// CubicBez is a cubic Bézier segment from P0 to P3 with control points P1
// and P2.
type CubicBez struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

// Eval evaluates the curve at parameter t.
func (cb CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	a := Vec2(cb.P0).Mul(mt * mt * mt)
	b := Vec2(cb.P1).Mul(mt * mt * 3.0)
	c := Vec2(cb.P2).Mul(mt * 3.0)
	d := Vec2(cb.P3)
	v := a.Add(b.Add(c.Add(d.Mul(t)).Mul(t)).Mul(t))
	return Point(v)
}

// Deriv returns the first derivative at t.
func (cb CubicBez) Deriv(t float64) Vec2 {
	mt := 1.0 - t
	d0 := cb.P1.Sub(cb.P0).Mul(3 * mt * mt)
	d1 := cb.P2.Sub(cb.P1).Mul(6 * mt * t)
	d2 := cb.P3.Sub(cb.P2).Mul(3 * t * t)
	return d0.Add(d1).Add(d2)
}

// deriv2 returns the second derivative at t.
func (cb CubicBez) deriv2(t float64) Vec2 {
	a := Vec2(cb.P2).Sub(Vec2(cb.P1).Mul(2)).Add(Vec2(cb.P0))
	b := Vec2(cb.P3).Sub(Vec2(cb.P2).Mul(2)).Add(Vec2(cb.P1))
	return a.Mul(6 * (1 - t)).Add(b.Mul(6 * t))
}

// SplitAt splits the curve at t using de Casteljau's algorithm. Evaluating the
// two halves over [0, 1] traces the same points as the original over [0, t]
// and [t, 1].
func (cb CubicBez) SplitAt(t float64) (CubicBez, CubicBez) {
	q0 := cb.P0.Lerp(cb.P1, t)
	q1 := cb.P1.Lerp(cb.P2, t)
	q2 := cb.P2.Lerp(cb.P3, t)
	r0 := q0.Lerp(q1, t)
	r1 := q1.Lerp(q2, t)
	s := r0.Lerp(r1, t)
	return CubicBez{cb.P0, q0, r0, s}, CubicBez{s, r1, q2, cb.P3}
}

// Subdivide subdivides the cubic into halves, using de Casteljau.
func (cb CubicBez) Subdivide() (CubicBez, CubicBez) {
	return cb.SplitAt(0.5)
}

func (cb CubicBez) Start() Point { return cb.P0 }
func (cb CubicBez) End() Point { return cb.P3 }

func (cb CubicBez) Transform(aff Affine) CubicBez {
	return CubicBez{
		P0: cb.P0.Transform(aff),
		P1: cb.P1.Transform(aff),
		P2: cb.P2.Transform(aff),
		P3: cb.P3.Transform(aff),
	}
}

// Extrema returns the parameters of interior extrema in either axis, in
// increasing order.
func (cb CubicBez) Extrema() ([MaxExtrema]float64, int) {
	var out [MaxExtrema]float64
	var outN int
	oneCoord := func(d0, d1, d2 float64) {
		roots, n := derivRoots(d0, d1, d2)
		for _, t := range roots[:n] {
			out[outN] = t
			outN++
		}
	}
	d0 := cb.P1.Sub(cb.P0)
	d1 := cb.P2.Sub(cb.P1)
	d2 := cb.P3.Sub(cb.P2)
	oneCoord(d0.X, d1.X, d2.X)
	oneCoord(d0.Y, d1.Y, d2.Y)
	sort.Float64s(out[:outN])
	return out, outN
}

// derivRoots returns roots in (0, 1) of the derivative of a one-dimensional
// cubic Bézier whose control value deltas are d0, d1, d2.
func derivRoots(d0, d1, d2 float64) ([2]float64, int) {
	a := d0 - 2*d1 + d2
	b := 2 * (d1 - d0)
	c := d0
	roots, n := SolveQuadratic(c, b, a)
	var out [2]float64
	var outN int
	for _, t := range roots[:n] {
		if t > 0.0 && t < 1.0 {
			out[outN] = t
			outN++
		}
	}
	if outN == 2 && out[0] > out[1] {
		out[0], out[1] = out[1], out[0]
	}
	return out, outN
}

// BoundingBox returns the smallest axis-aligned rectangle enclosing the curve.
func (cb CubicBez) BoundingBox() Rect {
	bbox := NewRectFromPoints(cb.P0, cb.P3)
	ex, n := cb.Extrema()
	for _, t := range ex[:n] {
		bbox = bbox.UnionPoint(cb.Eval(t))
	}
	return bbox
}

// ControlBox returns the rectangle enclosing all four control points. It
// always contains the curve.
func (cb CubicBez) ControlBox() Rect {
	return NewRectFromPoints(cb.P0, cb.P1).UnionPoint(cb.P2).UnionPoint(cb.P3)
}

// Nearest finds the parameter of the point on the curve closest to pt,
// returning the squared distance and the parameter.
//
// The curve is sampled uniformly and the closest sample is refined with
// Newton's method on the derivative of the squared distance.
func (cb CubicBez) Nearest(pt Point) (distSq, t float64) {
	bestT := 0.0
	bestD := cb.P0.DistanceSquared(pt)
	for i := 1; i <= nearestSamples; i++ {
		ti := float64(i) / nearestSamples
		if d := cb.Eval(ti).DistanceSquared(pt); d < bestD {
			bestD, bestT = d, ti
		}
	}

	t = bestT
	for range 8 {
		d := cb.Eval(t).Sub(pt)
		d1 := cb.Deriv(t)
		f := d.Dot(d1)
		df := d1.Dot(d1) + d.Dot(cb.deriv2(t))
		if df == 0 {
			break
		}
		next := min(max(t-f/df, 0), 1)
		if math.Abs(next-t) < 1e-12 {
			t = next
			break
		}
		t = next
	}
	if d := cb.Eval(t).DistanceSquared(pt); d < bestD {
		bestD, bestT = d, t
	}
	return bestD, bestT
}

// CrossingsRight returns the number of times the curve crosses the
// horizontal ray starting at pt and extending towards positive x.
//
// Each crossing is counted with a half-open rule on y so that the shared
// endpoint of two consecutive segments is counted exactly once. Summing the
// crossings of a closed outline yields an odd number exactly when pt is
// inside it under the even-odd rule.
func (cb CubicBez) CrossingsRight(pt Point) int {
	if pt.Y < min(cb.P0.Y, cb.P1.Y, cb.P2.Y, cb.P3.Y) ||
		pt.Y > max(cb.P0.Y, cb.P1.Y, cb.P2.Y, cb.P3.Y) ||
		pt.X >= max(cb.P0.X, cb.P1.X, cb.P2.X, cb.P3.X) {
		return 0
	}

	var bounds [4]float64
	bounds[0] = 0
	ex, n := derivRoots(cb.P1.Y-cb.P0.Y, cb.P2.Y-cb.P1.Y, cb.P3.Y-cb.P2.Y)
	copy(bounds[1:], ex[:n])
	bounds[n+1] = 1

	c0, c1, c2, c3 := cubicCoefficients(cb.P0.Y, cb.P1.Y, cb.P2.Y, cb.P3.Y)
	roots, nroots := SolveCubic(c0-pt.Y, c1, c2, c3)

	var crossings int
	for i := range n + 1 {
		t0, t1 := bounds[i], bounds[i+1]
		y0, y1 := cb.Eval(t0).Y, cb.Eval(t1).Y
		if y1 > y0 {
			if pt.Y < y0 || pt.Y >= y1 {
				continue
			}
		} else if y1 < y0 {
			if pt.Y < y1 || pt.Y >= y0 {
				continue
			}
		} else {
			continue
		}
		t, ok := rootIn(roots[:nroots], t0, t1)
		if !ok {
			t = bisectY(cb, pt.Y, t0, t1)
		}
		if cb.Eval(t).X > pt.X {
			crossings++
		}
	}
	return crossings
}

// rootIn returns the root closest to the range [t0, t1], if it lies within
// a small tolerance of it.
func rootIn(roots []float64, t0, t1 float64) (float64, bool) {
	const tolerance = 1e-9
	for _, t := range roots {
		if t >= t0-tolerance && t <= t1+tolerance {
			return min(max(t, t0), t1), true
		}
	}
	return 0, false
}

// bisectY finds t in [t0, t1] with y(t) = y, assuming y is monotonic over the
// range.
func bisectY(cb CubicBez, y, t0, t1 float64) float64 {
	up := cb.Eval(t1).Y > cb.Eval(t0).Y
	for range 64 {
		mid := 0.5 * (t0 + t1)
		if (cb.Eval(mid).Y < y) == up {
			t0 = mid
		} else {
			t1 = mid
		}
	}
	return 0.5 * (t0 + t1)
}

// Tangents returns the tangent directions at the start and end of the curve,
// falling back to further control points when handles are retracted.
func (cb CubicBez) Tangents() (Vec2, Vec2) {
	const epsilon = 1e-12
	d01 := cb.P1.Sub(cb.P0)
	var d0, d1 Vec2
	if d01.Hypot2() > epsilon {
		d0 = d01
	} else {
		d02 := cb.P2.Sub(cb.P0)
		if d02.Hypot2() > epsilon {
			d0 = d02
		} else {
			d0 = cb.P3.Sub(cb.P0)
		}
	}
	d23 := cb.P3.Sub(cb.P2)
	if d23.Hypot2() > epsilon {
		d1 = d23
	} else {
		d13 := cb.P3.Sub(cb.P1)
		if d13.Hypot2() > epsilon {
			d1 = d13
		} else {
			d1 = cb.P3.Sub(cb.P0)
		}
	}
	return d0, d1
}

// ApproxEqual reports whether all control points are equal within [Epsilon].
func (cb CubicBez) ApproxEqual(o CubicBez) bool {
	return cb.P0.ApproxEqual(o.P0) &&
		cb.P1.ApproxEqual(o.P1) &&
		cb.P2.ApproxEqual(o.P2) &&
		cb.P3.ApproxEqual(o.P3)
}

// Subsegment returns the part of the curve between parameters t0 and t1.
func (cb CubicBez) Subsegment(t0, t1 float64) CubicBez {
	p0 := cb.Eval(t0)
	p3 := cb.Eval(t1)
	scale := (t1 - t0) / 3
	p1 := p0.Translate(cb.Deriv(t0).Mul(scale))
	p2 := p3.Translate(cb.Deriv(t1).Mul(-scale))
	return CubicBez{p0, p1, p2, p3}
}

// Reverse returns the curve traced from P3 to P0.
func (cb CubicBez) Reverse() CubicBez {
	return CubicBez{cb.P3, cb.P2, cb.P1, cb.P0}
}

// SignedArea returns the signed area between the curve and the origin.
// Summed over a closed outline it is the enclosed area, positive when the
// outline winds counter-clockwise in a y-up system.
func (cb CubicBez) SignedArea() float64 {
	v := cb.P0.X*(6*cb.P1.Y+3*cb.P2.Y+cb.P3.Y) +
		3*(cb.P1.X*(-2*cb.P0.Y+cb.P2.Y+cb.P3.Y)-cb.P2.X*(cb.P0.Y+cb.P1.Y-2*cb.P3.Y)) -
		cb.P3.X*(cb.P0.Y+3*cb.P1.Y+6*cb.P2.Y)
	return v / 20
}

// Intersection is a point where two curves meet.
type Intersection struct {
	// T0 is the parameter on the receiver and T1 the one on the argument of
	// [CubicBez.Intersect].
	T0, T1 float64
	Point  Point
}

const (
	// intersectFlatness is the distance from their chord below which curves
	// are intersected as lines.
	intersectFlatness = 1e-9
	// intersectMerge is the distance below which two intersections are the
	// same.
	intersectMerge = 1e-7
	intersectDepth = 48
	// intersectBudget bounds the number of curve pairs examined.
	intersectBudget = 1 << 15
)

// Intersect returns the points where cb and o meet, ordered by T0. It
// subdivides both curves until the pieces whose control boxes overlap are
// flat, then intersects their chords.
//
// It reports false if the curves overlap along a stretch, for which no
// finite set of points exists.
func (cb CubicBez) Intersect(o CubicBez) ([]Intersection, bool) {
	x := intersector{budget: intersectBudget}
	x.run(cb, 0, 1, o, 0, 1, 0)
	if x.budget < 0 {
		return nil, false
	}
	sort.Slice(x.out, func(i, j int) bool { return x.out[i].T0 < x.out[j].T0 })
	return x.out, true
}

type intersector struct {
	out    []Intersection
	budget int
}

func (x *intersector) run(a CubicBez, a0, a1 float64, b CubicBez, b0, b1 float64, depth int) {
	if x.budget < 0 || !a.ControlBox().Intersects(b.ControlBox()) {
		return
	}
	x.budget--
	if depth >= intersectDepth || (a.isFlat(intersectFlatness) && b.isFlat(intersectFlatness)) {
		s, u, ok := Line{a.P0, a.P3}.Intersect(Line{b.P0, b.P3})
		if !ok {
			return
		}
		// the chord's parameter is not the curve's unless the curve is
		// uniformly parameterized, as straight segments with retracted
		// handles are not
		p := a.P0.Lerp(a.P3, s).Midpoint(b.P0.Lerp(b.P3, u))
		_, s = a.Nearest(p)
		_, u = b.Nearest(p)
		x.add(Intersection{
			T0:    a0 + (a1-a0)*s,
			T1:    b0 + (b1-b0)*u,
			Point: a.Eval(s).Midpoint(b.Eval(u)),
		})
		return
	}
	al, ar := a.Subdivide()
	bl, br := b.Subdivide()
	am, bm := 0.5*(a0+a1), 0.5*(b0+b1)
	x.run(al, a0, am, bl, b0, bm, depth+1)
	x.run(al, a0, am, br, bm, b1, depth+1)
	x.run(ar, am, a1, bl, b0, bm, depth+1)
	x.run(ar, am, a1, br, bm, b1, depth+1)
}

func (x *intersector) add(in Intersection) {
	for _, o := range x.out {
		if o.Point.Distance(in.Point) <= intersectMerge {
			return
		}
	}
	x.out = append(x.out, in)
}

// isFlat reports whether both handles lie within tol of the chord, between
// its endpoints.
func (cb CubicBez) isFlat(tol float64) bool {
	chord := cb.P3.Sub(cb.P0)
	l2 := chord.Hypot2()
	if l2 <= tol*tol {
		return cb.P1.Distance(cb.P0) <= tol && cb.P2.Distance(cb.P0) <= tol
	}
	for _, p := range [2]Point{cb.P1, cb.P2} {
		v := p.Sub(cb.P0)
		c := chord.Cross(v)
		if c*c > tol*tol*l2 {
			return false
		}
		if d := chord.Dot(v); d < -tol || d > l2+tol {
			return false
		}
	}
	return true
}
