package vgc

import "fmt"

// Rect is an axis-aligned box spanning X0 to X1 and Y0 to Y1. Boxes built by
// this package have X0 <= X1 and Y0 <= Y1; in the y-down canvas and screen
// spaces (X0, Y0) is the top left corner.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// NewRectFromPoints returns the smallest box containing p0 and p1.
func NewRectFromPoints(p0, p1 Point) Rect {
	return Rect{
		X0: min(p0.X, p1.X),
		Y0: min(p0.Y, p1.Y),
		X1: max(p0.X, p1.X),
		Y1: max(p0.Y, p1.Y),
	}
}

// NewRectFromCenter returns the box reaching half.X to either side of center
// and half.Y above and below it.
func NewRectFromCenter(center Point, half Vec2) Rect {
	return NewRectFromPoints(center.Translate(half.Negate()), center.Translate(half))
}

func (r Rect) String() string { return fmt.Sprintf("%s-%s", r.TopLeft(), r.BottomRight()) }

func (r Rect) TopLeft() Point     { return Pt(r.X0, r.Y0) }
func (r Rect) BottomRight() Point { return Pt(r.X1, r.Y1) }
func (r Rect) Center() Point      { return r.TopLeft().Midpoint(r.BottomRight()) }

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }
func (r Rect) Size() Vec2      { return r.BottomRight().Sub(r.TopLeft()) }

// Intersects reports whether r and o share at least one point. Boxes that
// touch along an edge or a corner intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X0 <= o.X1 && o.X0 <= r.X1 && r.Y0 <= o.Y1 && o.Y0 <= r.Y1
}

// Union returns the smallest box containing r and o.
func (r Rect) Union(o Rect) Rect {
	return NewRectFromPoints(r.TopLeft(), r.BottomRight()).
		UnionPoint(o.TopLeft()).
		UnionPoint(o.BottomRight())
}

// UnionPoint grows r to contain pt. Starting from the empty box at one
// point, repeated calls yield the bounds of a point set.
func (r Rect) UnionPoint(pt Point) Rect {
	return Rect{
		X0: min(r.X0, pt.X),
		Y0: min(r.Y0, pt.Y),
		X1: max(r.X1, pt.X),
		Y1: max(r.Y1, pt.Y),
	}
}
