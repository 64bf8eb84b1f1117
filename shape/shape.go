// Package shape models editable shapes made of cubic Bézier segments.
//
// A shape is a start anchor followed by segments. Each segment names a handle
// leaving the previous anchor, a handle entering its end anchor, and the end
// anchor itself. Positions live in a per-shape arena keyed by
// [ident.CoordID], so segments refer to shared anchors by identity rather
// than by copy. A shape whose last segment ends at the start anchor is
// closed.
//
// Anchors are smooth unless marked as a corner. Moving a handle of a smooth
// anchor rotates the opposite handle to stay colinear through the anchor.
package shape

import (
	"errors"
	"fmt"
	"iter"

	"honnef.co/go/vgc"
	"honnef.co/go/vgc/ident"
)

var (
	// ErrNotFound is returned when an identifier or index does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for malformed arguments.
	ErrInvalidInput = errors.New("invalid input")
)

// Role distinguishes anchors from handles.
type Role uint8

const (
	RoleAnchor Role = iota + 1
	RoleHandle
)

func (r Role) String() string {
	switch r {
	case RoleAnchor:
		return "anchor"
	case RoleHandle:
		return "handle"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

// Curve is one segment of a shape, described by coordinate identifiers.
type Curve struct {
	// CP0 is the handle leaving the previous anchor.
	CP0 ident.CoordID
	// CP1 is the handle entering P1.
	CP1 ident.CoordID
	// P1 is the anchor the segment ends at.
	P1 ident.CoordID
	// Corner marks P1 as a corner anchor.
	Corner bool
}

// Coord is an addressable coordinate of a shape.
type Coord struct {
	ID    ident.CoordID
	Point vgc.Point
	Role  Role
}

// Segment is a resolved curve.
type Segment struct {
	Index int
	Curve Curve
	Bez   vgc.CubicBez
}

// Closest describes the point of a shape's outline nearest to some query
// point.
type Closest struct {
	Curve    int
	T        float64
	Distance float64
	Point    vgc.Point
}

// Shape is an editable Bézier shape. The zero value is an empty shape.
type Shape struct {
	start  ident.CoordID
	curves []Curve
	coords map[ident.CoordID]vgc.Point
	fill   vgc.Rgba

	// startCorner is the corner flag of the start anchor of an open shape.
	// For closed shapes, the last curve's flag applies.
	startCorner bool
}

// NewFromPath creates a shape from a flat list of points laid out as a start
// anchor followed by (handle, handle, anchor) triples. Every point is
// transformed by aff. If the last anchor coincides with the start, the shape
// is closed and the two share one identifier.
func NewFromPath(src ident.Source, points []vgc.Point, aff vgc.Affine, fill vgc.Rgba) (*Shape, error) {
	if len(points) == 0 || (len(points)-1)%3 != 0 {
		return nil, fmt.Errorf("need 1+3k points, got %d: %w", len(points), ErrInvalidInput)
	}
	pts := make([]vgc.Point, len(points))
	for i, p := range points {
		if p.IsNaN() {
			return nil, fmt.Errorf("point %d is NaN: %w", i, ErrInvalidInput)
		}
		pts[i] = p.Transform(aff)
	}

	n := (len(pts) - 1) / 3
	closed := n >= 1 && pts[len(pts)-1].ApproxEqual(pts[0])
	s := &Shape{
		coords: make(map[ident.CoordID]vgc.Point, len(pts)),
		curves: make([]Curve, 0, n),
		fill:   fill,
	}
	s.start = s.add(src, pts[0])
	for i := range n {
		c := Curve{
			CP0: s.add(src, pts[1+3*i]),
			CP1: s.add(src, pts[2+3*i]),
		}
		if closed && i == n-1 {
			c.P1 = s.start
		} else {
			c.P1 = s.add(src, pts[3+3*i])
		}
		s.curves = append(s.curves, c)
	}
	return s, nil
}

// NewFromLines creates a closed polygon through points. All anchors are
// corners and every handle is retracted onto its anchor.
func NewFromLines(src ident.Source, points []vgc.Point, aff vgc.Affine, fill vgc.Rgba) (*Shape, error) {
	if len(points) > 1 && points[len(points)-1].ApproxEqual(points[0]) {
		points = points[:len(points)-1]
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 distinct points, got %d: %w", len(points), ErrInvalidInput)
	}
	path := make([]vgc.Point, 0, 1+3*len(points))
	path = append(path, points[0])
	for i := range points {
		c := vgc.Line{P0: points[i], P1: points[(i+1)%len(points)]}.Cubic()
		path = append(path, c.P1, c.P2, c.P3)
	}
	s, err := NewFromPath(src, path, aff, fill)
	if err != nil {
		return nil, err
	}
	for i := range s.curves {
		s.curves[i].Corner = true
	}
	return s, nil
}

// Constants of a four segment circle approximation. See
// https://spencermortensen.com/articles/bezier-circle/
const (
	circleA = 1.00005519
	circleB = 0.55342686
	circleC = 0.99873585
)

// NewCircle creates a closed shape of four smooth segments approximating the
// ellipse centered on center with the given x and y radii.
func NewCircle(src ident.Source, center vgc.Point, radius vgc.Vec2, fill vgc.Rgba) *Shape {
	const a, b, c = circleA, circleB, circleC
	pts := []vgc.Point{
		{X: 0, Y: a},
		{X: b, Y: c}, {X: c, Y: b}, {X: a, Y: 0},
		{X: c, Y: -b}, {X: b, Y: -c}, {X: 0, Y: -a},
		{X: -b, Y: -c}, {X: -c, Y: -b}, {X: -a, Y: 0},
		{X: -c, Y: b}, {X: -b, Y: c}, {X: 0, Y: a},
	}
	aff := vgc.Scale(radius.X, radius.Y).ThenTranslate(vgc.Vec2(center))
	s, err := NewFromPath(src, pts, aff, fill)
	if err != nil {
		// the point layout is fixed and always well-formed
		panic(err)
	}
	return s
}

func (s *Shape) add(src ident.Source, p vgc.Point) ident.CoordID {
	id := src.Coord()
	s.coords[id] = p
	return id
}

// Start returns the start anchor, or the null identifier for an empty shape.
func (s *Shape) Start() ident.CoordID { return s.start }

// Len returns the number of segments.
func (s *Shape) Len() int { return len(s.curves) }

// IsEmpty reports whether the shape has no coordinates left.
func (s *Shape) IsEmpty() bool { return s.start.IsNull() }

// IsClosed reports whether the last segment ends at the start anchor.
func (s *Shape) IsClosed() bool {
	return len(s.curves) > 0 && s.curves[len(s.curves)-1].P1 == s.start
}

func (s *Shape) Fill() vgc.Rgba { return s.fill }
func (s *Shape) SetFill(c vgc.Rgba) { s.fill = c }

// Coord returns the position of a coordinate.
func (s *Shape) Coord(id ident.CoordID) (vgc.Point, bool) {
	p, ok := s.coords[id]
	return p, ok
}

// Curve returns segment i.
func (s *Shape) Curve(i int) (Segment, error) {
	if i < 0 || i >= len(s.curves) {
		return Segment{}, fmt.Errorf("curve %d of %d: %w", i, len(s.curves), ErrNotFound)
	}
	return Segment{Index: i, Curve: s.curves[i], Bez: s.bez(i)}, nil
}

func (s *Shape) bez(i int) vgc.CubicBez {
	c := s.curves[i]
	return vgc.CubicBez{
		P0: s.coords[s.anchorBefore(i)],
		P1: s.coords[c.CP0],
		P2: s.coords[c.CP1],
		P3: s.coords[c.P1],
	}
}

// anchorBefore returns the anchor segment i starts at.
func (s *Shape) anchorBefore(i int) ident.CoordID {
	if i == 0 {
		return s.start
	}
	return s.curves[i-1].P1
}

// Segments iterates over the segments as Bézier curves.
func (s *Shape) Segments() iter.Seq2[int, vgc.CubicBez] {
	return func(yield func(int, vgc.CubicBez) bool) {
		for i := range s.curves {
			if !yield(i, s.bez(i)) {
				return
			}
		}
	}
}

// ListCoords iterates over every addressable coordinate together with a
// local index: the start anchor, then each segment's handles and end anchor.
// The closing anchor of a closed shape is the start and is listed once.
func (s *Shape) ListCoords() iter.Seq2[int, Coord] {
	return func(yield func(int, Coord) bool) {
		if s.IsEmpty() {
			return
		}
		i := 0
		emit := func(id ident.CoordID, role Role) bool {
			ok := yield(i, Coord{ID: id, Point: s.coords[id], Role: role})
			i++
			return ok
		}
		if !emit(s.start, RoleAnchor) {
			return
		}
		for _, c := range s.curves {
			if !emit(c.CP0, RoleHandle) || !emit(c.CP1, RoleHandle) {
				return
			}
			if c.P1 == s.start {
				continue
			}
			if !emit(c.P1, RoleAnchor) {
				return
			}
		}
	}
}

// IDs returns the identifiers of all coordinates in [Shape.ListCoords] order.
func (s *Shape) IDs() []ident.CoordID {
	out := make([]ident.CoordID, 0, len(s.coords))
	for _, c := range s.ListCoords() {
		out = append(out, c.ID)
	}
	return out
}

// Role returns whether id is an anchor or a handle of s.
func (s *Shape) Role(id ident.CoordID) (Role, bool) {
	if _, ok := s.coords[id]; !ok {
		return 0, false
	}
	if _, ok := s.anchor(id); ok {
		return RoleAnchor, true
	}
	return RoleHandle, true
}

// IsCorner reports whether anchor is a corner. It returns false for
// identifiers that are not anchors of s.
func (s *Shape) IsCorner(anchor ident.CoordID) bool {
	ref, ok := s.anchor(anchor)
	return ok && s.corner(ref)
}

// ClosestCurve returns the point of the outline nearest to pt. Ties keep the
// lowest segment index. It reports false if the shape has no segments.
func (s *Shape) ClosestCurve(pt vgc.Point) (Closest, bool) {
	var best Closest
	bestD := -1.0
	for i, bez := range s.Segments() {
		d, t := bez.Nearest(pt)
		if bestD < 0 || d < bestD {
			bestD = d
			best = Closest{Curve: i, T: t, Point: bez.Eval(t)}
		}
	}
	if bestD < 0 {
		return Closest{}, false
	}
	best.Distance = best.Point.Distance(pt)
	return best, true
}

// Contains reports whether pt is inside the filled shape under the even-odd
// rule. Open shapes are filled as if closed by a straight line back to the
// start.
func (s *Shape) Contains(pt vgc.Point) bool {
	if len(s.curves) == 0 {
		return false
	}
	var crossings int
	for _, bez := range s.Segments() {
		crossings += bez.CrossingsRight(pt)
	}
	if !s.IsClosed() {
		from := s.coords[s.curves[len(s.curves)-1].P1]
		to := s.coords[s.start]
		crossings += vgc.Line{P0: from, P1: to}.CrossingsRight(pt)
	}
	return crossings%2 == 1
}

// BoundingBox returns the smallest rectangle enclosing the outline.
func (s *Shape) BoundingBox() vgc.Rect {
	if s.IsEmpty() {
		return vgc.Rect{}
	}
	p := s.coords[s.start]
	bbox := vgc.NewRectFromPoints(p, p)
	for _, bez := range s.Segments() {
		bbox = bbox.Union(bez.BoundingBox())
	}
	return bbox
}

// Clone returns a deep copy of s. Identifiers are preserved.
func (s *Shape) Clone() *Shape {
	out := *s
	out.curves = append([]Curve(nil), s.curves...)
	out.coords = make(map[ident.CoordID]vgc.Point, len(s.coords))
	for id, p := range s.coords {
		out.coords[id] = p
	}
	return &out
}

// Equal reports whether s and o have the same structure, identifiers, corner
// flags and fill, and positions equal within [vgc.Epsilon].
func (s *Shape) Equal(o *Shape) bool {
	if s.start != o.start || s.fill != o.fill || len(s.curves) != len(o.curves) || len(s.coords) != len(o.coords) {
		return false
	}
	if !s.IsClosed() && s.startCorner != o.startCorner {
		return false
	}
	for i, c := range s.curves {
		if c != o.curves[i] {
			return false
		}
	}
	for id, p := range s.coords {
		q, ok := o.coords[id]
		if !ok || !p.ApproxEqual(q) {
			return false
		}
	}
	return true
}

// Positions returns a copy of every coordinate's position.
func (s *Shape) Positions() map[ident.CoordID]vgc.Point {
	out := make(map[ident.CoordID]vgc.Point, len(s.coords))
	for id, p := range s.coords {
		out[id] = p
	}
	return out
}

// RestorePositions sets the positions of the given coordinates. All
// identifiers must belong to s.
func (s *Shape) RestorePositions(pos map[ident.CoordID]vgc.Point) error {
	for id := range pos {
		if _, ok := s.coords[id]; !ok {
			return fmt.Errorf("coordinate %s: %w", id, ErrNotFound)
		}
	}
	for id, p := range pos {
		s.coords[id] = p
	}
	return nil
}
