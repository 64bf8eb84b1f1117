package shape

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"honnef.co/go/vgc"
	"honnef.co/go/vgc/ident"
	"honnef.co/go/vgc/render"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func assertNear(t *testing.T, p0 vgc.Point, p1 vgc.Point, epsilon float64) {
	t.Helper()
	if d := p1.Sub(p0).Hypot(); d > epsilon {
		t.Fatalf("got %s, expected %s", p0, p1)
	}
}

func coord(t *testing.T, s *Shape, id ident.CoordID) vgc.Point {
	t.Helper()
	p, ok := s.Coord(id)
	if !ok {
		t.Fatalf("coordinate %s does not exist", id)
	}
	return p
}

// unitCircle returns a unit circle at the origin. Its identifiers are: start
// anchor 1, then (2, 3, 4), (5, 6, 7), (8, 9, 10) and (11, 12) for the
// handles and anchors of the four segments.
func unitCircle() *Shape {
	return NewCircle(ident.NewAllocator(1), vgc.Pt(0, 0), vgc.Vec(1, 1), vgc.Black)
}

// openLine returns an open, straight, two segment shape with identifiers 1
// through 7.
func openLine(t *testing.T) *Shape {
	t.Helper()
	pts := []vgc.Point{
		vgc.Pt(0, 0),
		vgc.Pt(1, 0), vgc.Pt(2, 0), vgc.Pt(3, 0),
		vgc.Pt(4, 0), vgc.Pt(5, 0), vgc.Pt(6, 0),
	}
	s, err := NewFromPath(ident.NewAllocator(1), pts, vgc.Identity, vgc.Black)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewFromPathInvalid(t *testing.T) {
	for _, n := range []int{0, 2, 3, 5} {
		pts := make([]vgc.Point, n)
		if _, err := NewFromPath(ident.NewAllocator(1), pts, vgc.Identity, vgc.Black); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%d points: got error %v, want %v", n, err, ErrInvalidInput)
		}
	}
	pts := []vgc.Point{vgc.Pt(0, 0), vgc.Pt(1, 1), vgc.Pt(math.NaN(), 0), vgc.Pt(2, 2)}
	if _, err := NewFromPath(ident.NewAllocator(1), pts, vgc.Identity, vgc.Black); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got error %v, want %v", err, ErrInvalidInput)
	}
}

func TestNewFromPathTransform(t *testing.T) {
	pts := []vgc.Point{vgc.Pt(0, 0), vgc.Pt(1, 0), vgc.Pt(1, 1), vgc.Pt(0, 1)}
	s, err := NewFromPath(ident.NewAllocator(1), pts, vgc.Scale(2, 2).ThenTranslate(vgc.Vec(10, 0)), vgc.Black)
	if err != nil {
		t.Fatal(err)
	}
	if s.IsClosed() {
		t.Errorf("expected open shape")
	}
	diff(t, "M10,0 C12,0 12,2 10,2", s.PathData())
}

func TestCircle(t *testing.T) {
	s := unitCircle()
	if !s.IsClosed() {
		t.Fatalf("expected circle to be closed")
	}
	if n := s.Len(); n != 4 {
		t.Errorf("got %d segments, want 4", n)
	}
	if n := len(s.IDs()); n != 12 {
		t.Errorf("got %d coordinates, want 12", n)
	}
	assertNear(t, coord(t, s, 1), vgc.Pt(0, circleA), 1e-12)
	assertNear(t, coord(t, s, 4), vgc.Pt(circleA, 0), 1e-12)

	ellipse := NewCircle(ident.NewAllocator(1), vgc.Pt(5, 5), vgc.Vec(2, 1), vgc.Black)
	assertNear(t, coord(t, ellipse, 4), vgc.Pt(5+2*circleA, 5), 1e-12)
	assertNear(t, coord(t, ellipse, 7), vgc.Pt(5, 5-circleA), 1e-12)
}

func TestNewFromLines(t *testing.T) {
	pts := []vgc.Point{vgc.Pt(0, 0), vgc.Pt(2, 0), vgc.Pt(2, 2), vgc.Pt(0, 2), vgc.Pt(0, 0)}
	s, err := NewFromLines(ident.NewAllocator(1), pts, vgc.Identity, vgc.Black)
	if err != nil {
		t.Fatal(err)
	}
	if n := s.Len(); n != 4 {
		t.Errorf("got %d segments, want 4", n)
	}
	if !s.IsClosed() {
		t.Errorf("expected polygon to be closed")
	}
	for _, c := range s.ListCoords() {
		if c.Role == RoleAnchor && !s.IsCorner(c.ID) {
			t.Errorf("expected anchor %s to be a corner", c.ID)
		}
	}
	if !s.Contains(vgc.Pt(1, 1)) {
		t.Errorf("expected (1, 1) inside the square")
	}
	if s.Contains(vgc.Pt(3, 1)) {
		t.Errorf("expected (3, 1) outside the square")
	}

	if _, err := NewFromLines(ident.NewAllocator(1), pts[:1], vgc.Identity, vgc.Black); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got error %v, want %v", err, ErrInvalidInput)
	}
}

func TestContains(t *testing.T) {
	s := unitCircle()
	tests := []struct {
		pt   vgc.Point
		want bool
	}{
		{vgc.Pt(0, 0), true},
		{vgc.Pt(-0.3, -0.3), true},
		{vgc.Pt(0.6, -0.6), true},
		{vgc.Pt(0.8, 0.8), false},
		{vgc.Pt(1.1, 0), false},
		{vgc.Pt(-1.1, 0), false},
		{vgc.Pt(0, 2), false},
	}
	for _, tt := range tests {
		if got := s.Contains(tt.pt); got != tt.want {
			t.Errorf("Contains(%s) = %t, want %t", tt.pt, got, tt.want)
		}
	}
}

func TestContainsOpenShape(t *testing.T) {
	// An open arch is filled as if closed by a straight line.
	pts := []vgc.Point{vgc.Pt(0, 0), vgc.Pt(0, -4), vgc.Pt(4, -4), vgc.Pt(4, 0)}
	s, err := NewFromPath(ident.NewAllocator(1), pts, vgc.Identity, vgc.Black)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Contains(vgc.Pt(2, -1)) {
		t.Errorf("expected (2, -1) inside the arch")
	}
	if s.Contains(vgc.Pt(2, 1)) {
		t.Errorf("expected (2, 1) outside the arch")
	}
}

func TestClosestCurve(t *testing.T) {
	s := unitCircle()
	c, ok := s.ClosestCurve(vgc.Pt(2, 0))
	if !ok {
		t.Fatal("expected a closest curve")
	}
	if c.Curve != 0 {
		t.Errorf("got curve %d, want 0", c.Curve)
	}
	if math.Abs(c.T-1) > 1e-9 {
		t.Errorf("got parameter %v, want 1", c.T)
	}
	if math.Abs(c.Distance-(2-circleA)) > 1e-9 {
		t.Errorf("got distance %v, want %v", c.Distance, 2-circleA)
	}

	c, _ = s.ClosestCurve(vgc.Pt(0, -3))
	if c.Curve != 1 && c.Curve != 2 {
		t.Errorf("got curve %d, want 1 or 2", c.Curve)
	}

	var empty Shape
	if _, ok := empty.ClosestCurve(vgc.Pt(0, 0)); ok {
		t.Errorf("expected no closest curve for an empty shape")
	}
}

func TestListCoords(t *testing.T) {
	s := unitCircle()
	var first []Coord
	for i, c := range s.ListCoords() {
		if i != len(first) {
			t.Fatalf("got index %d, want %d", i, len(first))
		}
		first = append(first, c)
	}
	var second []Coord
	for _, c := range s.ListCoords() {
		second = append(second, c)
	}
	diff(t, first, second)

	var ids []ident.CoordID
	var anchors int
	for _, c := range first {
		ids = append(ids, c.ID)
		if c.Role == RoleAnchor {
			anchors++
		}
	}
	diff(t, []ident.CoordID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, ids)
	if anchors != 4 {
		t.Errorf("got %d anchors, want 4", anchors)
	}

	for i := range s.ListCoords() {
		if i == 2 {
			break
		}
	}
}

func TestInsertSmoothFidelity(t *testing.T) {
	for _, split := range []float64{0, 0.3, 0.5, 0.99, 1} {
		s := unitCircle()
		orig, err := s.Curve(1)
		if err != nil {
			t.Fatal(err)
		}
		sp, err := s.InsertSmooth(ident.NewAllocator(13), 1, split)
		if err != nil {
			t.Fatal(err)
		}
		diff(t, Split{Curve: 1, In: 13, Anchor: 14, Out: 15}, sp)
		if n := s.Len(); n != 5 {
			t.Fatalf("got %d segments, want 5", n)
		}
		left, _ := s.Curve(1)
		right, _ := s.Curve(2)
		const n = 10
		for i := range n + 1 {
			u := float64(i) / n
			assertNear(t, left.Bez.Eval(u), orig.Bez.Eval(u*split), 1e-12)
			assertNear(t, right.Bez.Eval(u), orig.Bez.Eval(split+u*(1-split)), 1e-12)
		}
		if s.IsCorner(sp.Anchor) {
			t.Errorf("expected inserted anchor to be smooth")
		}
		if !s.IsClosed() {
			t.Errorf("expected shape to stay closed")
		}
	}
}

func TestInsertSmoothErrors(t *testing.T) {
	s := unitCircle()
	before := s.Clone()
	if _, err := s.InsertSmooth(ident.NewAllocator(13), 4, 0.5); !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want %v", err, ErrNotFound)
	}
	for _, split := range []float64{-0.1, 1.5, math.NaN()} {
		if _, err := s.InsertSmooth(ident.NewAllocator(13), 0, split); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("t = %v: got error %v, want %v", split, err, ErrInvalidInput)
		}
	}
	if !s.Equal(before) {
		t.Errorf("failed insertions modified the shape")
	}
}

func TestInsertCorner(t *testing.T) {
	s := openLine(t)
	sp, err := s.InsertCorner(ident.NewAllocator(8), 0, vgc.Pt(1.5, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsCorner(sp.Anchor) {
		t.Errorf("expected inserted anchor to be a corner")
	}
	for _, id := range []ident.CoordID{sp.In, sp.Anchor, sp.Out} {
		assertNear(t, coord(t, s, id), vgc.Pt(1.5, 1), 0)
	}
	diff(t, "M0,0 C1,0 1.5,1 1.5,1 C1.5,1 2,0 3,0 C4,0 5,0 6,0", s.PathData())
}

func TestDeleteAnchorMerges(t *testing.T) {
	s := unitCircle()
	h2, h6 := coord(t, s, 2), coord(t, s, 6)
	if err := s.DeleteCoord(4); err != nil {
		t.Fatal(err)
	}
	if n := s.Len(); n != 3 {
		t.Errorf("got %d segments, want 3", n)
	}
	for _, id := range []ident.CoordID{3, 4, 5} {
		if _, ok := s.Coord(id); ok {
			t.Errorf("coordinate %s survived deletion", id)
		}
	}
	seg, _ := s.Curve(0)
	diff(t, Curve{CP0: 2, CP1: 6, P1: 7}, seg.Curve)
	assertNear(t, seg.Bez.P1, h2, 0)
	assertNear(t, seg.Bez.P2, h6, 0)
	if !s.IsClosed() {
		t.Errorf("expected shape to stay closed")
	}
}

func TestDeleteClosedStart(t *testing.T) {
	s := unitCircle()
	if err := s.DeleteCoord(1); err != nil {
		t.Fatal(err)
	}
	if got := s.Start(); got != 4 {
		t.Errorf("got start %s, want c4", got)
	}
	if !s.IsClosed() {
		t.Errorf("expected shape to stay closed")
	}
	seg, _ := s.Curve(s.Len() - 1)
	diff(t, Curve{CP0: 11, CP1: 3, P1: 4}, seg.Curve)
}

func TestDeleteOpenEnds(t *testing.T) {
	s := openLine(t)
	if err := s.DeleteCoord(1); err != nil {
		t.Fatal(err)
	}
	if got := s.Start(); got != 4 {
		t.Errorf("got start %s, want c4", got)
	}
	if err := s.DeleteCoord(7); err != nil {
		t.Fatal(err)
	}
	if n := s.Len(); n != 0 {
		t.Errorf("got %d segments, want 0", n)
	}
	if s.IsEmpty() {
		t.Fatalf("expected the remaining anchor to survive")
	}
	if err := s.DeleteCoord(4); err != nil {
		t.Fatal(err)
	}
	if !s.IsEmpty() {
		t.Errorf("expected shape to be empty")
	}
	if got := s.PathData(); got != "" {
		t.Errorf("got path data %q for empty shape", got)
	}
}

func TestDeleteUntilEmpty(t *testing.T) {
	s := unitCircle()
	for i := range 4 {
		if s.IsEmpty() {
			t.Fatalf("shape emptied after %d deletions, want 4", i)
		}
		if err := s.DeleteCoord(s.Start()); err != nil {
			t.Fatal(err)
		}
	}
	if !s.IsEmpty() {
		t.Errorf("expected shape to be empty")
	}
	if err := s.DeleteCoord(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteHandleRetracts(t *testing.T) {
	s := unitCircle()
	if err := s.DeleteCoord(2); err != nil {
		t.Fatal(err)
	}
	assertNear(t, coord(t, s, 2), coord(t, s, 1), 0)
	if err := s.DeleteCoord(3); err != nil {
		t.Fatal(err)
	}
	assertNear(t, coord(t, s, 3), coord(t, s, 4), 0)
	if n := len(s.IDs()); n != 12 {
		t.Errorf("got %d coordinates, want 12", n)
	}
}

func TestMoveSmoothHandleMirrors(t *testing.T) {
	s := unitCircle()
	a := coord(t, s, 4)
	in := coord(t, s, 3)
	length := in.Distance(a)

	if err := s.MoveCoords([]ident.CoordID{5}, vgc.Vec(0.5, -0.5)); err != nil {
		t.Fatal(err)
	}
	out := coord(t, s, 5)
	in = coord(t, s, 3)
	if d := in.Distance(a); math.Abs(d-length) > 1e-12 {
		t.Errorf("got opposite handle length %v, want %v", d, length)
	}
	u, v := in.Sub(a), out.Sub(a)
	if cross := u.Normalize().Cross(v.Normalize()); math.Abs(cross) > 1e-12 {
		t.Errorf("handles not colinear, cross product %v", cross)
	}
	if u.Dot(v) >= 0 {
		t.Errorf("handles on the same side of the anchor")
	}
	assertNear(t, coord(t, s, 4), a, 0)
}

func TestMoveCornerHandleIndependent(t *testing.T) {
	s := unitCircle()
	if err := s.SetCorner(4, true); err != nil {
		t.Fatal(err)
	}
	in := coord(t, s, 3)
	if err := s.MoveCoords([]ident.CoordID{5}, vgc.Vec(0.5, -0.5)); err != nil {
		t.Fatal(err)
	}
	assertNear(t, coord(t, s, 3), in, 0)
}

func TestMoveAnchorCarriesHandles(t *testing.T) {
	s := unitCircle()
	delta := vgc.Vec(1, 2)
	before := s.Positions()
	if err := s.MoveCoords([]ident.CoordID{4}, delta); err != nil {
		t.Fatal(err)
	}
	for _, id := range []ident.CoordID{3, 4, 5} {
		assertNear(t, coord(t, s, id), before[id].Translate(delta), 1e-12)
	}
	for _, id := range []ident.CoordID{1, 2, 6, 7} {
		assertNear(t, coord(t, s, id), before[id], 0)
	}

	s = unitCircle()
	s.SetCorner(4, true)
	s.MoveCoords([]ident.CoordID{4}, delta)
	assertNear(t, coord(t, s, 3), before[3], 0)
	assertNear(t, coord(t, s, 5), before[5], 0)
}

func TestMoveRetractedHandlesFollow(t *testing.T) {
	pts := []vgc.Point{vgc.Pt(0, 0), vgc.Pt(2, 0), vgc.Pt(2, 2)}
	s, err := NewFromLines(ident.NewAllocator(1), pts, vgc.Identity, vgc.Black)
	if err != nil {
		t.Fatal(err)
	}
	// segments: (2, 3, 4), (5, 6, 7), (8, 9, 1)
	if err := s.MoveCoords([]ident.CoordID{4}, vgc.Vec(1, 0)); err != nil {
		t.Fatal(err)
	}
	assertNear(t, coord(t, s, 3), vgc.Pt(3, 0), 0)
	assertNear(t, coord(t, s, 5), vgc.Pt(3, 0), 0)
	// the handle leaving the start is retracted onto the start, not onto
	// the moved anchor
	assertNear(t, coord(t, s, 2), vgc.Pt(0, 0), 0)
}

func TestMoveUnknownIsAtomic(t *testing.T) {
	s := unitCircle()
	before := s.Clone()
	if err := s.MoveCoords([]ident.CoordID{4, 99}, vgc.Vec(1, 1)); !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want %v", err, ErrNotFound)
	}
	if !s.Equal(before) {
		t.Errorf("failed move modified the shape")
	}
}

func TestToggleCorner(t *testing.T) {
	s := unitCircle()
	a := coord(t, s, 4)
	if err := s.ToggleCorner(4); err != nil {
		t.Fatal(err)
	}
	if !s.IsCorner(4) {
		t.Fatalf("expected anchor to be a corner")
	}
	assertNear(t, coord(t, s, 3), a, 0)
	assertNear(t, coord(t, s, 5), a, 0)

	if err := s.ToggleCorner(4); err != nil {
		t.Fatal(err)
	}
	if s.IsCorner(4) {
		t.Fatalf("expected anchor to be smooth")
	}
	in, out := coord(t, s, 3).Sub(a), coord(t, s, 5).Sub(a)
	if !in.Add(out).IsZero() {
		t.Errorf("handles %s and %s not symmetric about the anchor", in, out)
	}
	if d := out.Hypot(); math.Abs(d-circleA/2) > 1e-12 {
		t.Errorf("got handle length %v, want %v", d, circleA/2)
	}

	if err := s.ToggleCorner(3); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got error %v, want %v", err, ErrInvalidInput)
	}
	if err := s.ToggleCorner(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want %v", err, ErrNotFound)
	}
}

func TestRenewCoordID(t *testing.T) {
	s := unitCircle()
	p := coord(t, s, 1)
	fresh, err := s.RenewCoordID(ident.NewAllocator(100), 1)
	if err != nil {
		t.Fatal(err)
	}
	if fresh != 100 {
		t.Errorf("got %s, want c100", fresh)
	}
	if _, ok := s.Coord(1); ok {
		t.Errorf("old identifier still resolves")
	}
	if s.Start() != fresh || !s.IsClosed() {
		t.Errorf("start anchor not renamed consistently")
	}
	assertNear(t, coord(t, s, fresh), p, 0)
}

func TestRender(t *testing.T) {
	s := openLine(t)
	var rec render.Recorder
	if err := s.Render(&rec, vgc.Translate(vgc.Vec(0, 10))); err != nil {
		t.Fatal(err)
	}
	diff(t, []render.OpKind{render.OpSetFill, render.OpStartShape, render.OpCurveTo, render.OpCurveTo, render.OpCloseShape}, rec.Kinds())
	diff(t, []vgc.Point{vgc.Pt(0, 10)}, rec.Ops[1].Points)

	rec.Reset()
	unitCircle().Render(&rec, vgc.Identity)
	if k := rec.Ops[len(rec.Ops)-1].Kind; k != render.OpCloseShape {
		t.Errorf("got last op %s, want %s", k, render.OpCloseShape)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := unitCircle()
	c := s.Clone()
	s.MoveCoords([]ident.CoordID{1}, vgc.Vec(1, 1))
	s.DeleteCoord(4)
	if c.Equal(s) {
		t.Errorf("clone changed with the original")
	}
	if !c.Equal(unitCircle()) {
		t.Errorf("clone differs from a fresh circle")
	}
}
