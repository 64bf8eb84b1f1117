package shape

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"honnef.co/go/vgc"
	"honnef.co/go/vgc/ident"
)

// Op is a boolean operation on the filled areas of two shapes.
type Op uint8

const (
	Union Op = iota + 1
	Intersection
	// Difference removes the second shape's area from the first.
	Difference
)

func (op Op) String() string {
	switch op {
	case Union:
		return "Union"
	case Intersection:
		return "Intersection"
	case Difference:
		return "Difference"
	default:
		return fmt.Sprintf("Op(%d)", op)
	}
}

// Outcome tells how the result of [Combine] relates to its operands.
type Outcome uint8

const (
	// OutcomeA means the result is the first shape, unchanged.
	OutcomeA Outcome = iota + 1
	// OutcomeB means the result is the outline of the second shape.
	OutcomeB
	// OutcomeNew means the result consists of new outlines.
	OutcomeNew
	// OutcomeEmpty means nothing is left of either shape.
	OutcomeEmpty
	// OutcomeDisjoint means the union of two shapes that neither touch nor
	// contain each other. It stays two shapes.
	OutcomeDisjoint
	// OutcomeHole means the difference cuts a hole into the first shape,
	// which a single outline cannot express.
	OutcomeHole
)

func (o Outcome) String() string {
	switch o {
	case OutcomeA:
		return "A"
	case OutcomeB:
		return "B"
	case OutcomeNew:
		return "New"
	case OutcomeEmpty:
		return "Empty"
	case OutcomeDisjoint:
		return "Disjoint"
	case OutcomeHole:
		return "Hole"
	default:
		return fmt.Sprintf("Outcome(%d)", o)
	}
}

// Result is the result of [Combine].
type Result struct {
	Outcome Outcome
	// Shapes holds the resulting outlines for OutcomeB and OutcomeNew, largest
	// first. For OutcomeB it is a copy of the second shape whose coordinates
	// have all been given fresh identifiers. A union yields at most one
	// outline; holes it would enclose are filled.
	Shapes []*Shape
}

// Combine applies op to the fills of a and b. Both must be closed. Outlines
// the result consists of take a's fill and draw their identifiers from src;
// a and b are not modified.
//
// Where the outlines cross, both are cut at the crossings. Each piece between
// two crossings lies either inside or outside the other shape and is kept or
// dropped depending on op, and the kept pieces are chained into closed
// outlines. Shapes that do not cross are compared by containment.
func Combine(src ident.Source, op Op, a, b *Shape) (Result, error) {
	switch op {
	case Union, Intersection, Difference:
	default:
		return Result{}, fmt.Errorf("operation %s: %w", op, ErrInvalidInput)
	}
	if !a.IsClosed() || !b.IsClosed() {
		return Result{}, fmt.Errorf("%s of open shapes: %w", op, ErrInvalidInput)
	}

	points, cutsA, cutsB, err := crossings(a, b)
	if err != nil {
		return Result{}, err
	}
	piecesA := a.pieces(0, cutsA, points, b)
	piecesB := b.pieces(1, cutsB, points, a)

	if !mixed(piecesA) && !mixed(piecesB) {
		aInB := b.Contains(a.coords[a.start])
		bInA := a.Contains(b.coords[b.start])
		if len(points) > 0 {
			// the outlines only touch; a start anchor may be one of the
			// touching points
			aInB, bInA = piecesA[0].inside, piecesB[0].inside
		}
		return contained(src, op, a, b, aInB, bInA)
	}

	var kept []*piece
	for _, p := range piecesA {
		if p.inside == (op == Intersection) {
			kept = append(kept, p)
		}
	}
	for _, p := range piecesB {
		if p.inside == (op != Union) {
			kept = append(kept, p)
		}
	}
	loops, err := chain(kept)
	if err != nil {
		return Result{}, err
	}
	loops = slices.DeleteFunc(loops, func(l loop) bool { return math.Abs(l.area()) <= vgc.Epsilon })
	slices.SortStableFunc(loops, func(x, y loop) int { return cmp.Compare(math.Abs(y.area()), math.Abs(x.area())) })
	if op == Union && len(loops) > 1 {
		loops = loops[:1]
	}
	if len(loops) == 0 {
		return Result{Outcome: OutcomeEmpty}, nil
	}
	res := Result{Outcome: OutcomeNew}
	for _, l := range loops {
		sh, err := l.shape(src, a.fill)
		if err != nil {
			return Result{}, err
		}
		res.Shapes = append(res.Shapes, sh)
	}
	return res, nil
}

// contained handles shapes whose outlines do not cross.
func contained(src ident.Source, op Op, a, b *Shape, aInB, bInA bool) (Result, error) {
	var o Outcome
	switch op {
	case Union:
		switch {
		case bInA:
			o = OutcomeA
		case aInB:
			o = OutcomeB
		default:
			o = OutcomeDisjoint
		}
	case Intersection:
		switch {
		case aInB:
			o = OutcomeA
		case bInA:
			o = OutcomeB
		default:
			o = OutcomeEmpty
		}
	case Difference:
		switch {
		case bInA:
			o = OutcomeHole
		case aInB:
			o = OutcomeEmpty
		default:
			o = OutcomeA
		}
	}
	if o != OutcomeB {
		return Result{Outcome: o}, nil
	}
	sh := b.Clone()
	sh.fill = a.fill
	for _, id := range b.IDs() {
		if _, err := sh.RenewCoordID(src, id); err != nil {
			return Result{}, err
		}
	}
	return Result{Outcome: o, Shapes: []*Shape{sh}}, nil
}

// cut is a crossing on the outline of one shape.
type cut struct {
	curve int
	t     float64
	// at indexes the crossing points.
	at int
}

// snapParam is the distance to a segment's end below which a crossing is
// moved onto the anchor.
const snapParam = 1e-9

// crossings returns the points where the outlines of a and b meet, and where
// they lie on either outline.
func crossings(a, b *Shape) (points []vgc.Point, cutsA, cutsB []cut, err error) {
	snap := func(s *Shape, i int, t float64) (int, float64) {
		switch {
		case t >= 1-snapParam:
			return (i + 1) % len(s.curves), 0
		case t <= snapParam:
			return i, 0
		}
		return i, t
	}
	for i, ca := range a.Segments() {
		for j, cb := range b.Segments() {
			if !ca.BoundingBox().Intersects(cb.BoundingBox()) {
				continue
			}
			xs, ok := ca.Intersect(cb)
			if !ok {
				return nil, nil, nil, fmt.Errorf("segments %d and %d overlap: %w", i, j, ErrInvalidInput)
			}
		next:
			for _, x := range xs {
				for _, p := range points {
					// crossings on an anchor are found on both of its
					// segments
					if p.Distance(x.Point) <= 1e-7 {
						continue next
					}
				}
				ia, ta := snap(a, i, x.T0)
				jb, tb := snap(b, j, x.T1)
				cutsA = append(cutsA, cut{curve: ia, t: ta, at: len(points)})
				cutsB = append(cutsB, cut{curve: jb, t: tb, at: len(points)})
				points = append(points, x.Point)
			}
		}
	}
	return points, cutsA, cutsB, nil
}

// piece is the stretch of an outline between two consecutive crossings.
type piece struct {
	// owner is 0 for pieces of the first shape and 1 for the second.
	owner    int
	from, to int
	curves   []vgc.CubicBez
	// corners holds the corner flag of each curve's end anchor.
	corners []bool
	// inside reports whether the piece lies inside the other shape.
	inside bool
}

// pieces cuts s at cuts and classifies each piece against other.
func (s *Shape) pieces(owner int, cuts []cut, points []vgc.Point, other *Shape) []*piece {
	slices.SortFunc(cuts, func(x, y cut) int {
		if c := cmp.Compare(x.curve, y.curve); c != 0 {
			return c
		}
		return cmp.Compare(x.t, y.t)
	})
	var out []*piece
	for m, from := range cuts {
		to := cuts[(m+1)%len(cuts)]
		p := &piece{owner: owner, from: from.at, to: to.at}
		s.span(p, from, to)
		if len(p.curves) == 0 {
			continue
		}
		p.curves[0].P0 = points[from.at]
		p.curves[len(p.curves)-1].P3 = points[to.at]
		p.inside = other.Contains(p.curves[len(p.curves)/2].Eval(0.5))
		out = append(out, p)
	}
	return out
}

// span appends the outline from one cut to the next to p, going forward and
// wrapping around the start.
func (s *Shape) span(p *piece, from, to cut) {
	add := func(c vgc.CubicBez, corner bool) {
		p.curves = append(p.curves, c)
		p.corners = append(p.corners, corner)
	}
	if from.curve == to.curve && to.t > from.t {
		add(s.bez(from.curve).Subsegment(from.t, to.t), true)
		return
	}
	n := len(s.curves)
	add(s.bez(from.curve).Subsegment(from.t, 1), s.curves[from.curve].Corner)
	for i := (from.curve + 1) % n; i != to.curve; i = (i + 1) % n {
		add(s.bez(i), s.curves[i].Corner)
	}
	if to.t > 0 {
		add(s.bez(to.curve).Subsegment(0, to.t), true)
	} else {
		p.corners[len(p.corners)-1] = true
	}
}

func (p *piece) reversed() ([]vgc.CubicBez, []bool) {
	n := len(p.curves)
	curves := make([]vgc.CubicBez, n)
	corners := make([]bool, n)
	for i, c := range p.curves {
		curves[n-1-i] = c.Reverse()
		// the reversed curve ends where c starts
		corners[n-1-i] = i == 0 || p.corners[i-1]
	}
	return curves, corners
}

// mixed reports whether some pieces lie inside the other shape and some
// outside, which is the case if the outlines cross.
func mixed(pieces []*piece) bool {
	return slices.ContainsFunc(pieces, func(p *piece) bool { return p.inside != pieces[0].inside })
}

type loop struct {
	curves  []vgc.CubicBez
	corners []bool
}

func (l loop) area() float64 {
	var sum float64
	for _, c := range l.curves {
		sum += c.SignedArea()
	}
	return sum
}

func (l loop) shape(src ident.Source, fill vgc.Rgba) (*Shape, error) {
	pts := make([]vgc.Point, 0, 1+3*len(l.curves))
	pts = append(pts, l.curves[0].P0)
	for _, c := range l.curves {
		pts = append(pts, c.P1, c.P2, c.P3)
	}
	sh, err := NewFromPath(src, pts, vgc.Identity, fill)
	if err != nil {
		return nil, err
	}
	for i := range sh.curves {
		sh.curves[i].Corner = l.corners[i]
	}
	return sh, nil
}

// chain joins pieces into closed loops. At every crossing a loop continues
// with an unused piece meeting it there, preferring one of the same shape so
// that outlines which merely touch are not joined. Pieces are reversed as
// needed.
func chain(pieces []*piece) ([]loop, error) {
	used := make([]bool, len(pieces))
	var out []loop
	for first, p := range pieces {
		if used[first] {
			continue
		}
		used[first] = true
		l := loop{
			curves:  slices.Clone(p.curves),
			corners: slices.Clone(p.corners),
		}
		at, owner := p.to, p.owner
		for at != p.from {
			next := -1
			for i, q := range pieces {
				if used[i] || (q.from != at && q.to != at) {
					continue
				}
				if next < 0 || (q.owner == owner && pieces[next].owner != owner) {
					next = i
				}
			}
			if next < 0 {
				return nil, fmt.Errorf("outline does not close at crossing %d: %w", at, ErrInvalidInput)
			}
			used[next] = true
			q := pieces[next]
			if q.from == at {
				l.curves = append(l.curves, q.curves...)
				l.corners = append(l.corners, q.corners...)
				at = q.to
			} else {
				curves, corners := q.reversed()
				l.curves = append(l.curves, curves...)
				l.corners = append(l.corners, corners...)
				at = q.from
			}
			owner = q.owner
		}
		out = append(out, l)
	}
	return out, nil
}
