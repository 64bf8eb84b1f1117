package shape

import (
	"fmt"
	"math"
	"slices"

	"honnef.co/go/vgc"
	"honnef.co/go/vgc/ident"
)

// anchorRef describes an anchor and its neighborhood.
type anchorRef struct {
	id ident.CoordID
	// in is the handle entering the anchor, out the handle leaving it.
	// Either may be null at the ends of an open shape.
	in, out ident.CoordID
	// curve is the index of the segment ending at the anchor, or -1 for the
	// start of an open shape.
	curve int
	// next is the index of the segment starting at the anchor, or -1.
	next int
}

func (s *Shape) anchor(id ident.CoordID) (anchorRef, bool) {
	if id.IsNull() {
		return anchorRef{}, false
	}
	n := len(s.curves)
	if id == s.start {
		ref := anchorRef{id: id, curve: -1, next: -1}
		if n > 0 {
			ref.out = s.curves[0].CP0
			ref.next = 0
		}
		if s.IsClosed() {
			ref.curve = n - 1
			ref.in = s.curves[n-1].CP1
		}
		return ref, true
	}
	for i, c := range s.curves {
		if c.P1 != id {
			continue
		}
		ref := anchorRef{id: id, in: c.CP1, curve: i, next: -1}
		if i+1 < n {
			ref.out = s.curves[i+1].CP0
			ref.next = i + 1
		}
		return ref, true
	}
	return anchorRef{}, false
}

// handleOwner returns the anchor a handle belongs to.
func (s *Shape) handleOwner(id ident.CoordID) (anchorRef, bool) {
	for i, c := range s.curves {
		switch id {
		case c.CP0:
			return s.anchor(s.anchorBefore(i))
		case c.CP1:
			return s.anchor(c.P1)
		}
	}
	return anchorRef{}, false
}

func (s *Shape) corner(ref anchorRef) bool {
	if ref.curve < 0 {
		return s.startCorner
	}
	return s.curves[ref.curve].Corner
}

func (s *Shape) setCorner(ref anchorRef, v bool) {
	if ref.curve < 0 {
		s.startCorner = v
		return
	}
	s.curves[ref.curve].Corner = v
}

// opposite returns the other handle of the anchor h belongs to.
func (ref anchorRef) opposite(h ident.CoordID) ident.CoordID {
	switch h {
	case ref.in:
		return ref.out
	case ref.out:
		return ref.in
	}
	return ident.Null
}

// Split describes the coordinates created by an insertion.
type Split struct {
	// Curve is the index of the segment ending at Anchor.
	Curve  int
	In     ident.CoordID
	Anchor ident.CoordID
	Out    ident.CoordID
}

// InsertSmooth splits segment curve at parameter t without changing the
// outline. The segment's existing handles are shortened, and a new smooth
// anchor with two new handles is inserted. New identifiers are drawn from
// src in the order In, Anchor, Out.
func (s *Shape) InsertSmooth(src ident.Source, curve int, t float64) (Split, error) {
	if curve < 0 || curve >= len(s.curves) {
		return Split{}, fmt.Errorf("curve %d of %d: %w", curve, len(s.curves), ErrNotFound)
	}
	if math.IsNaN(t) || t < 0 || t > 1 {
		return Split{}, fmt.Errorf("parameter %g outside [0, 1]: %w", t, ErrInvalidInput)
	}
	left, right := s.bez(curve).SplitAt(t)
	c := s.curves[curve]
	s.coords[c.CP0] = left.P1
	s.coords[c.CP1] = right.P2

	sp := Split{Curve: curve}
	sp.In = s.add(src, left.P2)
	sp.Anchor = s.add(src, left.P3)
	sp.Out = s.add(src, right.P1)
	s.curves[curve] = Curve{CP0: c.CP0, CP1: sp.In, P1: sp.Anchor}
	s.curves = slices.Insert(s.curves, curve+1, Curve{CP0: sp.Out, CP1: c.CP1, P1: c.P1, Corner: c.Corner})
	return sp, nil
}

// InsertCorner inserts a corner anchor at pt into segment curve. The new
// anchor's handles are retracted onto it, and the segment's existing handles
// shape the two halves. New identifiers are drawn from src in the order In,
// Anchor, Out.
func (s *Shape) InsertCorner(src ident.Source, curve int, pt vgc.Point) (Split, error) {
	if curve < 0 || curve >= len(s.curves) {
		return Split{}, fmt.Errorf("curve %d of %d: %w", curve, len(s.curves), ErrNotFound)
	}
	if pt.IsNaN() {
		return Split{}, fmt.Errorf("point is NaN: %w", ErrInvalidInput)
	}
	c := s.curves[curve]
	sp := Split{Curve: curve}
	sp.In = s.add(src, pt)
	sp.Anchor = s.add(src, pt)
	sp.Out = s.add(src, pt)
	s.curves[curve] = Curve{CP0: c.CP0, CP1: sp.In, P1: sp.Anchor, Corner: true}
	s.curves = slices.Insert(s.curves, curve+1, Curve{CP0: sp.Out, CP1: c.CP1, P1: c.P1, Corner: c.Corner})
	return sp, nil
}

// DeleteCoord removes a coordinate.
//
// Deleting an anchor merges its two adjacent segments into one that keeps
// the outer handles. At the ends of an open shape the adjacent segment is
// dropped instead. Deleting a handle retracts it onto its anchor; the
// handle's identifier stays valid.
func (s *Shape) DeleteCoord(id ident.CoordID) error {
	if _, ok := s.coords[id]; !ok {
		return fmt.Errorf("coordinate %s: %w", id, ErrNotFound)
	}
	ref, isAnchor := s.anchor(id)
	if !isAnchor {
		owner, _ := s.handleOwner(id)
		s.coords[id] = s.coords[owner.id]
		return nil
	}

	n := len(s.curves)
	closed := s.IsClosed()
	switch {
	case id == s.start && (n == 0 || (closed && n == 1)):
		s.clear()
	case id == s.start && !closed:
		first := s.curves[0]
		s.forget(s.start, first.CP0, first.CP1)
		s.start = first.P1
		s.startCorner = first.Corner
		s.curves = slices.Delete(s.curves, 0, 1)
	case id == s.start:
		first, last := s.curves[0], s.curves[n-1]
		s.forget(s.start, last.CP1, first.CP0)
		s.start = first.P1
		s.curves[n-1] = Curve{CP0: last.CP0, CP1: first.CP1, P1: first.P1, Corner: first.Corner}
		s.curves = slices.Delete(s.curves, 0, 1)
	case ref.next < 0:
		last := s.curves[ref.curve]
		s.forget(last.P1, last.CP0, last.CP1)
		s.curves = slices.Delete(s.curves, ref.curve, ref.curve+1)
	default:
		cur, next := s.curves[ref.curve], s.curves[ref.next]
		s.forget(id, cur.CP1, next.CP0)
		s.curves[ref.curve] = Curve{CP0: cur.CP0, CP1: next.CP1, P1: next.P1, Corner: next.Corner}
		s.curves = slices.Delete(s.curves, ref.next, ref.next+1)
	}
	return nil
}

func (s *Shape) forget(ids ...ident.CoordID) {
	for _, id := range ids {
		delete(s.coords, id)
	}
}

func (s *Shape) clear() {
	s.start = ident.Null
	s.curves = nil
	s.coords = map[ident.CoordID]vgc.Point{}
	s.startCorner = false
}

// MoveCoords translates the given coordinates by delta.
//
// Anchors carry their handles along: both handles of a smooth anchor, and
// only the handles retracted onto it for a corner. A moved handle of a smooth
// anchor rotates the opposite handle, keeping its length, so that both stay
// colinear through the anchor. Coordinates that are themselves part of ids
// are never adjusted by these rules.
//
// If any identifier is unknown, nothing is moved.
func (s *Shape) MoveCoords(ids []ident.CoordID, delta vgc.Vec2) error {
	moved := make(map[ident.CoordID]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.coords[id]; !ok {
			return fmt.Errorf("coordinate %s: %w", id, ErrNotFound)
		}
		moved[id] = true
	}

	updates := make(map[ident.CoordID]vgc.Point, len(ids))
	var handles []ident.CoordID
	for _, id := range ids {
		p := s.coords[id]
		updates[id] = p.Translate(delta)
		ref, ok := s.anchor(id)
		if !ok {
			handles = append(handles, id)
			continue
		}
		corner := s.corner(ref)
		for _, h := range [2]ident.CoordID{ref.in, ref.out} {
			if h.IsNull() || moved[h] {
				continue
			}
			if !corner || s.coords[h].ApproxEqual(p) {
				updates[h] = s.coords[h].Translate(delta)
			}
		}
	}

	for _, h := range handles {
		ref, _ := s.handleOwner(h)
		opp := ref.opposite(h)
		if opp.IsNull() || moved[opp] || moved[ref.id] || s.corner(ref) {
			continue
		}
		a := s.coords[ref.id]
		dir := a.Sub(updates[h])
		length := s.coords[opp].Distance(a)
		if dir.IsZero() || length <= vgc.Epsilon {
			continue
		}
		updates[opp] = a.Translate(dir.Normalize().Mul(length))
	}

	for id, p := range updates {
		s.coords[id] = p
	}
	return nil
}

// SetCoord sets the position of a coordinate without applying any of the
// rules of [Shape.MoveCoords].
func (s *Shape) SetCoord(id ident.CoordID, pt vgc.Point) error {
	if _, ok := s.coords[id]; !ok {
		return fmt.Errorf("coordinate %s: %w", id, ErrNotFound)
	}
	s.coords[id] = pt
	return nil
}

// SetCorner sets the corner flag of an anchor without moving any handle.
func (s *Shape) SetCorner(anchor ident.CoordID, corner bool) error {
	ref, err := s.anchorOrErr(anchor)
	if err != nil {
		return err
	}
	s.setCorner(ref, corner)
	return nil
}

// ToggleCorner switches an anchor between smooth and corner.
//
// Becoming a corner retracts both handles onto the anchor. Becoming smooth
// places both handles along the averaged tangent of the adjacent segments, at
// half the largest axis distance to a neighboring anchor.
func (s *Shape) ToggleCorner(anchor ident.CoordID) error {
	ref, err := s.anchorOrErr(anchor)
	if err != nil {
		return err
	}
	a := s.coords[anchor]
	if !s.corner(ref) {
		s.setCorner(ref, true)
		for _, h := range [2]ident.CoordID{ref.in, ref.out} {
			if !h.IsNull() {
				s.coords[h] = a
			}
		}
		return nil
	}

	s.setCorner(ref, false)
	if ref.curve < 0 || ref.next < 0 {
		return nil
	}
	before, after := s.bez(ref.curve), s.bez(ref.next)
	_, tl := before.Tangents()
	tr, _ := after.Tangents()
	tangent := tl.Normalize().Add(tr.Normalize())
	if tangent.IsZero() || tangent.IsNaN() {
		return nil
	}
	tangent = tangent.Normalize()
	prev, next := before.P0, after.P3
	dist := max(
		math.Abs(prev.X-a.X),
		math.Abs(prev.Y-a.Y),
		math.Abs(a.X-next.X),
		math.Abs(a.Y-next.Y),
	) / 2
	s.coords[ref.in] = a.Translate(tangent.Mul(-dist))
	s.coords[ref.out] = a.Translate(tangent.Mul(dist))
	return nil
}

func (s *Shape) anchorOrErr(id ident.CoordID) (anchorRef, error) {
	ref, ok := s.anchor(id)
	if ok {
		return ref, nil
	}
	if _, exists := s.coords[id]; exists {
		return anchorRef{}, fmt.Errorf("coordinate %s is a handle: %w", id, ErrInvalidInput)
	}
	return anchorRef{}, fmt.Errorf("coordinate %s: %w", id, ErrNotFound)
}

// RenewCoordID replaces the identifier of a coordinate with a fresh one from
// src, invalidating references to the old identifier.
func (s *Shape) RenewCoordID(src ident.Source, id ident.CoordID) (ident.CoordID, error) {
	p, ok := s.coords[id]
	if !ok {
		return ident.Null, fmt.Errorf("coordinate %s: %w", id, ErrNotFound)
	}
	fresh := src.Coord()
	delete(s.coords, id)
	s.coords[fresh] = p
	if s.start == id {
		s.start = fresh
	}
	for i := range s.curves {
		c := &s.curves[i]
		for _, ref := range []*ident.CoordID{&c.CP0, &c.CP1, &c.P1} {
			if *ref == id {
				*ref = fresh
			}
		}
	}
	return fresh, nil
}
