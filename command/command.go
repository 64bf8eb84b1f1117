// Package command implements reversible edits of a [scene.Scene] and a
// history that executes, merges, undoes and redoes them.
//
// Every command is constructed with the identifiers it operates on. Execute
// applies the edit and records whatever Undo needs to revert it exactly. A
// failing Execute or Undo leaves the scene unchanged. Executing a command
// again after undoing it reproduces the same identifiers as the first
// execution.
package command

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"honnef.co/go/vgc"
	"honnef.co/go/vgc/ident"
	"honnef.co/go/vgc/scene"
	"honnef.co/go/vgc/shape"
)

var (
	ErrNotFound     = scene.ErrNotFound
	ErrInvalidInput = scene.ErrInvalidInput
	// ErrNoChange is returned by commands that would leave the scene as it
	// is. They are not recorded.
	ErrNoChange = errors.New("no change")
)

// Command is a reversible edit. The set of commands is closed; see the types
// of this package.
type Command interface {
	Execute(s *scene.Scene) error
	Undo(s *scene.Scene) error

	command()
}

var (
	_ Command = (*InsertLayer)(nil)
	_ Command = (*RemoveLayer)(nil)
	_ Command = (*MoveLayer)(nil)
	_ Command = (*ArrangeLayer)(nil)
	_ Command = (*RenameLayer)(nil)
	_ Command = (*MoveCoords)(nil)
	_ Command = (*ChangeColor)(nil)
	_ Command = (*AddCoord)(nil)
	_ Command = (*RemoveCoord)(nil)
	_ Command = (*ToggleHandle)(nil)
	_ Command = (*Boolean)(nil)
)

func (*InsertLayer) command()  {}
func (*RemoveLayer) command()  {}
func (*MoveLayer) command()    {}
func (*ArrangeLayer) command() {}
func (*RenameLayer) command()  {}
func (*MoveCoords) command()   {}
func (*ChangeColor) command()  {}
func (*AddCoord) command()     {}
func (*RemoveCoord) command()  {}
func (*ToggleHandle) command() {}
func (*Boolean) command()      {}

// Name returns the name of a command's type.
func Name(c Command) string {
	switch c.(type) {
	case *InsertLayer:
		return "InsertLayer"
	case *RemoveLayer:
		return "RemoveLayer"
	case *MoveLayer:
		return "MoveLayer"
	case *ArrangeLayer:
		return "ArrangeLayer"
	case *RenameLayer:
		return "RenameLayer"
	case *MoveCoords:
		return "MoveCoords"
	case *ChangeColor:
		return "ChangeColor"
	case *AddCoord:
		return "AddCoord"
	case *RemoveCoord:
		return "RemoveCoord"
	case *ToggleHandle:
		return "ToggleHandle"
	case *Boolean:
		return "Boolean"
	default:
		panic(fmt.Sprintf("unhandled command %T", c))
	}
}

// Merge combines prev, which has already been executed, with next, which has
// been executed right after it, into a single command with the effect of
// both. It reports false if the two cannot be merged.
func Merge(prev, next Command) (Command, bool) {
	switch prev := prev.(type) {
	case *MoveCoords:
		next, ok := next.(*MoveCoords)
		if !ok || !sameTargets(prev.Targets, next.Targets) {
			return nil, false
		}
		return &MoveCoords{
			Targets: prev.Targets,
			Delta:   prev.Delta.Add(next.Delta),
			before:  prev.before,
		}, true
	case *ChangeColor:
		next, ok := next.(*ChangeColor)
		if !ok || !slices.Equal(prev.Layers, next.Layers) {
			return nil, false
		}
		return &ChangeColor{
			Layers: prev.Layers,
			Color:  next.Color,
			old:    prev.old,
		}, true
	case *RenameLayer:
		next, ok := next.(*RenameLayer)
		if !ok || prev.Layer != next.Layer {
			return nil, false
		}
		return &RenameLayer{
			Layer: prev.Layer,
			Name:  next.Name,
			old:   prev.old,
			done:  true,
		}, true
	default:
		return nil, false
	}
}

func sameSet(a, b []ident.CoordID) bool {
	if len(a) != len(b) {
		return false
	}
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func shapeOf(s *scene.Scene, id ident.LayerID) (*shape.Shape, error) {
	sh, ok := s.Shape(id)
	if !ok {
		return nil, fmt.Errorf("shape layer %s: %w", id, ErrNotFound)
	}
	return sh, nil
}

func notExecuted(c Command) error {
	return fmt.Errorf("undoing %s that was not executed: %w", Name(c), ErrInvalidInput)
}

// InsertLayer adds a shape layer on top of the scene.
type InsertLayer struct {
	Shape *shape.Shape

	id    ident.LayerID
	layer *scene.Layer
	index int
}

// ID returns the identifier of the inserted layer, or the null identifier
// before the first execution.
func (c *InsertLayer) ID() ident.LayerID { return c.id }

func (c *InsertLayer) Execute(s *scene.Scene) error {
	if c.layer != nil {
		if err := s.Restore(c.layer, c.index); err != nil {
			return err
		}
		c.layer = nil
		return nil
	}
	if c.Shape == nil {
		return fmt.Errorf("inserting a nil shape: %w", ErrInvalidInput)
	}
	c.id = s.InsertShape(c.Shape)
	return nil
}

func (c *InsertLayer) Undo(s *scene.Scene) error {
	if c.id.IsNull() {
		return notExecuted(c)
	}
	l, i, err := s.Remove(c.id)
	if err != nil {
		return err
	}
	c.layer, c.index = l, i
	return nil
}

// RemoveLayer deletes a layer. Undoing puts it back at its former index with
// its identifier.
type RemoveLayer struct {
	Layer ident.LayerID

	removed *scene.Layer
	index   int
}

func (c *RemoveLayer) Execute(s *scene.Scene) error {
	l, i, err := s.Remove(c.Layer)
	if err != nil {
		return err
	}
	c.removed, c.index = l, i
	return nil
}

func (c *RemoveLayer) Undo(s *scene.Scene) error {
	if c.removed == nil {
		return notExecuted(c)
	}
	if err := s.Restore(c.removed, c.index); err != nil {
		return err
	}
	c.removed = nil
	return nil
}

// MoveLayer moves layer Moved to the index held by Target. Moving a layer
// onto itself fails with [ErrNoChange].
type MoveLayer struct {
	Moved  ident.LayerID
	Target ident.LayerID

	from int
	done bool
}

func (c *MoveLayer) Execute(s *scene.Scene) error {
	if c.Moved == c.Target {
		return fmt.Errorf("moving layer %s onto itself: %w", c.Moved, ErrNoChange)
	}
	from := s.Position(c.Moved)
	if from < 0 {
		return fmt.Errorf("layer %s: %w", c.Moved, ErrNotFound)
	}
	if s.Position(c.Target) < 0 {
		return fmt.Errorf("layer %s: %w", c.Target, ErrNotFound)
	}
	if err := s.MoveLayerAt(c.Moved, c.Target); err != nil {
		return err
	}
	c.from, c.done = from, true
	return nil
}

func (c *MoveLayer) Undo(s *scene.Scene) error {
	if !c.done {
		return notExecuted(c)
	}
	if s.Position(c.Moved) < 0 {
		return fmt.Errorf("layer %s: %w", c.Moved, ErrNotFound)
	}
	if err := s.MoveLayerTo(c.Moved, c.from); err != nil {
		return err
	}
	c.done = false
	return nil
}

// Arrangement is a step in the painting order.
type Arrangement uint8

const (
	// Raise moves a layer one step towards the front.
	Raise Arrangement = iota + 1
	// Lower moves a layer one step towards the back.
	Lower
	// RaiseToTop moves a layer in front of all others.
	RaiseToTop
)

func (a Arrangement) String() string {
	switch a {
	case Raise:
		return "Raise"
	case Lower:
		return "Lower"
	case RaiseToTop:
		return "RaiseToTop"
	default:
		return fmt.Sprintf("Arrangement(%d)", a)
	}
}

// ArrangeLayer changes where a layer sits in the painting order. A layer
// that cannot move any further in the requested direction fails with
// [ErrNoChange].
type ArrangeLayer struct {
	Layer ident.LayerID
	By    Arrangement

	from int
	done bool
}

func (c *ArrangeLayer) Execute(s *scene.Scene) error {
	from := s.Position(c.Layer)
	if from < 0 {
		return fmt.Errorf("layer %s: %w", c.Layer, ErrNotFound)
	}
	var err error
	switch c.By {
	case Raise, RaiseToTop:
		if from == s.Len()-1 {
			return fmt.Errorf("layer %s is already at the top: %w", c.Layer, ErrNoChange)
		}
		if c.By == Raise {
			err = s.Raise(c.Layer)
		} else {
			err = s.RaiseToTop(c.Layer)
		}
	case Lower:
		if from == 0 {
			return fmt.Errorf("layer %s is already at the bottom: %w", c.Layer, ErrNoChange)
		}
		err = s.Lower(c.Layer)
	default:
		return fmt.Errorf("arrangement %s: %w", c.By, ErrInvalidInput)
	}
	if err != nil {
		return err
	}
	c.from, c.done = from, true
	return nil
}

func (c *ArrangeLayer) Undo(s *scene.Scene) error {
	if !c.done {
		return notExecuted(c)
	}
	if s.Position(c.Layer) < 0 {
		return fmt.Errorf("layer %s: %w", c.Layer, ErrNotFound)
	}
	if err := s.MoveLayerTo(c.Layer, c.from); err != nil {
		return err
	}
	c.done = false
	return nil
}

// RenameLayer sets the display name of a layer.
type RenameLayer struct {
	Layer ident.LayerID
	Name  string

	old  string
	done bool
}

func (c *RenameLayer) Execute(s *scene.Scene) error {
	l, ok := s.Layer(c.Layer)
	if !ok {
		return fmt.Errorf("layer %s: %w", c.Layer, ErrNotFound)
	}
	old := l.Name()
	if err := s.Rename(c.Layer, c.Name); err != nil {
		return err
	}
	c.old, c.done = old, true
	return nil
}

func (c *RenameLayer) Undo(s *scene.Scene) error {
	if !c.done {
		return notExecuted(c)
	}
	if err := s.Rename(c.Layer, c.old); err != nil {
		return err
	}
	c.done = false
	return nil
}

// Target names coordinates of one shape.
type Target struct {
	Layer  ident.LayerID
	Coords []ident.CoordID
}

// MoveCoords translates coordinates of one or more shapes by Delta, following
// the handle rules of [shape.Shape.MoveCoords].
type MoveCoords struct {
	Targets []Target
	Delta   vgc.Vec2

	before map[ident.LayerID]map[ident.CoordID]vgc.Point
}

func (c *MoveCoords) Execute(s *scene.Scene) error {
	if c.Delta.IsNaN() {
		return fmt.Errorf("delta %s: %w", c.Delta, ErrInvalidInput)
	}
	shapes := make([]*shape.Shape, len(c.Targets))
	before := make(map[ident.LayerID]map[ident.CoordID]vgc.Point, len(c.Targets))
	for i, tgt := range c.Targets {
		sh, err := shapeOf(s, tgt.Layer)
		if err != nil {
			return err
		}
		shapes[i] = sh
		if _, ok := before[tgt.Layer]; !ok {
			before[tgt.Layer] = sh.Positions()
		}
	}
	for i, tgt := range c.Targets {
		if err := shapes[i].MoveCoords(tgt.Coords, c.Delta); err != nil {
			return errors.Join(err, restore(s, before))
		}
	}
	c.before = before
	return nil
}

func (c *MoveCoords) Undo(s *scene.Scene) error {
	if c.before == nil {
		return notExecuted(c)
	}
	for id := range c.before {
		if _, err := shapeOf(s, id); err != nil {
			return err
		}
	}
	if err := restore(s, c.before); err != nil {
		return err
	}
	c.before = nil
	return nil
}

func restore(s *scene.Scene, pos map[ident.LayerID]map[ident.CoordID]vgc.Point) error {
	for id, p := range pos {
		sh, ok := s.Shape(id)
		if !ok {
			continue
		}
		if err := sh.RestorePositions(p); err != nil {
			return err
		}
	}
	return nil
}

func sameTargets(a, b []Target) bool {
	return slices.EqualFunc(a, b, func(x, y Target) bool {
		return x.Layer == y.Layer && sameSet(x.Coords, y.Coords)
	})
}

// ChangeColor sets the fill of several shapes.
type ChangeColor struct {
	Layers []ident.LayerID
	Color  vgc.Rgba

	old []vgc.Rgba
}

func (c *ChangeColor) Execute(s *scene.Scene) error {
	shapes := make([]*shape.Shape, len(c.Layers))
	for i, id := range c.Layers {
		sh, err := shapeOf(s, id)
		if err != nil {
			return err
		}
		shapes[i] = sh
	}
	old := make([]vgc.Rgba, len(shapes))
	for i, sh := range shapes {
		old[i] = sh.Fill()
		sh.SetFill(c.Color)
	}
	c.old = old
	return nil
}

func (c *ChangeColor) Undo(s *scene.Scene) error {
	if c.old == nil {
		return notExecuted(c)
	}
	shapes := make([]*shape.Shape, len(c.Layers))
	for i, id := range c.Layers {
		sh, err := shapeOf(s, id)
		if err != nil {
			return err
		}
		shapes[i] = sh
	}
	// in reverse, so a layer named twice ends with its first saved fill
	for i := len(shapes) - 1; i >= 0; i-- {
		shapes[i].SetFill(c.old[i])
	}
	c.old = nil
	return nil
}

// AddCoord splits segment Curve of a shape at parameter T, inserting a smooth
// anchor without changing the outline. With Corner set it inserts a corner
// anchor at the same point instead, with [shape.Shape.InsertCorner], which
// keeps the segment's handles and so bends the two halves.
type AddCoord struct {
	Layer  ident.LayerID
	Curve  int
	T      float64
	Corner bool

	ids   *ident.Replay
	split shape.Split
	old   map[ident.CoordID]vgc.Point
}

// Split returns the coordinates created by the last execution.
func (c *AddCoord) Split() shape.Split { return c.split }

func (c *AddCoord) Execute(s *scene.Scene) error {
	sh, err := shapeOf(s, c.Layer)
	if err != nil {
		return err
	}
	seg, err := sh.Curve(c.Curve)
	if err != nil {
		return err
	}
	old := map[ident.CoordID]vgc.Point{
		seg.Curve.CP0: seg.Bez.P1,
		seg.Curve.CP1: seg.Bez.P2,
	}

	var rec *ident.Replay
	if c.ids == nil {
		rec = ident.Record(s.IDs())
	} else {
		rec = c.ids.Rewind()
	}
	var sp shape.Split
	if c.Corner {
		if math.IsNaN(c.T) || c.T < 0 || c.T > 1 {
			return fmt.Errorf("parameter %g outside [0, 1]: %w", c.T, ErrInvalidInput)
		}
		sp, err = sh.InsertCorner(rec, c.Curve, seg.Bez.Eval(c.T))
	} else {
		sp, err = sh.InsertSmooth(rec, c.Curve, c.T)
	}
	if err != nil {
		return err
	}
	if c.ids == nil {
		c.ids = rec
	}
	c.split, c.old = sp, old
	return nil
}

func (c *AddCoord) Undo(s *scene.Scene) error {
	if c.old == nil {
		return notExecuted(c)
	}
	sh, err := shapeOf(s, c.Layer)
	if err != nil {
		return err
	}
	if _, ok := sh.Coord(c.split.Anchor); !ok {
		return fmt.Errorf("coordinate %s: %w", c.split.Anchor, ErrNotFound)
	}
	if err := sh.DeleteCoord(c.split.Anchor); err != nil {
		return err
	}
	if err := sh.RestorePositions(c.old); err != nil {
		return err
	}
	c.old = nil
	return nil
}

// RemoveCoord deletes a coordinate of a shape with [shape.Shape.DeleteCoord].
// If the shape ends up empty, its layer is removed as well.
type RemoveCoord struct {
	Layer ident.LayerID
	Coord ident.CoordID

	before  *shape.Shape
	removed *scene.Layer
	index   int
}

func (c *RemoveCoord) Execute(s *scene.Scene) error {
	sh, err := shapeOf(s, c.Layer)
	if err != nil {
		return err
	}
	before := sh.Clone()
	if err := sh.DeleteCoord(c.Coord); err != nil {
		return err
	}
	c.before, c.removed = before, nil
	if sh.IsEmpty() {
		l, i, err := s.Remove(c.Layer)
		if err != nil {
			return err
		}
		c.removed, c.index = l, i
	}
	return nil
}

func (c *RemoveCoord) Undo(s *scene.Scene) error {
	if c.before == nil {
		return notExecuted(c)
	}
	if c.removed != nil {
		if err := s.Restore(c.removed, c.index); err != nil {
			return err
		}
		c.removed = nil
	}
	if err := s.PutShape(c.Layer, c.before); err != nil {
		return err
	}
	c.before = nil
	return nil
}

// ToggleHandle switches an anchor between smooth and corner with
// [shape.Shape.ToggleCorner].
type ToggleHandle struct {
	Layer  ident.LayerID
	Anchor ident.CoordID

	before map[ident.CoordID]vgc.Point
	corner bool
}

func (c *ToggleHandle) Execute(s *scene.Scene) error {
	sh, err := shapeOf(s, c.Layer)
	if err != nil {
		return err
	}
	before, corner := sh.Positions(), sh.IsCorner(c.Anchor)
	if err := sh.ToggleCorner(c.Anchor); err != nil {
		return err
	}
	c.before, c.corner = before, corner
	return nil
}

func (c *ToggleHandle) Undo(s *scene.Scene) error {
	if c.before == nil {
		return notExecuted(c)
	}
	sh, err := shapeOf(s, c.Layer)
	if err != nil {
		return err
	}
	if err := sh.SetCorner(c.Anchor, c.corner); err != nil {
		return err
	}
	if err := sh.RestorePositions(c.before); err != nil {
		return err
	}
	c.before = nil
	return nil
}

// Boolean replaces shape A with the result of a boolean operation between it
// and a second operand, computed by [shape.Combine]. The second operand is
// shape B, which is removed, or Shape if set, which is not part of the
// scene. An empty result removes A as well, and outlines beyond the first
// are added as new layers on top of the scene.
//
// Operations that leave both shapes as they are, such as the union of shapes
// that do not overlap, fail with [ErrNoChange]. A difference that would cut a
// hole fails with [ErrInvalidInput].
type Boolean struct {
	Op    shape.Op
	A     ident.LayerID
	B     ident.LayerID
	Shape *shape.Shape

	plan    *booleanPlan
	before  *shape.Shape
	removed []placed
	// added holds the layers created by the first execution while undone.
	added []placed
	done  bool
}

type booleanPlan struct {
	outcome shape.Outcome
	// shape is A's new shape, or nil to keep it.
	shape  *shape.Shape
	remove []ident.LayerID
	extra  []*shape.Shape
	// extraIDs are the layers created for extra.
	extraIDs []ident.LayerID
}

type placed struct {
	layer *scene.Layer
	index int
}

// Outcome returns how the last planned result relates to the operands, or 0
// before the first execution.
func (c *Boolean) Outcome() shape.Outcome {
	if c.plan == nil {
		return 0
	}
	return c.plan.outcome
}

func (c *Boolean) operands(s *scene.Scene) (a, b *shape.Shape, err error) {
	a, err = shapeOf(s, c.A)
	if err != nil {
		return nil, nil, err
	}
	if c.Shape != nil {
		return a, c.Shape, nil
	}
	if c.A == c.B {
		return nil, nil, fmt.Errorf("combining layer %s with itself: %w", c.A, ErrInvalidInput)
	}
	b, err = shapeOf(s, c.B)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func (c *Boolean) makePlan(s *scene.Scene, a, b *shape.Shape) (*booleanPlan, error) {
	res, err := shape.Combine(s.IDs(), c.Op, a, b)
	if err != nil {
		return nil, err
	}
	p := &booleanPlan{outcome: res.Outcome}
	switch res.Outcome {
	case shape.OutcomeA:
		if c.Shape != nil {
			return nil, fmt.Errorf("%s leaves layer %s unchanged: %w", c.Op, c.A, ErrNoChange)
		}
	case shape.OutcomeB, shape.OutcomeNew:
		p.shape, p.extra = res.Shapes[0], res.Shapes[1:]
	case shape.OutcomeEmpty:
		p.remove = append(p.remove, c.A)
	case shape.OutcomeDisjoint:
		return nil, fmt.Errorf("%s of layer %s with a shape it does not overlap: %w", c.Op, c.A, ErrNoChange)
	case shape.OutcomeHole:
		return nil, fmt.Errorf("%s would cut a hole into layer %s: %w", c.Op, c.A, ErrInvalidInput)
	}
	if c.Shape == nil {
		// B goes first so that undoing puts A back before it
		p.remove = append([]ident.LayerID{c.B}, p.remove...)
	}
	return p, nil
}

func (c *Boolean) Execute(s *scene.Scene) error {
	a, b, err := c.operands(s)
	if err != nil {
		return err
	}
	if c.plan == nil {
		p, err := c.makePlan(s, a, b)
		if err != nil {
			return err
		}
		c.plan = p
	}
	for _, pl := range c.added {
		if s.Position(pl.layer.ID()) >= 0 {
			return fmt.Errorf("layer %s already present: %w", pl.layer.ID(), ErrInvalidInput)
		}
	}

	p := c.plan
	if p.shape != nil {
		c.before = a.Clone()
		if err := s.PutShape(c.A, p.shape.Clone()); err != nil {
			return err
		}
	}
	c.removed = c.removed[:0]
	for _, id := range p.remove {
		l, i, err := s.Remove(id)
		if err != nil {
			return err
		}
		c.removed = append(c.removed, placed{l, i})
	}
	if p.extraIDs == nil {
		for _, sh := range p.extra {
			p.extraIDs = append(p.extraIDs, s.InsertShape(sh.Clone()))
		}
	} else {
		for i := len(c.added) - 1; i >= 0; i-- {
			if err := s.Restore(c.added[i].layer, c.added[i].index); err != nil {
				return err
			}
		}
		c.added = nil
	}
	c.done = true
	return nil
}

func (c *Boolean) Undo(s *scene.Scene) error {
	if !c.done {
		return notExecuted(c)
	}
	p := c.plan
	for _, id := range p.extraIDs {
		if s.Position(id) < 0 {
			return fmt.Errorf("layer %s: %w", id, ErrNotFound)
		}
	}
	if p.shape != nil {
		if _, err := shapeOf(s, c.A); err != nil {
			return err
		}
	}

	for i := len(p.extraIDs) - 1; i >= 0; i-- {
		l, idx, err := s.Remove(p.extraIDs[i])
		if err != nil {
			return err
		}
		c.added = append(c.added, placed{l, idx})
	}
	for i := len(c.removed) - 1; i >= 0; i-- {
		if err := s.Restore(c.removed[i].layer, c.removed[i].index); err != nil {
			return err
		}
	}
	c.removed = nil
	if p.shape != nil {
		if err := s.PutShape(c.A, c.before); err != nil {
			return err
		}
		c.before = nil
	}
	c.done = false
	return nil
}
