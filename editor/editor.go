// Package editor turns pointer gestures on a viewport into document edits.
//
// A [Context] owns a scene, the command history editing it, a camera onto it
// and the user's selection. Gestures take screen coordinates, convert them to
// canvas space through the camera, and run the resulting commands through the
// history so that every edit can be undone. Pick and insert distances are
// configured in pixels and stay the same at every zoom level.
package editor

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"honnef.co/go/vgc"
	"honnef.co/go/vgc/camera"
	"honnef.co/go/vgc/command"
	"honnef.co/go/vgc/config"
	"honnef.co/go/vgc/ident"
	"honnef.co/go/vgc/scene"
	"honnef.co/go/vgc/shape"
)

var (
	ErrNotFound     = command.ErrNotFound
	ErrInvalidInput = command.ErrInvalidInput
	ErrNoChange     = command.ErrNoChange
)

type Context struct {
	settings config.Settings
	history  *command.History
	camera   *camera.Camera
	sel      Selection
	logger   *zap.Logger

	// pointer is the canvas position of the last Hover.
	pointer    vgc.Point
	hasPointer bool
}

type options struct {
	logger *zap.Logger
	scene  *scene.Scene
}

type Option func(*options)

// WithLogger sets the logger. The history logs through a child logger named
// "history".
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithScene edits an existing scene instead of a new one created from the
// settings.
func WithScene(s *scene.Scene) Option {
	return func(o *options) { o.scene = s }
}

// New returns a context for a viewport of width by height pixels, centered on
// the canvas origin.
func New(settings config.Settings, width, height float64, opts ...Option) (*Context, error) {
	if !(width > 0 && height > 0) {
		return nil, fmt.Errorf("viewport %gx%g: %w", width, height, ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scene == nil {
		o.scene = scene.New(settings.SceneOptions()...)
	}

	cam := camera.New(vgc.Point{}, width, height)
	if err := cam.SetSettings(settings.Camera); err != nil {
		return nil, err
	}
	logger := o.logger.With(zap.Stringer("scene", o.scene.ID()))
	h := command.New(o.scene,
		command.WithLogger(o.logger.Named("history")),
		command.WithLimit(settings.History.Limit))
	return &Context{
		settings: settings,
		history:  h,
		camera:   cam,
		logger:   logger,
	}, nil
}

func (c *Context) Scene() *scene.Scene { return c.history.Scene() }
func (c *Context) Camera() *camera.Camera { return c.camera }
func (c *Context) History() *command.History { return c.history }

// Selection returns the live selection. Callers may modify it; identifiers
// that do not exist are dropped by the next gesture.
func (c *Context) Selection() *Selection { return &c.sel }

func (c *Context) Settings() config.Settings { return c.settings }

// radius converts a pixel distance to a canvas radius at the current zoom.
func (c *Context) radius(px float64) vgc.Vec2 {
	return c.camera.FixedLength(vgc.Vec(px, px))
}

// execute runs cmd through the history, logging failures for gesture. A
// command that would change nothing is not an error.
func (c *Context) execute(gesture string, cmd command.Command) error {
	err := c.history.Execute(cmd)
	if errors.Is(err, ErrNoChange) {
		c.logger.Debug("gesture had no effect",
			zap.String("gesture", gesture),
			zap.String("command", command.Name(cmd)),
			zap.Error(err))
		return nil
	}
	if err != nil {
		c.logger.Error("gesture failed",
			zap.String("gesture", gesture),
			zap.String("command", command.Name(cmd)),
			zap.Error(err))
		return err
	}
	return nil
}

// coordAt returns the first coordinate of a selected shape within the pick
// radius of pt, in selection order and then outline order.
func (c *Context) coordAt(pt vgc.Point) (HoverCoord, bool) {
	r := c.radius(c.settings.Selection.PickRadius)
	for _, sel := range c.sel.Shapes {
		sh, ok := c.Scene().Shape(sel.Layer)
		if !ok {
			continue
		}
		for _, co := range sh.ListCoords() {
			if vgc.PointInRadius(pt, co.Point, r) {
				return HoverCoord{Layer: sel.Layer, Coord: co.ID}, true
			}
		}
	}
	return HoverCoord{}, false
}

// Select handles a click. With no shape selected, it selects the topmost
// shape under the pointer. Otherwise it replaces the selected coordinates
// with the first one within the pick radius.
func (c *Context) Select(screen vgc.Point) {
	c.sel.prune(c.Scene())
	pt := c.camera.Project(screen)
	if len(c.sel.Shapes) == 0 {
		if id, _, ok := c.Scene().ShapeContaining(pt); ok {
			c.sel.Shapes = []SelectedShape{{Layer: id}}
		}
		c.logSelection("select")
		return
	}

	c.sel.ClearTo(LevelShape)
	if hc, ok := c.coordAt(pt); ok {
		i := c.sel.index(hc.Layer)
		c.sel.Shapes[i].Coords = []ident.CoordID{hc.Coord}
	}
	c.logSelection("select")
}

// AddSelection handles a click that extends the selection. A coordinate
// within the pick radius is toggled. Otherwise the topmost shape under the
// pointer is added, or removed if it is selected without coordinates.
func (c *Context) AddSelection(screen vgc.Point) {
	c.sel.prune(c.Scene())
	pt := c.camera.Project(screen)
	defer c.logSelection("add selection")

	if hc, ok := c.coordAt(pt); ok {
		sel := &c.sel.Shapes[c.sel.index(hc.Layer)]
		if j := slices.Index(sel.Coords, hc.Coord); j >= 0 {
			sel.Coords = slices.Delete(sel.Coords, j, j+1)
		} else {
			sel.Coords = append(sel.Coords, hc.Coord)
		}
		return
	}

	id, _, ok := c.Scene().ShapeContaining(pt)
	if !ok {
		return
	}
	if i := c.sel.index(id); i >= 0 {
		if len(c.sel.Shapes[i].Coords) == 0 {
			c.sel.Remove(id)
		}
		return
	}
	c.sel.Shapes = append(c.sel.Shapes, SelectedShape{Layer: id})
}

// Deselect steps the selection one level down.
func (c *Context) Deselect() {
	c.sel.ClearTo(c.sel.Level().Down())
	c.logSelection("deselect")
}

// Hover records the pointer position and the selected shape's coordinate
// under it, if any.
func (c *Context) Hover(screen vgc.Point) {
	c.sel.prune(c.Scene())
	c.pointer = c.camera.Project(screen)
	c.hasPointer = true
	if hc, ok := c.coordAt(c.pointer); ok {
		c.sel.Hover = &hc
	} else {
		c.sel.Hover = nil
	}
}

func (c *Context) logSelection(gesture string) {
	c.logger.Debug("selection changed",
		zap.String("gesture", gesture),
		zap.Stringer("level", c.sel.Level()),
		zap.Int("shapes", len(c.sel.Shapes)))
}

// MoveSelection moves the selection by a screen distance. Selected
// coordinates move if there are any, otherwise every coordinate of the
// selected shapes does. Consecutive moves of the same selection become a
// single history entry.
func (c *Context) MoveSelection(screenDelta vgc.Vec2) error {
	c.sel.prune(c.Scene())
	level := c.sel.Level()
	if level == LevelNone {
		return nil
	}
	var targets []command.Target
	for _, sel := range c.sel.Shapes {
		ids := sel.Coords
		if level == LevelShape {
			sh, _ := c.Scene().Shape(sel.Layer)
			ids = sh.IDs()
		}
		if len(ids) == 0 {
			continue
		}
		targets = append(targets, command.Target{Layer: sel.Layer, Coords: append([]ident.CoordID(nil), ids...)})
	}
	return c.execute("move selection", &command.MoveCoords{
		Targets: targets,
		Delta:   c.camera.CanvasDelta(screenDelta),
	})
}

// AddOrRemoveCoord removes the hovered coordinate. Without one, it inserts a
// smooth anchor on the closest outline of a selected shape if the pointer is
// within the insert radius of it.
func (c *Context) AddOrRemoveCoord(screen vgc.Point) error {
	c.sel.prune(c.Scene())
	if hc := c.sel.Hover; hc != nil {
		c.sel.Hover = nil
		err := c.execute("remove coordinate", &command.RemoveCoord{Layer: hc.Layer, Coord: hc.Coord})
		c.sel.prune(c.Scene())
		return err
	}

	return c.insert("add coordinate", screen, false)
}

// InsertCorner inserts a corner anchor on the closest outline of a selected
// shape if the pointer is within the insert radius of it. The segment keeps
// its handles, so both halves bend towards the new anchor.
func (c *Context) InsertCorner(screen vgc.Point) error {
	c.sel.prune(c.Scene())
	return c.insert("insert corner", screen, true)
}

func (c *Context) insert(gesture string, screen vgc.Point, corner bool) error {
	pt := c.camera.Project(screen)
	layer, best, ok := c.closest(pt)
	if !ok || !vgc.PointInRadius(pt, best.Point, c.radius(c.settings.Selection.InsertRadius)) {
		return nil
	}
	return c.execute(gesture, &command.AddCoord{Layer: layer, Curve: best.Curve, T: best.T, Corner: corner})
}

// closest returns the point on the outlines of the selected shapes closest to
// pt.
func (c *Context) closest(pt vgc.Point) (ident.LayerID, shape.Closest, bool) {
	var (
		layer ident.LayerID
		best  shape.Closest
		found bool
	)
	for _, sel := range c.sel.Shapes {
		sh, ok := c.Scene().Shape(sel.Layer)
		if !ok {
			continue
		}
		cl, ok := sh.ClosestCurve(pt)
		if !ok {
			continue
		}
		if !found || cl.Distance < best.Distance {
			layer, best, found = sel.Layer, cl, true
		}
	}
	return layer, best, found
}

// ToggleHandle switches the hovered anchor between corner and smooth.
func (c *Context) ToggleHandle() error {
	c.sel.prune(c.Scene())
	hc := c.sel.Hover
	if hc == nil {
		return nil
	}
	return c.execute("toggle handle", &command.ToggleHandle{Layer: hc.Layer, Anchor: hc.Coord})
}

// SetColor fills every selected shape with col.
func (c *Context) SetColor(col vgc.Rgba) error {
	c.sel.prune(c.Scene())
	if len(c.sel.Shapes) == 0 {
		return nil
	}
	return c.execute("set color", &command.ChangeColor{Layers: c.sel.Layers(), Color: col})
}

// SelectedColors returns the distinct fills of the selected shapes.
func (c *Context) SelectedColors() []vgc.Rgba {
	var out []vgc.Rgba
	for _, sel := range c.sel.Shapes {
		sh, ok := c.Scene().Shape(sel.Layer)
		if !ok {
			continue
		}
		if !slices.Contains(out, sh.Fill()) {
			out = append(out, sh.Fill())
		}
	}
	return out
}

// DrawCircle draws a circle centered under the pointer. Its radius is fixed
// in pixels at a scaling of 1, so circles drawn while zoomed in are smaller on
// the canvas.
//
// With no shape selected, the circle becomes a new layer on top of the scene
// and is selected. Otherwise the first selected shape becomes the only
// selected one and the circle is merged into it, unless the shape is open or
// the two do not overlap, in which case the circle is added as a new layer.
func (c *Context) DrawCircle(screen vgc.Point, col vgc.Rgba) error {
	c.sel.prune(c.Scene())
	r := c.settings.Selection.NewShapeRadius
	radius := c.camera.FixedLengthNoScale(vgc.Vec(r, r))
	center := c.camera.Project(screen)
	sh := shape.NewCircle(c.Scene().IDs(), center, radius, col)

	if len(c.sel.Shapes) > 0 {
		target := c.sel.Shapes[0].Layer
		c.sel = Selection{Shapes: []SelectedShape{{Layer: target}}}
		if tsh, _ := c.Scene().Shape(target); tsh.IsClosed() {
			err := c.history.Execute(&command.Boolean{Op: shape.Union, A: target, Shape: sh})
			switch {
			case err == nil:
				c.logSelection("draw circle")
				return nil
			case !errors.Is(err, ErrNoChange):
				c.logger.Error("gesture failed",
					zap.String("gesture", "draw circle"),
					zap.String("command", "Boolean"),
					zap.Error(err))
				return err
			case tsh.Contains(center):
				// the circle lies within the shape
				return nil
			}
		}
	}

	cmd := &command.InsertLayer{Shape: sh}
	if err := c.execute("draw circle", cmd); err != nil {
		return err
	}
	c.sel = Selection{Shapes: []SelectedShape{{Layer: cmd.ID()}}}
	c.logSelection("draw circle")
	return nil
}

// MoveLayer moves a layer to the position of another.
func (c *Context) MoveLayer(moved, target ident.LayerID) error {
	return c.execute("move layer", &command.MoveLayer{Moved: moved, Target: target})
}

// Arrange moves the selected shapes through the painting order. Selected
// shapes keep their order relative to each other. A shape that is blocked by
// the end of the scene, or by a selected neighbor that is itself blocked,
// stays where it is.
func (c *Context) Arrange(by command.Arrangement) error {
	c.sel.prune(c.Scene())
	sc := c.Scene()
	layers := c.sel.Layers()
	slices.SortFunc(layers, func(x, y ident.LayerID) int {
		return cmp.Compare(sc.Position(x), sc.Position(y))
	})
	arrange := func(id ident.LayerID) error {
		return c.execute("arrange", &command.ArrangeLayer{Layer: id, By: by})
	}

	switch by {
	case command.Raise:
		limit := sc.Len() - 1
		for _, id := range slices.Backward(layers) {
			if pos := sc.Position(id); pos >= limit {
				limit = pos - 1
				continue
			}
			if err := arrange(id); err != nil {
				return err
			}
		}
	case command.Lower:
		limit := 0
		for _, id := range layers {
			if pos := sc.Position(id); pos <= limit {
				limit = pos + 1
				continue
			}
			if err := arrange(id); err != nil {
				return err
			}
		}
	case command.RaiseToTop:
		top := true
		for i, id := range layers {
			top = top && sc.Position(id) == sc.Len()-len(layers)+i
		}
		if top {
			return nil
		}
		for _, id := range layers {
			if err := arrange(id); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("arrangement %s: %w", by, ErrInvalidInput)
	}
	return nil
}

// Union merges the second of exactly two selected shapes into the first.
func (c *Context) Union() error { return c.combine("union", shape.Union) }

// Intersect replaces the first of exactly two selected shapes with the area
// both cover, and removes the second.
func (c *Context) Intersect() error { return c.combine("intersection", shape.Intersection) }

// Subtract cuts the second of exactly two selected shapes out of the first,
// and removes the second.
func (c *Context) Subtract() error { return c.combine("difference", shape.Difference) }

// combine runs a boolean operation on the two selected shapes. Afterwards the
// first shape is selected if it still exists.
func (c *Context) combine(gesture string, op shape.Op) error {
	c.sel.prune(c.Scene())
	if n := len(c.sel.Shapes); n != 2 {
		err := fmt.Errorf("%s of %d selected shapes, want 2: %w", gesture, n, ErrInvalidInput)
		c.logger.Warn("gesture failed", zap.String("gesture", gesture), zap.Error(err))
		return err
	}
	a, b := c.sel.Shapes[0].Layer, c.sel.Shapes[1].Layer
	if err := c.execute(gesture, &command.Boolean{Op: op, A: a, B: b}); err != nil {
		return err
	}
	c.sel.prune(c.Scene())
	c.sel.ClearTo(LevelShape)
	c.sel.Remove(b)
	c.logSelection(gesture)
	return nil
}

// RemoveSelected deletes the selected coordinates, or the selected shapes if
// no coordinate is selected. Each deletion is its own history entry; on
// failure the deletions made so far stay applied.
func (c *Context) RemoveSelected() error {
	c.sel.prune(c.Scene())
	defer c.sel.prune(c.Scene())
	switch c.sel.Level() {
	case LevelCoord:
		for _, sel := range c.sel.Shapes {
			for _, id := range sel.Coords {
				// earlier deletions may have taken this coordinate or the
				// whole shape with them
				sh, ok := c.Scene().Shape(sel.Layer)
				if !ok {
					break
				}
				if _, ok := sh.Coord(id); !ok {
					continue
				}
				if err := c.execute("remove selected", &command.RemoveCoord{Layer: sel.Layer, Coord: id}); err != nil {
					return err
				}
			}
		}
	case LevelShape:
		for _, id := range c.sel.Layers() {
			if err := c.execute("remove selected", &command.RemoveLayer{Layer: id}); err != nil {
				return err
			}
		}
		c.sel.ClearTo(LevelNone)
	}
	return nil
}

func (c *Context) Undo() error {
	defer c.sel.prune(c.Scene())
	if err := c.history.Undo(); err != nil {
		c.logger.Error("gesture failed", zap.String("gesture", "undo"), zap.Error(err))
		return err
	}
	return nil
}

func (c *Context) Redo() error {
	defer c.sel.prune(c.Scene())
	if err := c.history.Redo(); err != nil {
		c.logger.Error("gesture failed", zap.String("gesture", "redo"), zap.Error(err))
		return err
	}
	return nil
}
