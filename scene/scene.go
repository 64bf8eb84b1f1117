// Package scene stores the shapes of a document as an ordered list of
// layers.
//
// Layers are painted in index order: index 0 is at the back and later layers
// are drawn on top of earlier ones. Lookups by identifier are linear scans;
// documents are expected to hold at most a few thousand layers.
package scene

import (
	"fmt"
	"iter"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"honnef.co/go/vgc"
	"honnef.co/go/vgc/ident"
	"honnef.co/go/vgc/shape"
)

var (
	ErrNotFound     = shape.ErrNotFound
	ErrInvalidInput = shape.ErrInvalidInput
)

// Kind is the type of a layer.
type Kind uint8

const (
	KindShape Kind = iota + 1
	KindFolder
)

func (k Kind) String() string {
	switch k {
	case KindShape:
		return "Shape"
	case KindFolder:
		return "Folder"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Layer is one entry of a scene.
type Layer struct {
	id    ident.LayerID
	name  string
	kind  Kind
	shape *shape.Shape
}

func (l *Layer) ID() ident.LayerID { return l.id }
func (l *Layer) Name() string { return l.name }
func (l *Layer) Kind() Kind { return l.kind }

// Shape returns the shape of a shape layer, or nil for folders.
func (l *Layer) Shape() *shape.Shape { return l.shape }

func (l *Layer) clone() *Layer {
	out := *l
	if l.shape != nil {
		out.shape = l.shape.Clone()
	}
	return &out
}

// MissingIDPolicy decides how layer reordering treats unknown identifiers.
type MissingIDPolicy uint8

const (
	// Ignore turns operations on unknown identifiers into silent no-ops.
	Ignore MissingIDPolicy = iota
	// Report makes operations on unknown identifiers return [ErrNotFound].
	Report
)

// Scene is an ordered collection of layers.
type Scene struct {
	id         uuid.UUID
	ids        ident.Source
	background vgc.Rgba
	policy     MissingIDPolicy
	layers     []*Layer
}

type Option func(*Scene)

// WithAllocator sets the source of layer and coordinate identifiers.
func WithAllocator(src ident.Source) Option {
	return func(s *Scene) { s.ids = src }
}

// WithBackground sets the background color.
func WithBackground(c vgc.Rgba) Option {
	return func(s *Scene) { s.background = c }
}

// WithMissingIDPolicy sets how reordering treats unknown identifiers. The
// default is [Ignore].
func WithMissingIDPolicy(p MissingIDPolicy) Option {
	return func(s *Scene) { s.policy = p }
}

// WithID sets the document identifier instead of generating a random one.
func WithID(id uuid.UUID) Option {
	return func(s *Scene) { s.id = id }
}

// DefaultBackground is a fully transparent white.
var DefaultBackground = vgc.NewRgba(255, 255, 255, 0)

func New(opts ...Option) *Scene {
	s := &Scene{
		background: DefaultBackground,
		policy:     Ignore,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = ident.NewAllocator(1)
	}
	if s.id == uuid.Nil {
		s.id = uuid.New()
	}
	return s
}

// ID returns the document identifier.
func (s *Scene) ID() uuid.UUID { return s.id }

// IDs returns the identifier source shared by all shapes of the scene.
func (s *Scene) IDs() ident.Source { return s.ids }

func (s *Scene) Background() vgc.Rgba { return s.background }
func (s *Scene) SetBackground(c vgc.Rgba) { s.background = c }
func (s *Scene) Policy() MissingIDPolicy { return s.policy }
func (s *Scene) Len() int { return len(s.layers) }

// InsertShape appends a shape layer on top of all others and returns its
// identifier. The layer is named after its identifier.
func (s *Scene) InsertShape(sh *shape.Shape) ident.LayerID {
	id := s.ids.Layer()
	s.layers = append(s.layers, &Layer{
		id:    id,
		name:  "Shape " + strconv.FormatUint(uint64(id), 10),
		kind:  KindShape,
		shape: sh,
	})
	return id
}

// InsertFolder appends a folder layer.
func (s *Scene) InsertFolder(name string) ident.LayerID {
	id := s.ids.Layer()
	s.layers = append(s.layers, &Layer{id: id, name: name, kind: KindFolder})
	return id
}

// Layer returns the layer with the given identifier.
func (s *Scene) Layer(id ident.LayerID) (*Layer, bool) {
	i := s.Position(id)
	if i < 0 {
		return nil, false
	}
	return s.layers[i], true
}

// Shape returns the shape of a shape layer.
func (s *Scene) Shape(id ident.LayerID) (*shape.Shape, bool) {
	l, ok := s.Layer(id)
	if !ok || l.shape == nil {
		return nil, false
	}
	return l.shape, true
}

// Position returns the index of a layer, or -1.
func (s *Scene) Position(id ident.LayerID) int {
	return slices.IndexFunc(s.layers, func(l *Layer) bool { return l.id == id })
}

// Layers iterates over the layers from back to front.
func (s *Scene) Layers() iter.Seq2[int, *Layer] {
	return func(yield func(int, *Layer) bool) {
		for i, l := range s.layers {
			if !yield(i, l) {
				return
			}
		}
	}
}

// ShapeContaining returns the topmost shape whose fill contains pt.
func (s *Scene) ShapeContaining(pt vgc.Point) (ident.LayerID, *shape.Shape, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		l := s.layers[i]
		if l.shape != nil && l.shape.Contains(pt) {
			return l.id, l.shape, true
		}
	}
	return ident.Null, nil, false
}

func (s *Scene) missing(id ident.LayerID) error {
	if s.policy == Ignore {
		return nil
	}
	return fmt.Errorf("layer %s: %w", id, ErrNotFound)
}

// MoveLayerAt moves a layer to the index the target layer occupies. The
// target and every layer between the two shift by one towards the moved
// layer's old position.
func (s *Scene) MoveLayerAt(moved, target ident.LayerID) error {
	from := s.Position(moved)
	if from < 0 {
		return s.missing(moved)
	}
	to := s.Position(target)
	if to < 0 {
		return s.missing(target)
	}
	s.move(from, to)
	return nil
}

// MoveLayerTo moves a layer to an index, clamped to the valid range.
func (s *Scene) MoveLayerTo(id ident.LayerID, index int) error {
	from := s.Position(id)
	if from < 0 {
		return s.missing(id)
	}
	s.move(from, min(max(index, 0), len(s.layers)-1))
	return nil
}

// Raise moves a layer one step towards the front.
func (s *Scene) Raise(id ident.LayerID) error {
	i := s.Position(id)
	if i < 0 {
		return s.missing(id)
	}
	return s.MoveLayerTo(id, i+1)
}

// Lower moves a layer one step towards the back.
func (s *Scene) Lower(id ident.LayerID) error {
	i := s.Position(id)
	if i < 0 {
		return s.missing(id)
	}
	return s.MoveLayerTo(id, i-1)
}

// RaiseToTop moves a layer in front of all others.
func (s *Scene) RaiseToTop(id ident.LayerID) error {
	return s.MoveLayerTo(id, len(s.layers)-1)
}

func (s *Scene) move(from, to int) {
	if from == to {
		return
	}
	l := s.layers[from]
	s.layers = slices.Delete(s.layers, from, from+1)
	s.layers = slices.Insert(s.layers, to, l)
}

// Remove deletes a layer and returns it together with its former index, so
// that it can be put back with [Scene.Restore].
func (s *Scene) Remove(id ident.LayerID) (*Layer, int, error) {
	i := s.Position(id)
	if i < 0 {
		return nil, -1, fmt.Errorf("layer %s: %w", id, ErrNotFound)
	}
	l := s.layers[i]
	s.layers = slices.Delete(s.layers, i, i+1)
	return l, i, nil
}

// Restore inserts a previously removed layer at index, keeping its
// identifier. The index is clamped to the valid range.
func (s *Scene) Restore(l *Layer, index int) error {
	if l == nil || l.id.IsNull() {
		return fmt.Errorf("restoring a null layer: %w", ErrInvalidInput)
	}
	if s.Position(l.id) >= 0 {
		return fmt.Errorf("layer %s already present: %w", l.id, ErrInvalidInput)
	}
	index = min(max(index, 0), len(s.layers))
	s.layers = slices.Insert(s.layers, index, l)
	return nil
}

// PutShape replaces the shape of a shape layer.
func (s *Scene) PutShape(id ident.LayerID, sh *shape.Shape) error {
	l, ok := s.Layer(id)
	if !ok {
		return fmt.Errorf("layer %s: %w", id, ErrNotFound)
	}
	if l.kind != KindShape {
		return fmt.Errorf("layer %s is a %s: %w", id, l.kind, ErrInvalidInput)
	}
	l.shape = sh
	return nil
}

// Rename sets a layer's display name.
func (s *Scene) Rename(id ident.LayerID, name string) error {
	l, ok := s.Layer(id)
	if !ok {
		return fmt.Errorf("layer %s: %w", id, ErrNotFound)
	}
	l.name = name
	return nil
}

// Clone returns a deep copy of the scene sharing its identifier source.
func (s *Scene) Clone() *Scene {
	out := *s
	out.layers = make([]*Layer, len(s.layers))
	for i, l := range s.layers {
		out.layers[i] = l.clone()
	}
	return &out
}

// Equal reports whether two scenes hold the same layers in the same order,
// with equal names, kinds and shapes, and the same background.
func (s *Scene) Equal(o *Scene) bool {
	if s.background != o.background || len(s.layers) != len(o.layers) {
		return false
	}
	for i, l := range s.layers {
		m := o.layers[i]
		if l.id != m.id || l.name != m.name || l.kind != m.kind {
			return false
		}
		if (l.shape == nil) != (m.shape == nil) {
			return false
		}
		if l.shape != nil && !l.shape.Equal(m.shape) {
			return false
		}
	}
	return true
}
