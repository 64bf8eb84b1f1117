package editor

import (
	"fmt"
	"slices"

	"honnef.co/go/vgc/ident"
	"honnef.co/go/vgc/scene"
)

// Level is how deep a selection reaches into the document.
type Level uint8

const (
	// LevelNone means nothing is selected.
	LevelNone Level = iota
	// LevelShape means whole shapes are selected.
	LevelShape
	// LevelCoord means at least one coordinate of a selected shape is
	// selected.
	LevelCoord
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "None"
	case LevelShape:
		return "Shape"
	case LevelCoord:
		return "Coord"
	default:
		return fmt.Sprintf("Level(%d)", l)
	}
}

// Up returns the next deeper level. LevelCoord is the deepest.
func (l Level) Up() Level {
	if l >= LevelCoord {
		return LevelCoord
	}
	return l + 1
}

// Down returns the next shallower level. LevelNone is the shallowest.
func (l Level) Down() Level {
	if l == LevelNone {
		return LevelNone
	}
	return l - 1
}

// SelectedShape is a selected shape layer and the coordinates selected in it.
type SelectedShape struct {
	Layer  ident.LayerID
	Coords []ident.CoordID
}

// HoverCoord is the coordinate under the pointer.
type HoverCoord struct {
	Layer ident.LayerID
	Coord ident.CoordID
}

type Selection struct {
	Shapes []SelectedShape
	Hover  *HoverCoord
}

func (s *Selection) Level() Level {
	if len(s.Shapes) == 0 {
		return LevelNone
	}
	for _, sh := range s.Shapes {
		if len(sh.Coords) > 0 {
			return LevelCoord
		}
	}
	return LevelShape
}

// ClearTo drops everything selected below level. Clearing to LevelNone
// deselects all shapes, clearing to LevelShape deselects all coordinates.
func (s *Selection) ClearTo(level Level) {
	switch level {
	case LevelNone:
		s.Shapes = nil
		s.Hover = nil
	case LevelShape:
		for i := range s.Shapes {
			s.Shapes[i].Coords = nil
		}
	}
}

// Layers returns the selected layers in selection order.
func (s *Selection) Layers() []ident.LayerID {
	out := make([]ident.LayerID, len(s.Shapes))
	for i, sh := range s.Shapes {
		out[i] = sh.Layer
	}
	return out
}

func (s *Selection) index(layer ident.LayerID) int {
	return slices.IndexFunc(s.Shapes, func(sh SelectedShape) bool { return sh.Layer == layer })
}

// Contains reports whether layer is selected.
func (s *Selection) Contains(layer ident.LayerID) bool { return s.index(layer) >= 0 }

// Remove deselects layer.
func (s *Selection) Remove(layer ident.LayerID) {
	if i := s.index(layer); i >= 0 {
		s.Shapes = slices.Delete(s.Shapes, i, i+1)
	}
	if s.Hover != nil && s.Hover.Layer == layer {
		s.Hover = nil
	}
}

// IsSelected reports whether coord of layer is selected.
func (s *Selection) IsSelected(layer ident.LayerID, coord ident.CoordID) bool {
	i := s.index(layer)
	return i >= 0 && slices.Contains(s.Shapes[i].Coords, coord)
}

// prune drops layers and coordinates that no longer exist in sc, which
// happens after undo and redo.
func (s *Selection) prune(sc *scene.Scene) {
	s.Shapes = slices.DeleteFunc(s.Shapes, func(sel SelectedShape) bool {
		_, ok := sc.Shape(sel.Layer)
		return !ok
	})
	for i := range s.Shapes {
		sh, _ := sc.Shape(s.Shapes[i].Layer)
		s.Shapes[i].Coords = slices.DeleteFunc(s.Shapes[i].Coords, func(id ident.CoordID) bool {
			_, ok := sh.Coord(id)
			return !ok
		})
	}
	if s.Hover == nil {
		return
	}
	sh, ok := sc.Shape(s.Hover.Layer)
	if !ok || !s.Contains(s.Hover.Layer) {
		s.Hover = nil
		return
	}
	if _, ok := sh.Coord(s.Hover.Coord); !ok {
		s.Hover = nil
	}
}
