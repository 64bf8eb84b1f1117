// Package ident provides the identifiers of coordinates and layers.
//
// Identifiers are opaque, stable and never reused for the lifetime of the
// [Allocator] that produced them. The zero value of every identifier type is
// the null identifier and is never handed out.
package ident

import (
	"strconv"
	"sync/atomic"
)

// CoordID identifies an anchor or handle of a shape.
type CoordID uint64

// LayerID identifies a layer of a scene.
type LayerID uint64

// Null is the null identifier of either kind.
const Null = 0

func (id CoordID) IsNull() bool { return id == Null }
func (id CoordID) String() string { return "c" + strconv.FormatUint(uint64(id), 10) }

func (id LayerID) IsNull() bool { return id == Null }
func (id LayerID) String() string { return "l" + strconv.FormatUint(uint64(id), 10) }

// Source hands out fresh identifiers.
type Source interface {
	Coord() CoordID
	Layer() LayerID
}

// Allocator is a [Source] backed by a single atomic counter shared by both
// identifier kinds. It is safe for concurrent use.
type Allocator struct {
	next atomic.Uint64
}

// NewAllocator returns an allocator whose first identifier is start, or 1 if
// start is zero.
func NewAllocator(start uint64) *Allocator {
	a := &Allocator{}
	if start == 0 {
		start = 1
	}
	a.next.Store(start - 1)
	return a
}

func (a *Allocator) Coord() CoordID { return CoordID(a.next.Add(1)) }
func (a *Allocator) Layer() LayerID { return LayerID(a.next.Add(1)) }

// Peek returns the identifier that will be handed out next.
func (a *Allocator) Peek() uint64 { return a.next.Load() + 1 }

var _ Source = (*Allocator)(nil)
var _ Source = (*Replay)(nil)
