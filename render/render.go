// Package render defines the drawing protocol through which documents are
// painted, and a sink that records it.
package render

import (
	"honnef.co/go/vgc"
)

// Context receives drawing calls.
//
// A frame is one Create call, one FillBackground call, any number of shapes
// and a final End call. A shape is StartShape, followed by CurveTo calls in
// outline order and a CloseShape call, which paints it. The fill set by the
// most recent SetFill applies to the shape. Shapes are painted back to front.
type Context interface {
	Create(width, height float64) error
	FillBackground(c vgc.Rgba) error
	SetFill(c vgc.Rgba) error
	StartShape(p vgc.Point) error
	CurveTo(cp0, cp1, p1 vgc.Point) error
	CloseShape() error
	End() error
}
