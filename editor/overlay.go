package editor

import (
	"honnef.co/go/vgc"
	"honnef.co/go/vgc/ident"
	"honnef.co/go/vgc/render"
	"honnef.co/go/vgc/scene"
	"honnef.co/go/vgc/shape"
)

// Marker colors and radii in pixels.
var (
	HoverColor    = vgc.NewRgba(0x0E, 0x90, 0xAA, 0xFF)
	SelectedColor = vgc.NewRgba(0x3A, 0xD1, 0xEF, 0xFF)
	MarkerColor   = vgc.NewRgba(0xA1, 0xE9, 0xF7, 0xFF)
)

const (
	markerRadius  = 5
	closestRadius = 3
)

// Render draws one frame of the scene as seen through the camera, followed
// by the selection overlay.
func (c *Context) Render(ctx render.Context) error {
	px := c.camera.PixelRegion()
	err := c.Scene().Render(holdEnd{ctx}, scene.RenderOptions{
		Width:     px.Width(),
		Height:    px.Height(),
		Transform: c.camera.Transform(),
	})
	if err != nil {
		return err
	}
	if err := c.RenderOverlay(ctx); err != nil {
		return err
	}
	return ctx.End()
}

// holdEnd keeps a frame open so the overlay can be drawn on top of it.
type holdEnd struct{ render.Context }

func (holdEnd) End() error { return nil }

// RenderOverlay draws a marker on every coordinate of the selected shapes,
// colored by whether it is hovered, selected or neither, and a small marker
// on the outline point closest to the pointer when it is within the insert
// radius. It draws shapes only and expects an open frame.
func (c *Context) RenderOverlay(ctx render.Context) error {
	c.sel.prune(c.Scene())
	aff := c.camera.Transform()
	// markers are throwaway shapes and must not use up document identifiers
	ids := ident.NewAllocator(1)
	r := c.radius(markerRadius)
	for _, sel := range c.sel.Shapes {
		sh, ok := c.Scene().Shape(sel.Layer)
		if !ok {
			continue
		}
		for _, co := range sh.ListCoords() {
			col := MarkerColor
			switch {
			case c.sel.Hover != nil && *c.sel.Hover == (HoverCoord{Layer: sel.Layer, Coord: co.ID}):
				col = HoverColor
			case c.sel.IsSelected(sel.Layer, co.ID):
				col = SelectedColor
			}
			if err := shape.NewCircle(ids, co.Point, r, col).Render(ctx, aff); err != nil {
				return err
			}
		}
	}

	if !c.hasPointer {
		return nil
	}
	_, best, ok := c.closest(c.pointer)
	if !ok || !vgc.PointInRadius(c.pointer, best.Point, c.radius(c.settings.Selection.InsertRadius)) {
		return nil
	}
	return shape.NewCircle(ids, best.Point, c.radius(closestRadius), HoverColor).Render(ctx, aff)
}
