package scene

import (
	"slices"

	"honnef.co/go/vgc"
	"honnef.co/go/vgc/ident"
	"honnef.co/go/vgc/render"
)

// TreeItem is one row of the layer panel.
type TreeItem struct {
	LayerID   uint64 `json:"layer_id"`
	LayerType string `json:"layer_type"`
	Name      string `json:"name"`
	// Level is the nesting depth. Folders do not nest yet, so it is always 0.
	Level int `json:"level"`
}

// TreeView lists all layers from back to front.
func (s *Scene) TreeView() []TreeItem {
	out := make([]TreeItem, len(s.layers))
	for i, l := range s.layers {
		out[i] = TreeItem{
			LayerID:   uint64(l.id),
			LayerType: l.kind.String(),
			Name:      l.name,
		}
	}
	return out
}

// RenderOptions controls [Scene.Render].
type RenderOptions struct {
	Width, Height float64
	// Transform maps canvas space to the output space.
	Transform vgc.Affine
	// Until stops rendering at this layer, which is not drawn itself.
	Until ident.LayerID
	// Skip lists layers that are not drawn.
	Skip []ident.LayerID
	// Only, if not empty, restricts drawing to these layers.
	Only []ident.LayerID
}

// Render draws the background and every shape layer from back to front.
func (s *Scene) Render(ctx render.Context, opts RenderOptions) error {
	if err := ctx.Create(opts.Width, opts.Height); err != nil {
		return err
	}
	if err := ctx.FillBackground(s.background); err != nil {
		return err
	}
	for _, l := range s.layers {
		if !opts.Until.IsNull() && l.id == opts.Until {
			break
		}
		if l.shape == nil || slices.Contains(opts.Skip, l.id) {
			continue
		}
		if len(opts.Only) > 0 && !slices.Contains(opts.Only, l.id) {
			continue
		}
		if err := l.shape.Render(ctx, opts.Transform); err != nil {
			return err
		}
	}
	return ctx.End()
}
