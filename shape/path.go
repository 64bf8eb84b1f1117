package shape

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"honnef.co/go/vgc"
	"honnef.co/go/vgc/render"
)

// Render draws the shape into ctx, with every coordinate transformed by aff.
// Open shapes are closed like closed ones, matching [Shape.Contains]. Empty
// shapes draw nothing.
func (s *Shape) Render(ctx render.Context, aff vgc.Affine) error {
	if s.IsEmpty() {
		return nil
	}
	if err := ctx.SetFill(s.fill); err != nil {
		return err
	}
	if err := ctx.StartShape(s.coords[s.start].Transform(aff)); err != nil {
		return err
	}
	for _, c := range s.curves {
		err := ctx.CurveTo(
			s.coords[c.CP0].Transform(aff),
			s.coords[c.CP1].Transform(aff),
			s.coords[c.P1].Transform(aff),
		)
		if err != nil {
			return err
		}
	}
	return ctx.CloseShape()
}

// PathData returns the outline as SVG path data.
func (s *Shape) PathData() string {
	sb := &strings.Builder{}
	s.WritePathData(sb)
	return sb.String()
}

// WritePathData writes the outline as SVG path data to w.
func (s *Shape) WritePathData(w io.Writer) error {
	if s.IsEmpty() {
		return nil
	}
	var err error
	writef := func(f string, v ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, f, v...)
	}
	format := func(p vgc.Point) string {
		return strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(p.Y, 'f', -1, 64)
	}
	writef("M%s", format(s.coords[s.start]))
	for _, c := range s.curves {
		writef(" C%s %s %s", format(s.coords[c.CP0]), format(s.coords[c.CP1]), format(s.coords[c.P1]))
	}
	if s.IsClosed() {
		writef(" Z")
	}
	return err
}
