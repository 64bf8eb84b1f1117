package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honnef.co/go/vgc"
)

const delta = 1e-9

func newCamera(t *testing.T, slope float64) *Camera {
	t.Helper()
	c := New(vgc.Pt(0, 0), 500, 500)
	c.SetPixelRegion(1000, 1000)
	if slope != 0 {
		s := c.Settings()
		s.ZoomSlope = slope
		require.NoError(t, c.SetSettings(s))
	}
	return c
}

func assertPoint(t *testing.T, want, got vgc.Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6, "x of %s", got)
	assert.InDelta(t, want.Y, got.Y, 1e-6, "y of %s", got)
}

func assertRect(t *testing.T, want, got vgc.Rect) {
	t.Helper()
	assertPoint(t, want.TopLeft(), got.TopLeft())
	assertPoint(t, want.BottomRight(), got.BottomRight())
}

func TestDefaultRegion(t *testing.T) {
	c := newCamera(t, 0)
	assertRect(t, vgc.Rect{X0: -2, Y0: -2, X1: 2, Y1: 2}, c.Region())
}

func TestDefaultTransform(t *testing.T) {
	c := newCamera(t, 0)
	assertPoint(t, vgc.Pt(250, 250), c.Unproject(vgc.Pt(-1, -1)))
	assertPoint(t, vgc.Pt(750, 750), c.Unproject(vgc.Pt(1, 1)))

	aff := c.Transform()
	assert.InDelta(t, 500, aff.Translation().X, delta)
	assert.InDelta(t, 500, aff.Translation().Y, delta)
	assert.InDelta(t, 250, aff.ScaleFactors().X, delta)
	assert.InDelta(t, 250, aff.ScaleFactors().Y, delta)
}

func TestSmallerViewport(t *testing.T) {
	c := New(vgc.Pt(0, 0), 500, 500)
	c.SetPixelRegion(250, 250)
	aff := c.Transform()
	assert.InDelta(t, 125, aff.Translation().X, delta)
	assert.InDelta(t, 250, aff.ScaleFactors().X, delta)
}

func TestNewUsesViewportAsBase(t *testing.T) {
	c := New(vgc.Pt(3, 4), 800, 600)
	assert.Equal(t, vgc.Vec(800, 600), c.BaseScale())
	assert.Equal(t, vgc.Rect{X1: 800, Y1: 600}, c.PixelRegion())
	assertPoint(t, vgc.Pt(400, 300), c.Unproject(vgc.Pt(3, 4)))
	assertRect(t, vgc.Rect{X0: 2, Y0: 3, X1: 4, Y1: 5}, c.Region())
}

func TestZoomCenter(t *testing.T) {
	c := newCamera(t, 2)
	c.ZoomAt(1, vgc.Pt(500, 500))
	assertRect(t, vgc.Rect{X0: -1, Y0: -1, X1: 1, Y1: 1}, c.Region())

	c = newCamera(t, 1.5)
	c.ZoomAt(1, vgc.Pt(500, 500))
	aff := c.Transform()
	assert.InDelta(t, 500, aff.Translation().X, delta)
	assert.InDelta(t, 375, aff.ScaleFactors().X, delta)
}

func TestZoomTopLeft(t *testing.T) {
	c := newCamera(t, 1.5)
	c.ZoomAt(1, vgc.Pt(250, 250))
	assert.InDelta(t, 1.5, c.Scaling(), delta)
	assertRect(t, vgc.Rect{X0: -5.0 / 3, Y0: -5.0 / 3, X1: 1, Y1: 1}, c.Region())
	assertPoint(t, vgc.Pt(-5.0/3, -5.0/3), c.Project(vgc.Pt(0, 0)))

	aff := c.Transform()
	assert.InDelta(t, 625, aff.Translation().X, 1e-6)
	assert.InDelta(t, 375, aff.ScaleFactors().X, delta)
}

func TestZoomRepeated(t *testing.T) {
	tests := []struct {
		anchor      vgc.Point
		translation float64
	}{
		{vgc.Pt(250, 250), 650},
		{vgc.Pt(750, 750), 350},
	}
	for _, tt := range tests {
		c := newCamera(t, 1.25)
		c.ZoomAt(1, tt.anchor)
		c.ZoomAt(1, tt.anchor)
		assert.InDelta(t, 1.6, c.Scaling(), delta)
		aff := c.Transform()
		assert.InDelta(t, tt.translation, aff.Translation().X, 1e-6)
		assert.InDelta(t, tt.translation, aff.Translation().Y, 1e-6)
		assert.InDelta(t, 400, aff.ScaleFactors().X, delta)
	}
}

func TestZoomInOutReturns(t *testing.T) {
	c := newCamera(t, 0)
	for range 2 {
		c.ZoomAt(1, vgc.Pt(750, 750))
		c.ZoomAt(-1, vgc.Pt(750, 750))
	}
	assert.InDelta(t, 1, c.Scaling(), delta)
	aff := c.Transform()
	assert.InDelta(t, 500, aff.Translation().X, 1e-6)
	assert.InDelta(t, 250, aff.ScaleFactors().X, delta)
}

func TestZoomKeepsAnchor(t *testing.T) {
	c := newCamera(t, 0)
	c.SetRotation(0.3)
	anchor := vgc.Pt(130, 820)
	for i := range 20 {
		before := c.Project(anchor)
		dir := 1.0
		if i%3 == 2 {
			dir = -1
		}
		c.ZoomAt(dir, anchor)
		assertPoint(t, before, c.Project(anchor))
	}
}

func TestZoomClamps(t *testing.T) {
	c := newCamera(t, 2)
	s := c.Settings()
	s.MaxScalingStep = 2
	s.MinScalingStep = 1
	require.NoError(t, c.SetSettings(s))

	for range 10 {
		c.ZoomAt(1, vgc.Pt(500, 500))
	}
	assert.InDelta(t, 4, c.Scaling(), delta)
	for range 10 {
		c.ZoomAt(-1, vgc.Pt(500, 500))
	}
	assert.InDelta(t, 0.5, c.Scaling(), delta)

	c.ZoomAt(0, vgc.Pt(10, 10))
	assert.InDelta(t, 0.5, c.Scaling(), delta)
}

func TestRotation(t *testing.T) {
	c := newCamera(t, 0)
	assertPoint(t, vgc.Pt(750, 250), c.Unproject(vgc.Pt(1, -1)))

	c.SetRotation(math.Pi / 2)
	assertPoint(t, vgc.Pt(250, 750), c.Unproject(vgc.Pt(-1, -1)))
	assertPoint(t, vgc.Pt(250, 250), c.Unproject(vgc.Pt(1, -1)))
}

func TestReflect(t *testing.T) {
	c := newCamera(t, 0)
	c.SetReflectX(true)
	assertPoint(t, vgc.Pt(750, 250), c.Unproject(vgc.Pt(-1, -1)))
	c.SetReflectY(true)
	assertPoint(t, vgc.Pt(750, 750), c.Unproject(vgc.Pt(-1, -1)))
	assertPoint(t, vgc.Pt(-1, -1), c.Project(vgc.Pt(750, 750)))
}

func TestProjectInverse(t *testing.T) {
	c := newCamera(t, 0)
	c.SetRotation(1.2)
	c.SetReflectY(true)
	c.ZoomAt(1, vgc.Pt(100, 300))
	c.PanBy(vgc.Vec(40, -25))
	for _, p := range []vgc.Point{{X: 0, Y: 0}, {X: 1.5, Y: -3}, {X: -20, Y: 7}} {
		assertPoint(t, p, c.Project(c.Unproject(p)))
	}
}

func TestPan(t *testing.T) {
	c := newCamera(t, 0)
	c.PanBy(vgc.Vec(250, 0))
	assertPoint(t, vgc.Pt(-1, 0), c.Position())
	// the canvas follows the pointer
	assertPoint(t, vgc.Pt(750, 500), c.Unproject(vgc.Pt(0, 0)))

	c = newCamera(t, 0)
	c.SetRotation(math.Pi / 2)
	c.PanBy(vgc.Vec(250, 0))
	d := c.CanvasDelta(vgc.Vec(250, 0))
	assert.InDelta(t, 0, d.X, delta)
	assert.InDelta(t, 1, math.Abs(d.Y), delta)
}

func TestFixedLength(t *testing.T) {
	c := newCamera(t, 2)
	assert.Equal(t, vgc.Vec(0.04, 0.04), c.FixedLengthNoScale(vgc.Vec(10, 10)))
	c.ZoomAt(1, vgc.Pt(500, 500))
	got := c.FixedLength(vgc.Vec(10, 10))
	assert.InDelta(t, 0.02, got.X, delta)
	assert.Equal(t, vgc.Vec(0.04, 0.04), c.FixedLengthNoScale(vgc.Vec(10, 10)))
}

func TestHome(t *testing.T) {
	c := New(vgc.Pt(1, 2), 500, 500)
	c.ZoomAt(1, vgc.Pt(0, 0))
	c.PanBy(vgc.Vec(30, 30))
	c.SetRotation(1)
	c.SetReflectX(true)
	c.Home()
	assert.Equal(t, vgc.Pt(1, 2), c.Position())
	assert.Equal(t, 1.0, c.Scaling())
	assert.Zero(t, c.Rotation())
	assert.False(t, c.ReflectX())
}

func TestSettingsValidation(t *testing.T) {
	c := newCamera(t, 0)
	assert.NoError(t, DefaultSettings().Validate())

	s := DefaultSettings()
	s.ZoomSlope = 1
	assert.Error(t, c.SetSettings(s))
	s = DefaultSettings()
	s.MinScalingStep = -1
	assert.Error(t, c.SetSettings(s))
	assert.Equal(t, DefaultSettings(), c.Settings())

	assert.InDelta(t, 1/math.Pow(1.1, 35), DefaultSettings().MinScaling(), 1e-12)
	assert.InDelta(t, math.Pow(1.1, 50), DefaultSettings().MaxScaling(), 1e-6)
}
