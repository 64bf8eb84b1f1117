// Package camera maps between screen pixels and canvas coordinates.
//
// The canvas is viewed through a camera positioned at a canvas point, which
// appears at the center of the pixel region. At a scaling of 1, a canvas
// length of 2 spans the base scale in pixels, so the unit square around the
// origin fills a viewport the size of the base scale.
package camera

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"honnef.co/go/vgc"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Settings controls zooming.
type Settings struct {
	// ZoomSlope is the factor applied to the scaling per zoom step.
	ZoomSlope float64 `toml:"zoom_slope" validate:"gt=1"`
	// MinScalingStep is the number of steps one can zoom out from a scaling
	// of 1.
	MinScalingStep int `toml:"min_scaling_step" validate:"gte=0"`
	// MaxScalingStep is the number of steps one can zoom in from a scaling
	// of 1.
	MaxScalingStep int `toml:"max_scaling_step" validate:"gte=0"`
}

func DefaultSettings() Settings {
	return Settings{
		ZoomSlope:      1.1,
		MinScalingStep: 35,
		MaxScalingStep: 50,
	}
}

func (s Settings) Validate() error {
	return validate.Struct(s)
}

func (s Settings) MinScaling() float64 {
	return 1 / math.Pow(s.ZoomSlope, float64(s.MinScalingStep))
}

func (s Settings) MaxScaling() float64 {
	return math.Pow(s.ZoomSlope, float64(s.MaxScalingStep))
}

type Camera struct {
	position  vgc.Point
	scaling   float64
	rotation  float64
	reflectX  bool
	reflectY  bool
	baseScale vgc.Vec2
	pixels    vgc.Rect
	home      vgc.Point
	settings  Settings
}

// New returns a camera centered on home, for a viewport of width by height
// pixels. The viewport size also becomes the base scale.
func New(home vgc.Point, width, height float64) *Camera {
	return &Camera{
		position:  home,
		scaling:   1,
		baseScale: vgc.Vec(width, height),
		pixels:    vgc.Rect{X1: width, Y1: height},
		home:      home,
		settings:  DefaultSettings(),
	}
}

func (c *Camera) Position() vgc.Point { return c.position }
func (c *Camera) Scaling() float64 { return c.scaling }
func (c *Camera) Rotation() float64 { return c.rotation }
func (c *Camera) ReflectX() bool { return c.reflectX }
func (c *Camera) ReflectY() bool { return c.reflectY }
func (c *Camera) BaseScale() vgc.Vec2 { return c.baseScale }
func (c *Camera) PixelRegion() vgc.Rect { return c.pixels }
func (c *Camera) Settings() Settings { return c.settings }

// SetRotation sets the rotation in radians.
func (c *Camera) SetRotation(th float64) { c.rotation = th }
func (c *Camera) SetReflectX(v bool) { c.reflectX = v }
func (c *Camera) SetReflectY(v bool) { c.reflectY = v }

// SetPosition centers the camera on a canvas point.
func (c *Camera) SetPosition(p vgc.Point) { c.position = p }

// SetPixelRegion resizes the viewport. The base scale is unchanged, so
// resizing reveals more or less of the canvas instead of stretching it.
func (c *Camera) SetPixelRegion(width, height float64) {
	c.pixels = vgc.Rect{X1: width, Y1: height}
}

// SetSettings replaces the zoom settings after validating them.
func (c *Camera) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("camera settings: %w", err)
	}
	c.settings = s
	return nil
}

// FixedLength converts a screen length to the canvas length it covers at the
// current scaling. It is used for sizes that should look the same at every
// zoom level, such as pick radii.
func (c *Camera) FixedLength(px vgc.Vec2) vgc.Vec2 {
	return c.FixedLengthNoScale(px.Div(c.scaling))
}

// FixedLengthNoScale is like [Camera.FixedLength] but ignores the scaling.
func (c *Camera) FixedLengthNoScale(px vgc.Vec2) vgc.Vec2 {
	return vgc.Vec(px.X/c.baseScale.X/0.5, px.Y/c.baseScale.Y/0.5)
}

// Region returns the canvas rectangle visible through the pixel region,
// ignoring rotation.
func (c *Camera) Region() vgc.Rect {
	length := c.FixedLength(c.pixels.Size())
	return vgc.NewRectFromCenter(c.position, length.Div(2))
}

// Transform returns the transform from canvas to screen coordinates.
func (c *Camera) Transform() vgc.Affine {
	center := c.pixels.Center()
	f := 0.5 * c.scaling
	aff := vgc.RotateAbout(-c.rotation, center).
		Mul(vgc.Scale(f*c.baseScale.X, f*c.baseScale.Y)).
		Mul(vgc.Translate(vgc.Vec2(c.Region().TopLeft()).Negate()))
	if c.reflectX {
		aff = vgc.FlipX.About(center).Mul(aff)
	}
	if c.reflectY {
		aff = vgc.FlipY.About(center).Mul(aff)
	}
	return aff
}

// Project returns the canvas point shown at a screen point.
func (c *Camera) Project(screen vgc.Point) vgc.Point {
	return screen.Transform(c.Transform().Invert())
}

// Unproject returns the screen point a canvas point is shown at.
func (c *Camera) Unproject(canvas vgc.Point) vgc.Point {
	return canvas.Transform(c.Transform())
}

// CanvasDelta converts a screen movement to a canvas movement, taking
// rotation and reflection into account.
func (c *Camera) CanvasDelta(screen vgc.Vec2) vgc.Vec2 {
	return c.Transform().Invert().TransformVec(screen)
}

// PanBy moves the view so that the canvas follows a screen movement.
func (c *Camera) PanBy(screen vgc.Vec2) {
	c.position = c.position.Translate(c.CanvasDelta(screen).Negate())
}

// ZoomAt zooms in one step if delta is positive and out one step if it is
// negative, keeping the canvas point under anchor in place. Scalings above
// 0.5 are rounded to one decimal.
func (c *Camera) ZoomAt(delta float64, anchor vgc.Point) {
	s := c.settings
	if !(delta < 0 && c.scaling >= s.MinScaling() || delta > 0 && c.scaling <= s.MaxScaling()) {
		return
	}
	old := c.scaling
	scaling := c.scaling
	if delta > 0 {
		scaling *= s.ZoomSlope
	} else {
		scaling /= s.ZoomSlope
	}
	scaling = min(max(scaling, s.MinScaling()), s.MaxScaling())
	if scaling > 0.5 {
		scaling = math.Round(scaling*10) / 10
	}

	target := c.Project(anchor)
	c.position = c.position.Lerp(target, 1-old/scaling)
	c.scaling = scaling
}

// Home restores the initial position and orientation at a scaling of 1.
func (c *Camera) Home() {
	c.position = c.home
	c.scaling = 1
	c.rotation = 0
	c.reflectX = false
	c.reflectY = false
}
