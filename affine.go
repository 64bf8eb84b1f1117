package vgc

import "math"

// Affine is a linear map followed by a translation. It holds the first two
// rows of the column-major matrix
//
//	| N0 N2 N4 |
//	| N1 N3 N5 |
//	|  0  0  1 |
//
// so that a point (x, y) maps to (N0·x + N2·y + N4, N1·x + N3·y + N5).
// a.Mul(b) applies b first and a second.
type Affine struct {
	N0, N1, N2, N3, N4, N5 float64
}

var (
	Identity = Affine{N0: 1, N3: 1}
	// FlipX mirrors across the y axis.
	FlipX = Affine{N0: -1, N3: 1}
	// FlipY mirrors across the x axis.
	FlipY = Affine{N0: 1, N3: -1}
)

func Scale(x, y float64) Affine { return Affine{N0: x, N3: y} }

func Translate(v Vec2) Affine { return Affine{N0: 1, N3: 1, N4: v.X, N5: v.Y} }

// Rotate rotates by th radians around the origin, from the positive x axis
// towards the positive y axis.
func Rotate(th float64) Affine {
	sin, cos := math.Sincos(th)
	return Affine{N0: cos, N1: sin, N2: -sin, N3: cos}
}

// RotateAbout rotates by th radians around center.
func RotateAbout(th float64, center Point) Affine { return Rotate(th).About(center) }

// About returns aff moved so that center becomes its fixed point instead of
// the origin.
func (aff Affine) About(center Point) Affine {
	c := Vec2(center)
	return Translate(c).Mul(aff).Mul(Translate(c.Negate()))
}

func (aff Affine) Mul(o Affine) Affine {
	return Affine{
		N0: aff.N0*o.N0 + aff.N2*o.N1,
		N1: aff.N1*o.N0 + aff.N3*o.N1,
		N2: aff.N0*o.N2 + aff.N2*o.N3,
		N3: aff.N1*o.N2 + aff.N3*o.N3,
		N4: aff.N0*o.N4 + aff.N2*o.N5 + aff.N4,
		N5: aff.N1*o.N4 + aff.N3*o.N5 + aff.N5,
	}
}

// ThenTranslate applies aff and then moves the result by v.
func (aff Affine) ThenTranslate(v Vec2) Affine {
	aff.N4 += v.X
	aff.N5 += v.Y
	return aff
}

// Invert returns the map undoing aff. A singular map yields NaN or infinite
// coefficients.
func (aff Affine) Invert() Affine {
	k := 1 / (aff.N0*aff.N3 - aff.N1*aff.N2)
	return Affine{
		N0: k * aff.N3,
		N1: -k * aff.N1,
		N2: -k * aff.N2,
		N3: k * aff.N0,
		N4: k * (aff.N2*aff.N5 - aff.N3*aff.N4),
		N5: k * (aff.N1*aff.N4 - aff.N0*aff.N5),
	}
}

// TransformVec maps an offset through aff. Offsets are not translated.
func (aff Affine) TransformVec(v Vec2) Vec2 {
	return Vec2{
		X: aff.N0*v.X + aff.N2*v.Y,
		Y: aff.N1*v.X + aff.N3*v.Y,
	}
}

// Translation returns where aff maps the origin.
func (aff Affine) Translation() Vec2 { return Vec2{aff.N4, aff.N5} }

// ScaleFactors returns the lengths of the images of the unit x and y
// vectors.
func (aff Affine) ScaleFactors() Vec2 {
	return Vec2{math.Hypot(aff.N0, aff.N1), math.Hypot(aff.N2, aff.N3)}
}
