package vgc

import "math"

// PointsPerPixel is the number of representable subdivisions of one canvas
// unit that editing is expected to preserve.
const PointsPerPixel = 1 << 20

// Epsilon is the tolerance used when comparing canvas coordinates.
const Epsilon = 0x1p-52 * PointsPerPixel

// ApproxEqual reports whether a and b differ by at most [Epsilon].
func ApproxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= Epsilon
}
