// Package vgc provides the geometry primitives of an editable vector
// document: points, vectors, affine transforms, rectangles, cubic Bézier
// segments and colors.
//
// The stateful layers live in sibling packages. [honnef.co/go/vgc/shape]
// models Bézier shapes over identified coordinates,
// [honnef.co/go/vgc/scene] orders shapes into layers,
// [honnef.co/go/vgc/command] implements reversible edits with undo and redo,
// [honnef.co/go/vgc/camera] maps pointer input between screen and canvas
// space, and [honnef.co/go/vgc/editor] turns pointer gestures into commands.
//
// # Coordinate system
//
// Canvas space is y-down, like most graphics systems. A positive rotation
// angle rotates the positive x axis into the positive y axis, which is a
// clockwise rotation on screen.
//
// # Equality
//
// Geometry produced by editing is compared with a tolerance rather than
// bit-for-bit. [Epsilon] is the machine epsilon of float64 scaled by
// [PointsPerPixel]; [Point.ApproxEqual] and [CubicBez.ApproxEqual] compare
// componentwise with it.
package vgc
