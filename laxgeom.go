/*
Package laxgeom implements points, affine transformations and numeric
helpers shared by the path and patch geometry packages.

Sub-packages:

	bezmat       4x4 bezier basis matrices and cubic segment arithmetic
	curvesample  piecewise interpolation of weights along a path
	path         weighted bezier paths, outline caches, path collections
	patch        tensor product patch meshes and their rasterizer
	hobby        Hobby-spline control point solver
	polygon      flattened contours and polygon boolean operations

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package laxgeom

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'laxgeom'
func tracer() tracing.Trace {
	return tracing.Select("laxgeom")
}

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// ZeroLength is the squared length below which a segment counts as degenerate.
const ZeroLength = 1e-10

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Round to ε.
func Round(n float64) float64 {
	return math.Round(n/Epsilon) * Epsilon
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp restricts v to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// === Pair Data Type ========================================================

// Pair is a 2D point or vector, stored as a complex number.
type Pair complex128

// Origin represents the frequently used constant (0,0).
var Origin = P(float64(0), float64(0))

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// C returns a Pair as a complex number.
func (p Pair) C() complex128 {
	return complex128(p)
}

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// IsOrigin is a predicate: is this pair origin?
func (p Pair) IsOrigin() bool {
	return p.Equal(Origin)
}

// IsNaN is true if any component is NaN or infinite.
func (p Pair) IsNaN() bool {
	return cmplx.IsNaN(p.C()) || cmplx.IsInf(p.C())
}

// Equal compares two pairs.
func (p Pair) Equal(p2 Pair) bool {
	return Is0(p.X()-p2.X()) && Is0(p.Y()-p2.Y())
}

// Scaled returns a new pair scaled by factor a.
func (p Pair) Scaled(a float64) Pair {
	return P(p.X()*a, p.Y()*a)
}

// Shifted returns a new pair translated by v.
func (p Pair) Shifted(v Pair) Pair {
	return p + v
}

// Rotated returns a new pair rotated around origin by theta (counterclockwise).
func (p Pair) Rotated(theta float64) Pair {
	return p * Pair(cmplx.Rect(1, theta))
}

// Norm is the length of p.
func (p Pair) Norm() float64 {
	return cmplx.Abs(p.C())
}

// Norm2 is the squared length of p.
func (p Pair) Norm2() float64 {
	return p.X()*p.X() + p.Y()*p.Y()
}

// Normalized returns p scaled to length 1. The zero vector is returned unchanged.
func (p Pair) Normalized() Pair {
	n := p.Norm()
	if n == 0 {
		return p
	}
	return p.Scaled(1 / n)
}

// Perp returns p rotated by 90° counterclockwise.
func (p Pair) Perp() Pair {
	return P(-p.Y(), p.X())
}

// Dot is the scalar product of p and q.
func (p Pair) Dot(q Pair) float64 {
	return p.X()*q.X() + p.Y()*q.Y()
}

// Cross is the z-component of the cross product of p and q.
func (p Pair) Cross(q Pair) float64 {
	return p.X()*q.Y() - p.Y()*q.X()
}

// Angle is the direction of p in radians.
func (p Pair) Angle() float64 {
	return cmplx.Phase(p.C())
}

// Distance between two pairs.
func (p Pair) Distance(q Pair) float64 {
	return (q - p).Norm()
}

// LerpP interpolates linearly between two pairs.
func LerpP(a, b Pair, t float64) Pair {
	return a + (b-a).Scaled(t)
}

// === Affine Transformations ================================================

// AT is an affine transform, a matrix type used for transforming vectors.
type AT []float64 // a 3x3 matrix, flattened by rows

// Internal constructor. Clients implicitely use this as a starting point for
// transform combinations.
func newAT() AT {
	m := make([]float64, 9)
	return m
}

func (m AT) get(row, col int) float64 {
	return m[row*3+col]
}

func (m AT) set(row, col int, value float64) {
	m[row*3+col] = value
}

func (m AT) row(row int) []float64 {
	return m[row*3 : (row+1)*3]
}

func (m AT) col(col int) []float64 {
	return []float64{m[col], m[3+col], m[6+col]}
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	m := newAT()
	m.set(0, 0, 1.0)
	m.set(1, 1, 1.0)
	m.set(2, 2, 1.0)
	return m
}

// Translation transform. Translate a point by (dx,dy).
func Translation(p Pair) AT {
	m := Identity()
	m.set(0, 2, p.X())
	m.set(1, 2, p.Y())
	return m
}

// Rotation transform. Rotate a point counter-clockwise around the origin.
// Argument is in radians.
func Rotation(theta float64) AT {
	m := newAT()
	sin := math.Sin(theta)
	cos := math.Cos(theta)
	m.set(0, 0, cos)
	m.set(0, 1, -sin)
	m.set(1, 0, sin)
	m.set(1, 1, cos)
	m.set(2, 2, 1.0)
	return m
}

// Scaling transform, scaling x by sx and y by sy.
func Scaling(sx, sy float64) AT {
	m := Identity()
	m.set(0, 0, sx)
	m.set(1, 1, sy)
	return m
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	s := fmt.Sprintf("[%g,%g,%g|%g,%g,%g|%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
	return s
}

// v1 × v2, v.n = [a,b,c]
func dotProd(vec1, vec2 []float64) float64 {
	return vec1[0]*vec2[0] + vec1[1]*vec2[1] + vec1[2]*vec2[2]
}

// Combine 2 affine transformation to a new one: m is applied first, then n.
// Returns a new transformation without changing the argument(s).
func (m AT) Combine(n AT) AT {
	o := newAT()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			o.set(row, col, dotProd(n.row(row), m.col(col)))
		}
	}
	return o
}

// Transform a 2D-point. The argument is unchanged and a new pair is returned.
func (m AT) Transform(p Pair) Pair {
	v := []float64{p.X(), p.Y(), 1}
	return P(dotProd(m.row(0), v), dotProd(m.row(1), v))
}

// TransformVector applies the linear part of m to v, ignoring translation.
func (m AT) TransformVector(v Pair) Pair {
	return P(m.get(0, 0)*v.X()+m.get(0, 1)*v.Y(), m.get(1, 0)*v.X()+m.get(1, 1)*v.Y())
}

// Invert returns the inverse transform. A singular transform yields
// Identity and false.
func (m AT) Invert() (AT, bool) {
	a, b, c := m.get(0, 0), m.get(0, 1), m.get(0, 2)
	d, e, f := m.get(1, 0), m.get(1, 1), m.get(1, 2)
	det := a*e - b*d
	if math.Abs(det) < ZeroLength {
		tracer().Errorf("cannot invert singular transform %s", m)
		return Identity(), false
	}
	inv := Identity()
	inv.set(0, 0, e/det)
	inv.set(0, 1, -b/det)
	inv.set(1, 0, -d/det)
	inv.set(1, 1, a/det)
	inv.set(0, 2, (b*f-c*e)/det)
	inv.set(1, 2, (c*d-a*f)/det)
	return inv, true
}

// IsIdentity is true if m maps every point onto itself.
func (m AT) IsIdentity() bool {
	id := Identity()
	for i := range m {
		if !Is0(m[i] - id[i]) {
			return false
		}
	}
	return true
}
