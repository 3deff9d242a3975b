/*
Package bezmat implements the 4x4 matrix arithmetic behind cubic bezier
segments and tensor product bezier patches.

A cubic bezier segment with control values P = [p0,p1,p2,p3] evaluates as

	f(t) = T · B · P,   T = [t³,t²,t,1]

where B is the bezier basis matrix. Re-parametrizing a sub-range of t is a
linear map on T, which makes splitting a segment a matrix product instead of
a resampling step.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package bezmat

import (
	"fmt"
	"math"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'laxgeom.bezmat'
func tracer() tracing.Trace {
	return tracing.Select("laxgeom.bezmat")
}

// V4 is a row or column vector of four elements.
type V4 [4]float64

// M4 is a 4x4 matrix, flattened by rows.
type M4 [16]float64

// At returns the element at row r, column c.
func (m *M4) At(r, c int) float64 {
	return m[r*4+c]
}

// Set sets the element at row r, column c.
func (m *M4) Set(r, c int, v float64) {
	m[r*4+c] = v
}

// B is the cubic bezier basis matrix. It is symmetric.
var B = M4{
	-1, 3, -3, 1,
	3, -6, 3, 0,
	-3, 3, 0, 0,
	1, 0, 0, 0,
}

// Binv is the inverse of B.
var Binv = M4{
	0, 0, 0, 1,
	0, 0, 1. / 3, 1,
	0, 1. / 3, 2. / 3, 1,
	1, 1, 1, 1,
}

// Identity returns the 4x4 identity matrix.
func Identity() M4 {
	return M4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// GetT returns [t³,t²,t,1].
func GetT(t float64) V4 {
	return V4{t * t * t, t * t, t, 1}
}

// GetDT returns the derivative of GetT, [3t²,2t,1,0].
func GetDT(t float64) V4 {
	return V4{3 * t * t, 2 * t, 1, 0}
}

// Dot is Σ aᵢbᵢ over 4 elements.
func Dot(a, b V4) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}

// MTimesV returns m·v, v taken as a column vector.
func MTimesV(m M4, v V4) V4 {
	var r V4
	for i := 0; i < 4; i++ {
		r[i] = m[i*4]*v[0] + m[i*4+1]*v[1] + m[i*4+2]*v[2] + m[i*4+3]*v[3]
	}
	return r
}

// VTimesM returns v·m, v taken as a row vector.
func VTimesM(v V4, m M4) V4 {
	var r V4
	for j := 0; j < 4; j++ {
		r[j] = v[0]*m[j] + v[1]*m[4+j] + v[2]*m[8+j] + v[3]*m[12+j]
	}
	return r
}

// MTimesM returns a·b.
func MTimesM(a, b M4) M4 {
	var r M4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += a[i*4+k] * b[k*4+j]
			}
			r[i*4+j] = s
		}
	}
	return r
}

// Transpose returns mᵀ.
func Transpose(m M4) M4 {
	var r M4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[j*4+i] = m[i*4+j]
		}
	}
	return r
}

// PolyT builds the re-parametrization matrix N for the sub-range
// [offset, offset+1/scale] of a curve parameter. With t = offset + u/scale,
//
//	GetT(t) = GetT(u) · N
//
// A scale of (nearly) zero has no sub-range; it is traced and answered with
// the identity.
func PolyT(scale, offset float64) M4 {
	if math.Abs(scale) < laxgeom.Epsilon {
		tracer().Errorf("PolyT: scale %g too close to zero, using identity", scale)
		return Identity()
	}
	a := 1 / scale
	b := offset
	return M4{
		a * a * a, 0, 0, 0,
		3 * a * a * b, a * a, 0, 0,
		3 * a * b * b, 2 * a * b, a, 0,
		b * b * b, b * b, b, 1,
	}
}

// SubMatrix returns Binv·N·B, the matrix mapping the control values of a
// segment to the control values of its sub-range [offset, offset+1/scale].
func SubMatrix(scale, offset float64) M4 {
	return MTimesM(MTimesM(Binv, PolyT(scale, offset)), B)
}

// Coefficients returns B·G·B for a 4x4 grid of control values G. The patch
// value at (s,t) then is GetT(t)·C·GetT(s)ᵀ, with G indexed [row][col],
// rows running along t and columns along s.
func Coefficients(g M4) M4 {
	return MTimesM(MTimesM(B, g), B)
}

// Eval evaluates coefficients c at (s,t).
func Eval(c M4, s, t float64) float64 {
	return Dot(VTimesM(GetT(t), c), GetT(s))
}

func (m M4) String() string {
	return fmt.Sprintf("[%g,%g,%g,%g|%g,%g,%g,%g|%g,%g,%g,%g|%g,%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7],
		m[8], m[9], m[10], m[11], m[12], m[13], m[14], m[15])
}
