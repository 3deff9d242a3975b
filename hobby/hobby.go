// Package hobby finds bezier control points for a sequence of knots by John
// Hobby's spline interpolation algorithm.
/*
Spline interpolation by Hobby's algorithm results in aesthetically pleasing
curves. The primary source of information for "Hobby-splines" is:

   Smooth, Easy to Compute Interpolating Splines -- John D. Hobby
   Computer Science Dept. Stanford University
   Report No. STAN-CS-85-1047, Jan 1985

The practical algorithm is explained in

   Computers & Typesetting, Vol. B & D.

Paths use this package to auto-smooth a run of vertices: the vertices
become the knots, and the solver returns a post-control for every knot
(but the last one of an open run) and a pre-control for every knot (but
the first one of an open run).

   knots := hobby.Knots(p0, p1, p2, p3).Cycle()
   controls, err := hobby.Solve(knots)

Tensions default to 1 and may be set per knot, curls at the ends of open
runs default to 1.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package hobby

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'laxgeom.hobby'
func tracer() tracing.Trace {
	return tracing.Select("laxgeom.hobby")
}

var (
	// ErrTooFewKnots indicates the knot count is insufficient for solving.
	ErrTooFewKnots = errors.New("too few knots")
	// ErrInvalidKnot indicates a knot coordinate contains NaN/Inf.
	ErrInvalidKnot = errors.New("invalid knot coordinate")
	// ErrDegenerateSegment indicates two consecutive knots collapse to one point.
	ErrDegenerateSegment = errors.New("degenerate segment")
)

// KnotList is a skeleton of knots with optional tensions.
type KnotList struct {
	points   []laxgeom.Pair
	tensions []laxgeom.Pair // (pre, post) tension at knot i
	cycle    bool
	preCurl  float64 // curl at the last knot of an open run
	postCurl float64 // curl at the first knot of an open run
}

// Knots creates an open knot list.
func Knots(pts ...laxgeom.Pair) *KnotList {
	k := &KnotList{
		points:   append([]laxgeom.Pair(nil), pts...),
		tensions: make([]laxgeom.Pair, len(pts)),
		preCurl:  1,
		postCurl: 1,
	}
	for i := range k.tensions {
		k.tensions[i] = 1 + 1i
	}
	return k
}

// Cycle closes the knot list.
func (k *KnotList) Cycle() *KnotList {
	k.cycle = true
	return k
}

// Curls sets the curl at the start and at the end of an open run.
// A curl of 1 is neutral.
func (k *KnotList) Curls(start, end float64) *KnotList {
	k.postCurl, k.preCurl = start, end
	return k
}

// Tension sets pre- and post-tension of knot i. Tensions are clamped to
// lie between 3/4 and 4.
func (k *KnotList) Tension(i int, pre, post float64) *KnotList {
	if i < 0 || i >= len(k.points) {
		tracer().Errorf("tension for knot %d out of range", i)
		return k
	}
	clamp := func(t float64) float64 { return laxgeom.Clamp(math.Abs(t), 0.75, 4.0) }
	k.tensions[i] = laxgeom.P(clamp(pre), clamp(post))
	return k
}

// N is the knot count.
func (k *KnotList) N() int {
	return len(k.points)
}

// IsCycle is a predicate: is this knot list cyclic?
func (k *KnotList) IsCycle() bool {
	return k.cycle
}

// Z returns the knot at position (i mod N).
func (k *KnotList) Z(i int) laxgeom.Pair {
	n := k.N()
	return k.points[((i%n)+n)%n]
}

func (k *KnotList) preTension(i int) float64 {
	n := k.N()
	return real(k.tensions[((i%n)+n)%n])
}

func (k *KnotList) postTension(i int) float64 {
	n := k.N()
	return imag(k.tensions[((i%n)+n)%n])
}

func (k *KnotList) delta(i int) laxgeom.Pair {
	return k.Z(i+1) - k.Z(i)
}

func (k *KnotList) d(i int) float64 {
	return k.delta(i).Norm()
}

// Turning angle at z.i.
func (k *KnotList) psi(i int) float64 {
	if !k.cycle && (i <= 0 || i >= k.N()-1) {
		return 0
	}
	return reduceAngle(k.delta(i).Angle() - k.delta(i-1).Angle())
}

// Controls holds the computed control points: Post[i] follows knot i, Pre[i]
// precedes knot i. Entries without a segment are NaN.
type Controls struct {
	Pre, Post []laxgeom.Pair
}

func (k *KnotList) validate() error {
	n := k.N()
	if k.cycle && n < 3 {
		return fmt.Errorf("%w: cycle needs at least 3 knots, got %d", ErrTooFewKnots, n)
	} else if n < 2 {
		return fmt.Errorf("%w: open run needs at least 2 knots, got %d", ErrTooFewKnots, n)
	}
	for i, z := range k.points {
		if z.IsNaN() {
			return fmt.Errorf("%w at knot %d", ErrInvalidKnot, i)
		}
	}
	limit := n - 1
	if k.cycle {
		limit = n
	}
	for i := 0; i < limit; i++ {
		if k.d(i) <= laxgeom.Epsilon {
			return fmt.Errorf("%w between knots %d and %d", ErrDegenerateSegment, i, (i+1)%n)
		}
	}
	return nil
}

// Solve finds the Hobby-spline control points for a knot list.
func Solve(k *KnotList) (*Controls, error) {
	if k == nil {
		return nil, fmt.Errorf("%w: nil knot list", ErrTooFewKnots)
	}
	if err := k.validate(); err != nil {
		return nil, err
	}
	n := k.N()
	u := make([]float64, n+2)
	v := make([]float64, n+2)
	theta := make([]float64, n+2)
	if k.cycle {
		w := make([]float64, n+2)
		u[0], v[0], w[0] = 0, 0, 1
		k.buildEqs(n, u, v, w)
		k.endCycle(n, theta, u, v, w)
	} else {
		last := n - 1
		k.startOpen(u, v)
		k.buildEqs(last-1, u, v, nil)
		k.endOpen(last, theta, u, v)
	}
	return k.setControls(theta), nil
}

func (k *KnotList) startOpen(u, v []float64) {
	a := recip(k.postTension(0))
	b := recip(k.preTension(1))
	c := square(a) * k.postCurl / square(b)
	u[0] = ((3-a)*c + b) / (a*c + 3 - b)
	v[0] = -u[0] * k.psi(1)
	tracer().Debugf("u.0 = %.4g, v.0 = %.4g", u[0], v[0])
}

func (k *KnotList) endOpen(last int, theta, u, v []float64) {
	a := recip(k.postTension(last - 1))
	b := recip(k.preTension(last))
	c := square(b) * k.preCurl / square(a)
	u[last] = (b*c + 3 - a) / ((3-b)*c + a)
	if den := u[last-1] - u[last]; math.Abs(den) > laxgeom.Epsilon {
		theta[last] = v[last-1] / den
	}
	for i := last - 1; i >= 0; i-- {
		theta[i] = v[i] - u[i]*theta[i+1]
	}
}

// buildEqs runs the forward elimination for knots 1…upto.
func (k *KnotList) buildEqs(upto int, u, v, w []float64) {
	for i := 1; i <= upto; i++ {
		a0 := recip(k.postTension(i - 1))
		a1 := recip(k.postTension(i))
		b1 := recip(k.preTension(i))
		b2 := recip(k.preTension(i + 1))
		A := a0 / (square(b1) * k.d(i-1))
		B := (3 - a0) / (square(b1) * k.d(i-1))
		C := (3 - b2) / (square(a1) * k.d(i))
		D := b2 / (square(a1) * k.d(i))
		t := B - u[i-1]*A + C
		u[i] = D / t
		v[i] = (-B*k.psi(i) - D*k.psi(i+1) - A*v[i-1]) / t
		if w != nil {
			w[i] = -A * w[i-1] / t
		}
		tracer().Debugf("u.%d = %.4g, v.%d = %.4g", i, u[i], i, v[i])
	}
}

func (k *KnotList) endCycle(n int, theta, u, v, w []float64) {
	var a, b float64 = 0, 1
	for i := n; i > 0; i-- {
		a = v[i] - a*u[i]
		b = w[i] - b*u[i]
	}
	t0 := (v[n] - a*u[n]) / (1 - (w[n] - b*u[n]))
	v[0] = t0
	for i := 1; i <= n; i++ {
		v[i] += w[i] * t0
	}
	theta[0], theta[n] = t0, t0
	for i := n - 1; i > 0; i-- {
		theta[i] = v[i] - u[i]*theta[i+1]
	}
}

func (k *KnotList) setControls(theta []float64) *Controls {
	n := k.N()
	nan := laxgeom.Pair(cmplx.NaN())
	ctrls := &Controls{Pre: make([]laxgeom.Pair, n), Post: make([]laxgeom.Pair, n)}
	for i := range ctrls.Pre {
		ctrls.Pre[i], ctrls.Post[i] = nan, nan
	}
	segs := n - 1
	if k.cycle {
		segs = n
	}
	for i := 0; i < segs; i++ {
		phi := -k.psi(i+1) - theta[i+1]
		a := recip(k.postTension(i))
		b := recip(k.preTension(i + 1))
		p2, p3 := controlOffsets(phi, theta[i], a, b, k.delta(i))
		ctrls.Post[i] = k.Z(i) + p2
		ctrls.Pre[(i+1)%n] = k.Z(i+1) - p3
	}
	return ctrls
}

// controlOffsets returns the offsets of the two control points of the
// segment z.i → z.[i+1] relative to its end points.
func controlOffsets(phi, theta, a, b float64, dvec laxgeom.Pair) (laxgeom.Pair, laxgeom.Pair) {
	const (
		constA  = 1.41421356    // sqrt(2) -- empiric constants, as explained by J.Hobby
		constB  = 0.0625        // 1/16
		constC  = 0.38196601125 // (3 - sqrt(5)) / 2
		constCC = 0.61803398875 // 1 - c
	)
	st, ct := math.Sin(theta), math.Cos(theta)
	sf, cf := math.Sin(phi), math.Cos(phi)
	alpha := constA * (st - constB*sf) * (sf - constB*st) * (ct - cf)
	beta := 1 + constCC*ct + constC*cf
	rho := (2 + alpha) / beta
	sigma := (2 - alpha) / beta
	uv1 := dvec.Rotated(theta)
	uv2 := dvec.Rotated(-phi)
	return uv1.Scaled(a / 3 * rho), uv2.Scaled(b / 3 * sigma)
}

// Reduce an angle to fit into -pi .. pi.
func reduceAngle(a float64) float64 {
	if math.Abs(a) > math.Pi {
		if a > 0 {
			a -= 2 * math.Pi
		} else {
			a += 2 * math.Pi
		}
	}
	return a
}

// Return 1/a for a.
func recip(a float64) float64 {
	if math.IsNaN(a) || a == 0 {
		return 1.0
	}
	return 1.0 / a
}

func square(a float64) float64 {
	return a * a
}
