package bezmat

import (
	"math"

	"github.com/npillmayer/laxgeom"
)

// Cubic holds the four control points p0, c0, c1, p1 of a bezier segment.
type Cubic [4]laxgeom.Pair

// Line returns a cubic which traces the straight line from a to b.
func Line(a, b laxgeom.Pair) Cubic {
	return Cubic{a, laxgeom.LerpP(a, b, 1./3), laxgeom.LerpP(a, b, 2./3), b}
}

func (c Cubic) xs() V4 {
	return V4{c[0].X(), c[1].X(), c[2].X(), c[3].X()}
}

func (c Cubic) ys() V4 {
	return V4{c[0].Y(), c[1].Y(), c[2].Y(), c[3].Y()}
}

func fromXY(x, y V4) Cubic {
	var c Cubic
	for i := range c {
		c[i] = laxgeom.P(x[i], y[i])
	}
	return c
}

// Point evaluates the segment at t.
func (c Cubic) Point(t float64) laxgeom.Pair {
	tb := VTimesM(GetT(t), B)
	return laxgeom.P(Dot(tb, c.xs()), Dot(tb, c.ys()))
}

// Derivative evaluates the first derivative at t.
func (c Cubic) Derivative(t float64) laxgeom.Pair {
	tb := VTimesM(GetDT(t), B)
	return laxgeom.P(Dot(tb, c.xs()), Dot(tb, c.ys()))
}

// Tangent returns the unit tangent at t. Where the derivative vanishes
// (a handle sitting on its vertex) the direction towards the next distinct
// control point is used; a segment collapsed to a point yields (0,0).
func (c Cubic) Tangent(t float64) laxgeom.Pair {
	d := c.Derivative(t)
	if d.Norm2() > laxgeom.ZeroLength {
		return d.Normalized()
	}
	if t < 0.5 {
		for i := 1; i < 4; i++ {
			if v := c[i] - c[0]; v.Norm2() > laxgeom.ZeroLength {
				return v.Normalized()
			}
		}
	} else {
		for i := 2; i >= 0; i-- {
			if v := c[3] - c[i]; v.Norm2() > laxgeom.ZeroLength {
				return v.Normalized()
			}
		}
	}
	return laxgeom.Origin
}

// SizeSquared is the sum of squared distances between consecutive control
// points, zero only for a segment collapsed onto one point.
func (c Cubic) SizeSquared() float64 {
	return (c[1] - c[0]).Norm2() + (c[2] - c[1]).Norm2() + (c[3] - c[2]).Norm2()
}

// Reparametrize maps the control points onto the sub-range
// [offset, offset+1/scale].
func (c Cubic) Reparametrize(scale, offset float64) Cubic {
	m := SubMatrix(scale, offset)
	return fromXY(MTimesV(m, c.xs()), MTimesV(m, c.ys()))
}

// SubSegment returns the exact control points of the segment restricted to
// [t0,t1].
func (c Cubic) SubSegment(t0, t1 float64) Cubic {
	if math.Abs(t1-t0) < laxgeom.Epsilon {
		p := c.Point(t0)
		return Cubic{p, p, p, p}
	}
	return c.Reparametrize(1/(t1-t0), t0)
}

// Split cuts the segment at t0 into two segments covering [0,t0] and [t0,1].
func (c Cubic) Split(t0 float64) (Cubic, Cubic) {
	if t0 <= 0 || t0 >= 1 {
		tracer().Errorf("split parameter %g outside (0,1)", t0)
	}
	return c.SubSegment(0, t0), c.SubSegment(t0, 1)
}

// BBox returns the bounding box of the control polygon.
func (c Cubic) BBox() (min, max laxgeom.Pair) {
	minx, miny := c[0].X(), c[0].Y()
	maxx, maxy := minx, miny
	for _, p := range c[1:] {
		minx, maxx = math.Min(minx, p.X()), math.Max(maxx, p.X())
		miny, maxy = math.Min(miny, p.Y()), math.Max(maxy, p.Y())
	}
	return laxgeom.P(minx, miny), laxgeom.P(maxx, maxy)
}

// Closest finds the parameter of the point on the segment closest to pt,
// together with its distance. The search samples the segment and refines
// the best sample by recursive bisection.
func (c Cubic) Closest(pt laxgeom.Pair) (float64, float64) {
	const samples = 16
	best, bestd := 0.0, math.Inf(1)
	for i := 0; i <= samples; i++ {
		t := float64(i) / samples
		if d := c.Point(t).Distance(pt); d < bestd {
			best, bestd = t, d
		}
	}
	step := 1.0 / samples
	for step > 1e-9 {
		step /= 2
		for _, t := range []float64{best - step, best + step} {
			if t < 0 || t > 1 {
				continue
			}
			if d := c.Point(t).Distance(pt); d < bestd {
				best, bestd = t, d
			}
		}
	}
	return best, bestd
}

// Flatten appends line end points approximating the segment to within tol,
// excluding the start point.
func (c Cubic) Flatten(tol float64, out []laxgeom.Pair) []laxgeom.Pair {
	return c.flatten(tol, out, 0)
}

func (c Cubic) flatten(tol float64, out []laxgeom.Pair, depth int) []laxgeom.Pair {
	chord := c[3] - c[0]
	flat := true
	if n := chord.Norm(); n > laxgeom.Epsilon {
		for _, p := range c[1:3] {
			if math.Abs(chord.Cross(p-c[0]))/n > tol {
				flat = false
			}
		}
	} else if (c[1]-c[0]).Norm() > tol || (c[2]-c[0]).Norm() > tol {
		flat = false
	}
	if flat || depth > 16 {
		return append(out, c[3])
	}
	l, r := c.Split(0.5)
	out = l.flatten(tol, out, depth+1)
	return r.flatten(tol, out, depth+1)
}

// ArcHandle is the handle length of a cubic approximating a circular arc of
// radius r spanning theta radians:
//
//	v = 4r(2sin(θ/2) − sin(θ)) / (3(1 − cos(θ)))
func ArcHandle(r, theta float64) float64 {
	den := 3 * (1 - math.Cos(theta))
	if math.Abs(den) < laxgeom.ZeroLength {
		return 0
	}
	return 4 * r * (2*math.Sin(theta/2) - math.Sin(theta)) / den
}
