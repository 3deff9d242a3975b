package path

import (
	"math"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/laxgeom/bezmat"
)

// side builds one side of the stroke (or the centerline) from the sample
// runs. Each run is fitted by bezier segments passing through its samples,
// corners between runs get join geometry. A loop is a closed side without
// any corner.
func (path *Path) side(runs []run, pick func(sample) laxgeom.Pair, join JoinStyle, closed, loop bool) []Point {
	if loop {
		return appendCubics(nil, bezmat.FitThrough(picked(runs[0], pick), true), true)
	}
	var pts []Point
	for i, r := range runs {
		if i > 0 {
			pts = append(pts, path.joinPoints(join, runs[i-1], r, pick)...)
		}
		pts = appendCubics(pts, bezmat.FitThrough(picked(r, pick), false), false)
	}
	if closed {
		pts = append(pts, path.joinPoints(join, runs[len(runs)-1], runs[0], pick)...)
	}
	return pts
}

func picked(r run, pick func(sample) laxgeom.Pair) []laxgeom.Pair {
	pts := make([]laxgeom.Pair, len(r))
	for i, s := range r {
		pts[i] = pick(s)
	}
	return pts
}

// appendCubics appends a chain of cubics as tagged points. For a loop the
// end vertex of the last cubic is omitted, as it repeats the first one.
func appendCubics(pts []Point, cubics []bezmat.Cubic, loop bool) []Point {
	if len(cubics) == 0 {
		return pts
	}
	pts = append(pts, Point{P: cubics[0][0], Role: Vertex})
	for i, c := range cubics {
		pts = append(pts,
			Point{P: c[1], Role: ControlNext},
			Point{P: c[2], Role: ControlPrev})
		if !loop || i < len(cubics)-1 {
			pts = append(pts, Point{P: c[3], Role: Vertex})
		}
	}
	return pts
}

// joinPoints returns the points to insert between the end of run a and the
// start of run b on one side of the stroke. The inner side of a corner is
// connected directly.
func (path *Path) joinPoints(join JoinStyle, a, b run, pick func(sample) laxgeom.Pair) []Point {
	in, out := a[len(a)-1], b[0]
	p, q := pick(in), pick(out)
	if join == JoinBevel || p.Equal(q) {
		return nil
	}
	turn := in.tangent.Cross(out.tangent)
	if (p-in.center).Dot(in.tangent.Perp())*turn >= 0 {
		return nil // inner side, or centerline
	}
	c := laxgeom.LerpP(in.center, out.center, 0.5)
	switch join {
	case JoinMiter:
		m, ok := miterPoint(p, in.tangent, q, out.tangent)
		if !ok {
			return nil
		}
		d := p.Distance(in.center)
		limit := path.settings.MiterFactor * 2 * d
		if path.style.MiterLimit > 0 {
			limit = path.style.MiterLimit * d
		}
		if m.Distance(c) > limit {
			tracer().Debugf("path: miter at %v exceeds limit %.4g, bevelled", m, limit)
			return nil
		}
		return []Point{{P: m, Role: Vertex, Flags: FlagJoin}}
	case JoinRound:
		r := (p.Distance(c) + q.Distance(c)) / 2
		u, v := p-c, q-c
		sweep := math.Atan2(u.Cross(v), u.Dot(v))
		return arcPoints(c, r, u.Angle(), sweep, FlagJoin)
	}
	return nil
}

// miterPoint intersects the line through p along tangent a with the line
// through q along tangent b. The intersection must lie ahead of p.
func miterPoint(p, a, q, b laxgeom.Pair) (laxgeom.Pair, bool) {
	den := a.Cross(b)
	if math.Abs(den) < laxgeom.Epsilon {
		return laxgeom.Origin, false
	}
	u := (q - p).Cross(b) / den
	if u < 0 {
		return laxgeom.Origin, false
	}
	return p + a.Scaled(u), true
}

// arcPoints approximates a circular arc around c, starting at angle a0 and
// sweeping by sweep radians, by cubics of at most a quarter circle each.
// The start point is not included, and the end point is left to the caller,
// so the result carries all handles and the inner vertices.
func arcPoints(c laxgeom.Pair, r, a0, sweep float64, flags Flags) []Point {
	if r < laxgeom.Epsilon || math.Abs(sweep) < laxgeom.Epsilon {
		return nil
	}
	pieces := int(math.Ceil(math.Abs(sweep) / (math.Pi/2 + laxgeom.Epsilon)))
	theta := sweep / float64(pieces)
	h := bezmat.ArcHandle(r, math.Abs(theta))
	dir := 1.0
	if theta < 0 {
		dir = -1
	}
	at := func(alpha float64) (laxgeom.Pair, laxgeom.Pair) {
		s, co := math.Sincos(alpha)
		return c + laxgeom.P(co, s).Scaled(r), laxgeom.P(-s, co).Scaled(dir)
	}
	var pts []Point
	for k := 0; k < pieces; k++ {
		p0, t0 := at(a0 + float64(k)*theta)
		p1, t1 := at(a0 + float64(k+1)*theta)
		pts = append(pts,
			Point{P: p0 + t0.Scaled(h), Role: ControlNext, Flags: flags},
			Point{P: p1 - t1.Scaled(h), Role: ControlPrev, Flags: flags})
		if k < pieces-1 {
			pts = append(pts, Point{P: p1, Role: Vertex, Flags: flags})
		}
	}
	return pts
}

// capPoints returns the points to insert between the stroke edge ending in a
// and the one starting in b, for a cap pointing along the unit tangent tan.
func (path *Path) capPoints(cap CapStyle, a, b, c, tan laxgeom.Pair) []Point {
	d := a.Distance(b) / 2
	if d < laxgeom.Epsilon {
		return nil
	}
	switch cap {
	case CapSquare:
		ext := tan.Scaled(d)
		return []Point{
			{P: a + ext, Role: Vertex, Flags: FlagCap},
			{P: b + ext, Role: Vertex, Flags: FlagCap},
		}
	case CapRound:
		m := laxgeom.LerpP(a, b, 0.5)
		sweep := math.Pi
		if (a - m).Perp().Dot(tan) < 0 {
			sweep = -math.Pi
		}
		return arcPoints(m, d, (a - m).Angle(), sweep, FlagCap)
	}
	return nil
}
