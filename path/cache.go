package path

import (
	"math"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/laxgeom/bezmat"
	"github.com/npillmayer/laxgeom/curvesample"
)

// NeedsRecache tells if the caches are stale.
func (path *Path) NeedsRecache() bool {
	return path.needtorecache
}

// UpdateWidthCache rebuilds the width, offset and angle curves from the
// weight nodes. Without weight nodes the curves are flat at the line style's
// width with zero offset and angle. Closed paths wrap the first and last node
// across the seam, so interpolation runs continuously through t = 0.
func (path *Path) UpdateWidthCache() {
	if len(path.verts) < 2 {
		path.widths, path.offsets, path.angles = nil, nil, nil
		return
	}
	n := float64(path.NumSegments())
	path.widths = curvesample.New(0, n)
	path.offsets = curvesample.New(0, n)
	path.angles = curvesample.New(0, n)
	switch len(path.weights) {
	case 0:
		path.widths.SetFlat(path.style.Width)
	case 1:
		w := path.weights[0]
		path.widths.SetFlat(w.Width)
		path.offsets.SetFlat(w.Offset)
		path.angles.SetFlat(w.Angle)
	default:
		for _, w := range path.weights {
			path.widths.Add(w.T, w.Width)
			path.offsets.Add(w.T, w.Offset)
			path.angles.Add(w.T, w.Angle)
		}
		if path.closed {
			first, last := path.weights[0], path.weights[len(path.weights)-1]
			for _, w := range []WeightNode{{T: first.T + n, Offset: first.Offset, Width: first.Width, Angle: first.Angle},
				{T: last.T - n, Offset: last.Offset, Width: last.Width, Angle: last.Angle}} {
				path.widths.Add(w.T, w.Width)
				path.offsets.Add(w.T, w.Offset)
				path.angles.Add(w.T, w.Angle)
			}
		}
	}
	if !path.closed {
		path.pinZeroWidthCaps(n)
	}
}

// pinZeroWidthCaps forces the width to 0 at path ends with zero-width caps.
// A flat width is held from half a segment after the start to half a
// segment before the end.
func (path *Path) pinZeroWidthCaps(n float64) {
	start := path.style.Cap == CapZeroWidth
	end := path.style.EndCap == CapZeroWidth
	if !start && !end {
		return
	}
	if path.widths.IsFlat() {
		w := path.widths.F(0)
		lead := math.Min(0.5, n/2)
		if start {
			path.widths.Add(lead, w)
		}
		if end {
			path.widths.Add(n-lead, w)
		}
		if start != end {
			if start {
				path.widths.Add(n, w)
			} else {
				path.widths.Add(0, w)
			}
		}
	}
	if start {
		path.widths.Add(0, 0)
	}
	if end {
		path.widths.Add(n, 0)
	}
}

// WidthCurve returns the width as a function of t, or nil for a path with
// less than two vertices.
func (path *Path) WidthCurve() *curvesample.Curve {
	path.UpdateCache()
	return path.widths
}

// OffsetCurve returns the centerline offset as a function of t.
func (path *Path) OffsetCurve() *curvesample.Curve {
	path.UpdateCache()
	return path.offsets
}

// AngleCurve returns the cross-section angle as a function of t.
func (path *Path) AngleCurve() *curvesample.Curve {
	path.UpdateCache()
	return path.angles
}

// Outline returns the stroke outline. Open paths have a single closed
// contour, closed paths an outer contour and a reversed inner one.
func (path *Path) Outline() []Contour {
	path.UpdateCache()
	return path.outline
}

// Centerline returns the offset centerline.
func (path *Path) Centerline() Contour {
	path.UpdateCache()
	return path.center
}

// sample is the stroke cross-section at one path parameter.
type sample struct {
	t       float64
	center  laxgeom.Pair // on the offset centerline
	top     laxgeom.Pair
	bottom  laxgeom.Pair
	tangent laxgeom.Pair // unit tangent of the path
}

// run is a maximal sequence of samples without a corner.
type run []sample

// UpdateCache rebuilds outline and centerline if the path has changed since
// the last call.
func (path *Path) UpdateCache() {
	if !path.needtorecache {
		return
	}
	path.needtorecache = false
	path.outline, path.center = nil, Contour{}
	path.UpdateWidthCache()
	if path.NumSegments() == 0 {
		return
	}
	runs, wrapCorner := path.sampleRuns()
	if len(runs) == 0 {
		tracer().Debugf("path: all segments degenerate, no outline")
		return
	}
	topOf := func(s sample) laxgeom.Pair { return s.top }
	bottomOf := func(s sample) laxgeom.Pair { return s.bottom }
	centerOf := func(s sample) laxgeom.Pair { return s.center }
	style := path.style
	if path.closed {
		loop := !wrapCorner && len(runs) == 1
		top := path.side(runs, topOf, style.Join, true, loop)
		bottom := path.side(runs, bottomOf, style.Join, true, loop)
		path.outline = []Contour{
			{Points: top, Closed: true},
			{Points: reversed(bottom), Closed: true},
		}
		path.center = Contour{Points: path.side(runs, centerOf, JoinBevel, true, loop), Closed: true}
		return
	}
	top := path.side(runs, topOf, style.Join, false, false)
	bottom := path.side(runs, bottomOf, style.Join, false, false)
	first, last := runs[0][0], runs[len(runs)-1][len(runs[len(runs)-1])-1]
	pts := top
	pts = append(pts, path.capPoints(style.EndCap, last.top, last.bottom, last.center, last.tangent)...)
	pts = append(pts, reversed(bottom)...)
	pts = append(pts, path.capPoints(style.Cap, first.bottom, first.top, first.center, -first.tangent)...)
	path.outline = []Contour{{Points: pts, Closed: true}}
	path.center = Contour{Points: path.side(runs, centerOf, JoinBevel, false, false)}
}

// sampleRuns samples all non-degenerate segments and groups the samples into
// runs, split at corners. For a closed path wrapCorner tells whether there is
// a corner at vertex 0; if not, the last run has been merged into the first.
func (path *Path) sampleRuns() ([]run, bool) {
	var runs []run
	var cur run
	for i := 0; i < path.NumSegments(); i++ {
		bez := path.SegmentBez(i)
		if bez.SizeSquared() < path.settings.ZeroLength {
			tracer().Debugf("path: skipping degenerate segment %d", i)
			continue
		}
		smp := path.sampleSegment(i, bez)
		if len(cur) > 0 {
			if smooth(cur[len(cur)-1].tangent, smp[0].tangent) {
				cur = append(cur, smp[1:]...)
				continue
			}
			runs = append(runs, cur)
		}
		cur = smp
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	if !path.closed || len(runs) == 0 {
		return runs, false
	}
	last := runs[len(runs)-1]
	if !smooth(last[len(last)-1].tangent, runs[0][0].tangent) {
		return runs, true
	}
	if len(runs) == 1 {
		runs[0] = last[:len(last)-1] // loop: last sample repeats the first one
		return runs, false
	}
	merged := append(run(nil), last[:len(last)-1]...)
	runs[0] = append(merged, runs[0]...)
	return runs[:len(runs)-1], false
}

// smooth is true if two unit tangents point into the same direction.
func smooth(in, out laxgeom.Pair) bool {
	return math.Abs(in.Cross(out)) < 1e-6 && in.Dot(out) > 0
}

// sampleSegment samples segment i at the configured resolution. Weight nodes
// inside the segment split it into sub-ranges, so every node's t is sampled
// exactly.
func (path *Path) sampleSegment(i int, bez bezmat.Cubic) run {
	t0, t1 := float64(i), float64(i+1)
	breaks := []float64{t0}
	for _, w := range path.weights {
		if w.T > t0 && w.T < t1 && !laxgeom.Is0(w.T-breaks[len(breaks)-1]) {
			breaks = append(breaks, w.T)
		}
	}
	breaks = append(breaks, t1)
	res := path.settings.Resolution
	smp := make(run, 0, res*(len(breaks)-1)+1)
	var prevTan laxgeom.Pair
	for b := 0; b+1 < len(breaks); b++ {
		lo, hi := breaks[b], breaks[b+1]
		k0 := 1
		if b == 0 {
			k0 = 0
		}
		for k := k0; k <= res; k++ {
			t := lo + (hi-lo)*float64(k)/float64(res)
			s := path.sampleAt(t, t-t0, bez, prevTan)
			prevTan = s.tangent
			smp = append(smp, s)
		}
	}
	return smp
}

// sampleAt computes the cross-section at path parameter t, which is at
// parameter u of bez.
func (path *Path) sampleAt(t, u float64, bez bezmat.Cubic, prevTan laxgeom.Pair) sample {
	base := bez.Point(u)
	tan := bez.Tangent(u)
	if tan.IsOrigin() {
		tan = prevTan
	}
	perp := tan.Perp()
	center := base + perp.Scaled(path.offsets.F(t))
	width := path.widths.F(t)
	dir := perp
	if angle := path.angles.F(t); path.absoluteAngles {
		dir = laxgeom.P(0, 1).Rotated(angle)
	} else if angle != 0 {
		dir = perp.Rotated(angle)
	}
	brush := path.brush
	if brush == nil {
		brush = symmetric
	}
	lo, hi := brush.MinMax()
	return sample{
		t:       t,
		center:  center,
		top:     center + dir.Scaled(width*hi),
		bottom:  center + dir.Scaled(width*lo),
		tangent: tan,
	}
}
