package path

import (
	"fmt"
	"math"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/laxgeom/bezmat"
)

// Close connects the last vertex to the first one. Weight positions stay as
// they are; nodes pinned at both ends keep the stroke of the open path.
func (path *Path) Close() error {
	if path.closed {
		return ErrClosed
	}
	if len(path.verts) < 2 {
		return fmt.Errorf("%w: closing needs 2 vertices, have %d", ErrTooFewVertices, len(path.verts))
	}
	path.pinWeight(0)
	path.pinWeight(float64(len(path.verts) - 1))
	path.closed = true
	path.touch()
	return nil
}

// InsertVertex splits the path at parameter t and returns the index of the
// new vertex. The split is exact: the path keeps its shape. Weight nodes stay
// at their physical locations.
func (path *Path) InsertVertex(t float64) (int, error) {
	nseg := path.NumSegments()
	if nseg == 0 {
		return -1, fmt.Errorf("%w: no segment to split", ErrTooFewVertices)
	}
	if t < 0 || t > float64(nseg) {
		return -1, fmt.Errorf("%w: parameter %g not in [0,%d]", ErrIndexOutOfRange, t, nseg)
	}
	k, f := path.locate(t)
	if laxgeom.Is0(f) || laxgeom.Is0(f-1) {
		tracer().Infof("path: t=%g is on a vertex, nothing inserted", t)
		return int(math.Round(t)) % len(path.verts), nil
	}
	next := path.next(k)
	nv := vertex{p: path.SegmentBez(k).Point(f)}
	if !path.isLine(k) {
		left, right := path.SegmentBez(k).Split(f)
		path.verts[k].post = left[1]
		path.verts[next].pre = right[2]
		nv.pre, nv.hasPre = left[2], true
		nv.post, nv.hasPost = right[1], true
		nv.smooth = StiffUnequal
	}
	path.verts = append(path.verts, vertex{})
	copy(path.verts[k+2:], path.verts[k+1:])
	path.verts[k+1] = nv
	path.remapWeights(func(w float64) (float64, bool) {
		lo := float64(k)
		switch {
		case w < lo:
			return w, true
		case w <= lo+f:
			return lo + (w-lo)/f, true
		case w <= lo+1:
			return lo + 1 + (w-lo-f)/(1-f), true
		}
		return w + 1, true
	})
	path.touch()
	return k + 1, nil
}

// RemoveVertex deletes vertex i. The two segments meeting at an inner vertex
// are merged into one, approximating their shape; weight nodes on them are
// mapped onto the merged segment. Removing an end vertex of an open path
// shortens the path.
func (path *Path) RemoveVertex(i int) error {
	n := len(path.verts)
	if i < 0 || i >= n {
		return fmt.Errorf("%w: vertex %d", ErrIndexOutOfRange, i)
	}
	if !path.closed && (i == 0 || i == n-1) {
		return path.DeleteVertexRange(i, i)
	}
	if n <= 2 {
		return fmt.Errorf("%w: closed path needs 2 vertices", ErrTooFewVertices)
	}
	if path.closed && i == 0 {
		path.rotate(1)
		i = n - 1
	}
	prev, next := i-1, path.next(i)
	v := path.verts[i]
	lft, rgt := path.SegmentBez(prev), path.SegmentBez(i)
	f := splitRatio(v, lft, rgt)
	straight := path.isLine(prev) && path.isLine(i)
	a, b := &path.verts[prev], &path.verts[next]
	if !straight {
		if f > laxgeom.Epsilon {
			a.post, a.hasPost = lft[0]+(lft[1]-lft[0]).Scaled(1/f), true
		}
		if 1-f > laxgeom.Epsilon {
			b.pre, b.hasPre = rgt[3]-(rgt[3]-rgt[2]).Scaled(1/(1-f)), true
		}
	}
	path.verts = append(path.verts[:i], path.verts[i+1:]...)
	k := float64(prev)
	path.remapWeights(func(w float64) (float64, bool) {
		switch {
		case w < k:
			return w, true
		case w <= k+1:
			return k + (w-k)*f, true
		case w <= k+2:
			return k + f + (w-k-1)*(1-f), true
		}
		return w - 1, true
	})
	path.touch()
	return nil
}

// splitRatio estimates at which parameter of a merged segment the vertex v
// between segments lft and rgt would sit.
func splitRatio(v vertex, lft, rgt bezmat.Cubic) float64 {
	var a, b float64
	if v.hasPre && v.hasPost {
		a, b = v.p.Distance(v.pre), v.post.Distance(v.p)
	}
	if a+b < laxgeom.Epsilon {
		a = lft[0].Distance(lft[1]) + lft[1].Distance(lft[2]) + lft[2].Distance(lft[3])
		b = rgt[0].Distance(rgt[1]) + rgt[1].Distance(rgt[2]) + rgt[2].Distance(rgt[3])
	}
	if a+b < laxgeom.Epsilon {
		return 0.5
	}
	return a / (a + b)
}

// DeleteVertexRange deletes vertices from..to (inclusive). For an inner range
// the neighbours of the range are connected by a single segment. Weight
// nodes on the removed part are deleted, the others keep their physical
// locations; the stroke values at the borders of the removed part are
// preserved by weight nodes.
func (path *Path) DeleteVertexRange(from, to int) error {
	n := len(path.verts)
	if from > to {
		from, to = to, from
	}
	if from < 0 || to >= n {
		return fmt.Errorf("%w: vertices %d…%d", ErrIndexOutOfRange, from, to)
	}
	cnt := to - from + 1
	if cnt == n {
		path.verts, path.weights, path.closed = nil, nil, false
		path.touch()
		return nil
	}
	if path.closed {
		if n-cnt < 2 {
			return fmt.Errorf("%w: closed path needs 2 vertices", ErrTooFewVertices)
		}
		if from == 0 {
			path.rotate(n - 1)
			from, to = 1, to+1
		}
		if to == n-1 { // merged segment is the closing one
			path.pinWeight(float64(from - 1))
			path.pinWeight(0)
			path.remapWeights(func(w float64) (float64, bool) {
				return w, w <= float64(from-1)
			})
			path.verts = path.verts[:from]
			path.touch()
			return nil
		}
		return path.deleteInner(from, to)
	}
	switch {
	case from == 0:
		path.pinWeight(float64(to + 1))
		shift := float64(cnt)
		path.remapWeights(func(w float64) (float64, bool) {
			return w - shift, w >= shift-laxgeom.Epsilon
		})
		path.verts = append(path.verts[:0], path.verts[to+1:]...)
		path.verts[0].pre, path.verts[0].hasPre = laxgeom.Origin, false
	case to == n-1:
		path.pinWeight(float64(from - 1))
		path.remapWeights(func(w float64) (float64, bool) {
			return w, w <= float64(from-1)+laxgeom.Epsilon
		})
		path.verts = path.verts[:from]
		last := &path.verts[from-1]
		last.post, last.hasPost = laxgeom.Origin, false
	default:
		return path.deleteInner(from, to)
	}
	path.touch()
	return nil
}

// deleteInner removes vertices from..to with neighbours on both sides.
func (path *Path) deleteInner(from, to int) error {
	path.pinWeight(float64(from - 1))
	path.pinWeight(float64(to + 1))
	lo, hi := float64(from-1), float64(to+1)
	shift := float64(to - from + 1)
	path.remapWeights(func(w float64) (float64, bool) {
		switch {
		case w <= lo+laxgeom.Epsilon:
			return w, true
		case w >= hi-laxgeom.Epsilon:
			return w - shift, true
		}
		return w, false
	})
	path.verts = append(path.verts[:from], path.verts[to+1:]...)
	path.touch()
	return nil
}

// rotate renumbers the vertices of a closed path so that vertex r becomes
// vertex 0.
func (path *Path) rotate(r int) {
	n := len(path.verts)
	r = ((r % n) + n) % n
	if r == 0 {
		return
	}
	path.verts = append(path.verts[r:], path.verts[:r]...)
	nf, rf := float64(n), float64(r)
	path.remapWeights(func(w float64) (float64, bool) {
		w -= rf
		if w < 0 {
			w += nf
		}
		return w, true
	})
}

// Reverse flips the direction of the path. Weight nodes stay at their
// physical locations, with offsets mirrored; absolute angles are turned by
// half a circle. Vertex 0 of a closed path stays vertex 0.
func (path *Path) Reverse() {
	n := len(path.verts)
	if n < 2 {
		return
	}
	rev := make([]vertex, n)
	for i, v := range path.verts {
		j := n - 1 - i
		if path.closed {
			j = (n - i) % n
		}
		v.pre, v.post = v.post, v.pre
		v.hasPre, v.hasPost = v.hasPost, v.hasPre
		rev[j] = v
	}
	path.verts = rev
	nseg := float64(path.NumSegments())
	for i := range path.weights {
		w := &path.weights[i]
		w.T = nseg - w.T
		if path.closed && w.T >= nseg {
			w.T -= nseg
		}
		w.Offset = -w.Offset
		if path.absoluteAngles {
			w.Angle += math.Pi
		}
	}
	path.sortWeights()
	path.touch()
}

// OpenAt opens a closed path by removing the segment following vertex i.
// The vertex after the removed segment becomes vertex 0. The handles of the
// removed segment are dropped. Weight nodes on the removed segment are
// deleted, with the stroke values at its ends pinned. A lone weight node is
// moved to the closer end instead.
func (path *Path) OpenAt(i int) error {
	n := len(path.verts)
	if !path.closed {
		return ErrNotClosed
	}
	if i < 0 || i >= n {
		return fmt.Errorf("%w: vertex %d", ErrIndexOutOfRange, i)
	}
	lone := len(path.weights) == 1
	if !lone {
		path.pinWeight(float64(i))
		path.pinWeight(float64((i + 1) % n))
	}
	path.rotate(i + 1)
	path.closed = false
	path.verts[0].pre, path.verts[0].hasPre = laxgeom.Origin, false
	path.verts[n-1].post, path.verts[n-1].hasPost = laxgeom.Origin, false
	last := float64(n - 1)
	path.remapWeights(func(w float64) (float64, bool) {
		if w <= last+laxgeom.Epsilon {
			return math.Min(w, last), true
		}
		if lone {
			if w-last < 0.5 {
				return last, true
			}
			return 0, true
		}
		return w, false
	})
	path.touch()
	return nil
}

// CutSegment removes segment i. A closed path is opened there. An open path
// is split in two: the path keeps the part before the segment, the part
// after it is returned as a new path sharing the line style.
func (path *Path) CutSegment(i int) (*Path, error) {
	if i < 0 || i >= path.NumSegments() {
		return nil, fmt.Errorf("%w: segment %d", ErrIndexOutOfRange, i)
	}
	if path.closed {
		return nil, path.OpenAt(i)
	}
	path.pinWeight(float64(i))
	path.pinWeight(float64(i + 1))
	rest := path.Clone()
	rest.verts = append([]vertex(nil), path.verts[i+1:]...)
	rest.verts[0].pre, rest.verts[0].hasPre = laxgeom.Origin, false
	shift := float64(i + 1)
	rest.remapWeights(func(w float64) (float64, bool) {
		return w - shift, w >= shift-laxgeom.Epsilon
	})
	path.verts = path.verts[:i+1]
	path.verts[i].post, path.verts[i].hasPost = laxgeom.Origin, false
	path.remapWeights(func(w float64) (float64, bool) {
		return w, w <= float64(i)+laxgeom.Epsilon
	})
	path.touch()
	return rest, nil
}

// Append connects an open path to the end of this open path by a straight
// segment. The weight nodes of other are carried over. If only one of the
// paths has weight nodes, the other one's stroke values are pinned at its
// ends, so that both parts keep their stroke.
func (path *Path) Append(other *Path) error {
	if path.closed || other.closed {
		return ErrClosed
	}
	if len(other.verts) == 0 {
		return nil
	}
	n, m := len(path.verts), len(other.verts)
	theirs := other.WeightNodes()
	if n > 0 && (len(path.weights) > 0 || len(theirs) > 0) {
		at := func(w WeightNode, t float64) WeightNode {
			w.T = t
			return w
		}
		if len(path.weights) == 0 {
			d := path.GetWeight(0)
			path.weights = append(path.weights, at(d, 0), at(d, float64(n-1)))
		} else {
			path.pinWeight(float64(n - 1))
		}
		if len(theirs) == 0 {
			d := other.GetWeight(0)
			theirs = []WeightNode{at(d, 0), at(d, float64(m-1))}
		} else if !laxgeom.Is0(theirs[0].T) {
			theirs = append([]WeightNode{other.GetWeight(0)}, theirs...)
		}
	}
	shift := float64(n)
	for _, w := range theirs {
		w.T += shift
		path.weights = append(path.weights, w)
	}
	path.verts = append(path.verts, other.verts...)
	path.sortWeights()
	path.touch()
	return nil
}

// MakeStraight removes the handles of segment i.
func (path *Path) MakeStraight(i int) error {
	if i < 0 || i >= path.NumSegments() {
		return fmt.Errorf("%w: segment %d", ErrIndexOutOfRange, i)
	}
	path.verts[i].hasPost = false
	path.verts[path.next(i)].hasPre = false
	path.touch()
	return nil
}

// SetSmoothness sets the handle coupling of vertex i and applies it to the
// current handles: stiff handles are aligned on a common line through the
// vertex, equal handles get their mean length.
func (path *Path) SetSmoothness(i int, s Smoothness) error {
	if i < 0 || i >= len(path.verts) {
		return fmt.Errorf("%w: vertex %d", ErrIndexOutOfRange, i)
	}
	v := &path.verts[i]
	v.smooth = s
	if !v.hasPre || !v.hasPost {
		path.touch()
		return nil
	}
	in, out := v.p-v.pre, v.post-v.p
	lin, lout := in.Norm(), out.Norm()
	if s == StiffEqual || s == StiffUnequal {
		dir := (in.Normalized() + out.Normalized()).Normalized()
		if dir.IsOrigin() {
			dir = out.Normalized()
		}
		in, out = dir.Scaled(lin), dir.Scaled(lout)
	}
	if s == StiffEqual || s == NonstiffEqual {
		m := (lin + lout) / 2
		in, out = in.Normalized().Scaled(m), out.Normalized().Scaled(m)
	}
	v.pre, v.post = v.p-in, v.p+out
	path.touch()
	return nil
}
