package path

import (
	"fmt"
	"math"
	"strings"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/laxgeom/bezmat"
	"github.com/npillmayer/laxgeom/curvesample"
)

// vertex is an on-curve point together with its optional handles.
type vertex struct {
	p          laxgeom.Pair
	pre, post  laxgeom.Pair
	hasPre     bool
	hasPost    bool
	smooth     Smoothness
	controller string
}

// Path is a weighted bezier path.
type Path struct {
	verts          []vertex
	closed         bool
	weights        []WeightNode // sorted by T
	style          *LineStyle
	defaultStyle   bool // style stands in for a nil argument
	brush          ShapeBrush
	absoluteAngles bool
	settings       laxgeom.Settings
	controllers    *Registry
	needtorecache  bool
	outline        []Contour
	center         Contour
	widths         *curvesample.Curve
	offsets        *curvesample.Curve
	angles         *curvesample.Curve
}

// New creates an empty path. A nil style is replaced by DefaultLineStyle.
func New(style *LineStyle) *Path {
	own := style != nil
	if !own {
		style = DefaultLineStyle()
	}
	return &Path{
		style:         style,
		defaultStyle:  !own,
		settings:      laxgeom.DefaultSettings(),
		needtorecache: true,
	}
}

// --- Builder ---------------------------------------------------------------

// MoveTo sets the start vertex of an empty path.
func (path *Path) MoveTo(p laxgeom.Pair) *Path {
	if len(path.verts) > 0 {
		tracer().Errorf("path: MoveTo on a non-empty path, ignored")
		return path
	}
	path.verts = append(path.verts, vertex{p: p})
	path.touch()
	return path
}

// LineTo appends a vertex connected by a straight segment.
func (path *Path) LineTo(p laxgeom.Pair) *Path {
	path.verts = append(path.verts, vertex{p: p})
	path.touch()
	return path
}

// CurveTo appends a vertex connected by a bezier segment with handles c0 and c1.
func (path *Path) CurveTo(c0, c1, p laxgeom.Pair) *Path {
	if n := len(path.verts); n > 0 {
		path.verts[n-1].post, path.verts[n-1].hasPost = c0, true
	} else {
		tracer().Errorf("path: CurveTo on an empty path, starting at %v", c0)
		path.verts = append(path.verts, vertex{p: c0})
	}
	path.verts = append(path.verts, vertex{p: p, pre: c1, hasPre: true})
	path.touch()
	return path
}

// CurveToCycle adds the handles of the closing segment and closes the path.
func (path *Path) CurveToCycle(c0, c1 laxgeom.Pair) *Path {
	if len(path.verts) < 2 {
		tracer().Errorf("path: cannot close a path with %d vertices", len(path.verts))
		return path
	}
	last := &path.verts[len(path.verts)-1]
	last.post, last.hasPost = c0, true
	path.verts[0].pre, path.verts[0].hasPre = c1, true
	return path.Cycle()
}

// Cycle closes the path while building it.
func (path *Path) Cycle() *Path {
	if err := path.Close(); err != nil {
		tracer().Errorf("path: %v", err)
	}
	return path
}

// End finishes an open path while building it.
func (path *Path) End() *Path {
	return path
}

// touch marks the caches as stale.
func (path *Path) touch() {
	path.needtorecache = true
}

// --- Accessors -------------------------------------------------------------

// Style returns the line style of the path.
func (path *Path) Style() *LineStyle {
	return path.style
}

// SetStyle replaces the line style. A nil style is replaced by DefaultLineStyle.
func (path *Path) SetStyle(style *LineStyle) {
	path.defaultStyle = style == nil
	if style == nil {
		style = DefaultLineStyle()
	}
	path.style = style
	path.touch()
}

// SetBrush sets a cross-section shape. A nil brush means a symmetric stroke.
func (path *Path) SetBrush(brush ShapeBrush) {
	path.brush = brush
	path.touch()
}

// Settings returns the tuning parameters of the path.
func (path *Path) Settings() laxgeom.Settings {
	return path.settings
}

// SetSettings replaces the tuning parameters of the path.
func (path *Path) SetSettings(s laxgeom.Settings) {
	path.settings = s.Sanitized()
	path.touch()
}

// SetAbsoluteAngles switches the interpretation of weight angles. Absolute
// angles are measured from the y-axis, relative ones from the path normal.
func (path *Path) SetAbsoluteAngles(on bool) {
	path.absoluteAngles = on
	path.touch()
}

// AbsoluteAngles tells how weight angles are interpreted.
func (path *Path) AbsoluteAngles() bool {
	return path.absoluteAngles
}

// IsClosed is a predicate.
func (path *Path) IsClosed() bool {
	return path.closed
}

// NumVertices is the count of on-curve points.
func (path *Path) NumVertices() int {
	return len(path.verts)
}

// NumSegments is the count of segments, which is also the upper limit of the
// path parameter t.
func (path *Path) NumSegments() int {
	n := len(path.verts)
	switch {
	case n < 2:
		return 0
	case path.closed:
		return n
	}
	return n - 1
}

// Vertex returns the position of vertex i.
func (path *Path) Vertex(i int) laxgeom.Pair {
	if i < 0 || i >= len(path.verts) {
		tracer().Errorf("path: vertex index %d out of range", i)
		return laxgeom.Origin
	}
	return path.verts[i].p
}

// Handles returns the handles of vertex i. A missing handle is reported by a
// false flag and sits on the vertex.
func (path *Path) Handles(i int) (pre laxgeom.Pair, hasPre bool, post laxgeom.Pair, hasPost bool) {
	if i < 0 || i >= len(path.verts) {
		return
	}
	v := path.verts[i]
	pre, post = v.p, v.p
	if v.hasPre {
		pre = v.pre
	}
	if v.hasPost {
		post = v.post
	}
	return pre, v.hasPre, post, v.hasPost
}

// SetHandles sets both handles of vertex i.
func (path *Path) SetHandles(i int, pre, post laxgeom.Pair) error {
	if i < 0 || i >= len(path.verts) {
		return fmt.Errorf("%w: vertex %d", ErrIndexOutOfRange, i)
	}
	v := &path.verts[i]
	v.pre, v.hasPre, v.post, v.hasPost = pre, true, post, true
	path.touch()
	return nil
}

// Smoothness returns the handle coupling of vertex i.
func (path *Path) Smoothness(i int) Smoothness {
	if i < 0 || i >= len(path.verts) {
		return NonstiffUnequal
	}
	return path.verts[i].smooth
}

// Points returns the bezier-tagged point sequence of the path. For a closed
// path the incoming handle of vertex 0 comes last.
func (path *Path) Points() []Point {
	pts := make([]Point, 0, 3*len(path.verts))
	if len(path.verts) > 0 && path.verts[0].hasPre && !path.closed {
		v := path.verts[0]
		pts = append(pts, Point{P: v.pre, Role: ControlPrev, Controller: v.controller})
	}
	for i, v := range path.verts {
		if v.hasPre && i > 0 {
			pts = append(pts, Point{P: v.pre, Role: ControlPrev, Controller: v.controller})
		}
		pts = append(pts, Point{P: v.p, Role: Vertex, Smooth: v.smooth, Controller: v.controller})
		if v.hasPost {
			pts = append(pts, Point{P: v.post, Role: ControlNext, Controller: v.controller})
		}
	}
	if len(path.verts) > 0 && path.verts[0].hasPre && path.closed {
		v := path.verts[0]
		pts = append(pts, Point{P: v.pre, Role: ControlPrev, Controller: v.controller})
	}
	return pts
}

// AsContour returns the path's own geometry as a contour.
func (path *Path) AsContour() Contour {
	return Contour{Points: path.Points(), Closed: path.closed}
}

// --- Segments and queries --------------------------------------------------

func (path *Path) next(i int) int {
	return (i + 1) % len(path.verts)
}

// SegmentBez returns the control points of segment i, which runs from vertex
// i to the following one. A missing handle sits on its vertex.
func (path *Path) SegmentBez(i int) bezmat.Cubic {
	a, b := path.verts[i], path.verts[path.next(i)]
	c0, c1 := a.p, b.p
	if a.hasPost {
		c0 = a.post
	}
	if b.hasPre {
		c1 = b.pre
	}
	if !a.hasPost && !b.hasPre {
		return bezmat.Line(a.p, b.p)
	}
	return bezmat.Cubic{a.p, c0, c1, b.p}
}

// isLine is true for a segment without handles.
func (path *Path) isLine(i int) bool {
	return !path.verts[i].hasPost && !path.verts[path.next(i)].hasPre
}

// locate splits a path parameter into segment index and segment parameter.
func (path *Path) locate(t float64) (int, float64) {
	nseg := path.NumSegments()
	t = laxgeom.Clamp(t, 0, float64(nseg))
	seg := int(math.Floor(t))
	if seg >= nseg {
		seg = nseg - 1
	}
	return seg, t - float64(seg)
}

// PointAt returns the position and unit tangent at path parameter t.
func (path *Path) PointAt(t float64) (laxgeom.Pair, laxgeom.Pair) {
	if path.NumSegments() == 0 {
		if len(path.verts) == 1 {
			return path.verts[0].p, laxgeom.P(1, 0)
		}
		return laxgeom.Origin, laxgeom.P(1, 0)
	}
	seg, u := path.locate(t)
	bez := path.SegmentBez(seg)
	return bez.Point(u), bez.Tangent(u)
}

// ClosestPoint returns the path parameter and distance of the location on
// the path closest to p. It returns t = -1 for a path without segments.
func (path *Path) ClosestPoint(p laxgeom.Pair) (float64, float64) {
	best, bestT := math.Inf(1), -1.0
	for i := 0; i < path.NumSegments(); i++ {
		u, d := path.SegmentBez(i).Closest(p)
		if d < best {
			best, bestT = d, float64(i)+u
		}
	}
	return bestT, best
}

// BBox returns the bounding box of the path's points including handles.
func (path *Path) BBox() (min, max laxgeom.Pair, ok bool) {
	if len(path.verts) == 0 {
		return
	}
	xmin, ymin := math.Inf(1), math.Inf(1)
	xmax, ymax := math.Inf(-1), math.Inf(-1)
	for _, pt := range path.Points() {
		xmin, xmax = math.Min(xmin, pt.P.X()), math.Max(xmax, pt.P.X())
		ymin, ymax = math.Min(ymin, pt.P.Y()), math.Max(ymax, pt.P.Y())
	}
	return laxgeom.P(xmin, ymin), laxgeom.P(xmax, ymax), true
}

// MovePoint moves vertex i to p, its handles travelling along.
func (path *Path) MovePoint(i int, p laxgeom.Pair) error {
	if i < 0 || i >= len(path.verts) {
		return fmt.Errorf("%w: vertex %d", ErrIndexOutOfRange, i)
	}
	v := &path.verts[i]
	d := p - v.p
	v.p, v.pre, v.post = p, v.pre+d, v.post+d
	path.touch()
	return nil
}

// Transform applies an affine transform to every point of the path.
func (path *Path) Transform(at laxgeom.AT) {
	for i := range path.verts {
		v := &path.verts[i]
		v.p = at.Transform(v.p)
		v.pre = at.Transform(v.pre)
		v.post = at.Transform(v.post)
	}
	path.touch()
}

// Clone returns a deep copy of the path. The line style stays shared.
func (path *Path) Clone() *Path {
	c := *path
	c.verts = append([]vertex(nil), path.verts...)
	c.weights = append([]WeightNode(nil), path.weights...)
	c.outline, c.center = nil, Contour{}
	c.widths, c.offsets, c.angles = nil, nil, nil
	c.needtorecache = true
	return &c
}

func (path *Path) String() string {
	var b strings.Builder
	b.WriteString("path(")
	for i, pt := range path.Points() {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(pt.String())
	}
	if path.closed {
		b.WriteString(" cycle")
	}
	b.WriteString(")")
	return b.String()
}
