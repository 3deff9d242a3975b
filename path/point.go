package path

import (
	"fmt"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/laxgeom/bezmat"
)

// Role tells vertices from bezier handles.
type Role int8

// Point roles.
const (
	Vertex      Role = iota // on-curve point
	ControlPrev             // handle leading into the following vertex
	ControlNext             // handle leaving the preceding vertex
)

func (r Role) String() string {
	switch r {
	case Vertex:
		return "vertex"
	case ControlPrev:
		return "prev"
	case ControlNext:
		return "next"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

func parseRole(s string) (Role, bool) {
	for _, r := range []Role{Vertex, ControlPrev, ControlNext} {
		if r.String() == s {
			return r, true
		}
	}
	return Vertex, false
}

// Smoothness describes how the two handles of a vertex are coupled.
type Smoothness int8

// Smoothness kinds. Stiff handles are kept collinear through the vertex,
// equal handles are kept at the same length.
const (
	NonstiffUnequal Smoothness = iota
	NonstiffEqual
	StiffUnequal
	StiffEqual
)

var smoothnessNames = [...]string{"nonstiff-unequal", "nonstiff-equal", "stiff-unequal", "stiff-equal"}

func (s Smoothness) String() string {
	if int(s) < len(smoothnessNames) && s >= 0 {
		return smoothnessNames[s]
	}
	return fmt.Sprintf("smoothness(%d)", int(s))
}

func parseSmoothness(s string) (Smoothness, bool) {
	for i, n := range smoothnessNames {
		if n == s {
			return Smoothness(i), true
		}
	}
	return NonstiffUnequal, s == ""
}

// Flags mark outline points with their origin.
type Flags uint8

// Outline point flags.
const (
	FlagJoin Flags = 1 << iota // point belongs to join geometry
	FlagCap                    // point belongs to cap geometry
)

// Point is an element of a bezier-tagged point sequence. Within a sequence
// a vertex may be preceded by one ControlPrev and followed by one
// ControlNext; a missing handle means the segment is straight on that side.
type Point struct {
	P          laxgeom.Pair
	Role       Role
	Smooth     Smoothness // meaningful on vertices
	Controller string     // segment controller which produced the handles, if any
	Flags      Flags
}

func (pt Point) String() string {
	return fmt.Sprintf("%s%v", pt.Role.String()[:1], pt.P)
}

// Contour is a bezier-tagged point sequence. A closed contour continues from
// its last point back to its first vertex; trailing handles belong to that
// closing segment.
type Contour struct {
	Points []Point
	Closed bool
}

// segment is one piece of a contour, together with the information whether
// it carries handles.
type segment struct {
	bez  bezmat.Cubic
	line bool
}

// Segments splits the contour into cubic segments. Straight pieces are
// returned as cubics with handles on the connecting line.
func (c Contour) Segments() []bezmat.Cubic {
	segs := c.segments()
	out := make([]bezmat.Cubic, len(segs))
	for i, s := range segs {
		out[i] = s.bez
	}
	return out
}

func (c Contour) segments() []segment {
	var out []segment
	first := -1
	for i, pt := range c.Points {
		if pt.Role == Vertex {
			first = i
			break
		}
	}
	if first < 0 {
		return nil
	}
	n := len(c.Points)
	limit := n // closed: walk around back to the first vertex
	if !c.Closed {
		limit = n - 1 - first
	}
	cur := c.Points[first].P
	var c0, c1 *laxgeom.Pair
	for k := 1; k <= limit; k++ {
		pt := c.Points[(first+k)%n]
		switch pt.Role {
		case ControlNext:
			c0 = &c.Points[(first+k)%n].P
		case ControlPrev:
			c1 = &c.Points[(first+k)%n].P
		default:
			if c0 == nil && c1 == nil {
				out = append(out, segment{bez: bezmat.Line(cur, pt.P), line: true})
			} else {
				bez := bezmat.Cubic{cur, cur, pt.P, pt.P}
				if c0 != nil {
					bez[1] = *c0
				}
				if c1 != nil {
					bez[2] = *c1
				}
				out = append(out, segment{bez: bez})
			}
			cur, c0, c1 = pt.P, nil, nil
		}
	}
	return out
}

// Vertices returns the on-curve points of the contour.
func (c Contour) Vertices() []laxgeom.Pair {
	var vs []laxgeom.Pair
	for _, pt := range c.Points {
		if pt.Role == Vertex {
			vs = append(vs, pt.P)
		}
	}
	return vs
}

// Flatten approximates the contour by a polyline, to within tol.
func (c Contour) Flatten(tol float64) []laxgeom.Pair {
	segs := c.segments()
	if len(segs) == 0 {
		return c.Vertices()
	}
	pts := []laxgeom.Pair{segs[0].bez[0]}
	for _, s := range segs {
		if s.line {
			pts = append(pts, s.bez[3])
			continue
		}
		pts = s.bez.Flatten(tol, pts)
	}
	if c.Closed && len(pts) > 1 && pts[0].Equal(pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// reversed returns the sequence in opposite direction, swapping handle roles.
func reversed(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, pt := range pts {
		switch pt.Role {
		case ControlPrev:
			pt.Role = ControlNext
		case ControlNext:
			pt.Role = ControlPrev
		}
		out[len(pts)-1-i] = pt
	}
	return out
}
