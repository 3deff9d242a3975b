/*
Package polygon implements polygons made of straight edges, and boolean
operations on them.

Paths flatten their stroke outlines to polygons and merge them by union,
which gives the area covered by a set of strokes. Boolean operations are
delegated to polyclip.

	pg := polygon.NullPolygon().Knot(laxgeom.P(0, 0)).Knot(laxgeom.P(1, 3)).
		Knot(laxgeom.P(3, 0)).Cycle()

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"fmt"
	"math"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/schuko/tracing"
)

// L writes to trace with key 'laxgeom.polygon'
func L() tracing.Trace {
	return tracing.Select("laxgeom.polygon")
}

// Polygon is a set of closed contours. Contours may be holes or disjoint
// islands; insideness follows the even-odd rule.
type Polygon struct {
	pg      polyclip.Polygon
	pending polyclip.Contour // contour under construction
}

// NullPolygon creates an empty polygon.
func NullPolygon() *Polygon {
	return &Polygon{}
}

// Knot appends a vertex to the contour under construction.
func (pg *Polygon) Knot(p laxgeom.Pair) *Polygon {
	pg.pending.Add(polyclip.Point{X: p.X(), Y: p.Y()})
	return pg
}

// Cycle closes the contour under construction and adds it to the polygon.
func (pg *Polygon) Cycle() *Polygon {
	if len(pg.pending) < 3 {
		L().Errorf("polygon: contour with %d vertices dropped", len(pg.pending))
	} else {
		pg.pg.Add(pg.pending)
	}
	pg.pending = nil
	return pg
}

// FromPoints creates a polygon with a single contour.
func FromPoints(pts []laxgeom.Pair) *Polygon {
	pg := NullPolygon()
	for _, p := range pts {
		pg.Knot(p)
	}
	return pg.Cycle()
}

// Box creates a rectangle from two opposite corners.
func Box(a, b laxgeom.Pair) *Polygon {
	x0, x1 := math.Min(a.X(), b.X()), math.Max(a.X(), b.X())
	y0, y1 := math.Min(a.Y(), b.Y()), math.Max(a.Y(), b.Y())
	return NullPolygon().Knot(laxgeom.P(x0, y0)).Knot(laxgeom.P(x1, y0)).
		Knot(laxgeom.P(x1, y1)).Knot(laxgeom.P(x0, y1)).Cycle()
}

// N is the total number of vertices.
func (pg *Polygon) N() int {
	return pg.pg.NumVertices()
}

// Contours returns the vertices of each contour.
func (pg *Polygon) Contours() [][]laxgeom.Pair {
	out := make([][]laxgeom.Pair, 0, len(pg.pg))
	for _, c := range pg.pg {
		pts := make([]laxgeom.Pair, len(c))
		for i, p := range c {
			pts[i] = laxgeom.P(p.X, p.Y)
		}
		out = append(out, pts)
	}
	return out
}

// IsEmpty is true for a polygon without contours.
func (pg *Polygon) IsEmpty() bool {
	return len(pg.pg) == 0
}

// BBox returns the bounding box of the polygon.
func (pg *Polygon) BBox() (laxgeom.Pair, laxgeom.Pair) {
	if pg.IsEmpty() {
		return laxgeom.Origin, laxgeom.Origin
	}
	r := pg.pg.BoundingBox()
	return laxgeom.P(r.Min.X, r.Min.Y), laxgeom.P(r.Max.X, r.Max.Y)
}

func (pg *Polygon) construct(op polyclip.Op, other *Polygon) *Polygon {
	switch {
	case other == nil || other.IsEmpty():
		if op == polyclip.INTERSECTION {
			return NullPolygon()
		}
		return &Polygon{pg: pg.pg.Clone()}
	case pg.IsEmpty():
		if op == polyclip.UNION {
			return &Polygon{pg: other.pg.Clone()}
		}
		return NullPolygon()
	}
	return &Polygon{pg: pg.pg.Construct(op, other.pg)}
}

// Union returns the area covered by pg or by any of others.
func (pg *Polygon) Union(others ...*Polygon) *Polygon {
	result := &Polygon{pg: pg.pg.Clone()}
	for _, o := range others {
		result = result.construct(polyclip.UNION, o)
	}
	return result
}

// Intersection returns the area covered by both pg and other.
func (pg *Polygon) Intersection(other *Polygon) *Polygon {
	return pg.construct(polyclip.INTERSECTION, other)
}

// Difference returns the area covered by pg but not by other.
func (pg *Polygon) Difference(other *Polygon) *Polygon {
	return pg.construct(polyclip.DIFFERENCE, other)
}

// Area is the enclosed area under the even-odd rule, assuming contours do
// not intersect each other.
func (pg *Polygon) Area() float64 {
	var area float64
	for i, c := range pg.pg {
		a := math.Abs(shoelace(c))
		if pg.depth(i)%2 == 1 {
			a = -a
		}
		area += a
	}
	return area
}

// depth counts the contours enclosing contour i.
func (pg *Polygon) depth(i int) int {
	c := pg.pg[i]
	if len(c) == 0 {
		return 0
	}
	d := 0
	for j, o := range pg.pg {
		if j != i && o.Contains(c[0]) {
			d++
		}
	}
	return d
}

func shoelace(c polyclip.Contour) float64 {
	var s float64
	for i := range c {
		p, q := c[i], c[(i+1)%len(c)]
		s += p.X*q.Y - q.X*p.Y
	}
	return s / 2
}

// Contains tells if p lies inside the polygon, by the even-odd rule.
func (pg *Polygon) Contains(p laxgeom.Pair) bool {
	pt := polyclip.Point{X: p.X(), Y: p.Y()}
	inside := false
	for _, c := range pg.pg {
		if c.Contains(pt) {
			inside = !inside
		}
	}
	return inside
}

// AsString returns a readable form of a polygon.
func AsString(pg *Polygon) string {
	if pg == nil {
		return "<nil polygon>"
	}
	var b strings.Builder
	for i, c := range pg.Contours() {
		if i > 0 {
			b.WriteString(" & ")
		}
		for _, p := range c {
			fmt.Fprintf(&b, "%s--", p)
		}
		b.WriteString("cycle")
	}
	return b.String()
}
