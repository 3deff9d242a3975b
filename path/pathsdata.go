package path

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/laxgeom/polygon"
	"golang.org/x/image/vector"
)

// PathsData is a collection of paths drawn together. Paths added without a
// line style of their own share the collection's style.
type PathsData struct {
	paths []*Path
	style *LineStyle
}

// NewPathsData creates an empty collection. A nil style is replaced by
// DefaultLineStyle.
func NewPathsData(style *LineStyle) *PathsData {
	if style == nil {
		style = DefaultLineStyle()
	}
	return &PathsData{style: style}
}

// Style returns the shared line style.
func (pd *PathsData) Style() *LineStyle {
	return pd.style
}

// NewPath creates an empty path using the shared style and adds it.
func (pd *PathsData) NewPath() *Path {
	p := New(pd.style)
	pd.paths = append(pd.paths, p)
	return p
}

// Add appends a path and returns its index. A path created without a line
// style of its own switches to the collection's style.
func (pd *PathsData) Add(p *Path) int {
	if p.defaultStyle {
		p.style, p.defaultStyle = pd.style, false
		p.touch()
	}
	pd.paths = append(pd.paths, p)
	return len(pd.paths) - 1
}

// Remove deletes path i from the collection.
func (pd *PathsData) Remove(i int) error {
	if i < 0 || i >= len(pd.paths) {
		return fmt.Errorf("%w: path %d", ErrIndexOutOfRange, i)
	}
	pd.paths = append(pd.paths[:i], pd.paths[i+1:]...)
	return nil
}

// Len is the number of paths.
func (pd *PathsData) Len() int {
	return len(pd.paths)
}

// Path returns path i, or nil.
func (pd *PathsData) Path(i int) *Path {
	if i < 0 || i >= len(pd.paths) {
		return nil
	}
	return pd.paths[i]
}

// UpdateCaches rebuilds the caches of all dirty paths.
func (pd *PathsData) UpdateCaches() {
	for _, p := range pd.paths {
		p.UpdateCache()
	}
}

// BBox returns the bounding box of the stroke outlines of all paths.
func (pd *PathsData) BBox() (min, max laxgeom.Pair, ok bool) {
	xmin, ymin := math.Inf(1), math.Inf(1)
	xmax, ymax := math.Inf(-1), math.Inf(-1)
	for _, p := range pd.paths {
		for _, c := range p.Outline() {
			for _, pt := range c.Points {
				xmin, xmax = math.Min(xmin, pt.P.X()), math.Max(xmax, pt.P.X())
				ymin, ymax = math.Min(ymin, pt.P.Y()), math.Max(ymax, pt.P.Y())
				ok = true
			}
		}
	}
	if !ok {
		return laxgeom.Origin, laxgeom.Origin, false
	}
	return laxgeom.P(xmin, ymin), laxgeom.P(xmax, ymax), true
}

// OutlinePolygon flattens the stroke outlines of all paths to within tol and
// merges them into a single polygon.
func (pd *PathsData) OutlinePolygon(tol float64) *polygon.Polygon {
	result := polygon.NullPolygon()
	for _, p := range pd.paths {
		result = result.Union(p.OutlinePolygon(tol))
	}
	return result
}

// OutlinePolygon flattens the stroke outline to within tol. The inner
// contour of a closed path becomes a hole.
func (path *Path) OutlinePolygon(tol float64) *polygon.Polygon {
	outline := path.Outline()
	if len(outline) == 0 {
		return polygon.NullPolygon()
	}
	pg := polygon.FromPoints(outline[0].Flatten(tol))
	if len(outline) > 1 {
		inner := polygon.FromPoints(outline[1].Flatten(tol))
		if inner.Area() > pg.Area() {
			pg, inner = inner, pg
		}
		pg = pg.Difference(inner)
	}
	return pg
}

// Rasterize fills the stroke outlines of all paths into dst, painting with
// src. Outline coordinates are mapped to pixel coordinates by at. Overlaps
// are filled by the nonzero winding rule.
func (pd *PathsData) Rasterize(dst draw.Image, at laxgeom.AT, src image.Image) {
	b := dst.Bounds()
	if b.Empty() {
		return
	}
	z := vector.NewRasterizer(b.Max.X, b.Max.Y)
	for _, p := range pd.paths {
		for _, c := range p.Outline() {
			addContour(z, c, at)
		}
	}
	z.Draw(dst, b, src, image.Point{})
}

// Rasterize fills the stroke outline of a single path into dst.
func (path *Path) Rasterize(dst draw.Image, at laxgeom.AT, src image.Image) {
	b := dst.Bounds()
	if b.Empty() {
		return
	}
	z := vector.NewRasterizer(b.Max.X, b.Max.Y)
	for _, c := range path.Outline() {
		addContour(z, c, at)
	}
	z.Draw(dst, b, src, image.Point{})
}

func addContour(z *vector.Rasterizer, c Contour, at laxgeom.AT) {
	segs := c.segments()
	if len(segs) == 0 {
		return
	}
	f := func(p laxgeom.Pair) (float32, float32) {
		q := at.Transform(p)
		return float32(q.X()), float32(q.Y())
	}
	x, y := f(segs[0].bez[0])
	z.MoveTo(x, y)
	for _, s := range segs {
		x3, y3 := f(s.bez[3])
		if s.line {
			z.LineTo(x3, y3)
			continue
		}
		x1, y1 := f(s.bez[1])
		x2, y2 := f(s.bez[2])
		z.CubeTo(x1, y1, x2, y2, x3, y3)
	}
	z.ClosePath()
}
