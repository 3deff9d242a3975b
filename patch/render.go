package patch

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/npillmayer/laxgeom"
)

// ErrNoColorSource is returned when rendering without a color source.
var ErrNoColorSource = errors.New("renderer has no color source")

// ColorSource supplies the color of a mesh at normalized parameters
// (s,t) ∈ [0,1]². Returning false means transparent: nothing is painted.
type ColorSource interface {
	WhatColor(s, t float64) (color.Color, bool)
}

// maxDepth bounds the recursion for meshes with degenerate corners.
const maxDepth = 24

// Renderer paints a mesh into a raster image, corner point by corner point.
// A parameter quad is split at its midpoints until the images of its edges
// span less than Threshold pixels in x and in y. The colors of the quad
// corners are painted as single pixels; quad interiors are not filled.
type Renderer struct {
	Patch     *PatchData
	Colors    ColorSource
	Transform laxgeom.AT // mesh to pixel coordinates; nil is identity
	Threshold float64    // pixels; zero uses the mesh's PixelThreshold
	// SkipOffBuffer drops points outside the image, and parts of the mesh
	// lying wholly outside are not subdivided. Otherwise points are clamped
	// to the nearest edge pixel.
	SkipOffBuffer bool

	dst       draw.Image
	bounds    image.Rectangle
	threshold float64
	cols      float64
	rows      float64
	row, col  int // subpatch being rendered
	evaluated int // mesh points evaluated by the last Render
}

// quad corner bits, counter-clockwise from (s0,t0)
const (
	corner00 uint8 = 1 << iota
	corner10
	corner11
	corner01
	allCorners = corner00 | corner10 | corner11 | corner01
)

// Render paints every subpatch of the mesh into dst.
func (r *Renderer) Render(dst draw.Image) error {
	if r.Colors == nil {
		return ErrNoColorSource
	}
	pd := r.Patch
	if pd == nil || dst.Bounds().Empty() {
		return nil
	}
	pd.UpdateCache()
	r.dst, r.bounds = dst, dst.Bounds()
	r.threshold = r.Threshold
	if r.threshold <= 0 {
		r.threshold = pd.Settings().PixelThreshold
	}
	r.cols, r.rows = float64(pd.Cols()), float64(pd.Rows())
	r.evaluated = 0
	tracer().Debugf("patch: rendering %v into %v", pd, r.bounds)
	for row := 0; row < pd.Rows(); row++ {
		for col := 0; col < pd.Cols(); col++ {
			r.row, r.col = row, col
			s0, t0 := float64(col), float64(row)
			if r.offBuffer(s0, t0, s0+1, t0+1) {
				continue
			}
			s1, t1 := s0+1, t0+1
			pts := [4]laxgeom.Pair{r.at(s0, t0), r.at(s1, t0), r.at(s1, t1), r.at(s0, t1)}
			r.rpatchpoint(s0, t0, s1, t1, pts, allCorners, 0)
		}
	}
	tracer().Debugf("patch: %d mesh points evaluated", r.evaluated)
	r.dst = nil
	return nil
}

// at maps a parameter pair to pixel coordinates.
func (r *Renderer) at(s, t float64) laxgeom.Pair {
	r.evaluated++
	p := r.Patch.GetPoint(s, t)
	if r.Transform != nil {
		p = r.Transform.Transform(p)
	}
	return p
}

// rpatchpoint paints the corners of the parameter quad (s0,t0)–(s1,t1)
// flagged in which, then recurses into its four quarters. pts holds the
// pixel positions of the corners in corner-bit order.
func (r *Renderer) rpatchpoint(s0, t0, s1, t1 float64, pts [4]laxgeom.Pair, which uint8, depth int) {
	params := [4][2]float64{{s0, t0}, {s1, t0}, {s1, t1}, {s0, t1}}
	for i := 0; i < 4; i++ {
		if which&(1<<i) != 0 {
			r.paint(pts[i], params[i][0], params[i][1])
		}
	}
	if depth >= maxDepth || r.small(pts) {
		return
	}
	sm, tm := (s0+s1)/2, (t0+t1)/2
	if r.offBuffer(s0, t0, s1, t1) {
		return
	}
	top, right := r.at(sm, t0), r.at(s1, tm)
	bottom, left := r.at(sm, t1), r.at(s0, tm)
	mid := r.at(sm, tm)
	// every new point is painted by exactly one quarter
	r.rpatchpoint(s0, t0, sm, tm, [4]laxgeom.Pair{pts[0], top, mid, left}, corner10|corner11|corner01, depth+1)
	r.rpatchpoint(sm, t0, s1, tm, [4]laxgeom.Pair{top, pts[1], right, mid}, corner11, depth+1)
	r.rpatchpoint(sm, tm, s1, t1, [4]laxgeom.Pair{mid, right, pts[2], bottom}, corner01, depth+1)
	r.rpatchpoint(s0, tm, sm, t1, [4]laxgeom.Pair{left, mid, bottom, pts[3]}, 0, depth+1)
}

// offBuffer reports whether, with SkipOffBuffer set, the parameter quad of
// the current subpatch maps to no pixel of the image.
func (r *Renderer) offBuffer(s0, t0, s1, t1 float64) bool {
	if !r.SkipOffBuffer {
		return false
	}
	c, w := float64(r.col), float64(r.row)
	lo, hi := r.Patch.hull(r.row, r.col, s0-c, s1-c, t0-w, t1-w, r.Transform)
	b := r.bounds
	return hi.X() < float64(b.Min.X)-0.5 || lo.X() >= float64(b.Max.X)-0.5 ||
		hi.Y() < float64(b.Min.Y)-0.5 || lo.Y() >= float64(b.Max.Y)-0.5
}

// small reports whether all quad edges are below threshold in x and y.
func (r *Renderer) small(pts [4]laxgeom.Pair) bool {
	for i := 0; i < 4; i++ {
		d := pts[(i+1)%4] - pts[i]
		if math.Abs(d.X()) >= r.threshold || math.Abs(d.Y()) >= r.threshold {
			return false
		}
	}
	return true
}

func (r *Renderer) paint(p laxgeom.Pair, s, t float64) {
	if p.IsNaN() {
		return
	}
	x, y := int(math.Round(p.X())), int(math.Round(p.Y()))
	b := r.bounds
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		if r.SkipOffBuffer {
			return
		}
		x = min(max(x, b.Min.X), b.Max.X-1)
		y = min(max(y, b.Min.Y), b.Max.Y-1)
	}
	c, ok := r.Colors.WhatColor(s/r.cols, t/r.rows)
	if !ok {
		return
	}
	r.dst.Set(x, y, c)
}
