/*
Package patch implements meshes of tensor product bezier patches.

A PatchData holds a grid of xsize × ysize control points, with
xsize = 3·cols+1 and ysize = 3·rows+1. Every 4×4 block of points starting at
a multiple of 3 is one subpatch; neighbouring subpatches share their edge
points. Patch parameters (s,t) run over [0,cols]×[0,rows] ("by size"), the
integer parts selecting the subpatch.

For fast evaluation every subpatch caches the coefficient matrices

	Cx = B·Gx·B,   Cy = B·Gy·B

of its control point coordinates Gx, Gy. Edits mark a rectangle of
subpatches dirty; dirty rectangles accumulate and are rebuilt once, lazily,
on the next evaluation.

Structural edits (subdivision, growing, collapsing, warping) build a new
point grid and swap it in. Invalid requests leave the mesh unchanged and
report an error.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package patch

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/laxgeom/bezmat"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'laxgeom.patch'
func tracer() tracing.Trace {
	return tracing.Select("laxgeom.patch")
}

var (
	// ErrIndexOutOfRange indicates a point or subpatch index not in the mesh.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrTooSmall indicates a mesh which is too small for an operation.
	ErrTooSmall = errors.New("mesh too small")
	// ErrBadParameter indicates a split position or count which is not usable.
	ErrBadParameter = errors.New("bad parameter")
	// ErrInvalidDump indicates a dump document which does not describe a mesh.
	ErrInvalidDump = errors.New("invalid patch dump")
)

// renderContext caches the coefficient matrices of a subpatch.
type renderContext struct {
	Cx, Cy bezmat.M4
}

// dirtyRect is a rectangle of subpatches, inclusive.
type dirtyRect struct {
	minCol, maxCol int
	minRow, maxRow int
	set            bool
}

func (d *dirtyRect) union(minCol, maxCol, minRow, maxRow int) {
	if !d.set {
		*d = dirtyRect{minCol, maxCol, minRow, maxRow, true}
		return
	}
	d.minCol, d.maxCol = min(d.minCol, minCol), max(d.maxCol, maxCol)
	d.minRow, d.maxRow = min(d.minRow, minRow), max(d.maxRow, maxRow)
}

// PatchData is a mesh of cubic tensor product patches.
type PatchData struct {
	xsize, ysize int
	points       []laxgeom.Pair // row-major, index r·xsize+c
	cache        []renderContext
	dirty        dirtyRect
	settings     laxgeom.Settings
}

// New creates a mesh of rows × cols subpatches covering the rectangle at
// (x,y) of size w × h.
func New(x, y, w, h float64, rows, cols int) *PatchData {
	pd := &PatchData{settings: laxgeom.DefaultSettings()}
	if err := pd.Set(x, y, w, h, rows, cols); err != nil {
		tracer().Errorf("patch: %v, creating a single patch", err)
		_ = pd.Set(x, y, w, h, 1, 1)
	}
	return pd
}

// Set replaces the mesh by rows × cols flat subpatches covering the
// rectangle at (x,y) of size w × h. Control points are evenly spaced.
func (pd *PatchData) Set(x, y, w, h float64, rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%w: %d×%d subpatches", ErrTooSmall, rows, cols)
	}
	xs, ys := 3*cols+1, 3*rows+1
	pts := make([]laxgeom.Pair, xs*ys)
	for r := 0; r < ys; r++ {
		for c := 0; c < xs; c++ {
			pts[r*xs+c] = laxgeom.P(x+w*float64(c)/float64(xs-1), y+h*float64(r)/float64(ys-1))
		}
	}
	pd.swap(xs, ys, pts)
	return nil
}

// swap installs a new point grid and invalidates the whole cache.
func (pd *PatchData) swap(xsize, ysize int, pts []laxgeom.Pair) {
	pd.xsize, pd.ysize, pd.points = xsize, ysize, pts
	pd.cache = make([]renderContext, pd.Rows()*pd.Cols())
	pd.dirty = dirtyRect{}
	pd.NeedToUpdateCache(0, pd.Cols()-1, 0, pd.Rows()-1)
}

// Settings returns the tuning parameters of the mesh.
func (pd *PatchData) Settings() laxgeom.Settings {
	return pd.settings
}

// SetSettings replaces the tuning parameters of the mesh.
func (pd *PatchData) SetSettings(s laxgeom.Settings) {
	pd.settings = s.Sanitized()
}

// XSize is the number of point columns.
func (pd *PatchData) XSize() int { return pd.xsize }

// YSize is the number of point rows.
func (pd *PatchData) YSize() int { return pd.ysize }

// Rows is the number of subpatch rows.
func (pd *PatchData) Rows() int { return pd.ysize / 3 }

// Cols is the number of subpatch columns.
func (pd *PatchData) Cols() int { return pd.xsize / 3 }

// Point returns the control point at point row r, point column c.
func (pd *PatchData) Point(r, c int) laxgeom.Pair {
	if r < 0 || r >= pd.ysize || c < 0 || c >= pd.xsize {
		tracer().Errorf("patch: point (%d,%d) out of range", r, c)
		return laxgeom.Origin
	}
	return pd.points[r*pd.xsize+c]
}

// Points returns a copy of all control points, row-major.
func (pd *PatchData) Points() []laxgeom.Pair {
	return append([]laxgeom.Pair(nil), pd.points...)
}

// SetPoint moves the control point at point row r, point column c, and
// marks the subpatches sharing it as dirty.
func (pd *PatchData) SetPoint(r, c int, p laxgeom.Pair) error {
	if r < 0 || r >= pd.ysize || c < 0 || c >= pd.xsize {
		return fmt.Errorf("%w: point (%d,%d)", ErrIndexOutOfRange, r, c)
	}
	pd.points[r*pd.xsize+c] = p
	r0, r1 := touching(r, pd.Rows())
	c0, c1 := touching(c, pd.Cols())
	pd.NeedToUpdateCache(c0, c1, r0, r1)
	return nil
}

// touching returns the range of subpatches using point index i.
func touching(i, n int) (int, int) {
	lo, hi := i/3, i/3
	if i%3 == 0 {
		lo--
	}
	return max(lo, 0), min(hi, n-1)
}

// NeedToUpdateCache marks the subpatches minCol…maxCol × minRow…maxRow as
// dirty, in addition to the ones already marked.
func (pd *PatchData) NeedToUpdateCache(minCol, maxCol, minRow, maxRow int) {
	if minCol > maxCol {
		minCol, maxCol = maxCol, minCol
	}
	if minRow > maxRow {
		minRow, maxRow = maxRow, minRow
	}
	minCol, maxCol = max(minCol, 0), min(maxCol, pd.Cols()-1)
	minRow, maxRow = max(minRow, 0), min(maxRow, pd.Rows()-1)
	if minCol > maxCol || minRow > maxRow {
		return
	}
	pd.dirty.union(minCol, maxCol, minRow, maxRow)
}

// DirtyRect returns the rectangle of subpatches waiting for a cache update.
func (pd *PatchData) DirtyRect() (minCol, maxCol, minRow, maxRow int, ok bool) {
	d := pd.dirty
	return d.minCol, d.maxCol, d.minRow, d.maxRow, d.set
}

// UpdateCache recomputes the coefficient matrices of all dirty subpatches.
func (pd *PatchData) UpdateCache() {
	if !pd.dirty.set {
		return
	}
	d := pd.dirty
	tracer().Debugf("patch: updating cache for cols %d…%d, rows %d…%d", d.minCol, d.maxCol, d.minRow, d.maxRow)
	for r := d.minRow; r <= d.maxRow; r++ {
		for c := d.minCol; c <= d.maxCol; c++ {
			pd.cache[r*pd.Cols()+c] = pd.computeContext(r, c)
		}
	}
	pd.dirty = dirtyRect{}
}

// controls returns the control point coordinates of subpatch (row, col),
// indexed [row][col].
func (pd *PatchData) controls(row, col int) (gx, gy bezmat.M4) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			p := pd.points[(3*row+i)*pd.xsize+3*col+j]
			gx.Set(i, j, p.X())
			gy.Set(i, j, p.Y())
		}
	}
	return gx, gy
}

func (pd *PatchData) computeContext(row, col int) renderContext {
	gx, gy := pd.controls(row, col)
	return renderContext{Cx: bezmat.Coefficients(gx), Cy: bezmat.Coefficients(gy)}
}

// hull returns the bounding box of the control points of subpatch (row, col)
// restricted to [u0,u1]×[v0,v1] and mapped by at. The surface piece lies
// inside it.
func (pd *PatchData) hull(row, col int, u0, u1, v0, v1 float64, at laxgeom.AT) (laxgeom.Pair, laxgeom.Pair) {
	gx, gy := pd.controls(row, col)
	ms := bezmat.Transpose(bezmat.SubMatrix(1/(u1-u0), u0))
	mt := bezmat.SubMatrix(1/(v1-v0), v0)
	gx = bezmat.MTimesM(bezmat.MTimesM(mt, gx), ms)
	gy = bezmat.MTimesM(bezmat.MTimesM(mt, gy), ms)
	xmin, ymin := math.Inf(1), math.Inf(1)
	xmax, ymax := math.Inf(-1), math.Inf(-1)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			p := laxgeom.P(gx.At(i, j), gy.At(i, j))
			if at != nil {
				p = at.Transform(p)
			}
			xmin, xmax = math.Min(xmin, p.X()), math.Max(xmax, p.X())
			ymin, ymax = math.Min(ymin, p.Y()), math.Max(ymax, p.Y())
		}
	}
	return laxgeom.P(xmin, ymin), laxgeom.P(xmax, ymax)
}

// Context returns the coefficient matrices of subpatch (row, col).
func (pd *PatchData) Context(row, col int) (cx, cy bezmat.M4, err error) {
	if row < 0 || row >= pd.Rows() || col < 0 || col >= pd.Cols() {
		return cx, cy, fmt.Errorf("%w: subpatch (%d,%d)", ErrIndexOutOfRange, row, col)
	}
	pd.UpdateCache()
	rc := pd.cache[row*pd.Cols()+col]
	return rc.Cx, rc.Cy, nil
}

// locate splits a by-size parameter into subpatch index and local parameter.
func locate(v float64, n int) (int, float64) {
	v = laxgeom.Clamp(v, 0, float64(n))
	i := int(math.Floor(v))
	if i >= n {
		i = n - 1
	}
	return i, v - float64(i)
}

// GetPoint evaluates the mesh at (s,t) ∈ [0,cols]×[0,rows].
func (pd *PatchData) GetPoint(s, t float64) laxgeom.Pair {
	pd.UpdateCache()
	col, u := locate(s, pd.Cols())
	row, v := locate(t, pd.Rows())
	rc := &pd.cache[row*pd.Cols()+col]
	return laxgeom.P(bezmat.Eval(rc.Cx, u, v), bezmat.Eval(rc.Cy, u, v))
}

// GetPointNormalized evaluates the mesh at (s,t) ∈ [0,1]².
func (pd *PatchData) GetPointNormalized(s, t float64) laxgeom.Pair {
	return pd.GetPoint(s*float64(pd.Cols()), t*float64(pd.Rows()))
}

// Transform applies an affine transform to every control point.
func (pd *PatchData) Transform(at laxgeom.AT) {
	for i, p := range pd.points {
		pd.points[i] = at.Transform(p)
	}
	pd.NeedToUpdateCache(0, pd.Cols()-1, 0, pd.Rows()-1)
}

// BBox returns the bounding box of the control points, which contains the
// whole mesh.
func (pd *PatchData) BBox() (laxgeom.Pair, laxgeom.Pair) {
	xmin, ymin := math.Inf(1), math.Inf(1)
	xmax, ymax := math.Inf(-1), math.Inf(-1)
	for _, p := range pd.points {
		xmin, xmax = math.Min(xmin, p.X()), math.Max(xmax, p.X())
		ymin, ymax = math.Min(ymin, p.Y()), math.Max(ymax, p.Y())
	}
	return laxgeom.P(xmin, ymin), laxgeom.P(xmax, ymax)
}

func (pd *PatchData) String() string {
	return fmt.Sprintf("patch(%d×%d subpatches, %d×%d points)", pd.Rows(), pd.Cols(), pd.ysize, pd.xsize)
}
