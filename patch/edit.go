package patch

import (
	"fmt"
	"math"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/laxgeom/bezmat"
)

// grid is a row-major point mesh. Structural edits are written for rows;
// columns are handled by transposing.
type grid struct {
	w, h int
	pts  []laxgeom.Pair
}

func (pd *PatchData) grid() grid {
	return grid{w: pd.xsize, h: pd.ysize, pts: pd.Points()}
}

func (pd *PatchData) install(g grid) {
	pd.swap(g.w, g.h, g.pts)
}

func (g grid) at(r, c int) laxgeom.Pair {
	return g.pts[r*g.w+c]
}

func (g grid) transpose() grid {
	t := grid{w: g.h, h: g.w, pts: make([]laxgeom.Pair, len(g.pts))}
	for r := 0; r < g.h; r++ {
		for c := 0; c < g.w; c++ {
			t.pts[c*t.w+r] = g.at(r, c)
		}
	}
	return t
}

// flip reverses the order of the rows.
func (g grid) flip() grid {
	f := grid{w: g.w, h: g.h, pts: make([]laxgeom.Pair, len(g.pts))}
	for r := 0; r < g.h; r++ {
		copy(f.pts[r*g.w:(r+1)*g.w], g.pts[(g.h-1-r)*g.w:(g.h-r)*g.w])
	}
	return f
}

// column returns the cubic of subpatch row r along point column c.
func (g grid) column(r, c int) bezmat.Cubic {
	return bezmat.Cubic{g.at(3*r, c), g.at(3*r+1, c), g.at(3*r+2, c), g.at(3*r+3, c)}
}

// rowsOf copies point rows from…to-1.
func (g grid) rowsOf(from, to int) []laxgeom.Pair {
	return append([]laxgeom.Pair(nil), g.pts[from*g.w:to*g.w]...)
}

// replaceRows substitutes point rows from…to (inclusive) by ins, given
// row by row.
func (g grid) replaceRows(from, to int, ins [][]laxgeom.Pair) grid {
	pts := g.rowsOf(0, from)
	for _, row := range ins {
		pts = append(pts, row...)
	}
	pts = append(pts, g.rowsOf(to+1, g.h)...)
	return grid{w: g.w, h: len(pts) / g.w, pts: pts}
}

// splitRow cuts subpatch row r at t into two subpatch rows.
func (g grid) splitRow(r int, t float64) grid {
	ins := make([][]laxgeom.Pair, 7)
	for i := range ins {
		ins[i] = make([]laxgeom.Pair, g.w)
	}
	for c := 0; c < g.w; c++ {
		left, right := g.column(r, c).Split(t)
		for i := 0; i < 4; i++ {
			ins[i][c] = left[i]
		}
		for i := 1; i < 4; i++ {
			ins[3+i][c] = right[i]
		}
	}
	return g.replaceRows(3*r, 3*r+3, ins)
}

// divideRows cuts every subpatch row into n equal parts.
func (g grid) divideRows(n int) grid {
	rows := g.h / 3
	out := grid{w: g.w, h: 3*rows*n + 1}
	out.pts = make([]laxgeom.Pair, out.w*out.h)
	for r := 0; r < rows; r++ {
		for c := 0; c < g.w; c++ {
			col := g.column(r, c)
			for k := 0; k < n; k++ {
				piece := col.Reparametrize(float64(n), float64(k)/float64(n))
				base := 3 * (r*n + k)
				for i := 0; i < 4; i++ {
					out.pts[(base+i)*out.w+c] = piece[i]
				}
			}
		}
	}
	return out
}

// Subdivide cuts subpatch row `row` at rowT and subpatch column `col` at
// colT, both in (0,1). A negative index leaves that direction alone. The
// surface is unchanged; only the control mesh is refined.
func (pd *PatchData) Subdivide(row int, rowT float64, col int, colT float64) error {
	if row >= pd.Rows() || col >= pd.Cols() {
		return fmt.Errorf("%w: subdivide at subpatch (%d,%d)", ErrIndexOutOfRange, row, col)
	}
	if row >= 0 && (rowT <= 0 || rowT >= 1) || col >= 0 && (colT <= 0 || colT >= 1) {
		return fmt.Errorf("%w: split positions (%g,%g) outside (0,1)", ErrBadParameter, rowT, colT)
	}
	g := pd.grid()
	if row >= 0 {
		g = g.splitRow(row, rowT)
	}
	if col >= 0 {
		g = g.transpose().splitRow(col, colT).transpose()
	}
	pd.install(g)
	tracer().Debugf("patch: subdivided, now %v", pd)
	return nil
}

// SubdivideUniform cuts every subpatch into xn parts along s and yn parts
// along t.
func (pd *PatchData) SubdivideUniform(xn, yn int) error {
	if xn < 1 || yn < 1 {
		return fmt.Errorf("%w: subdivide into %d×%d", ErrBadParameter, xn, yn)
	}
	g := pd.grid()
	if yn > 1 {
		g = g.divideRows(yn)
	}
	if xn > 1 {
		g = g.transpose().divideRows(xn).transpose()
	}
	pd.install(g)
	return nil
}

// --- Growing ---------------------------------------------------------------

// Direction selects a border of the mesh.
type Direction int8

// Borders of a mesh. Top is point row 0, Left is point column 0.
const (
	Top Direction = iota
	Bottom
	Left
	Right
)

var directionNames = [...]string{"top", "bottom", "left", "right"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "direction?"
	}
	return directionNames[d]
}

// growBottom appends a subpatch row beyond the last point row. The new
// border is the old one mapped by at.
func (g grid) growBottom(at laxgeom.AT, smooth bool) grid {
	e0 := g.h - 1
	ins := make([][]laxgeom.Pair, 3)
	for i := range ins {
		ins[i] = make([]laxgeom.Pair, g.w)
	}
	for c := 0; c < g.w; c++ {
		p0, p1, p3 := g.at(e0, c), g.at(e0-1, c), g.at(e0-3, c)
		n3 := at.Transform(p0)
		var n1, n2 laxgeom.Pair
		span := p3.Distance(p0)
		if !smooth || span < laxgeom.ZeroLength {
			n1, n2 = laxgeom.LerpP(p0, n3, 1.0/3), laxgeom.LerpP(p0, n3, 2.0/3)
		} else {
			ratio := n3.Distance(p0) / span
			n1 = p0 + (p0 - p1).Scaled(ratio)
			n2 = n3 + at.TransformVector(p1-p0).Scaled(ratio)
		}
		ins[0][c], ins[1][c], ins[2][c] = n1, n2, n3
	}
	pts := append(g.rowsOf(0, g.h), ins[0]...)
	pts = append(pts, ins[1]...)
	pts = append(pts, ins[2]...)
	return grid{w: g.w, h: g.h + 3, pts: pts}
}

// Grow adds a row or column of subpatches at border dir. The new outer
// border is the current border transformed by at. With smooth set the
// inner handles continue the tangents across the old border; otherwise
// the new subpatches are linear across.
func (pd *PatchData) Grow(dir Direction, at laxgeom.AT, smooth bool) error {
	g := pd.grid()
	switch dir {
	case Bottom:
		g = g.growBottom(at, smooth)
	case Top:
		g = g.flip().growBottom(at, smooth).flip()
	case Right:
		g = g.transpose().growBottom(at, smooth).transpose()
	case Left:
		g = g.transpose().flip().growBottom(at, smooth).flip().transpose()
	default:
		return fmt.Errorf("%w: grow direction %d", ErrBadParameter, dir)
	}
	pd.install(g)
	tracer().Debugf("patch: grown at %s, now %v", dir, pd)
	return nil
}

// --- Collapsing ------------------------------------------------------------

// collapseRow removes subpatch row r. Removing an interior row joins its
// neighbours in a seam averaging their extrapolated borders.
func (g grid) collapseRow(r int) grid {
	rows := g.h / 3
	switch {
	case r == 0:
		return g.replaceRows(0, 2, nil)
	case r == rows-1:
		return g.replaceRows(g.h-3, g.h-1, nil)
	}
	seam := make([]laxgeom.Pair, g.w)
	for c := 0; c < g.w; c++ {
		above := g.at(3*r-1, c).Scaled(2) - g.at(3*r-2, c)
		below := g.at(3*r+4, c).Scaled(2) - g.at(3*r+5, c)
		seam[c] = laxgeom.LerpP(above, below, 0.5)
	}
	return g.replaceRows(3*r, 3*r+3, [][]laxgeom.Pair{seam})
}

// Collapse removes subpatch row `row` and subpatch column `col`. A negative
// index leaves that direction alone. A mesh never shrinks below one
// subpatch in either direction.
func (pd *PatchData) Collapse(row, col int) error {
	if row >= pd.Rows() || col >= pd.Cols() {
		return fmt.Errorf("%w: collapse subpatch (%d,%d)", ErrIndexOutOfRange, row, col)
	}
	if row >= 0 && pd.ysize <= 4 || col >= 0 && pd.xsize <= 4 {
		return fmt.Errorf("%w: cannot collapse %v", ErrTooSmall, pd)
	}
	g := pd.grid()
	if row >= 0 {
		g = g.collapseRow(row)
	}
	if col >= 0 {
		g = g.transpose().collapseRow(col).transpose()
	}
	pd.install(g)
	return nil
}

// --- Warping ---------------------------------------------------------------

// WarpPatch bends the mesh into an elliptic annulus sector around center.
// Columns sweep the angle from start to end; rows run from the inner
// ellipse to the outer one with radii radiusA (x) and radiusB (y). The
// inner ellipse has x radius innerRadius and the outer ellipse's aspect.
// Arcs are approximated by cubics using the circle handle length. An extra
// transform, if present, is applied afterwards.
func (pd *PatchData) WarpPatch(center laxgeom.Pair, radiusA, radiusB, innerRadius,
	start, end float64, extra laxgeom.AT) error {
	if radiusA <= 0 || radiusB <= 0 || innerRadius < 0 || innerRadius > radiusA {
		return fmt.Errorf("%w: radii %g, %g, inner %g", ErrBadParameter, radiusA, radiusB, innerRadius)
	}
	if math.Abs(end-start) < laxgeom.Epsilon {
		return fmt.Errorf("%w: empty sweep %g…%g", ErrBadParameter, start, end)
	}
	cols := pd.Cols()
	theta := (end - start) / float64(cols)
	k := bezmat.ArcHandle(1, theta)
	innerB := innerRadius * radiusB / radiusA
	for r := 0; r < pd.ysize; r++ {
		f := float64(r) / float64(pd.ysize-1)
		rx := laxgeom.Lerp(innerRadius, radiusA, f)
		ry := laxgeom.Lerp(innerB, radiusB, f)
		on := func(a float64) (laxgeom.Pair, laxgeom.Pair) {
			p := center + laxgeom.P(rx*math.Cos(a), ry*math.Sin(a))
			d := laxgeom.P(-rx*math.Sin(a), ry*math.Cos(a)).Scaled(k)
			return p, d
		}
		for c := 0; c < cols; c++ {
			a0 := start + float64(c)*theta
			p0, d0 := on(a0)
			p3, d3 := on(a0 + theta)
			base := r*pd.xsize + 3*c
			pd.points[base] = p0
			pd.points[base+1] = p0 + d0
			pd.points[base+2] = p3 - d3
			pd.points[base+3] = p3
		}
	}
	if extra != nil {
		for i, p := range pd.points {
			pd.points[i] = extra.Transform(p)
		}
	}
	pd.NeedToUpdateCache(0, cols-1, 0, pd.Rows()-1)
	return nil
}
