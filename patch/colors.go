package patch

import (
	"image"
	"image/color"
	"math"

	"github.com/npillmayer/laxgeom"
)

// ColorGrid colors a gradient mesh. It holds one color per subpatch corner,
// (Rows+1) × (Cols+1) row-major, and blends bilinearly in between.
type ColorGrid struct {
	Rows, Cols int
	Colors     []color.Color
}

// NewColorGrid creates a grid for a mesh of rows × cols subpatches, filled
// with fill.
func NewColorGrid(rows, cols int, fill color.Color) *ColorGrid {
	cg := &ColorGrid{Rows: rows, Cols: cols, Colors: make([]color.Color, (rows+1)*(cols+1))}
	for i := range cg.Colors {
		cg.Colors[i] = fill
	}
	return cg
}

// ForPatch creates a color grid matching the subpatches of pd.
func ForPatch(pd *PatchData, fill color.Color) *ColorGrid {
	return NewColorGrid(pd.Rows(), pd.Cols(), fill)
}

// Set assigns the color at subpatch corner (r, c).
func (cg *ColorGrid) Set(r, c int, col color.Color) {
	if r < 0 || r > cg.Rows || c < 0 || c > cg.Cols {
		tracer().Errorf("patch: color (%d,%d) out of range", r, c)
		return
	}
	cg.Colors[r*(cg.Cols+1)+c] = col
}

// At returns the color at subpatch corner (r, c).
func (cg *ColorGrid) At(r, c int) color.Color {
	return cg.Colors[r*(cg.Cols+1)+c]
}

// WhatColor blends the four corner colors around (s,t). A corner without
// a color makes the whole cell transparent.
func (cg *ColorGrid) WhatColor(s, t float64) (color.Color, bool) {
	if cg.Rows < 1 || cg.Cols < 1 || len(cg.Colors) != (cg.Rows+1)*(cg.Cols+1) {
		return nil, false
	}
	c, u := locate(s*float64(cg.Cols), cg.Cols)
	r, v := locate(t*float64(cg.Rows), cg.Rows)
	corners := [4]color.Color{cg.At(r, c), cg.At(r, c+1), cg.At(r+1, c), cg.At(r+1, c+1)}
	weights := [4]float64{(1 - u) * (1 - v), u * (1 - v), (1 - u) * v, u * v}
	var acc [4]float64
	for i, col := range corners {
		if col == nil {
			return nil, false
		}
		cr, cgr, cb, ca := col.RGBA()
		acc[0] += weights[i] * float64(cr)
		acc[1] += weights[i] * float64(cgr)
		acc[2] += weights[i] * float64(cb)
		acc[3] += weights[i] * float64(ca)
	}
	if acc[3] < 0.5 {
		return nil, false
	}
	return color.RGBA64{R: channel(acc[0]), G: channel(acc[1]), B: channel(acc[2]), A: channel(acc[3])}, true
}

func channel(v float64) uint16 {
	return uint16(laxgeom.Clamp(math.Round(v), 0, 0xffff))
}

// ImageColors colors an image-warp mesh: parameter space is mapped onto
// the image's bounds.
type ImageColors struct {
	Image image.Image
}

// WhatColor samples the nearest image pixel. Fully transparent pixels are
// skipped.
func (ic ImageColors) WhatColor(s, t float64) (color.Color, bool) {
	if ic.Image == nil {
		return nil, false
	}
	b := ic.Image.Bounds()
	if b.Empty() {
		return nil, false
	}
	x := b.Min.X + int(math.Floor(laxgeom.Clamp(s, 0, 1)*float64(b.Dx())))
	y := b.Min.Y + int(math.Floor(laxgeom.Clamp(t, 0, 1)*float64(b.Dy())))
	x, y = min(x, b.Max.X-1), min(y, b.Max.Y-1)
	col := ic.Image.At(x, y)
	if _, _, _, a := col.RGBA(); a == 0 {
		return nil, false
	}
	return col, true
}
