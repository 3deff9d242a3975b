/*
Package curvesample implements one-dimensional interpolants over a curve
parameter. Paths use them to describe width, offset and angle of a stroke
as functions of the path parameter t.

A Curve is defined on a domain [Min,Max]. It is either flat (a constant)
or runs through a set of breakpoints (t,v), interpolating linearly between
neighbouring breakpoints and extending flat beyond the outermost ones.
Breakpoints may lie outside the domain; closed paths use this to wrap
values around their seam.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package curvesample

import (
	"fmt"
	"math"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'laxgeom.curve'
func tracer() tracing.Trace {
	return tracing.Select("laxgeom.curve")
}

// Curve is a piecewise linear function over [Min,Max].
type Curve struct {
	Min, Max float64     // domain
	flat     float64     // value when there are no breakpoints
	points   *treemap.Map // t → v, ordered by t
}

// New creates a flat curve with value 0 over [min,max].
func New(min, max float64) *Curve {
	if max < min {
		min, max = max, min
	}
	return &Curve{
		Min:    min,
		Max:    max,
		points: treemap.NewWith(utils.Float64Comparator),
	}
}

// SetFlat removes all breakpoints and makes the curve constant v.
func (c *Curve) SetFlat(v float64) *Curve {
	c.points.Clear()
	c.flat = v
	return c
}

// Add inserts breakpoint (t,v). An existing breakpoint at t is overwritten.
func (c *Curve) Add(t, v float64) *Curve {
	if math.IsNaN(t) || math.IsNaN(v) {
		tracer().Errorf("curve: ignoring NaN breakpoint (%g,%g)", t, v)
		return c
	}
	c.points.Put(t, v)
	return c
}

// Len is the number of breakpoints.
func (c *Curve) Len() int {
	return c.points.Size()
}

// IsFlat is true for a curve without breakpoints.
func (c *Curve) IsFlat() bool {
	return c.points.Empty()
}

// Points returns the breakpoints in ascending order of t.
func (c *Curve) Points() []laxgeom.Pair {
	pts := make([]laxgeom.Pair, 0, c.points.Size())
	it := c.points.Iterator()
	for it.Next() {
		pts = append(pts, laxgeom.P(it.Key().(float64), it.Value().(float64)))
	}
	return pts
}

// neighbours returns the breakpoints enclosing t. ok is false for a flat curve.
func (c *Curve) neighbours(t float64) (lo, hi laxgeom.Pair, ok bool) {
	if c.points.Empty() {
		return 0, 0, false
	}
	fk, fv := c.points.Floor(t)
	ck, cv := c.points.Ceiling(t)
	switch {
	case fk == nil:
		ck, cv = c.points.Min()
		p := laxgeom.P(ck.(float64), cv.(float64))
		return p, p, true
	case ck == nil:
		fk, fv = c.points.Max()
		p := laxgeom.P(fk.(float64), fv.(float64))
		return p, p, true
	}
	return laxgeom.P(fk.(float64), fv.(float64)), laxgeom.P(ck.(float64), cv.(float64)), true
}

// F evaluates the curve at t, with t clamped to the domain.
func (c *Curve) F(t float64) float64 {
	t = laxgeom.Clamp(t, c.Min, c.Max)
	lo, hi, ok := c.neighbours(t)
	if !ok {
		return c.flat
	}
	dt := hi.X() - lo.X()
	if dt <= 0 {
		return lo.Y()
	}
	return laxgeom.Lerp(lo.Y(), hi.Y(), (t-lo.X())/dt)
}

// Tangent returns the unit direction (dt,dv) of the curve at t. On a
// breakpoint the segment to its right is used.
func (c *Curve) Tangent(t float64) laxgeom.Pair {
	t = laxgeom.Clamp(t, c.Min, c.Max)
	lo, hi, ok := c.neighbours(t)
	if !ok {
		return laxgeom.P(1, 0)
	}
	if lo.X() == t && hi.X() == t { // exactly on a breakpoint
		if nk, nv := c.points.Ceiling(math.Nextafter(t, math.Inf(1))); nk != nil {
			hi = laxgeom.P(nk.(float64), nv.(float64))
		} else if pk, pv := c.points.Floor(math.Nextafter(t, math.Inf(-1))); pk != nil {
			lo = laxgeom.P(pk.(float64), pv.(float64))
		}
	}
	d := hi - lo
	if d.X() <= 0 {
		return laxgeom.P(1, 0)
	}
	return d.Normalized()
}

// Bounds returns the value range of the curve widened by 25% on both ends.
// It is meant for displaying the curve only.
func (c *Curve) Bounds() (float64, float64) {
	lo, hi := c.flat, c.flat
	if !c.points.Empty() {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, v := range c.points.Values() {
			lo, hi = math.Min(lo, v.(float64)), math.Max(hi, v.(float64))
		}
	}
	margin := (hi - lo) * 0.25
	if margin == 0 {
		margin = math.Max(math.Abs(hi)*0.25, 1)
	}
	return lo - margin, hi + margin
}

func (c *Curve) String() string {
	if c.IsFlat() {
		return fmt.Sprintf("flat(%g)[%g,%g]", c.flat, c.Min, c.Max)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "curve[%g,%g]", c.Min, c.Max)
	for _, p := range c.Points() {
		b.WriteString(" ")
		b.WriteString(p.String())
	}
	return b.String()
}
