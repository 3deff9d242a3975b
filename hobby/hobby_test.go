package hobby

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircleControls(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	knots := Knots(laxgeom.P(1, 1), laxgeom.P(2, 2), laxgeom.P(3, 1), laxgeom.P(2, 0)).Cycle()
	c, err := Solve(knots)
	require.NoError(t, err)
	assert.InDelta(t, 1.0000, c.Post[0].X(), 0.0002)
	assert.InDelta(t, 1.5523, c.Post[0].Y(), 0.0002)
	assert.InDelta(t, 1.4477, c.Pre[1].X(), 0.0002)
	assert.InDelta(t, 2.0000, c.Pre[1].Y(), 0.0002)
	assert.InDelta(t, 3.0000, c.Post[2].X(), 0.0002)
	assert.InDelta(t, 0.4477, c.Post[2].Y(), 0.0002)
	assert.InDelta(t, 1.0000, c.Pre[0].X(), 0.0002)
	assert.InDelta(t, 0.4477, c.Pre[0].Y(), 0.0002)
}

func TestOpenRun(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	knots := Knots(laxgeom.P(1, 1), laxgeom.P(2, 2), laxgeom.P(3, 1))
	c, err := Solve(knots)
	require.NoError(t, err)
	assert.True(t, c.Pre[0].IsNaN())
	assert.True(t, c.Post[2].IsNaN())
	for i := 0; i < 2; i++ {
		assert.False(t, c.Post[i].IsNaN())
		assert.False(t, c.Pre[i+1].IsNaN())
	}
	// symmetric knots give mirrored controls
	assert.InDelta(t, c.Post[0].Y(), c.Pre[2].Y(), 1e-9)
	assert.InDelta(t, 4-c.Post[0].X(), c.Pre[2].X(), 1e-9)
	// tangent at the apex is horizontal
	assert.InDelta(t, c.Pre[1].Y(), c.Post[1].Y(), 1e-9)
}

func TestTwoKnotsGiveStraightLine(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c, err := Solve(Knots(laxgeom.P(0, 0), laxgeom.P(3, 0)))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, c.Post[0].Y(), 1e-9)
	assert.InDelta(t, 0.0, c.Pre[1].Y(), 1e-9)
	assert.False(t, math.IsNaN(c.Post[0].X()))
}

func TestTensionClamped(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := Knots(laxgeom.P(0, 0), laxgeom.P(1, 1)).Tension(0, 0.1, 9)
	assert.Equal(t, 0.75, k.preTension(0))
	assert.Equal(t, 4.0, k.postTension(0))
}

func TestSolveRejects(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Solve(Knots(laxgeom.P(0, 0)))
	assert.True(t, errors.Is(err, ErrTooFewKnots))
	_, err = Solve(Knots(laxgeom.P(0, 0), laxgeom.P(1, 0)).Cycle())
	assert.True(t, errors.Is(err, ErrTooFewKnots))
	_, err = Solve(Knots(laxgeom.P(0, 0), laxgeom.P(0, 0)))
	assert.True(t, errors.Is(err, ErrDegenerateSegment))
	_, err = Solve(Knots(laxgeom.P(0, 0), laxgeom.P(math.NaN(), 0)))
	assert.True(t, errors.Is(err, ErrInvalidKnot))
	_, err = Solve(nil)
	assert.Error(t, err)
}
