package patch

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNear(t *testing.T, want, got laxgeom.Pair, tol float64, msg ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X(), got.X(), tol, msg...)
	assert.InDelta(t, want.Y(), got.Y(), tol, msg...)
}

// bent is a single subpatch with some interior and border points moved.
func bent() *PatchData {
	pd := New(0, 0, 9, 9, 1, 1)
	_ = pd.SetPoint(1, 1, laxgeom.P(4, -2))
	_ = pd.SetPoint(2, 1, laxgeom.P(1, 7))
	_ = pd.SetPoint(1, 2, laxgeom.P(11, 3))
	_ = pd.SetPoint(0, 3, laxgeom.P(10, 1))
	return pd
}

func TestIdentityEvaluation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := New(0, 0, 10, 10, 1, 1)
	assert.Equal(t, 1, pd.Rows())
	assert.Equal(t, 1, pd.Cols())
	assert.Equal(t, 4, pd.XSize())
	assert.Equal(t, 4, pd.YSize())
	assertNear(t, laxgeom.P(0, 0), pd.GetPoint(0, 0), 1e-9)
	assertNear(t, laxgeom.P(10, 10), pd.GetPoint(1, 1), 1e-9)
	assertNear(t, laxgeom.P(5, 5), pd.GetPoint(0.5, 0.5), 1e-9)
	assertNear(t, laxgeom.P(2.5, 7.5), pd.GetPointNormalized(0.25, 0.75), 1e-9)

	pd = New(0, 0, 30, 20, 2, 3)
	assertNear(t, laxgeom.P(15, 5), pd.GetPoint(1.5, 0.5), 1e-9)
	assertNear(t, laxgeom.P(15, 5), pd.GetPointNormalized(0.5, 0.25), 1e-9)
	assertNear(t, laxgeom.P(30, 20), pd.GetPoint(7, 9), 1e-9, "clamped")
	assert.ErrorIs(t, pd.Set(0, 0, 1, 1, 0, 2), ErrTooSmall)
}

func TestSetPointIsLazy(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := New(0, 0, 3, 3, 1, 1)
	pd.UpdateCache()
	require.NoError(t, pd.SetPoint(3, 3, laxgeom.P(6, 6)))
	_, _, _, _, dirty := pd.DirtyRect()
	assert.True(t, dirty)
	assertNear(t, laxgeom.P(6, 6), pd.GetPoint(1, 1), 1e-9)
	_, _, _, _, dirty = pd.DirtyRect()
	assert.False(t, dirty)
	assert.ErrorIs(t, pd.SetPoint(4, 0, laxgeom.Origin), ErrIndexOutOfRange)
	_, _, err := pd.Context(1, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestDirtyRectUnion(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := New(0, 0, 30, 30, 3, 4)
	pd.UpdateCache()
	_, _, _, _, ok := pd.DirtyRect()
	assert.False(t, ok)
	pd.NeedToUpdateCache(0, 0, 0, 0)
	pd.NeedToUpdateCache(2, 3, 1, 1)
	minCol, maxCol, minRow, maxRow, ok := pd.DirtyRect()
	require.True(t, ok)
	assert.Equal(t, []int{0, 3, 0, 1}, []int{minCol, maxCol, minRow, maxRow})
	require.NoError(t, pd.SetPoint(9, 6, laxgeom.P(14, 29)))
	minCol, maxCol, minRow, maxRow, _ = pd.DirtyRect()
	assert.Equal(t, []int{0, 3, 0, 2}, []int{minCol, maxCol, minRow, maxRow})
	pd.UpdateCache()

	fresh := &PatchData{settings: laxgeom.DefaultSettings()}
	fresh.swap(pd.XSize(), pd.YSize(), pd.Points())
	for r := 0; r < pd.Rows(); r++ {
		for c := 0; c < pd.Cols(); c++ {
			cx, cy, err := pd.Context(r, c)
			require.NoError(t, err)
			fx, fy, _ := fresh.Context(r, c)
			assert.Equal(t, fx, cx)
			assert.Equal(t, fy, cy)
		}
	}
}

func TestCacheIdempotent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := bent()
	pd.UpdateCache()
	first := append([]renderContext(nil), pd.cache...)
	pd.UpdateCache()
	assert.Equal(t, first, pd.cache)
	pd.NeedToUpdateCache(0, 0, 0, 0)
	pd.UpdateCache()
	assert.Equal(t, first, pd.cache)
}

func TestSubdivideExact(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	orig := bent()
	pd := bent()
	require.NoError(t, pd.Subdivide(0, 0.3, 0, 0.6))
	assert.Equal(t, 2, pd.Rows())
	assert.Equal(t, 2, pd.Cols())
	assert.Equal(t, 7, pd.XSize())
	remap := func(v, at float64) float64 {
		if v < at {
			return v / at
		}
		return 1 + (v-at)/(1-at)
	}
	for i := 0; i <= 10; i++ {
		for j := 0; j <= 10; j++ {
			s, u := float64(i)/10, float64(j)/10
			assertNear(t, orig.GetPoint(s, u), pd.GetPoint(remap(s, 0.6), remap(u, 0.3)), 1e-9)
		}
	}
	uni := bent()
	require.NoError(t, uni.SubdivideUniform(3, 2))
	assert.Equal(t, 3, uni.Cols())
	assert.Equal(t, 2, uni.Rows())
	for i := 0; i <= 10; i++ {
		for j := 0; j <= 10; j++ {
			s, u := float64(i)/10, float64(j)/10
			assertNear(t, orig.GetPoint(s, u), uni.GetPoint(3*s, 2*u), 1e-9)
		}
	}
}

func TestSubdivideRejects(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := bent()
	before := pd.Points()
	assert.ErrorIs(t, pd.Subdivide(0, 1.5, -1, 0), ErrBadParameter)
	assert.ErrorIs(t, pd.Subdivide(3, 0.5, -1, 0), ErrIndexOutOfRange)
	assert.ErrorIs(t, pd.SubdivideUniform(0, 2), ErrBadParameter)
	assert.Equal(t, before, pd.Points())
	require.NoError(t, pd.Subdivide(-1, 0, 0, 0.5))
	assert.Equal(t, 1, pd.Rows())
	assert.Equal(t, 2, pd.Cols())
}

func TestGrowCollapse(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := New(0, 0, 10, 10, 2, 2)
	orig := pd.Points()

	require.NoError(t, pd.Grow(Bottom, laxgeom.Translation(laxgeom.P(0, 10)), false))
	assert.Equal(t, 3, pd.Rows())
	assert.Equal(t, 10, pd.YSize())
	assertNear(t, laxgeom.P(0, 20), pd.Point(9, 0), 1e-12)
	assertNear(t, laxgeom.P(10, 20), pd.Point(9, 6), 1e-12)
	require.NoError(t, pd.Collapse(2, -1))
	assert.Equal(t, orig, pd.Points())

	require.NoError(t, pd.Grow(Left, laxgeom.Translation(laxgeom.P(-10, 0)), true))
	assert.Equal(t, 3, pd.Cols())
	assertNear(t, laxgeom.P(-10, 0), pd.Point(0, 0), 1e-12)
	assertNear(t, laxgeom.P(-20.0/3, 0), pd.Point(0, 1), 1e-12)
	assertNear(t, laxgeom.P(-10.0/3, 0), pd.Point(0, 2), 1e-12)
	require.NoError(t, pd.Collapse(-1, 0))
	assert.Equal(t, orig, pd.Points())

	require.NoError(t, pd.Grow(Top, laxgeom.Translation(laxgeom.P(0, -5)), false))
	assertNear(t, laxgeom.P(0, -5), pd.Point(0, 0), 1e-12)
	assertNear(t, laxgeom.P(0, -10.0/3), pd.Point(1, 0), 1e-12)
	require.NoError(t, pd.Grow(Right, laxgeom.Identity(), false))
	assert.Equal(t, 3, pd.Rows())
	assert.Equal(t, 3, pd.Cols())
	require.NoError(t, pd.Collapse(0, 2))
	assert.Equal(t, 2, pd.Rows())
	assert.Equal(t, 2, pd.Cols())
	assert.ErrorIs(t, pd.Grow(Direction(7), laxgeom.Identity(), false), ErrBadParameter)
}

func TestCollapseSeam(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := New(0, 0, 9, 9, 3, 1)
	require.NoError(t, pd.Collapse(1, -1))
	assert.Equal(t, 7, pd.YSize())
	assertNear(t, laxgeom.P(0, 4.5), pd.Point(3, 0), 1e-12)
	assertNear(t, laxgeom.P(0, 7), pd.Point(4, 0), 1e-12)

	single := New(0, 0, 1, 1, 1, 1)
	assert.ErrorIs(t, single.Collapse(0, -1), ErrTooSmall)
	assert.ErrorIs(t, single.Collapse(-1, 0), ErrTooSmall)
	assert.Equal(t, 4, single.YSize())
}

func TestWarpCircle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	center := laxgeom.P(5, 5)
	pd := New(0, 0, 1, 1, 1, 4)
	require.NoError(t, pd.WarpPatch(center, 2, 2, 1, 0, 2*math.Pi, nil))
	assertNear(t, laxgeom.P(7, 5), pd.GetPoint(0, 1), 1e-9)
	assertNear(t, laxgeom.P(5, 7), pd.GetPoint(1, 1), 1e-9)
	assertNear(t, laxgeom.P(6, 5), pd.GetPoint(0, 0), 1e-9)
	for i := 0; i <= 40; i++ {
		s := float64(i) / 10
		assert.InDelta(t, 2.0, pd.GetPoint(s, 1).Distance(center), 1e-3)
		assert.InDelta(t, 1.5, pd.GetPoint(s, 0.5).Distance(center), 1e-3)
		assert.InDelta(t, 1.0, pd.GetPoint(s, 0).Distance(center), 1e-3)
	}
	err := pd.WarpPatch(center, 0, 2, 1, 0, math.Pi, nil)
	assert.ErrorIs(t, err, ErrBadParameter)

	moved := New(0, 0, 1, 1, 1, 2)
	require.NoError(t, moved.WarpPatch(laxgeom.Origin, 3, 1, 0, 0, math.Pi, laxgeom.Translation(laxgeom.P(1, 1))))
	assertNear(t, laxgeom.P(4, 1), moved.GetPoint(0, 1), 1e-9)
	assertNear(t, laxgeom.P(1, 2), moved.GetPoint(1, 1), 1e-9)
}

func TestTransformAndBBox(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := New(0, 0, 4, 2, 1, 1)
	pd.Transform(laxgeom.Translation(laxgeom.P(1, 1)))
	lo, hi := pd.BBox()
	assertNear(t, laxgeom.P(1, 1), lo, 1e-12)
	assertNear(t, laxgeom.P(5, 3), hi, 1e-12)
	assertNear(t, laxgeom.P(3, 2), pd.GetPoint(0.5, 0.5), 1e-9)
}

func TestDumpRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := New(0, 0, 1, 1, 2, 3)
	require.NoError(t, pd.WarpPatch(laxgeom.P(1, 2), 3, 2, 1, 0.25, 2, nil))
	var buf bytes.Buffer
	require.NoError(t, pd.DumpOut(&buf))
	tracer().Debugf("dump:\n%s", buf.String())
	q, err := DumpIn(&buf)
	require.NoError(t, err)
	assert.Equal(t, pd.XSize(), q.XSize())
	assert.Equal(t, pd.YSize(), q.YSize())
	assert.Equal(t, pd.Points(), q.Points())
	assert.Equal(t, pd.GetPoint(1.3, 0.7), q.GetPoint(1.3, 0.7))

	_, err = DumpIn(strings.NewReader("xsize = 5\nysize = 4\n"))
	assert.ErrorIs(t, err, ErrInvalidDump)
	_, err = DumpIn(strings.NewReader("xsize = 4\nysize = 4\npoints = [[0.0, 0.0]]\n"))
	assert.ErrorIs(t, err, ErrInvalidDump)
	_, err = DumpIn(strings.NewReader("xsize = [\n"))
	assert.ErrorIs(t, err, ErrInvalidDump)
}
