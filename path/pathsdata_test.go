package path

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsDataSharedStyle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := NewPathsData(&LineStyle{Width: 2})
	a := pd.NewPath().MoveTo(laxgeom.P(0, 0)).LineTo(laxgeom.P(10, 0))
	b := pd.NewPath().MoveTo(laxgeom.P(5, -5)).LineTo(laxgeom.P(5, 5))
	assert.Equal(t, 2, pd.Len())
	assert.Same(t, a.Style(), b.Style())
	assert.Same(t, a, pd.Path(0))
	assert.Nil(t, pd.Path(3))
	pd.Style().Width = 4
	assert.Equal(t, 4.0, b.GetWeight(0).Width)
	require.NoError(t, pd.Remove(0))
	assert.Equal(t, 1, pd.Len())
	assert.ErrorIs(t, pd.Remove(3), ErrIndexOutOfRange)
}

func TestPathsDataAdoptsStyle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := NewPathsData(&LineStyle{Width: 3})
	plain := New(nil).MoveTo(laxgeom.P(0, 0)).LineTo(laxgeom.P(4, 0))
	assert.Equal(t, 1.0, plain.GetWeight(0).Width)
	pd.Add(plain)
	assert.Same(t, pd.Style(), plain.Style())
	assert.Equal(t, 3.0, plain.GetWeight(0).Width)

	own := straight(&LineStyle{Width: 9}, laxgeom.P(2, 2), laxgeom.P(3, 3))
	pd.Add(own)
	assert.Equal(t, 9.0, own.Style().Width)
	reset := straight(&LineStyle{Width: 7}, laxgeom.P(0, 1), laxgeom.P(1, 1))
	reset.SetStyle(nil)
	pd.Add(reset)
	assert.Same(t, pd.Style(), reset.Style())

	var buf bytes.Buffer
	require.NoError(t, pd.DumpOut(&buf))
	assert.Equal(t, 2, strings.Count(buf.String(), "join = "), "only the collection and the path with its own style")
}

func TestOutlinePolygonUnion(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := NewPathsData(&LineStyle{Width: 2})
	pd.NewPath().MoveTo(laxgeom.P(0, 0)).LineTo(laxgeom.P(10, 0))
	pd.NewPath().MoveTo(laxgeom.P(5.5, -5.5)).LineTo(laxgeom.P(5.5, 4.5))
	pd.UpdateCaches()
	pg := pd.OutlinePolygon(0.01)
	assert.InDelta(t, 36.0, pg.Area(), 1e-6)
	lo, hi, ok := pd.BBox()
	require.True(t, ok)
	assertNear(t, laxgeom.P(0, -5.5), lo, 1e-12)
	assertNear(t, laxgeom.P(10, 4.5), hi, 1e-12)
}

func TestRasterize(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := NewPathsData(&LineStyle{Width: 2})
	pd.Add(square())
	pd.Path(0).SetStyle(pd.Style())
	dst := image.NewAlpha(image.Rect(0, 0, 16, 16))
	pd.Rasterize(dst, laxgeom.Translation(laxgeom.P(2, 2)), image.Opaque)
	assert.Greater(t, dst.AlphaAt(7, 2).A, uint8(200), "on the stroke")
	assert.Less(t, dst.AlphaAt(7, 7).A, uint8(50), "inside the hole")
	assert.Less(t, dst.AlphaAt(0, 0).A, uint8(50), "outside the miter corner")
}

func TestPathRasterize(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := straight(&LineStyle{Width: 4}, laxgeom.P(0, 0), laxgeom.P(10, 0))
	dst := image.NewAlpha(image.Rect(0, 0, 16, 16))
	p.Rasterize(dst, laxgeom.Translation(laxgeom.P(3, 8)), image.Opaque)
	assert.Greater(t, dst.AlphaAt(8, 8).A, uint8(200))
	assert.Less(t, dst.AlphaAt(8, 13).A, uint8(50))
	assert.Less(t, dst.AlphaAt(1, 8).A, uint8(50))
}

func TestDumpRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := curved()
	p.SetStyle(&LineStyle{Width: 1.5, Cap: CapRound, EndCap: CapSquare, Join: JoinBevel, MiterLimit: 3})
	p.AddWeightNode(0.3, 0.25, 2.5, 0.1)
	p.AddWeightNode(1.7, -0.5, 1, 0)
	require.NoError(t, p.SetSmoothness(1, StiffUnequal))
	var buf bytes.Buffer
	require.NoError(t, p.DumpOut(&buf))
	tracer().Debugf("dump:\n%s", buf.String())
	q, err := DumpIn(&buf)
	require.NoError(t, err)
	assert.Equal(t, p.Points(), q.Points())
	assert.Equal(t, p.WeightNodes(), q.WeightNodes())
	assert.Equal(t, *p.Style(), *q.Style())
	assert.Equal(t, p.IsClosed(), q.IsClosed())

	sq := square()
	require.NoError(t, sq.SmoothVertices(0, 3, "hobby"))
	buf.Reset()
	require.NoError(t, sq.DumpOut(&buf))
	q, err = DumpIn(&buf)
	require.NoError(t, err)
	assert.True(t, q.IsClosed())
	assert.Equal(t, sq.Points(), q.Points())
}

func TestDumpPathsData(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pd := NewPathsData(&LineStyle{Width: 3, Join: JoinRound})
	pd.NewPath().MoveTo(laxgeom.P(0, 0)).LineTo(laxgeom.P(1, 1))
	own := straight(&LineStyle{Width: 9}, laxgeom.P(2, 2), laxgeom.P(3, 3))
	pd.Add(own)
	var buf bytes.Buffer
	require.NoError(t, pd.DumpOut(&buf))
	qd, err := DumpInPaths(&buf)
	require.NoError(t, err)
	require.Equal(t, 2, qd.Len())
	assert.Same(t, qd.Style(), qd.Path(0).Style())
	assert.Equal(t, 9.0, qd.Path(1).Style().Width)
	assert.Equal(t, JoinRound, qd.Style().Join)
}

func TestDumpInRejectsGarbage(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := DumpIn(strings.NewReader(`closed = "maybe"`))
	assert.ErrorIs(t, err, ErrInvalidDump)
	doc := `
closed = false
[[points]]
x = 1.0
y = 2.0
role = "next"
`
	_, err = DumpIn(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrInvalidDump)
	doc = `
closed = false
[[points]]
x = 1.0
y = 2.0
role = "sideways"
`
	_, err = DumpIn(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrInvalidDump)
}
