package laxgeom

import (
	"math"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := 0.000000008
	if !Is0(a) {
		t.Errorf("Expected a to be zero, is not")
	}
}

func TestPairBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := P(3, 2)
	q := P(-3, -2)
	r := p + q
	if !r.IsOrigin() {
		t.Errorf("Expected p + q to be (0,0), is %v", r)
	}
}

func TestTranslation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if !P(1, 1).Shifted(P(-1, -1)).IsOrigin() {
		t.Errorf("Expected (1,1) shifted (-1,-1) to be origin, is not")
	}
	if !P(1, 0).Rotated(180 * Deg2Rad).Shifted(P(1, 0)).IsOrigin() {
		t.Errorf("Expected result to be origin, is not")
	}
}

func TestPairVectorOps(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	v := P(3, 4)
	assert.InDelta(t, 5.0, v.Norm(), 1e-12)
	assert.InDelta(t, 1.0, v.Normalized().Norm(), 1e-12)
	assert.True(t, v.Perp().Equal(P(-4, 3)))
	assert.InDelta(t, 0.0, v.Dot(v.Perp()), 1e-12)
	assert.InDelta(t, 25.0, v.Cross(v.Perp()), 1e-12)
	assert.True(t, LerpP(P(0, 0), P(10, 0), 0.25).Equal(P(2.5, 0)))
}

func TestCombineAppliesLeftFirst(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := Rotation(math.Pi / 2).Combine(Translation(P(1, 0)))
	p := m.Transform(P(1, 0)) // rotate to (0,1), then shift to (1,1)
	assert.True(t, p.Equal(P(1, 1)), "got %v", p)
}

func TestInvert(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := Scaling(2, 3).Combine(Rotation(0.3)).Combine(Translation(P(5, -1)))
	inv, ok := m.Invert()
	require.True(t, ok)
	p := P(1.5, -2.25)
	assert.True(t, inv.Transform(m.Transform(p)).Equal(p))
	assert.True(t, m.Combine(inv).IsIdentity())
	_, ok = Scaling(0, 1).Invert()
	assert.False(t, ok)
}

func TestTransformVectorIgnoresTranslation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := Translation(P(7, 7))
	assert.True(t, m.TransformVector(P(1, 2)).Equal(P(1, 2)))
}

func TestLoadSettings(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := LoadSettings(strings.NewReader("resolution = 16\npixel-threshold = 0.5\n"))
	require.NoError(t, err)
	assert.Equal(t, 16, s.Resolution)
	assert.InDelta(t, 0.5, s.PixelThreshold, 1e-12)
	assert.InDelta(t, 200.0, s.MiterFactor, 1e-12)
	s, err = LoadSettings(strings.NewReader("resolution = 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 10, s.Resolution)
	_, err = LoadSettings(strings.NewReader("resolution = = 3"))
	assert.Error(t, err)
}
