package aperture

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/growtube"
	"github.com/npillmayer/growtube/tube"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pg := NullPolygon().Knot(growtube.P(0, 0)).Knot(growtube.P(1, 3)).Knot(growtube.P(3, 0)).Cycle()
	tracer().Infof("pg = %s", AsString(pg))
	if pg.N() != 3 {
		t.Errorf("expected triangle to have 3 knots, has %d", pg.N())
	}
	assert.InDelta(t, 4.5, pg.Area(), 1e-12)
	assert.Equal(t, "(0,0)--(1,3)--(3,0)--cycle", AsString(pg))
	// repeated knots and an explicit closing knot collapse
	pg = NullPolygon().Knot(growtube.P(0, 0)).Knot(growtube.P(0, 0)).Knot(growtube.P(1, 3)).
		Knot(growtube.P(3, 0)).Knot(growtube.P(0, 0)).Cycle()
	assert.Equal(t, 3, pg.N())
	assert.Equal(t, 1, pg.Contours())
}

func TestBox(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	box := Box(growtube.P(0, 5), growtube.P(4, 1))
	tracer().Infof("box = %s", AsString(box))
	if box.N() != 4 {
		t.Errorf("expected box to have 4 knots, has %d", box.N())
	}
	assert.InDelta(t, 16, box.Area(), 1e-12)
}

func TestIntersect(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := Box(growtube.P(0, 0), growtube.P(2, 2))
	b := Box(growtube.P(1, 1), growtube.P(3, 3))
	isect, err := a.Intersect(b)
	require.NoError(t, err)
	assert.InDelta(t, 1, isect.Area(), 1e-9)
	assert.Equal(t, 1, isect.Contours())
	far := Box(growtube.P(10, 10), growtube.P(11, 11))
	isect, err = a.Intersect(far)
	require.NoError(t, err)
	assert.InDelta(t, 0, isect.Area(), 1e-12)
	assert.Equal(t, 0, isect.Contours())
	_, err = a.Intersect(NullPolygon().Knot(growtube.P(0, 0)))
	assert.True(t, errors.Is(err, growtube.ErrInvalidRange))
}

func TestOutline(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := tube.Constant{E: 0.1, C: 0.8, T: 0.3}
	n := 64
	pg, err := Outline(2, c, 1.5, n)
	require.NoError(t, err)
	require.Equal(t, n, pg.N())
	r := 1.5 * math.Exp(0.2)
	for _, k := range pg.Knots(0) {
		assert.InDelta(t, r, k.Abs(), 1e-9)
	}
	ngon := float64(n) / 2 * math.Sin(2*math.Pi/float64(n)) * r * r
	assert.InDelta(t, ngon, pg.Area(), 1e-9)
	_, err = Outline(2, c, 1.5, 2)
	assert.True(t, errors.Is(err, growtube.ErrInvalidRange))
	_, err = Outline(2, tube.Constant{E: 0.1}, 1.5, 8)
	assert.True(t, errors.Is(err, growtube.ErrSingularGeometry))
}

func TestWhorlOverlap(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// tightly coiled, slowly growing: the earlier aperture lies within the later one
	ratio, err := WhorlOverlap(0, tube.Constant{E: 0.1, C: 2}, 1, 128)
	require.NoError(t, err)
	assert.InDelta(t, 1, ratio, 1e-6)
	// loosely coiled: whorls do not touch
	ratio, err = WhorlOverlap(0, tube.Constant{E: 0.01, C: 0.1}, 1, 128)
	require.NoError(t, err)
	assert.InDelta(t, 0, ratio, 1e-12)
	// overlap does not depend on the stage for constant shape fields
	c := tube.Constant{E: 0.05, C: 0.6, T: 0.2}
	r1, err := WhorlOverlap(0, c, 1, 96)
	require.NoError(t, err)
	r2, err := WhorlOverlap(3.3, c, 2, 96)
	require.NoError(t, err)
	assert.InDelta(t, r1, r2, 1e-6)
	assert.GreaterOrEqual(t, r1, 0.0)
	assert.LessOrEqual(t, r1, 1.0)
	_, err = WhorlOverlap(0, c, 1, 2)
	assert.True(t, errors.Is(err, growtube.ErrInvalidRange))
}
