package bspline

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/growtube"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

func TestGenerateKnots(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	knots, err := GenerateKnots(0, 1, 5, 4)
	require.NoError(t, err)
	want := []float64{0, 0, 0, 0, 0.25, 0.5, 0.75, 1, 1, 1, 1}
	if diff := cmp.Diff(want, knots, approx); diff != "" {
		t.Errorf("knots mismatch (-want +got):\n%s", diff)
	}
	knots, err = GenerateKnots(-2, 3.7, 50, 3)
	require.NoError(t, err)
	assert.Len(t, knots, 50+2*2)
	assert.Equal(t, -2.0, knots[0])
	assert.Equal(t, -2.0, knots[2])
	assert.Equal(t, 3.7, knots[len(knots)-1])
	assert.Equal(t, 3.7, knots[len(knots)-3])
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] {
			t.Fatalf("knots not monotonic at %d: %v", i, knots)
		}
	}
}

func TestGenerateKnotsInvalid(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := GenerateKnots(1, 0, 5, 4)
	assert.True(t, errors.Is(err, growtube.ErrInvalidRange))
	_, err = GenerateKnots(0, 1, 0, 4)
	assert.True(t, errors.Is(err, growtube.ErrInvalidRange))
	_, err = GenerateKnots(0, math.Inf(1), 3, 1)
	assert.True(t, errors.Is(err, growtube.ErrInvalidRange))
}

func TestValidateKnots(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.NoError(t, ValidateKnots([]float64{0, 0, 1, 1}, 1))
	err := ValidateKnots([]float64{0, 0, 1}, 1)
	assert.True(t, errors.Is(err, ErrInvalidKnots))
	err = ValidateKnots([]float64{0, 1, 0.5, 1}, 1)
	assert.True(t, errors.Is(err, ErrInvalidKnots))
	err = ValidateKnots([]float64{0, 0, 0, 0, 1, 1, 1, 1}, 4)
	assert.True(t, errors.Is(err, growtube.ErrInvalidRange))
	err = ValidateKnots([]float64{1, 1, 1, 1}, 1)
	assert.True(t, errors.Is(err, ErrInvalidKnots), "empty base interval")
}

func TestPartitionOfUnity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := 3
	knots, _ := Clamped(0, 2, 7, k)
	probe := &Spline{knots: knots, degree: k, coeffs: mat.NewDense(len(knots)-k-1, 1, nil)}
	N := make([]float64, k+1)
	for _, x := range []float64{0, 0.1, 0.333, 1, 1.5, 1.999, 2} {
		basisFuns(N, knots, k, probe.span(x), x)
		assert.InDelta(t, 1.0, floats.Sum(N), 1e-12, "sum of basis functions at %g", x)
		for _, b := range N {
			assert.GreaterOrEqual(t, b, 0.0)
		}
	}
}

func TestNewSpline(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// linear spline through (0,0) → (1,2) → (2,2)
	knots := []float64{0, 0, 1, 2, 2}
	sp, err := New(knots, mat.NewDense(3, 2, []float64{0, 0, 1, 2, 2, 2}), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, sp.Dim())
	assert.Equal(t, 3, sp.N())
	a, b := sp.Domain()
	assert.Equal(t, 0.0, a)
	assert.Equal(t, 2.0, b)
	if diff := cmp.Diff([]float64{0.5, 1}, sp.EvalTo(nil, 0.5), approx); diff != "" {
		t.Errorf("S(0.5) mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, r3.Vec{X: 2, Y: 2}, sp.At(2))
	knots[2] = 99 // spline must not share the knot vector
	assert.Equal(t, 1.0, sp.Knots()[2])
	_, err = New(knots[:4], mat.NewDense(3, 2, nil), 1)
	assert.True(t, errors.Is(err, ErrInvalidKnots))
}

func cubicData(n int) ([]float64, []r3.Vec) {
	x := make([]float64, n)
	floats.Span(x, 0, 1)
	pts := make([]r3.Vec, n)
	for i, xi := range x {
		pts[i] = r3.Vec{X: xi, Y: xi * xi, Z: xi * xi * xi}
	}
	return x, pts
}

func TestFitReproducesCubic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	x, pts := cubicData(30)
	knots, err := Clamped(0, 1, 6, 3)
	require.NoError(t, err)
	sp, err := FitLSQ(x, VecsToDense(pts), knots, 3)
	require.NoError(t, err)
	for _, u := range []float64{0, 0.123, 0.5, 0.77, 1} {
		p := sp.At(u)
		want := r3.Vec{X: u, Y: u * u, Z: u * u * u}
		assert.InDelta(t, 0, r3.Norm(r3.Sub(want, p)), 1e-9, "S(%g)", u)
	}
	d, err := sp.Derivative()
	require.NoError(t, err)
	assert.Equal(t, 2, d.Degree())
	for _, u := range []float64{0, 0.3, 0.9, 1} {
		want := r3.Vec{X: 1, Y: 2 * u, Z: 3 * u * u}
		assert.InDelta(t, 0, r3.Norm(r3.Sub(want, d.At(u))), 1e-8, "S'(%g)", u)
	}
}

func TestArclengthLine(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	x := make([]float64, 20)
	floats.Span(x, 0, 3)
	pts := make([]r3.Vec, len(x))
	for i, xi := range x {
		pts[i] = r3.Vec{X: xi, Y: 2 * xi}
	}
	knots, _ := Clamped(0, 3, 5, 3)
	sp, err := FitLSQ(x, VecsToDense(pts), knots, 3)
	require.NoError(t, err)
	length, err := sp.Arclength(0)
	require.NoError(t, err)
	assert.InDelta(t, 3*math.Sqrt(5), length, 1e-9)
	half, err := sp.ArclengthBetween(1.5, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, -1.5*math.Sqrt(5), half, 1e-9)
}

func TestArclengthCircle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	const R = 2.0
	x := make([]float64, 200)
	floats.Span(x, 0, 2*math.Pi)
	pts := make([]r3.Vec, len(x))
	for i, a := range x {
		pts[i] = r3.Vec{X: R * math.Cos(a), Y: R * math.Sin(a), Z: 1}
	}
	knots, _ := Clamped(0, 2*math.Pi, 30, 3)
	sp, err := FitLSQ(x, VecsToDense(pts), knots, 3)
	require.NoError(t, err)
	length, err := sp.Arclength(DefaultQuadratureLimit)
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Pi*R, length, 1e-3)
}

func TestSchoenbergWhitneyViolation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	x := make([]float64, 40)
	floats.Span(x, 0, 0.1) // all data in the first knot span
	pts := make([]r3.Vec, len(x))
	for i, xi := range x {
		pts[i] = r3.Vec{X: xi}
	}
	knots, _ := Clamped(0, 1, 6, 3)
	_, err := FitLSQ(x, VecsToDense(pts), knots, 3)
	assert.True(t, errors.Is(err, growtube.ErrIllConditionedFit), "got %v", err)
	_, err = FitLSQ(x[:3], VecsToDense(pts[:3]), knots, 3)
	assert.True(t, errors.Is(err, growtube.ErrIllConditionedFit), "too few points, got %v", err)
	_, err = FitLSQ(x[:3], VecsToDense(pts), knots, 3)
	assert.True(t, errors.Is(err, growtube.ErrShapeMismatch))
}

func TestDerivativeOfConstant(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sp, err := New([]float64{0, 1, 2}, mat.NewDense(2, 1, []float64{3, 4}), 0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, sp.At(1.5).X)
	_, err = sp.Derivative()
	assert.True(t, errors.Is(err, ErrConstantSpline))
}
