package growtube

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNumericBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := 0.000000008
	if !Is0(a) {
		t.Errorf("Expected a to be zero, is not")
	}
	if Zap(a) != 0 {
		t.Errorf("Expected a to be zapped to zero, is %g", Zap(a))
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(-1)) {
		t.Errorf("Expected NaN and -Inf to be non-finite")
	}
}

func TestPairBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := P(3, 4)
	q := P(-3, -4)
	if !(p + q).Equal(Origin) {
		t.Errorf("Expected p + q to be (0,0), is %v", p+q)
	}
	if p.Abs() != 5 {
		t.Errorf("Expected |p| = 5, is %g", p.Abs())
	}
}

func TestDefaultFrameIsFresh(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	f1 := DefaultFrame()
	f1.Orientation.Set(0, 0, 42)
	f2 := DefaultFrame()
	if f2.Orientation.At(0, 0) != 1 {
		t.Errorf("default frames share their orientation matrix")
	}
}

func TestFrameApplyInvert(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	rot := r3.NewRotation(math.Pi/3, r3.Vec{X: 1, Y: 1, Z: 0}).Mat()
	f := Frame{Radius: 2, Origin: r3.Vec{X: 1, Y: -2, Z: 3}, Orientation: rot}
	if err := f.Validate(); err != nil {
		t.Fatalf("rotation frame should be valid: %v", err)
	}
	v := r3.Vec{X: 0.5, Y: 0.25, Z: -1}
	w := f.Apply(v)
	back := f.Invert(w)
	if r3.Norm(r3.Sub(back, v)) > 1e-12 {
		t.Errorf("Expected Invert(Apply(v)) = v, got %v", back)
	}
	if d := r3.Norm(r3.Sub(w, f.Origin)); math.Abs(d-r3.Norm(v)) > 1e-12 {
		t.Errorf("rotation should preserve lengths, %g != %g", d, r3.Norm(v))
	}
}

func TestFrameValidate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if err := (Frame{Radius: 0}).Validate(); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("Expected ErrInvalidFrame for r0 = 0, got %v", err)
	}
	skew := r3.NewMat([]float64{1, 0.5, 0, 0, 1, 0, 0, 0, 1})
	if err := (Frame{Radius: 1, Orientation: skew}).Validate(); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("Expected ErrInvalidFrame for a shear, got %v", err)
	}
	mirror := r3.NewMat([]float64{-1, 0, 0, 0, 1, 0, 0, 0, 1})
	if err := (Frame{Radius: 1, Orientation: mirror}).Validate(); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("Expected ErrInvalidFrame for a reflection, got %v", err)
	}
	if err := (Frame{Radius: 1}).Validate(); err != nil {
		t.Errorf("nil orientation is identity, got %v", err)
	}
}

func TestSampleDistance(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := Sample{Pos: r3.Vec{X: 1, Y: 2, Z: 2}}
	b := Sample{Pos: r3.Vec{X: 4, Y: 6, Z: 2}}
	if d := a.Distance(b); d != 5 {
		t.Errorf("Expected chord length 5, got %g", d)
	}
}
