/*
Package growtube implements the growing tube model: a closed-form forward
model for tubes which grow exponentially along a spiral, and an estimation
pipeline recovering arclength and growth rate from digitized trajectories.

The root package holds the numeric helpers, points and frames shared by the
sub-packages:

	tube       closed-form generating spiral and generating curve
	bspline    clamped knot vectors, least-squares B-splines, arc length
	estimate   arclength reparameterization and growth rate estimation
	mv3d       reader for Microvisu3D digitizer exports
	aperture   aperture outlines and whorl overlap

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package growtube

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'growtube'
func tracer() tracing.Trace {
	return tracing.Select("growtube")
}

// === Numeric Data Type =====================================================

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// IsFinite is a predicate: is n neither NaN nor ±Inf ?
func IsFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// === Pair Data Type ========================================================

// Pair is a 2D point, used for coordinates within a section plane.
type Pair complex128

// Origin represents the frequently used constant (0,0).
var Origin = P(0, 0)

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// C returns a Pair as a complex number.
func (p Pair) C() complex128 {
	return complex128(p)
}

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// Equal compares two pairs.
func (p Pair) Equal(p2 Pair) bool {
	return Is0(p.X()-p2.X()) && Is0(p.Y()-p2.Y())
}

// Abs is the distance of p from the origin.
func (p Pair) Abs() float64 {
	return cmplx.Abs(p.C())
}

// === Frames ================================================================

// Frame is the initial placement of a tube: initial radius r0, initial
// position p0 and initial orientation R0.
type Frame struct {
	Radius      float64 // initial tube radius r0, > 0
	Origin      r3.Vec  // initial position p0
	Orientation *r3.Mat // initial orientation R0; nil means identity
}

// DefaultFrame returns a frame with radius 1 at the origin, oriented along
// the coordinate axes. Every call creates a new orientation matrix.
func DefaultFrame() Frame {
	return Frame{
		Radius:      1,
		Orientation: r3.Eye(),
	}
}

// orthoTolerance bounds |R·Rᵀ - I| for a frame orientation.
const orthoTolerance = 1e-9

// Validate checks that r0 > 0 and that the orientation is orthonormal.
func (f Frame) Validate() error {
	if !(f.Radius > 0) || !IsFinite(f.Radius) {
		return fmt.Errorf("%w: initial radius must be positive, is %g", ErrInvalidFrame, f.Radius)
	}
	if f.Orientation == nil {
		return nil
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ri, rj := f.Orientation.VecRow(i), f.Orientation.VecRow(j)
			d := r3.Dot(ri, rj)
			if i == j {
				d -= 1
			}
			if math.Abs(d) > orthoTolerance || math.IsNaN(d) {
				return fmt.Errorf("%w: orientation is not orthonormal (row %d·row %d off by %g)",
					ErrInvalidFrame, i, j, d)
			}
		}
	}
	if det := f.Orientation.Det(); !Is1(det) {
		return fmt.Errorf("%w: orientation is not a rotation (determinant %g)", ErrInvalidFrame, det)
	}
	return nil
}

// Apply transforms a point from tube coordinates to world coordinates:
// p0 + R0·v.
func (f Frame) Apply(v r3.Vec) r3.Vec {
	if f.Orientation != nil {
		v = f.Orientation.MulVec(v)
	}
	return r3.Add(f.Origin, v)
}

// Invert transforms a world point back to tube coordinates: R0ᵀ·(w - p0).
func (f Frame) Invert(w r3.Vec) r3.Vec {
	v := r3.Sub(w, f.Origin)
	if f.Orientation != nil {
		v = f.Orientation.MulVecTrans(v)
	}
	return v
}

// String is a debug Stringer for a frame.
func (f Frame) String() string {
	s := fmt.Sprintf("frame{r0=%g, p0=(%g,%g,%g)", f.Radius, f.Origin.X, f.Origin.Y, f.Origin.Z)
	if f.Orientation != nil {
		m := f.Orientation
		s += fmt.Sprintf(", R0=[%g,%g,%g|%g,%g,%g|%g,%g,%g]",
			m.At(0, 0), m.At(0, 1), m.At(0, 2),
			m.At(1, 0), m.At(1, 1), m.At(1, 2),
			m.At(2, 0), m.At(2, 1), m.At(2, 2))
	}
	return s + "}"
}

// === Samples ===============================================================

// Sample is a single measurement along a growth trajectory: a position on
// the tube axis together with the tube thickness at that position.
type Sample struct {
	Pos       r3.Vec
	Thickness float64
}

// Distance returns the chord length between two samples.
func (s Sample) Distance(o Sample) float64 {
	d := r3.Norm(r3.Sub(o.Pos, s.Pos))
	if !IsFinite(d) {
		tracer().Errorf("non-finite chord between %v and %v", s.Pos, o.Pos)
	}
	return d
}
