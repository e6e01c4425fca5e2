// Package tube evaluates the growing tube model in closed form.
/*
A growing tube is swept by a generating curve (the cross section) along a
generating spiral (the tube axis), while both expand exponentially with the
growth stage s. For constant growth rate E, standardized curvature C and
standardized torsion T the Frenet equations of the spiral have an analytic
solution, which this package evaluates directly; there is no integration and
no fitting involved.

	U(s, φ) = p0 + R0 · ( P(s) + Q(s, φ) )

where P is the generating spiral, Q the generating curve, and (r0, p0, R0)
the initial frame. See

	Noshita, K. (2014). Quantification and geometric analysis of coiling
	patterns in gastropod shells based on 3D and 2D image data.
	J. Theor. Biol. 363, 93–104.

Only constant shape parameters are supported. Shape fields which vary along
the tube are represented by Varying and are rejected with
growtube.ErrUnsupportedModel.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package tube

import (
	"fmt"
	"math"

	"github.com/npillmayer/growtube"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'growtube.tube'
func tracer() tracing.Trace {
	return tracing.Select("growtube.tube")
}

// ShapeField describes growth rate, curvature and torsion along a tube.
// It is either Constant or Varying.
type ShapeField interface {
	constant() (Constant, error)
}

// Constant is a shape field with constant growth rate E, standardized
// curvature C and standardized torsion T.
type Constant struct {
	E float64 // growth rate
	C float64 // standardized curvature
	T float64 // standardized torsion
}

// Varying is a shape field with E, C and T depending on the growth stage.
// Such fields are not implemented; every evaluation fails.
type Varying struct {
	E, C, T func(s float64) float64
}

func (c Constant) constant() (Constant, error) {
	return c, nil
}

func (v Varying) constant() (Constant, error) {
	return Constant{}, growtube.ErrUnsupportedModel
}

// D is the net curvature sqrt(C²+T²) of the generating spiral.
func (c Constant) D() float64 {
	return math.Hypot(c.C, c.T)
}

// Validate checks that the closed forms are defined for c.
func (c Constant) Validate() error {
	if !growtube.IsFinite(c.E) || !growtube.IsFinite(c.C) || !growtube.IsFinite(c.T) {
		return fmt.Errorf("%w: non-finite parameters %v", growtube.ErrSingularGeometry, c)
	}
	if growtube.Is0(c.D()) {
		return fmt.Errorf("%w: C = T = 0 (straight axis)", growtube.ErrSingularGeometry)
	}
	if growtube.Is0(c.E) {
		return fmt.Errorf("%w: E = 0 (no growth)", growtube.ErrSingularGeometry)
	}
	return nil
}

// Period is the growth stage span 2π/D of one revolution of the spiral.
func (c Constant) Period() float64 {
	return 2 * math.Pi / c.D()
}

func (c Constant) String() string {
	return fmt.Sprintf("{E=%g, C=%g, T=%g}", c.E, c.C, c.T)
}

// Spiral evaluates the generating spiral P(s) for initial radius r0,
// relative to the initial frame. P(0) is the origin.
// c must satisfy c.Validate().
func Spiral(s float64, c Constant, r0 float64) r3.Vec {
	E, C, T := c.E, c.C, c.T
	D := c.D()
	ED3E2pD2 := E * D * D * D * (E*E + D*D)
	expEs := math.Exp(E * s)
	sinDs, cosDs := math.Sincos(D * s)
	P := r0 * D * ((D*D*T*T+E*E*T*T+C*C*E*E*cosDs+E*D*C*C*sinDs)*expEs - D*D*(E*E+T*T)) / ED3E2pD2
	Q := r0 * C * D * E * (-expEs*(C*C+T*T)*cosDs + D*(D+expEs*E*sinDs)) / ED3E2pD2
	R := r0 * C * T * D * ((E*E+D*D-E*E*cosDs-E*D*sinDs)*expEs - D*D) / ED3E2pD2
	return r3.Vec{X: P, Y: Q, Z: R}
}

// Section evaluates the generating curve Q(s, φ), i.e. the offset of the
// tube surface from the spiral at growth stage s and angle φ.
// c must satisfy c.Validate().
func Section(s, phi float64, c Constant, r0 float64) r3.Vec {
	C, T := c.C, c.T
	D := c.D()
	expEs := math.Exp(c.E * s)
	sinDs, cosDs := math.Sincos(s * D)
	sinPhi, cosPhi := math.Sincos(phi)
	X := -(C * expEs * r0 * (D*D*cosPhi*sinDs + T*D*(cosDs-1)*sinPhi)) / (D * D * D)
	Y := expEs * r0 * (cosDs*cosPhi - (T*sinDs*sinPhi)/D)
	Z := expEs * r0 * ((T*cosPhi*sinDs)/D + (C*C+T*T*cosDs)*sinPhi/(D*D))
	return r3.Vec{X: X, Y: Y, Z: Z}
}

// prepare resolves a shape field and validates it together with the frame.
func prepare(field ShapeField, frame growtube.Frame) (Constant, error) {
	if field == nil {
		return Constant{}, fmt.Errorf("%w: shape field is nil", growtube.ErrUnsupportedModel)
	}
	c, err := field.constant()
	if err != nil {
		tracer().Errorf("cannot evaluate shape field of type %T", field)
		return Constant{}, err
	}
	if err = c.Validate(); err != nil {
		return Constant{}, err
	}
	if err = frame.Validate(); err != nil {
		return Constant{}, err
	}
	return c, nil
}

func point(s, phi float64, c Constant, frame growtube.Frame) r3.Vec {
	u := r3.Add(Spiral(s, c, frame.Radius), Section(s, phi, c, frame.Radius))
	return frame.Apply(u)
}

// EvaluateAt returns the world coordinates of the tube surface at growth
// stage s and angle phi.
func EvaluateAt(s, phi float64, field ShapeField, frame growtube.Frame) (r3.Vec, error) {
	c, err := prepare(field, frame)
	if err != nil {
		return r3.Vec{}, err
	}
	return point(s, phi, c, frame), nil
}

// MustEvaluateAt is a helper which panics if EvaluateAt returns an error.
func MustEvaluateAt(s, phi float64, field ShapeField, frame growtube.Frame) r3.Vec {
	u, err := EvaluateAt(s, phi, field, frame)
	if err != nil {
		panic(err)
	}
	return u
}

// Evaluate returns the world coordinates of the tube surface for pairs
// (s[i], phi[i]). A slice of length 1 is broadcast against the other one;
// otherwise both slices must have the same length.
func Evaluate(s, phi []float64, field ShapeField, frame growtube.Frame) ([]r3.Vec, error) {
	n, err := broadcastLen(len(s), len(phi))
	if err != nil {
		return nil, err
	}
	c, err := prepare(field, frame)
	if err != nil {
		return nil, err
	}
	tracer().P("shape", c).Debugf("evaluate %d samples in %s", n, frame)
	U := make([]r3.Vec, n)
	for i := range U {
		U[i] = point(s[i%len(s)], phi[i%len(phi)], c, frame)
	}
	return U, nil
}

// Grid evaluates the tube surface on the product of stages and angles.
// Row i of the result holds the cross section at stage s[i].
func Grid(s, phi []float64, field ShapeField, frame growtube.Frame) ([][]r3.Vec, error) {
	c, err := prepare(field, frame)
	if err != nil {
		return nil, err
	}
	grid := make([][]r3.Vec, len(s))
	for i, si := range s {
		row := make([]r3.Vec, len(phi))
		for j, phij := range phi {
			row[j] = point(si, phij, c, frame)
		}
		grid[i] = row
	}
	return grid, nil
}

// broadcastLen is the length of two broadcast sequences.
func broadcastLen(ns, nphi int) (int, error) {
	switch {
	case ns == 0 || nphi == 0:
		return 0, fmt.Errorf("%w: empty stage or angle sequence", growtube.ErrShapeMismatch)
	case ns == nphi, nphi == 1:
		return ns, nil
	case ns == 1:
		return nphi, nil
	}
	return 0, fmt.Errorf("%w: %d stages vs. %d angles", growtube.ErrShapeMismatch, ns, nphi)
}
