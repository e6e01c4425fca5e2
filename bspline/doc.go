// Package bspline fits and evaluates B-spline curves.
/*
The growing tube estimation needs three services from a spline library:
clamped knot vectors, least-squares spline fits through digitized points, and
the arc length of the fitted curve. This package provides exactly these,
built on gonum's linear algebra and quadrature.

Usage

Clients build a clamped knot vector over the parameter range of their data,
fit a spline through the data, and ask the spline for its arc length:

	knots, err := bspline.GenerateKnots(l[0], l[len(l)-1], 50, 4)
	sp, err := bspline.FitLSQ(l, coords, knots, 3)
	length, err := sp.Arclength(500)

For a degree-k spline the knot vector carries its boundary knots with
multiplicity k+1. Knots and data abscissae have to satisfy the
Schoenberg–Whitney conditions (every basis function must be non-zero on at
least one data point, in order), otherwise the least-squares problem has no
unique solution and FitLSQ returns growtube.ErrIllConditionedFit.

Evaluation uses de Boor's algorithm, see

	de Boor, C. (1978). A Practical Guide to Splines. Springer.
	Piegl, L., Tiller, W. (1997). The NURBS Book. Springer. (Algorithm A2.2)

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package bspline

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'growtube.bspline'
func tracer() tracing.Trace {
	return tracing.Select("growtube.bspline")
}
