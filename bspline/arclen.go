package bspline

import (
	"fmt"
	"math"

	"github.com/npillmayer/growtube"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
)

// Tolerances for the adaptive quadrature.
const (
	epsAbs = 1.49e-8
	epsRel = 1.49e-8
)

// DefaultQuadratureLimit is the default maximum number of subintervals the
// adaptive quadrature will create.
const DefaultQuadratureLimit = 500

// === Arc length ============================================================

// Arclength returns the length of the curve over the spline's base interval.
// limit bounds the number of subintervals of the adaptive quadrature; values
// < 1 select DefaultQuadratureLimit. If the limit is reached before the
// requested accuracy, the best estimate is returned and a warning is traced.
func (sp *Spline) Arclength(limit int) (float64, error) {
	a, b := sp.Domain()
	return sp.ArclengthBetween(a, b, limit)
}

// ArclengthBetween returns the length of the curve between parameters a and b.
func (sp *Spline) ArclengthBetween(a, b float64, limit int) (float64, error) {
	d, err := sp.Derivative()
	if err != nil {
		return 0, err
	}
	return d.IntegrateNorm(a, b, limit)
}

// IntegrateNorm integrates the Euclidean norm of the spline from a to b. The
// integration breaks at the knots, where the integrand may have kinks.
func (sp *Spline) IntegrateNorm(a, b float64, limit int) (float64, error) {
	if !growtube.IsFinite(a) || !growtube.IsFinite(b) {
		return 0, fmt.Errorf("%w: integration bounds %g, %g", growtube.ErrInvalidRange, a, b)
	}
	sign := 1.0
	if b < a {
		a, b, sign = b, a, -1
	}
	if a == b {
		return 0, nil
	}
	if limit < 1 {
		limit = DefaultQuadratureLimit
	}
	buf := make([]float64, sp.Dim())
	f := func(x float64) float64 {
		return floats.Norm(sp.EvalTo(buf, x), 2)
	}
	total, abserr, n := adaptive(f, breakpoints(a, b, sp.knots), limit)
	if abserr > math.Max(epsAbs, epsRel*math.Abs(total)) {
		tracer().Infof("arc length quadrature hit limit of %d subintervals, error estimate %g", n, abserr)
	}
	return sign * total, nil
}

// interval is a subinterval of an adaptive quadrature together with its
// integral estimate and error estimate.
type interval struct {
	a, b   float64
	result float64
	err    float64
}

func gaussLegendre(f func(float64) float64, a, b float64) interval {
	lo := quad.Fixed(f, a, b, 8, quad.Legendre{}, 0)
	hi := quad.Fixed(f, a, b, 16, quad.Legendre{}, 0)
	return interval{a: a, b: b, result: hi, err: math.Abs(hi - lo)}
}

// adaptive integrates f over the partition given by points, bisecting the
// subinterval with the largest error estimate until the total error is
// within tolerance or the number of subintervals reaches limit.
// It returns the integral, the error estimate and the number of subintervals.
func adaptive(f func(float64) float64, points []float64, limit int) (float64, float64, int) {
	ivs := make([]interval, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		ivs = append(ivs, gaussLegendre(f, points[i-1], points[i]))
	}
	for {
		total, abserr, worst := 0.0, 0.0, 0
		for i, iv := range ivs {
			total += iv.result
			abserr += iv.err
			if iv.err > ivs[worst].err {
				worst = i
			}
		}
		if abserr <= math.Max(epsAbs, epsRel*math.Abs(total)) || len(ivs) >= limit {
			return total, abserr, len(ivs)
		}
		iv := ivs[worst]
		mid := iv.a + (iv.b-iv.a)/2
		if mid <= iv.a || mid >= iv.b { // interval cannot be split any further
			return total, abserr, len(ivs)
		}
		ivs[worst] = gaussLegendre(f, iv.a, mid)
		ivs = append(ivs, gaussLegendre(f, mid, iv.b))
	}
}
