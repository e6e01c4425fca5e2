package estimate

import (
	"fmt"
	"math"

	"github.com/npillmayer/growtube"
	"github.com/npillmayer/growtube/bspline"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Reparameterization is the result of FitArclength.
type Reparameterization struct {
	Spline     *bspline.Spline // last fitted curve
	Arclengths []float64       // rescaled arc length parameters
	Iterations int             // number of fit/rescale rounds
	Arclength  float64         // arc length of Spline
}

// FitArclength fits a B-spline curve through coords, parameterized by
// arclengths, and iteratively rescales the parameters until the last
// parameter equals the arc length of the fitted curve within opts.Tol.
//
// Each round rescales the parameters by a damped factor
//
//	((L - a) · RevisedRatio + a) / a
//
// where L is the curve's arc length and a the last parameter, and
// regenerates a clamped knot vector over the new parameter range. The
// first round uses the knots supplied by the client. None of the inputs
// are modified.
//
// The returned spline is the one fitted in the last round, i.e. before
// the final rescaling of the parameters.
func FitArclength(arclengths []float64, coords []r3.Vec, knots []float64,
	opts Options) (*Reparameterization, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if len(arclengths) != len(coords) {
		return nil, fmt.Errorf("%w: %d arc length parameters for %d points",
			growtube.ErrShapeMismatch, len(arclengths), len(coords))
	}
	if len(arclengths) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points", growtube.ErrIllConditionedFit)
	}
	params := append([]float64(nil), arclengths...)
	if last := params[len(params)-1]; !(last > 0) || !growtube.IsFinite(last) {
		return nil, fmt.Errorf("%w: last arc length parameter is %g", growtube.ErrInvalidRange, last)
	}
	if len(knots) < 2 {
		return nil, fmt.Errorf("%w: %d knots", bspline.ErrInvalidKnots, len(knots))
	}
	knots = append([]float64(nil), knots...)
	y := bspline.VecsToDense(coords)
	var sp *bspline.Spline
	var length float64
	ratio := 0.0
	iter := 0
	for math.Abs(1-ratio) > opts.Tol {
		if iter == opts.MaxIter {
			tracer().Errorf("arc length reparameterization did not converge, ratio = %g", ratio)
			return nil, fmt.Errorf("%w: |1 - ratio| = %g after %d iterations",
				growtube.ErrNonConvergence, math.Abs(1-ratio), iter)
		}
		iter++
		var err error
		if sp, err = bspline.FitLSQ(params, y, knots, opts.Degree); err != nil {
			return nil, err
		}
		if length, err = sp.ArclengthBetween(knots[0], knots[len(knots)-1], opts.QuadLimit); err != nil {
			return nil, err
		}
		old := params[len(params)-1]
		ratio = length / old
		factor := ((length-old)*opts.RevisedRatio + old) / old
		floats.Scale(factor, params)
		tracer().Debugf("iteration %d: arc length %g, parameter %g, ratio %g", iter, length, old, ratio)
		knots, err = bspline.GenerateKnots(params[0], params[len(params)-1], opts.KnotCount, opts.Degree+1)
		if err != nil {
			return nil, err
		}
	}
	tracer().Infof("arc length %g after %d iterations", length, iter)
	return &Reparameterization{
		Spline:     sp,
		Arclengths: params,
		Iterations: iter,
		Arclength:  length,
	}, nil
}
