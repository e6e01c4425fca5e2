package estimate

import (
	"fmt"
	"math"

	"github.com/npillmayer/growtube"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// GrowthFit is the result of fitting thickness(l) = r0 + E·l.
type GrowthFit struct {
	E        float64 // growth rate
	R0       float64 // initial thickness
	StdErrE  float64 // standard error of E
	StdErrR0 float64 // standard error of R0
	RSS      float64 // residual sum of squares
}

func (g GrowthFit) String() string {
	return fmt.Sprintf("E = %g ± %g, r0 = %g ± %g", g.E, g.StdErrE, g.R0, g.StdErrR0)
}

const (
	maxCondition  = 1e12 // reject design matrices worse than this
	gaussNewtonIt = 20   // iteration limit for the Gauss-Newton solver
)

// FitGrowthRate fits the linear growth model thickness(l) = r0 + E·l to
// arc length parameters l and thicknesses d by least squares. The solver
// is a Gauss-Newton iteration starting at (r0, E) = (1, 1).
func FitGrowthRate(l, d []float64) (GrowthFit, error) {
	if len(l) != len(d) {
		return GrowthFit{}, fmt.Errorf("%w: %d arc lengths for %d thicknesses",
			growtube.ErrShapeMismatch, len(l), len(d))
	}
	if len(l) < 2 {
		return GrowthFit{}, fmt.Errorf("%w: need at least 2 samples, have %d",
			growtube.ErrIllConditionedFit, len(l))
	}
	for i := range l {
		if !growtube.IsFinite(l[i]) || !growtube.IsFinite(d[i]) {
			return GrowthFit{}, fmt.Errorf("%w: non-finite sample %d", growtube.ErrMalformedInput, i)
		}
	}
	m := len(l)
	J := mat.NewDense(m, 2, nil) // Jacobian of the model w.r.t. (r0, E)
	for i, li := range l {
		J.Set(i, 0, 1)
		J.Set(i, 1, li)
	}
	var qr mat.QR
	qr.Factorize(J)
	if cond := qr.Cond(); cond > maxCondition {
		tracer().Errorf("growth rate fit is rank deficient, condition %g", cond)
		return GrowthFit{}, fmt.Errorf("%w: condition %g of growth model", growtube.ErrIllConditionedFit, cond)
	}
	theta := mat.NewVecDense(2, []float64{1, 1}) // (r0, E)
	res := mat.NewVecDense(m, nil)
	var step mat.VecDense
	for it := 0; it < gaussNewtonIt; it++ {
		residuals(res, theta, l, d)
		if err := qr.SolveVecTo(&step, false, res); err != nil {
			return GrowthFit{}, fmt.Errorf("%w: %v", growtube.ErrIllConditionedFit, err)
		}
		theta.AddVec(theta, &step)
		if mat.Norm(&step, 2) <= 1e-14*(1+mat.Norm(theta, 2)) {
			break
		}
	}
	residuals(res, theta, l, d)
	fit := GrowthFit{
		R0:  theta.AtVec(0),
		E:   theta.AtVec(1),
		RSS: floats.Dot(res.RawVector().Data, res.RawVector().Data),
	}
	fit.StdErrR0, fit.StdErrE = math.Inf(1), math.Inf(1)
	if dof := m - 2; dof > 0 {
		var jtj, cov mat.Dense
		jtj.Mul(J.T(), J)
		if err := cov.Inverse(&jtj); err == nil {
			s2 := fit.RSS / float64(dof)
			fit.StdErrR0 = math.Sqrt(s2 * cov.At(0, 0))
			fit.StdErrE = math.Sqrt(s2 * cov.At(1, 1))
		}
	}
	tracer().P("fit", fit).Debugf("growth rate fitted to %d samples", m)
	return fit, nil
}

// residuals stores d - (r0 + E·l) into res.
func residuals(res *mat.VecDense, theta *mat.VecDense, l, d []float64) {
	r0, e := theta.AtVec(0), theta.AtVec(1)
	for i := range l {
		res.SetVec(i, d[i]-(r0+e*l[i]))
	}
}

// EstimateGrowthRate returns the growth rate E and initial thickness r0 of
// a growth trajectory. See FitGrowthRate.
func EstimateGrowthRate(l, d []float64) (e, r0 float64, err error) {
	fit, err := FitGrowthRate(l, d)
	if err != nil {
		return 0, 0, err
	}
	return fit.E, fit.R0, nil
}
