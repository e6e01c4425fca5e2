package bspline

import (
	"fmt"
	"sort"

	"github.com/npillmayer/growtube"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// maxCondition is the largest condition number of a design matrix we accept
// for a least-squares fit.
const maxCondition = 1e12

// FitLSQ computes the least-squares spline of degree k over knots, which
// approximates the data points (x[i], y[i,·]). x must be non-decreasing and
// y has one row per abscissa and one column per dimension.
//
// If the data do not determine the spline's coefficients uniquely (the
// Schoenberg–Whitney conditions are violated, or the design matrix is
// numerically singular), FitLSQ returns growtube.ErrIllConditionedFit.
func FitLSQ(x []float64, y mat.Matrix, knots []float64, k int) (*Spline, error) {
	if err := ValidateKnots(knots, k); err != nil {
		return nil, err
	}
	m, dim := y.Dims()
	if m != len(x) {
		return nil, fmt.Errorf("%w: %d abscissae for %d data rows", growtube.ErrShapeMismatch, len(x), m)
	}
	if !sort.Float64sAreSorted(x) {
		return nil, fmt.Errorf("%w: abscissae must be non-decreasing", growtube.ErrMalformedInput)
	}
	n := len(knots) - k - 1
	if m < n {
		return nil, fmt.Errorf("%w: %d data points for %d coefficients", growtube.ErrIllConditionedFit, m, n)
	}
	A := designMatrix(x, knots, k)
	if err := schoenbergWhitney(A); err != nil {
		return nil, err
	}
	var qr mat.QR
	qr.Factorize(A)
	if cond := qr.Cond(); cond > maxCondition {
		return nil, fmt.Errorf("%w: design matrix has condition %g", growtube.ErrIllConditionedFit, cond)
	}
	var coeffs mat.Dense
	if err := qr.SolveTo(&coeffs, false, y); err != nil {
		return nil, fmt.Errorf("%w: %v", growtube.ErrIllConditionedFit, err)
	}
	tracer().Debugf("fitted spline of degree %d with %d coefficients to %d×%d data points", k, n, m, dim)
	return &Spline{
		knots:  append([]float64(nil), knots...),
		degree: k,
		coeffs: &coeffs,
	}, nil
}

// designMatrix returns the matrix A with A[i,j] = B_j(x[i]).
func designMatrix(x []float64, knots []float64, k int) *mat.Dense {
	n := len(knots) - k - 1
	A := mat.NewDense(len(x), n, nil)
	probe := &Spline{knots: knots, degree: k, coeffs: mat.NewDense(n, 1, nil)}
	N := make([]float64, k+1)
	for i, xi := range x {
		mu := probe.span(xi)
		basisFuns(N, knots, k, mu, xi)
		for j, b := range N {
			A.Set(i, mu-k+j, b)
		}
	}
	return A
}

// schoenbergWhitney checks that there is an increasing sequence of rows
// i_0 < i_1 < … such that A[i_j, j] != 0 for every column j.
func schoenbergWhitney(A *mat.Dense) error {
	m, n := A.Dims()
	i := 0
	for j := 0; j < n; j++ {
		for i < m && A.At(i, j) == 0 {
			i++
		}
		if i == m {
			return fmt.Errorf("%w: Schoenberg-Whitney conditions violated at basis function %d",
				growtube.ErrIllConditionedFit, j)
		}
		i++
	}
	return nil
}

// VecsToDense stores a sequence of points as the rows of an n×3 matrix.
func VecsToDense(pts []r3.Vec) *mat.Dense {
	if len(pts) == 0 {
		return &mat.Dense{}
	}
	data := make([]float64, 0, 3*len(pts))
	for _, p := range pts {
		data = append(data, p.X, p.Y, p.Z)
	}
	return mat.NewDense(len(pts), 3, data)
}
