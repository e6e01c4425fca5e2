package bspline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/npillmayer/growtube"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrInvalidKnots indicates a knot vector which is unsorted, too short,
	// or has an empty base interval.
	ErrInvalidKnots = fmt.Errorf("%w: invalid knot vector", growtube.ErrInvalidRange)
	// ErrConstantSpline indicates an attempt to differentiate a spline of
	// degree 0.
	ErrConstantSpline = errors.New("cannot differentiate a spline of degree 0")
)

// Spline is a B-spline curve of degree k in d dimensions. It consists of
// a knot vector t of length n+k+1 and n coefficients (control points),
// stored as the rows of an n×d matrix.
//
// A Spline is immutable once created.
type Spline struct {
	knots  []float64  // t[0] … t[n+k]
	degree int        // k
	coeffs *mat.Dense // n × d
}

// New creates a spline of degree k from a knot vector and coefficients,
// one row per coefficient. The knot vector must have n+k+1 entries for n
// rows. Both inputs are copied.
func New(knots []float64, coeffs mat.Matrix, k int) (*Spline, error) {
	if err := ValidateKnots(knots, k); err != nil {
		return nil, err
	}
	n, _ := coeffs.Dims()
	if len(knots) != n+k+1 {
		return nil, fmt.Errorf("%w: %d knots for %d coefficients of degree %d",
			ErrInvalidKnots, len(knots), n, k)
	}
	sp := &Spline{
		knots:  append([]float64(nil), knots...),
		degree: k,
		coeffs: mat.DenseCopyOf(coeffs),
	}
	return sp, nil
}

// Degree returns k.
func (sp *Spline) Degree() int {
	return sp.degree
}

// Dim returns the dimension of the space the curve lives in.
func (sp *Spline) Dim() int {
	_, d := sp.coeffs.Dims()
	return d
}

// N returns the number of coefficients.
func (sp *Spline) N() int {
	n, _ := sp.coeffs.Dims()
	return n
}

// Knots returns a copy of the knot vector.
func (sp *Spline) Knots() []float64 {
	return append([]float64(nil), sp.knots...)
}

// Coefficients returns the coefficient matrix. Clients must not modify it.
func (sp *Spline) Coefficients() mat.Matrix {
	return sp.coeffs
}

// Domain returns the base interval [t[k], t[n]] of the spline.
func (sp *Spline) Domain() (float64, float64) {
	return sp.knots[sp.degree], sp.knots[sp.N()]
}

// span finds the knot interval index μ with t[μ] ≤ x < t[μ+1], restricted to
// k ≤ μ < n. Values outside the base interval use the outermost polynomial
// pieces.
func (sp *Spline) span(x float64) int {
	t, k, n := sp.knots, sp.degree, sp.N()
	i := sort.Search(n-k, func(i int) bool {
		return t[k+1+i] > x
	})
	mu := k + i
	if mu > n-1 {
		mu = n - 1
	}
	return mu
}

// EvalTo evaluates the spline at x with de Boor's algorithm and stores the
// result in dst, which is allocated if it does not have length Dim().
func (sp *Spline) EvalTo(dst []float64, x float64) []float64 {
	k, dim := sp.degree, sp.Dim()
	if len(dst) != dim {
		dst = make([]float64, dim)
	}
	mu := sp.span(x)
	t := sp.knots
	d := make([]float64, (k+1)*dim)
	for j := 0; j <= k; j++ {
		for c := 0; c < dim; c++ {
			d[j*dim+c] = sp.coeffs.At(j+mu-k, c)
		}
	}
	for r := 1; r <= k; r++ {
		for j := k; j >= r; j-- {
			left, right := t[j+mu-k], t[j+1+mu-r]
			alpha := 0.0
			if right != left {
				alpha = (x - left) / (right - left)
			}
			for c := 0; c < dim; c++ {
				d[j*dim+c] = (1-alpha)*d[(j-1)*dim+c] + alpha*d[j*dim+c]
			}
		}
	}
	copy(dst, d[k*dim:])
	return dst
}

// At evaluates a spline in 3D space at x. For splines of other dimensions
// the missing coordinates are 0 and extra coordinates are dropped.
func (sp *Spline) At(x float64) r3.Vec {
	v := sp.EvalTo(nil, x)
	var p r3.Vec
	switch {
	case len(v) >= 3:
		p.Z = v[2]
		fallthrough
	case len(v) == 2:
		p.Y = v[1]
		fallthrough
	case len(v) == 1:
		p.X = v[0]
	}
	return p
}

// Derivative returns the derivative of the spline, a spline of degree k-1
// over the knot vector without its first and last knot.
func (sp *Spline) Derivative() (*Spline, error) {
	k, n, dim := sp.degree, sp.N(), sp.Dim()
	if k == 0 {
		return nil, ErrConstantSpline
	}
	t := sp.knots
	dc := mat.NewDense(max(n-1, 1), dim, nil)
	for i := 0; i < n-1; i++ {
		dt := t[i+k+1] - t[i+1]
		if dt == 0 {
			continue
		}
		f := float64(k) / dt
		for c := 0; c < dim; c++ {
			dc.Set(i, c, f*(sp.coeffs.At(i+1, c)-sp.coeffs.At(i, c)))
		}
	}
	d := &Spline{
		knots:  append([]float64(nil), t[1:len(t)-1]...),
		degree: k - 1,
		coeffs: dc,
	}
	return d, nil
}

// basisFuns computes the k+1 non-vanishing basis functions of degree k at
// x in knot span mu, i.e. B[mu-k] … B[mu], into N (The NURBS Book, A2.2).
func basisFuns(N []float64, t []float64, k, mu int, x float64) {
	left := make([]float64, k+1)
	right := make([]float64, k+1)
	N[0] = 1
	for j := 1; j <= k; j++ {
		left[j] = x - t[mu+1-j]
		right[j] = t[mu+j] - x
		saved := 0.0
		for r := 0; r < j; r++ {
			temp := 0.0
			if den := right[r+1] + left[j-r]; den != 0 {
				temp = N[r] / den
			}
			N[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		N[j] = saved
	}
}
