package bspline

import (
	"fmt"
	"sort"

	"github.com/npillmayer/growtube"
	"gonum.org/v1/gonum/floats"
)

// GenerateKnots builds a knot vector over [start, end]: repeat-1 copies of
// start, count evenly spaced values from start to end inclusive, and
// repeat-1 copies of end. The boundary knots thus have multiplicity repeat,
// which clamps a spline of degree repeat-1.
//
// The result has count + 2(repeat-1) entries.
func GenerateKnots(start, end float64, count, repeat int) ([]float64, error) {
	if !growtube.IsFinite(start) || !growtube.IsFinite(end) || start > end {
		return nil, fmt.Errorf("%w: knots from %g to %g", growtube.ErrInvalidRange, start, end)
	}
	if count < 1 || repeat < 1 {
		return nil, fmt.Errorf("%w: %d knots with multiplicity %d", growtube.ErrInvalidRange, count, repeat)
	}
	knots := make([]float64, count+2*(repeat-1))
	for i := 0; i < repeat-1; i++ {
		knots[i] = start
		knots[len(knots)-1-i] = end
	}
	inner := knots[repeat-1 : repeat-1+count]
	if count == 1 {
		inner[0] = start
	} else {
		floats.Span(inner, start, end)
		inner[count-1] = end // Span may be off by rounding
	}
	return knots, nil
}

// Clamped returns a clamped knot vector of degree k over [start, end] with
// count distinct knots.
func Clamped(start, end float64, count, k int) ([]float64, error) {
	return GenerateKnots(start, end, count, k+1)
}

// ValidateKnots checks that knots are finite and non-decreasing, and that
// there are enough of them for a spline of degree k.
func ValidateKnots(knots []float64, k int) error {
	if k < 0 {
		return fmt.Errorf("%w: negative degree %d", ErrInvalidKnots, k)
	}
	if len(knots) < 2*(k+1) {
		return fmt.Errorf("%w: degree %d needs at least %d knots, got %d",
			ErrInvalidKnots, k, 2*(k+1), len(knots))
	}
	for i, t := range knots {
		if !growtube.IsFinite(t) {
			return fmt.Errorf("%w: knot %d is %g", ErrInvalidKnots, i, t)
		}
	}
	if !sort.Float64sAreSorted(knots) {
		return fmt.Errorf("%w: knots must be non-decreasing", ErrInvalidKnots)
	}
	if knots[k] == knots[len(knots)-k-1] {
		return fmt.Errorf("%w: empty base interval", ErrInvalidKnots)
	}
	return nil
}

// breakpoints returns the distinct values of points within [a, b], always
// including a and b, in ascending order.
func breakpoints(a, b float64, points []float64) []float64 {
	bp := make([]float64, 0, len(points)+2)
	bp = append(bp, a)
	for _, p := range points {
		if p > a && p < b {
			bp = append(bp, p)
		}
	}
	bp = append(bp, b)
	sort.Float64s(bp)
	unique := bp[:1]
	for _, p := range bp[1:] {
		if p != unique[len(unique)-1] {
			unique = append(unique, p)
		}
	}
	return unique
}
