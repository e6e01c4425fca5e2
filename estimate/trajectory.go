package estimate

import (
	"fmt"

	"github.com/npillmayer/growtube"
	"github.com/npillmayer/growtube/bspline"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Trajectory is a growth trajectory with arc length parameters.
// Arclengths[0] is 0 and the sequence is non-decreasing.
type Trajectory struct {
	Coords      []r3.Vec
	Thicknesses []float64
	Arclengths  []float64
}

// Len returns the number of samples.
func (tr *Trajectory) Len() int {
	return len(tr.Coords)
}

// DeriveTrajectory computes chord length arc length parameters for a sequence
// of samples. If adjustDirection is set and the thickness decreases along the
// samples (the fitted growth rate is negative), the trajectory is reversed so
// that it runs from apex to aperture.
func DeriveTrajectory(samples []growtube.Sample, adjustDirection bool) (*Trajectory, error) {
	n := len(samples)
	if n < 2 {
		return nil, fmt.Errorf("%w: trajectory needs at least 2 samples, have %d",
			growtube.ErrMalformedInput, n)
	}
	tr := &Trajectory{
		Coords:      make([]r3.Vec, n),
		Thicknesses: make([]float64, n),
		Arclengths:  make([]float64, n),
	}
	for i, s := range samples {
		tr.Coords[i] = s.Pos
		tr.Thicknesses[i] = s.Thickness
		if i > 0 {
			tr.Arclengths[i] = s.Distance(samples[i-1])
		}
	}
	floats.CumSum(tr.Arclengths, tr.Arclengths)
	if !adjustDirection {
		return tr, nil
	}
	e, _, err := EstimateGrowthRate(tr.Arclengths, tr.Thicknesses)
	if err != nil {
		return nil, err
	}
	if e < 0 {
		tracer().Infof("growth rate %g < 0, reversing trajectory", e)
		tr.reverse()
	}
	return tr, nil
}

// reverse turns the trajectory around, keeping the arc lengths zero-based.
func (tr *Trajectory) reverse() {
	n := tr.Len()
	total := tr.Arclengths[n-1]
	a := make([]float64, n)
	for i := range a {
		a[i] = total - tr.Arclengths[n-1-i]
	}
	tr.Arclengths = a
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		tr.Coords[i], tr.Coords[j] = tr.Coords[j], tr.Coords[i]
		tr.Thicknesses[i], tr.Thicknesses[j] = tr.Thicknesses[j], tr.Thicknesses[i]
	}
}

// Reparameterize runs FitArclength on the trajectory, starting with a clamped
// knot vector over the chord length range.
func (tr *Trajectory) Reparameterize(opts Options) (*Reparameterization, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if tr.Len() < 2 {
		return nil, fmt.Errorf("%w: trajectory needs at least 2 samples", growtube.ErrMalformedInput)
	}
	a := tr.Arclengths
	knots, err := bspline.GenerateKnots(a[0], a[len(a)-1], opts.KnotCount, opts.Degree+1)
	if err != nil {
		return nil, err
	}
	return FitArclength(a, tr.Coords, knots, opts)
}

// Estimate reparameterizes the trajectory by arc length and fits the growth
// model to the thicknesses over the corrected arc lengths.
func (tr *Trajectory) Estimate(opts Options) (*Reparameterization, GrowthFit, error) {
	rep, err := tr.Reparameterize(opts)
	if err != nil {
		return nil, GrowthFit{}, err
	}
	fit, err := FitGrowthRate(rep.Arclengths, tr.Thicknesses)
	if err != nil {
		return nil, GrowthFit{}, err
	}
	tracer().Infof("growth trajectory estimate: %s", fit)
	return rep, fit, nil
}
