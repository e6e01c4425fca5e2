package estimate

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/growtube"
	"github.com/npillmayer/schuko"
)

// Options control the arc length reparameterization.
// Zero-valued fields select the corresponding default.
type Options struct {
	Degree       int     // degree of the fitted B-spline
	RevisedRatio float64 // damping of the parameter update, in (0,1]
	Tol          float64 // convergence tolerance for |1 - ratio|
	MaxIter      int     // give up after this many iterations
	KnotCount    int     // distinct knots of regenerated knot vectors
	QuadLimit    int     // subinterval limit of the arc length quadrature
}

// DefaultOptions returns the options used if clients do not care.
func DefaultOptions() Options {
	return Options{
		Degree:       3,
		RevisedRatio: 0.9,
		Tol:          1e-7,
		MaxIter:      50,
		KnotCount:    200,
		QuadLimit:    500,
	}
}

// withDefaults replaces zero fields by their defaults.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Degree == 0 {
		o.Degree = d.Degree
	}
	if o.RevisedRatio == 0 {
		o.RevisedRatio = d.RevisedRatio
	}
	if o.Tol == 0 {
		o.Tol = d.Tol
	}
	if o.MaxIter == 0 {
		o.MaxIter = d.MaxIter
	}
	if o.KnotCount == 0 {
		o.KnotCount = d.KnotCount
	}
	if o.QuadLimit == 0 {
		o.QuadLimit = d.QuadLimit
	}
	return o
}

// Validate checks the options after applying defaults.
func (o Options) Validate() error {
	o = o.withDefaults()
	switch {
	case o.Degree < 1:
		return fmt.Errorf("%w: spline degree %d < 1", growtube.ErrInvalidOption, o.Degree)
	case !(o.RevisedRatio > 0 && o.RevisedRatio <= 1):
		return fmt.Errorf("%w: revised ratio %g not in (0,1]", growtube.ErrInvalidOption, o.RevisedRatio)
	case !(o.Tol > 0 && o.Tol < 1):
		return fmt.Errorf("%w: tolerance %g", growtube.ErrInvalidOption, o.Tol)
	case o.MaxIter < 1:
		return fmt.Errorf("%w: max iterations %d", growtube.ErrInvalidOption, o.MaxIter)
	case o.KnotCount < 2:
		return fmt.Errorf("%w: knot count %d < 2", growtube.ErrInvalidOption, o.KnotCount)
	case o.QuadLimit < 1:
		return fmt.Errorf("%w: quadrature limit %d", growtube.ErrInvalidOption, o.QuadLimit)
	}
	return nil
}

// Configuration keys read by OptionsFromConfig.
const (
	KeyDegree          = "growtube.degree"
	KeyRevisedRatio    = "growtube.revised-ratio"
	KeyTolerance       = "growtube.tolerance"
	KeyMaxIterations   = "growtube.max-iterations"
	KeyKnots           = "growtube.knots"
	KeyQuadratureLimit = "growtube.quadrature-limit"
)

// OptionsFromConfig reads options from an application configuration.
// Keys which are not set keep their default values.
func OptionsFromConfig(conf schuko.Configuration) (Options, error) {
	opts := DefaultOptions()
	if conf == nil {
		return opts, nil
	}
	ints := []struct {
		key string
		dst *int
	}{
		{KeyDegree, &opts.Degree},
		{KeyMaxIterations, &opts.MaxIter},
		{KeyKnots, &opts.KnotCount},
		{KeyQuadratureLimit, &opts.QuadLimit},
	}
	for _, i := range ints {
		if !conf.IsSet(i.key) {
			continue
		}
		n, err := strconv.Atoi(conf.GetString(i.key))
		if err != nil {
			return opts, fmt.Errorf("%w: %s: %v", growtube.ErrInvalidOption, i.key, err)
		}
		*i.dst = n
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{KeyRevisedRatio, &opts.RevisedRatio},
		{KeyTolerance, &opts.Tol},
	}
	for _, f := range floats {
		if !conf.IsSet(f.key) {
			continue
		}
		x, err := strconv.ParseFloat(conf.GetString(f.key), 64)
		if err != nil {
			return opts, fmt.Errorf("%w: %s: %v", growtube.ErrInvalidOption, f.key, err)
		}
		*f.dst = x
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	tracer().P("options", opts).Debugf("options read from configuration")
	return opts, nil
}
