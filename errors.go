package growtube

import "errors"

// Errors shared by all packages of the growing tube model. Callers should
// test for them with errors.Is, as they are usually wrapped with context.
var (
	// ErrUnsupportedModel indicates shape parameters which vary along the
	// tube. Only constant growth rate, curvature and torsion are modelled.
	ErrUnsupportedModel = errors.New("not implemented: non-constant shape parameters")
	// ErrSingularGeometry indicates parameters for which the closed forms
	// divide by zero (D = sqrt(C²+T²) = 0, or E = 0).
	ErrSingularGeometry = errors.New("singular tube geometry")
	// ErrIllConditionedFit indicates a least-squares fit without a unique
	// solution.
	ErrIllConditionedFit = errors.New("ill-conditioned fit")
	// ErrNonConvergence indicates an iteration which did not reach its
	// tolerance within the iteration limit.
	ErrNonConvergence = errors.New("did not converge")
	// ErrMalformedInput indicates a digitizer file which cannot be parsed.
	ErrMalformedInput = errors.New("malformed input")
	// ErrInvalidRange indicates an empty or reversed interval.
	ErrInvalidRange = errors.New("invalid range")
	// ErrShapeMismatch indicates input sequences of incompatible lengths.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidFrame indicates a non-positive initial radius or an
	// orientation which is not a rotation.
	ErrInvalidFrame = errors.New("invalid initial frame")
	// ErrInvalidOption indicates an option value out of range.
	ErrInvalidOption = errors.New("invalid option")
)
