package crystal

import "math"

// DefaultDeterminantTolerance is the smallest |det(M)| (Å³) accepted for a
// cell matrix.
const DefaultDeterminantTolerance = 1e-8

const panicDetTolInvalid = "crystal: WithDeterminantTolerance: tol must be finite, non-negative"

// Option configures lattice construction.
type Option func(*options)

type options struct {
	detTol float64
}

// WithDeterminantTolerance overrides DefaultDeterminantTolerance.
// It panics on a negative, NaN or infinite tolerance.
func WithDeterminantTolerance(tol float64) Option {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicDetTolInvalid)
	}
	return func(o *options) {
		o.detTol = tol
	}
}

func gatherOptions(opts []Option) options {
	o := options{detTol: DefaultDeterminantTolerance}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
