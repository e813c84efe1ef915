package supercell

import "math"

// DefaultBoundaryEpsilon is the fractional tolerance for admitting boundary
// shell images. It is a calibrated constant; changing it changes which
// near-face atoms are displayed.
const DefaultBoundaryEpsilon = 1e-4

const panicEpsilonInvalid = "supercell: WithBoundaryEpsilon: eps must be finite, non-negative"

// Option configures Expand.
type Option func(*options)

type options struct {
	eps float64
}

// WithBoundaryEpsilon overrides DefaultBoundaryEpsilon.
// It panics on a negative, NaN or infinite eps.
func WithBoundaryEpsilon(eps float64) Option {
	if eps < 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic(panicEpsilonInvalid)
	}
	return func(o *options) {
		o.eps = eps
	}
}

func gatherOptions(opts []Option) options {
	o := options{eps: DefaultBoundaryEpsilon}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
