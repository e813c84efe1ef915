package supercell

import "errors"

var (
	// ErrMalformedParams is returned when an extent axis is below 1.
	// Expansion never starts for such an extent.
	ErrMalformedParams = errors.New("supercell: malformed params")

	// ErrNilLattice is returned when Expand is called without a lattice.
	ErrNilLattice = errors.New("supercell: lattice is nil")
)
