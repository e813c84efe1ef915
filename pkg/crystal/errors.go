package crystal

import "errors"

// Every message is prefixed with "crystal: " so wrapped errors stay
// greppable. Callers match with errors.Is.
var (
	// ErrDegenerateLattice is returned when the cell parameters do not span
	// a volume: non-positive lengths, impossible angle combinations, or a
	// cell matrix whose |det| falls below the configured tolerance.
	ErrDegenerateLattice = errors.New("crystal: degenerate lattice")

	// ErrNilLattice is returned when an operation needs a lattice and got nil.
	ErrNilLattice = errors.New("crystal: lattice is nil")
)
