// Package crystal holds the periodic structure model used by crystview:
// atoms with cartesian positions, the lattice that repeats them, and the
// folding operation that maps any atom onto its image inside the primary
// cell.
//
// A Lattice is built once from the six cell parameters (three lengths in Å
// and three angles in degrees) using the usual crystallographic convention:
// a along x, b in the xy-plane, c completing the right-handed basis. The
// cell matrix stores the basis vectors as columns, so
//
//	cart = M · frac
//	frac = M⁻¹ · cart
//
// The inverse is computed once in the constructor and reused for every
// conversion. Cells whose determinant is (nearly) zero are rejected with
// ErrDegenerateLattice.
//
// Everything in this package is pure: no logging, no I/O, no shared state.
package crystal
