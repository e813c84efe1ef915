// Package bondlen maps element symbols to the effective covalent radius the
// bond-inference step of the renderer works with.
//
// The base values are the covalent radii of Cordero et al., "Covalent radii
// revisited", Dalton Trans. (2008). A handful of elements carry overrides,
// tuned by eye against reference structures, that win over the base value.
//
// The renderer adds BondFudge to the sum of two per-element bond lengths
// before comparing against the pair distance. BondLength subtracts
// FudgeCorrection from each radius so that the total threshold equals the
// sum of the table radii.
package bondlen
