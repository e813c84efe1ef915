package crystal

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// foldSnap collapses wrapped coordinates that land a hair below 1.0 after
// the cartesian round trip back onto 0.
const foldSnap = 1e-12

// Atom is a chemical element at a cartesian position (Å).
// Atoms are values; transformations return new atoms.
type Atom struct {
	Element  string `json:"element"`
	Position r3.Vec `json:"position"`
}

// Translate returns a moved by v.
func Translate(a Atom, v r3.Vec) Atom {
	return Atom{Element: a.Element, Position: r3.Add(a.Position, v)}
}

// Fold returns the image of a inside the primary cell of l: its fractional
// coordinates wrapped into [0,1) and converted back to cartesian.
// Any lattice translate of the same site folds to the same position.
func Fold(a Atom, l *Lattice) Atom {
	frac := FoldFractional(l.ToFractional(a.Position))
	return Atom{Element: a.Element, Position: l.ToCartesian(frac)}
}

// FoldFractional wraps each component of f into [0,1) using the floored
// modulo ((x mod 1) + 1) mod 1.
func FoldFractional(f r3.Vec) r3.Vec {
	return r3.Vec{X: wrapUnit(f.X), Y: wrapUnit(f.Y), Z: wrapUnit(f.Z)}
}

func wrapUnit(x float64) float64 {
	w := math.Mod(math.Mod(x, 1)+1, 1)
	if 1-w < foldSnap {
		return 0
	}
	return w
}

// Structure is one loaded crystal: a lattice and the atoms of one period.
type Structure struct {
	Lattice *Lattice
	Atoms   []Atom
}

// NewStructure copies atoms so later changes to the caller's slice do not
// leak into the structure.
func NewStructure(l *Lattice, atoms []Atom) *Structure {
	cp := make([]Atom, len(atoms))
	copy(cp, atoms)
	return &Structure{Lattice: l, Atoms: cp}
}

// Len returns the number of atoms in the period.
func (s *Structure) Len() int { return len(s.Atoms) }

// Elements returns the distinct element symbols, sorted.
func (s *Structure) Elements() []string {
	seen := make(map[string]struct{}, len(s.Atoms))
	for _, a := range s.Atoms {
		seen[a.Element] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Fractional returns the fractional coordinates of every atom, in order.
func (s *Structure) Fractional() ([]r3.Vec, error) {
	if s.Lattice == nil {
		return nil, ErrNilLattice
	}
	out := make([]r3.Vec, len(s.Atoms))
	for i, a := range s.Atoms {
		out[i] = s.Lattice.ToFractional(a.Position)
	}
	return out, nil
}
