package supercell

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/crystview/pkg/crystal"
)

// Extent is the number of cells displayed along a, b and c.
type Extent struct {
	NX int `json:"nx"`
	NY int `json:"ny"`
	NZ int `json:"nz"`
}

// Unit is the 1×1×1 extent.
var Unit = Extent{NX: 1, NY: 1, NZ: 1}

func (e Extent) String() string {
	return fmt.Sprintf("%d×%d×%d", e.NX, e.NY, e.NZ)
}

// Validate returns ErrMalformedParams if any axis is below 1.
func (e Extent) Validate() error {
	for _, ax := range []struct {
		name string
		n    int
	}{{"nx", e.NX}, {"ny", e.NY}, {"nz", e.NZ}} {
		if ax.n < 1 {
			return fmt.Errorf("extent %s: %s = %d: %w", e, ax.name, ax.n, ErrMalformedParams)
		}
	}
	return nil
}

// Cells returns nx·ny·nz.
func (e Extent) Cells() int { return e.NX * e.NY * e.NZ }

// Offset is an integer cell index.
type Offset struct {
	I, J, K int
}

// IsInterior reports whether o lies inside the requested block
// (0 ≤ i < nx and likewise for j, k).
func IsInterior(o Offset, e Extent) bool {
	return o.I >= 0 && o.I < e.NX &&
		o.J >= 0 && o.J < e.NY &&
		o.K >= 0 && o.K < e.NZ
}

// Offsets lists the cells Expand visits. Unpacked expansion visits
// [0,n) per axis; packed expansion widens that to [-1,n].
func Offsets(e Extent, packed bool) []Offset {
	lo, pad := 0, 0
	if packed {
		lo, pad = -1, 1
	}
	out := make([]Offset, 0, (e.NX+2*pad)*(e.NY+2*pad)*(e.NZ+2*pad))
	for i := lo; i < e.NX+pad; i++ {
		for j := lo; j < e.NY+pad; j++ {
			for k := lo; k < e.NZ+pad; k++ {
				out = append(out, Offset{I: i, J: j, K: k})
			}
		}
	}
	return out
}

// Count returns the number of atoms unpacked expansion produces for n input
// atoms.
func Count(n int, e Extent) int { return n * e.Cells() }

// Expand returns the atoms displayed for the block e of lattice l.
//
// With packed false every input atom is translated by M·(i,j,k) for each
// cell of the block, without folding. With packed true the atoms are folded
// into the primary cell first; interior cells take every folded atom and the
// surrounding shell contributes only images whose fractional coordinates all
// lie in [-ε, n+ε].
//
// Either the full list is returned or an error; never a partial list.
func Expand(atoms []crystal.Atom, l *crystal.Lattice, e Extent, packed bool, opts ...Option) ([]crystal.Atom, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrNilLattice
	}
	o := gatherOptions(opts)

	if !packed {
		return tile(atoms, l, e), nil
	}
	return pack(atoms, l, e, o.eps), nil
}

func tile(atoms []crystal.Atom, l *crystal.Lattice, e Extent) []crystal.Atom {
	out := make([]crystal.Atom, 0, Count(len(atoms), e))
	for _, off := range Offsets(e, false) {
		shift := l.Translation(off.I, off.J, off.K)
		for _, a := range atoms {
			out = append(out, crystal.Translate(a, shift))
		}
	}
	return out
}

func pack(atoms []crystal.Atom, l *crystal.Lattice, e Extent, eps float64) []crystal.Atom {
	folded := make([]crystal.Atom, len(atoms))
	for i, a := range atoms {
		folded[i] = crystal.Fold(a, l)
	}

	hi := r3.Vec{X: float64(e.NX) + eps, Y: float64(e.NY) + eps, Z: float64(e.NZ) + eps}

	out := make([]crystal.Atom, 0, Count(len(atoms), e))
	for _, off := range Offsets(e, true) {
		shift := l.Translation(off.I, off.J, off.K)

		if IsInterior(off, e) {
			for _, a := range folded {
				out = append(out, crystal.Translate(a, shift))
			}
			continue
		}

		for _, a := range folded {
			img := crystal.Translate(a, shift)
			f := l.ToFractional(img.Position)
			if within(f.X, -eps, hi.X) && within(f.Y, -eps, hi.Y) && within(f.Z, -eps, hi.Z) {
				out = append(out, img)
			}
		}
	}
	return out
}

func within(x, lo, hi float64) bool {
	return x >= lo && x <= hi
}
