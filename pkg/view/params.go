package view

import (
	"fmt"

	"github.com/chazu/crystview/pkg/crystal"
	"github.com/chazu/crystview/pkg/supercell"
)

// Params are the viewer toggles. Every field is meaningful; there is no
// defaulting here.
type Params struct {
	// PackedCell folds atoms into the primary cell and adds the boundary
	// images cut by the block faces.
	PackedCell bool `json:"packedCell"`

	Supercell supercell.Extent `json:"supercell"`

	// Bonds, VDWRadius and AtomLabels are passed through to the renderer.
	Bonds      bool `json:"bonds"`
	VDWRadius  bool `json:"vdwRadius"`
	AtomLabels bool `json:"atomLabels"`
}

// Validate rejects malformed supercell extents.
func (p Params) Validate() error {
	if err := p.Supercell.Validate(); err != nil {
		return fmt.Errorf("view params: %w", err)
	}
	return nil
}

// Derive is the pure re-derivation of the displayed atoms from a structure
// and params.
func Derive(s *crystal.Structure, p Params, opts ...supercell.Option) ([]crystal.Atom, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNoStructure
	}
	if s.Lattice == nil {
		return nil, fmt.Errorf("derive: %w", crystal.ErrNilLattice)
	}
	return supercell.Expand(s.Atoms, s.Lattice, p.Supercell, p.PackedCell, opts...)
}
