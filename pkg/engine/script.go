package engine

import (
	"github.com/chazu/crystview/pkg/crystal"
	"github.com/chazu/crystview/pkg/supercell"
	"github.com/chazu/crystview/pkg/view"
)

// Script is the result of evaluating a structure script.
type Script struct {
	// Structure is nil when the script defines no atoms and no cell.
	Structure *crystal.Structure
	View      Overrides
}

// Overrides are the viewer settings a script chose with (view ...). Nil
// fields leave the caller's setting alone.
type Overrides struct {
	PackedCell *bool
	Supercell  *supercell.Extent
	Bonds      *bool
	VDWRadius  *bool
	AtomLabels *bool
	Camera     *view.Axis
}

// Apply returns p with every set override replacing the matching field.
// Camera is not a view parameter; callers read it directly.
func (o Overrides) Apply(p view.Params) view.Params {
	if o.PackedCell != nil {
		p.PackedCell = *o.PackedCell
	}
	if o.Supercell != nil {
		p.Supercell = *o.Supercell
	}
	if o.Bonds != nil {
		p.Bonds = *o.Bonds
	}
	if o.VDWRadius != nil {
		p.VDWRadius = *o.VDWRadius
	}
	if o.AtomLabels != nil {
		p.AtomLabels = *o.AtomLabels
	}
	return p
}

// IsZero reports whether no override is set.
func (o Overrides) IsZero() bool {
	return o == Overrides{}
}
