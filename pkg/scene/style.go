package scene

import (
	"errors"
	"fmt"
	"math"
)

// Style sizes the rendered primitives. Lengths are in Å.
type Style struct {
	SphereScale    float64 // atom radius as a fraction of the vdW radius
	VDWScale       float64 // replaces SphereScale when VDWRadius is on
	StickRadius    float64
	CellEdgeRadius float64
}

// DefaultStyle matches the ball-and-stick look of the web viewer.
func DefaultStyle() Style {
	return Style{
		SphereScale:    0.3,
		VDWScale:       1.0,
		StickRadius:    0.2,
		CellEdgeRadius: 0.03,
	}
}

var errBadStyle = errors.New("scene: style values must be positive and finite")

// Validate rejects zero, negative or non-finite sizes.
func (s Style) Validate() error {
	for _, v := range []float64{s.SphereScale, s.VDWScale, s.StickRadius, s.CellEdgeRadius} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%+v: %w", s, errBadStyle)
		}
	}
	return nil
}

// AtomRadius is the drawn sphere radius for elem.
func (s Style) AtomRadius(elem string, vdw bool) float64 {
	scale := s.SphereScale
	if vdw {
		scale = s.VDWScale
	}
	return VDWRadius(elem) * scale
}
