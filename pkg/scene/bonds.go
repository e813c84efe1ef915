package scene

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/crystview/pkg/bondlen"
	"github.com/chazu/crystview/pkg/crystal"
)

// MinBondDistanceSq is the squared distance (Å²) below which two atoms are
// treated as overlapping images rather than bonded.
const MinBondDistanceSq = 0.5

// Bond joins atoms I < J of a displayed atom list.
type Bond struct {
	I, J int
}

// InferBonds connects every pair whose squared distance d² satisfies
// MinBondDistanceSq ≤ d² < (bl₁ + bl₂ + bondlen.BondFudge)², with bl the
// table's bond length for each element. Only a strict table can fail.
func InferBonds(atoms []crystal.Atom, t *bondlen.Table) ([]Bond, error) {
	bl := make([]float64, len(atoms))
	cache := make(map[string]float64)
	for i, a := range atoms {
		if v, ok := cache[a.Element]; ok {
			bl[i] = v
			continue
		}
		v, err := t.BondLength(a.Element)
		if err != nil {
			return nil, fmt.Errorf("infer bonds: atom %d: %w", i, err)
		}
		cache[a.Element] = v
		bl[i] = v
	}

	var bonds []Bond
	for i := 0; i < len(atoms); i++ {
		for j := i + 1; j < len(atoms); j++ {
			d := r3.Sub(atoms[i].Position, atoms[j].Position)
			d2 := r3.Dot(d, d)
			if d2 < MinBondDistanceSq {
				continue
			}
			max := bl[i] + bl[j] + bondlen.BondFudge
			if d2 < max*max {
				bonds = append(bonds, Bond{I: i, J: j})
			}
		}
	}
	return bonds, nil
}
