// Package scene turns a view frame into renderable geometry: one sphere per
// displayed atom, a stick per inferred bond, the edges of the displayed cell
// block and a text label per atom.
package scene

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/crystview/pkg/bondlen"
	"github.com/chazu/crystview/pkg/crystal"
	"github.com/chazu/crystview/pkg/kernel"
	"github.com/chazu/crystview/pkg/supercell"
	"github.com/chazu/crystview/pkg/view"
)

// Mesh names.
const (
	AtomMeshPrefix = "atoms/"
	BondsMesh      = "bonds"
	CellMesh       = "cell"
)

// Label is a text annotation anchored at an atom.
type Label struct {
	Text     string     `json:"text"`
	Position [3]float64 `json:"position"`
	Color    string     `json:"color"`
	FontSize int        `json:"fontSize"`
	Bold     bool       `json:"bold"`
}

// Labels returns one element label per atom.
func Labels(atoms []crystal.Atom) []Label {
	out := make([]Label, len(atoms))
	for i, a := range atoms {
		p := a.Position
		out[i] = Label{
			Text:     a.Element,
			Position: [3]float64{p.X, p.Y, p.Z},
			Color:    labelColor,
			FontSize: 18,
			Bold:     true,
		}
	}
	return out
}

// Segment is a straight stick between two points.
type Segment struct {
	From, To r3.Vec
}

// CellEdges returns the twelve edges of the block of e cells starting at the
// lattice origin.
func CellEdges(l *crystal.Lattice, e supercell.Extent) []Segment {
	corner := func(n int) r3.Vec {
		return l.Translation((n&1)*e.NX, (n>>1&1)*e.NY, (n>>2&1)*e.NZ)
	}
	edges := make([]Segment, 0, 12)
	for n := 0; n < 8; n++ {
		for _, bit := range []int{1, 2, 4} {
			if n&bit == 0 {
				edges = append(edges, Segment{From: corner(n), To: corner(n | bit)})
			}
		}
	}
	return edges
}

// ColorOf returns the display colour for a mesh name produced by Tessellate.
// Elements without a CPK colour take a palette entry chosen by their
// position in elems, the sorted list of elements in the frame.
func ColorOf(name string, elems []string) string {
	switch name {
	case BondsMesh:
		return bondColor
	case CellMesh:
		return cellColor
	}
	elem := strings.TrimPrefix(name, AtomMeshPrefix)
	if c, ok := ElementColor(elem); ok {
		return c
	}
	i := sort.SearchStrings(elems, elem)
	return colorPalette[i%len(colorPalette)]
}

// builder caches prototype meshes so each distinct sphere or stick is only
// meshed once.
type builder struct {
	k      kernel.Kernel
	protos map[string]*kernel.Mesh
}

func (b *builder) proto(key string, mk func() kernel.Solid) (*kernel.Mesh, error) {
	if m, ok := b.protos[key]; ok {
		return m, nil
	}
	m, err := b.k.ToMesh(mk())
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", key, err)
	}
	b.protos[key] = m
	return m, nil
}

func (b *builder) sphere(r float64) (*kernel.Mesh, error) {
	return b.proto(fmt.Sprintf("sphere/%g", r), func() kernel.Solid { return b.k.Sphere(r) })
}

// stickAspect is the height-to-radius ratio of the prototype stick. A
// stubby prototype keeps marching cubes resolution on the radius; placement
// stretches it along z.
const stickAspect = 4

func (b *builder) stick(r float64) (*kernel.Mesh, error) {
	return b.proto(fmt.Sprintf("stick/%g", r), func() kernel.Solid { return b.k.Cylinder(stickAspect*r, r, 16) })
}

// orient returns the Euler angles (degrees, about y then z) that turn the z
// axis onto d.
func orient(d r3.Vec) (theta, phi float64) {
	l := r3.Norm(d)
	theta = math.Acos(math.Max(-1, math.Min(1, d.Z/l))) * 180 / math.Pi
	phi = math.Atan2(d.Y, d.X) * 180 / math.Pi
	return theta, phi
}

func (b *builder) segments(name string, segs []Segment, r float64) (*kernel.Mesh, error) {
	out := &kernel.Mesh{Name: name}
	if len(segs) == 0 {
		return out, nil
	}
	proto, err := b.stick(r)
	if err != nil {
		return nil, err
	}
	for _, s := range segs {
		d := r3.Sub(s.To, s.From)
		l := r3.Norm(d)
		if l == 0 {
			continue
		}
		theta, phi := orient(d)
		out.Append(proto.Placed(kernel.Placement{
			Scale:    r3.Vec{X: 1, Y: 1, Z: l / (stickAspect * r)},
			Rotation: kernel.EulerRotation(0, theta, phi),
			Offset:   r3.Scale(0.5, r3.Add(s.From, s.To)),
		}))
	}
	return out, nil
}

func bondSegments(atoms []crystal.Atom, bonds []Bond) []Segment {
	segs := make([]Segment, len(bonds))
	for i, bd := range bonds {
		segs[i] = Segment{From: atoms[bd.I].Position, To: atoms[bd.J].Position}
	}
	return segs
}

func checkFrame(f view.Frame) error {
	if f.Structure == nil {
		return view.ErrNoStructure
	}
	if f.Structure.Lattice == nil {
		return crystal.ErrNilLattice
	}
	return nil
}

// Tessellate produces the meshes for a frame: one "atoms/<El>" mesh per
// element, a "bonds" mesh when bonds are on, and the "cell" mesh. The frame
// is never modified.
func Tessellate(f view.Frame, k kernel.Kernel, t *bondlen.Table, st Style) ([]*kernel.Mesh, error) {
	if err := checkFrame(f); err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	b := &builder{k: k, protos: make(map[string]*kernel.Mesh)}

	byElem := make(map[string][]int)
	for i, a := range f.Atoms {
		byElem[a.Element] = append(byElem[a.Element], i)
	}
	elems := make([]string, 0, len(byElem))
	for e := range byElem {
		elems = append(elems, e)
	}
	sort.Strings(elems)

	var meshes []*kernel.Mesh
	for _, e := range elems {
		proto, err := b.sphere(st.AtomRadius(e, f.Params.VDWRadius))
		if err != nil {
			return nil, err
		}
		m := &kernel.Mesh{Name: AtomMeshPrefix + e}
		for _, i := range byElem[e] {
			m.Append(proto.Placed(kernel.At(f.Atoms[i].Position)))
		}
		meshes = append(meshes, m)
	}

	if f.Params.Bonds {
		bonds, err := InferBonds(f.Atoms, t)
		if err != nil {
			return nil, err
		}
		m, err := b.segments(BondsMesh, bondSegments(f.Atoms, bonds), st.StickRadius)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}

	m, err := b.segments(CellMesh, CellEdges(f.Structure.Lattice, f.Params.Supercell), st.CellEdgeRadius)
	if err != nil {
		return nil, err
	}
	meshes = append(meshes, m)

	return meshes, nil
}

// Solids builds the same scene as a single kernel solid for export. The cell
// edges are always present, so the union is never empty.
func Solids(f view.Frame, k kernel.Kernel, t *bondlen.Table, st Style) (kernel.Solid, error) {
	if err := checkFrame(f); err != nil {
		return nil, fmt.Errorf("solids: %w", err)
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}

	var parts []kernel.Solid
	for _, a := range f.Atoms {
		p := a.Position
		parts = append(parts, k.Translate(k.Sphere(st.AtomRadius(a.Element, f.Params.VDWRadius)), p.X, p.Y, p.Z))
	}

	stick := func(s Segment, r float64) {
		d := r3.Sub(s.To, s.From)
		l := r3.Norm(d)
		if l == 0 {
			return
		}
		theta, phi := orient(d)
		mid := r3.Scale(0.5, r3.Add(s.From, s.To))
		c := k.Rotate(k.Cylinder(l, r, 16), 0, theta, phi)
		parts = append(parts, k.Translate(c, mid.X, mid.Y, mid.Z))
	}

	if f.Params.Bonds {
		bonds, err := InferBonds(f.Atoms, t)
		if err != nil {
			return nil, err
		}
		for _, s := range bondSegments(f.Atoms, bonds) {
			stick(s, st.StickRadius)
		}
	}
	for _, s := range CellEdges(f.Structure.Lattice, f.Params.Supercell) {
		stick(s, st.CellEdgeRadius)
	}

	return k.Union(parts...), nil
}
