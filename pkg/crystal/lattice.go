package crystal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Params are the six conventional cell parameters.
// Lengths are in Å, angles in degrees.
type Params struct {
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	C     float64 `json:"c"`
	Alpha float64 `json:"alpha"` // angle between b and c
	Beta  float64 `json:"beta"`  // angle between a and c
	Gamma float64 `json:"gamma"` // angle between a and b
}

func (p Params) String() string {
	return fmt.Sprintf("a=%.4f b=%.4f c=%.4f α=%.2f β=%.2f γ=%.2f",
		p.A, p.B, p.C, p.Alpha, p.Beta, p.Gamma)
}

// Lattice is an immutable periodic cell. The zero value is not usable;
// construct with NewLattice or NewLatticeFromVectors.
type Lattice struct {
	params  Params
	matrix  *r3.Mat // basis vectors as columns
	inverse *r3.Mat
	det     float64
}

// NewLattice builds the cell matrix for p and caches its inverse.
//
// Convention: a = (a, 0, 0), b = (b cosγ, b sinγ, 0) and c is placed so
// that its angles to a and b are β and α.
func NewLattice(p Params, opts ...Option) (*Lattice, error) {
	o := gatherOptions(opts)

	if !positiveFinite(p.A) || !positiveFinite(p.B) || !positiveFinite(p.C) {
		return nil, fmt.Errorf("NewLattice: lengths %g %g %g: %w", p.A, p.B, p.C, ErrDegenerateLattice)
	}

	ca, cb, cg := cosDeg(p.Alpha), cosDeg(p.Beta), cosDeg(p.Gamma)
	sg := sinDeg(p.Gamma)
	if math.Abs(sg) < 1e-12 || math.IsNaN(sg) {
		return nil, fmt.Errorf("NewLattice: gamma %g: %w", p.Gamma, ErrDegenerateLattice)
	}

	cy := (ca - cb*cg) / sg
	rad := 1 - cb*cb - cy*cy
	if rad < 0 || math.IsNaN(rad) {
		return nil, fmt.Errorf("NewLattice: angles %s: %w", p, ErrDegenerateLattice)
	}

	a := r3.Vec{X: p.A}
	b := r3.Vec{X: p.B * cg, Y: p.B * sg}
	c := r3.Vec{X: p.C * cb, Y: p.C * cy, Z: p.C * math.Sqrt(rad)}

	return newLattice(p, a, b, c, o)
}

// NewLatticeFromVectors builds a lattice from explicit basis vectors (Å).
// The cell parameters are derived back from the vectors.
func NewLatticeFromVectors(a, b, c r3.Vec, opts ...Option) (*Lattice, error) {
	o := gatherOptions(opts)

	la, lb, lc := r3.Norm(a), r3.Norm(b), r3.Norm(c)
	if !positiveFinite(la) || !positiveFinite(lb) || !positiveFinite(lc) {
		return nil, fmt.Errorf("NewLatticeFromVectors: zero-length basis vector: %w", ErrDegenerateLattice)
	}
	p := Params{
		A:     la,
		B:     lb,
		C:     lc,
		Alpha: angleDeg(b, c),
		Beta:  angleDeg(a, c),
		Gamma: angleDeg(a, b),
	}
	return newLattice(p, a, b, c, o)
}

func newLattice(p Params, a, b, c r3.Vec, o options) (*Lattice, error) {
	m := r3.NewMat([]float64{
		a.X, b.X, c.X,
		a.Y, b.Y, c.Y,
		a.Z, b.Z, c.Z,
	})

	det := m.Det()
	if math.IsNaN(det) || math.Abs(det) < o.detTol {
		return nil, fmt.Errorf("lattice: |det| = %g below %g: %w", math.Abs(det), o.detTol, ErrDegenerateLattice)
	}

	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, fmt.Errorf("lattice: inverse: %v: %w", err, ErrDegenerateLattice)
	}
	inverse := r3.NewMat(nil)
	inverse.CloneFrom(&inv)

	return &Lattice{
		params:  p,
		matrix:  m,
		inverse: inverse,
		det:     det,
	}, nil
}

// Params returns the cell parameters the lattice was built from.
func (l *Lattice) Params() Params { return l.params }

// Vectors returns the basis vectors a, b and c in cartesian Å.
func (l *Lattice) Vectors() (a, b, c r3.Vec) {
	return l.matrix.VecCol(0), l.matrix.VecCol(1), l.matrix.VecCol(2)
}

// Matrix returns a copy of the cell matrix (basis vectors as columns).
func (l *Lattice) Matrix() *r3.Mat {
	m := r3.NewMat(nil)
	m.CloneFrom(l.matrix)
	return m
}

// Inverse returns a copy of the cached inverse cell matrix.
func (l *Lattice) Inverse() *r3.Mat {
	m := r3.NewMat(nil)
	m.CloneFrom(l.inverse)
	return m
}

// Volume returns the cell volume in Å³.
func (l *Lattice) Volume() float64 { return math.Abs(l.det) }

// ToCartesian converts fractional coordinates to cartesian Å.
func (l *Lattice) ToCartesian(frac r3.Vec) r3.Vec {
	return l.matrix.MulVec(frac)
}

// ToFractional converts cartesian Å to fractional coordinates.
func (l *Lattice) ToFractional(cart r3.Vec) r3.Vec {
	return l.inverse.MulVec(cart)
}

// Translation returns the cartesian lattice vector i·a + j·b + k·c.
func (l *Lattice) Translation(i, j, k int) r3.Vec {
	return l.matrix.MulVec(r3.Vec{X: float64(i), Y: float64(j), Z: float64(k)})
}

// Corners returns the eight cell corners. Corner n sits at fractional
// (n&1, (n>>1)&1, (n>>2)&1).
func (l *Lattice) Corners() [8]r3.Vec {
	var out [8]r3.Vec
	for n := range out {
		out[n] = l.Translation(n&1, (n>>1)&1, (n>>2)&1)
	}
	return out
}

func positiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 0) && !math.IsNaN(x)
}

// cosDeg is exact for right angles so orthogonal cells get exact zeros.
func cosDeg(deg float64) float64 {
	if deg == 90 {
		return 0
	}
	return math.Cos(deg * math.Pi / 180)
}

func sinDeg(deg float64) float64 {
	if deg == 90 {
		return 1
	}
	return math.Sin(deg * math.Pi / 180)
}

func angleDeg(p, q r3.Vec) float64 {
	cos := r3.Cos(p, q)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}
