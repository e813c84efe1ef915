package kernel

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // e.g. "atoms/Fe", "bonds", "cell"
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Append copies the geometry of o onto the end of m, re-basing its indices.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, o.Vertices...)
	m.Normals = append(m.Normals, o.Normals...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// Placement positions a prototype mesh: scale per axis, then rotate, then
// translate.
type Placement struct {
	Scale    r3.Vec
	Rotation r3.Rotation
	Offset   r3.Vec
}

// At is the placement that only translates.
func At(offset r3.Vec) Placement {
	return Placement{Scale: r3.Vec{X: 1, Y: 1, Z: 1}, Rotation: r3.Rotation{Real: 1}, Offset: offset}
}

// EulerRotation returns the rotation Kernel.Rotate applies for the same
// angles in degrees: about x, then y, then z.
func EulerRotation(x, y, z float64) r3.Rotation {
	rx := r3.NewRotation(x*math.Pi/180, r3.Vec{X: 1})
	ry := r3.NewRotation(y*math.Pi/180, r3.Vec{Y: 1})
	rz := r3.NewRotation(z*math.Pi/180, r3.Vec{Z: 1})
	q := quat.Mul(quat.Number(rz), quat.Mul(quat.Number(ry), quat.Number(rx)))
	return r3.Rotation(q)
}

// Placed returns a copy of m moved by p. Normals are transformed by the
// inverse scale and renormalised.
func (m *Mesh) Placed(p Placement) *Mesh {
	out := &Mesh{
		Vertices: make([]float32, len(m.Vertices)),
		Normals:  make([]float32, len(m.Normals)),
		Indices:  append([]uint32(nil), m.Indices...),
		Name:     m.Name,
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		v := r3.Vec{
			X: float64(m.Vertices[i]) * p.Scale.X,
			Y: float64(m.Vertices[i+1]) * p.Scale.Y,
			Z: float64(m.Vertices[i+2]) * p.Scale.Z,
		}
		v = r3.Add(p.Rotation.Rotate(v), p.Offset)
		out.Vertices[i], out.Vertices[i+1], out.Vertices[i+2] = float32(v.X), float32(v.Y), float32(v.Z)
	}
	for i := 0; i+2 < len(m.Normals); i += 3 {
		n := r3.Vec{
			X: float64(m.Normals[i]) / p.Scale.X,
			Y: float64(m.Normals[i+1]) / p.Scale.Y,
			Z: float64(m.Normals[i+2]) / p.Scale.Z,
		}
		n = p.Rotation.Rotate(n)
		if l := r3.Norm(n); l > 0 {
			n = r3.Scale(1/l, n)
		}
		out.Normals[i], out.Normals[i+1], out.Normals[i+2] = float32(n.X), float32(n.Y), float32(n.Z)
	}
	return out
}
