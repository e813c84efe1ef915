// Package kernel defines the abstract geometry kernel interface used to
// turn atoms, bonds and cell edges into triangle meshes. The sdfx
// subpackage is the implementation; scene code only sees this interface.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives, centred on the origin. Cylinders run along z.
	Sphere(radius float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	Union(solids ...Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, applied x, y, z

	// Output
	ToMesh(s Solid) (*Mesh, error)
	WriteSTL(s Solid, path string) error
}
