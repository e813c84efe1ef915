package view

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ZoomFactor is applied after zooming to fit whenever the view is reset.
const ZoomFactor = 1.4

// Axis names a fixed orthographic camera preset.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// ParseAxis accepts "x", "y" or "z" in any case.
func ParseAxis(s string) (Axis, error) {
	switch a := Axis(strings.ToLower(strings.TrimSpace(s))); a {
	case AxisX, AxisY, AxisZ:
		return a, nil
	}
	return "", fmt.Errorf("axis %q: %w", s, ErrUnknownAxis)
}

// Camera is a fixed orientation of the model relative to the viewer.
type Camera struct {
	Axis     Axis
	Position r3.Vec      // model translation
	Distance float64     // camera distance along z
	Rotation quat.Number // model rotation, unit quaternion
}

var presets = map[Axis]Camera{
	AxisX: {Axis: AxisX, Rotation: quat.Number{Real: 0.5, Imag: -0.5, Jmag: -0.5, Kmag: -0.5}},
	AxisY: {Axis: AxisY, Rotation: quat.Number{Real: 0.5, Imag: 0.5, Jmag: 0.5, Kmag: 0.5}},
	AxisZ: {Axis: AxisZ, Rotation: quat.Number{Real: 1}},
}

// Preset returns the camera for axis.
func Preset(axis Axis) (Camera, error) {
	c, ok := presets[axis]
	if !ok {
		return Camera{}, fmt.Errorf("preset %q: %w", axis, ErrUnknownAxis)
	}
	return c, nil
}

// View returns the preset in the eight-value layout 3Dmol's setView takes:
// position x, y, z, camera distance, then the quaternion x, y, z, w.
func (c Camera) View() [8]float64 {
	q := c.Rotation
	return [8]float64{
		c.Position.X, c.Position.Y, c.Position.Z, c.Distance,
		q.Imag, q.Jmag, q.Kmag, q.Real,
	}
}

// ViewAxis returns the model-space direction that points at the viewer.
func (c Camera) ViewAxis() r3.Vec {
	inv := r3.Rotation(quat.Conj(c.Rotation))
	return inv.Rotate(r3.Vec{Z: 1})
}
