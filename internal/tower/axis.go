// Package tower holds the stack model (layers and detached overhangs) and
// the placement engine that cuts a dropped layer against the one beneath it.
package tower

import "towerstack/internal/vec"

// Axis is the horizontal movement axis of a layer. It alternates with every
// successfully placed layer.
type Axis int

const (
	AxisX Axis = iota
	AxisZ
)

// Other returns the complementary horizontal axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisZ
	}
	return AxisX
}

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "z"
}

// Of extracts the vector component along the axis.
func (a Axis) Of(v vec.Vec3) float64 {
	if a == AxisX {
		return v.X
	}
	return v.Z
}

// With returns v with the component along the axis replaced.
func (a Axis) With(v vec.Vec3, val float64) vec.Vec3 {
	if a == AxisX {
		v.X = val
	} else {
		v.Z = val
	}
	return v
}
