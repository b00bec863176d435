package tower

import (
	"towerstack/internal/physics"
	"towerstack/internal/render"
)

// Layer is one placed or in-motion block of the tower. Its footprint
// shrinks in place when cut; the layer itself stays in the stack for the
// rest of the session.
type Layer struct {
	Visual render.Handle
	Body   *physics.Body

	Width float64 // current footprint along x
	Depth float64 // current footprint along z
	Axis  Axis    // movement / cut axis of this layer
	Index int     // position in the stack, 0 = foundation

	// Footprint at creation; visual scale factors are relative to it.
	origWidth float64
	origDepth float64
}

// SizeAlong returns the layer's current extent along the given axis.
func (l *Layer) SizeAlong(a Axis) float64 {
	if a == AxisX {
		return l.Width
	}
	return l.Depth
}

// Overhang is a detached, physics-driven fragment produced by a cut. Its
// footprint is fixed at creation and its body is dynamic from the start.
type Overhang struct {
	Visual render.Handle
	Body   *physics.Body

	Width float64
	Depth float64
}
