package render

import "towerstack/internal/vec"

// Handle is the visual proxy attached to a stacked layer or a falling
// fragment. The rendering subsystem owns the underlying box; holders only
// push transforms through it.
type Handle interface {
	SetPosition(pos vec.Vec3)
	SetScale(scale vec.Vec3)
	SetOrientation(q vec.Quat)
}

// Box is a renderable cuboid in the scene.
type Box struct {
	Position    vec.Vec3
	Orientation vec.Quat
	Size        vec.Vec3 // full extents at scale 1
	Scale       vec.Vec3 // per-axis multipliers
	Shade       uint8    // base shade level (1..MaxShade-1)
}

// SetPosition moves the box center.
func (b *Box) SetPosition(pos vec.Vec3) {
	b.Position = pos
}

// SetScale sets the per-axis scale multipliers.
func (b *Box) SetScale(scale vec.Vec3) {
	b.Scale = scale
}

// SetOrientation rotates the box.
func (b *Box) SetOrientation(q vec.Quat) {
	b.Orientation = q
}

// halfExtents returns the effective half extents after scaling.
func (b *Box) halfExtents() vec.Vec3 {
	return b.Size.Mul(b.Scale).Scale(0.5)
}

var _ Handle = (*Box)(nil)
