// Package physics provides rigid-box dynamics for falling block fragments:
// gravity integration, a spatial-hash broadphase and an iterative impulse
// solver. The world has no floor; bodies rest only on other bodies.
package physics

import "towerstack/internal/vec"

// Body is a rigid box in the simulation world.
// A body with InvMass == 0 is static: it collides but never moves.
type Body struct {
	Position    vec.Vec3
	Velocity    vec.Vec3
	Orientation vec.Quat
	AngularVel  vec.Vec3
	HalfExtents vec.Vec3
	InvMass     float64
	Restitution float64 // Bounciness on contact (0 = dead stop, 1 = elastic)
	Friction    float64 // Tangential velocity retained per contact (0..1)

	sleeping   bool
	sleepTimer float64
}

// Default contact material. Block fragments should thud, not bounce.
const (
	defaultRestitution = 0.1
	defaultFriction    = 0.85
)

// NewStaticBox creates an immovable box (zero mass).
func NewStaticBox(pos, halfExtents vec.Vec3) *Body {
	return &Body{
		Position:    pos,
		Orientation: vec.QuatIdentity(),
		HalfExtents: halfExtents,
		Restitution: defaultRestitution,
		Friction:    defaultFriction,
	}
}

// NewDynamicBox creates a gravity-affected box with the given mass.
func NewDynamicBox(pos, halfExtents vec.Vec3, mass float64) *Body {
	b := NewStaticBox(pos, halfExtents)
	if mass > 0 {
		b.InvMass = 1.0 / mass
	}
	return b
}

// SetHalfExtents replaces the body's collision shape. Shapes are treated as
// immutable once attached, so a footprint change is a shape replacement.
func (b *Body) SetHalfExtents(halfExtents vec.Vec3) {
	b.HalfExtents = halfExtents
	b.Wake()
}

// SetMass changes the body's mass. A positive mass converts a static body
// into a dynamic one (used when a missed layer is handed over to gravity).
func (b *Body) SetMass(mass float64) {
	if mass <= 0 {
		b.InvMass = 0
		return
	}
	b.InvMass = 1.0 / mass
	b.Wake()
}

// Static reports whether the body participates in collision without moving.
func (b *Body) Static() bool {
	return b.InvMass == 0
}

// Sleeping reports whether the body has been put to rest by the solver.
func (b *Body) Sleeping() bool {
	return b.sleeping
}

// Wake reactivates a sleeping body.
func (b *Body) Wake() {
	b.sleeping = false
	b.sleepTimer = 0
}

// AABB returns the world-space bounding box of the (possibly rotated) body.
// The rotated box is bounded by projecting each local axis extent through
// the orientation and summing the absolute components.
func (b *Body) AABB() AABB {
	ex := b.Orientation.Rotate(vec.New(b.HalfExtents.X, 0, 0)).Abs()
	ey := b.Orientation.Rotate(vec.New(0, b.HalfExtents.Y, 0)).Abs()
	ez := b.Orientation.Rotate(vec.New(0, 0, b.HalfExtents.Z)).Abs()
	ext := ex.Add(ey).Add(ez)
	return AABB{
		Min: b.Position.Sub(ext),
		Max: b.Position.Add(ext),
	}
}
