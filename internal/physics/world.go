package physics

import (
	"math"

	"towerstack/internal/vec"
)

// collisionCellSize is the broadphase cell size. Must cover the footprint
// of the largest block so every potential contact lands in the 3x3
// neighborhood query.
const collisionCellSize = 8.0

// Sleep thresholds. A body at rest for sleepDelay seconds with both
// velocities below the cutoffs stops being integrated until woken.
const (
	sleepLinearCutoff  = 0.08
	sleepAngularCutoff = 0.08
	sleepDelay         = 0.5
)

// positionSlop is penetration tolerated without positional correction,
// which keeps resting contacts from jittering.
const positionSlop = 0.005

// World is the process-wide simulation state: gravity, broadphase grid and
// solver iteration count are configured once at construction; after that
// the world is mutated only by stepping and by body add/remove.
type World struct {
	Gravity    vec.Vec3
	Iterations int

	bodies []*Body
	grid   *spatialGrid
}

// NewWorld creates a world with the given gravity and solver iteration
// count, covering [-halfExtent, halfExtent] horizontally. There is no
// floor: anything not resting on a body falls forever, and the owner is
// expected to despawn it.
func NewWorld(gravity vec.Vec3, iterations int, halfExtent float64) *World {
	if iterations < 1 {
		iterations = 1
	}
	return &World{
		Gravity:    gravity,
		Iterations: iterations,
		grid:       newSpatialGrid(halfExtent, collisionCellSize),
	}
}

// AddBody attaches a body to the world.
func (w *World) AddBody(b *Body) {
	w.bodies = append(w.bodies, b)
}

// RemoveBody detaches a body from the world.
func (w *World) RemoveBody(target *Body) {
	kept := w.bodies[:0]
	for _, b := range w.bodies {
		if b != target {
			kept = append(kept, b)
		}
	}
	w.bodies = kept
}

// Bodies returns the live body list. Callers must not mutate it.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// Step advances the simulation by dt seconds. A zero or negative dt leaves
// every body untouched.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	// Semi-implicit Euler: velocity first, then position.
	for _, b := range w.bodies {
		if b.Static() || b.sleeping {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Scale(dt))
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		if b.AngularVel.LengthSq() > 0 {
			b.Orientation = b.Orientation.Integrate(b.AngularVel, dt)
		}
	}

	w.resolveContacts()
	w.updateSleep(dt)
}

// resolveContacts runs broadphase and the iterative impulse solver.
func (w *World) resolveContacts() {
	w.grid.clear()
	for i, b := range w.bodies {
		w.grid.insert(b.Position.X, b.Position.Z, i)
	}

	for it := 0; it < w.Iterations; it++ {
		for i, b := range w.bodies {
			if b.Static() || b.sleeping {
				continue
			}

			aabb := b.AABB()
			w.grid.queryAround(b.Position.X, b.Position.Z, func(j int) bool {
				if j == i {
					return false
				}
				other := w.bodies[j]
				if !aabb.Overlaps(other.AABB()) {
					return false
				}
				resolvePair(b, other)
				aabb = b.AABB()
				return false
			})
		}
	}
}

// resolvePair applies an impulse along the minimum-penetration axis and
// separates the pair proportionally to their inverse masses.
func resolvePair(a, b *Body) {
	invSum := a.InvMass + b.InvMass
	if invSum == 0 {
		return
	}

	normal, depth := a.AABB().penetration(b.AABB())

	// Positional correction to resolve the overlap.
	if corr := depth - positionSlop; corr > 0 {
		move := normal.Scale(corr / invSum)
		a.Position = a.Position.Sub(move.Scale(a.InvMass))
		b.Position = b.Position.Add(move.Scale(b.InvMass))
	}

	// Relative velocity along the contact normal.
	vn := a.Velocity.Sub(b.Velocity).Dot(normal)
	if vn <= 0 {
		return // already separating
	}

	rest := math.Min(a.Restitution, b.Restitution)
	impulse := normal.Scale((1 + rest) * vn / invSum)
	a.Velocity = a.Velocity.Sub(impulse.Scale(a.InvMass))
	b.Velocity = b.Velocity.Add(impulse.Scale(b.InvMass))

	// Contact friction bleeds off motion tangential to the normal.
	fr := math.Sqrt(a.Friction * b.Friction)
	a.Velocity = dampTangential(a.Velocity, normal, fr)
	b.Velocity = dampTangential(b.Velocity, normal, fr)
	a.AngularVel = a.AngularVel.Damp(fr)
	b.AngularVel = b.AngularVel.Damp(fr)

	if !b.Static() {
		b.Wake()
	}
}

// dampTangential scales the velocity components orthogonal to the contact
// normal while leaving the normal component untouched.
func dampTangential(v, normal vec.Vec3, factor float64) vec.Vec3 {
	vn := normal.Scale(v.Dot(normal))
	return vn.Add(v.Sub(vn).Scale(factor))
}

// updateSleep puts bodies that have been still long enough to rest.
func (w *World) updateSleep(dt float64) {
	for _, b := range w.bodies {
		if b.Static() || b.sleeping {
			continue
		}
		still := b.Velocity.LengthSq() < sleepLinearCutoff*sleepLinearCutoff &&
			b.AngularVel.LengthSq() < sleepAngularCutoff*sleepAngularCutoff
		if !still {
			b.sleepTimer = 0
			continue
		}
		b.sleepTimer += dt
		if b.sleepTimer >= sleepDelay {
			b.sleeping = true
			b.Velocity = vec.Vec3{}
			b.AngularVel = vec.Vec3{}
		}
	}
}
