package physics

import "towerstack/internal/vec"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max vec.Vec3
}

// Overlaps reports whether two boxes intersect.
func (a AABB) Overlaps(o AABB) bool {
	return a.Min.X <= o.Max.X && a.Max.X >= o.Min.X &&
		a.Min.Y <= o.Max.Y && a.Max.Y >= o.Min.Y &&
		a.Min.Z <= o.Max.Z && a.Max.Z >= o.Min.Z
}

// Center returns the box midpoint.
func (a AABB) Center() vec.Vec3 {
	return a.Min.Add(a.Max).Scale(0.5)
}

// penetration returns the overlap normal (pointing from a toward o) and
// depth along the axis of minimum penetration. Valid only when the boxes
// overlap.
func (a AABB) penetration(o AABB) (normal vec.Vec3, depth float64) {
	dx1 := a.Max.X - o.Min.X // push o in +x
	dx2 := o.Max.X - a.Min.X // push o in -x
	dy1 := a.Max.Y - o.Min.Y
	dy2 := o.Max.Y - a.Min.Y
	dz1 := a.Max.Z - o.Min.Z
	dz2 := o.Max.Z - a.Min.Z

	depth = dx1
	normal = vec.New(1, 0, 0)
	if dx2 < depth {
		depth = dx2
		normal = vec.New(-1, 0, 0)
	}
	if dy1 < depth {
		depth = dy1
		normal = vec.New(0, 1, 0)
	}
	if dy2 < depth {
		depth = dy2
		normal = vec.New(0, -1, 0)
	}
	if dz1 < depth {
		depth = dz1
		normal = vec.New(0, 0, 1)
	}
	if dz2 < depth {
		depth = dz2
		normal = vec.New(0, 0, -1)
	}
	return normal, depth
}
