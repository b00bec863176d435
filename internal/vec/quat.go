package vec

import "math"

// Quat is a rotation quaternion (W scalar part).
type Quat struct {
	W, X, Y, Z float64
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatAxisAngle builds a rotation of angle radians around axis.
// The axis does not need to be normalized.
func QuatAxisAngle(axis Vec3, angle float64) Quat {
	n := axis.Normalize()
	half := angle * 0.5
	s := math.Sin(half)
	return Quat{
		W: math.Cos(half),
		X: n.X * s,
		Y: n.Y * s,
		Z: n.Z * s,
	}
}

// Mul composes two rotations (q then o applied in o-local order).
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Normalize renormalizes the quaternion to unit length.
// Integration drift makes this necessary every few steps.
func (q Quat) Normalize() Quat {
	mag := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if mag == 0 {
		return QuatIdentity()
	}
	inv := 1.0 / mag
	return Quat{W: q.W * inv, X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv}
}

// Rotate applies the rotation to a vector.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2*cross(q.xyz, cross(q.xyz, v) + w*v)
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Add(v.Scale(q.W))
	return v.Add(u.Cross(t).Scale(2))
}

// Integrate advances the rotation by an angular velocity over dt seconds.
func (q Quat) Integrate(angularVel Vec3, dt float64) Quat {
	w := Quat{W: 0, X: angularVel.X, Y: angularVel.Y, Z: angularVel.Z}
	dq := w.Mul(q)
	return Quat{
		W: q.W + dq.W*0.5*dt,
		X: q.X + dq.X*0.5*dt,
		Y: q.Y + dq.Y*0.5*dt,
		Z: q.Z + dq.Z*0.5*dt,
	}.Normalize()
}
