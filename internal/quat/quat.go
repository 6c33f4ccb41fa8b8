// Package quat implements the rotation kernel: unit quaternions in
// scalar-first form (w, x, y, z) stored as [mgl64.Quat].
package quat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the norm below which Normalize leaves a quaternion untouched.
const Epsilon = 1e-10

// Identity is the no-rotation quaternion.
var Identity = mgl64.Quat{W: 1}

// Multiply returns the Hamilton product p·q, which applies q first and p after it.
func Multiply(p, q mgl64.Quat) mgl64.Quat {
	return p.Mul(q)
}

// Conjugate negates the vector part. For unit quaternions this is the inverse rotation.
func Conjugate(q mgl64.Quat) mgl64.Quat {
	return q.Conjugate()
}

// Norm returns the four-component length of q.
func Norm(q mgl64.Quat) float64 {
	return q.Len()
}

// Normalize scales q to unit norm. A quaternion whose norm is below
// Epsilon is returned unchanged.
func Normalize(q mgl64.Quat) mgl64.Quat {
	n := Norm(q)
	if n < Epsilon {
		return q
	}
	return mgl64.Quat{W: q.W / n, V: q.V.Mul(1 / n)}
}

// FromAxisAngle builds (cos(θ/2), axis·sin(θ/2)) and normalizes it. Only the
// direction of axis matters for the resulting rotation axis.
func FromAxisAngle(axis mgl64.Vec3, angle float64) mgl64.Quat {
	s, c := math.Sincos(angle / 2)
	return Normalize(mgl64.Quat{W: c, V: axis.Mul(s)})
}

// FromEuler composes Tait-Bryan half angles (pitch about y, yaw about z, roll about x).
func FromEuler(pitch, yaw, roll float64) mgl64.Quat {
	sy, cy := math.Sincos(yaw * 0.5)
	sp, cp := math.Sincos(pitch * 0.5)
	sr, cr := math.Sincos(roll * 0.5)

	return Normalize(mgl64.Quat{
		W: cr*cp*cy + sr*sp*sy,
		V: mgl64.Vec3{
			sr*cp*cy - cr*sp*sy,
			cr*sp*cy + sr*cp*sy,
			cr*cp*sy - sr*sp*cy,
		},
	})
}

// Rotate computes q·v·q* with v embedded as a pure quaternion. For a
// non-unit q the result is also scaled by |q|².
func Rotate(v mgl64.Vec3, q mgl64.Quat) mgl64.Vec3 {
	return q.Mul(mgl64.Quat{V: v}).Mul(q.Conjugate()).V
}

// Integrate advances q by one explicit Euler step of dq/dt = ½·ω·q and
// renormalizes. Orientation error grows with |ω|·dt; only the magnitude is
// corrected.
func Integrate(q mgl64.Quat, omega mgl64.Vec3, dt float64) mgl64.Quat {
	dq := Multiply(mgl64.Quat{V: omega}, q)
	h := 0.5 * dt
	return Normalize(mgl64.Quat{
		W: q.W + dq.W*h,
		V: q.V.Add(dq.V.Mul(h)),
	})
}
