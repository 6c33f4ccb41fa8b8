package motion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cphysics/internal/entity"
	"github.com/san-kum/cphysics/internal/quat"
	"github.com/san-kum/cphysics/internal/vmath"
)

// ApplyTorque adds torque/I to the angular acceleration of e. Nil and static
// entities and a non-positive moment of inertia make it a no-op.
func ApplyTorque(e *entity.Entity, torque mgl64.Vec3) {
	if e == nil || e.Static || e.MomentOfInertia <= 0 {
		return
	}
	e.AngularAcceleration = e.AngularAcceleration.Add(torque.Mul(1 / e.MomentOfInertia))
}

// UpdateRotation advances angular velocity by angular acceleration·dt,
// integrates the orientation with the new angular velocity and clears the
// angular acceleration. Torque must be reapplied every tick.
func UpdateRotation(e *entity.Entity, dt float64) {
	if e == nil || e.Static {
		return
	}
	e.AngularVelocity = e.AngularVelocity.Add(e.AngularAcceleration.Mul(dt))
	e.Orientation = quat.Integrate(e.Orientation, e.AngularVelocity, dt)
	e.AngularAcceleration = vmath.Zero
}

// RotateEntity applies a one-shot rotation of angle about axis after the
// current orientation. Static entities are rotated as well.
func RotateEntity(e *entity.Entity, axis mgl64.Vec3, angle float64) {
	if e == nil {
		return
	}
	r := quat.FromAxisAngle(axis, angle)
	e.Orientation = quat.Normalize(quat.Multiply(r, e.Orientation))
}
