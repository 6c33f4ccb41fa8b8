// Package motion implements the force laws and the rotational integrator
// that write into an entity's acceleration and orientation state.
//
// Translational forces are expressed as accelerations and accumulate via
// [ApplyForce]. Pairwise laws ([ApplyElectricForce],
// [ApplyUniversalGravitation]) compute an inverse-square force along the
// line between two entities and apply F/m to every non-static side.
//
// Rotation follows two paths:
//
//   - continuous: [ApplyTorque] feeds angular acceleration, [UpdateRotation]
//     integrates it into angular velocity and orientation and clears it
//   - discrete: [RotateEntity] composes an axis-angle rotation onto the
//     current orientation
//
// The kernel does not look at [entity.Entity.RigidBody]; every non-static
// entity rotates.
package motion
