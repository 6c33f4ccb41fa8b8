package motion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cphysics/internal/entity"
	"github.com/san-kum/cphysics/internal/vmath"
)

// ApplyForce adds an acceleration delta to e. A nil entity is a no-op.
func ApplyForce(e *entity.Entity, accel mgl64.Vec3) {
	if e == nil {
		return
	}
	acc := e.Acceleration()
	*acc = acc.Add(accel)
}

// separation returns the unit vector from b to a and the distance between
// them. ok is false when either is nil or they coincide.
func separation(a, b *entity.Entity) (dir mgl64.Vec3, dist float64, ok bool) {
	if a == nil || b == nil {
		return vmath.Zero, 0, false
	}
	dir, dist = vmath.Normalize(a.Position().Sub(*b.Position()))
	if dist < MinSeparation {
		return vmath.Zero, dist, false
	}
	return dir, dist, true
}

// ElectricForce returns the Coulomb force k·qa·qb/d² exerted on a by b,
// directed away from b for like charges. The force on b is its negation.
// ok is false for coincident or nil entities.
func ElectricForce(a, b *entity.Entity) (mgl64.Vec3, bool) {
	dir, d, ok := separation(a, b)
	if !ok {
		return vmath.Zero, false
	}
	return dir.Mul(K * a.Charge * b.Charge / (d * d)), true
}

// GravitationalForce returns the Newtonian force G·ma·mb/d² exerted on a by
// b, directed toward b. The force on b is its negation. Coincident entities
// use the same guard as ElectricForce.
func GravitationalForce(a, b *entity.Entity) (mgl64.Vec3, bool) {
	dir, d, ok := separation(a, b)
	if !ok {
		return vmath.Zero, false
	}
	return dir.Mul(-G * a.Mass * b.Mass / (d * d)), true
}

// applyPair converts forces to accelerations on every side that is neither
// static nor massless.
func applyPair(a, b *entity.Entity, fa mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	fb := fa.Mul(-1)
	if inv, err := a.InverseMass(); err == nil && !a.Static {
		ApplyForce(a, fa.Mul(inv))
	}
	if inv, err := b.InverseMass(); err == nil && !b.Static {
		ApplyForce(b, fb.Mul(inv))
	}
	return fa, fb
}

// ApplyElectricForce applies Coulomb's law to both entities and returns the
// force vectors on a and b. Coincident pairs are left untouched and yield
// zero forces, which also drops the very large forces of near-coincident pairs.
func ApplyElectricForce(a, b *entity.Entity) (fa, fb mgl64.Vec3) {
	f, ok := ElectricForce(a, b)
	if !ok {
		return vmath.Zero, vmath.Zero
	}
	return applyPair(a, b, f)
}

// ApplyUniversalGravitation applies Newton's law of gravitation to both
// entities and returns the force vectors on a and b.
func ApplyUniversalGravitation(a, b *entity.Entity) (fa, fb mgl64.Vec3) {
	f, ok := GravitationalForce(a, b)
	if !ok {
		return vmath.Zero, vmath.Zero
	}
	return applyPair(a, b, f)
}
