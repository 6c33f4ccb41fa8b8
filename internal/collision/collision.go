// Package collision resolves a single pair of entities in contact with an
// impulse along the contact normal.
//
// [Process] never fails: absent entities, two static entities, coincident
// positions and separating pairs all resolve to a no-op with zero loss.
package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cphysics/internal/entity"
	"github.com/san-kum/cphysics/internal/vmath"
)

const (
	// StaticSeparation is how far a dynamic entity is pushed back from a static one.
	StaticSeparation = 0.1
	// DynamicSeparation is split between two dynamic entities by inverse mass ratio.
	DynamicSeparation = 0.05
)

// Outcome names the branch Process took.
type Outcome uint8

const (
	// Degenerate: an entity is nil, both are static, or a dynamic participant is massless.
	Degenerate Outcome = iota
	// Coincident: the positions coincide, so there is no contact normal.
	Coincident
	// StaticContact: a dynamic entity bounced off a static one.
	StaticContact
	// Separating: two dynamic entities already moving apart.
	Separating
	// Resolved: two approaching dynamic entities exchanged an impulse.
	Resolved
)

// Outcomes lists every Outcome in declaration order.
var Outcomes = []Outcome{Degenerate, Coincident, StaticContact, Separating, Resolved}

func (o Outcome) String() string {
	switch o {
	case Degenerate:
		return "degenerate"
	case Coincident:
		return "coincident"
	case StaticContact:
		return "static_contact"
	case Separating:
		return "separating"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Changed reports whether the outcome mutated entity state.
func (o Outcome) Changed() bool {
	return o == StaticContact || o == Resolved
}

// Process resolves a collision between a and b. If loss is non-nil it
// receives the kinetic energy lost by the collision, written exactly once
// on every path.
//
// For a static/dynamic pair the contact normal points from the dynamic
// entity to the static one; the dynamic entity is moved back along it by
// StaticSeparation and its normal velocity is reflected and scaled by its
// own restitution. For two dynamic entities the normal points from a to b
// and the impulse uses the smaller of the two restitution coefficients.
func Process(a, b *entity.Entity, loss *float64) Outcome {
	lost := 0.0
	defer func() {
		if loss != nil {
			*loss = lost
		}
	}()

	if a == nil || b == nil || (a.Static && b.Static) {
		return Degenerate
	}

	if a.Static || b.Static {
		dyn, static := a, b
		if a.Static {
			dyn, static = b, a
		}
		n, dist := vmath.Normalize(static.Position().Sub(*dyn.Position()))
		if dist < vmath.Epsilon {
			return Coincident
		}
		lost = resolveStatic(dyn, n)
		return StaticContact
	}

	n, dist := vmath.Normalize(b.Position().Sub(*a.Position()))
	if dist < vmath.Epsilon {
		return Coincident
	}

	invA, errA := a.InverseMass()
	invB, errB := b.InverseMass()
	if errA != nil || errB != nil {
		return Degenerate
	}

	vRel := vmath.Dot(b.Velocity().Sub(*a.Velocity()), n)
	if vRel > 0 {
		return Separating
	}

	total := a.Mass + b.Mass
	pa, pb := a.Position(), b.Position()
	*pa = pa.Sub(n.Mul(DynamicSeparation * b.Mass / total))
	*pb = pb.Add(n.Mul(DynamicSeparation * a.Mass / total))

	e := math.Min(a.Restitution, b.Restitution)
	j := -(1 + e) * vRel / (invA + invB)
	impulse := n.Mul(j)

	before := entity.KineticEnergy(a) + entity.KineticEnergy(b)

	va, vb := a.Velocity(), b.Velocity()
	*va = va.Sub(impulse.Mul(invA))
	*vb = vb.Add(impulse.Mul(invB))

	lost = before - (entity.KineticEnergy(a) + entity.KineticEnergy(b))
	return Resolved
}

// resolveStatic pushes dyn back from the static partner along -n, reflects
// its normal velocity component and returns the energy lost.
func resolveStatic(dyn *entity.Entity, n mgl64.Vec3) float64 {
	p := dyn.Position()
	*p = p.Sub(n.Mul(StaticSeparation))

	v := dyn.Velocity()
	vn := vmath.Dot(*v, n)
	vn2 := -vn * dyn.Restitution
	*v = v.Add(n.Mul(vn2 - vn))

	return 0.5 * dyn.Mass * (vn*vn - vn2*vn2)
}
