package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cphysics/internal/quat"
	"github.com/san-kum/cphysics/internal/vmath"
)

// MaxNameLen is the longest name an entity keeps; longer names are truncated.
const MaxNameLen = 255

// MassEpsilon is the smallest mass that may be divided by.
const MassEpsilon = 2.220446049250313e-16

// DefaultMomentOfInertia is assigned by New.
const DefaultMomentOfInertia = 1.0

// Entity is a point or rigid body. Position, velocity and acceleration are
// reached through the accessor methods; the remaining fields are plain.
type Entity struct {
	Name   string
	Mass   float64
	Charge float64

	position     mgl64.Vec3
	velocity     mgl64.Vec3
	acceleration mgl64.Vec3

	Orientation         mgl64.Quat
	AngularVelocity     mgl64.Vec3
	AngularAcceleration mgl64.Vec3

	MomentOfInertia float64
	Restitution     float64
	RigidBody       bool
	Static          bool
}

// Options carries the optional initial kinematic state for New. A nil
// vector means zero.
type Options struct {
	Position     *mgl64.Vec3
	Velocity     *mgl64.Vec3
	Acceleration *mgl64.Vec3
	Restitution  float64
	RigidBody    bool
	Static       bool
}

// New returns a fully initialized entity with identity orientation, zero
// angular state and unit moment of inertia.
func New(name string, mass, charge float64, opts Options) *Entity {
	e := &Entity{
		Name:            truncateName(name),
		Mass:            mass,
		Charge:          charge,
		Orientation:     quat.Identity,
		MomentOfInertia: DefaultMomentOfInertia,
		Restitution:     opts.Restitution,
		RigidBody:       opts.RigidBody,
		Static:          opts.Static,
	}
	if opts.Position != nil {
		e.position = *opts.Position
	}
	if opts.Velocity != nil {
		e.velocity = *opts.Velocity
	}
	if opts.Acceleration != nil {
		e.acceleration = *opts.Acceleration
	}
	return e
}

func truncateName(name string) string {
	b := make([]byte, 0, len(name))
	for i := 0; i < len(name) && len(b) < MaxNameLen; i++ {
		c := name[i]
		if c == 0 {
			break
		}
		if c < 0x20 || c > 0x7e {
			continue
		}
		b = append(b, c)
	}
	return string(b)
}

// Position returns a live pointer to the position, or nil for a nil entity.
func (e *Entity) Position() *mgl64.Vec3 {
	if e == nil {
		return nil
	}
	return &e.position
}

// Velocity returns a live pointer to the velocity, or nil for a nil entity.
func (e *Entity) Velocity() *mgl64.Vec3 {
	if e == nil {
		return nil
	}
	return &e.velocity
}

// Acceleration returns a live pointer to the acceleration accumulator, or
// nil for a nil entity.
func (e *Entity) Acceleration() *mgl64.Vec3 {
	if e == nil {
		return nil
	}
	return &e.acceleration
}

// State returns copies of position, velocity and acceleration.
func (e *Entity) State() (pos, vel, acc mgl64.Vec3, err error) {
	if e == nil {
		return pos, vel, acc, ErrGetFailed
	}
	return e.position, e.velocity, e.acceleration, nil
}

func (e *Entity) SetPosition(x, y, z float64) error {
	if e == nil {
		return ErrSetFailed
	}
	e.position = mgl64.Vec3{x, y, z}
	return nil
}

func (e *Entity) SetVelocity(x, y, z float64) error {
	if e == nil {
		return ErrSetFailed
	}
	e.velocity = mgl64.Vec3{x, y, z}
	return nil
}

func (e *Entity) SetAcceleration(x, y, z float64) error {
	if e == nil {
		return ErrSetFailed
	}
	e.acceleration = mgl64.Vec3{x, y, z}
	return nil
}

func (e *Entity) SetAngularVelocity(x, y, z float64) error {
	if e == nil {
		return ErrSetFailed
	}
	e.AngularVelocity = mgl64.Vec3{x, y, z}
	return nil
}

func (e *Entity) SetAngularAcceleration(x, y, z float64) error {
	if e == nil {
		return ErrSetFailed
	}
	e.AngularAcceleration = mgl64.Vec3{x, y, z}
	return nil
}

// Distance is the straight-line distance between the positions of a and b.
// It is +Inf when either entity is nil.
func Distance(a, b *Entity) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}
	return vmath.Distance(a.position, b.position)
}

// LinearMomentum returns m·v, or zero for a nil entity.
func LinearMomentum(e *Entity) mgl64.Vec3 {
	if e == nil {
		return vmath.Zero
	}
	return e.velocity.Mul(e.Mass)
}

// KineticEnergy returns the translational kinetic energy ½·m·|v|², or zero
// for a nil entity.
func KineticEnergy(e *Entity) float64 {
	if e == nil {
		return 0
	}
	return 0.5 * e.Mass * vmath.Dot(e.velocity, e.velocity)
}

// InverseMass returns 1/m, or ErrDivisionByZero when m is below MassEpsilon.
func (e *Entity) InverseMass() (float64, error) {
	if e == nil {
		return 0, ErrNullEntity
	}
	if math.Abs(e.Mass) < MassEpsilon {
		return 0, ErrDivisionByZero
	}
	return 1 / e.Mass, nil
}

// Validate checks that e exists, is named and holds only finite values.
func Validate(e *Entity) error {
	if e == nil {
		return ErrNullEntity
	}
	if e.Name == "" {
		return &FieldError{Field: "name", Wrapped: ErrIncomplete}
	}

	scalars := []struct {
		name string
		v    float64
	}{
		{"mass", e.Mass},
		{"charge", e.Charge},
		{"moment_of_inertia", e.MomentOfInertia},
		{"coefficient_of_restitution", e.Restitution},
		{"quaternion.w", e.Orientation.W},
	}
	for _, s := range scalars {
		if math.IsNaN(s.v) || math.IsInf(s.v, 0) {
			return &FieldError{Field: s.name, Wrapped: ErrIncomplete}
		}
	}
	if e.Mass < 0 {
		return &FieldError{Field: "mass", Wrapped: ErrIncomplete}
	}

	vectors := []struct {
		name string
		v    mgl64.Vec3
	}{
		{"position", e.position},
		{"velocity", e.velocity},
		{"acceleration", e.acceleration},
		{"quaternion", e.Orientation.V},
		{"angular_velocity", e.AngularVelocity},
		{"angular_acceleration", e.AngularAcceleration},
	}
	for _, v := range vectors {
		if !vmath.IsFinite(v.v) {
			return &FieldError{Field: v.name, Wrapped: ErrIncomplete}
		}
	}
	return nil
}

// Clone returns an independent copy of e.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
