// Package field converts external field descriptors into acceleration
// contributions on an entity. Contributions add to the entity's
// acceleration accumulator, so several fields compose within one tick.
package field

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cphysics/internal/entity"
	"github.com/san-kum/cphysics/internal/vmath"
)

// Gravitational is a uniform gravitational field. Direction is used as
// given; supply a unit vector if magnitude is meant as g.
type Gravitational struct {
	Magnitude float64
	Direction mgl64.Vec3
}

// Electric is a uniform electric field.
type Electric struct {
	Magnitude float64
	Direction mgl64.Vec3
}

// Magnetic is a uniform magnetic field. Position is carried for callers
// that track the field source; the Lorentz law here does not read it.
type Magnetic struct {
	Magnitude float64
	Direction mgl64.Vec3
	Position  mgl64.Vec3
}

// Code enumerates every outcome of field application.
type Code uint8

const (
	OK Code = iota
	NullPointer
	InvalidMass
	InvalidCharge
	StaticObject
)

// Codes lists every Code in declaration order.
var Codes = []Code{OK, NullPointer, InvalidMass, InvalidCharge, StaticObject}

func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case NullPointer:
		return "null_pointer"
	case InvalidMass:
		return "invalid_mass"
	case InvalidCharge:
		return "invalid_charge"
	case StaticObject:
		return "static_object"
	default:
		return "unknown"
	}
}

var (
	ErrNullPointer   = errors.New("field: null pointer")
	ErrInvalidMass   = errors.New("field: invalid mass")
	ErrInvalidCharge = errors.New("field: invalid charge")
	ErrStaticObject  = errors.New("field: static object")
)

// CodeOf maps err to its Code. Errors from outside this package map to NullPointer.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, ErrInvalidMass):
		return InvalidMass
	case errors.Is(err, ErrInvalidCharge):
		return InvalidCharge
	case errors.Is(err, ErrStaticObject):
		return StaticObject
	default:
		return NullPointer
	}
}

// Epsilon is the threshold below which mass or charge counts as zero.
const Epsilon = entity.MassEpsilon

func check(e *entity.Entity, present bool) error {
	if e == nil || !present {
		return ErrNullPointer
	}
	if e.Static {
		return ErrStaticObject
	}
	return nil
}

func checkMass(e *entity.Entity) error {
	if e.Mass < Epsilon {
		return ErrInvalidMass
	}
	return nil
}

// ApplyGravitational adds magnitude·direction to the acceleration of e.
func ApplyGravitational(e *entity.Entity, g *Gravitational) error {
	if err := check(e, g != nil); err != nil {
		return err
	}
	acc := e.Acceleration()
	*acc = acc.Add(g.Direction.Mul(g.Magnitude))
	return nil
}

// ApplyElectric adds (q·E/m)·direction to the acceleration of e.
func ApplyElectric(e *entity.Entity, f *Electric) error {
	if err := check(e, f != nil); err != nil {
		return err
	}
	if err := checkMass(e); err != nil {
		return err
	}
	acc := e.Acceleration()
	*acc = acc.Add(f.Direction.Mul(e.Charge * f.Magnitude / e.Mass))
	return nil
}

// ApplyMagnetic adds the Lorentz acceleration (q·B/m)·(v × direction) to e.
// A charge below Epsilon is rejected with ErrInvalidCharge rather than
// silently contributing nothing.
func ApplyMagnetic(e *entity.Entity, f *Magnetic) error {
	if err := check(e, f != nil); err != nil {
		return err
	}
	if err := checkMass(e); err != nil {
		return err
	}
	if math.Abs(e.Charge) < Epsilon {
		return ErrInvalidCharge
	}
	dir := vmath.Cross(*e.Velocity(), f.Direction)
	acc := e.Acceleration()
	*acc = acc.Add(dir.Mul(e.Charge * f.Magnitude / e.Mass))
	return nil
}
