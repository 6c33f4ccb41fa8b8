// Package report renders entity state and outcome codes for humans.
package report

import (
	"errors"

	"github.com/san-kum/cphysics/internal/collision"
	"github.com/san-kum/cphysics/internal/entity"
	"github.com/san-kum/cphysics/internal/field"
)

const unknown = "Unknown error"

// DescribeEntity returns the description of an entity outcome.
func DescribeEntity(c entity.Code) string {
	switch c {
	case entity.OK:
		return "Operation completed successfully"
	case entity.SetFailed:
		return "Operation set failed"
	case entity.GetFailed:
		return "Operation get failed"
	case entity.NullEntity:
		return "Entity is null pointer error"
	case entity.Incomplete:
		return "Entity not fully defined error"
	case entity.DivisionByZero:
		return "Division by zero error"
	default:
		return unknown
	}
}

// DescribeField returns the description of a field outcome.
func DescribeField(c field.Code) string {
	switch c {
	case field.OK:
		return "Field applied successfully"
	case field.NullPointer:
		return "Entity or field descriptor is missing"
	case field.InvalidMass:
		return "Entity mass is too small for this field"
	case field.InvalidCharge:
		return "Entity charge is too small for this field"
	case field.StaticObject:
		return "Field cannot act on a static entity"
	default:
		return unknown
	}
}

// DescribeCollision returns the description of a collision branch.
func DescribeCollision(o collision.Outcome) string {
	switch o {
	case collision.Degenerate:
		return "No collision: missing, static or massless participants"
	case collision.Coincident:
		return "No collision: positions coincide, contact normal undefined"
	case collision.StaticContact:
		return "Dynamic entity bounced off a static entity"
	case collision.Separating:
		return "No collision: entities are separating"
	case collision.Resolved:
		return "Impulse exchanged between dynamic entities"
	default:
		return unknown
	}
}

// Describe returns the description for any error produced by the entity or
// field packages. nil describes success.
func Describe(err error) string {
	switch {
	case err == nil:
		return DescribeEntity(entity.OK)
	case errors.Is(err, field.ErrNullPointer),
		errors.Is(err, field.ErrInvalidMass),
		errors.Is(err, field.ErrInvalidCharge),
		errors.Is(err, field.ErrStaticObject):
		return DescribeField(field.CodeOf(err))
	case errors.Is(err, entity.ErrSetFailed),
		errors.Is(err, entity.ErrGetFailed),
		errors.Is(err, entity.ErrNullEntity),
		errors.Is(err, entity.ErrIncomplete),
		errors.Is(err, entity.ErrDivisionByZero):
		return DescribeEntity(entity.CodeOf(err))
	default:
		return unknown
	}
}
