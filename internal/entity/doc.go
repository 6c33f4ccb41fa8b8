// Package entity defines the mutable physical-state record shared by the
// field, motion and collision packages.
//
// An [Entity] owns only plain scalar and vector fields. Getters such as
// [Entity.Position] return live pointers into the record so integrators can
// update state without copying; the record assumes a single owner for the
// duration of any call.
//
// # Outcomes
//
// Operations return nil on success or one of the sentinel errors in this
// package. [CodeOf] recovers the closed [Code] enumeration from an error:
//
//	if err := e.SetVelocity(0, 1, 0); entity.CodeOf(err) != entity.OK {
//	    ...
//	}
package entity
