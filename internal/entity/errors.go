package entity

import "errors"

// Code enumerates every outcome of entity operations.
type Code uint8

const (
	OK Code = iota
	SetFailed
	GetFailed
	NullEntity
	Incomplete
	DivisionByZero
)

// Codes lists every Code in declaration order.
var Codes = []Code{OK, SetFailed, GetFailed, NullEntity, Incomplete, DivisionByZero}

func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case SetFailed:
		return "set_failed"
	case GetFailed:
		return "get_failed"
	case NullEntity:
		return "null_entity"
	case Incomplete:
		return "incomplete"
	case DivisionByZero:
		return "division_by_zero"
	default:
		return "unknown"
	}
}

// Domain errors for entity operations.
var (
	// ErrSetFailed indicates a setter was called on a nil entity.
	ErrSetFailed = errors.New("entity: set failed")

	// ErrGetFailed indicates a lookup or value getter found no entity.
	ErrGetFailed = errors.New("entity: get failed")

	// ErrNullEntity indicates a required entity argument was nil.
	ErrNullEntity = errors.New("entity: null entity")

	// ErrIncomplete indicates an entity with an empty name or non-finite state.
	ErrIncomplete = errors.New("entity: not fully defined")

	// ErrDivisionByZero indicates a mass too small to divide by.
	ErrDivisionByZero = errors.New("entity: division by zero")
)

var codeErrors = map[Code]error{
	SetFailed:      ErrSetFailed,
	GetFailed:      ErrGetFailed,
	NullEntity:     ErrNullEntity,
	Incomplete:     ErrIncomplete,
	DivisionByZero: ErrDivisionByZero,
}

// CodeOf maps err to its Code. nil maps to OK; errors outside this package
// map to Incomplete.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	for _, c := range Codes[1:] {
		if errors.Is(err, codeErrors[c]) {
			return c
		}
	}
	return Incomplete
}

// FieldError wraps an outcome with the name of the offending field.
type FieldError struct {
	Field   string
	Wrapped error
}

func (e *FieldError) Error() string {
	return e.Wrapped.Error() + ": " + e.Field
}

func (e *FieldError) Unwrap() error {
	return e.Wrapped
}
