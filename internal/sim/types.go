package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cphysics/internal/entity"
	"github.com/san-kum/cphysics/internal/field"
)

// Torque is a constant torque reapplied to one named entity every tick.
type Torque struct {
	Entity string
	Torque mgl64.Vec3
}

// Scene is the set of entities and external influences advanced by a Simulator.
type Scene struct {
	Name     string
	Entities []*entity.Entity

	Gravitational []field.Gravitational
	Electric      []field.Electric
	Magnetic      []field.Magnetic
	Torques       []Torque

	// PairElectric and PairGravity enable the pairwise force laws over all
	// unordered entity pairs.
	PairElectric bool
	PairGravity  bool

	// ContactDistance is the center distance at or below which a pair is
	// handed to collision resolution. Zero disables collisions.
	ContactDistance float64
}

// Lookup returns the entity with the given name.
func (s *Scene) Lookup(name string) (*entity.Entity, error) {
	for _, e := range s.Entities {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, &entity.FieldError{Field: name, Wrapped: entity.ErrGetFailed}
}

// Clone deep-copies the entities so the copy can run independently.
func (s *Scene) Clone() *Scene {
	c := *s
	c.Entities = make([]*entity.Entity, len(s.Entities))
	for i, e := range s.Entities {
		c.Entities[i] = e.Clone()
	}
	c.Gravitational = append([]field.Gravitational(nil), s.Gravitational...)
	c.Electric = append([]field.Electric(nil), s.Electric...)
	c.Magnetic = append([]field.Magnetic(nil), s.Magnetic...)
	c.Torques = append([]Torque(nil), s.Torques...)
	return &c
}

// EntityState is the recorded state of one entity after a tick.
type EntityState struct {
	Name            string
	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	Orientation     mgl64.Quat
	AngularVelocity mgl64.Vec3
	Mass            float64
	Static          bool
}

// Snapshot is the state of the scene after a tick.
type Snapshot struct {
	Tick          int
	Time          float64
	Entities      []EntityState
	KineticEnergy float64
	Loss          float64
	Collisions    int
}

// TickStats summarizes the work done in one Step.
type TickStats struct {
	Loss       float64
	Collisions int
	Rejected   map[field.Code]int
}

type Metric interface {
	Name() string
	Observe(snap *Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(snap *Snapshot)
}

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
	// Integrate advances translation with semi-implicit Euler each tick.
	Integrate bool
	// Workers bounds the goroutines used for the per-entity field pass.
	Workers       int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		Integrate:     true,
		Workers:       4,
		ValidateState: true,
	}
}

type Result struct {
	Snapshots  []Snapshot
	Times      []float64
	Metrics    map[string]float64
	Collisions int
	TotalLoss  float64
	Rejected   map[field.Code]int
	StepsTaken int
	Errors     []error
}

// TickError wraps an error with the tick and entity it occurred on.
type TickError struct {
	Tick    int
	Time    float64
	Entity  string
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f) %s: %v", e.Tick, e.Time, e.Entity, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
