package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cphysics/internal/entity"
	"github.com/san-kum/cphysics/internal/field"
	"github.com/san-kum/cphysics/internal/quat"
	"github.com/san-kum/cphysics/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultWorkers  = 4
)

// Field kinds accepted in a scene file.
const (
	KindGravitational = "gravitational"
	KindElectric      = "electric"
	KindMagnetic      = "magnetic"
)

var ErrInvalidScene = errors.New("invalid scene")

// Scene is the on-disk description of a simulation.
type Scene struct {
	Name            string         `yaml:"name"`
	Dt              float64        `yaml:"dt"`
	Duration        float64        `yaml:"duration"`
	Seed            int64          `yaml:"seed,omitempty"`
	Workers         int            `yaml:"workers,omitempty"`
	Integrate       bool           `yaml:"integrate"`
	ContactDistance float64        `yaml:"contact_distance"`
	Pairwise        PairwiseConfig `yaml:"pairwise"`
	Entities        []EntityConfig `yaml:"entities"`
	Fields          []FieldConfig  `yaml:"fields,omitempty"`
	Torques         []TorqueConfig `yaml:"torques,omitempty"`
}

type PairwiseConfig struct {
	Electric bool `yaml:"electric"`
	Gravity  bool `yaml:"gravity"`
}

type EntityConfig struct {
	Name            string             `yaml:"name"`
	Mass            float64            `yaml:"mass"`
	Charge          float64            `yaml:"charge,omitempty"`
	Position        []float64          `yaml:"position,flow,omitempty"`
	Velocity        []float64          `yaml:"velocity,flow,omitempty"`
	Acceleration    []float64          `yaml:"acceleration,flow,omitempty"`
	Restitution     float64            `yaml:"restitution"`
	Rigid           bool               `yaml:"rigid,omitempty"`
	Static          bool               `yaml:"static,omitempty"`
	MomentOfInertia float64            `yaml:"moment_of_inertia,omitempty"`
	AngularVelocity []float64          `yaml:"angular_velocity,flow,omitempty"`
	Orientation     *OrientationConfig `yaml:"orientation,omitempty"`
}

// OrientationConfig is an initial orientation given as a rotation of Angle
// radians about Axis.
type OrientationConfig struct {
	Axis  []float64 `yaml:"axis,flow"`
	Angle float64   `yaml:"angle"`
}

type FieldConfig struct {
	Kind      string    `yaml:"kind"`
	Magnitude float64   `yaml:"magnitude"`
	Direction []float64 `yaml:"direction,flow"`
	Position  []float64 `yaml:"position,flow,omitempty"`
}

type TorqueConfig struct {
	Entity string    `yaml:"entity"`
	Torque []float64 `yaml:"torque,flow"`
}

// Clone returns a copy of s that shares no slices or pointers with it.
func (s *Scene) Clone() *Scene {
	c := *s
	c.Entities = make([]EntityConfig, len(s.Entities))
	for i, e := range s.Entities {
		e.Position = cloneFloats(e.Position)
		e.Velocity = cloneFloats(e.Velocity)
		e.Acceleration = cloneFloats(e.Acceleration)
		e.AngularVelocity = cloneFloats(e.AngularVelocity)
		if e.Orientation != nil {
			o := *e.Orientation
			o.Axis = cloneFloats(o.Axis)
			e.Orientation = &o
		}
		c.Entities[i] = e
	}
	if s.Fields != nil {
		c.Fields = make([]FieldConfig, len(s.Fields))
		for i, f := range s.Fields {
			f.Direction = cloneFloats(f.Direction)
			f.Position = cloneFloats(f.Position)
			c.Fields[i] = f
		}
	}
	if s.Torques != nil {
		c.Torques = make([]TorqueConfig, len(s.Torques))
		for i, t := range s.Torques {
			t.Torque = cloneFloats(t.Torque)
			c.Torques[i] = t
		}
	}
	return &c
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	return append([]float64(nil), v...)
}

func DefaultScene() *Scene {
	return &Scene{
		Name:      "scene",
		Dt:        DefaultDt,
		Duration:  DefaultDuration,
		Workers:   DefaultWorkers,
		Integrate: true,
	}
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := DefaultScene()
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func Save(path string, sc *Scene) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidScene, fmt.Sprintf(format, args...))
}

func vec3(name string, v []float64) (mgl64.Vec3, error) {
	switch len(v) {
	case 0:
		return mgl64.Vec3{}, nil
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	default:
		return mgl64.Vec3{}, invalid("%s needs 3 components, got %d", name, len(v))
	}
}

// Validate reports the first problem that would keep the scene from running.
func (s *Scene) Validate() error {
	if s.Dt <= 0 {
		return invalid("dt must be positive, got %g", s.Dt)
	}
	if s.Duration <= 0 {
		return invalid("duration must be positive, got %g", s.Duration)
	}
	if s.ContactDistance < 0 {
		return invalid("contact_distance must not be negative, got %g", s.ContactDistance)
	}
	if s.Workers < 0 {
		return invalid("workers must not be negative, got %d", s.Workers)
	}

	names := make(map[string]bool, len(s.Entities))
	for i, e := range s.Entities {
		if e.Name == "" {
			return invalid("entity %d has no name", i)
		}
		if names[e.Name] {
			return invalid("duplicate entity %q", e.Name)
		}
		names[e.Name] = true
		if e.Mass < 0 {
			return invalid("entity %q: mass must not be negative", e.Name)
		}
		if e.Restitution < 0 {
			return invalid("entity %q: restitution must not be negative", e.Name)
		}
		if e.MomentOfInertia < 0 {
			return invalid("entity %q: moment_of_inertia must not be negative", e.Name)
		}
		for _, v := range []struct {
			name string
			v    []float64
		}{
			{"position", e.Position},
			{"velocity", e.Velocity},
			{"acceleration", e.Acceleration},
			{"angular_velocity", e.AngularVelocity},
		} {
			if _, err := vec3(e.Name+"."+v.name, v.v); err != nil {
				return err
			}
		}
		if e.Orientation != nil {
			if _, err := vec3(e.Name+".orientation.axis", e.Orientation.Axis); err != nil {
				return err
			}
		}
	}

	for i, f := range s.Fields {
		switch f.Kind {
		case KindGravitational, KindElectric, KindMagnetic:
		default:
			return invalid("field %d: unknown kind %q", i, f.Kind)
		}
		if len(f.Direction) != 3 {
			return invalid("field %d direction needs 3 components, got %d", i, len(f.Direction))
		}
		if _, err := vec3(fmt.Sprintf("field %d position", i), f.Position); err != nil {
			return err
		}
	}

	for _, t := range s.Torques {
		if !names[t.Entity] {
			return invalid("torque on unknown entity %q", t.Entity)
		}
		if _, err := vec3("torque "+t.Entity, t.Torque); err != nil {
			return err
		}
	}

	return nil
}

// Build validates the scene and returns fresh entities and field
// descriptors ready for a sim.Simulator.
func (s *Scene) Build() (*sim.Scene, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	out := &sim.Scene{
		Name:            s.Name,
		PairElectric:    s.Pairwise.Electric,
		PairGravity:     s.Pairwise.Gravity,
		ContactDistance: s.ContactDistance,
		Entities:        make([]*entity.Entity, 0, len(s.Entities)),
	}

	for _, ec := range s.Entities {
		pos, _ := vec3("", ec.Position)
		vel, _ := vec3("", ec.Velocity)
		acc, _ := vec3("", ec.Acceleration)
		e := entity.New(ec.Name, ec.Mass, ec.Charge, entity.Options{
			Position:     &pos,
			Velocity:     &vel,
			Acceleration: &acc,
			Restitution:  ec.Restitution,
			RigidBody:    ec.Rigid,
			Static:       ec.Static,
		})
		if ec.MomentOfInertia > 0 {
			e.MomentOfInertia = ec.MomentOfInertia
		}
		e.AngularVelocity, _ = vec3("", ec.AngularVelocity)
		if ec.Orientation != nil {
			axis, _ := vec3("", ec.Orientation.Axis)
			e.Orientation = quat.FromAxisAngle(axis, ec.Orientation.Angle)
		}
		out.Entities = append(out.Entities, e)
	}

	for _, fc := range s.Fields {
		dir, _ := vec3("", fc.Direction)
		switch fc.Kind {
		case KindGravitational:
			out.Gravitational = append(out.Gravitational, field.Gravitational{Magnitude: fc.Magnitude, Direction: dir})
		case KindElectric:
			out.Electric = append(out.Electric, field.Electric{Magnitude: fc.Magnitude, Direction: dir})
		case KindMagnetic:
			pos, _ := vec3("", fc.Position)
			out.Magnetic = append(out.Magnetic, field.Magnetic{Magnitude: fc.Magnitude, Direction: dir, Position: pos})
		}
	}

	for _, tc := range s.Torques {
		tq, _ := vec3("", tc.Torque)
		out.Torques = append(out.Torques, sim.Torque{Entity: tc.Entity, Torque: tq})
	}

	return out, nil
}

// SimConfig returns the run parameters of the scene.
func (s *Scene) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = s.Dt
	cfg.Duration = s.Duration
	cfg.Seed = s.Seed
	cfg.Integrate = s.Integrate
	if s.Workers > 0 {
		cfg.Workers = s.Workers
	}
	return cfg
}
