package config

import (
	"math"
	"sort"
)

var Presets = map[string]*Scene{
	"elastic": {
		Name: "elastic", Dt: 0.01, Duration: 3.0, Integrate: true, ContactDistance: 0.5,
		Entities: []EntityConfig{
			{Name: "left", Mass: 1, Restitution: 1, Position: []float64{-1, 0, 0}, Velocity: []float64{1, 0, 0}},
			{Name: "right", Mass: 1, Restitution: 1, Position: []float64{1, 0, 0}, Velocity: []float64{-1, 0, 0}},
		},
	},
	"inelastic": {
		Name: "inelastic", Dt: 0.01, Duration: 3.0, Integrate: true, ContactDistance: 0.5,
		Entities: []EntityConfig{
			{Name: "heavy", Mass: 3, Restitution: 0.5, Position: []float64{-1, 0, 0}, Velocity: []float64{1, 0, 0}},
			{Name: "light", Mass: 1, Restitution: 0.3, Position: []float64{1, 0, 0}},
		},
	},
	"wall": {
		Name: "wall", Dt: 0.01, Duration: 5.0, Integrate: true, ContactDistance: 0.15,
		Entities: []EntityConfig{
			{Name: "ball", Mass: 1, Restitution: 0.8, Position: []float64{0, 5, 0}},
			{Name: "floor", Mass: 1, Static: true},
		},
		Fields: []FieldConfig{
			{Kind: KindGravitational, Magnitude: 9.81, Direction: []float64{0, -1, 0}},
		},
	},
	"orbit": {
		Name: "orbit", Dt: 0.01, Duration: 50.0, Integrate: true,
		Pairwise: PairwiseConfig{Gravity: true},
		Entities: []EntityConfig{
			{Name: "star", Mass: 1e12, Static: true},
			{Name: "planet", Mass: 1, Position: []float64{10, 0, 0}, Velocity: []float64{0, math.Sqrt(6.67430e-11 * 1e12 / 10), 0}},
		},
	},
	"spin": {
		Name: "spin", Dt: 0.01, Duration: 4.0, Integrate: true,
		Entities: []EntityConfig{
			{Name: "top", Mass: 1, Rigid: true, AngularVelocity: []float64{0, 0, math.Pi / 2}},
			{Name: "wheel", Mass: 2, MomentOfInertia: 0.5, Position: []float64{3, 0, 0},
				Orientation: &OrientationConfig{Axis: []float64{1, 0, 0}, Angle: math.Pi / 4}},
		},
		Torques: []TorqueConfig{
			{Entity: "wheel", Torque: []float64{0, 0.25, 0}},
		},
	},
	"cyclotron": {
		Name: "cyclotron", Dt: 0.001, Duration: 2 * math.Pi, Integrate: true,
		Entities: []EntityConfig{
			{Name: "ion", Mass: 1, Charge: 1, Velocity: []float64{1, 0, 0}},
		},
		Fields: []FieldConfig{
			{Kind: KindMagnetic, Magnitude: 1, Direction: []float64{0, 0, 1}},
		},
	},
}

// GetPreset returns a deep copy of the named preset, or nil when no preset
// has that name.
func GetPreset(name string) *Scene {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := p.Clone()
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	return c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
