package metrics

import (
	"github.com/san-kum/cphysics/internal/sim"
)

// KineticEnergy is the mean total translational kinetic energy over the run.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(snap *sim.Snapshot) {
	k.total += snap.KineticEnergy
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// EnergyLoss accumulates the kinetic energy removed by collisions.
type EnergyLoss struct {
	name string
	loss float64
}

func NewEnergyLoss() *EnergyLoss {
	return &EnergyLoss{name: "energy_loss"}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(snap *sim.Snapshot) {
	e.loss += snap.Loss
}

func (e *EnergyLoss) Value() float64 { return e.loss }

func (e *EnergyLoss) Reset() { e.loss = 0 }

// Default returns a fresh set of every metric in this package.
func Default() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewEnergyLoss(),
		NewQuaternionDrift(),
		NewMomentum(),
	}
}
