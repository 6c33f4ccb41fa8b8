package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cphysics/internal/quat"
	"github.com/san-kum/cphysics/internal/sim"
	"github.com/san-kum/cphysics/internal/vmath"
)

// QuaternionDrift is the largest deviation of any orientation from unit
// norm seen during the run.
type QuaternionDrift struct {
	name     string
	maxDrift float64
}

func NewQuaternionDrift() *QuaternionDrift {
	return &QuaternionDrift{name: "quaternion_drift"}
}

func (q *QuaternionDrift) Name() string { return q.name }

func (q *QuaternionDrift) Observe(snap *sim.Snapshot) {
	for _, es := range snap.Entities {
		q.maxDrift = math.Max(q.maxDrift, math.Abs(quat.Norm(es.Orientation)-1))
	}
}

func (q *QuaternionDrift) Value() float64 { return q.maxDrift }

func (q *QuaternionDrift) Reset() { q.maxDrift = 0 }

// Momentum tracks the largest drift of total linear momentum of the dynamic
// entities from its first observed value. The drift is relative when the
// initial momentum is non-zero and absolute otherwise.
type Momentum struct {
	name     string
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum_drift"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(snap *sim.Snapshot) {
	var p mgl64.Vec3
	for _, es := range snap.Entities {
		if es.Static {
			continue
		}
		p = p.Add(es.Velocity.Mul(es.Mass))
	}

	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	drift := vmath.Distance(p, m.initial)
	if n := vmath.Norm(m.initial); n > vmath.Epsilon {
		drift /= n
	}
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *Momentum) Value() float64 { return m.maxDrift }

func (m *Momentum) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}
