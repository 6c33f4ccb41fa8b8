package motion

const (
	// G is the gravitational constant in N·m²/kg².
	G = 6.67430e-11
	// K is the Coulomb constant in N·m²/C².
	K = 8.987551787e9
	// C is the speed of light in m/s.
	C = 3e8
)

// MinSeparation is the distance below which two entities count as
// coincident and pairwise laws are skipped.
const MinSeparation = 1e-10
