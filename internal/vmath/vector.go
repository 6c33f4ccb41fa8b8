package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-10

// Zero is the zero vector.
var Zero = mgl64.Vec3{}

// Dot returns a·b.
func Dot(a, b mgl64.Vec3) float64 { return a.Dot(b) }

// Cross returns a×b.
func Cross(a, b mgl64.Vec3) mgl64.Vec3 { return a.Cross(b) }

// Norm returns |a|.
func Norm(a mgl64.Vec3) float64 { return a.Len() }

// Distance returns |a - b|.
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// Normalize returns a/|a| and |a|. When |a| is below Epsilon the zero
// vector and the (tiny) length are returned instead.
func Normalize(a mgl64.Vec3) (mgl64.Vec3, float64) {
	n := Norm(a)
	if n < Epsilon {
		return Zero, n
	}
	return a.Mul(1 / n), n
}

// IsFinite reports whether no component is NaN or Inf.
func IsFinite(a mgl64.Vec3) bool {
	for _, c := range a {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether every component of a and b differs by at most tol.
func ApproxEqual(a, b mgl64.Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
