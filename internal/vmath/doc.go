// Package vmath provides the 3-component vector algebra shared by the
// physics kernel.
//
// Vectors are [mgl64.Vec3] values. The helpers here are pure, allocation
// free and never fail:
//
//   - [Dot]: Σ aᵢbᵢ
//   - [Cross]: right-handed cross product
//   - [Norm]: Euclidean length, 0 for the zero vector
//   - [Normalize]: unit vector plus the original length, with a zero-length guard
package vmath
