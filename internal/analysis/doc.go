// Package analysis inspects recorded trajectories.
//
//   - [PowerSpectrum] and [DominantFrequency]: periodicity of a sampled signal
//   - [NewPhasePortrait] and [PhasePortrait.ASCII]: one quantity against another
//
// A circular orbit sampled every dt shows up as a single spectral peak:
//
//	freq, _ := analysis.DominantFrequency(xs, dt)
//	period := 1 / freq
package analysis
