// Package analysis inspects recorded dissolve output.
//
//   - [PowerSpectrum]: one-sided FFT magnitude of a sampled signal
//   - [DominantPeriod]: period of the strongest non-DC component
//   - [Segments]: the run split into contiguous phase intervals
//
// A looping cycle shows up as a dominant period equal to the total cycle
// length:
//
//	period, err := analysis.DominantPeriod(primary, dt)
package analysis
