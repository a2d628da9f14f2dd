package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// ErrFlatSignal indicates a signal with no periodic content.
var ErrFlatSignal = errors.New("analysis: signal has no periodic component")

// PowerSpectrum returns the magnitudes of bins 0..n/2 of the signal with its
// mean removed. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return []float64{}
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	ps := make([]float64, len(bins)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

// DominantPeriod returns the period in seconds of the strongest spectral
// component of data sampled every dt seconds.
func DominantPeriod(data []float64, dt float64) (float64, error) {
	if len(data) < 4 || !(dt > 0) {
		return 0, ErrFlatSignal
	}

	ps := PowerSpectrum(data)
	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower < 1e-9 {
		return 0, ErrFlatSignal
	}

	span := float64(len(data)) * dt
	return span / float64(maxIdx), nil
}
