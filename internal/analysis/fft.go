package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// spectralFloor is the relative amplitude below which a spectrum counts as
// flat (rounding noise left over from mean removal).
const spectralFloor = 1e-9

// PowerSpectrum returns |X_k| for k in [0, n/2) of the mean-removed series.
// Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
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

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency, in cycles per unit time, of the
// strongest non-DC bin of a series sampled every dt. Series shorter than
// four samples or without any oscillation give 0.
func DominantFrequency(data []float64, dt float64) float64 {
	if len(data) < 4 || dt <= 0 {
		return 0
	}
	ps := PowerSpectrum(data)

	peak := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[peak] || peak == 0 {
			peak = k
		}
	}
	scale := 0.0
	for _, v := range data {
		scale = max(scale, math.Abs(v))
	}
	if ps[peak] <= spectralFloor*scale*float64(len(data)) {
		return 0
	}
	return float64(peak) / (float64(len(data)) * dt)
}
