package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// PowerSpectrum returns the magnitude of bins 0..n/2 of the series after
// removing its mean. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return []float64{}
	}

	centered := make([]float64, n)
	copy(centered, data)
	floats.AddConst(-floats.Sum(data)/float64(n), centered)

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantFrequency returns the frequency (in the units of sampleRate) and
// magnitude of the strongest non-DC bin. It returns zeros for series shorter
// than four samples.
func DominantFrequency(data []float64, sampleRate float64) (freq, power float64) {
	if len(data) < 4 || !(sampleRate > 0) {
		return 0, 0
	}
	ps := PowerSpectrum(data)
	best := floats.MaxIdx(ps[1:]) + 1
	return float64(best) * sampleRate / float64(len(data)), ps[best]
}
