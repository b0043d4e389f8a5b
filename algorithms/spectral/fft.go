package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT wraps the real-input transform from mjibson/go-dsp.
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute returns the full complex spectrum of x.
// go-dsp handles non power-of-two lengths, so any window length works.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFTReal(x)
}

// OneSidedBins returns the number of non-negative frequency bins for an
// n-point transform of a real signal.
func OneSidedBins(n int) int {
	return n/2 + 1
}

// FrequencyAxis returns the centre frequency of every one-sided bin of an
// n-point transform at the given sample rate: 0, fs/n, ... up to fs/2.
func FrequencyAxis(sampleRate float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}

	resolution := sampleRate / float64(n)
	freqs := make([]float64, OneSidedBins(n))
	for k := range freqs {
		freqs[k] = float64(k) * resolution
	}
	return freqs
}
