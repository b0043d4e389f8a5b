// Package filters holds time-domain filters applied to captures before
// spectral analysis.
package filters

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// ErrInvalidCutoff is returned when a cutoff frequency cannot be realized
// at the given sample rate.
var ErrInvalidCutoff = errors.New("invalid cutoff frequency")

// DCBlocker is a first-order high-pass filter removing the DC offset a
// microphone front end leaves on its output.
//
// It implements the difference equation
//
//	y[n] = x[n] - x[n-1] + R*y[n-1]
//
// with the pole R derived from the cutoff as R = 1 - 2*pi*fc/fs, which is
// accurate for fc << fs/2.
//
// References:
//   - Julius O. Smith III, "Introduction to Digital Filters with Audio Applications"
//     https://ccrma.stanford.edu/~jos/filters/DC_Blocker.html
type DCBlocker struct {
	pole float64

	// State
	x1 float64 // x[n-1]
	y1 float64 // y[n-1]
}

// NewDCBlocker returns a DC blocker with its -3 dB point near cutoff Hz.
func NewDCBlocker(sampleRate, cutoff float64) (*DCBlocker, error) {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %g Hz", ErrInvalidCutoff, sampleRate)
	}

	pole := 1 - 2*math.Pi*cutoff/sampleRate
	if math.IsNaN(pole) || cutoff <= 0 || pole <= 0 {
		return nil, fmt.Errorf("%w: %g Hz must lie in (0, %g) Hz at %g Hz sample rate",
			ErrInvalidCutoff, cutoff, sampleRate/(2*math.Pi), sampleRate)
	}

	return &DCBlocker{pole: pole}, nil
}

// Process filters one sample.
func (dc *DCBlocker) Process(x float64) float64 {
	y := x - dc.x1 + dc.pole*dc.y1
	dc.x1 = x
	dc.y1 = y
	return y
}

// ProcessInPlace filters buf, continuing from the current state.
func (dc *DCBlocker) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = dc.Process(x)
	}
}

// Reset clears the filter state. Call it between discontinuous captures.
func (dc *DCBlocker) Reset() {
	dc.x1 = 0
	dc.y1 = 0
}

// Pole returns R.
func (dc *DCBlocker) Pole() float64 {
	return dc.pole
}

// Cutoff returns the approximate -3 dB frequency at sampleRate,
// fc = (1-R)*fs/(2*pi).
func (dc *DCBlocker) Cutoff(sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return (1 - dc.pole) * sampleRate / (2 * math.Pi)
}

// Response returns the magnitude and phase (radians) of
// H(e^jw) = (1 - e^-jw) / (1 - R*e^-jw) at frequency Hz.
func (dc *DCBlocker) Response(frequency, sampleRate float64) (magnitude, phase float64) {
	z := cmplx.Rect(1, -2*math.Pi*frequency/sampleRate)
	h := (1 - z) / (1 - complex(dc.pole, 0)*z)
	return cmplx.Abs(h), cmplx.Phase(h)
}
