package windowing

import (
	"fmt"
)

// Rectangular is a boxcar window. It leaves frames untouched but still
// reports its size and coefficient sum so spectra can be scaled the same
// way as for any other window.
type Rectangular struct {
	size         int
	coefficients []float64
}

// NewRectangular creates a new rectangular window of the given size.
func NewRectangular(size int) (*Rectangular, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be > 0: %d", size)
	}

	r := &Rectangular{
		size: size,
	}
	r.generate()
	return r, nil
}

func (r *Rectangular) generate() {
	r.coefficients = make([]float64, r.size)
	for i := range r.coefficients {
		r.coefficients[i] = 1.0
	}
}

// ApplyInPlace checks the frame length. A rectangular window does not
// change the samples.
func (r *Rectangular) ApplyInPlace(frame []float64) error {
	if len(frame) != r.size {
		return fmt.Errorf("frame length (%d) doesn't match window size (%d)", len(frame), r.size)
	}
	return nil
}

// Sum returns the sum of the window coefficients.
func (r *Rectangular) Sum() float64 {
	return float64(r.size)
}

// GetCoefficients returns a copy of the window coefficients
func (r *Rectangular) GetCoefficients() []float64 {
	coeffs := make([]float64, len(r.coefficients))
	copy(coeffs, r.coefficients)
	return coeffs
}

// GetSize returns the window size
func (r *Rectangular) GetSize() int {
	return r.size
}

// GetType returns the window type
func (r *Rectangular) GetType() string {
	return "rectangular"
}
