package windowing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Cosine is a generalized cosine-sum window
//
//	w[n] = a0 - a1*cos(2*pi*n/N) + a2*cos(4*pi*n/N)
//
// generated in the periodic (DFT-even) form, N = size.
type Cosine struct {
	name         string
	coefficients []float64
	sum          float64
}

// NewHann returns a periodic Hann window.
func NewHann(size int) (*Cosine, error) {
	return newCosine(TypeHann, size, 0.5, 0.5, 0)
}

// NewHamming returns a periodic Hamming window.
func NewHamming(size int) (*Cosine, error) {
	return newCosine(TypeHamming, size, 0.54, 0.46, 0)
}

// NewBlackman returns a periodic Blackman window.
func NewBlackman(size int) (*Cosine, error) {
	return newCosine(TypeBlackman, size, 0.42, 0.5, 0.08)
}

func newCosine(name string, size int, a0, a1, a2 float64) (*Cosine, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be > 0: %d", size)
	}

	coeffs := make([]float64, size)
	for i := range coeffs {
		arg := 2 * math.Pi * float64(i) / float64(size)
		coeffs[i] = a0 - a1*math.Cos(arg) + a2*math.Cos(2*arg)
	}

	return &Cosine{
		name:         name,
		coefficients: coeffs,
		sum:          floats.Sum(coeffs),
	}, nil
}

// ApplyInPlace multiplies frame by the window.
func (c *Cosine) ApplyInPlace(frame []float64) error {
	if len(frame) != len(c.coefficients) {
		return fmt.Errorf("frame length (%d) doesn't match window size (%d)", len(frame), len(c.coefficients))
	}
	floats.Mul(frame, c.coefficients)
	return nil
}

// Sum returns the sum of the window coefficients.
func (c *Cosine) Sum() float64 {
	return c.sum
}

// GetCoefficients returns a copy of the window coefficients
func (c *Cosine) GetCoefficients() []float64 {
	coeffs := make([]float64, len(c.coefficients))
	copy(coeffs, c.coefficients)
	return coeffs
}

// GetSize returns the window size
func (c *Cosine) GetSize() int {
	return len(c.coefficients)
}

// GetType returns the window type
func (c *Cosine) GetType() string {
	return c.name
}
