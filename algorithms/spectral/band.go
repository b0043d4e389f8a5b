package spectral

import (
	"fmt"
	"math"
)

// FrequencyBand is a closed frequency interval in Hz.
type FrequencyBand struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Validate checks that both edges are finite and Low <= High.
func (b FrequencyBand) Validate() error {
	if !isFinite(b.Low) || !isFinite(b.High) {
		return fmt.Errorf("%w: edges must be finite: [%v, %v]", ErrInvalidBand, b.Low, b.High)
	}
	if b.Low > b.High {
		return fmt.Errorf("%w: low %v > high %v", ErrInvalidBand, b.Low, b.High)
	}
	return nil
}

// Contains reports whether f lies inside the band, edges included.
func (b FrequencyBand) Contains(f float64) bool {
	return f >= b.Low && f <= b.High
}

func (b FrequencyBand) String() string {
	return fmt.Sprintf("[%g, %g] Hz", b.Low, b.High)
}

// SelectBand returns the indices of all frequencies inside band, in
// ascending order. An invalid band or an empty selection is an error.
func SelectBand(freqs []float64, band FrequencyBand) ([]int, error) {
	if err := band.Validate(); err != nil {
		return nil, err
	}

	var bins []int
	for k, f := range freqs {
		if band.Contains(f) {
			bins = append(bins, k)
		}
	}

	if len(bins) == 0 {
		return nil, fmt.Errorf("%w: no frequency bins in %s", ErrInvalidBand, band)
	}

	return bins, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
