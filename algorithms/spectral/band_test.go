package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBand(t *testing.T) {
	freqs := FrequencyAxis(16000, 64) // 0, 250, ..., 8000

	tests := []struct {
		name string
		band FrequencyBand
		want []int
	}{
		{"single bin", FrequencyBand{900, 1100}, []int{4}},
		{"inclusive edges", FrequencyBand{750, 1250}, []int{3, 4, 5}},
		{"degenerate band on a bin", FrequencyBand{1000, 1000}, []int{4}},
		{"whole axis", FrequencyBand{0, 8000}, seq(0, 33)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bins, err := SelectBand(freqs, tt.band)
			require.NoError(t, err)
			assert.Equal(t, tt.want, bins)
		})
	}
}

func TestSelectBandRejects(t *testing.T) {
	freqs := FrequencyAxis(16000, 64)

	tests := []struct {
		name string
		band FrequencyBand
	}{
		{"low above high", FrequencyBand{1100, 900}},
		{"above nyquist", FrequencyBand{9000, 12000}},
		{"between bins", FrequencyBand{1010, 1200}},
		{"nan edge", FrequencyBand{math.NaN(), 1000}},
		{"inf edge", FrequencyBand{0, math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bins, err := SelectBand(freqs, tt.band)
			assert.ErrorIs(t, err, ErrInvalidBand)
			assert.Nil(t, bins)
		})
	}
}

func TestFrequencyAxis(t *testing.T) {
	assert.Empty(t, FrequencyAxis(16000, 0))
	assert.Equal(t, []float64{0, 100, 200}, FrequencyAxis(1000, 10)[:3])
	assert.Len(t, FrequencyAxis(1000, 10), 6)
}

func TestFFTCompute(t *testing.T) {
	f := NewFFT()
	assert.Empty(t, f.Compute(nil))

	out := f.Compute([]float64{1, 1, 1, 1})
	require.Len(t, out, 4)
	assert.InDelta(t, 4.0, real(out[0]), 1e-12)
	assert.InDelta(t, 0.0, real(out[2]), 1e-12)
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
