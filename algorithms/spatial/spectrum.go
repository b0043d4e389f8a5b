package spatial

import (
	"github.com/RyanBlaney/sonido-doa/algorithms/common"
)

// SpatialSpectrum is the beamformer output. Magnitude[i] is the relative
// power for Angles[i]; values are only comparable within one result.
type SpatialSpectrum struct {
	Angles      []float64 `json:"angles" yaml:"angles"`
	Magnitude   []float64 `json:"magnitude" yaml:"magnitude"`
	Frequencies []float64 `json:"frequencies" yaml:"frequencies"` // Bins averaged (Hz)
}

// Peak returns the index, angle and magnitude of the strongest direction.
// The first maximum wins on ties. Index is -1 for an empty spectrum.
func (s *SpatialSpectrum) Peak() (int, float64, float64) {
	idx := common.ArgMax(s.Magnitude)
	if idx < 0 {
		return -1, 0, 0
	}
	return idx, s.Angles[idx], s.Magnitude[idx]
}

// Contrast returns the peak magnitude over the mean magnitude. A flat
// spectrum gives 1; zero energy gives 0.
func (s *SpatialSpectrum) Contrast() float64 {
	mean := common.Mean(s.Magnitude)
	if mean == 0 {
		return 0
	}
	_, _, peak := s.Peak()
	return peak / mean
}
