package spatial

import (
	"fmt"
	"slices"
	"strings"

	"github.com/RyanBlaney/sonido-doa/algorithms/common"
	"github.com/RyanBlaney/sonido-doa/algorithms/spectral"
	"github.com/RyanBlaney/sonido-doa/algorithms/windowing"
)

const (
	DefaultWindowLength = 64
	DefaultAngleCount   = 73
)

// Config holds everything a Beamformer needs besides the signal itself.
type Config struct {
	Geometry     ArrayGeometry          `json:"geometry" yaml:"geometry"`
	Band         spectral.FrequencyBand `json:"band" yaml:"band"`
	Angles       []float64              `json:"angles" yaml:"angles"`               // Candidate angles (degrees), output order
	WindowLength int                    `json:"window_length" yaml:"window_length"` // STFT window (samples)

	// Window names the analysis window (see windowing.Types). Empty means
	// rectangular.
	Window string `json:"window" yaml:"window"`

	// Workers bounds the goroutines used to reduce frequency bins.
	// Zero means runtime.NumCPU().
	Workers int `json:"workers" yaml:"workers"`

	// CenterCovariance removes the per-channel mean over frames before the
	// covariance is formed.
	CenterCovariance bool `json:"center_covariance" yaml:"center_covariance"`

	// DCCutoff, when positive, high-pass filters every channel at this
	// frequency (Hz) before the transform. The same filter runs on every
	// channel, so inter-channel phase is preserved.
	DCCutoff float64 `json:"dc_cutoff" yaml:"dc_cutoff"`
}

// DefaultAngleGrid returns 73 angles evenly spaced over [-90, 90] degrees.
func DefaultAngleGrid() []float64 {
	return common.Linspace(-90, 90, DefaultAngleCount)
}

// DefaultConfig returns a config with the default angle grid, sound speed
// and window length.
func DefaultConfig(channels int, spacing float64, band spectral.FrequencyBand) Config {
	return Config{
		Geometry: ArrayGeometry{
			Channels:   channels,
			Spacing:    spacing,
			SoundSpeed: DefaultSoundSpeed,
		},
		Band:         band,
		Angles:       DefaultAngleGrid(),
		WindowLength: DefaultWindowLength,
		Window:       windowing.TypeRectangular,
	}
}

// Validate checks every field. Checks that depend on the signal (its
// width and length, the band against the sample rate) happen per call.
func (c Config) Validate() error {
	if err := c.Geometry.Validate(); err != nil {
		return err
	}

	if err := c.Band.Validate(); err != nil {
		return invalid(ErrInvalidBand, "band", c.Band, "low must be <= high and both finite")
	}

	if err := validateAngles(c.Angles); err != nil {
		return err
	}

	if c.WindowLength <= 0 {
		return invalid(ErrInvalidWindow, "window_length", c.WindowLength, "must be >= 1")
	}
	if !windowing.Valid(c.Window) {
		return invalid(ErrInvalidWindow, "window", c.Window,
			"must be one of "+strings.Join(windowing.Types, ", "))
	}

	if c.Workers < 0 {
		return invalid(ErrInvalidConfig, "workers", c.Workers, "must be >= 0")
	}

	if !common.IsFinite(c.DCCutoff) || c.DCCutoff < 0 {
		return invalid(ErrInvalidConfig, "dc_cutoff", c.DCCutoff, "must be a finite value >= 0")
	}

	return nil
}

func validateAngles(angles []float64) error {
	if len(angles) == 0 {
		return invalid(ErrInvalidAngleGrid, "angles", angles, "must not be empty")
	}

	for i, a := range angles {
		if !common.IsFinite(a) {
			return invalid(ErrInvalidAngleGrid, fmt.Sprintf("angles[%d]", i), a, "must be finite")
		}
	}

	sorted := slices.Clone(angles)
	slices.Sort(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return invalid(ErrInvalidAngleGrid, "angles", sorted[i], "duplicate angle")
		}
	}
	return nil
}
