package spatial

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-doa/algorithms/spectral"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(4, 0.04, spectral.FrequencyBand{Low: 900, High: 1100})

	assert.Equal(t, 4, cfg.Geometry.Channels)
	assert.Equal(t, 0.04, cfg.Geometry.Spacing)
	assert.Equal(t, DefaultSoundSpeed, cfg.Geometry.SoundSpeed)
	assert.Equal(t, DefaultWindowLength, cfg.WindowLength)
	assert.Len(t, cfg.Angles, DefaultAngleCount)
	assert.Equal(t, -90.0, cfg.Angles[0])
	assert.Equal(t, 90.0, cfg.Angles[DefaultAngleCount-1])
	assert.Zero(t, cfg.Workers)
	assert.False(t, cfg.CenterCovariance)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		kind   error
		field  string
	}{
		{"zero channels", func(c *Config) { c.Geometry.Channels = 0 }, ErrInvalidGeometry, "channels"},
		{"zero spacing", func(c *Config) { c.Geometry.Spacing = 0 }, ErrInvalidGeometry, "spacing"},
		{"negative sound speed", func(c *Config) { c.Geometry.SoundSpeed = -343 }, ErrInvalidGeometry, "sound_speed"},
		{"inverted band", func(c *Config) { c.Band = spectral.FrequencyBand{Low: 2000, High: 1000} }, ErrInvalidBand, "band"},
		{"nan band", func(c *Config) { c.Band.High = math.NaN() }, ErrInvalidBand, "band"},
		{"empty angles", func(c *Config) { c.Angles = nil }, ErrInvalidAngleGrid, "angles"},
		{"duplicate angles", func(c *Config) { c.Angles = []float64{0, 10, 0} }, ErrInvalidAngleGrid, "angles"},
		{"nan angle", func(c *Config) { c.Angles = []float64{0, math.NaN()} }, ErrInvalidAngleGrid, "angles[1]"},
		{"zero window", func(c *Config) { c.WindowLength = 0 }, ErrInvalidWindow, "window_length"},
		{"unknown window", func(c *Config) { c.Window = "kaiser" }, ErrInvalidWindow, "window"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, ErrInvalidConfig, "workers"},
		{"negative dc cutoff", func(c *Config) { c.DCCutoff = -1 }, ErrInvalidConfig, "dc_cutoff"},
		{"nan dc cutoff", func(c *Config) { c.DCCutoff = math.NaN() }, ErrInvalidConfig, "dc_cutoff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(4, 0.04, spectral.FrequencyBand{Low: 900, High: 1100})
			tt.modify(&cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, tt.kind)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)

			_, err = NewBeamformer(cfg, quietOption())
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestConfigAcceptsUnsortedGrid(t *testing.T) {
	cfg := DefaultConfig(2, 0.05, spectral.FrequencyBand{Low: 0, High: 1000})
	cfg.Angles = []float64{30, -30, 0}
	assert.NoError(t, cfg.Validate())
}
