package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-doa/algorithms/spatial"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "table", cfg.OutputFormat)
	assert.Equal(t, 4, cfg.Array.Channels)
	assert.Equal(t, 0.04, cfg.Array.Spacing)
	assert.Equal(t, 343.0, cfg.Array.SoundSpeed)
	assert.Equal(t, 64, cfg.Analysis.WindowLength)
	assert.Equal(t, 73, cfg.Analysis.AngleCount)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Array.Channels)
}

func TestLoadWithFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `
log_level: debug
output_format: json
array:
  channels: 6
  spacing: 0.035
analysis:
  band_low: 900
  band_high: 1100
  window_length: 128
  angle_count: 37
  center_covariance: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 6, cfg.Array.Channels)
	assert.Equal(t, 0.035, cfg.Array.Spacing)
	assert.Equal(t, 343.0, cfg.Array.SoundSpeed)
	assert.Equal(t, 900.0, cfg.Analysis.BandLow)
	assert.Equal(t, 1100.0, cfg.Analysis.BandHigh)
	assert.Equal(t, 128, cfg.Analysis.WindowLength)
	assert.Equal(t, 37, cfg.Analysis.AngleCount)
	assert.True(t, cfg.Analysis.CenterCovariance)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("array: [unclosed"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SONIDO_DOA_ARRAY_CHANNELS", "8")
	t.Setenv("SONIDO_DOA_ANALYSIS_BAND_HIGH", "2500")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Array.Channels)
	assert.Equal(t, 2500.0, cfg.Analysis.BandHigh)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		kind    error
	}{
		{"valid default config", func(c *Config) {}, false, nil},
		{"unknown log level", func(c *Config) { c.LogLevel = "chatty" }, true, nil},
		{"unknown output format", func(c *Config) { c.OutputFormat = "xml" }, true, nil},
		{"no angles", func(c *Config) { c.Analysis.AngleCount = 0 }, true, nil},
		{"inverted angle range", func(c *Config) { c.Analysis.AngleMin = 90; c.Analysis.AngleMax = -90 }, true, nil},
		{"no channels", func(c *Config) { c.Array.Channels = 0 }, true, spatial.ErrInvalidGeometry},
		{"inverted band", func(c *Config) { c.Analysis.BandLow = 5000 }, true, spatial.ErrInvalidBand},
		{"zero window", func(c *Config) { c.Analysis.WindowLength = 0 }, true, spatial.ErrInvalidWindow},
		{"unknown window", func(c *Config) { c.Analysis.Window = "triangle" }, true, spatial.ErrInvalidWindow},
		{"negative dc cutoff", func(c *Config) { c.Analysis.DCCutoff = -20 }, true, spatial.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.kind != nil {
				assert.ErrorIs(t, err, tt.kind)
			}
		})
	}
}

func TestBeamformerConfig(t *testing.T) {
	cfg := Default()
	cfg.Analysis.AngleMin = -60
	cfg.Analysis.AngleMax = 60
	cfg.Analysis.AngleCount = 5
	cfg.Analysis.Workers = 2
	cfg.Analysis.DCCutoff = 20

	bc := cfg.BeamformerConfig()
	assert.Equal(t, []float64{-60, -30, 0, 30, 60}, bc.Angles)
	assert.Equal(t, 4, bc.Geometry.Channels)
	assert.Equal(t, 500.0, bc.Band.Low)
	assert.Equal(t, 4000.0, bc.Band.High)
	assert.Equal(t, 2, bc.Workers)
	assert.Equal(t, 20.0, bc.DCCutoff)

	_, err := spatial.NewBeamformer(bc)
	assert.NoError(t, err)
}
