// Package configs loads the application configuration for sonido-doa.
package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-doa/algorithms/common"
	"github.com/RyanBlaney/sonido-doa/algorithms/spatial"
	"github.com/RyanBlaney/sonido-doa/algorithms/spectral"
	"github.com/RyanBlaney/sonido-doa/algorithms/windowing"
	"github.com/RyanBlaney/sonido-doa/logging"
)

// EnvPrefix prefixes every environment override, e.g.
// SONIDO_DOA_ARRAY_CHANNELS.
const EnvPrefix = "SONIDO_DOA"

// Config represents the application configuration
type Config struct {
	LogLevel     string `mapstructure:"log_level" json:"log_level" yaml:"log_level"`
	OutputFormat string `mapstructure:"output_format" json:"output_format" yaml:"output_format"`

	Array    ArrayConfig    `mapstructure:"array" json:"array" yaml:"array"`
	Analysis AnalysisConfig `mapstructure:"analysis" json:"analysis" yaml:"analysis"`
}

// ArrayConfig describes the microphone array
type ArrayConfig struct {
	Channels   int     `mapstructure:"channels" json:"channels" yaml:"channels"`
	Spacing    float64 `mapstructure:"spacing" json:"spacing" yaml:"spacing"`             // meters
	SoundSpeed float64 `mapstructure:"sound_speed" json:"sound_speed" yaml:"sound_speed"` // m/s
}

// AnalysisConfig contains beamforming settings
type AnalysisConfig struct {
	BandLow          float64 `mapstructure:"band_low" json:"band_low" yaml:"band_low"`
	BandHigh         float64 `mapstructure:"band_high" json:"band_high" yaml:"band_high"`
	WindowLength     int     `mapstructure:"window_length" json:"window_length" yaml:"window_length"`
	Window           string  `mapstructure:"window" json:"window" yaml:"window"`
	AngleMin         float64 `mapstructure:"angle_min" json:"angle_min" yaml:"angle_min"`
	AngleMax         float64 `mapstructure:"angle_max" json:"angle_max" yaml:"angle_max"`
	AngleCount       int     `mapstructure:"angle_count" json:"angle_count" yaml:"angle_count"`
	Workers          int     `mapstructure:"workers" json:"workers" yaml:"workers"`
	CenterCovariance bool    `mapstructure:"center_covariance" json:"center_covariance" yaml:"center_covariance"`
	DCCutoff         float64 `mapstructure:"dc_cutoff" json:"dc_cutoff" yaml:"dc_cutoff"` // Hz, 0 disables
}

// OutputFormats lists the accepted values for output_format.
var OutputFormats = []string{"table", "json", "yaml"}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		OutputFormat: "table",
		Array: ArrayConfig{
			Channels:   4,
			Spacing:    0.04,
			SoundSpeed: spatial.DefaultSoundSpeed,
		},
		Analysis: AnalysisConfig{
			BandLow:      500,
			BandHigh:     4000,
			WindowLength: spatial.DefaultWindowLength,
			Window:       windowing.TypeRectangular,
			AngleMin:     -90,
			AngleMax:     90,
			AngleCount:   spatial.DefaultAngleCount,
		},
	}
}

// Load reads configuration from path (optional), the environment and
// defaults, in decreasing priority.
func Load(path string) (*Config, error) {
	return LoadWithViper(viper.New(), path)
}

// LoadWithViper is Load on a caller-owned viper instance, so values bound
// from command-line flags take precedence.
func LoadWithViper(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
			logging.Warn("config file not found, using defaults", logging.Fields{"path": path})
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("output_format", d.OutputFormat)

	v.SetDefault("array.channels", d.Array.Channels)
	v.SetDefault("array.spacing", d.Array.Spacing)
	v.SetDefault("array.sound_speed", d.Array.SoundSpeed)

	v.SetDefault("analysis.band_low", d.Analysis.BandLow)
	v.SetDefault("analysis.band_high", d.Analysis.BandHigh)
	v.SetDefault("analysis.window_length", d.Analysis.WindowLength)
	v.SetDefault("analysis.window", d.Analysis.Window)
	v.SetDefault("analysis.angle_min", d.Analysis.AngleMin)
	v.SetDefault("analysis.angle_max", d.Analysis.AngleMax)
	v.SetDefault("analysis.angle_count", d.Analysis.AngleCount)
	v.SetDefault("analysis.workers", d.Analysis.Workers)
	v.SetDefault("analysis.center_covariance", d.Analysis.CenterCovariance)
	v.SetDefault("analysis.dc_cutoff", d.Analysis.DCCutoff)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if !isOutputFormat(c.OutputFormat) {
		return fmt.Errorf("output_format must be one of %s, got %q",
			strings.Join(OutputFormats, ", "), c.OutputFormat)
	}

	if c.Analysis.AngleCount <= 0 {
		return fmt.Errorf("angle_count must be > 0, got %d", c.Analysis.AngleCount)
	}
	if c.Analysis.AngleCount > 1 && c.Analysis.AngleMin >= c.Analysis.AngleMax {
		return fmt.Errorf("angle_min must be < angle_max, got %v >= %v",
			c.Analysis.AngleMin, c.Analysis.AngleMax)
	}

	return c.BeamformerConfig().Validate()
}

// BeamformerConfig converts the application settings into a
// spatial.Config.
func (c *Config) BeamformerConfig() spatial.Config {
	return spatial.Config{
		Geometry: spatial.ArrayGeometry{
			Channels:   c.Array.Channels,
			Spacing:    c.Array.Spacing,
			SoundSpeed: c.Array.SoundSpeed,
		},
		Band: spectral.FrequencyBand{
			Low:  c.Analysis.BandLow,
			High: c.Analysis.BandHigh,
		},
		Angles:           common.Linspace(c.Analysis.AngleMin, c.Analysis.AngleMax, c.Analysis.AngleCount),
		WindowLength:     c.Analysis.WindowLength,
		Window:           c.Analysis.Window,
		Workers:          c.Analysis.Workers,
		CenterCovariance: c.Analysis.CenterCovariance,
		DCCutoff:         c.Analysis.DCCutoff,
	}
}

func isOutputFormat(format string) bool {
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
