package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-doa/configs"
	"github.com/RyanBlaney/sonido-doa/logging"
)

// app carries state shared by all commands of one command tree.
type app struct {
	v          *viper.Viper
	configFile string
	logger     logging.Logger
}

// NewRootCommand builds the sonido-doa command tree with its own viper
// instance.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "sonido-doa",
		Short: "Delay-and-sum direction of arrival estimation",
		Long: `Estimate the direction of arrival of a sound source from a uniform linear
microphone array with a frequency-domain delay-and-sum (Bartlett) beamformer.

Configuration is read from an optional YAML file, SONIDO_DOA_* environment
variables and command-line flags, in increasing priority.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (YAML)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.StringP("output", "o", "table", "output format (table, json, yaml)")

	bindFlags(a.v, flags, map[string]string{
		"log_level":     "log-level",
		"output_format": "output",
	})

	rootCmd.AddCommand(newEstimateCommand(a))
	rootCmd.AddCommand(newConfigCommand(a))

	return rootCmd
}

// Execute runs the command tree and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves and validates the configuration and sets up
// logging from it.
func (a *app) loadConfig(cmd *cobra.Command) (*configs.Config, error) {
	cfg, err := configs.LoadWithViper(a.v, a.configFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), cmd.ErrOrStderr(), level)
	a.logger = logger.WithFields(logging.Fields{"command": cmd.Name()})

	return cfg, nil
}
