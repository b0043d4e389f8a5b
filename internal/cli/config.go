package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

func newConfigCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Display the effective configuration",
		Long: `Load the configuration from file, environment and flags and print every
value, to verify what the estimate command will use.

Examples:
  sonido-doa config
  sonido-doa --config ./array.yaml config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			if cfg.OutputFormat != "table" {
				return writeValue(cmd.OutOrStdout(), cfg.OutputFormat, cfg)
			}

			w := cmd.OutOrStdout()
			bc := cfg.BeamformerConfig()

			printSection(w, "application settings")
			printKeyValue(w, "log level", cfg.LogLevel)
			printKeyValue(w, "output format", cfg.OutputFormat)

			printSection(w, "array geometry")
			printKeyValue(w, "channels", fmt.Sprintf("%d", cfg.Array.Channels))
			printKeyValue(w, "spacing", fmt.Sprintf("%g m", cfg.Array.Spacing))
			printKeyValue(w, "sound speed", fmt.Sprintf("%g m/s", cfg.Array.SoundSpeed))
			printKeyValue(w, "aperture", fmt.Sprintf("%g m", bc.Geometry.Aperture()))
			printKeyValue(w, "aliasing frequency", fmt.Sprintf("%.1f Hz", bc.Geometry.AliasingFrequency()))

			printSection(w, "analysis")
			printKeyValue(w, "band", bc.Band.String())
			printKeyValue(w, "window", fmt.Sprintf("%s, %d samples", cfg.Analysis.Window, cfg.Analysis.WindowLength))
			printKeyValue(w, "angles", fmt.Sprintf("%d over [%g, %g] deg",
				cfg.Analysis.AngleCount, cfg.Analysis.AngleMin, cfg.Analysis.AngleMax))
			printKeyValue(w, "workers", fmt.Sprintf("%d", cfg.Analysis.Workers))
			printKeyValue(w, "center covariance", fmt.Sprintf("%t", cfg.Analysis.CenterCovariance))
			printKeyValue(w, "dc cutoff", dcCutoff(cfg.Analysis.DCCutoff))
			return nil
		},
	}
}

func printSection(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", titleCaser.String(title), strings.Repeat("-", len(title)))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %-20s %s\n", titleCaser.String(key)+":", value)
}

func dcCutoff(hz float64) string {
	if hz <= 0 {
		return "off"
	}
	return fmt.Sprintf("%g Hz", hz)
}
