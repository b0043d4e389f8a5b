package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-doa/algorithms/spatial"
)

type spectrumPoint struct {
	Angle     float64 `json:"angle" yaml:"angle"`
	Magnitude float64 `json:"magnitude" yaml:"magnitude"`
}

type estimateReport struct {
	SourceAngle   float64         `json:"source_angle" yaml:"source_angle"`
	PeakAngle     float64         `json:"peak_angle" yaml:"peak_angle"`
	PeakMagnitude float64         `json:"peak_magnitude" yaml:"peak_magnitude"`
	Contrast      float64         `json:"contrast" yaml:"contrast"`
	Frequencies   []float64       `json:"frequencies" yaml:"frequencies"`
	Spectrum      []spectrumPoint `json:"spectrum" yaml:"spectrum"`
}

func newEstimateReport(sourceAngle float64, result *spatial.SpatialSpectrum) estimateReport {
	_, angle, peak := result.Peak()

	points := make([]spectrumPoint, len(result.Angles))
	for i := range points {
		points[i] = spectrumPoint{Angle: result.Angles[i], Magnitude: result.Magnitude[i]}
	}

	return estimateReport{
		SourceAngle:   sourceAngle,
		PeakAngle:     angle,
		PeakMagnitude: peak,
		Contrast:      result.Contrast(),
		Frequencies:   result.Frequencies,
		Spectrum:      points,
	}
}

func writeReport(w io.Writer, format string, report estimateReport) error {
	if format == "table" {
		return writeTable(w, report)
	}
	return writeValue(w, format, report)
}

// writeValue encodes v as JSON or YAML.
func writeValue(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeTable(w io.Writer, report estimateReport) error {
	fmt.Fprintf(w, "source angle:  %8.2f deg\n", report.SourceAngle)
	fmt.Fprintf(w, "peak angle:    %8.2f deg\n", report.PeakAngle)
	fmt.Fprintf(w, "contrast:      %8.2f\n", report.Contrast)
	fmt.Fprintf(w, "bins averaged: %8d\n\n", len(report.Frequencies))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ANGLE\tMAGNITUDE\tRELATIVE\t")
	for _, p := range report.Spectrum {
		rel := 0.0
		if report.PeakMagnitude > 0 {
			rel = p.Magnitude / report.PeakMagnitude
		}
		fmt.Fprintf(tw, "%.2f\t%.6g\t%.3f\t\n", p.Angle, p.Magnitude, rel)
	}
	return tw.Flush()
}
