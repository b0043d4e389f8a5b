package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-doa/algorithms/spatial"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestEstimateJSON(t *testing.T) {
	out, _, err := run(t, "estimate",
		"--source-angle", "30",
		"--tone", "1000",
		"--band-low", "900",
		"--band-high", "1100",
		"-o", "json",
	)
	require.NoError(t, err)

	var report estimateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.InDelta(t, 30.0, report.PeakAngle, 1e-9)
	assert.Equal(t, 30.0, report.SourceAngle)
	assert.Equal(t, []float64{1000}, report.Frequencies)
	assert.Len(t, report.Spectrum, spatial.DefaultAngleCount)
	assert.Greater(t, report.Contrast, 1.0)
}

func TestEstimateYAML(t *testing.T) {
	out, _, err := run(t, "estimate",
		"--source-angle", "-45",
		"--tone", "1000",
		"--band-low", "900",
		"--band-high", "1100",
		"--noise", "0.05",
		"--workers", "2",
		"--window-type", "hann",
		"-o", "yaml",
	)
	require.NoError(t, err)

	var report estimateReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))

	assert.InDelta(t, -45.0, report.PeakAngle, 2.5)
}

func TestEstimateWithDCCutoff(t *testing.T) {
	out, _, err := run(t, "estimate",
		"--source-angle", "30",
		"--dc-offset", "2",
		"--dc-cutoff", "50",
		"--band-low", "0",
		"--band-high", "1100",
		"-o", "json",
	)
	require.NoError(t, err)

	var report estimateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.InDelta(t, 30.0, report.PeakAngle, 2.5)
}

func TestEstimateWindowLengthFlag(t *testing.T) {
	// 750 Hz is a bin at 64 samples but not at 32.
	out, _, err := run(t, "estimate",
		"--window-length", "32",
		"--band-low", "700",
		"--band-high", "1100",
		"-o", "json",
	)
	require.NoError(t, err)

	var report estimateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []float64{1000}, report.Frequencies)
	assert.InDelta(t, 30.0, report.PeakAngle, 1e-9)
}

func TestEstimateTable(t *testing.T) {
	out, _, err := run(t, "estimate", "--band-low", "900", "--band-high", "1100")
	require.NoError(t, err)

	assert.Contains(t, out, "peak angle:")
	assert.Contains(t, out, "ANGLE")
	assert.Contains(t, out, "MAGNITUDE")
}

func TestEstimateLogsToStderr(t *testing.T) {
	out, logs, err := run(t, "--log-level", "debug", "estimate", "-o", "json")
	require.NoError(t, err)

	assert.Contains(t, logs, "estimate complete")
	assert.NotContains(t, out, "estimate complete")
}

func TestEstimateRejectsInvalidGeometry(t *testing.T) {
	_, _, err := run(t, "estimate", "--channels", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, spatial.ErrInvalidGeometry)
}

func TestEstimateRejectsEmptyBand(t *testing.T) {
	// 250 Hz bins at the default window; nothing lies in (1010, 1020).
	_, _, err := run(t, "estimate", "--band-low", "1010", "--band-high", "1020")
	require.Error(t, err)
	assert.ErrorIs(t, err, spatial.ErrInvalidBand)
}

func TestEstimateRejectsUnknownOutput(t *testing.T) {
	_, _, err := run(t, "estimate", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output_format")
}

func TestConfigTable(t *testing.T) {
	out, _, err := run(t, "config")
	require.NoError(t, err)

	assert.Contains(t, out, "Application Settings")
	assert.Contains(t, out, "Array Geometry")
	assert.Contains(t, out, "Aliasing Frequency:")
	assert.Contains(t, out, "[500, 4000] Hz")
	assert.Contains(t, out, "off")
	assert.Contains(t, out, "rectangular, 64 samples")
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("SONIDO_DOA_ARRAY_CHANNELS", "6")

	out, _, err := run(t, "config", "-o", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	array := got["array"].(map[string]any)
	assert.Equal(t, 6.0, array["channels"])
}
