package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"fatal", FatalLevel, false},
		{"loud", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriterLoggerRoutesByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewWriterLogger(&stdout, &stderr, DebugLevel)

	logger.Debug("bins selected", Fields{"count": 3})
	logger.Warn("band above aliasing limit")
	logger.Error(errors.New("boom"), "estimate failed", Fields{"field": "band"})

	assert.Equal(t, "[DEBUG] bins selected count=3\n", stdout.String())
	assert.Contains(t, stderr.String(), "[WARN] band above aliasing limit\n")
	assert.Contains(t, stderr.String(), "[ERROR] estimate failed: boom field=band\n")
}

func TestWriterLoggerFiltersLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewWriterLogger(&stdout, &stderr, WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Empty(t, stdout.String())

	logger.SetLevel(DebugLevel)
	logger.Info("shown")
	assert.Equal(t, "[INFO] shown\n", stdout.String())
}

func TestWithFieldsAndContext(t *testing.T) {
	var stdout bytes.Buffer
	base := NewWriterLogger(&stdout, &stdout, InfoLevel)

	child := base.WithFields(Fields{"component": "beamformer"})
	ctx := ContextWithFields(context.Background(), Fields{"call": 7})
	child.WithContext(ctx).Info("done", Fields{"angles": 73})

	assert.Equal(t, "[INFO] done angles=73 call=7 component=beamformer\n", stdout.String())

	stdout.Reset()
	base.Info("plain")
	assert.Equal(t, "[INFO] plain\n", stdout.String())
}

func TestFatalCallsExit(t *testing.T) {
	var out bytes.Buffer
	logger := NewWriterLogger(&out, &out, InfoLevel)

	code := -1
	logger.exit = func(c int) { code = c }
	logger.Fatal(errors.New("bad"), "giving up")

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "[FATAL] giving up: bad")
}

func TestSetGlobalLoggerNil(t *testing.T) {
	prev := GetGlobalLogger()
	t.Cleanup(func() { SetGlobalLogger(prev) })

	SetGlobalLogger(nil)
	_, ok := GetGlobalLogger().(*NoOpLogger)
	assert.True(t, ok)

	// must not panic
	Info("ignored")
	WithFields(Fields{"a": 1}).Debug("ignored")
}
