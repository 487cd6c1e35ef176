package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lg, err := New(Options{Level: "warn", Format: "json", Output: &buf})
	require.NoError(t, err)
	lg.Info("hidden")
	lg.Warn("shown", slog.String("request_id", "abc"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "abc", rec["request_id"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	lg, err := New(Options{Level: "debug", Output: &buf})
	require.NoError(t, err)
	lg.Debug("dataset loaded", slog.Int("rows", 3))
	assert.Contains(t, buf.String(), `msg="dataset loaded" rows=3`)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
