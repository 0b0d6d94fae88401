package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		want    Config
		wantErr string
	}{
		{"Defaults", "info", "", Config{Level: slog.LevelInfo, Format: FormatText}, ""},
		{"Debug JSON", "debug", "JSON", Config{Level: slog.LevelDebug, Format: FormatJSON}, ""},
		{"Bad Level", "loud", "text", Config{}, "invalid log level"},
		{"Bad Format", "warn", "xml", Config{}, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig(tt.level, tt.format)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestNewWithConfig_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Level: slog.LevelWarn, Format: FormatJSON, Writer: &buf})

	logger.Info("dropped")
	logger.Warn("kept", "error", errors.New("boom"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "boom", rec["err"], "error key is renamed")
	assert.NotContains(t, rec, "error")
}

func TestNewWithConfig_Text(t *testing.T) {
	var buf bytes.Buffer
	NewWithConfig(Config{Writer: &buf}).Info("hello", "error", "x")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "err=x")
}
