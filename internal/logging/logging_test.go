// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, LevelInfo, cfg.Level)
	assert.False(t, cfg.JSON)
	assert.NotNil(t, cfg.Output)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
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

func TestJSONOutputCarriesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &buf, JSON: true}).WithComponent("schema")

	logger.Warn("attribute excluded", "attribute", "labels", "error", errors.New("unmatched '{'"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "schema", entry["component"])
	assert.Equal(t, "attribute excluded", entry["message"])
	assert.Equal(t, "labels", entry["attribute"])
	assert.Equal(t, "unmatched '{'", entry["error"])
	assert.Equal(t, "schema", logger.Component())
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelError, Output: &buf, JSON: true})

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Error("kept", "odd")
	assert.True(t, strings.Contains(buf.String(), "kept"))
	assert.True(t, strings.Contains(buf.String(), "!BADKEY"))
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	SetDefault(New(Config{Level: LevelInfo, Output: &buf, JSON: true}))
	SetDefault(nil)

	Info("hello", "k", 1)
	assert.Contains(t, buf.String(), `"k":1`)
}
