package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")
	log.Info().Msg("hidden")
	log.Warn().Str("component", "test").Msg("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "test", entry["component"])
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "loud")
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "hidden")
}
