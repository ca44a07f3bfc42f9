package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chat.log")

	log, closer, err := New(path, "debug")
	require.NoError(t, err)

	streamLog := Component(log, "stream")
	streamLog.Debug().Str("turn", "t1").Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"component":"stream"`)
	assert.Contains(t, string(data), `"turn":"t1"`)
}

func TestNewDefaultsToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")

	log, closer, err := New(path, "")
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNewInvalidLevel(t *testing.T) {
	_, _, err := New(filepath.Join(t.TempDir(), "chat.log"), "loud")
	assert.Error(t, err)
}

func TestNewWriterFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, zerolog.WarnLevel)

	log.Info().Msg("quiet")
	log.Warn().Msg("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}
