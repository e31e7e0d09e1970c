package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.Disabled, parseLevel("off"))
	assert.Equal(t, zerolog.TraceLevel, parseLevel("trace"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("chatty"))
}

func TestComponent_AddsField(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(zerolog.New(&buf), "Session")
	logger.Info().Msg("Login OK")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Session", line["component"])
	assert.Equal(t, "Login OK", line["message"])
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), logger)
	got := FromContext(ctx)
	got.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")

	nop := FromContext(context.Background())
	nop.Info().Msg("dropped")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixmycity.log")

	logger, closeLog := New(Config{Level: "info", Format: "json", Output: path})
	logger.Info().Msg("Login OK")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"Login OK"`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNew_FileOutputFallsBackToStderr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "fixmycity.log")

	out, closeOut, err := writer(Config{Format: "json", Output: path})
	require.Error(t, err)
	assert.Equal(t, os.Stderr, out)
	assert.NoError(t, closeOut())
}

func TestNew_StreamOutputsNeedNoClose(t *testing.T) {
	for _, output := range []string{"", "stderr", "stdout", "discard"} {
		_, closeLog := New(Config{Output: output})
		assert.NoError(t, closeLog(), output)
	}
}
