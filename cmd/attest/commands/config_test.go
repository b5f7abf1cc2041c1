package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/attest/internal/errors"
)

func TestConfigShow(t *testing.T) {
	testEnv(t, nil)

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "version: 1")
	assert.Contains(t, out, "format: text")
	assert.Contains(t, out, "concurrency: 4")
}

func TestConfigShow_FromFile(t *testing.T) {
	testEnv(t, nil)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "format: json\nconcurrency: 2\n")

	out, err := execute(t, "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "format: json")
	assert.Contains(t, out, "concurrency: 2")

	out, err = execute(t, "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestConfigGet(t *testing.T) {
	testEnv(t, nil)

	out, err := execute(t, "config", "get", "format")
	require.NoError(t, err)
	assert.Equal(t, "text\n", out)

	_, err = execute(t, "config", "get", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestConfigPath_NoFile(t *testing.T) {
	testEnv(t, nil)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "no config file")
}
