package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfigDir(t *testing.T, files map[string]string) string {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	dir := filepath.Join(xdg, "multihook")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestConfigValidate_OK(t *testing.T) {
	setupConfigDir(t, map[string]string{
		"a.yaml": "endpoints:\n  deploy:\n    path: deploy\n    action: \"true\"\n",
		"b.json": `{"endpoints": {"build": {"path": "build", "action": "make"}}}`,
	})

	stdout, _, err := runCLI(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "OK: 2 endpoint(s) from 2 file(s)")
	assert.Contains(t, stdout, "build, deploy")
}

func TestConfigValidate_Invalid(t *testing.T) {
	setupConfigDir(t, map[string]string{
		"a.yaml": "endpoints:\n  deploy:\n    path: deploy\n",
	})

	_, stderr, err := runCLI(t, "config", "validate")
	var exitErr *ExitCodeError
	require.True(t, errors.As(err, &exitErr), "err = %v", err)
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, stderr, "endpoints.deploy.action")
}

func TestConfigShow(t *testing.T) {
	dir := setupConfigDir(t, map[string]string{
		"a.yaml": "endpoints:\n  deploy:\n    path: /deploy\n    action: make\n",
	})

	stdout, _, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# source: "+filepath.Join(dir, "a.yaml"))
	assert.Contains(t, stdout, "127.0.0.1:8080")
	assert.Contains(t, stdout, "path: deploy")
}

func TestConfigShow_ExplicitFile(t *testing.T) {
	setupConfigDir(t, nil)
	extra := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(extra, []byte("server:\n  address: \":9999\"\n"), 0o600))

	stdout, _, err := runCLI(t, "--config", extra, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, ":9999")
}

func TestConfigPath(t *testing.T) {
	dir := setupConfigDir(t, map[string]string{"z.yml": "", "a.yaml": ""})

	stdout, _, err := runCLI(t, "config", "path")
	require.NoError(t, err)
	want := dir + "\n  " + filepath.Join(dir, "a.yaml") + "\n  " + filepath.Join(dir, "z.yml") + "\n"
	assert.Equal(t, want, stdout)
}

func TestConfigInit(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	stdout, _, err := runCLI(t, "config", "init")
	require.NoError(t, err)

	path := filepath.Join(xdg, "multihook", "config.yaml")
	assert.FileExists(t, path)
	assert.Contains(t, stdout, path)
}
