package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setAll(t *testing.T) {
	t.Helper()
	t.Setenv(EnvBasePath, "/tmp/nash")
	t.Setenv(EnvSecretsPath, "/tmp/nash/secrets.json")
	t.Setenv(EnvTasksPath, "/tmp/nash/tasks.json")
	t.Setenv(EnvLogsPath, "/tmp/nash/logs")
}

func TestLoad(t *testing.T) {
	setAll(t)
	t.Setenv(EnvPython, "/usr/bin/python3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/nash", cfg.BasePath)
	assert.Equal(t, "/tmp/nash/secrets.json", cfg.SecretsPath)
	assert.Equal(t, "/tmp/nash/tasks.json", cfg.TasksPath)
	assert.Equal(t, "/tmp/nash/logs", cfg.LogsPath)
	assert.Equal(t, "/usr/bin/python3", cfg.Python)
}

func TestLoadPythonOptional(t *testing.T) {
	setAll(t)
	t.Setenv(EnvPython, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Python)
}

func TestLoadMissingTasksPath(t *testing.T) {
	setAll(t)
	t.Setenv(EnvTasksPath, "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTasksPath)
	assert.NotContains(t, err.Error(), EnvBasePath)
}

func TestLoadReportsAllMissing(t *testing.T) {
	t.Setenv(EnvBasePath, "")
	t.Setenv(EnvSecretsPath, "")
	t.Setenv(EnvTasksPath, "")
	t.Setenv(EnvLogsPath, "")

	_, err := Load()
	require.Error(t, err)
	for _, name := range []string{EnvBasePath, EnvSecretsPath, EnvTasksPath, EnvLogsPath} {
		assert.Contains(t, err.Error(), name)
	}
}
