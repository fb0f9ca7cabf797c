// Package config resolves the server's required environment variables.
// All paths come from the environment with no defaults: a partially
// configured server must refuse to start rather than guess.
package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	EnvBasePath    = "NASH_BASE_PATH"
	EnvSecretsPath = "NASH_SECRETS_PATH"
	EnvTasksPath   = "NASH_TASKS_PATH"
	EnvLogsPath    = "NASH_LOGS_PATH"

	// EnvPython optionally overrides the Python interpreter used for
	// execute_python and list_installed_packages.
	EnvPython = "NASH_PYTHON"
)

type Config struct {
	BasePath    string
	SecretsPath string
	TasksPath   string
	LogsPath    string
	Python      string
}

// Load reads the configuration from the process environment. A missing or
// empty required variable is a fatal startup condition; the returned error
// names every variable that is absent.
func Load() (*Config, error) {
	cfg := &Config{
		BasePath:    os.Getenv(EnvBasePath),
		SecretsPath: os.Getenv(EnvSecretsPath),
		TasksPath:   os.Getenv(EnvTasksPath),
		LogsPath:    os.Getenv(EnvLogsPath),
		Python:      os.Getenv(EnvPython),
	}

	var missing []string
	for _, v := range []struct {
		name, value string
	}{
		{EnvBasePath, cfg.BasePath},
		{EnvSecretsPath, cfg.SecretsPath},
		{EnvTasksPath, cfg.TasksPath},
		{EnvLogsPath, cfg.LogsPath},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}
