// Package logging configures the process-wide slog logger. The MCP
// transport owns stdout, so log output goes to a timestamped file in the
// configured directory and to stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Setup creates the log directory if needed, opens a fresh timestamped log
// file and installs a text handler writing to both the file and stderr as
// the default slog logger. The returned closer releases the file.
func Setup(logsDir string) (io.Closer, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := fmt.Sprintf("nash_mcp_%s.log", time.Now().Format("2006-01-02_15-04-05"))
	file, err := os.OpenFile(filepath.Join(logsDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewTextHandler(io.MultiWriter(file, os.Stderr), nil)
	slog.SetDefault(slog.New(handler))
	slog.Info("Logging initialized", "file", file.Name())

	return file, nil
}
