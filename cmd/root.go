package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nash-labs/nash-mcp/internal/config"
	"github.com/nash-labs/nash-mcp/internal/executil"
	"github.com/nash-labs/nash-mcp/internal/logging"
	"github.com/nash-labs/nash-mcp/internal/secrets"
	"github.com/nash-labs/nash-mcp/internal/server"
	"github.com/nash-labs/nash-mcp/internal/task"
	"github.com/nash-labs/nash-mcp/internal/webfetch"
)

const serverName = "Nash"

var rootCmd = &cobra.Command{
	Use:   "nash-mcp",
	Short: "An MCP server exposing command execution, Python execution, web fetching and a task repository.",
	Long: `nash-mcp serves the Nash tool set over the Model Context Protocol on stdio.

Configuration comes from the environment: NASH_BASE_PATH, NASH_SECRETS_PATH,
NASH_TASKS_PATH and NASH_LOGS_PATH are required; NASH_PYTHON optionally
selects the Python interpreter.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logFile, err := logging.Setup(cfg.LogsPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	defer logFile.Close()

	slog.Info("Starting Nash MCP server")

	sec, err := secrets.Load(cfg.SecretsPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	slog.Info("Secrets loaded", "count", sec.Len())

	store := task.NewStore(cfg.TasksPath)
	runner := executil.NewRunner(cfg.BasePath, cfg.Python, sec)
	slog.Info("Execution gateway ready", "python", runner.Python(), "workdir", cfg.BasePath)

	srv := server.New(store, runner, sec, webfetch.New())
	if err := srv.Serve(serverName); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
