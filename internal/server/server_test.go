package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nash-labs/nash-mcp/internal/executil"
	"github.com/nash-labs/nash-mcp/internal/secrets"
	"github.com/nash-labs/nash-mcp/internal/task"
	"github.com/nash-labs/nash-mcp/internal/webfetch"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	secretsPath := filepath.Join(dir, "secrets.json")
	require.NoError(t, os.WriteFile(secretsPath, []byte(`{"WEATHER_API_KEY": "topsecret"}`), 0o600))
	sec, err := secrets.Load(secretsPath)
	require.NoError(t, err)

	store := task.NewStore(filepath.Join(dir, "tasks.json"))
	runner := executil.NewRunner(dir, "", sec)
	return New(store, runner, sec, webfetch.New())
}

func callReq(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestExecuteCommandTool(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleExecuteCommand(context.Background(), callReq("execute_command", map[string]any{"command": "echo hello"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, textOf(t, res), "hello")
}

func TestExecuteCommandFailure(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleExecuteCommand(context.Background(), callReq("execute_command", map[string]any{"command": "exit 3"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "exit code 3")
}

func TestExecuteCommandMissingArgument(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleExecuteCommand(context.Background(), callReq("execute_command", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestSecretsToolListsKeysOnly(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleSecrets(context.Background(), callReq("nash_secrets", nil))
	require.NoError(t, err)
	text := textOf(t, res)
	assert.Contains(t, text, "WEATHER_API_KEY")
	assert.NotContains(t, text, "topsecret")
}

func TestTaskLifecycleThroughTools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	// Empty store.
	res, err := s.handleListTasks(ctx, callReq("list_nash_tasks", nil))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, res), "No tasks available")

	// Save.
	res, err = s.handleSaveTask(ctx, callReq("save_nash_task", map[string]any{
		"name":        "greeting",
		"description": "Say hello",
		"script":      "echo hello from task",
		"script_type": "shell",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, textOf(t, res), "saved successfully")

	// An immediate overwrite reports an update, not a fresh save.
	res, err = s.handleSaveTask(ctx, callReq("save_nash_task", map[string]any{
		"name":        "greeting",
		"description": "Say hello",
		"script":      "echo hello from task",
		"script_type": "shell",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, textOf(t, res), "updated successfully")

	// List shows it.
	res, err = s.handleListTasks(ctx, callReq("list_nash_tasks", nil))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, res), "greeting")

	// Retrieve for review: script body plus metadata.
	res, err = s.handleRunTask(ctx, callReq("run_nash_task", map[string]any{"name": "greeting"}))
	require.NoError(t, err)
	text := textOf(t, res)
	assert.Contains(t, text, "TASK: greeting")
	assert.Contains(t, text, "echo hello from task")

	// Execute it.
	res, err = s.handleExecuteTaskScript(ctx, callReq("execute_task_script", map[string]any{"name": "greeting"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, textOf(t, res), "hello from task")

	// Full details.
	res, err = s.handleViewTaskDetails(ctx, callReq("view_task_details", map[string]any{"name": "greeting"}))
	require.NoError(t, err)
	text = textOf(t, res)
	assert.Contains(t, text, "Say hello")
	assert.Contains(t, text, "echo hello from task")

	// Delete, then everything reports not found.
	res, err = s.handleDeleteTask(ctx, callReq("delete_nash_task", map[string]any{"name": "greeting"}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, res), "deleted successfully")

	res, err = s.handleRunTask(ctx, callReq("run_nash_task", map[string]any{"name": "greeting"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "not found")
}

func TestSaveTaskValidation(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleSaveTask(context.Background(), callReq("save_nash_task", map[string]any{
		"name":        "bad",
		"script":      "puts :hi",
		"script_type": "ruby",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "validation error")
}

func TestDeleteUnknownTask(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleDeleteTask(context.Background(), callReq("delete_nash_task", map[string]any{"name": "ghost"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "not found")
}

func TestHelpTool(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleHelp(context.Background(), callReq("nash_help", nil))
	require.NoError(t, err)
	text := textOf(t, res)
	assert.Contains(t, text, "execute_command")
	assert.Contains(t, text, "save_nash_task")
}

func TestMCPServerRegistersTools(t *testing.T) {
	s := newTestServer(t)

	m := s.MCPServer("nash-test")
	assert.NotNil(t, m)
}

func TestFetchWebpageToolRejectsBadURL(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleFetchWebpage(context.Background(), callReq("fetch_webpage", map[string]any{"url": "ftp://example.com"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "http or https")
}
