package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nash-labs/nash-mcp/internal/executil"
	"github.com/nash-labs/nash-mcp/internal/task"
)

// taskError maps the store's error taxonomy onto error results with a
// clearly marked kind, never a raw fault.
func taskError(err error) *mcp.CallToolResult {
	var verr *task.ValidationError
	var serr *task.StorageError
	switch {
	case errors.Is(err, task.ErrNotFound):
		return mcp.NewToolResultError("not found: " + err.Error() + ". Use list_nash_tasks to see available tasks.")
	case errors.As(err, &verr):
		return mcp.NewToolResultError("validation error: " + verr.Error())
	case errors.As(err, &serr):
		return mcp.NewToolResultError("storage error: " + serr.Error())
	default:
		return mcp.NewToolResultError("error: " + err.Error())
	}
}

// commandResult renders a shell execution outcome. Failures are success
// responses carrying failure text, keeping the contract uniform.
func commandResult(res executil.Result) *mcp.CallToolResult {
	if res.Success {
		if strings.TrimSpace(res.Stdout) == "" {
			return mcp.NewToolResultText("Command executed (no output).")
		}
		return mcp.NewToolResultText(res.Stdout)
	}
	return mcp.NewToolResultError(formatFailure(res))
}

// pythonResult renders a Python execution outcome. Interpreter tracebacks
// arrive on stderr and are surfaced verbatim.
func pythonResult(res executil.Result) *mcp.CallToolResult {
	if res.Success {
		if res.Stdout == "" {
			return mcp.NewToolResultText("Code executed successfully (no output).")
		}
		return mcp.NewToolResultText(res.Stdout)
	}
	if res.Err != "" {
		return mcp.NewToolResultError("execution error: " + res.Err)
	}
	return mcp.NewToolResultError(fmt.Sprintf("Error (exit code %d):\n%s", res.ExitCode, res.Stderr))
}

func formatFailure(res executil.Result) string {
	if res.Err != "" {
		return "execution error: " + res.Err
	}
	return fmt.Sprintf("Command failed (exit code %d).\nSTDOUT:\n%s\nSTDERR:\n%s", res.ExitCode, res.Stdout, res.Stderr)
}

func formatSecretKeys(keys []string) string {
	var b strings.Builder
	b.WriteString("Available secrets:\n\n")
	for _, k := range keys {
		b.WriteString("- " + k + "\n")
	}
	b.WriteString("\nAccess in executed code with: os.environ.get('SECRET_NAME')")
	return b.String()
}

func formatSummaries(summaries []task.Summary) string {
	var b strings.Builder
	b.WriteString("Available tasks:\n\n")
	for _, s := range summaries {
		b.WriteString(fmt.Sprintf("- %s (%s)", s.Name, s.ScriptType))
		if s.Description != "" {
			b.WriteString(": " + s.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nUse run_nash_task(name) to view a task, execute_task_script(name) to run it.")
	return b.String()
}

func formatTaskForRun(t *task.Task) string {
	var b strings.Builder
	b.WriteString("TASK: " + t.Name + "\n\n")
	if t.Description != "" {
		b.WriteString("DESCRIPTION:\n" + t.Description + "\n\n")
	}
	b.WriteString(fmt.Sprintf("SCRIPT (%s):\n```%s\n%s\n```\n\n", t.ScriptType, scriptFence(t.ScriptType), t.Script))
	b.WriteString("Execute with: execute_task_script('" + t.Name + "')")
	return b.String()
}

func formatTaskDetails(t *task.Task) string {
	var b strings.Builder
	b.WriteString("TASK: " + t.Name + "\n")
	b.WriteString("Description: " + orNone(t.Description) + "\n")
	b.WriteString(fmt.Sprintf("Script type: %s\n", t.ScriptType))
	b.WriteString("Created: " + t.CreatedAt.Format("2006-01-02 15:04:05 MST") + "\n")
	b.WriteString("Updated: " + t.UpdatedAt.Format("2006-01-02 15:04:05 MST") + "\n\n")
	b.WriteString(fmt.Sprintf("Script:\n```%s\n%s\n```", scriptFence(t.ScriptType), t.Script))
	return b.String()
}

func scriptFence(st task.ScriptType) string {
	if st == task.ScriptPython {
		return "python"
	}
	return "sh"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
