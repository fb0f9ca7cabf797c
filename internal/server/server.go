// Package server is the MCP-facing layer: it declares the tool surface and
// routes incoming calls to the task store, execution gateway, secrets store
// and webpage fetcher. Every tool call returns text; component errors are
// converted to error results and never propagate to the protocol layer.
package server

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nash-labs/nash-mcp/internal/executil"
	"github.com/nash-labs/nash-mcp/internal/secrets"
	"github.com/nash-labs/nash-mcp/internal/task"
	"github.com/nash-labs/nash-mcp/internal/webfetch"
)

const serverVersion = "1.0.0"

type Server struct {
	tasks   *task.Store
	runner  *executil.Runner
	secrets *secrets.Store
	fetcher *webfetch.Fetcher
}

func New(tasks *task.Store, runner *executil.Runner, sec *secrets.Store, fetcher *webfetch.Fetcher) *Server {
	return &Server{tasks: tasks, runner: runner, secrets: sec, fetcher: fetcher}
}

// Serve registers all tools and blocks serving the MCP protocol on stdio.
func (s *Server) Serve(name string) error {
	return server.ServeStdio(s.MCPServer(name))
}

// MCPServer builds the protocol server with tools and lifecycle hooks.
func (s *Server) MCPServer(name string) *server.MCPServer {
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(func(ctx context.Context, id any, message *mcp.CallToolRequest) {
		slog.Info("Tool call", "id", id, "tool", message.Params.Name)
	})
	hooks.AddAfterCallTool(func(ctx context.Context, id any, message *mcp.CallToolRequest, result *mcp.CallToolResult) {
		slog.Info("Tool call finished", "id", id, "tool", message.Params.Name, "is_error", result != nil && result.IsError)
	})
	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		slog.Error("Protocol error", "id", id, "method", method, "error", err)
	})
	hooks.AddAfterInitialize(func(ctx context.Context, id any, message *mcp.InitializeRequest, result *mcp.InitializeResult) {
		slog.Info("Client initialized", "id", id)
	})

	m := server.NewMCPServer(name, serverVersion,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithHooks(hooks),
	)
	s.registerTools(m)
	return m
}

// readOnlyTool declares a tool that neither mutates state nor reaches out.
func readOnlyTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts, mcp.WithToolAnnotation(mcp.ToolAnnotation{
		ReadOnlyHint:    mcp.ToBoolPtr(true),
		DestructiveHint: mcp.ToBoolPtr(false),
		OpenWorldHint:   mcp.ToBoolPtr(false),
	}))
	return mcp.NewTool(name, opts...)
}

// execTool declares a tool that runs arbitrary code with host permissions.
func execTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts, mcp.WithToolAnnotation(mcp.ToolAnnotation{
		ReadOnlyHint:    mcp.ToBoolPtr(false),
		DestructiveHint: mcp.ToBoolPtr(true),
		OpenWorldHint:   mcp.ToBoolPtr(true),
	}))
	return mcp.NewTool(name, opts...)
}

func (s *Server) registerTools(m *server.MCPServer) {
	m.AddTool(execTool("execute_command",
		mcp.WithDescription("Execute a shell command and return its output. Commands run with the server's permissions; non-zero exits are reported with stdout, stderr and the exit code."),
		mcp.WithString("command", mcp.Required(), mcp.Description("Shell command line to execute")),
	), s.handleExecuteCommand)

	m.AddTool(execTool("execute_python",
		mcp.WithDescription("Execute Python code and return printed output. Available secrets are injected as environment variables; use os.environ.get('SECRET_NAME') to read them. Runtime faults are reported, not raised."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Python code to execute")),
	), s.handleExecutePython)

	m.AddTool(readOnlyTool("list_installed_packages",
		mcp.WithDescription("List the Python packages installed in the execution interpreter. Check this before importing third-party libraries in execute_python."),
	), s.handleListPackages)

	m.AddTool(mcp.NewTool("fetch_webpage",
		mcp.WithDescription("Fetch a webpage and return its content converted to plain text."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Full http or https URL to fetch")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			ReadOnlyHint:    mcp.ToBoolPtr(true),
			DestructiveHint: mcp.ToBoolPtr(false),
			OpenWorldHint:   mcp.ToBoolPtr(true),
		}),
	), s.handleFetchWebpage)

	m.AddTool(readOnlyTool("nash_secrets",
		mcp.WithDescription("List the names of available secrets. Values are never returned; they are injected into execution environments and read with os.environ.get('SECRET_NAME')."),
	), s.handleSecrets)

	m.AddTool(mcp.NewTool("save_nash_task",
		mcp.WithDescription("Save a reusable task with an executable script. Saving under an existing name overwrites the stored script while preserving the creation time."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Unique, descriptive task name")),
		mcp.WithString("description", mcp.Description("Human-readable summary of what the task does")),
		mcp.WithString("script", mcp.Required(), mcp.Description("Script body: a shell command line or Python code")),
		mcp.WithString("script_type", mcp.Required(), mcp.Description("Execution path for the script: \"shell\" or \"python\"")),
	), s.handleSaveTask)

	m.AddTool(readOnlyTool("list_nash_tasks",
		mcp.WithDescription("List all saved tasks with their descriptions and script types."),
	), s.handleListTasks)

	m.AddTool(readOnlyTool("run_nash_task",
		mcp.WithDescription("Retrieve a saved task for use: its stored script and metadata. Execute it with execute_task_script."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Exact task name (case-sensitive)")),
	), s.handleRunTask)

	m.AddTool(execTool("execute_task_script",
		mcp.WithDescription("Execute the script stored in a saved task and return the execution result."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Exact task name (case-sensitive)")),
	), s.handleExecuteTaskScript)

	m.AddTool(readOnlyTool("view_task_details",
		mcp.WithDescription("View the complete record of a saved task, including the full script body, without executing it."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Exact task name (case-sensitive)")),
	), s.handleViewTaskDetails)

	m.AddTool(mcp.NewTool("delete_nash_task",
		mcp.WithDescription("Permanently delete a saved task."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Exact task name (case-sensitive)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			ReadOnlyHint:    mcp.ToBoolPtr(false),
			DestructiveHint: mcp.ToBoolPtr(true),
			OpenWorldHint:   mcp.ToBoolPtr(false),
		}),
	), s.handleDeleteTask)

	m.AddTool(readOnlyTool("nash_help",
		mcp.WithDescription("Usage guide for the Nash tools: capabilities, workflows and conventions."),
	), s.handleHelp)
}

func (s *Server) handleExecuteCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command, err := request.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := s.runner.RunCommand(ctx, command)
	return commandResult(res), nil
}

func (s *Server) handleExecutePython(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := s.runner.RunPython(ctx, code)
	return pythonResult(res), nil
}

func (s *Server) handleListPackages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := s.runner.ListPackages(ctx)
	if !res.Success {
		return mcp.NewToolResultError(formatFailure(res)), nil
	}
	return mcp.NewToolResultText("Python interpreter: " + s.runner.Python() + "\n\n" + res.Stdout), nil
}

func (s *Server) handleFetchWebpage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return mcp.NewToolResultError("Error fetching webpage: " + err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleSecrets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keys := s.secrets.Keys()
	if len(keys) == 0 {
		return mcp.NewToolResultText("No secrets available."), nil
	}
	return mcp.NewToolResultText(formatSecretKeys(keys)), nil
}

func (s *Server) handleSaveTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	script, err := request.RequireString("script")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawType, err := request.RequireString("script_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description := request.GetString("description", "")

	scriptType, err := task.ParseScriptType(rawType)
	if err != nil {
		return taskError(err), nil
	}
	saved, created, err := s.tasks.Save(name, description, script, scriptType)
	if err != nil {
		return taskError(err), nil
	}
	if created {
		return mcp.NewToolResultText("Task '" + saved.Name + "' saved successfully."), nil
	}
	return mcp.NewToolResultText("Task '" + saved.Name + "' updated successfully."), nil
}

func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := s.tasks.List()
	if err != nil {
		return taskError(err), nil
	}
	if len(summaries) == 0 {
		return mcp.NewToolResultText("No tasks available. Use save_nash_task to create tasks."), nil
	}
	return mcp.NewToolResultText(formatSummaries(summaries)), nil
}

func (s *Server) handleRunTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.tasks.Get(name)
	if err != nil {
		return taskError(err), nil
	}
	return mcp.NewToolResultText(formatTaskForRun(t)), nil
}

func (s *Server) handleExecuteTaskScript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.tasks.Get(name)
	if err != nil {
		return taskError(err), nil
	}
	res := s.runner.RunTask(ctx, t)
	if t.ScriptType == task.ScriptPython {
		return pythonResult(res), nil
	}
	return commandResult(res), nil
}

func (s *Server) handleViewTaskDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.tasks.Get(name)
	if err != nil {
		return taskError(err), nil
	}
	return mcp.NewToolResultText(formatTaskDetails(t)), nil
}

func (s *Server) handleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.tasks.Delete(name); err != nil {
		return taskError(err), nil
	}
	return mcp.NewToolResultText("Task '" + name + "' deleted successfully."), nil
}

func (s *Server) handleHelp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(helpText), nil
}
