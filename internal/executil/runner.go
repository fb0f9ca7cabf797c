// Package executil runs task scripts and ad-hoc code as subprocesses. Every
// outcome, including non-zero exits and spawn failures, is normalized into a
// Result value so the dispatch layer always has uniform text to return.
package executil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/nash-labs/nash-mcp/internal/secrets"
	"github.com/nash-labs/nash-mcp/internal/task"
)

// Result captures one invocation. It is transient: formatted to text by the
// caller and discarded.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Success  bool

	// Err is set when the process could not be started at all, as opposed
	// to running and exiting non-zero.
	Err string
}

// Runner is the execution gateway. Secrets are merged into every child
// environment; the parent environment is never mutated.
type Runner struct {
	python  string
	workDir string
	secrets *secrets.Store
}

// NewRunner resolves the Python interpreter once up front. An empty python
// argument falls back to python3, then python, on PATH.
func NewRunner(workDir, python string, sec *secrets.Store) *Runner {
	if python == "" {
		for _, candidate := range []string{"python3", "python"} {
			if p, err := exec.LookPath(candidate); err == nil {
				python = p
				break
			}
		}
	}
	if python == "" {
		python = "python3"
	}
	return &Runner{python: python, workDir: workDir, secrets: sec}
}

// Python returns the resolved interpreter path.
func (r *Runner) Python() string { return r.python }

// RunCommand executes a shell command line and captures its outcome.
func (r *Runner) RunCommand(ctx context.Context, command string) Result {
	slog.Info("Executing command", "command", command)
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	return r.run(cmd)
}

// RunPython writes the code to a temporary file and executes it with the
// configured interpreter. The file is removed afterwards.
func (r *Runner) RunPython(ctx context.Context, code string) Result {
	slog.Info("Executing Python code", "bytes", len(code))

	tmp, err := os.CreateTemp("", "nash_*.py")
	if err != nil {
		return Result{ExitCode: -1, Err: fmt.Sprintf("create temp file: %v", err)}
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.WriteString(code); err != nil {
		tmp.Close()
		return Result{ExitCode: -1, Err: fmt.Sprintf("write temp file: %v", err)}
	}
	if err := tmp.Close(); err != nil {
		return Result{ExitCode: -1, Err: fmt.Sprintf("close temp file: %v", err)}
	}

	cmd := exec.CommandContext(ctx, r.python, path)
	return r.run(cmd)
}

// RunTask dispatches on the task's script type.
func (r *Runner) RunTask(ctx context.Context, t *task.Task) Result {
	slog.Info("Executing task script", "task", t.Name, "script_type", t.ScriptType)
	switch t.ScriptType {
	case task.ScriptShell:
		return r.RunCommand(ctx, t.Script)
	case task.ScriptPython:
		return r.RunPython(ctx, t.Script)
	default:
		return Result{ExitCode: -1, Err: fmt.Sprintf("unknown script type %q", t.ScriptType)}
	}
}

// ListPackages reports the interpreter's installed packages via pip.
func (r *Runner) ListPackages(ctx context.Context) Result {
	cmd := exec.CommandContext(ctx, r.python, "-m", "pip", "list")
	return r.run(cmd)
}

func (r *Runner) run(cmd *exec.Cmd) Result {
	cmd.Dir = r.workDir
	cmd.Env = mergeEnviron(os.Environ(), r.secrets.All())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	res := Result{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Success: runErr == nil,
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.Err = runErr.Error()
		}
		if res.Err != "" {
			slog.Warn("Execution failed", "exit_code", res.ExitCode, "error", res.Err)
		} else {
			slog.Warn("Execution failed", "exit_code", res.ExitCode, "stderr", res.Stderr)
		}
	} else {
		slog.Info("Execution succeeded", "exit_code", 0)
	}
	return res
}

// mergeEnviron is the single boundary where secret values enter a child
// environment. Secret keys override inherited variables of the same name.
func mergeEnviron(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	env := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if _, shadowed := extra[name]; !shadowed {
			env = append(env, kv)
		}
	}
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}
