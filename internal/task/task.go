// Package task owns the persisted task repository: a single JSON document
// mapping task name to record. No other component writes that file.
package task

import (
	"fmt"
	"time"
)

// ScriptType selects the execution path for a task's script.
type ScriptType string

const (
	ScriptShell  ScriptType = "shell"
	ScriptPython ScriptType = "python"
)

// ParseScriptType normalizes a user-supplied script type. "command" is
// accepted as a legacy alias for shell.
func ParseScriptType(s string) (ScriptType, error) {
	switch s {
	case "shell", "command":
		return ScriptShell, nil
	case "python":
		return ScriptPython, nil
	default:
		return "", &ValidationError{Field: "script_type", Reason: fmt.Sprintf("unknown value %q, must be \"shell\" or \"python\"", s)}
	}
}

// Task is one stored unit of work. Name is the map key in the backing file
// and is filled in when records are read back out.
type Task struct {
	Name        string     `json:"-"`
	Description string     `json:"description"`
	Script      string     `json:"script"`
	ScriptType  ScriptType `json:"script_type"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Summary is the listing view of a task: everything but the script body.
type Summary struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ScriptType  ScriptType `json:"script_type"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
