package task

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no task exists under the requested name.
var ErrNotFound = errors.New("task not found")

// ValidationError reports a rejected argument. The store is left unchanged
// when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps a failure to read or write the backing file, including
// a corrupt existing document.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("task storage %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
