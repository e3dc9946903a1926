package scheduler

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrTasksRequired indicates tasks-per-machine was left unset for a
	// scheduler queue.
	ErrTasksRequired = errors.New("must specify -n/--num-tasks-per-machine when running on a non-local queue")

	// ErrQueueRequired indicates a multi-machine run on the local queue.
	ErrQueueRequired = errors.New("must specify -q/--queue when attempting to run on multiple machines with -m/--num-machines")

	// ErrNoScheduler indicates no supported scheduler binary was found.
	ErrNoScheduler = errors.New("no supported job scheduler detected on this machine")
)

// ScriptWriteError represents a failure writing the .run job script
type ScriptWriteError struct {
	Path string
	Err  error
}

func (e *ScriptWriteError) Error() string {
	return fmt.Sprintf("failed to write job script %s: %v", e.Path, e.Err)
}

func (e *ScriptWriteError) Unwrap() error {
	return e.Err
}

// NewScriptWriteError creates a new ScriptWriteError
func NewScriptWriteError(path string, err error) *ScriptWriteError {
	return &ScriptWriteError{Path: path, Err: err}
}
