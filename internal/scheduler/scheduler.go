// Package scheduler selects the execution backend for a job and builds the
// backend-specific submission command.
package scheduler

import (
	"os"

	"github.com/equinor/runcirrus/internal/job"
	"github.com/equinor/runcirrus/internal/utils"
)

// ScriptFile is a side effect the dispatcher must perform before launch:
// the rendered job script written next to the input file for scheduler
// backends.
type ScriptFile struct {
	Path    string
	Content string
}

// Invocation is the concrete OS-level command a backend produced. Args does
// not include the program name itself. Building an Invocation performs no OS
// calls; WriteScript and the launcher do.
type Invocation struct {
	Program string
	Args    []string

	// Script is non-nil for backends that submit a written script file.
	Script *ScriptFile
}

// Backend turns a resolved job plus the original request into an Invocation.
// BuildInvocation must be pure: no environment reads, no file writes.
type Backend interface {
	Name() string
	BuildInvocation(req *job.Request, res *job.Resolved) (*Invocation, error)
}

// WriteScript persists the invocation's script file, if any. Concurrent runs
// against the same input race to the same path; last writer wins, which is an
// accepted limitation.
func WriteScript(inv *Invocation) error {
	if inv.Script == nil {
		return nil
	}
	if err := os.WriteFile(inv.Script.Path, []byte(inv.Script.Content), utils.PermExec); err != nil {
		return NewScriptWriteError(inv.Script.Path, err)
	}
	return nil
}

// Normalize applies the selection policy's request corrections in place, then
// validates the queue/machine/task combination. After Normalize the request
// is considered immutable.
//
// Rules, in order:
//   - interactive forces the local queue
//   - inside a scheduler-managed allocation with a non-local queue: override
//     to local and default tasks-per-machine to 1, preventing a nested
//     submission from a script that is itself scheduler-dispatched
//   - unset tasks-per-machine requires the local queue and defaults to the
//     detected CPU count
//   - multiple machines require a real queue
func Normalize(req *job.Request, probes Probes) error {
	if req.Interactive {
		req.Queue = job.LocalQueue
	}

	if req.Queue != job.LocalQueue && probes.InsideAllocation() {
		utils.PrintWarning("already running inside a scheduler allocation; ignoring queue '%s' and running locally", req.Queue)
		req.Queue = job.LocalQueue
		if req.TasksPerMachine == 0 {
			req.TasksPerMachine = 1
		}
	}

	if req.TasksPerMachine == 0 {
		if req.Queue != job.LocalQueue {
			return ErrTasksRequired
		}
		req.TasksPerMachine = max(probes.NumCPU, 1)
	}

	if req.Machines > 1 && req.Queue == job.LocalQueue {
		return ErrQueueRequired
	}

	return nil
}

// Select picks the backend variant for a normalized request. Pure over
// (request, probes).
func Select(req *job.Request, probes Probes) (Backend, error) {
	switch {
	case req.Queue == job.LocalQueue:
		return &Local{}, nil
	case probes.HaveBsub:
		return &Lsf{}, nil
	case probes.HaveQsub:
		return &Pbs{}, nil
	default:
		return nil, ErrNoScheduler
	}
}
