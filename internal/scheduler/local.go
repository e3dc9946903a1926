package scheduler

import "github.com/equinor/runcirrus/internal/job"

// Local runs the job script directly through a shell on the current host.
type Local struct{}

func (l *Local) Name() string { return "local" }

// BuildInvocation passes the rendered script to bash as an inline command
// string; no script file is written.
func (l *Local) BuildInvocation(req *job.Request, res *job.Resolved) (*Invocation, error) {
	return &Invocation{
		Program: "bash",
		Args:    []string{"-c", res.Script},
	}, nil
}
