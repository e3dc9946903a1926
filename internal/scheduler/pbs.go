package scheduler

import (
	"fmt"
	"path/filepath"

	"github.com/equinor/runcirrus/internal/config"
	"github.com/equinor/runcirrus/internal/job"
	"github.com/equinor/runcirrus/internal/utils"
)

// Pbs submits the job to OpenPBS via qsub.
type Pbs struct{}

func (p *Pbs) Name() string { return "PBS" }

// BuildInvocation composes the qsub argument list. The selection clause
// encodes machines, cores per machine and MPI processes per machine; the
// placement clause scatters across nodes, exclusively when requested.
// Stdout and stderr are joined into a single <stem>_qsub.LOG. The script is
// also written to <stem>.run for inspection, but qsub receives the text
// inline through bash.
func (p *Pbs) BuildInvocation(req *job.Request, res *job.Resolved) (*Invocation, error) {
	parent := filepath.Dir(res.InputFile)
	scriptPath := filepath.Join(parent, res.CaseStem+".run")

	place := "scatter:shared"
	if req.Exclusive {
		place = "scatter:excl"
	}

	selection := fmt.Sprintf("select=%d:ncpus=%d:mpiprocs=%d",
		req.Machines, req.TasksPerMachine, req.TasksPerMachine)

	args := []string{
		"-q", res.Queue,
		"-l", selection,
		"-l", "place=" + place,
		"-j", "oe",
		"-o", filepath.Join(parent, res.CaseStem+"_qsub.LOG"),
		"-N", "Cirrus_" + filepath.Base(res.InputFile),
	}
	args = append(args, utils.ShellSplit(req.QsubArgs)...)
	args = append(args, "--", "/usr/bin/bash", "-c", res.Script)

	return &Invocation{
		Program: config.Global.QsubBin,
		Args:    args,
		Script:  &ScriptFile{Path: scriptPath, Content: res.Script},
	}, nil
}
