package scheduler

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/equinor/runcirrus/internal/config"
	"github.com/equinor/runcirrus/internal/job"
	"github.com/equinor/runcirrus/internal/utils"
)

// Lsf submits the job to IBM Spectrum LSF via bsub.
type Lsf struct{}

func (l *Lsf) Name() string { return "LSF" }

// BuildInvocation composes the bsub argument list. The rendered script is
// carried as a ScriptFile written to <stem>.run beside the input before
// submission; bsub then runs it through bash on the allocated node.
//
// The resource string pins a minimum OS release, requires identical node
// models across the allocation, and spreads tasks with a per-node ptile.
func (l *Lsf) BuildInvocation(req *job.Request, res *job.Resolved) (*Invocation, error) {
	parent := filepath.Dir(res.InputFile)
	scriptPath := filepath.Join(parent, res.CaseStem+".run")

	resources := []string{
		"select[rhel >= 8]",
		"same[type:model]",
		fmt.Sprintf("span[ptile=%d]", req.TasksPerMachine),
	}

	args := []string{
		"-q", res.Queue,
		"-n", strconv.Itoa(res.TotalTasks),
		"-o", filepath.Join(parent, res.CaseStem+"_bsub.LOG"),
		"-J", "Cirrus_" + filepath.Base(res.InputFile),
		"-R", strings.Join(resources, " "),
	}
	args = append(args, utils.ShellSplit(req.BsubArgs)...)
	args = append(args, "--", "bash", scriptPath)

	return &Invocation{
		Program: config.Global.BsubBin,
		Args:    args,
		Script:  &ScriptFile{Path: scriptPath, Content: res.Script},
	}, nil
}
