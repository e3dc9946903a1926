// Package script renders the portable job script executed by every backend.
package script

import (
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
)

// Params holds everything the job script needs. Rendering is pure text
// generation: identical Params yield byte-identical output and nothing is
// executed or written here.
type Params struct {
	InstallRoot string
	MpiLauncher string // relative to InstallRoot, e.g. "bin/mpirun"
	Executable  string // "cirrus" or "pflotran"
	InputFile   string // absolute
	OutputDir   string // absolute
	CaseStem    string
	TotalTasks  int
	MpiArgs     string
	CirrusArgs  string
	Telemetry   string // wrapper program between mpirun and the simulator
}

// The machinefile and transport decisions are deliberately deferred to the
// script's own run time: under LSF or PBS the script executes on a
// scheduler-allocated node that is not the one that rendered it, and only
// that node's environment knows the rank/node file and loaded kernel modules.
const scriptTemplate = `#!/usr/bin/bash
set -e -o pipefail

cd "{{.OutputDir}}"

arg_mpi_transport=
arg_machinefile=

if [ -n "$LSB_MCPU_HOSTS" ]; then  # LSF
    arg_machinefile="-machinefile $LSB_DJOB_RANKFILE"
elif [ -n "$PBS_NODEFILE" ]; then  # PBS
    arg_machinefile="-machinefile $PBS_NODEFILE"
fi

# Check for possibly non-working RDMA transport
if lsmod | egrep -qw bnxt_re
then
    arg_mpi_transport="-mca btl vader,self,tcp -mca pml ^ucx"
fi

({{.Mpirun}} $arg_mpi_transport $arg_machinefile {{.TasksArg}} {{.MpiArgs}} {{.Telemetry}} {{.Simulator}} {{.CirrusArgs}} -{{.Executable}}in "{{.InputFile}}" -output_prefix "{{.OutputDir}}/{{.CaseStem}}" | tee "{{.OutputDir}}/{{.CaseStem}}.LOG") 3>&1 1>&2 2>&3 | tee "{{.OutputDir}}/{{.CaseStem}}.ERR"
`

var jobTemplate = template.Must(template.New("jobscript").Parse(scriptTemplate))

// templateData is Params plus the derived fields the template interpolates.
type templateData struct {
	Params
	Mpirun    string
	Simulator string
	TasksArg  string
}

// Render produces the job script text for p.
func Render(p Params) string {
	data := templateData{
		Params:    p,
		Mpirun:    filepath.Join(p.InstallRoot, p.MpiLauncher),
		Simulator: filepath.Join(p.InstallRoot, "bin", p.Executable),
		TasksArg:  tasksArg(p.TotalTasks),
	}

	var out strings.Builder
	// The template is a compile-time constant over string fields; execution
	// cannot fail.
	if err := jobTemplate.Execute(&out, data); err != nil {
		panic(err)
	}
	return out.String()
}

func tasksArg(n int) string {
	if n <= 0 {
		return ""
	}
	return "-np " + strconv.Itoa(n)
}
