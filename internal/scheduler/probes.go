package scheduler

import (
	"os"
	"os/exec"
	"runtime"

	"github.com/equinor/runcirrus/internal/config"
)

// LSF exposes the machine-rank file of the current allocation here; PBS
// exposes its node file. Presence of either means we are already inside a
// scheduler-managed allocation. The same variables are consulted again by
// the rendered script at its own run time to pick the MPI machinefile.
const (
	LsfRankFileEnv = "LSB_DJOB_RANKFILE"
	PbsNodeFileEnv = "PBS_NODEFILE"
)

// Probes captures the environment signals backend selection depends on.
// They are gathered once per run and treated as read-only afterwards.
type Probes struct {
	HaveBsub  bool // LSF submit binary on PATH
	HaveQsub  bool // PBS submit binary on PATH
	InsideLsf bool // running inside an LSF allocation
	InsidePbs bool // running inside a PBS allocation
	NumCPU    int
}

// Detect probes the executing host: scheduler client binaries on PATH,
// allocation markers in the environment, and the CPU count.
func Detect() Probes {
	_, haveBsub := lookPath(config.Global.BsubBin)
	_, haveQsub := lookPath(config.Global.QsubBin)
	_, insideLsf := os.LookupEnv(LsfRankFileEnv)
	_, insidePbs := os.LookupEnv(PbsNodeFileEnv)

	return Probes{
		HaveBsub:  haveBsub,
		HaveQsub:  haveQsub,
		InsideLsf: insideLsf,
		InsidePbs: insidePbs,
		NumCPU:    runtime.NumCPU(),
	}
}

// InsideAllocation reports whether the process already runs inside a
// scheduler-managed allocation.
func (p Probes) InsideAllocation() bool {
	return p.InsideLsf || p.InsidePbs
}

func lookPath(bin string) (string, bool) {
	if bin == "" {
		return "", false
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", false
	}
	return path, true
}
