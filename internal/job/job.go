// Package job defines the request and resolved-job data model for a single
// launcher invocation.
package job

import (
	"fmt"
	"path/filepath"

	"github.com/equinor/runcirrus/internal/utils"
)

// LocalQueue is the queue name that selects direct local execution.
const LocalQueue = "local"

// Request captures the user's intent as parsed from the command line.
// It is built once and not mutated after Normalize.
type Request struct {
	Input           string // simulation input file as given
	Queue           string // "local" or a scheduler queue name
	TasksPerMachine int    // 0 = unset, defaulted during backend selection
	Machines        int
	Version         string // version token, "" = derive from program name
	OutputDir       string // "" = directory of the input file
	CirrusArgs      string // extra simulator arguments
	MpiArgs         string // extra mpirun arguments
	Telemetry       string // wrapper program between mpirun and the simulator
	BsubArgs        string // extra bsub submission arguments
	QsubArgs        string // extra qsub submission arguments
	Interactive     bool
	Exclusive       bool
}

// Resolved is the fully resolved job consumed by script rendering and
// dispatch. All paths are absolute.
type Resolved struct {
	InputFile   string // absolute input file path
	CaseStem    string // input basename without extension
	InstallRoot string // resolved install root for the selected version
	Executable  string // simulator binary name ("cirrus" or "pflotran")
	TotalTasks  int    // machines x tasks-per-machine
	OutputDir   string // absolute output directory
	Queue       string // effective queue after selection

	Script string // rendered job script text
}

// Normalize validates the input file and resolves the request's paths.
// The returned Resolved carries the absolute input path, case stem and
// output directory; install root and task count are filled in later by the
// resolution pipeline.
func (r *Request) Normalize() (*Resolved, error) {
	input := utils.ExpandUser(r.Input)
	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve input path %q: %w", r.Input, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if !utils.FileExists(abs) {
		return nil, fmt.Errorf("Cirrus input file '%s' does not exist", abs)
	}

	outDir := r.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(abs)
	} else {
		outDir = utils.ExpandUser(outDir)
		if absOut, err := filepath.Abs(outDir); err == nil {
			outDir = absOut
		}
		if resolved, err := filepath.EvalSymlinks(outDir); err == nil {
			outDir = resolved
		}
	}

	return &Resolved{
		InputFile: abs,
		CaseStem:  utils.Stem(abs),
		OutputDir: outDir,
	}, nil
}
