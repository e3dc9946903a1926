package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/equinor/runcirrus/internal/config"
	"github.com/equinor/runcirrus/internal/job"
	"github.com/equinor/runcirrus/internal/launch"
	"github.com/equinor/runcirrus/internal/scheduler"
	"github.com/equinor/runcirrus/internal/script"
	"github.com/equinor/runcirrus/internal/telemetry"
	"github.com/equinor/runcirrus/internal/utils"
	"github.com/equinor/runcirrus/internal/version"
)

var (
	flagQueue           string
	flagTasksPerMachine int
	flagMachines        int
	flagInteractive     bool
	flagVersion         string
	flagOutputDir       string
	flagCirrusArgs      string
	flagMpiArgs         string
	flagTelemetry       string
	flagBsubArgs        string
	flagQsubArgs        string
	flagExclusive       bool
	flagPrintJobScript  bool
	flagPrintVersions   bool

	debugMode bool
	quietMode bool
)

var rootCmd = &cobra.Command{
	Use:   "runcirrus [flags] <input.in>",
	Short: "Run Cirrus simulations with MPI, locally or on an HPC cluster",
	Long: `Run Cirrus .in files in parallel. Given the "spe1.in" case:

    $ runcirrus spe1.in

This uses all available cores on the local machine. Cirrus writes its result
files next to the input; runcirrus additionally produces:

    'spe1.LOG'       Cirrus' standard output
    'spe1.ERR'       Cirrus' standard error
    'spe1_bsub.LOG'  Workflow manager logs when using IBM LSF
    'spe1_qsub.LOG'  Workflow manager logs when using OpenPBS

To utilise the HPC cluster, specify '-q' (aka '--queue'). In that
configuration the task count must be given explicitly. For example, to add a
job to the 'bigmem' queue using 2 machines (nodes) and 8 processes per
machine for a total of 16 cores:

    $ runcirrus -q bigmem -n 8 -m 2 spe1.in`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		exe, err := os.Executable()
		if err != nil {
			ExitWithError("failed to determine executable path: %v", err)
		}

		config.LoadDefaults(exe)

		if err := config.InitViper(); err != nil {
			utils.PrintDebug("error reading config file: %v", err)
		}
		config.LoadFromViper()

		if debugMode {
			utils.DebugMode = true
			config.Global.Debug = true
			utils.PrintDebug("runcirrus version: %s", config.VERSION)
			utils.PrintDebug("executable: %s", exe)
			utils.PrintDebug("fallback versions dir: %s", config.Global.FallbackVersionsDir)
		}
		if quietMode {
			utils.QuietMode = true
			config.Global.Quiet = true
		}
	},

	RunE: runJob,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCodeError)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode with verbose output")
	rootCmd.PersistentFlags().BoolVar(&quietMode, "quiet", false, "Suppress informational output")

	rootCmd.Flags().StringVarP(&flagQueue, "queue", "q", job.LocalQueue, "Job queue, or 'local' to run locally")
	rootCmd.Flags().IntVarP(&flagTasksPerMachine, "num-tasks-per-machine", "n", 0, "Number of tasks/processes per machine")
	rootCmd.Flags().IntVarP(&flagMachines, "num-machines", "m", 1, "Number of machines (nodes)")
	rootCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Run locally")
	rootCmd.Flags().StringVarP(&flagVersion, "version", "v", "", "Version of Cirrus to use")
	rootCmd.Flags().StringVarP(&flagOutputDir, "output-directory", "o", "", "Directory to store the output to")
	rootCmd.Flags().StringVar(&flagCirrusArgs, "cirrus-args", "", "Additional arguments for Cirrus")
	rootCmd.Flags().StringVar(&flagMpiArgs, "mpi-args", "", "Additional arguments for mpirun command")
	rootCmd.Flags().StringVar(&flagTelemetry, "telemetry", "", "Program to run between mpirun and Cirrus")
	rootCmd.Flags().StringVar(&flagBsubArgs, "bsub-args", "", "Additional arguments for bsub command (LSF only)")
	rootCmd.Flags().StringVar(&flagQsubArgs, "qsub-args", "", "Additional arguments for qsub command (PBS only)")
	rootCmd.Flags().BoolVarP(&flagExclusive, "exclusive", "e", false, "Exclusive node usage [default: shared] (PBS only)")
	rootCmd.Flags().BoolVar(&flagPrintJobScript, "print-job-script", false, "Output job script and exit")
	rootCmd.Flags().BoolVar(&flagPrintVersions, "print-versions", false, "Output Cirrus versions and exit")
}

// schedulerOnlyFlags maps scheduler-specific flag names to a predicate over
// the probes that must hold for the flag to be usable. The flags are always
// registered; availability is a runtime check, not a parse-time one.
var schedulerOnlyFlags = map[string]func(scheduler.Probes) (bool, string){
	"bsub-args": func(p scheduler.Probes) (bool, string) { return p.HaveBsub, "LSF (bsub)" },
	"qsub-args": func(p scheduler.Probes) (bool, string) { return p.HaveQsub, "PBS (qsub)" },
	"exclusive": func(p scheduler.Probes) (bool, string) { return p.HaveQsub, "PBS (qsub)" },
}

// validateSchedulerFlags rejects scheduler-specific flags when the matching
// scheduler binary is not present on this host.
func validateSchedulerFlags(cmd *cobra.Command, probes scheduler.Probes) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		check, ok := schedulerOnlyFlags[f.Name]
		if !ok {
			return
		}
		if available, want := check(probes); !available {
			ExitWithError("--%s requires the %s scheduler, which was not detected on this machine", f.Name, want)
		}
	})
}

func runJob(cmd *cobra.Command, args []string) error {
	probes := scheduler.Detect()

	// Listing versions bypasses all other validation.
	if flagPrintVersions {
		return printVersions()
	}

	if len(args) == 0 {
		return fmt.Errorf("missing Cirrus input file argument")
	}

	validateSchedulerFlags(cmd, probes)

	req := &job.Request{
		Input:           args[0],
		Queue:           flagQueue,
		TasksPerMachine: flagTasksPerMachine,
		Machines:        flagMachines,
		Version:         flagVersion,
		OutputDir:       flagOutputDir,
		CirrusArgs:      flagCirrusArgs,
		MpiArgs:         flagMpiArgs,
		Telemetry:       flagTelemetry,
		BsubArgs:        flagBsubArgs,
		QsubArgs:        flagQsubArgs,
		Interactive:     flagInteractive,
		Exclusive:       flagExclusive,
	}

	res, err := req.Normalize()
	if err != nil {
		ExitWithError("%v", err)
	}

	if err := scheduler.Normalize(req, probes); err != nil {
		ExitWithError("%v", err)
	}

	token := req.Version
	if token == "" {
		token = version.DefaultVersion(filepath.Base(os.Args[0]))
	}

	root, err := version.ResolveRoot(config.Global.ProgramDir)
	if err != nil {
		ExitWithError("%v", err)
	}

	install, err := version.Resolve(token, []string{root, config.Global.FallbackVersionsDir})
	if err != nil {
		ExitWithError("%v", err)
	}

	res.InstallRoot = install
	res.Executable = version.ExecutableName(token)
	res.TotalTasks = req.Machines * req.TasksPerMachine
	res.Queue = req.Queue

	res.Script = script.Render(script.Params{
		InstallRoot: res.InstallRoot,
		MpiLauncher: config.Global.MpiLauncher,
		Executable:  res.Executable,
		InputFile:   res.InputFile,
		OutputDir:   res.OutputDir,
		CaseStem:    res.CaseStem,
		TotalTasks:  res.TotalTasks,
		MpiArgs:     req.MpiArgs,
		CirrusArgs:  req.CirrusArgs,
		Telemetry:   req.Telemetry,
	})

	// Telemetry records every resolved job, including print-only runs; the
	// backend name is left empty when no scheduler is available.
	backend, selectErr := scheduler.Select(req, probes)
	backendName := ""
	if selectErr == nil {
		backendName = backend.Name()
	}

	hostname, _ := os.Hostname()
	telemetry.Emit(telemetry.JobStart{
		Script:          os.Args[0],
		Version:         token,
		TasksPerMachine: req.TasksPerMachine,
		Machines:        req.Machines,
		TotalTasks:      res.TotalTasks,
		Queue:           res.Queue,
		Backend:         backendName,
		HaveBsub:        probes.HaveBsub,
		HaveQsub:        probes.HaveQsub,
		Hostname:        telemetry.AnonymizeFQDN(hostname),
	})

	if flagPrintJobScript {
		fmt.Println(res.Script)
		return nil
	}

	if selectErr != nil {
		if errors.Is(selectErr, scheduler.ErrNoScheduler) {
			utils.PrintHint("pass '-q local' to run on this machine without a scheduler")
		}
		ExitWithError("%v", selectErr)
	}

	inv, err := backend.BuildInvocation(req, res)
	if err != nil {
		ExitWithError("%v", err)
	}
	if err := scheduler.WriteScript(inv); err != nil {
		ExitWithError("%v", err)
	}

	// Terminal: on success this process is replaced and nothing below runs.
	return launch.Exec(inv.Program, inv.Args)
}

// printVersions lists installed versions under the discovered root.
func printVersions() error {
	root, err := version.ResolveRoot(config.Global.ProgramDir)
	if err != nil {
		ExitWithError("%v", err)
	}

	names, err := version.List(root)
	if err != nil {
		ExitWithError("%v", err)
	}

	if len(names) == 0 {
		utils.PrintMessage("No installed versions found at %s", utils.StylePath(root))
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
