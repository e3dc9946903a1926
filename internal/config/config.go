package config

import "path/filepath"

const VERSION = "2.0.0"

// VersionsPathEnv overrides the versions-root discovery walk when set.
// Read verbatim (after ~ expansion); existence is checked later during
// version resolution, not here.
const VersionsPathEnv = "CIRRUS_VERSIONS_PATH"

// Config holds global application settings
type Config struct {
	Debug bool
	Quiet bool

	// ProgramDir is the directory of the running executable with symlinks
	// resolved; versions-root discovery starts here.
	ProgramDir string

	// FallbackVersionsDir is searched after the discovered versions root.
	FallbackVersionsDir string

	// BsubBin and QsubBin name the scheduler submit binaries probed on PATH.
	BsubBin string
	QsubBin string

	// MpiLauncher is the MPI launcher path relative to the install root.
	MpiLauncher string

	TelemetryEnabled bool
	TelemetryPath    string
}

// Global holds the singleton configuration instance
var Global Config

// LoadDefaults initializes Global from the executable path. The executable
// is typically a symlink from bin/ into the versions store, so symlinks are
// resolved before taking its directory; versions-root discovery depends on
// the real location.
func LoadDefaults(executablePath string) {
	if resolved, err := filepath.EvalSymlinks(executablePath); err == nil {
		executablePath = resolved
	}
	Global = Config{
		ProgramDir:          filepath.Dir(executablePath),
		FallbackVersionsDir: "/prog/cirrus/versions",
		BsubBin:             "bsub",
		QsubBin:             "qsub",
		MpiLauncher:         filepath.Join("bin", "mpirun"),
	}
}
