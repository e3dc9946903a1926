package cmd

import (
	"os"

	"github.com/equinor/runcirrus/internal/utils"
)

// Exit codes
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// ExitWithError prints an error and exits with ExitCodeError
func ExitWithError(format string, a ...interface{}) {
	utils.PrintError(format, a...)
	os.Exit(ExitCodeError)
}
