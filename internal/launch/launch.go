// Package launch replaces the current process image with the selected
// backend command. It is the only place the launcher performs an OS-level
// exec; everything before it is pure decision logic.
package launch

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"github.com/equinor/runcirrus/internal/utils"
)

// Error reports a failure to locate or execute the target program.
type Error struct {
	Program string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to execute %s: %v", e.Program, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Exec replaces the current process image with program, inheriting standard
// streams and environment. On success it never returns; no logging or
// telemetry runs after this call. args does not include the program name.
func Exec(program string, args []string) error {
	path, err := exec.LookPath(program)
	if err != nil {
		return &Error{Program: program, Err: err}
	}

	utils.PrintMessage("Executing %s", utils.StyleCommand(Summary(program, args)))

	argv := append([]string{program}, args...)
	if err := unix.Exec(path, argv, os.Environ()); err != nil {
		return &Error{Program: program, Err: err}
	}
	return nil
}

// Summary renders the invocation for display with the trailing script
// payload elided; the full script is available via --print-job-script.
func Summary(program string, args []string) string {
	if len(args) == 0 {
		return program
	}
	head := utils.ShellJoin(args[:len(args)-1])
	if head == "" {
		return program + " <SCRIPT>"
	}
	return fmt.Sprintf("%s %s <SCRIPT>", program, head)
}
