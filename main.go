package main

import (
	"os"

	"github.com/equinor/runcirrus/cmd"
)

// rewriteLegacyAliases maps the historical -nn/-nm spellings onto the current
// flags before cobra sees them. -nn meant "number of nodes" (-m) and -nm
// "tasks per node" (-n).
func rewriteLegacyAliases(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg {
		case "-nn":
			out = append(out, "-m")
		case "-nm":
			out = append(out, "-n")
		default:
			out = append(out, arg)
		}
	}
	return out
}

func main() {
	os.Args = rewriteLegacyAliases(os.Args)
	cmd.Execute()
}
