package diagfmt

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether f is attached to an interactive terminal, the
// signal the CLI uses to decide whether PrettyOpts.Color defaults on.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
