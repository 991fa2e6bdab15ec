package internal

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsPipe reports whether stdin is piped or redirected rather than attached to
// a terminal.
func IsPipe() bool {
	return !IsTerminal(os.Stdin)
}

// IsTerminal reports whether f is attached to a terminal. Cygwin/MSYS ptys
// count as terminals.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
