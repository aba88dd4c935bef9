// Package wizard provides interactive prompts for CLI commands invoked
// without enough arguments.
package wizard

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive prompts are available.
func CanInteract() bool {
	return IsTerminal()
}
