// Lddc-config inspects and edits the LDDC configuration store.
//
// It reads the same file the LDDC applications use, applies the same
// LDDC_* environment overrides and hosting preset, and writes changes
// back atomically.
//
// Usage:
//
//	lddc-config [command] [flags]
//
// See 'lddc-config --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/muurk/lddc/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if ui.IsTerminal(os.Stderr) {
			fmt.Fprintln(os.Stderr, ui.RenderFailure("lddc-config", err,
				"run 'lddc-config show' to list valid keys",
				"run 'lddc-config set --help' for accepted value formats",
			))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
