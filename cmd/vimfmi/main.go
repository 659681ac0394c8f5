// Command vimfmi is the client for the Vim course exercises at FMI: it fetches
// an exercise, lets you solve it in Vim and submits the recorded keystrokes.
package main

import (
	"os"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.3.0"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}
