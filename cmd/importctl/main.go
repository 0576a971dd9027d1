// Command importctl previews and commits case import files from the shell,
// using the same pipeline as the HTTP server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
