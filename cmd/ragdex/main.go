// Command ragdex indexes local documents into a vector store and
// answers similarity queries over them.
package main

import (
	"os"

	"github.com/nickcecere/ragdex/internal/cli"
)

// Set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	if err := cli.Execute(); err != nil {
		// cobra already printed the error.
		os.Exit(1)
	}
}
