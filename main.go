// Command dupedirs reports directories that are probably identical.
package main

import (
	"os"

	"github.com/idelchi/dupedirs/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // Build-time variable
var version = "unknown - unofficial build"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		os.Exit(1)
	}
}
