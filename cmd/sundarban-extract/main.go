package main

import (
	"fmt"
	"os"

	"sundarban-extract/internal/cli"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
