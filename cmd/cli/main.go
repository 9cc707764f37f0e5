// Package main is the entry point for the quote-tool CLI.
package main

import (
	"os"

	"quote-tool/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
