// Package main provides the entry point for the ftsengine CLI.
package main

import (
	"os"

	"github.com/ftskit/ftsengine/cmd/ftsengine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
