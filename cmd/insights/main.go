package main

import (
	"os"

	"github.com/duckretail/insights/cmd/insights/commands"
)

// main is the entry point for the insights CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
