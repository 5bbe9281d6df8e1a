// Package main is the entry point for the Meteograph CLI application.
package main

import (
	"os"

	"github.com/meteograph/meteograph/cmd/meteograph/cmd"
	"github.com/meteograph/meteograph/internal/logger"
)

func main() {
	// Initialize default logger (will be reconfigured after config is loaded)
	logger.InitDefault()
	defer logger.Sync()

	// Execute the root command
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
