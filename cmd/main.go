package main

import (
	"os"

	"ratesync/internal/app"
)

// @title ratesync API
// @version 1.0
// @description Status and control surface of the AUD rates sync daemon.
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		os.Exit(app.ExitCode(err))
	}
}
