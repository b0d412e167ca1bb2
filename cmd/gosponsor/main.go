package main

import (
	"github.com/joho/godotenv"

	"gosponsor/internal/cli"
)

// These variables are populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// Allow GITHUB_TOKEN to come from a local .env; missing files are fine.
	_ = godotenv.Load()

	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}
