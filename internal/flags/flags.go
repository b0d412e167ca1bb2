package flags

// Package flags defines canonical CLI flag names shared across the CLI.
// Keeping these as constants avoids drift between Cobra flag wiring and
// other code paths that reference flags (help text, tests).
// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Manifest
	FlagManifest   = "manifest"
	FlagDirectOnly = "direct-only"

	// Output
	FlagOutput = "output"

	// Runtime
	FlagConcurrency = "concurrency"
)
