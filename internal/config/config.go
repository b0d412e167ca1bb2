package config

import (
	"errors"
	"fmt"
	"strings"
)

// Output formats for the final report.
const (
	FormatRich = "rich"
	FormatJSON = "json"
)

// DefaultConcurrency caps simultaneously in-flight sponsor queries unless
// overridden with --concurrency.
const DefaultConcurrency = 10

type Config struct {
	Manifest Manifest
	Output   Output
	Runtime  Runtime
}

type Manifest struct {
	// Path is the project directory or go.mod file to scan (see --manifest).
	Path string

	// DirectOnly restricts the report to direct requirements of the root
	// module, excluding transitive dependencies (see --direct-only).
	DirectOnly bool
}

type Output struct {
	// Format selects the report rendering (see --output).
	// Allowed values: rich, json.
	Format string
}

type Runtime struct {
	// Concurrency bounds how many sponsor queries are in flight at once
	// (see --concurrency). Must be >= 1.
	Concurrency int

	// Verbose enables debug-level logging, including every GitHub API call
	// and retry/backoff decisions.
	Verbose bool
}

func New() *Config {
	return &Config{
		Manifest: Manifest{
			Path: ".",
		},
		Output: Output{
			Format: FormatRich,
		},
		Runtime: Runtime{
			Concurrency: DefaultConcurrency,
		},
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Manifest.Path) == "" {
		c.Manifest.Path = "."
	}

	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = FormatRich
	}
	if c.Output.Format != FormatRich && c.Output.Format != FormatJSON {
		return fmt.Errorf("unsupported --output: %s (must be one of: rich, json)", c.Output.Format)
	}

	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}

	return nil
}
