package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "gosponsor",
	Short: "Find sponsorship links for your Go dependencies",
	Long: `gosponsor enumerates the module dependencies of a Go project, looks each
one up on GitHub, and reports which of them accept sponsorships.

gosponsor is read-only: it queries funding metadata via the GitHub API and
never mutates anything.

Examples:
	# Show available commands and global flags
	gosponsor --help

	# Scan the project in the current directory
	gosponsor scan

	# Print build info
	gosponsor version

Output:
	By default, commands write a human-readable table to stdout.
	Use "gosponsor scan --output json" for machine-readable output.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints every GitHub API call and retry decisions)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
