package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"gosponsor/internal/config"
	"gosponsor/internal/engine"
	"gosponsor/internal/flags"
	gh "gosponsor/internal/github"
	"gosponsor/internal/sponsor"
)

var cfg = config.New()

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a Go project for sponsorable dependencies",
	Long: `Scan the dependencies of a Go project and report which ones accept
sponsorships.

The dependency list is resolved with "go list -m all" from the project's
go.mod; each GitHub-hosted module is then queried for funding links and
public sponsor counts.

Authentication:
  Sponsor metadata requires a GitHub access token. gosponsor prefers
  GITHUB_TOKEN, but can also reuse GitHub CLI authentication if the gh CLI
  is installed and logged in. Without a token the scan still runs, but
  every dependency reports no sponsor data.

Output:
  --output rich (default) prints a table of package, sponsor count, and
  funding link. --output json prints the full result set as JSON.

Exit codes:
  0 = scan ran (individual fetch failures are logged, not fatal)
  1 = fatal setup error (manifest unreadable, invalid flags)

Examples:
  # Token via environment variable
  export GITHUB_TOKEN="<your_token>"
  gosponsor scan

  # Token via GitHub CLI auth
  gh auth login
  gosponsor scan --manifest ./path/to/project

  # Direct dependencies only, machine-readable
  gosponsor scan --direct-only --output json
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(engine.ExitFatal)
		}

		logger := newLogger(os.Stderr, cfg.Runtime.Verbose)

		ctx := context.Background()
		token, source, err := gh.ResolveAuthToken(ctx, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to resolve GitHub auth token: %v\n", err)
			os.Exit(engine.ExitFatal)
		}
		if token == "" {
			fmt.Fprintln(os.Stderr, "Note: set GITHUB_TOKEN or run 'gh auth login' to include sponsor data")
			fmt.Fprintln(os.Stderr)
		} else {
			logger.Debug("resolved auth token", "source", source)
		}

		client, err := gh.NewClient(ctx, token, gh.WithVerbose(cfg.Runtime.Verbose, nil))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create GitHub client: %v\n", err)
			os.Exit(engine.ExitFatal)
		}

		eng := engine.NewEngine(sponsor.NewClient(client, token, logger), logger)
		os.Exit(eng.Run(ctx, cfg))
	},
}

// newLogger builds the stderr logger shared by the pipeline. Verbose selects
// debug level; the default level keeps only per-target warnings visible.
func newLogger(w *os.File, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&cfg.Manifest.Path, flags.FlagManifest, ".", "Project directory or go.mod file to scan")
	scanCmd.Flags().BoolVar(&cfg.Manifest.DirectOnly, flags.FlagDirectOnly, false, "Only report direct dependencies of the root module")
	scanCmd.Flags().StringVar(&cfg.Output.Format, flags.FlagOutput, config.FormatRich, "Output format: rich|json (default: rich)")
	scanCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, config.DefaultConcurrency, "Concurrent sponsor queries (default: 10)")
}
