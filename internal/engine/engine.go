// Package engine runs the sponsor discovery pipeline: load the dependency
// list, resolve and dedup fetch targets, fan queries out with bounded
// concurrency, and aggregate the sponsorable results.
package engine

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"gosponsor/internal/config"
	"gosponsor/internal/manifest"
	"gosponsor/internal/output"
	"gosponsor/internal/sponsor"
)

// Exit codes. Per-target fetch failures do not affect the exit code; only a
// failure before any fetch begins is fatal.
const (
	ExitOK    = 0
	ExitFatal = 1
)

// Loader supplies the dependency list. Swappable so tests run the full
// pipeline without a go toolchain.
type Loader func(ctx context.Context, path string, logger *log.Logger) ([]manifest.Package, error)

type Engine struct {
	fetcher Fetcher
	loader  Loader
	logger  *log.Logger
	stdout  io.Writer
	stderr  io.Writer
}

func NewEngine(fetcher Fetcher, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		fetcher: fetcher,
		loader:  manifest.Load,
		logger:  logger,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// Run executes one scan and returns the process exit code.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	pkgs, err := e.loader(ctx, cfg.Manifest.Path, e.logger)
	if err != nil {
		e.logger.Error("failed to load dependency graph", "error", err)
		return ExitFatal
	}

	deps := filterPackages(pkgs, cfg.Manifest.DirectOnly)
	targets := CollectTargets(deps)
	e.logger.Debug("collected fetch targets",
		"packages", len(deps),
		"targets", len(targets))

	scheduler, err := NewScheduler(e.fetcher, cfg.Runtime.Concurrency)
	if err != nil {
		e.logger.Error("invalid scheduler configuration", "error", err)
		return ExitFatal
	}

	// The progress bar writes to stderr so it never pollutes JSON output on
	// stdout; it is disabled entirely in JSON mode.
	progress := output.NewProgress(e.stderr, len(targets), cfg.Output.Format == config.FormatRich)
	completions := scheduler.Run(ctx, targets, func(t FetchTarget) {
		progress.Step(t.PackageName)
	})
	progress.Done()

	records := Aggregate(completions, e.logger)

	switch cfg.Output.Format {
	case config.FormatJSON:
		if err := output.RenderJSON(e.stdout, records); err != nil {
			e.logger.Error("failed to render results", "error", err)
			return ExitFatal
		}
	default:
		output.RenderTable(e.stdout, records)
	}

	return ExitOK
}

// filterPackages drops workspace-root modules and, when directOnly is set,
// everything the root modules do not require directly.
func filterPackages(pkgs []manifest.Package, directOnly bool) []manifest.Package {
	out := make([]manifest.Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		if pkg.IsRoot {
			continue
		}
		if directOnly && pkg.Indirect {
			continue
		}
		out = append(out, pkg)
	}
	return out
}

// compile-time check that the sponsor client satisfies the scheduler's
// fetcher contract.
var _ Fetcher = (*sponsor.Client)(nil)
