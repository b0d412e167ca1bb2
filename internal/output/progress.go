package output

import (
	"io"
	"sync"

	"github.com/pterm/pterm"
)

// Progress is a shared progress sink fed once per completed fetch. It
// serializes its own updates, so callers may step it from any goroutine.
// When disabled (JSON mode, or zero targets) every method is a no-op.
type Progress struct {
	mu  sync.Mutex
	bar *pterm.ProgressbarPrinter
}

// NewProgress starts a progress bar sized to total on w. The bar removes
// itself once finished so it never lingers above the report.
func NewProgress(w io.Writer, total int, enabled bool) *Progress {
	p := &Progress{}
	if !enabled || total <= 0 {
		return p
	}

	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithWriter(w).
		WithTitle("Retrieving GitHub sponsor information").
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		// A broken terminal is not worth failing the run over; fall back to
		// silent progress.
		return p
	}
	p.bar = bar
	return p
}

// Step records one completed fetch, labeled with the package it covered.
func (p *Progress) Step(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		return
	}
	if label != "" {
		p.bar.UpdateTitle(label)
	}
	p.bar.Increment()
}

// Done stops the bar. Safe to call when disabled or already stopped.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		return
	}
	_, _ = p.bar.Stop()
	p.bar = nil
}
