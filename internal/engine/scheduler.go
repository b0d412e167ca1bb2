package engine

import (
	"context"
	"errors"
	"fmt"

	"gosponsor/internal/sponsor"
)

// Fetcher is the sponsor query dependency of the scheduler. Implementations
// must be safe for concurrent use.
type Fetcher interface {
	FetchRepoInfo(ctx context.Context, owner, repo string) (*sponsor.RepoInfo, error)
}

// Completion is the outcome of one target's fetch. Info is nil when no
// sponsorship data is available; Err is a per-target failure that never
// aborts the run.
type Completion struct {
	Target FetchTarget
	Info   *sponsor.RepoInfo
	Err    error
}

// Scheduler fans targets out to the fetcher with a bounded number of
// in-flight queries.
type Scheduler struct {
	fetcher     Fetcher
	concurrency int
}

func NewScheduler(f Fetcher, concurrency int) (*Scheduler, error) {
	if f == nil {
		return nil, errors.New("fetcher is nil")
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}
	return &Scheduler{fetcher: f, concurrency: concurrency}, nil
}

// Run dispatches every target in input order, keeping at most the configured
// number of queries in flight: when the in-flight set is full it drains
// exactly one completion before launching the next target, then drains the
// remainder. Every target completes exactly once.
//
// onProgress (optional) fires once per completion, always from this
// goroutine, so progress sinks see no concurrent calls from here. Returned
// completions are in completion order, which is not input order.
func (s *Scheduler) Run(ctx context.Context, targets []FetchTarget, onProgress func(FetchTarget)) []Completion {
	done := make(chan Completion)
	out := make([]Completion, 0, len(targets))

	drain := func() {
		c := <-done
		if onProgress != nil {
			onProgress(c.Target)
		}
		out = append(out, c)
	}

	inFlight := 0
	for _, t := range targets {
		if inFlight >= s.concurrency {
			drain()
			inFlight--
		}

		inFlight++
		go func(t FetchTarget) {
			info, err := s.fetcher.FetchRepoInfo(ctx, t.Owner, t.Repo)
			done <- Completion{Target: t, Info: info, Err: err}
		}(t)
	}

	for inFlight > 0 {
		drain()
		inFlight--
	}

	return out
}
