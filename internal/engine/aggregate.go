package engine

import (
	"github.com/charmbracelet/log"

	"gosponsor/internal/sponsor"
)

// Aggregate shapes scheduler completions into the reportable result set.
// Per-target failures are logged and dropped, never surfaced as result rows;
// targets without funding links produce no record at all, even when a
// sponsor count is present. Record order follows completion order.
func Aggregate(completions []Completion, logger *log.Logger) []sponsor.Record {
	if logger == nil {
		logger = log.Default()
	}

	records := make([]sponsor.Record, 0, len(completions))
	for _, c := range completions {
		if c.Err != nil {
			logger.Warn("failed to fetch sponsor info",
				"repo", c.Target.Owner+"/"+c.Target.Repo,
				"error", c.Err)
			continue
		}
		if c.Info == nil || len(c.Info.FundingLinks) == 0 {
			continue
		}
		records = append(records, sponsor.Record{
			Name:         c.Target.PackageName,
			Repository:   c.Target.RepositoryURL,
			SponsorLinks: c.Info.FundingLinks,
			SponsorCount: c.Info.SponsorCount,
		})
	}
	return records
}
