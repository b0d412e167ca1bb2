// Package sponsor queries the GitHub GraphQL API for funding and sponsorship
// metadata of individual repositories.
package sponsor

// RepoInfo is the sponsorship metadata of one repository. SponsorCount is nil
// unless the owning account publicly exposes a sponsors listing.
type RepoInfo struct {
	FundingLinks []string
	SponsorCount *int
}

// Record is one reportable sponsorable dependency. Records are only emitted
// for repositories with at least one funding link.
type Record struct {
	Name         string   `json:"name"`
	Repository   string   `json:"repository"`
	SponsorLinks []string `json:"sponsor_links"`
	SponsorCount *int     `json:"sponsor_count,omitempty"`
}
