package sponsor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	gh "gosponsor/internal/github"
)

// MaxRetries caps how many times a throttled query is re-attempted before it
// fails with a RateLimitedError. The initial attempt is not a retry, so a
// permanently throttled target costs MaxRetries+1 calls.
const MaxRetries = 3

// sponsorQuery fetches a repository's funding links and, when the owning
// account exposes a public sponsors listing, its total sponsor count.
const sponsorQuery = `
query($owner: String!, $repo: String!) {
    repository(owner: $owner, name: $repo) {
        fundingLinks { url }
        owner {
            ... on User {
                hasSponsorsListing
                sponsors { totalCount }
            }
            ... on Organization {
                hasSponsorsListing
                sponsors { totalCount }
            }
        }
    }
}`

type queryData struct {
	Repository *struct {
		FundingLinks []struct {
			URL string `json:"url"`
		} `json:"fundingLinks"`
		Owner struct {
			HasSponsorsListing bool `json:"hasSponsorsListing"`
			Sponsors           *struct {
				TotalCount int `json:"totalCount"`
			} `json:"sponsors"`
		} `json:"owner"`
	} `json:"repository"`
}

// Client fetches sponsorship metadata for repositories. Safe for concurrent
// use; the underlying HTTP client is shared, each query owns its own retry
// state.
type Client struct {
	gh     *gh.Client
	token  string
	logger *log.Logger
	group  singleflight.Group

	// sleep suspends between throttled attempts; injectable so retry tests
	// run without wall-clock waits.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(client *gh.Client, token string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		gh:     client,
		token:  token,
		logger: logger,
		sleep:  sleepContext,
	}
}

// FetchRepoInfo returns the sponsorship metadata of owner/repo, or nil when
// none is available. Without a token it returns (nil, nil) immediately and
// makes no network call: sponsor data is an authenticated-only capability.
// Concurrent calls for the same repository are coalesced into one query.
func (c *Client) FetchRepoInfo(ctx context.Context, owner, repo string) (*RepoInfo, error) {
	if ctx == nil {
		return nil, errors.New("sponsor: ctx is nil")
	}
	if owner == "" || repo == "" {
		return nil, errors.New("sponsor: owner and repo are required")
	}
	if c.token == "" {
		return nil, nil
	}

	v, err, _ := c.group.Do(owner+"/"+repo, func() (interface{}, error) {
		return c.query(ctx, owner, repo)
	})
	if err != nil {
		return nil, err
	}
	info, _ := v.(*RepoInfo)
	return info, nil
}

// query runs the retry loop: throttling signals (429, and 403 which the API
// overloads for rate limiting) re-attempt up to MaxRetries with the server's
// Retry-After advice or exponential backoff; any other failure is final.
func (c *Client) query(ctx context.Context, owner, repo string) (*RepoInfo, error) {
	req := gh.GraphQLRequest{
		Query: sponsorQuery,
		Variables: map[string]interface{}{
			"owner": owner,
			"repo":  repo,
		},
	}

	for attempt := 0; ; attempt++ {
		resp, err := gh.DoGraphQL[queryData](ctx, c.gh, req)

		var se *gh.StatusError
		if errors.As(err, &se) {
			if se.StatusCode != http.StatusTooManyRequests && se.StatusCode != http.StatusForbidden {
				return nil, &APIError{Owner: owner, Repo: repo, StatusCode: se.StatusCode}
			}
			if attempt >= MaxRetries {
				return nil, &RateLimitedError{Owner: owner, Repo: repo, Retries: MaxRetries}
			}

			wait := backoff(attempt)
			if se.HasRetryAfter {
				wait = se.RetryAfter
			}
			c.logger.Debug("rate limited, backing off",
				"repo", owner+"/"+repo,
				"wait", wait,
				"attempt", attempt+1,
				"max", MaxRetries)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("sponsor: query %s/%s: %w", owner, repo, err)
		}

		// A null repository (deleted, renamed, or never existed) is "no info
		// available", not an error; GitHub pairs it with a NOT_FOUND entry in
		// the errors array, which is ignored here for the same reason.
		rd := resp.Data.Repository
		if rd == nil {
			return nil, nil
		}

		info := &RepoInfo{}
		for _, l := range rd.FundingLinks {
			info.FundingLinks = append(info.FundingLinks, l.URL)
		}
		if rd.Owner.HasSponsorsListing && rd.Owner.Sponsors != nil {
			count := rd.Owner.Sponsors.TotalCount
			info.SponsorCount = &count
		}
		return info, nil
	}
}

// backoff is the fallback wait when the server gives no Retry-After: 2^n
// seconds, no jitter, no cap. Fine for the attempt budget in play here.
func backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
