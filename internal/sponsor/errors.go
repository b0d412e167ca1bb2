package sponsor

import "fmt"

// RateLimitedError reports that throttling persisted past the retry budget
// for one repository. The run continues; the target is dropped.
type RateLimitedError struct {
	Owner   string
	Repo    string
	Retries int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited after %d retries for %s/%s", e.Retries, e.Owner, e.Repo)
}

// APIError reports a non-success, non-throttling HTTP status for one
// repository.
type APIError struct {
	Owner      string
	Repo       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api error for %s/%s: http %d", e.Owner, e.Repo, e.StatusCode)
}
