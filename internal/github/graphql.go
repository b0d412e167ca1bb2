package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type GraphQLError struct {
	Message string `json:"message"`
}

// GraphQLResponse carries the decoded envelope. Errors is populated verbatim;
// GitHub reports missing objects (e.g. a deleted repository) through Errors
// alongside a null data field, so callers decide whether that is fatal.
type GraphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// StatusError is returned by DoGraphQL for any non-2xx HTTP status. It keeps
// the server's Retry-After advice so callers can honor throttling signals.
type StatusError struct {
	StatusCode    int
	RetryAfter    time.Duration
	HasRetryAfter bool
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graphql: http %d", e.StatusCode)
}

func graphqlEndpoint(base *url.URL) (*url.URL, error) {
	if base == nil {
		return nil, fmt.Errorf("graphql: base url is nil")
	}

	u := *base
	u.RawQuery = ""
	u.Fragment = ""

	// GitHub.com REST base: https://api.github.com/
	// GitHub.com GraphQL:   https://api.github.com/graphql
	//
	// GHES REST base is typically: https://<host>/api/v3/
	// GHES GraphQL:               https://<host>/api/graphql
	path := strings.TrimSuffix(u.Path, "/")
	if strings.HasSuffix(path, "/api/v3") {
		u.Path = "/api/graphql"
		return &u, nil
	}

	// Default to host-root /graphql.
	u.Path = "/graphql"
	return &u, nil
}

// DoGraphQL executes a GraphQL POST against the GitHub API using the same
// underlying transport configuration as the REST client (auth, verbose
// logging, timeout). Non-2xx statuses come back as *StatusError; retry and
// backoff policy is the caller's concern.
func DoGraphQL[T any](ctx context.Context, c *Client, req GraphQLRequest) (GraphQLResponse[T], error) {
	var zero GraphQLResponse[T]
	if ctx == nil {
		return zero, fmt.Errorf("graphql: ctx is nil")
	}
	if c == nil || c.Client == nil {
		return zero, fmt.Errorf("graphql: client is nil")
	}
	if c.HTTP == nil {
		return zero, fmt.Errorf("graphql: http client is nil")
	}

	endpoint, err := graphqlEndpoint(c.Client.BaseURL)
	if err != nil {
		return zero, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return zero, fmt.Errorf("graphql: marshal request: %w", err)
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return zero, fmt.Errorf("graphql: build request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("User-Agent", UserAgent)

	hresp, err := c.HTTP.Do(hreq)
	if err != nil {
		return zero, fmt.Errorf("graphql: do request: %w", err)
	}
	defer func() { _ = hresp.Body.Close() }()

	if hresp.StatusCode < 200 || hresp.StatusCode >= 300 {
		return zero, statusError(hresp)
	}

	var out GraphQLResponse[T]
	if err := json.NewDecoder(hresp.Body).Decode(&out); err != nil {
		return zero, fmt.Errorf("graphql: decode response: %w", err)
	}

	return out, nil
}

func statusError(resp *http.Response) *StatusError {
	se := &StatusError{StatusCode: resp.StatusCode}
	if raw := resp.Header.Get("Retry-After"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds >= 0 {
			se.RetryAfter = time.Duration(seconds) * time.Second
			se.HasRetryAfter = true
		}
	}
	return se
}
