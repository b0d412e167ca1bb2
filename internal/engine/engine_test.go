package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v81/github"

	"gosponsor/internal/config"
	gh "gosponsor/internal/github"
	"gosponsor/internal/manifest"
	"gosponsor/internal/sponsor"
)

// newTestEngine wires a real sponsor client against a mock GraphQL backend
// and swaps the manifest loader for the given package list.
func newTestEngine(t *testing.T, handler http.Handler, token string, pkgs []manifest.Package) (*Engine, *bytes.Buffer) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	ghc := github.NewClient(server.Client())
	u, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatalf("parse base URL: %v", err)
	}
	ghc.BaseURL = u

	logger := log.New(io.Discard)
	fetcher := sponsor.NewClient(&gh.Client{Client: ghc, HTTP: server.Client()}, token, logger)

	eng := NewEngine(fetcher, logger)
	eng.loader = func(ctx context.Context, path string, logger *log.Logger) ([]manifest.Package, error) {
		return pkgs, nil
	}

	var stdout bytes.Buffer
	eng.stdout = &stdout
	eng.stderr = io.Discard
	return eng, &stdout
}

func jsonConfig() *config.Config {
	cfg := config.New()
	cfg.Output.Format = config.FormatJSON
	return cfg
}

func decodeRecords(t *testing.T, buf *bytes.Buffer) []sponsor.Record {
	t.Helper()
	var records []sponsor.Record
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("decode output %q: %v", buf.String(), err)
	}
	return records
}

func TestEngine_Run_EndToEnd(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var req gh.GraphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Variables["owner"] != "foo" || req.Variables["repo"] != "bar" {
			t.Errorf("unexpected query variables: %v", req.Variables)
		}
		fmt.Fprint(w, `{
			"data": {
				"repository": {
					"fundingLinks": [{"url": "https://opencollective.com/bar"}],
					"owner": {"hasSponsorsListing": true, "sponsors": {"totalCount": 5}}
				}
			}
		}`)
	})

	pkgs := []manifest.Package{
		{Name: "a", RepositoryURL: "https://github.com/foo/bar"},
		{Name: "b", RepositoryURL: "https://github.com/foo/bar.git"},
		{Name: "c", RepositoryURL: "https://notgithub.com/x/y"},
	}

	eng, stdout := newTestEngine(t, handler, "test-token", pkgs)
	if code := eng.Run(context.Background(), jsonConfig()); code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}

	// The duplicate target behind package b is never separately queried.
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly 1 API call, got %d", got)
	}

	records := decodeRecords(t, stdout)
	if len(records) != 1 {
		t.Fatalf("expected exactly 1 record, got %+v", records)
	}
	r := records[0]
	if r.Name != "a" {
		t.Errorf("expected attribution to package a, got %q", r.Name)
	}
	if len(r.SponsorLinks) != 1 || r.SponsorLinks[0] != "https://opencollective.com/bar" {
		t.Errorf("unexpected links: %v", r.SponsorLinks)
	}
	if r.SponsorCount == nil || *r.SponsorCount != 5 {
		t.Errorf("unexpected count: %v", r.SponsorCount)
	}
}

func TestEngine_Run_NoToken_EmptyReportNoCalls(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	pkgs := []manifest.Package{
		{Name: "a", RepositoryURL: "https://github.com/foo/bar"},
		{Name: "b", RepositoryURL: "https://github.com/baz/qux"},
	}

	eng, stdout := newTestEngine(t, handler, "", pkgs)
	if code := eng.Run(context.Background(), jsonConfig()); code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("expected zero API calls without a token, got %d", got)
	}
	if records := decodeRecords(t, stdout); len(records) != 0 {
		t.Fatalf("expected an empty report, got %+v", records)
	}
}

func TestEngine_Run_SetupErrorIsFatal(t *testing.T) {
	eng, _ := newTestEngine(t, http.NewServeMux(), "test-token", nil)
	eng.loader = func(ctx context.Context, path string, logger *log.Logger) ([]manifest.Package, error) {
		return nil, fmt.Errorf("no go.mod at %s", path)
	}
	if code := eng.Run(context.Background(), jsonConfig()); code != ExitFatal {
		t.Fatalf("expected exit %d, got %d", ExitFatal, code)
	}
}

func TestEngine_Run_PerTargetFailuresDoNotChangeExitCode(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	pkgs := []manifest.Package{
		{Name: "a", RepositoryURL: "https://github.com/foo/bar"},
	}

	eng, stdout := newTestEngine(t, handler, "test-token", pkgs)
	if code := eng.Run(context.Background(), jsonConfig()); code != ExitOK {
		t.Fatalf("expected exit %d despite fetch failures, got %d", ExitOK, code)
	}
	if records := decodeRecords(t, stdout); len(records) != 0 {
		t.Fatalf("failed targets must be omitted, got %+v", records)
	}
}

func TestEngine_Run_IdempotentAsUnorderedSet(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gh.GraphQLRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		repo, _ := req.Variables["repo"].(string)
		fmt.Fprintf(w, `{
			"data": {
				"repository": {
					"fundingLinks": [{"url": "https://example.com/%s"}],
					"owner": {"hasSponsorsListing": false}
				}
			}
		}`, repo)
	})

	var pkgs []manifest.Package
	for i := 0; i < 8; i++ {
		pkgs = append(pkgs, manifest.Package{
			Name:          fmt.Sprintf("pkg%d", i),
			RepositoryURL: fmt.Sprintf("https://github.com/o/r%d", i),
		})
	}

	names := func() []string {
		eng, stdout := newTestEngine(t, handler, "test-token", pkgs)
		if code := eng.Run(context.Background(), jsonConfig()); code != ExitOK {
			t.Fatalf("unexpected exit code %d", code)
		}
		var out []string
		for _, r := range decodeRecords(t, stdout) {
			out = append(out, r.Name)
		}
		sort.Strings(out)
		return out
	}

	first, second := names(), names()
	if len(first) != len(pkgs) {
		t.Fatalf("expected %d records, got %d", len(pkgs), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("runs disagree as sets: %v vs %v", first, second)
		}
	}
}

func TestFilterPackages(t *testing.T) {
	pkgs := []manifest.Package{
		{Name: "root", IsRoot: true},
		{Name: "direct"},
		{Name: "indirect", Indirect: true},
	}

	all := filterPackages(pkgs, false)
	if len(all) != 2 {
		t.Fatalf("expected roots excluded, got %+v", all)
	}

	direct := filterPackages(pkgs, true)
	if len(direct) != 1 || direct[0].Name != "direct" {
		t.Fatalf("expected only direct deps, got %+v", direct)
	}
}
