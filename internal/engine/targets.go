package engine

import (
	"net/url"
	"strings"

	"gosponsor/internal/manifest"
)

// RepoRef is a canonical (owner, name) pair on github.com.
type RepoRef struct {
	Owner string
	Name  string
}

// FetchTarget is the unit of fetch work: one repository to query once,
// attributed to the first package that referenced it.
type FetchTarget struct {
	PackageName   string
	RepositoryURL string
	Owner         string
	Repo          string
}

// ResolveRepoRef extracts the owner and repository name from a declared
// repository URL. It fails closed (ok=false, never an error) for URLs that do
// not parse, are not hosted on github.com, or have fewer than two path
// segments. A trailing ".git" on the name is stripped.
func ResolveRepoRef(repositoryURL string) (RepoRef, bool) {
	u, err := url.Parse(repositoryURL)
	if err != nil {
		return RepoRef{}, false
	}
	if !strings.EqualFold(u.Hostname(), "github.com") {
		return RepoRef{}, false
	}

	segments := strings.FieldsFunc(strings.Trim(u.Path, "/"), func(r rune) bool { return r == '/' })
	if len(segments) < 2 {
		return RepoRef{}, false
	}

	owner := segments[0]
	name := strings.TrimSuffix(segments[1], ".git")
	if owner == "" || name == "" {
		return RepoRef{}, false
	}
	return RepoRef{Owner: owner, Name: name}, true
}

// CollectTargets turns a dependency list into the unique set of repositories
// to query. Packages without a resolvable GitHub URL are skipped. Two
// packages pointing at the same repository produce one target, attributed to
// whichever package came first; output order is first-seen input order.
func CollectTargets(pkgs []manifest.Package) []FetchTarget {
	seen := make(map[RepoRef]bool)
	targets := make([]FetchTarget, 0, len(pkgs))

	for _, pkg := range pkgs {
		if pkg.RepositoryURL == "" {
			continue
		}
		ref, ok := ResolveRepoRef(pkg.RepositoryURL)
		if !ok {
			continue
		}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		targets = append(targets, FetchTarget{
			PackageName:   pkg.Name,
			RepositoryURL: pkg.RepositoryURL,
			Owner:         ref.Owner,
			Repo:          ref.Name,
		})
	}

	return targets
}
