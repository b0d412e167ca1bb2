// Package manifest loads the module dependency graph of a Go project.
//
// The primary path shells out to `go list -m -json all`, which yields the
// full transitive module graph the same way the go command itself resolves
// it. When the go toolchain is unavailable, a shallow go.mod parse supplies
// the direct requirements as a degraded fallback.
package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Module mirrors the fields of `go list -m -json` output this tool consumes.
type Module struct {
	Path     string
	Version  string
	Main     bool
	Indirect bool
}

// Package is one dependency as seen by the fetch pipeline. RepositoryURL is
// empty for modules whose path does not map onto a known hosting platform.
type Package struct {
	Name          string
	RepositoryURL string
	IsRoot        bool
	Indirect      bool
}

// Load reads the dependency list for the project at path. The path may be a
// project directory or a go.mod file. Errors here are setup failures: nothing
// has been fetched yet and the run should abort.
func Load(ctx context.Context, path string, logger *log.Logger) ([]Package, error) {
	if ctx == nil {
		return nil, errors.New("manifest: ctx is nil")
	}

	dir, modFile, err := locate(path)
	if err != nil {
		return nil, err
	}

	mods, listErr := listModules(ctx, dir)
	if listErr != nil {
		if logger != nil {
			logger.Debug("go list failed, falling back to shallow go.mod parse", "error", listErr)
		}
		mods, err = parseGoModFallback(modFile)
		if err != nil {
			return nil, fmt.Errorf("manifest: %w (go list also failed: %v)", err, listErr)
		}
	}

	pkgs := make([]Package, 0, len(mods))
	for _, m := range mods {
		pkgs = append(pkgs, Package{
			Name:          m.Path,
			RepositoryURL: InferRepoURL(m.Path),
			IsRoot:        m.Main,
			Indirect:      m.Indirect,
		})
	}
	return pkgs, nil
}

// locate resolves a --manifest value to (project dir, go.mod path) and
// verifies the manifest exists before any subprocess is spawned.
func locate(path string) (dir, modFile string, err error) {
	if path == "" {
		path = "."
	}

	info, statErr := os.Stat(path)
	switch {
	case statErr != nil:
		return "", "", fmt.Errorf("manifest: %w", statErr)
	case info.IsDir():
		dir = path
		modFile = filepath.Join(path, "go.mod")
	default:
		dir = filepath.Dir(path)
		modFile = path
	}

	if _, statErr := os.Stat(modFile); statErr != nil {
		return "", "", fmt.Errorf("manifest: no go.mod at %s: %w", modFile, statErr)
	}
	return dir, modFile, nil
}

func listModules(ctx context.Context, dir string) ([]Module, error) {
	cmd := exec.CommandContext(ctx, "go", "list", "-m", "-json", "all")
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("go list -m all: %s", msg)
		}
		return nil, fmt.Errorf("go list -m all: %w", err)
	}

	// The output is a stream of concatenated JSON objects, one per module.
	var mods []Module
	dec := json.NewDecoder(bytes.NewReader(out))
	for {
		var m Module
		if err := dec.Decode(&m); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("go list -m all: decode output: %w", err)
		}
		mods = append(mods, m)
	}
	return mods, nil
}
