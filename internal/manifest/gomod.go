package manifest

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// parseGoModFallback extracts the module name and direct requirements from a
// go.mod file with a line scanner. It sees only what the file declares: no
// transitive modules, and `// indirect` requirements are skipped.
func parseGoModFallback(path string) ([]Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var mods []Module
	seen := make(map[string]bool)
	inRequire := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "module ") {
			name := strings.TrimSpace(strings.TrimPrefix(line, "module "))
			if name != "" && !seen[name] {
				seen[name] = true
				mods = append(mods, Module{Path: name, Main: true})
			}
			continue
		}

		if strings.HasPrefix(line, "require (") || line == "require(" {
			inRequire = true
			continue
		}
		if inRequire && line == ")" {
			inRequire = false
			continue
		}

		// Single-line require
		if strings.HasPrefix(line, "require ") && !strings.Contains(line, "(") {
			line = strings.TrimPrefix(line, "require ")
		} else if !inRequire {
			continue
		}

		if m, ok := parseRequireLine(line); ok && !seen[m.Path] {
			seen[m.Path] = true
			mods = append(mods, m)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return mods, nil
}

func parseRequireLine(line string) (Module, bool) {
	// Indirect requirements are not part of the shallow view.
	if strings.Contains(line, "// indirect") {
		return Module{}, false
	}

	if idx := strings.Index(line, "//"); idx != -1 {
		line = line[:idx]
	}

	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return Module{}, false
	}
	m := Module{Path: fields[0]}
	if len(fields) > 1 {
		m.Version = fields[1]
	}
	return m, true
}

// InferRepoURL extracts a repository URL from a Go module path. For hosting
// platforms whose module paths embed the repository (github.com, gitlab.com,
// bitbucket.org) it takes the first two path segments:
//
//	github.com/spf13/cobra     → https://github.com/spf13/cobra
//	github.com/gofiber/fiber/v2 → https://github.com/gofiber/fiber
//	gopkg.in/yaml.v3           → ""
//
// Vanity and non-repository paths yield an empty string; the collector skips
// those packages.
func InferRepoURL(modulePath string) string {
	for _, prefix := range []string{"github.com/", "gitlab.com/", "bitbucket.org/"} {
		if strings.HasPrefix(modulePath, prefix) {
			parts := strings.Split(strings.TrimPrefix(modulePath, prefix), "/")
			if len(parts) >= 2 {
				return "https://" + prefix + parts[0] + "/" + parts[1]
			}
		}
	}
	return ""
}
