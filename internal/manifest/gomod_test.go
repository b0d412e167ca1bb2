package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGoMod(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "go.mod")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}
	return path
}

func TestParseGoModFallback(t *testing.T) {
	path := writeGoMod(t, `module example.com/myproject

go 1.25.5

require (
	github.com/spf13/cobra v1.10.2
	github.com/fatih/color v1.18.0 // some comment
	golang.org/x/sys v0.39.0 // indirect
)

require github.com/joho/godotenv v1.5.1
`)

	mods, err := parseGoModFallback(path)
	if err != nil {
		t.Fatalf("parseGoModFallback: %v", err)
	}

	byPath := make(map[string]Module)
	for _, m := range mods {
		byPath[m.Path] = m
	}

	root, ok := byPath["example.com/myproject"]
	if !ok || !root.Main {
		t.Fatalf("expected a main module entry, got %+v", mods)
	}
	if _, ok := byPath["github.com/spf13/cobra"]; !ok {
		t.Error("missing block requirement")
	}
	if _, ok := byPath["github.com/fatih/color"]; !ok {
		t.Error("missing requirement with trailing comment")
	}
	if _, ok := byPath["github.com/joho/godotenv"]; !ok {
		t.Error("missing single-line requirement")
	}
	if _, ok := byPath["golang.org/x/sys"]; ok {
		t.Error("indirect requirement should be excluded from the shallow view")
	}
	if got := byPath["github.com/spf13/cobra"].Version; got != "v1.10.2" {
		t.Errorf("unexpected version: %q", got)
	}
}

func TestParseRequireLine_Variations(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{"github.com/spf13/cobra v1.10.2", "github.com/spf13/cobra", true},
		{"github.com/fatih/color v1.18.0 // note", "github.com/fatih/color", true},
		{"golang.org/x/sys v0.39.0 // indirect", "", false},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		m, ok := parseRequireLine(tt.line)
		if ok != tt.wantOK {
			t.Errorf("parseRequireLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			continue
		}
		if m.Path != tt.want {
			t.Errorf("parseRequireLine(%q) = %q, want %q", tt.line, m.Path, tt.want)
		}
	}
}

func TestInferRepoURL(t *testing.T) {
	tests := []struct {
		modulePath string
		want       string
	}{
		{"github.com/spf13/cobra", "https://github.com/spf13/cobra"},
		{"github.com/gofiber/fiber/v2", "https://github.com/gofiber/fiber"},
		{"gitlab.com/user/repo", "https://gitlab.com/user/repo"},
		{"bitbucket.org/user/repo", "https://bitbucket.org/user/repo"},
		{"gopkg.in/yaml.v3", ""},
		{"golang.org/x/sync", ""},
		{"github.com/onlyowner", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := InferRepoURL(tt.modulePath); got != tt.want {
			t.Errorf("InferRepoURL(%q) = %q, want %q", tt.modulePath, got, tt.want)
		}
	}
}

func TestLocate(t *testing.T) {
	modPath := writeGoMod(t, "module example.com/x\n")
	dir := filepath.Dir(modPath)

	// Directory form.
	gotDir, gotMod, err := locate(dir)
	if err != nil {
		t.Fatalf("locate(dir): %v", err)
	}
	if gotDir != dir || gotMod != modPath {
		t.Fatalf("locate(dir) = (%q, %q)", gotDir, gotMod)
	}

	// File form.
	gotDir, gotMod, err = locate(modPath)
	if err != nil {
		t.Fatalf("locate(file): %v", err)
	}
	if gotDir != dir || gotMod != modPath {
		t.Fatalf("locate(file) = (%q, %q)", gotDir, gotMod)
	}

	// Missing path is a setup failure.
	if _, _, err := locate(filepath.Join(dir, "nope")); err == nil {
		t.Fatal("expected error for missing path")
	}

	// Directory without a go.mod is a setup failure.
	if _, _, err := locate(t.TempDir()); err == nil {
		t.Fatal("expected error for directory without go.mod")
	}
}
