package config

import "testing"

func TestNew_Defaults(t *testing.T) {
	cfg := New()
	if cfg.Manifest.Path != "." {
		t.Errorf("expected default manifest path '.', got %q", cfg.Manifest.Path)
	}
	if cfg.Manifest.DirectOnly {
		t.Error("expected direct-only off by default")
	}
	if cfg.Output.Format != FormatRich {
		t.Errorf("expected default output %q, got %q", FormatRich, cfg.Output.Format)
	}
	if cfg.Runtime.Concurrency != DefaultConcurrency {
		t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, cfg.Runtime.Concurrency)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestValidate_OutputFormat(t *testing.T) {
	cfg := New()

	cfg.Output.Format = "json"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("json must validate: %v", err)
	}

	// Normalized case and whitespace.
	cfg.Output.Format = "  RICH "
	if err := cfg.Validate(); err != nil {
		t.Fatalf("normalized rich must validate: %v", err)
	}
	if cfg.Output.Format != FormatRich {
		t.Fatalf("expected normalization to %q, got %q", FormatRich, cfg.Output.Format)
	}

	// Empty falls back to the default.
	cfg.Output.Format = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty format must default: %v", err)
	}
	if cfg.Output.Format != FormatRich {
		t.Fatalf("expected default %q, got %q", FormatRich, cfg.Output.Format)
	}

	cfg.Output.Format = "yaml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestValidate_Concurrency(t *testing.T) {
	cfg := New()
	cfg.Runtime.Concurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for concurrency 0")
	}
	cfg.Runtime.Concurrency = -3
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative concurrency")
	}
	cfg.Runtime.Concurrency = 1
	if err := cfg.Validate(); err != nil {
		t.Fatalf("concurrency 1 must validate: %v", err)
	}
}

func TestValidate_EmptyManifestPathDefaults(t *testing.T) {
	cfg := New()
	cfg.Manifest.Path = "   "
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Manifest.Path != "." {
		t.Fatalf("expected '.', got %q", cfg.Manifest.Path)
	}
}
