package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateStrategy(t *testing.T) {
	tests := []struct {
		strategy string
		wantErr  bool
	}{
		{"function", false},
		{"class", false},
		{"semantic", false},
		{"window", false},
		{"hybrid", false},
		{"invalid", true},
		{"HYBRID", true}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Chunking.Strategy = tt.strategy
			errs := Validate(cfg)

			hasErr := len(errs) > 0
			if hasErr != tt.wantErr {
				t.Errorf("Validate(Chunking.Strategy=%q) hasErr=%v, want %v", tt.strategy, hasErr, tt.wantErr)
			}
		})
	}
}

func TestValidateSizeRelations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chunking.MinChunkSize = cfg.Chunking.MaxChunkSize + 1
	if errs := Validate(cfg); len(errs) == 0 {
		t.Error("min above max not rejected")
	}

	cfg = DefaultConfig()
	cfg.Chunking.OverlapSize = cfg.Chunking.MaxChunkSize
	if errs := Validate(cfg); len(errs) == 0 {
		t.Error("overlap equal to max not rejected")
	}

	cfg = DefaultConfig()
	cfg.Output.Format = "xml"
	if errs := Validate(cfg); len(errs) == 0 {
		t.Error("unknown output format not rejected")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, warnings, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning about missing config file")
	}
	if cfg.Chunking.Strategy != "hybrid" {
		t.Errorf("default strategy = %q, want hybrid", cfg.Chunking.Strategy)
	}
	if cfg.Chunking.MaxChunkSize != 1000 {
		t.Errorf("default max_chunk_size = %d, want 1000", cfg.Chunking.MaxChunkSize)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Chunking.Strategy = "semantic"
	cfg.Chunking.MaxChunkSize = 800
	cfg.Tokens.Exact = true
	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".code-chunker", "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, _, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Chunking.Strategy != "semantic" {
		t.Errorf("strategy = %q, want semantic", loaded.Chunking.Strategy)
	}
	if loaded.Chunking.MaxChunkSize != 800 {
		t.Errorf("max_chunk_size = %d, want 800", loaded.Chunking.MaxChunkSize)
	}
	if !loaded.Tokens.Exact {
		t.Error("tokens.exact not preserved")
	}
}

func TestHashTracksChunkingOptions(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	if a.Hash() != b.Hash() {
		t.Error("identical configs hash differently")
	}
	b.Chunking.MaxChunkSize = 555
	if a.Hash() == b.Hash() {
		t.Error("changed max_chunk_size not reflected in hash")
	}
}

func TestCopyIsDeep(t *testing.T) {
	a := DefaultConfig()
	b := a.Copy()
	b.Scan.Include[0] = "**/*.zig"
	if a.Scan.Include[0] == "**/*.zig" {
		t.Error("Copy shares the include slice")
	}
}
