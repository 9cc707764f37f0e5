package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Pricing.OnboardingFloor != "3000" {
		t.Errorf("expected default onboarding floor 3000, got %q", cfg.Pricing.OnboardingFloor)
	}
	if cfg.Catalog.Sheets.Seats != "Ariento License Type" {
		t.Errorf("unexpected default seats sheet %q", cfg.Catalog.Sheets.Seats)
	}
}

func TestSaveThenLoadKeepsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "quote-tool.json")

	cfg := Default()
	cfg.Catalog.DocumentID = "abc123"
	cfg.Output.DefaultFormat = "yaml"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Catalog.DocumentID != "abc123" {
		t.Errorf("document id = %q, want abc123", loaded.Catalog.DocumentID)
	}
	if loaded.Output.DefaultFormat != "yaml" {
		t.Errorf("default format = %q, want yaml", loaded.Output.DefaultFormat)
	}
}

func TestPartialFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"catalog":{"source":"pricing.xlsx"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Catalog.Source != "pricing.xlsx" {
		t.Errorf("source = %q", cfg.Catalog.Source)
	}
	if cfg.Catalog.Timeout() != 20*time.Second {
		t.Errorf("timeout = %v, want 20s", cfg.Catalog.Timeout())
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"catalog":`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}
