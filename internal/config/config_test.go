package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Extractor.Workers != 8 {
		t.Fatalf("expected default worker count 8, got %d", cfg.Extractor.Workers)
	}
	if !cfg.Subsystems.FlowWeaver {
		t.Fatalf("expected FlowWeaver enabled by default")
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	confDir := filepath.Join(dir, ".repogenome")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := "extractor:\n  workers: 2\nsubsystems:\n  chronoMap: false\n"
	if err := os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Extractor.Workers != 2 {
		t.Fatalf("expected overridden worker count 2, got %d", cfg.Extractor.Workers)
	}
	if cfg.Subsystems.ChronoMap {
		t.Fatalf("expected ChronoMap disabled by override")
	}
	if !cfg.Subsystems.FlowWeaver {
		t.Fatalf("expected FlowWeaver to keep its default")
	}
}
