package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"bookshelf/internal/platform/config"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()
	cfg := config.Default("/tmp/bookshelf-test")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Viewer.CacheCapacity < 1 {
		t.Fatalf("cache capacity must be positive")
	}
}

func TestNewRejectsBadZoomBounds(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	yaml := "viewer:\n  zoom_min_percent: 200\n"
	if err := os.WriteFile(filepath.Join(dir, "bookshelf.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if _, err := config.New(dir); err == nil {
		t.Fatalf("zoom min above 100 should fail validation")
	}
}

func TestNewOverlaysYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	yaml := "viewer:\n  cache_capacity: 5\n  max_transmit_pixels: 250000\n"
	if err := os.WriteFile(filepath.Join(dir, "bookshelf.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Viewer.CacheCapacity != 5 || cfg.Viewer.MaxTransmitPixels != 250000 {
		t.Fatalf("yaml overlay not applied: %+v", cfg.Viewer)
	}
	if cfg.Viewer.ZoomMaxPercent == 0 {
		t.Fatalf("unset fields should keep defaults")
	}
}
