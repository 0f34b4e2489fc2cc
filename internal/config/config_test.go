package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"

	"github.com/ironsheep/image-objects/internal/detection"
	"github.com/ironsheep/image-objects/internal/imaging"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "objects.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config is invalid: %v", err)
	}
	if cfg.Save {
		t.Error("Default should display, not save")
	}
	if cfg.DestDir != "out" {
		t.Errorf("DestDir: got %q, want out", cfg.DestDir)
	}
	if cfg.Threshold != 250 {
		t.Errorf("Threshold: got %d, want 250", cfg.Threshold)
	}
	if diff := cmp.Diff(imaging.DefaultEdgeParams(), cfg.Edge.Params()); diff != "" {
		t.Errorf("Edge params mismatch (-want +got):\n%s", diff)
	}
	if cfg.Policy() != detection.BorderStrict {
		t.Errorf("Policy: got %v, want strict", cfg.Policy())
	}
}

func TestLoad_Overlay(t *testing.T) {
	path := writeConfig(t, `
save: true
dest_dir: results
workers: 4
edge:
  low: 100
  high: 200
  channel_max: true
border_policy: legacy
palette:
  background: "#000000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	want.Save = true
	want.DestDir = "results"
	want.Workers = 4
	want.Edge.Low = 100
	want.Edge.High = 200
	want.Edge.ChannelMax = true
	want.BorderPolicy = "legacy"
	want.Palette.Background = "#000000"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Config mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Edge.Params().ChannelMax {
		t.Error("Edge.Params should carry channel_max")
	}
	if cfg.Policy() != detection.BorderLegacy {
		t.Errorf("Policy: got %v, want legacy", cfg.Policy())
	}
	if got := cfg.ResolvedPalette().Background; got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("Background: got %v, want black", got)
	}
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Empty file should give defaults (-want +got):\n%s", diff)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	if _, err := Load(writeConfig(t, "treshold: 10\n")); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.DestDir = " "
	cfg.Workers = 0
	cfg.Threshold = 300
	cfg.Edge.Aperture = 4
	cfg.BorderPolicy = "loose"
	cfg.HistogramFormat = "bmp"
	cfg.Palette.Edge = "not-a-color"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}

	if got := len(multierr.Errors(err)); got != 8 {
		t.Errorf("Expected 8 errors, got %d: %v", got, err)
	}
	for _, want := range []string{"dest_dir", "workers", "threshold", "aperture", "border policy", "histogram format", "palette edge", "loud"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error should mention %q: %v", want, err)
		}
	}
}

func TestThresholdValue(t *testing.T) {
	tests := []struct {
		in   int
		want uint8
	}{
		{250, 250},
		{-5, 0},
		{999, 255},
	}

	for _, tt := range tests {
		cfg := Config{Threshold: tt.in}
		if got := cfg.ThresholdValue(); got != tt.want {
			t.Errorf("ThresholdValue(%d): got %d, want %d", tt.in, got, tt.want)
		}
	}
}
