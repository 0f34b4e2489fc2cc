package histogram

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

func TestNarrowBin(t *testing.T) {
	tests := []struct {
		lo, hi, frac float64
		wantMin      float64
		wantMax      float64
	}{
		{0, 1500, 0.5, 375, 1125},
		{1500, 3000, 1, 1500, 3000},
		{0, 100, 0, 0, 100},
		{0, 100, 2, 0, 100},
	}

	for _, tt := range tests {
		b := narrowBin(tt.lo, tt.hi, 7, tt.frac)
		if b.Min != tt.wantMin || b.Max != tt.wantMax || b.Weight != 7 {
			t.Errorf("narrowBin(%v, %v, %v): got %+v, want [%v, %v]", tt.lo, tt.hi, tt.frac, b, tt.wantMin, tt.wantMax)
		}
	}
}

func TestRender(t *testing.T) {
	h, err := Build([]int{100, 2000, 2500, 5000})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	p := Render(h, DefaultStyle())

	if p.Title.Text != "Object Area Histogram" {
		t.Errorf("Title: got %q", p.Title.Text)
	}
	if p.X.Label.Text != "Area" || p.Y.Label.Text != "Number of Objects" {
		t.Errorf("Axis labels: got %q / %q", p.X.Label.Text, p.Y.Label.Text)
	}
	if p.X.Min != 0 || p.X.Max != 5000 {
		t.Errorf("X range: got [%v, %v], want [0, 5000]", p.X.Min, p.X.Max)
	}

	ticks := p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max)
	var labels []string
	for _, tk := range ticks {
		labels = append(labels, tk.Label)
	}
	if got := strings.Join(labels, ","); got != "0,1500,3000,5000" {
		t.Errorf("Tick labels: got %s", got)
	}
}

func TestSave_PNG(t *testing.T) {
	h, err := Build([]int{100, 200, 1700})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "cells_hist.png")

	if err := Save(Render(h, DefaultStyle()), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open saved figure: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("Saved figure is not a PNG: %v", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		t.Errorf("Saved figure has zero size: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestEncode_SVG(t *testing.T) {
	bins := make([]int, 256)
	bins[0], bins[128], bins[255] = 10, 5, 1

	data, err := Encode(RenderIntensity(bins, "cells"), "svg")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("Encoded figure is not SVG")
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	p := plot.New()
	p.Add(&plotter.Histogram{Bins: []plotter.HistogramBin{{Min: 0, Max: 1, Weight: 1}}})

	if _, err := Encode(p, "bmp"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestSupportedFormat(t *testing.T) {
	for _, f := range []string{"png", "PNG", "svg", "pdf", "jpg"} {
		if !SupportedFormat(f) {
			t.Errorf("SupportedFormat(%q) = false", f)
		}
	}
	for _, f := range []string{"", "bmp", "gif"} {
		if SupportedFormat(f) {
			t.Errorf("SupportedFormat(%q) = true", f)
		}
	}
}
