package imaging

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func rampRaster() *Raster {
	r, _ := NewRasterFromSamples(4, 2, 1, []uint8{10, 20, 30, 40, 50, 60, 70, 80})
	return r
}

func TestStats(t *testing.T) {
	s := Stats(rampRaster())

	if s.Width != 4 || s.Height != 2 {
		t.Errorf("size: got %dx%d, want 4x2", s.Width, s.Height)
	}
	if s.Min != 10 || s.Max != 80 {
		t.Errorf("range: got [%d, %d], want [10, 80]", s.Min, s.Max)
	}
	if math.Abs(s.Mean-45) > 1e-9 {
		t.Errorf("Mean: got %v, want 45", s.Mean)
	}
}

func TestStats_RGBFlattens(t *testing.T) {
	r, _ := NewRasterFromSamples(1, 1, 3, []uint8{0, 30, 90})
	s := Stats(r)

	if s.Min != 0 || s.Max != 90 || math.Abs(s.Mean-40) > 1e-9 {
		t.Errorf("got %+v, want min 0 max 90 mean 40", s)
	}
}

func TestIntensityHistogram(t *testing.T) {
	bins := IntensityHistogram(rampRaster())

	if len(bins) != 256 {
		t.Fatalf("bins: got %d, want 256", len(bins))
	}
	total := 0
	for _, c := range bins {
		total += c
	}
	if total != 8 {
		t.Errorf("total: got %d, want 8", total)
	}
	if bins[10] != 1 || bins[80] != 1 || bins[11] != 0 {
		t.Errorf("unexpected counts: bins[10]=%d bins[80]=%d bins[11]=%d", bins[10], bins[80], bins[11])
	}

	rgb, _ := NewRasterFromSamples(1, 1, 3, []uint8{1, 2, 2})
	bins = IntensityHistogram(rgb)
	if bins[1] != 1 || bins[2] != 2 {
		t.Errorf("rgb counts: bins[1]=%d bins[2]=%d, want 1 and 2", bins[1], bins[2])
	}
}

func TestInvert(t *testing.T) {
	inv, err := Invert(rampRaster())
	if err != nil {
		t.Fatalf("Invert failed: %v", err)
	}
	if inv.Kind != Grayscale {
		t.Errorf("Kind: got %s, want grayscale", inv.Kind)
	}
	want := []uint8{245, 235, 225, 215, 205, 195, 185, 175}
	if diff := cmp.Diff(want, inv.Pix); diff != "" {
		t.Errorf("Invert mismatch (-want +got):\n%s", diff)
	}
}

func TestRescale(t *testing.T) {
	r := rampRaster()

	same, err := Rescale(r, 0, 255)
	if err != nil {
		t.Fatalf("Rescale failed: %v", err)
	}
	if diff := cmp.Diff(r.Pix, same.Pix); diff != "" {
		t.Errorf("full-range rescale should be the identity (-want +got):\n%s", diff)
	}

	flat, err := Rescale(r, 100, 100)
	if err != nil {
		t.Fatalf("Rescale failed: %v", err)
	}
	for i, v := range flat.Pix {
		if v != 100 {
			t.Fatalf("flat rescale: sample %d is %d, want 100", i, v)
		}
	}

	if _, err := Rescale(r, 200, 100); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("inverted range: got %v, want ErrInvalidParameter", err)
	}
}
