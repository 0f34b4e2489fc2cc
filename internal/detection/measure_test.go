package detection

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func measureMask(t *testing.T, m Measurer, width, height int, rects ...image.Rectangle) []Region {
	t.Helper()
	contours := TraceContours(createMask(width, height, rects...))
	regions, err := m.Measure(image.Pt(width, height), contours)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	return regions
}

func TestMeasure_Square(t *testing.T) {
	regions := measureMask(t, Measurer{}, 100, 100, image.Rect(40, 40, 60, 60))

	if len(regions) != 1 {
		t.Fatalf("Expected 1 region, got %d", len(regions))
	}
	r := regions[0]
	if r.Index != 0 {
		t.Errorf("Index: got %d, want 0", r.Index)
	}
	if r.Area != 361 {
		t.Errorf("Area: got %v, want 361", r.Area)
	}
	if math.Abs(r.Perimeter-76) > 1e-9 {
		t.Errorf("Perimeter: got %v, want 76", r.Perimeter)
	}
	if math.Abs(r.Centroid.X-49.5) > 1e-9 || math.Abs(r.Centroid.Y-49.5) > 1e-9 {
		t.Errorf("Centroid: got (%v, %v), want (49.5, 49.5)", r.Centroid.X, r.Centroid.Y)
	}
	if want := (BoundingBox{X: 40, Y: 40, Width: 20, Height: 20}); r.Box != want {
		t.Errorf("Box: got %+v, want %+v", r.Box, want)
	}
}

func TestMeasure_DisjointBlobs(t *testing.T) {
	regions := measureMask(t, Measurer{}, 100, 100,
		image.Rect(10, 10, 20, 20),
		image.Rect(50, 20, 55, 28),
		image.Rect(30, 60, 50, 75),
	)

	if diff := cmp.Diff([]int{81, 28, 266}, Areas(regions)); diff != "" {
		t.Errorf("Areas mismatch (-want +got):\n%s", diff)
	}
	for i, r := range regions {
		if r.Index != i {
			t.Errorf("Region %d has index %d", i, r.Index)
		}
	}
}

func TestMeasure_RectangleCentroid(t *testing.T) {
	tests := []struct {
		x0, y0, w, h int
	}{
		{10, 20, 30, 10},
		{5, 5, 7, 13},
		{33, 41, 2, 2},
		{60, 10, 25, 50},
	}

	for _, tt := range tests {
		regions := measureMask(t, Measurer{}, 100, 100, image.Rect(tt.x0, tt.y0, tt.x0+tt.w, tt.y0+tt.h))
		if len(regions) != 1 {
			t.Fatalf("Rect %+v: expected 1 region, got %d", tt, len(regions))
		}
		wantX := float64(tt.x0) + float64(tt.w)/2 - 0.5
		wantY := float64(tt.y0) + float64(tt.h)/2 - 0.5
		c := regions[0].Centroid
		if math.Abs(c.X-wantX) > 1e-9 || math.Abs(c.Y-wantY) > 1e-9 {
			t.Errorf("Rect %+v: centroid (%v, %v), want (%v, %v)", tt, c.X, c.Y, wantX, wantY)
		}
	}
}

func TestMeasure_BorderExclusion(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		rect   image.Rectangle
		strict int
		legacy int
	}{
		{"touches left", 100, 100, image.Rect(0, 30, 10, 40), 0, 0},
		{"touches top", 100, 100, image.Rect(30, 0, 40, 10), 0, 0},
		{"interior", 100, 100, image.Rect(5, 30, 15, 40), 1, 1},
		{"touches right", 100, 100, image.Rect(90, 30, 100, 40), 0, 1},
		{"touches bottom", 100, 100, image.Rect(30, 90, 40, 100), 0, 1},
		{"tall image below width", 50, 200, image.Rect(10, 120, 20, 130), 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strict := measureMask(t, Measurer{Policy: BorderStrict}, tt.width, tt.height, tt.rect)
			if len(strict) != tt.strict {
				t.Errorf("strict: got %d regions, want %d", len(strict), tt.strict)
			}
			legacy := measureMask(t, Measurer{Policy: BorderLegacy}, tt.width, tt.height, tt.rect)
			if len(legacy) != tt.legacy {
				t.Errorf("legacy: got %d regions, want %d", len(legacy), tt.legacy)
			}
		})
	}
}

func TestMeasure_RingYieldsOuterAndHole(t *testing.T) {
	contours := TraceContours(createRingMask(100, 100, image.Rect(20, 20, 50, 50), image.Rect(30, 30, 40, 40)))

	regions, err := Measurer{}.Measure(image.Pt(100, 100), contours)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}

	if diff := cmp.Diff([]int{841, 119}, Areas(regions)); diff != "" {
		t.Errorf("Areas mismatch (-want +got):\n%s", diff)
	}
	if !regions[1].Contour.Hole {
		t.Error("Second region should come from the hole border")
	}
}

func TestMeasure_DegenerateRegion(t *testing.T) {
	tests := []struct {
		name string
		rect image.Rectangle
	}{
		{"single pixel", image.Rect(50, 50, 51, 51)},
		{"horizontal line", image.Rect(20, 50, 40, 51)},
		{"vertical line", image.Rect(50, 20, 51, 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contours := TraceContours(createMask(100, 100, image.Rect(10, 10, 20, 20), tt.rect))

			regions, err := Measurer{}.Measure(image.Pt(100, 100), contours)

			if !errors.Is(err, ErrDegenerateRegion) {
				t.Fatalf("Expected ErrDegenerateRegion, got %v", err)
			}
			if regions != nil {
				t.Errorf("Expected no regions on failure, got %d", len(regions))
			}
		})
	}
}

func TestMeasure_DegenerateOnBorderIsIgnored(t *testing.T) {
	// A zero-area contour touching the frame is excluded before measuring.
	contours := TraceContours(createMask(100, 100, image.Rect(0, 50, 1, 51), image.Rect(10, 10, 20, 20)))

	regions, err := Measurer{}.Measure(image.Pt(100, 100), contours)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if len(regions) != 1 {
		t.Errorf("Expected 1 region, got %d", len(regions))
	}
}

func TestMeasure_NoContours(t *testing.T) {
	regions, err := Measurer{}.Measure(image.Pt(10, 10), nil)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if len(regions) != 0 {
		t.Errorf("Expected 0 regions, got %d", len(regions))
	}
}

func TestAreas_Truncates(t *testing.T) {
	regions := []Region{{Area: 10.9}, {Area: 0.5}, {Area: 1500}}

	if diff := cmp.Diff([]int{10, 0, 1500}, Areas(regions)); diff != "" {
		t.Errorf("Areas mismatch (-want +got):\n%s", diff)
	}
}
