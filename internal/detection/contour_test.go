package detection

import (
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/image-objects/internal/imaging"
)

// createMask creates a width×height mask with the given rectangles filled.
func createMask(width, height int, rects ...image.Rectangle) *imaging.Mask {
	m := imaging.NewMask(width, height)
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// createRingMask creates a filled square with a square hole cut out of it.
func createRingMask(width, height int, outer, hole image.Rectangle) *imaging.Mask {
	m := createMask(width, height, outer)
	for y := hole.Min.Y; y < hole.Max.Y; y++ {
		for x := hole.Min.X; x < hole.Max.X; x++ {
			m.Set(x, y, false)
		}
	}
	return m
}

func TestTraceContours_Square(t *testing.T) {
	m := createMask(100, 100, image.Rect(40, 40, 60, 60))

	contours := TraceContours(m)

	if len(contours) != 1 {
		t.Fatalf("Expected 1 contour, got %d", len(contours))
	}
	want := []Point{{40, 40}, {40, 59}, {59, 59}, {59, 40}}
	if diff := cmp.Diff(want, contours[0].Points); diff != "" {
		t.Errorf("Square corners mismatch (-want +got):\n%s", diff)
	}
	if contours[0].Hole {
		t.Error("Square border should be an outer border")
	}
}

func TestTraceContoursWith_ApproxNone(t *testing.T) {
	m := createMask(100, 100, image.Rect(40, 40, 60, 60))

	contours := TraceContoursWith(m, ApproxNone)

	if len(contours) != 1 {
		t.Fatalf("Expected 1 contour, got %d", len(contours))
	}
	// Every border pixel of a 20×20 square: 4 sides of 19 steps.
	if got := len(contours[0].Points); got != 76 {
		t.Errorf("Expected 76 border pixels, got %d", got)
	}
	if contours[0].Points[0] != (Point{40, 40}) {
		t.Errorf("Expected contour to start at (40,40), got %v", contours[0].Points[0])
	}

	// Consecutive points are 8-neighbors, including the closing step.
	pts := contours[0].Points
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		dx, dy := q.X-p.X, q.Y-p.Y
		if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx == 0 && dy == 0) {
			t.Fatalf("Points %v and %v are not 8-neighbors", p, q)
		}
	}
}

func TestTraceContours_Empty(t *testing.T) {
	m := imaging.NewMask(50, 50)

	contours := TraceContours(m)

	if len(contours) != 0 {
		t.Errorf("Expected 0 contours in empty mask, got %d", len(contours))
	}
}

func TestTraceContours_IsolatedPixel(t *testing.T) {
	m := createMask(20, 20, image.Rect(7, 9, 8, 10))

	contours := TraceContours(m)

	if len(contours) != 1 {
		t.Fatalf("Expected 1 contour, got %d", len(contours))
	}
	if diff := cmp.Diff([]Point{{7, 9}}, contours[0].Points); diff != "" {
		t.Errorf("Isolated pixel contour mismatch (-want +got):\n%s", diff)
	}
}

func TestTraceContours_HorizontalPair(t *testing.T) {
	m := createMask(10, 10, image.Rect(3, 4, 5, 5))

	contours := TraceContoursWith(m, ApproxNone)

	if len(contours) != 1 {
		t.Fatalf("Expected 1 contour, got %d", len(contours))
	}
	if diff := cmp.Diff([]Point{{3, 4}, {4, 4}}, contours[0].Points); diff != "" {
		t.Errorf("Pair contour mismatch (-want +got):\n%s", diff)
	}
}

func TestTraceContours_Ring(t *testing.T) {
	m := createRingMask(100, 100, image.Rect(20, 20, 50, 50), image.Rect(30, 30, 40, 40))

	contours := TraceContours(m)

	if len(contours) != 2 {
		t.Fatalf("Expected outer and hole contours, got %d", len(contours))
	}
	if contours[0].Hole {
		t.Error("First contour should be the outer border")
	}
	if !contours[1].Hole {
		t.Error("Second contour should be the hole border")
	}

	// The hole border runs through the foreground pixels around the hole,
	// cutting its corners diagonally.
	wantHole := []Point{
		{29, 30}, {30, 29}, {39, 29}, {40, 30},
		{40, 39}, {39, 40}, {30, 40}, {29, 39},
	}
	if diff := cmp.Diff(wantHole, contours[1].Points); diff != "" {
		t.Errorf("Hole contour mismatch (-want +got):\n%s", diff)
	}

	if got := ContourArea(contours[0].Points); got != 841 {
		t.Errorf("Outer area: got %v, want 841", got)
	}
	if got := ContourArea(contours[1].Points); got != 119 {
		t.Errorf("Hole area: got %v, want 119", got)
	}
}

func TestTraceContours_RasterOrder(t *testing.T) {
	m := createMask(100, 100,
		image.Rect(50, 20, 55, 28),
		image.Rect(10, 10, 20, 20),
		image.Rect(30, 60, 50, 75),
	)

	contours := TraceContours(m)

	if len(contours) != 3 {
		t.Fatalf("Expected 3 contours, got %d", len(contours))
	}
	wantStarts := []Point{{10, 10}, {50, 20}, {30, 60}}
	for i, c := range contours {
		if c.Points[0] != wantStarts[i] {
			t.Errorf("Contour %d: start %v, want %v", i, c.Points[0], wantStarts[i])
		}
	}
}

func TestTraceContours_DiagonalConnectivity(t *testing.T) {
	// Two squares touching only at a corner form one 8-connected component.
	m := createMask(40, 40, image.Rect(5, 5, 10, 10), image.Rect(10, 10, 15, 15))

	contours := TraceContours(m)

	if len(contours) != 1 {
		t.Errorf("Expected 1 contour for diagonally touching squares, got %d", len(contours))
	}
}

func TestTraceContours_Deterministic(t *testing.T) {
	m := createRingMask(64, 64, image.Rect(4, 4, 40, 30), image.Rect(10, 10, 20, 20))

	first := TraceContours(m)
	second := TraceContours(m)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Repeated tracing differs (-first +second):\n%s", diff)
	}
}

func TestTraceContours_DoesNotModifyMask(t *testing.T) {
	m := createMask(30, 30, image.Rect(5, 5, 15, 15))
	before := append([]uint8(nil), m.Pix...)

	TraceContours(m)

	if diff := cmp.Diff(before, m.Pix); diff != "" {
		t.Error("TraceContours modified its input mask")
	}
}

func TestCompressRuns(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   []Point
	}{
		{
			name:   "short",
			points: []Point{{0, 0}, {1, 0}},
			want:   []Point{{0, 0}, {1, 0}},
		},
		{
			name:   "square",
			points: []Point{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}, {2, 1}, {2, 0}, {1, 0}},
			want:   []Point{{0, 0}, {0, 2}, {2, 2}, {2, 0}},
		},
		{
			name:   "diagonal run",
			points: []Point{{0, 0}, {1, 1}, {2, 2}, {1, 2}, {0, 2}, {0, 1}},
			want:   []Point{{0, 0}, {2, 2}, {0, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compressRuns(tt.points)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("compressRuns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompressRuns_PreservesGeometry(t *testing.T) {
	m := createRingMask(80, 80, image.Rect(10, 10, 60, 45), image.Rect(20, 20, 35, 30))

	full := TraceContoursWith(m, ApproxNone)
	simple := TraceContoursWith(m, ApproxSimple)

	if len(full) != len(simple) {
		t.Fatalf("Contour count differs: %d vs %d", len(full), len(simple))
	}
	for i := range full {
		if a, b := ContourArea(full[i].Points), ContourArea(simple[i].Points); a != b {
			t.Errorf("Contour %d area: none=%v simple=%v", i, a, b)
		}
		if a, b := ArcLength(full[i].Points), ArcLength(simple[i].Points); math.Abs(a-b) > 1e-9 {
			t.Errorf("Contour %d perimeter: none=%v simple=%v", i, a, b)
		}
		if BoundingBoxOf(full[i].Points) != BoundingBoxOf(simple[i].Points) {
			t.Errorf("Contour %d bounding box differs", i)
		}
	}
}
