package detection

import (
	"github.com/ironsheep/image-objects/internal/imaging"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Contour is a closed boundary curve of one connected foreground component.
//
// Points are pixel coordinates in traversal order; the curve closes from the
// last point back to the first, which is not repeated. A contour may touch
// itself at single pixels (one-pixel-wide necks are walked in both
// directions).
type Contour struct {
	// Points along the border, starting at the first border pixel met in
	// raster order.
	Points []Point `json:"points"`

	// Hole is true for a border between a component and a hole inside it,
	// false for the outer border of a component.
	Hole bool `json:"hole"`
}

// Approximation selects how many border pixels a contour keeps.
type Approximation int

const (
	// ApproxSimple keeps only the end points of horizontal, vertical and
	// diagonal runs. Areas, perimeters and bounding boxes are unchanged.
	ApproxSimple Approximation = iota
	// ApproxNone keeps every border pixel.
	ApproxNone
)

// TraceContours finds every outer and hole border in a binary mask with
// ApproxSimple compression. See TraceContoursWith.
func TraceContours(m *imaging.Mask) []Contour {
	return TraceContoursWith(m, ApproxSimple)
}

// TraceContoursWith finds every outer and hole border in a binary mask.
//
// Foreground (On) pixels are 8-connected; background is 4-connected, so a
// hole is a 4-connected background area enclosed by foreground. Pixels
// outside the frame count as background.
//
// # Algorithm
//
// Suzuki-Abe border following:
//
//  1. Raster-scan the label grid (1 = unvisited foreground, 0 = background).
//  2. A pixel labeled 1 with background on its left starts an outer border;
//     a pixel labeled >= 1 with background on its right starts a hole border.
//  3. Follow the border counterclockwise around the current pixel, starting
//     just after the previous one. Each visited pixel is labeled with the
//     border's sequence number, negated when its right neighbor is
//     background, which keeps the scan from starting the same border twice.
//  4. Stop when the walk returns to the start pixel heading to the first
//     neighbor found, then resume the raster scan.
//
// Contours are returned in the raster order of their starting pixels, so
// repeated runs on the same mask return identical slices.
func TraceContoursWith(m *imaging.Mask, approx Approximation) []Contour {
	width, height := m.Width, m.Height
	labels := make([]int, width*height)
	for i, v := range m.Pix {
		if v != imaging.Off {
			labels[i] = 1
		}
	}

	f := func(p Point) int {
		if p.X < 0 || p.Y < 0 || p.X >= width || p.Y >= height {
			return 0
		}
		return labels[p.Y*width+p.X]
	}

	contours := make([]Contour, 0)
	nbd := 1

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := Point{X: x, Y: y}
			v := labels[y*width+x]
			if v == 0 {
				continue
			}

			var from Point
			var hole bool
			switch {
			case v == 1 && f(Point{X: x - 1, Y: y}) == 0:
				from = Point{X: x - 1, Y: y}
			case v >= 1 && f(Point{X: x + 1, Y: y}) == 0:
				from = Point{X: x + 1, Y: y}
				hole = true
			default:
				continue
			}

			nbd++
			points := followBorder(labels, width, height, p, from, nbd)
			if approx == ApproxSimple {
				points = compressRuns(points)
			}
			contours = append(contours, Contour{Points: points, Hole: hole})
		}
	}

	return contours
}

// Neighbor offsets, counterclockwise on screen (y grows downward):
// E, NE, N, NW, W, SW, S, SE.
var (
	neighborDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	neighborDY = [8]int{0, -1, -1, -1, 0, 1, 1, 1}
)

func direction(from, to Point) int {
	dx, dy := to.X-from.X, to.Y-from.Y
	for i := 0; i < 8; i++ {
		if neighborDX[i] == dx && neighborDY[i] == dy {
			return i
		}
	}
	return 0
}

func neighbor(p Point, dir int) Point {
	dir &= 7
	return Point{X: p.X + neighborDX[dir], Y: p.Y + neighborDY[dir]}
}

// followBorder walks one border starting at start, whose previous pixel
// (a background neighbor) is from, labels the visited pixels with nbd and
// returns them in traversal order.
func followBorder(labels []int, width, height int, start, from Point, nbd int) []Point {
	at := func(p Point) int {
		if p.X < 0 || p.Y < 0 || p.X >= width || p.Y >= height {
			return 0
		}
		return labels[p.Y*width+p.X]
	}
	set := func(p Point, v int) {
		labels[p.Y*width+p.X] = v
	}

	// Clockwise search for the first foreground neighbor, beginning at from.
	d0 := direction(start, from)
	first := Point{X: -1, Y: -1}
	for k := 0; k < 8; k++ {
		q := neighbor(start, d0-k)
		if at(q) != 0 {
			first = q
			break
		}
	}
	if first.X == -1 {
		// Isolated pixel.
		set(start, -nbd)
		return []Point{start}
	}

	points := make([]Point, 0, 64)
	prev, cur := first, start
	for {
		// Counterclockwise search around cur, beginning just after prev.
		dp := direction(cur, prev)
		eastExamined := false
		var next Point
		for k := 1; k <= 8; k++ {
			dir := (dp + k) & 7
			q := neighbor(cur, dir)
			if at(q) != 0 {
				next = q
				break
			}
			if dir == 0 {
				eastExamined = true
			}
		}

		switch {
		case eastExamined:
			set(cur, -nbd)
		case at(cur) == 1:
			set(cur, nbd)
		}
		points = append(points, cur)

		if next == start && cur == first {
			return points
		}
		prev, cur = cur, next
	}
}

// compressRuns drops points that sit in the middle of a straight
// horizontal, vertical or diagonal run of the closed curve.
func compressRuns(points []Point) []Point {
	n := len(points)
	if n < 3 {
		return points
	}
	out := make([]Point, 0, n)
	for i, p := range points {
		prev := points[(i+n-1)%n]
		next := points[(i+1)%n]
		if p.X-prev.X == next.X-p.X && p.Y-prev.Y == next.Y-p.Y {
			continue
		}
		out = append(out, p)
	}
	return out
}
