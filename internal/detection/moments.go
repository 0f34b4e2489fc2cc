package detection

import (
	"math"
)

// Moments holds the spatial moments of a closed polygon up to first order.
//
// M00 is the enclosed area; M10 and M01 are the first moments about the
// y and x axes. Values are computed from the vertices alone (Green's
// theorem), so they describe the polygon through the pixel centers rather
// than a pixel count.
type Moments struct {
	M00 float64 `json:"m00"`
	M10 float64 `json:"m10"`
	M01 float64 `json:"m01"`
}

// PolygonMoments computes the moments of the closed polygon through points.
// The result is independent of traversal direction: a negative signed area
// flips the sign of all three moments.
func PolygonMoments(points []Point) Moments {
	n := len(points)
	if n < 3 {
		return Moments{}
	}

	var a00, a10, a01 float64
	for i := 0; i < n; i++ {
		p := points[i]
		q := points[(i+1)%n]
		xi, yi := float64(p.X), float64(p.Y)
		xj, yj := float64(q.X), float64(q.Y)
		cross := xi*yj - xj*yi
		a00 += cross
		a10 += (xi + xj) * cross
		a01 += (yi + yj) * cross
	}

	m := Moments{M00: a00 / 2, M10: a10 / 6, M01: a01 / 6}
	if m.M00 < 0 {
		m = Moments{M00: -m.M00, M10: -m.M10, M01: -m.M01}
	}
	return m
}

// Centroid returns (M10/M00, M01/M00). ok is false for a zero-area polygon.
func (m Moments) Centroid() (x, y float64, ok bool) {
	if m.M00 == 0 {
		return 0, 0, false
	}
	return m.M10 / m.M00, m.M01 / m.M00, true
}

// ContourArea returns the absolute area enclosed by the polygon.
func ContourArea(points []Point) float64 {
	return PolygonMoments(points).M00
}

// ArcLength returns the Euclidean length of the closed polygon, including
// the closing segment from the last point back to the first.
func ArcLength(points []Point) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	var length float64
	for i := 0; i < n; i++ {
		p := points[i]
		q := points[(i+1)%n]
		length += math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
	}
	return length
}
