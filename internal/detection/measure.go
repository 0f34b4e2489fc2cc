package detection

import (
	"errors"
	"fmt"
	"image"
)

// ErrDegenerateRegion is returned when a retained contour encloses no area,
// so its centroid is undefined.
var ErrDegenerateRegion = errors.New("degenerate region")

// Centroid is the center of mass of a region in pixel coordinates.
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Region is one measured object.
type Region struct {
	// Index is the position of the region in the measured list, starting at 0.
	// It is the number drawn on the labeled image and printed in the report.
	Index int `json:"index"`

	// Contour is the traced boundary of the object.
	Contour Contour `json:"-"`

	// Box is the bounding box of the contour.
	Box BoundingBox `json:"box"`

	// Area is the polygon area enclosed by the contour, in square pixels.
	Area float64 `json:"area"`

	// Perimeter is the closed arc length of the contour, in pixels.
	Perimeter float64 `json:"perimeter"`

	// Centroid is derived from the zeroth and first polygon moments.
	Centroid Centroid `json:"centroid"`
}

// Measurer turns traced contours into measured regions.
//
// The zero value uses BorderStrict.
type Measurer struct {
	// Policy decides which bounding boxes count as touching the frame.
	Policy BorderPolicy
}

// Measure filters out contours touching the image frame and measures the
// rest.
//
// Parameters:
//   - shape: Image size, shape.X = width and shape.Y = height.
//   - contours: Contours in tracer order.
//
// Returns:
//   - []Region: Retained regions in tracer order, indexed from 0.
//   - error: ErrDegenerateRegion if any retained contour has zero area. No
//     regions are returned in that case.
//
// Outer and hole borders are measured alike; a ring-shaped object yields one
// region for its outer border and one for its hole.
func (m Measurer) Measure(shape image.Point, contours []Contour) ([]Region, error) {
	regions := make([]Region, 0, len(contours))
	for _, c := range contours {
		box := BoundingBoxOf(c.Points)
		if !m.Policy.Inside(box, shape) {
			continue
		}

		moments := PolygonMoments(c.Points)
		cx, cy, ok := moments.Centroid()
		if !ok {
			return nil, fmt.Errorf("%w: contour at (%d,%d) with %d points encloses no area",
				ErrDegenerateRegion, box.X, box.Y, len(c.Points))
		}

		regions = append(regions, Region{
			Index:     len(regions),
			Contour:   c,
			Box:       box,
			Area:      moments.M00,
			Perimeter: ArcLength(c.Points),
			Centroid:  Centroid{X: cx, Y: cy},
		})
	}
	return regions, nil
}

// Areas returns the integer-truncated area of each region, in order.
func Areas(regions []Region) []int {
	areas := make([]int, len(regions))
	for i, r := range regions {
		areas[i] = int(r.Area)
	}
	return areas
}
