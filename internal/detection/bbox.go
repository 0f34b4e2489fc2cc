package detection

import (
	"fmt"
	"image"
	"strings"
)

// BoundingBox is the smallest axis-aligned rectangle containing every point
// of a contour. Width and Height count pixels, so a single pixel has a
// 1×1 box.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BoundingBoxOf computes the bounding box of a point sequence.
// An empty sequence yields the zero box.
func BoundingBoxOf(points []Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return BoundingBox{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

// BorderPolicy decides whether a bounding box touches the image frame.
type BorderPolicy int

const (
	// BorderStrict keeps a region only when its box leaves at least one
	// pixel of margin on the left and top and does not reach the right or
	// bottom edge: x > 0, y > 0, x+w < W, y+h < H.
	BorderStrict BorderPolicy = iota

	// BorderLegacy reproduces the historical check, which compares the box
	// origin and size rather than its far corner: x > 0, y > 0, y < W,
	// h < H. It lets through regions touching the right or bottom edge.
	BorderLegacy
)

// String returns the configuration name of the policy.
func (p BorderPolicy) String() string {
	switch p {
	case BorderStrict:
		return "strict"
	case BorderLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseBorderPolicy accepts "strict" or "legacy" (case-insensitive).
// An empty string selects BorderStrict.
func ParseBorderPolicy(s string) (BorderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return BorderStrict, nil
	case "legacy":
		return BorderLegacy, nil
	default:
		return 0, fmt.Errorf("unknown border policy %q (want strict or legacy)", s)
	}
}

// Inside reports whether box counts as interior for an image of the given
// size (shape.X = width, shape.Y = height).
func (p BorderPolicy) Inside(box BoundingBox, shape image.Point) bool {
	if box.X <= 0 || box.Y <= 0 {
		return false
	}
	switch p {
	case BorderLegacy:
		return box.Y < shape.X && box.Height < shape.Y
	default:
		return box.X+box.Width < shape.X && box.Y+box.Height < shape.Y
	}
}
