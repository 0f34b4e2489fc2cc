package histogram

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a histogram is requested over no data.
var ErrEmptyInput = errors.New("empty input")

// Area class boundaries in square pixels. Areas below SmallAreaLimit are
// small, areas below MediumAreaLimit are medium, the rest are large.
const (
	SmallAreaLimit  = 1500
	MediumAreaLimit = 3000
)

// AreaHistogram counts region areas per bin.
//
// Counts[i] is the number of areas a with Edges[i] <= a < Edges[i+1]; the
// last bin also includes its upper edge, so the largest area is always
// counted.
type AreaHistogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// Total returns the number of counted areas.
func (h *AreaHistogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// BinEdges selects the bin edges for a population whose largest area is
// maxArea:
//
//	maxArea < 1500         -> [0, 1500]
//	1500 <= maxArea < 3000 -> [0, 1500, 3000]
//	maxArea >= 3000        -> [0, 1500, 3000, maxArea]
func BinEdges(maxArea int) []float64 {
	switch {
	case maxArea < SmallAreaLimit:
		return []float64{0, SmallAreaLimit}
	case maxArea < MediumAreaLimit:
		return []float64{0, SmallAreaLimit, MediumAreaLimit}
	default:
		return []float64{0, SmallAreaLimit, MediumAreaLimit, float64(maxArea)}
	}
}

// Build bins the areas with BinEdges. It fails with ErrEmptyInput when
// areas is empty, since the edges depend on the maximum.
//
// With maxArea exactly 3000 the last two edges coincide; the final bin
// [3000, 3000] then holds the areas equal to 3000.
func Build(areas []int) (*AreaHistogram, error) {
	if len(areas) == 0 {
		return nil, fmt.Errorf("area histogram: %w", ErrEmptyInput)
	}

	maxArea := areas[0]
	for _, a := range areas[1:] {
		maxArea = max(maxArea, a)
	}

	edges := BinEdges(maxArea)
	counts := make([]int, len(edges)-1)
	last := len(counts) - 1
	for _, a := range areas {
		v := float64(a)
		for i := 0; i <= last; i++ {
			if v >= edges[i] && (v < edges[i+1] || (i == last && v <= edges[i+1])) {
				counts[i]++
				break
			}
		}
	}

	return &AreaHistogram{Edges: edges, Counts: counts}, nil
}
