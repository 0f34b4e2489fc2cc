package detection

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"
)

// WriteReport prints the console report for one image: the region count,
// one line per region with its index, perimeter and area (both truncated to
// integers), and a summary line with the mean and standard deviation of the
// areas when there is at least one region.
//
// Output depends only on regions, so identical inputs print identical text.
func WriteReport(w io.Writer, regions []Region) error {
	if _, err := fmt.Fprintf(w, "regions: %d\n", len(regions)); err != nil {
		return err
	}
	if len(regions) == 0 {
		return nil
	}

	areas := make([]float64, len(regions))
	for i, r := range regions {
		areas[i] = r.Area
		if _, err := fmt.Fprintf(w, "region:%3d   perimeter:%4d    area:%5d\n",
			r.Index, int(r.Perimeter), int(r.Area)); err != nil {
			return err
		}
	}

	mean, stdDev := areas[0], 0.0
	if len(areas) > 1 {
		mean, stdDev = stat.MeanStdDev(areas, nil)
	}
	_, err := fmt.Fprintf(w, "area mean: %.1f  stddev: %.1f\n", mean, stdDev)
	return err
}
