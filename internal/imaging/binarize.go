package imaging

import (
	"fmt"
)

// DefaultThreshold is the global intensity threshold used when none is configured.
const DefaultThreshold = 250

// Binarize thresholds a raster into a foreground/background mask.
//
// A pixel is foreground (On) when its intensity is strictly below threshold
// and background otherwise. RGB rasters are reduced to luma first; grayscale
// rasters are used directly. Any other kind fails with ErrInvalidShape.
func Binarize(r *Raster, threshold uint8) (*Mask, error) {
	var gray *Raster
	switch r.Kind {
	case Grayscale:
		gray = r
	case RGB:
		var err error
		if gray, err = r.Luma(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("binarize: %w: %s", ErrInvalidShape, r.Kind)
	}

	mask := NewMask(gray.Width, gray.Height)
	for i, v := range gray.Pix {
		if v < threshold {
			mask.Pix[i] = On
		}
	}
	return mask, nil
}
