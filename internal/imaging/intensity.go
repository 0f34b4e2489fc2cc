package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
	"gonum.org/v1/gonum/stat"
)

// IntensityStats summarizes the samples of a raster.
type IntensityStats struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Min    uint8   `json:"min"`
	Max    uint8   `json:"max"`
	Mean   float64 `json:"mean"`
}

// Stats computes width, height and the minimum, maximum and mean sample
// value. For RGB rasters every channel sample counts, as if the raster had
// been flattened.
func Stats(r *Raster) IntensityStats {
	samples := make([]float64, len(r.Pix))
	lo, hi := uint8(255), uint8(0)
	for i, v := range r.Pix {
		samples[i] = float64(v)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return IntensityStats{
		Width:  r.Width,
		Height: r.Height,
		Min:    lo,
		Max:    hi,
		Mean:   stat.Mean(samples, nil),
	}
}

// IntensityHistogram returns 256 bins counting every sample value.
// RGB rasters contribute three samples per pixel.
func IntensityHistogram(r *Raster) []int {
	h := histogram.NewRGBAHistogram(r.Image())
	bins := make([]int, 256)
	for i := range bins {
		switch r.Kind {
		case Grayscale:
			bins[i] = h.R.Bins[i]
		default:
			bins[i] = h.R.Bins[i] + h.G.Bins[i] + h.B.Bins[i]
		}
	}
	return bins
}

// Invert maps every sample x to |x-255|.
func Invert(r *Raster) (*Raster, error) {
	return rasterFromImage(effect.Invert(r.Image()), r.Kind)
}

// Rescale maps samples linearly from [0,255] into [lo,hi]:
// x*(hi-lo)/255 + lo, truncated to an integer.
func Rescale(r *Raster, lo, hi uint8) (*Raster, error) {
	if lo > hi {
		return nil, fmt.Errorf("%w: rescale range [%d,%d]", ErrInvalidParameter, lo, hi)
	}
	scale := (float64(hi) - float64(lo)) / 255
	rescale := func(v uint8) uint8 {
		return uint8(float64(v)*scale + float64(lo))
	}
	out := adjust.Apply(r.Image(), func(c color.RGBA) color.RGBA {
		return color.RGBA{R: rescale(c.R), G: rescale(c.G), B: rescale(c.B), A: c.A}
	})
	return rasterFromImage(out, r.Kind)
}

func rasterFromImage(img *image.RGBA, kind Kind) (*Raster, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	switch kind {
	case Grayscale:
		pix := make([]uint8, width*height)
		for i := range pix {
			pix[i] = img.Pix[i*4]
		}
		return NewRasterFromSamples(width, height, 1, pix)
	case RGB:
		pix := make([]uint8, width*height*3)
		for i := 0; i < width*height; i++ {
			copy(pix[i*3:i*3+3], img.Pix[i*4:i*4+3])
		}
		return NewRasterFromSamples(width, height, 3, pix)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidShape, kind)
	}
}
