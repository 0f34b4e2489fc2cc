package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidShape is returned when a raster does not have one or three channels.
var ErrInvalidShape = errors.New("invalid raster shape")

// Kind identifies the channel layout of a Raster.
type Kind int

const (
	// Grayscale rasters carry one 8-bit sample per pixel.
	Grayscale Kind = iota + 1
	// RGB rasters carry three interleaved 8-bit samples per pixel.
	RGB
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Channels returns the number of samples per pixel, or 0 for an unknown kind.
func (k Kind) Channels() int {
	switch k {
	case Grayscale:
		return 1
	case RGB:
		return 3
	default:
		return 0
	}
}

// Raster is an in-memory grid of 8-bit intensity samples.
//
// The variant (Grayscale or RGB) is resolved once when the raster is built,
// so consumers switch on Kind instead of inspecting the sample layout. Pix
// is row-major with Kind.Channels() samples per pixel. A Raster is not
// modified after construction and may be shared by concurrent readers.
type Raster struct {
	Kind   Kind
	Width  int
	Height int
	Pix    []uint8
}

// NewRasterFromSamples builds a raster from raw interleaved samples.
//
// channels must be 1 (grayscale) or 3 (RGB); any other count fails with
// ErrInvalidShape. The samples slice is used without copying.
func NewRasterFromSamples(width, height, channels int, pix []uint8) (*Raster, error) {
	var kind Kind
	switch channels {
	case 1:
		kind = Grayscale
	case 3:
		kind = RGB
	default:
		return nil, fmt.Errorf("%w: %d channels, want 1 or 3", ErrInvalidShape, channels)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidShape, width, height)
	}
	if len(pix) != width*height*channels {
		return nil, fmt.Errorf("%w: %d samples for %dx%dx%d", ErrInvalidShape, len(pix), width, height, channels)
	}
	return &Raster{Kind: kind, Width: width, Height: height, Pix: pix}, nil
}

// FromImage converts a decoded image into a Raster.
//
// Gray and Gray16 images become Grayscale rasters (16-bit samples are
// reduced to their high byte). Every other opaque color model becomes RGB.
// Images carrying a real alpha channel (at least one non-opaque pixel) and
// CMYK images are four-channel sources and fail with ErrInvalidShape.
func FromImage(img image.Image) (*Raster, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidShape)
	}

	switch src := img.(type) {
	case *image.Gray:
		pix := make([]uint8, width*height)
		for y := 0; y < height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+width]
			copy(pix[y*width:], row)
		}
		return &Raster{Kind: Grayscale, Width: width, Height: height, Pix: pix}, nil
	case *image.Gray16:
		pix := make([]uint8, width*height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				pix[y*width+x] = uint8(src.Gray16At(x+bounds.Min.X, y+bounds.Min.Y).Y >> 8)
			}
		}
		return &Raster{Kind: Grayscale, Width: width, Height: height, Pix: pix}, nil
	case *image.CMYK:
		return nil, fmt.Errorf("%w: CMYK image has 4 channels", ErrInvalidShape)
	}

	pix := make([]uint8, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			if a != 0xFFFF {
				return nil, fmt.Errorf("%w: image has an alpha channel", ErrInvalidShape)
			}
			i := (y*width + x) * 3
			pix[i] = uint8(r >> 8)
			pix[i+1] = uint8(g >> 8)
			pix[i+2] = uint8(b >> 8)
		}
	}
	return &Raster{Kind: RGB, Width: width, Height: height, Pix: pix}, nil
}

// Channels returns the number of samples per pixel.
func (r *Raster) Channels() int {
	return r.Kind.Channels()
}

// Bounds returns the raster frame anchored at the origin.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// Luma returns the intensity plane of the raster.
//
// Grayscale rasters are returned as-is. RGB rasters are combined with the
// ITU-R BT.601 weights (0.299, 0.587, 0.114) in 14-bit fixed point, rounded
// to nearest. The result is always a Grayscale raster.
func (r *Raster) Luma() (*Raster, error) {
	switch r.Kind {
	case Grayscale:
		return r, nil
	case RGB:
		pix := make([]uint8, r.Width*r.Height)
		for i := range pix {
			pix[i] = luma(r.Pix[i*3], r.Pix[i*3+1], r.Pix[i*3+2])
		}
		return &Raster{Kind: Grayscale, Width: r.Width, Height: r.Height, Pix: pix}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidShape, r.Kind)
	}
}

// Image returns the raster as a standard library image. Grayscale rasters
// become *image.Gray and RGB rasters become opaque *image.NRGBA.
func (r *Raster) Image() image.Image {
	if r.Kind == Grayscale {
		out := image.NewGray(r.Bounds())
		copy(out.Pix, r.Pix)
		return out
	}
	out := image.NewNRGBA(r.Bounds())
	for i := 0; i < r.Width*r.Height; i++ {
		out.Pix[i*4] = r.Pix[i*3]
		out.Pix[i*4+1] = r.Pix[i*3+1]
		out.Pix[i*4+2] = r.Pix[i*3+2]
		out.Pix[i*4+3] = 0xFF
	}
	return out
}

// luma weights scaled by 1<<14.
const (
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
	lumaShift = 14
)

func luma(r, g, b uint8) uint8 {
	return uint8((int(r)*lumaR + int(g)*lumaG + int(b)*lumaB + 1<<(lumaShift-1)) >> lumaShift)
}

// grayFromImage reads an arbitrary image back into a Grayscale raster using
// the same luma weights. Used after library filters that return RGBA.
func grayFromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pix := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			pix[y*width+x] = luma(c.R, c.G, c.B)
		}
	}
	return &Raster{Kind: Grayscale, Width: width, Height: height, Pix: pix}
}
