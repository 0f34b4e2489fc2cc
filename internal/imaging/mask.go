package imaging

import (
	"image"
)

// Mask values.
const (
	Off uint8 = 0
	On  uint8 = 255
)

// Mask is a binary W×H grid with one byte per pixel, either Off or On.
//
// The same type carries both edge maps (On = edge pixel) and binary masks
// (On = foreground pixel).
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask allocates an all-Off mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// At reports whether the pixel at (x, y) is On. Pixels outside the frame are Off.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != Off
}

// Set switches the pixel at (x, y) On or Off.
func (m *Mask) Set(x, y int, on bool) {
	if on {
		m.Pix[y*m.Width+x] = On
	} else {
		m.Pix[y*m.Width+x] = Off
	}
}

// Count returns the number of On pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != Off {
			n++
		}
	}
	return n
}

// Gray returns the mask as an 8-bit grayscale image (Off = 0, On = 255).
func (m *Mask) Gray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	copy(out.Pix, m.Pix)
	return out
}
