package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// ErrInvalidParameter is returned for unusable edge-extraction parameters.
var ErrInvalidParameter = errors.New("invalid parameter")

// EdgeParams configures ExtractEdges.
type EdgeParams struct {
	// Low is the hysteresis lower bound. Pixels whose gradient magnitude is
	// not above Low are never edges.
	Low float64

	// High is the hysteresis upper bound. Pixels above High are strong edges.
	High float64

	// Aperture is the Sobel kernel size: 3, 5 or 7.
	Aperture int

	// BlurRadius applies a Gaussian blur of this radius before the gradient
	// pass. Zero disables it.
	BlurRadius float64

	// L2Gradient selects sqrt(gx²+gy²) as the magnitude instead of |gx|+|gy|.
	L2Gradient bool

	// ChannelMax computes the gradient of each RGB channel and keeps, per
	// pixel, the one with the largest magnitude instead of using luma.
	// Grayscale rasters ignore it.
	ChannelMax bool
}

// DefaultEdgeParams returns the default parameters:
// L1 magnitude on a 5x5 Sobel aperture, thresholds 9000 and 12000.
func DefaultEdgeParams() EdgeParams {
	return EdgeParams{Low: 9000, High: 12000, Aperture: 5}
}

// Validate checks threshold ordering and aperture size.
func (p EdgeParams) Validate() error {
	if p.Low < 0 {
		return fmt.Errorf("%w: low threshold %.1f is negative", ErrInvalidParameter, p.Low)
	}
	if p.Low >= p.High {
		return fmt.Errorf("%w: low threshold %.1f must be below high threshold %.1f", ErrInvalidParameter, p.Low, p.High)
	}
	switch p.Aperture {
	case 3, 5, 7:
	default:
		return fmt.Errorf("%w: aperture %d, want 3, 5 or 7", ErrInvalidParameter, p.Aperture)
	}
	if p.BlurRadius < 0 {
		return fmt.Errorf("%w: blur radius %.1f is negative", ErrInvalidParameter, p.BlurRadius)
	}
	return nil
}

// ExtractEdges computes a binary edge map with Canny-style hysteresis.
//
// Parameters:
//   - r: Source raster (grayscale or RGB).
//   - p: Thresholds, aperture and optional pre-blur. See EdgeParams.
//
// Returns:
//   - *Mask: W×H edge map, On where an edge was found.
//   - error: ErrInvalidParameter if p fails Validate, ErrInvalidShape for an
//     unknown raster kind.
//
// # Algorithm
//
//  1. Grayscale conversion: RGB -> luminance using ITU-R BT.601 weights,
//     unless ChannelMax is set
//
//  2. Optional Gaussian blur (bild/blur) when BlurRadius > 0
//
//  3. Gradient computation: separable Sobel operators of the requested
//     aperture, replicated borders. Magnitude is |Gx|+|Gy| (or the
//     Euclidean norm with L2Gradient)
//
//  4. Non-maximum suppression: keep only local maxima along the gradient
//     direction, quantized to 0°, 45°, 90° and 135°
//
//  5. Hysteresis thresholding:
//     - Pixels above High are strong edges
//     - Pixels above Low are kept only if 8-connected, through other
//     kept pixels, to a strong edge
//     - Everything else is discarded
//
// Magnitudes are not normalized, so thresholds scale with the aperture: for
// 8-bit input a 3x3 Sobel peaks at 4*255 per axis, a 5x5 at 48*255.
func ExtractEdges(r *Raster, p EdgeParams) (*Mask, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	gx, gy, err := gradients(r, p)
	if err != nil {
		return nil, err
	}

	width, height := r.Width, r.Height
	magnitude := make([]float64, width*height)
	for i := range magnitude {
		magnitude[i] = gradientMagnitude(gx[i], gy[i], p.L2Gradient)
	}

	at := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= width || y >= height {
			return 0
		}
		return magnitude[y*width+x]
	}

	// Non-maximum suppression. The comparison is strict on one side so a
	// plateau two pixels wide yields a single edge pixel.
	const (
		tan22 = 0.41421356237 // tan(22.5°)
		tan67 = 2.41421356237 // tan(67.5°)
	)
	suppressed := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag <= p.Low {
				continue
			}

			ax, ay := math.Abs(gx[i]), math.Abs(gy[i])
			var n1, n2 float64
			switch {
			case ay <= ax*tan22:
				n1, n2 = at(x-1, y), at(x+1, y)
			case ay >= ax*tan67:
				n1, n2 = at(x, y-1), at(x, y+1)
			case (gx[i] < 0) != (gy[i] < 0):
				n1, n2 = at(x+1, y-1), at(x-1, y+1)
			default:
				n1, n2 = at(x-1, y-1), at(x+1, y+1)
			}

			if mag > n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	return hysteresis(suppressed, width, height, p.Low, p.High), nil
}

// hysteresis grows strong pixels (> high) through 8-connected candidates
// (> low). The traversal uses an explicit stack, like the flood fill used
// for contour grouping.
func hysteresis(suppressed []float64, width, height int, low, high float64) *Mask {
	edges := NewMask(width, height)
	stack := make([]int, 0, 64)

	for i, v := range suppressed {
		if v > high && edges.Pix[i] == Off {
			edges.Pix[i] = On
			stack = append(stack, i)
		}

		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cx, cy := j%width, j/width

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := cx+dx, cy+dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					k := ny*width + nx
					if edges.Pix[k] == Off && suppressed[k] > low {
						edges.Pix[k] = On
						stack = append(stack, k)
					}
				}
			}
		}
	}
	return edges
}

// gradients returns the Sobel derivatives used by ExtractEdges. By default
// they are taken on the luma plane. With ChannelMax on an RGB raster each
// pixel takes the derivatives of the channel with the largest magnitude.
func gradients(r *Raster, p EdgeParams) (gx, gy []float64, err error) {
	if !p.ChannelMax || r.Kind != RGB {
		gray, err := r.Luma()
		if err != nil {
			return nil, nil, err
		}
		if p.BlurRadius > 0 {
			gray = grayFromImage(blur.Gaussian(gray.Image(), p.BlurRadius))
		}
		gx, gy = sobel(gray, p.Aperture)
		return gx, gy, nil
	}

	n := r.Width * r.Height
	gx, gy = make([]float64, n), make([]float64, n)
	best := make([]float64, n)
	for c := 0; c < 3; c++ {
		plane := &Raster{Kind: Grayscale, Width: r.Width, Height: r.Height, Pix: make([]uint8, n)}
		for i := range plane.Pix {
			plane.Pix[i] = r.Pix[i*3+c]
		}
		if p.BlurRadius > 0 {
			plane = grayFromImage(blur.Gaussian(plane.Image(), p.BlurRadius))
		}
		cx, cy := sobel(plane, p.Aperture)
		for i := range best {
			m := gradientMagnitude(cx[i], cy[i], p.L2Gradient)
			if c == 0 || m > best[i] {
				best[i], gx[i], gy[i] = m, cx[i], cy[i]
			}
		}
	}
	return gx, gy, nil
}

func gradientMagnitude(gx, gy float64, l2 bool) float64 {
	if l2 {
		return math.Sqrt(gx*gx + gy*gy)
	}
	return math.Abs(gx) + math.Abs(gy)
}

// sobel returns the horizontal and vertical derivatives of a grayscale
// raster for the given aperture, computed as separable passes.
func sobel(gray *Raster, aperture int) (gx, gy []float64) {
	smooth, deriv := sobelKernels(aperture)
	width, height := gray.Width, gray.Height

	src := make([]float64, width*height)
	for i, v := range gray.Pix {
		src[i] = float64(v)
	}

	// Gx = deriv along x, smooth along y; Gy the other way round.
	gx = convolveCols(convolveRows(src, width, height, deriv), width, height, smooth)
	gy = convolveCols(convolveRows(src, width, height, smooth), width, height, deriv)
	return gx, gy
}

// sobelKernels builds the 1D smoothing and derivative kernels of a Sobel
// operator: the smoothing kernel is the binomial row of length aperture, the
// derivative kernel is the binomial row of length aperture-2 convolved with
// the central difference [-1 0 1].
func sobelKernels(aperture int) (smooth, deriv []float64) {
	smooth = binomialRow(aperture)
	base := binomialRow(aperture - 2)
	diff := []float64{-1, 0, 1}

	deriv = make([]float64, len(base)+len(diff)-1)
	for i, b := range base {
		for j, d := range diff {
			deriv[i+j] += b * d
		}
	}
	return smooth, deriv
}

func binomialRow(n int) []float64 {
	row := []float64{1}
	for len(row) < n {
		next := make([]float64, len(row)+1)
		for i, v := range row {
			next[i] += v
			next[i+1] += v
		}
		row = next
	}
	return row
}

func convolveRows(src []float64, width, height int, kernel []float64) []float64 {
	radius := len(kernel) / 2
	out := make([]float64, len(src))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for k, kv := range kernel {
				px := clamp(x+k-radius, 0, width-1)
				sum += src[y*width+px] * kv
			}
			out[y*width+x] = sum
		}
	}
	return out
}

func convolveCols(src []float64, width, height int, kernel []float64) []float64 {
	radius := len(kernel) / 2
	out := make([]float64, len(src))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for k, kv := range kernel {
				py := clamp(y+k-radius, 0, height-1)
				sum += src[py*width+x] * kv
			}
			out[y*width+x] = sum
		}
	}
	return out
}

// RenderEdges paints an edge map for display: edge pixels take
// p.Edge (red by default) and all other pixels p.EdgeBackground (white).
func RenderEdges(m *Mask, p Palette) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		c := p.EdgeBackground
		if v != Off {
			c = p.Edge
		}
		out.Pix[i*4] = c.R
		out.Pix[i*4+1] = c.G
		out.Pix[i*4+2] = c.B
		out.Pix[i*4+3] = 0xFF
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
