package imaging

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the colors used by the rendered artifacts.
type Palette struct {
	Edge           color.RGBA // edge pixels in the edge visualization
	EdgeBackground color.RGBA // non-edge pixels in the edge visualization
	Background     color.RGBA // background pixels in the labeled visualization
	Foreground     color.RGBA // foreground pixels in the labeled visualization
	Label          color.RGBA // region index text
}

// DefaultPalette returns red edges on white, and white objects on a pale red
// background with black labels.
func DefaultPalette() Palette {
	return Palette{
		Edge:           color.RGBA{255, 0, 0, 255},
		EdgeBackground: color.RGBA{255, 255, 255, 255},
		Background:     color.RGBA{255, 50, 50, 255},
		Foreground:     color.RGBA{255, 255, 255, 255},
		Label:          color.RGBA{0, 0, 0, 255},
	}
}

// PaletteSpec is the textual form of a Palette. Empty fields keep the
// default color.
type PaletteSpec struct {
	Edge           string `yaml:"edge"`
	EdgeBackground string `yaml:"edge_background"`
	Background     string `yaml:"background"`
	Foreground     string `yaml:"foreground"`
	Label          string `yaml:"label"`
}

// ParsePalette resolves hex colors ("#RRGGBB") on top of DefaultPalette.
func ParsePalette(spec PaletteSpec) (Palette, error) {
	p := DefaultPalette()
	fields := []struct {
		name string
		hex  string
		dst  *color.RGBA
	}{
		{"edge", spec.Edge, &p.Edge},
		{"edge_background", spec.EdgeBackground, &p.EdgeBackground},
		{"background", spec.Background, &p.Background},
		{"foreground", spec.Foreground, &p.Foreground},
		{"label", spec.Label, &p.Label},
	}
	for _, f := range fields {
		if f.hex == "" {
			continue
		}
		c, err := colorful.Hex(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %s: %w", f.name, err)
		}
		r, g, b := c.RGB255()
		*f.dst = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return p, nil
}

// Hex formats a palette color as "#RRGGBB".
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
