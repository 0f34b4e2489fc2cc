package detection

import (
	"fmt"
	"image"
	"strconv"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ironsheep/image-objects/internal/imaging"
)

// Label font scales. Regions at or above LargeRegionArea get the large scale.
const (
	LargeRegionArea  = 1500
	LargeLabelScale  = 0.7
	SmallLabelScale  = 0.4
	labelPixelHeight = 22.0 // face size in pixels at scale 1
)

var labelFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// LabelScale returns the font scale used for a region of the given area.
func LabelScale(area float64) float64 {
	if area >= LargeRegionArea {
		return LargeLabelScale
	}
	return SmallLabelScale
}

// RenderLabels draws the labeled region visualization.
//
// Background mask pixels are painted p.Background and foreground pixels
// p.Foreground. Each region's index is then written in p.Label, centered on
// its centroid, in Go Regular at LabelScale(area).
func RenderLabels(mask *imaging.Mask, regions []Region, p imaging.Palette) (*image.RGBA, error) {
	out := image.NewRGBA(image.Rect(0, 0, mask.Width, mask.Height))
	for i, v := range mask.Pix {
		c := p.Background
		if v != imaging.Off {
			c = p.Foreground
		}
		out.Pix[i*4] = c.R
		out.Pix[i*4+1] = c.G
		out.Pix[i*4+2] = c.B
		out.Pix[i*4+3] = 0xFF
	}
	if len(regions) == 0 {
		return out, nil
	}

	font, err := labelFont()
	if err != nil {
		return nil, fmt.Errorf("failed to parse label font: %w", err)
	}

	dc := gg.NewContextForRGBA(out)
	dc.SetColor(p.Label)
	for _, r := range regions {
		size := LabelScale(r.Area) * labelPixelHeight
		dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: size}))
		dc.DrawStringAnchored(strconv.Itoa(r.Index), r.Centroid.X, r.Centroid.Y, 0.5, 0.5)
	}
	return out, nil
}
