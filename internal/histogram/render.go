package histogram

import (
	"bytes"
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Figure size used when saving or encoding a plot.
const (
	FigureWidth  = 6.4 * vg.Inch
	FigureHeight = 4.8 * vg.Inch
)

// Style controls how a histogram figure is drawn.
type Style struct {
	Title  string
	XLabel string
	YLabel string

	// Fill is the bar color.
	Fill color.Color

	// BarWidth is the drawn width of each bar as a fraction of its bin
	// width, in (0, 1]. Bars stay centered on their bins.
	BarWidth float64
}

// DefaultStyle returns red half-width bars with the area axis labels.
func DefaultStyle() Style {
	return Style{
		Title:    "Object Area Histogram",
		XLabel:   "Area",
		YLabel:   "Number of Objects",
		Fill:     color.RGBA{R: 255, A: 255},
		BarWidth: 0.5,
	}
}

// Render draws an area histogram. Ticks on the x axis sit at the bin edges.
func Render(h *AreaHistogram, s Style) *plot.Plot {
	bins := make([]plotter.HistogramBin, len(h.Counts))
	for i, c := range h.Counts {
		bins[i] = narrowBin(h.Edges[i], h.Edges[i+1], float64(c), s.BarWidth)
	}

	p := newPlot(s)
	p.Add(&plotter.Histogram{
		Bins:      bins,
		FillColor: s.Fill,
		LineStyle: plotter.DefaultLineStyle,
	})

	ticks := make([]plot.Tick, len(h.Edges))
	for i, e := range h.Edges {
		ticks[i] = plot.Tick{Value: e, Label: strconv.FormatFloat(e, 'f', -1, 64)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Min = h.Edges[0]
	p.X.Max = h.Edges[len(h.Edges)-1]
	p.Y.Min = 0
	return p
}

// RenderIntensity draws a raw intensity histogram with one full-width bar
// per sample value.
func RenderIntensity(bins []int, title string) *plot.Plot {
	hb := make([]plotter.HistogramBin, len(bins))
	for i, c := range bins {
		hb[i] = plotter.HistogramBin{Min: float64(i), Max: float64(i + 1), Weight: float64(c)}
	}

	p := newPlot(Style{Title: title, XLabel: "Intensity", YLabel: "Number of Pixels"})
	p.Add(&plotter.Histogram{
		Bins:      hb,
		FillColor: color.RGBA{G: 128, A: 255},
		LineStyle: plotter.DefaultLineStyle,
	})
	p.X.Min = 0
	p.X.Max = float64(len(bins))
	p.Y.Min = 0
	return p
}

func newPlot(s Style) *plot.Plot {
	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = s.XLabel
	p.Y.Label.Text = s.YLabel
	return p
}

// narrowBin shrinks [lo, hi) to frac of its width around its center.
func narrowBin(lo, hi, weight, frac float64) plotter.HistogramBin {
	if frac <= 0 || frac > 1 {
		frac = 1
	}
	center := (lo + hi) / 2
	half := (hi - lo) * frac / 2
	return plotter.HistogramBin{Min: center - half, Max: center + half, Weight: weight}
}

// Save writes the plot to path. The format is taken from the file
// extension (png, svg, pdf, eps, tex, jpg, tif).
func Save(p *plot.Plot, path string) error {
	if err := p.Save(FigureWidth, FigureHeight, path); err != nil {
		return fmt.Errorf("failed to save figure %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Encode renders the plot in the given format ("png", "svg", ...).
func Encode(p *plot.Plot, format string) ([]byte, error) {
	wt, err := p.WriterTo(FigureWidth, FigureHeight, strings.ToLower(format))
	if err != nil {
		return nil, fmt.Errorf("failed to render figure: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode figure: %w", err)
	}
	return buf.Bytes(), nil
}

// SupportedFormat reports whether plots can be written in format.
func SupportedFormat(format string) bool {
	switch strings.ToLower(format) {
	case "png", "svg", "pdf", "eps", "tex", "jpg", "jpeg", "tif", "tiff":
		return true
	default:
		return false
	}
}
