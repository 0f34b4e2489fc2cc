package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/plot"

	"github.com/ironsheep/image-objects/internal/config"
	"github.com/ironsheep/image-objects/internal/detection"
	"github.com/ironsheep/image-objects/internal/histogram"
	"github.com/ironsheep/image-objects/internal/imaging"
)

// Analysis holds every result computed for one image.
type Analysis struct {
	// Edges is the edge map and EdgeImage its red-on-white rendering.
	Edges     *imaging.Mask
	EdgeImage *image.NRGBA

	// Mask is the foreground mask the regions were traced in.
	Mask *imaging.Mask

	// Regions are the measured objects in tracer order.
	Regions []detection.Region

	// Labels is the mask rendering with region indices drawn on it.
	Labels *image.RGBA

	// Histogram bins the region areas and Figure plots it.
	Histogram *histogram.AreaHistogram
	Figure    *plot.Plot
}

// Analyzer runs every stage of the object pipeline on one raster.
// It holds no per-image state and may be shared by concurrent workers.
type Analyzer struct {
	Edge      imaging.EdgeParams
	Threshold uint8
	Measurer  detection.Measurer
	Palette   imaging.Palette
	Style     histogram.Style

	log *zap.Logger
}

// NewAnalyzer builds an Analyzer from a validated configuration.
func NewAnalyzer(cfg config.Config, log *zap.Logger) *Analyzer {
	return &Analyzer{
		Edge:      cfg.Edge.Params(),
		Threshold: cfg.ThresholdValue(),
		Measurer:  detection.Measurer{Policy: cfg.Policy()},
		Palette:   cfg.ResolvedPalette(),
		Style:     histogram.DefaultStyle(),
		log:       log,
	}
}

// Analyze computes the edge map, the regions and the area histogram.
//
// Every stage runs before anything is returned, so a failing stage leaves
// no partial results. The context is checked between stages.
func (a *Analyzer) Analyze(ctx context.Context, r *imaging.Raster) (*Analysis, error) {
	var res Analysis
	var err error

	stage := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		if err := fn(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		a.log.Debug("stage done", zap.String("stage", name), zap.Duration("took", time.Since(start)))
		return nil
	}

	if err = stage("edges", func() error {
		res.Edges, err = imaging.ExtractEdges(r, a.Edge)
		if err == nil {
			res.EdgeImage = imaging.RenderEdges(res.Edges, a.Palette)
		}
		return err
	}); err != nil {
		return nil, err
	}

	if err = stage("binarize", func() error {
		res.Mask, err = imaging.Binarize(r, a.Threshold)
		return err
	}); err != nil {
		return nil, err
	}

	if err = stage("measure", func() error {
		contours := detection.TraceContours(res.Mask)
		res.Regions, err = a.Measurer.Measure(image.Pt(r.Width, r.Height), contours)
		if err != nil {
			return err
		}
		res.Labels, err = detection.RenderLabels(res.Mask, res.Regions, a.Palette)
		return err
	}); err != nil {
		return nil, err
	}

	if err = stage("histogram", func() error {
		res.Histogram, err = histogram.Build(detection.Areas(res.Regions))
		if err == nil {
			res.Figure = histogram.Render(res.Histogram, a.Style)
		}
		return err
	}); err != nil {
		return nil, err
	}

	return &res, nil
}
