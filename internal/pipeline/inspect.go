package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/image-objects/internal/histogram"
	"github.com/ironsheep/image-objects/internal/imaging"
)

// InspectOptions selects the optional outputs of Inspect.
type InspectOptions struct {
	// Invert emits <name>_inv.png with every sample x replaced by |x-255|.
	Invert bool

	// Normalize emits <name>_norm.png with samples rescaled linearly into
	// the image's own [min, max] range.
	Normalize bool
}

// Inspect prints intensity statistics for each image and emits its raw
// intensity histogram (<name>_ihist.<ext>), plus the optional inverted and
// normalized images. Paths are validated like Run.
func (o *Orchestrator) Inspect(ctx context.Context, paths []string, opts InspectOptions) error {
	if err := ValidatePaths(paths); err != nil {
		return err
	}
	if err := o.sink.Prepare(); err != nil {
		return err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.inspect(ctx, path, opts); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func (o *Orchestrator) inspect(ctx context.Context, path string, opts InspectOptions) error {
	r, err := o.cache.Load(path)
	if err != nil {
		return err
	}
	defer o.cache.Evict(path)

	name := imaging.BaseName(path)
	stats := imaging.Stats(r)
	if _, err := fmt.Fprintf(o.out, "image: %s\nwidth: %d\nheight: %d\nmin: %d\nmax: %d\nmean: %.2f\n",
		path, stats.Width, stats.Height, stats.Min, stats.Max, stats.Mean); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	artifacts := []Artifact{
		FigureArtifact{
			FileName: name + "_ihist." + o.cfg.HistogramFormat,
			Plot:     histogram.RenderIntensity(imaging.IntensityHistogram(r), name),
		},
	}
	if opts.Invert {
		inv, err := imaging.Invert(r)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, ImageArtifact{FileName: name + "_inv.png", Image: inv.Image()})
	}
	if opts.Normalize {
		norm, err := imaging.Rescale(r, stats.Min, stats.Max)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, ImageArtifact{FileName: name + "_norm.png", Image: norm.Image()})
	}

	for _, a := range artifacts {
		if err := o.sink.Emit(ctx, a); err != nil {
			return err
		}
	}
	o.log.Info("inspected image", zap.String("path", path), zap.Int("artifacts", len(artifacts)))
	return nil
}
