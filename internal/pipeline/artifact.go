package pipeline

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"gonum.org/v1/plot"

	"github.com/ironsheep/image-objects/internal/histogram"
)

// Artifact is one rendered output of a run: an image or a figure.
type Artifact interface {
	// Name is the file name the artifact is stored under, e.g. "cells_edge.png".
	Name() string

	// Save writes the artifact to path. The format follows the extension.
	Save(path string) error
}

// ImageArtifact is a rendered raster image.
type ImageArtifact struct {
	FileName string
	Image    image.Image
}

// Name returns the artifact file name.
func (a ImageArtifact) Name() string { return a.FileName }

// Save encodes the image to path.
func (a ImageArtifact) Save(path string) error {
	if err := imaging.Save(a.Image, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", a.FileName, err)
	}
	return nil
}

// FigureArtifact is a plotted figure.
type FigureArtifact struct {
	FileName string
	Plot     *plot.Plot
}

// Name returns the artifact file name.
func (a FigureArtifact) Name() string { return a.FileName }

// Save renders the figure to path.
func (a FigureArtifact) Save(path string) error {
	return histogram.Save(a.Plot, path)
}
