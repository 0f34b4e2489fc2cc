// Package imaging holds the raster model and the pixel-level stages of the
// object pipeline: loading, edge extraction, thresholding and intensity
// statistics.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Rasters and Masks
//
// A Raster is an immutable W×H grid of 8-bit samples, either Grayscale (one
// sample per pixel) or RGB (three). Images with an alpha channel are
// rejected when loaded. A Mask is a binary W×H grid; ExtractEdges and
// Binarize both produce one.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is
// stateless and may be called concurrently on shared rasters.
//
// # Error Handling
//
// Malformed rasters fail with ErrInvalidShape and bad settings with
// ErrInvalidParameter, both wrapped with context.
package imaging
