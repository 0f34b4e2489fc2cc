package imaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache provides thread-safe caching of decoded rasters to avoid redundant disk reads.
//
// The cache stores *Raster values keyed by their file path. Once an image is
// decoded, subsequent Load() calls for the same path return the cached raster
// without disk I/O. Rasters are immutable, so cached values can be handed to
// any number of readers.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached rasters remain in memory until explicitly removed via Evict() or
// Clear(). The batch orchestrator evicts each image once it is done with it;
// the MCP server keeps them for the lifetime of the process.
type ImageCache struct {
	mu      sync.RWMutex
	rasters map[string]*Raster
}

// NewImageCache creates and initializes a new empty raster cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		rasters: make(map[string]*Raster),
	}
}

// Load retrieves a raster from the cache or decodes it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the image.
//
// Returns:
//   - *Raster: The decoded raster, Grayscale or RGB.
//   - error: Non-nil if the file cannot be opened or decoded, or if the
//     decoded image is not a one- or three-channel image (ErrInvalidShape).
//
// The raster is cached using the exact path string provided. Different paths
// to the same file (e.g., relative vs absolute) result in separate entries.
func (c *ImageCache) Load(path string) (*Raster, error) {
	c.mu.RLock()
	if r, ok := c.rasters[path]; ok {
		c.mu.RUnlock()
		return r, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	r, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	c.mu.Lock()
	c.rasters[path] = r
	c.mu.Unlock()

	return r, nil
}

// Clear removes all rasters from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.rasters = make(map[string]*Raster)
	c.mu.Unlock()
}

// Evict removes a specific raster from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.rasters, path)
	c.mu.Unlock()
}

// Len returns the number of cached rasters.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rasters)
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Kind is "grayscale" or "rgb".
	Kind string `json:"kind"`

	// Channels is 1 for grayscale rasters and 3 for RGB rasters.
	Channels int `json:"channels"`

	// Format is the image format derived from the file extension.
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image and returns metadata about it.
//
// The raster is loaded into the cache if not already present. Format is
// the lower-cased file extension without the dot ("png", "jpeg", ...).
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	r, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "jpg" {
		format = "jpeg"
	}
	if format == "" {
		format = "unknown"
	}

	return &ImageInfo{
		Width:         r.Width,
		Height:        r.Height,
		Kind:          r.Kind.String(),
		Channels:      r.Channels(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}

// BaseName returns the file name without directory and without its last
// extension: "data/cells.png" -> "cells". Artifact names are built from it.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
