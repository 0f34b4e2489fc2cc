// Package config holds the settings of an object-measurement run.
//
// A Config is built from Default, optionally overlaid with a YAML file
// (Load) and then with command-line flags. It is passed explicitly to the
// pipeline; nothing in this module reads settings from package globals.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-objects/internal/detection"
	"github.com/ironsheep/image-objects/internal/histogram"
	"github.com/ironsheep/image-objects/internal/imaging"
)

// Default values.
const (
	DefaultDestDir         = "out"
	DefaultHistogramFormat = "png"
	DefaultLogLevel        = "info"
)

// EdgeConfig is the YAML form of imaging.EdgeParams.
type EdgeConfig struct {
	Low        float64 `yaml:"low"`
	High       float64 `yaml:"high"`
	Aperture   int     `yaml:"aperture"`
	BlurRadius float64 `yaml:"blur_radius"`
	L2Gradient bool    `yaml:"l2_gradient"`
	ChannelMax bool    `yaml:"channel_max"`
}

// Params converts the edge settings for imaging.ExtractEdges.
func (e EdgeConfig) Params() imaging.EdgeParams {
	return imaging.EdgeParams{
		Low:        e.Low,
		High:       e.High,
		Aperture:   e.Aperture,
		BlurRadius: e.BlurRadius,
		L2Gradient: e.L2Gradient,
		ChannelMax: e.ChannelMax,
	}
}

// Config is the complete configuration of a run.
type Config struct {
	// Save persists artifacts under DestDir instead of displaying them.
	Save bool `yaml:"save"`

	// DestDir is the artifact directory, created if absent.
	DestDir string `yaml:"dest_dir"`

	// Workers is the number of images processed concurrently.
	Workers int `yaml:"workers"`

	// Threshold separates foreground (intensity below it) from background.
	Threshold int `yaml:"threshold"`

	Edge EdgeConfig `yaml:"edge"`

	// BorderPolicy is "strict" or "legacy".
	BorderPolicy string `yaml:"border_policy"`

	// HistogramFormat is the file extension of saved histogram figures.
	HistogramFormat string `yaml:"histogram_format"`

	Palette imaging.PaletteSpec `yaml:"palette"`

	// LogLevel is a zap level name: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration: display mode,
// destination "out", threshold 250, Canny thresholds 9000/12000 with a 5×5
// aperture, strict border exclusion and PNG figures.
func Default() Config {
	p := imaging.DefaultEdgeParams()
	return Config{
		Save:      false,
		DestDir:   DefaultDestDir,
		Workers:   1,
		Threshold: imaging.DefaultThreshold,
		Edge: EdgeConfig{
			Low:        p.Low,
			High:       p.High,
			Aperture:   p.Aperture,
			BlurRadius: p.BlurRadius,
			L2Gradient: p.L2Gradient,
		},
		BorderPolicy:    detection.BorderStrict.String(),
		HistogramFormat: DefaultHistogramFormat,
		LogLevel:        DefaultLogLevel,
	}
}

// Load reads a YAML file over Default. Keys absent from the file keep their
// default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every setting and reports all problems at once.
func (c Config) Validate() error {
	var errs error

	if strings.TrimSpace(c.DestDir) == "" {
		errs = multierr.Append(errs, errors.New("dest_dir must not be empty"))
	}
	if c.Workers < 1 {
		errs = multierr.Append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		errs = multierr.Append(errs, fmt.Errorf("threshold must be in [0,255], got %d", c.Threshold))
	}
	if err := c.Edge.Params().Validate(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := detection.ParseBorderPolicy(c.BorderPolicy); err != nil {
		errs = multierr.Append(errs, err)
	}
	if !histogram.SupportedFormat(c.HistogramFormat) {
		errs = multierr.Append(errs, fmt.Errorf("unsupported histogram format %q", c.HistogramFormat))
	}
	if _, err := imaging.ParsePalette(c.Palette); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = multierr.Append(errs, err)
	}

	return errs
}

// Policy returns the parsed border policy, BorderStrict if it is invalid.
func (c Config) Policy() detection.BorderPolicy {
	p, err := detection.ParseBorderPolicy(c.BorderPolicy)
	if err != nil {
		return detection.BorderStrict
	}
	return p
}

// ResolvedPalette returns the parsed palette, DefaultPalette if it is invalid.
func (c Config) ResolvedPalette() imaging.Palette {
	p, err := imaging.ParsePalette(c.Palette)
	if err != nil {
		return imaging.DefaultPalette()
	}
	return p
}

// ThresholdValue returns Threshold as a sample value, clamped to [0,255].
func (c Config) ThresholdValue() uint8 {
	return uint8(max(0, min(255, c.Threshold)))
}
