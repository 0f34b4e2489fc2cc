package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-objects/internal/config"
	"github.com/ironsheep/image-objects/internal/detection"
	"github.com/ironsheep/image-objects/internal/imaging"
)

// Orchestrator drives a batch of images through the Analyzer and hands the
// results to a Sink and a report writer.
type Orchestrator struct {
	cfg      config.Config
	sink     Sink
	log      *zap.Logger
	out      io.Writer
	cache    *imaging.ImageCache
	analyzer *Analyzer
}

// New validates cfg and returns an Orchestrator writing reports to out.
func New(cfg config.Config, sink Sink, log *zap.Logger, out io.Writer) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		cfg:      cfg,
		sink:     sink,
		log:      log,
		out:      out,
		cache:    imaging.NewImageCache(),
		analyzer: NewAnalyzer(cfg, log),
	}, nil
}

// result is one analyzed image waiting to be reported.
type result struct {
	path     string
	name     string
	analysis *Analysis
}

// Run processes paths in order.
//
// All paths are validated first; if any is unusable nothing runs and the
// returned error lists every failure (ErrFileValidation). Then the sink is
// prepared and each image is analyzed, reported and emitted. The first
// failing image aborts the run.
//
// With Workers > 1 images are analyzed concurrently, but reports and
// artifacts are still produced in input order, so the output is identical
// to a sequential run, including when an image fails.
func (o *Orchestrator) Run(ctx context.Context, paths []string) error {
	if err := ValidatePaths(paths); err != nil {
		return err
	}
	if err := o.sink.Prepare(); err != nil {
		return err
	}

	if o.cfg.Workers <= 1 || len(paths) == 1 {
		for _, path := range paths {
			res, err := o.analyze(ctx, path)
			if err != nil {
				return err
			}
			if err := o.flush(ctx, res); err != nil {
				return err
			}
		}
		return nil
	}

	return o.runParallel(ctx, paths)
}

// Close releases the sink. Call it once the Orchestrator is no longer used.
func (o *Orchestrator) Close() error {
	return o.sink.Close()
}

// runParallel analyzes with a worker pool and flushes in input order. A
// failing image never cancels work that comes before it: every earlier image
// is still analyzed and flushed, then the failure is returned. Images after
// the failure are skipped.
func (o *Orchestrator) runParallel(ctx context.Context, paths []string) error {
	results := make([]*result, len(paths))
	errs := make([]error, len(paths))
	ready := make([]chan struct{}, len(paths))
	for i := range ready {
		ready[i] = make(chan struct{})
	}

	// firstFailure only decreases; jobs past it are not worth analyzing.
	var firstFailure atomic.Int64
	firstFailure.Store(int64(len(paths)))
	fail := func(i int) {
		for {
			cur := firstFailure.Load()
			if int64(i) >= cur || firstFailure.CompareAndSwap(cur, int64(i)) {
				return
			}
		}
	}
	skip := func(i int) bool { return int64(i) > firstFailure.Load() }

	// wctx is cancelled only once the flusher is done or the caller gives up.
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := range paths {
			if skip(i) {
				return nil
			}
			select {
			case jobs <- i:
			case <-wctx.Done():
				return nil
			}
		}
		return nil
	})

	for w := 0; w < o.cfg.Workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				if !skip(i) {
					results[i], errs[i] = o.analyze(wctx, paths[i])
					if errs[i] != nil {
						fail(i)
					}
				}
				close(ready[i])
			}
			return nil
		})
	}

	g.Go(func() error {
		defer cancel()
		for i := range paths {
			select {
			case <-ready[i]:
			case <-ctx.Done():
				return ctx.Err()
			}
			if errs[i] != nil {
				return errs[i]
			}
			if err := o.flush(ctx, results[i]); err != nil {
				return err
			}
			results[i] = nil
		}
		return nil
	})

	return g.Wait()
}

func (o *Orchestrator) analyze(ctx context.Context, path string) (*result, error) {
	r, err := o.cache.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer o.cache.Evict(path)

	o.log.Debug("loaded image",
		zap.String("path", path),
		zap.Stringer("kind", r.Kind),
		zap.Int("width", r.Width),
		zap.Int("height", r.Height))

	analysis, err := o.analyzer.Analyze(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &result{path: path, name: imaging.BaseName(path), analysis: analysis}, nil
}

// flush writes the report of one image and emits its artifacts.
func (o *Orchestrator) flush(ctx context.Context, res *result) error {
	var buf bytes.Buffer
	if err := writeImageReport(&buf, res); err != nil {
		return err
	}
	if _, err := o.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	a := res.analysis
	artifacts := []Artifact{
		ImageArtifact{FileName: res.name + "_edge.png", Image: a.EdgeImage},
		ImageArtifact{FileName: res.name + "_objp.png", Image: a.Labels},
		FigureArtifact{FileName: res.name + "_hist." + o.cfg.HistogramFormat, Plot: a.Figure},
	}
	for _, art := range artifacts {
		if err := o.sink.Emit(ctx, art); err != nil {
			return fmt.Errorf("%s: %w", res.path, err)
		}
	}

	o.log.Info("processed image",
		zap.String("path", res.path),
		zap.Int("regions", len(a.Regions)))
	return nil
}

func writeImageReport(w io.Writer, res *result) error {
	if _, err := fmt.Fprintf(w, "image: %s\n", res.path); err != nil {
		return err
	}
	if err := detection.WriteReport(w, res.analysis.Regions); err != nil {
		return err
	}
	h := res.analysis.Histogram
	_, err := fmt.Fprintf(w, "area bins: %v counts: %v\n", h.Edges, h.Counts)
	return err
}
