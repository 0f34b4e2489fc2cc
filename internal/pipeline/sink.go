package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Sink receives the artifacts of a run. It is injected once into the
// Orchestrator, so stages never decide between showing and saving.
type Sink interface {
	// Prepare is called once per run before any artifact is emitted.
	Prepare() error

	// Emit shows or stores one artifact.
	Emit(ctx context.Context, a Artifact) error

	// Close releases whatever Prepare acquired. Emitted files that are
	// meant to be kept stay in place.
	Close() error
}

// DirSink persists artifacts into a directory, creating it on Prepare if
// it does not exist. Emit is safe for concurrent use.
type DirSink struct {
	Dir string

	log  *zap.Logger
	once sync.Once
	err  error
}

// NewDirSink returns a sink writing into dir.
func NewDirSink(dir string, log *zap.Logger) *DirSink {
	return &DirSink{Dir: dir, log: log}
}

// Prepare creates the destination directory. Repeated calls are no-ops.
func (s *DirSink) Prepare() error {
	s.once.Do(func() {
		if err := os.MkdirAll(s.Dir, 0755); err != nil {
			s.err = fmt.Errorf("failed to create destination directory: %w", err)
		}
	})
	return s.err
}

// Emit saves the artifact as Dir/<name>.
func (s *DirSink) Emit(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.Dir, a.Name())
	if err := a.Save(path); err != nil {
		return err
	}
	s.log.Debug("saved artifact", zap.String("path", path))
	return nil
}

// Close is a no-op; saved artifacts are the output of the run.
func (s *DirSink) Close() error {
	return nil
}

// DisplaySink shows every artifact instead of keeping it. Artifacts are
// rendered into a private temporary directory and handed to Open.
type DisplaySink struct {
	// Open shows a rendered file. NewDisplaySink sets it to the platform
	// viewer.
	Open func(path string) error

	// Hold, if set, is called by Close before the render directory is
	// removed, giving an asynchronous viewer time to read the files.
	Hold func()

	log   *zap.Logger
	once  sync.Once
	dir   string
	err   error
	shown atomic.Bool
}

// NewDisplaySink returns a sink that shows artifacts with the system viewer
// (or an OpenCV window when built with the gocv tag).
func NewDisplaySink(log *zap.Logger) *DisplaySink {
	return &DisplaySink{Open: showFile, Hold: holdDisplay, log: log}
}

// Prepare creates the temporary render directory. Repeated calls are no-ops.
func (s *DisplaySink) Prepare() error {
	s.once.Do(func() {
		s.dir, s.err = os.MkdirTemp("", "image-objects-")
		if s.err != nil {
			s.err = fmt.Errorf("failed to create display directory: %w", s.err)
		}
	})
	return s.err
}

// Emit renders the artifact and opens it.
func (s *DisplaySink) Emit(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.Prepare(); err != nil {
		return err
	}
	path := filepath.Join(s.dir, a.Name())
	if err := a.Save(path); err != nil {
		return err
	}
	s.log.Debug("displaying artifact", zap.String("path", path))
	s.shown.Store(true)
	if err := s.Open(path); err != nil {
		return fmt.Errorf("failed to display %s: %w", a.Name(), err)
	}
	return nil
}

// Close waits on Hold when anything was shown, then removes the render
// directory.
func (s *DisplaySink) Close() error {
	if s.dir == "" {
		return nil
	}
	if s.shown.Load() && s.Hold != nil {
		s.Hold()
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove display directory: %w", err)
	}
	s.log.Debug("removed display directory", zap.String("dir", s.dir))
	return nil
}

// Dir returns the temporary render directory, empty before Prepare.
func (s *DisplaySink) Dir() string {
	return s.dir
}
