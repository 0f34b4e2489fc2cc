package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// ErrFileValidation is returned when an input path is unusable.
var ErrFileValidation = errors.New("file validation failed")

// ValidatePaths checks that every path names an existing regular file with
// a .png extension. All failures are collected; each one wraps
// ErrFileValidation and can be listed with multierr.Errors.
func ValidatePaths(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: no input files", ErrFileValidation)
	}

	var errs error
	for _, path := range paths {
		errs = multierr.Append(errs, validatePath(path))
	}
	return errs
}

func validatePath(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s: file does not exist", ErrFileValidation, path)
	case err != nil:
		return fmt.Errorf("%w: %s: %v", ErrFileValidation, path, err)
	case !info.Mode().IsRegular():
		return fmt.Errorf("%w: %s: not a regular file", ErrFileValidation, path)
	}

	if ext := filepath.Ext(path); ext != ".png" {
		return fmt.Errorf("%w: %s: unsupported extension %q (want .png)", ErrFileValidation, path, ext)
	}
	return nil
}
