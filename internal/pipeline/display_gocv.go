//go:build gocv

package pipeline

import (
	"fmt"
	"path/filepath"

	"gocv.io/x/gocv"
)

// holdDisplay is nil: showFile already blocks until the window is dismissed.
var holdDisplay func()

// showFile shows the file in an OpenCV window and blocks until a key is
// pressed.
func showFile(path string) error {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return fmt.Errorf("failed to read %s", path)
	}

	window := gocv.NewWindow(filepath.Base(path))
	defer window.Close()

	window.IMShow(mat)
	window.WaitKey(0)
	return nil
}
