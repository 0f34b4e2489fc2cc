//go:build !gocv

package pipeline

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/browser"
)

// showFile hands the file to the system's default viewer. The viewer's
// own output goes to stderr so it does not mix with the report on stdout.
func showFile(path string) error {
	browser.Stdout = os.Stderr
	return browser.OpenFile(path)
}

// holdDisplay keeps the rendered files around until the user presses Enter,
// since the system viewer opens them asynchronously.
func holdDisplay() {
	fmt.Fprint(os.Stderr, "press Enter to exit")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}
