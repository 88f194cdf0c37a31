// Package clipboard copies converted text to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard backend was found.
var ErrUnavailable = errors.New("clipboard not available")

// Write copies text to the system clipboard.
func Write(text string) error {
	if !Available() {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Available checks if clipboard functionality is available.
// On Linux this needs xclip, xsel or wl-clipboard on PATH.
func Available() bool {
	return !clipboard.Unsupported
}
