//go:build (darwin || windows) && !cgo

package clipboard

import (
	"errors"
	"sync"
)

var (
	initOnce       sync.Once
	initErr        error
	errCGODisabled = errors.New("clipboard operations require cgo support")
)

func ensureInit() error {
	initOnce.Do(func() {
		if needsDisplay && !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		initErr = errCGODisabled
	})
	return initErr
}

// WritePNG reports why the clipboard is unavailable.
func WritePNG([]byte) error {
	return ensureInit()
}

func readPNG() ([]byte, error) {
	return nil, ensureInit()
}

// WriteText reports why the clipboard is unavailable.
func WriteText(string) error {
	return ensureInit()
}
