//go:build (linux || freebsd || openbsd || netbsd || dragonfly || darwin || windows) && cgo

package clipboard

import (
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if needsDisplay && !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

// WritePNG publishes already encoded PNG data to the clipboard.
func WritePNG(data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

func readPNG() ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return clipboard.Read(clipboard.FmtImage), nil
}

// WriteText writes text data to the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
