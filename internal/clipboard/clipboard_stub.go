//go:build !(linux || freebsd || openbsd || netbsd || dragonfly || darwin || windows)

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard operations are not supported on this platform")

// WritePNG reports that the platform has no clipboard support.
func WritePNG([]byte) error {
	return errUnsupported
}

func readPNG() ([]byte, error) {
	return nil, errUnsupported
}

// WriteText reports that the platform has no clipboard support.
func WriteText(string) error {
	return errUnsupported
}
