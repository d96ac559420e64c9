package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// Snapshot is an encoded, self-contained copy of a surface's pixels.
type Snapshot []byte

var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Snapshot encodes the surface as PNG.
func (s *Surface) Snapshot() Snapshot {
	return Encode(s.img)
}

// Encode writes img as a PNG snapshot.
func Encode(img image.Image) Snapshot {
	var buf bytes.Buffer
	// Encoding an in-memory image into a bytes.Buffer cannot fail.
	_ = encoder.Encode(&buf, img)
	return buf.Bytes()
}

// Decode parses snap and checks it is w x h. It never touches a surface, so
// it is safe to run off the loop goroutine.
func Decode(snap Snapshot, w, h int) (*image.NRGBA, error) {
	if len(snap) == 0 {
		return nil, fmt.Errorf("empty snapshot: %w", ErrDecodeFailure)
	}
	img, err := png.Decode(bytes.NewReader(snap))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	b := img.Bounds()
	if b.Dx() != w || b.Dy() != h {
		return nil, fmt.Errorf("%w: snapshot is %dx%d, want %dx%d", ErrDecodeFailure, b.Dx(), b.Dy(), w, h)
	}
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n, nil
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	return out, nil
}

// Restore decodes snap and replaces the surface pixels. On failure the
// surface is left untouched.
func (s *Surface) Restore(snap Snapshot) error {
	img, err := Decode(snap, s.Width(), s.Height())
	if err != nil {
		return err
	}
	return s.Replace(img)
}
