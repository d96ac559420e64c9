// Package raster implements a fixed-size pixel surface and the drawing
// primitives the cartoon tools paint with.
//
// Pixels are stored as straight-alpha NRGBA so a PNG snapshot restores
// byte-for-byte. Drawing parameters travel with each call in a Paint value;
// a Surface holds no drawing state of its own.
package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
)

var (
	// ErrOutOfBounds reports a seed or coordinate outside the surface.
	ErrOutOfBounds = errors.New("raster: point outside surface")
	// ErrInvalidGeometry reports a shape that cannot be drawn.
	ErrInvalidGeometry = errors.New("raster: invalid geometry")
	// ErrDecodeFailure reports a snapshot that could not be restored.
	ErrDecodeFailure = errors.New("raster: snapshot decode failed")
)

// Surface is a width x height buffer of NRGBA pixels, initially transparent.
type Surface struct {
	img *image.NRGBA
}

// New allocates a transparent surface.
func New(w, h int) *Surface {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

// FromImage copies src into a new surface of the same size.
func FromImage(src image.Image) *Surface {
	b := src.Bounds()
	s := New(b.Dx(), b.Dy())
	draw.Draw(s.img, s.img.Bounds(), src, b.Min, draw.Src)
	return s
}

// Bounds returns the surface rectangle, always anchored at the origin.
func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Image exposes the backing buffer. Callers must not retain it across
// mutations they do not own.
func (s *Surface) Image() *image.NRGBA { return s.img }

// NRGBAAt returns the pixel at (x, y).
func (s *Surface) NRGBAAt(x, y int) color.NRGBA { return s.img.NRGBAAt(x, y) }

// Clear sets every pixel to transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Fill sets every pixel to c, replacing what was there.
func (s *Surface) Fill(c color.NRGBA) {
	pix := s.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// Clone returns an independent copy.
func (s *Surface) Clone() *Surface {
	img := image.NewNRGBA(s.img.Rect)
	copy(img.Pix, s.img.Pix)
	return &Surface{img: img}
}

// Equal reports whether both surfaces hold identical pixels.
func (s *Surface) Equal(o *Surface) bool {
	if o == nil || s.img.Rect != o.img.Rect {
		return false
	}
	return bytes.Equal(s.img.Pix, o.img.Pix)
}

// Replace swaps in img as the new pixel content. img must match the
// surface size; it is copied, not retained.
func (s *Surface) Replace(img *image.NRGBA) error {
	if img == nil || img.Rect.Dx() != s.Width() || img.Rect.Dy() != s.Height() {
		return ErrInvalidGeometry
	}
	if img.Stride == s.img.Stride && img.Rect.Min == (image.Point{}) {
		copy(s.img.Pix, img.Pix)
		return nil
	}
	draw.Draw(s.img, s.img.Rect, img, img.Rect.Min, draw.Src)
	return nil
}

func (s *Surface) offset(x, y int) int {
	return y*s.img.Stride + x*4
}
