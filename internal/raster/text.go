package raster

import (
	"fmt"
	"image"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultTextSize is used when a caller passes a non-positive size.
const DefaultTextSize = 20

var (
	fontOnce  sync.Once
	regular   *opentype.Font
	fontErr   error
	textFaces sync.Map
)

func faceForSize(size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultTextSize
	}
	size = math.Round(size*4) / 4
	if face, ok := textFaces.Load(size); ok {
		return face.(font.Face), nil
	}
	fontOnce.Do(func() {
		regular, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse font: %w", fontErr)
	}
	face, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	actual, _ := textFaces.LoadOrStore(size, face)
	return actual.(font.Face), nil
}

// MeasureText returns the advance width and line height of text at size.
func MeasureText(text string, size float64) (width, height int, err error) {
	face, err := faceForSize(size)
	if err != nil {
		return 0, 0, err
	}
	d := &font.Drawer{Face: face}
	m := face.Metrics()
	return d.MeasureString(text).Ceil(), m.Ascent.Ceil() + m.Descent.Ceil(), nil
}

// DrawText renders text with its baseline starting at baseline. Glyph
// coverage is thresholded so the stamp composites like any other primitive.
func (s *Surface) DrawText(baseline image.Point, text string, size float64, p Paint) error {
	if text == "" {
		return nil
	}
	face, err := faceForSize(size)
	if err != nil {
		return err
	}
	mask := image.NewAlpha(s.Bounds())
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(baseline.X, baseline.Y),
	}
	d.DrawString(text)
	c := newCoverage(s.Bounds())
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.AlphaAt(x, y).A >= 128 {
				c.set(x, y)
			}
		}
	}
	c.apply(s, p)
	return nil
}
