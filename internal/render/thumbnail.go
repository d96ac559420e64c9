package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Checkerboard colours used behind transparent pixels.
var (
	CheckerLight = color.NRGBA{220, 220, 220, 255}
	CheckerDark  = color.NRGBA{192, 192, 192, 255}
)

// Checkerboard fills r in dst with alternating size x size squares.
func Checkerboard(dst draw.Image, r image.Rectangle, size int, light, dark color.Color) {
	if size < 1 {
		size = 8
	}
	r = r.Intersect(dst.Bounds())
	lu := image.NewUniform(light)
	du := image.NewUniform(dark)
	for y := r.Min.Y; y < r.Max.Y; y += size {
		for x := r.Min.X; x < r.Max.X; x += size {
			cell := image.Rect(x, y, x+size, y+size).Intersect(r)
			src := lu
			if ((x-r.Min.X)/size+(y-r.Min.Y)/size)%2 != 0 {
				src = du
			}
			draw.Draw(dst, cell, src, image.Point{}, draw.Src)
		}
	}
}

// OnCheckerboard flattens img over a checkerboard so transparency is
// visible on an opaque display.
func OnCheckerboard(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b.Sub(b.Min))
	Checkerboard(dst, dst.Bounds(), size, CheckerLight, CheckerDark)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// FitRect returns the largest rectangle with src's aspect ratio that fits
// centred inside bounds.
func FitRect(src, bounds image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	bw, bh := bounds.Dx(), bounds.Dy()
	if sw <= 0 || sh <= 0 || bw <= 0 || bh <= 0 {
		return image.Rectangle{Min: bounds.Min, Max: bounds.Min}
	}
	w, h := bw, sh*bw/sw
	if h > bh {
		w, h = sw*bh/sh, bh
	}
	w, h = max(w, 1), max(h, 1)
	off := image.Pt((bw-w)/2, (bh-h)/2)
	return image.Rect(0, 0, w, h).Add(bounds.Min).Add(off)
}

// Thumbnail scales img to fit w x h, keeping its aspect ratio and leaving
// the remainder transparent.
func Thumbnail(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	r := FitRect(img.Bounds(), dst.Bounds())
	xdraw.CatmullRom.Scale(dst, r, img, img.Bounds(), xdraw.Over, nil)
	return dst
}
